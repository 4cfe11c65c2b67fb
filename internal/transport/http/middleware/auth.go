package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/4-in-a-row-arena/internal/domain"
	"github.com/iamasit07/4-in-a-row-arena/pkg/auth"
)

const seatKey = "seat"

// SeatAuthMiddleware requires a bearer seat token issued for the game named
// by the :id route parameter and stores the seat in the context.
func SeatAuthMiddleware(tokens *auth.SeatTokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing seat token"})
			return
		}

		claims, err := tokens.Validate(tokenString, c.Param("id"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid seat token"})
			return
		}

		c.Set(seatKey, claims.Seat)
		c.Next()
	}
}

// SeatFromContext returns the seat stored by SeatAuthMiddleware.
func SeatFromContext(c *gin.Context) (domain.SeatID, bool) {
	v, ok := c.Get(seatKey)
	if !ok {
		return domain.Empty, false
	}
	seat, ok := v.(domain.SeatID)
	return seat, ok
}

func bearerToken(header string) (string, bool) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	return token, ok && token != ""
}
