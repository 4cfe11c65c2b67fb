package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/4-in-a-row-arena/internal/domain"
	"github.com/iamasit07/4-in-a-row-arena/pkg/auth"
)

// statusFor maps a service error to the HTTP status returned to clients.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidMove),
		errors.Is(err, domain.ErrColumnFull),
		errors.Is(err, domain.ErrUnknownSeat):
		return http.StatusBadRequest
	case domain.IsConfigurationError(err),
		errors.Is(err, domain.ErrNotIdle),
		errors.Is(err, domain.ErrNotPlaying),
		errors.Is(err, domain.ErrTurnInProgress),
		errors.Is(err, domain.ErrNotYourTurn),
		errors.Is(err, domain.ErrNotHumanSeat),
		errors.Is(err, domain.ErrNotAwaitingInput):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)
	if status == http.StatusInternalServerError {
		c.AbortWithStatusJSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message})
}
