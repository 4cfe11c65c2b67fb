package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/coder/quartz"
	"github.com/golang-jwt/jwt/v5"

	"github.com/iamasit07/4-in-a-row-arena/internal/domain"
)

var ErrInvalidToken = errors.New("invalid seat token")

// SeatClaims authorise moves for one seat of one game.
type SeatClaims struct {
	GameID string        `json:"game_id"`
	Seat   domain.SeatID `json:"seat"`
	jwt.RegisteredClaims
}

// SeatTokens issues and validates HS256 seat tokens.
type SeatTokens struct {
	secret []byte
	ttl    time.Duration
	clock  quartz.Clock
}

func NewSeatTokens(secret string, ttl time.Duration, clock quartz.Clock) *SeatTokens {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &SeatTokens{secret: []byte(secret), ttl: ttl, clock: clock}
}

func (t *SeatTokens) Issue(gameID string, seat domain.SeatID) (string, error) {
	now := t.clock.Now()
	claims := &SeatClaims{
		GameID: gameID,
		Seat:   seat,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%s/%d", gameID, seat),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Validate parses tokenString and checks that it was issued for gameID.
func (t *SeatTokens) Validate(tokenString, gameID string) (*SeatClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SeatClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return t.clock.Now() }), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*SeatClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.GameID != gameID || !domain.IsSeat(claims.Seat) {
		return nil, fmt.Errorf("%w: issued for another game", ErrInvalidToken)
	}
	return claims, nil
}
