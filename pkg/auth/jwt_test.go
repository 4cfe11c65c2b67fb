package auth

import (
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/4-in-a-row-arena/internal/domain"
)

// fixedClock pins Now to a chosen instant.
type fixedClock struct {
	quartz.Clock
	now time.Time
}

func (c fixedClock) Now(...string) time.Time { return c.now }

func clockAt(now time.Time) quartz.Clock {
	return fixedClock{Clock: quartz.NewReal(), now: now}
}

var issuedAt = time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

func TestSeatTokenRoundTrip(t *testing.T) {
	tokens := NewSeatTokens("secret", time.Hour, clockAt(issuedAt))

	token, err := tokens.Issue("game-1", domain.SeatB)
	require.NoError(t, err)

	claims, err := tokens.Validate(token, "game-1")
	require.NoError(t, err)
	assert.Equal(t, domain.SeatB, claims.Seat)
	assert.Equal(t, "game-1", claims.GameID)
}

func TestSeatTokenRejectsOtherGame(t *testing.T) {
	tokens := NewSeatTokens("secret", time.Hour, clockAt(issuedAt))
	token, err := tokens.Issue("game-1", domain.SeatA)
	require.NoError(t, err)

	_, err = tokens.Validate(token, "game-2")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSeatTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewSeatTokens("secret", time.Hour, clockAt(issuedAt)).Issue("game-1", domain.SeatA)
	require.NoError(t, err)

	_, err = NewSeatTokens("other", time.Hour, clockAt(issuedAt)).Validate(token, "game-1")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSeatTokenExpires(t *testing.T) {
	token, err := NewSeatTokens("secret", time.Minute, clockAt(issuedAt)).Issue("game-1", domain.SeatA)
	require.NoError(t, err)

	later := NewSeatTokens("secret", time.Minute, clockAt(issuedAt.Add(2*time.Minute)))
	_, err = later.Validate(token, "game-1")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSeatTokenRejectsGarbage(t *testing.T) {
	_, err := NewSeatTokens("secret", time.Minute, nil).Validate("garbage", "game-1")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
