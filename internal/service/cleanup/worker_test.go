package cleanup

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/4-in-a-row-arena/internal/service/game"
)

func TestRunOnceRemovesStaleSessions(t *testing.T) {
	clock := quartz.NewMock(t)
	logger := log.New(io.Discard)
	sm := game.NewSessionManager(game.Options{Clock: clock, Logger: logger})
	sm.CreateSession()

	w := NewWorker(sm, time.Minute, clock, logger)
	assert.Zero(t, w.RunOnce())

	w.MaxAge = -time.Second
	assert.Equal(t, 1, w.RunOnce())
	assert.Zero(t, sm.Count())
}

func TestRunStopsWithContext(t *testing.T) {
	clock := quartz.NewMock(t)
	logger := log.New(io.Discard)
	w := NewWorker(game.NewSessionManager(game.Options{Clock: clock, Logger: logger}), time.Minute, clock, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}
}
