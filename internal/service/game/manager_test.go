package game

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/4-in-a-row-arena/internal/domain"
)

func newTestManager(t *testing.T) (*SessionManager, *quartz.Mock) {
	t.Helper()
	clock := quartz.NewMock(t)
	return NewSessionManager(Options{
		AI:            &scriptedAI{columns: []int{0, 0, 1, 1, 2, 2, 3}},
		Clock:         clock,
		Logger:        log.New(io.Discard),
		DefaultAPIKey: "sk-server",
	}), clock
}

func TestSessionManagerLifecycle(t *testing.T) {
	sm, _ := newTestManager(t)

	first := sm.CreateSession()
	second := sm.CreateSession()
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 2, sm.Count())

	got, err := sm.GetSession(first.ID)
	require.NoError(t, err)
	assert.Same(t, first, got)

	require.NoError(t, sm.RemoveSession(first.ID))
	_, err = sm.GetSession(first.ID)
	assert.ErrorIs(t, err, domain.ErrGameNotFound)
	assert.ErrorIs(t, sm.RemoveSession(first.ID), domain.ErrGameNotFound)

	summaries := sm.List()
	require.Len(t, summaries, 1)
	assert.Equal(t, second.ID, summaries[0].ID)
	assert.Equal(t, domain.StateIdle, summaries[0].State)
}

func TestRemoveSessionResetsIt(t *testing.T) {
	sm, _ := newTestManager(t)
	session := sm.CreateSession()
	require.NoError(t, session.Start())

	require.NoError(t, sm.RemoveSession(session.ID))
	assert.Equal(t, domain.StateIdle, session.State())
}

func TestCleanupOldSessions(t *testing.T) {
	sm, clock := newTestManager(t)
	finished := sm.CreateSession()
	require.NoError(t, finished.Start())
	for i := 0; i < 7; i++ {
		require.NoError(t, finished.PlayTurn(t.Context()))
	}
	require.Equal(t, domain.StateWinner, finished.State())

	idle := sm.CreateSession()
	now := clock.Now()

	assert.Zero(t, sm.CleanupOldSessions(now.Add(30*time.Minute), DefaultFinishedTTL, DefaultMaxAge))
	assert.Equal(t, 2, sm.Count())

	assert.Equal(t, 1, sm.CleanupOldSessions(now.Add(2*time.Hour), DefaultFinishedTTL, DefaultMaxAge))
	_, err := sm.GetSession(finished.ID)
	assert.ErrorIs(t, err, domain.ErrGameNotFound)
	assert.Equal(t, domain.StateIdle, finished.State())

	assert.Equal(t, 1, sm.CleanupOldSessions(now.Add(25*time.Hour), DefaultFinishedTTL, DefaultMaxAge))
	_, err = sm.GetSession(idle.ID)
	assert.ErrorIs(t, err, domain.ErrGameNotFound)
}

func TestShutdownResetsSessions(t *testing.T) {
	sm, _ := newTestManager(t)
	session := sm.CreateSession()
	require.NoError(t, session.Start())

	sm.Shutdown()

	assert.Zero(t, sm.Count())
	assert.Equal(t, domain.StateIdle, session.State())
}

func TestRemoveHooks(t *testing.T) {
	sm, clock := newTestManager(t)
	var removed []string
	sm.OnRemove(func(gameID string) { removed = append(removed, gameID) })

	deleted := sm.CreateSession()
	require.NoError(t, sm.RemoveSession(deleted.ID))
	assert.Equal(t, []string{deleted.ID}, removed)

	stale := sm.CreateSession()
	require.Equal(t, 1, sm.CleanupOldSessions(clock.Now().Add(25*time.Hour), DefaultFinishedTTL, DefaultMaxAge))
	assert.Equal(t, []string{deleted.ID, stale.ID}, removed)

	last := sm.CreateSession()
	sm.Shutdown()
	assert.Equal(t, []string{deleted.ID, stale.ID, last.ID}, removed)

	assert.ErrorIs(t, sm.RemoveSession(deleted.ID), domain.ErrGameNotFound)
	assert.Len(t, removed, 3)
}
