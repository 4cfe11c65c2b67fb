package game

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/iamasit07/4-in-a-row-arena/internal/domain"
	"github.com/iamasit07/4-in-a-row-arena/pkg/uid"
)

const (
	DefaultFinishedTTL = time.Hour
	DefaultMaxAge      = 24 * time.Hour
)

// SessionManager owns the live sessions of the process.
type SessionManager struct {
	Sessions map[string]*Session // gameID → Session
	mu       sync.RWMutex
	opts     Options
	logger   *log.Logger

	removeHooks []func(gameID string)
}

func NewSessionManager(opts Options) *SessionManager {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &SessionManager{
		Sessions: make(map[string]*Session),
		opts:     opts,
		logger:   opts.Logger.WithPrefix("sessions"),
	}
}

// Options returns the collaborators sessions are created with.
func (sm *SessionManager) Options() Options {
	return sm.opts
}

// OnRemove registers fn to run after a session has been removed, whether by
// RemoveSession, by cleanup or by Shutdown.
func (sm *SessionManager) OnRemove(fn func(gameID string)) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.removeHooks = append(sm.removeHooks, fn)
}

func (sm *SessionManager) removed(gameIDs ...string) {
	sm.mu.RLock()
	hooks := slices.Clone(sm.removeHooks)
	sm.mu.RUnlock()

	for _, gameID := range gameIDs {
		for _, fn := range hooks {
			fn(gameID)
		}
	}
}

// CreateSession registers a new idle session with the default seats.
func (sm *SessionManager) CreateSession() *Session {
	session := NewSession(uid.GenerateGameID(), sm.opts)

	sm.mu.Lock()
	sm.Sessions[session.ID] = session
	count := len(sm.Sessions)
	sm.mu.Unlock()

	sm.logger.Info("Created session", "game", session.ID, "live", count)
	return session
}

func (sm *SessionManager) GetSession(gameID string) (*Session, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.Sessions[gameID]
	if !exists {
		return nil, domain.ErrGameNotFound
	}
	return session, nil
}

// RemoveSession resets the session, abandoning any turn in flight, and
// forgets it.
func (sm *SessionManager) RemoveSession(gameID string) error {
	sm.mu.Lock()
	session, exists := sm.Sessions[gameID]
	if exists {
		delete(sm.Sessions, gameID)
	}
	sm.mu.Unlock()

	if !exists {
		return domain.ErrGameNotFound
	}

	session.Reset()
	sm.removed(gameID)
	sm.logger.Info("Removed session", "game", gameID)
	return nil
}

// List returns a summary per live session, most recently updated first.
func (sm *SessionManager) List() []Summary {
	sm.mu.RLock()
	sessions := make([]*Session, 0, len(sm.Sessions))
	for _, session := range sm.Sessions {
		sessions = append(sessions, session)
	}
	sm.mu.RUnlock()

	summaries := make([]Summary, 0, len(sessions))
	for _, session := range sessions {
		summaries = append(summaries, session.Summary())
	}
	slices.SortFunc(summaries, func(a, b Summary) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return summaries
}

func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.Sessions)
}

// CleanupOldSessions drops sessions finished for longer than finishedTTL and
// sessions untouched for longer than maxAge. It returns how many were removed.
func (sm *SessionManager) CleanupOldSessions(now time.Time, finishedTTL, maxAge time.Duration) int {
	sm.mu.Lock()
	var stale []*Session
	for gameID, session := range sm.Sessions {
		if session.Stale(now, finishedTTL, maxAge) {
			delete(sm.Sessions, gameID)
			stale = append(stale, session)
		}
	}
	sm.mu.Unlock()

	for _, session := range stale {
		session.Reset()
		sm.removed(session.ID)
	}

	if len(stale) > 0 {
		sm.logger.Info("Memory cleanup: removed stale game sessions", "count", len(stale))
	}
	return len(stale)
}

// Shutdown resets every live session so pending turns stop.
func (sm *SessionManager) Shutdown() {
	sm.mu.Lock()
	sessions := sm.Sessions
	sm.Sessions = make(map[string]*Session)
	sm.mu.Unlock()

	for _, session := range sessions {
		session.Reset()
		sm.removed(session.ID)
	}
}
