package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/iamasit07/4-in-a-row-arena/internal/domain"
	"github.com/iamasit07/4-in-a-row-arena/internal/service/ai"
	"github.com/iamasit07/4-in-a-row-arena/internal/service/bot"
)

// ScoreStore keeps the ranked results of won games.
type ScoreStore interface {
	Append(ctx context.Context, entry domain.ScoreEntry) (domain.ScoreEntry, error)
	List(ctx context.Context, limit int) ([]domain.ScoreEntry, error)
}

// HistoryRecorder persists finished games.
type HistoryRecorder interface {
	SaveGame(ctx context.Context, record domain.GameRecord) error
}

// Options carries the collaborators shared by every session of a process.
type Options struct {
	AI      AIMover
	Engine  EngineMover
	Scores  ScoreStore
	History HistoryRecorder
	Clock   quartz.Clock
	Logger  *log.Logger

	// DefaultAPIKey is used for AI seats when the session has no key of its own.
	DefaultAPIKey string

	// Autoplay schedules the next turn on its own after Start and after every
	// turn that leaves the game Playing. Without it the caller drives PlayTurn.
	Autoplay bool

	// Context bounds the turns scheduled by autoplay.
	Context context.Context
}

type Listener func(Snapshot)

// Session is the turn orchestrator of one game. All state lives behind mu,
// which is never held across a provider call, a store call or a listener.
type Session struct {
	ID string

	mu             sync.Mutex
	seats          [2]domain.Seat
	game           *domain.Game
	log            domain.GameLog
	epoch          uint64
	version        uint64
	turnInProgress bool
	pending        bool
	cancelTurn     context.CancelFunc
	apiKey         string
	awaiting       domain.SeatID
	humanInput     chan int
	createdAt      time.Time
	startedAt      time.Time
	updatedAt      time.Time
	finishedAt     time.Time

	listenerMu sync.Mutex
	listeners  map[int]Listener
	nextID     int

	opts   Options
	clock  quartz.Clock
	logger *log.Logger
}

func NewSession(id string, opts Options) *Session {
	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Engine == nil {
		opts.Engine = bot.NewEngine(nil)
	}
	if opts.AI == nil {
		opts.AI = ai.NewClient(ai.DefaultConfig(), nil, opts.Clock, nil, opts.Logger)
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}

	now := opts.Clock.Now()
	return &Session{
		ID:        id,
		seats:     domain.DefaultSeats(),
		game:      domain.IdleGame(),
		createdAt: now,
		updatedAt: now,
		listeners: make(map[int]Listener),
		opts:      opts,
		clock:     opts.Clock,
		logger:    opts.Logger.WithPrefix("session").With("game", id),
	}
}

// Start moves an idle session to Playing. Configuration problems are
// returned synchronously and leave the session Idle.
func (s *Session) Start() error {
	s.mu.Lock()
	if s.game.State != domain.StateIdle {
		s.mu.Unlock()
		return domain.ErrNotIdle
	}
	if err := s.validateLocked(); err != nil {
		s.mu.Unlock()
		s.logger.Warn("Refusing to start game", "error", err)
		return err
	}

	s.epoch++
	s.game = domain.NewGame()
	s.log.Clear()
	s.clearTurnLocked()
	for i := range s.seats {
		s.seats[i].Status = domain.StatusWaiting
	}
	s.startedAt = s.clock.Now()
	s.finishedAt = time.Time{}
	s.appendLocked("New game started!", nil)
	s.logger.Info("Game started",
		"epoch", s.epoch,
		"seatA", s.seats[0].DisplayName(),
		"seatB", s.seats[1].DisplayName())

	schedule := s.scheduleLocked()
	snap := s.changedLocked()
	s.mu.Unlock()

	s.publish(snap)
	if schedule {
		go s.runScheduled()
	}
	return nil
}

func (s *Session) validateLocked() error {
	aiSeats := 0
	for _, seat := range s.seats {
		if err := seat.Config.Validate(); err != nil {
			return fmt.Errorf("%s: %w", seat.Label, err)
		}
		if seat.Config.Kind == domain.KindAI {
			aiSeats++
		}
	}

	a, b := s.seats[0].Config, s.seats[1].Config
	if a.Kind == domain.KindAI && b.Kind == domain.KindAI && a.Model == b.Model {
		return domain.ErrDuplicateModel
	}
	if aiSeats > 0 && s.effectiveKeyLocked() == "" {
		return domain.ErrMissingCredentials
	}
	return nil
}

// PlayTurn runs one complete turn for the seat to move: request, apply,
// evaluate, transition. Only one turn can be in flight at a time.
func (s *Session) PlayTurn(ctx context.Context) error {
	s.mu.Lock()
	if s.game.State != domain.StatePlaying {
		s.mu.Unlock()
		return domain.ErrNotPlaying
	}
	if s.turnInProgress {
		s.mu.Unlock()
		return domain.ErrTurnInProgress
	}

	epoch := s.epoch
	seatID := s.game.Current
	idx := domain.SeatIndex(seatID)
	seat := s.seats[idx]
	board := s.game.Board

	turnCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.turnInProgress = true
	s.cancelTurn = cancel
	s.seats[idx].Status = domain.StatusThinking
	provider := s.providerLocked(seat, epoch)
	snap := s.changedLocked()
	s.mu.Unlock()

	s.publish(snap)

	logger := s.logger.With("seat", seat.Label, "epoch", epoch)
	logger.Debug("Requesting move", "kind", seat.Config.Kind)

	column, err := provider.RequestMove(turnCtx, board, seat)

	s.mu.Lock()
	if s.epoch != epoch {
		current := s.epoch
		s.mu.Unlock()
		logger.Info("Discarding stale move", "column", column, "currentEpoch", current)
		return domain.ErrStaleTurn
	}

	s.clearTurnLocked()
	s.seats[idx].Status = domain.StatusWaiting

	if err == nil {
		_, err = s.game.Apply(column)
	}
	if err != nil {
		s.appendLocked("Error: "+err.Error(), &seatID)
		s.game.Abort()
		snap = s.changedLocked()
		s.mu.Unlock()

		logger.Error("Turn failed, game aborted", "column", column, "error", err)
		s.publish(snap)
		return fmt.Errorf("turn for %s: %w", seat.Label, err)
	}

	name := seat.DisplayName()
	s.appendLocked(fmt.Sprintf("%s placed piece in column %d", name, column+1), &seatID)

	var record *domain.GameRecord
	switch s.game.State {
	case domain.StateWinner:
		s.appendLocked(name+" wins!", &seatID)
		record = s.recordLocked(name, domain.ReasonConnectFour)
	case domain.StateDraw:
		s.appendLocked("Game ended in a draw!", nil)
		record = s.recordLocked("", domain.ReasonDraw)
	}

	schedule := s.scheduleLocked()
	snap = s.changedLocked()
	s.mu.Unlock()

	logger.Debug("Move applied", "column", column, "state", snap.State)
	s.publish(snap)

	if record != nil {
		s.persist(context.WithoutCancel(ctx), *record)
	}
	if schedule {
		go s.runScheduled()
	}
	return nil
}

// providerLocked builds the provider for seat's turn. A human seat gets a
// fresh input channel so a late submission can never leak into another turn.
func (s *Session) providerLocked(seat domain.Seat, epoch uint64) MoveProvider {
	switch seat.Config.Kind {
	case domain.KindHuman:
		s.humanInput = make(chan int, 1)
		s.awaiting = seat.ID
		return humanProvider{input: s.humanInput}
	case domain.KindEngine:
		return engineProvider{engine: s.opts.Engine, difficulty: seat.Config.Difficulty}
	default:
		seatID := seat.ID
		return aiProvider{
			client: s.opts.AI,
			apiKey: s.effectiveKeyLocked(),
			notify: func(message string) { s.notice(epoch, &seatID, message) },
		}
	}
}

// notice appends an advisory entry unless the game it belongs to is gone.
func (s *Session) notice(epoch uint64, seat *domain.SeatID, message string) {
	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return
	}
	s.appendLocked(message, seat)
	snap := s.changedLocked()
	s.mu.Unlock()

	s.publish(snap)
}

func (s *Session) recordLocked(winner, reason string) *domain.GameRecord {
	s.finishedAt = s.clock.Now()
	return &domain.GameRecord{
		GameID:          s.ID,
		SeatA:           s.seats[0].DisplayName(),
		SeatB:           s.seats[1].DisplayName(),
		Winner:          winner,
		Reason:          reason,
		TotalMoves:      s.game.MoveCount,
		DurationSeconds: int(s.finishedAt.Sub(s.startedAt).Seconds()),
		StartedAt:       s.startedAt,
		FinishedAt:      s.finishedAt,
		Board:           s.game.Board.Ints(),
	}
}

// persist reports a finished game to the score store and the history. Store
// failures are logged and never affect the session.
func (s *Session) persist(ctx context.Context, record domain.GameRecord) {
	if record.Winner != "" && s.opts.Scores != nil {
		entry, err := s.opts.Scores.Append(ctx, domain.ScoreEntry{
			Name:      record.Winner,
			Score:     domain.WinScore,
			CreatedAt: record.FinishedAt,
		})
		if err != nil {
			s.logger.Error("Error saving score", "winner", record.Winner, "error", err)
		} else {
			s.logger.Info("Score saved", "winner", entry.Name, "id", entry.ID)
		}
	}

	if s.opts.History != nil {
		if err := s.opts.History.SaveGame(ctx, record); err != nil {
			s.logger.Error("Error saving game", "error", err)
		}
	}
}

// scheduleLocked reports whether the caller must start a turn goroutine.
// The pending flag keeps at most one scheduled turn queued.
func (s *Session) scheduleLocked() bool {
	if !s.opts.Autoplay || s.pending || s.turnInProgress || s.game.State != domain.StatePlaying {
		return false
	}
	s.pending = true
	return true
}

func (s *Session) runScheduled() {
	s.mu.Lock()
	s.pending = false
	s.mu.Unlock()

	err := s.PlayTurn(s.opts.Context)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrStaleTurn), errors.Is(err, domain.ErrNotPlaying), errors.Is(err, domain.ErrTurnInProgress):
		s.logger.Debug("Scheduled turn skipped", "reason", err)
	default:
		s.logger.Warn("Scheduled turn ended the game", "error", err)
	}
}

// Reset returns the session to Idle from any state. A turn in flight is
// cancelled and its result, should it still arrive, is discarded.
func (s *Session) Reset() {
	s.mu.Lock()
	if s.cancelTurn != nil {
		s.cancelTurn()
	}
	s.epoch++
	s.game = domain.IdleGame()
	s.log.Clear()
	s.clearTurnLocked()
	for i := range s.seats {
		s.seats[i].Status = domain.StatusIdle
	}
	s.finishedAt = time.Time{}
	s.logger.Info("Game reset", "epoch", s.epoch)
	snap := s.changedLocked()
	s.mu.Unlock()

	s.publish(snap)
}

func (s *Session) clearTurnLocked() {
	s.turnInProgress = false
	s.cancelTurn = nil
	s.awaiting = domain.Empty
	s.humanInput = nil
}

// ConfigureSeat replaces a seat's configuration. Only allowed while Idle.
func (s *Session) ConfigureSeat(seatID domain.SeatID, cfg domain.SeatConfig) error {
	if !domain.IsSeat(seatID) {
		return domain.ErrUnknownSeat
	}
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.game.State != domain.StateIdle {
		s.mu.Unlock()
		return domain.ErrNotIdle
	}
	s.seats[domain.SeatIndex(seatID)].Config = cfg
	snap := s.changedLocked()
	s.mu.Unlock()

	s.logger.Info("Seat configured", "seat", seatID, "kind", cfg.Kind, "model", cfg.Model, "difficulty", cfg.Difficulty)
	s.publish(snap)
	return nil
}

// SetCredentials sets the API key used by AI seats. An empty key falls back
// to the server default.
func (s *Session) SetCredentials(apiKey string) {
	s.mu.Lock()
	s.apiKey = strings.TrimSpace(apiKey)
	snap := s.changedLocked()
	s.mu.Unlock()

	s.publish(snap)
}

func (s *Session) effectiveKeyLocked() string {
	if s.apiKey != "" {
		return s.apiKey
	}
	return s.opts.DefaultAPIKey
}

// SubmitMove delivers a human seat's column to the turn waiting for it.
// Rejected submissions leave the session untouched.
func (s *Session) SubmitMove(seatID domain.SeatID, column int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game.State != domain.StatePlaying {
		return domain.ErrNotPlaying
	}
	if !domain.IsSeat(seatID) {
		return domain.ErrUnknownSeat
	}
	if s.seats[domain.SeatIndex(seatID)].Config.Kind != domain.KindHuman {
		return domain.ErrNotHumanSeat
	}
	if s.game.Current != seatID {
		return domain.ErrNotYourTurn
	}
	if s.awaiting != seatID || s.humanInput == nil {
		return domain.ErrNotAwaitingInput
	}
	if column < 0 || column >= domain.Columns {
		return domain.ErrInvalidMove
	}
	if !domain.IsValidMove(s.game.Board, column) {
		return domain.ErrColumnFull
	}

	s.humanInput <- column
	s.awaiting = domain.Empty
	return nil
}

// Subscribe registers fn for snapshots published after every change and
// returns a function removing it.
func (s *Session) Subscribe(fn Listener) func() {
	s.listenerMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.listenerMu.Unlock()

	return func() {
		s.listenerMu.Lock()
		delete(s.listeners, id)
		s.listenerMu.Unlock()
	}
}

func (s *Session) publish(snap Snapshot) {
	s.listenerMu.Lock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.listenerMu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

func (s *Session) appendLocked(message string, seat *domain.SeatID) {
	s.log.Append(message, seat, s.clock.Now())
}

func (s *Session) State() domain.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.State
}

// Board returns a copy of the current board. It is safe to call while a turn
// is waiting on its provider.
func (s *Session) Board() domain.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Board
}

func (s *Session) Seat(seatID domain.SeatID) domain.Seat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seats[domain.SeatIndex(seatID)]
}

// Stale reports whether the session outlived maxFinished since it ended or
// maxAge since it was last touched.
func (s *Session) Stale(now time.Time, maxFinished, maxAge time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game.IsFinished() && !s.finishedAt.IsZero() && now.Sub(s.finishedAt) > maxFinished {
		return true
	}
	return now.Sub(s.updatedAt) > maxAge
}
