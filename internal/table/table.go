// Package table hosts lobbies: players take seats, mark themselves ready and
// the admin starts a match on the shared game engine. A running table
// serializes action submissions and streams redacted deltas to its viewers.
package table

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/magefree/realms-server-go/internal/game"
	"github.com/magefree/realms-server-go/internal/game/rules"
	"github.com/magefree/realms-server-go/internal/game/view"
	"go.uber.org/zap"
)

var (
	ErrTableNotFound  = errors.New("table not found")
	ErrTableFull      = errors.New("table is full")
	ErrSeatTaken      = errors.New("seat name already taken")
	ErrBadToken       = errors.New("unknown seat token")
	ErrNotAdmin       = errors.New("only the table admin may do that")
	ErrNotReady       = errors.New("not every player is ready")
	ErrTooFewPlayers  = errors.New("not enough players")
	ErrAlreadyStarted = errors.New("table already started")
	ErrNotStarted     = errors.New("table has not started")
	ErrActionTimeout  = errors.New("timed out waiting for turn")
	ErrViewerClosed   = errors.New("viewer closed")
)

// TableState represents the lifecycle of a table
type TableState int

const (
	TableStateWaiting TableState = iota
	TableStateInProgress
	TableStateFinished
)

func (s TableState) String() string {
	switch s {
	case TableStateWaiting:
		return "WAITING"
	case TableStateInProgress:
		return "IN_PROGRESS"
	case TableStateFinished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

// Seat is one player's place at a table. Token authenticates the player's
// submissions and is never shown to other players.
type Seat struct {
	Name  string
	Token string
	Ready bool
}

// Viewer receives redacted delta batches in commit order. Seat is
// rules.Spectator for viewers without a seat.
type Viewer struct {
	ID      string
	Seat    int
	Initial *view.Board

	ch     chan []rules.Delta
	closed bool
}

// Updates returns the viewer's delta stream. It is closed when the viewer
// falls behind, unwatches, or the table is removed.
func (v *Viewer) Updates() <-chan []rules.Delta {
	return v.ch
}

// SeatSnapshot is the public part of a seat
type SeatSnapshot struct {
	Name  string `json:"name"`
	Ready bool   `json:"ready"`
	Admin bool   `json:"admin"`
}

// TableSnapshot captures a consistent view of a table for listings.
type TableSnapshot struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Setup      string         `json:"setup"`
	State      string         `json:"state"`
	Seats      []SeatSnapshot `json:"seats"`
	MinPlayers int            `json:"min_players"`
	MaxPlayers int            `json:"max_players"`
	Viewers    int            `json:"viewers"`
	Seed       uint64         `json:"seed,omitempty"`
	CreateTime time.Time      `json:"create_time"`
	StartTime  *time.Time     `json:"start_time,omitempty"`
	EndTime    *time.Time     `json:"end_time,omitempty"`
}

// Table is a lobby and, once started, the match running on it. The table ID
// doubles as the engine game ID.
type Table struct {
	ID         string
	Name       string
	Setup      string
	MinPlayers int
	MaxPlayers int
	State      TableState
	Seed       uint64
	CreateTime time.Time
	StartTime  *time.Time
	EndTime    *time.Time

	engine       *game.Engine
	logger       *zap.Logger
	viewerBuffer int

	mu      sync.RWMutex
	seats   []*Seat
	viewers map[string]*Viewer
	changed chan struct{} // closed and replaced after every commit

	submitMu sync.Mutex // one submission at a time, fan-out included
}

func newTable(name string, opts Options, engine *game.Engine, logger *zap.Logger) *Table {
	return &Table{
		ID:           uuid.New().String(),
		Name:         name,
		Setup:        opts.Setup,
		MinPlayers:   opts.MinPlayers,
		MaxPlayers:   opts.MaxPlayers,
		State:        TableStateWaiting,
		Seed:         opts.Seed,
		CreateTime:   time.Now(),
		engine:       engine,
		logger:       logger,
		viewerBuffer: opts.ViewerBuffer,
		viewers:      make(map[string]*Viewer),
		changed:      make(chan struct{}),
	}
}

// Join seats a player and returns their seat index and token. The first
// player to join is the admin.
func (t *Table) Join(name string) (int, string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.State != TableStateWaiting {
		return 0, "", ErrAlreadyStarted
	}
	if len(t.seats) >= t.MaxPlayers {
		return 0, "", ErrTableFull
	}
	if slices.ContainsFunc(t.seats, func(s *Seat) bool { return s.Name == name }) {
		return 0, "", fmt.Errorf("%q: %w", name, ErrSeatTaken)
	}

	seat := &Seat{Name: name, Token: uuid.New().String()}
	t.seats = append(t.seats, seat)

	t.logger.Info("player joined table",
		zap.String("table_id", t.ID),
		zap.String("player", name),
		zap.Int("seat", len(t.seats)-1),
	)
	return len(t.seats) - 1, seat.Token, nil
}

// Leave frees a seat before the match starts. Later seats shift down.
func (t *Table) Leave(token string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.State != TableStateWaiting {
		return ErrAlreadyStarted
	}
	i, err := t.seatIndex(token)
	if err != nil {
		return err
	}
	name := t.seats[i].Name
	t.seats = slices.Delete(t.seats, i, i+1)

	t.logger.Info("player left table",
		zap.String("table_id", t.ID),
		zap.String("player", name),
	)
	return nil
}

// SetReady toggles a seat's ready flag
func (t *Table) SetReady(token string, ready bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.State != TableStateWaiting {
		return ErrAlreadyStarted
	}
	i, err := t.seatIndex(token)
	if err != nil {
		return err
	}
	t.seats[i].Ready = ready
	return nil
}

// Start deals the match. Only the admin may start, and only once every seat
// is ready and the table has enough players.
func (t *Table) Start(token string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.State != TableStateWaiting {
		return ErrAlreadyStarted
	}
	i, err := t.seatIndex(token)
	if err != nil {
		return err
	}
	if i != 0 {
		return ErrNotAdmin
	}
	if len(t.seats) < t.MinPlayers {
		return fmt.Errorf("%d of %d: %w", len(t.seats), t.MinPlayers, ErrTooFewPlayers)
	}
	for _, s := range t.seats {
		if !s.Ready {
			return fmt.Errorf("%s: %w", s.Name, ErrNotReady)
		}
	}

	names := make([]string, len(t.seats))
	for i, s := range t.seats {
		names[i] = s.Name
	}
	seed, err := t.engine.StartGame(t.ID, names, t.Setup, t.Seed)
	if err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}

	now := time.Now()
	t.Seed = seed
	t.StartTime = &now
	t.State = TableStateInProgress
	t.logger.Info("table started",
		zap.String("table_id", t.ID),
		zap.Strings("players", names),
		zap.Uint64("seed", seed),
	)
	return nil
}

// SeatOf resolves a seat token to its seat index.
func (t *Table) SeatOf(token string) (int, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.seatIndex(token)
}

func (t *Table) seatIndex(token string) (int, error) {
	i := slices.IndexFunc(t.seats, func(s *Seat) bool { return s.Token == token })
	if i < 0 {
		return 0, ErrBadToken
	}
	return i, nil
}

func (t *Table) started() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.State == TableStateWaiting {
		return ErrNotStarted
	}
	return nil
}

// Submit applies an action for the seat holding token. Submissions are
// serialized, and every viewer has received the resulting deltas before the
// next submission is applied.
func (t *Table) Submit(token string, a rules.Action) ([]rules.Delta, error) {
	if err := t.started(); err != nil {
		return nil, err
	}
	seat, err := t.SeatOf(token)
	if err != nil {
		return nil, err
	}

	t.submitMu.Lock()
	defer t.submitMu.Unlock()
	return t.engine.DoAction(t.ID, seat, a)
}

// Watch registers a viewer. An empty token watches as a spectator. The
// returned viewer's Initial board is consistent with the first batch it
// will receive.
func (t *Table) Watch(token string) (*Viewer, error) {
	if err := t.started(); err != nil {
		return nil, err
	}
	seat := rules.Spectator
	if token != "" {
		s, err := t.SeatOf(token)
		if err != nil {
			return nil, err
		}
		seat = s
	}

	t.submitMu.Lock()
	defer t.submitMu.Unlock()

	initial, err := t.engine.View(t.ID, seat)
	if err != nil {
		return nil, err
	}
	v := &Viewer{
		ID:      uuid.New().String(),
		Seat:    seat,
		Initial: initial,
		ch:      make(chan []rules.Delta, t.viewerBuffer),
	}

	t.mu.Lock()
	t.viewers[v.ID] = v
	t.mu.Unlock()

	t.logger.Debug("viewer attached",
		zap.String("table_id", t.ID),
		zap.String("viewer_id", v.ID),
		zap.Int("seat", seat),
	)
	return v, nil
}

// Unwatch detaches a viewer and closes its stream.
func (t *Table) Unwatch(viewerID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	v, ok := t.viewers[viewerID]
	if !ok {
		return ErrViewerClosed
	}
	t.dropLocked(v)
	return nil
}

func (t *Table) dropLocked(v *Viewer) {
	if v.closed {
		return
	}
	v.closed = true
	close(v.ch)
	delete(t.viewers, v.ID)
}

// broadcast fans a committed batch out to every viewer, redacted for each.
// A viewer whose buffer is full is dropped rather than blocking the table.
func (t *Table) broadcast(n game.GameNotification) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch n.Type {
	case game.NotificationDeltas:
		for _, v := range t.viewers {
			select {
			case v.ch <- rules.RedactAll(n.Deltas, v.Seat):
			default:
				t.logger.Warn("dropping slow viewer",
					zap.String("table_id", t.ID),
					zap.String("viewer_id", v.ID),
					zap.Int("seat", v.Seat),
				)
				t.dropLocked(v)
			}
		}
	case game.NotificationGameOver:
		now := time.Now()
		t.State = TableStateFinished
		t.EndTime = &now
		t.logger.Info("table finished",
			zap.String("table_id", t.ID),
			zap.Int("winner", n.Actor),
		)
	}

	close(t.changed)
	t.changed = make(chan struct{})
}

// seatReady reports whether seat may act on v. Seats that can never act
// again get an error instead of a false.
func seatReady(v *view.Board, seat int) (bool, error) {
	if seat < 0 || seat >= len(v.Mats) {
		return false, fmt.Errorf("seat %d: %w", seat, game.ErrBadTarget)
	}
	if v.GameOver {
		return false, game.ErrGameOver
	}
	if v.Mats[seat].Lives == 0 {
		return false, fmt.Errorf("seat %d: %w", seat, game.ErrEliminated)
	}
	return v.CurrentPlayer == seat || v.Mats[seat].MustDiscard > 0, nil
}

// WaitForTurn blocks until seat may act: it is their turn, or they owe
// discards. It returns game.ErrGameOver once the match has ended,
// game.ErrEliminated for a knocked-out seat and ErrActionTimeout if
// timeout passes first.
func (t *Table) WaitForTurn(ctx context.Context, seat int, timeout time.Duration) error {
	if err := t.started(); err != nil {
		return err
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		t.mu.RLock()
		changed := t.changed
		t.mu.RUnlock()

		v, err := t.engine.View(t.ID, rules.Spectator)
		if err != nil {
			return err
		}
		ready, err := seatReady(v, seat)
		if err != nil || ready {
			return err
		}

		select {
		case <-changed:
		case <-timer.C:
			return fmt.Errorf("seat %d after %s: %w", seat, timeout, ErrActionTimeout)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// close detaches every viewer
func (t *Table) close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, v := range t.viewers {
		t.dropLocked(v)
	}
}

// Snapshot returns the table's public state.
func (t *Table) Snapshot() TableSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	seats := make([]SeatSnapshot, len(t.seats))
	for i, s := range t.seats {
		seats[i] = SeatSnapshot{Name: s.Name, Ready: s.Ready, Admin: i == 0}
	}
	snap := TableSnapshot{
		ID:         t.ID,
		Name:       t.Name,
		Setup:      t.Setup,
		State:      t.State.String(),
		Seats:      seats,
		MinPlayers: t.MinPlayers,
		MaxPlayers: t.MaxPlayers,
		Viewers:    len(t.viewers),
		CreateTime: t.CreateTime,
		StartTime:  cloneTime(t.StartTime),
		EndTime:    cloneTime(t.EndTime),
	}
	if t.State != TableStateWaiting {
		snap.Seed = t.Seed
	}
	return snap
}

func cloneTime(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	cp := *src
	return &cp
}
