// Package game holds the authoritative match state machine, the card-effect
// interpreter and the multi-game Engine that hosts matches.
package game

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/magefree/realms-server-go/internal/game/cards"
	"github.com/magefree/realms-server-go/internal/game/rng"
	"github.com/magefree/realms-server-go/internal/game/rules"
	"github.com/magefree/realms-server-go/internal/game/view"
	"go.uber.org/zap"
)

// Notification types
const (
	NotificationDeltas   = "DELTAS"
	NotificationGameOver = "GAME_OVER"
)

// GameNotification carries the unredacted deltas of one committed action.
// Handlers must redact before forwarding to players.
type GameNotification struct {
	Type      string
	GameID    string
	Actor     int
	Deltas    []rules.Delta
	Timestamp time.Time
}

// NotificationHandler receives engine notifications
type NotificationHandler func(notification GameNotification)

// engineGame is one hosted match.
type engineGame struct {
	mu       sync.Mutex
	id       string
	setup    string
	seed     uint64
	board    *Board
	bus      *rules.DeltaBus
	watchers *rules.WatcherRegistry
	handles  []int
	started  time.Time
}

func (g *engineGame) stats() []rules.PlayerStats {
	w, ok := g.watchers.GetWatcher(rules.StatsWatcherKey).(*rules.StatsWatcher)
	if !ok {
		return nil
	}
	return w.Snapshot()
}

// Engine hosts concurrent matches. Each match is serialized by its own
// mutex; different matches never contend.
type Engine struct {
	logger              *zap.Logger
	mu                  sync.RWMutex
	games               map[string]*engineGame
	notificationHandler NotificationHandler
	recorder            *ReplayRecorder
}

// NewEngine creates an engine with no games
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		logger: logger,
		games:  make(map[string]*engineGame),
	}
}

// SetNotificationHandler sets the handler called after every committed
// action. It runs on the submitting goroutine, after the game lock is
// released.
func (e *Engine) SetNotificationHandler(handler NotificationHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.notificationHandler = handler
}

// SetReplayRecorder enables replay recording for games started afterwards.
func (e *Engine) SetReplayRecorder(rr *ReplayRecorder) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recorder = rr
}

func (e *Engine) emitNotification(n GameNotification) {
	e.mu.RLock()
	handler := e.notificationHandler
	e.mu.RUnlock()

	if handler != nil {
		handler(n)
	}
}

// StartGame deals a new match. A zero seed is replaced by a time-derived
// one; the seed actually used is returned so the match can be reproduced.
func (e *Engine) StartGame(gameID string, names []string, setupName string, seed uint64) (uint64, error) {
	if gameID == "" {
		return 0, fmt.Errorf("gameID is required")
	}
	setup, err := cards.SetupByName(setupName)
	if err != nil {
		return 0, err
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	board, err := NewBoard(names, setup, rng.New(seed))
	if err != nil {
		return 0, err
	}

	g := &engineGame{
		id:       gameID,
		setup:    setup.Name,
		seed:     seed,
		board:    board,
		bus:      rules.NewDeltaBus(),
		watchers: rules.NewWatcherRegistry(),
		started:  time.Now(),
	}
	g.watchers.AddWatcher(rules.NewStatsWatcher(len(names)))
	g.handles = append(g.handles,
		g.bus.Subscribe(g.watchers.NotifyWatchers),
		g.bus.SubscribeTyped(rules.DeltaChangeCurrentPlayer, func(d rules.Delta) {
			e.logger.Debug("turn passed", zap.String("game_id", gameID), zap.Int("player", d.Player))
		}),
	)

	e.mu.Lock()
	if _, exists := e.games[gameID]; exists {
		e.mu.Unlock()
		return 0, fmt.Errorf("game %s already exists", gameID)
	}
	e.games[gameID] = g
	recorder := e.recorder
	e.mu.Unlock()

	if recorder != nil {
		recorder.StartRecording(gameID, seed, setup.Name, board.Names())
	}

	e.logger.Info("game started",
		zap.String("game_id", gameID),
		zap.Int("players", len(names)),
		zap.String("setup", setup.Name),
		zap.Uint64("seed", seed),
		zap.Int("first_player", board.CurrentPlayer),
	)
	return seed, nil
}

func (e *Engine) game(gameID string) (*engineGame, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	g, ok := e.games[gameID]
	if !ok {
		return nil, fmt.Errorf("game %s not found", gameID)
	}
	return g, nil
}

// DoAction submits an action for actor. On success the unredacted deltas
// are published to the game's watchers, recorded and returned.
func (e *Engine) DoAction(gameID string, actor int, a rules.Action) ([]rules.Delta, error) {
	g, err := e.game(gameID)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	deltas, err := g.board.DoAction(actor, a)
	if err != nil {
		g.mu.Unlock()
		e.logger.Debug("action rejected",
			zap.String("game_id", gameID),
			zap.Int("player", actor),
			zap.String("action", a.String()),
			zap.Error(err),
		)
		return nil, err
	}
	g.bus.PublishBatch(deltas)
	// Steps are recorded under the game lock so the log keeps commit order.
	e.mu.RLock()
	recorder := e.recorder
	e.mu.RUnlock()
	if recorder != nil {
		recorder.RecordStep(gameID, actor, a, len(deltas))
	}
	gameOver := g.board.GameOver
	g.mu.Unlock()

	e.logger.Debug("action applied",
		zap.String("game_id", gameID),
		zap.Int("player", actor),
		zap.String("action", a.String()),
		zap.Int("deltas", len(deltas)),
	)

	e.emitNotification(GameNotification{
		Type:      NotificationDeltas,
		GameID:    gameID,
		Actor:     actor,
		Deltas:    deltas,
		Timestamp: time.Now(),
	})
	if gameOver {
		e.finish(g)
	}
	return deltas, nil
}

func (e *Engine) finish(g *engineGame) {
	g.mu.Lock()
	winner, _ := g.board.Winner()
	checksum, err := g.board.ComputeChecksum()
	stats := g.stats()
	g.mu.Unlock()

	fields := []zap.Field{
		zap.String("game_id", g.id),
		zap.String("setup", g.setup),
		zap.Uint64("seed", g.seed),
		zap.Int("winner", winner),
		zap.Duration("duration", time.Since(g.started)),
	}
	for i, s := range stats {
		fields = append(fields, zap.Any(fmt.Sprintf("player_%d", i), s))
	}
	e.logger.Info("game over", fields...)

	e.mu.RLock()
	recorder := e.recorder
	e.mu.RUnlock()
	if recorder != nil && err == nil {
		if saveErr := recorder.SaveReplay(g.id, checksum.Hash); saveErr != nil {
			e.logger.Warn("failed to save replay",
				zap.String("game_id", g.id),
				zap.Error(saveErr),
			)
		}
	}

	e.emitNotification(GameNotification{
		Type:      NotificationGameOver,
		GameID:    g.id,
		Actor:     winner,
		Timestamp: time.Now(),
	})
}

// View returns viewer's projection of a game. Pass rules.Spectator for a
// seatless viewer.
func (e *Engine) View(gameID string, viewer int) (*view.Board, error) {
	g, err := e.game(gameID)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if viewer != rules.Spectator && !g.board.validPlayer(viewer) {
		return nil, fmt.Errorf("viewer %d: %w", viewer, ErrBadTarget)
	}
	return g.board.ScopedTo(viewer), nil
}

// Snapshot returns a deep copy of the authoritative board.
func (e *Engine) Snapshot(gameID string) (*Board, error) {
	g, err := e.game(gameID)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.Clone(), nil
}

// Stats returns the per-player tallies of a game
func (e *Engine) Stats(gameID string) ([]rules.PlayerStats, error) {
	g, err := e.game(gameID)
	if err != nil {
		return nil, err
	}
	return g.stats(), nil
}

// Checksum returns the current board hash of a game.
func (e *Engine) Checksum(gameID string) (string, error) {
	g, err := e.game(gameID)
	if err != nil {
		return "", err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	sum, err := g.board.ComputeChecksum()
	if err != nil {
		return "", err
	}
	return sum.Hash, nil
}

// EndGame removes a game. An unfinished recording is discarded.
func (e *Engine) EndGame(gameID string) error {
	e.mu.Lock()
	g, ok := e.games[gameID]
	delete(e.games, gameID)
	recorder := e.recorder
	e.mu.Unlock()

	if !ok {
		return fmt.Errorf("game %s not found", gameID)
	}
	g.mu.Lock()
	for _, h := range g.handles {
		g.bus.Unsubscribe(h)
	}
	g.handles = nil
	g.mu.Unlock()
	if recorder != nil {
		recorder.ClearReplay(gameID)
	}
	e.logger.Info("game removed", zap.String("game_id", gameID))
	return nil
}

// Games lists hosted game IDs in sorted order.
func (e *Engine) Games() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ids := make([]string, 0, len(e.games))
	for id := range e.games {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
