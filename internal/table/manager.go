package table

import (
	"sort"
	"sync"

	"github.com/magefree/realms-server-go/internal/game"
	"github.com/magefree/realms-server-go/internal/game/cards"
	"go.uber.org/zap"
)

// Options configures tables created by a Manager
type Options struct {
	Setup        string
	Seed         uint64 // 0 picks a time-derived seed per table
	MinPlayers   int
	MaxPlayers   int
	ViewerBuffer int // batches buffered per viewer before it is dropped
}

// DefaultOptions returns the standard 2-4 player base-set table.
func DefaultOptions() Options {
	return Options{
		Setup:        cards.SetupBase,
		MinPlayers:   2,
		MaxPlayers:   4,
		ViewerBuffer: 64,
	}
}

// Manager manages tables and routes engine notifications to them.
type Manager struct {
	tables map[string]*Table
	mu     sync.RWMutex
	engine *game.Engine
	opts   Options
	logger *zap.Logger
}

// NewManager creates a table manager on top of engine. It takes over the
// engine's notification handler.
func NewManager(engine *game.Engine, opts Options, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := DefaultOptions()
	if opts.Setup == "" {
		opts.Setup = defaults.Setup
	}
	if opts.MinPlayers < 2 {
		opts.MinPlayers = defaults.MinPlayers
	}
	if opts.MaxPlayers < opts.MinPlayers {
		opts.MaxPlayers = max(defaults.MaxPlayers, opts.MinPlayers)
	}
	if opts.ViewerBuffer <= 0 {
		opts.ViewerBuffer = defaults.ViewerBuffer
	}

	m := &Manager{
		tables: make(map[string]*Table),
		engine: engine,
		opts:   opts,
		logger: logger,
	}
	engine.SetNotificationHandler(m.route)
	return m
}

func (m *Manager) route(n game.GameNotification) {
	t, ok := m.GetTable(n.GameID)
	if !ok {
		m.logger.Warn("notification for unknown table", zap.String("table_id", n.GameID))
		return
	}
	t.broadcast(n)
}

// CreateTable creates a new waiting table
func (m *Manager) CreateTable(name string) *Table {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := newTable(name, m.opts, m.engine, m.logger)
	m.tables[t.ID] = t

	m.logger.Info("table created",
		zap.String("table_id", t.ID),
		zap.String("name", name),
		zap.String("setup", t.Setup),
	)
	return t
}

// GetTable retrieves a table by ID
func (m *Manager) GetTable(tableID string) (*Table, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tables[tableID]
	return t, ok
}

// RemoveTable drops a table, its viewers and its engine game.
func (m *Manager) RemoveTable(tableID string) error {
	m.mu.Lock()
	t, ok := m.tables[tableID]
	delete(m.tables, tableID)
	m.mu.Unlock()

	if !ok {
		return ErrTableNotFound
	}
	t.close()
	if t.started() == nil {
		if err := m.engine.EndGame(tableID); err != nil {
			m.logger.Warn("failed to end game", zap.String("table_id", tableID), zap.Error(err))
		}
	}

	m.logger.Info("table removed", zap.String("table_id", tableID))
	return nil
}

// GetAllTables returns snapshots of every table, oldest first.
func (m *Manager) GetAllTables() []TableSnapshot {
	m.mu.RLock()
	tables := make([]*Table, 0, len(m.tables))
	for _, t := range m.tables {
		tables = append(tables, t)
	}
	m.mu.RUnlock()

	snaps := make([]TableSnapshot, len(tables))
	for i, t := range tables {
		snaps[i] = t.Snapshot()
	}
	sort.Slice(snaps, func(i, j int) bool {
		if snaps[i].CreateTime.Equal(snaps[j].CreateTime) {
			return snaps[i].ID < snaps[j].ID
		}
		return snaps[i].CreateTime.Before(snaps[j].CreateTime)
	})
	return snaps
}

// GetActiveTableCount returns the count of unfinished tables
func (m *Manager) GetActiveTableCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, t := range m.tables {
		t.mu.RLock()
		if t.State != TableStateFinished {
			count++
		}
		t.mu.RUnlock()
	}
	return count
}
