package rules

import "sync"

// Watcher observes committed deltas and tracks some condition or tally.
type Watcher interface {
	// Watch is called for every committed delta, in order.
	Watch(d Delta)

	// Key identifies the watcher in a registry.
	Key() string
}

// WatcherRegistry manages the watchers of one game.
type WatcherRegistry struct {
	mu       sync.RWMutex
	watchers map[string]Watcher
	order    []string
}

// NewWatcherRegistry creates an empty registry
func NewWatcherRegistry() *WatcherRegistry {
	return &WatcherRegistry{watchers: make(map[string]Watcher)}
}

// AddWatcher registers w, replacing any watcher with the same key.
func (wr *WatcherRegistry) AddWatcher(w Watcher) {
	if w == nil {
		return
	}
	wr.mu.Lock()
	defer wr.mu.Unlock()
	if _, exists := wr.watchers[w.Key()]; !exists {
		wr.order = append(wr.order, w.Key())
	}
	wr.watchers[w.Key()] = w
}

// GetWatcher retrieves a watcher by key.
func (wr *WatcherRegistry) GetWatcher(key string) Watcher {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	return wr.watchers[key]
}

// NotifyWatchers forwards d to every watcher in registration order.
func (wr *WatcherRegistry) NotifyWatchers(d Delta) {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	for _, key := range wr.order {
		wr.watchers[key].Watch(d)
	}
}

// PlayerStats is the per-seat tally kept by StatsWatcher.
type PlayerStats struct {
	Turns           int `json:"turns"`
	DamageTaken     int `json:"damage_taken"`
	CardsAcquired   int `json:"cards_acquired"`
	CardsSacrificed int `json:"cards_sacrificed"`
	ChampionsLost   int `json:"champions_lost"`
}

// StatsWatcher tallies match statistics from the unredacted delta stream.
type StatsWatcher struct {
	mu    sync.Mutex
	stats []PlayerStats
}

// StatsWatcherKey is the registry key of StatsWatcher
const StatsWatcherKey = "stats"

// NewStatsWatcher creates a watcher for a table of the given size.
func NewStatsWatcher(players int) *StatsWatcher {
	return &StatsWatcher{stats: make([]PlayerStats, players)}
}

func (w *StatsWatcher) Key() string { return StatsWatcherKey }

func (w *StatsWatcher) seat(p int) *PlayerStats {
	if p < 0 || p >= len(w.stats) {
		return nil
	}
	return &w.stats[p]
}

func (w *StatsWatcher) Watch(d Delta) {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch d.Type {
	case DeltaChangeCurrentPlayer:
		if s := w.seat(d.Player); s != nil {
			s.Turns++
		}
	case DeltaDecreaseHealth:
		if s := w.seat(d.Player); s != nil {
			s.DamageTaken += d.Amount
		}
	case DeltaMove:
		w.watchMove(d)
	}
}

func (w *StatsWatcher) watchMove(d Delta) {
	switch {
	case (d.From.Zone == ZoneShop || d.From.Zone == ZoneFireGems) && d.To.Zone.Owned():
		if s := w.seat(d.To.Player); s != nil {
			s.CardsAcquired++
		}
	case d.To.Zone == ZoneSacrifice && d.From.Zone.Owned():
		if s := w.seat(d.From.Player); s != nil {
			s.CardsSacrificed++
		}
	case d.From.Zone == ZoneField && d.To.Zone == ZoneDiscard && d.Card.IsChampion():
		if s := w.seat(d.From.Player); s != nil {
			s.ChampionsLost++
		}
	}
}

// Snapshot returns a copy of the current tallies.
func (w *StatsWatcher) Snapshot() []PlayerStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]PlayerStats, len(w.stats))
	copy(out, w.stats)
	return out
}
