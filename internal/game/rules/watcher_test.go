package rules

import (
	"testing"

	"github.com/magefree/realms-server-go/internal/game/cards"
)

type countingWatcher struct {
	key   string
	count int
}

func (w *countingWatcher) Watch(Delta) { w.count++ }
func (w *countingWatcher) Key() string { return w.key }

func TestWatcherRegistry(t *testing.T) {
	registry := NewWatcherRegistry()
	w := &countingWatcher{key: "counting"}
	registry.AddWatcher(w)

	if registry.GetWatcher("counting") == nil {
		t.Fatal("should retrieve counting watcher")
	}

	registry.NotifyWatchers(GameOver())
	registry.NotifyWatchers(ShuffleDeck(0))
	if w.count != 2 {
		t.Fatalf("expected 2 notifications, got %d", w.count)
	}

	replacement := &countingWatcher{key: "counting"}
	registry.AddWatcher(replacement)
	registry.AddWatcher(nil)
	registry.NotifyWatchers(GameOver())
	if w.count != 2 || replacement.count != 1 {
		t.Fatalf("a watcher with the same key should replace the old one, got %d and %d", w.count, replacement.count)
	}
	if registry.GetWatcher("missing") != nil {
		t.Fatal("unknown key should return nil")
	}
}

func TestStatsWatcherTallies(t *testing.T) {
	w := NewStatsWatcher(2)

	deltas := []Delta{
		Move(Shop, 2, Discard(0), cards.OrcGrunt),
		Move(FireGems, 0, Discard(0), cards.FireGem),
		Move(Field(1), 0, Sacrifice, cards.FireGem),
		Move(Hand(1), 3, Sacrifice, cards.Gold),
		DecreaseHealth(1, 7),
		DecreaseHealth(1, 2),
		Move(Field(1), 1, Discard(1), cards.OrcGrunt),
		Move(Field(0), 0, Discard(0), cards.Gold),
		ChangeCurrentPlayer(1),
		ChangeCurrentPlayer(0),
		ChangeCurrentPlayer(1),
	}
	for _, d := range deltas {
		w.Watch(d)
	}

	stats := w.Snapshot()
	if stats[0].CardsAcquired != 2 {
		t.Fatalf("expected 2 acquisitions for seat 0, got %d", stats[0].CardsAcquired)
	}
	if stats[1].CardsSacrificed != 2 {
		t.Fatalf("expected 2 sacrifices for seat 1, got %d", stats[1].CardsSacrificed)
	}
	if stats[1].DamageTaken != 9 {
		t.Fatalf("expected 9 damage for seat 1, got %d", stats[1].DamageTaken)
	}
	if stats[1].ChampionsLost != 1 || stats[0].ChampionsLost != 0 {
		t.Fatalf("expected only seat 1 to lose a champion, got %+v", stats)
	}
	if stats[0].Turns != 1 || stats[1].Turns != 2 {
		t.Fatalf("unexpected turn counts %+v", stats)
	}

	stats[0].Turns = 99
	if w.Snapshot()[0].Turns == 99 {
		t.Fatal("snapshot must be a copy")
	}
}

func TestStatsWatcherIgnoresOutOfRangeSeats(t *testing.T) {
	w := NewStatsWatcher(2)
	w.Watch(DecreaseHealth(5, 3))
	w.Watch(ChangeCurrentPlayer(-1))
	for _, s := range w.Snapshot() {
		if s != (PlayerStats{}) {
			t.Fatalf("expected untouched stats, got %+v", s)
		}
	}
}
