package game

import (
	"sync"
	"testing"

	"github.com/magefree/realms-server-go/internal/game/cards"
	"github.com/magefree/realms-server-go/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine(zaptest.NewLogger(t))
	_, err := e.StartGame("g1", DefaultNames(2), cards.SetupTest, 17)
	require.NoError(t, err)
	return e
}

func TestEngineStartGame(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.StartGame("g1", DefaultNames(2), cards.SetupTest, 1)
	assert.Error(t, err, "duplicate id")
	_, err = e.StartGame("", DefaultNames(2), cards.SetupTest, 1)
	assert.Error(t, err)
	_, err = e.StartGame("g2", DefaultNames(2), "expansion", 1)
	assert.Error(t, err)
	_, err = e.StartGame("g3", DefaultNames(1), cards.SetupTest, 1)
	assert.Error(t, err)

	seed, err := e.StartGame("g4", DefaultNames(3), cards.SetupBase, 0)
	require.NoError(t, err)
	assert.NotZero(t, seed, "a zero seed is replaced")

	assert.Equal(t, []string{"g1", "g4"}, e.Games())
}

func TestEngineUnknownGame(t *testing.T) {
	e := NewEngine(nil)
	_, err := e.DoAction("nope", 0, rules.EndTurn())
	assert.Error(t, err)
	_, err = e.View("nope", 0)
	assert.Error(t, err)
	_, err = e.Stats("nope")
	assert.Error(t, err)
	assert.Error(t, e.EndGame("nope"))
}

func TestEngineMatchesStandaloneBoard(t *testing.T) {
	e := newTestEngine(t)
	snap, err := e.Snapshot("g1")
	require.NoError(t, err)
	p := snap.CurrentPlayer

	want, err := snap.DoAction(p, rules.Play(0))
	require.NoError(t, err)
	got, err := e.DoAction("g1", p, rules.Play(0))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	sum, err := e.Checksum("g1")
	require.NoError(t, err)
	local, err := snap.ComputeChecksum()
	require.NoError(t, err)
	assert.Equal(t, local.Hash, sum)

	_, err = e.DoAction("g1", (p+1)%2, rules.EndTurn())
	assert.ErrorIs(t, err, ErrNotYourTurn)
}

func TestEngineViews(t *testing.T) {
	e := newTestEngine(t)
	snap, err := e.Snapshot("g1")
	require.NoError(t, err)
	p := snap.CurrentPlayer

	v, err := e.View("g1", p)
	require.NoError(t, err)
	assert.Equal(t, snap.Mats[p].Hand, v.YourHand)
	assert.Equal(t, p, v.You)

	spectator, err := e.View("g1", rules.Spectator)
	require.NoError(t, err)
	assert.Empty(t, spectator.YourHand)
	assert.Equal(t, len(snap.Mats[p].Hand), spectator.Mats[p].Hand)

	_, err = e.View("g1", 2)
	assert.ErrorIs(t, err, ErrBadTarget)
}

func TestEngineNotifiesAndTracksStats(t *testing.T) {
	e := newTestEngine(t)

	var mu sync.Mutex
	var notes []GameNotification
	e.SetNotificationHandler(func(n GameNotification) {
		mu.Lock()
		defer mu.Unlock()
		notes = append(notes, n)
	})

	snap, err := e.Snapshot("g1")
	require.NoError(t, err)
	p := snap.CurrentPlayer

	deltas, err := e.DoAction("g1", p, rules.EndTurn())
	require.NoError(t, err)

	_, err = e.DoAction("g1", p, rules.EndTurn())
	require.Error(t, err)

	mu.Lock()
	require.Len(t, notes, 1, "rejected actions are not broadcast")
	assert.Equal(t, NotificationDeltas, notes[0].Type)
	assert.Equal(t, "g1", notes[0].GameID)
	assert.Equal(t, p, notes[0].Actor)
	assert.Equal(t, deltas, notes[0].Deltas)
	mu.Unlock()

	stats, err := e.Stats("g1")
	require.NoError(t, err)
	assert.Equal(t, 1, stats[(p+1)%2].Turns)
	assert.Zero(t, stats[p].Turns)
}

func TestEngineFinishesGameAndSavesReplay(t *testing.T) {
	dir := t.TempDir()
	e := NewEngine(zaptest.NewLogger(t))
	rr := NewReplayRecorder(zaptest.NewLogger(t), dir)
	e.SetReplayRecorder(rr)

	var over []GameNotification
	e.SetNotificationHandler(func(n GameNotification) {
		if n.Type == NotificationGameOver {
			over = append(over, n)
		}
	})

	_, err := e.StartGame("duel", []string{"Ann", "Bo"}, cards.SetupBase, 3)
	require.NoError(t, err)
	require.True(t, rr.IsRecording("duel"))

	var final *Board
	for range 5000 {
		snap, err := e.Snapshot("duel")
		require.NoError(t, err)
		if snap.GameOver {
			final = snap
			break
		}
		actor := snap.CurrentPlayer
		a := ScriptedPlayer{Seat: actor}.Next(snap)
		_, err = e.DoAction("duel", actor, a)
		require.NoError(t, err)
	}
	require.NotNil(t, final, "scripted game did not finish")

	winner, ok := final.Winner()
	require.True(t, ok)
	require.Len(t, over, 1)
	assert.Equal(t, winner, over[0].Actor)

	_, err = e.DoAction("duel", winner, rules.EndTurn())
	assert.ErrorIs(t, err, ErrGameOver)

	assert.False(t, rr.IsRecording("duel"))
	replay, err := rr.LoadReplay("duel")
	require.NoError(t, err)
	rebuilt, err := replay.Verify()
	require.NoError(t, err)
	assert.True(t, rebuilt.GameOver)

	stats, err := e.Stats("duel")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats[(winner+1)%2].DamageTaken, cards.StartingLives)

	require.NoError(t, e.EndGame("duel"))
	assert.Empty(t, e.Games())
}
