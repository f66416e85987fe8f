package game

import (
	"testing"

	"github.com/magefree/realms-server-go/internal/game/cards"
	"github.com/magefree/realms-server-go/internal/game/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoardTwoPlayerDeal(t *testing.T) {
	b := newTestBoard(t, 42)
	first, second := seats(b)

	assert.Equal(t, 2, b.Players)
	assert.Len(t, b.Shop, cards.ShopSize)
	assert.Len(t, b.ShopDeck, 4)
	assert.Len(t, b.Gems, 10)
	assert.Empty(t, b.Sacrificed)
	assert.False(t, b.GameOver)

	assert.Len(t, b.Mats[first].Hand, 3)
	assert.Len(t, b.Mats[first].Deck, 7)
	assert.Len(t, b.Mats[second].Hand, 5)
	assert.Len(t, b.Mats[second].Deck, 5)

	for i, m := range b.Mats {
		assert.Equal(t, cards.StartingLives, m.Lives)
		assert.Zero(t, m.Gold)
		assert.Zero(t, m.Combat)
		assert.Empty(t, m.Field)
		assert.Empty(t, m.Discard)
		assert.Equal(t, DefaultNames(2)[i], m.Name)
	}
}

func TestNewBoardThreePlayerHands(t *testing.T) {
	b, err := NewBoard([]string{"Ann", "Ben", "Cy"}, cards.Base(), rng.New(7))
	require.NoError(t, err)

	first := b.CurrentPlayer
	assert.Len(t, b.Mats[first].Hand, 3)
	assert.Len(t, b.Mats[(first+1)%3].Hand, 4)
	assert.Len(t, b.Mats[(first+2)%3].Hand, 5)
	assert.Equal(t, []string{"Ann", "Ben", "Cy"}, b.Names())
}

func TestNewBoardIsReproducible(t *testing.T) {
	a, err := NewBoard(DefaultNames(3), cards.Base(), rng.New(99))
	require.NoError(t, err)
	b, err := NewBoard(DefaultNames(3), cards.Base(), rng.New(99))
	require.NoError(t, err)
	c, err := NewBoard(DefaultNames(3), cards.Base(), rng.New(100))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a.buildDeterministicRepresentation(), c.buildDeterministicRepresentation())
}

func TestNewBoardForksIndependentDecks(t *testing.T) {
	b, err := NewBoard(DefaultNames(2), cards.Base(), rng.New(5))
	require.NoError(t, err)
	assert.NotEqual(t, b.Mats[0].RNG, b.Mats[1].RNG)
	assert.NotEqual(t, b.RNG, b.Mats[0].RNG)
}

func TestNewBoardConservesSetup(t *testing.T) {
	setup := cards.Base()
	b, err := NewBoard(DefaultNames(4), setup, rng.New(3))
	require.NoError(t, err)

	want := countCards(setup.ShopDeck)
	for card, n := range countCards(setup.Gems) {
		want[card] += n
	}
	for card, n := range countCards(setup.PlayerDeck) {
		want[card] += 4 * n
	}
	assert.Equal(t, want, countCards(b.AllCards()))
}

func TestNewBoardRejectsInvalidSetup(t *testing.T) {
	_, err := NewBoard(DefaultNames(1), cards.Test(), rng.New(1))
	assert.Error(t, err)

	short := cards.Test()
	short.ShopDeck = short.ShopDeck[:3]
	_, err = NewBoard(DefaultNames(2), short, rng.New(1))
	assert.Error(t, err)
}

func TestNewBoardFillsEmptyNames(t *testing.T) {
	b, err := NewBoard([]string{"", "Bea"}, cards.Test(), rng.New(1))
	require.NoError(t, err)
	assert.Equal(t, []string{"Player 1", "Bea"}, b.Names())
}

func TestBoardCloneIsDeep(t *testing.T) {
	b := newTestBoard(t, 1)
	b.Mats[0].Field = field(cards.OrcGrunt)
	c := b.Clone()

	c.Shop[0] = cards.Gold
	c.Mats[0].Hand[0] = cards.Spark
	c.Mats[0].Field[0].ExpendUsed = true
	c.Mats[0].Lives = 1
	c.RNG.Uint64()

	assert.Equal(t, cards.Spark, b.Shop[0])
	assert.NotEqual(t, cards.Spark, b.Mats[0].Hand[0])
	assert.False(t, b.Mats[0].Field[0].ExpendUsed)
	assert.Equal(t, cards.StartingLives, b.Mats[0].Lives)
	assert.NotEqual(t, b.RNG, c.RNG)
}

func TestHasGuardAndAlive(t *testing.T) {
	b := newTestBoard(t, 1)
	assert.False(t, b.HasGuard(0))
	b.Mats[0].Field = field(cards.WolfShaman)
	assert.False(t, b.HasGuard(0))
	b.Mats[0].Field = field(cards.WolfShaman, cards.OrcGrunt)
	assert.True(t, b.HasGuard(0))
	assert.False(t, b.HasGuard(5))

	assert.Equal(t, []int{0, 1}, b.Alive())
	b.Mats[1].Lives = 0
	assert.Equal(t, []int{0}, b.Alive())
	_, ok := b.Winner()
	assert.False(t, ok, "no winner until the game-over flag is set")
}
