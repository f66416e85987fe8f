package game

import (
	"testing"

	"github.com/magefree/realms-server-go/internal/game/cards"
	"github.com/magefree/realms-server-go/internal/game/rng"
	"github.com/stretchr/testify/require"
)

func newTestBoard(t *testing.T, seed uint64) *Board {
	t.Helper()
	b, err := NewBoard(DefaultNames(2), cards.Test(), rng.New(seed))
	require.NoError(t, err)
	return b
}

// seats returns the current player and the seat after them.
func seats(b *Board) (int, int) {
	return b.CurrentPlayer, (b.CurrentPlayer + 1) % b.Players
}

func countCards(list []cards.Card) map[cards.Card]int {
	counts := make(map[cards.Card]int)
	for _, c := range list {
		counts[c]++
	}
	return counts
}

func field(cs ...cards.Card) []cards.CardInField {
	out := make([]cards.CardInField, len(cs))
	for i, c := range cs {
		out[i] = cards.InField(c)
	}
	return out
}
