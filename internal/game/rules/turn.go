package rules

// Opening hand sizes. The starting player is compensated for acting first.
const (
	FirstPlayerHand  = 3
	SecondPlayerHand = 4
	DefaultHand      = 5
	TurnDrawSize     = 5
)

// NextPlayer returns the seat after current, wrapping around the table.
func NextPlayer(current, players int) int {
	if players <= 0 {
		return 0
	}
	return (current + 1) % players
}

// OpeningHandSize returns how many cards seat draws at setup when first is
// the starting seat. The second seat only gets a reduced hand at tables of
// more than two players.
func OpeningHandSize(seat, first, players int) int {
	switch {
	case seat == first:
		return FirstPlayerHand
	case players > 2 && seat == NextPlayer(first, players):
		return SecondPlayerHand
	default:
		return DefaultHand
	}
}

// SeatsFrom lists every seat in turn order starting at first.
func SeatsFrom(first, players int) []int {
	seats := make([]int, players)
	for i := range seats {
		seats[i] = (first + i) % players
	}
	return seats
}
