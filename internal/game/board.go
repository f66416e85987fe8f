package game

import (
	"fmt"
	"slices"

	"github.com/magefree/realms-server-go/internal/game/cards"
	"github.com/magefree/realms-server-go/internal/game/rng"
	"github.com/magefree/realms-server-go/internal/game/rules"
)

// Mat holds one player's zones and counters. Deck is a stack whose top is
// the last element.
type Mat struct {
	Name    string              `json:"name"`
	Hand    []cards.Card        `json:"hand"`
	Field   []cards.CardInField `json:"field"`
	Discard []cards.Card        `json:"discard"`
	Deck    []cards.Card        `json:"deck"`

	Lives       int `json:"lives"`
	Combat      int `json:"combat"`
	Gold        int `json:"gold"`
	MustDiscard int `json:"must_discard"`

	// One-shot purchase redirects, cleared at end of turn.
	NextActionToTop int `json:"next_action_to_top"`
	NextToTop       int `json:"next_to_top"`
	NextToHand      int `json:"next_to_hand"`

	// RNG shuffles this mat's deck only.
	RNG rng.Source `json:"rng"`
}

func (m *Mat) clone() Mat {
	out := *m
	out.Hand = slices.Clone(m.Hand)
	out.Field = slices.Clone(m.Field)
	out.Discard = slices.Clone(m.Discard)
	out.Deck = slices.Clone(m.Deck)
	return out
}

// Board is the authoritative match state. It is mutated only through
// DoAction, which works on a clone and commits on success.
type Board struct {
	Shop          []cards.Card `json:"shop"`
	ShopDeck      []cards.Card `json:"shop_deck"`
	Gems          []cards.Card `json:"gems"`
	Sacrificed    []cards.Card `json:"sacrificed"`
	CurrentPlayer int          `json:"current_player"`
	Players       int          `json:"players"`
	GameOver      bool         `json:"game_over"`
	Mats          []Mat        `json:"mats"`
	RNG           rng.Source   `json:"rng"`
}

// NewBoard deals a fresh match. The shop deck is shuffled with the board's
// source, the starting seat is drawn from it, and every mat receives its own
// forked source for its personal deck.
func NewBoard(names []string, setup cards.Setup, src rng.Source) (*Board, error) {
	players := len(names)
	if err := setup.Validate(players); err != nil {
		return nil, err
	}

	b := &Board{
		ShopDeck: slices.Clone(setup.ShopDeck),
		Gems:     slices.Clone(setup.Gems),
		Players:  players,
		RNG:      src,
	}

	b.RNG.Shuffle(len(b.ShopDeck), func(i, j int) {
		b.ShopDeck[i], b.ShopDeck[j] = b.ShopDeck[j], b.ShopDeck[i]
	})
	split := len(b.ShopDeck) - cards.ShopSize
	b.Shop = slices.Clone(b.ShopDeck[split:])
	b.ShopDeck = b.ShopDeck[:split:split]

	b.CurrentPlayer = b.RNG.IntN(players)

	b.Mats = make([]Mat, players)
	for i, name := range names {
		if name == "" {
			name = fmt.Sprintf("Player %d", i+1)
		}
		m := Mat{
			Name:  name,
			Lives: cards.StartingLives,
			RNG:   b.RNG.Fork(),
			Deck:  slices.Clone(setup.PlayerDeck),
		}
		m.RNG.Shuffle(len(m.Deck), func(x, y int) {
			m.Deck[x], m.Deck[y] = m.Deck[y], m.Deck[x]
		})

		n := min(rules.OpeningHandSize(i, b.CurrentPlayer, players), len(m.Deck))
		cut := len(m.Deck) - n
		m.Hand = slices.Clone(m.Deck[cut:])
		m.Deck = m.Deck[:cut:cut]
		b.Mats[i] = m
	}
	return b, nil
}

// DefaultNames returns "Player 1" .. "Player n".
func DefaultNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("Player %d", i+1)
	}
	return names
}

// Names returns the seat names in seat order.
func (b *Board) Names() []string {
	names := make([]string, len(b.Mats))
	for i := range b.Mats {
		names[i] = b.Mats[i].Name
	}
	return names
}

// Clone returns a deep copy. Mutating the copy never affects b.
func (b *Board) Clone() *Board {
	out := *b
	out.Shop = slices.Clone(b.Shop)
	out.ShopDeck = slices.Clone(b.ShopDeck)
	out.Gems = slices.Clone(b.Gems)
	out.Sacrificed = slices.Clone(b.Sacrificed)
	out.Mats = make([]Mat, len(b.Mats))
	for i := range b.Mats {
		out.Mats[i] = b.Mats[i].clone()
	}
	return &out
}

func (b *Board) validPlayer(p int) bool {
	return p >= 0 && p < len(b.Mats)
}

// Alive returns the seats that still have lives, in seat order.
func (b *Board) Alive() []int {
	var alive []int
	for i := range b.Mats {
		if b.Mats[i].Lives > 0 {
			alive = append(alive, i)
		}
	}
	return alive
}

// Winner returns the last seat standing once the game is over.
func (b *Board) Winner() (int, bool) {
	if !b.GameOver {
		return 0, false
	}
	alive := b.Alive()
	if len(alive) != 1 {
		return 0, false
	}
	return alive[0], true
}

// HasGuard reports whether player p has a guard in play.
func (b *Board) HasGuard(p int) bool {
	if !b.validPlayer(p) {
		return false
	}
	for _, cif := range b.Mats[p].Field {
		if cif.Card.IsGuard() {
			return true
		}
	}
	return false
}

// AllCards lists every card on the board across all zones, in a fixed zone
// order. The multiset is constant for the whole match.
func (b *Board) AllCards() []cards.Card {
	var all []cards.Card
	all = append(all, b.Shop...)
	all = append(all, b.ShopDeck...)
	all = append(all, b.Gems...)
	all = append(all, b.Sacrificed...)
	for i := range b.Mats {
		m := &b.Mats[i]
		all = append(all, m.Hand...)
		all = append(all, m.Deck...)
		all = append(all, m.Discard...)
		for _, cif := range m.Field {
			all = append(all, cif.Card)
		}
	}
	return all
}

// nextLiving returns the seat after p that still has lives. Eliminated
// players are skipped; if nobody else is alive p is returned.
func (b *Board) nextLiving(p int) int {
	next := p
	for range b.Players {
		next = rules.NextPlayer(next, b.Players)
		if b.Mats[next].Lives > 0 {
			return next
		}
	}
	return p
}
