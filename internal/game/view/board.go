// Package view holds the per-viewer projection of a match. A view is built
// once from a snapshot and then advanced only by applying redacted deltas.
package view

import (
	"errors"
	"fmt"
	"slices"

	"github.com/magefree/realms-server-go/internal/game/cards"
	"github.com/magefree/realms-server-go/internal/game/rules"
)

var (
	// ErrWrongSourceLocation is returned for moves out of a zone nothing leaves.
	ErrWrongSourceLocation = errors.New("wrong source location")
	// ErrStatUnderflow is returned when a decrement would take a counter below zero.
	ErrStatUnderflow = errors.New("stat underflow")
	// ErrBadIndex is returned for player or slot indices outside a known zone.
	ErrBadIndex = errors.New("index out of range")
)

// CardMismatchError reports a move whose card disagrees with what the view
// already holds at the source.
type CardMismatchError struct {
	At       rules.Location
	Expected cards.Card
	Got      cards.Card
}

func (e *CardMismatchError) Error() string {
	return fmt.Sprintf("card mismatch at %s: expected %s, got %s", e.At, e.Expected, e.Got)
}

// MissingCardError reports a move into a visible zone without a card identity.
type MissingCardError struct {
	At rules.Location
}

func (e *MissingCardError) Error() string {
	return fmt.Sprintf("missing card for move into %s", e.At)
}

// Mat is one player's zones as seen by a viewer. Hidden zones are counts.
type Mat struct {
	Name        string              `json:"name"`
	Field       []cards.CardInField `json:"field"`
	Hand        int                 `json:"hand"`
	Discard     []cards.Card        `json:"discard"`
	Deck        int                 `json:"deck"`
	Lives       int                 `json:"lives"`
	Combat      int                 `json:"combat"`
	Gold        int                 `json:"gold"`
	MustDiscard int                 `json:"must_discard"`
}

// Board is a viewer's projection of the authoritative board. You is
// rules.Spectator for viewers without a seat; YourHand is then always empty.
type Board struct {
	Shop          []cards.Card `json:"shop"`
	ShopDeck      int          `json:"shop_deck"`
	Gems          int          `json:"gems"`
	Sacrificed    []cards.Card `json:"sacrificed"`
	CurrentPlayer int          `json:"current_player"`
	Players       int          `json:"players"`
	GameOver      bool         `json:"game_over"`
	Mats          []Mat        `json:"mats"`
	You           int          `json:"you"`
	YourHand      []cards.Card `json:"your_hand"`
}

// Clone returns a deep copy of b.
func (b *Board) Clone() *Board {
	out := *b
	out.Shop = slices.Clone(b.Shop)
	out.Sacrificed = slices.Clone(b.Sacrificed)
	out.YourHand = slices.Clone(b.YourHand)
	out.Mats = make([]Mat, len(b.Mats))
	for i, m := range b.Mats {
		m.Field = slices.Clone(m.Field)
		m.Discard = slices.Clone(m.Discard)
		out.Mats[i] = m
	}
	return &out
}

// Alive returns the seats that still have lives
func (b *Board) Alive() []int {
	var alive []int
	for i, m := range b.Mats {
		if m.Lives > 0 {
			alive = append(alive, i)
		}
	}
	return alive
}

// HasGuard reports whether player p has a guard on their field.
func (b *Board) HasGuard(p int) bool {
	if p < 0 || p >= len(b.Mats) {
		return false
	}
	for _, cif := range b.Mats[p].Field {
		if cif.Card.IsGuard() {
			return true
		}
	}
	return false
}

func (b *Board) mat(p int) (*Mat, error) {
	if p < 0 || p >= len(b.Mats) {
		return nil, fmt.Errorf("player %d: %w", p, ErrBadIndex)
	}
	return &b.Mats[p], nil
}

func (b *Board) ownHand(l rules.Location) bool {
	return l.Zone == rules.ZoneHand && b.You != rules.Spectator && l.Player == b.You
}
