package view

import (
	"fmt"
	"slices"

	"github.com/magefree/realms-server-go/internal/game/cards"
	"github.com/magefree/realms-server-go/internal/game/rules"
)

// Apply advances the view by one delta. On error the view may be partially
// updated; callers that need atomicity apply to a Clone.
func (b *Board) Apply(d rules.Delta) error {
	switch d.Type {
	case rules.DeltaMove:
		return b.applyMove(d)

	case rules.DeltaIncreaseGold:
		return b.adjust(d.Player, func(m *Mat) *int { return &m.Gold }, d.Amount)
	case rules.DeltaDecreaseGold:
		return b.adjust(d.Player, func(m *Mat) *int { return &m.Gold }, -d.Amount)
	case rules.DeltaIncreaseCombat:
		return b.adjust(d.Player, func(m *Mat) *int { return &m.Combat }, d.Amount)
	case rules.DeltaDecreaseCombat:
		return b.adjust(d.Player, func(m *Mat) *int { return &m.Combat }, -d.Amount)
	case rules.DeltaIncreaseHealth:
		return b.adjust(d.Player, func(m *Mat) *int { return &m.Lives }, d.Amount)
	case rules.DeltaDecreaseHealth:
		return b.adjust(d.Player, func(m *Mat) *int { return &m.Lives }, -d.Amount)
	case rules.DeltaIncreaseDiscardAmount:
		return b.adjust(d.Player, func(m *Mat) *int { return &m.MustDiscard }, d.Amount)
	case rules.DeltaDecreaseDiscardAmount:
		return b.adjust(d.Player, func(m *Mat) *int { return &m.MustDiscard }, -d.Amount)

	case rules.DeltaChangeCurrentPlayer:
		if d.Player < 0 || d.Player >= b.Players {
			return fmt.Errorf("current player %d: %w", d.Player, ErrBadIndex)
		}
		b.CurrentPlayer = d.Player
		return nil

	case rules.DeltaSetExpendAbilityUsed, rules.DeltaSetAllyAbilityUsed:
		m, err := b.mat(d.Player)
		if err != nil {
			return err
		}
		if d.Index < 0 || d.Index >= len(m.Field) {
			return fmt.Errorf("field slot %d of player %d: %w", d.Index, d.Player, ErrBadIndex)
		}
		if d.Type == rules.DeltaSetExpendAbilityUsed {
			m.Field[d.Index].ExpendUsed = d.Flag
		} else {
			m.Field[d.Index].AllyUsed = d.Flag
		}
		return nil

	case rules.DeltaGameOver:
		b.GameOver = true
		return nil

	case rules.DeltaShuffleDeck, rules.DeltaPlayerDeclaredAction:
		return nil

	default:
		return fmt.Errorf("unknown delta type %q", d.Type)
	}
}

// ApplyAll applies deltas in order, stopping at the first error.
func (b *Board) ApplyAll(deltas []rules.Delta) error {
	for i, d := range deltas {
		if err := b.Apply(d); err != nil {
			return fmt.Errorf("delta %d (%s): %w", i, d, err)
		}
	}
	return nil
}

func (b *Board) adjust(p int, counter func(*Mat) *int, by int) error {
	m, err := b.mat(p)
	if err != nil {
		return err
	}
	v := counter(m)
	if *v+by < 0 {
		return fmt.Errorf("player %d: %d%+d: %w", p, *v, by, ErrStatUnderflow)
	}
	*v += by
	return nil
}

func decrement(n *int, at rules.Location) error {
	if *n == 0 {
		return fmt.Errorf("%s is empty: %w", at, ErrBadIndex)
	}
	*n--
	return nil
}

func removeAt[T any](s *[]T, i int, at rules.Location) (T, error) {
	var zero T
	if i < 0 || i >= len(*s) {
		return zero, fmt.Errorf("slot %d of %s: %w", i, at, ErrBadIndex)
	}
	item := (*s)[i]
	*s = slices.Delete(*s, i, i+1)
	return item, nil
}

// take removes the moved card from the source zone. known is false when the
// source is a count and no identity could be checked.
func (b *Board) take(from rules.Location, index int) (card cards.Card, known bool, err error) {
	switch from.Zone {
	case rules.ZoneShop:
		card, err = removeAt(&b.Shop, index, from)
		return card, true, err
	case rules.ZoneShopDeck:
		return cards.Unknown, false, decrement(&b.ShopDeck, from)
	case rules.ZoneFireGems:
		return cards.FireGem, true, decrement(&b.Gems, from)
	case rules.ZoneSacrifice:
		return cards.Unknown, false, ErrWrongSourceLocation
	}

	m, err := b.mat(from.Player)
	if err != nil {
		return cards.Unknown, false, err
	}
	switch from.Zone {
	case rules.ZoneDeck:
		return cards.Unknown, false, decrement(&m.Deck, from)
	case rules.ZoneHand:
		if err := decrement(&m.Hand, from); err != nil {
			return cards.Unknown, false, err
		}
		if !b.ownHand(from) {
			return cards.Unknown, false, nil
		}
		card, err = removeAt(&b.YourHand, index, from)
		return card, true, err
	case rules.ZoneField:
		cif, err := removeAt(&m.Field, index, from)
		return cif.Card, true, err
	case rules.ZoneDiscard:
		card, err = removeAt(&m.Discard, index, from)
		return card, true, err
	default:
		return cards.Unknown, false, fmt.Errorf("zone %q: %w", from.Zone, ErrWrongSourceLocation)
	}
}

func (b *Board) put(to rules.Location, card cards.Card) error {
	needCard := func() error {
		if card == cards.Unknown {
			return &MissingCardError{At: to}
		}
		return nil
	}

	switch to.Zone {
	case rules.ZoneShop:
		if err := needCard(); err != nil {
			return err
		}
		b.Shop = append(b.Shop, card)
		return nil
	case rules.ZoneShopDeck:
		b.ShopDeck++
		return nil
	case rules.ZoneFireGems:
		if card != cards.FireGem {
			return &CardMismatchError{At: to, Expected: cards.FireGem, Got: card}
		}
		b.Gems++
		return nil
	case rules.ZoneSacrifice:
		if err := needCard(); err != nil {
			return err
		}
		b.Sacrificed = append(b.Sacrificed, card)
		return nil
	}

	m, err := b.mat(to.Player)
	if err != nil {
		return err
	}
	switch to.Zone {
	case rules.ZoneDeck:
		m.Deck++
	case rules.ZoneHand:
		m.Hand++
		if b.ownHand(to) {
			if err := needCard(); err != nil {
				return err
			}
			b.YourHand = append(b.YourHand, card)
		}
	case rules.ZoneField:
		if err := needCard(); err != nil {
			return err
		}
		m.Field = append(m.Field, cards.InField(card))
	case rules.ZoneDiscard:
		if err := needCard(); err != nil {
			return err
		}
		m.Discard = append(m.Discard, card)
	default:
		return fmt.Errorf("zone %q: %w", to.Zone, ErrWrongSourceLocation)
	}
	return nil
}

func (b *Board) applyMove(d rules.Delta) error {
	removed, known, err := b.take(d.From, d.Index)
	if err != nil {
		return err
	}
	if known && removed != d.Card {
		return &CardMismatchError{At: d.From, Expected: removed, Got: d.Card}
	}
	return b.put(d.To, d.Card)
}
