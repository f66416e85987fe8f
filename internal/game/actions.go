package game

import (
	"fmt"

	"github.com/magefree/realms-server-go/internal/game/cards"
	"github.com/magefree/realms-server-go/internal/game/rules"
)

// DoAction validates and applies an action submitted by actor. The action
// runs against a clone of the board; the clone replaces b only when the
// whole action succeeds, so a failed action leaves b untouched.
//
// The returned deltas are unredacted and in mutation order. The first one
// always echoes the declared action.
func (b *Board) DoAction(actor int, a rules.Action) ([]rules.Delta, error) {
	if b.GameOver {
		return nil, ErrGameOver
	}
	if !b.validPlayer(actor) {
		return nil, fmt.Errorf("actor %d: %w", actor, ErrBadTarget)
	}
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadArgument, err)
	}

	work := b.Clone()
	deltas, err := work.perform(actor, a)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.Type, err)
	}

	out := make([]rules.Delta, 0, len(deltas)+2)
	out = append(out, rules.PlayerDeclaredAction(actor, a))
	out = append(out, deltas...)
	out = append(out, work.checkGameOver()...)

	*b = *work
	return out, nil
}

func (b *Board) perform(actor int, a rules.Action) ([]rules.Delta, error) {
	m := &b.Mats[actor]
	if m.Lives == 0 {
		return nil, ErrEliminated
	}

	// A player owing discards may pay them off at any time. Nothing else
	// is accepted from the current player until they are paid.
	if a.Type == rules.ActionDiscard {
		if m.MustDiscard == 0 {
			if actor != b.CurrentPlayer {
				return nil, ErrNotYourTurn
			}
			return nil, ErrNothingToDiscard
		}
		return b.discard(actor, a.Index)
	}
	if actor != b.CurrentPlayer {
		return nil, ErrNotYourTurn
	}
	if m.MustDiscard > 0 {
		return nil, fmt.Errorf("%d cards owed: %w", m.MustDiscard, ErrMustDiscard)
	}

	switch a.Type {
	case rules.ActionPlay:
		return b.play(actor, a.Index, a.Args)
	case rules.ActionActivateExpend:
		return b.activateExpend(actor, a.Index, a.Args)
	case rules.ActionActivateAlly:
		return b.activateAlly(actor, a.Index, a.Args)
	case rules.ActionActivateSacrifice:
		return b.activateSacrifice(actor, a.Index, a.Args)
	case rules.ActionAttackPlayer:
		return b.attackPlayer(actor, a.Target, a.Amount)
	case rules.ActionAttackPlayerChampion:
		return b.attackChampion(actor, a.Target, a.Index)
	case rules.ActionPurchaseFromShop:
		return b.purchaseFromShop(actor, a.Index)
	case rules.ActionPurchaseFireGem:
		return b.purchaseFireGem(actor)
	case rules.ActionEndTurn:
		return b.endTurn(actor), nil
	default:
		return nil, fmt.Errorf("unknown action %q: %w", a.Type, ErrBadArgument)
	}
}

func (b *Board) discard(p, handIndex int) ([]rules.Delta, error) {
	m := &b.Mats[p]
	card, err := takeAt(&m.Hand, handIndex)
	if err != nil {
		return nil, fmt.Errorf("hand %w", err)
	}
	m.Discard = append(m.Discard, card)
	m.MustDiscard--
	return []rules.Delta{
		rules.Move(rules.Hand(p), handIndex, rules.Discard(p), card),
		rules.DecreaseDiscards(p, 1),
	}, nil
}

func (b *Board) play(p, handIndex int, args []rules.Argument) ([]rules.Delta, error) {
	m := &b.Mats[p]
	card, err := takeAt(&m.Hand, handIndex)
	if err != nil {
		return nil, fmt.Errorf("hand %w", err)
	}
	m.Field = append(m.Field, cards.InField(card))
	deltas := []rules.Delta{rules.Move(rules.Hand(p), handIndex, rules.Field(p), card)}

	// Champions have no primary ability; they only enter play.
	effects, _ := card.Effects(cards.AbilityPrimary)
	more, err := b.applyEffects(p, effects, args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", card, err)
	}
	return append(deltas, more...), nil
}

func (b *Board) fieldCard(p, fieldIndex int) (cards.CardInField, error) {
	field := b.Mats[p].Field
	if fieldIndex < 0 || fieldIndex >= len(field) {
		return cards.CardInField{}, fmt.Errorf("field slot %d: %w", fieldIndex, ErrBadIndex)
	}
	return field[fieldIndex], nil
}

func (b *Board) activateExpend(p, fieldIndex int, args []rules.Argument) ([]rules.Delta, error) {
	cif, err := b.fieldCard(p, fieldIndex)
	if err != nil {
		return nil, err
	}
	effects, ok := cif.Card.Effects(cards.AbilityExpend)
	if !ok {
		return nil, fmt.Errorf("%s expend: %w", cif.Card, ErrNoAbility)
	}
	if cif.ExpendUsed {
		return nil, fmt.Errorf("%s expend: %w", cif.Card, ErrAbilityUsed)
	}

	b.Mats[p].Field[fieldIndex].ExpendUsed = true
	deltas := []rules.Delta{rules.SetExpendAbilityUsed(p, fieldIndex, true)}
	more, err := b.applyEffects(p, effects, args)
	if err != nil {
		return nil, fmt.Errorf("%s expend: %w", cif.Card, err)
	}
	return append(deltas, more...), nil
}

func (b *Board) activateAlly(p, fieldIndex int, args []rules.Argument) ([]rules.Delta, error) {
	cif, err := b.fieldCard(p, fieldIndex)
	if err != nil {
		return nil, err
	}
	effects, ok := cif.Card.Effects(cards.AbilityAlly)
	if !ok {
		return nil, fmt.Errorf("%s ally: %w", cif.Card, ErrNoAbility)
	}
	if cif.AllyUsed {
		return nil, fmt.Errorf("%s ally: %w", cif.Card, ErrAbilityUsed)
	}
	faction := cif.Card.Faction()
	same := 0
	for _, other := range b.Mats[p].Field {
		if other.Card.Faction() == faction {
			same++
		}
	}
	if faction == cards.NoFaction || same < 2 {
		return nil, fmt.Errorf("%s ally: %w", cif.Card, ErrNoAlly)
	}

	b.Mats[p].Field[fieldIndex].AllyUsed = true
	deltas := []rules.Delta{rules.SetAllyAbilityUsed(p, fieldIndex, true)}
	more, err := b.applyEffects(p, effects, args)
	if err != nil {
		return nil, fmt.Errorf("%s ally: %w", cif.Card, err)
	}
	return append(deltas, more...), nil
}

func (b *Board) activateSacrifice(p, fieldIndex int, args []rules.Argument) ([]rules.Delta, error) {
	cif, err := b.fieldCard(p, fieldIndex)
	if err != nil {
		return nil, err
	}
	effects, ok := cif.Card.Effects(cards.AbilitySacrifice)
	if !ok {
		return nil, fmt.Errorf("%s sacrifice: %w", cif.Card, ErrNoAbility)
	}

	m := &b.Mats[p]
	_, _ = takeAt(&m.Field, fieldIndex)
	b.Sacrificed = append(b.Sacrificed, cif.Card)
	deltas := []rules.Delta{rules.Move(rules.Field(p), fieldIndex, rules.Sacrifice, cif.Card)}
	more, err := b.applyEffects(p, effects, args)
	if err != nil {
		return nil, fmt.Errorf("%s sacrifice: %w", cif.Card, err)
	}
	return append(deltas, more...), nil
}

func (b *Board) attackPlayer(p, target, amount int) ([]rules.Delta, error) {
	if err := b.validateTarget(p, TargetLivingOpponent, target, 0); err != nil {
		return nil, err
	}
	if b.HasGuard(target) {
		return nil, fmt.Errorf("player %d: %w", target, ErrGuarded)
	}
	m := &b.Mats[p]
	if m.Combat < amount {
		return nil, fmt.Errorf("need %d, have %d: %w", amount, m.Combat, ErrInsufficientCombat)
	}

	m.Combat -= amount
	t := &b.Mats[target]
	damage := min(amount, t.Lives)
	t.Lives -= damage
	return []rules.Delta{
		rules.DecreaseCombat(p, amount),
		rules.DecreaseHealth(target, damage),
	}, nil
}

func (b *Board) attackChampion(p, target, fieldIndex int) ([]rules.Delta, error) {
	if err := b.validateTarget(p, TargetOpposingChampion, target, fieldIndex); err != nil {
		return nil, err
	}
	t := &b.Mats[target]
	champion := t.Field[fieldIndex].Card
	if b.HasGuard(target) && !champion.IsGuard() {
		return nil, fmt.Errorf("%s: %w", champion, ErrGuarded)
	}
	m := &b.Mats[p]
	cost := champion.Defense()
	if m.Combat < cost {
		return nil, fmt.Errorf("%s needs %d, have %d: %w", champion, cost, m.Combat, ErrInsufficientCombat)
	}

	m.Combat -= cost
	_, _ = takeAt(&t.Field, fieldIndex)
	t.Discard = append(t.Discard, champion)
	return []rules.Delta{
		rules.DecreaseCombat(p, cost),
		rules.Move(rules.Field(target), fieldIndex, rules.Discard(target), champion),
	}, nil
}

// acquire places a purchased card, consuming the first applicable redirect.
func (b *Board) acquire(p int, card cards.Card) rules.Location {
	m := &b.Mats[p]
	switch {
	case m.NextToHand > 0:
		m.NextToHand--
		m.Hand = append(m.Hand, card)
		return rules.Hand(p)
	case m.NextActionToTop > 0 && card.IsAction():
		m.NextActionToTop--
		m.Deck = append(m.Deck, card)
		return rules.Deck(p)
	case m.NextToTop > 0:
		m.NextToTop--
		m.Deck = append(m.Deck, card)
		return rules.Deck(p)
	default:
		m.Discard = append(m.Discard, card)
		return rules.Discard(p)
	}
}

func (b *Board) pay(p, cost int) (rules.Delta, error) {
	m := &b.Mats[p]
	if m.Gold < cost {
		return rules.Delta{}, fmt.Errorf("need %d, have %d: %w", cost, m.Gold, ErrInsufficientGold)
	}
	m.Gold -= cost
	return rules.DecreaseGold(p, cost), nil
}

func (b *Board) purchaseFromShop(p, shopIndex int) ([]rules.Delta, error) {
	if shopIndex < 0 || shopIndex >= len(b.Shop) {
		return nil, fmt.Errorf("shop slot %d: %w", shopIndex, ErrBadIndex)
	}
	card := b.Shop[shopIndex]
	cost, ok := card.Cost()
	if !ok {
		return nil, fmt.Errorf("%s is not for sale: %w", card, ErrBadIndex)
	}
	paid, err := b.pay(p, cost)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", card, err)
	}

	_, _ = takeAt(&b.Shop, shopIndex)
	to := b.acquire(p, card)
	deltas := []rules.Delta{paid, rules.Move(rules.Shop, shopIndex, to, card)}

	if n := len(b.ShopDeck); n > 0 {
		refill := b.ShopDeck[n-1]
		b.ShopDeck = b.ShopDeck[:n-1]
		b.Shop = append(b.Shop, refill)
		deltas = append(deltas, rules.Move(rules.ShopDeck, 0, rules.Shop, refill))
	}
	return deltas, nil
}

func (b *Board) purchaseFireGem(p int) ([]rules.Delta, error) {
	n := len(b.Gems)
	if n == 0 {
		return nil, fmt.Errorf("fire gems: %w", ErrSoldOut)
	}
	gem := b.Gems[n-1]
	cost, _ := gem.Cost()
	paid, err := b.pay(p, cost)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", gem, err)
	}

	b.Gems = b.Gems[:n-1]
	to := b.acquire(p, gem)
	return []rules.Delta{paid, rules.Move(rules.FireGems, 0, to, gem)}, nil
}

// endTurn clears the turn's resources, discards everything but champions,
// draws a new hand and passes play to the next living seat.
func (b *Board) endTurn(p int) []rules.Delta {
	m := &b.Mats[p]
	var deltas []rules.Delta

	if m.Gold > 0 {
		deltas = append(deltas, rules.DecreaseGold(p, m.Gold))
		m.Gold = 0
	}
	if m.Combat > 0 {
		deltas = append(deltas, rules.DecreaseCombat(p, m.Combat))
		m.Combat = 0
	}
	m.NextActionToTop, m.NextToTop, m.NextToHand = 0, 0, 0

	for i := 0; i < len(m.Field); {
		card := m.Field[i].Card
		if card.IsChampion() {
			i++
			continue
		}
		_, _ = takeAt(&m.Field, i)
		m.Discard = append(m.Discard, card)
		deltas = append(deltas, rules.Move(rules.Field(p), i, rules.Discard(p), card))
	}
	for i := range m.Field {
		m.Field[i].ExpendUsed = false
		m.Field[i].AllyUsed = false
		deltas = append(deltas,
			rules.SetExpendAbilityUsed(p, i, false),
			rules.SetAllyAbilityUsed(p, i, false),
		)
	}

	for _, card := range m.Hand {
		deltas = append(deltas, rules.Move(rules.Hand(p), 0, rules.Discard(p), card))
	}
	m.Discard = append(m.Discard, m.Hand...)
	m.Hand = m.Hand[:0]

	deltas = append(deltas, b.draw(p, rules.TurnDrawSize)...)

	b.CurrentPlayer = b.nextLiving(p)
	return append(deltas, rules.ChangeCurrentPlayer(b.CurrentPlayer))
}

// checkGameOver sets the terminal flag once a single player is left alive.
func (b *Board) checkGameOver() []rules.Delta {
	if b.GameOver || len(b.Alive()) != 1 {
		return nil
	}
	b.GameOver = true
	return []rules.Delta{rules.GameOver()}
}
