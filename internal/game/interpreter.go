package game

import (
	"fmt"
	"slices"

	"github.com/magefree/realms-server-go/internal/game/cards"
	"github.com/magefree/realms-server-go/internal/game/rules"
)

// argQueue hands out effect arguments in submission order.
type argQueue struct {
	args []rules.Argument
	next int
}

func (q *argQueue) pop(effect cards.Effect) (rules.Argument, error) {
	if q.next >= len(q.args) {
		return rules.Argument{}, fmt.Errorf("%s: missing argument: %w", effect, ErrBadArgument)
	}
	arg := q.args[q.next]
	q.next++
	return arg, nil
}

func (q *argQueue) popType(effect cards.Effect, types ...rules.ArgumentType) (rules.Argument, error) {
	arg, err := q.pop(effect)
	if err != nil {
		return arg, err
	}
	if !slices.Contains(types, arg.Type) {
		return arg, fmt.Errorf("%s: unexpected argument %s: %w", effect, arg, ErrBadArgument)
	}
	return arg, nil
}

// interpreter resolves one ability for one player against a working board.
type interpreter struct {
	b      *Board
	player int
	args   argQueue
	deltas []rules.Delta
}

func (in *interpreter) emit(d ...rules.Delta) {
	in.deltas = append(in.deltas, d...)
}

func (in *interpreter) mat() *Mat {
	return &in.b.Mats[in.player]
}

// applyEffects runs an effect list for player, consuming args in the order
// the effects ask for them. Composite effects expand in place ahead of the
// rest of the list. Every argument must be consumed. The board is left
// partially mutated on error; DoAction discards it.
func (b *Board) applyEffects(player int, effects []cards.Effect, args []rules.Argument) ([]rules.Delta, error) {
	in := &interpreter{b: b, player: player, args: argQueue{args: args}}

	work := rules.NewStack(effects)
	for !work.IsEmpty() {
		effect, _ := work.Pop()
		if err := in.resolve(effect, work); err != nil {
			return nil, err
		}
	}

	if in.args.next != len(args) {
		return nil, fmt.Errorf("%d unused arguments: %w", len(args)-in.args.next, ErrBadArgument)
	}
	return in.deltas, nil
}

func (in *interpreter) resolve(effect cards.Effect, work *rules.Stack[cards.Effect]) error {
	m := in.mat()
	p := in.player

	switch effect.Kind {
	case cards.EffectNothing:

	case cards.EffectGold:
		m.Gold += effect.Amount
		in.emit(rules.IncreaseGold(p, effect.Amount))

	case cards.EffectCombat:
		m.Combat += effect.Amount
		in.emit(rules.IncreaseCombat(p, effect.Amount))

	case cards.EffectHeal:
		m.Lives += effect.Amount
		in.emit(rules.IncreaseHealth(p, effect.Amount))

	case cards.EffectDraw:
		in.emit(in.b.draw(p, effect.Amount)...)

	case cards.EffectOpponentDiscards:
		arg, err := in.args.popType(effect, rules.ArgOpponent)
		if err != nil {
			return err
		}
		if err := in.b.validateTarget(p, TargetLivingOpponent, arg.Player, 0); err != nil {
			return fmt.Errorf("%s: %w", effect, err)
		}
		in.emit(in.b.oweDiscards(arg.Player, effect.Amount)...)

	case cards.EffectPlayerDiscards:
		in.emit(in.b.oweDiscards(p, effect.Amount)...)

	case cards.EffectSacrifice:
		for range effect.Amount {
			arg, err := in.args.popType(effect, rules.ArgCardInHand, rules.ArgCardInDiscard)
			if err != nil {
				return err
			}
			from, zone := rules.Hand(p), &m.Hand
			if arg.Type == rules.ArgCardInDiscard {
				from, zone = rules.Discard(p), &m.Discard
			}
			card, err := takeAt(zone, arg.Index)
			if err != nil {
				return fmt.Errorf("%s: %w", effect, err)
			}
			in.b.Sacrificed = append(in.b.Sacrificed, card)
			in.emit(rules.Move(from, arg.Index, rules.Sacrifice, card))
		}

	case cards.EffectStunChampion:
		arg, err := in.args.popType(effect, rules.ArgChampion)
		if err != nil {
			return err
		}
		if err := in.b.validateTarget(p, TargetOpposingChampion, arg.Player, arg.Index); err != nil {
			return fmt.Errorf("%s: %w", effect, err)
		}
		target := &in.b.Mats[arg.Player]
		cif, _ := takeAt(&target.Field, arg.Index)
		target.Discard = append(target.Discard, cif.Card)
		in.emit(rules.Move(rules.Field(arg.Player), arg.Index, rules.Discard(arg.Player), cif.Card))

	case cards.EffectPrepareChampion:
		arg, err := in.args.popType(effect, rules.ArgChampion)
		if err != nil {
			return err
		}
		if err := in.b.validateTarget(p, TargetOwnChampion, arg.Player, arg.Index); err != nil {
			return fmt.Errorf("%s: %w", effect, err)
		}
		m.Field[arg.Index].ExpendUsed = false
		in.emit(rules.SetExpendAbilityUsed(p, arg.Index, false))

	case cards.EffectPutOverDeckFromDiscard, cards.EffectPutChampionOverDeckFromDiscard, cards.EffectPutInHandFromDiscard:
		arg, err := in.args.popType(effect, rules.ArgCardInDiscard)
		if err != nil {
			return err
		}
		if arg.Index < 0 || arg.Index >= len(m.Discard) {
			return fmt.Errorf("%s: discard slot %d: %w", effect, arg.Index, ErrBadIndex)
		}
		if effect.Kind == cards.EffectPutChampionOverDeckFromDiscard && !m.Discard[arg.Index].IsChampion() {
			return fmt.Errorf("%s: %s is not a champion: %w", effect, m.Discard[arg.Index], ErrBadArgument)
		}
		card, _ := takeAt(&m.Discard, arg.Index)
		if effect.Kind == cards.EffectPutInHandFromDiscard {
			m.Hand = append(m.Hand, card)
			in.emit(rules.Move(rules.Discard(p), arg.Index, rules.Hand(p), card))
		} else {
			m.Deck = append(m.Deck, card)
			in.emit(rules.Move(rules.Discard(p), arg.Index, rules.Deck(p), card))
		}

	// Redirects live only on the authoritative board; they emit nothing.
	case cards.EffectNextPurchaseToHand:
		m.NextToHand++
	case cards.EffectNextActionPurchaseToTopOfDeck:
		m.NextActionToTop++
	case cards.EffectNextPurchaseToTopOfDeck:
		m.NextToTop++

	case cards.EffectChoice:
		arg, err := in.args.popType(effect, rules.ArgChooseFirst, rules.ArgChooseSecond)
		if err != nil {
			return err
		}
		if arg.Type == rules.ArgChooseFirst {
			work.PushInOrder(effect.First)
		} else {
			work.PushInOrder(effect.Second)
		}

	case cards.EffectCombatPer:
		work.Push(cards.GainCombat(effect.Amount * effect.Per.Count(m.Field)))

	case cards.EffectHealPer:
		work.Push(cards.Heal(effect.Amount * effect.Per.Count(m.Field)))

	default:
		return fmt.Errorf("unsupported effect %q: %w", effect.Kind, ErrBadArgument)
	}
	return nil
}

// draw moves up to n cards from p's deck to hand, reshuffling the discard
// into the deck whenever the deck runs out. With both empty it draws fewer.
func (b *Board) draw(p, n int) []rules.Delta {
	m := &b.Mats[p]
	var deltas []rules.Delta
	for range n {
		if len(m.Deck) == 0 {
			if len(m.Discard) == 0 {
				break
			}
			for _, card := range m.Discard {
				deltas = append(deltas, rules.Move(rules.Discard(p), 0, rules.Deck(p), card))
			}
			m.Deck = append(m.Deck, m.Discard...)
			m.Discard = m.Discard[:0]
			deltas = append(deltas, rules.ShuffleDeck(p))
			m.RNG.Shuffle(len(m.Deck), func(i, j int) {
				m.Deck[i], m.Deck[j] = m.Deck[j], m.Deck[i]
			})
		}
		top := len(m.Deck) - 1
		card := m.Deck[top]
		m.Deck = m.Deck[:top]
		m.Hand = append(m.Hand, card)
		deltas = append(deltas, rules.Move(rules.Deck(p), 0, rules.Hand(p), card))
	}
	return deltas
}

// oweDiscards raises p's forced discards, capped at the cards in their hand.
func (b *Board) oweDiscards(p, n int) []rules.Delta {
	m := &b.Mats[p]
	by := min(n, len(m.Hand)-m.MustDiscard)
	if by <= 0 {
		return nil
	}
	m.MustDiscard += by
	return []rules.Delta{rules.IncreaseDiscards(p, by)}
}

func takeAt[T any](s *[]T, i int) (T, error) {
	var zero T
	if i < 0 || i >= len(*s) {
		return zero, fmt.Errorf("slot %d: %w", i, ErrBadIndex)
	}
	item := (*s)[i]
	*s = slices.Delete(*s, i, i+1)
	return item, nil
}
