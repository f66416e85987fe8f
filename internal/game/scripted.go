package game

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/magefree/realms-server-go/internal/game/cards"
	"github.com/magefree/realms-server-go/internal/game/rules"
)

// ScriptedPlayer is a deterministic greedy driver for tests and the
// simulate command. Each turn it plays its whole hand, uses every champion,
// attacks guards before the player, buys the most expensive card it can
// afford and ends the turn. Optional effects are always declined.
type ScriptedPlayer struct {
	Seat int
}

// Next returns the scripted player's next legal action. Candidates are
// checked against a clone of b, so the result is always accepted by
// b.DoAction when it is the player's move.
func (sp ScriptedPlayer) Next(b *Board) rules.Action {
	if b.Mats[sp.Seat].MustDiscard > 0 {
		return rules.DiscardCard(0)
	}
	for _, a := range sp.candidates(b) {
		if _, err := b.Clone().DoAction(sp.Seat, a); err == nil {
			return a
		}
	}
	return rules.EndTurn()
}

func (sp ScriptedPlayer) candidates(b *Board) []rules.Action {
	p := sp.Seat
	m := &b.Mats[p]
	var out []rules.Action

	for i, card := range m.Hand {
		effects, _ := card.Effects(cards.AbilityPrimary)
		out = append(out, rules.Play(i, sp.argsFor(b, effects)...))
	}
	for i, cif := range m.Field {
		if effects, ok := cif.Card.Effects(cards.AbilityExpend); ok && !cif.ExpendUsed {
			out = append(out, rules.ActivateExpend(i, sp.argsFor(b, effects)...))
		}
		if effects, ok := cif.Card.Effects(cards.AbilityAlly); ok && !cif.AllyUsed {
			out = append(out, rules.ActivateAlly(i, sp.argsFor(b, effects)...))
		}
	}

	if target, ok := sp.opponent(b); ok && m.Combat > 0 {
		t := &b.Mats[target]
		guards := make([]int, 0, len(t.Field))
		for i, cif := range t.Field {
			if cif.Card.IsGuard() {
				guards = append(guards, i)
			}
		}
		slices.SortStableFunc(guards, func(x, y int) int {
			return cmp.Compare(t.Field[x].Card.Defense(), t.Field[y].Card.Defense())
		})
		for _, i := range guards {
			out = append(out, rules.AttackPlayerChampion(target, i))
		}
		if len(guards) == 0 {
			out = append(out, rules.AttackPlayer(target, m.Combat))
		}
	}

	shop := make([]int, len(b.Shop))
	for i := range shop {
		shop[i] = i
	}
	slices.SortStableFunc(shop, func(x, y int) int {
		cx, _ := b.Shop[x].Cost()
		cy, _ := b.Shop[y].Cost()
		return cmp.Compare(cy, cx)
	})
	for _, i := range shop {
		out = append(out, rules.PurchaseFromShop(i))
	}
	out = append(out, rules.PurchaseFireGem())
	return out
}

// opponent picks the next living seat after the player.
func (sp ScriptedPlayer) opponent(b *Board) (int, bool) {
	next := b.nextLiving(sp.Seat)
	return next, next != sp.Seat
}

// argsFor walks effects the way the interpreter will and supplies the
// first plausible argument for each one. Choices always take the first
// branch, which skips optional effects.
func (sp ScriptedPlayer) argsFor(b *Board, effects []cards.Effect) []rules.Argument {
	var args []rules.Argument
	m := &b.Mats[sp.Seat]
	for _, e := range effects {
		switch e.Kind {
		case cards.EffectChoice:
			args = append(args, rules.ChooseFirst())
			args = append(args, sp.argsFor(b, e.First)...)
		case cards.EffectOpponentDiscards:
			target, _ := sp.opponent(b)
			args = append(args, rules.Opponent(target))
		case cards.EffectSacrifice:
			for i := range e.Amount {
				args = append(args, rules.CardInHand(max(len(m.Hand)-1-i, 0)))
			}
		case cards.EffectStunChampion:
			args = append(args, sp.stunTarget(b))
		case cards.EffectPrepareChampion:
			idx := slices.IndexFunc(m.Field, func(cif cards.CardInField) bool {
				return cif.Card.IsChampion() && cif.ExpendUsed
			})
			args = append(args, rules.Champion(sp.Seat, max(idx, 0)))
		case cards.EffectPutChampionOverDeckFromDiscard:
			idx := slices.IndexFunc(m.Discard, cards.Card.IsChampion)
			args = append(args, rules.CardInDiscard(max(idx, 0)))
		case cards.EffectPutOverDeckFromDiscard, cards.EffectPutInHandFromDiscard:
			args = append(args, rules.CardInDiscard(0))
		}
	}
	return args
}

func (sp ScriptedPlayer) stunTarget(b *Board) rules.Argument {
	for _, p := range rules.SeatsFrom(sp.Seat, b.Players)[1:] {
		for i, cif := range b.Mats[p].Field {
			if cif.Card.IsChampion() {
				return rules.Champion(p, i)
			}
		}
	}
	target, _ := sp.opponent(b)
	return rules.Champion(target, 0)
}

// StepFunc observes one committed scripted action
type StepFunc func(actor int, a rules.Action, deltas []rules.Delta) error

// Simulate drives every seat with a ScriptedPlayer until the game ends or
// limit actions have been applied. It returns the number of actions taken.
func Simulate(b *Board, limit int, observe StepFunc) (int, error) {
	players := make([]ScriptedPlayer, b.Players)
	for i := range players {
		players[i] = ScriptedPlayer{Seat: i}
	}

	steps := 0
	for !b.GameOver && steps < limit {
		actor := b.CurrentPlayer
		a := players[actor].Next(b)
		deltas, err := b.DoAction(actor, a)
		if err != nil {
			return steps, fmt.Errorf("scripted player %d: %s: %w", actor, a, err)
		}
		steps++
		if observe != nil {
			if err := observe(actor, a, deltas); err != nil {
				return steps, err
			}
		}
	}
	return steps, nil
}
