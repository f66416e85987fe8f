package cards

import (
	"fmt"
	"strings"
)

// EffectKind tags an Effect node
type EffectKind string

const (
	EffectNothing                        EffectKind = "NOTHING"
	EffectGold                           EffectKind = "GOLD"
	EffectCombat                         EffectKind = "COMBAT"
	EffectHeal                           EffectKind = "HEAL"
	EffectDraw                           EffectKind = "DRAW"
	EffectOpponentDiscards               EffectKind = "OPPONENT_DISCARDS"
	EffectPlayerDiscards                 EffectKind = "PLAYER_DISCARDS"
	EffectSacrifice                      EffectKind = "SACRIFICE"
	EffectStunChampion                   EffectKind = "STUN_CHAMPION"
	EffectPrepareChampion                EffectKind = "PREPARE_CHAMPION"
	EffectPutOverDeckFromDiscard         EffectKind = "PUT_OVER_DECK_FROM_DISCARD"
	EffectPutChampionOverDeckFromDiscard EffectKind = "PUT_CHAMPION_OVER_DECK_FROM_DISCARD"
	EffectPutInHandFromDiscard           EffectKind = "PUT_IN_HAND_FROM_DISCARD"
	EffectNextPurchaseToHand             EffectKind = "NEXT_PURCHASE_TO_HAND"
	EffectNextActionPurchaseToTopOfDeck  EffectKind = "NEXT_ACTION_PURCHASE_TO_TOP_OF_DECK"
	EffectNextPurchaseToTopOfDeck        EffectKind = "NEXT_PURCHASE_TO_TOP_OF_DECK"

	// Composite kinds
	EffectChoice    EffectKind = "CHOICE"
	EffectCombatPer EffectKind = "COMBAT_PER"
	EffectHealPer   EffectKind = "HEAL_PER"
)

// Effect is one node of an ability's instruction tree. It carries no behavior.
type Effect struct {
	Kind   EffectKind `json:"kind"`
	Amount int        `json:"amount,omitempty"`
	Per    PerAmount  `json:"per,omitzero"`
	First  []Effect   `json:"first,omitempty"`
	Second []Effect   `json:"second,omitempty"`
}

func Nothing() Effect                        { return Effect{Kind: EffectNothing} }
func GainGold(n int) Effect                  { return Effect{Kind: EffectGold, Amount: n} }
func GainCombat(n int) Effect                { return Effect{Kind: EffectCombat, Amount: n} }
func Heal(n int) Effect                      { return Effect{Kind: EffectHeal, Amount: n} }
func Draw(n int) Effect                      { return Effect{Kind: EffectDraw, Amount: n} }
func OpponentDiscards(n int) Effect          { return Effect{Kind: EffectOpponentDiscards, Amount: n} }
func PlayerDiscards(n int) Effect            { return Effect{Kind: EffectPlayerDiscards, Amount: n} }
func SacrificeCards(n int) Effect            { return Effect{Kind: EffectSacrifice, Amount: n} }
func StunChampion() Effect                   { return Effect{Kind: EffectStunChampion} }
func PrepareChampion() Effect                { return Effect{Kind: EffectPrepareChampion} }
func PutOverDeckFromDiscard() Effect         { return Effect{Kind: EffectPutOverDeckFromDiscard} }
func PutChampionOverDeckFromDiscard() Effect { return Effect{Kind: EffectPutChampionOverDeckFromDiscard} }
func PutInHandFromDiscard() Effect           { return Effect{Kind: EffectPutInHandFromDiscard} }
func NextPurchaseToHand() Effect             { return Effect{Kind: EffectNextPurchaseToHand} }
func NextActionPurchaseToTopOfDeck() Effect  { return Effect{Kind: EffectNextActionPurchaseToTopOfDeck} }
func NextPurchaseToTopOfDeck() Effect        { return Effect{Kind: EffectNextPurchaseToTopOfDeck} }

// Choice resolves to first or second depending on the caller's selector argument.
func Choice(first, second []Effect) Effect {
	return Effect{Kind: EffectChoice, First: first, Second: second}
}

// Optional is a Choice whose first branch does nothing
func Optional(effects ...Effect) Effect {
	return Choice(nil, effects)
}

func CombatPer(n int, per PerAmount) Effect {
	return Effect{Kind: EffectCombatPer, Amount: n, Per: per}
}

func HealPer(n int, per PerAmount) Effect {
	return Effect{Kind: EffectHealPer, Amount: n, Per: per}
}

func (e Effect) String() string {
	switch e.Kind {
	case EffectChoice:
		return fmt.Sprintf("Choice(%s | %s)", Describe(e.First), Describe(e.Second))
	case EffectCombatPer, EffectHealPer:
		return fmt.Sprintf("%s(%d per %s)", e.Kind, e.Amount, e.Per)
	case EffectGold, EffectCombat, EffectHeal, EffectDraw,
		EffectOpponentDiscards, EffectPlayerDiscards, EffectSacrifice:
		return fmt.Sprintf("%s(%d)", e.Kind, e.Amount)
	default:
		return string(e.Kind)
	}
}

// Describe renders an effect list for logs and the catalog listing
func Describe(effects []Effect) string {
	if len(effects) == 0 {
		return "-"
	}
	parts := make([]string, len(effects))
	for i, e := range effects {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

// PerKind selects which field cards a scaled effect counts
type PerKind string

const (
	PerChampion              PerKind = "CHAMPION"
	PerAdditionalChampion    PerKind = "ADDITIONAL_CHAMPION"
	PerAdditionalGuard       PerKind = "ADDITIONAL_GUARD"
	PerAdditionalFactionCard PerKind = "ADDITIONAL_FACTION_CARD"
)

// PerAmount is the multiplier predicate of CombatPer and HealPer.
type PerAmount struct {
	Kind    PerKind `json:"kind"`
	Faction Faction `json:"faction,omitempty"`
}

func EachChampion() PerAmount           { return PerAmount{Kind: PerChampion} }
func EachAdditionalChampion() PerAmount { return PerAmount{Kind: PerAdditionalChampion} }
func EachAdditionalGuard() PerAmount    { return PerAmount{Kind: PerAdditionalGuard} }

func EachAdditionalFactionCard(f Faction) PerAmount {
	return PerAmount{Kind: PerAdditionalFactionCard, Faction: f}
}

func (p PerAmount) String() string {
	if p.Kind == PerAdditionalFactionCard {
		return fmt.Sprintf("%s:%s", p.Kind, p.Faction)
	}
	return string(p.Kind)
}

func (p PerAmount) matches(c Card) bool {
	switch p.Kind {
	case PerChampion, PerAdditionalChampion:
		return c.IsChampion()
	case PerAdditionalGuard:
		return c.IsGuard()
	case PerAdditionalFactionCard:
		return c.Faction() == p.Faction
	}
	return false
}

// Count returns the multiplier for a battlefield. The Additional kinds do not
// count the card granting the ability.
func (p PerAmount) Count(field []CardInField) int {
	n := 0
	for _, cif := range field {
		if p.matches(cif.Card) {
			n++
		}
	}
	if p.Kind != PerChampion {
		n--
	}
	return max(n, 0)
}
