package rules

import (
	"fmt"

	"github.com/magefree/realms-server-go/internal/game/cards"
)

// DeltaType indicates the kind of board mutation a Delta records.
type DeltaType string

const (
	DeltaMove                  DeltaType = "MOVE"
	DeltaIncreaseGold          DeltaType = "INCREASE_GOLD"
	DeltaDecreaseGold          DeltaType = "DECREASE_GOLD"
	DeltaIncreaseCombat        DeltaType = "INCREASE_COMBAT"
	DeltaDecreaseCombat        DeltaType = "DECREASE_COMBAT"
	DeltaIncreaseHealth        DeltaType = "INCREASE_HEALTH"
	DeltaDecreaseHealth        DeltaType = "DECREASE_HEALTH"
	DeltaIncreaseDiscardAmount DeltaType = "INCREASE_DISCARD_AMOUNT"
	DeltaDecreaseDiscardAmount DeltaType = "DECREASE_DISCARD_AMOUNT"
	DeltaChangeCurrentPlayer   DeltaType = "CHANGE_CURRENT_PLAYER"
	DeltaSetExpendAbilityUsed  DeltaType = "SET_EXPEND_ABILITY_USED"
	DeltaSetAllyAbilityUsed    DeltaType = "SET_ALLY_ABILITY_USED"
	DeltaShuffleDeck           DeltaType = "SHUFFLE_DECK"
	DeltaPlayerDeclaredAction  DeltaType = "PLAYER_DECLARED_ACTION"
	DeltaGameOver              DeltaType = "GAME_OVER"
)

// Delta is one atomic, ordered board mutation.
//
// Field use by type:
//   - MOVE: From, Index (slot in the source zone), To, Card
//   - counter changes: Player, Amount
//   - CHANGE_CURRENT_PLAYER, SHUFFLE_DECK: Player
//   - SET_*_ABILITY_USED: Player, Index (field slot), Flag
//   - PLAYER_DECLARED_ACTION: Player, Action
type Delta struct {
	Type   DeltaType  `json:"type"`
	From   Location   `json:"from,omitzero"`
	To     Location   `json:"to,omitzero"`
	Index  int        `json:"index,omitempty"`
	Card   cards.Card `json:"card,omitempty"`
	Player int        `json:"player,omitempty"`
	Amount int        `json:"amount,omitempty"`
	Flag   bool       `json:"flag,omitempty"`
	Action *Action    `json:"action,omitempty"`
}

func Move(from Location, index int, to Location, card cards.Card) Delta {
	return Delta{Type: DeltaMove, From: from, Index: index, To: to, Card: card}
}

func counter(t DeltaType, player, amount int) Delta {
	return Delta{Type: t, Player: player, Amount: amount}
}

func IncreaseGold(p, n int) Delta     { return counter(DeltaIncreaseGold, p, n) }
func DecreaseGold(p, n int) Delta     { return counter(DeltaDecreaseGold, p, n) }
func IncreaseCombat(p, n int) Delta   { return counter(DeltaIncreaseCombat, p, n) }
func DecreaseCombat(p, n int) Delta   { return counter(DeltaDecreaseCombat, p, n) }
func IncreaseHealth(p, n int) Delta   { return counter(DeltaIncreaseHealth, p, n) }
func DecreaseHealth(p, n int) Delta   { return counter(DeltaDecreaseHealth, p, n) }
func IncreaseDiscards(p, n int) Delta { return counter(DeltaIncreaseDiscardAmount, p, n) }
func DecreaseDiscards(p, n int) Delta { return counter(DeltaDecreaseDiscardAmount, p, n) }

func ChangeCurrentPlayer(p int) Delta {
	return Delta{Type: DeltaChangeCurrentPlayer, Player: p}
}

func SetExpendAbilityUsed(p, fieldIndex int, used bool) Delta {
	return Delta{Type: DeltaSetExpendAbilityUsed, Player: p, Index: fieldIndex, Flag: used}
}

func SetAllyAbilityUsed(p, fieldIndex int, used bool) Delta {
	return Delta{Type: DeltaSetAllyAbilityUsed, Player: p, Index: fieldIndex, Flag: used}
}

// ShuffleDeck marks a discard-to-deck reshuffle. It carries no card data.
func ShuffleDeck(p int) Delta {
	return Delta{Type: DeltaShuffleDeck, Player: p}
}

// PlayerDeclaredAction echoes the submitted action so every viewer can see
// what was attempted.
func PlayerDeclaredAction(p int, a Action) Delta {
	return Delta{Type: DeltaPlayerDeclaredAction, Player: p, Action: &a}
}

func GameOver() Delta { return Delta{Type: DeltaGameOver} }

func (d Delta) String() string {
	switch d.Type {
	case DeltaMove:
		return fmt.Sprintf("MOVE %s[%d] -> %s (%s)", d.From, d.Index, d.To, d.Card)
	case DeltaChangeCurrentPlayer, DeltaShuffleDeck:
		return fmt.Sprintf("%s %d", d.Type, d.Player)
	case DeltaSetExpendAbilityUsed, DeltaSetAllyAbilityUsed:
		return fmt.Sprintf("%s %d[%d]=%t", d.Type, d.Player, d.Index, d.Flag)
	case DeltaPlayerDeclaredAction:
		if d.Action == nil {
			return fmt.Sprintf("%s %d", d.Type, d.Player)
		}
		return fmt.Sprintf("%s %d %s", d.Type, d.Player, d.Action)
	case DeltaGameOver:
		return string(d.Type)
	default:
		return fmt.Sprintf("%s %d by %d", d.Type, d.Player, d.Amount)
	}
}
