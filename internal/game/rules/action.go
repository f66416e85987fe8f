package rules

import (
	"fmt"
	"strings"
)

// ActionType enumerates the commands a player may submit
type ActionType string

const (
	ActionPlay                 ActionType = "PLAY"
	ActionActivateExpend       ActionType = "ACTIVATE_EXPEND"
	ActionActivateAlly         ActionType = "ACTIVATE_ALLY"
	ActionActivateSacrifice    ActionType = "ACTIVATE_SACRIFICE"
	ActionAttackPlayer         ActionType = "ATTACK_PLAYER"
	ActionAttackPlayerChampion ActionType = "ATTACK_PLAYER_CHAMPION"
	ActionPurchaseFromShop     ActionType = "PURCHASE_FROM_SHOP"
	ActionPurchaseFireGem      ActionType = "PURCHASE_FIRE_GEM"
	ActionDiscard              ActionType = "DISCARD"
	ActionEndTurn              ActionType = "END_TURN"
)

// Action is a player command. Index addresses a hand, field or shop slot
// depending on Type; Target is the attacked player.
type Action struct {
	Type   ActionType `json:"type"`
	Index  int        `json:"index,omitempty"`
	Target int        `json:"target,omitempty"`
	Amount int        `json:"amount,omitempty"`
	Args   []Argument `json:"args,omitempty"`
}

func Play(handIndex int, args ...Argument) Action {
	return Action{Type: ActionPlay, Index: handIndex, Args: args}
}

func ActivateExpend(fieldIndex int, args ...Argument) Action {
	return Action{Type: ActionActivateExpend, Index: fieldIndex, Args: args}
}

func ActivateAlly(fieldIndex int, args ...Argument) Action {
	return Action{Type: ActionActivateAlly, Index: fieldIndex, Args: args}
}

func ActivateSacrifice(fieldIndex int, args ...Argument) Action {
	return Action{Type: ActionActivateSacrifice, Index: fieldIndex, Args: args}
}

func AttackPlayer(target, amount int) Action {
	return Action{Type: ActionAttackPlayer, Target: target, Amount: amount}
}

func AttackPlayerChampion(target, fieldIndex int) Action {
	return Action{Type: ActionAttackPlayerChampion, Target: target, Index: fieldIndex}
}

func PurchaseFromShop(shopIndex int) Action {
	return Action{Type: ActionPurchaseFromShop, Index: shopIndex}
}

func PurchaseFireGem() Action { return Action{Type: ActionPurchaseFireGem} }

func DiscardCard(handIndex int) Action {
	return Action{Type: ActionDiscard, Index: handIndex}
}

func EndTurn() Action { return Action{Type: ActionEndTurn} }

// Validate checks the action is well formed, independent of board state.
func (a Action) Validate() error {
	switch a.Type {
	case ActionPlay, ActionActivateExpend, ActionActivateAlly, ActionActivateSacrifice,
		ActionPurchaseFromShop, ActionDiscard, ActionAttackPlayerChampion:
		if a.Index < 0 {
			return fmt.Errorf("%s: negative index %d", a.Type, a.Index)
		}
	case ActionAttackPlayer:
		if a.Amount <= 0 {
			return fmt.Errorf("%s: amount must be positive, got %d", a.Type, a.Amount)
		}
	case ActionPurchaseFireGem, ActionEndTurn:
	default:
		return fmt.Errorf("unknown action type %q", a.Type)
	}
	if a.Target < 0 {
		return fmt.Errorf("%s: negative target %d", a.Type, a.Target)
	}
	for _, arg := range a.Args {
		if err := arg.Validate(); err != nil {
			return fmt.Errorf("%s: %w", a.Type, err)
		}
	}
	return nil
}

func (a Action) String() string {
	var b strings.Builder
	b.WriteString(string(a.Type))
	switch a.Type {
	case ActionAttackPlayer:
		fmt.Fprintf(&b, "(player=%d, amount=%d)", a.Target, a.Amount)
	case ActionAttackPlayerChampion:
		fmt.Fprintf(&b, "(player=%d, champion=%d)", a.Target, a.Index)
	case ActionPurchaseFireGem, ActionEndTurn:
	default:
		fmt.Fprintf(&b, "(%d)", a.Index)
	}
	if len(a.Args) > 0 {
		args := make([]string, len(a.Args))
		for i, arg := range a.Args {
			args[i] = arg.String()
		}
		fmt.Fprintf(&b, " [%s]", strings.Join(args, ", "))
	}
	return b.String()
}

// ArgumentType enumerates the disambiguation values effects consume
type ArgumentType string

const (
	ArgChooseFirst   ArgumentType = "CHOOSE_FIRST"
	ArgChooseSecond  ArgumentType = "CHOOSE_SECOND"
	ArgChampion      ArgumentType = "CHAMPION"
	ArgCardInHand    ArgumentType = "CARD_IN_HAND"
	ArgCardInDiscard ArgumentType = "CARD_IN_DISCARD"
	ArgOpponent      ArgumentType = "OPPONENT"
)

// Argument is caller-supplied input for the effect currently resolving.
type Argument struct {
	Type   ArgumentType `json:"type"`
	Player int          `json:"player,omitempty"`
	Index  int          `json:"index,omitempty"`
}

func ChooseFirst() Argument  { return Argument{Type: ArgChooseFirst} }
func ChooseSecond() Argument { return Argument{Type: ArgChooseSecond} }

func Champion(player, fieldIndex int) Argument {
	return Argument{Type: ArgChampion, Player: player, Index: fieldIndex}
}

func CardInHand(index int) Argument    { return Argument{Type: ArgCardInHand, Index: index} }
func CardInDiscard(index int) Argument { return Argument{Type: ArgCardInDiscard, Index: index} }
func Opponent(player int) Argument     { return Argument{Type: ArgOpponent, Player: player} }

// Validate rejects unknown argument types and negative indices
func (a Argument) Validate() error {
	switch a.Type {
	case ArgChooseFirst, ArgChooseSecond, ArgChampion, ArgCardInHand, ArgCardInDiscard, ArgOpponent:
	default:
		return fmt.Errorf("unknown argument type %q", a.Type)
	}
	if a.Player < 0 || a.Index < 0 {
		return fmt.Errorf("argument %s has negative player or index", a.Type)
	}
	return nil
}

func (a Argument) String() string {
	switch a.Type {
	case ArgChampion:
		return fmt.Sprintf("%s(%d,%d)", a.Type, a.Player, a.Index)
	case ArgCardInHand, ArgCardInDiscard:
		return fmt.Sprintf("%s(%d)", a.Type, a.Index)
	case ArgOpponent:
		return fmt.Sprintf("%s(%d)", a.Type, a.Player)
	default:
		return string(a.Type)
	}
}
