package game

import (
	"fmt"

	"github.com/magefree/realms-server-go/internal/game/cards"
)

// TargetKind is what a targeted action or effect may point at.
type TargetKind int

const (
	// TargetOpponent is any other seat, eliminated or not
	TargetOpponent TargetKind = iota
	// TargetLivingOpponent is another seat that still has lives
	TargetLivingOpponent
	// TargetOpposingChampion is a champion in another seat's field
	TargetOpposingChampion
	// TargetOwnChampion is a champion in the acting seat's field
	TargetOwnChampion
)

func (k TargetKind) String() string {
	switch k {
	case TargetOpponent:
		return "opponent"
	case TargetLivingOpponent:
		return "living opponent"
	case TargetOpposingChampion:
		return "opposing champion"
	case TargetOwnChampion:
		return "own champion"
	default:
		return fmt.Sprintf("TargetKind(%d)", int(k))
	}
}

// validateTarget checks that seat player, and field slot index for the
// champion kinds, is a legal target of kind for p. Failures wrap
// ErrBadTarget, or ErrBadIndex for a field slot that does not exist.
func (b *Board) validateTarget(p int, kind TargetKind, player, index int) error {
	if !b.validPlayer(player) || (player == p) != (kind == TargetOwnChampion) {
		return fmt.Errorf("player %d as %s: %w", player, kind, ErrBadTarget)
	}

	switch kind {
	case TargetLivingOpponent:
		if b.Mats[player].Lives == 0 {
			return fmt.Errorf("player %d is out: %w", player, ErrBadTarget)
		}
	case TargetOpposingChampion, TargetOwnChampion:
		return checkChampion(b.Mats[player].Field, index)
	}
	return nil
}

func checkChampion(field []cards.CardInField, i int) error {
	if i < 0 || i >= len(field) {
		return fmt.Errorf("field slot %d: %w", i, ErrBadIndex)
	}
	if !field[i].Card.IsChampion() {
		return fmt.Errorf("%s is not a champion: %w", field[i].Card, ErrBadTarget)
	}
	return nil
}
