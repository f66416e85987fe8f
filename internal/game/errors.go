package game

import "errors"

// Rule errors. Every rejected action wraps exactly one of these, so callers
// can classify failures with errors.Is.
var (
	// Index or target out of range
	ErrBadIndex  = errors.New("index out of range")
	ErrBadTarget = errors.New("invalid target")

	// Wrong phase: acting out of turn, or acting while a discard is owed
	ErrNotYourTurn      = errors.New("not your turn")
	ErrMustDiscard      = errors.New("must discard first")
	ErrNothingToDiscard = errors.New("no discard owed")

	// Insufficient resources
	ErrInsufficientGold   = errors.New("insufficient gold")
	ErrInsufficientCombat = errors.New("insufficient combat")
	ErrGuarded            = errors.New("target is protected by a guard")
	ErrSoldOut            = errors.New("sold out")

	// Ability not available
	ErrNoAbility   = errors.New("card has no such ability")
	ErrAbilityUsed = errors.New("ability already used this turn")
	ErrNoAlly      = errors.New("no ally in play")

	// Malformed effect arguments
	ErrBadArgument = errors.New("bad effect argument")

	// Terminal
	ErrGameOver   = errors.New("game is over")
	ErrEliminated = errors.New("player is eliminated")
)
