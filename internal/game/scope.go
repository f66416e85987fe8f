package game

import (
	"github.com/magefree/realms-server-go/internal/game/rules"
	"github.com/magefree/realms-server-go/internal/game/view"
)

// ScopedTo projects the board for viewer. Hidden zones become counts and
// only the viewer's own hand keeps its identities. Pass rules.Spectator for
// a seatless viewer.
func (b *Board) ScopedTo(viewer int) *view.Board {
	v := &view.Board{
		Shop:          cloneOrEmpty(b.Shop),
		ShopDeck:      len(b.ShopDeck),
		Gems:          len(b.Gems),
		Sacrificed:    cloneOrEmpty(b.Sacrificed),
		CurrentPlayer: b.CurrentPlayer,
		Players:       b.Players,
		GameOver:      b.GameOver,
		Mats:          make([]view.Mat, len(b.Mats)),
		You:           viewer,
	}
	for i := range b.Mats {
		m := &b.Mats[i]
		v.Mats[i] = view.Mat{
			Name:        m.Name,
			Field:       cloneOrEmpty(m.Field),
			Hand:        len(m.Hand),
			Discard:     cloneOrEmpty(m.Discard),
			Deck:        len(m.Deck),
			Lives:       m.Lives,
			Combat:      m.Combat,
			Gold:        m.Gold,
			MustDiscard: m.MustDiscard,
		}
	}
	if viewer != rules.Spectator && b.validPlayer(viewer) {
		v.YourHand = cloneOrEmpty(b.Mats[viewer].Hand)
	}
	return v
}

// cloneOrEmpty never returns nil, so a projection compares equal to a view
// that has been emptied by deltas.
func cloneOrEmpty[T any](s []T) []T {
	return append(make([]T, 0, len(s)), s...)
}
