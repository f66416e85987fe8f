package rules

import "github.com/magefree/realms-server-go/internal/game/cards"

// Spectator is a viewer index that owns no hand.
const Spectator = -1

// Visible reports whether viewer may see card identities in a location.
// Decks are hidden from everyone, their owner included; hands only from
// other players.
func Visible(l Location, viewer int) bool {
	switch l.Zone {
	case ZoneDeck, ZoneShopDeck:
		return false
	case ZoneHand:
		return viewer != Spectator && l.Player == viewer
	default:
		return true
	}
}

// Redact filters d for a viewer. Only Move deltas carry hidden data; their
// card is replaced with cards.Unknown when neither end is visible.
func Redact(d Delta, viewer int) Delta {
	if d.Type != DeltaMove {
		return d
	}
	if Visible(d.From, viewer) || Visible(d.To, viewer) {
		return d
	}
	d.Card = cards.Unknown
	return d
}

// RedactAll filters a batch for one viewer, preserving order.
func RedactAll(deltas []Delta, viewer int) []Delta {
	out := make([]Delta, len(deltas))
	for i, d := range deltas {
		out[i] = Redact(d, viewer)
	}
	return out
}
