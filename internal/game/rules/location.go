package rules

import "fmt"

// Zone names a card container on the board
type Zone string

const (
	ZoneHand      Zone = "HAND"
	ZoneDiscard   Zone = "DISCARD"
	ZoneDeck      Zone = "DECK"
	ZoneField     Zone = "FIELD"
	ZoneSacrifice Zone = "SACRIFICE"
	ZoneShop      Zone = "SHOP"
	ZoneShopDeck  Zone = "SHOP_DECK"
	ZoneFireGems  Zone = "FIRE_GEMS"
)

// Owned reports whether the zone belongs to a single player
func (z Zone) Owned() bool {
	switch z {
	case ZoneHand, ZoneDiscard, ZoneDeck, ZoneField:
		return true
	}
	return false
}

// Location addresses a zone. Player is meaningful only for owned zones.
type Location struct {
	Zone   Zone `json:"zone"`
	Player int  `json:"player"`
}

func Hand(p int) Location    { return Location{Zone: ZoneHand, Player: p} }
func Discard(p int) Location { return Location{Zone: ZoneDiscard, Player: p} }
func Deck(p int) Location    { return Location{Zone: ZoneDeck, Player: p} }
func Field(p int) Location   { return Location{Zone: ZoneField, Player: p} }

var (
	Sacrifice = Location{Zone: ZoneSacrifice}
	Shop      = Location{Zone: ZoneShop}
	ShopDeck  = Location{Zone: ZoneShopDeck}
	FireGems  = Location{Zone: ZoneFireGems}
)

func (l Location) String() string {
	if l.Zone.Owned() {
		return fmt.Sprintf("%s(%d)", l.Zone, l.Player)
	}
	return string(l.Zone)
}
