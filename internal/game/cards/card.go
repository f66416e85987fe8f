// Package cards holds the closed card catalog: static attributes and ability
// trees keyed by card identity.
package cards

import (
	"fmt"
	"strings"
	"unicode"
)

// Faction groups cards for ally abilities
type Faction uint8

const (
	NoFaction Faction = iota
	Wild
	Necros
	Guild
	Imperial
)

var factionNames = map[Faction]string{
	NoFaction: "NONE",
	Wild:      "WILD",
	Necros:    "NECROS",
	Guild:     "GUILD",
	Imperial:  "IMPERIAL",
}

func (f Faction) String() string {
	if name, ok := factionNames[f]; ok {
		return name
	}
	return fmt.Sprintf("FACTION_%d", int(f))
}

// MarshalText implements encoding.TextMarshaler.
func (f Faction) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Faction) UnmarshalText(text []byte) error {
	for faction, name := range factionNames {
		if strings.EqualFold(name, string(text)) {
			*f = faction
			return nil
		}
	}
	return fmt.Errorf("unknown faction %q", text)
}

// Card is a catalog identity. Unknown stands in for a card the viewer may not see.
type Card uint8

const (
	Unknown Card = iota

	Gold
	ShortSword
	Dagger
	Ruby
	FireGem

	ArkusImperialDragon
	CloseRanks
	Command
	DarianWarMage
	Domination
	CristovTheJust
	KrakaHighPriest
	ManAtArms
	MasterWeyan
	RallyTheTroops
	Recruit
	TithePriest
	Taxation
	WordOfPower

	BorgOgreMercenary
	Bribe
	DeathThreat
	Deception
	FireBomb
	HitJob
	Intimidation
	MyrosGuildMage
	ParovTheEnforcer
	Profit
	RakeMasterAssassin
	RasmusTheSmuggler
	SmashAndGrab
	StreetThug

	CultPriest
	DarkEnergy
	DarkReward
	DeathCultist
	DeathTouch
	RaylaEndweaver
	Influence
	KrythosMasterVampire
	LifeDrain
	LysTheUnseen
	TheRot
	TyrannorTheDevourer
	VarrickTheNecromancer

	BroelynLoreweaver
	CronTheBerserker
	DireWolf
	ElvenCurse
	ElvenGift
	GrakStormGiant
	NaturesBounty
	OrcGrunt
	Rampage
	TorgenRocksplitter
	Spark
	WolfForm
	WolfShaman

	cardCount
)

// All returns every catalog identity in declaration order, excluding Unknown.
func All() []Card {
	out := make([]Card, 0, cardCount-1)
	for c := Gold; c < cardCount; c++ {
		out = append(out, c)
	}
	return out
}

// Valid reports whether c names a catalog entry
func (c Card) Valid() bool {
	return c > Unknown && c < cardCount
}

func (c Card) def() definition {
	return catalog[c]
}

// Name returns the printed card name
func (c Card) Name() string {
	if c == Unknown {
		return "Unknown"
	}
	if d, ok := catalog[c]; ok {
		return d.name
	}
	return fmt.Sprintf("Card(%d)", int(c))
}

// Key returns the identifier used in wire formats and config
func (c Card) Key() string {
	if c == Unknown {
		return "Unknown"
	}
	if d, ok := catalog[c]; ok {
		return d.key
	}
	return fmt.Sprintf("Card%d", int(c))
}

func (c Card) String() string {
	return c.Name()
}

func (c Card) Faction() Faction { return c.def().faction }

// Cost returns the acquisition cost. ok is false for cards that cannot be bought.
func (c Card) Cost() (cost int, ok bool) {
	d := c.def()
	return d.cost, d.cost > 0
}

// Defense is the combat needed to defeat a champion; zero for other cards.
func (c Card) Defense() int { return c.def().defense }

func (c Card) IsChampion() bool { return c.def().champion }

func (c Card) IsGuard() bool { return c.def().guard }

func (c Card) IsObject() bool { return c.def().object }

// IsAction reports whether the card is neither a champion nor an object.
func (c Card) IsAction() bool {
	return c.Valid() && !c.IsChampion() && !c.IsObject()
}

// MarshalText implements encoding.TextMarshaler.
func (c Card) MarshalText() ([]byte, error) {
	return []byte(c.Key()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Card) UnmarshalText(text []byte) error {
	card, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = card
	return nil
}

var byNormalizedName = func() map[string]Card {
	index := make(map[string]Card, 2*len(catalog)+1)
	index[normalize("Unknown")] = Unknown
	for card, d := range catalog {
		index[normalize(d.key)] = card
		index[normalize(d.name)] = card
	}
	return index
}()

// Parse resolves a card by key or printed name, ignoring case and punctuation.
func Parse(name string) (Card, error) {
	if card, ok := byNormalizedName[normalize(name)]; ok {
		return card, nil
	}
	return Unknown, fmt.Errorf("unknown card %q", name)
}

func normalize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// CardInField is a card on a player's battlefield with its per-turn ability flags.
type CardInField struct {
	Card       Card `json:"card"`
	ExpendUsed bool `json:"expend_used"`
	AllyUsed   bool `json:"ally_used"`
}

// InField wraps a freshly played card
func InField(c Card) CardInField {
	return CardInField{Card: c}
}
