package cards

import (
	"fmt"
	"slices"
	"strings"
)

// Setup lists the cards a match starts with.
type Setup struct {
	Name       string `json:"name"`
	ShopDeck   []Card `json:"shop_deck"`
	Gems       []Card `json:"gems"`
	PlayerDeck []Card `json:"player_deck"`
}

// ShopSize is the number of face-up cards offered in the shop row
const ShopSize = 6

// StartingLives is every mat's health at setup
const StartingLives = 50

// Named setups accepted by SetupByName
const (
	SetupBase = "base"
	SetupTest = "test"
)

func repeat(c Card, n int) []Card {
	return slices.Repeat([]Card{c}, n)
}

func starterDeck() []Card {
	return slices.Concat(repeat(Gold, 7), []Card{ShortSword, Dagger, Ruby})
}

// Base is the full base-set market
func Base() Setup {
	return Setup{
		Name: SetupBase,
		ShopDeck: slices.Concat(
			[]Card{ArkusImperialDragon, CloseRanks, Command, DarianWarMage, Domination, CristovTheJust, KrakaHighPriest},
			repeat(ManAtArms, 2),
			[]Card{MasterWeyan, RallyTheTroops},
			repeat(Recruit, 3),
			repeat(TithePriest, 2),
			repeat(Taxation, 3),
			[]Card{WordOfPower, BorgOgreMercenary},
			repeat(Bribe, 3),
			[]Card{DeathThreat, Deception, FireBomb, HitJob},
			repeat(Intimidation, 2),
			[]Card{MyrosGuildMage, ParovTheEnforcer},
			repeat(Profit, 3),
			[]Card{RakeMasterAssassin, RasmusTheSmuggler, SmashAndGrab},
			repeat(StreetThug, 2),
			repeat(CultPriest, 2),
			[]Card{DarkEnergy, DarkReward},
			repeat(DeathCultist, 2),
			repeat(DeathTouch, 3),
			[]Card{RaylaEndweaver},
			repeat(Influence, 3),
			[]Card{KrythosMasterVampire, LifeDrain, LysTheUnseen},
			repeat(TheRot, 2),
			[]Card{TyrannorTheDevourer, VarrickTheNecromancer, BroelynLoreweaver, CronTheBerserker, DireWolf},
			repeat(ElvenCurse, 2),
			repeat(ElvenGift, 3),
			[]Card{GrakStormGiant, NaturesBounty},
			repeat(OrcGrunt, 2),
			[]Card{Rampage, TorgenRocksplitter},
			repeat(Spark, 3),
			[]Card{WolfForm},
			repeat(WolfShaman, 2),
		),
		Gems:       repeat(FireGem, 10),
		PlayerDeck: starterDeck(),
	}
}

// Test is a small deterministic market of Sparks used by tests and demos
func Test() Setup {
	return Setup{
		Name:       SetupTest,
		ShopDeck:   repeat(Spark, 10),
		Gems:       repeat(FireGem, 10),
		PlayerDeck: starterDeck(),
	}
}

// SetupByName resolves a named setup
func SetupByName(name string) (Setup, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", SetupBase:
		return Base(), nil
	case SetupTest:
		return Test(), nil
	default:
		return Setup{}, fmt.Errorf("unknown setup %q", name)
	}
}

// Validate checks that a setup can start a match for the given player count.
func (s Setup) Validate(players int) error {
	if len(s.ShopDeck) < ShopSize {
		return fmt.Errorf("setup %s: shop deck has %d cards, need at least %d", s.Name, len(s.ShopDeck), ShopSize)
	}
	if len(s.PlayerDeck) < 5 {
		return fmt.Errorf("setup %s: player deck has %d cards, need at least 5", s.Name, len(s.PlayerDeck))
	}
	for _, c := range s.Gems {
		if c != FireGem {
			return fmt.Errorf("setup %s: gem pool contains %s", s.Name, c)
		}
	}
	for _, group := range [][]Card{s.ShopDeck, s.PlayerDeck} {
		for _, c := range group {
			if !c.Valid() {
				return fmt.Errorf("setup %s: invalid card %d", s.Name, int(c))
			}
		}
	}
	if players < 2 {
		return fmt.Errorf("setup %s: at least 2 players required", s.Name)
	}
	return nil
}
