package cards

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogCoversEveryIdentity(t *testing.T) {
	for _, c := range All() {
		_, ok := catalog[c]
		assert.True(t, ok, "missing catalog entry for card %d", int(c))
	}
	assert.Len(t, catalog, len(All()))
	assert.Len(t, All(), 58)
}

func TestPlayableCardsDefineRequiredAbility(t *testing.T) {
	for _, c := range All() {
		switch {
		case c.IsChampion():
			_, ok := c.Effects(AbilityExpend)
			assert.True(t, ok, "%s is a champion without an expend ability", c)
			assert.Positive(t, c.Defense(), "%s has no defense", c)
		default:
			_, ok := c.Effects(AbilityPrimary)
			assert.True(t, ok, "%s has no primary ability", c)
			assert.Zero(t, c.Defense(), "%s is not a champion but has defense", c)
		}
	}
}

func TestClassificationsAreConsistent(t *testing.T) {
	for _, c := range All() {
		if c.IsGuard() {
			assert.True(t, c.IsChampion(), "%s is a guard but not a champion", c)
		}
		if c.IsObject() {
			assert.False(t, c.IsChampion())
			assert.False(t, c.IsAction())
		}
		assert.Equal(t, !c.IsChampion() && !c.IsObject(), c.IsAction(), c.String())
	}
	assert.False(t, Unknown.IsAction())
}

func TestShopCardsArePurchasable(t *testing.T) {
	for _, c := range Base().ShopDeck {
		cost, ok := c.Cost()
		assert.True(t, ok, "%s in shop deck has no cost", c)
		assert.Positive(t, cost)
	}
	cost, ok := FireGem.Cost()
	assert.True(t, ok)
	assert.Equal(t, 2, cost)

	_, ok = Gold.Cost()
	assert.False(t, ok)
}

func TestKnownAttributes(t *testing.T) {
	assert.Equal(t, Imperial, ArkusImperialDragon.Faction())
	assert.True(t, ArkusImperialDragon.IsGuard())
	assert.Equal(t, 6, ArkusImperialDragon.Defense())

	assert.Equal(t, Wild, WolfShaman.Faction())
	assert.True(t, WolfShaman.IsChampion())
	assert.False(t, WolfShaman.IsGuard())

	assert.True(t, Spark.IsAction())
	cost, _ := Spark.Cost()
	assert.Equal(t, 1, cost)

	effects, ok := Spark.Effects(AbilityPrimary)
	require.True(t, ok)
	assert.Equal(t, []Effect{GainCombat(3), OpponentDiscards(1)}, effects)

	_, ok = Spark.Effects(AbilitySacrifice)
	assert.False(t, ok)

	effects, ok = FireGem.Effects(AbilitySacrifice)
	require.True(t, ok)
	assert.Equal(t, []Effect{GainCombat(3)}, effects)
}

func TestPerAmountCount(t *testing.T) {
	field := []CardInField{
		InField(WolfShaman),
		InField(Spark),
		InField(OrcGrunt),
		InField(ManAtArms),
		InField(Gold),
	}

	assert.Equal(t, 3, EachChampion().Count(field))
	assert.Equal(t, 2, EachAdditionalChampion().Count(field))
	assert.Equal(t, 1, EachAdditionalGuard().Count(field))
	assert.Equal(t, 2, EachAdditionalFactionCard(Wild).Count(field))

	// never negative when the granting card is absent
	assert.Equal(t, 0, EachAdditionalGuard().Count(nil))
	assert.Equal(t, 0, EachChampion().Count(nil))
}

func TestParseAcceptsKeysAndNames(t *testing.T) {
	for _, c := range All() {
		byKey, err := Parse(c.Key())
		require.NoError(t, err)
		assert.Equal(t, c, byKey)

		byName, err := Parse(c.Name())
		require.NoError(t, err)
		assert.Equal(t, c, byName)
	}

	c, err := Parse("man at arms")
	require.NoError(t, err)
	assert.Equal(t, ManAtArms, c)

	_, err = Parse("Black Lotus")
	assert.Error(t, err)
}

func TestCardJSONUsesKeys(t *testing.T) {
	data, err := json.Marshal([]Card{ShortSword, Unknown})
	require.NoError(t, err)
	assert.JSONEq(t, `["ShortSword","Unknown"]`, string(data))

	var decoded []Card
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []Card{ShortSword, Unknown}, decoded)
}

func TestEffectTreeSurvivesJSON(t *testing.T) {
	effects, _ := TithePriest.Effects(AbilityExpend)
	data, err := json.Marshal(effects)
	require.NoError(t, err)

	var decoded []Effect
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, effects, decoded)
}

func TestSetups(t *testing.T) {
	base := Base()
	assert.Len(t, base.ShopDeck, 80)
	assert.Len(t, base.Gems, 10)
	assert.Len(t, base.PlayerDeck, 10)
	require.NoError(t, base.Validate(2))

	test := Test()
	assert.Len(t, test.ShopDeck, 10)
	for _, c := range test.ShopDeck {
		assert.Equal(t, Spark, c)
	}
	require.NoError(t, test.Validate(4))
	assert.Error(t, test.Validate(1))

	s, err := SetupByName("TEST")
	require.NoError(t, err)
	assert.Equal(t, "test", s.Name)

	_, err = SetupByName("commander")
	assert.Error(t, err)
}

func TestDescribe(t *testing.T) {
	effects, _ := DeathTouch.Effects(AbilityPrimary)
	assert.Equal(t, "COMBAT(2), Choice(- | SACRIFICE(1))", Describe(effects))
	assert.Equal(t, "-", Describe(nil))
}
