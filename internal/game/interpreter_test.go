package game

import (
	"testing"

	"github.com/magefree/realms-server-go/internal/game/cards"
	"github.com/magefree/realms-server-go/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEffectsPreservesReadingOrder(t *testing.T) {
	b := newTestBoard(t, 1)
	p, _ := seats(b)

	deltas, err := b.applyEffects(p, []cards.Effect{
		cards.GainGold(1),
		cards.Choice([]cards.Effect{cards.GainCombat(2), cards.Heal(3)}, []cards.Effect{cards.GainGold(9)}),
		cards.GainGold(4),
	}, []rules.Argument{rules.ChooseFirst()})
	require.NoError(t, err)

	assert.Equal(t, []rules.Delta{
		rules.IncreaseGold(p, 1),
		rules.IncreaseCombat(p, 2),
		rules.IncreaseHealth(p, 3),
		rules.IncreaseGold(p, 4),
	}, deltas)
	assert.Equal(t, 5, b.Mats[p].Gold)
	assert.Equal(t, 2, b.Mats[p].Combat)
	assert.Equal(t, cards.StartingLives+3, b.Mats[p].Lives)
}

func TestApplyEffectsChooseSecond(t *testing.T) {
	b := newTestBoard(t, 1)
	p, _ := seats(b)

	_, err := b.applyEffects(p, []cards.Effect{
		cards.Choice([]cards.Effect{cards.GainGold(1)}, []cards.Effect{cards.GainCombat(2)}),
	}, []rules.Argument{rules.ChooseSecond()})
	require.NoError(t, err)
	assert.Zero(t, b.Mats[p].Gold)
	assert.Equal(t, 2, b.Mats[p].Combat)
}

func TestApplyEffectsArgumentErrors(t *testing.T) {
	choice := []cards.Effect{cards.Choice([]cards.Effect{cards.GainGold(1)}, nil)}

	tests := []struct {
		name    string
		effects []cards.Effect
		args    []rules.Argument
	}{
		{"missing", choice, nil},
		{"wrong type", choice, []rules.Argument{rules.CardInHand(0)}},
		{"unused", []cards.Effect{cards.GainGold(1)}, []rules.Argument{rules.ChooseFirst()}},
		{"missing opponent", []cards.Effect{cards.OpponentDiscards(1)}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBoard(t, 1)
			p, _ := seats(b)
			_, err := b.applyEffects(p, tt.effects, tt.args)
			assert.ErrorIs(t, err, ErrBadArgument)
		})
	}
}

func TestDrawReshufflesDiscard(t *testing.T) {
	b := newTestBoard(t, 1)
	p, _ := seats(b)
	m := &b.Mats[p]
	m.Deck = nil
	m.Discard = []cards.Card{cards.Gold, cards.Ruby}
	handBefore := len(m.Hand)

	deltas, err := b.applyEffects(p, []cards.Effect{cards.Draw(1)}, nil)
	require.NoError(t, err)

	require.Len(t, deltas, 4)
	assert.Equal(t, rules.Move(rules.Discard(p), 0, rules.Deck(p), cards.Gold), deltas[0])
	assert.Equal(t, rules.Move(rules.Discard(p), 0, rules.Deck(p), cards.Ruby), deltas[1])
	assert.Equal(t, rules.ShuffleDeck(p), deltas[2])
	assert.Equal(t, rules.DeltaMove, deltas[3].Type)
	assert.Equal(t, rules.Deck(p), deltas[3].From)
	assert.Equal(t, rules.Hand(p), deltas[3].To)

	assert.Len(t, m.Hand, handBefore+1)
	assert.Len(t, m.Deck, 1)
	assert.Empty(t, m.Discard)
	assert.Equal(t, deltas[3].Card, m.Hand[len(m.Hand)-1])
}

func TestDrawWithNothingLeftDrawsFewer(t *testing.T) {
	b := newTestBoard(t, 1)
	p, _ := seats(b)
	m := &b.Mats[p]
	m.Deck = []cards.Card{cards.Dagger}
	m.Discard = nil
	handBefore := len(m.Hand)

	deltas, err := b.applyEffects(p, []cards.Effect{cards.Draw(3)}, nil)
	require.NoError(t, err)
	assert.Len(t, deltas, 1)
	assert.Len(t, m.Hand, handBefore+1)
	assert.Empty(t, m.Deck)
}

func TestDrawTakesFromTop(t *testing.T) {
	b := newTestBoard(t, 1)
	p, _ := seats(b)
	b.Mats[p].Deck = []cards.Card{cards.Gold, cards.Dagger, cards.Ruby}

	deltas, err := b.applyEffects(p, []cards.Effect{cards.Draw(2)}, nil)
	require.NoError(t, err)
	assert.Equal(t, cards.Ruby, deltas[0].Card)
	assert.Equal(t, cards.Dagger, deltas[1].Card)
	assert.Equal(t, []cards.Card{cards.Gold}, b.Mats[p].Deck)
}

func TestSacrificeFromHandAndDiscard(t *testing.T) {
	b := newTestBoard(t, 1)
	p, _ := seats(b)
	m := &b.Mats[p]
	m.Hand = []cards.Card{cards.Gold, cards.Dagger}
	m.Discard = []cards.Card{cards.Ruby}

	deltas, err := b.applyEffects(p, []cards.Effect{cards.SacrificeCards(2)},
		[]rules.Argument{rules.CardInHand(1), rules.CardInDiscard(0)})
	require.NoError(t, err)

	assert.Equal(t, []rules.Delta{
		rules.Move(rules.Hand(p), 1, rules.Sacrifice, cards.Dagger),
		rules.Move(rules.Discard(p), 0, rules.Sacrifice, cards.Ruby),
	}, deltas)
	assert.Equal(t, []cards.Card{cards.Gold}, m.Hand)
	assert.Empty(t, m.Discard)
	assert.Equal(t, []cards.Card{cards.Dagger, cards.Ruby}, b.Sacrificed)

	_, err = b.applyEffects(p, []cards.Effect{cards.SacrificeCards(1)}, []rules.Argument{rules.CardInHand(4)})
	assert.ErrorIs(t, err, ErrBadIndex)
}

func TestOpponentDiscardsNeedsOpponent(t *testing.T) {
	b := newTestBoard(t, 1)
	p, o := seats(b)

	deltas, err := b.applyEffects(p, []cards.Effect{cards.OpponentDiscards(1)}, []rules.Argument{rules.Opponent(o)})
	require.NoError(t, err)
	assert.Equal(t, []rules.Delta{rules.IncreaseDiscards(o, 1)}, deltas)
	assert.Equal(t, 1, b.Mats[o].MustDiscard)

	_, err = b.applyEffects(p, []cards.Effect{cards.OpponentDiscards(1)}, []rules.Argument{rules.Opponent(p)})
	assert.ErrorIs(t, err, ErrBadTarget)
}

func TestForcedDiscardsCappedAtHandSize(t *testing.T) {
	b := newTestBoard(t, 1)
	p, o := seats(b)
	b.Mats[o].Hand = []cards.Card{cards.Gold}

	_, err := b.applyEffects(p, []cards.Effect{cards.OpponentDiscards(1), cards.OpponentDiscards(1)},
		[]rules.Argument{rules.Opponent(o), rules.Opponent(o)})
	require.NoError(t, err)
	assert.Equal(t, 1, b.Mats[o].MustDiscard)
}

func TestStunChampion(t *testing.T) {
	b := newTestBoard(t, 1)
	p, o := seats(b)
	b.Mats[o].Field = field(cards.Spark, cards.OrcGrunt)
	b.Mats[p].Field = field(cards.WolfShaman)

	stun := []cards.Effect{cards.StunChampion()}

	_, err := b.applyEffects(p, stun, []rules.Argument{rules.Champion(p, 0)})
	assert.ErrorIs(t, err, ErrBadTarget, "cannot stun own champion")

	_, err = b.applyEffects(p, stun, []rules.Argument{rules.Champion(o, 0)})
	assert.ErrorIs(t, err, ErrBadTarget, "Spark is not a champion")

	deltas, err := b.applyEffects(p, stun, []rules.Argument{rules.Champion(o, 1)})
	require.NoError(t, err)
	assert.Equal(t, []rules.Delta{rules.Move(rules.Field(o), 1, rules.Discard(o), cards.OrcGrunt)}, deltas)
	assert.Equal(t, field(cards.Spark), b.Mats[o].Field)
	assert.Contains(t, b.Mats[o].Discard, cards.OrcGrunt)
}

func TestPrepareChampion(t *testing.T) {
	b := newTestBoard(t, 1)
	p, o := seats(b)
	b.Mats[p].Field = field(cards.StreetThug)
	b.Mats[p].Field[0].ExpendUsed = true
	b.Mats[o].Field = field(cards.OrcGrunt)

	prepare := []cards.Effect{cards.PrepareChampion()}
	_, err := b.applyEffects(p, prepare, []rules.Argument{rules.Champion(o, 0)})
	assert.ErrorIs(t, err, ErrBadTarget)

	deltas, err := b.applyEffects(p, prepare, []rules.Argument{rules.Champion(p, 0)})
	require.NoError(t, err)
	assert.Equal(t, []rules.Delta{rules.SetExpendAbilityUsed(p, 0, false)}, deltas)
	assert.False(t, b.Mats[p].Field[0].ExpendUsed)
}

func TestPutFromDiscard(t *testing.T) {
	b := newTestBoard(t, 1)
	p, _ := seats(b)
	m := &b.Mats[p]
	m.Discard = []cards.Card{cards.Gold, cards.OrcGrunt, cards.Ruby}

	_, err := b.applyEffects(p, []cards.Effect{cards.PutChampionOverDeckFromDiscard()},
		[]rules.Argument{rules.CardInDiscard(0)})
	assert.ErrorIs(t, err, ErrBadArgument)

	_, err = b.applyEffects(p, []cards.Effect{cards.PutChampionOverDeckFromDiscard()},
		[]rules.Argument{rules.CardInDiscard(1)})
	require.NoError(t, err)
	assert.Equal(t, cards.OrcGrunt, m.Deck[len(m.Deck)-1])

	deltas, err := b.applyEffects(p, []cards.Effect{cards.PutInHandFromDiscard()},
		[]rules.Argument{rules.CardInDiscard(1)})
	require.NoError(t, err)
	assert.Equal(t, []rules.Delta{rules.Move(rules.Discard(p), 1, rules.Hand(p), cards.Ruby)}, deltas)
	assert.Equal(t, cards.Ruby, m.Hand[len(m.Hand)-1])
	assert.Equal(t, []cards.Card{cards.Gold}, m.Discard)
}

func TestScaledEffectsCountField(t *testing.T) {
	b := newTestBoard(t, 1)
	p, _ := seats(b)
	b.Mats[p].Field = field(cards.WolfShaman, cards.OrcGrunt, cards.Spark, cards.Gold)

	deltas, err := b.applyEffects(p, []cards.Effect{
		cards.CombatPer(1, cards.EachAdditionalFactionCard(cards.Wild)),
		cards.HealPer(2, cards.EachChampion()),
		cards.CombatPer(3, cards.EachAdditionalGuard()),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, []rules.Delta{
		rules.IncreaseCombat(p, 2),
		rules.IncreaseHealth(p, 4),
		rules.IncreaseCombat(p, 0),
	}, deltas)
}

func TestRedirectEffectsEmitNothing(t *testing.T) {
	b := newTestBoard(t, 1)
	p, _ := seats(b)

	deltas, err := b.applyEffects(p, []cards.Effect{
		cards.NextPurchaseToHand(),
		cards.NextActionPurchaseToTopOfDeck(),
		cards.NextPurchaseToTopOfDeck(),
		cards.NextPurchaseToTopOfDeck(),
		cards.Nothing(),
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, deltas)
	assert.Equal(t, 1, b.Mats[p].NextToHand)
	assert.Equal(t, 1, b.Mats[p].NextActionToTop)
	assert.Equal(t, 2, b.Mats[p].NextToTop)
}

func TestUnknownEffectIsRejected(t *testing.T) {
	b := newTestBoard(t, 1)
	p, _ := seats(b)
	_, err := b.applyEffects(p, []cards.Effect{{Kind: "TELEPORT"}}, nil)
	assert.ErrorIs(t, err, ErrBadArgument)
}
