package cards

// Ability selects one of a card's four ability trees
type Ability uint8

const (
	AbilityPrimary Ability = iota
	AbilityExpend
	AbilityAlly
	AbilitySacrifice
)

func (a Ability) String() string {
	switch a {
	case AbilityPrimary:
		return "PRIMARY"
	case AbilityExpend:
		return "EXPEND"
	case AbilityAlly:
		return "ALLY"
	case AbilitySacrifice:
		return "SACRIFICE"
	default:
		return "UNKNOWN"
	}
}

type definition struct {
	key      string
	name     string
	faction  Faction
	cost     int
	defense  int
	champion bool
	guard    bool
	object   bool

	primary   []Effect
	expend    []Effect
	ally      []Effect
	sacrifice []Effect
}

// Effects returns the instruction tree for an ability. ok is false when the
// card does not have that ability.
func (c Card) Effects(a Ability) (effects []Effect, ok bool) {
	d := c.def()
	switch a {
	case AbilityPrimary:
		effects = d.primary
	case AbilityExpend:
		effects = d.expend
	case AbilityAlly:
		effects = d.ally
	case AbilitySacrifice:
		effects = d.sacrifice
	}
	return effects, effects != nil
}

func do(effects ...Effect) []Effect { return effects }

func object(key, name string, primary []Effect) definition {
	return definition{key: key, name: name, faction: NoFaction, object: true, primary: primary}
}

func action(key, name string, f Faction, cost int, primary []Effect) definition {
	return definition{key: key, name: name, faction: f, cost: cost, primary: primary}
}

func champion(key, name string, f Faction, cost, defense int, expend []Effect) definition {
	return definition{key: key, name: name, faction: f, cost: cost, defense: defense, champion: true, expend: expend}
}

func guard(key, name string, f Faction, cost, defense int, expend []Effect) definition {
	d := champion(key, name, f, cost, defense, expend)
	d.guard = true
	return d
}

func (d definition) withAlly(effects ...Effect) definition {
	d.ally = effects
	return d
}

func (d definition) withSacrifice(effects ...Effect) definition {
	d.sacrifice = effects
	return d
}

func (d definition) withCost(cost int) definition {
	d.cost = cost
	return d
}

var catalog = map[Card]definition{
	Gold:       object("Gold", "Gold", do(GainGold(1))),
	ShortSword: object("ShortSword", "Short Sword", do(GainCombat(2))),
	Dagger:     object("Dagger", "Dagger", do(GainCombat(1))),
	Ruby:       object("Ruby", "Ruby", do(GainGold(2))),
	FireGem: object("FireGem", "Fire Gem", do(GainGold(2))).
		withCost(2).
		withSacrifice(GainCombat(3)),

	ArkusImperialDragon: guard("ArkusImperialDragon", "Arkus, Imperial Dragon", Imperial, 8, 6,
		do(GainCombat(5), Draw(1))).
		withAlly(Heal(6)),
	CloseRanks: action("CloseRanks", "Close Ranks", Imperial, 3,
		do(GainCombat(5), CombatPer(2, EachChampion()))).
		withAlly(Heal(6)),
	Command: action("Command", "Command", Imperial, 5,
		do(GainGold(2), GainCombat(3), Heal(4), Draw(1))),
	DarianWarMage: champion("DarianWarMage", "Darian, War Mage", Imperial, 4, 5,
		do(Choice(do(GainCombat(3)), do(Heal(4))))),
	Domination: action("Domination", "Domination", Imperial, 7,
		do(GainCombat(6), Heal(6), Draw(1))).
		withAlly(PrepareChampion()),
	CristovTheJust: guard("CristovTheJust", "Cristov, the Just", Imperial, 5, 5,
		do(GainCombat(2), Heal(2))).
		withAlly(Draw(1)),
	KrakaHighPriest: champion("KrakaHighPriest", "Kraka, High Priest", Imperial, 6, 6,
		do(Heal(2), Draw(1))).
		withAlly(HealPer(2, EachChampion())),
	ManAtArms: guard("ManAtArms", "Man-at-Arms", Imperial, 3, 4,
		do(GainCombat(2), CombatPer(1, EachAdditionalGuard()))),
	MasterWeyan: guard("MasterWeyan", "Master Weyan", Imperial, 4, 4,
		do(GainCombat(3), CombatPer(1, EachAdditionalChampion()))),
	RallyTheTroops: action("RallyTheTroops", "Rally the Troops", Imperial, 4,
		do(GainCombat(5), Heal(5))).
		withAlly(PrepareChampion()),
	Recruit: action("Recruit", "Recruit", Imperial, 2,
		do(GainGold(2), Heal(3), HealPer(1, EachChampion()))).
		withAlly(GainGold(1)),
	TithePriest: champion("TithePriest", "Tithe Priest", Imperial, 2, 3,
		do(Choice(do(GainGold(1)), do(HealPer(1, EachChampion()))))),
	Taxation: action("Taxation", "Taxation", Imperial, 1,
		do(GainGold(2))).
		withAlly(Heal(6)),
	WordOfPower: action("WordOfPower", "Word of Power", Imperial, 6,
		do(Draw(2))).
		withAlly(Heal(5)).
		withSacrifice(GainCombat(5)),

	BorgOgreMercenary: guard("BorgOgreMercenary", "Borg, Ogre Mercenary", Guild, 6, 6,
		do(GainCombat(4))),
	Bribe: action("Bribe", "Bribe", Guild, 3,
		do(GainGold(3))).
		withAlly(NextActionPurchaseToTopOfDeck()),
	DeathThreat: action("DeathThreat", "Death Threat", Guild, 3,
		do(GainCombat(1), Draw(1))).
		withAlly(StunChampion()),
	Deception: action("Deception", "Deception", Guild, 5,
		do(GainGold(2), Draw(1))).
		withAlly(NextPurchaseToHand()),
	FireBomb: action("FireBomb", "Fire Bomb", Guild, 8,
		do(GainCombat(8), Optional(StunChampion()), Draw(1))).
		withSacrifice(GainCombat(5)),
	HitJob: action("HitJob", "Hit Job", Guild, 4,
		do(GainCombat(7))).
		withAlly(StunChampion()),
	Intimidation: action("Intimidation", "Intimidation", Guild, 2,
		do(GainCombat(5))).
		withAlly(GainGold(2)),
	MyrosGuildMage: guard("MyrosGuildMage", "Myros, Guild Mage", Guild, 5, 3,
		do(GainGold(3))).
		withAlly(GainCombat(4)),
	ParovTheEnforcer: guard("ParovTheEnforcer", "Parov, the Enforcer", Guild, 5, 5,
		do(GainCombat(3))).
		withAlly(Draw(1)),
	Profit: action("Profit", "Profit", Guild, 1,
		do(GainGold(2))).
		withAlly(GainCombat(4)),
	RakeMasterAssassin: champion("RakeMasterAssassin", "Rake, Master Assassin", Guild, 7, 7,
		do(GainCombat(4), Optional(StunChampion()))),
	RasmusTheSmuggler: champion("RasmusTheSmuggler", "Rasmus, the Smuggler", Guild, 4, 5,
		do(GainGold(2))).
		withAlly(NextPurchaseToTopOfDeck()),
	SmashAndGrab: action("SmashAndGrab", "Smash and Grab", Guild, 6,
		do(GainCombat(6), Optional(PutOverDeckFromDiscard()))),
	StreetThug: champion("StreetThug", "Street Thug", Guild, 3, 4,
		do(Choice(do(GainGold(1)), do(GainCombat(2))))),

	CultPriest: champion("CultPriest", "Cult Priest", Necros, 3, 4,
		do(Choice(do(GainGold(1)), do(GainCombat(1))))).
		withAlly(GainCombat(4)),
	DarkEnergy: action("DarkEnergy", "Dark Energy", Necros, 4,
		do(GainCombat(7))).
		withAlly(Draw(1)),
	DarkReward: action("DarkReward", "Dark Reward", Necros, 5,
		do(GainGold(3), Optional(SacrificeCards(1)))).
		withAlly(GainCombat(6)),
	DeathCultist: guard("DeathCultist", "Death Cultist", Necros, 2, 3,
		do(GainCombat(2))),
	DeathTouch: action("DeathTouch", "Death Touch", Necros, 1,
		do(GainCombat(2), Optional(SacrificeCards(1)))).
		withAlly(GainCombat(2)),
	RaylaEndweaver: champion("RaylaEndweaver", "Rayla, Endweaver", Necros, 4, 4,
		do(GainCombat(3))).
		withAlly(Draw(1)),
	Influence: action("Influence", "Influence", Necros, 2,
		do(GainGold(3))).
		withSacrifice(GainCombat(3)),
	KrythosMasterVampire: champion("KrythosMasterVampire", "Krythos, Master Vampire", Necros, 7, 6,
		do(GainCombat(3), Optional(SacrificeCards(1), GainCombat(3)))),
	LifeDrain: action("LifeDrain", "Life Drain", Necros, 6,
		do(GainCombat(8), Optional(SacrificeCards(1)))).
		withAlly(Draw(1)),
	LysTheUnseen: guard("LysTheUnseen", "Lys, the Unseen", Necros, 6, 5,
		do(GainCombat(2), Optional(SacrificeCards(1), GainCombat(2)))),
	TheRot: action("TheRot", "The Rot", Necros, 3,
		do(GainCombat(4), Optional(SacrificeCards(1)))).
		withAlly(GainCombat(3)),
	TyrannorTheDevourer: guard("TyrannorTheDevourer", "Tyrannor, the Devourer", Necros, 8, 6,
		do(GainCombat(4), Optional(SacrificeCards(1), Optional(SacrificeCards(1))))).
		withAlly(Draw(1)),
	VarrickTheNecromancer: champion("VarrickTheNecromancer", "Varrick, the Necromancer", Necros, 5, 3,
		do(Optional(PutChampionOverDeckFromDiscard()))).
		withAlly(Draw(1)),

	BroelynLoreweaver: champion("BroelynLoreweaver", "Broelyn, Loreweaver", Wild, 4, 6,
		do(GainGold(2))).
		withAlly(OpponentDiscards(1)),
	CronTheBerserker: champion("CronTheBerserker", "Cron, the Berserker", Wild, 6, 6,
		do(GainCombat(5))).
		withAlly(Draw(1)),
	DireWolf: guard("DireWolf", "Dire Wolf", Wild, 5, 5,
		do(GainCombat(3))).
		withAlly(GainCombat(4)),
	ElvenCurse: action("ElvenCurse", "Elven Curse", Wild, 3,
		do(GainCombat(6), OpponentDiscards(1))).
		withAlly(GainCombat(3)),
	ElvenGift: action("ElvenGift", "Elven Gift", Wild, 2,
		do(GainGold(2), Optional(Draw(1), PlayerDiscards(1)))).
		withAlly(GainCombat(4)),
	GrakStormGiant: guard("GrakStormGiant", "Grak, Storm Giant", Wild, 8, 7,
		do(GainCombat(6), Optional(Draw(1), PlayerDiscards(1)))).
		withAlly(OpponentDiscards(1)),
	NaturesBounty: action("NaturesBounty", "Nature's Bounty", Wild, 4,
		do(GainGold(4))).
		withAlly(OpponentDiscards(1)).
		withSacrifice(GainCombat(4)),
	OrcGrunt: guard("OrcGrunt", "Orc Grunt", Wild, 3, 3,
		do(GainCombat(2))).
		withAlly(Draw(1)),
	Rampage: action("Rampage", "Rampage", Wild, 6,
		do(GainCombat(6), Optional(Draw(2), PlayerDiscards(2)))),
	TorgenRocksplitter: guard("TorgenRocksplitter", "Torgen Rocksplitter", Wild, 7, 7,
		do(GainCombat(4))).
		withAlly(OpponentDiscards(1)),
	Spark: action("Spark", "Spark", Wild, 1,
		do(GainCombat(3), OpponentDiscards(1))).
		withAlly(GainCombat(2)),
	WolfForm: action("WolfForm", "Wolf Form", Wild, 5,
		do(GainCombat(8), OpponentDiscards(1))).
		withSacrifice(OpponentDiscards(1)),
	WolfShaman: champion("WolfShaman", "Wolf Shaman", Wild, 2, 4,
		do(GainCombat(2), CombatPer(1, EachAdditionalFactionCard(Wild)))),
}
