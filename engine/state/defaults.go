package state

import "github.com/nathoo/dicearena/types"

// DefaultDefs returns the built-in content used when no content directory
// is given. Content files loaded by the loader start from the same tables.
func DefaultDefs() *Defs {
	return &Defs{
		Game: types.GameDef{
			Title:      "Dice Arena",
			Author:     "Dice Arena",
			Version:    "1.0",
			BombDamage: 3,
			BossDamage: 5,
			LevelHP:    1,
		},
		Classes: map[types.ClassID]types.ClassDef{
			types.ClassTank: {ID: types.ClassTank, HP: 14, Armor: 1,
				Spells: [types.SpellSlots]types.SpellID{types.SpellAttack, types.SpellArmor}},
			types.ClassKing: {ID: types.ClassKing, HP: 12, Armor: 0,
				Spells: [types.SpellSlots]types.SpellID{types.SpellAttack, types.SpellHeal}},
			types.ClassThief: {ID: types.ClassThief, HP: 9, Armor: 0,
				Spells: [types.SpellSlots]types.SpellID{types.SpellAttack, types.SpellPoison}},
			types.ClassJudge: {ID: types.ClassJudge, HP: 10, Armor: 0,
				Spells: [types.SpellSlots]types.SpellID{types.SpellAttack, types.SpellFireball}},
			types.ClassVampire: {ID: types.ClassVampire, HP: 10, Armor: 0,
				Spells: [types.SpellSlots]types.SpellID{types.SpellAttack, types.SpellConcentration}},
			types.ClassLich: {ID: types.ClassLich, HP: 8, Armor: 0,
				Spells: [types.SpellSlots]types.SpellID{types.SpellFireball, types.SpellPoison}},
			types.ClassPaladin: {ID: types.ClassPaladin, HP: 12, Armor: 1,
				Spells: [types.SpellSlots]types.SpellID{types.SpellAttack, types.SpellHeal}},
			types.ClassBarbarian: {ID: types.ClassBarbarian, HP: 13, Armor: 0,
				Spells: [types.SpellSlots]types.SpellID{types.SpellAttack, types.SpellSweep}},
		},
		Spells: map[types.SpellID]types.SpellDef{
			types.SpellAttack:        {ID: types.SpellAttack, Tiers: [3]int{2, 4, 6}},
			types.SpellSweep:         {ID: types.SpellSweep, Tiers: [3]int{1, 2, 4}},
			types.SpellFireball:      {ID: types.SpellFireball, Tiers: [3]int{1, 3, 5}},
			types.SpellHeal:          {ID: types.SpellHeal, Tiers: [3]int{1, 3, 5}},
			types.SpellArmor:         {ID: types.SpellArmor, Tiers: [3]int{2, 6, 8}},
			types.SpellPoison:        {ID: types.SpellPoison, Tiers: [3]int{1, 2, 3}},
			types.SpellBomb:          {ID: types.SpellBomb, Tiers: [3]int{1, 2, 3}},
			types.SpellConcentration: {ID: types.SpellConcentration, Tiers: [3]int{1, 1, 1}},
		},
		Enemies: map[string]types.EnemyDef{
			"rat": {ID: "rat", Name: "Rat", HP: 4, Tier: 1, AI: types.TargetRandom,
				Traits: []types.TraitKind{types.TraitSerrated},
				Loot:   []types.LootEntry{{Gold: 1, Chance: 50}}},
			"goblin": {ID: "goblin", Name: "Goblin", HP: 6, Armor: 1, Tier: 1, AI: types.TargetLowestHP,
				Loot: []types.LootEntry{{Gold: 2, Chance: 70}}},
			"spider": {ID: "spider", Name: "Spider", HP: 5, Tier: 1, AI: types.TargetLowestArmor,
				Traits: []types.TraitKind{types.TraitVenomous},
				Loot:   []types.LootEntry{{Gold: 2, Chance: 60}}},
			"skeleton": {ID: "skeleton", Name: "Skeleton", HP: 8, Armor: 2, Tier: 2, AI: types.TargetHighestHP,
				Traits: []types.TraitKind{types.TraitShredder},
				Loot:   []types.LootEntry{{Gold: 4, Chance: 70}}},
			"shaman": {ID: "shaman", Name: "Goblin Shaman", HP: 7, Tier: 2, AI: types.TargetLowestHP,
				Traits: []types.TraitKind{types.TraitGuardian, types.TraitArcane, types.TraitElusive},
				Loot:   []types.LootEntry{{Gold: 5, Chance: 80}}},
			"sapper": {ID: "sapper", Name: "Sapper", HP: 6, Tier: 2, AI: types.TargetRandom,
				Traits: []types.TraitKind{types.TraitBomber},
				Loot:   []types.LootEntry{{Gold: 4, Chance: 60}}},
			"troll": {ID: "troll", Name: "Troll", HP: 16, Armor: 1, Tier: 3, AI: types.TargetHighestHP,
				Traits: []types.TraitKind{types.TraitThickHide, types.TraitRegenerate, types.TraitBrute},
				Loot:   []types.LootEntry{{Gold: 8, Chance: 90}}},
			"wraith": {ID: "wraith", Name: "Wraith", HP: 10, Tier: 3, AI: types.TargetLowestArmor,
				Traits: []types.TraitKind{types.TraitLifedrain, types.TraitBlighted, types.TraitDread},
				Loot:   []types.LootEntry{{Gold: 8, Chance: 90}}},
			"warden": {ID: "warden", Name: "Iron Warden", HP: 24, Armor: 2, Tier: 3, Boss: true, AI: types.TargetLowestHP,
				Traits: []types.TraitKind{types.TraitReflect, types.TraitArmored, types.TraitWarded, types.TraitCleave, types.TraitEnrage},
				Loot:   []types.LootEntry{{Gold: 20, Chance: 100}, {Sigil: "iron", Chance: 100}}},
		},
		Encounters: map[string]types.EncounterDef{
			"cellar":  {ID: "cellar", Name: "The Cellar", Enemies: []string{"rat", "rat", "goblin"}},
			"nest":    {ID: "nest", Name: "Spider Nest", Enemies: []string{"spider", "spider", "sapper"}},
			"crypt":   {ID: "crypt", Name: "The Crypt", Enemies: []string{"skeleton", "shaman", "wraith"}},
			"bridge":  {ID: "bridge", Name: "Troll Bridge", Enemies: []string{"troll", "goblin"}},
			"bastion": {ID: "bastion", Name: "Iron Bastion", Enemies: []string{"warden", "skeleton"}},
		},
		UpgradePools: map[int][]types.SpellID{
			1: {types.SpellAttack, types.SpellHeal, types.SpellArmor, types.SpellPoison},
			2: {types.SpellAttack, types.SpellSweep, types.SpellFireball, types.SpellHeal,
				types.SpellArmor, types.SpellBomb, types.SpellConcentration},
			3: {types.SpellAttack, types.SpellSweep, types.SpellFireball, types.SpellHeal,
				types.SpellArmor, types.SpellPoison, types.SpellBomb, types.SpellConcentration},
		},
		EnemyDamage: map[int]int{1: 2, 2: 3, 3: 4},
	}
}
