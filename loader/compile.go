// Package loader loads Lua arena content into Go structs at startup.
// The Lua VM is discarded after loading, so no Lua runs during play.
package loader

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/dicearena/engine/state"
	"github.com/nathoo/dicearena/types"
)

// rawDef holds a curried constructor's id and table before compilation.
type rawDef struct {
	id    string
	table *lua.LTable
}

// rawPool holds an UpgradePool call before compilation.
type rawPool struct {
	tier  int
	table *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getInt returns an int field from a Lua table, or def if missing.
func getInt(tbl *lua.LTable, key string, def int) int {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return int(n)
	}
	return def
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// stringList reads the array part of a table as strings, skipping
// anything that is not a string.
func stringList(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	for i := 1; i <= tbl.Len(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// intList reads the array part of a table as ints.
func intList(tbl *lua.LTable) []int {
	if tbl == nil {
		return nil
	}
	out := make([]int, 0, tbl.Len())
	for i := 1; i <= tbl.Len(); i++ {
		if n, ok := tbl.RawGetInt(i).(lua.LNumber); ok {
			out = append(out, int(n))
		}
	}
	return out
}

// compile converts all collected Lua data into a Defs struct. Content
// starts from the built-in tables; later definitions replace earlier ones
// with the same id.
func compile(coll *collector) (*state.Defs, error) {
	defs := state.DefaultDefs()

	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}
	if err := compileGame(coll.game, defs); err != nil {
		return nil, fmt.Errorf("compiling game: %w", err)
	}

	for _, raw := range coll.spells {
		spell, err := compileSpell(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling spell %s: %w", raw.id, err)
		}
		defs.Spells[spell.ID] = spell
	}

	for _, raw := range coll.classes {
		class, err := compileClass(raw, defs.Classes[types.ClassID(raw.id)])
		if err != nil {
			return nil, fmt.Errorf("compiling class %s: %w", raw.id, err)
		}
		defs.Classes[class.ID] = class
	}

	for _, raw := range coll.enemies {
		enemy, err := compileEnemy(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling enemy %s: %w", raw.id, err)
		}
		defs.Enemies[enemy.ID] = enemy
	}

	for _, raw := range coll.encounters {
		defs.Encounters[raw.id] = types.EncounterDef{
			ID:      raw.id,
			Name:    getString(raw.table, "name"),
			Enemies: stringList(getTable(raw.table, "enemies")),
		}
	}

	for _, raw := range coll.pools {
		pool, weights := compilePool(raw.table)
		defs.UpgradePools[raw.tier] = pool
		defs.SetPoolWeights(raw.tier, weights)
	}

	return defs, nil
}

// compilePool reads an upgrade pool. Entries are spell names or
// Weighted(spell, n) tables; a bare name weighs 1.
func compilePool(tbl *lua.LTable) ([]types.SpellID, []int) {
	var pool []types.SpellID
	var weights []int
	for i := 1; i <= tbl.Len(); i++ {
		switch v := tbl.RawGetInt(i).(type) {
		case lua.LString:
			pool = append(pool, types.SpellID(v))
			weights = append(weights, 1)
		case *lua.LTable:
			pool = append(pool, types.SpellID(getString(v, "spell")))
			weights = append(weights, getInt(v, "weight", 1))
		}
	}
	return pool, weights
}

func compileGame(tbl *lua.LTable, defs *state.Defs) error {
	g := &defs.Game
	g.Title = getString(tbl, "title")
	if s := getString(tbl, "author"); s != "" {
		g.Author = s
	}
	if s := getString(tbl, "version"); s != "" {
		g.Version = s
	}
	g.BombDamage = getInt(tbl, "bomb_damage", g.BombDamage)
	g.BossDamage = getInt(tbl, "boss_damage", g.BossDamage)
	g.LevelHP = getInt(tbl, "level_hp", g.LevelHP)

	if dmg := getTable(tbl, "enemy_damage"); dmg != nil {
		values := intList(dmg)
		if len(values) != 3 {
			return fmt.Errorf("enemy_damage needs 3 tiers, got %d", len(values))
		}
		for i, v := range values {
			defs.EnemyDamage[i+1] = v
		}
	}
	return nil
}

func compileSpell(raw rawDef) (types.SpellDef, error) {
	values := intList(getTable(raw.table, "tiers"))
	if len(values) != 3 {
		return types.SpellDef{}, fmt.Errorf("tiers needs 3 values, got %d", len(values))
	}
	def := types.SpellDef{ID: types.SpellID(raw.id)}
	copy(def.Tiers[:], values)
	return def, nil
}

// compileClass overlays a Class table on base, the built-in line for the
// same id when there is one.
func compileClass(raw rawDef, base types.ClassDef) (types.ClassDef, error) {
	def := types.ClassDef{
		ID:     types.ClassID(raw.id),
		HP:     getInt(raw.table, "hp", base.HP),
		Armor:  getInt(raw.table, "armor", base.Armor),
		Spells: base.Spells,
	}
	if tbl := getTable(raw.table, "spells"); tbl != nil {
		spells := stringList(tbl)
		if len(spells) > types.SpellSlots {
			return def, fmt.Errorf("at most %d spells, got %d", types.SpellSlots, len(spells))
		}
		def.Spells = [types.SpellSlots]types.SpellID{}
		for i, s := range spells {
			def.Spells[i] = types.SpellID(s)
		}
	}
	return def, nil
}

func compileEnemy(raw rawDef) (types.EnemyDef, error) {
	tbl := raw.table
	def := types.EnemyDef{
		ID:    raw.id,
		Name:  getString(tbl, "name"),
		HP:    getInt(tbl, "hp", 0),
		Armor: getInt(tbl, "armor", 0),
		Tier:  getInt(tbl, "tier", 1),
		Boss:  getBool(tbl, "boss", false),
		AI:    types.TargetRule(getString(tbl, "ai")),
	}
	if def.Name == "" {
		def.Name = raw.id
	}
	for _, t := range stringList(getTable(tbl, "traits")) {
		def.Traits = append(def.Traits, types.TraitKind(t))
	}

	if loot := getTable(tbl, "loot"); loot != nil {
		for i := 1; i <= loot.Len(); i++ {
			entry, ok := loot.RawGetInt(i).(*lua.LTable)
			if !ok {
				return def, fmt.Errorf("loot entry %d is not a table", i)
			}
			def.Loot = append(def.Loot, types.LootEntry{
				Gold:   getInt(entry, "gold", 0),
				Sigil:  getString(entry, "sigil"),
				Chance: getInt(entry, "chance", 100),
			})
		}
	}
	return def, nil
}

// sortedLuaFiles returns .lua files in a directory, with game.lua first
// and the rest sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var gameFile string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if gameFile != "" {
		return append([]string{gameFile}, others...)
	}
	return others
}
