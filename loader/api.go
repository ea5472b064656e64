package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerLootHelpers(L)
}

// curried returns a constructor of the form Name "id" { ... } that
// appends to the given list.
func curried(L *lua.LState, list *[]rawDef) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			*list = append(*list, rawDef{id: id, table: tbl})
			return 0
		}))
		return 1
	})
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Game { title = "...", bomb_damage = 3, ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		coll.game = L.CheckTable(1)
		return 0
	}))

	// Class "tank" { hp = 14, armor = 1, spells = { "attack", "armor" } }
	L.SetGlobal("Class", curried(L, &coll.classes))

	// Spell "attack" { tiers = { 2, 4, 6 } }
	L.SetGlobal("Spell", curried(L, &coll.spells))

	// Enemy "goblin" { name = "Goblin", hp = 6, tier = 1, traits = {...}, loot = {...} }
	L.SetGlobal("Enemy", curried(L, &coll.enemies))

	// Encounter "cellar" { name = "The Cellar", enemies = { "rat", "rat" } }
	L.SetGlobal("Encounter", curried(L, &coll.encounters))

	// UpgradePool(2, { "attack", Weighted("sweep", 3), ... })
	L.SetGlobal("UpgradePool", L.NewFunction(func(L *lua.LState) int {
		tier := L.CheckInt(1)
		tbl := L.CheckTable(2)
		coll.pools = append(coll.pools, rawPool{tier: tier, table: tbl})
		return 0
	}))
}

func registerLootHelpers(L *lua.LState) {
	// Gold(amount, chance)
	L.SetGlobal("Gold", L.NewFunction(func(L *lua.LState) int {
		amount := L.CheckNumber(1)
		chance := L.OptNumber(2, 100)
		tbl := L.NewTable()
		tbl.RawSetString("gold", amount)
		tbl.RawSetString("chance", chance)
		L.Push(tbl)
		return 1
	}))

	// Sigil("name", chance)
	L.SetGlobal("Sigil", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		chance := L.OptNumber(2, 100)
		tbl := L.NewTable()
		tbl.RawSetString("sigil", lua.LString(name))
		tbl.RawSetString("chance", chance)
		L.Push(tbl)
		return 1
	}))
	// Weighted("spell", weight) for upgrade pool entries
	L.SetGlobal("Weighted", L.NewFunction(func(L *lua.LState) int {
		spell := L.CheckString(1)
		weight := L.CheckNumber(2)
		tbl := L.NewTable()
		tbl.RawSetString("spell", lua.LString(spell))
		tbl.RawSetString("weight", weight)
		L.Push(tbl)
		return 1
	}))
}
