package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/dicearena/engine/state"
	"github.com/nathoo/dicearena/engine/traits"
	"github.com/nathoo/dicearena/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

func (e *ValidationError) errorf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

func (e *ValidationError) warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

// Closed sets the engine knows how to resolve.
var validClasses = map[types.ClassID]bool{
	types.ClassTank:      true,
	types.ClassKing:      true,
	types.ClassThief:     true,
	types.ClassJudge:     true,
	types.ClassVampire:   true,
	types.ClassLich:      true,
	types.ClassPaladin:   true,
	types.ClassBarbarian: true,
}

var validSpells = map[types.SpellID]bool{
	types.SpellAttack:        true,
	types.SpellSweep:         true,
	types.SpellFireball:      true,
	types.SpellHeal:          true,
	types.SpellArmor:         true,
	types.SpellPoison:        true,
	types.SpellBomb:          true,
	types.SpellConcentration: true,
}

var validAI = map[types.TargetRule]bool{
	types.TargetLowestHP:    true,
	types.TargetHighestHP:   true,
	types.TargetLowestArmor: true,
	types.TargetRandom:      true,
}

// validate checks the compiled defs for referential integrity and
// consistency. Errors and warnings are reported in a stable order.
func validate(defs *state.Defs) *ValidationError {
	ve := &ValidationError{}

	if defs.Game.Title == "" {
		ve.errorf("Game.Title is required")
	}
	if defs.Game.BombDamage < 0 {
		ve.errorf("Game.bomb_damage must not be negative")
	}
	if defs.Game.LevelHP < 0 {
		ve.errorf("Game.level_hp must not be negative")
	}

	for _, id := range sortedKeys(defs.Spells) {
		if !validSpells[id] {
			ve.errorf("unknown spell %q", id)
			continue
		}
		for i, v := range defs.Spells[id].Tiers {
			if v < 0 {
				ve.errorf("spell %q tier %d is negative", id, i+1)
			}
		}
	}

	for _, id := range sortedKeys(defs.Classes) {
		class := defs.Classes[id]
		if !validClasses[id] {
			ve.errorf("unknown class %q", id)
			continue
		}
		if class.HP <= 0 {
			ve.errorf("class %q needs positive hp", id)
		}
		empty := true
		for _, s := range class.Spells {
			if s == types.SpellNone {
				continue
			}
			empty = false
			if _, ok := defs.Spells[s]; !ok {
				ve.errorf("class %q references unknown spell %q", id, s)
			}
		}
		if empty {
			ve.warnf("class %q has no spells", id)
		}
	}

	used := map[string]bool{}
	for _, id := range sortedKeys(defs.Encounters) {
		enc := defs.Encounters[id]
		if len(enc.Enemies) == 0 {
			ve.errorf("encounter %q has no enemies", id)
		}
		if enc.Name == "" {
			ve.warnf("encounter %q has no name", id)
		}
		for _, e := range enc.Enemies {
			if _, ok := defs.Enemies[e]; !ok {
				ve.errorf("encounter %q references unknown enemy %q", id, e)
			}
			used[e] = true
		}
	}

	for _, id := range sortedKeys(defs.Enemies) {
		validateEnemy(defs.Enemies[id], ve)
		if !used[id] {
			ve.warnf("enemy %q is not used by any encounter", id)
		}
	}

	for tier := 1; tier <= 3; tier++ {
		pool := defs.UpgradePools[tier]
		if len(pool) == 0 {
			ve.errorf("upgrade pool for tier %d is empty", tier)
		}
		for _, s := range pool {
			if _, ok := defs.Spells[s]; !ok {
				ve.errorf("upgrade pool %d references unknown spell %q", tier, s)
			}
		}
		if w, ok := defs.PoolWeights[tier]; ok && len(w) != len(pool) {
			ve.errorf("upgrade pool %d has %d weights for %d entries", tier, len(w), len(pool))
		}
		for i, w := range defs.PoolWeights[tier] {
			if w <= 0 {
				ve.errorf("upgrade pool %d entry %d needs a positive weight, got %d", tier, i+1, w)
			}
		}
	}
	for tier := range defs.UpgradePools {
		if tier < 1 || tier > 3 {
			ve.errorf("upgrade pool tier %d out of range 1..3", tier)
		}
	}

	return ve
}

func validateEnemy(e types.EnemyDef, ve *ValidationError) {
	if e.HP <= 0 {
		ve.errorf("enemy %q needs positive hp", e.ID)
	}
	if e.Armor < 0 {
		ve.errorf("enemy %q has negative armor", e.ID)
	}
	if e.Tier < 1 || e.Tier > 3 {
		ve.errorf("enemy %q tier %d out of range 1..3", e.ID, e.Tier)
	}
	if e.AI != "" && !validAI[e.AI] {
		ve.errorf("enemy %q has unknown ai %q", e.ID, e.AI)
	}
	for _, t := range e.Traits {
		if !traits.Known(t) {
			ve.errorf("enemy %q has unknown trait %q", e.ID, t)
		}
	}
	for i, l := range e.Loot {
		if l.Chance < 1 || l.Chance > 100 {
			ve.errorf("enemy %q loot %d chance %d out of range 1..100", e.ID, i+1, l.Chance)
		}
		if l.Gold <= 0 && l.Sigil == "" {
			ve.errorf("enemy %q loot %d grants nothing", e.ID, i+1)
		}
	}
}

func sortedKeys[K ~string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
