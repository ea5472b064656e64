// Package traits implements the passive trait catalog. Every hook switches
// over the closed TraitKind set; unknown keys are rejected by the loader.
package traits

import (
	"fmt"

	"github.com/nathoo/dicearena/engine/effects"
	"github.com/nathoo/dicearena/engine/state"
	"github.com/nathoo/dicearena/types"
)

// All lists every trait in display order.
var All = []types.TraitKind{
	types.TraitGuardian,
	types.TraitThickHide,
	types.TraitRegenerate,
	types.TraitReflect,
	types.TraitThorns,
	types.TraitLifedrain,
	types.TraitElusive,
	types.TraitShredder,
	types.TraitVenomous,
	types.TraitBomber,
	types.TraitSerrated,
	types.TraitBlighted,
	types.TraitDread,
	types.TraitEnrage,
	types.TraitArmored,
	types.TraitWarded,
	types.TraitArcane,
	types.TraitBrute,
	types.TraitCleave,
}

// Tuning for trait magnitudes.
const (
	GuardianShield  = 2
	ThickHideShield = 1
	RegenerateHeal  = 1
	ArmoredBonus    = 2
	ShredStacks     = 1
	ShredDuration   = 2
	BleedStacks     = 2
	BlightDuration  = 2
	DreadDuration   = 2
)

// Describe returns the one-line rules text for a trait.
func Describe(t types.TraitKind) string {
	switch t {
	case types.TraitGuardian:
		return fmt.Sprintf("Round start: allies reduce the first hit by %d.", GuardianShield)
	case types.TraitThickHide:
		return fmt.Sprintf("Round start: reduces the first hit by %d.", ThickHideShield)
	case types.TraitRegenerate:
		return fmt.Sprintf("Round start: heals %d.", RegenerateHeal)
	case types.TraitReflect:
		return "Reflect 1: attackers that deal damage lose 1 HP."
	case types.TraitThorns:
		return "Thorns 1: attackers that deal damage lose 1 HP."
	case types.TraitLifedrain:
		return "Heals half the damage its attacks deal."
	case types.TraitElusive:
		return "Cannot be targeted while another enemy stands."
	case types.TraitShredder:
		return "Hits shred 1 armor for 2 rounds."
	case types.TraitVenomous:
		return "Hits apply 1 poison."
	case types.TraitBomber:
		return "Attacks plant a bomb."
	case types.TraitSerrated:
		return fmt.Sprintf("Hits apply %d bleed.", BleedStacks)
	case types.TraitBlighted:
		return "Hits block healing for 2 rounds."
	case types.TraitDread:
		return "Hits forbid rerolls next round."
	case types.TraitEnrage:
		return "+1 damage at half HP or less."
	case types.TraitArmored:
		return fmt.Sprintf("Starts with +%d armor.", ArmoredBonus)
	case types.TraitWarded:
		return "Immune to damage during the first round."
	case types.TraitArcane:
		return "Attacks are magic and ignore armor."
	case types.TraitBrute:
		return "+1 attack damage."
	case types.TraitCleave:
		return "Attacks hit every hero."
	default:
		return "Unknown trait."
	}
}

// Known reports whether a trait key belongs to the catalog.
func Known(t types.TraitKind) bool {
	for _, k := range All {
		if k == t {
			return true
		}
	}
	return false
}

// EncounterStart applies traits that shape a combatant before round one.
func EncounterStart(c *types.Combatant) types.Result {
	var res types.Result
	for _, t := range c.Traits {
		switch t {
		case types.TraitArmored:
			res.Events = append(res.Events, effects.GainArmor(c, ArmoredBonus)...)
			res.Log = append(res.Log, fmt.Sprintf("%s is armored (+%d armor).", c.Name, ArmoredBonus))
		case types.TraitElusive:
			res.Events = append(res.Events, effects.Afflict(c, c, types.StatusUntargetableUnlessLast, 1, 0)...)
		case types.TraitWarded:
			res.Events = append(res.Events, effects.Afflict(c, c, types.StatusImmune, 1, 1)...)
			res.Log = append(res.Log, fmt.Sprintf("%s is warded this round.", c.Name))
		case types.TraitReflect:
			res.Events = append(res.Events, effects.Afflict(c, c, types.StatusReflect1, 1, 0)...)
		case types.TraitThorns:
			c.Thorns = 1
		case types.TraitGuardian, types.TraitThickHide, types.TraitRegenerate,
			types.TraitLifedrain, types.TraitShredder, types.TraitVenomous,
			types.TraitBomber, types.TraitSerrated, types.TraitBlighted,
			types.TraitDread, types.TraitEnrage, types.TraitArcane,
			types.TraitBrute, types.TraitCleave:
			// not an encounter-start trait
		}
	}
	return res
}

// RoundStart applies round-start traits of c. allies includes c.
func RoundStart(c *types.Combatant, allies []*types.Combatant) types.Result {
	var res types.Result
	if !state.IsAlive(c) {
		return res
	}
	for _, t := range c.Traits {
		switch t {
		case types.TraitGuardian:
			for _, a := range state.Alive(allies) {
				res.Events = append(res.Events, effects.Afflict(c, a, types.StatusFirstReduce, GuardianShield, 1)...)
			}
			res.Log = append(res.Log, fmt.Sprintf("%s guards its allies.", c.Name))
		case types.TraitThickHide:
			res.Events = append(res.Events, effects.Afflict(c, c, types.StatusFirstReduce, ThickHideShield, 1)...)
		case types.TraitRegenerate:
			healed, evs := effects.Heal(c, RegenerateHeal)
			res.Events = append(res.Events, evs...)
			if healed > 0 {
				res.Log = append(res.Log, fmt.Sprintf("%s regenerates %d HP.", c.Name, healed))
			}
		case types.TraitReflect, types.TraitThorns, types.TraitLifedrain,
			types.TraitElusive, types.TraitShredder, types.TraitVenomous,
			types.TraitBomber, types.TraitSerrated, types.TraitBlighted,
			types.TraitDread, types.TraitEnrage, types.TraitArmored,
			types.TraitWarded, types.TraitArcane, types.TraitBrute, types.TraitCleave:
			// not a round-start trait
		}
	}
	return res
}

// DamageBonus returns the flat attack bonus granted by traits.
func DamageBonus(c *types.Combatant) int {
	bonus := 0
	for _, t := range c.Traits {
		switch t {
		case types.TraitBrute:
			bonus++
		case types.TraitEnrage:
			if c.HP*2 <= c.MaxHP {
				bonus++
			}
		}
	}
	return bonus
}

// IsMagic reports whether c's attacks bypass armor.
func IsMagic(c *types.Combatant) bool {
	return state.HasTrait(c, types.TraitArcane)
}

// HitsAll reports whether c's attacks strike every legal target.
func HitsAll(c *types.Combatant) bool {
	return state.HasTrait(c, types.TraitCleave)
}

// OnHit applies the attacker's on-hit statuses after an attack landed for
// dealt damage. Bombs are planted even when armor absorbed the hit.
func OnHit(attacker, target *types.Combatant, dealt int) types.Result {
	var res types.Result
	if !state.IsAlive(target) {
		return res
	}
	for _, t := range attacker.Traits {
		var evs []types.Event
		switch t {
		case types.TraitBomber:
			evs = effects.Afflict(attacker, target, types.StatusBomb, 1, 0)
		case types.TraitVenomous:
			if dealt > 0 {
				evs = effects.Afflict(attacker, target, types.StatusPoison, 1, 0)
			}
		case types.TraitSerrated:
			if dealt > 0 {
				evs = effects.Afflict(attacker, target, types.StatusBleed, BleedStacks, 0)
			}
		case types.TraitShredder:
			if dealt > 0 {
				evs = effects.Afflict(attacker, target, types.StatusArmorShred, ShredStacks, ShredDuration)
			}
		case types.TraitBlighted:
			if dealt > 0 {
				evs = effects.Afflict(attacker, target, types.StatusHealBlock, 1, BlightDuration)
			}
		case types.TraitDread:
			if dealt > 0 {
				evs = effects.Afflict(attacker, target, types.StatusNoReroll, 1, DreadDuration)
			}
		}
		for _, e := range evs {
			res.Log = append(res.Log, fmt.Sprintf("%s suffers %s x%d.", target.Name, e.Status, e.Amount))
		}
		res.Events = append(res.Events, evs...)
	}
	return res
}
