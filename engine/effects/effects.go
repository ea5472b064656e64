// Package effects implements the shared mutation primitives every
// resolution step goes through: damage, healing, armor and statuses.
// Each call is one atomic change and reports what happened as events.
package effects

import (
	"github.com/nathoo/dicearena/engine/state"
	"github.com/nathoo/dicearena/types"
)

// Options tune a single ApplyDamage call.
type Options struct {
	IgnoreArmor  bool // magic, bomb explosions, damage over time
	IgnoreImmune bool
	NoReflect    bool // set on reflected damage so it never bounces back
	OverTime     bool // status ticks: no shield consumption, no reflection
}

// ApplyDamage deals amount to target and returns the damage actually dealt.
// Dealt damage is amount minus effective armor, floored at zero, and HP
// never drops below zero. When dealt > 0 and the target carries thorns or
// reflect1, the counter-damage is applied to source.
func ApplyDamage(source, target *types.Combatant, amount int, opts Options) (int, []types.Event) {
	if target == nil || target.HP <= 0 {
		return 0, nil
	}
	if !opts.IgnoreImmune && state.HasStatus(target, types.StatusImmune) {
		return 0, nil
	}
	if amount < 0 {
		amount = 0
	}

	// First-hit shield from guardian / thick hide.
	if !opts.OverTime && amount > 0 {
		if reduce := state.Stacks(target, types.StatusFirstReduce); reduce > 0 {
			amount -= reduce
			if amount < 0 {
				amount = 0
			}
			state.RemoveStatus(target, types.StatusFirstReduce)
		}
	}

	armor := 0
	if !opts.IgnoreArmor {
		armor = state.EffectiveArmor(target)
	}
	dealt := amount - armor
	if dealt < 0 {
		dealt = 0
	}
	target.HP -= dealt
	if target.HP < 0 {
		target.HP = 0
	}

	srcID := ""
	if source != nil {
		srcID = source.ID
	}
	events := []types.Event{{Type: types.EventDamaged, Source: srcID, Target: target.ID, Amount: dealt}}
	if target.HP == 0 {
		target.Defeated = true
		events = append(events, types.Event{Type: types.EventDefeated, Source: srcID, Target: target.ID})
	}

	if dealt > 0 && source != nil && source != target && !opts.NoReflect && !opts.OverTime {
		counter := target.Thorns + state.Stacks(target, types.StatusReflect1)
		if counter > 0 {
			events = append(events, types.Event{Type: types.EventReflected, Source: target.ID, Target: source.ID, Amount: counter})
			_, evs := ApplyDamage(target, source, counter, Options{IgnoreArmor: true, NoReflect: true})
			events = append(events, evs...)
		}
	}

	return dealt, events
}

// Heal restores HP clamped to [0, MaxHP] and returns the amount restored.
// Defeated and heal-blocked targets are not healed.
func Heal(target *types.Combatant, amount int) (int, []types.Event) {
	if target == nil || target.Defeated || amount <= 0 {
		return 0, nil
	}
	if state.HasStatus(target, types.StatusHealBlock) {
		return 0, nil
	}
	hp := target.HP + amount
	if hp > target.MaxHP {
		hp = target.MaxHP
	}
	if hp < 0 {
		hp = 0
	}
	healed := hp - target.HP
	target.HP = hp
	return healed, []types.Event{{Type: types.EventHealed, Target: target.ID, Amount: healed}}
}

// GainArmor adds permanent armor, never letting it drop below zero.
func GainArmor(target *types.Combatant, amount int) []types.Event {
	if target == nil || target.Defeated {
		return nil
	}
	target.Armor += amount
	if target.Armor < 0 {
		target.Armor = 0
	}
	return []types.Event{{Type: types.EventArmor, Target: target.ID, Amount: amount}}
}

// Afflict applies stacks of a status to a live target.
func Afflict(source, target *types.Combatant, kind types.StatusKind, stacks, duration int) []types.Event {
	if target == nil || target.Defeated || stacks <= 0 {
		return nil
	}
	state.AddStatus(target, kind, stacks, duration)
	srcID := ""
	if source != nil {
		srcID = source.ID
	}
	return []types.Event{{Type: types.EventStatus, Source: srcID, Target: target.ID, Amount: stacks, Status: kind}}
}
