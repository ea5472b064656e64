// Package status runs the round-boundary bookkeeping: round-start traits
// and the end-of-round status tick.
package status

import (
	"fmt"
	"sort"

	"github.com/nathoo/dicearena/engine/dice"
	"github.com/nathoo/dicearena/engine/effects"
	"github.com/nathoo/dicearena/engine/state"
	"github.com/nathoo/dicearena/engine/traits"
	"github.com/nathoo/dicearena/types"
)

// PoisonCure is the 1-in-N chance per tick that poison loses a stack.
const PoisonCure = 6

// BombFuse is the 1-in-N chance per stack that a bomb explodes.
const BombFuse = 3

// Pass is a bomb stack handed from one combatant to an ally during a tick.
type Pass struct {
	From string
	To   string
}

// RoundStart applies round-start traits (guardian, thick hide,
// regenerate). allies is the combatant's whole side, itself included.
func RoundStart(c *types.Combatant, allies []*types.Combatant) types.Result {
	return traits.RoundStart(c, allies)
}

// Tick resolves one end-of-round tick for c, in order: bleed, poison,
// bomb, then duration countdown. Bomb stacks that did not explode are
// returned as passes and must be applied with ApplyPasses once every
// combatant has ticked.
func Tick(c *types.Combatant, allies []*types.Combatant, rng *dice.RNG, bombDamage int) (types.Result, []Pass) {
	var res types.Result
	if c == nil || c.Defeated {
		return res, nil
	}
	dot := effects.Options{IgnoreArmor: true, OverTime: true}

	// 1. Bleed: stacks as damage, then one stack fades.
	if n := state.Stacks(c, types.StatusBleed); n > 0 {
		dealt, evs := effects.ApplyDamage(nil, c, n, dot)
		res.Events = append(res.Events, evs...)
		res.Log = append(res.Log, fmt.Sprintf("%s bleeds for %d.", c.Name, dealt))
		state.SetStacks(c, types.StatusBleed, n-1)
	}

	// 2. Poison: stacks as damage, 1-in-6 to cure a stack.
	if n := state.Stacks(c, types.StatusPoison); n > 0 {
		dealt, evs := effects.ApplyDamage(nil, c, n, dot)
		res.Events = append(res.Events, evs...)
		res.Log = append(res.Log, fmt.Sprintf("%s takes %d poison damage.", c.Name, dealt))
		if rng.OneIn(PoisonCure) {
			state.SetStacks(c, types.StatusPoison, n-1)
			res.Events = append(res.Events, types.Event{Type: types.EventCured, Target: c.ID, Amount: 1, Status: types.StatusPoison})
			res.Log = append(res.Log, fmt.Sprintf("%s shakes off a poison stack.", c.Name))
		}
	}

	// 3. Bombs: each stack explodes or passes to another live ally.
	var passes []Pass
	if n := state.Stacks(c, types.StatusBomb); n > 0 {
		kept := 0
		for i := 0; i < n; i++ {
			if rng.OneIn(BombFuse) {
				dealt, evs := effects.ApplyDamage(nil, c, bombDamage, dot)
				res.Events = append(res.Events, types.Event{Type: types.EventExploded, Target: c.ID, Amount: dealt})
				res.Events = append(res.Events, evs...)
				res.Log = append(res.Log, fmt.Sprintf("A bomb explodes on %s for %d!", c.Name, dealt))
				continue
			}
			others := otherLive(c, allies)
			if len(others) == 0 {
				kept++
				continue
			}
			to := others[rng.Index(len(others))]
			passes = append(passes, Pass{From: c.ID, To: to.ID})
			res.Log = append(res.Log, fmt.Sprintf("%s passes a bomb to %s.", c.Name, to.Name))
		}
		state.SetStacks(c, types.StatusBomb, kept)
	}

	// 4. Durations count down and expire.
	countDown(c)

	return res, passes
}

// ApplyPasses hands passed bomb stacks to their new holders.
func ApplyPasses(roster []*types.Combatant, passes []Pass) types.Result {
	var res types.Result
	for _, p := range passes {
		from := state.Find(roster, p.From)
		to := state.Find(roster, p.To)
		res.Events = append(res.Events, effects.Afflict(from, to, types.StatusBomb, 1, 0)...)
	}
	return res
}

func otherLive(c *types.Combatant, allies []*types.Combatant) []*types.Combatant {
	var out []*types.Combatant
	for _, a := range state.Alive(allies) {
		if a != c {
			out = append(out, a)
		}
	}
	return out
}

func countDown(c *types.Combatant) {
	kinds := make([]string, 0, len(c.Statuses))
	for k := range c.Statuses {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		kind := types.StatusKind(k)
		st := c.Statuses[kind]
		if st.Duration <= 0 {
			continue
		}
		st.Duration--
		if st.Duration <= 0 {
			state.RemoveStatus(c, kind)
			continue
		}
		c.Statuses[kind] = st
	}
}
