// Package events implements single-pass reaction dispatch. Reactions
// (on-hit statuses, lifedrain) produce further events but are never
// dispatched again.
package events

import (
	"fmt"

	"github.com/nathoo/dicearena/engine/effects"
	"github.com/nathoo/dicearena/engine/state"
	"github.com/nathoo/dicearena/engine/traits"
	"github.com/nathoo/dicearena/types"
)

// Dispatch runs trait reactions against the emitted events. Single pass,
// no recursion. Damage that was itself a reflection does not trigger
// the reflector's on-hit traits.
func Dispatch(evts []types.Event, roster []*types.Combatant) types.Result {
	var res types.Result

	reflected := false
	for _, event := range evts {
		if event.Type == types.EventReflected {
			reflected = true
			continue
		}
		if event.Type != types.EventDamaged {
			continue
		}
		if reflected {
			reflected = false
			continue
		}
		source := state.Find(roster, event.Source)
		target := state.Find(roster, event.Target)
		if source == nil || target == nil || source.Side == target.Side {
			continue
		}

		hit := traits.OnHit(source, target, event.Amount)
		res.Events = append(res.Events, hit.Events...)
		res.Log = append(res.Log, hit.Log...)

		if state.HasTrait(source, types.TraitLifedrain) && event.Amount >= 2 {
			healed, evs := effects.Heal(source, event.Amount/2)
			res.Events = append(res.Events, evs...)
			if healed > 0 {
				res.Log = append(res.Log, fmt.Sprintf("%s drains %d HP.", source.Name, healed))
			}
		}
	}

	return res
}
