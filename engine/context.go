package engine

import (
	"fmt"

	"github.com/nathoo/dicearena/engine/events"
	"github.com/nathoo/dicearena/engine/state"
	"github.com/nathoo/dicearena/engine/status"
	"github.com/nathoo/dicearena/types"
)

// Context is what a resolution step sees of the battle: both rosters, a
// log sink and the target choosers. ChooseEnemy receives the whole enemy
// roster; picking a defeated enemy wastes the effect. ChooseAlly receives
// the live allies. A nil or untargetable choice falls back to the first
// legal target.
type Context struct {
	Enemies []*types.Combatant
	Party   []*types.Combatant

	Log         func(line string)
	ChooseEnemy func(all []*types.Combatant) *types.Combatant
	ChooseAlly  func(live []*types.Combatant) *types.Combatant

	// Events collects everything emitted during the step.
	Events []types.Event

	passes []status.Pass
}

func (c *Context) logf(format string, args ...any) {
	if c.Log != nil {
		c.Log(fmt.Sprintf(format, args...))
	}
}

func (c *Context) emit(res types.Result) {
	c.Events = append(c.Events, res.Events...)
	for _, line := range res.Log {
		if c.Log != nil {
			c.Log(line)
		}
	}
}

func (c *Context) roster() []*types.Combatant {
	all := make([]*types.Combatant, 0, len(c.Party)+len(c.Enemies))
	all = append(all, c.Party...)
	return append(all, c.Enemies...)
}

func (c *Context) side(s types.Side) []*types.Combatant {
	if s == types.SidePlayer {
		return c.Party
	}
	return c.Enemies
}

// record appends emitted events, dispatches reactions once and logs
// defeats and reflections.
func (c *Context) record(evts []types.Event) {
	c.Events = append(c.Events, evts...)
	roster := c.roster()
	for _, e := range evts {
		switch e.Type {
		case types.EventReflected:
			if src := state.Find(roster, e.Target); src != nil {
				c.logf("%s takes %d reflected damage.", src.Name, e.Amount)
			}
		case types.EventDefeated:
			if t := state.Find(roster, e.Target); t != nil {
				c.logf("%s is defeated!", t.Name)
			}
		}
	}
	reactions := events.Dispatch(evts, roster)
	c.emit(reactions)
}

// targetEnemy picks the enemy a single-target hero effect lands on.
// Returns nil and logs the reason when no enemy can be chosen.
func (c *Context) targetEnemy() *types.Combatant {
	live := state.Alive(c.Enemies)
	if len(live) == 0 {
		c.logf("No target.")
		return nil
	}
	legal := Targetable(live)
	if len(legal) == 0 {
		c.logf("Untargetable while allies live.")
		return nil
	}
	if c.ChooseEnemy != nil {
		pick := c.ChooseEnemy(c.Enemies)
		if pick != nil && !state.IsAlive(pick) {
			c.logf("No target.")
			return nil
		}
		if pick != nil && contains(legal, pick) {
			return pick
		}
	}
	return legal[0]
}

// targetAlly picks the ally a support effect lands on. The default is the
// most wounded live ally.
func (c *Context) targetAlly(caster *types.Combatant) *types.Combatant {
	live := state.Alive(c.Party)
	if len(live) == 0 {
		return caster
	}
	if c.ChooseAlly != nil {
		if pick := c.ChooseAlly(live); pick != nil && contains(live, pick) {
			return pick
		}
	}
	return mostWounded(live)
}

// Targetable filters live enemies down to those a hero may single out:
// an enemy marked untargetableUnlessLast is excluded while another live
// enemy remains.
func Targetable(live []*types.Combatant) []*types.Combatant {
	var out []*types.Combatant
	for _, e := range live {
		if state.HasStatus(e, types.StatusUntargetableUnlessLast) && len(live) > 1 {
			continue
		}
		out = append(out, e)
	}
	return out
}

func contains(list []*types.Combatant, c *types.Combatant) bool {
	for _, x := range list {
		if x == c {
			return true
		}
	}
	return false
}

func mostWounded(live []*types.Combatant) *types.Combatant {
	best := live[0]
	for _, c := range live[1:] {
		if c.MaxHP-c.HP > best.MaxHP-best.HP {
			best = c
		}
	}
	return best
}
