package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/nathoo/dicearena/engine/dice"
	"github.com/nathoo/dicearena/engine/effects"
	"github.com/nathoo/dicearena/engine/events"
	"github.com/nathoo/dicearena/engine/state"
	"github.com/nathoo/dicearena/engine/status"
	"github.com/nathoo/dicearena/engine/traits"
	"github.com/nathoo/dicearena/types"
)

// Hit is one target struck by an enemy action.
type Hit struct {
	TargetID string
	Dealt    int
}

// Action is the outcome of one enemy turn. TargetID and Dealt describe the
// primary target; cleaving attacks list every target in Hits.
type Action struct {
	TargetID string
	Dealt    int
	Hits     []Hit
	Result   types.Result
}

// EnemyAct runs one enemy's turn against the party. Invisible and
// defeated heroes are never chosen; with no legal target the turn is a
// no-op.
func (r *Resolver) EnemyAct(enemy *types.Combatant, players []*types.Combatant) Action {
	var act Action
	if !state.IsAlive(enemy) {
		return act
	}
	candidates := visible(players)
	if len(candidates) == 0 {
		act.Result.Log = append(act.Result.Log, fmt.Sprintf("%s finds no target.", enemy.Name))
		return act
	}

	var targets []*types.Combatant
	if traits.HitsAll(enemy) {
		targets = candidates
	} else {
		targets = []*types.Combatant{r.pickTarget(enemy.AI, candidates)}
	}

	amount := r.Defs.BaseDamage(enemy) + traits.DamageBonus(enemy)
	opts := effects.Options{IgnoreArmor: traits.IsMagic(enemy)}
	roster := append([]*types.Combatant{enemy}, players...)

	for _, target := range targets {
		dealt, evs := effects.ApplyDamage(enemy, target, amount, opts)
		act.Hits = append(act.Hits, Hit{TargetID: target.ID, Dealt: dealt})
		act.Dealt += dealt
		act.Result.Events = append(act.Result.Events, evs...)
		act.Result.Log = append(act.Result.Log, fmt.Sprintf("%s attacks %s for %d.", enemy.Name, target.Name, dealt))
		for _, e := range evs {
			switch e.Type {
			case types.EventReflected:
				act.Result.Log = append(act.Result.Log, fmt.Sprintf("%s takes %d reflected damage.", enemy.Name, e.Amount))
			case types.EventDefeated:
				if t := state.Find(roster, e.Target); t != nil {
					act.Result.Log = append(act.Result.Log, fmt.Sprintf("%s is defeated!", t.Name))
				}
			}
		}
		reactions := events.Dispatch(evs, roster)
		act.Result.Events = append(act.Result.Events, reactions.Events...)
		act.Result.Log = append(act.Result.Log, reactions.Log...)
	}
	act.TargetID = act.Hits[0].TargetID

	r.log.Debug("enemy acted",
		zap.String("enemy", enemy.ID),
		zap.String("target", act.TargetID),
		zap.Int("dealt", act.Dealt))
	return act
}

// visible returns the heroes an enemy may target.
func visible(players []*types.Combatant) []*types.Combatant {
	var out []*types.Combatant
	for _, p := range state.Alive(players) {
		if !p.Invisible {
			out = append(out, p)
		}
	}
	return out
}

// pickTarget applies a targeting rule. Ties go to the earliest hero in
// roster order. candidates is non-empty.
func (r *Resolver) pickTarget(rule types.TargetRule, candidates []*types.Combatant) *types.Combatant {
	best := candidates[0]
	switch rule {
	case types.TargetRandom:
		return candidates[r.RNG.Index(len(candidates))]
	case types.TargetHighestHP:
		for _, c := range candidates[1:] {
			if c.HP > best.HP {
				best = c
			}
		}
	case types.TargetLowestArmor:
		for _, c := range candidates[1:] {
			if state.EffectiveArmor(c) < state.EffectiveArmor(best) {
				best = c
			}
		}
	default: // lowest HP
		for _, c := range candidates[1:] {
			if c.HP < best.HP {
				best = c
			}
		}
	}
	return best
}

// TickStatuses runs the end-of-round tick for one combatant. Bomb stacks
// passed during the tick are held on ctx until SettleBombs.
func (r *Resolver) TickStatuses(entity *types.Combatant, ctx *Context) {
	if entity == nil {
		return
	}
	res, passes := status.Tick(entity, ctx.side(entity.Side), r.RNG, r.Defs.Game.BombDamage)
	ctx.emit(res)
	for _, e := range res.Events {
		if e.Type == types.EventDefeated {
			ctx.logf("%s is defeated!", entity.Name)
		}
	}
	ctx.passes = append(ctx.passes, passes...)
}

// SettleBombs applies the bomb stacks passed during this round's ticks.
func (r *Resolver) SettleBombs(ctx *Context) {
	if len(ctx.passes) == 0 {
		return
	}
	ctx.emit(status.ApplyPasses(ctx.roster(), ctx.passes))
	ctx.passes = nil
}

// Loot is what a won encounter pays out.
type Loot struct {
	Gold   int      `json:"gold,omitempty"`
	Sigils []string `json:"sigils,omitempty"`
}

// ProcessLoot rolls 1d100 against each loot entry of every defeated
// enemy.
func ProcessLoot(enemies []*types.Combatant, defs *state.Defs, rng *dice.RNG) (Loot, []string) {
	var loot Loot
	var output []string
	for _, e := range enemies {
		if !e.Defeated {
			continue
		}
		def, ok := defs.Enemies[e.Template]
		if !ok {
			continue
		}
		for _, entry := range def.Loot {
			if rng.Roll(100) > entry.Chance {
				continue
			}
			if entry.Gold > 0 {
				loot.Gold += entry.Gold
				output = append(output, fmt.Sprintf("%s dropped %d gold.", e.Name, entry.Gold))
			}
			if entry.Sigil != "" {
				loot.Sigils = append(loot.Sigils, entry.Sigil)
				output = append(output, fmt.Sprintf("%s dropped the %s sigil!", e.Name, entry.Sigil))
			}
		}
	}
	return loot, output
}
