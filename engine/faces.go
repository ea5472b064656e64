package engine

import (
	"go.uber.org/zap"

	"github.com/nathoo/dicearena/engine/effects"
	"github.com/nathoo/dicearena/engine/state"
	"github.com/nathoo/dicearena/types"
)

// Class ability magnitudes.
const (
	TankArmor       = 2
	KingDamage      = 2
	KingHeal        = 1
	KingArmor       = 2
	VampireDamage   = 3
	PaladinHeal     = 2
	PaladinThorns   = 1
	BarbarianCost   = 1
	BarbarianDamage = 2
)

// MaxConcentration caps stacked concentration so the doubled damage stays
// well inside int range.
const MaxConcentration = 30

// UpgradeChoice is a proposed face replacement waiting for the player to
// keep the old face or take the candidate. Nothing changes until it is
// committed.
type UpgradeChoice struct {
	HeroID     string     `json:"hero_id"`
	Slot       int        `json:"slot"`
	Old        types.Face `json:"old"`
	Candidate  types.Face `json:"candidate"`
	Generation uint64     `json:"generation"`
	Committed  bool       `json:"committed,omitempty"`

	hero *types.Combatant
}

// ResolveFace applies a rolled face. It returns a pending choice for
// upgrade faces and nil otherwise.
func (r *Resolver) ResolveFace(caster *types.Combatant, face types.Face, ctx *Context) *UpgradeChoice {
	if !state.IsAlive(caster) {
		ctx.logf("Already defeated.")
		return nil
	}
	r.log.Debug("resolve face", zap.String("caster", caster.ID), zap.String("face", FaceName(face)))
	return r.resolve(caster, face, ctx, 0, true)
}

// resolve dispatches on face kind. bonus is flat damage added before the
// concentration multiplier. Rerolled faces resolve with allowClass false
// so a class face cannot chain into another reroll.
func (r *Resolver) resolve(caster *types.Combatant, face types.Face, ctx *Context, bonus int, allowClass bool) *UpgradeChoice {
	switch face.Kind {
	case types.FaceBlank:
		ctx.logf("%s rolls a blank face.", caster.Name)
		return nil
	case types.FaceUpgrade:
		return r.proposeUpgrade(caster, ctx)
	case types.FaceClass:
		if !allowClass {
			ctx.logf("%s's class power fizzles.", caster.Name)
			return nil
		}
		return r.classAbility(caster, ctx)
	case types.FaceSpell:
		r.castSpell(caster, face, ctx, bonus)
		return nil
	default:
		ctx.logf("Nothing happens.")
		return nil
	}
}

// scaled applies the concentration multiplier: raw × 2^stacks.
func scaled(caster *types.Combatant, raw int) int {
	if stacks := min(caster.Concentration, MaxConcentration); stacks > 0 {
		return raw << stacks
	}
	return raw
}

// strike damages one enemy on behalf of a hero and logs the hit.
func (r *Resolver) strike(caster, target *types.Combatant, amount int, magic bool, ctx *Context) int {
	dealt, evs := effects.ApplyDamage(caster, target, amount, effects.Options{IgnoreArmor: magic})
	ctx.logf("%s hits %s for %d.", caster.Name, target.Name, dealt)
	ctx.record(evs)
	return dealt
}

func (r *Resolver) classAbility(caster *types.Combatant, ctx *Context) *UpgradeChoice {
	switch caster.Class {
	case types.ClassTank:
		ctx.record(effects.GainArmor(caster, TankArmor))
		ctx.logf("%s raises a shield (+%d armor).", caster.Name, TankArmor)

	case types.ClassKing:
		if target := ctx.targetEnemy(); target != nil {
			r.strike(caster, target, scaled(caster, KingDamage), false, ctx)
		}
		if state.IsAlive(caster) {
			_, evs := effects.Heal(caster, KingHeal)
			ctx.record(evs)
			ctx.record(effects.GainArmor(caster, KingArmor))
			ctx.logf("%s rallies (+%d HP, +%d armor).", caster.Name, KingHeal, KingArmor)
		}

	case types.ClassThief:
		caster.Invisible = true
		ctx.logf("%s vanishes into the shadows.", caster.Name)

	case types.ClassJudge:
		if state.HasStatus(caster, types.StatusNoReroll) {
			ctx.logf("%s cannot reroll.", caster.Name)
			break
		}
		first, second := r.RollFace(caster), r.RollFace(caster)
		pick := first
		if state.DieTier(second) > state.DieTier(first) {
			pick = second
		}
		ctx.logf("%s judges: %s or %s, keeps %s.", caster.Name, FaceName(first), FaceName(second), FaceName(pick))
		return r.rerolled(caster, pick, ctx, 0)

	case types.ClassBarbarian:
		if state.HasStatus(caster, types.StatusNoReroll) {
			ctx.logf("%s cannot reroll.", caster.Name)
			break
		}
		if caster.HP <= BarbarianCost {
			ctx.logf("%s is too weak to rage.", caster.Name)
			break
		}
		caster.HP -= BarbarianCost
		face := r.RollFace(caster)
		ctx.logf("%s rages (-%d HP) and rerolls %s.", caster.Name, BarbarianCost, FaceName(face))
		return r.rerolled(caster, face, ctx, BarbarianDamage)

	case types.ClassVampire:
		if target := ctx.targetEnemy(); target != nil {
			dealt := r.strike(caster, target, scaled(caster, VampireDamage), false, ctx)
			if healed, evs := effects.Heal(caster, dealt/2); healed > 0 {
				ctx.record(evs)
				ctx.logf("%s drinks %d HP.", caster.Name, healed)
			}
		}

	case types.ClassLich:
		for _, e := range state.Alive(ctx.Enemies) {
			ctx.record(effects.Afflict(caster, e, types.StatusPoison, 1, 0))
		}
		ctx.logf("%s spreads a plague.", caster.Name)

	case types.ClassPaladin:
		ally := ctx.targetAlly(caster)
		healed, evs := effects.Heal(ally, PaladinHeal)
		ctx.record(evs)
		caster.Thorns = PaladinThorns
		ctx.logf("%s heals %s for %d and bristles with thorns.", caster.Name, ally.Name, healed)

	default:
		ctx.logf("%s has no class power.", caster.Name)
	}
	caster.Concentration = 0
	return nil
}

// rerolled resolves the face a class reroll landed on. The class face
// still spends the concentration stack unless the reroll itself was a
// concentration spell.
func (r *Resolver) rerolled(caster *types.Combatant, face types.Face, ctx *Context, bonus int) *UpgradeChoice {
	choice := r.resolve(caster, face, ctx, bonus, false)
	if face.Kind != types.FaceSpell || face.Spell != types.SpellConcentration {
		caster.Concentration = 0
	}
	return choice
}

func (r *Resolver) castSpell(caster *types.Combatant, face types.Face, ctx *Context, bonus int) {
	value := r.Defs.SpellValue(face.Spell, face.Tier)
	consume := true

	switch face.Spell {
	case types.SpellAttack:
		if target := ctx.targetEnemy(); target != nil {
			r.strike(caster, target, scaled(caster, value+bonus), false, ctx)
		}

	case types.SpellFireball:
		if target := ctx.targetEnemy(); target != nil {
			r.strike(caster, target, scaled(caster, value+bonus), true, ctx)
		}

	case types.SpellSweep:
		live := state.Alive(ctx.Enemies)
		if len(live) == 0 {
			ctx.logf("No target.")
		}
		amount := scaled(caster, value+bonus)
		for _, e := range live {
			r.strike(caster, e, amount, false, ctx)
		}

	case types.SpellHeal:
		ally := ctx.targetAlly(caster)
		healed, evs := effects.Heal(ally, value)
		ctx.record(evs)
		ctx.logf("%s heals %s for %d.", caster.Name, ally.Name, healed)

	case types.SpellArmor:
		ctx.record(effects.GainArmor(caster, value))
		ctx.logf("%s gains %d armor.", caster.Name, value)

	case types.SpellPoison:
		if target := ctx.targetEnemy(); target != nil {
			ctx.record(effects.Afflict(caster, target, types.StatusPoison, value, 0))
			ctx.logf("%s poisons %s (x%d).", caster.Name, target.Name, value)
		}

	case types.SpellBomb:
		if target := ctx.targetEnemy(); target != nil {
			ctx.record(effects.Afflict(caster, target, types.StatusBomb, value, 0))
			ctx.logf("%s plants %d bomb(s) on %s.", caster.Name, value, target.Name)
		}

	case types.SpellConcentration:
		consume = false
		if caster.Concentration >= MaxConcentration {
			ctx.logf("%s cannot focus any harder (x%d).", caster.Name, 1<<caster.Concentration)
			break
		}
		caster.Concentration++
		ctx.logf("%s concentrates (x%d).", caster.Name, 1<<caster.Concentration)

	default:
		ctx.logf("%s fizzles.", face.Spell)
	}

	if consume {
		caster.Concentration = 0
	}
}

// proposeUpgrade draws a candidate for a random spell slot. The hero's
// die is untouched until CommitUpgrade.
func (r *Resolver) proposeUpgrade(hero *types.Combatant, ctx *Context) *UpgradeChoice {
	slot := types.FirstSpellRow + r.RNG.Index(types.SpellSlots)
	old := hero.Die[slot]
	tier := 1
	if old.Kind == types.FaceSpell {
		tier = state.ClampTier(old.Tier + 1)
	}
	pool := r.Defs.UpgradePools[tier]
	if len(pool) == 0 {
		ctx.logf("Nothing to upgrade.")
		return nil
	}
	spell := pool[r.RNG.WeightedSelect(r.Defs.Weights(tier))]

	r.generation++
	r.latest[hero.ID] = r.generation
	choice := &UpgradeChoice{
		HeroID:     hero.ID,
		Slot:       slot,
		Old:        old,
		Candidate:  types.Face{Kind: types.FaceSpell, Spell: spell, Tier: tier},
		Generation: r.generation,
		hero:       hero,
	}
	ctx.logf("%s may replace %s with %s (keep/take).", hero.Name, FaceName(old), FaceName(choice.Candidate))
	return choice
}

// CommitUpgrade settles a proposal. keepNew writes the candidate into the
// slot; otherwise the old face stays. A choice commits at most once, and a
// choice superseded by a newer proposal for the same hero never commits.
// It reports whether the choice was settled.
func (r *Resolver) CommitUpgrade(choice *UpgradeChoice, keepNew bool) bool {
	if choice == nil || choice.Committed || choice.hero == nil {
		return false
	}
	if r.latest[choice.HeroID] != choice.Generation {
		r.log.Debug("stale upgrade ignored", zap.String("hero", choice.HeroID), zap.Uint64("generation", choice.Generation))
		return false
	}
	choice.Committed = true
	delete(r.latest, choice.HeroID)
	if keepNew {
		choice.hero.Die[choice.Slot] = choice.Candidate
	}
	return true
}

// Rebind attaches a restored choice to its hero and marks it as the
// latest proposal, so a loaded save can still commit it.
func (r *Resolver) Rebind(choice *UpgradeChoice, hero *types.Combatant) {
	if choice == nil || hero == nil {
		return
	}
	choice.hero = hero
	if choice.Committed {
		return
	}
	r.latest[choice.HeroID] = choice.Generation
	if choice.Generation > r.generation {
		r.generation = choice.Generation
	}
}
