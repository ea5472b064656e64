// Package state holds the immutable content definitions and the helpers
// that read and mutate combatant state (statuses, traits, liveness).
package state

import (
	"fmt"

	"github.com/nathoo/dicearena/types"
)

// Defs holds the immutable content definitions loaded at startup.
type Defs struct {
	Game         types.GameDef
	Classes      map[types.ClassID]types.ClassDef
	Spells       map[types.SpellID]types.SpellDef
	Enemies      map[string]types.EnemyDef
	Encounters   map[string]types.EncounterDef
	UpgradePools map[int][]types.SpellID // tier → candidate spells
	PoolWeights  map[int][]int           // tier → draw weight per pool entry; absent means even odds
	EnemyDamage  map[int]int             // tier → base attack damage
}

// Weights returns the draw weights for a tier's upgrade pool, one per
// entry. Pools without recorded weights draw evenly.
func (d *Defs) Weights(tier int) []int {
	pool := d.UpgradePools[tier]
	if w := d.PoolWeights[tier]; len(w) == len(pool) {
		return w
	}
	even := make([]int, len(pool))
	for i := range even {
		even[i] = 1
	}
	return even
}

// SetPoolWeights records weights for a tier. Even weights are dropped so
// an unweighted pool stays indistinguishable from the built-ins.
func (d *Defs) SetPoolWeights(tier int, weights []int) {
	for _, w := range weights {
		if w != 1 {
			if d.PoolWeights == nil {
				d.PoolWeights = make(map[int][]int)
			}
			d.PoolWeights[tier] = weights
			return
		}
	}
	delete(d.PoolWeights, tier)
}

// SpellValue returns the magnitude of a spell at a tier. Tiers outside
// 1..3 are clamped.
func (d *Defs) SpellValue(spell types.SpellID, tier int) int {
	def, ok := d.Spells[spell]
	if !ok {
		return 0
	}
	return def.Tiers[ClampTier(tier)-1]
}

// BaseDamage returns an enemy's base attack damage.
func (d *Defs) BaseDamage(c *types.Combatant) int {
	if c.Boss && d.Game.BossDamage > 0 {
		return d.Game.BossDamage
	}
	if dmg, ok := d.EnemyDamage[ClampTier(c.Tier)]; ok {
		return dmg
	}
	return 1
}

// ClampTier forces a tier into 1..3.
func ClampTier(tier int) int {
	if tier < 1 {
		return 1
	}
	if tier > 3 {
		return 3
	}
	return tier
}

// NewHero builds a hero combatant from a loadout. Spell slots become
// tier-1 faces; empty slots become blank faces. level adds LevelHP max HP
// per level above 1.
func NewHero(defs *Defs, id string, lo types.Loadout, level int) (*types.Combatant, error) {
	class, ok := defs.Classes[lo.Class]
	if !ok {
		return nil, fmt.Errorf("unknown class %q", lo.Class)
	}
	maxHP := class.HP
	if level > 1 {
		maxHP += (level - 1) * defs.Game.LevelHP
	}
	name := lo.Name
	if name == "" {
		name = string(lo.Class)
	}

	hero := &types.Combatant{
		ID:       id,
		Name:     name,
		Side:     types.SidePlayer,
		HP:       maxHP,
		MaxHP:    maxHP,
		Armor:    class.Armor,
		Class:    lo.Class,
		Statuses: map[types.StatusKind]types.Status{},
	}
	hero.Die[types.ClassSlot] = types.Face{Kind: types.FaceClass}
	for i, spell := range lo.Spells {
		face := types.Face{Kind: types.FaceBlank}
		if spell != types.SpellNone {
			if _, ok := defs.Spells[spell]; !ok {
				return nil, fmt.Errorf("unknown spell %q in slot %d", spell, i+1)
			}
			face = types.Face{Kind: types.FaceSpell, Spell: spell, Tier: 1}
		}
		hero.Die[types.FirstSpellRow+i] = face
	}
	hero.Die[types.UpgradeSlot] = types.Face{Kind: types.FaceUpgrade}
	return hero, nil
}

// NewEnemy instantiates an enemy from its content template.
func NewEnemy(defs *Defs, defID, instanceID string) (*types.Combatant, error) {
	def, ok := defs.Enemies[defID]
	if !ok {
		return nil, fmt.Errorf("unknown enemy %q", defID)
	}
	ai := def.AI
	if ai == "" {
		ai = types.TargetLowestHP
	}
	traits := make([]types.TraitKind, len(def.Traits))
	copy(traits, def.Traits)
	return &types.Combatant{
		ID:       instanceID,
		Name:     def.Name,
		Template: defID,
		Side:     types.SideEnemy,
		HP:       def.HP,
		MaxHP:    def.HP,
		Armor:    def.Armor,
		Tier:     def.Tier,
		Boss:     def.Boss,
		AI:       ai,
		Traits:   traits,
		Statuses: map[types.StatusKind]types.Status{},
	}, nil
}

// IsAlive reports whether a combatant can still act or be targeted.
func IsAlive(c *types.Combatant) bool {
	return c != nil && !c.Defeated && c.HP > 0
}

// Alive returns the live combatants of a roster, in roster order.
func Alive(roster []*types.Combatant) []*types.Combatant {
	var result []*types.Combatant
	for _, c := range roster {
		if IsAlive(c) {
			result = append(result, c)
		}
	}
	return result
}

// Find returns the combatant with the given ID, or nil.
func Find(roster []*types.Combatant, id string) *types.Combatant {
	for _, c := range roster {
		if c != nil && c.ID == id {
			return c
		}
	}
	return nil
}

// HasTrait returns true if the combatant carries the trait.
func HasTrait(c *types.Combatant, trait types.TraitKind) bool {
	for _, t := range c.Traits {
		if t == trait {
			return true
		}
	}
	return false
}

// HasStatus returns true if the status is present with at least one stack.
func HasStatus(c *types.Combatant, kind types.StatusKind) bool {
	return Stacks(c, kind) > 0
}

// Stacks returns the stack count of a status, or 0.
func Stacks(c *types.Combatant, kind types.StatusKind) int {
	if c.Statuses == nil {
		return 0
	}
	return c.Statuses[kind].Stacks
}

// AddStatus adds stacks to a status. A longer duration replaces a shorter
// one; a duration of 0 never shortens an existing countdown.
func AddStatus(c *types.Combatant, kind types.StatusKind, stacks, duration int) {
	if stacks <= 0 {
		return
	}
	if c.Statuses == nil {
		c.Statuses = map[types.StatusKind]types.Status{}
	}
	st := c.Statuses[kind]
	st.Stacks += stacks
	if duration > st.Duration {
		st.Duration = duration
	}
	c.Statuses[kind] = st
}

// SetStacks overwrites a status's stack count, removing it at zero.
func SetStacks(c *types.Combatant, kind types.StatusKind, stacks int) {
	if stacks <= 0 {
		RemoveStatus(c, kind)
		return
	}
	if c.Statuses == nil {
		c.Statuses = map[types.StatusKind]types.Status{}
	}
	st := c.Statuses[kind]
	st.Stacks = stacks
	c.Statuses[kind] = st
}

// RemoveStatus deletes a status entirely.
func RemoveStatus(c *types.Combatant, kind types.StatusKind) {
	delete(c.Statuses, kind)
}

// EffectiveArmor is armor after shred, never negative.
func EffectiveArmor(c *types.Combatant) int {
	armor := c.Armor - Stacks(c, types.StatusArmorShred)
	if armor < 0 {
		return 0
	}
	return armor
}

// DieTier returns the tier of a face for comparisons. Only spell faces
// carry a tier.
func DieTier(f types.Face) int {
	if f.Kind != types.FaceSpell {
		return 0
	}
	return f.Tier
}
