// Package engine provides the combat resolver and the Encounter
// orchestrator that drives it slot by slot through the initiative order.
package engine

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/nathoo/dicearena/engine/dice"
	"github.com/nathoo/dicearena/engine/effects"
	"github.com/nathoo/dicearena/engine/state"
	"github.com/nathoo/dicearena/types"
)

// CombatResolver is the full set of resolution operations a front-end
// drives. Gameplay failures are reported as log lines, never as errors.
type CombatResolver interface {
	RollInitiative(players, enemies []*types.Combatant) []types.Token
	RollFace(hero *types.Combatant) types.Face
	ResolveFace(caster *types.Combatant, face types.Face, ctx *Context) *UpgradeChoice
	CommitUpgrade(choice *UpgradeChoice, keepNew bool) bool
	ApplyDamage(source, target *types.Combatant, amount int, opts effects.Options) int
	Heal(target *types.Combatant, amount int)
	TickStatuses(entity *types.Combatant, ctx *Context)
	EnemyAct(enemy *types.Combatant, players []*types.Combatant) Action
}

var _ CombatResolver = (*Resolver)(nil)

// Resolver resolves faces and enemy actions against caller-owned
// combatants. It holds the content tables and the encounter RNG.
type Resolver struct {
	Defs *state.Defs
	RNG  *dice.RNG

	log *zap.Logger

	// Upgrade proposals are numbered; only the latest per hero commits.
	generation uint64
	latest     map[string]uint64
}

// New creates a resolver. A nil logger disables diagnostic logging.
func New(defs *state.Defs, rng *dice.RNG, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		Defs:   defs,
		RNG:    rng,
		log:    logger.Named("resolver"),
		latest: map[string]uint64{},
	}
}

// RestoreRNG re-creates the RNG from seed and advances to the saved position.
func (r *Resolver) RestoreRNG(seed int64, position int64) {
	r.RNG = dice.RestoreRNG(seed, position)
}

// RollInitiative rolls 1d20 for every combatant and orders the tokens by
// roll, highest first. Players win exact ties; remaining ties keep roster
// order.
func (r *Resolver) RollInitiative(players, enemies []*types.Combatant) []types.Token {
	tokens := make([]types.Token, 0, len(players)+len(enemies))
	for i, p := range players {
		if p == nil {
			continue
		}
		tokens = append(tokens, types.Token{Side: types.SidePlayer, Index: i, ID: p.ID, Roll: r.RNG.Roll(20)})
	}
	for i, e := range enemies {
		if e == nil {
			continue
		}
		tokens = append(tokens, types.Token{Side: types.SideEnemy, Index: i, ID: e.ID, Roll: r.RNG.Roll(20)})
	}
	sort.SliceStable(tokens, func(i, j int) bool {
		if tokens[i].Roll != tokens[j].Roll {
			return tokens[i].Roll > tokens[j].Roll
		}
		return tokens[i].Side == types.SidePlayer && tokens[j].Side == types.SideEnemy
	})
	r.log.Debug("initiative rolled", zap.Int("tokens", len(tokens)))
	return tokens
}

// RollFace picks one of the hero's six faces uniformly.
func (r *Resolver) RollFace(hero *types.Combatant) types.Face {
	face := hero.Die[r.RNG.Index(types.DieSides)]
	r.log.Debug("face rolled", zap.String("hero", hero.ID), zap.String("face", FaceName(face)))
	return face
}

// ApplyDamage deals damage outside of a resolution step. Reactions are
// not dispatched.
func (r *Resolver) ApplyDamage(source, target *types.Combatant, amount int, opts effects.Options) int {
	dealt, _ := effects.ApplyDamage(source, target, amount, opts)
	return dealt
}

// Heal restores HP outside of a resolution step.
func (r *Resolver) Heal(target *types.Combatant, amount int) {
	effects.Heal(target, amount)
}

// EndHeroTurn clears the turn-scoped flags a class face granted.
func (r *Resolver) EndHeroTurn(hero *types.Combatant) {
	if hero == nil || hero.Side != types.SidePlayer {
		return
	}
	hero.Invisible = false
	hero.Thorns = 0
}

// FaceName renders a face for log lines.
func FaceName(f types.Face) string {
	switch f.Kind {
	case types.FaceBlank:
		return "blank"
	case types.FaceClass:
		return "class"
	case types.FaceSpell:
		return fmt.Sprintf("%s %s", f.Spell, tierMark(f.Tier))
	case types.FaceUpgrade:
		return "upgrade"
	default:
		return "?"
	}
}

func tierMark(tier int) string {
	switch tier {
	case 1:
		return "I"
	case 2:
		return "II"
	case 3:
		return "III"
	default:
		return fmt.Sprint(tier)
	}
}
