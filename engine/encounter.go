package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/nathoo/dicearena/engine/state"
	"github.com/nathoo/dicearena/engine/status"
	"github.com/nathoo/dicearena/engine/traits"
	"github.com/nathoo/dicearena/types"
)

// Member is one hero of a party going into an encounter.
type Member struct {
	Loadout types.Loadout
	Level   int
}

// Encounter owns one fight: both rosters, the initiative order, the slot
// cursor and the round counter. Every step returns a Result carrying the
// emitted events and the game log lines.
type Encounter struct {
	ID      string             `json:"id"`
	Name    string             `json:"name"`
	Heroes  []*types.Combatant `json:"heroes"`
	Enemies []*types.Combatant `json:"enemies"`
	Order   []types.Token      `json:"order"`
	Cursor  int                `json:"cursor"`
	Round   int                `json:"round"`
	Outcome types.Outcome      `json:"outcome"`
	Loot    Loot               `json:"loot"`

	// Hero slot state.
	Rolled  *types.Face    `json:"rolled,omitempty"`
	Pending *UpgradeChoice `json:"pending,omitempty"`
	Target  string         `json:"target,omitempty"`
	Ally    string         `json:"ally,omitempty"`

	Commands []string `json:"commands,omitempty"`

	r *Resolver
}

// Build creates an encounter from content: heroes from the party's
// loadouts, finalized here, and enemies from the encounter's template list.
func Build(r *Resolver, encounterID string, party []Member) (*Encounter, error) {
	def, ok := r.Defs.Encounters[encounterID]
	if !ok {
		return nil, fmt.Errorf("unknown encounter %q", encounterID)
	}

	heroes := make([]*types.Combatant, 0, len(party))
	for i, m := range party {
		lo := m.Loadout
		if err := state.Finalize(r.Defs, &lo); err != nil {
			return nil, fmt.Errorf("party member %d: %w", i+1, err)
		}
		hero, err := state.NewHero(r.Defs, fmt.Sprintf("hero-%d", i+1), lo, m.Level)
		if err != nil {
			return nil, fmt.Errorf("party member %d: %w", i+1, err)
		}
		heroes = append(heroes, hero)
	}

	counts := map[string]int{}
	for _, id := range def.Enemies {
		counts[id]++
	}
	seen := map[string]int{}
	enemies := make([]*types.Combatant, 0, len(def.Enemies))
	for _, id := range def.Enemies {
		instance := id
		if counts[id] > 1 {
			seen[id]++
			instance = fmt.Sprintf("%s-%d", id, seen[id])
		}
		enemy, err := state.NewEnemy(r.Defs, id, instance)
		if err != nil {
			return nil, fmt.Errorf("encounter %q: %w", encounterID, err)
		}
		if counts[id] > 1 {
			enemy.Name = fmt.Sprintf("%s %d", enemy.Name, seen[id])
		}
		enemies = append(enemies, enemy)
	}

	e := NewEncounter(r, def.Name, heroes, enemies)
	e.ID = def.ID
	return e, nil
}

// NewEncounter wraps caller-built rosters.
func NewEncounter(r *Resolver, name string, heroes, enemies []*types.Combatant) *Encounter {
	return &Encounter{Name: name, Heroes: heroes, Enemies: enemies, Cursor: -1, r: r}
}

// Resolver returns the resolver the encounter runs on.
func (e *Encounter) Resolver() *Resolver {
	return e.r
}

// Attach binds a restored encounter to a resolver and re-links any
// pending upgrade to its hero.
func (e *Encounter) Attach(r *Resolver) {
	e.r = r
	if e.Pending != nil {
		r.Rebind(e.Pending, state.Find(e.Heroes, e.Pending.HeroID))
	}
}

// Roster returns heroes followed by enemies.
func (e *Encounter) Roster() []*types.Combatant {
	all := make([]*types.Combatant, 0, len(e.Heroes)+len(e.Enemies))
	all = append(all, e.Heroes...)
	return append(all, e.Enemies...)
}

// Start rolls initiative, applies encounter-start traits and plays up to
// the first hero slot.
func (e *Encounter) Start() types.Result {
	var res types.Result
	e.Round = 1
	e.Order = e.r.RollInitiative(e.Heroes, e.Enemies)
	res.Log = append(res.Log, fmt.Sprintf("%s begins.", e.Name))
	for _, tok := range e.Order {
		c := state.Find(e.Roster(), tok.ID)
		res.Log = append(res.Log, fmt.Sprintf("  %s rolls %d for initiative.", c.Name, tok.Roll))
	}
	for _, c := range e.Roster() {
		merge(&res, traits.EncounterStart(c))
	}
	e.startRound(&res)
	e.Cursor = -1
	e.checkOutcome(&res)
	merge(&res, e.Advance())
	e.r.log.Info("encounter started", zap.String("encounter", e.Name), zap.Int("combatants", len(e.Order)))
	return res
}

// Current returns the combatant whose slot is open, or nil when the
// encounter is over or not started.
func (e *Encounter) Current() *types.Combatant {
	if e.Outcome != types.OutcomeOngoing || e.Cursor < 0 || e.Cursor >= len(e.Order) {
		return nil
	}
	return state.Find(e.Roster(), e.Order[e.Cursor].ID)
}

// HeroTurn reports whether a hero's slot is open.
func (e *Encounter) HeroTurn() bool {
	c := e.Current()
	return c != nil && c.Side == types.SidePlayer
}

// RollFace rolls the current hero's die without resolving it. The face is
// held until Resolve.
func (e *Encounter) RollFace() (types.Face, bool) {
	if !e.HeroTurn() || e.Rolled != nil || e.Pending != nil {
		return types.Face{}, false
	}
	face := e.r.RollFace(e.Current())
	e.Rolled = &face
	return face, true
}

// Resolve applies the held face. Unless the face proposes an upgrade, the
// hero's turn ends and play advances to the next hero slot.
func (e *Encounter) Resolve() types.Result {
	var res types.Result
	if e.Rolled == nil {
		res.Log = append(res.Log, "Roll first.")
		return res
	}
	hero := e.Current()
	face := *e.Rolled
	e.Rolled = nil

	ctx := e.context(&res)
	res.Log = append(res.Log, fmt.Sprintf("%s rolls %s.", hero.Name, FaceName(face)))
	choice := e.r.ResolveFace(hero, face, ctx)
	res.Events = append(res.Events, ctx.Events...)
	e.checkOutcome(&res)

	if choice != nil && e.Outcome == types.OutcomeOngoing {
		e.Pending = choice
		return res
	}
	merge(&res, e.Advance())
	return res
}

// Roll rolls and resolves in one step.
func (e *Encounter) Roll() types.Result {
	if _, ok := e.RollFace(); !ok {
		return e.refusal()
	}
	return e.Resolve()
}

// Commit settles the pending upgrade and ends the hero's turn.
func (e *Encounter) Commit(keepNew bool) types.Result {
	var res types.Result
	if e.Pending == nil {
		res.Log = append(res.Log, "No upgrade to choose.")
		return res
	}
	hero := state.Find(e.Heroes, e.Pending.HeroID)
	switch {
	case hero == nil || !e.r.CommitUpgrade(e.Pending, keepNew):
		res.Log = append(res.Log, "The upgrade offer has lapsed.")
	case keepNew:
		res.Log = append(res.Log, fmt.Sprintf("%s takes %s.", hero.Name, FaceName(e.Pending.Candidate)))
	default:
		res.Log = append(res.Log, fmt.Sprintf("%s keeps %s.", hero.Name, FaceName(e.Pending.Old)))
	}
	e.Pending = nil
	merge(&res, e.Advance())
	return res
}

// Wait passes the current hero's slot.
func (e *Encounter) Wait() types.Result {
	var res types.Result
	if !e.HeroTurn() || e.Rolled != nil || e.Pending != nil {
		return e.refusal()
	}
	res.Log = append(res.Log, fmt.Sprintf("%s waits.", e.Current().Name))
	merge(&res, e.Advance())
	return res
}

// SetTarget selects the enemy single-target hero effects prefer.
func (e *Encounter) SetTarget(id string) {
	e.Target = id
}

// SetAlly selects the ally support effects prefer.
func (e *Encounter) SetAlly(id string) {
	e.Ally = id
}

// Advance closes the open slot and plays enemy slots and round boundaries
// until the next live hero's slot opens or the encounter ends. A pending
// upgrade is declined.
func (e *Encounter) Advance() types.Result {
	var res types.Result
	if e.Pending != nil {
		e.r.CommitUpgrade(e.Pending, false)
		e.Pending = nil
	}
	e.Rolled = nil

	for e.Outcome == types.OutcomeOngoing {
		e.Cursor++
		if e.Cursor >= len(e.Order) {
			e.endRound(&res)
			if e.Outcome != types.OutcomeOngoing || len(e.Order) == 0 {
				break
			}
			e.Round++
			e.startRound(&res)
			e.Cursor = 0
		}
		c := e.Current()
		if !state.IsAlive(c) {
			continue
		}
		if c.Side == types.SidePlayer {
			e.r.EndHeroTurn(c)
			res.Log = append(res.Log, fmt.Sprintf("%s's turn.", c.Name))
			break
		}
		act := e.r.EnemyAct(c, e.Heroes)
		merge(&res, act.Result)
		e.checkOutcome(&res)
	}
	return res
}

func (e *Encounter) startRound(res *types.Result) {
	res.Log = append(res.Log, fmt.Sprintf("Round %d.", e.Round))
	for _, c := range state.Alive(e.Heroes) {
		merge(res, status.RoundStart(c, e.Heroes))
	}
	for _, c := range state.Alive(e.Enemies) {
		merge(res, status.RoundStart(c, e.Enemies))
	}
}

func (e *Encounter) endRound(res *types.Result) {
	ctx := e.context(res)
	for _, tok := range e.Order {
		if c := state.Find(e.Roster(), tok.ID); state.IsAlive(c) {
			e.r.TickStatuses(c, ctx)
		}
	}
	e.r.SettleBombs(ctx)
	res.Events = append(res.Events, ctx.Events...)
	e.checkOutcome(res)
}

// checkOutcome ends the encounter once a side is wiped out. Victory is
// checked first.
func (e *Encounter) checkOutcome(res *types.Result) {
	if e.Outcome != types.OutcomeOngoing {
		return
	}
	switch {
	case len(state.Alive(e.Enemies)) == 0:
		e.Outcome = types.OutcomeVictory
		res.Log = append(res.Log, "Victory!")
		loot, lines := ProcessLoot(e.Enemies, e.r.Defs, e.r.RNG)
		e.Loot = loot
		res.Log = append(res.Log, lines...)
	case len(state.Alive(e.Heroes)) == 0:
		e.Outcome = types.OutcomeDefeat
		res.Log = append(res.Log, "The party has fallen.")
	default:
		return
	}
	for _, h := range e.Heroes {
		e.r.EndHeroTurn(h)
	}
	e.r.log.Info("encounter over", zap.String("encounter", e.Name), zap.Int("round", e.Round), zap.Int("outcome", int(e.Outcome)))
}

func (e *Encounter) refusal() types.Result {
	var res types.Result
	switch {
	case e.Outcome != types.OutcomeOngoing:
		res.Log = append(res.Log, "The encounter is over.")
	case e.Pending != nil:
		res.Log = append(res.Log, "Choose first: keep or take.")
	case !e.HeroTurn():
		res.Log = append(res.Log, "It is not a hero's turn.")
	default:
		res.Log = append(res.Log, "Already rolled.")
	}
	return res
}

func (e *Encounter) context(res *types.Result) *Context {
	return &Context{
		Enemies: e.Enemies,
		Party:   e.Heroes,
		Log:     func(line string) { res.Log = append(res.Log, line) },
		ChooseEnemy: func(all []*types.Combatant) *types.Combatant {
			return state.Find(all, e.Target)
		},
		ChooseAlly: func(live []*types.Combatant) *types.Combatant {
			return state.Find(live, e.Ally)
		},
	}
}

func merge(dst *types.Result, src types.Result) {
	dst.Events = append(dst.Events, src.Events...)
	dst.Log = append(dst.Log, src.Log...)
}
