package engine

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/nathoo/dicearena/engine/parser"
	"github.com/nathoo/dicearena/engine/resolve"
	"github.com/nathoo/dicearena/engine/state"
	"github.com/nathoo/dicearena/engine/traits"
	"github.com/nathoo/dicearena/types"
)

// Step processes one battle command and returns the result.
func (e *Encounter) Step(input string) types.Result {
	var res types.Result

	// 0. Encounter over: only information commands still work.
	intent := parser.Parse(input)
	if e.Outcome != types.OutcomeOngoing && intent.Verb != parser.VerbStatus && intent.Verb != parser.VerbDie {
		res.Log = append(res.Log, "The encounter is over. Use /load to restore a save or /quit to exit.")
		return res
	}

	// 1. Record the command.
	e.Commands = append(e.Commands, input)

	// 2. Empty input.
	if intent.Verb == "" {
		res.Log = append(res.Log, "What do you want to do?")
		return res
	}

	e.r.log.Debug("command", zap.String("verb", intent.Verb), zap.String("object", intent.Object))

	switch intent.Verb {
	case parser.VerbRoll:
		return e.Roll()
	case parser.VerbKeep:
		return e.Commit(false)
	case parser.VerbTake:
		return e.Commit(true)
	case parser.VerbWait:
		return e.Wait()
	case parser.VerbTarget:
		return e.choose(intent.Object, e.Enemies, &e.Target, "Targeting %s.")
	case parser.VerbHeal:
		return e.choose(intent.Object, e.Heroes, &e.Ally, "Supporting %s.")
	case parser.VerbStatus:
		res.Log = append(res.Log, e.StatusLines()...)
	case parser.VerbDie:
		hero := e.Current()
		if hero == nil || hero.Side != types.SidePlayer {
			res.Log = append(res.Log, "It is not a hero's turn.")
			return res
		}
		res.Log = append(res.Log, DieLines(hero)...)
	default:
		res.Log = append(res.Log, fmt.Sprintf("I don't know how to %q.", intent.Verb))
	}
	return res
}

// choose resolves name among the live members of side and stores the ID
// in slot. An empty name reports the current choice.
func (e *Encounter) choose(name string, side []*types.Combatant, slot *string, format string) types.Result {
	var res types.Result
	if name == "" {
		if c := state.Find(side, *slot); state.IsAlive(c) {
			res.Log = append(res.Log, fmt.Sprintf(format, c.Name))
		} else {
			res.Log = append(res.Log, "No one chosen; the default applies.")
		}
		return res
	}
	id, err := resolve.Combatant(side, name)
	if err != nil {
		res.Log = append(res.Log, capitalize(err.Error())+".")
		return res
	}
	*slot = id
	res.Log = append(res.Log, fmt.Sprintf(format, state.Find(side, id).Name))
	return res
}

// StatusLines renders both rosters, one line per combatant.
func (e *Encounter) StatusLines() []string {
	lines := []string{fmt.Sprintf("%s, round %d.", e.Name, e.Round)}
	lines = append(lines, "Heroes:")
	for i, c := range e.Heroes {
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, describe(c, c.ID == e.Ally)))
	}
	lines = append(lines, "Enemies:")
	for i, c := range e.Enemies {
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, describe(c, c.ID == e.Target)))
	}
	return lines
}

func describe(c *types.Combatant, chosen bool) string {
	var b strings.Builder
	b.WriteString(c.Name)
	if c.Class != "" {
		fmt.Fprintf(&b, " (%s)", c.Class)
	}
	if !state.IsAlive(c) {
		b.WriteString(" defeated")
		return b.String()
	}
	fmt.Fprintf(&b, " HP %d/%d", c.HP, c.MaxHP)
	if armor := state.EffectiveArmor(c); armor > 0 {
		fmt.Fprintf(&b, " armor %d", armor)
	}
	if tags := StatusTags(c); len(tags) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(tags, ", "))
	}
	if len(c.Traits) > 0 {
		names := make([]string, len(c.Traits))
		for i, t := range c.Traits {
			names[i] = string(t)
		}
		fmt.Fprintf(&b, " {%s}", strings.Join(names, ", "))
	}
	if chosen {
		b.WriteString(" *")
	}
	return b.String()
}

// StatusTags lists a combatant's active statuses and turn flags in a
// stable order.
func StatusTags(c *types.Combatant) []string {
	kinds := make([]string, 0, len(c.Statuses))
	for k, st := range c.Statuses {
		if st.Stacks <= 0 {
			continue
		}
		tag := fmt.Sprintf("%s x%d", k, st.Stacks)
		if st.Duration > 0 {
			tag += fmt.Sprintf(" (%dr)", st.Duration)
		}
		kinds = append(kinds, tag)
	}
	sort.Strings(kinds)
	if c.Invisible {
		kinds = append(kinds, "invisible")
	}
	if c.Thorns > 0 && !state.HasTrait(c, types.TraitThorns) {
		kinds = append(kinds, fmt.Sprintf("thorns %d", c.Thorns))
	}
	if c.Concentration > 0 {
		kinds = append(kinds, fmt.Sprintf("concentration x%d", c.Concentration))
	}
	return kinds
}

// DieLines renders a hero's six faces.
func DieLines(hero *types.Combatant) []string {
	lines := []string{fmt.Sprintf("%s's die:", hero.Name)}
	for i, f := range hero.Die {
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, FaceName(f)))
	}
	return lines
}

// TraitLines describes every trait carried by the enemies.
func (e *Encounter) TraitLines() []string {
	seen := map[types.TraitKind]bool{}
	var lines []string
	for _, c := range e.Enemies {
		for _, t := range c.Traits {
			if seen[t] {
				continue
			}
			seen[t] = true
			lines = append(lines, fmt.Sprintf("%s: %s", t, traits.Describe(t)))
		}
	}
	return lines
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
