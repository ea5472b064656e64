package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nathoo/dicearena/engine/state"
	"github.com/nathoo/dicearena/types"
)

const hpBarWidth = 8

var titleCaser = cases.Title(language.English)

// displayName title-cases a content key: "thick_hide" -> "Thick Hide".
func displayName(id string) string {
	return titleCaser.String(strings.ReplaceAll(id, "_", " "))
}

// hpBar renders a fixed-width health bar colored by remaining fraction.
func hpBar(c *types.Combatant, width int) string {
	if !state.IsAlive(c) || c.MaxHP <= 0 {
		return styleHPGone.Render(strings.Repeat("·", width))
	}
	filled := c.HP * width / c.MaxHP
	if filled < 1 {
		filled = 1
	}
	if filled > width {
		filled = width
	}
	style := styleHPHigh
	switch {
	case c.HP*4 <= c.MaxHP:
		style = styleHPLow
	case c.HP*2 <= c.MaxHP:
		style = styleHPMid
	}
	return style.Render(strings.Repeat("█", filled)) + styleHPGone.Render(strings.Repeat("░", width-filled))
}

// rosterEntry renders one combatant for the roster line.
func rosterEntry(c *types.Combatant, current bool) string {
	name := c.Name
	if current {
		name = "▸" + name
	}
	return fmt.Sprintf("%s %s %d/%d", name, hpBar(c, hpBarWidth), c.HP, c.MaxHP)
}

// renderRoster produces one line per side with HP bars.
func (m Model) renderRoster() string {
	cur := m.enc.Current()
	line := func(side []*types.Combatant) string {
		parts := make([]string, 0, len(side))
		for _, c := range side {
			parts = append(parts, rosterEntry(c, c == cur))
		}
		return " " + strings.Join(parts, "  ")
	}
	heroes := styleRosterBar.Width(m.width).Render(line(m.enc.Heroes))
	enemies := styleRosterBar.Width(m.width).Render(line(m.enc.Enemies))
	return heroes + "\n" + enemies
}

// renderStatusBar produces a full-width inverted status line showing the
// encounter, round, whose turn it is and any pending choice.
func (m Model) renderStatusBar() string {
	e := m.enc

	left := fmt.Sprintf(" %s | Round %d", e.Name, e.Round)
	if c := e.Current(); c != nil {
		who := c.Name
		if c.Class != "" {
			who += " the " + displayName(string(c.Class))
		}
		left += " | " + who
	}

	var right string
	switch {
	case e.Outcome == types.OutcomeVictory:
		right = "Victory "
	case e.Outcome == types.OutcomeDefeat:
		right = "Defeat "
	case e.Pending != nil:
		right = "keep / take "
	case m.isRolling():
		right = "rolling "
	case e.Target != "":
		if t := state.Find(e.Enemies, e.Target); state.IsAlive(t) {
			right = "Target: " + t.Name + " "
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
