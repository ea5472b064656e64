package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleRosterBar = lipgloss.NewStyle().
			Background(lipgloss.Color("234")).
			Foreground(lipgloss.Color("250"))

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarrative = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleTurn = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)

	styleDamage = lipgloss.NewStyle().
			Foreground(lipgloss.Color("209"))

	styleHeal = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114"))

	styleDefeat = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	styleOffer = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	styleHPHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	styleHPMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	styleHPLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	styleHPGone = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarrative lineKind = iota
	kindTurn
	kindDamage
	kindHeal
	kindDefeat
	kindOffer
	kindSystem
	kindError
	kindTrace
)

// refusals are engine replies to commands that did nothing.
var refusals = []string{
	"Roll first.",
	"Already rolled.",
	"Choose first",
	"No upgrade to choose.",
	"It is not a hero's turn.",
	"The encounter is over.",
	"Nobody called",
	"Which ",
	"I don't know how",
	"Nothing to repeat.",
}

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case hasAnyPrefix(line, refusals):
		return kindError
	case line == "Victory!", line == "The party has fallen.", strings.HasSuffix(line, " is defeated!"):
		return kindDefeat
	case strings.HasPrefix(line, "Round "), strings.HasSuffix(line, "'s turn."), strings.HasSuffix(line, " begins."):
		return kindTurn
	case strings.Contains(line, " may replace "):
		return kindOffer
	case containsAny(line, " heals ", " regenerates ", " drains ", " drinks "):
		return kindHeal
	case containsAny(line, " hits ", " attacks ", " bleeds for ", " damage", " explodes "):
		return kindDamage
	default:
		return kindNarrative
	}
}

func hasAnyPrefix(line string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

func containsAny(line string, parts ...string) bool {
	for _, p := range parts {
		if strings.Contains(line, p) {
			return true
		}
	}
	return false
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindTurn:
		return styleTurn.Render(line)
	case kindDamage:
		return styleDamage.Render(line)
	case kindHeal:
		return styleHeal.Render(line)
	case kindDefeat:
		return styleDefeat.Render(line)
	case kindOffer:
		return styleOffer.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleNarrative.Render(line)
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
