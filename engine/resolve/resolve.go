// Package resolve maps combatant names from parsed intents to combatant IDs.
package resolve

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/dicearena/engine/state"
	"github.com/nathoo/dicearena/types"
)

// AmbiguityError indicates multiple combatants matched a name.
type AmbiguityError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	names := strings.Join(e.Candidates, ", ")
	return fmt.Sprintf("which %s? (%s)", e.Name, names)
}

// NotFoundError indicates no live combatant matched a name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("nobody called %q is standing", e.Name)
}

// Combatant resolves a name, ID or 1-based roster index to the ID of a
// live combatant in roster.
func Combatant(roster []*types.Combatant, name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", &NotFoundError{Name: name}
	}

	// 1. Roster index ("2" is the second combatant).
	if n, err := strconv.Atoi(name); err == nil {
		if n >= 1 && n <= len(roster) && state.IsAlive(roster[n-1]) {
			return roster[n-1].ID, nil
		}
		return "", &NotFoundError{Name: name}
	}

	live := state.Alive(roster)

	// 2. Exact ID or exact name.
	for _, c := range live {
		if strings.ToLower(c.ID) == name || strings.ToLower(c.Name) == name {
			return c.ID, nil
		}
	}

	// 3. Partial matches.
	var matches []*types.Combatant
	for _, c := range live {
		if matchesName(c, name) {
			matches = append(matches, c)
		}
	}

	switch len(matches) {
	case 0:
		return "", &NotFoundError{Name: name}
	case 1:
		return matches[0].ID, nil
	default:
		candidates := make([]string, len(matches))
		for i, c := range matches {
			candidates[i] = c.Name
		}
		return "", &AmbiguityError{Name: name, Candidates: candidates}
	}
}

// matchesName checks a query against a combatant's name words, its ID
// with separators normalized, and its class or template.
func matchesName(c *types.Combatant, query string) bool {
	nameLower := strings.ToLower(c.Name)
	// Word-based partial match: "warden" matches "Iron Warden".
	for _, word := range strings.Fields(nameLower) {
		if word == query {
			return true
		}
	}
	if strings.HasPrefix(nameLower, query+" ") {
		return true
	}
	// Separator normalization: "rat 2" matches ID "rat-2".
	idLower := strings.ToLower(c.ID)
	normalized := strings.NewReplacer(" ", "-", "_", "-").Replace(query)
	if normalized == idLower {
		return true
	}
	if c.Class != "" && string(c.Class) == query {
		return true
	}
	return c.Template != "" && c.Template == query
}
