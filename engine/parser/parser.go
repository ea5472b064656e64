// Package parser converts battle command strings into Intent structs.
// Intentionally dumb: no NLP, just pattern matching.
package parser

import (
	"strings"

	"github.com/nathoo/dicearena/types"
)

// Canonical battle verbs.
const (
	VerbRoll   = "roll"
	VerbKeep   = "keep"
	VerbTake   = "take"
	VerbTarget = "target"
	VerbHeal   = "heal"
	VerbStatus = "status"
	VerbWait   = "wait"
	VerbDie    = "die"
)

var verbAliases = map[string]string{
	// Roll
	"r":     VerbRoll,
	"throw": VerbRoll,
	"cast":  VerbRoll,
	"go":    VerbRoll,

	// Upgrade choice
	"k":       VerbKeep,
	"old":     VerbKeep,
	"decline": VerbKeep,
	"no":      VerbKeep,
	"n":       VerbKeep,
	"t":       VerbTake,
	"new":     VerbTake,
	"accept":  VerbTake,
	"yes":     VerbTake,
	"y":       VerbTake,

	// Targeting
	"aim":    VerbTarget,
	"focus":  VerbTarget,
	"select": VerbTarget,
	"attack": VerbTarget,
	"ally":   VerbHeal,
	"mend":   VerbHeal,
	"assist": VerbHeal,

	// Information
	"s":     VerbStatus,
	"st":    VerbStatus,
	"look":  VerbStatus,
	"l":     VerbStatus,
	"faces": VerbDie,
	"dice":  VerbDie,

	// Pass
	"z":    VerbWait,
	"w":    VerbWait,
	"pass": VerbWait,
	"skip": VerbWait,
}

var fillers = map[string]bool{
	"the": true, "a": true, "an": true,
	"at": true, "on": true, "to": true,
}

// Parse converts a raw command string into an Intent.
func Parse(input string) types.Intent {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Intent{}
	}

	words := strings.Fields(strings.ToLower(input))
	words = expandMultiWordVerbs(words)

	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	return types.Intent{
		Verb:   words[0],
		Object: strings.Join(stripFillers(words[1:]), " "),
	}
}

// expandMultiWordVerbs handles "roll dice", "keep old", "take new" and
// similar phrasings.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}

	switch words[0] {
	case "roll", "throw":
		if words[1] == "dice" || words[1] == "die" {
			return append([]string{VerbRoll}, words[2:]...)
		}
	case "keep":
		if words[1] == "old" || words[1] == "it" {
			return []string{VerbKeep}
		}
	case "take":
		if words[1] == "new" || words[1] == "it" {
			return []string{VerbTake}
		}
	case "look":
		if words[1] == "at" {
			return append([]string{VerbTarget}, words[2:]...)
		}
	case "show":
		if words[1] == "die" || words[1] == "dice" || words[1] == "faces" {
			return []string{VerbDie}
		}
	}

	return words
}

// stripFillers removes articles and prepositions from the object words.
func stripFillers(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !fillers[w] {
			result = append(result, w)
		}
	}
	return result
}
