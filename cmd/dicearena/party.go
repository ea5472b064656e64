package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/nathoo/dicearena/engine"
	"github.com/nathoo/dicearena/engine/state"
	"github.com/nathoo/dicearena/types"
)

const defaultParty = "Ayla:tank,Bram:lich"

// leveler reports a stored hero's level.
type leveler interface {
	Level(ctx context.Context, name string) (int, error)
}

// parseParty reads "Name:class[:spell/spell/...]" entries separated by
// commas. Listed spells replace the class defaults slot by slot; "-"
// leaves a slot blank.
func parseParty(ctx context.Context, defs *state.Defs, list string, levels leveler) ([]engine.Member, error) {
	var party []engine.Member
	for _, entry := range strings.Split(list, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) < 2 || len(parts) > 3 || parts[0] == "" {
			return nil, fmt.Errorf("party entry %q: want Name:class[:spells]", entry)
		}

		lo, err := state.NewLoadout(defs, parts[0], types.ClassID(strings.ToLower(parts[1])))
		if err != nil {
			return nil, fmt.Errorf("party entry %q: %w", entry, err)
		}
		if len(parts) == 3 {
			spells := strings.Split(parts[2], "/")
			if len(spells) > types.SpellSlots {
				return nil, fmt.Errorf("party entry %q: at most %d spells", entry, types.SpellSlots)
			}
			for i := range lo.Spells {
				spell := types.SpellNone
				if i < len(spells) && spells[i] != "-" {
					spell = types.SpellID(strings.ToLower(spells[i]))
				}
				if err := state.SetSlot(defs, &lo, i+1, spell); err != nil {
					return nil, fmt.Errorf("party entry %q: %w", entry, err)
				}
			}
		}

		level := 1
		if levels != nil {
			if level, err = levels.Level(ctx, lo.Name); err != nil {
				return nil, fmt.Errorf("level of %s: %w", lo.Name, err)
			}
		}
		party = append(party, engine.Member{Loadout: lo, Level: level})
	}
	if len(party) == 0 {
		return nil, fmt.Errorf("party is empty")
	}
	return party, nil
}
