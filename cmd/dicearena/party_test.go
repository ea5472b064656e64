package main

import (
	"context"
	"errors"
	"testing"

	"github.com/nathoo/dicearena/engine/state"
	"github.com/nathoo/dicearena/types"
)

type fakeLevels map[string]int

func (f fakeLevels) Level(_ context.Context, name string) (int, error) {
	if lvl, ok := f[name]; ok {
		return lvl, nil
	}
	return 1, nil
}

type failingLevels struct{}

func (failingLevels) Level(context.Context, string) (int, error) {
	return 0, errors.New("db closed")
}

func TestParseParty(t *testing.T) {
	defs := state.DefaultDefs()
	party, err := parseParty(context.Background(), defs, "Ayla:tank, Bram:Lich:bomb/-/heal", fakeLevels{"Bram": 3})
	if err != nil {
		t.Fatalf("parseParty: %v", err)
	}
	if len(party) != 2 {
		t.Fatalf("party size %d, want 2", len(party))
	}

	ayla := party[0]
	if ayla.Loadout.Name != "Ayla" || ayla.Loadout.Class != types.ClassTank || ayla.Level != 1 {
		t.Errorf("ayla = %+v", ayla)
	}
	if ayla.Loadout.Spells != defs.Classes[types.ClassTank].Spells {
		t.Errorf("ayla spells = %v, want class defaults", ayla.Loadout.Spells)
	}

	bram := party[1]
	want := [types.SpellSlots]types.SpellID{types.SpellBomb, types.SpellNone, types.SpellHeal}
	if bram.Loadout.Class != types.ClassLich || bram.Loadout.Spells != want || bram.Level != 3 {
		t.Errorf("bram = %+v", bram)
	}
}

func TestParseParty_Errors(t *testing.T) {
	defs := state.DefaultDefs()
	tests := []struct {
		name string
		list string
	}{
		{"empty", " , "},
		{"no class", "Ayla"},
		{"no name", ":tank"},
		{"unknown class", "Ayla:necromancer"},
		{"unknown spell", "Ayla:tank:meteor"},
		{"too many spells", "Ayla:tank:attack/attack/attack/attack/attack"},
		{"too many parts", "Ayla:tank:attack:heal"},
	}
	for _, tt := range tests {
		if _, err := parseParty(context.Background(), defs, tt.list, nil); err == nil {
			t.Errorf("%s: expected error for %q", tt.name, tt.list)
		}
	}
}

func TestParseParty_LevelError(t *testing.T) {
	if _, err := parseParty(context.Background(), state.DefaultDefs(), defaultParty, failingLevels{}); err == nil {
		t.Error("expected level lookup error")
	}
}

func TestParseArgs(t *testing.T) {
	opts, err := parseArgs([]string{"--plain", "--seed", "42", "--party", "Cyn:thief", "--encounter", "crypt", "--content", "content"})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if !opts.plain || !opts.seedSet || opts.seed != 42 || opts.party != "Cyn:thief" ||
		opts.encounter != "crypt" || opts.content != "content" {
		t.Errorf("opts = %+v", opts)
	}

	opts, err = parseArgs(nil)
	if err != nil || opts.party != defaultParty || opts.encounter != "cellar" || opts.seedSet {
		t.Errorf("defaults = %+v, %v", opts, err)
	}

	if opts, err := parseArgs([]string{"--version"}); err != nil || opts != nil {
		t.Errorf("--version = %+v, %v", opts, err)
	}

	for _, args := range [][]string{{"--seed"}, {"--seed", "x"}, {"--bogus"}, {"--party"}} {
		if _, err := parseArgs(args); err == nil {
			t.Errorf("parseArgs(%v) should fail", args)
		}
	}
}
