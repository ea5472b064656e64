package engine

import (
	"strings"
	"testing"

	"github.com/nathoo/dicearena/types"
)

func startedCellar(t *testing.T) *Encounter {
	t.Helper()
	r := newResolver(5)
	enc, err := Build(r, "cellar", testParty(r.Defs, types.ClassTank, types.ClassLich))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	enc.Start()
	if !enc.HeroTurn() {
		t.Fatal("expected a hero slot after start")
	}
	return enc
}

func TestStep_Target(t *testing.T) {
	tests := []struct {
		input  string
		target string
		line   string
	}{
		{"target goblin", "goblin", "Targeting Goblin."},
		{"aim at 2", "rat-2", "Targeting Rat 2."},
		{"focus rat 1", "rat-1", "Targeting Rat 1."},
		{"target rat", "", "Which rat? (Rat 1, Rat 2)."},
		{"target dragon", "", `Nobody called "dragon" is standing.`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			enc := startedCellar(t)
			res := enc.Step(tt.input)
			if enc.Target != tt.target {
				t.Errorf("target = %q, want %q", enc.Target, tt.target)
			}
			if !hasLine(res.Log, tt.line) {
				t.Errorf("log %v, want %q", res.Log, tt.line)
			}
		})
	}
}

func TestStep_TargetReportsChoice(t *testing.T) {
	enc := startedCellar(t)
	if res := enc.Step("target"); !hasLine(res.Log, "No one chosen; the default applies.") {
		t.Errorf("log %v", res.Log)
	}
	enc.Step("target goblin")
	if res := enc.Step("target"); !hasLine(res.Log, "Targeting Goblin.") {
		t.Errorf("log %v", res.Log)
	}
}

func TestStep_HealSetsAlly(t *testing.T) {
	enc := startedCellar(t)
	res := enc.Step("heal lich")
	if enc.Ally != "hero-2" {
		t.Errorf("ally = %q, want hero-2", enc.Ally)
	}
	if !hasLine(res.Log, "Supporting Lich.") {
		t.Errorf("log %v", res.Log)
	}
}

func TestStep_Information(t *testing.T) {
	enc := startedCellar(t)
	hero := enc.Current()

	res := enc.Step("status")
	if len(res.Log) == 0 || !strings.HasPrefix(res.Log[0], "The Cellar, round") {
		t.Errorf("status log %v", res.Log)
	}
	if !hasLine(res.Log, "Enemies:") {
		t.Errorf("status log %v, want an enemy section", res.Log)
	}

	res = enc.Step("show faces")
	if len(res.Log) != 7 || res.Log[0] != hero.Name+"'s die:" {
		t.Errorf("die log %v", res.Log)
	}
	if res.Log[1] != "  1. class" || res.Log[6] != "  6. upgrade" {
		t.Errorf("die faces %v", res.Log)
	}
	if enc.Current() != hero {
		t.Error("information commands must not end the turn")
	}
}

func TestStep_RollAndUnknown(t *testing.T) {
	enc := startedCellar(t)
	hero := enc.Current()

	if res := enc.Step(""); !hasLine(res.Log, "What do you want to do?") {
		t.Errorf("empty log %v", res.Log)
	}
	if res := enc.Step("dance"); !hasLine(res.Log, `I don't know how to "dance".`) {
		t.Errorf("unknown log %v", res.Log)
	}

	res := enc.Step("roll dice")
	found := false
	for _, l := range res.Log {
		if strings.HasPrefix(l, hero.Name+" rolls ") {
			found = true
		}
	}
	if !found {
		t.Errorf("roll log %v", res.Log)
	}
	if len(enc.Commands) != 3 {
		t.Errorf("commands = %v, want 3 recorded", enc.Commands)
	}
}

func TestStep_AfterOutcome(t *testing.T) {
	enc := startedCellar(t)
	enc.Outcome = types.OutcomeVictory

	res := enc.Step("roll")
	if !hasLine(res.Log, "The encounter is over. Use /load to restore a save or /quit to exit.") {
		t.Errorf("log %v", res.Log)
	}
	if res := enc.Step("status"); len(res.Log) == 0 {
		t.Error("status should still work after the encounter ends")
	}
}

func TestStatusTags(t *testing.T) {
	c := newEnemy("e", 10, 0)
	c.Statuses[types.StatusPoison] = types.Status{Stacks: 2}
	c.Statuses[types.StatusHealBlock] = types.Status{Stacks: 1, Duration: 2}
	c.Invisible = true
	c.Concentration = 1

	got := StatusTags(c)
	want := []string{"healBlock x1 (2r)", "poison x2", "invisible", "concentration x1"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("StatusTags = %v, want %v", got, want)
	}
}

func TestTraitLines(t *testing.T) {
	r := newResolver(1)
	enc, _ := Build(r, "cellar", testParty(r.Defs, types.ClassTank))
	lines := enc.TraitLines()
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "serrated: ") {
		t.Errorf("TraitLines = %v", lines)
	}
}
