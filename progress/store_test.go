package progress

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/nathoo/dicearena/engine"
	"github.com/nathoo/dicearena/types"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "progress.db"), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func finished(outcome types.Outcome, loot engine.Loot, tiers ...int) *engine.Encounter {
	enc := &engine.Encounter{
		ID:      "cellar",
		Name:    "The Cellar",
		Round:   4,
		Outcome: outcome,
		Loot:    loot,
		Heroes: []*types.Combatant{
			{ID: "hero-1", Name: "Ayla", Class: types.ClassTank},
			{ID: "hero-2", Name: "Bram", Class: types.ClassLich},
		},
	}
	for i, tier := range tiers {
		enc.Enemies = append(enc.Enemies, &types.Combatant{ID: string(rune('a' + i)), Tier: tier, Defeated: true})
	}
	return enc
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  ", nil); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestOpenTwiceReusesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.db")
	for i := 0; i < 2; i++ {
		store, err := Open(path, nil)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		if err := store.Close(); err != nil {
			t.Fatalf("close %d: %v", i, err)
		}
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct{ xp, level int }{
		{-5, 1}, {0, 1}, {29, 1}, {30, 2}, {59, 2}, {60, 3}, {95, 4},
	}
	for _, tt := range tests {
		if got := LevelFor(tt.xp); got != tt.level {
			t.Errorf("LevelFor(%d) = %d, want %d", tt.xp, got, tt.level)
		}
	}
}

func TestRecordEncounter_Victory(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	enc := finished(types.OutcomeVictory, engine.Loot{Gold: 7, Sigils: []string{"iron"}}, 1, 1, 2)
	sum, err := store.RecordEncounter(ctx, enc)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if sum.XP != 40 || sum.Gold != 7 {
		t.Errorf("summary = %+v, want xp 40 gold 7", sum)
	}
	if len(sum.Lines) != 2 {
		t.Errorf("level-up lines = %v, want 2", sum.Lines)
	}

	ayla, err := store.Hero(ctx, "Ayla")
	if err != nil {
		t.Fatalf("get Ayla: %v", err)
	}
	if ayla.XP != 40 || ayla.Level != 2 || ayla.Gold != 4 || ayla.Class != types.ClassTank {
		t.Errorf("Ayla = %+v, want xp 40 level 2 gold 4", ayla)
	}
	bram, err := store.Hero(ctx, "Bram")
	if err != nil {
		t.Fatalf("get Bram: %v", err)
	}
	if bram.Gold != 3 {
		t.Errorf("Bram gold = %d, want 3", bram.Gold)
	}

	sigils, err := store.Sigils(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if sigils["iron"] != 1 {
		t.Errorf("sigils = %v", sigils)
	}
}

func TestRecordEncounter_Accumulates(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		enc := finished(types.OutcomeVictory, engine.Loot{Gold: 2, Sigils: []string{"iron"}}, 2)
		if _, err := store.RecordEncounter(ctx, enc); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	ayla, err := store.Hero(ctx, "Ayla")
	if err != nil {
		t.Fatal(err)
	}
	if ayla.XP != 40 || ayla.Level != 2 || ayla.Gold != 2 {
		t.Errorf("Ayla = %+v", ayla)
	}
	level, err := store.Level(ctx, "Ayla")
	if err != nil || level != 2 {
		t.Errorf("Level = %d, %v", level, err)
	}
	sigils, _ := store.Sigils(ctx)
	if sigils["iron"] != 2 {
		t.Errorf("iron count = %d, want 2", sigils["iron"])
	}
}

func TestRecordEncounter_DefeatGrantsNothing(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	enc := finished(types.OutcomeDefeat, engine.Loot{Gold: 9}, 3)
	sum, err := store.RecordEncounter(ctx, enc)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if sum.XP != 0 || sum.Gold != 0 || len(sum.Lines) != 0 {
		t.Errorf("summary = %+v, want nothing", sum)
	}
	ayla, err := store.Hero(ctx, "Ayla")
	if err != nil {
		t.Fatal(err)
	}
	if ayla.Level != 1 || ayla.XP != 0 {
		t.Errorf("Ayla = %+v", ayla)
	}

	history, err := store.History(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 || history[0].Outcome != "defeat" || history[0].Rounds != 4 {
		t.Errorf("history = %+v", history)
	}
}

func TestRecordEncounter_RejectsOngoing(t *testing.T) {
	store := openTempStore(t)
	if _, err := store.RecordEncounter(context.Background(), finished(types.OutcomeOngoing, engine.Loot{})); err == nil {
		t.Fatal("expected error for an unfinished encounter")
	}
}

func TestHistory_NewestFirst(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	store.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Minute)
	}

	first := finished(types.OutcomeDefeat, engine.Loot{}, 1)
	second := finished(types.OutcomeVictory, engine.Loot{}, 1)
	second.ID, second.Name = "crypt", "The Crypt"
	for _, enc := range []*engine.Encounter{first, second} {
		if _, err := store.RecordEncounter(ctx, enc); err != nil {
			t.Fatal(err)
		}
	}

	history, err := store.History(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 || history[0].EncounterID != "crypt" || history[1].EncounterID != "cellar" {
		t.Fatalf("history = %+v", history)
	}
	if !history[0].PlayedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("played_at = %v", history[0].PlayedAt)
	}
}

func TestHero_NotFound(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	if _, err := store.Hero(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	level, err := store.Level(ctx, "nobody")
	if err != nil || level != StartLevel {
		t.Errorf("Level = %d, %v", level, err)
	}
	heroes, err := store.Heroes(ctx)
	if err != nil || len(heroes) != 0 {
		t.Errorf("Heroes = %v, %v", heroes, err)
	}
}
