package status

import (
	"testing"

	"github.com/nathoo/dicearena/engine/dice"
	"github.com/nathoo/dicearena/engine/state"
	"github.com/nathoo/dicearena/types"
)

func newCombatant(id string, hp, armor int) *types.Combatant {
	return &types.Combatant{
		ID: id, Name: id, HP: hp, MaxHP: hp, Armor: armor,
		Statuses: map[types.StatusKind]types.Status{},
	}
}

func TestTick_Bleed(t *testing.T) {
	c := newCombatant("c", 10, 4)
	state.AddStatus(c, types.StatusBleed, 3, 0)

	Tick(c, []*types.Combatant{c}, dice.NewRNG(1), 3)

	if c.HP != 7 {
		t.Errorf("hp %d, want 7", c.HP)
	}
	if got := state.Stacks(c, types.StatusBleed); got != 2 {
		t.Errorf("bleed stacks %d, want 2", got)
	}
}

func TestTick_BleedFadesOut(t *testing.T) {
	c := newCombatant("c", 10, 0)
	state.AddStatus(c, types.StatusBleed, 1, 0)

	Tick(c, []*types.Combatant{c}, dice.NewRNG(1), 3)
	if state.HasStatus(c, types.StatusBleed) {
		t.Error("bleed should be removed at zero stacks")
	}
	if _, ok := c.Statuses[types.StatusBleed]; ok {
		t.Error("expired status left in the map")
	}
}

func TestTick_PoisonIgnoresArmor(t *testing.T) {
	for armor := 0; armor <= 6; armor++ {
		c := newCombatant("c", 20, armor)
		state.AddStatus(c, types.StatusPoison, 2, 0)
		Tick(c, []*types.Combatant{c}, dice.NewRNG(int64(armor)), 3)
		if c.HP != 18 {
			t.Errorf("armor=%d: hp %d, want 18", armor, c.HP)
		}
	}
}

func TestTick_PoisonCureRate(t *testing.T) {
	rng := dice.NewRNG(7)
	const trials = 12000
	cured := 0
	for i := 0; i < trials; i++ {
		c := newCombatant("c", 100, 0)
		state.AddStatus(c, types.StatusPoison, 2, 0)
		Tick(c, []*types.Combatant{c}, rng, 3)
		if state.Stacks(c, types.StatusPoison) == 1 {
			cured++
		}
	}
	// Expect ~2000 (1/6); allow a wide band.
	if cured < 1700 || cured > 2300 {
		t.Errorf("cured %d of %d, expected about %d", cured, trials, trials/6)
	}
}

func TestTick_BombStaysWithoutAllies(t *testing.T) {
	rng := dice.NewRNG(3)
	for i := 0; i < 50; i++ {
		c := newCombatant("c", 100, 5)
		state.AddStatus(c, types.StatusBomb, 1, 0)
		_, passes := Tick(c, []*types.Combatant{c}, rng, 3)
		if len(passes) != 0 {
			t.Fatal("a lone holder cannot pass a bomb")
		}
		exploded := c.HP == 97
		kept := state.Stacks(c, types.StatusBomb) == 1
		if exploded == kept {
			t.Fatalf("bomb must either explode (ignoring armor) or stay: hp=%d stacks=%d",
				c.HP, state.Stacks(c, types.StatusBomb))
		}
	}
}

func TestTick_BombPassesAfterTick(t *testing.T) {
	rng := dice.NewRNG(11)
	passedSeen := false
	for i := 0; i < 100 && !passedSeen; i++ {
		a := newCombatant("a", 100, 0)
		b := newCombatant("b", 100, 0)
		roster := []*types.Combatant{a, b}
		state.AddStatus(a, types.StatusBomb, 1, 0)

		_, passes := Tick(a, roster, rng, 3)
		if len(passes) == 0 {
			continue
		}
		passedSeen = true
		if state.HasStatus(b, types.StatusBomb) {
			t.Fatal("passed stacks must not land before ApplyPasses")
		}
		if state.HasStatus(a, types.StatusBomb) {
			t.Fatal("passed stack should leave the holder")
		}
		ApplyPasses(roster, passes)
		if state.Stacks(b, types.StatusBomb) != 1 {
			t.Errorf("b bomb stacks %d, want 1", state.Stacks(b, types.StatusBomb))
		}
	}
	if !passedSeen {
		t.Fatal("expected at least one pass in 100 ticks")
	}
}

func TestTick_BombExplosionRate(t *testing.T) {
	rng := dice.NewRNG(5)
	const trials = 9000
	exploded := 0
	for i := 0; i < trials; i++ {
		c := newCombatant("c", 100, 0)
		state.AddStatus(c, types.StatusBomb, 1, 0)
		Tick(c, []*types.Combatant{c}, rng, 3)
		if c.HP < 100 {
			exploded++
		}
	}
	if exploded < 2700 || exploded > 3300 {
		t.Errorf("exploded %d of %d, expected about %d", exploded, trials, trials/3)
	}
}

func TestTick_DurationCountdown(t *testing.T) {
	c := newCombatant("c", 10, 0)
	state.AddStatus(c, types.StatusHealBlock, 1, 2)
	state.AddStatus(c, types.StatusImmune, 1, 1)
	state.AddStatus(c, types.StatusReflect1, 1, 0)

	rng := dice.NewRNG(1)
	Tick(c, []*types.Combatant{c}, rng, 3)
	if state.HasStatus(c, types.StatusImmune) {
		t.Error("one-round immunity should expire")
	}
	if got := c.Statuses[types.StatusHealBlock].Duration; got != 1 {
		t.Errorf("heal block duration %d, want 1", got)
	}

	Tick(c, []*types.Combatant{c}, rng, 3)
	if state.HasStatus(c, types.StatusHealBlock) {
		t.Error("heal block should expire after two ticks")
	}
	if !state.HasStatus(c, types.StatusReflect1) {
		t.Error("statuses without a duration never expire")
	}
}

func TestTick_Defeated(t *testing.T) {
	c := newCombatant("c", 10, 0)
	state.AddStatus(c, types.StatusBleed, 3, 0)
	c.HP = 0
	c.Defeated = true

	res, _ := Tick(c, []*types.Combatant{c}, dice.NewRNG(1), 3)
	if len(res.Events) != 0 || state.Stacks(c, types.StatusBleed) != 3 {
		t.Error("defeated combatants do not tick")
	}
}

func TestRoundStart_Guardian(t *testing.T) {
	shaman := newCombatant("shaman", 7, 0)
	shaman.Traits = []types.TraitKind{types.TraitGuardian}
	goblin := newCombatant("goblin", 6, 0)
	fallen := newCombatant("fallen", 6, 0)
	fallen.HP = 0
	fallen.Defeated = true

	RoundStart(shaman, []*types.Combatant{shaman, goblin, fallen})

	for _, c := range []*types.Combatant{shaman, goblin} {
		if state.Stacks(c, types.StatusFirstReduce) != 2 {
			t.Errorf("%s shield %d, want 2", c.ID, state.Stacks(c, types.StatusFirstReduce))
		}
	}
	if state.HasStatus(fallen, types.StatusFirstReduce) {
		t.Error("defeated allies are not shielded")
	}
}

func TestRoundStart_Regenerate(t *testing.T) {
	troll := newCombatant("troll", 16, 1)
	troll.Traits = []types.TraitKind{types.TraitRegenerate, types.TraitThickHide}
	troll.HP = 10

	RoundStart(troll, []*types.Combatant{troll})
	if troll.HP != 11 {
		t.Errorf("hp %d, want 11", troll.HP)
	}
	if state.Stacks(troll, types.StatusFirstReduce) != 1 {
		t.Error("thick hide should grant a 1-point shield")
	}
}
