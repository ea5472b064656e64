package effects

import (
	"testing"

	"github.com/nathoo/dicearena/engine/state"
	"github.com/nathoo/dicearena/types"
)

func newCombatant(id string, hp, armor int) *types.Combatant {
	return &types.Combatant{
		ID:       id,
		Name:     id,
		HP:       hp,
		MaxHP:    hp,
		Armor:    armor,
		Statuses: map[types.StatusKind]types.Status{},
	}
}

func TestApplyDamage_ArmorMitigation(t *testing.T) {
	for amount := 0; amount <= 8; amount++ {
		for armor := 0; armor <= 5; armor++ {
			target := newCombatant("t", 6, armor)
			dealt, _ := ApplyDamage(nil, target, amount, Options{})

			want := amount - armor
			if want < 0 {
				want = 0
			}
			if dealt != want {
				t.Errorf("amount=%d armor=%d: dealt %d, want %d", amount, armor, dealt, want)
			}
			wantHP := 6 - want
			if wantHP < 0 {
				wantHP = 0
			}
			if target.HP != wantHP {
				t.Errorf("amount=%d armor=%d: hp %d, want %d", amount, armor, target.HP, wantHP)
			}
		}
	}
}

func TestApplyDamage_IgnoreArmor(t *testing.T) {
	for armor := 0; armor <= 10; armor++ {
		target := newCombatant("t", 20, armor)
		dealt, _ := ApplyDamage(nil, target, 5, Options{IgnoreArmor: true})
		if dealt != 5 {
			t.Errorf("armor=%d: magic damage dealt %d, want 5", armor, dealt)
		}
	}
}

func TestApplyDamage_AlreadyDown(t *testing.T) {
	target := newCombatant("t", 5, 0)
	target.HP = 0

	dealt, events := ApplyDamage(nil, target, 4, Options{})
	if dealt != 0 || events != nil {
		t.Errorf("expected no-op on 0 HP target, got dealt=%d events=%v", dealt, events)
	}
}

func TestApplyDamage_Immune(t *testing.T) {
	target := newCombatant("t", 5, 0)
	state.AddStatus(target, types.StatusImmune, 1, 1)

	if dealt, _ := ApplyDamage(nil, target, 4, Options{}); dealt != 0 {
		t.Errorf("immune target took %d damage", dealt)
	}
	if dealt, _ := ApplyDamage(nil, target, 4, Options{IgnoreImmune: true}); dealt != 4 {
		t.Errorf("IgnoreImmune: dealt %d, want 4", dealt)
	}
}

func TestApplyDamage_DefeatSetsFlag(t *testing.T) {
	target := newCombatant("t", 3, 0)
	_, events := ApplyDamage(nil, target, 10, Options{})

	if target.HP != 0 || !target.Defeated {
		t.Fatalf("expected defeated at 0 HP, got hp=%d defeated=%v", target.HP, target.Defeated)
	}
	found := false
	for _, e := range events {
		if e.Type == types.EventDefeated && e.Target == "t" {
			found = true
		}
	}
	if !found {
		t.Error("expected defeated event")
	}
}

func TestApplyDamage_FirstReduceConsumed(t *testing.T) {
	target := newCombatant("t", 10, 0)
	state.AddStatus(target, types.StatusFirstReduce, 2, 1)

	dealt, _ := ApplyDamage(nil, target, 3, Options{})
	if dealt != 1 {
		t.Errorf("first hit: dealt %d, want 1", dealt)
	}
	if state.HasStatus(target, types.StatusFirstReduce) {
		t.Error("shield should be consumed by the first hit")
	}
	dealt, _ = ApplyDamage(nil, target, 3, Options{})
	if dealt != 3 {
		t.Errorf("second hit: dealt %d, want 3", dealt)
	}
}

func TestApplyDamage_OverTimeKeepsShield(t *testing.T) {
	target := newCombatant("t", 10, 3)
	state.AddStatus(target, types.StatusFirstReduce, 2, 1)

	dealt, _ := ApplyDamage(nil, target, 2, Options{IgnoreArmor: true, OverTime: true})
	if dealt != 2 {
		t.Errorf("tick dealt %d, want 2", dealt)
	}
	if !state.HasStatus(target, types.StatusFirstReduce) {
		t.Error("damage over time should not consume the shield")
	}
}

func TestApplyDamage_ArmorShred(t *testing.T) {
	target := newCombatant("t", 10, 3)
	state.AddStatus(target, types.StatusArmorShred, 2, 2)

	if dealt, _ := ApplyDamage(nil, target, 4, Options{}); dealt != 3 {
		t.Errorf("shredded armor: dealt %d, want 3", dealt)
	}
}

func TestApplyDamage_Reflect(t *testing.T) {
	hero := newCombatant("hero", 10, 2)
	boss := newCombatant("boss", 20, 0)
	state.AddStatus(boss, types.StatusReflect1, 1, 0)

	dealt, events := ApplyDamage(hero, boss, 5, Options{})
	if dealt != 5 {
		t.Fatalf("dealt %d, want 5", dealt)
	}
	if hero.HP != 9 {
		t.Errorf("attacker hp %d, want 9 (reflect ignores armor)", hero.HP)
	}
	var reflected bool
	for _, e := range events {
		if e.Type == types.EventReflected && e.Target == "hero" && e.Amount == 1 {
			reflected = true
		}
	}
	if !reflected {
		t.Error("expected reflected event")
	}
}

func TestApplyDamage_ThornsNeedsDamage(t *testing.T) {
	hero := newCombatant("hero", 10, 0)
	tank := newCombatant("tank", 10, 5)
	tank.Thorns = 1

	if dealt, _ := ApplyDamage(hero, tank, 3, Options{}); dealt != 0 {
		t.Fatalf("dealt %d, want 0", dealt)
	}
	if hero.HP != 10 {
		t.Errorf("thorns should not fire on zero damage, attacker hp %d", hero.HP)
	}
}

func TestApplyDamage_ReflectDoesNotBounce(t *testing.T) {
	a := newCombatant("a", 10, 0)
	b := newCombatant("b", 10, 0)
	a.Thorns = 1
	b.Thorns = 1

	ApplyDamage(a, b, 3, Options{})
	if a.HP != 9 {
		t.Errorf("a hp %d, want 9", a.HP)
	}
	if b.HP != 7 {
		t.Errorf("b hp %d, want 7 (no second bounce)", b.HP)
	}
}

func TestHeal_Clamp(t *testing.T) {
	tests := []struct {
		hp, max, amount int
		wantHP, healed  int
	}{
		{5, 10, 3, 8, 3},
		{9, 10, 5, 10, 1},
		{10, 10, 5, 10, 0},
		{1, 10, 0, 1, 0},
		{1, 10, -4, 1, 0},
	}
	for _, tt := range tests {
		c := newCombatant("c", tt.max, 0)
		c.HP = tt.hp
		healed, _ := Heal(c, tt.amount)
		if c.HP != tt.wantHP || healed != tt.healed {
			t.Errorf("Heal(%d/%d, %d) = hp %d healed %d, want hp %d healed %d",
				tt.hp, tt.max, tt.amount, c.HP, healed, tt.wantHP, tt.healed)
		}
		if c.HP < 0 || c.HP > c.MaxHP {
			t.Errorf("hp %d escaped [0,%d]", c.HP, c.MaxHP)
		}
	}
}

func TestHeal_Blocked(t *testing.T) {
	c := newCombatant("c", 10, 0)
	c.HP = 4
	state.AddStatus(c, types.StatusHealBlock, 1, 2)

	if healed, _ := Heal(c, 3); healed != 0 || c.HP != 4 {
		t.Errorf("heal block ignored: healed %d hp %d", healed, c.HP)
	}
}

func TestHeal_Defeated(t *testing.T) {
	c := newCombatant("c", 10, 0)
	c.HP = 0
	c.Defeated = true

	if healed, _ := Heal(c, 3); healed != 0 || c.HP != 0 {
		t.Errorf("defeated combatant healed: %d hp %d", healed, c.HP)
	}
}

func TestGainArmor_NeverNegative(t *testing.T) {
	c := newCombatant("c", 10, 1)
	GainArmor(c, -5)
	if c.Armor != 0 {
		t.Errorf("armor %d, want 0", c.Armor)
	}
	GainArmor(c, 2)
	if c.Armor != 2 {
		t.Errorf("armor %d, want 2", c.Armor)
	}
}

func TestAfflict(t *testing.T) {
	src := newCombatant("src", 10, 0)
	c := newCombatant("c", 10, 0)

	events := Afflict(src, c, types.StatusPoison, 2, 0)
	if state.Stacks(c, types.StatusPoison) != 2 {
		t.Errorf("poison stacks %d, want 2", state.Stacks(c, types.StatusPoison))
	}
	if len(events) != 1 || events[0].Status != types.StatusPoison || events[0].Source != "src" {
		t.Errorf("unexpected events %+v", events)
	}

	c.Defeated = true
	if evs := Afflict(src, c, types.StatusBleed, 1, 0); evs != nil {
		t.Error("defeated combatants should not gain statuses")
	}
}
