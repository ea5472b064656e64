package dice

import "testing"

func TestRNG_Deterministic(t *testing.T) {
	rng1 := NewRNG(42)
	rng2 := NewRNG(42)

	for i := 0; i < 20; i++ {
		a := rng1.Roll(6)
		b := rng2.Roll(6)
		if a != b {
			t.Fatalf("roll %d: got %d and %d from same seed", i, a, b)
		}
	}
}

func TestRNG_Roll_Range(t *testing.T) {
	rng := NewRNG(99)

	for i := 0; i < 1000; i++ {
		r := rng.Roll(20)
		if r < 1 || r > 20 {
			t.Fatalf("roll out of range [1,20]: got %d", r)
		}
	}
}

func TestRNG_Index_Range(t *testing.T) {
	rng := NewRNG(7)
	seen := map[int]bool{}

	for i := 0; i < 600; i++ {
		idx := rng.Index(6)
		if idx < 0 || idx > 5 {
			t.Fatalf("index out of range [0,5]: got %d", idx)
		}
		seen[idx] = true
	}
	if len(seen) != 6 {
		t.Errorf("expected all 6 faces to come up in 600 rolls, saw %d", len(seen))
	}
}

func TestRNG_OneIn_Rate(t *testing.T) {
	rng := NewRNG(2024)
	hits := 0

	const trials = 12000
	for i := 0; i < trials; i++ {
		if rng.OneIn(6) {
			hits++
		}
	}

	// Expect ~2000 ± a generous margin.
	if hits < 1700 || hits > 2300 {
		t.Errorf("expected ~2000 hits for 1-in-6, got %d", hits)
	}
}

func TestRNG_OneIn_One(t *testing.T) {
	rng := NewRNG(1)

	for i := 0; i < 10; i++ {
		if !rng.OneIn(1) {
			t.Fatal("1-in-1 should always hit")
		}
	}
}

func TestRNG_WeightedSelect_Distribution(t *testing.T) {
	rng := NewRNG(12345)
	weights := []int{70, 20, 10}
	counts := [3]int{}

	const trials = 10000
	for i := 0; i < trials; i++ {
		idx := rng.WeightedSelect(weights)
		if idx < 0 || idx > 2 {
			t.Fatalf("index out of range: %d", idx)
		}
		counts[idx]++
	}

	if counts[0] < 6000 || counts[0] > 8000 {
		t.Errorf("expected ~7000 for weight 70, got %d", counts[0])
	}
	if counts[1] < 1000 || counts[1] > 3000 {
		t.Errorf("expected ~2000 for weight 20, got %d", counts[1])
	}
	if counts[2] < 200 || counts[2] > 1800 {
		t.Errorf("expected ~1000 for weight 10, got %d", counts[2])
	}
}

func TestRNG_Position_Tracks(t *testing.T) {
	rng := NewRNG(42)

	if rng.Position() != 0 {
		t.Fatalf("expected position 0, got %d", rng.Position())
	}

	rng.Roll(6)
	rng.Index(4)
	rng.OneIn(3)
	rng.WeightedSelect([]int{50, 50})
	if rng.Position() != 4 {
		t.Fatalf("expected position 4, got %d", rng.Position())
	}
	if rng.Seed() != 42 {
		t.Errorf("Seed() = %d, want 42", rng.Seed())
	}
}

func TestRNG_Restore_MatchesPosition(t *testing.T) {
	rng := NewRNG(42)
	for i := 0; i < 10; i++ {
		rng.Roll(20)
	}

	var expected [5]int
	for i := range expected {
		expected[i] = rng.Roll(20)
	}

	restored := RestoreRNG(42, 10)
	if restored.Position() != 10 {
		t.Fatalf("expected position 10, got %d", restored.Position())
	}

	for i, want := range expected {
		if got := restored.Roll(20); got != want {
			t.Fatalf("roll %d: expected %d, got %d", i, want, got)
		}
	}
}

func TestNewSeed_Varies(t *testing.T) {
	a, err := NewSeed()
	if err != nil {
		t.Fatalf("NewSeed: %v", err)
	}
	b, err := NewSeed()
	if err != nil {
		t.Fatalf("NewSeed: %v", err)
	}
	if a == b {
		t.Error("two crypto seeds should not collide")
	}
}
