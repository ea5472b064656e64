package state

import (
	"errors"
	"fmt"

	"github.com/nathoo/dicearena/types"
)

// ErrFinalized is returned when a finalized loadout is edited.
var ErrFinalized = errors.New("loadout is finalized")

// NewLoadout starts a loadout from a class's default spells.
func NewLoadout(defs *Defs, name string, class types.ClassID) (types.Loadout, error) {
	def, ok := defs.Classes[class]
	if !ok {
		return types.Loadout{}, fmt.Errorf("unknown class %q", class)
	}
	return types.Loadout{Name: name, Class: class, Spells: def.Spells}, nil
}

// SetSlot places a spell in slot 1..4. SpellNone blanks the slot.
func SetSlot(defs *Defs, lo *types.Loadout, slot int, spell types.SpellID) error {
	if lo.Finalized {
		return ErrFinalized
	}
	if slot < 1 || slot > types.SpellSlots {
		return fmt.Errorf("slot %d out of range 1..%d", slot, types.SpellSlots)
	}
	if spell != types.SpellNone {
		if _, ok := defs.Spells[spell]; !ok {
			return fmt.Errorf("unknown spell %q", spell)
		}
	}
	lo.Spells[slot-1] = spell
	return nil
}

// Finalize checks a loadout against content and freezes it. Finalizing
// twice is a no-op.
func Finalize(defs *Defs, lo *types.Loadout) error {
	if lo.Finalized {
		return nil
	}
	if _, ok := defs.Classes[lo.Class]; !ok {
		return fmt.Errorf("unknown class %q", lo.Class)
	}
	for i, spell := range lo.Spells {
		if spell == types.SpellNone {
			continue
		}
		if _, ok := defs.Spells[spell]; !ok {
			return fmt.Errorf("unknown spell %q in slot %d", spell, i+1)
		}
	}
	lo.Finalized = true
	return nil
}
