// Package save implements JSON serialization and deserialization of an
// encounter in progress.
package save

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nathoo/dicearena/engine"
	"github.com/nathoo/dicearena/engine/state"
	"github.com/nathoo/dicearena/types"
)

// ErrNoEncounter is returned when a save carries no encounter.
var ErrNoEncounter = errors.New("save has no encounter")

// SaveData is the JSON-serializable save format.
type SaveData struct {
	Version     string            `json:"version"`
	Game        string            `json:"game"`
	Encounter   *engine.Encounter `json:"encounter"`
	RNGSeed     int64             `json:"rng_seed"`
	RNGPosition int64             `json:"rng_position"`
}

// Save serializes an encounter and the RNG position it has reached.
func Save(enc *engine.Encounter, defs *state.Defs) ([]byte, error) {
	if enc == nil {
		return nil, ErrNoEncounter
	}
	r := enc.Resolver()
	data := SaveData{
		Version:     defs.Game.Version,
		Game:        defs.Game.Title,
		Encounter:   enc,
		RNGSeed:     r.RNG.Seed(),
		RNGPosition: r.RNG.Position(),
	}
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes JSON bytes into SaveData.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, fmt.Errorf("decode save: %w", err)
	}
	if sd.Encounter == nil {
		return nil, ErrNoEncounter
	}
	// Ensure maps are never nil after load.
	for _, c := range sd.Encounter.Roster() {
		if c == nil {
			return nil, fmt.Errorf("decode save: null combatant")
		}
		if c.Statuses == nil {
			c.Statuses = map[types.StatusKind]types.Status{}
		}
	}
	return &sd, nil
}

// Apply restores the RNG to the saved position and binds the loaded
// encounter to the resolver.
func Apply(r *engine.Resolver, sd *SaveData) *engine.Encounter {
	r.RestoreRNG(sd.RNGSeed, sd.RNGPosition)
	sd.Encounter.Attach(r)
	return sd.Encounter
}
