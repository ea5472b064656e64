// Package types defines the shared data structures for the Dice Arena engine.
// This package contains only type definitions, no logic.
package types

// Side identifies which team a combatant fights for.
type Side int

const (
	SidePlayer Side = iota
	SideEnemy
)

// ClassID is the closed set of hero classes.
type ClassID string

const (
	ClassTank      ClassID = "tank"
	ClassKing      ClassID = "king"
	ClassThief     ClassID = "thief"
	ClassJudge     ClassID = "judge"
	ClassVampire   ClassID = "vampire"
	ClassLich      ClassID = "lich"
	ClassPaladin   ClassID = "paladin"
	ClassBarbarian ClassID = "barbarian"
)

// SpellID is the closed set of spells a die slot can hold.
type SpellID string

const (
	SpellNone          SpellID = ""
	SpellAttack        SpellID = "attack"
	SpellSweep         SpellID = "sweep"
	SpellFireball      SpellID = "fireball"
	SpellHeal          SpellID = "heal"
	SpellArmor         SpellID = "armor"
	SpellPoison        SpellID = "poison"
	SpellBomb          SpellID = "bomb"
	SpellConcentration SpellID = "concentration"
)

// FaceKind tags what a die face does when rolled.
type FaceKind int

const (
	FaceBlank FaceKind = iota
	FaceClass
	FaceSpell
	FaceUpgrade
)

// Face is one side of a hero's die. Blank faces have Tier 0.
type Face struct {
	Kind  FaceKind `json:"kind"`
	Spell SpellID  `json:"spell,omitempty"`
	Tier  int      `json:"tier,omitempty"`
}

// Die face layout: one class face, four spell slots, one upgrade face.
const (
	DieSides      = 6
	ClassSlot     = 0
	FirstSpellRow = 1
	SpellSlots    = 4
	UpgradeSlot   = 5
)

// Die is the six faces a hero rolls each turn.
type Die [DieSides]Face

// StatusKind is the closed set of status effects.
type StatusKind string

const (
	StatusPoison                 StatusKind = "poison"
	StatusBomb                   StatusKind = "bomb"
	StatusBleed                  StatusKind = "bleed"
	StatusNoReroll               StatusKind = "noReroll"
	StatusFirstReduce            StatusKind = "firstReduce"
	StatusUntargetableUnlessLast StatusKind = "untargetableUnlessLast"
	StatusReflect1               StatusKind = "reflect1"
	StatusArmorShred             StatusKind = "armorShred"
	StatusHealBlock              StatusKind = "healBlock"
	StatusImmune                 StatusKind = "immune"
)

// Status is a stack counter with an optional countdown.
// Duration 0 means the status never expires on its own.
type Status struct {
	Stacks   int `json:"stacks"`
	Duration int `json:"duration,omitempty"`
}

// TraitKind is the closed set of passive traits carried by combatants.
type TraitKind string

const (
	TraitGuardian   TraitKind = "guardian"
	TraitThickHide  TraitKind = "thick_hide"
	TraitRegenerate TraitKind = "regenerate"
	TraitReflect    TraitKind = "reflect"
	TraitThorns     TraitKind = "thorns"
	TraitLifedrain  TraitKind = "lifedrain"
	TraitElusive    TraitKind = "elusive"
	TraitShredder   TraitKind = "shredder"
	TraitVenomous   TraitKind = "venomous"
	TraitBomber     TraitKind = "bomber"
	TraitSerrated   TraitKind = "serrated"
	TraitBlighted   TraitKind = "blighted"
	TraitDread      TraitKind = "dread"
	TraitEnrage     TraitKind = "enrage"
	TraitArmored    TraitKind = "armored"
	TraitWarded     TraitKind = "warded"
	TraitArcane     TraitKind = "arcane"
	TraitBrute      TraitKind = "brute"
	TraitCleave     TraitKind = "cleave"
)

// TargetRule is an enemy's static targeting preference.
type TargetRule string

const (
	TargetLowestHP    TargetRule = "lowest_hp"
	TargetHighestHP   TargetRule = "highest_hp"
	TargetLowestArmor TargetRule = "lowest_armor"
	TargetRandom      TargetRule = "random"
)

// Combatant is a hero or an enemy taking part in an encounter.
type Combatant struct {
	ID       string                `json:"id"`
	Name     string                `json:"name"`
	Side     Side                  `json:"side"`
	HP       int                   `json:"hp"`
	MaxHP    int                   `json:"max_hp"`
	Armor    int                   `json:"armor"`
	Template string                `json:"template,omitempty"`
	Tier     int                   `json:"tier,omitempty"`
	Boss     bool                  `json:"boss,omitempty"`
	Class    ClassID               `json:"class,omitempty"`
	AI       TargetRule            `json:"ai,omitempty"`
	Traits   []TraitKind           `json:"traits,omitempty"`
	Statuses map[StatusKind]Status `json:"statuses,omitempty"`
	Die      Die                   `json:"die"`
	Defeated bool                  `json:"defeated,omitempty"`

	// Turn-scoped state, cleared when the hero's turn ends.
	Invisible bool `json:"invisible,omitempty"`
	Thorns    int  `json:"thorns,omitempty"`

	// Concentration is the pending damage multiplier stack.
	Concentration int `json:"concentration,omitempty"`
}

// Token is one slot in the initiative order.
type Token struct {
	Side  Side   `json:"side"`
	Index int    `json:"index"`
	ID    string `json:"id"`
	Roll  int    `json:"roll"`
}

// Loadout is a hero's class and spell selection before an encounter.
type Loadout struct {
	Name      string
	Class     ClassID
	Spells    [SpellSlots]SpellID
	Finalized bool
}

// EventType names something that happened during resolution.
type EventType string

const (
	EventDamaged   EventType = "damaged"
	EventHealed    EventType = "healed"
	EventDefeated  EventType = "defeated"
	EventReflected EventType = "reflected"
	EventStatus    EventType = "status_applied"
	EventArmor     EventType = "armor_changed"
	EventExploded  EventType = "bomb_exploded"
	EventCured     EventType = "cured"
)

// Event is emitted by resolution steps and consumed by trait dispatch
// and front-ends.
type Event struct {
	Type   EventType  `json:"type"`
	Source string     `json:"source,omitempty"`
	Target string     `json:"target,omitempty"`
	Amount int        `json:"amount,omitempty"`
	Status StatusKind `json:"status,omitempty"`
}

// Result is the output of a single resolution step.
type Result struct {
	Events []Event
	Log    []string
}

// Intent is the parsed representation of a battle command.
type Intent struct {
	Verb   string
	Object string // optional
}

// Outcome is the state of an encounter.
type Outcome int

const (
	OutcomeOngoing Outcome = iota
	OutcomeVictory
	OutcomeDefeat
)

// GameDef holds global rule knobs from content.
type GameDef struct {
	Title      string
	Author     string
	Version    string
	BombDamage int
	BossDamage int
	LevelHP    int // max HP gained per hero level above 1
}

// ClassDef is the base line for a hero class.
type ClassDef struct {
	ID     ClassID
	HP     int
	Armor  int
	Spells [SpellSlots]SpellID // default loadout, blank where empty
}

// SpellDef maps a spell's tier (1..3) to its magnitude.
type SpellDef struct {
	ID    SpellID
	Tiers [3]int
}

// LootEntry is one roll on an enemy's loot table.
type LootEntry struct {
	Gold   int    // gold granted on success
	Sigil  string // sigil granted on success
	Chance int    // percent, 1..100
}

// EnemyDef is the template an enemy instance is created from.
type EnemyDef struct {
	ID     string
	Name   string
	HP     int
	Armor  int
	Tier   int
	Boss   bool
	AI     TargetRule
	Traits []TraitKind
	Loot   []LootEntry
}

// EncounterDef lists the enemies that make up a fight.
type EncounterDef struct {
	ID      string
	Name    string
	Enemies []string
}
