// Package progress persists meta-progression between encounters: hero
// experience and levels, gold, sigils and the encounter history.
package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/nathoo/dicearena/engine"
	"github.com/nathoo/dicearena/progress/migrations"
	"github.com/nathoo/dicearena/types"
)

// Progression tuning.
const (
	XPPerTier    = 10
	XPPerLevel   = 30
	StartLevel   = 1
	historyLimit = 100
)

// ErrNotFound is returned when a hero has no stored progress.
var ErrNotFound = errors.New("not found")

// Hero is one hero's stored progression, keyed by name.
type Hero struct {
	Name  string
	Class types.ClassID
	Level int
	XP    int
	Gold  int
}

// Record is one row of the encounter history.
type Record struct {
	EncounterID string
	Name        string
	Outcome     string
	Rounds      int
	XP          int
	Gold        int
	PlayedAt    time.Time
}

// Summary is what RecordEncounter granted.
type Summary struct {
	XP     int
	Gold   int
	Sigils []string
	Lines  []string
}

// Store persists progression in SQLite.
type Store struct {
	db  *sql.DB
	log *zap.Logger
	now func() time.Time
}

// Open opens a SQLite progress store and applies embedded migrations.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db, log: logger.Named("progress"), now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// LevelFor returns the level reached with xp experience.
func LevelFor(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return StartLevel + xp/XPPerLevel
}

// Hero returns one hero's progression.
func (s *Store) Hero(ctx context.Context, name string) (Hero, error) {
	var h Hero
	var class string
	err := s.db.QueryRowContext(ctx,
		`SELECT name, class, level, xp, gold FROM heroes WHERE name = ?`, name,
	).Scan(&h.Name, &class, &h.Level, &h.XP, &h.Gold)
	if errors.Is(err, sql.ErrNoRows) {
		return Hero{}, ErrNotFound
	}
	if err != nil {
		return Hero{}, fmt.Errorf("get hero %s: %w", name, err)
	}
	h.Class = types.ClassID(class)
	return h, nil
}

// Level returns a hero's level, or StartLevel when none is stored.
func (s *Store) Level(ctx context.Context, name string) (int, error) {
	h, err := s.Hero(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return StartLevel, nil
	}
	if err != nil {
		return 0, err
	}
	return h.Level, nil
}

// Heroes lists every stored hero by name.
func (s *Store) Heroes(ctx context.Context) ([]Hero, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, class, level, xp, gold FROM heroes ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list heroes: %w", err)
	}
	defer rows.Close()

	var heroes []Hero
	for rows.Next() {
		var h Hero
		var class string
		if err := rows.Scan(&h.Name, &class, &h.Level, &h.XP, &h.Gold); err != nil {
			return nil, fmt.Errorf("scan hero: %w", err)
		}
		h.Class = types.ClassID(class)
		heroes = append(heroes, h)
	}
	return heroes, rows.Err()
}

// Sigils returns the count of each sigil won.
func (s *Store) Sigils(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, count FROM sigils`)
	if err != nil {
		return nil, fmt.Errorf("list sigils: %w", err)
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("scan sigil: %w", err)
		}
		out[name] = n
	}
	return out, rows.Err()
}

// History returns the most recent encounters, newest first.
func (s *Store) History(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 || limit > historyLimit {
		limit = historyLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT encounter_id, name, outcome, rounds, xp, gold, played_at
		   FROM encounters ORDER BY played_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list encounters: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var played int64
		if err := rows.Scan(&r.EncounterID, &r.Name, &r.Outcome, &r.Rounds, &r.XP, &r.Gold, &played); err != nil {
			return nil, fmt.Errorf("scan encounter: %w", err)
		}
		r.PlayedAt = time.UnixMilli(played).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

// RecordEncounter stores a finished encounter. On victory every hero gains
// XPPerTier experience per enemy tier and an even share of the gold, the
// first hero taking the remainder; sigils are added to the collection.
func (s *Store) RecordEncounter(ctx context.Context, enc *engine.Encounter) (Summary, error) {
	var sum Summary
	if enc.Outcome == types.OutcomeOngoing {
		return sum, fmt.Errorf("encounter %q is not over", enc.Name)
	}
	won := enc.Outcome == types.OutcomeVictory
	if won {
		for _, e := range enc.Enemies {
			sum.XP += XPPerTier * e.Tier
		}
		sum.Gold = enc.Loot.Gold
		sum.Sigils = append(sum.Sigils, enc.Loot.Sigils...)
	}
	now := s.now().UTC().UnixMilli()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return sum, fmt.Errorf("begin record: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, h := range enc.Heroes {
		gold := 0
		if won && len(enc.Heroes) > 0 {
			gold = sum.Gold / len(enc.Heroes)
			if i == 0 {
				gold += sum.Gold % len(enc.Heroes)
			}
		}
		line, err := s.creditHero(ctx, tx, h, sum.XP, gold, now)
		if err != nil {
			return sum, err
		}
		if line != "" {
			sum.Lines = append(sum.Lines, line)
		}
	}

	for _, sigil := range sum.Sigils {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sigils (name, count, first_won_at) VALUES (?, 1, ?)
			 ON CONFLICT(name) DO UPDATE SET count = count + 1`, sigil, now); err != nil {
			return sum, fmt.Errorf("record sigil %s: %w", sigil, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO encounters (encounter_id, name, outcome, rounds, xp, gold, played_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		enc.ID, enc.Name, outcomeName(enc.Outcome), enc.Round, sum.XP, sum.Gold, now); err != nil {
		return sum, fmt.Errorf("record encounter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return sum, fmt.Errorf("commit record: %w", err)
	}
	s.log.Info("encounter recorded",
		zap.String("encounter", enc.Name),
		zap.String("outcome", outcomeName(enc.Outcome)),
		zap.Int("xp", sum.XP),
		zap.Int("gold", sum.Gold))
	return sum, nil
}

// creditHero upserts one hero and returns a level-up line, if any.
func (s *Store) creditHero(ctx context.Context, tx *sql.Tx, h *types.Combatant, xp, gold int, now int64) (string, error) {
	var oldXP int
	err := tx.QueryRowContext(ctx, `SELECT xp FROM heroes WHERE name = ?`, h.Name).Scan(&oldXP)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("get hero %s: %w", h.Name, err)
	}
	newXP := oldXP + xp
	level := LevelFor(newXP)

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO heroes (name, class, level, xp, gold, updated_at) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		   class = excluded.class,
		   level = excluded.level,
		   xp = excluded.xp,
		   gold = heroes.gold + excluded.gold,
		   updated_at = excluded.updated_at`,
		h.Name, string(h.Class), level, newXP, gold, now); err != nil {
		return "", fmt.Errorf("credit hero %s: %w", h.Name, err)
	}
	if level > LevelFor(oldXP) {
		return fmt.Sprintf("%s reaches level %d.", h.Name, level), nil
	}
	return "", nil
}

func outcomeName(o types.Outcome) string {
	switch o {
	case types.OutcomeVictory:
		return "victory"
	case types.OutcomeDefeat:
		return "defeat"
	default:
		return "ongoing"
	}
}
