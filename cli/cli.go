// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for a Dice Arena encounter.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nathoo/dicearena/config"
	"github.com/nathoo/dicearena/engine"
	"github.com/nathoo/dicearena/engine/parser"
	"github.com/nathoo/dicearena/engine/save"
	"github.com/nathoo/dicearena/engine/state"
	"github.com/nathoo/dicearena/progress"
	"github.com/nathoo/dicearena/types"
)

// Progress records finished encounters and reports stored progression.
type Progress interface {
	RecordEncounter(ctx context.Context, enc *engine.Encounter) (progress.Summary, error)
	Heroes(ctx context.Context) ([]progress.Hero, error)
	Sigils(ctx context.Context) (map[string]int, error)
}

// CLI handles terminal interaction with the player.
type CLI struct {
	Encounter *engine.Encounter
	Defs      *state.Defs
	In        io.Reader
	Out       io.Writer
	SaveDir   string
	Trace     bool
	EchoInput bool // echo each input line after the prompt (for script playback)

	Settings *config.Store // persists /debug; may be nil
	Progress Progress      // may be nil
	Log      *zap.Logger

	// RollDelay holds a rolled face before it resolves; zero resolves at once.
	RollDelay time.Duration

	lastCmd  string // for "again"/"g" repeat
	recorded bool
	deferred engine.Deferred
}

// New creates a CLI wired to the given encounter.
func New(enc *engine.Encounter, defs *state.Defs, saveDir string) *CLI {
	return &CLI{
		Encounter: enc,
		Defs:      defs,
		In:        os.Stdin,
		Out:       os.Stdout,
		SaveDir:   saveDir,
		Log:       zap.NewNop(),
	}
}

// Title renders a display name in title case.
func Title(s string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(s, "_", " "))
}

// Run starts the battle loop: it starts the encounter if needed, then
// loops prompt, input, dispatch, output.
func (c *CLI) Run() {
	if c.Log == nil {
		c.Log = zap.NewNop()
	}
	c.printLine(fmt.Sprintf("%s v%s", Title(c.Defs.Game.Title), c.Defs.Game.Version))
	c.printLine("")

	if c.Encounter.Round == 0 {
		c.printResult(c.Encounter.Start())
	} else {
		c.printResult(c.Encounter.Step("status"))
	}
	c.afterStep()

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		// "again" / "g" repeats the last battle command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		result := c.step(input)
		c.printResult(result)
		if c.Trace {
			c.printTrace(result)
		}
		c.afterStep()
	}
}

// step runs one battle command. With a RollDelay, a roll shows its face
// first and resolves when the scheduled application fires.
func (c *CLI) step(input string) types.Result {
	if c.RollDelay <= 0 || parser.Parse(input).Verb != parser.VerbRoll {
		return c.Encounter.Step(input)
	}
	face, ok := c.Encounter.RollFace()
	if !ok {
		return c.Encounter.Step(input)
	}
	c.Encounter.Commands = append(c.Encounter.Commands, input)
	c.printLine(fmt.Sprintf("The die tumbles... %s.", engine.FaceName(face)))

	done := make(chan types.Result, 1)
	token := c.deferred.Schedule(context.Background(), c.RollDelay, func() {
		done <- c.Encounter.Resolve()
	})
	c.Log.Debug("roll scheduled", zap.Uint64("token", token), zap.Duration("delay", c.RollDelay))
	return <-done
}

// afterStep announces the upgrade prompt and records a finished
// encounter once.
func (c *CLI) afterStep() {
	enc := c.Encounter
	if p := enc.Pending; p != nil {
		c.printSystem(fmt.Sprintf("Slot %d: keep %s or take %s?",
			p.Slot, engine.FaceName(p.Old), engine.FaceName(p.Candidate)))
	}
	if enc.Outcome == types.OutcomeOngoing || c.recorded {
		return
	}
	c.recorded = true
	if enc.Outcome == types.OutcomeVictory && (enc.Loot.Gold > 0 || len(enc.Loot.Sigils) > 0) {
		c.printSystem(fmt.Sprintf("Loot: %d gold, sigils %v", enc.Loot.Gold, enc.Loot.Sigils))
	}
	if c.Progress == nil {
		return
	}
	sum, err := c.Progress.RecordEncounter(context.Background(), enc)
	if err != nil {
		c.Log.Error("recording encounter", zap.Error(err))
		c.printSystem(fmt.Sprintf("Progress not saved: %v", err))
		return
	}
	if sum.XP > 0 {
		c.printSystem(fmt.Sprintf("Each hero gains %d XP.", sum.XP))
	}
	for _, line := range sum.Lines {
		c.printLine(line)
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/save":
		c.cmdSave(arg)

	case "/load":
		c.cmdLoad(arg)

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/traits":
		for _, line := range c.Encounter.TraitLines() {
			c.printLine(line)
		}

	case "/progress":
		c.cmdProgress()

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	case "/debug":
		c.cmdDebug()

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdSave(name string) {
	if name == "" {
		name = "quicksave"
	}

	data, err := save.Save(c.Encounter, c.Defs)
	if err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	if err := os.MkdirAll(c.SaveDir, 0o755); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	path := filepath.Join(c.SaveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	c.Log.Info("saved", zap.String("path", path))
	c.printSystem(fmt.Sprintf("Game saved to %s.", name))
}

func (c *CLI) cmdLoad(name string) {
	if name == "" {
		name = "quicksave"
	}

	path := filepath.Join(c.SaveDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	sd, err := save.Load(data)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	c.Encounter = save.Apply(c.Encounter.Resolver(), sd)
	c.recorded = c.Encounter.Outcome != types.OutcomeOngoing
	c.printSystem(fmt.Sprintf("Game loaded from %s (round %d).", name, c.Encounter.Round))

	c.printResult(c.Encounter.Step("status"))
	c.afterStep()
}

func (c *CLI) cmdDebug() {
	if c.Settings == nil {
		c.printSystem("No settings file; debug toggle unavailable.")
		return
	}
	var on bool
	err := c.Settings.Update(func(cfg *config.Config) {
		cfg.Debug = !cfg.Debug
		on = cfg.Debug
	})
	if err != nil {
		c.printSystem(fmt.Sprintf("Debug toggle failed: %v", err))
		return
	}
	if on {
		c.printSystem("Debug logging enabled (from next start).")
	} else {
		c.printSystem("Debug logging disabled (from next start).")
	}
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /save [name]  Save battle (default: quicksave)",
		"  /load [name]  Load battle (default: quicksave)",
		"  /quit         Exit game",
		"  /help         Show this help",
		"  /state        Debug: dump encounter state",
		"  /traits       Describe enemy traits",
		"  /progress     Show stored heroes and sigils",
		"  /trace        Toggle event trace output",
		"  /debug        Toggle debug logging (saved to settings)",
		"",
		"Battle commands:",
		"  roll (r)              Roll and resolve your die",
		"  keep (k) / take (t)   Answer an upgrade offer",
		"  target <enemy>        Choose who your attacks hit",
		"  heal <ally>           Choose who your support helps",
		"  wait (z)              Pass your turn",
		"  status (s)            Show both sides",
		"  die                   Show your die faces",
		"  again (g)             Repeat your last command",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	e := c.Encounter
	r := e.Resolver()
	c.printSystem(fmt.Sprintf("Encounter: %s (%s)", e.Name, e.ID))
	c.printSystem(fmt.Sprintf("Round: %d  Cursor: %d  Outcome: %d", e.Round, e.Cursor, e.Outcome))
	order := make([]string, len(e.Order))
	for i, tok := range e.Order {
		order[i] = fmt.Sprintf("%s:%d", tok.ID, tok.Roll)
	}
	c.printSystem(fmt.Sprintf("Order: %s", strings.Join(order, " ")))
	c.printSystem(fmt.Sprintf("RNG: seed %d position %d", r.RNG.Seed(), r.RNG.Position()))
	if e.Pending != nil {
		c.printSystem(fmt.Sprintf("Pending: %s slot %d gen %d", e.Pending.HeroID, e.Pending.Slot, e.Pending.Generation))
	}
	if e.Target != "" || e.Ally != "" {
		c.printSystem(fmt.Sprintf("Target: %q  Ally: %q", e.Target, e.Ally))
	}
}

func (c *CLI) cmdProgress() {
	if c.Progress == nil {
		c.printSystem("Progress tracking is off.")
		return
	}
	ctx := context.Background()
	heroes, err := c.Progress.Heroes(ctx)
	if err != nil {
		c.printSystem(fmt.Sprintf("Progress failed: %v", err))
		return
	}
	if len(heroes) == 0 {
		c.printSystem("No heroes recorded yet.")
	}
	for _, h := range heroes {
		c.printLine(fmt.Sprintf("%s the %s: level %d, %d XP, %d gold", h.Name, Title(string(h.Class)), h.Level, h.XP, h.Gold))
	}
	sigils, err := c.Progress.Sigils(ctx)
	if err != nil {
		c.printSystem(fmt.Sprintf("Progress failed: %v", err))
		return
	}
	names := make([]string, 0, len(sigils))
	for name := range sigils {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c.printLine(fmt.Sprintf("%s sigil x%d", Title(name), sigils[name]))
	}
}

func (c *CLI) printTrace(result types.Result) {
	if len(result.Events) == 0 {
		return
	}
	c.printSystem(fmt.Sprintf("[trace] Events: %d", len(result.Events)))
	for _, e := range result.Events {
		line := fmt.Sprintf("[trace]   %s %s -> %s", e.Type, e.Source, e.Target)
		if e.Amount != 0 {
			line += fmt.Sprintf(" %d", e.Amount)
		}
		if e.Status != "" {
			line += " " + string(e.Status)
		}
		c.printSystem(line)
	}
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Log {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
