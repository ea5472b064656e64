package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nathoo/dicearena/config"
	"github.com/nathoo/dicearena/engine"
	"github.com/nathoo/dicearena/engine/parser"
	"github.com/nathoo/dicearena/engine/save"
	"github.com/nathoo/dicearena/engine/state"
	"github.com/nathoo/dicearena/progress"
	"github.com/nathoo/dicearena/types"
)

// Recorder stores a finished encounter.
type Recorder interface {
	RecordEncounter(ctx context.Context, enc *engine.Encounter) (progress.Summary, error)
}

// Options configures a Model beyond its encounter.
type Options struct {
	SaveDir   string
	RollDelay time.Duration // 0 resolves rolls immediately
	Settings  *config.Store // persists /debug; may be nil
	Progress  Recorder      // may be nil
	Log       *zap.Logger
}

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed player input
	isSystem bool // true for system messages
}

// Model is the Bubble Tea model for the Dice Arena TUI.
type Model struct {
	enc  *engine.Encounter
	defs *state.Defs
	opts Options

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	history  *History

	// The rolled face resolves when the animation's token fires; arming
	// a new token or loading a save cancels it.
	deferred  *engine.Deferred
	rollToken uint64

	rawLines []rawLine // accumulated battle lines (unstyled, for re-wrapping)

	width    int
	height   int
	ready    bool
	trace    bool
	quitting bool
	recorded bool
	lastCmd  string
}

// gameOutputMsg carries output from the engine into the Update loop.
type gameOutputMsg struct {
	input    string   // echoed player input (empty for intro)
	lines    []string // output lines
	isSystem bool     // true for meta-command output
}

// rollDoneMsg ends a roll animation.
type rollDoneMsg struct {
	token uint64
}

// New creates a TUI model wired to the given encounter.
func New(enc *engine.Encounter, defs *state.Defs, opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	return Model{
		enc:      enc,
		defs:     defs,
		opts:     opts,
		input:    ti,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styleOffer)),
		history:  NewHistory(100),
		deferred: &engine.Deferred{},
	}
}

// Run starts the Bubble Tea program.
func Run(enc *engine.Encounter, defs *state.Defs, opts Options) error {
	m := New(enc, defs, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init starts the encounter and emits the opening lines.
func (m Model) Init() tea.Cmd {
	lines := []string{
		fmt.Sprintf("%s v%s by %s", m.defs.Game.Title, m.defs.Game.Version, m.defs.Game.Author),
		"",
	}
	if m.enc.Round == 0 {
		lines = append(lines, m.enc.Start().Log...)
	} else {
		lines = append(lines, m.enc.Step("status").Log...)
	}
	return tea.Batch(textinput.Blink, func() tea.Msg {
		return gameOutputMsg{lines: lines}
	})
}

// Update handles messages (key presses, window resize, game output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 4 // 2 roster lines + 1 status bar + 1 input line
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			m.deferred.Cancel()
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.ResetCursor()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case spinner.TickMsg:
		if !m.isRolling() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case rollDoneMsg:
		return m.finishRoll(msg.token), nil

	case gameOutputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	m.history.Push(input)
	m.history.ResetCursor()

	// Handle "again" / "g".
	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastCmd == "" {
			m = m.appendOutput(gameOutputMsg{
				input: input, lines: []string{"Nothing to repeat."}, isSystem: true,
			})
			return m, nil
		}
		input = m.lastCmd
	} else if !strings.HasPrefix(input, "/") {
		m.lastCmd = input
	}

	// Meta-commands.
	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(gameOutputMsg{input: input, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	if m.isRolling() {
		m = m.appendOutput(gameOutputMsg{input: input, lines: []string{"The die is still rolling."}, isSystem: true})
		return m, nil
	}

	// A roll holds its face until the animation ends.
	if m.opts.RollDelay > 0 && parser.Parse(input).Verb == parser.VerbRoll {
		if face, ok := m.enc.RollFace(); ok {
			m.enc.Commands = append(m.enc.Commands, input)
			m.rollToken = m.deferred.Arm()
			token := m.rollToken
			m.opts.Log.Debug("roll armed", zap.Uint64("token", token), zap.String("face", engine.FaceName(face)))
			m = m.appendOutput(gameOutputMsg{input: input, lines: []string{"The die tumbles..."}})
			return m, tea.Batch(m.spinner.Tick, tea.Tick(m.opts.RollDelay, func(time.Time) tea.Msg {
				return rollDoneMsg{token: token}
			}))
		}
	}

	// Battle command.
	result := m.enc.Step(input)
	lines := m.decorate(result)
	m = m.appendOutput(gameOutputMsg{input: input, lines: lines})
	return m, nil
}

// isRolling reports whether a held roll is still waiting for its token.
func (m Model) isRolling() bool {
	return m.deferred.Pending(m.rollToken)
}

// finishRoll resolves the held face if token is still the live one.
func (m Model) finishRoll(token uint64) Model {
	var result types.Result
	fired := m.deferred.Fire(token, func() {
		result = m.enc.Resolve()
	})
	if !fired {
		m.opts.Log.Debug("stale roll dropped", zap.Uint64("token", token))
		return m
	}
	lines := m.decorate(result)
	return m.appendOutput(gameOutputMsg{lines: lines})
}

// decorate adds trace lines, the upgrade prompt and the encounter
// summary to a result's log.
func (m *Model) decorate(result types.Result) []string {
	output := append([]string(nil), result.Log...)
	if m.trace {
		output = append(output, m.formatTrace(result)...)
	}
	if p := m.enc.Pending; p != nil {
		output = append(output, fmt.Sprintf("[Slot %d: keep %s or take %s?]",
			p.Slot, engine.FaceName(p.Old), engine.FaceName(p.Candidate)))
	}
	return append(output, m.recordOutcome()...)
}

// recordOutcome stores a finished encounter once.
func (m *Model) recordOutcome() []string {
	if m.enc.Outcome == types.OutcomeOngoing || m.recorded {
		return nil
	}
	m.recorded = true
	var lines []string
	if loot := m.enc.Loot; m.enc.Outcome == types.OutcomeVictory && (loot.Gold > 0 || len(loot.Sigils) > 0) {
		lines = append(lines, fmt.Sprintf("[Loot: %d gold, sigils %v]", loot.Gold, loot.Sigils))
	}
	if m.opts.Progress == nil {
		return lines
	}
	sum, err := m.opts.Progress.RecordEncounter(context.Background(), m.enc)
	if err != nil {
		m.opts.Log.Error("recording encounter", zap.Error(err))
		return append(lines, fmt.Sprintf("[Progress not saved: %v]", err))
	}
	if sum.XP > 0 {
		lines = append(lines, fmt.Sprintf("[Each hero gains %d XP.]", sum.XP))
	}
	return append(lines, sum.Lines...)
}

// appendOutput adds lines to the battle log and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{
			text: "> " + msg.input, isInput: true,
		})
	}

	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem}
		if !msg.isSystem {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}

	// Blank line separator between turns.
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()

	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordWrap(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries. Leading indentation is kept on the first line.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	indent := text[:len(text)-len(strings.TrimLeft(text, " "))]
	var result strings.Builder
	result.WriteString(indent)
	lineLen := len(indent)

	for i, word := range strings.Fields(text) {
		if i > 0 && lineLen+1+len(word) > width {
			result.WriteString("\n")
			lineLen = 0
		} else if i > 0 {
			result.WriteString(" ")
			lineLen++
		}
		result.WriteString(word)
		lineLen += len(word)
	}

	return result.String()
}

// View renders the full TUI layout: viewport, roster, status bar, input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	prompt := m.input.View()
	if m.isRolling() {
		prompt = m.spinner.View() + " rolling..."
	}
	return m.viewport.View() + "\n" + m.renderRoster() + "\n" + m.renderStatusBar() + "\n" + prompt
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		m.deferred.Cancel()
		return []string{"Goodbye."}, true

	case "/save":
		return m.cmdSave(arg), false

	case "/load":
		return m.cmdLoad(arg), false

	case "/help":
		return m.cmdHelp(), false

	case "/state":
		return m.cmdState(), false

	case "/traits":
		return m.enc.TraitLines(), false

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	case "/debug":
		return m.cmdDebug(), false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdSave(name string) []string {
	if name == "" {
		name = "quicksave"
	}
	if m.isRolling() {
		return []string{"Save failed: the die is still rolling."}
	}

	data, err := save.Save(m.enc, m.defs)
	if err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	if err := os.MkdirAll(m.opts.SaveDir, 0o755); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	path := filepath.Join(m.opts.SaveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	return []string{fmt.Sprintf("Game saved to %s.", name)}
}

func (m *Model) cmdLoad(name string) []string {
	if name == "" {
		name = "quicksave"
	}

	path := filepath.Join(m.opts.SaveDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}

	sd, err := save.Load(data)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}

	// An in-flight roll belongs to the replaced encounter.
	m.deferred.Cancel()

	m.enc = save.Apply(m.enc.Resolver(), sd)
	m.recorded = m.enc.Outcome != types.OutcomeOngoing

	output := []string{fmt.Sprintf("Game loaded from %s (round %d).", name, m.enc.Round)}
	return append(output, m.enc.Step("status").Log...)
}

func (m *Model) cmdDebug() []string {
	if m.opts.Settings == nil {
		return []string{"No settings file; debug toggle unavailable."}
	}
	var on bool
	err := m.opts.Settings.Update(func(cfg *config.Config) {
		cfg.Debug = !cfg.Debug
		on = cfg.Debug
	})
	if err != nil {
		return []string{fmt.Sprintf("Debug toggle failed: %v", err)}
	}
	if on {
		return []string{"Debug logging enabled (from next start)."}
	}
	return []string{"Debug logging disabled (from next start)."}
}

func (m *Model) cmdHelp() []string {
	return []string{
		"System:",
		"  /save [name]  Save battle (default: quicksave)",
		"  /load [name]  Load battle (default: quicksave)",
		"  /quit         Exit game",
		"  /help         Show this help",
		"  /state        Debug: dump encounter state",
		"  /traits       Describe enemy traits",
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
		"",
		"Navigation: PgUp/PgDn to scroll, Up/Down for command history",
	}
}

func (m *Model) cmdState() []string {
	e := m.enc
	r := e.Resolver()
	output := []string{
		fmt.Sprintf("Encounter: %s (%s)", e.Name, e.ID),
		fmt.Sprintf("Round: %d  Cursor: %d  Outcome: %d", e.Round, e.Cursor, e.Outcome),
		fmt.Sprintf("RNG: seed %d position %d", r.RNG.Seed(), r.RNG.Position()),
	}
	if e.Pending != nil {
		output = append(output, fmt.Sprintf("Pending: %s slot %d gen %d", e.Pending.HeroID, e.Pending.Slot, e.Pending.Generation))
	}
	if m.isRolling() {
		output = append(output, fmt.Sprintf("Rolling: token %d", m.rollToken))
	}
	return output
}

func (m *Model) formatTrace(result types.Result) []string {
	if len(result.Events) == 0 {
		return nil
	}
	lines := []string{fmt.Sprintf("[trace] Events: %d", len(result.Events))}
	for _, e := range result.Events {
		line := fmt.Sprintf("[trace]   %s %s -> %s", e.Type, e.Source, e.Target)
		if e.Amount != 0 {
			line += fmt.Sprintf(" %d", e.Amount)
		}
		if e.Status != "" {
			line += " " + string(e.Status)
		}
		lines = append(lines, line)
	}
	return lines
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
