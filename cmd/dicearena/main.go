// Dice Arena is a turn-based dice combat game driven by Lua content.
// Usage: dicearena [--version] [--plain] [--trace] [--script <file>] [--seed <n>]
//
//	[--content <dir>] [--party <Name:class,...>] [--encounter <id>] [--config <file>]
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/nathoo/dicearena/cli"
	"github.com/nathoo/dicearena/config"
	"github.com/nathoo/dicearena/engine"
	"github.com/nathoo/dicearena/engine/dice"
	"github.com/nathoo/dicearena/engine/state"
	"github.com/nathoo/dicearena/loader"
	"github.com/nathoo/dicearena/logging"
	"github.com/nathoo/dicearena/progress"
	"github.com/nathoo/dicearena/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: dicearena [--version] [--plain] [--trace] [--script <file>] [--seed <n>] " +
	"[--content <dir>] [--party <Name:class,...>] [--encounter <id>] [--config <file>]\n"

type options struct {
	plain      bool
	trace      bool
	script     string
	seed       int64
	seedSet    bool
	content    string
	party      string
	encounter  string
	configPath string
}

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n%s", err, usage)
		os.Exit(1)
	}
	if opts == nil {
		fmt.Printf("dicearena %s (commit %s, built %s)\n", version, commit, date)
		return
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseArgs returns nil options for --version.
func parseArgs(args []string) (*options, error) {
	opts := &options{party: defaultParty, encounter: "cellar"}
	value := func(i *int, flag string) (string, error) {
		if *i+1 >= len(args) {
			return "", fmt.Errorf("%s requires a value", flag)
		}
		*i++
		return args[*i], nil
	}

	for i := 0; i < len(args); i++ {
		var err error
		switch args[i] {
		case "--version":
			return nil, nil
		case "--plain":
			opts.plain = true
		case "--trace":
			opts.trace = true
		case "--script":
			opts.script, err = value(&i, "--script")
		case "--seed":
			var s string
			if s, err = value(&i, "--seed"); err == nil {
				opts.seed, err = strconv.ParseInt(s, 10, 64)
				opts.seedSet = err == nil
			}
		case "--content":
			opts.content, err = value(&i, "--content")
		case "--party":
			opts.party, err = value(&i, "--party")
		case "--encounter":
			opts.encounter, err = value(&i, "--encounter")
		case "--config":
			opts.configPath, err = value(&i, "--config")
		default:
			err = fmt.Errorf("unknown argument %q", args[i])
		}
		if err != nil {
			return nil, err
		}
	}
	return opts, nil
}

func run(opts *options) error {
	ctx := context.Background()

	path := opts.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	settings := config.NewStore(path)
	cfg, err := settings.Load()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	if opts.seedSet {
		cfg.Seed = opts.seed
	}
	if opts.content != "" {
		cfg.ContentDir = opts.content
	}

	// The full-screen UI owns the terminal, so its logs go to a file.
	useTUI := opts.script == "" && !opts.plain && isTerminal()
	if useTUI && cfg.LogFile == "" {
		if err := os.MkdirAll(cfg.SaveDir, 0o755); err != nil {
			return fmt.Errorf("creating save dir: %w", err)
		}
		cfg.LogFile = filepath.Join(cfg.SaveDir, "dicearena.log")
	}

	logger, err := logging.New(cfg)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	defs := state.DefaultDefs()
	if cfg.ContentDir != "" {
		if defs, err = loader.Load(cfg.ContentDir, logger); err != nil {
			return fmt.Errorf("loading content: %w", err)
		}
	}

	store, err := progress.Open(cfg.ProgressDB, logger)
	if err != nil {
		return fmt.Errorf("opening progress: %w", err)
	}
	defer store.Close()

	seed := cfg.Seed
	if seed == 0 {
		if seed, err = dice.NewSeed(); err != nil {
			return err
		}
	}
	logger.Info("starting",
		zap.String("version", version),
		zap.Int64("seed", seed),
		zap.String("encounter", opts.encounter),
		zap.String("settings", settings.Path()))

	party, err := parseParty(ctx, defs, opts.party, store)
	if err != nil {
		return err
	}
	r := engine.New(defs, dice.NewRNG(seed), logger)
	enc, err := engine.Build(r, opts.encounter, party)
	if err != nil {
		return err
	}

	if useTUI {
		return tui.Run(enc, defs, tui.Options{
			SaveDir:   cfg.SaveDir,
			RollDelay: cfg.RollDelay,
			Settings:  settings,
			Progress:  store,
			Log:       logger,
		})
	}

	c := cli.New(enc, defs, cfg.SaveDir)
	c.Trace = opts.trace
	c.Settings = settings
	c.Progress = store
	c.Log = logger

	// Script mode: read commands from a file and echo them.
	if opts.script != "" {
		f, err := os.Open(opts.script)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		c.In = f
		c.EchoInput = true
	} else {
		c.RollDelay = cfg.RollDelay
	}
	c.Run()
	return nil
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
