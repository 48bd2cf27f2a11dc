package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/lox/memory/internal/config"
	"github.com/lox/memory/internal/memory"
	"github.com/lox/memory/internal/randutil"
)

// ConfigFlags are shared by commands that read memory.hcl.
type ConfigFlags struct {
	Config string `short:"c" default:"memory.hcl" help:"Path to the HCL config file"`
	Debug  bool   `help:"Enable debug logging"`
}

// load reads .env, the config file and MEMORY_* overrides.
func (f ConfigFlags) load() (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg, err := config.Load(f.Config)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newGame builds a game from cfg. seed overrides the configured seed; with
// neither set the seed comes from the clock. The game is not dealt.
func newGame(cfg *config.Config, seed *int64, logger *log.Logger) (*memory.Game, int64) {
	if seed == nil && cfg.Game.Seed != 0 {
		seed = &cfg.Game.Seed
	}
	if seed != nil {
		logger.Info("Using deterministic seed", "seed", *seed)
	}
	used, rng := randutil.FromOptional(seed)
	if seed == nil {
		logger.Info("Using random seed", "seed", used)
	}

	g := memory.NewGame(
		memory.WithLogger(logger),
		memory.WithRand(rng),
		memory.WithCheatMode(cfg.Game.CheatMode),
		memory.WithPlayerNames(cfg.Game.PlayerOne, cfg.Game.PlayerTwo),
	)
	return g, used
}

// deal loads the save at path, or a shuffled deck when path is empty.
func deal(g *memory.Game, path string) error {
	if path != "" {
		return g.ReadSaveFile(path)
	}
	return g.LoadCards(g.GenerateCards())
}

func stdout(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}

func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}
