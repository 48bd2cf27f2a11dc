package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/lox/memory/cmd/memory/shared"
	"github.com/lox/memory/internal/scoreboard"
	"github.com/lox/memory/internal/spectate"
	"github.com/lox/memory/internal/tui"
)

// PlayCmd runs the terminal game.
type PlayCmd struct {
	ConfigFlags `embed:""`

	Save     string `short:"l" help:"Resume from a .mem save file"`
	Seed     *int64 `help:"Deterministic shuffle seed (optional)"`
	Spectate string `help:"Serve a spectator feed on this address, e.g. :8080"`
	NoColor  bool   `help:"Disable colors"`
}

func (c *PlayCmd) Run() error {
	cfg, err := c.load()
	if err != nil {
		return err
	}
	tui.ConfigureColor(c.NoColor)

	logFile, err := shared.OpenLogFile(cfg.Log.File)
	if err != nil {
		return err
	}
	defer logFile.Close()

	logger := shared.SetupLogger(cfg.LogLevel(), c.Debug, logFile)
	logger.Info("Starting memory", "version", version)

	game, _ := newGame(cfg, c.Seed, logger)
	if err := deal(game, cfg.SavePath(c.Save)); err != nil {
		return fmt.Errorf("start game: %w", err)
	}

	opts := []tui.Option{
		tui.WithDelays(cfg.RevealDelay(), cfg.HideDelay(), cfg.HighlightDelay()),
		tui.WithSaveDir(cfg.Storage.SaveDir),
	}
	if cfg.Storage.ScoreboardPath != "" {
		store, err := scoreboard.Open(cfg.Storage.ScoreboardPath)
		if err != nil {
			logger.Warn("Scoreboard disabled", "path", cfg.Storage.ScoreboardPath, "error", err)
		} else {
			defer store.Close()
			opts = append(opts, tui.WithRecorder(store))
		}
	}

	model := tui.NewTUIModel(game, logger, opts...)

	sigCtx, stop := shared.SetupSignalHandlerWithLogger(logger)
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	addr := c.Spectate
	if addr == "" {
		addr = cfg.Spectate.Address
	}
	if addr != "" {
		spectateLogger := logger.WithPrefix("spectate")
		hub := spectate.NewHub(spectateLogger)
		feed := spectate.NewFeed(hub, spectateLogger)
		// Attach before the program starts; from then on the program owns the game
		feed.Attach(game)
		server := spectate.NewServer(hub, feed, spectateLogger)

		g.Go(func() error { return hub.Run(ctx) })
		g.Go(func() error { return server.ListenAndServe(ctx, addr) })
	}

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	g.Go(func() error {
		defer cancel()
		if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("run tui: %w", err)
		}
		return nil
	})

	return g.Wait()
}
