package main

import (
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/lox/memory/cmd/memory/shared"
	"github.com/lox/memory/internal/spectate"
)

const defaultServeAddr = ":8080"

// ServeCmd runs a headless game that HTTP clients play and watch.
type ServeCmd struct {
	ConfigFlags `embed:""`

	Addr string `short:"a" help:"Address to listen on (default :8080 or spectate.address)"`
	Seed *int64 `help:"Deterministic shuffle seed (optional)"`
}

func (cmd ServeCmd) Run() error {
	cfg, err := cmd.load()
	if err != nil {
		return err
	}

	logger := shared.SetupLogger(cfg.LogLevel(), cmd.Debug, os.Stderr)

	game, _ := newGame(cfg, cmd.Seed, logger)
	if err := deal(game, ""); err != nil {
		return err
	}

	addr := cmd.Addr
	if addr == "" {
		addr = cfg.Spectate.Address
	}
	if addr == "" {
		addr = defaultServeAddr
	}

	hub := spectate.NewHub(logger)
	feed := spectate.NewFeed(hub, logger)
	feed.Attach(game)
	driver := spectate.NewDriver(game, logger)
	server := spectate.NewServer(hub, feed, logger, spectate.WithController(driver))

	ctx, stop := shared.SetupSignalHandlerWithLogger(logger)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return driver.Run(ctx) })
	g.Go(func() error { return hub.Run(ctx) })
	g.Go(func() error { return server.ListenAndServe(ctx, addr) })

	logger.Info("Serving game", "game", game.ID(), "addr", addr)
	return g.Wait()
}
