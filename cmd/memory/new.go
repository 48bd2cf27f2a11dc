package main

import (
	"fmt"
	"io"
)

// NewCmd deals a game straight to a save file.
type NewCmd struct {
	ConfigFlags `embed:""`

	Seed   *int64 `help:"Deterministic shuffle seed (optional)"`
	P1     string `name:"p1" help:"Player one name (overrides config)"`
	P2     string `name:"p2" help:"Player two name (overrides config)"`
	Output string `arg:"" help:"Save file to write (.mem is added when there is no extension)"`

	Out io.Writer `kong:"-"`
}

func (c *NewCmd) Run() error {
	cfg, err := c.load()
	if err != nil {
		return err
	}
	if c.P1 != "" {
		cfg.Game.PlayerOne = c.P1
	}
	if c.P2 != "" {
		cfg.Game.PlayerTwo = c.P2
	}

	logger := discardLogger()
	game, seed := newGame(cfg, c.Seed, logger)
	if err := deal(game, ""); err != nil {
		return err
	}

	path, err := game.WriteSaveFile(c.Output)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout(c.Out), "Wrote %s (seed %d, %s starts)\n", path, seed, game.CurrentPlayer().Name())
	return nil
}
