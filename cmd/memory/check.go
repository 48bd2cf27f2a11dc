package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lox/memory/internal/memory"
)

// CheckCmd validates a save file without starting the game.
type CheckCmd struct {
	File string `arg:"" name:"file" help:"Path to a .mem save file"`
	TOML bool   `name:"toml" help:"Print the full game state as TOML"`

	Out io.Writer `kong:"-"`
}

func (cmd CheckCmd) Run() error {
	if cmd.File == "" {
		return errors.New("check requires a file path")
	}

	game := memory.NewGame(memory.WithLogger(discardLogger()))
	if err := game.ReadSaveFile(cmd.File); err != nil {
		return err
	}

	out := stdout(cmd.Out)
	snap := game.Snapshot(true)
	if cmd.TOML {
		if err := toml.NewEncoder(out).Encode(snap); err != nil {
			return fmt.Errorf("encode %s: %w", cmd.File, err)
		}
		return nil
	}

	fmt.Fprintf(out, "%s: ok\n", cmd.File)
	for i, p := range snap.Players {
		marker := " "
		if i == snap.Current {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %s: %d %s\n", marker, p.Name, p.Score, formatBadges(p.Badges))
	}
	fmt.Fprintf(out, "  pairs left: %d\n", game.RemainingPairs())
	if snap.GameOver {
		fmt.Fprintf(out, "  game over, winner: %s\n", snap.Winner)
	}
	return nil
}

func formatBadges(ids []int) string {
	if len(ids) == 0 {
		return "[]"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%02d", id)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
