package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/lox/memory/internal/memory"
	"github.com/lox/memory/internal/scoreboard"
)

// ScoresCmd lists finished games from the scoreboard.
type ScoresCmd struct {
	ConfigFlags `embed:""`

	Limit int `short:"n" default:"10" help:"Number of games to show"`

	Out io.Writer `kong:"-"`
}

func (cmd ScoresCmd) Run() error {
	cfg, err := cmd.load()
	if err != nil {
		return err
	}
	if cmd.Limit <= 0 {
		return fmt.Errorf("limit must be positive, got %d", cmd.Limit)
	}

	store, err := scoreboard.Open(cfg.Storage.ScoreboardPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	results, err := store.Recent(ctx, cmd.Limit)
	if err != nil {
		return err
	}

	out := stdout(cmd.Out)
	if len(results) == 0 {
		fmt.Fprintln(out, "No finished games yet")
		return nil
	}

	fmt.Fprintln(out, renderScores(results))
	return nil
}

func renderScores(results []scoreboard.Result) string {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Finished", "Game", "Player one", "Player two", "Score", "Winner").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})

	for _, r := range results {
		winner := r.Winner
		if winner == "" || winner == memory.NoOne {
			winner = "draw"
		}
		t.Row(
			r.FinishedAt.Local().Format("2006-01-02 15:04"),
			shortGameID(r.GameID),
			r.PlayerOne,
			r.PlayerTwo,
			strconv.Itoa(r.ScoreOne)+"-"+strconv.Itoa(r.ScoreTwo),
			winner,
		)
	}
	return t.Render()
}

func shortGameID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
