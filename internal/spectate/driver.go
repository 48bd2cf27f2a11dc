package spectate

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/lox/memory/internal/memory"
)

// ErrGameOver is returned for flips after the game has ended.
var ErrGameOver = errors.New("game is over")

// FlipResult is the JSON answer to a flip. Revealed is the id of the card
// just flipped; on the second flip IDs holds both ids in selection order.
type FlipResult struct {
	Index     int    `json:"index"`
	Revealed  int    `json:"revealed"`
	Evaluated bool   `json:"evaluated"`
	Matched   bool   `json:"matched"`
	ID        int    `json:"id,omitempty"`
	IDs       []int  `json:"ids,omitempty"`
	Indices   []int  `json:"indices,omitempty"`
	Scorer    string `json:"scorer,omitempty"`
	Current   string `json:"current"`
	GameOver  bool   `json:"game_over"`
	Winner    string `json:"winner,omitempty"`
}

type command struct {
	fn   func(*memory.Game)
	done chan struct{}
}

// Driver owns a game on its own goroutine and runs commands against it one
// at a time. It is used when nothing else, such as the terminal UI, owns
// the game.
type Driver struct {
	game   *memory.Game
	logger *log.Logger
	cmds   chan command
}

// NewDriver creates a driver for g. Call Run before sending commands.
func NewDriver(g *memory.Game, logger *log.Logger) *Driver {
	return &Driver{
		game:   g,
		logger: logger,
		cmds:   make(chan command),
	}
}

// Run executes commands until ctx is done.
func (d *Driver) Run(ctx context.Context) error {
	d.logger.Info("Game driver started", "game", d.game.ID())
	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-d.cmds:
			cmd.fn(d.game)
			close(cmd.done)
		}
	}
}

// Do runs fn on the driver goroutine and waits for it to finish.
func (d *Driver) Do(ctx context.Context, fn func(*memory.Game)) error {
	cmd := command{fn: fn, done: make(chan struct{})}
	select {
	case d.cmds <- cmd:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-cmd.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Flip reveals the card at index for the current player.
func (d *Driver) Flip(ctx context.Context, index int) (FlipResult, error) {
	var (
		result FlipResult
		err    error
	)
	doErr := d.Do(ctx, func(g *memory.Game) {
		if g.CheckForGameEnd() {
			err = ErrGameOver
			return
		}

		var pair memory.PairResult
		pair, err = g.Flip(index)
		if err != nil {
			return
		}

		result = FlipResult{
			Index:     index,
			Evaluated: pair.Evaluated,
			Matched:   pair.Matched,
			Current:   g.CurrentPlayer().Name(),
			GameOver:  g.CheckForGameEnd(),
		}
		if pair.Evaluated {
			result.Revealed = pair.IDs[1]
			result.ID = pair.ID
			result.IDs = pair.IDs[:]
			result.Indices = pair.Indices[:]
		} else {
			card, _ := g.CardAt(index)
			result.Revealed = card.ID()
		}
		if pair.Scorer != nil {
			result.Scorer = pair.Scorer.Name()
		}
		if result.GameOver {
			result.Winner = g.WinnerName()
			one, two := g.FinalScore()
			d.logger.Info("Game over", "game", g.ID(), "winner", result.Winner, "score", []int{one, two})
		}
	})
	if doErr != nil {
		return FlipResult{}, doErr
	}
	return result, err
}

// Restart deals a new game and returns its id.
func (d *Driver) Restart(ctx context.Context) (string, error) {
	var id string
	err := d.Do(ctx, func(g *memory.Game) {
		g.Restart()
		id = g.ID()
	})
	return id, err
}
