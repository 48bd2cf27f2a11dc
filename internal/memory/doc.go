// Package memory implements the game-state engine for a two-player memory
// matching game played on a 6x6 grid of 18 face pairs.
//
// The engine owns the deck, the two players, turn order and pair evaluation,
// and it reads and writes the plain-text .mem save format. It never renders
// anything: a view layer subscribes to Card, Player and Game and redraws
// whenever they announce a change.
//
// # Basic Usage
//
//	g := memory.NewGame(memory.WithRand(randutil.New(42)))
//	if err := g.LoadCards(g.GenerateCards()); err != nil {
//	    return err
//	}
//	g.Subscribe(func(g *memory.Game) {
//	    if g == nil {
//	        return
//	    }
//	    // redraw
//	})
//	res, err := g.Flip(0)
//	res, err = g.Flip(7) // second flip evaluates the pair
//	if res.Matched {
//	    // res.Scorer earned a badge
//	}
//	if g.CheckForGameEnd() {
//	    fmt.Println(g.WinnerName(), "has won the game!")
//	}
//
// # Removed cards
//
// A matched card keeps its slot in the grid but its id becomes RemovedID
// (-1). The sentinel is what the save format stores; Card.Status exposes the
// same information as an explicit hidden/shown/removed state.
//
// # Concurrency
//
// A Game and everything it owns must be used from a single goroutine.
// Observers are called synchronously after the state change is committed.
package memory
