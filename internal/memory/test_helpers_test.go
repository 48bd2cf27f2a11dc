package memory

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/memory/internal/randutil"
	"github.com/stretchr/testify/require"
)

// orderedDeck returns 1,1,2,2,...,18,18.
func orderedDeck() []int {
	data := make([]int, 0, DeckSize)
	for id := 1; id <= PairCount; id++ {
		data = append(data, id, id)
	}
	return data
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// newTestGame returns a seeded game dealt with the unshuffled deck.
func newTestGame(t *testing.T, opts ...Option) *Game {
	t.Helper()

	base := []Option{
		WithLogger(quietLogger()),
		WithRand(randutil.New(42)),
		WithIDGenerator(func() string { return "test-game" }),
	}
	g := NewGame(append(base, opts...)...)
	require.NoError(t, g.LoadCards(orderedDeck()))
	return g
}

// flipPair flips two grid positions and requires the pair to be evaluated.
func flipPair(t *testing.T, g *Game, a, b int) PairResult {
	t.Helper()

	res, err := g.Flip(a)
	require.NoError(t, err)
	require.False(t, res.Evaluated)

	res, err = g.Flip(b)
	require.NoError(t, err)
	require.True(t, res.Evaluated)
	return res
}
