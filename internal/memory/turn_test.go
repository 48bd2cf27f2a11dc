package memory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchingPairScenario(t *testing.T) {
	g := newTestGame(t)
	scorer := g.CurrentPlayer()
	other := g.Players()[1-g.CurrentIndex()]

	res := flipPair(t, g, 0, 1)

	assert.True(t, res.Matched)
	assert.Equal(t, 1, res.ID)
	assert.Equal(t, [2]int{1, 1}, res.IDs, "ids are captured before the cards are removed")
	assert.Equal(t, [2]int{0, 1}, res.Indices)
	assert.Same(t, scorer, res.Scorer)

	assert.Equal(t, []int{1}, scorer.BadgeIDs())
	assert.Empty(t, other.BadgeIDs())

	for _, i := range []int{0, 1} {
		c, _ := g.CardAt(i)
		assert.Equal(t, RemovedID, c.ID())
		assert.False(t, c.Shown())
		assert.True(t, c.Selected())
	}

	assert.Same(t, other, g.CurrentPlayer(), "turn passes after a match")
	assert.Empty(t, g.SelectedCards())
	assert.Equal(t, res, g.LastPair())
}

func TestMismatchedPair(t *testing.T) {
	g := newTestGame(t)
	starter := g.CurrentPlayer()

	res := flipPair(t, g, 0, 2)

	assert.False(t, res.Matched)
	assert.Nil(t, res.Scorer)
	assert.Equal(t, [2]int{1, 2}, res.IDs)
	assert.Zero(t, g.PlayerOne().Score()+g.PlayerTwo().Score())

	a, _ := g.CardAt(0)
	b, _ := g.CardAt(2)
	assert.Equal(t, 1, a.ID())
	assert.Equal(t, 2, b.ID())
	assert.False(t, a.Shown())
	assert.False(t, b.Shown())

	assert.NotSame(t, starter, g.CurrentPlayer())
	assert.Empty(t, g.SelectedCards())
}

func TestSelectionOrderDoesNotMatter(t *testing.T) {
	forward := newTestGame(t)
	backward := newTestGame(t)

	a := flipPair(t, forward, 4, 5)
	b := flipPair(t, backward, 5, 4)

	assert.Equal(t, a.Matched, b.Matched)
	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, forward.CurrentPlayer().Name(), backward.CurrentPlayer().Name())
}

func TestAddSelectedCardRejections(t *testing.T) {
	t.Run("card from another game", func(t *testing.T) {
		g := newTestGame(t)
		stranger := NewCard(1, false)
		stranger.Reveal(true)

		_, err := g.AddSelectedCard(stranger)
		assert.ErrorIs(t, err, ErrUnknownCard)
	})

	t.Run("hidden card", func(t *testing.T) {
		g := newTestGame(t)
		c, _ := g.CardAt(0)

		_, err := g.AddSelectedCard(c)
		assert.ErrorIs(t, err, ErrCardHidden)
		assert.Empty(t, g.SelectedCards())
	})

	t.Run("same card twice", func(t *testing.T) {
		g := newTestGame(t)
		c, _ := g.CardAt(0)
		c.Reveal(true)

		_, err := g.AddSelectedCard(c)
		require.NoError(t, err)
		_, err = g.AddSelectedCard(c)
		assert.ErrorIs(t, err, ErrAlreadySelected)
		assert.Len(t, g.SelectedCards(), 1)
	})

	t.Run("removed card", func(t *testing.T) {
		g := newTestGame(t)
		flipPair(t, g, 0, 1)

		_, err := g.Flip(0)
		assert.ErrorIs(t, err, ErrCardRemoved)

		c, _ := g.CardAt(1)
		c.Reveal(true)
		_, err = g.AddSelectedCard(c)
		assert.ErrorIs(t, err, ErrCardRemoved)
	})

	t.Run("flip out of range", func(t *testing.T) {
		g := newTestGame(t)
		_, err := g.Flip(DeckSize)
		assert.ErrorIs(t, err, ErrUnknownCard)
		_, err = g.Flip(-1)
		assert.ErrorIs(t, err, ErrUnknownCard)
	})

	t.Run("flip shown card", func(t *testing.T) {
		g := newTestGame(t)
		_, err := g.Flip(3)
		require.NoError(t, err)
		_, err = g.Flip(3)
		assert.ErrorIs(t, err, ErrAlreadySelected)
	})
}

func TestCalculatePairNeedsTwoCards(t *testing.T) {
	g := newTestGame(t)

	_, err := g.CalculatePair()
	assert.True(t, errors.Is(err, ErrIncompletePair))

	_, err = g.Flip(0)
	require.NoError(t, err)
	_, err = g.CalculatePair()
	assert.ErrorIs(t, err, ErrIncompletePair)
}

func TestSelectionAlwaysEmptyAfterEvaluation(t *testing.T) {
	g := newTestGame(t)
	pairs := [][2]int{{0, 2}, {0, 1}, {3, 5}, {2, 3}, {6, 8}}

	for _, p := range pairs {
		flipPair(t, g, p[0], p[1])
		assert.Empty(t, g.SelectedCards())
	}
}

func TestAtMostTwoCardsFlaggedSelected(t *testing.T) {
	g := newTestGame(t)

	flipPair(t, g, 0, 2)
	flipPair(t, g, 4, 6)
	flipPair(t, g, 8, 9)

	var selected []int
	for i, c := range g.Cards() {
		if c.Selected() {
			selected = append(selected, i)
		}
	}
	assert.Equal(t, []int{8, 9}, selected)
}

func TestGameNotificationsDuringTurn(t *testing.T) {
	g := newTestGame(t)

	var sizes []int
	g.Subscribe(func(g *Game) {
		if g == nil {
			return
		}
		sizes = append(sizes, len(g.SelectedCards()))
	})

	_, err := g.Flip(0)
	require.NoError(t, err)
	_, err = g.Flip(1)
	require.NoError(t, err)

	// one card, two cards (pair check signal), cleared, turn switched
	assert.Equal(t, []int{1, 2, 0, 0}, sizes)
}

func TestCheckForGameEnd(t *testing.T) {
	t.Run("not over at start", func(t *testing.T) {
		g := newTestGame(t)
		assert.False(t, g.CheckForGameEnd())
	})

	t.Run("over when every pair is found", func(t *testing.T) {
		g := newTestGame(t)
		for pair := range PairCount {
			assert.False(t, g.CheckForGameEnd())
			flipPair(t, g, 2*pair, 2*pair+1)
		}
		assert.True(t, g.CheckForGameEnd())
		assert.Zero(t, g.RemainingPairs())
	})

	t.Run("three badges do not end a normal game", func(t *testing.T) {
		g := newTestGame(t)
		for range 3 {
			g.PlayerOne().AddBadge(NewBadge(1))
		}
		assert.False(t, g.CheckForGameEnd())
	})

	t.Run("cheat mode ends at three badges", func(t *testing.T) {
		g := newTestGame(t, WithCheatMode(true))
		for range 3 {
			g.PlayerTwo().AddBadge(NewBadge(1))
		}
		assert.True(t, g.CheckForGameEnd())
	})
}

func TestCheckForWinner(t *testing.T) {
	tests := []struct {
		name     string
		one, two int
		want     int // -1 means tie
	}{
		{"tie at zero", 0, 0, -1},
		{"tie", 9, 9, -1},
		{"player one", 10, 8, 0},
		{"player two", 1, 17, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, WithPlayerNames("Ada", "Grace"))
			for range tt.one {
				g.PlayerOne().AddBadge(NewBadge(1))
			}
			for range tt.two {
				g.PlayerTwo().AddBadge(NewBadge(1))
			}

			winner := g.CheckForWinner()
			if tt.want < 0 {
				assert.Nil(t, winner)
				assert.Equal(t, NoOne, g.WinnerName())
				return
			}
			assert.Same(t, g.Players()[tt.want], winner)
			assert.Equal(t, winner.Name(), g.WinnerName())
		})
	}
}

func TestSetCurrentPlayer(t *testing.T) {
	g := newTestGame(t)

	require.NoError(t, g.SetCurrentPlayer(g.PlayerTwo()))
	assert.Equal(t, 1, g.CurrentIndex())

	assert.ErrorIs(t, g.SetCurrentPlayer(NewPlayer("stranger")), ErrUnknownPlayer)
	assert.Equal(t, 1, g.CurrentIndex())
}
