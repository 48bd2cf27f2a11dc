package memory

import "fmt"

// PairResult describes one evaluated pair.
type PairResult struct {
	// Evaluated is false while the turn still waits for a second card.
	Evaluated bool
	Matched   bool
	// ID is the id the first card had when the pair was compared.
	ID int
	// IDs are both cards' ids as compared, before a match removes them.
	IDs [2]int
	// Indices are the grid positions of the two cards, in selection order.
	Indices [2]int
	// Scorer is the player who received the badge, nil on a mismatch.
	Scorer *Player
}

// Flip reveals the card at index and adds it to the selection. It is the
// one-call path for views that do not animate the reveal.
func (g *Game) Flip(index int) (PairResult, error) {
	card, ok := g.CardAt(index)
	if !ok {
		return PairResult{}, fmt.Errorf("%w: index %d", ErrUnknownCard, index)
	}
	if card.Removed() {
		return PairResult{}, fmt.Errorf("%w: index %d", ErrCardRemoved, index)
	}
	if card.Shown() {
		return PairResult{}, fmt.Errorf("%w: index %d", ErrAlreadySelected, index)
	}

	card.Reveal(true)
	return g.AddSelectedCard(card)
}

// AddSelectedCard adds a revealed card to this turn's selection. The second
// card triggers CalculatePair before AddSelectedCard returns; observers see
// the full selection first, then the evaluated state.
func (g *Game) AddSelectedCard(card *Card) (PairResult, error) {
	index := g.IndexOf(card)
	switch {
	case index < 0:
		return PairResult{}, ErrUnknownCard
	case card.Removed():
		return PairResult{}, ErrCardRemoved
	case !card.Shown():
		return PairResult{}, ErrCardHidden
	}
	for _, sel := range g.selected {
		if sel == card {
			return PairResult{}, ErrAlreadySelected
		}
	}

	g.selected = append(g.selected, card)
	g.notify()

	if len(g.selected) < 2 {
		return PairResult{}, nil
	}
	return g.CalculatePair()
}

// CalculatePair compares the two selected cards. A match earns the current
// player a badge and removes both cards; either way the selection is cleared
// and the turn passes to the other player.
func (g *Game) CalculatePair() (PairResult, error) {
	if len(g.selected) < 2 {
		return PairResult{}, ErrIncompletePair
	}

	first, second := g.selected[0], g.selected[1]
	result := PairResult{
		Evaluated: true,
		Matched:   first.ID() == second.ID(),
		ID:        first.ID(),
		IDs:       [2]int{first.ID(), second.ID()},
		Indices:   [2]int{g.IndexOf(first), g.IndexOf(second)},
	}

	scorer := g.CurrentPlayer()
	if result.Matched {
		scorer.AddBadge(NewBadge(first.ID()))
		result.Scorer = scorer
	}

	g.processPair(result.Matched)
	g.lastPair = result
	g.clearSelectedCards()
	g.switchPlayer()

	g.logger.Debug("Evaluated pair",
		"player", scorer.Name(),
		"matched", result.Matched,
		"ids", result.IDs,
		"indices", result.Indices)

	return result, nil
}

// processPair flips every shown card back down and marks it selected so the
// view can animate it. Stale selected flags from the previous pair are
// cleared first, keeping at most two selected cards in the grid.
func (g *Game) processPair(matched bool) {
	for _, card := range g.cards {
		if card.Selected() && !card.Shown() {
			card.Select(false)
		}
	}

	for _, card := range g.cards {
		if !card.Shown() {
			continue
		}
		card.Select(true)
		card.Reveal(false)
		if matched {
			card.SetID(RemovedID)
		}
	}
}

func (g *Game) clearSelectedCards() {
	g.selected = nil
	g.notify()
}

func (g *Game) switchPlayer() {
	g.current = 1 - g.current
	g.notify()
}

// CheckForGameEnd reports whether every pair has been found. In cheat mode
// the game also ends once either player holds three badges.
func (g *Game) CheckForGameEnd() bool {
	one, two := g.FinalScore()

	if one+two >= PairCount {
		return true
	}
	if g.cheatMode && (one >= cheatBadgeLimit || two >= cheatBadgeLimit) {
		return true
	}
	return false
}

// CheckForWinner returns the player with strictly more badges, or nil on a
// tie. It does not require the game to be over.
func (g *Game) CheckForWinner() *Player {
	one, two := g.FinalScore()
	switch {
	case one > two:
		return g.players[0]
	case two > one:
		return g.players[1]
	default:
		return nil
	}
}

// WinnerName returns the winner's name, or NoOne on a tie.
func (g *Game) WinnerName() string {
	if winner := g.CheckForWinner(); winner != nil {
		return winner.Name()
	}
	return NoOne
}

// FinalScore returns the badge counts of player one and player two.
func (g *Game) FinalScore() (int, int) {
	return g.players[0].Score(), g.players[1].Score()
}
