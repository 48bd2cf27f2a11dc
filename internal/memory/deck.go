package memory

import "fmt"

// GenerateCards returns a freshly shuffled deck: every pair id from 1 to
// PairCount twice, in row-major grid order.
func (g *Game) GenerateCards() []int {
	data := make([]int, 0, DeckSize)
	for id := 1; id <= PairCount; id++ {
		data = append(data, id, id)
	}

	// rand/v2 Shuffle is a Fisher-Yates shuffle
	g.rng.Shuffle(len(data), func(i, j int) {
		data[i], data[j] = data[j], data[i]
	})

	return data
}

// LoadCards turns raw ids into the game's cards, replacing the previous grid
// and clearing any selection in progress.
func (g *Game) LoadCards(data []int) error {
	if err := validateGrid(data); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDeck, err)
	}

	cards := make([]*Card, len(data))
	for i, id := range data {
		cards[i] = NewCard(id, g.cheatMode)
	}

	g.cards = cards
	g.selected = nil
	g.lastPair = PairResult{}
	g.logger.Debug("Loaded cards", "game", g.id, "remaining", g.RemainingPairs())
	g.notify()
	return nil
}

// Restart deals a new deck to two new players under a new game id.
func (g *Game) Restart() {
	g.id = g.newID()
	g.GeneratePlayers()
	// A generated deck always validates
	_ = g.LoadCards(g.GenerateCards())
	g.logger.Info("Started new game", "game", g.id, "starting", g.CurrentPlayer().Name())
}

// RemainingPairs counts the pairs still on the grid.
func (g *Game) RemainingPairs() int {
	n := 0
	for _, c := range g.cards {
		if !c.Removed() {
			n++
		}
	}
	return n / 2
}

func validateGrid(data []int) error {
	if len(data) != DeckSize {
		return fmt.Errorf("grid has %d entries, want %d", len(data), DeckSize)
	}
	for i, id := range data {
		if err := validateID(id); err != nil {
			return fmt.Errorf("grid entry %d: %w", i+1, err)
		}
	}
	return nil
}

func validateID(id int) error {
	if id < RemovedID || id > PairCount {
		return fmt.Errorf("id %d out of range [%d, %d]", id, RemovedID, PairCount)
	}
	return nil
}
