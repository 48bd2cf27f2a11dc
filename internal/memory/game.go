package memory

import (
	"fmt"
	"io"
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/memory/internal/gameid"
	"github.com/lox/memory/internal/notify"
	"github.com/lox/memory/internal/randutil"
)

const (
	GridColumns = 6
	GridRows    = 6
	DeckSize    = GridColumns * GridRows
	PairCount   = DeckSize / 2

	// RemovedID replaces the id of a matched card.
	RemovedID = -1

	// NoOne is the winner name reported for a tie.
	NoOne = "No one"

	// cheatBadgeLimit ends a cheat-mode game as soon as one player has this
	// many badges.
	cheatBadgeLimit = 3
)

// Default player names used by GeneratePlayers.
const (
	DefaultPlayerOne = "Player 1"
	DefaultPlayerTwo = "Player 2"
)

// Game owns the grid, both players and the current selection.
type Game struct {
	id        string
	logger    *log.Logger
	rng       *rand.Rand
	newID     func() string
	cheatMode bool
	names     [2]string

	players  [2]*Player
	current  int
	cards    []*Card
	selected []*Card
	lastPair PairResult

	observers notify.Notifier[*Game]
}

// Option configures a Game.
type Option func(*Game)

// WithLogger sets the logger used for engine diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(g *Game) {
		if logger != nil {
			g.logger = logger.WithPrefix("memory")
		}
	}
}

// WithRand injects the generator used for shuffling and picking the first
// player, for deterministic tests and replays.
func WithRand(rng *rand.Rand) Option {
	return func(g *Game) {
		if rng != nil {
			g.rng = rng
		}
	}
}

// WithCheatMode shows faces on covers and ends the game at three badges.
// It exists for debugging only.
func WithCheatMode(enabled bool) Option {
	return func(g *Game) { g.cheatMode = enabled }
}

// WithPlayerNames overrides the names given to fresh players.
func WithPlayerNames(one, two string) Option {
	return func(g *Game) {
		if one != "" {
			g.names[0] = one
		}
		if two != "" {
			g.names[1] = two
		}
	}
}

// WithIDGenerator replaces gameid.Generate.
func WithIDGenerator(fn func() string) Option {
	return func(g *Game) {
		if fn != nil {
			g.newID = fn
		}
	}
}

// NewGame creates a game with two fresh players and an empty grid. Call
// LoadCards(GenerateCards()) or Restart to deal.
func NewGame(opts ...Option) *Game {
	g := &Game{
		logger: log.New(io.Discard),
		newID:  gameid.Generate,
		names:  [2]string{DefaultPlayerOne, DefaultPlayerTwo},
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = randutil.New(time.Now().UnixNano())
	}
	g.id = g.newID()
	g.GeneratePlayers()
	return g
}

// ID identifies the current session. It changes on Restart and on load.
func (g *Game) ID() string { return g.id }

// CheatMode reports whether the debug cheat mode is on.
func (g *Game) CheatMode() bool { return g.cheatMode }

// GeneratePlayers replaces both players with fresh ones and picks the
// starting player at random.
func (g *Game) GeneratePlayers() {
	g.players = [2]*Player{NewPlayer(g.names[0]), NewPlayer(g.names[1])}
	g.current = g.rng.IntN(2)
	g.logger.Debug("Generated players", "starting", g.players[g.current].Name())
	g.notify()
}

// PlayerOne returns the first player.
func (g *Game) PlayerOne() *Player { return g.players[0] }

// PlayerTwo returns the second player.
func (g *Game) PlayerTwo() *Player { return g.players[1] }

// Players returns both players in seat order.
func (g *Game) Players() [2]*Player { return g.players }

// SetPlayerOne replaces the first player. The turn stays with the same seat.
func (g *Game) SetPlayerOne(p *Player) {
	g.players[0] = p
	g.notify()
}

// SetPlayerTwo replaces the second player. The turn stays with the same seat.
func (g *Game) SetPlayerTwo(p *Player) {
	g.players[1] = p
	g.notify()
}

// CurrentPlayer returns the player whose turn it is.
func (g *Game) CurrentPlayer() *Player { return g.players[g.current] }

// CurrentIndex returns 0 when player one is to play and 1 otherwise.
func (g *Game) CurrentIndex() int { return g.current }

// SetCurrentPlayer hands the turn to p, which must be one of the game's
// players.
func (g *Game) SetCurrentPlayer(p *Player) error {
	for i, candidate := range g.players {
		if candidate == p {
			g.current = i
			g.notify()
			return nil
		}
	}
	return ErrUnknownPlayer
}

// Cards returns the grid in row-major order.
func (g *Game) Cards() []*Card {
	out := make([]*Card, len(g.cards))
	copy(out, g.cards)
	return out
}

// CardAt returns the card at a row-major grid index.
func (g *Game) CardAt(index int) (*Card, bool) {
	if index < 0 || index >= len(g.cards) {
		return nil, false
	}
	return g.cards[index], true
}

// IndexOf returns the grid index of c, or -1.
func (g *Game) IndexOf(c *Card) int {
	for i, card := range g.cards {
		if card == c {
			return i
		}
	}
	return -1
}

// SelectedCards returns the cards picked so far this turn.
func (g *Game) SelectedCards() []*Card {
	out := make([]*Card, len(g.selected))
	copy(out, g.selected)
	return out
}

// LastPair returns the outcome of the most recent evaluation.
func (g *Game) LastPair() PairResult { return g.lastPair }

// Subscribe registers fn to be called with the game after every mutation.
func (g *Game) Subscribe(fn func(*Game)) (unsubscribe func()) {
	return g.observers.Subscribe(fn)
}

func (g *Game) notify() {
	g.observers.Notify(g)
}

// String is used in log lines.
func (g *Game) String() string {
	return fmt.Sprintf("game %s (%s %d - %d %s)", g.id,
		g.players[0].Name(), g.players[0].Score(), g.players[1].Score(), g.players[1].Name())
}
