package memory

import "github.com/lox/memory/internal/notify"

// CoverURL is the image on the back of every card.
const CoverURL = "/images/reverse.jpg"

// CardStatus is the visible state of a grid cell.
type CardStatus int

const (
	StatusHidden CardStatus = iota
	StatusShown
	StatusRemoved
)

// String returns the string representation of a CardStatus.
func (s CardStatus) String() string {
	switch s {
	case StatusHidden:
		return "hidden"
	case StatusShown:
		return "shown"
	case StatusRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Card is one cell of the grid.
type Card struct {
	id        int
	faceSeed  int
	shown     bool
	selected  bool
	cheatMode bool

	observers notify.Notifier[*Card]
}

// NewCard creates a face-down card. A card created already removed keeps a
// placeholder face so it still has something to draw.
func NewCard(id int, cheatMode bool) *Card {
	seed := id
	if id == RemovedID {
		seed = 1
	}
	return &Card{id: id, faceSeed: seed, cheatMode: cheatMode}
}

// ID returns the pair id, or RemovedID once the card has been matched.
func (c *Card) ID() int { return c.id }

// Shown reports whether the face is currently turned up.
func (c *Card) Shown() bool { return c.shown }

// Selected reports whether the card took part in the last evaluated pair.
func (c *Card) Selected() bool { return c.selected }

// Removed reports whether the card has left play.
func (c *Card) Removed() bool { return c.id == RemovedID }

// Status derives the tri-state view of the card.
func (c *Card) Status() CardStatus {
	switch {
	case c.Removed():
		return StatusRemoved
	case c.shown:
		return StatusShown
	default:
		return StatusHidden
	}
}

// FaceURL returns the card's face image. It does not change when the card
// is removed.
func (c *Card) FaceURL() string {
	return imageURL(c.faceSeed)
}

// CoverURL returns what a face-down card shows: the generic back, or the
// face itself when cheat mode is on.
func (c *Card) CoverURL() string {
	if c.cheatMode {
		return c.FaceURL()
	}
	return CoverURL
}

// Reveal turns the card face up or down.
func (c *Card) Reveal(shown bool) {
	c.shown = shown
	c.observers.Notify(c)
}

// Select sets the selected flag.
func (c *Card) Select(selected bool) {
	c.selected = selected
	c.observers.Notify(c)
}

// SetID reassigns the card's identity. The engine only uses it to mark a
// matched card with RemovedID.
func (c *Card) SetID(id int) {
	c.id = id
	c.observers.Notify(c)
}

// Subscribe registers fn to be called with the card after every mutation.
func (c *Card) Subscribe(fn func(*Card)) (unsubscribe func()) {
	return c.observers.Subscribe(fn)
}
