package memory

import "github.com/lox/memory/internal/notify"

// Player is one of the two competitors. Badges only ever grow during a game.
type Player struct {
	name   string
	badges []Badge

	observers notify.Notifier[*Player]
}

// NewPlayer creates a player without badges.
func NewPlayer(name string) *Player {
	return &Player{name: name}
}

// Name returns the display name.
func (p *Player) Name() string { return p.name }

// SetName renames the player.
func (p *Player) SetName(name string) {
	p.name = name
	p.observers.Notify(p)
}

// Badges returns the earned badges in the order they were won.
func (p *Player) Badges() []Badge {
	out := make([]Badge, len(p.badges))
	copy(out, p.badges)
	return out
}

// BadgeIDs returns the ids of Badges.
func (p *Player) BadgeIDs() []int {
	ids := make([]int, len(p.badges))
	for i, b := range p.badges {
		ids[i] = b.id
	}
	return ids
}

// Score is the number of pairs found.
func (p *Player) Score() int { return len(p.badges) }

// AddBadge appends a badge.
func (p *Player) AddBadge(b Badge) {
	p.badges = append(p.badges, b)
	p.observers.Notify(p)
}

// Subscribe registers fn to be called with the player after every mutation.
func (p *Player) Subscribe(fn func(*Player)) (unsubscribe func()) {
	return p.observers.Subscribe(fn)
}
