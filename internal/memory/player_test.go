package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlayerBadgesKeepOrder(t *testing.T) {
	p := NewPlayer("Ada")

	var notified int
	p.Subscribe(func(p *Player) { notified++ })

	p.AddBadge(NewBadge(5))
	p.AddBadge(NewBadge(2))
	p.AddBadge(NewBadge(17))

	assert.Equal(t, []int{5, 2, 17}, p.BadgeIDs())
	assert.Equal(t, 3, p.Score())
	assert.Equal(t, 3, notified)
}

func TestPlayerBadgesReturnsCopy(t *testing.T) {
	p := NewPlayer("Ada")
	p.AddBadge(NewBadge(1))

	badges := p.Badges()
	badges[0] = NewBadge(9)

	assert.Equal(t, []int{1}, p.BadgeIDs())
}

func TestPlayerSetName(t *testing.T) {
	p := NewPlayer("Player 1")

	var names []string
	unsubscribe := p.Subscribe(func(p *Player) { names = append(names, p.Name()) })

	p.SetName("Grace")
	unsubscribe()
	p.SetName("Linus")

	assert.Equal(t, []string{"Grace"}, names)
	assert.Equal(t, "Linus", p.Name())
}
