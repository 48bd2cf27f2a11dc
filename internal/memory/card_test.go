package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCardMutatorsNotify(t *testing.T) {
	c := NewCard(4, false)

	var seen []CardStatus
	c.Subscribe(func(c *Card) {
		if c == nil {
			return
		}
		seen = append(seen, c.Status())
	})

	c.Reveal(true)
	c.Select(true)
	c.Reveal(false)
	c.SetID(RemovedID)

	assert.Equal(t, []CardStatus{StatusShown, StatusShown, StatusHidden, StatusRemoved}, seen)
	assert.True(t, c.Selected())
	assert.True(t, c.Removed())
}

func TestCardURLs(t *testing.T) {
	t.Run("face derives from the id", func(t *testing.T) {
		c := NewCard(7, false)
		assert.Equal(t, "/images/image07.jpg", c.FaceURL())
		assert.Equal(t, CoverURL, c.CoverURL())
	})

	t.Run("two digit ids", func(t *testing.T) {
		assert.Equal(t, "/images/image18.jpg", NewCard(18, false).FaceURL())
	})

	t.Run("face survives removal", func(t *testing.T) {
		c := NewCard(12, false)
		c.SetID(RemovedID)
		assert.Equal(t, "/images/image12.jpg", c.FaceURL())
	})

	t.Run("removed card uses placeholder face", func(t *testing.T) {
		c := NewCard(RemovedID, false)
		assert.Equal(t, "/images/image01.jpg", c.FaceURL())
		assert.Equal(t, StatusRemoved, c.Status())
	})

	t.Run("cheat mode shows the face as cover", func(t *testing.T) {
		c := NewCard(3, true)
		assert.Equal(t, "/images/image03.jpg", c.CoverURL())
	})
}

func TestCardStatusString(t *testing.T) {
	assert.Equal(t, "hidden", StatusHidden.String())
	assert.Equal(t, "shown", StatusShown.String())
	assert.Equal(t, "removed", StatusRemoved.String())
	assert.Equal(t, "unknown", CardStatus(99).String())
}

func TestBadge(t *testing.T) {
	b := NewBadge(9)
	assert.Equal(t, 9, b.ID())
	assert.Equal(t, "/images/image09.jpg", b.URL())
	assert.Equal(t, "/images/image01.jpg", NewBadge(RemovedID).URL())
}
