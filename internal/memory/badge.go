package memory

import "fmt"

// Badge marks one pair found by a player. Its id is the pair's card id.
type Badge struct {
	id int
}

// NewBadge returns the badge for pair id.
func NewBadge(id int) Badge {
	return Badge{id: id}
}

// ID returns the pair id.
func (b Badge) ID() int {
	return b.id
}

// URL returns the image shown for this badge.
func (b Badge) URL() string {
	return imageURL(b.id)
}

// imageURL maps a pair id to its face image. Ids below 1 have no face of
// their own and borrow the first image.
func imageURL(id int) string {
	if id < 1 {
		id = 1
	}
	return fmt.Sprintf("/images/image%02d.jpg", id)
}
