// Package gameid generates the identifiers attached to each game session.
// IDs are UUIDv7 values rendered as 26 lowercase Crockford base32 characters,
// so they sort by creation time and are safe in file names and URLs.
package gameid

import (
	"encoding/base32"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// Base32 alphabet used by TypeID (Crockford's base32)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length is the number of characters in an encoded ID.
const Length = 26

var encoding = base32.NewEncoding(alphabet).WithPadding(base32.NoPadding)

// Generator creates IDs from an optional entropy source.
type Generator struct {
	entropy io.Reader
}

// NewGenerator returns a generator reading random bits from entropy.
// A nil reader uses crypto/rand through the uuid package.
func NewGenerator(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate returns a new ID using crypto/rand.
func Generate() string {
	return NewGenerator(nil).Generate()
}

// Generate returns a new ID. It panics only if the entropy source fails,
// which for crypto/rand means the platform itself is broken.
func (g *Generator) Generate() string {
	var (
		id  uuid.UUID
		err error
	)
	if g.entropy != nil {
		id, err = uuid.NewV7FromReader(g.entropy)
	} else {
		id, err = uuid.NewV7()
	}
	if err != nil {
		panic("gameid: failed to generate uuid: " + err.Error())
	}
	return encoding.EncodeToString(id[:])
}

// Parse decodes id back into the uuid it was generated from.
func Parse(id string) (uuid.UUID, error) {
	if len(id) != Length {
		return uuid.Nil, fmt.Errorf("game ID must be exactly %d characters, got %d", Length, len(id))
	}
	raw, err := encoding.DecodeString(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid game ID %q: %w", id, err)
	}
	u, err := uuid.FromBytes(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid game ID %q: %w", id, err)
	}
	return u, nil
}

// Validate checks that id was produced by Generate.
func Validate(id string) error {
	u, err := Parse(id)
	if err != nil {
		return err
	}
	if u.Version() != 7 {
		return fmt.Errorf("game ID %q is not a version 7 uuid", id)
	}
	return nil
}
