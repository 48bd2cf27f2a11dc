package memory

import "errors"

var (
	// ErrMalformedSave wraps every save decoding failure.
	ErrMalformedSave = errors.New("malformed save")

	// ErrInvalidDeck is returned when LoadCards receives anything other than
	// DeckSize ids in [RemovedID, PairCount].
	ErrInvalidDeck = errors.New("invalid deck")

	ErrUnknownCard     = errors.New("card is not part of this game")
	ErrCardRemoved     = errors.New("card has already been matched")
	ErrCardHidden      = errors.New("card must be revealed before it can be selected")
	ErrAlreadySelected = errors.New("card is already selected")
	ErrIncompletePair  = errors.New("two cards must be selected to evaluate a pair")
	ErrUnknownPlayer   = errors.New("player is not part of this game")
)
