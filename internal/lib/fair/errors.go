package fair

import "errors"

var (
	// ErrInsufficientBytes means a 4-byte window was requested past the end
	// of a derived block. Block sizes are fixed, so hitting this indicates a
	// caller bug rather than a data condition.
	ErrInsufficientBytes = errors.New("insufficient bytes for 4-byte window")

	// ErrInvalidGameParameter rejects out-of-range caller-supplied game
	// parameters before any bytes are derived.
	ErrInvalidGameParameter = errors.New("invalid game parameter")

	// ErrUnknownGame rejects a game type the mapper has no formula for.
	ErrUnknownGame = errors.New("unknown game")
)
