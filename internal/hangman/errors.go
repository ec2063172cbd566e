package hangman

import "errors"

var (
	// ErrInvalidArgument is returned when a required input is missing or
	// cannot be used (nil word set, unknown difficulty, empty length bucket).
	ErrInvalidArgument = errors.New("hangman: invalid argument")

	// ErrInvalidState is returned when round state is queried or mutated
	// before any round has started, or when the state broke its contract.
	ErrInvalidState = errors.New("hangman: invalid state")
)
