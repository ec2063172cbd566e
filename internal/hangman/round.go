// internal/hangman/round.go
//
// Round state for one game of evil hangman.
// Holds:
//   - the candidate pool (every word still consistent with all reveals),
//   - the current pattern,
//   - the guessed letters,
//   - the accepted-guess counter that drives the difficulty tie-break,
//   - the remaining guess budget.
//
// A Round is not safe for concurrent use.

package hangman

import (
	"fmt"
	"slices"
)

// Round is the mutable state of a single round. Create one through
// Manager.StartRound.
type Round struct {
	length     int
	difficulty Difficulty
	pool       []string
	pattern    string
	guessed    map[rune]struct{}
	count      int
	remaining  int
}

func newRound(pool []string, length, maxWrong int, d Difficulty) *Round {
	return &Round{
		length:     length,
		difficulty: d,
		pool:       pool,
		pattern:    Blank(length),
		guessed:    make(map[rune]struct{}),
		remaining:  maxWrong,
	}
}

// Length is the word length of the round.
func (r *Round) Length() int { return r.length }

// Difficulty is the tier the round was started with.
func (r *Round) Difficulty() Difficulty { return r.difficulty }

// Pattern returns the current pattern.
func (r *Round) Pattern() string { return r.pattern }

// CandidateCount is the number of words still in the pool.
func (r *Round) CandidateCount() int { return len(r.pool) }

// Candidates returns a copy of the pool.
func (r *Round) Candidates() []string { return slices.Clone(r.pool) }

// GuessCount is the number of accepted (non-repeat) guesses so far.
func (r *Round) GuessCount() int { return r.count }

// GuessesRemaining returns the remaining budget. A negative budget means
// the caller kept guessing past zero and is reported as ErrInvalidState.
func (r *Round) GuessesRemaining() (int, error) {
	if r.remaining < 0 {
		return r.remaining, fmt.Errorf("%w: guesses remaining is %d", ErrInvalidState, r.remaining)
	}
	return r.remaining, nil
}

// GuessedLetters returns the guessed letters in ascending order.
func (r *Round) GuessedLetters() []rune {
	out := make([]rune, 0, len(r.guessed))
	for l := range r.guessed {
		out = append(out, l)
	}
	slices.Sort(out)
	return out
}

// AlreadyGuessed reports whether letter was guessed this round.
func (r *Round) AlreadyGuessed(letter rune) bool {
	_, ok := r.guessed[letter]
	return ok
}

// ApplyGuess partitions the pool on letter, picks a family for the round's
// difficulty and makes it the new pool and pattern. It returns the size of
// every family considered, keyed by pattern.
//
// A letter that was already guessed leaves the round untouched and yields
// an empty report.
//
// The budget is charged when the chosen pattern reveals the letter and left
// alone when it does not.
func (r *Round) ApplyGuess(letter rune) map[string]int {
	if r.AlreadyGuessed(letter) {
		return map[string]int{}
	}
	r.guessed[letter] = struct{}{}
	r.count++

	families := Partition(r.pool, r.pattern, letter)
	report := Counts(families)
	if len(families) == 0 {
		return report
	}
	Rank(families)
	chosen := Select(families, r.difficulty, r.count)

	r.pattern = chosen.Pattern
	r.pool = chosen.Words
	if Contains(r.pattern, letter) {
		r.remaining--
	}
	return report
}

// SecretWord picks one word of the pool uniformly at random from src.
func (r *Round) SecretWord(src Source) (string, error) {
	if len(r.pool) == 0 {
		return "", fmt.Errorf("%w: candidate pool is empty", ErrInvalidState)
	}
	return r.pool[src.IntN(len(r.pool))], nil
}
