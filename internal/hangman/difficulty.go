// internal/hangman/difficulty.go
//
// Difficulty selector.
//
// Families are ranked hardest-first:
//   1. larger family first (guesser learns the least),
//   2. more unrevealed positions first,
//   3. pattern string ascending as the final total tie-break.
//
// Easy hands out the second-hardest family every 2nd accepted guess and
// Medium every 4th; Hard always takes the hardest.

package hangman

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Difficulty is the tier that decides how often the engine eases off.
// The zero value means no tier was given and is rejected by StartRound.
type Difficulty int

const (
	Easy Difficulty = iota + 1
	Medium
	Hard
)

const (
	easyPeriod   = 2
	mediumPeriod = 4
)

// String returns the lowercase name of d.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
}

// Valid reports whether d is one of Easy, Medium, Hard.
func (d Difficulty) Valid() bool { return d >= Easy && d <= Hard }

// ParseDifficulty accepts "easy", "medium" or "hard" in any case.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return 0, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidArgument, s)
}

// compareFamilies orders a before b when a is harder for the guesser.
func compareFamilies(a, b Family) int {
	if c := cmp.Compare(len(b.Words), len(a.Words)); c != 0 {
		return c
	}
	if c := cmp.Compare(UnrevealedCount(b.Pattern), UnrevealedCount(a.Pattern)); c != 0 {
		return c
	}
	return strings.Compare(a.Pattern, b.Pattern)
}

// Rank sorts families in place, hardest first.
func Rank(families []Family) {
	slices.SortFunc(families, compareFamilies)
}

// Select picks the family for this guess from families already ordered by
// Rank. round is the accepted-guess counter including the current guess.
// families must not be empty.
func Select(ranked []Family, d Difficulty, round int) Family {
	if len(ranked) >= 2 {
		switch {
		case d == Easy && round%easyPeriod == 0:
			return ranked[1]
		case d == Medium && round%mediumPeriod == 0:
			return ranked[1]
		}
	}
	return ranked[0]
}
