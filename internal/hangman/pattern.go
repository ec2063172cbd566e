// internal/hangman/pattern.go
//
// Pattern codec. A pattern is a string of the round's length where every
// position is either Unrevealed ('-') or a revealed letter.
//
// Reveals are cumulative: Reveal starts from the pattern already in effect,
// so a family key always encodes every letter revealed so far.

package hangman

import "strings"

// Unrevealed marks a position whose letter has not been revealed.
const Unrevealed = '-'

// Blank returns a pattern of n unrevealed positions.
func Blank(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(string(Unrevealed), n)
}

// Reveal overlays letter onto base at every position where word has it.
// Positions already revealed in base are left as they are.
// word is expected to have the same rune length as base; extra runes on
// either side are ignored.
func Reveal(base, word string, letter rune) string {
	out := []rune(base)
	i := 0
	for _, r := range word {
		if i >= len(out) {
			break
		}
		if r == letter {
			out[i] = letter
		}
		i++
	}
	return string(out)
}

// UnrevealedCount reports how many positions of pattern are still hidden.
func UnrevealedCount(pattern string) int {
	return strings.Count(pattern, string(Unrevealed))
}

// Contains reports whether letter is revealed anywhere in pattern.
func Contains(pattern string, letter rune) bool {
	return strings.ContainsRune(pattern, letter)
}

// Matches reports whether word agrees with pattern at every revealed
// position.
func Matches(pattern, word string) bool {
	pr, wr := []rune(pattern), []rune(word)
	if len(pr) != len(wr) {
		return false
	}
	for i, p := range pr {
		if p != Unrevealed && p != wr[i] {
			return false
		}
	}
	return true
}
