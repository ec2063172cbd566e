package hangman

import (
	"fmt"
	"slices"
	"unicode/utf8"
)

// Index groups dictionary words by length. It is built once and shared
// read-only by every round of a Manager.
type Index struct {
	byLen map[int][]string
	total int
}

// NewIndex builds an Index from words. A nil slice is rejected; an empty
// one yields an index with no lengths. Duplicates are indexed once and
// each bucket keeps first-appearance order.
func NewIndex(words []string) (*Index, error) {
	if words == nil {
		return nil, fmt.Errorf("%w: word set is nil", ErrInvalidArgument)
	}
	idx := &Index{byLen: make(map[int][]string)}
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		n := utf8.RuneCountInString(w)
		idx.byLen[n] = append(idx.byLen[n], w)
		idx.total++
	}
	return idx, nil
}

// CountForLength returns the number of indexed words of length n.
func (x *Index) CountForLength(n int) int {
	return len(x.byLen[n])
}

// Len returns the number of distinct indexed words.
func (x *Index) Len() int { return x.total }

// Lengths lists, ascending, every length with at least one word.
func (x *Index) Lengths() []int {
	out := make([]int, 0, len(x.byLen))
	for n, ws := range x.byLen {
		if len(ws) > 0 {
			out = append(out, n)
		}
	}
	slices.Sort(out)
	return out
}

// bucket returns a copy of the words of length n.
func (x *Index) bucket(n int) []string {
	return slices.Clone(x.byLen[n])
}
