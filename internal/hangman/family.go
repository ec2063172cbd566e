// internal/hangman/family.go
//
// Family partitioner. Every guess splits the candidate pool into families
// keyed by the pattern the guessed letter would produce for each word.
// Families are transient: they are computed fresh on every guess and only
// the chosen one survives into the pool.

package hangman

// Family pairs a resulting pattern with the candidate words that produce it.
type Family struct {
	Pattern string
	Words   []string
}

// Size is the number of candidate words in the family.
func (f Family) Size() int { return len(f.Words) }

// Partition groups pool by Reveal(pattern, word, letter).
// Families are returned in first-appearance order and members keep pool
// order. Every word of pool lands in exactly one family.
func Partition(pool []string, pattern string, letter rune) []Family {
	var out []Family
	byKey := make(map[string]int)
	for _, w := range pool {
		key := Reveal(pattern, w, letter)
		i, ok := byKey[key]
		if !ok {
			i = len(out)
			byKey[key] = i
			out = append(out, Family{Pattern: key})
		}
		out[i].Words = append(out[i].Words, w)
	}
	return out
}

// Counts maps each family's pattern to its size.
func Counts(families []Family) map[string]int {
	m := make(map[string]int, len(families))
	for _, f := range families {
		m[f.Pattern] = len(f.Words)
	}
	return m
}
