// internal/words/words.go
//
// Word list loading for the hangman engine.
//
// Responsibilities:
//   - Read a dictionary file (one word per line) or fall back to the
//     embedded default from the assets package.
//   - Normalize entries: trim, lowercase, drop blanks, comments and
//     anything that is not plain a–z.
//   - Report per-length counts for diagnostics.
//
// The engine itself never validates words; everything it receives has
// passed through here.

package words

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/robalobadob/evilhangman/assets"
)

// ErrEmpty is returned when a source yields no usable words.
var ErrEmpty = errors.New("words: list is empty")

// Load reads the dictionary at path, or the embedded one when path is "".
// Duplicates are kept in first-appearance order exactly once.
func Load(path string) ([]string, error) {
	var (
		list []string
		err  error
	)
	if path != "" {
		list, err = readWordFile(path)
		if err != nil {
			return nil, fmt.Errorf("words: read %s: %w", path, err)
		}
	} else {
		raw, err := assets.DictionaryList()
		if err != nil {
			return nil, fmt.Errorf("words: embedded dictionary: %w", err)
		}
		list = normalize(raw)
	}
	if len(list) == 0 {
		return nil, ErrEmpty
	}
	return list, nil
}

// readWordFile loads one word per line from a file.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var raw []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		raw = append(raw, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return normalize(raw), nil
}

// normalize lowercases and trims lines and keeps valid, unseen words.
func normalize(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		w := strings.TrimSpace(strings.ToLower(line))
		if w == "" || strings.HasPrefix(w, "#") || !isAlpha(w) {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// Stats returns the number of words per length.
func Stats(list []string) map[int]int {
	m := make(map[int]int)
	for _, w := range list {
		m[len(w)]++
	}
	return m
}
