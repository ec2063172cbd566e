// assets/embed.go
//
// Embedded fallback dictionary so the server and the terminal shell run
// without any word file configured.

package assets

import (
	"bufio"
	"embed"
	"strings"
)

//go:embed dictionary.txt
var FS embed.FS

// readLines returns the trimmed, lowercased, non-comment lines of name.
func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToLower(s))
	}
	return out, sc.Err()
}

// DictionaryList returns the embedded dictionary, one entry per word.
func DictionaryList() ([]string, error) {
	return readLines("dictionary.txt")
}
