package hangman

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fam(pattern string, words ...string) Family {
	return Family{Pattern: pattern, Words: words}
}

func TestRank(t *testing.T) {
	fams := []Family{
		fam("a--", "abc"),
		fam("-a-", "bad", "cab"),
		fam("--a", "bba", "cca"),
		fam("aa-", "aab", "aac"),
		fam("---", "xyz", "xyy", "zzz"),
	}
	Rank(fams)

	got := make([]string, len(fams))
	for i, f := range fams {
		got[i] = f.Pattern
	}
	// size desc, then more dashes, then pattern ascending
	assert.Equal(t, []string{"---", "--a", "-a-", "aa-", "a--"}, got)
}

func TestSelect(t *testing.T) {
	ranked := []Family{fam("---", "x", "y"), fam("a--", "z")}
	single := []Family{fam("---", "x")}

	tests := []struct {
		name   string
		fams   []Family
		diff   Difficulty
		round  int
		expect string
	}{
		{"easy odd round takes hardest", ranked, Easy, 1, "---"},
		{"easy even round eases off", ranked, Easy, 2, "a--"},
		{"easy even round single family", single, Easy, 2, "---"},
		{"medium round 2 takes hardest", ranked, Medium, 2, "---"},
		{"medium round 4 eases off", ranked, Medium, 4, "a--"},
		{"medium round 8 eases off", ranked, Medium, 8, "a--"},
		{"hard never eases off", ranked, Hard, 4, "---"},
		{"hard round 2", ranked, Hard, 2, "---"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, Select(tt.fams, tt.diff, tt.round).Pattern)
		})
	}
}

func TestParseDifficulty(t *testing.T) {
	for in, want := range map[string]Difficulty{"easy": Easy, "MEDIUM": Medium, " Hard ": Hard} {
		d, err := ParseDifficulty(in)
		require.NoError(t, err)
		assert.Equal(t, want, d)
	}
	_, err := ParseDifficulty("brutal")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDifficultyString(t *testing.T) {
	assert.Equal(t, "easy", Easy.String())
	assert.Equal(t, "medium", Medium.String())
	assert.Equal(t, "hard", Hard.String())
	assert.False(t, Difficulty(0).Valid())
	assert.True(t, Hard.Valid())
}
