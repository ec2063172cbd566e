package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "5175", cfg.Port)
	assert.Equal(t, 14, cfg.JWTExpiresDays)
	assert.Equal(t, 6, cfg.DefaultMaxWrong)
	assert.Equal(t, "hard", cfg.DefaultDifficulty)
	assert.False(t, cfg.Production())
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("NODE_ENV", "production")
	t.Setenv("DEFAULT_MAX_WRONG", "8")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 8, cfg.DefaultMaxWrong)
	assert.True(t, cfg.Production())
}

func TestParseErrors(t *testing.T) {
	t.Setenv("JWT_EXPIRES_DAYS", "soon")
	_, err := Parse()
	assert.ErrorContains(t, err, "parse env:")
}

func TestParseRejectsNonPositiveBudget(t *testing.T) {
	t.Setenv("DEFAULT_MAX_WRONG", "0")
	_, err := Parse()
	assert.Error(t, err)
}
