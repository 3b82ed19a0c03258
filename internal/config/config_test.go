package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultArenaConfig(t *testing.T) {
	cfg := DefaultArenaConfig()
	require.Equal(t, 5000, cfg.Match.TurnTimeoutMs)
	require.Equal(t, 32, cfg.Ladder.KFactor)
	require.Equal(t, 1500, cfg.Ladder.InitialRating)
	require.Equal(t, 1000, cfg.Holdem.StartingChips)
}

func TestLoadArenaConfigMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := LoadArenaConfig(filepath.Join(t.TempDir(), "does-not-exist.hcl"))
	require.NoError(t, err)
	require.Equal(t, DefaultArenaConfig(), cfg)
}

func TestLoadArenaConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arena.hcl")
	contents := `
match {
  turn_timeout_ms = 2500
}

ladder {
  k_factor         = 16
  matches_per_pair = 4
  max_concurrent   = 8
}

holdem {
  preset = "deep"
}
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := LoadArenaConfig(path)
	require.NoError(t, err)
	require.Equal(t, 2500, cfg.Match.TurnTimeoutMs)
	require.Equal(t, 16, cfg.Ladder.KFactor)
	require.Equal(t, 4, cfg.Ladder.MatchesPerPair)
	require.Equal(t, 8, cfg.Ladder.MaxConcurrent)
	require.Equal(t, 10000, cfg.Holdem.StartingChips)
	require.Equal(t, 50, cfg.Holdem.SmallBlind)
	require.Equal(t, 100, cfg.Holdem.BigBlind)
}
