// Package config provides HCL-backed configuration for the arena CLI:
// per-turn timeouts, Elo ladder tuning, and Hold'em table defaults. A typed
// struct per block, a Default*Config constructor, and a Load*Config that
// falls back to defaults when the file is absent.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// ArenaConfig is the complete configuration for a run of the arena CLI.
type ArenaConfig struct {
	Match  MatchSettings  `hcl:"match,block"`
	Ladder LadderSettings `hcl:"ladder,block"`
	Holdem HoldemSettings `hcl:"holdem,block"`
}

// MatchSettings tunes one orchestrator run.
type MatchSettings struct {
	TurnTimeoutMs int    `hcl:"turn_timeout_ms,optional"`
	LogLevel      string `hcl:"log_level,optional"`
}

// LadderSettings tunes a round-robin ladder.
type LadderSettings struct {
	KFactor        int `hcl:"k_factor,optional"`
	InitialRating  int `hcl:"initial_rating,optional"`
	MatchesPerPair int `hcl:"matches_per_pair,optional"`
	MaxConcurrent  int `hcl:"max_concurrent,optional"`
}

// HoldemSettings tunes the reference discipline. The two stock chip stacks
// (1000/10/20 and 10000/50/100) are exposed as named presets;
// StartingChips/SmallBlind/BigBlind at the top level override whichever
// preset is selected.
type HoldemSettings struct {
	Preset        string `hcl:"preset,optional"`
	StartingChips int    `hcl:"starting_chips,optional"`
	SmallBlind    int    `hcl:"small_blind,optional"`
	BigBlind      int    `hcl:"big_blind,optional"`
	MaxHands      int    `hcl:"max_hands,optional"`
}

// presets are the two reference chip stacks.
var presets = map[string]HoldemSettings{
	"default": {StartingChips: 1000, SmallBlind: 10, BigBlind: 20},
	"deep":    {StartingChips: 10000, SmallBlind: 50, BigBlind: 100},
}

// DefaultArenaConfig returns the configuration used when no file is given.
func DefaultArenaConfig() *ArenaConfig {
	return &ArenaConfig{
		Match: MatchSettings{
			TurnTimeoutMs: 5000,
			LogLevel:      "info",
		},
		Ladder: LadderSettings{
			KFactor:        32,
			InitialRating:  1500,
			MatchesPerPair: 1,
			MaxConcurrent:  1,
		},
		Holdem: HoldemSettings{
			Preset:        "default",
			StartingChips: 1000,
			SmallBlind:    10,
			BigBlind:      20,
			MaxHands:      1,
		},
	}
}

// LoadArenaConfig loads configuration from an HCL file at path, falling
// back to DefaultArenaConfig when the file doesn't exist.
func LoadArenaConfig(path string) (*ArenaConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultArenaConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("config: parse %s: %s", path, diags.Error())
	}

	cfg := DefaultArenaConfig()
	// Chip stack and blinds start unset so applyDefaults fills them from the
	// preset the file selects; values written in the file take precedence.
	cfg.Holdem.StartingChips, cfg.Holdem.SmallBlind, cfg.Holdem.BigBlind = 0, 0, 0
	diags = gohcl.DecodeBody(file.Body, nil, cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("config: decode %s: %s", path, diags.Error())
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *ArenaConfig) applyDefaults() {
	if c.Match.TurnTimeoutMs <= 0 {
		c.Match.TurnTimeoutMs = 5000
	}
	if c.Match.LogLevel == "" {
		c.Match.LogLevel = "info"
	}
	if c.Ladder.KFactor <= 0 {
		c.Ladder.KFactor = 32
	}
	if c.Ladder.InitialRating <= 0 {
		c.Ladder.InitialRating = 1500
	}
	if c.Ladder.MatchesPerPair <= 0 {
		c.Ladder.MatchesPerPair = 1
	}
	if c.Ladder.MaxConcurrent <= 0 {
		c.Ladder.MaxConcurrent = 1
	}

	if preset, ok := presets[c.Holdem.Preset]; ok {
		if c.Holdem.StartingChips <= 0 {
			c.Holdem.StartingChips = preset.StartingChips
		}
		if c.Holdem.SmallBlind <= 0 {
			c.Holdem.SmallBlind = preset.SmallBlind
		}
		if c.Holdem.BigBlind <= 0 {
			c.Holdem.BigBlind = preset.BigBlind
		}
	}
	if c.Holdem.StartingChips <= 0 {
		c.Holdem.StartingChips = 1000
	}
	if c.Holdem.SmallBlind <= 0 {
		c.Holdem.SmallBlind = 10
	}
	if c.Holdem.BigBlind <= 0 {
		c.Holdem.BigBlind = 20
	}
	if c.Holdem.MaxHands <= 0 {
		c.Holdem.MaxHands = 1
	}
}
