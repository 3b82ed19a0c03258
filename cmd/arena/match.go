package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lox/arenacore/internal/config"
	"github.com/lox/arenacore/internal/eventlog"
	"github.com/lox/arenacore/internal/holdem"
	"github.com/lox/arenacore/internal/match"
)

// MatchCmd runs one Hold'em match between a fixed set of agents and writes
// its event log as JSONL.
type MatchCmd struct {
	Agents  []string `arg:"" help:"Agent specs, kind:id, e.g. random:r1 aggressive:a1"`
	Seed    string   `help:"Seed committed to at match start and revealed at match end" default:""`
	Config  string   `help:"Path to an arena HCL config file"`
	Out     string   `help:"Path to write the JSONL event log" default:"match.jsonl"`
	MatchID string   `help:"Explicit match id (generated if empty)"`
}

func (c *MatchCmd) Run() error {
	cfg, err := loadConfig(c.Config)
	if err != nil {
		return err
	}

	seed := c.Seed
	if seed == "" {
		seed = fmt.Sprintf("arena-match-%d", time.Now().UnixNano())
	}

	agentList := make([]match.Agent[holdem.Observation, holdem.Action], len(c.Agents))
	for i, spec := range c.Agents {
		kind, id, ok := strings.Cut(spec, ":")
		if !ok {
			id = kind
		}
		agent, err := resolveAgent(kind, id)
		if err != nil {
			return err
		}
		agentList[i] = agent
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(parseLevel(cfg.Match.LogLevel))

	game := holdem.New()
	orch, err := match.New[holdem.State, holdem.Action, holdem.Observation, holdem.Config](game, agentList, nil, logger)
	if err != nil {
		return err
	}

	writer, err := eventlog.NewWriter(c.Out, 1)
	if err != nil {
		return err
	}
	defer writer.Close()

	holdemConfig := holdem.Config{
		StartingChips: cfg.Holdem.StartingChips,
		SmallBlind:    cfg.Holdem.SmallBlind,
		BigBlind:      cfg.Holdem.BigBlind,
		MaxHands:      cfg.Holdem.MaxHands,
	}

	report, err := orch.Run(context.Background(), match.RunOptions[holdem.Config]{
		MatchID:       c.MatchID,
		Seed:          seed,
		TurnTimeoutMs: int64(cfg.Match.TurnTimeoutMs),
		GameConfig:    holdemConfig,
		OnEvent: func(ev match.Event) {
			if werr := writer.WriteEvent(ev); werr != nil {
				logger.Error().Err(werr).Msg("arena: write event failed")
			}
		},
	})
	if err != nil {
		return fmt.Errorf("arena: match failed: %w", err)
	}

	logger.Info().
		Str("matchId", report.MatchID).
		Int("totalTurns", report.TotalTurns).
		Int64("totalTimeMs", report.TotalTimeMs).
		Msg("arena: match complete")
	return nil
}

func loadConfig(path string) (*config.ArenaConfig, error) {
	if path == "" {
		return config.DefaultArenaConfig(), nil
	}
	return config.LoadArenaConfig(path)
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
