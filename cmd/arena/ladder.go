package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lox/arenacore/internal/elo"
	"github.com/lox/arenacore/internal/holdem"
	"github.com/lox/arenacore/internal/match"
)

// LadderCmd runs a round-robin ladder over a set of agents, printing final
// Elo standings.
type LadderCmd struct {
	Agents         []string `arg:"" help:"Agent specs, kind:id, e.g. random:r1 aggressive:a1 chart:c1"`
	Seed           string   `help:"Base seed; per-pair sub-seeds derive from it" default:"arena-ladder"`
	Config         string   `help:"Path to an arena HCL config file"`
	MatchesPerPair int      `help:"Matches to play per pair (overrides config)" default:"0"`
	MaxConcurrent  int      `help:"Max concurrent matches (overrides config)" default:"0"`
}

func (c *LadderCmd) Run() error {
	cfg, err := loadConfig(c.Config)
	if err != nil {
		return err
	}
	matchesPerPair := cfg.Ladder.MatchesPerPair
	if c.MatchesPerPair > 0 {
		matchesPerPair = c.MatchesPerPair
	}
	maxConcurrent := cfg.Ladder.MaxConcurrent
	if c.MaxConcurrent > 0 {
		maxConcurrent = c.MaxConcurrent
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(parseLevel(cfg.Match.LogLevel))

	agentByID := make(map[string]match.Agent[holdem.Observation, holdem.Action])
	var ids []string
	for _, spec := range c.Agents {
		kind, id, ok := strings.Cut(spec, ":")
		if !ok {
			id = kind
		}
		agent, err := resolveAgent(kind, id)
		if err != nil {
			return err
		}
		agentByID[id] = agent
		ids = append(ids, id)
	}

	table := elo.NewTable(cfg.Ladder.KFactor, cfg.Ladder.InitialRating)
	for _, id := range ids {
		table.Ensure(id)
	}

	schedule := elo.Schedule(c.Seed, ids, matchesPerPair)

	holdemConfig := holdem.Config{
		StartingChips: cfg.Holdem.StartingChips,
		SmallBlind:    cfg.Holdem.SmallBlind,
		BigBlind:      cfg.Holdem.BigBlind,
		MaxHands:      cfg.Holdem.MaxHands,
	}

	runner := func(ctx context.Context, pairing elo.Pairing) (elo.Outcome, error) {
		seatA, seatB := agentByID[pairing.AgentA], agentByID[pairing.AgentB]
		if pairing.SwapSeats {
			seatA, seatB = seatB, seatA
		}

		game := holdem.New()
		orch, err := match.New[holdem.State, holdem.Action, holdem.Observation, holdem.Config](
			game, []match.Agent[holdem.Observation, holdem.Action]{seatA, seatB}, nil, logger)
		if err != nil {
			return elo.Draw, err
		}

		report, err := orch.Run(ctx, match.RunOptions[holdem.Config]{
			Seed:          pairing.SubSeed,
			TurnTimeoutMs: int64(cfg.Match.TurnTimeoutMs),
			GameConfig:    holdemConfig,
		})
		if err != nil {
			return elo.Draw, err
		}

		// RunLadder expects the outcome as seen by whichever physical seat 0
		// ended up, not pre-translated to AgentA; it applies the
		// SwapSeats flip itself before recording against AgentA/AgentB.
		return outcomeForSeat(report.Results, 0), nil
	}

	if err := elo.RunLadder(context.Background(), table, schedule, maxConcurrent, runner); err != nil {
		return fmt.Errorf("arena: ladder failed: %w", err)
	}

	for _, p := range table.All() {
		fmt.Printf("%-20s rating=%-6d matches=%-4d wins=%-4d losses=%-4d draws=%-4d\n",
			p.ID, p.Rating, p.Matches, p.Wins, p.Losses, p.Draws)
	}
	return nil
}

// outcomeForSeat reports seatIndex's outcome as an elo.Outcome.
func outcomeForSeat(results match.MatchResults, seatIndex int) elo.Outcome {
	if results.IsDraw {
		return elo.Draw
	}
	if results.Winner != nil && *results.Winner == seatIndex {
		return elo.Win
	}
	return elo.Loss
}
