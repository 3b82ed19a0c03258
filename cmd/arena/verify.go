package main

import (
	"fmt"
	"os"

	"github.com/lox/arenacore/internal/eventlog"
	"github.com/lox/arenacore/internal/holdem"
	"github.com/lox/arenacore/internal/replay"
)

// VerifyCmd replays a JSONL match log against the Hold'em discipline and
// reports every discrepancy found. Exit code 2 on failure.
type VerifyCmd struct {
	Log                      string `arg:"" help:"Path to a JSONL match log"`
	SkipObservationHashCheck bool   `help:"Disable the observation-hash cross-check"`
}

func (c *VerifyCmd) Run() error {
	f, err := os.Open(c.Log)
	if err != nil {
		return fmt.Errorf("arena: open log: %w", err)
	}
	defer f.Close()

	events, err := eventlog.ReadAll(f)
	if err != nil {
		return fmt.Errorf("arena: read log: %w", err)
	}

	game := holdem.New()
	result, err := replay.Verify[holdem.State, holdem.Action, holdem.Observation, holdem.Config](game, events, replay.Options{
		SkipObservationHashCheck: c.SkipObservationHashCheck,
	})
	if err != nil {
		return fmt.Errorf("arena: verify: %w", err)
	}

	fmt.Printf("matchId=%s turnsVerified=%d/%d success=%v\n", result.MatchID, result.TurnsVerified, result.TotalTurns, result.Success)
	for _, e := range result.Errors {
		fmt.Printf("  %s\n", e.Error())
	}

	if !result.Success {
		return fmt.Errorf("%w: %d error(s)", errVerifyFailed, len(result.Errors))
	}
	return nil
}
