package elo

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Pairing is one scheduled match in a round-robin ladder: a pair of agent
// ids, a match number within that pair, whether to swap seats this match,
// and the deterministic sub-seed to run it under.
type Pairing struct {
	AgentA, AgentB string
	MatchNumber    int
	SwapSeats      bool
	SubSeed        string
}

// Schedule enumerates {(i,j): i<j} over agentIDs in lexicographic index
// order and runs matchesPerPair matches per pair, alternating seating on
// odd-indexed matches. Each pairing's sub-seed is the
// concatenation baseSeed ":" agentIdA ":" agentIdB ":" matchNumber, making
// the whole schedule a pure function of (baseSeed, agentIDs, matchesPerPair).
func Schedule(baseSeed string, agentIDs []string, matchesPerPair int) []Pairing {
	if matchesPerPair <= 0 {
		matchesPerPair = 1
	}
	var pairings []Pairing
	for i := 0; i < len(agentIDs); i++ {
		for j := i + 1; j < len(agentIDs); j++ {
			a, b := agentIDs[i], agentIDs[j]
			for m := 0; m < matchesPerPair; m++ {
				pairings = append(pairings, Pairing{
					AgentA:      a,
					AgentB:      b,
					MatchNumber: m,
					SwapSeats:   m%2 == 1,
					SubSeed:     fmt.Sprintf("%s:%s:%s:%d", baseSeed, a, b, m),
				})
			}
		}
	}
	return pairings
}

// MatchRunner plays one pairing and returns the outcome (Win/Draw/Loss) as
// seen by whichever agent occupies physical seat 0. RunLadder itself
// un-swaps this back to AgentA's perspective before recording, using
// pairing.SwapSeats.
type MatchRunner func(ctx context.Context, pairing Pairing) (Outcome, error)

// RunLadder executes every pairing in schedule with up to maxConcurrent
// matches in flight at once. Each match holds its own rng, game state, and
// event stream; the only cross-match shared mutable state is table, and
// every RecordMatch call against it is serialized. It returns the first error
// encountered, if any, after waiting for in-flight matches to finish.
func RunLadder(ctx context.Context, table *Table, schedule []Pairing, maxConcurrent int, run MatchRunner) error {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	sem := semaphore.NewWeighted(int64(maxConcurrent))
	g, gctx := errgroup.WithContext(ctx)

	for _, pairing := range schedule {
		pairing := pairing
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)

			outcome, err := run(gctx, pairing)
			if err != nil {
				return fmt.Errorf("elo: match %s vs %s (#%d): %w", pairing.AgentA, pairing.AgentB, pairing.MatchNumber, err)
			}

			a, b := pairing.AgentA, pairing.AgentB
			recordedOutcome := outcome
			if pairing.SwapSeats {
				// The MatchRunner reports the outcome as seen by the seat
				// assignment it actually used; RecordMatch always takes it
				// from AgentA's perspective, so swapped seating flips sign.
				recordedOutcome = 1 - outcome
			}
			table.RecordMatch(a, b, recordedOutcome)
			return nil
		})
	}

	return g.Wait()
}
