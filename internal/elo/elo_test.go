package elo_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lox/arenacore/internal/elo"
)

func TestExpectedSymmetric(t *testing.T) {
	e := elo.Expected(1500, 1500)
	require.InDelta(t, 0.5, e, 1e-9)

	eHigh := elo.Expected(1600, 1400)
	eLow := elo.Expected(1400, 1600)
	require.InDelta(t, 1.0, eHigh+eLow, 1e-9)
	require.Greater(t, eHigh, eLow)
}

func TestUpdateSymmetricDelta(t *testing.T) {
	newA, newB := elo.Update(1500, 1500, elo.Win, 32)
	require.Equal(t, 1516, newA)
	require.Equal(t, 1484, newB)
	require.Equal(t, (newA - 1500), -(newB - 1500))
}

func TestUpdateDrawNoChangeWhenEven(t *testing.T) {
	newA, newB := elo.Update(1500, 1500, elo.Draw, 32)
	require.Equal(t, 1500, newA)
	require.Equal(t, 1500, newB)
}

func TestTableEnsureDefaultsAndRecordMatch(t *testing.T) {
	table := elo.NewTable(32, 1500)
	a := table.Ensure("alice")
	require.Equal(t, 1500, a.Rating)

	newA, newB := table.RecordMatch("alice", "bob", elo.Win)
	require.Equal(t, 1516, newA.Rating)
	require.Equal(t, 1484, newB.Rating)
	require.Equal(t, 1, newA.Wins)
	require.Equal(t, 1, newB.Losses)

	got, ok := table.Get("alice")
	require.True(t, ok)
	require.Equal(t, newA, got)
}

func TestTableRecordMatchConcurrentSafe(t *testing.T) {
	table := elo.NewTable(32, 1500)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			table.RecordMatch("alice", "bob", elo.Win)
		}()
	}
	wg.Wait()

	alice, _ := table.Get("alice")
	bob, _ := table.Get("bob")
	require.Equal(t, 50, alice.Matches)
	require.Equal(t, 50, bob.Matches)
	require.Equal(t, 50, alice.Wins)
	require.Equal(t, 50, bob.Losses)
}

func TestScheduleRoundRobinPairsAndSeeds(t *testing.T) {
	ids := []string{"a", "b", "c"}
	sched := elo.Schedule("base", ids, 2)
	require.Len(t, sched, 3*2) // 3 pairs * 2 matches each

	seen := map[string]int{}
	for _, p := range sched {
		seen[fmt.Sprintf("%s-%s", p.AgentA, p.AgentB)]++
		require.Equal(t, fmt.Sprintf("base:%s:%s:%d", p.AgentA, p.AgentB, p.MatchNumber), p.SubSeed)
	}
	require.Equal(t, 2, seen["a-b"])
	require.Equal(t, 2, seen["a-c"])
	require.Equal(t, 2, seen["b-c"])

	// Second match in each pair swaps seats.
	for _, p := range sched {
		require.Equal(t, p.MatchNumber%2 == 1, p.SwapSeats)
	}
}

func TestRunLadderRecordsEveryPairing(t *testing.T) {
	table := elo.NewTable(32, 1500)
	sched := elo.Schedule("seed", []string{"a", "b", "c"}, 1)

	err := elo.RunLadder(context.Background(), table, sched, 2, func(_ context.Context, p elo.Pairing) (elo.Outcome, error) {
		return elo.Win, nil
	})
	require.NoError(t, err)

	for _, id := range []string{"a", "b", "c"} {
		p, ok := table.Get(id)
		require.True(t, ok)
		require.Equal(t, 2, p.Matches)
	}
}

func TestRunLadderPropagatesError(t *testing.T) {
	table := elo.NewTable(32, 1500)
	sched := elo.Schedule("seed", []string{"a", "b"}, 1)

	err := elo.RunLadder(context.Background(), table, sched, 1, func(_ context.Context, p elo.Pairing) (elo.Outcome, error) {
		return elo.Loss, fmt.Errorf("boom")
	})
	require.Error(t, err)
}
