package replay_test

import (
	"context"
	"testing"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/lox/arenacore/internal/match"
	"github.com/lox/arenacore/internal/replay"
	"github.com/lox/arenacore/internal/rps"
)

type fixedAgent struct {
	meta  match.AgentMeta
	moves []rps.Move
	i     int
}

func (a *fixedAgent) Meta() match.AgentMeta { return a.meta }

func (a *fixedAgent) Decide(_ context.Context, in match.DecideInput[rps.Observation, rps.Move]) (match.DecideOutput[rps.Move], error) {
	move := a.moves[a.i%len(a.moves)]
	a.i++
	return match.DecideOutput[rps.Move]{Action: move}, nil
}

func runMatch(t *testing.T, seed string) *match.MatchReport {
	t.Helper()
	game := rps.New(3)
	agents := []match.Agent[rps.Observation, rps.Move]{
		&fixedAgent{meta: match.AgentMeta{ID: "p0", Version: "1"}, moves: []rps.Move{rps.Rock, rps.Paper, rps.Scissors}},
		&fixedAgent{meta: match.AgentMeta{ID: "p1", Version: "1"}, moves: []rps.Move{rps.Scissors, rps.Rock, rps.Scissors}},
	}
	orch, err := match.New[rps.State, rps.Move, rps.Observation, rps.Config](game, agents, quartz.NewReal(), zerolog.Nop())
	require.NoError(t, err)
	report, err := orch.Run(context.Background(), match.RunOptions[rps.Config]{Seed: seed})
	require.NoError(t, err)
	return report
}

func TestVerifySucceedsOnUntamperedLog(t *testing.T) {
	report := runMatch(t, "replay-seed")
	result, err := replay.Verify[rps.State, rps.Move, rps.Observation, rps.Config](rps.New(3), report.Events, replay.Options{})
	require.NoError(t, err)
	require.True(t, result.Success, "%+v", result.Errors)
	require.Equal(t, report.TotalTurns, result.TurnsVerified)
}

func TestVerifyCatchesTamperedAction(t *testing.T) {
	report := runMatch(t, "replay-seed-2")
	events := append([]match.Event(nil), report.Events...)
	for i, ev := range events {
		if te, ok := ev.(match.TurnEvent); ok {
			te.Action = rps.Move("spock")
			te.IllegalAction = false
			events[i] = te
			break
		}
	}
	result, err := replay.Verify[rps.State, rps.Move, rps.Observation, rps.Config](rps.New(3), events, replay.Options{})
	require.NoError(t, err)
	require.False(t, result.Success)
	found := false
	for _, e := range result.Errors {
		if e.Kind == replay.ErrKindActionIllegal {
			found = true
		}
	}
	require.True(t, found)
}

func TestVerifyCatchesSeedMismatch(t *testing.T) {
	report := runMatch(t, "replay-seed-3")
	events := append([]match.Event(nil), report.Events...)
	for i, ev := range events {
		if ee, ok := ev.(match.MatchEndEvent); ok {
			ee.SeedReveal = "wrong-seed"
			events[i] = ee
		}
	}
	result, err := replay.Verify[rps.State, rps.Move, rps.Observation, rps.Config](rps.New(3), events, replay.Options{})
	require.NoError(t, err)
	require.False(t, result.Success)
	found := false
	for _, e := range result.Errors {
		if e.Kind == replay.ErrKindSeedMismatch {
			found = true
		}
	}
	require.True(t, found)
}

func TestVerifyReportsMissingEvents(t *testing.T) {
	result, err := replay.Verify[rps.State, rps.Move, rps.Observation, rps.Config](rps.New(3), nil, replay.Options{})
	require.NoError(t, err)
	require.False(t, result.Success)
	require.NotEmpty(t, result.Errors)
}
