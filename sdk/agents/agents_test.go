package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lox/arenacore/internal/holdem"
	"github.com/lox/arenacore/internal/match"
	"github.com/lox/arenacore/internal/prng"
)

// playOutHand drives a single full hand to completion using the given agents,
// one per seat, and returns the terminal state. It exercises each agent
// against the real discipline rather than a mock observation.
func playOutHand(t *testing.T, seed string, agentsBySeat []match.Agent[holdem.Observation, holdem.Action]) holdem.State {
	t.Helper()
	g := holdem.New()
	state, err := g.Reset(match.ResetInput[holdem.Config]{
		Seed:       seed,
		NumPlayers: len(agentsBySeat),
		Config:     holdem.Config{StartingChips: 500, SmallBlind: 5, BigBlind: 10, MaxHands: 1},
	})
	require.NoError(t, err)

	rng := prng.New(seed + ":steps")
	for i := 0; i < 500 && !g.IsTerminal(state); i++ {
		actor, ok := g.CurrentPlayer(state)
		require.True(t, ok)
		legal, err := g.LegalActions(state, actor)
		require.NoError(t, err)
		require.NotEmpty(t, legal)

		obs, err := g.Observe(state, actor)
		require.NoError(t, err)

		out, err := agentsBySeat[actor].Decide(context.Background(), match.DecideInput[holdem.Observation, holdem.Action]{
			PlayerIndex:  actor,
			Observation:  obs,
			LegalActions: legal,
		})
		require.NoError(t, err)

		stepOut, err := g.Step(match.StepInput[holdem.State, holdem.Action]{
			State: state, PlayerIndex: actor, Action: out.Action, Rng: rng,
		})
		require.NoError(t, err)
		state = stepOut.State
	}
	require.True(t, g.IsTerminal(state))
	return state
}

func chipTotal(t *testing.T, state holdem.State) int {
	t.Helper()
	g := holdem.New()
	results, err := g.Results(state)
	require.NoError(t, err)
	total := 0
	for _, p := range results.Players {
		total += int(p.Score)
	}
	return total
}

func TestRandomAgentPlaysLegalActionsAndConservesChips(t *testing.T) {
	seats := []match.Agent[holdem.Observation, holdem.Action]{
		NewRandomAgent("a"), NewRandomAgent("b"), NewRandomAgent("c"),
	}
	state := playOutHand(t, "random-agents", seats)
	require.Equal(t, 1500, chipTotal(t, state))
}

func TestFoldAgentAlwaysYieldsToAnyBet(t *testing.T) {
	seats := []match.Agent[holdem.Observation, holdem.Action]{
		NewFoldAgent("a"), NewCallAgent("b"),
	}
	state := playOutHand(t, "fold-vs-call", seats)
	require.Equal(t, 1000, chipTotal(t, state))
	require.True(t, state.Seats[0].Folded)
}

func TestCallAgentNeverFoldsWhenItCanSeeTheNextCard(t *testing.T) {
	seats := []match.Agent[holdem.Observation, holdem.Action]{
		NewCallAgent("a"), NewCallAgent("b"),
	}
	state := playOutHand(t, "call-vs-call", seats)
	require.Equal(t, 1000, chipTotal(t, state))
	for _, seat := range state.Seats {
		require.False(t, seat.Folded)
	}
}

func TestAggressiveAgentNeverRaisesBeyondItsStack(t *testing.T) {
	seats := []match.Agent[holdem.Observation, holdem.Action]{
		NewAggressiveAgent("a"), NewCallAgent("b"), NewCallAgent("c"),
	}
	state := playOutHand(t, "aggro-vs-stations", seats)
	require.Equal(t, 1500, chipTotal(t, state))
	for _, seat := range state.Seats {
		require.GreaterOrEqual(t, seat.Chips, 0)
	}
}

func TestChartAgentConservesChips(t *testing.T) {
	seats := []match.Agent[holdem.Observation, holdem.Action]{
		NewChartAgent("a"), NewChartAgent("b"), NewChartAgent("c"), NewChartAgent("d"),
	}
	state := playOutHand(t, "chart-vs-chart", seats)
	require.Equal(t, 2000, chipTotal(t, state))
}

func TestAllFiveReferenceAgentsSatisfyTheAgentInterface(t *testing.T) {
	var agentsBySeat = []match.Agent[holdem.Observation, holdem.Action]{
		NewRandomAgent("r"), NewFoldAgent("f"), NewCallAgent("c"), NewAggressiveAgent("g"), NewChartAgent("h"),
	}
	state := playOutHand(t, "five-way", agentsBySeat)
	require.Equal(t, 2500, chipTotal(t, state))
}
