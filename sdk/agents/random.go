// Package agents holds reference Agent implementations for the Hold'em
// discipline: simple fixed strategies useful as ladder baselines and
// orchestrator test fixtures. Agents are explicitly permitted their own
// nondeterminism (only the match core's own PRNG stream must replay
// bit-for-bit), so RandomAgent and AggressiveAgent lean on math/rand/v2
// rather than the deterministic prng package; ChartAgent's equity sampling
// uses a prng stream seeded from the match id and turn index.
package agents

import (
	"context"
	"math/rand/v2"

	"github.com/lox/arenacore/internal/holdem"
	"github.com/lox/arenacore/internal/match"
)

// RandomAgent picks uniformly among its legal actions each turn. Raises and
// all-ins use the fixed amounts on the legal menu (the minimum raise or the
// full stack); no amount in between is chosen.
type RandomAgent struct {
	meta match.AgentMeta
	rng  *rand.Rand
}

func NewRandomAgent(id string) *RandomAgent {
	return &RandomAgent{
		meta: match.AgentMeta{ID: id, Version: "1.0.0", DisplayName: "Random", Kind: match.AgentKindLocal},
		rng:  rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

func (a *RandomAgent) Meta() match.AgentMeta { return a.meta }

func (a *RandomAgent) Decide(_ context.Context, in match.DecideInput[holdem.Observation, holdem.Action]) (match.DecideOutput[holdem.Action], error) {
	if len(in.LegalActions) == 0 {
		return match.DecideOutput[holdem.Action]{Action: holdem.Action{Kind: holdem.ActionFold}}, nil
	}
	action := in.LegalActions[a.rng.IntN(len(in.LegalActions))]
	return match.DecideOutput[holdem.Action]{Action: action, Reason: "random choice among legal actions"}, nil
}

var _ match.Agent[holdem.Observation, holdem.Action] = (*RandomAgent)(nil)
