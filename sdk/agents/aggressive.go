package agents

import (
	"context"
	"math/rand/v2"

	"github.com/lox/arenacore/internal/holdem"
	"github.com/lox/arenacore/internal/match"
)

// AggressiveAgent raises whenever raising is on the menu, shoving all-in
// roughly a quarter of the time; it only calls or checks when raising isn't
// an option, and folds as a last resort.
type AggressiveAgent struct {
	meta match.AgentMeta
	rng  *rand.Rand
}

func NewAggressiveAgent(id string) *AggressiveAgent {
	return &AggressiveAgent{
		meta: match.AgentMeta{ID: id, Version: "1.0.0", DisplayName: "Aggressive", Kind: match.AgentKindLocal},
		rng:  rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

func (a *AggressiveAgent) Meta() match.AgentMeta { return a.meta }

func (a *AggressiveAgent) Decide(_ context.Context, in match.DecideInput[holdem.Observation, holdem.Action]) (match.DecideOutput[holdem.Action], error) {
	var raise, allIn, call, check, fold *holdem.Action
	for i, action := range in.LegalActions {
		switch action.Kind {
		case holdem.ActionRaise:
			raise = &in.LegalActions[i]
		case holdem.ActionAllIn:
			allIn = &in.LegalActions[i]
		case holdem.ActionCall:
			call = &in.LegalActions[i]
		case holdem.ActionCheck:
			check = &in.LegalActions[i]
		case holdem.ActionFold:
			fold = &in.LegalActions[i]
		}
	}

	if raise != nil {
		if allIn != nil && a.rng.IntN(4) == 0 {
			return match.DecideOutput[holdem.Action]{Action: *allIn, Reason: "shove"}, nil
		}
		return match.DecideOutput[holdem.Action]{Action: *raise, Reason: "keep the pressure on"}, nil
	}
	if allIn != nil {
		return match.DecideOutput[holdem.Action]{Action: *allIn, Reason: "shove"}, nil
	}
	if call != nil {
		return match.DecideOutput[holdem.Action]{Action: *call}, nil
	}
	if check != nil {
		return match.DecideOutput[holdem.Action]{Action: *check}, nil
	}
	if fold != nil {
		return match.DecideOutput[holdem.Action]{Action: *fold}, nil
	}
	return match.DecideOutput[holdem.Action]{}, nil
}

var _ match.Agent[holdem.Observation, holdem.Action] = (*AggressiveAgent)(nil)
