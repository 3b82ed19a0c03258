package agents

import (
	"context"

	"github.com/lox/arenacore/internal/holdem"
	"github.com/lox/arenacore/internal/match"
)

// FoldAgent folds whenever it can, checking for free when there's nothing to
// call. A useful lower-bound opponent for ladder calibration.
type FoldAgent struct {
	meta match.AgentMeta
}

func NewFoldAgent(id string) *FoldAgent {
	return &FoldAgent{meta: match.AgentMeta{ID: id, Version: "1.0.0", DisplayName: "Fold", Kind: match.AgentKindLocal}}
}

func (a *FoldAgent) Meta() match.AgentMeta { return a.meta }

func (a *FoldAgent) Decide(_ context.Context, in match.DecideInput[holdem.Observation, holdem.Action]) (match.DecideOutput[holdem.Action], error) {
	for _, action := range in.LegalActions {
		if action.Kind == holdem.ActionCheck {
			return match.DecideOutput[holdem.Action]{Action: action, Reason: "check when free"}, nil
		}
	}
	for _, action := range in.LegalActions {
		if action.Kind == holdem.ActionFold {
			return match.DecideOutput[holdem.Action]{Action: action, Reason: "fold to any bet"}, nil
		}
	}
	if len(in.LegalActions) > 0 {
		return match.DecideOutput[holdem.Action]{Action: in.LegalActions[0]}, nil
	}
	return match.DecideOutput[holdem.Action]{}, nil
}

// CallAgent (a "calling station") checks or calls whenever possible and only
// folds when it has no other legal option.
type CallAgent struct {
	meta match.AgentMeta
}

func NewCallAgent(id string) *CallAgent {
	return &CallAgent{meta: match.AgentMeta{ID: id, Version: "1.0.0", DisplayName: "CallingStation", Kind: match.AgentKindLocal}}
}

func (a *CallAgent) Meta() match.AgentMeta { return a.meta }

func (a *CallAgent) Decide(_ context.Context, in match.DecideInput[holdem.Observation, holdem.Action]) (match.DecideOutput[holdem.Action], error) {
	for _, action := range in.LegalActions {
		if action.Kind == holdem.ActionCheck || action.Kind == holdem.ActionCall {
			return match.DecideOutput[holdem.Action]{Action: action, Reason: "always see the next card"}, nil
		}
	}
	for _, action := range in.LegalActions {
		if action.Kind == holdem.ActionAllIn {
			return match.DecideOutput[holdem.Action]{Action: action, Reason: "call with remaining chips"}, nil
		}
	}
	if len(in.LegalActions) > 0 {
		return match.DecideOutput[holdem.Action]{Action: in.LegalActions[0]}, nil
	}
	return match.DecideOutput[holdem.Action]{}, nil
}

var (
	_ match.Agent[holdem.Observation, holdem.Action] = (*FoldAgent)(nil)
	_ match.Agent[holdem.Observation, holdem.Action] = (*CallAgent)(nil)
)
