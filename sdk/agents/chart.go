package agents

import (
	"context"
	"fmt"

	"github.com/lox/arenacore/internal/holdem"
	"github.com/lox/arenacore/internal/match"
	"github.com/lox/arenacore/internal/prng"
)

// equitySamples is how many Monte-Carlo trials back each postflop decision.
const equitySamples = 200

// ChartAgent plays a static preflop strategy chart keyed off
// holdem.CategorizeHoleCards, then switches to a Monte-Carlo equity
// estimate postflop: bet for value on strong equity, continue at a cheap
// price with live equity, and fold the rest. Its equity sampling draws from
// a PRNG derived from (matchId, turnIndex), so whole matches against it
// stay reproducible.
type ChartAgent struct {
	meta match.AgentMeta
}

func NewChartAgent(id string) *ChartAgent {
	return &ChartAgent{meta: match.AgentMeta{ID: id, Version: "1.0.0", DisplayName: "Chart", Kind: match.AgentKindLocal}}
}

func (a *ChartAgent) Meta() match.AgentMeta { return a.meta }

func (a *ChartAgent) Decide(_ context.Context, in match.DecideInput[holdem.Observation, holdem.Action]) (match.DecideOutput[holdem.Action], error) {
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

	if len(in.Observation.HoleCards) != 2 {
		return a.checkOrFold(check, fold)
	}
	category := holdem.CategorizeHoleCards(in.Observation.HoleCards[0], in.Observation.HoleCards[1])

	if in.Observation.Street != holdem.Preflop.String() {
		return a.postflopDecision(in, raise, allIn, call, check, fold)
	}

	switch category {
	case holdem.CategoryPremium:
		if raise != nil {
			return match.DecideOutput[holdem.Action]{Action: *raise, Reason: "premium hand"}, nil
		}
		if allIn != nil {
			return match.DecideOutput[holdem.Action]{Action: *allIn, Reason: "premium hand, shove"}, nil
		}
		if call != nil {
			return match.DecideOutput[holdem.Action]{Action: *call, Reason: "premium hand"}, nil
		}
	case holdem.CategoryStrong, holdem.CategoryMedium:
		if check != nil {
			return match.DecideOutput[holdem.Action]{Action: *check, Reason: "see a free flop"}, nil
		}
		if a.priceIsCheap(in.Observation, in.PlayerIndex) && call != nil {
			return match.DecideOutput[holdem.Action]{Action: *call, Reason: "cheap price to see a flop"}, nil
		}
	case holdem.CategoryWeak:
		if check != nil {
			return match.DecideOutput[holdem.Action]{Action: *check, Reason: "free look"}, nil
		}
	}
	return a.checkOrFold(check, fold)
}

func (a *ChartAgent) postflopDecision(
	in match.DecideInput[holdem.Observation, holdem.Action],
	raise, allIn, call, check, fold *holdem.Action,
) (match.DecideOutput[holdem.Action], error) {
	hole := [2]holdem.Card{in.Observation.HoleCards[0], in.Observation.HoleCards[1]}
	rng := prng.New(fmt.Sprintf("%s:%d", in.MatchID, in.Meta.TurnIndex))
	eq := holdem.Equity(rng, hole, in.Observation.Community, equitySamples)

	if eq.Win > 0.70 {
		if raise != nil {
			return match.DecideOutput[holdem.Action]{Action: *raise, Reason: "strong equity, bet for value"}, nil
		}
		if call != nil {
			return match.DecideOutput[holdem.Action]{Action: *call, Reason: "strong equity, call"}, nil
		}
		if allIn != nil {
			return match.DecideOutput[holdem.Action]{Action: *allIn, Reason: "strong equity, shove"}, nil
		}
	}
	if check != nil {
		return match.DecideOutput[holdem.Action]{Action: *check, Reason: "no reason to bet"}, nil
	}
	if eq.Win+eq.Tie > 0.45 && a.priceIsCheap(in.Observation, in.PlayerIndex) && call != nil {
		return match.DecideOutput[holdem.Action]{Action: *call, Reason: "enough equity to continue"}, nil
	}
	return a.checkOrFold(check, fold)
}

func (a *ChartAgent) priceIsCheap(obs holdem.Observation, seat int) bool {
	for _, s := range obs.Seats {
		if s.Seat == seat {
			toCall := obs.CurrentBet - s.CurrentBet
			return s.Chips > 0 && toCall*20 <= s.Chips
		}
	}
	return false
}

func (a *ChartAgent) checkOrFold(check, fold *holdem.Action) (match.DecideOutput[holdem.Action], error) {
	if check != nil {
		return match.DecideOutput[holdem.Action]{Action: *check, Reason: "default check"}, nil
	}
	if fold != nil {
		return match.DecideOutput[holdem.Action]{Action: *fold, Reason: "not worth the price"}, nil
	}
	return match.DecideOutput[holdem.Action]{}, nil
}

var _ match.Agent[holdem.Observation, holdem.Action] = (*ChartAgent)(nil)
