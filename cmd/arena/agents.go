package main

import (
	"fmt"

	"github.com/lox/arenacore/internal/holdem"
	"github.com/lox/arenacore/internal/match"
	"github.com/lox/arenacore/sdk/agents"
)

// resolveAgent builds a reference holdem agent by kind, as named on the
// command line. The arena CLI only ships the sdk/agents reference
// strategies; LLM/webhook/framework agents are external collaborators a
// caller would wire in by implementing match.Agent themselves.
func resolveAgent(kind, id string) (match.Agent[holdem.Observation, holdem.Action], error) {
	switch kind {
	case "random":
		return agents.NewRandomAgent(id), nil
	case "fold":
		return agents.NewFoldAgent(id), nil
	case "call":
		return agents.NewCallAgent(id), nil
	case "aggressive":
		return agents.NewAggressiveAgent(id), nil
	case "chart":
		return agents.NewChartAgent(id), nil
	default:
		return nil, fmt.Errorf("%w: unknown agent kind %q (want one of random, fold, call, aggressive, chart)", errUnknownAgent, kind)
	}
}
