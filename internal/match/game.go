// Package match implements the deterministic match core: the GameDefinition
// and Agent contracts every discipline and decision-maker must satisfy, the
// Orchestrator that drives a match turn by turn under a seed-committed PRNG
// stream, and the event model its turn loop emits.
//
// Every discipline plugs in four opaque types: state S, action A,
// observation O, and config C. The orchestrator never inspects them beyond
// passing them through and canonically hashing/comparing them.
package match

import (
	"github.com/lox/arenacore/internal/prng"
)

// PlayerCount describes how many seats a discipline supports. A fixed count
// sets Min == Max.
type PlayerCount struct {
	Min int
	Max int
}

// Supports reports whether n players is a legal player count for this range.
func (pc PlayerCount) Supports(n int) bool {
	return n >= pc.Min && n <= pc.Max
}

// Fixed returns a PlayerCount that supports exactly n players.
func Fixed(n int) PlayerCount {
	return PlayerCount{Min: n, Max: n}
}

// ResetInput carries everything a discipline's Reset needs to produce an
// initial state.
type ResetInput[C any] struct {
	Seed       string
	NumPlayers int
	Config     C
}

// StepInput carries everything a discipline's Step needs to apply one
// player's action. Rng is the orchestrator's single match-lifetime PRNG;
// disciplines that need independent entropy (e.g. reshuffling for a new
// hand) should call Rng.Fork and discard the fork after use, never consume
// from Rng for anything that should remain stable under an unrelated
// refactor of the discipline's draw order.
type StepInput[S, A any] struct {
	State       S
	PlayerIndex int
	Action      A
	Rng         *prng.Rng
}

// StepOutput carries the discipline's new state plus any optional,
// discipline-authored annotations for this turn (e.g. FOLD, STREET,
// SHOWDOWN). Annotations are informational only; the replay verifier does
// not check them.
type StepOutput[S any] struct {
	State  S
	Events []GameAnnotation
}

// GameDefinition is the abstract interface every discipline implements.
// Reset, Observe, LegalActions, CurrentPlayer, and IsTerminal must be pure
// functions of their arguments; Step is pure given the state of Rng at call
// time. Implementations must never retain or mutate process-wide state.
type GameDefinition[S, A, O, C any] interface {
	// ID is the discipline's stable identifier, e.g. "holdem-nl".
	ID() string

	// Version is the discipline's semantic version, embedded in every
	// match's start event so a reader knows exactly which ruleset ran.
	Version() string

	// NumPlayers is the range of player counts this discipline supports.
	NumPlayers() PlayerCount

	// Reset produces a fresh initial state. Fails with
	// ErrInvalidPlayerCount when in.NumPlayers is outside NumPlayers().
	Reset(in ResetInput[C]) (S, error)

	// Observe returns playerIndex's information-hiding projection of state.
	// It must not depend on any value private to another seat.
	Observe(state S, playerIndex int) (O, error)

	// LegalActions returns the actions available to playerIndex in state.
	// An empty result means playerIndex may not act right now.
	LegalActions(state S, playerIndex int) ([]A, error)

	// CurrentPlayer returns the seat that must act next, and false iff
	// state is terminal.
	CurrentPlayer(state S) (playerIndex int, ok bool)

	// Step applies action for playerIndex to state and returns the
	// resulting state. The orchestrator guarantees action is always a
	// member of LegalActions(state, playerIndex): it substitutes a legal
	// fallback before ever calling Step. A discipline that nonetheless
	// detects an internally-inconsistent call should treat it as a fatal
	// implementation bug (panic), never as ordinary control flow.
	Step(in StepInput[S, A]) (StepOutput[S], error)

	// IsTerminal reports whether state has no further turns.
	IsTerminal(state S) bool

	// Results returns the match outcome. Defined only when IsTerminal(state).
	Results(state S) (MatchResults, error)
}
