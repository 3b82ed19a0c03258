package match

import "errors"

// Sentinel errors for the failure kinds a match can hit. Agent timeouts and
// illegal actions are not among them: the orchestrator recovers from both
// locally and records what happened in the emitted TurnEvent.
var (
	// ErrInvalidPlayerCount is returned by a GameDefinition's Reset when the
	// requested player count falls outside what the discipline supports.
	ErrInvalidPlayerCount = errors.New("match: numPlayers out of supported range")

	// ErrEmptySequence mirrors prng.ErrEmptySequence for game-level picks
	// that don't go through the orchestrator's own Rng.
	ErrEmptySequence = errors.New("match: cannot pick from an empty sequence")

	// ErrGameStepFailed wraps a panic or error raised out of a discipline's
	// Step implementation. It is fatal to the match in progress.
	ErrGameStepFailed = errors.New("match: game step failed")

	// ErrAgentCountMismatch is returned when an Orchestrator is constructed
	// with an agent slice whose length the discipline doesn't support.
	ErrAgentCountMismatch = errors.New("match: agent count does not match numPlayers")

	// ErrResultsNotTerminal is returned when Results is requested on a
	// non-terminal game state.
	ErrResultsNotTerminal = errors.New("match: results requested on non-terminal state")
)
