// Package replay implements the replay verifier: given a GameDefinition and
// a match's event stream, it reconstructs the same trajectory and
// cross-checks the seed commitment, observation hashes, action legality, and
// final results. It never mutates the log it reads.
package replay

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lox/arenacore/internal/match"
	"github.com/lox/arenacore/internal/prng"
	"github.com/lox/arenacore/internal/xhash"
)

// ErrorKind classifies one kind of replay discrepancy.
type ErrorKind string

const (
	ErrKindMissingEvent             ErrorKind = "MissingEvent"
	ErrKindSeedMismatch             ErrorKind = "SeedMismatch"
	ErrKindObservationHashMismatch  ErrorKind = "ObservationHashMismatch"
	ErrKindActionIllegal            ErrorKind = "ActionIllegal"
	ErrKindResultsMismatch          ErrorKind = "ResultsMismatch"
	ErrKindStateError               ErrorKind = "StateError"
)

// VerifyError is one accumulated discrepancy. The verifier never stops at
// the first error: it collects all of them.
type VerifyError struct {
	Kind      ErrorKind
	TurnIndex int // -1 when not turn-scoped
	Message   string
}

func (e VerifyError) Error() string {
	if e.TurnIndex >= 0 {
		return fmt.Sprintf("%s (turn %d): %s", e.Kind, e.TurnIndex, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Result is the outcome of one Verify call.
type Result struct {
	Success       bool
	MatchID       string
	Errors        []VerifyError
	TurnsVerified int
	TotalTurns    int
}

// Options tunes the verifier's strictness.
type Options struct {
	// SkipObservationHashCheck disables the observation-hash cross-check,
	// for schemas where observations legitimately contain externally
	// supplied, non-canonicalizable data.
	SkipObservationHashCheck bool
	Logger                   zerolog.Logger
}

// Verify replays events against game and reports every discrepancy found.
func Verify[S, A, O, C any](game match.GameDefinition[S, A, O, C], events []match.Event, opts Options) (Result, error) {
	var result Result
	var start *match.MatchStartEvent
	var end *match.MatchEndEvent
	var turns []match.TurnEvent

	for _, ev := range events {
		switch e := ev.(type) {
		case match.MatchStartEvent:
			start = &e
		case match.TurnEvent:
			turns = append(turns, e)
		case match.MatchEndEvent:
			end = &e
		}
	}

	if start == nil {
		result.Errors = append(result.Errors, VerifyError{Kind: ErrKindMissingEvent, TurnIndex: -1, Message: "no MATCH_START event"})
	}
	if end == nil {
		result.Errors = append(result.Errors, VerifyError{Kind: ErrKindMissingEvent, TurnIndex: -1, Message: "no MATCH_END event"})
	}
	if start == nil || end == nil {
		result.Success = false
		return result, nil
	}

	result.MatchID = start.MatchID
	result.TotalTurns = end.TotalTurns

	if xhash.Commit(end.SeedReveal) != start.SeedCommit {
		result.Errors = append(result.Errors, VerifyError{
			Kind: ErrKindSeedMismatch, TurnIndex: -1,
			Message: fmt.Sprintf("sha256(seedReveal)=%s does not match committed %s", xhash.Commit(end.SeedReveal), start.SeedCommit),
		})
	}

	numPlayers := len(start.Agents)
	var gameConfig C
	if start.Config != nil {
		// The logged config may be a generic map if the log came back off
		// disk; round-trip it into the discipline's concrete config type.
		b, err := json.Marshal(start.Config)
		if err == nil {
			err = json.Unmarshal(b, &gameConfig)
		}
		if err != nil {
			result.Errors = append(result.Errors, VerifyError{Kind: ErrKindStateError, TurnIndex: -1, Message: fmt.Sprintf("decode config failed: %v", err)})
			result.Success = false
			return result, nil
		}
	}
	state, err := game.Reset(match.ResetInput[C]{Seed: end.SeedReveal, NumPlayers: numPlayers, Config: gameConfig})
	if err != nil {
		result.Errors = append(result.Errors, VerifyError{Kind: ErrKindStateError, TurnIndex: -1, Message: fmt.Sprintf("reset failed: %v", err)})
		result.Success = false
		return result, nil
	}
	rng := prng.New(end.SeedReveal)

	for _, turn := range turns {
		pid, ok := game.CurrentPlayer(state)
		if !ok || pid != turn.PlayerIndex {
			result.Errors = append(result.Errors, VerifyError{
				Kind: ErrKindStateError, TurnIndex: turn.TurnIndex,
				Message: fmt.Sprintf("expected current player %d, event says %d (terminal=%v)", pid, turn.PlayerIndex, !ok),
			})
			break
		}

		if !opts.SkipObservationHashCheck {
			obs, err := game.Observe(state, pid)
			if err != nil {
				result.Errors = append(result.Errors, VerifyError{Kind: ErrKindStateError, TurnIndex: turn.TurnIndex, Message: fmt.Sprintf("observe failed: %v", err)})
				break
			}
			obsHash, err := xhash.CanonicalHash(obs)
			if err != nil {
				result.Errors = append(result.Errors, VerifyError{Kind: ErrKindStateError, TurnIndex: turn.TurnIndex, Message: fmt.Sprintf("hash observation failed: %v", err)})
				break
			}
			if obsHash != turn.ObservationHash {
				result.Errors = append(result.Errors, VerifyError{
					Kind: ErrKindObservationHashMismatch, TurnIndex: turn.TurnIndex,
					Message: fmt.Sprintf("recomputed %s, logged %s", obsHash, turn.ObservationHash),
				})
			}
		}

		legal, err := game.LegalActions(state, pid)
		if err != nil {
			result.Errors = append(result.Errors, VerifyError{Kind: ErrKindStateError, TurnIndex: turn.TurnIndex, Message: fmt.Sprintf("legal actions failed: %v", err)})
			break
		}

		action, err := decodeAction[A](turn.Action)
		if err != nil {
			result.Errors = append(result.Errors, VerifyError{Kind: ErrKindStateError, TurnIndex: turn.TurnIndex, Message: fmt.Sprintf("decode action failed: %v", err)})
			break
		}

		legalOK, err := actionIn(legal, action)
		if err != nil {
			result.Errors = append(result.Errors, VerifyError{Kind: ErrKindStateError, TurnIndex: turn.TurnIndex, Message: fmt.Sprintf("compare action failed: %v", err)})
			break
		}
		if !legalOK && !turn.IllegalAction {
			result.Errors = append(result.Errors, VerifyError{
				Kind: ErrKindActionIllegal, TurnIndex: turn.TurnIndex,
				Message: "logged action is not in legalActions and illegalAction was not set",
			})
		}

		stepOut, err := game.Step(match.StepInput[S, A]{State: state, PlayerIndex: pid, Action: action, Rng: rng})
		if err != nil {
			result.Errors = append(result.Errors, VerifyError{Kind: ErrKindStateError, TurnIndex: turn.TurnIndex, Message: fmt.Sprintf("step failed: %v", err)})
			break
		}
		state = stepOut.State
		result.TurnsVerified++
	}

	if result.TurnsVerified == len(turns) && game.IsTerminal(state) {
		actualResults, err := game.Results(state)
		if err != nil {
			result.Errors = append(result.Errors, VerifyError{Kind: ErrKindStateError, TurnIndex: -1, Message: fmt.Sprintf("results failed: %v", err)})
		} else if !resultsEqual(actualResults, end.Results) {
			result.Errors = append(result.Errors, VerifyError{
				Kind: ErrKindResultsMismatch, TurnIndex: -1,
				Message: "recomputed results do not match MATCH_END.results",
			})
		}
	}

	result.Success = len(result.Errors) == 0
	opts.Logger.Debug().
		Str("matchId", result.MatchID).
		Int("turnsVerified", result.TurnsVerified).
		Int("errors", len(result.Errors)).
		Msg("replay verification complete")
	return result, nil
}

// decodeAction re-marshals a generically-typed logged action (e.g. a
// map[string]any produced by JSON decoding the event log) back into A.
func decodeAction[A any](raw any) (A, error) {
	var action A
	b, err := json.Marshal(raw)
	if err != nil {
		return action, err
	}
	if err := json.Unmarshal(b, &action); err != nil {
		return action, err
	}
	return action, nil
}

func actionIn[A any](legal []A, action A) (bool, error) {
	actionBytes, err := xhash.CanonicalBytes(action)
	if err != nil {
		return false, err
	}
	for _, candidate := range legal {
		candidateBytes, err := xhash.CanonicalBytes(candidate)
		if err != nil {
			return false, err
		}
		if string(candidateBytes) == string(actionBytes) {
			return true, nil
		}
	}
	return false, nil
}

func resultsEqual(a, b match.MatchResults) bool {
	ah, errA := xhash.CanonicalHash(a)
	bh, errB := xhash.CanonicalHash(b)
	if errA != nil || errB != nil {
		return false
	}
	return ah == bh
}
