package match

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/lox/arenacore/internal/gameid"
	"github.com/lox/arenacore/internal/prng"
	"github.com/lox/arenacore/internal/xhash"
)

// DefaultTurnTimeoutMs is the soft per-turn deadline applied when RunOptions
// doesn't specify one.
const DefaultTurnTimeoutMs = 5000

// RunOptions configures one call to Orchestrator.Run.
type RunOptions[C any] struct {
	// MatchID, if empty, is generated.
	MatchID string
	// Seed is committed to in the MatchStartEvent and revealed in the
	// MatchEndEvent. It is the sole source of entropy for the game: no
	// other randomness may influence the trajectory.
	Seed string
	// TurnTimeoutMs bounds every individual agent decision. Defaults to
	// DefaultTurnTimeoutMs.
	TurnTimeoutMs int64
	// GameConfig is passed through to GameDefinition.Reset verbatim.
	GameConfig C
	// OnEvent, if set, is invoked synchronously inside the turn loop for
	// every emitted event, in emission order, before the loop advances.
	OnEvent func(Event)
}

// Orchestrator couples a GameDefinition with a fixed set of Agents and runs
// one match to completion, one agent decision per turn.
type Orchestrator[S, A, O, C any] struct {
	Game   GameDefinition[S, A, O, C]
	Agents []Agent[O, A]
	Clock  quartz.Clock
	Logger zerolog.Logger
}

// New constructs an Orchestrator. clock may be nil, in which case a real
// wall-clock is used; tests should inject quartz.NewMock(t) to control
// timeout behavior deterministically.
func New[S, A, O, C any](game GameDefinition[S, A, O, C], agents []Agent[O, A], clock quartz.Clock, logger zerolog.Logger) (*Orchestrator[S, A, O, C], error) {
	if !game.NumPlayers().Supports(len(agents)) {
		return nil, fmt.Errorf("%w: %s supports %v, got %d agents", ErrAgentCountMismatch, game.ID(), game.NumPlayers(), len(agents))
	}
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Orchestrator[S, A, O, C]{Game: game, Agents: agents, Clock: clock, Logger: logger}, nil
}

// Run executes one match from Reset to a terminal state, emitting events as
// it goes, and returns the completed MatchReport.
func (o *Orchestrator[S, A, O, C]) Run(ctx context.Context, opts RunOptions[C]) (*MatchReport, error) {
	matchID := opts.MatchID
	if matchID == "" {
		matchID = gameid.New()
	}
	turnTimeoutMs := opts.TurnTimeoutMs
	if turnTimeoutMs <= 0 {
		turnTimeoutMs = DefaultTurnTimeoutMs
	}

	seedCommit := xhash.Commit(opts.Seed)
	rng := prng.New(opts.Seed)

	agentSummaries := make([]AgentSummary, len(o.Agents))
	for i, agent := range o.Agents {
		meta := agent.Meta()
		fp, err := meta.Fingerprint()
		if err != nil {
			return nil, fmt.Errorf("match: fingerprint agent %d: %w", i, err)
		}
		agentSummaries[i] = AgentSummary{ID: meta.ID, Version: meta.Version, DisplayName: meta.DisplayName, Fingerprint: fp}
	}

	report := &MatchReport{
		MatchID:     matchID,
		GameID:      o.Game.ID(),
		GameVersion: o.Game.Version(),
		Seed:        opts.Seed,
		SeedCommit:  seedCommit,
		Agents:      agentSummaries,
	}

	emit := func(ev Event) {
		report.Events = append(report.Events, ev)
		if opts.OnEvent != nil {
			opts.OnEvent(ev)
		}
	}

	startedAt := o.Clock.Now().UTC()
	emit(MatchStartEvent{
		Type:        EventTypeMatchStart,
		MatchID:     matchID,
		StartedAt:   startedAt,
		GameID:      o.Game.ID(),
		GameVersion: o.Game.Version(),
		Agents:      agentSummaries,
		SeedCommit:  seedCommit,
		Config:      opts.GameConfig,
	})

	state, err := o.Game.Reset(ResetInput[C]{Seed: opts.Seed, NumPlayers: len(o.Agents), Config: opts.GameConfig})
	if err != nil {
		return nil, fmt.Errorf("match: reset: %w", err)
	}

	matchStart := o.Clock.Now()
	turnIndex := 0

	for {
		if o.Game.IsTerminal(state) {
			break
		}
		pid, ok := o.Game.CurrentPlayer(state)
		if !ok {
			break
		}

		obs, err := o.Game.Observe(state, pid)
		if err != nil {
			return o.finalizeOnStepFailure(report, emit, matchStart, turnIndex, fmt.Errorf("match: observe: %w", err))
		}
		legal, err := o.Game.LegalActions(state, pid)
		if err != nil {
			return o.finalizeOnStepFailure(report, emit, matchStart, turnIndex, fmt.Errorf("match: legal actions: %w", err))
		}

		obsHash, err := xhash.CanonicalHash(obs)
		if err != nil {
			return o.finalizeOnStepFailure(report, emit, matchStart, turnIndex, fmt.Errorf("match: hash observation: %w", err))
		}

		decideStart := o.Clock.Now()
		rawAction, reason, timedOut := o.decide(ctx, pid, DecideInput[O, A]{
			MatchID:      matchID,
			GameID:       o.Game.ID(),
			GameVersion:  o.Game.Version(),
			PlayerIndex:  pid,
			Observation:  obs,
			LegalActions: legal,
			Clock:        ClockInfo{TurnTimeoutMs: turnTimeoutMs},
			Meta:         DecideMeta{TurnIndex: turnIndex},
		}, legal, time.Duration(turnTimeoutMs)*time.Millisecond)
		timingMs := o.Clock.Now().Sub(decideStart).Milliseconds()

		action := rawAction
		illegal := false
		var originalAction any
		legalOK, eqErr := containsAction(legal, rawAction)
		if eqErr != nil {
			return o.finalizeOnStepFailure(report, emit, matchStart, turnIndex, fmt.Errorf("match: compare action: %w", eqErr))
		}
		if !legalOK {
			illegal = true
			originalAction = rawAction
			if len(legal) == 0 {
				return o.finalizeOnStepFailure(report, emit, matchStart, turnIndex, fmt.Errorf("match: no legal actions for player %d", pid))
			}
			action = legal[0]
		}

		stepOut, err := o.Game.Step(StepInput[S, A]{State: state, PlayerIndex: pid, Action: action, Rng: rng})
		if err != nil {
			return o.finalizeOnStepFailure(report, emit, matchStart, turnIndex, fmt.Errorf("%w: %v", ErrGameStepFailed, err))
		}
		state = stepOut.State

		emit(TurnEvent{
			Type:            EventTypeTurn,
			TurnIndex:       turnIndex,
			PlayerIndex:     pid,
			ObservationHash: obsHash,
			Action:          action,
			TimingMs:        timingMs,
			TimedOut:        timedOut,
			IllegalAction:   illegal,
			OriginalAction:  originalAction,
			Reason:          sanitizeReason(reason),
			Events:          stepOut.Events,
		})

		turnIndex++
	}

	results, err := o.Game.Results(state)
	if err != nil {
		return o.finalizeOnStepFailure(report, emit, matchStart, turnIndex, fmt.Errorf("match: results: %w", err))
	}

	totalTimeMs := o.Clock.Now().Sub(matchStart).Milliseconds()
	emit(MatchEndEvent{
		Type:        EventTypeMatchEnd,
		SeedReveal:  opts.Seed,
		Results:     results,
		TotalTurns:  turnIndex,
		TotalTimeMs: totalTimeMs,
	})

	report.Results = results
	report.TotalTurns = turnIndex
	report.TotalTimeMs = totalTimeMs
	return report, nil
}

// decide invokes the current player's agent under a soft deadline. On
// timeout it returns legal[0] with timedOut=true, having abandoned (but not
// waited on) the agent's goroutine; its eventual response, if any, is
// discarded. An agent error return falls back the same way, with the
// failure captured in the reason text.
func (o *Orchestrator[S, A, O, C]) decide(ctx context.Context, pid int, in DecideInput[O, A], legal []A, timeout time.Duration) (action A, reason string, timedOut bool) {
	agent := o.Agents[pid]

	decideCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		out DecideOutput[A]
		err error
	}
	resultCh := make(chan result, 1)
	go func() {
		out, err := agent.Decide(decideCtx, in)
		resultCh <- result{out: out, err: err}
	}()

	timer := o.Clock.NewTimer(timeout)
	defer timer.Stop()

	select {
	case r := <-resultCh:
		if r.err != nil {
			o.Logger.Warn().Err(r.err).Int("playerIndex", pid).Msg("agent decide failed, falling back to first legal action")
			return fallbackAction(legal), fmt.Sprintf("agent error: %v", r.err), false
		}
		return r.out.Action, r.out.Reason, false
	case <-timer.C:
		cancel()
		o.Logger.Warn().Int("playerIndex", pid).Dur("timeout", timeout).Msg("agent decision timed out")
		return fallbackAction(legal), "decision timeout", true
	}
}

func fallbackAction[A any](legal []A) A {
	var zero A
	if len(legal) == 0 {
		return zero
	}
	return legal[0]
}

// containsAction reports whether action is structurally equal (via
// canonical encoding) to any member of legal.
func containsAction[A any](legal []A, action A) (bool, error) {
	actionBytes, err := xhash.CanonicalBytes(action)
	if err != nil {
		return false, err
	}
	for _, candidate := range legal {
		candidateBytes, err := xhash.CanonicalBytes(candidate)
		if err != nil {
			return false, err
		}
		if bytes.Equal(actionBytes, candidateBytes) {
			return true, nil
		}
	}
	return false, nil
}

// finalizeOnStepFailure emits a best-effort MatchEndEvent with whatever
// results are known (none, here) before surfacing the fatal error. A
// failing Step has no retries and is fatal to the match.
func (o *Orchestrator[S, A, O, C]) finalizeOnStepFailure(report *MatchReport, emit func(Event), matchStart time.Time, turnIndex int, stepErr error) (*MatchReport, error) {
	totalTimeMs := o.Clock.Now().Sub(matchStart).Milliseconds()
	results := MatchResults{IsDraw: false}
	emit(MatchEndEvent{
		Type:        EventTypeMatchEnd,
		SeedReveal:  report.Seed,
		Results:     results,
		TotalTurns:  turnIndex,
		TotalTimeMs: totalTimeMs,
	})
	report.Results = results
	report.TotalTurns = turnIndex
	report.TotalTimeMs = totalTimeMs
	return report, stepErr
}
