// Package rps is a minimal two-player GameDefinition used to exercise the
// orchestrator generically (timeout fallback, illegal-action fallback, draw
// scenarios) without paying the complexity cost of Hold'em for every
// orchestrator-level test. It exists as test support for internal/match and
// internal/replay rather than as a shipped discipline.
package rps

import (
	"fmt"

	"github.com/lox/arenacore/internal/match"
)

// Move is the action type: one of "rock", "paper", "scissors".
type Move string

const (
	Rock     Move = "rock"
	Paper    Move = "paper"
	Scissors Move = "scissors"
)

var allMoves = []Move{Rock, Paper, Scissors}

// Config is empty; RPS takes no parameters.
type Config struct{}

// Observation tells a player whose turn it is and how many rounds remain.
// There is no private information to hide in RPS.
type Observation struct {
	RoundIndex  int `json:"roundIndex"`
	RoundsTotal int `json:"roundsTotal"`
	YourIndex   int `json:"yourIndex"`
}

// State holds the moves submitted so far for the current round and the
// running per-player win tally.
type State struct {
	RoundsTotal int
	RoundIndex  int
	Moves       [2]*Move
	Wins        [2]int
}

// Game implements match.GameDefinition[State, Move, Observation, Config].
// Rounds is the number of rounds played; the match is terminal once all
// rounds have resolved.
type Game struct {
	Rounds int
}

// New returns an n-round rock-paper-scissors discipline.
func New(rounds int) *Game {
	if rounds <= 0 {
		rounds = 1
	}
	return &Game{Rounds: rounds}
}

func (g *Game) ID() string      { return "rps" }
func (g *Game) Version() string { return "1.0.0" }

func (g *Game) NumPlayers() match.PlayerCount { return match.Fixed(2) }

func (g *Game) Reset(in match.ResetInput[Config]) (State, error) {
	if in.NumPlayers != 2 {
		return State{}, match.ErrInvalidPlayerCount
	}
	return State{RoundsTotal: g.Rounds}, nil
}

func (g *Game) Observe(state State, playerIndex int) (Observation, error) {
	return Observation{RoundIndex: state.RoundIndex, RoundsTotal: state.RoundsTotal, YourIndex: playerIndex}, nil
}

func (g *Game) LegalActions(state State, playerIndex int) ([]Move, error) {
	if g.IsTerminal(state) {
		return nil, nil
	}
	if state.Moves[playerIndex] != nil {
		return nil, nil
	}
	return append([]Move(nil), allMoves...), nil
}

func (g *Game) CurrentPlayer(state State) (int, bool) {
	if g.IsTerminal(state) {
		return 0, false
	}
	for i := 0; i < 2; i++ {
		if state.Moves[i] == nil {
			return i, true
		}
	}
	return 0, false
}

func (g *Game) Step(in match.StepInput[State, Move]) (match.StepOutput[State], error) {
	state := in.State
	move := in.Action
	state.Moves[in.PlayerIndex] = &move

	var events []match.GameAnnotation
	if state.Moves[0] != nil && state.Moves[1] != nil {
		winner := beats(*state.Moves[0], *state.Moves[1])
		switch winner {
		case 0:
			state.Wins[0]++
		case 1:
			state.Wins[1]++
		}
		events = append(events, match.GameAnnotation{Type: "ROUND_RESULT", Data: map[string]any{
			"round": state.RoundIndex, "p0": string(*state.Moves[0]), "p1": string(*state.Moves[1]),
		}})
		state.RoundIndex++
		state.Moves[0] = nil
		state.Moves[1] = nil
	}
	return match.StepOutput[State]{State: state, Events: events}, nil
}

func (g *Game) IsTerminal(state State) bool {
	return state.RoundIndex >= state.RoundsTotal
}

func (g *Game) Results(state State) (match.MatchResults, error) {
	if !g.IsTerminal(state) {
		return match.MatchResults{}, match.ErrResultsNotTerminal
	}
	switch {
	case state.Wins[0] > state.Wins[1]:
		winner := 0
		return match.MatchResults{
			Players: []match.PlayerResult{
				{PlayerIndex: 0, Score: 1, Rank: 1},
				{PlayerIndex: 1, Score: 0, Rank: 2},
			},
			Winner: &winner,
		}, nil
	case state.Wins[1] > state.Wins[0]:
		winner := 1
		return match.MatchResults{
			Players: []match.PlayerResult{
				{PlayerIndex: 0, Score: 0, Rank: 2},
				{PlayerIndex: 1, Score: 1, Rank: 1},
			},
			Winner: &winner,
		}, nil
	default:
		return match.MatchResults{
			Players: []match.PlayerResult{
				{PlayerIndex: 0, Score: 0.5, Rank: 1},
				{PlayerIndex: 1, Score: 0.5, Rank: 1},
			},
			IsDraw: true,
		}, nil
	}
}

// beats returns 0 if a beats b, 1 if b beats a, -1 on a draw.
func beats(a, b Move) int {
	if a == b {
		return -1
	}
	wins := map[Move]Move{Rock: Scissors, Paper: Rock, Scissors: Paper}
	if wins[a] == b {
		return 0
	}
	return 1
}

var _ match.GameDefinition[State, Move, Observation, Config] = (*Game)(nil)
var _ fmt.Stringer = Move("")

func (m Move) String() string { return string(m) }
