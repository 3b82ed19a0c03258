package holdem

import (
	"fmt"
	"sort"

	"github.com/lox/arenacore/internal/match"
	"github.com/lox/arenacore/internal/prng"
)

const (
	DefaultStartingChips = 1000
	DefaultSmallBlind    = 10
	DefaultBigBlind      = 20
)

// Config parameterizes one Hold'em match. MaxHands == 0 plays hands until
// only one seat retains chips.
type Config struct {
	StartingChips int `json:"startingChips,omitempty"`
	SmallBlind    int `json:"smallBlind,omitempty"`
	BigBlind      int `json:"bigBlind,omitempty"`
	MaxHands      int `json:"maxHands,omitempty"`
}

// SeatView is seat's publicly visible table state.
type SeatView struct {
	Seat          int    `json:"seat"`
	Chips         int    `json:"chips"`
	CurrentBet    int    `json:"currentBet"`
	TotalInvested int    `json:"totalInvested"`
	Folded        bool   `json:"folded"`
	AllIn         bool   `json:"allIn"`
	Position      string `json:"position,omitempty"`
}

// Observation is one seat's information-hiding view of the table: its own
// hole cards, the shared board, and every seat's public betting state.
type Observation struct {
	YourSeat   int        `json:"yourSeat"`
	HandNumber int        `json:"handNumber"`
	Street     string     `json:"street"`
	Community  []Card     `json:"community"`
	HoleCards  []Card     `json:"holeCards"`
	Seats      []SeatView `json:"seats"`
	CurrentBet int        `json:"currentBet"`
	MinRaiseTo int        `json:"minRaiseTo"`
	PotTotal   int        `json:"potTotal"`
	DealerSeat int        `json:"dealerSeat"`
}

// State is the complete table state. Reset, Observe, LegalActions, and
// CurrentPlayer treat it as read-only; only Step mutates it, in place.
type State struct {
	Config     Config
	HandNumber int
	DealerSeat int
	Street     Street
	Community  []Card
	Burn       []Card
	Deck       *Deck
	HoleCards  map[int][2]Card
	Seats      []SeatState
	Positions  map[int]Position
	Betting    *BettingState
	ToAct      int
	Terminal   bool

	// LastAwards and LastBoard capture the most recently completed hand's
	// payouts and final board, for step annotations; they are never exposed
	// through Observe.
	LastAwards []SeatAward
	LastBoard  []Card
}

// Game is the No-Limit Texas Hold'em reference discipline.
type Game struct{}

func New() *Game { return &Game{} }

func (g *Game) ID() string      { return "holdem-nl" }
func (g *Game) Version() string { return "1.0.0" }

func (g *Game) NumPlayers() match.PlayerCount {
	return match.PlayerCount{Min: 2, Max: 6}
}

func (g *Game) Reset(in match.ResetInput[Config]) (State, error) {
	n := in.NumPlayers
	if !g.NumPlayers().Supports(n) {
		return State{}, match.ErrInvalidPlayerCount
	}
	cfg := in.Config
	if cfg.StartingChips <= 0 {
		cfg.StartingChips = DefaultStartingChips
	}
	if cfg.SmallBlind <= 0 {
		cfg.SmallBlind = DefaultSmallBlind
	}
	if cfg.BigBlind <= 0 {
		cfg.BigBlind = DefaultBigBlind
	}

	seats := make([]SeatState, n)
	for i := range seats {
		seats[i] = SeatState{Seat: i, Chips: cfg.StartingChips}
	}

	// The button starts at seat 0 and rotates from there; keeping the first
	// hand's positions independent of the seed makes seat-indexed scenarios
	// (heads-up: seat 0 posts the small blind) stable across seeds.
	rng := prng.New(in.Seed)
	state := State{Config: cfg, Seats: seats}
	startHand(&state, rng, 0)
	advance(&state, rng)
	return state, nil
}

func (g *Game) Observe(state State, playerIndex int) (Observation, error) {
	if playerIndex < 0 || playerIndex >= len(state.Seats) {
		return Observation{}, fmt.Errorf("holdem: seat %d out of range", playerIndex)
	}
	obs := Observation{
		YourSeat:   playerIndex,
		HandNumber: state.HandNumber,
		Street:     state.Street.String(),
		Community:  append([]Card(nil), state.Community...),
		DealerSeat: state.DealerSeat,
	}
	if hole, ok := state.HoleCards[playerIndex]; ok {
		obs.HoleCards = []Card{hole[0], hole[1]}
	}
	if state.Betting != nil {
		obs.CurrentBet = state.Betting.CurrentBet
		obs.MinRaiseTo = state.Betting.MinRaiseTo()
	}
	for _, s := range state.Seats {
		obs.PotTotal += s.TotalInvested
		view := SeatView{
			Seat:          s.Seat,
			Chips:         s.Chips,
			CurrentBet:    s.CurrentBet,
			TotalInvested: s.TotalInvested,
			Folded:        s.Folded,
			AllIn:         s.AllIn,
		}
		if pos, ok := state.Positions[s.Seat]; ok {
			view.Position = pos.String()
		}
		obs.Seats = append(obs.Seats, view)
	}
	return obs, nil
}

func (g *Game) LegalActions(state State, playerIndex int) ([]Action, error) {
	if playerIndex < 0 || playerIndex >= len(state.Seats) {
		return nil, fmt.Errorf("holdem: seat %d out of range", playerIndex)
	}
	if state.Terminal || playerIndex != state.ToAct {
		return nil, nil
	}
	return LegalActions(state.Betting, state.Seats[playerIndex]), nil
}

func (g *Game) CurrentPlayer(state State) (int, bool) {
	if state.Terminal {
		return 0, false
	}
	return state.ToAct, true
}

func (g *Game) Step(in match.StepInput[State, Action]) (match.StepOutput[State], error) {
	state := in.State
	if state.Terminal {
		return match.StepOutput[State]{}, fmt.Errorf("holdem: step called on terminal state")
	}
	actor := in.PlayerIndex
	if actor != state.ToAct {
		return match.StepOutput[State]{}, fmt.Errorf("holdem: step for seat %d but seat %d is to act", actor, state.ToAct)
	}

	state.Seats = append([]SeatState(nil), state.Seats...)
	seat := &state.Seats[actor]

	reopened := ApplyAction(state.Betting, seat, in.Action)
	state.Betting.HasActed[actor] = true
	if reopened {
		for i := range state.Seats {
			if i != actor && !state.Seats[i].Folded && !state.Seats[i].AllIn {
				state.Betting.HasActed[i] = false
			}
		}
		state.Betting.HasActed[actor] = true
	}

	var events []match.GameAnnotation
	if in.Action.Kind == ActionFold {
		events = append(events, match.GameAnnotation{Type: "FOLD", Data: map[string]any{"seat": actor}})
	}

	handBefore := state.HandNumber
	streetBefore := state.Street
	communityBefore := len(state.Community)
	advance(&state, in.Rng)

	if state.HandNumber == handBefore && !state.Terminal &&
		state.Street != streetBefore && len(state.Community) > communityBefore {
		events = append(events, match.GameAnnotation{Type: "STREET", Data: map[string]any{
			"street":    state.Street.String(),
			"community": append([]Card(nil), state.Community...),
		}})
	}

	if state.HandNumber != handBefore || state.Terminal {
		data := map[string]any{"handNumber": handBefore}
		if len(state.LastBoard) > 0 {
			data["community"] = append([]Card(nil), state.LastBoard...)
		}
		if len(state.LastAwards) > 0 {
			awards := make([]map[string]any, 0, len(state.LastAwards))
			for _, a := range state.LastAwards {
				awards = append(awards, map[string]any{"seat": a.Seat, "amount": a.Amount})
			}
			data["awards"] = awards
		}
		events = append(events, match.GameAnnotation{Type: "HAND_COMPLETE", Data: data})
	}

	return match.StepOutput[State]{State: state, Events: events}, nil
}

func (g *Game) IsTerminal(state State) bool {
	return state.Terminal
}

func (g *Game) Results(state State) (match.MatchResults, error) {
	if !state.Terminal {
		return match.MatchResults{}, fmt.Errorf("holdem: Results called on non-terminal state")
	}
	players := make([]seatChips, len(state.Seats))
	for i, s := range state.Seats {
		players[i] = seatChips{seat: s.Seat, chips: s.Chips}
	}
	sort.SliceStable(players, func(i, j int) bool { return players[i].chips > players[j].chips })

	results := make([]match.PlayerResult, len(state.Seats))
	for i, s := range state.Seats {
		rank := 1
		for _, p := range players {
			if p.chips > s.Chips {
				rank++
			}
		}
		results[i] = match.PlayerResult{PlayerIndex: s.Seat, Score: float64(s.Chips), Rank: rank}
	}

	top := players[0].chips
	tiedForTop := 0
	var winner *int
	for _, p := range players {
		if p.chips == top {
			tiedForTop++
		}
	}
	if tiedForTop == 1 {
		w := players[0].seat
		winner = &w
	}

	return match.MatchResults{Players: results, Winner: winner, IsDraw: tiedForTop > 1}, nil
}

// seatChips is an internal sort key over final stack sizes.
type seatChips struct {
	seat  int
	chips int
}
