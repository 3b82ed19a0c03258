package holdem

import (
	"fmt"

	"github.com/lox/arenacore/internal/prng"
)

// startHand deals a fresh hand at dealerSeat: it reshuffles the deck from
// rng, deals hole cards to every seat still holding chips, assigns positions,
// posts blinds, and points ToAct at the big blind, so that advance's search
// for the next actor starts from the seat after it.
func startHand(state *State, rng *prng.Rng, dealerSeat int) {
	state.HandNumber++
	state.DealerSeat = dealerSeat
	state.Street = Preflop
	state.Community = nil
	state.Burn = nil

	for i := range state.Seats {
		state.Seats[i].CurrentBet = 0
		state.Seats[i].TotalInvested = 0
		state.Seats[i].AllIn = false
		state.Seats[i].Folded = state.Seats[i].Chips <= 0
	}

	live := seatsWithChips(state.Seats)
	state.Deck = NewShuffledDeck(rng)
	state.HoleCards = make(map[int][2]Card, len(live))
	for _, seat := range live {
		cards, err := state.Deck.DealN(2)
		if err != nil {
			panic(fmt.Sprintf("holdem: dealing hole cards: %v", err))
		}
		state.HoleCards[seat] = [2]Card{cards[0], cards[1]}
	}

	state.Positions = AssignPositions(dealerSeat, live)
	state.Betting = NewBettingState(len(state.Seats), state.Config.BigBlind)
	postBlinds(state)

	bbSeat := seatAtPosition(state.Positions, BigBlind)
	state.ToAct = bbSeat
}

// postBlinds posts the small and big blind from the seats assigned those
// positions, capping at a seat's stack for a short-stack all-in post.
func postBlinds(state *State) {
	sbSeat := seatAtPosition(state.Positions, SmallBlind)
	bbSeat := seatAtPosition(state.Positions, BigBlind)
	postBlind(state, sbSeat, state.Config.SmallBlind)
	postBlind(state, bbSeat, state.Config.BigBlind)
	state.Betting.CurrentBet = state.Config.BigBlind
	state.Betting.LastRaiseDelta = state.Config.BigBlind
}

func postBlind(state *State, seat, amount int) {
	if seat < 0 {
		return
	}
	s := &state.Seats[seat]
	post := amount
	if post > s.Chips {
		post = s.Chips
	}
	s.Chips -= post
	s.CurrentBet = post
	s.TotalInvested = post
	if s.Chips == 0 {
		s.AllIn = true
	}
}

func seatAtPosition(positions map[int]Position, want Position) int {
	for seat, pos := range positions {
		if pos == want {
			return seat
		}
	}
	return -1
}

// advance drives the hand forward from wherever it stands, collecting
// fold-outs, progressing streets once betting is settled, and resolving
// showdowns, until either a seat has a real decision to make or the match
// itself has ended. It is the only place street bookkeeping happens, so
// every public Reset/Step call leaves ToAct valid or Terminal set.
func advance(state *State, rng *prng.Rng) {
	for {
		if len(nonFoldedSeats(state.Seats)) <= 1 {
			finishHand(state, rng)
			if state.Terminal {
				return
			}
			continue
		}

		if next := nextActor(state, state.ToAct); next != -1 {
			state.ToAct = next
			return
		}

		if state.Street == River {
			finishHand(state, rng)
			if state.Terminal {
				return
			}
			continue
		}
		dealNextStreet(state, rng)
	}
}

// nextActor returns the next seat strictly after afterSeat, in seat order,
// that still owes an action this street, or -1 if none remain.
func nextActor(state *State, afterSeat int) int {
	n := len(state.Seats)
	if n == 0 {
		return -1
	}
	for i := 1; i <= n; i++ {
		seat := (afterSeat + i) % n
		s := state.Seats[seat]
		if s.Folded || s.AllIn {
			continue
		}
		if !state.Betting.HasActed[seat] || s.CurrentBet < state.Betting.CurrentBet {
			return seat
		}
	}
	return -1
}

// dealNextStreet burns one card and deals the next street's community cards,
// resetting betting for the new round.
func dealNextStreet(state *State, rng *prng.Rng) {
	burn, err := state.Deck.Deal()
	if err != nil {
		panic(fmt.Sprintf("holdem: burning card: %v", err))
	}
	state.Burn = append(state.Burn, burn)

	var n int
	switch state.Street {
	case Preflop:
		n = 3
	case Flop, Turn:
		n = 1
	default:
		panic(fmt.Sprintf("holdem: cannot deal past river (street=%s)", state.Street))
	}
	dealt, err := state.Deck.DealN(n)
	if err != nil {
		panic(fmt.Sprintf("holdem: dealing %s: %v", state.Street, err))
	}
	state.Community = append(state.Community, dealt...)
	state.Street++
	state.Betting.ResetForStreet(len(state.Seats))
	for i := range state.Seats {
		state.Seats[i].CurrentBet = 0
	}
	state.ToAct = state.DealerSeat
}

// finishHand resolves every pot for the current hand (by showdown, or by
// default if only one seat remains live) and either deals a new hand or
// marks the match terminal.
func finishHand(state *State, rng *prng.Rng) {
	pots := CalculatePots(state.Seats)
	awards := ResolveShowdown(pots, state.HoleCards, state.Community, state.Seats)
	for _, a := range awards {
		state.Seats[a.Seat].Chips += a.Amount
	}
	state.LastAwards = awards
	state.LastBoard = append([]Card(nil), state.Community...)

	remaining := seatsWithChips(state.Seats)
	if len(remaining) <= 1 || (state.Config.MaxHands > 0 && state.HandNumber >= state.Config.MaxHands) {
		state.Terminal = true
		state.ToAct = -1
		return
	}

	nextDealer := NextDealerSeat(state.DealerSeat, remaining)
	handRng := rng.Fork(fmt.Sprintf("hand:%d", state.HandNumber+1))
	startHand(state, handRng, nextDealer)
}

func nonFoldedSeats(seats []SeatState) []int {
	var out []int
	for _, s := range seats {
		if !s.Folded {
			out = append(out, s.Seat)
		}
	}
	return out
}

func seatsWithChips(seats []SeatState) []int {
	var out []int
	for _, s := range seats {
		if s.Chips > 0 {
			out = append(out, s.Seat)
		}
	}
	return out
}
