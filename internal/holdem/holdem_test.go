package holdem

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lox/arenacore/internal/match"
	"github.com/lox/arenacore/internal/prng"
)

func mustParse(t *testing.T, s string) Card {
	t.Helper()
	c, err := ParseCard(s)
	require.NoError(t, err)
	return c
}

func sevenCards(t *testing.T, ss ...string) []Card {
	t.Helper()
	cards := make([]Card, len(ss))
	for i, s := range ss {
		cards[i] = mustParse(t, s)
	}
	return cards
}

func TestEvaluate7RoyalFlush(t *testing.T) {
	hand := sevenCards(t, "As", "Ks", "Qs", "Js", "Ts", "2c", "3d")
	rank := Evaluate7(hand)
	require.Equal(t, RoyalFlush, rank.Class)
}

func TestEvaluate7WheelStraightRanksAsFive(t *testing.T) {
	hand := sevenCards(t, "As", "2h", "3d", "4c", "5s", "9h", "Kd")
	rank := Evaluate7(hand)
	require.Equal(t, Straight, rank.Class)
	require.Equal(t, []int{int(Five)}, rank.Tiebreakers)
}

func TestEvaluate7FullHouseBeatsFlush(t *testing.T) {
	fullHouse := Evaluate7(sevenCards(t, "Ah", "Ad", "Ac", "Kh", "Kd", "2s", "3c"))
	flush := Evaluate7(sevenCards(t, "2h", "4h", "6h", "8h", "Th", "9c", "3d"))
	require.Equal(t, 1, fullHouse.Compare(flush))
}

func TestEvaluate7TwoPairTiebreakers(t *testing.T) {
	rank := Evaluate7(sevenCards(t, "Kh", "Kd", "2c", "2s", "9h", "4d", "7c"))
	require.Equal(t, TwoPair, rank.Class)
	require.Equal(t, []int{int(King), int(Two), int(Nine)}, rank.Tiebreakers)
}

func TestHandRankCompareTotalOrder(t *testing.T) {
	weaker := HandRank{Class: OnePair, Tiebreakers: []int{5, 12, 11, 10}}
	stronger := HandRank{Class: OnePair, Tiebreakers: []int{6, 12, 11, 10}}
	require.Equal(t, -1, weaker.Compare(stronger))
	require.Equal(t, 1, stronger.Compare(weaker))
	require.Equal(t, 0, weaker.Compare(weaker))
}

func TestAssignPositionsHeadsUp(t *testing.T) {
	positions := AssignPositions(0, []int{0, 1})
	require.Equal(t, SmallBlind, positions[0])
	require.Equal(t, BigBlind, positions[1])
}

func TestAssignPositionsSixMax(t *testing.T) {
	positions := AssignPositions(2, []int{0, 1, 2, 3, 4, 5})
	require.Equal(t, Button, positions[2])
	require.Equal(t, SmallBlind, positions[3])
	require.Equal(t, BigBlind, positions[4])
	require.Equal(t, UnderTheGun, positions[5])
	require.Equal(t, Cutoff, positions[1])
	require.Equal(t, LatePosition, positions[0])
}

func TestNextDealerSeatWraps(t *testing.T) {
	require.Equal(t, 0, NextDealerSeat(2, []int{0, 1, 2}))
	require.Equal(t, 0, NextDealerSeat(5, []int{0, 1, 2})) // dealer seat not present: starts over
}

func TestCalculatePotsSideAllIn(t *testing.T) {
	seats := []SeatState{
		{Seat: 0, TotalInvested: 100, Folded: false},
		{Seat: 1, TotalInvested: 300, Folded: false},
		{Seat: 2, TotalInvested: 300, Folded: false},
	}
	pots := CalculatePots(seats)
	require.Len(t, pots, 2)
	require.Equal(t, 300, pots[0].Amount) // 100 * 3 contributors
	require.Equal(t, []int{0, 1, 2}, pots[0].Eligible)
	require.Equal(t, 400, pots[1].Amount) // (300-100) * 2 contributors
	require.Equal(t, []int{1, 2}, pots[1].Eligible)
}

func TestCalculatePotsFoldedOverinvestmentRollsBack(t *testing.T) {
	seats := []SeatState{
		{Seat: 0, TotalInvested: 300, Folded: true},
		{Seat: 1, TotalInvested: 100, Folded: false},
		{Seat: 2, TotalInvested: 100, Folded: false},
	}
	pots := CalculatePots(seats)
	require.Len(t, pots, 1)
	// The folded seat's 200 above the live stake has no eligible contestant
	// of its own; it stays in the main pot.
	require.Equal(t, 500, pots[0].Amount)
	require.Equal(t, []int{1, 2}, pots[0].Eligible)
}

func TestCalculatePotsExcludesFoldedFromEligibility(t *testing.T) {
	seats := []SeatState{
		{Seat: 0, TotalInvested: 100, Folded: true},
		{Seat: 1, TotalInvested: 100, Folded: false},
	}
	pots := CalculatePots(seats)
	require.Len(t, pots, 1)
	require.Equal(t, 200, pots[0].Amount)
	require.Equal(t, []int{1}, pots[0].Eligible)
}

func TestResolveShowdownLoneSurvivorSkipsEvaluation(t *testing.T) {
	pots := []Pot{{Amount: 500, Eligible: []int{0, 1}}}
	seats := []SeatState{{Seat: 0, Folded: false}, {Seat: 1, Folded: true}}
	awards := ResolveShowdown(pots, nil, nil, seats)
	require.Equal(t, []SeatAward{{Seat: 0, Amount: 500}}, awards)
}

func TestResolveShowdownSplitsTieWithResidualToEarliestSeat(t *testing.T) {
	hole := map[int][2]Card{
		0: {mustParse(t, "Ah"), mustParse(t, "Ad")},
		1: {mustParse(t, "As"), mustParse(t, "Ac")},
	}
	community := sevenCards(t, "Kh", "Kd", "2c", "3d", "4s")
	seats := []SeatState{{Seat: 0}, {Seat: 1}}
	pots := []Pot{{Amount: 101, Eligible: []int{0, 1}}}
	awards := ResolveShowdown(pots, hole, community, seats)
	total := 0
	for _, a := range awards {
		total += a.Amount
	}
	require.Equal(t, 101, total)
	for _, a := range awards {
		if a.Seat == 0 {
			require.Equal(t, 51, a.Amount)
		}
	}
}

func TestLegalActionsFoldCheckOrCallRaise(t *testing.T) {
	betting := NewBettingState(2, 20)
	betting.CurrentBet = 20
	seat := SeatState{Seat: 0, Chips: 980, CurrentBet: 0}
	actions := LegalActions(betting, seat)
	kinds := map[ActionKind]bool{}
	for _, a := range actions {
		kinds[a.Kind] = true
	}
	require.True(t, kinds[ActionFold])
	require.True(t, kinds[ActionCall])
	require.True(t, kinds[ActionRaise])
}

func TestApplyActionRaiseReopensAction(t *testing.T) {
	betting := NewBettingState(3, 20)
	betting.CurrentBet = 20
	seat := SeatState{Seat: 1, Chips: 980, CurrentBet: 20}
	reopened := ApplyAction(betting, &seat, Action{Kind: ActionRaise, Amount: 60})
	require.True(t, reopened)
	require.Equal(t, 60, betting.CurrentBet)
	require.Equal(t, 40, betting.LastRaiseDelta)
	require.Equal(t, 940, seat.Chips)
}

func TestApplyActionShortAllInDoesNotReopen(t *testing.T) {
	betting := NewBettingState(3, 20)
	betting.CurrentBet = 20
	betting.LastRaiseDelta = 20
	seat := SeatState{Seat: 1, Chips: 15, CurrentBet: 20}
	reopened := ApplyAction(betting, &seat, Action{Kind: ActionAllIn, Amount: 35})
	require.False(t, reopened)
	require.True(t, seat.AllIn)
	require.Equal(t, 35, betting.CurrentBet)
}

func TestCategorizeHoleCards(t *testing.T) {
	require.Equal(t, CategoryPremium, CategorizeHoleCards(mustParse(t, "As"), mustParse(t, "Ks")))
	require.Equal(t, CategoryPremium, CategorizeHoleCards(mustParse(t, "Qh"), mustParse(t, "Qd")))
	require.Equal(t, CategoryTrash, CategorizeHoleCards(mustParse(t, "7h"), mustParse(t, "2d")))
}

func TestEquitySumsToOne(t *testing.T) {
	rng := prng.New("equity-test")
	hole := [2]Card{mustParse(t, "Ah"), mustParse(t, "Ad")}
	result := Equity(rng, hole, nil, 200)
	require.Greater(t, result.Trials, 0)
	require.InDelta(t, 1.0, result.Win+result.Tie+result.Lose, 1e-9)
	require.Greater(t, result.Win, 0.6) // pocket aces crush a random hand preflop
}

func TestGameHeadsUpFoldEndsHandImmediately(t *testing.T) {
	g := New()
	state, err := g.Reset(match.ResetInput[Config]{
		Seed:       "fold-test",
		NumPlayers: 2,
		Config:     Config{StartingChips: 1000, SmallBlind: 10, BigBlind: 20, MaxHands: 1},
	})
	require.NoError(t, err)

	actor, ok := g.CurrentPlayer(state)
	require.True(t, ok)

	legal, err := g.LegalActions(state, actor)
	require.NoError(t, err)
	require.NotEmpty(t, legal)

	rng := prng.New("fold-test-steps")
	out, err := g.Step(match.StepInput[State, Action]{
		State:       state,
		PlayerIndex: actor,
		Action:      Action{Kind: ActionFold},
		Rng:         rng,
	})
	require.NoError(t, err)
	require.True(t, g.IsTerminal(out.State))

	results, err := g.Results(out.State)
	require.NoError(t, err)
	require.NotNil(t, results.Winner)
	require.Equal(t, 1, *results.Winner)

	// Seat 0 is the button/small blind of the first hand and folded its
	// 10-chip post; seat 1 collects the blinds.
	chips := map[int]int{}
	for _, p := range results.Players {
		chips[p.PlayerIndex] = int(p.Score)
	}
	require.Equal(t, 990, chips[0])
	require.Equal(t, 1010, chips[1])
}

func TestGamePotConservationAcrossFullHand(t *testing.T) {
	g := New()
	state, err := g.Reset(match.ResetInput[Config]{
		Seed:       "conservation-test",
		NumPlayers: 3,
		Config:     Config{StartingChips: 500, SmallBlind: 5, BigBlind: 10, MaxHands: 1},
	})
	require.NoError(t, err)
	rng := prng.New("conservation-test-steps")

	for i := 0; i < 200; i++ {
		if g.IsTerminal(state) {
			break
		}
		actor, ok := g.CurrentPlayer(state)
		require.True(t, ok)
		legal, err := g.LegalActions(state, actor)
		require.NoError(t, err)
		require.NotEmpty(t, legal)
		action := legal[0]
		for _, a := range legal {
			if a.Kind == ActionCheck || a.Kind == ActionCall {
				action = a
			}
		}
		out, err := g.Step(match.StepInput[State, Action]{State: state, PlayerIndex: actor, Action: action, Rng: rng})
		require.NoError(t, err)
		state = out.State
	}
	require.True(t, g.IsTerminal(state))

	results, err := g.Results(state)
	require.NoError(t, err)
	total := 0
	for _, p := range results.Players {
		total += int(p.Score)
	}
	require.Equal(t, 1500, total)
}
