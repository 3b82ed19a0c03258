package holdem

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/lox/arenacore/internal/prng"
)

// EquityResult is the outcome of a Monte Carlo equity estimate.
type EquityResult struct {
	Win    float64
	Tie    float64
	Lose   float64
	Trials int
}

// Equity estimates hole's win/tie/lose probability against a uniformly
// random opponent hand, given the known board (0, 3, 4, or 5 cards), by
// dealing the rest of the deck numSamples times across a worker pool. rng is
// forked once per worker so trials are independent and reproducible for a
// given (rng.Seed(), numSamples, workers) triple.
func Equity(rng *prng.Rng, hole [2]Card, board []Card, numSamples int) EquityResult {
	if numSamples <= 0 {
		numSamples = 1000
	}

	workers := runtime.NumCPU()
	if workers > 8 {
		workers = 8
	}
	if workers > numSamples {
		workers = numSamples
	}
	if workers < 1 {
		workers = 1
	}

	base := availableCards(hole, board)

	type partial struct{ wins, ties, trials int }
	results := make([]partial, workers)

	g, _ := errgroup.WithContext(context.Background())
	perWorker := numSamples / workers
	remainder := numSamples % workers

	for w := 0; w < workers; w++ {
		w := w
		samples := perWorker
		if w < remainder {
			samples++
		}
		workerRng := rng.Fork(workerLabel(w))
		g.Go(func() error {
			results[w] = runEquityTrials(hole, board, base, samples, workerRng)
			return nil
		})
	}
	_ = g.Wait()

	var wins, ties, trials int
	for _, r := range results {
		wins += r.wins
		ties += r.ties
		trials += r.trials
	}
	if trials == 0 {
		return EquityResult{}
	}
	return EquityResult{
		Win:    float64(wins) / float64(trials),
		Tie:    float64(ties) / float64(trials),
		Lose:   float64(trials-wins-ties) / float64(trials),
		Trials: trials,
	}
}

func runEquityTrials(hole [2]Card, board []Card, available []Card, samples int, rng *prng.Rng) (result struct{ wins, ties, trials int }) {
	for i := 0; i < samples; i++ {
		pool := prng.Shuffle(rng, available)
		needed := 2 + (5 - len(board))
		if len(pool) < needed {
			continue
		}
		oppHole := [2]Card{pool[0], pool[1]}
		runout := append(append([]Card(nil), board...), pool[2:needed]...)

		ourSeven := append([]Card{hole[0], hole[1]}, runout...)
		theirSeven := append([]Card{oppHole[0], oppHole[1]}, runout...)

		ourRank := Evaluate7(ourSeven)
		theirRank := Evaluate7(theirSeven)

		switch ourRank.Compare(theirRank) {
		case 1:
			result.wins++
		case 0:
			result.ties++
		}
		result.trials++
	}
	return result
}

func availableCards(hole [2]Card, board []Card) []Card {
	used := map[Card]bool{hole[0]: true, hole[1]: true}
	for _, c := range board {
		used[c] = true
	}
	out := make([]Card, 0, 52-len(used))
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			c := NewCard(rank, suit)
			if !used[c] {
				out = append(out, c)
			}
		}
	}
	return out
}

func workerLabel(w int) string {
	const letters = "abcdefgh"
	return "equity:" + string(letters[w%len(letters)])
}
