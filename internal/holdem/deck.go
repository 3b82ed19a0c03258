package holdem

import (
	"fmt"

	"github.com/lox/arenacore/internal/prng"
)

// Deck is a 52-card deck drawn down from the top. Unlike a typical
// math/rand-backed shuffle, NewShuffledDeck draws its order from the match's
// own deterministic Rng stream: two decks built from Rngs seeded identically
// shuffle identically.
type Deck struct {
	cards []Card
}

// NewShuffledDeck builds a full 52-card deck and shuffles it via rng.
func NewShuffledDeck(rng *prng.Rng) *Deck {
	ordered := make([]Card, 0, 52)
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			ordered = append(ordered, NewCard(rank, suit))
		}
	}
	return &Deck{cards: prng.Shuffle(rng, ordered)}
}

// Deal removes and returns the top card.
func (d *Deck) Deal() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, fmt.Errorf("holdem: deck is empty")
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, nil
}

// DealN deals n cards in sequence.
func (d *Deck) DealN(n int) ([]Card, error) {
	out := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		card, err := d.Deal()
		if err != nil {
			return nil, err
		}
		out = append(out, card)
	}
	return out, nil
}

// Remaining reports how many cards are left to deal.
func (d *Deck) Remaining() int {
	return len(d.cards)
}
