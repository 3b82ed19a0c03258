package holdem

import "sort"

// Pot is one pot, main or side, awarded to the subset of seats eligible to
// contest it.
type Pot struct {
	Amount   int
	Eligible []int // seat indices, in ascending seat order
}

// CalculatePots derives the main pot and any side pots from the multiset of
// each seat's TotalInvested this hand: sort the unique
// invested levels ascending; each level generates one pot of
// (level - previousLevel) * count(seats with totalInvested >= level), whose
// eligible set is the non-folded subset of those seats.
func CalculatePots(seats []SeatState) []Pot {
	var levels []int
	seen := map[int]bool{}
	for _, s := range seats {
		if s.TotalInvested > 0 && !seen[s.TotalInvested] {
			seen[s.TotalInvested] = true
			levels = append(levels, s.TotalInvested)
		}
	}
	sort.Ints(levels)

	var pots []Pot
	prevLevel := 0
	for _, level := range levels {
		contributors := 0
		var eligible []int
		for _, s := range seats {
			if s.TotalInvested >= level {
				contributors++
				if !s.Folded {
					eligible = append(eligible, s.Seat)
				}
			}
		}
		amount := (level - prevLevel) * contributors
		if amount > 0 {
			sort.Ints(eligible)
			if len(eligible) == 0 && len(pots) > 0 {
				// A seat that folded after out-investing every live seat
				// leaves a slice nobody above this level can contest; it
				// rolls back into the previous pot.
				pots[len(pots)-1].Amount += amount
			} else {
				pots = append(pots, Pot{Amount: amount, Eligible: eligible})
			}
		}
		prevLevel = level
	}
	return pots
}
