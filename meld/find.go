package meld

import (
	"sort"
	"strconv"
	"strings"

	"github.com/minaorangina/telefunken/deck"
)

// searchBudget caps how many groups Find will classify
const searchBudget = 200000

// Size is how many cards a meld of type t holds, or 0 if t is not a meld
func Size(t Type) int {
	switch t {
	case PureTrio:
		return 3
	case DoubleTrioOnePure:
		return 6
	case SequenceFourTrio:
		return 7
	case DoubleCuatro:
		return 8
	}
	var n string
	switch {
	case t.IsSet():
		n = strings.TrimPrefix(string(t), setPrefix)
	case t.IsSequence():
		n = strings.TrimPrefix(string(t), seqPrefix)
	default:
		return 0
	}
	size, err := strconv.Atoi(n)
	if err != nil {
		return 0
	}
	return size
}

// Find looks for cards that form a meld of type want using at most
// maxJokers jokers. It returns their indices in the order they should be
// melded, or nil.
func Find(cards []deck.Card, want Type, maxJokers int) []int {
	size := Size(want)
	if size == 0 || size > len(cards) {
		return nil
	}

	// grouped by rank, jokers last, so compound melds split cleanly
	order := make([]int, len(cards))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ca, cb := cards[order[a]], cards[order[b]]
		if ca.Rank != cb.Rank {
			return ca.Rank < cb.Rank
		}
		return ca.Suit < cb.Suit
	})
	sorted := make([]deck.Card, len(cards))
	for i, idx := range order {
		sorted[i] = cards[idx]
	}

	f := finder{
		cards:     sorted,
		want:      want,
		size:      size,
		maxJokers: maxJokers,
		budget:    searchBudget,
	}
	if !f.search(0, make([]int, 0, size), 0) {
		return nil
	}
	found := make([]int, len(f.found))
	for i, idx := range f.found {
		found[i] = order[idx]
	}
	return found
}

type finder struct {
	cards     []deck.Card
	want      Type
	size      int
	maxJokers int
	budget    int
	found     []int
}

func (f *finder) search(from int, picked []int, jokers int) bool {
	if len(picked) == f.size {
		f.budget--
		group := make([]deck.Card, len(picked))
		for i, idx := range picked {
			group[i] = f.cards[idx]
		}
		if TypeOf(group) == f.want {
			f.found = append([]int{}, picked...)
			return true
		}
		return false
	}

	for i := from; i <= len(f.cards)-(f.size-len(picked)); i++ {
		if f.budget <= 0 {
			return false
		}
		c := f.cards[i]
		j := jokers
		if c.IsJoker() {
			if j++; j > f.maxJokers {
				continue
			}
		} else if !f.fits(picked, c) {
			continue
		}
		if f.search(i+1, append(picked, i), j) {
			return true
		}
	}
	return false
}

// fits prunes groups that can no longer be a simple set or sequence
func (f *finder) fits(picked []int, c deck.Card) bool {
	for _, idx := range picked {
		other := f.cards[idx]
		if other.IsJoker() {
			continue
		}
		switch {
		case (f.want == PureTrio || f.want.IsSet()) && other.Rank != c.Rank:
			return false
		case f.want.IsSequence() && other.Suit != c.Suit:
			return false
		}
	}
	return true
}
