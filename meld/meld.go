// Package meld classifies groups of cards into the melds of Telefunken.
package meld

import (
	"fmt"
	"sort"
	"strings"

	"github.com/minaorangina/telefunken/deck"
)

// Type names a kind of meld. The zero value is an invalid group.
type Type string

const (
	Invalid           Type = ""
	PureTrio          Type = "pure-trio"
	DoubleTrioOnePure Type = "double-trio-one-pure"
	DoubleCuatro      Type = "double-cuatro"
	SequenceFourTrio  Type = "sequence-4-trio"
)

const (
	minCards     = 3
	minNonJokers = 2
	setPrefix    = "set-"
	seqPrefix    = "sequence-"
)

// Set is the type of n cards sharing a rank
func Set(n int) Type {
	return Type(fmt.Sprintf("%s%d", setPrefix, n))
}

// Sequence is the type of a run of n cards in one suit
func Sequence(n int) Type {
	return Type(fmt.Sprintf("%s%d", seqPrefix, n))
}

func (t Type) Valid() bool {
	return t != Invalid
}

// IsSet is true of the simple set types. Compound types are neither sets nor sequences.
func (t Type) IsSet() bool {
	return strings.HasPrefix(string(t), setPrefix) && !t.IsCompound()
}

func (t Type) IsSequence() bool {
	return strings.HasPrefix(string(t), seqPrefix) && !t.IsCompound()
}

// IsTrio is true of any three cards that share a rank
func (t Type) IsTrio() bool {
	return t == PureTrio || t == Set(3)
}

// IsCompound is true of the types that are made of two simpler melds
func (t Type) IsCompound() bool {
	switch t {
	case DoubleTrioOnePure, DoubleCuatro, SequenceFourTrio:
		return true
	}
	return false
}

func (t Type) String() string {
	if t == Invalid {
		return "invalid"
	}
	return string(t)
}

// Result is a classified group. Compound melds carry their two groups in Parts,
// simple melds a single part holding every card.
type Result struct {
	Type  Type
	Parts [][]deck.Card
}

func (r Result) Valid() bool {
	return r.Type.Valid()
}

// TypeOf classifies cards, discarding the parts
func TypeOf(cards []deck.Card) Type {
	return Classify(cards).Type
}

// Classify returns the most specific type the cards form, in this order:
// pure trio, double trio, double cuatro, sequence with trio, set, sequence.
// The result depends only on the faces and their order.
func Classify(cards []deck.Card) Result {
	if len(cards) < minCards || len(cards)-Jokers(cards) < minNonJokers {
		return Result{}
	}

	if isPureTrio(cards) {
		return single(PureTrio, cards)
	}
	if parts := doubleTrio(cards); parts != nil {
		return Result{Type: DoubleTrioOnePure, Parts: parts}
	}
	if parts := doubleCuatro(cards); parts != nil {
		return Result{Type: DoubleCuatro, Parts: parts}
	}
	if parts := sequenceWithTrio(cards); parts != nil {
		return Result{Type: SequenceFourTrio, Parts: parts}
	}
	if isSet(cards) {
		return single(Set(len(cards)), cards)
	}
	if isSequence(cards) {
		return single(Sequence(len(cards)), cards)
	}
	return Result{}
}

// Simple classifies cards as a single set or sequence, never a compound.
// Melds on the table are always simple, however many cards they grow to.
func Simple(cards []deck.Card) Type {
	if len(cards) < minCards || len(cards)-Jokers(cards) < minNonJokers {
		return Invalid
	}
	if isSet(cards) {
		return Set(len(cards))
	}
	if isSequence(cards) {
		return Sequence(len(cards))
	}
	return Invalid
}

// Jokers counts the jokers in cards
func Jokers(cards []deck.Card) int {
	n := 0
	for _, c := range cards {
		if c.IsJoker() {
			n++
		}
	}
	return n
}

func single(t Type, cards []deck.Card) Result {
	return Result{Type: t, Parts: [][]deck.Card{clone(cards)}}
}

func clone(cards []deck.Card) []deck.Card {
	return append([]deck.Card{}, cards...)
}

func isPureTrio(cards []deck.Card) bool {
	if len(cards) != 3 || Jokers(cards) > 0 || !isSet(cards) {
		return false
	}
	seen := map[deck.Suit]bool{}
	for _, c := range cards {
		if seen[c.Suit] {
			return false
		}
		seen[c.Suit] = true
	}
	return true
}

func isSet(cards []deck.Card) bool {
	rank := deck.NullRank
	for _, c := range cards {
		if c.IsJoker() {
			continue
		}
		if rank == deck.NullRank {
			rank = c.Rank
		} else if c.Rank != rank {
			return false
		}
	}
	return rank != deck.NullRank
}

func isSequence(cards []deck.Card) bool {
	suit := deck.NullSuit
	high := []int{}
	hasAce := false
	for _, c := range cards {
		if c.IsJoker() {
			continue
		}
		if suit == deck.NullSuit {
			suit = c.Suit
		} else if c.Suit != suit {
			return false
		}
		if c.Rank == deck.Ace {
			hasAce = true
		}
		high = append(high, int(c.Rank))
	}

	jokers := Jokers(cards)
	if fitsRun(high, jokers, len(cards), int(deck.Two), int(deck.Ace)) {
		return true
	}

	low := make([]int, len(high))
	for i, v := range high {
		if v == int(deck.Ace) {
			v = deck.AceLow
		}
		low[i] = v
	}
	top := int(deck.Ace)
	if hasAce {
		top = int(deck.King)
	}
	return fitsRun(low, jokers, len(cards), deck.AceLow, top)
}

// fitsRun reports whether values plus jokers make n consecutive values within [lo, hi]
func fitsRun(values []int, jokers, n, lo, hi int) bool {
	sorted := append([]int{}, values...)
	sort.Ints(sorted)
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			return false
		}
	}
	first, last := sorted[0], sorted[len(sorted)-1]
	if gaps := last - first + 1 - len(sorted); gaps > jokers {
		return false
	}

	start := last - n + 1
	if start < lo {
		start = lo
	}
	end := first
	if hi-n+1 < end {
		end = hi - n + 1
	}
	return start <= end
}

// halves are the two orderings tried when splitting a compound meld in two:
// the last card moved to the front, then the cards as given.
func halves(cards []deck.Card) [][]deck.Card {
	rotated := append([]deck.Card{cards[len(cards)-1]}, cards[:len(cards)-1]...)
	return [][]deck.Card{rotated, clone(cards)}
}

func doubleTrio(cards []deck.Card) [][]deck.Card {
	if len(cards) != 6 {
		return nil
	}
	for _, ordering := range halves(cards) {
		a, b := ordering[:3], ordering[3:]
		ta, tb := TypeOf(a), TypeOf(b)
		if ta.IsTrio() && tb.IsTrio() && (ta == PureTrio || tb == PureTrio) {
			return [][]deck.Card{clone(a), clone(b)}
		}
	}
	return nil
}

func doubleCuatro(cards []deck.Card) [][]deck.Card {
	if len(cards) != 8 {
		return nil
	}
	for _, ordering := range halves(cards) {
		a, b := ordering[:4], ordering[4:]
		if TypeOf(a) == Set(4) && TypeOf(b) == Set(4) {
			return [][]deck.Card{clone(a), clone(b)}
		}
	}
	return nil
}

// sequenceWithTrio tries every choice of three cards as the trio, in index order.
func sequenceWithTrio(cards []deck.Card) [][]deck.Card {
	if len(cards) != 7 {
		return nil
	}
	for i := 0; i < len(cards); i++ {
		for j := i + 1; j < len(cards); j++ {
			for k := j + 1; k < len(cards); k++ {
				trio := []deck.Card{cards[i], cards[j], cards[k]}
				if !TypeOf(trio).IsTrio() {
					continue
				}
				rest := make([]deck.Card, 0, 4)
				for x, c := range cards {
					if x != i && x != j && x != k {
						rest = append(rest, c)
					}
				}
				if TypeOf(rest) == Sequence(4) {
					return [][]deck.Card{trio, rest}
				}
			}
		}
	}
	return nil
}
