package players

import (
	"github.com/minaorangina/telefunken/deck"
	"github.com/minaorangina/telefunken/protocol"
)

func charsUnique(s string) bool {
	seen := map[rune]bool{}
	for _, c := range s {
		if seen[c] {
			return false
		}
		seen[c] = true
	}
	return true
}

func charsInRange(chars string, lower, upper rune) bool {
	for _, char := range chars {
		if char < lower || char > upper {
			return false
		}
	}
	return true
}

// charsToCardIndex keeps the order the letters were typed in
func charsToCardIndex(chars string) []int {
	indices := []int{}
	for _, char := range chars {
		indices = append(indices, int(char-upperCaseA))
	}
	return indices
}

// toCards gives wire cards stand-in identities. Classifying melds only
// looks at faces, so that is all a player needs to reason about a hand.
func toCards(wire []protocol.Card) ([]deck.Card, error) {
	cards := make([]deck.Card, len(wire))
	for i, w := range wire {
		f, err := w.Face()
		if err != nil {
			return nil, err
		}
		cards[i] = deck.Card{ID: i, Suit: f.Suit, Rank: f.Rank}
	}
	return cards, nil
}
