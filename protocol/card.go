package protocol

import (
	"fmt"

	"github.com/minaorangina/telefunken/deck"
)

// Card is the wire form of a card: its face and nothing else.
// A joker has an empty suit.
type Card struct {
	Suit string `json:"suit"`
	Rank string `json:"rank"`
}

func ToCard(c deck.Card) Card {
	return FromFace(c.Face())
}

func FromFace(f deck.Face) Card {
	return Card{Suit: f.Suit.String(), Rank: f.Rank.String()}
}

func ToCards(cards []deck.Card) []Card {
	out := make([]Card, len(cards))
	for i, c := range cards {
		out[i] = ToCard(c)
	}
	return out
}

// Face converts back to the domain face
func (c Card) Face() (deck.Face, error) {
	rank, err := deck.ParseRank(c.Rank)
	if err != nil {
		return deck.Face{}, err
	}
	suit, err := deck.ParseSuit(c.Suit)
	if err != nil {
		return deck.Face{}, err
	}
	f := deck.Face{Suit: suit, Rank: rank}
	if !f.Valid() {
		return deck.Face{}, fmt.Errorf("no such card: %s of %s", c.Rank, c.Suit)
	}
	return f, nil
}

func Faces(cards []Card) ([]deck.Face, error) {
	out := make([]deck.Face, len(cards))
	for i, c := range cards {
		f, err := c.Face()
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

func (c Card) String() string {
	f, err := c.Face()
	if err != nil {
		return fmt.Sprintf("%s of %s", c.Rank, c.Suit)
	}
	return f.String()
}
