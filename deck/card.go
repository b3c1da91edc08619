package deck

import (
	"fmt"
	"strings"
)

// Suit represents a suit in a deck of cards
type Suit int

// NullSuit is the suit of a joker
const (
	NullSuit Suit = iota
	Hearts
	Diamonds
	Clubs
	Spades
)

var suits = []Suit{Hearts, Diamonds, Clubs, Spades}

var suitNames = map[Suit]string{
	NullSuit: "",
	Hearts:   "Hearts",
	Diamonds: "Diamonds",
	Clubs:    "Clubs",
	Spades:   "Spades",
}

var suitCodes = map[Suit]string{
	NullSuit: "",
	Hearts:   "H",
	Diamonds: "D",
	Clubs:    "C",
	Spades:   "S",
}

func (s Suit) String() string {
	return suitNames[s]
}

// Code is the one-letter wire form of a suit. Jokers have no code.
func (s Suit) Code() string {
	return suitCodes[s]
}

// Rank represents a rank in a deck of cards.
// The numeric value of a rank is its position in a run with the Ace high.
type Rank int

const NullRank Rank = 0

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
	Joker
)

// AceLow is the value of an Ace played below a Two.
const AceLow = 1

var ranks = []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

var rankNames = map[Rank]string{
	Two:   "2",
	Three: "3",
	Four:  "4",
	Five:  "5",
	Six:   "6",
	Seven: "7",
	Eight: "8",
	Nine:  "9",
	Ten:   "10",
	Jack:  "Jack",
	Queen: "Queen",
	King:  "King",
	Ace:   "Ace",
	Joker: "Joker",
}

var rankCodes = map[Rank]string{
	Two:   "2",
	Three: "3",
	Four:  "4",
	Five:  "5",
	Six:   "6",
	Seven: "7",
	Eight: "8",
	Nine:  "9",
	Ten:   "10",
	Jack:  "J",
	Queen: "Q",
	King:  "K",
	Ace:   "A",
	Joker: "*",
}

func (r Rank) String() string {
	return rankNames[r]
}

// Code is the short wire form of a rank: 2-10, J, Q, K, A and * for the joker.
func (r Rank) Code() string {
	return rankCodes[r]
}

// Points is what a card of this rank costs when it is left in a hand
func (r Rank) Points() int {
	switch {
	case r == Joker:
		return 50
	case r == Ace:
		return 15
	case r >= Ten:
		return 10
	default:
		return 5
	}
}

// Face is what can be seen of a card: its suit and rank, without its identity.
type Face struct {
	Suit Suit
	Rank Rank
}

// JokerFace is the face of every joker.
var JokerFace = Face{Suit: NullSuit, Rank: Joker}

func (f Face) String() string {
	if f.Rank == Joker {
		return rankNames[Joker]
	}
	return fmt.Sprintf("%s of %s", rankNames[f.Rank], suitNames[f.Suit])
}

// Code is the short form of a face, eg "10H" or "*".
func (f Face) Code() string {
	return f.Rank.Code() + f.Suit.Code()
}

// Valid reports whether the face exists in a Telefunken pool.
func (f Face) Valid() bool {
	if f.Rank == Joker {
		return f.Suit == NullSuit
	}
	return f.Rank >= Two && f.Rank <= Ace && f.Suit >= Hearts && f.Suit <= Spades
}

// Card is one physical card. Two cards with the same face are different cards:
// equality compares the ID as well.
type Card struct {
	ID   int
	Suit Suit
	Rank Rank
}

// NewCard constructs a card, panicking if the face cannot exist.
func NewCard(id int, rank Rank, suit Suit) Card {
	c := Card{ID: id, Suit: suit, Rank: rank}
	if !c.Face().Valid() {
		panic(fmt.Sprintf("no such card: rank %d suit %d", rank, suit))
	}
	return c
}

func (c Card) Face() Face {
	return Face{Suit: c.Suit, Rank: c.Rank}
}

func (c Card) IsJoker() bool {
	return c.Rank == Joker
}

func (c Card) Points() int {
	return c.Rank.Points()
}

func (c Card) String() string {
	return c.Face().String()
}

// Code is the short form of the card's face
func (c Card) Code() string {
	return c.Face().Code()
}

// ParseSuit reads a suit code or name, case insensitive.
func ParseSuit(s string) (Suit, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NullSuit, nil
	}
	for _, suit := range suits {
		if strings.EqualFold(s, suit.Code()) || strings.EqualFold(s, suit.String()) {
			return suit, nil
		}
	}
	return NullSuit, fmt.Errorf("unknown suit %q", s)
}

// ParseRank reads a rank code or name, case insensitive.
func ParseRank(s string) (Rank, error) {
	s = strings.TrimSpace(s)
	for r := Two; r <= Joker; r++ {
		if strings.EqualFold(s, r.Code()) || strings.EqualFold(s, r.String()) {
			return r, nil
		}
	}
	return NullRank, fmt.Errorf("unknown rank %q", s)
}

// ParseFace reads either a code ("10H", "QS", "*") or a name ("8 of Spades", "Joker").
func ParseFace(s string) (Face, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Face{}, fmt.Errorf("empty card")
	}

	var (
		f   Face
		err error
	)
	if parts := strings.SplitN(strings.ToLower(s), " of ", 2); len(parts) == 2 {
		if f.Rank, err = ParseRank(parts[0]); err != nil {
			return Face{}, err
		}
		if f.Suit, err = ParseSuit(parts[1]); err != nil {
			return Face{}, err
		}
	} else if r, rerr := ParseRank(s); rerr == nil && r == Joker {
		f = JokerFace
	} else {
		if f.Rank, err = ParseRank(s[:len(s)-1]); err != nil {
			return Face{}, err
		}
		if f.Suit, err = ParseSuit(s[len(s)-1:]); err != nil {
			return Face{}, err
		}
	}

	if !f.Valid() {
		return Face{}, fmt.Errorf("no such card %q", s)
	}
	return f, nil
}
