package deck

import "strings"

type queryKind int

const (
	byID queryKind = iota
	byName
	byFace
)

// Query selects a card from a group of cards
type Query struct {
	kind queryKind
	id   int
	name string
	face Face
}

// ByID matches exactly one physical card
func ByID(id int) Query {
	return Query{kind: byID, id: id}
}

// ByName matches any card whose name is name, eg "8 of Spades" or "Joker"
func ByName(name string) Query {
	return Query{kind: byName, name: name}
}

// ByFace matches any card with this suit and rank
func ByFace(f Face) Query {
	return Query{kind: byFace, face: f}
}

func (q Query) Matches(c Card) bool {
	switch q.kind {
	case byID:
		return c.ID == q.id
	case byName:
		return strings.EqualFold(c.String(), q.name)
	default:
		return c.Face() == q.face
	}
}

// Find returns the first matching card and its index, or -1
func Find(cards []Card, q Query) (Card, int) {
	for i, c := range cards {
		if q.Matches(c) {
			return c, i
		}
	}
	return Card{}, -1
}

// FindAll returns every matching card
func FindAll(cards []Card, q Query) []Card {
	found := []Card{}
	for _, c := range cards {
		if q.Matches(c) {
			found = append(found, c)
		}
	}
	return found
}

// IndexOf returns the index of this exact card, or -1
func IndexOf(cards []Card, card Card) int {
	for i, c := range cards {
		if c == card {
			return i
		}
	}
	return -1
}

func Contains(cards []Card, card Card) bool {
	return IndexOf(cards, card) >= 0
}

// Remove returns cards without the given cards. The input is not modified.
func Remove(cards []Card, toRemove ...Card) []Card {
	remaining := make([]Card, 0, len(cards))
	for _, c := range cards {
		if !Contains(toRemove, c) {
			remaining = append(remaining, c)
		}
	}
	return remaining
}

// Points totals the penalty value of cards
func Points(cards []Card) int {
	total := 0
	for _, c := range cards {
		total += c.Points()
	}
	return total
}

// Faces strips identity from cards
func Faces(cards []Card) []Face {
	faces := make([]Face, len(cards))
	for i, c := range cards {
		faces[i] = c.Face()
	}
	return faces
}

// Names lists the card names, for display
func Names(cards []Card) []string {
	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = c.String()
	}
	return names
}
