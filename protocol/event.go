package protocol

import "github.com/minaorangina/telefunken/deck"

// Event is one entry of a match log. Exactly the fields that apply are set.
// Events with a Name describe what that player did; the rest are private
// to the player they were sent to.
type Event struct {
	Name         string `json:"name,omitempty"`
	StartDiscard *Card  `json:"startDiscard,omitempty"`
	Cards        []Card `json:"cards,omitempty"`
	Bought       *Card  `json:"bought,omitempty"`
	YouBought    []Card `json:"youBought,omitempty"`
	Drew         bool   `json:"drew,omitempty"`
	YouDrew      *Card  `json:"youDrew,omitempty"`
	Melded       []Card `json:"melded,omitempty"`
	Discard      *Card  `json:"discard,omitempty"`
	Scores       *int   `json:"scores,omitempty"`
}

func cardPtr(c deck.Card) *Card {
	wire := ToCard(c)
	return &wire
}

func StartDiscardEvent(c deck.Card) Event {
	return Event{StartDiscard: cardPtr(c)}
}

func CardsEvent(hand []deck.Card) Event {
	return Event{Cards: ToCards(hand)}
}

func BoughtEvent(name string, c deck.Card) Event {
	return Event{Name: name, Bought: cardPtr(c)}
}

func YouBoughtEvent(name string, extras []deck.Card) Event {
	return Event{Name: name, YouBought: ToCards(extras)}
}

func DrewEvent(name string) Event {
	return Event{Name: name, Drew: true}
}

func YouDrewEvent(name string, c deck.Card) Event {
	return Event{Name: name, YouDrew: cardPtr(c)}
}

func MeldedEvent(name string, cards []deck.Card) Event {
	return Event{Name: name, Melded: ToCards(cards)}
}

func DiscardEvent(name string, c deck.Card) Event {
	return Event{Name: name, Discard: cardPtr(c)}
}

func ScoresEvent(name string, score int) Event {
	return Event{Name: name, Scores: &score}
}

// Private events are only sent to the player they concern
func (e Event) Private() bool {
	return e.Cards != nil || e.YouBought != nil || e.YouDrew != nil
}

// Kind names the event for logging
func (e Event) Kind() string {
	switch {
	case e.StartDiscard != nil:
		return "startDiscard"
	case e.Cards != nil:
		return "cards"
	case e.Bought != nil:
		return "bought"
	case e.YouBought != nil:
		return "youBought"
	case e.Drew:
		return "drew"
	case e.YouDrew != nil:
		return "youDrew"
	case e.Melded != nil:
		return "melded"
	case e.Discard != nil:
		return "discard"
	case e.Scores != nil:
		return "scores"
	}
	return "unknown"
}
