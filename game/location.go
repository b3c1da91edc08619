package game

import (
	"fmt"

	"github.com/minaorangina/telefunken/deck"
	"github.com/minaorangina/telefunken/meld"
)

// Place is where a card is. Every card is in exactly one place.
type Place int

const (
	Nowhere Place = iota
	InDeck
	InHand
	InDiscards
	InMeld
)

var placeNames = map[Place]string{
	Nowhere:    "nowhere",
	InDeck:     "deck",
	InHand:     "hand",
	InDiscards: "discards",
	InMeld:     "meld",
}

func (p Place) String() string {
	return placeNames[p]
}

// Location of a card. Seat is set for hands and melds, Meld for melds.
type Location struct {
	Place Place
	Seat  int
	Meld  int
}

// Locate finds a card by scanning the game's collections
func (g *Game) Locate(card deck.Card) Location {
	if deck.Contains(g.deck, card) {
		return Location{Place: InDeck}
	}
	for i, p := range g.players {
		if p.Has(card) {
			return Location{Place: InHand, Seat: i}
		}
	}
	if deck.Contains(g.discards, card) {
		return Location{Place: InDiscards}
	}
	for i, m := range g.melds {
		if deck.Contains(m.Cards, card) {
			return Location{Place: InMeld, Seat: m.Owner, Meld: i}
		}
	}
	return Location{Place: Nowhere}
}

// CheckInvariants verifies every card of the pool is in exactly one place
// and that the table only holds valid melds.
func (g *Game) CheckInvariants() error {
	pool := deck.New()
	seen := make(map[int]Place, len(pool))

	see := func(cards []deck.Card, place Place) error {
		for _, c := range cards {
			if c.ID < 0 || c.ID >= len(pool) || pool[c.ID] != c {
				return fmt.Errorf("%w: %s in %s is not part of the pool", ErrInvalidState, c, place)
			}
			if prev, ok := seen[c.ID]; ok {
				return fmt.Errorf("%w: %s is in %s and %s", ErrInvalidState, c, prev, place)
			}
			seen[c.ID] = place
		}
		return nil
	}

	if err := see(g.deck, InDeck); err != nil {
		return err
	}
	for _, p := range g.players {
		if err := see(p.Hand, InHand); err != nil {
			return err
		}
	}
	if err := see(g.discards, InDiscards); err != nil {
		return err
	}
	for _, m := range g.melds {
		if err := see(m.Cards, InMeld); err != nil {
			return err
		}
		if !meld.Simple(m.Cards).Valid() {
			return fmt.Errorf("%w: meld %v is not valid", ErrInvalidState, deck.Names(m.Cards))
		}
	}

	if len(seen) != len(pool) {
		return fmt.Errorf("%w: %d of %d cards accounted for", ErrInvalidState, len(seen), len(pool))
	}
	if g.current < 0 || g.current >= len(g.players) {
		return fmt.Errorf("%w: current player %d", ErrInvalidState, g.current)
	}
	if g.drew != nil {
		loc := g.Locate(*g.drew)
		if loc.Place != InMeld && (loc.Place != InHand || loc.Seat != g.current) {
			return fmt.Errorf("%w: drawn card %s is in %s", ErrInvalidState, *g.drew, loc.Place)
		}
	}
	return nil
}
