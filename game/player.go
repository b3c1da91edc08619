package game

import "github.com/minaorangina/telefunken/deck"

// Buy records a discard a player bought
type Buy struct {
	Round int
	Card  deck.Card
}

// Player is one seat at the table
type Player struct {
	Name     string
	Hand     []deck.Card
	Score    int
	Buys     []Buy
	Discards []deck.Card // discarded by this player this round
}

// Points is the penalty for the cards still in hand
func (p *Player) Points() int {
	return deck.Points(p.Hand)
}

// BuysIn counts the discards bought in round
func (p *Player) BuysIn(round int) int {
	n := 0
	for _, b := range p.Buys {
		if b.Round == round {
			n++
		}
	}
	return n
}

func (p *Player) Has(c deck.Card) bool {
	return deck.Contains(p.Hand, c)
}

func (p *Player) clone() Player {
	return Player{
		Name:     p.Name,
		Hand:     append([]deck.Card{}, p.Hand...),
		Score:    p.Score,
		Buys:     append([]Buy{}, p.Buys...),
		Discards: append([]deck.Card{}, p.Discards...),
	}
}
