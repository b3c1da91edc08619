// Package game holds the rules of Telefunken: dealing, buying, drawing,
// melding, discarding and scoring over seven rounds.
package game

import (
	"github.com/minaorangina/telefunken/deck"
	"github.com/minaorangina/telefunken/meld"
	"github.com/minaorangina/telefunken/protocol"
)

// Meld is a group of cards on the table
type Meld struct {
	Cards []deck.Card
	Owner int
	Round int
	Type  meld.Type
}

func (m Meld) clone() Meld {
	m.Cards = append([]deck.Card{}, m.Cards...)
	return m
}

// MeldResult describes an accepted meld
type MeldResult struct {
	// Merged is set when a single card was added to a meld already on the table
	Merged bool
	// Index of the first meld created or changed
	Index int
	Type  meld.Type
}

// Opts configure a new Game
type Opts struct {
	// Shuffle orders the full pool before each deal. Defaults to deck.Shuffle.
	Shuffle func([]deck.Card)
}

// Game is one match. It is not safe for concurrent use.
type Game struct {
	players     []*Player
	deck        deck.Deck
	discards    []deck.Card
	melds       []Meld
	current     int
	drew        *deck.Card
	bought      bool
	handsPlayed int
	shuffle     func([]deck.Card)
}

// New seats the players in order and deals the first round
func New(names []string, opts Opts) (*Game, error) {
	if len(names) != NumPlayers {
		return nil, ErrWrongNumberOfPlayers
	}
	seen := map[string]bool{}
	players := make([]*Player, 0, len(names))
	for _, name := range names {
		if name == "" || seen[name] {
			return nil, ErrDuplicatePlayer
		}
		seen[name] = true
		players = append(players, &Player{Name: name})
	}

	g := &Game{
		players: players,
		shuffle: opts.Shuffle,
	}
	if g.shuffle == nil {
		g.shuffle = deck.Shuffle
	}
	g.deal()

	return g, nil
}

// deal starts a round from the full pool
func (g *Game) deal() {
	pool := deck.New()
	g.shuffle(pool)

	for _, p := range g.players {
		p.Hand = pool.Deal(HandSize)
		p.Discards = []deck.Card{}
	}
	g.discards = pool.Deal(1)
	g.deck = pool
	g.melds = []Meld{}
	g.drew = nil
	g.bought = false
	g.current = g.handsPlayed % len(g.players)
}

func (g *Game) endRound() {
	for _, p := range g.players {
		p.Score += p.Points()
	}
	g.handsPlayed++
	if !g.Finished() {
		g.deal()
	}
}

func (g *Game) Finished() bool {
	return g.handsPlayed >= NumRounds
}

// Round is numbered from 1
func (g *Game) Round() int {
	if g.Finished() {
		return NumRounds
	}
	return g.handsPlayed + 1
}

func (g *Game) HandsPlayed() int {
	return g.handsPlayed
}

// Current is the seat whose turn it is
func (g *Game) Current() int {
	return g.current
}

// Next is the seat after the current one
func (g *Game) Next() int {
	return (g.current + 1) % len(g.players)
}

func (g *Game) NumPlayers() int {
	return len(g.players)
}

func (g *Game) Names() []string {
	names := make([]string, len(g.players))
	for i, p := range g.players {
		names[i] = p.Name
	}
	return names
}

// PlayerIndex finds a seat by name, or -1
func (g *Game) PlayerIndex(name string) int {
	for i, p := range g.players {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// Player returns a copy of the seat
func (g *Game) Player(i int) Player {
	return g.players[i].clone()
}

func (g *Game) Players() []Player {
	out := make([]Player, len(g.players))
	for i, p := range g.players {
		out[i] = p.clone()
	}
	return out
}

func (g *Game) Hand(i int) []deck.Card {
	return append([]deck.Card{}, g.players[i].Hand...)
}

// PlayersInPerspective lists every seat in turn order, starting with seat i
func (g *Game) PlayersInPerspective(i int) []int {
	seats := make([]int, len(g.players))
	for k := range seats {
		seats[k] = (i + k) % len(g.players)
	}
	return seats
}

// Drew is the card the current player drew this turn
func (g *Game) Drew() (deck.Card, bool) {
	if g.drew == nil {
		return deck.Card{}, false
	}
	return *g.drew, true
}

// Bought reports whether the current discard has already been bought
func (g *Game) Bought() bool {
	return g.bought
}

// TopDiscard is the top of the discard pile
func (g *Game) TopDiscard() (deck.Card, bool) {
	if len(g.discards) == 0 {
		return deck.Card{}, false
	}
	return g.discards[len(g.discards)-1], true
}

func (g *Game) Discards() []deck.Card {
	return append([]deck.Card{}, g.discards...)
}

func (g *Game) DeckSize() int {
	return len(g.deck)
}

func (g *Game) Melds() []Meld {
	out := make([]Meld, len(g.melds))
	for i, m := range g.melds {
		out[i] = m.clone()
	}
	return out
}

// Melded counts the melds seat i has put down this round
func (g *Game) Melded(i int) int {
	n := 0
	for _, m := range g.melds {
		if m.Owner == i && m.Round == g.Round() {
			n++
		}
	}
	return n
}

// Book is what each seat has discarded this round
func (g *Game) Book() [][]deck.Card {
	book := make([][]deck.Card, len(g.players))
	for i, p := range g.players {
		book[i] = append([]deck.Card{}, p.Discards...)
	}
	return book
}

// CanBuy reports whether seat i may take the current discard now
func (g *Game) CanBuy(i int) bool {
	if g.Finished() || i < 0 || i >= len(g.players) {
		return false
	}
	round := g.Round()
	_, hasDiscard := g.TopDiscard()
	return round > 1 &&
		hasDiscard &&
		!g.bought &&
		g.players[i].BuysIn(round) < BuyLimit(round) &&
		g.Melded(i) == 0 &&
		g.drew == nil &&
		len(g.deck) > BuyExtras
}

// Status is the set of actions open to the current player
func (g *Game) Status() protocol.Status {
	switch {
	case g.Finished():
		return protocol.StatusFinished
	case g.drew != nil:
		return protocol.StatusMeldOrDiscard
	}
	for i := range g.players {
		if g.CanBuy(i) {
			return protocol.StatusBuyOrDraw
		}
	}
	return protocol.StatusDraw
}

// Scores lists each seat's total
func (g *Game) Scores() []int {
	scores := make([]int, len(g.players))
	for i, p := range g.players {
		scores[i] = p.Score
	}
	return scores
}

// Winners are the seats with the lowest score
func (g *Game) Winners() []string {
	best := g.players[0].Score
	for _, p := range g.players[1:] {
		if p.Score < best {
			best = p.Score
		}
	}
	return g.names(func(p *Player) bool { return p.Score == best })
}

// Losers are everyone who did not win
func (g *Game) Losers() []string {
	winners := g.Winners()
	return g.names(func(p *Player) bool {
		for _, w := range winners {
			if p.Name == w {
				return false
			}
		}
		return true
	})
}

func (g *Game) names(keep func(p *Player) bool) []string {
	names := []string{}
	for _, p := range g.players {
		if keep(p) {
			names = append(names, p.Name)
		}
	}
	return names
}

func (g *Game) seat(i int) error {
	if g.Finished() {
		return ErrGameOver
	}
	if i < 0 || i >= len(g.players) {
		return ErrUnknownPlayer
	}
	return nil
}

func (g *Game) checkTurn(i int) error {
	if err := g.seat(i); err != nil {
		return err
	}
	if i != g.current {
		return ErrNotYourTurn
	}
	return nil
}

// Buy gives seat i the current discard and up to two cards from the deck
func (g *Game) Buy(i int) (deck.Card, []deck.Card, error) {
	if err := g.seat(i); err != nil {
		return deck.Card{}, nil, err
	}
	if !g.CanBuy(i) {
		return deck.Card{}, nil, ErrCannotBuy
	}

	p := g.players[i]
	card := g.discards[len(g.discards)-1]
	g.discards = g.discards[:len(g.discards)-1]
	extras := g.deck.Deal(BuyExtras)

	p.Hand = append(p.Hand, card)
	p.Hand = append(p.Hand, extras...)
	p.Buys = append(p.Buys, Buy{Round: g.Round(), Card: card})
	g.bought = true

	return card, extras, nil
}

// Draw moves the top of the deck into the current player's hand
func (g *Game) Draw(i int) (deck.Card, error) {
	if err := g.checkTurn(i); err != nil {
		return deck.Card{}, err
	}
	if g.drew != nil {
		return deck.Card{}, ErrAlreadyDrew
	}
	card, ok := g.deck.Draw()
	if !ok {
		return deck.Card{}, ErrDeckEmpty
	}

	p := g.players[i]
	p.Hand = append(p.Hand, card)
	g.drew = &card

	return card, nil
}

// Meld puts cards from the current player's hand on the table.
// A single card is added to the first meld it fits.
func (g *Game) Meld(i int, cards []deck.Card) (MeldResult, error) {
	if err := g.checkTurn(i); err != nil {
		return MeldResult{}, err
	}
	if len(cards) == 0 {
		return MeldResult{}, ErrMinimumOne
	}

	p := g.players[i]
	if !cardsUnique(cards) {
		return MeldResult{}, ErrNotYourCards
	}
	for _, c := range cards {
		if !p.Has(c) {
			return MeldResult{}, ErrNotYourCards
		}
	}
	if len(cards) >= len(p.Hand) {
		return MeldResult{}, ErrCannotMeldAllCards
	}
	if g.drew == nil {
		return MeldResult{}, ErrHasNotDrawn
	}

	round := g.Round()
	melded := g.Melded(i) > 0

	if len(cards) < minMeld {
		if len(cards) == 1 && melded {
			return g.merge(i, cards[0])
		}
		return MeldResult{}, ErrSingleOrThreePlus
	}

	res := meld.Classify(cards)
	if !melded {
		if res.Type != FirstMeld(round) {
			return MeldResult{}, FirstMeldError(round)
		}
		if meld.Jokers(cards) > 1 {
			return MeldResult{}, ErrExcessiveJokers
		}
	}
	if !res.Valid() {
		return MeldResult{}, ErrUnknownType
	}

	p.Hand = deck.Remove(p.Hand, cards...)
	first := len(g.melds)
	for _, part := range res.Parts {
		t := res.Type
		if len(res.Parts) > 1 {
			t = meld.TypeOf(part)
		}
		g.melds = append(g.melds, Meld{Cards: part, Owner: i, Round: round, Type: t})
	}

	return MeldResult{Index: first, Type: res.Type}, nil
}

func (g *Game) merge(i int, card deck.Card) (MeldResult, error) {
	round := g.Round()
	for idx, m := range g.melds {
		if m.Round != round {
			continue
		}
		cards := append(append([]deck.Card{}, m.Cards...), card)
		t := meld.Simple(cards)
		if !t.Valid() {
			continue
		}
		g.melds[idx].Cards = cards
		g.melds[idx].Type = t
		g.players[i].Hand = deck.Remove(g.players[i].Hand, card)
		return MeldResult{Merged: true, Index: idx, Type: t}, nil
	}
	return MeldResult{}, ErrUnknownType
}

// Discard ends the current player's turn. It reports whether that ended the round.
func (g *Game) Discard(i int, card deck.Card) (bool, error) {
	if err := g.checkTurn(i); err != nil {
		return false, err
	}
	if g.drew == nil {
		return false, ErrMustDraw
	}
	p := g.players[i]
	if !p.Has(card) {
		return false, ErrNotYourCard
	}

	p.Hand = deck.Remove(p.Hand, card)
	p.Discards = append(p.Discards, card)
	g.discards = append(g.discards, card)
	g.bought = false
	g.drew = nil

	if len(p.Hand) == 0 || len(g.deck) == 0 {
		g.endRound()
		return true, nil
	}

	g.current = g.Next()
	return false, nil
}

func cardsUnique(cards []deck.Card) bool {
	seen := map[deck.Card]struct{}{}
	for _, c := range cards {
		if _, ok := seen[c]; ok {
			return false
		}
		seen[c] = struct{}{}
	}
	return true
}
