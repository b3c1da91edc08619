package game

import (
	"github.com/minaorangina/telefunken/deck"
	"github.com/minaorangina/telefunken/protocol"
)

// Replayer rebuilds a game from the events one player saw.
//
// Cards the observer has not seen are stand-ins: the replayed game deals
// the pool unshuffled, and whenever a card is revealed a stand-in with the
// right face is swapped into place from the cards the observer cannot see.
// Hand sizes, the discard pile, melds and scores then follow live play.
type Replayer struct {
	game      *Game
	observer  int
	handKnown bool
	// cards in other hands whose face the observer saw them take
	known   map[deck.Card]bool
	lastBuy []deck.Card
	applied int
	err     error
}

// slot is a position in one of the game's ordered collections
type slot struct {
	place Place
	seat  int
	index int
}

func unshuffled([]deck.Card) {}

// NewReplayer starts from a fresh game seen by perspective.
// An empty perspective replays a spectator's log.
func NewReplayer(names []string, perspective string) (*Replayer, error) {
	g, err := New(names, Opts{Shuffle: unshuffled})
	if err != nil {
		return nil, err
	}

	observer := -1
	if perspective != "" {
		if observer = g.PlayerIndex(perspective); observer < 0 {
			return nil, ErrUnknownPlayer
		}
	}

	return &Replayer{
		game:     g,
		observer: observer,
		known:    map[deck.Card]bool{},
	}, nil
}

// Replay applies a whole log to a fresh game
func Replay(names []string, perspective string, events []protocol.Event) (*Game, error) {
	r, err := NewReplayer(names, perspective)
	if err != nil {
		return nil, err
	}
	for _, ev := range events {
		if err := r.Apply(ev); err != nil {
			return nil, err
		}
	}
	return r.Game(), nil
}

func (r *Replayer) Game() *Game {
	return r.game
}

// Applied counts the events replayed so far
func (r *Replayer) Applied() int {
	return r.applied
}

// Apply replays the next event. After an error the replayer is stuck.
func (r *Replayer) Apply(ev protocol.Event) error {
	if r.err != nil {
		return r.err
	}
	if err := r.apply(ev); err != nil {
		r.err = &ReplayError{Index: r.applied, Event: ev, Err: err}
		return r.err
	}
	r.applied++
	return nil
}

func (r *Replayer) apply(ev protocol.Event) error {
	if ev.StartDiscard != nil {
		if err := r.startDiscard(*ev.StartDiscard); err != nil {
			return err
		}
	}
	if ev.Cards != nil {
		if err := r.cards(ev.Cards); err != nil {
			return err
		}
	}
	if ev.Bought != nil {
		if err := r.bought(ev.Name, *ev.Bought); err != nil {
			return err
		}
	}
	if ev.YouBought != nil {
		if err := r.youBought(ev.Name, ev.YouBought); err != nil {
			return err
		}
	}
	if ev.Drew {
		if err := r.drew(ev.Name); err != nil {
			return err
		}
	}
	if ev.YouDrew != nil {
		if err := r.youDrew(ev.Name, *ev.YouDrew); err != nil {
			return err
		}
	}
	if ev.Melded != nil {
		if err := r.melded(ev.Name, ev.Melded); err != nil {
			return err
		}
	}
	if ev.Discard != nil {
		if err := r.discard(ev.Name, *ev.Discard); err != nil {
			return err
		}
	}
	if ev.Scores != nil {
		seat, err := r.seat(ev.Name)
		if err != nil {
			return err
		}
		r.game.players[seat].Score = *ev.Scores
	}
	return nil
}

func (r *Replayer) seat(name string) (int, error) {
	seat := r.game.PlayerIndex(name)
	if seat < 0 {
		return -1, ErrUnknownPlayer
	}
	return seat, nil
}

// private checks an event meant for the observer only
func (r *Replayer) private(name string) error {
	if r.observer < 0 {
		return ErrNotObserver
	}
	if name != "" && name != r.game.players[r.observer].Name {
		return ErrNotObserver
	}
	return nil
}

func (r *Replayer) newRound() {
	r.known = map[deck.Card]bool{}
	r.handKnown = false
	r.lastBuy = nil
}

func (r *Replayer) startDiscard(wire protocol.Card) error {
	face, err := wire.Face()
	if err != nil {
		return err
	}
	g := r.game
	if len(g.discards) != 1 || len(g.melds) != 0 || g.drew != nil {
		return ErrInvalidDeal
	}
	top := slot{place: InDiscards}
	if r.get(top).Face() == face {
		return nil
	}
	src, ok := r.findUnknown(face, -1)
	if !ok {
		return ErrCardNotFound
	}
	r.swap(src, top)
	return nil
}

func (r *Replayer) cards(wire []protocol.Card) error {
	if err := r.private(""); err != nil {
		return err
	}
	faces, err := protocol.Faces(wire)
	if err != nil {
		return err
	}
	if len(faces) != HandSize || len(r.game.players[r.observer].Hand) != HandSize || r.handKnown {
		return ErrInvalidDeal
	}

	pinned := map[deck.Card]bool{}
	for _, face := range faces {
		if _, err := r.reveal(r.observer, face, pinned); err != nil {
			return err
		}
	}
	r.handKnown = true
	return nil
}

func (r *Replayer) bought(name string, wire protocol.Card) error {
	seat, err := r.seat(name)
	if err != nil {
		return err
	}
	face, err := wire.Face()
	if err != nil {
		return err
	}
	top, ok := r.game.TopDiscard()
	if !ok || top.Face() != face {
		return ErrNotTheDiscard
	}

	card, extras, err := r.game.Buy(seat)
	if err != nil {
		return err
	}
	if seat == r.observer {
		r.lastBuy = extras
	} else {
		r.known[card] = true
	}
	return nil
}

func (r *Replayer) youBought(name string, wire []protocol.Card) error {
	if err := r.private(name); err != nil {
		return err
	}
	faces, err := protocol.Faces(wire)
	if err != nil {
		return err
	}
	if len(faces) != len(r.lastBuy) {
		return ErrHandOverflow
	}

	// stand-ins that already show a bought face stay where they are
	free := append([]deck.Card{}, r.lastBuy...)
	pending := []deck.Face{}
	for _, face := range faces {
		if _, i := deck.Find(free, deck.ByFace(face)); i >= 0 {
			free = append(free[:i], free[i+1:]...)
			continue
		}
		pending = append(pending, face)
	}

	hand := r.game.players[r.observer].Hand
	for k, face := range pending {
		dst := slot{place: InHand, seat: r.observer, index: deck.IndexOf(hand, free[k])}
		if dst.index < 0 {
			return ErrCardNotFound
		}
		src, ok := r.findUnknown(face, r.observer)
		if !ok {
			return ErrCardNotFound
		}
		r.swap(src, dst)
	}
	r.lastBuy = nil
	return nil
}

func (r *Replayer) drew(name string) error {
	seat, err := r.seat(name)
	if err != nil {
		return err
	}
	// the observer's draw is replayed from the private event that follows
	if seat == r.observer {
		return nil
	}
	_, err = r.game.Draw(seat)
	return err
}

func (r *Replayer) youDrew(name string, wire protocol.Card) error {
	if err := r.private(name); err != nil {
		return err
	}
	face, err := wire.Face()
	if err != nil {
		return err
	}
	g := r.game
	if len(g.deck) == 0 {
		return ErrDeckEmpty
	}

	top := slot{place: InDeck, index: len(g.deck) - 1}
	if r.get(top).Face() != face {
		src, ok := r.findUnknown(face, r.observer)
		if !ok {
			return ErrCardNotFound
		}
		r.swap(src, top)
	}
	_, err = g.Draw(r.observer)
	return err
}

func (r *Replayer) melded(name string, wire []protocol.Card) error {
	seat, err := r.seat(name)
	if err != nil {
		return err
	}
	faces, err := protocol.Faces(wire)
	if err != nil {
		return err
	}

	pinned := map[deck.Card]bool{}
	cards := make([]deck.Card, 0, len(faces))
	for _, face := range faces {
		c, err := r.reveal(seat, face, pinned)
		if err != nil {
			return err
		}
		cards = append(cards, c)
	}
	_, err = r.game.Meld(seat, cards)
	return err
}

func (r *Replayer) discard(name string, wire protocol.Card) error {
	seat, err := r.seat(name)
	if err != nil {
		return err
	}
	face, err := wire.Face()
	if err != nil {
		return err
	}

	card, err := r.reveal(seat, face, map[deck.Card]bool{})
	if err != nil {
		return err
	}
	ended, err := r.game.Discard(seat, card)
	if err != nil {
		return err
	}
	delete(r.known, card)
	if ended {
		r.newRound()
	}
	return nil
}

// reveal finds a card with face in seat's hand, swapping one in from the
// unseen cards if needed. Cards returned in the same batch are pinned so
// they are not handed out twice.
func (r *Replayer) reveal(seat int, face deck.Face, pinned map[deck.Card]bool) (deck.Card, error) {
	hand := r.game.players[seat].Hand

	// known cards first, so a bought card is the one that leaves the hand
	for _, c := range hand {
		if c.Face() == face && !pinned[c] && r.known[c] {
			pinned[c] = true
			return c, nil
		}
	}
	for _, c := range hand {
		if c.Face() == face && !pinned[c] && (r.isUnknown(seat, c) || r.seesHand(seat)) {
			pinned[c] = true
			return c, nil
		}
	}
	if r.seesHand(seat) {
		return deck.Card{}, ErrCardNotFound
	}

	src, ok := r.findUnknown(face, seat)
	if !ok {
		return deck.Card{}, ErrCardNotFound
	}
	dst, ok := r.swappable(seat, pinned)
	if !ok {
		return deck.Card{}, ErrHandOverflow
	}
	r.swap(src, dst)

	c := r.get(dst)
	pinned[c] = true
	return c, nil
}

// seesHand is true once the observer has been dealt their hand
func (r *Replayer) seesHand(seat int) bool {
	return seat == r.observer && r.handKnown
}

func (r *Replayer) isUnknown(seat int, c deck.Card) bool {
	return !r.seesHand(seat) && !r.known[c]
}

// findUnknown looks for an unseen card with face: first in the deck, then
// in every hand except skip.
func (r *Replayer) findUnknown(face deck.Face, skip int) (slot, bool) {
	for i, c := range r.game.deck {
		if c.Face() == face {
			return slot{place: InDeck, index: i}, true
		}
	}
	for seat, p := range r.game.players {
		if seat == skip {
			continue
		}
		for i, c := range p.Hand {
			if c.Face() == face && r.isUnknown(seat, c) {
				return slot{place: InHand, seat: seat, index: i}, true
			}
		}
	}
	return slot{}, false
}

// swappable picks the last unseen card of a hand to trade away
func (r *Replayer) swappable(seat int, pinned map[deck.Card]bool) (slot, bool) {
	hand := r.game.players[seat].Hand
	for i := len(hand) - 1; i >= 0; i-- {
		if !pinned[hand[i]] && r.isUnknown(seat, hand[i]) {
			return slot{place: InHand, seat: seat, index: i}, true
		}
	}
	return slot{}, false
}

func (r *Replayer) get(s slot) deck.Card {
	switch s.place {
	case InDeck:
		return r.game.deck[s.index]
	case InDiscards:
		return r.game.discards[s.index]
	default:
		return r.game.players[s.seat].Hand[s.index]
	}
}

func (r *Replayer) set(s slot, c deck.Card) {
	switch s.place {
	case InDeck:
		r.game.deck[s.index] = c
	case InDiscards:
		r.game.discards[s.index] = c
	default:
		r.game.players[s.seat].Hand[s.index] = c
	}
}

func (r *Replayer) swap(a, b slot) {
	ca, cb := r.get(a), r.get(b)
	r.set(a, cb)
	r.set(b, ca)

	if g := r.game; g.drew != nil {
		switch *g.drew {
		case ca:
			g.drew = &cb
		case cb:
			g.drew = &ca
		}
	}
}
