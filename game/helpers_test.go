package game

import (
	"testing"

	"github.com/minaorangina/telefunken/deck"
	"github.com/minaorangina/telefunken/protocol"
	"github.com/stretchr/testify/require"
)

var testNames = []string{"ana", "bo", "cy", "di"}

func newTestGame(t *testing.T) *Game {
	t.Helper()
	g, err := New(testNames, Opts{Shuffle: unshuffled})
	require.NoError(t, err)
	return g
}

func face(t *testing.T, code string) deck.Face {
	t.Helper()
	f, err := deck.ParseFace(code)
	require.NoError(t, err)
	return f
}

// give moves cards with these faces into seat's hand, trading away cards
// from the end of the hand so every card stays in exactly one place.
// It returns the cards given.
func give(t *testing.T, g *Game, seat int, codes ...string) []deck.Card {
	t.Helper()
	given := []deck.Card{}
	for _, code := range codes {
		f := face(t, code)
		hand := g.players[seat].Hand

		// the last slot not already holding a given card
		dst := -1
		for i := len(hand) - 1; i >= 0; i-- {
			if !deck.Contains(given, hand[i]) {
				dst = i
				break
			}
		}
		require.GreaterOrEqual(t, dst, 0, "no room for %s", code)

		if c, i := deck.Find(hand, deck.ByFace(f)); i >= 0 && !deck.Contains(given, c) {
			given = append(given, c)
			continue
		}
		moved := false
		if _, i := deck.Find(g.deck, deck.ByFace(f)); i >= 0 {
			hand[dst], g.deck[i] = g.deck[i], hand[dst]
			moved = true
		}
		for other := range g.players {
			if moved || other == seat {
				continue
			}
			if _, i := deck.Find(g.players[other].Hand, deck.ByFace(f)); i >= 0 {
				hand[dst], g.players[other].Hand[i] = g.players[other].Hand[i], hand[dst]
				moved = true
			}
		}
		require.True(t, moved, "no %s left to give", code)
		given = append(given, hand[dst])
	}
	require.NoError(t, g.CheckInvariants())
	return given
}

// setRound jumps straight to the start of a round
func setRound(t *testing.T, g *Game, round int) {
	t.Helper()
	g.handsPlayed = round - 1
	g.deal()
}

// recorder plays a game and keeps the log each seat would see,
// plus a spectator's log
type recorder struct {
	g         *Game
	logs      [][]protocol.Event
	spectator []protocol.Event
}

func newRecorder(g *Game) *recorder {
	r := &recorder{g: g, logs: make([][]protocol.Event, g.NumPlayers())}
	r.startRound()
	return r
}

func (r *recorder) broadcast(ev protocol.Event) {
	for i := range r.logs {
		r.logs[i] = append(r.logs[i], ev)
	}
	r.spectator = append(r.spectator, ev)
}

func (r *recorder) send(seat int, ev protocol.Event) {
	r.logs[seat] = append(r.logs[seat], ev)
}

func (r *recorder) startRound() {
	top, _ := r.g.TopDiscard()
	r.broadcast(protocol.StartDiscardEvent(top))
	for i := range r.logs {
		r.send(i, protocol.CardsEvent(r.g.Hand(i)))
	}
}

func (r *recorder) name(seat int) string {
	return r.g.players[seat].Name
}

func (r *recorder) buy(t *testing.T, seat int) {
	t.Helper()
	card, extras, err := r.g.Buy(seat)
	require.NoError(t, err)
	r.broadcast(protocol.BoughtEvent(r.name(seat), card))
	r.send(seat, protocol.YouBoughtEvent(r.name(seat), extras))
}

func (r *recorder) draw(t *testing.T) deck.Card {
	t.Helper()
	seat := r.g.Current()
	card, err := r.g.Draw(seat)
	require.NoError(t, err)
	r.broadcast(protocol.DrewEvent(r.name(seat)))
	r.send(seat, protocol.YouDrewEvent(r.name(seat), card))
	return card
}

func (r *recorder) meld(t *testing.T, cards []deck.Card) {
	t.Helper()
	seat := r.g.Current()
	_, err := r.g.Meld(seat, cards)
	require.NoError(t, err)
	r.broadcast(protocol.MeldedEvent(r.name(seat), cards))
}

func (r *recorder) discard(t *testing.T, card deck.Card) {
	t.Helper()
	seat := r.g.Current()
	ended, err := r.g.Discard(seat, card)
	require.NoError(t, err)
	r.broadcast(protocol.DiscardEvent(r.name(seat), card))
	if ended {
		for i, p := range r.g.players {
			r.broadcast(protocol.ScoresEvent(r.name(i), p.Score))
		}
		if !r.g.Finished() {
			r.startRound()
		}
	}
}

// lastCard is a discard that never empties a meld plan
func lastCard(g *Game) deck.Card {
	hand := g.players[g.Current()].Hand
	return hand[len(hand)-1]
}
