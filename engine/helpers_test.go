package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/minaorangina/telefunken/deck"
	"github.com/minaorangina/telefunken/meld"
	"github.com/minaorangina/telefunken/protocol"
)

// testPlayer answers prompts with decide and keeps everything it is sent
type testPlayer struct {
	id     string
	name   string
	decide func(msg protocol.OutboundMessage) protocol.InboundMessage

	mu       sync.Mutex
	received []protocol.OutboundMessage
	prompts  []protocol.OutboundMessage
}

func newTestPlayer(id, name string) *testPlayer {
	p := &testPlayer{id: id, name: name}
	p.decide = p.eager
	return p
}

func (p *testPlayer) ID() string   { return p.id }
func (p *testPlayer) Name() string { return p.name }

func (p *testPlayer) Send(msg protocol.OutboundMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.received = append(p.received, msg)
	return nil
}

func (p *testPlayer) Prompt(ctx context.Context, msg protocol.OutboundMessage) (protocol.InboundMessage, error) {
	p.mu.Lock()
	p.prompts = append(p.prompts, msg)
	p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return protocol.InboundMessage{}, err
	}
	reply := p.decide(msg)
	reply.PlayerID = p.id
	reply.Command = msg.Command
	return reply, nil
}

func (p *testPlayer) messages() []protocol.OutboundMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]protocol.OutboundMessage{}, p.received...)
}

func (p *testPlayer) lastRejected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.received) > 0 && p.received[len(p.received)-1].Command == protocol.Error
}

func (p *testPlayer) errors() []string {
	codes := []string{}
	for _, msg := range p.messages() {
		if msg.Command == protocol.Error {
			codes = append(codes, msg.Error)
		}
	}
	return codes
}

// eager buys whenever it can, puts down its first meld when it finds one
// and discards its first card
func (p *testPlayer) eager(msg protocol.OutboundMessage) protocol.InboundMessage {
	switch msg.Command {
	case protocol.Buy:
		return protocol.InboundMessage{Buy: true}
	case protocol.MeldCmd:
		if msg.Required == "" || p.lastRejected() {
			return protocol.InboundMessage{}
		}
		hand, err := toDeckCards(msg.Hand)
		if err != nil {
			return protocol.InboundMessage{}
		}
		found := meld.Find(hand, meld.Type(msg.Required), 1)
		if len(found) >= len(hand) {
			return protocol.InboundMessage{}
		}
		return protocol.InboundMessage{Decision: found}
	}
	return protocol.InboundMessage{Decision: []int{0}}
}

// blocker never answers
type blocker struct {
	*testPlayer
	asked chan protocol.Cmd
}

func newBlocker(id, name string) *blocker {
	return &blocker{testPlayer: newTestPlayer(id, name), asked: make(chan protocol.Cmd, 100)}
}

func (b *blocker) Prompt(ctx context.Context, msg protocol.OutboundMessage) (protocol.InboundMessage, error) {
	select {
	case b.asked <- msg.Command:
	default:
	}
	<-ctx.Done()
	return protocol.InboundMessage{}, ctx.Err()
}

// toDeckCards gives wire cards stand-in identities, good enough for searching a hand
func toDeckCards(wire []protocol.Card) ([]deck.Card, error) {
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

func testPlayers() (Players, []*testPlayer) {
	tps := []*testPlayer{}
	ps := Players{}
	for i, name := range []string{"ana", "bo", "cy", "di"} {
		tp := newTestPlayer(fmt.Sprintf("player-%d", i), name)
		tps = append(tps, tp)
		ps = append(ps, tp)
	}
	return ps, tps
}

func newTestEngine(ps Players, seed int64) (*GameEngine, error) {
	return NewGameEngine(GameEngineOpts{
		GameID:    "game-id",
		CreatorID: ps[0].ID(),
		Players:   ps,
		Shuffle:   deck.Seeded(seed),
	})
}

func eventsOf(msgs []protocol.OutboundMessage) []protocol.Event {
	events := []protocol.Event{}
	for _, msg := range msgs {
		if msg.Command == protocol.EventCmd && msg.Event != nil {
			events = append(events, *msg.Event)
		}
	}
	return events
}

func countKind(events []protocol.Event, kind string) int {
	n := 0
	for _, ev := range events {
		if ev.Kind() == kind {
			n++
		}
	}
	return n
}
