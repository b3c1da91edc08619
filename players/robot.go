package players

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/minaorangina/telefunken/deck"
	"github.com/minaorangina/telefunken/meld"
	"github.com/minaorangina/telefunken/protocol"
)

// Level is how hard a robot tries
type Level int

const (
	// Basic never buys or melds and discards at random
	Basic Level = iota
	// Greedy buys discards that pair with its hand, melds as soon as it
	// can and throws away its most expensive card
	Greedy
)

var levelNames = map[Level]string{
	Basic:  "basic",
	Greedy: "greedy",
}

func (l Level) String() string {
	return levelNames[l]
}

func ParseLevel(s string) (Level, error) {
	for l, name := range levelNames {
		if strings.EqualFold(s, name) {
			return l, nil
		}
	}
	return Basic, fmt.Errorf("unknown robot level %q", s)
}

type RobotOpts struct {
	Level Level
	// Delay is how long the robot pretends to think
	Delay time.Duration
	Seed  int64
}

// Robot is a computer player
type Robot struct {
	id    string
	name  string
	level Level
	delay time.Duration

	mu       sync.Mutex
	rng      *rand.Rand
	rejected bool
}

func NewRobot(id, name string, opts RobotOpts) *Robot {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Robot{
		id:    id,
		name:  name,
		level: opts.Level,
		delay: opts.Delay,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

func (r *Robot) ID() string {
	return r.id
}

func (r *Robot) Name() string {
	return r.name
}

func (r *Robot) Level() Level {
	return r.level
}

func (r *Robot) Send(msg protocol.OutboundMessage) error {
	if msg.Command == protocol.Error {
		r.mu.Lock()
		r.rejected = true
		r.mu.Unlock()
	}
	return nil
}

func (r *Robot) Prompt(ctx context.Context, msg protocol.OutboundMessage) (protocol.InboundMessage, error) {
	if r.delay > 0 {
		select {
		case <-ctx.Done():
			return protocol.InboundMessage{}, ctx.Err()
		case <-time.After(r.delay):
		}
	}
	if err := ctx.Err(); err != nil {
		return protocol.InboundMessage{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	rejected := r.rejected
	r.rejected = false

	reply := protocol.InboundMessage{PlayerID: r.id, Command: msg.Command}
	hand, err := toCards(msg.Hand)
	if err != nil {
		return reply, err
	}

	switch msg.Command {
	case protocol.Buy:
		reply.Buy = r.level == Greedy && wantsDiscard(hand, msg.Discard)
	case protocol.MeldCmd:
		// something it tried was refused; leave it for this turn
		if r.level == Greedy && !rejected {
			reply.Decision = chooseMeld(hand, msg)
		}
	case protocol.Discard:
		reply.Decision = []int{r.chooseDiscard(hand)}
	}
	return reply, nil
}

func (r *Robot) chooseDiscard(hand []deck.Card) int {
	if len(hand) == 0 {
		return 0
	}
	if r.level == Basic {
		return r.rng.Intn(len(hand))
	}

	choice, most := 0, -1
	for i, c := range hand {
		if !c.IsJoker() && c.Points() > most {
			choice, most = i, c.Points()
		}
	}
	return choice
}

func wantsDiscard(hand []deck.Card, discard *protocol.Card) bool {
	if discard == nil {
		return false
	}
	f, err := discard.Face()
	if err != nil {
		return false
	}
	if f.Rank == deck.Joker {
		return true
	}
	for _, c := range hand {
		if c.Rank == f.Rank {
			return true
		}
	}
	return false
}

// chooseMeld puts down the meld the round asks for, or once that is down
// lays off a single card onto the table
func chooseMeld(hand []deck.Card, msg protocol.OutboundMessage) []int {
	if msg.Required != "" {
		found := meld.Find(hand, meld.Type(msg.Required), 1)
		if len(found) == 0 || len(found) >= len(hand) {
			return []int{}
		}
		return found
	}

	if len(hand) < 2 {
		return []int{}
	}
	for _, m := range msg.Melds {
		table, err := toCards(m.Cards)
		if err != nil {
			continue
		}
		for i, c := range hand {
			if meld.Simple(append(table, c)).Valid() {
				return []int{i}
			}
		}
	}
	return []int{}
}
