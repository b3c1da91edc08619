package engine

import (
	"context"

	"github.com/minaorangina/telefunken/protocol"
)

// Player represents a player in the game
type Player interface {
	ID() string
	Name() string
	// Send delivers a message that needs no reply
	Send(msg protocol.OutboundMessage) error
	// Prompt asks for a decision and waits for it
	Prompt(ctx context.Context, msg protocol.OutboundMessage) (protocol.InboundMessage, error)
}

// Players represents all players in the game
type Players []Player

// NewPlayers returns a set of Players
func NewPlayers(p ...Player) Players {
	return Players(p)
}

// AddPlayer adds a player to a set of Players
func AddPlayer(ps Players, p Player) Players {
	if _, ok := ps.Find(p.ID()); !ok {
		return append(ps, p)
	}
	return ps
}

// Find finds a player by id
func (ps Players) Find(id string) (Player, bool) {
	for _, p := range ps {
		if p.ID() == id {
			return p, true
		}
	}
	return nil, false
}

func (ps Players) Names() []string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name()
	}
	return names
}

func (ps Players) Info() []protocol.Player {
	info := make([]protocol.Player, len(ps))
	for i, p := range ps {
		info[i] = protocol.Player{PlayerID: p.ID(), Name: p.Name()}
	}
	return info
}
