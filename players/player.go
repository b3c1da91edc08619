package players

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/minaorangina/telefunken/protocol"
	uuid "github.com/satori/go.uuid"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Messages queued for a player who is not connected.
	sendBufferSize = 256

	// Decisions held until the engine reads them.
	decisionBufferSize = 8
)

var (
	ErrAlreadyConnected = errors.New("player is already connected")
	ErrSendBufferFull   = errors.New("send buffer full")
)

// NewID constructs a player ID
func NewID() string {
	return uuid.NewV4().String()
}

// WSPlayer plays over a websocket. It can be seated before it connects:
// messages queue until a connection is attached.
type WSPlayer struct {
	id     string
	name   string
	logger *zap.Logger

	send      chan []byte
	decisions chan protocol.InboundMessage

	mu   sync.Mutex
	conn *websocket.Conn
	done chan struct{}
}

// NewWSPlayer constructs a new player
func NewWSPlayer(id, name string, logger *zap.Logger) *WSPlayer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSPlayer{
		id:        id,
		name:      name,
		logger:    logger.With(zap.String("player_id", id)),
		send:      make(chan []byte, sendBufferSize),
		decisions: make(chan protocol.InboundMessage, decisionBufferSize),
	}
}

func (p *WSPlayer) ID() string {
	return p.id
}

func (p *WSPlayer) Name() string {
	return p.name
}

// Attach starts talking to the player over ws
func (p *WSPlayer) Attach(ws *websocket.Conn) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn != nil {
		return ErrAlreadyConnected
	}

	done := make(chan struct{})
	p.conn, p.done = ws, done
	go p.writePump(ws, done)
	go p.readPump(ws, done)
	return nil
}

func (p *WSPlayer) Connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn != nil
}

// Close drops the current connection, if any
func (p *WSPlayer) Close() {
	p.mu.Lock()
	ws, done := p.conn, p.done
	p.mu.Unlock()
	if ws != nil {
		p.detach(ws, done)
	}
}

func (p *WSPlayer) Send(msg protocol.OutboundMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	select {
	case p.send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Prompt sends msg and waits for a decision for the same command
func (p *WSPlayer) Prompt(ctx context.Context, msg protocol.OutboundMessage) (protocol.InboundMessage, error) {
	for drained := false; !drained; {
		select {
		case <-p.decisions:
		default:
			drained = true
		}
	}

	if err := p.Send(msg); err != nil {
		return protocol.InboundMessage{}, err
	}

	for {
		select {
		case <-ctx.Done():
			return protocol.InboundMessage{}, ctx.Err()
		case decision := <-p.decisions:
			if decision.Command != msg.Command {
				p.logger.Debug("ignoring stale decision", zap.Stringer("command", decision.Command))
				continue
			}
			decision.PlayerID = p.id
			return decision, nil
		}
	}
}

func (p *WSPlayer) detach(ws *websocket.Conn, done chan struct{}) {
	p.mu.Lock()
	if p.conn == ws {
		p.conn, p.done = nil, nil
		close(done)
	}
	p.mu.Unlock()
	ws.Close()
}

func (p *WSPlayer) readPump(ws *websocket.Conn, done chan struct{}) {
	defer p.detach(ws, done)

	ws.SetReadLimit(maxMessageSize)
	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg protocol.InboundMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				p.logger.Warn("websocket closed", zap.Error(err))
			}
			return
		}

		select {
		case p.decisions <- msg:
		default:
			p.logger.Debug("dropping decision nobody asked for", zap.Stringer("command", msg.Command))
		}
	}
}

func (p *WSPlayer) writePump(ws *websocket.Conn, done chan struct{}) {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		p.detach(ws, done)
	}()

	for {
		select {
		case <-done:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			ws.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case msg := <-p.send:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			w, err := ws.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(msg)
			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
