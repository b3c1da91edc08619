package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/minaorangina/telefunken/deck"
	"github.com/minaorangina/telefunken/game"
	"github.com/minaorangina/telefunken/protocol"
	"go.uber.org/zap"
)

// PlayState is where an engine is in its lifecycle
type PlayState int

const (
	Idle PlayState = iota
	InProgress
	Finished
)

var playStateNames = map[PlayState]string{
	Idle:       "idle",
	InProgress: "inProgress",
	Finished:   "finished",
}

func (s PlayState) String() string {
	return playStateNames[s]
}

var (
	ErrNoPlayers      = errors.New("game has no players")
	ErrDuplicateID    = errors.New("player ids must be unique")
	ErrAlreadyStarted = errors.New("game has already started")
	ErrUnknownPlayer  = errors.New("unknown player")
)

// GameEngineOpts configure a GameEngine
type GameEngineOpts struct {
	GameID    string
	CreatorID string
	Players   Players
	// Shuffle orders the pool before each deal. Defaults to deck.Shuffle.
	Shuffle func([]deck.Card)
	Logger  *zap.Logger
	// PromptTimeout bounds each decision. A player who runs out of time
	// passes on buying and melding, and discards the card they drew.
	PromptTimeout time.Duration
}

// Result is how a finished game ended
type Result struct {
	Winners []string
	Losers  []string
	Scores  map[string]int
}

// GameEngine drives one game between connected players:
// it asks them for decisions, applies them to the rules
// and tells everyone what happened.
type GameEngine struct {
	id            string
	creatorID     string
	players       Players
	logger        *zap.Logger
	promptTimeout time.Duration

	mu        sync.Mutex
	game      *game.Game
	playState PlayState
	logs      map[string][]protocol.Event
	spectator []protocol.Event
	prompting map[string]protocol.Cmd
}

// NewGameEngine seats the players in the order given and deals the first round
func NewGameEngine(opts GameEngineOpts) (*GameEngine, error) {
	if len(opts.Players) == 0 {
		return nil, ErrNoPlayers
	}
	seen := map[string]bool{}
	for _, p := range opts.Players {
		if seen[p.ID()] {
			return nil, ErrDuplicateID
		}
		seen[p.ID()] = true
	}

	g, err := game.New(opts.Players.Names(), game.Opts{Shuffle: opts.Shuffle})
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	logs := map[string][]protocol.Event{}
	for _, p := range opts.Players {
		logs[p.ID()] = []protocol.Event{}
	}

	return &GameEngine{
		id:            opts.GameID,
		creatorID:     opts.CreatorID,
		players:       opts.Players,
		logger:        logger.With(zap.String("game_id", opts.GameID)),
		promptTimeout: opts.PromptTimeout,
		game:          g,
		playState:     Idle,
		logs:          logs,
		spectator:     []protocol.Event{},
		prompting:     map[string]protocol.Cmd{},
	}, nil
}

func (ge *GameEngine) ID() string {
	return ge.id
}

func (ge *GameEngine) CreatorID() string {
	return ge.creatorID
}

func (ge *GameEngine) Players() Players {
	return ge.players
}

func (ge *GameEngine) PlayState() PlayState {
	ge.mu.Lock()
	defer ge.mu.Unlock()
	return ge.playState
}

// Round is the round being played, from 1
func (ge *GameEngine) Round() int {
	ge.mu.Lock()
	defer ge.mu.Unlock()
	return ge.game.Round()
}

// Scores lists each player's total by name
func (ge *GameEngine) Scores() map[string]int {
	ge.mu.Lock()
	defer ge.mu.Unlock()
	scores := map[string]int{}
	for i, score := range ge.game.Scores() {
		scores[ge.players[i].Name()] = score
	}
	return scores
}

// Status is the decision the game is waiting on
func (ge *GameEngine) Status() protocol.Status {
	ge.mu.Lock()
	defer ge.mu.Unlock()
	for _, cmd := range ge.prompting {
		if status, ok := protocol.StatusFor(cmd); ok {
			return status
		}
	}
	return ge.game.Status()
}

// History is every event a player has been sent, in order.
// An empty id gives the public log a spectator would have seen.
func (ge *GameEngine) History(playerID string) ([]protocol.Event, error) {
	ge.mu.Lock()
	defer ge.mu.Unlock()
	log := ge.spectator
	if playerID != "" {
		var ok bool
		if log, ok = ge.logs[playerID]; !ok {
			return nil, ErrUnknownPlayer
		}
	}
	return append([]protocol.Event{}, log...), nil
}

// Play runs the game to the end, or until ctx is cancelled
// or a player can no longer be reached.
func (ge *GameEngine) Play(ctx context.Context) (Result, error) {
	ge.mu.Lock()
	if ge.playState != Idle {
		ge.mu.Unlock()
		return Result{}, ErrAlreadyStarted
	}
	ge.playState = InProgress
	ge.mu.Unlock()

	ge.logger.Info("game started", zap.Strings("players", ge.players.Names()))
	for _, p := range ge.players {
		ge.send(p, buildStartMessage(p, ge.players))
	}

	for !ge.finished() {
		ge.startRound()
		hand := ge.handsPlayed()
		for ge.handsPlayed() == hand {
			if err := ge.playTurn(ctx); err != nil {
				ge.logger.Warn("game stopped", zap.Error(err))
				return Result{}, err
			}
		}
		ge.endRound()
	}

	return ge.finish(), nil
}

func (ge *GameEngine) finished() bool {
	ge.mu.Lock()
	defer ge.mu.Unlock()
	return ge.game.Finished()
}

func (ge *GameEngine) handsPlayed() int {
	ge.mu.Lock()
	defer ge.mu.Unlock()
	return ge.game.HandsPlayed()
}

func (ge *GameEngine) startRound() {
	var (
		top   deck.Card
		hands [][]deck.Card
		round int
	)
	ge.withGame(func(g *game.Game) error {
		top, _ = g.TopDiscard()
		round = g.Round()
		for i := range ge.players {
			hands = append(hands, g.Hand(i))
		}
		return nil
	})

	ge.logger.Info("round started", zap.Int("round", round))
	ge.broadcast(protocol.StartDiscardEvent(top))
	for i := range ge.players {
		ge.tell(i, protocol.CardsEvent(hands[i]))
	}
}

func (ge *GameEngine) endRound() {
	var scores []int
	ge.withGame(func(g *game.Game) error {
		scores = g.Scores()
		return nil
	})
	for i, p := range ge.players {
		ge.broadcast(protocol.ScoresEvent(p.Name(), scores[i]))
	}
	ge.logger.Info("round finished", zap.Ints("scores", scores))
}

func (ge *GameEngine) finish() Result {
	ge.mu.Lock()
	result := Result{
		Winners: ge.game.Winners(),
		Losers:  ge.game.Losers(),
		Scores:  map[string]int{},
	}
	for i, score := range ge.game.Scores() {
		result.Scores[ge.players[i].Name()] = score
	}
	ge.playState = Finished
	ge.mu.Unlock()

	for _, p := range ge.players {
		ge.send(p, buildGameOverMessage(p, result.Winners))
	}
	ge.logger.Info("game over", zap.Strings("winners", result.Winners))
	return result
}

func (ge *GameEngine) playTurn(ctx context.Context) error {
	var seat int
	ge.withGame(func(g *game.Game) error {
		seat = g.Current()
		return nil
	})

	if err := ge.offerDiscard(ctx, seat); err != nil {
		return err
	}

	var drawn deck.Card
	if err := ge.withGame(func(g *game.Game) (err error) {
		drawn, err = g.Draw(seat)
		return err
	}); err != nil {
		return fmt.Errorf("draw for %s: %w", ge.players[seat].Name(), err)
	}
	name := ge.players[seat].Name()
	ge.broadcast(protocol.DrewEvent(name))
	ge.tell(seat, protocol.YouDrewEvent(name, drawn))

	if err := ge.meldPhase(ctx, seat); err != nil {
		return err
	}
	return ge.discardPhase(ctx, seat)
}

// offerDiscard asks everyone who may buy the discard, starting with the
// current player. The first to accept gets it.
func (ge *GameEngine) offerDiscard(ctx context.Context, current int) error {
	for _, buyer := range ge.seatsFrom(current) {
		var eligible bool
		ge.withGame(func(g *game.Game) error {
			eligible = g.CanBuy(buyer)
			return nil
		})
		if !eligible {
			continue
		}

		reply, err := ge.prompt(ctx, buyer, protocol.Buy)
		if err != nil {
			return err
		}
		if !reply.Buy {
			continue
		}

		var (
			card   deck.Card
			extras []deck.Card
		)
		if err := ge.withGame(func(g *game.Game) (err error) {
			card, extras, err = g.Buy(buyer)
			return err
		}); err != nil {
			ge.reject(buyer, protocol.Buy, err)
			continue
		}

		name := ge.players[buyer].Name()
		ge.broadcast(protocol.BoughtEvent(name, card))
		ge.tell(buyer, protocol.YouBoughtEvent(name, extras))
		return nil
	}
	return nil
}

// meldPhase lets the current player meld until they choose nothing
func (ge *GameEngine) meldPhase(ctx context.Context, seat int) error {
	for {
		reply, err := ge.prompt(ctx, seat, protocol.MeldCmd)
		if err != nil {
			return err
		}
		if len(reply.Decision) == 0 {
			return nil
		}

		var cards []deck.Card
		if err := ge.withGame(func(g *game.Game) (err error) {
			if cards, err = selectCards(g.Hand(seat), reply.Decision); err != nil {
				return err
			}
			_, err = g.Meld(seat, cards)
			return err
		}); err != nil {
			ge.reject(seat, protocol.MeldCmd, err)
			continue
		}

		ge.broadcast(protocol.MeldedEvent(ge.players[seat].Name(), cards))
	}
}

func (ge *GameEngine) discardPhase(ctx context.Context, seat int) error {
	for {
		reply, err := ge.prompt(ctx, seat, protocol.Discard)
		if err != nil {
			return err
		}

		var card deck.Card
		if err := ge.withGame(func(g *game.Game) error {
			if len(reply.Decision) != 1 {
				return game.ErrNotYourCard
			}
			cards, err := selectCards(g.Hand(seat), reply.Decision)
			if err != nil {
				return game.ErrNotYourCard
			}
			card = cards[0]
			_, err = g.Discard(seat, card)
			return err
		}); err != nil {
			ge.reject(seat, protocol.Discard, err)
			continue
		}

		ge.broadcast(protocol.DiscardEvent(ge.players[seat].Name(), card))
		return nil
	}
}

// prompt asks seat for cmd. When the prompt timeout runs out
// the player gets the default decision instead.
func (ge *GameEngine) prompt(ctx context.Context, seat int, cmd protocol.Cmd) (protocol.InboundMessage, error) {
	p := ge.players[seat]

	ge.mu.Lock()
	msg := buildPrompt(ge.players, ge.game, seat, cmd)
	ge.prompting[p.ID()] = cmd
	ge.mu.Unlock()

	defer func() {
		ge.mu.Lock()
		delete(ge.prompting, p.ID())
		ge.mu.Unlock()
	}()

	promptCtx := ctx
	if ge.promptTimeout > 0 {
		var cancel context.CancelFunc
		promptCtx, cancel = context.WithTimeout(ctx, ge.promptTimeout)
		defer cancel()
	}

	reply, err := p.Prompt(promptCtx, msg)
	if err != nil {
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			ge.logger.Warn("prompt timed out",
				zap.String("player", p.Name()),
				zap.Stringer("command", cmd))
			return ge.defaultDecision(seat, cmd), nil
		}
		if ctx.Err() != nil {
			return protocol.InboundMessage{}, ctx.Err()
		}
		return protocol.InboundMessage{}, fmt.Errorf("prompt %s for %s: %w", p.Name(), cmd, err)
	}
	return reply, nil
}

func (ge *GameEngine) defaultDecision(seat int, cmd protocol.Cmd) protocol.InboundMessage {
	reply := protocol.InboundMessage{PlayerID: ge.players[seat].ID(), Command: cmd}
	if cmd != protocol.Discard {
		return reply
	}

	ge.mu.Lock()
	defer ge.mu.Unlock()
	hand := ge.game.Hand(seat)
	choice := len(hand) - 1
	if drawn, ok := ge.game.Drew(); ok {
		if i := deck.IndexOf(hand, drawn); i >= 0 {
			choice = i
		}
	}
	reply.Decision = []int{choice}
	return reply
}

func (ge *GameEngine) reject(seat int, cmd protocol.Cmd, err error) {
	p := ge.players[seat]
	ge.logger.Debug("decision rejected",
		zap.String("player", p.Name()),
		zap.Stringer("command", cmd),
		zap.Error(err))
	ge.send(p, buildErrorMessage(p, cmd, err))
}

// broadcast records a public event in every log and sends it to everyone
func (ge *GameEngine) broadcast(ev protocol.Event) {
	ge.mu.Lock()
	for id := range ge.logs {
		ge.logs[id] = append(ge.logs[id], ev)
	}
	ge.spectator = append(ge.spectator, ev)
	ge.mu.Unlock()

	for _, p := range ge.players {
		ge.send(p, buildEventMessage(p, ev))
	}
}

// tell records a private event for one seat and sends it to them
func (ge *GameEngine) tell(seat int, ev protocol.Event) {
	p := ge.players[seat]
	ge.mu.Lock()
	ge.logs[p.ID()] = append(ge.logs[p.ID()], ev)
	ge.mu.Unlock()

	ge.send(p, buildEventMessage(p, ev))
}

func (ge *GameEngine) send(p Player, msg protocol.OutboundMessage) {
	if err := p.Send(msg); err != nil {
		ge.logger.Warn("send failed",
			zap.String("player", p.Name()),
			zap.Stringer("command", msg.Command),
			zap.Error(err))
	}
}

func (ge *GameEngine) withGame(fn func(g *game.Game) error) error {
	ge.mu.Lock()
	defer ge.mu.Unlock()
	return fn(ge.game)
}

func (ge *GameEngine) seatsFrom(seat int) []int {
	var seats []int
	ge.withGame(func(g *game.Game) error {
		seats = g.PlayersInPerspective(seat)
		return nil
	})
	return seats
}

// selectCards picks hand cards by index
func selectCards(hand []deck.Card, decision []int) ([]deck.Card, error) {
	cards := make([]deck.Card, 0, len(decision))
	for _, i := range decision {
		if i < 0 || i >= len(hand) {
			return nil, game.ErrNotYourCards
		}
		cards = append(cards, hand[i])
	}
	return cards, nil
}
