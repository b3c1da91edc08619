package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/minaorangina/telefunken/engine"
	"github.com/minaorangina/telefunken/game"
	"github.com/minaorangina/telefunken/protocol"
)

var (
	ErrUnknownGameID           = errors.New("unknown game ID")
	ErrUnknownPlayerID         = errors.New("unknown player ID")
	ErrFnUnknownInactiveGameID = func(gameID string) error {
		return fmt.Errorf("pending game with id \"%s\" does not exist: %w", gameID, ErrUnknownGameID)
	}
	ErrGameAlreadyStarted = errors.New("game has already started")
	ErrGameExists         = errors.New("game already exists")
	ErrGameFull           = fmt.Errorf("a game seats %d players", game.NumPlayers)
	ErrNameTaken          = errors.New("that name is taken")
)

type GameStore interface {
	FindActiveGame(gameID string) *engine.GameEngine
	FindInactiveGame(gameID string) *PendingGame
	FindPendingPlayer(gameID, playerID string) engine.Player
	FindPlayer(gameID, playerID string) engine.Player
	AddInactiveGame(gameID string, creator engine.Player) error
	AddPendingPlayer(gameID string, player engine.Player) error
	ActivateGame(ge *engine.GameEngine) error
}

// PendingGame is a game whose seats are still being filled
type PendingGame struct {
	ID        string
	CreatorID string
	Players   engine.Players
}

func (g PendingGame) Info() []protocol.Player {
	return g.Players.Info()
}

// InMemoryGameStore maps game id to pending game or game engine
type InMemoryGameStore struct {
	mu           sync.RWMutex
	Games        map[string]*engine.GameEngine
	PendingGames map[string]*PendingGame
}

// NewInMemoryGameStore constructs an InMemoryGameStore
func NewInMemoryGameStore() *InMemoryGameStore {
	return &InMemoryGameStore{
		Games:        map[string]*engine.GameEngine{},
		PendingGames: map[string]*PendingGame{},
	}
}

func (s *InMemoryGameStore) FindActiveGame(ID string) *engine.GameEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Games[ID]
}

// FindInactiveGame returns a copy of a pending game
func (s *InMemoryGameStore) FindInactiveGame(ID string) *PendingGame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pending, ok := s.PendingGames[ID]
	if !ok {
		return nil
	}
	cp := *pending
	cp.Players = append(engine.Players{}, pending.Players...)
	return &cp
}

func (s *InMemoryGameStore) FindPendingPlayer(gameID, playerID string) engine.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pending, ok := s.PendingGames[gameID]
	if !ok {
		return nil
	}
	p, _ := pending.Players.Find(playerID)
	return p
}

// FindPlayer looks in pending and running games
func (s *InMemoryGameStore) FindPlayer(gameID, playerID string) engine.Player {
	if p := s.FindPendingPlayer(gameID, playerID); p != nil {
		return p
	}
	ge := s.FindActiveGame(gameID)
	if ge == nil {
		return nil
	}
	p, _ := ge.Players().Find(playerID)
	return p
}

func (s *InMemoryGameStore) AddInactiveGame(gameID string, creator engine.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, pending := s.PendingGames[gameID]
	_, active := s.Games[gameID]
	if pending || active {
		return fmt.Errorf("game with id %s: %w", gameID, ErrGameExists)
	}

	s.PendingGames[gameID] = &PendingGame{
		ID:        gameID,
		CreatorID: creator.ID(),
		Players:   engine.NewPlayers(creator),
	}
	return nil
}

// AddPendingPlayer takes a seat in a game that has not started.
// If the target Game does not exist, it will fail.
func (s *InMemoryGameStore) AddPendingPlayer(gameID string, player engine.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.Games[gameID]; ok {
		return ErrGameAlreadyStarted
	}
	pending, ok := s.PendingGames[gameID]
	if !ok {
		return ErrFnUnknownInactiveGameID(gameID)
	}
	if len(pending.Players) >= game.NumPlayers {
		return ErrGameFull
	}
	for _, p := range pending.Players {
		if p.Name() == player.Name() {
			return ErrNameTaken
		}
	}

	pending.Players = engine.AddPlayer(pending.Players, player)
	return nil
}

// ActivateGame swaps a pending game for its running engine
func (s *InMemoryGameStore) ActivateGame(ge *engine.GameEngine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.Games[ge.ID()]; ok {
		return ErrGameAlreadyStarted
	}
	if _, ok := s.PendingGames[ge.ID()]; !ok {
		return ErrFnUnknownInactiveGameID(ge.ID())
	}

	delete(s.PendingGames, ge.ID())
	s.Games[ge.ID()] = ge
	return nil
}
