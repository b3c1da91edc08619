package server

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/websocket"
	"github.com/minaorangina/telefunken/deck"
	"github.com/minaorangina/telefunken/engine"
	"github.com/minaorangina/telefunken/game"
	"github.com/minaorangina/telefunken/players"
	"github.com/minaorangina/telefunken/protocol"
	"github.com/minaorangina/telefunken/store"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type NewGameReq struct {
	Name string `json:"name"`
}

type PendingGameRes struct {
	GameID   string   `json:"game_id"`
	PlayerID string   `json:"player_id"`
	Name     string   `json:"name"`
	Admin    bool     `json:"is_admin"`
	Players  []string `json:"players"`
}

type JoinGameReq struct {
	GameID string `json:"game_id"`
	Name   string `json:"name"`
}

type StartGameReq struct {
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
}

type GetGameRes struct {
	GameID    string          `json:"game_id"`
	PlayState string          `json:"play_state"`
	Status    protocol.Status `json:"status"`
	Round     int             `json:"round,omitempty"`
	Players   []string        `json:"players"`
	Scores    map[string]int  `json:"scores,omitempty"`
}

type HistoryRes struct {
	GameID   string           `json:"game_id"`
	PlayerID string           `json:"player_id,omitempty"`
	Players  []string         `json:"players"`
	Events   []protocol.Event `json:"events"`
}

// statusPending is shown for games still filling their seats
const statusPending protocol.Status = "pending"

// ServerOpts configure a GameServer
type ServerOpts struct {
	Logger    *zap.Logger
	StaticDir string
	// RobotLevel and RobotDelay set up the robots that fill empty seats
	RobotLevel    players.Level
	RobotDelay    time.Duration
	PromptTimeout time.Duration
	// Shuffle is handed to every game. Defaults to deck.Shuffle.
	Shuffle func([]deck.Card)
}

// GameServer is a game server
type GameServer struct {
	store  store.GameStore
	opts   ServerOpts
	logger *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
	http.Server
}

// NewGameID makes a short code players can read out to each other
func NewGameID() string {
	letters := []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	code := make([]byte, 6)
	for i := range code {
		code[i] = letters[rand.Intn(len(letters))]
	}
	return string(code)
}

func unknownGameIDMsg(unknownID string) string {
	return fmt.Sprintf("unknown game ID '%s'", unknownID)
}

// NewServer creates a new GameServer
func NewServer(s store.GameStore, opts ServerOpts) *GameServer {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.StaticDir == "" {
		opts.StaticDir = "./build"
	}

	g := &GameServer{
		store:  s,
		opts:   opts,
		logger: opts.Logger,
	}
	g.ctx, g.cancel = context.WithCancel(context.Background())

	router := http.NewServeMux()
	router.Handle("/", http.FileServer(http.Dir(opts.StaticDir)))
	router.HandleFunc("/new", g.HandleNewGame)
	router.HandleFunc("/join", g.HandleJoinGame)
	router.HandleFunc("/start", g.HandleStartGame)
	router.HandleFunc("/game/", g.HandleFindGame)
	router.HandleFunc("/history", g.HandleHistory)
	router.HandleFunc("/ws", g.HandleWS)

	stdLog := zap.NewStdLog(opts.Logger)
	var handler http.Handler = router
	handler = handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(handler)
	handler = handlers.RecoveryHandler(handlers.RecoveryLogger(stdLog))(handler)
	handler = handlers.LoggingHandler(stdLog.Writer(), handler)

	g.Handler = handler
	return g
}

// ServeHTTP serves http
func (g *GameServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.Handler.ServeHTTP(w, r)
}

// Shutdown stops every running game as well as the listener
func (g *GameServer) Shutdown(ctx context.Context) error {
	g.cancel()
	return g.Server.Shutdown(ctx)
}

// HandleNewGame handles a request to create a new game
func (g *GameServer) HandleNewGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	var data NewGameReq
	if !decodeBody(w, r, &data) {
		return
	}
	if data.Name == "" {
		writeText(w, http.StatusBadRequest, "Missing player name")
		return
	}

	creator := players.NewWSPlayer(players.NewID(), data.Name, g.logger)
	var (
		gameID string
		err    error
	)
	for tries := 0; tries < 5; tries++ {
		gameID = NewGameID()
		if err = g.store.AddInactiveGame(gameID, creator); !errors.Is(err, store.ErrGameExists) {
			break
		}
	}
	if err != nil {
		g.logger.Error("could not create game", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	g.logger.Info("game created", zap.String("game_id", gameID), zap.String("player_id", creator.ID()))
	writeJSON(w, http.StatusCreated, PendingGameRes{
		GameID:   gameID,
		PlayerID: creator.ID(),
		Name:     data.Name,
		Admin:    true,
		Players:  []string{data.Name},
	})
}

func (g *GameServer) HandleJoinGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	var data JoinGameReq
	if !decodeBody(w, r, &data) {
		return
	}

	if data.GameID == "" {
		writeText(w, http.StatusBadRequest, "Missing game ID")
		return
	}
	if data.Name == "" {
		writeText(w, http.StatusBadRequest, "Missing player name")
		return
	}

	pending := g.store.FindInactiveGame(data.GameID)
	if pending == nil {
		if g.store.FindActiveGame(data.GameID) != nil {
			writeText(w, http.StatusConflict, store.ErrGameAlreadyStarted.Error())
			return
		}
		writeText(w, http.StatusBadRequest, unknownGameIDMsg(data.GameID))
		return
	}

	joiner := players.NewWSPlayer(players.NewID(), data.Name, g.logger)
	err := g.store.AddPendingPlayer(data.GameID, joiner)
	switch {
	case errors.Is(err, store.ErrGameFull), errors.Is(err, store.ErrNameTaken), errors.Is(err, store.ErrGameAlreadyStarted):
		writeText(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		g.logger.Error("could not join game", zap.String("game_id", data.GameID), zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	info := protocol.Player{PlayerID: joiner.ID(), Name: joiner.Name()}
	for _, p := range pending.Players {
		p.Send(protocol.OutboundMessage{
			PlayerID: p.ID(),
			Command:  protocol.NewJoiner,
			Name:     p.Name(),
			Message:  fmt.Sprintf("%s has joined the game!", joiner.Name()),
			Joiner:   info,
		})
	}

	writeJSON(w, http.StatusOK, PendingGameRes{
		GameID:   data.GameID,
		PlayerID: joiner.ID(),
		Name:     data.Name,
		Players:  append(pending.Players.Names(), data.Name),
	})
}

// HandleStartGame fills any empty seats with robots and starts play
func (g *GameServer) HandleStartGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	var data StartGameReq
	if !decodeBody(w, r, &data) {
		return
	}

	pending := g.store.FindInactiveGame(data.GameID)
	if pending == nil {
		if g.store.FindActiveGame(data.GameID) != nil {
			writeText(w, http.StatusConflict, store.ErrGameAlreadyStarted.Error())
			return
		}
		writeText(w, http.StatusNotFound, unknownGameIDMsg(data.GameID))
		return
	}
	if pending.CreatorID != data.PlayerID {
		writeText(w, http.StatusForbidden, "only the creator can start the game")
		return
	}

	ps := pending.Players
	for n := 1; len(ps) < game.NumPlayers; n++ {
		name := fmt.Sprintf("Robot %d", n)
		if _, taken := findByName(ps, name); taken {
			continue
		}
		ps = append(ps, players.NewRobot(players.NewID(), name, players.RobotOpts{
			Level: g.opts.RobotLevel,
			Delay: g.opts.RobotDelay,
		}))
	}

	ge, err := engine.NewGameEngine(engine.GameEngineOpts{
		GameID:        pending.ID,
		CreatorID:     pending.CreatorID,
		Players:       ps,
		Shuffle:       g.opts.Shuffle,
		Logger:        g.logger,
		PromptTimeout: g.opts.PromptTimeout,
	})
	if err != nil {
		g.logger.Error("could not create engine", zap.String("game_id", pending.ID), zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if err := g.store.ActivateGame(ge); err != nil {
		writeText(w, http.StatusConflict, err.Error())
		return
	}

	go g.play(ge)

	writeJSON(w, http.StatusOK, gameRes(ge))
}

func (g *GameServer) play(ge *engine.GameEngine) {
	result, err := ge.Play(g.ctx)
	if err != nil {
		g.logger.Warn("game ended early", zap.String("game_id", ge.ID()), zap.Error(err))
		return
	}
	g.logger.Info("game finished", zap.String("game_id", ge.ID()), zap.Strings("winners", result.Winners))
}

func (g *GameServer) HandleFindGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	gameID := strings.TrimPrefix(r.URL.Path, "/game/")
	if gameID == "" {
		writeText(w, http.StatusBadRequest, "missing game ID")
		return
	}

	if ge := g.store.FindActiveGame(gameID); ge != nil {
		writeJSON(w, http.StatusOK, gameRes(ge))
		return
	}
	if pending := g.store.FindInactiveGame(gameID); pending != nil {
		writeJSON(w, http.StatusOK, GetGameRes{
			GameID:    gameID,
			PlayState: engine.Idle.String(),
			Status:    statusPending,
			Players:   pending.Players.Names(),
		})
		return
	}

	writeText(w, http.StatusNotFound, unknownGameIDMsg(gameID))
}

// HandleHistory returns the events a player has been sent.
// Without a player id it returns what a spectator would have seen.
func (g *GameServer) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	query := r.URL.Query()
	gameID, playerID := query.Get("game_id"), query.Get("player_id")
	if gameID == "" {
		writeText(w, http.StatusBadRequest, "missing game ID")
		return
	}

	ge := g.store.FindActiveGame(gameID)
	if ge == nil {
		writeText(w, http.StatusNotFound, unknownGameIDMsg(gameID))
		return
	}

	events, err := ge.History(playerID)
	if err != nil {
		writeText(w, http.StatusNotFound, "unknown player ID")
		return
	}

	writeJSON(w, http.StatusOK, HistoryRes{
		GameID:   gameID,
		PlayerID: playerID,
		Players:  ge.Players().Names(),
		Events:   events,
	})
}

type attacher interface {
	Attach(ws *websocket.Conn) error
}

func (g *GameServer) HandleWS(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	gameID, playerID := query.Get("game_id"), query.Get("player_id")
	if gameID == "" {
		writeText(w, http.StatusBadRequest, "missing game ID")
		return
	}
	if playerID == "" {
		writeText(w, http.StatusBadRequest, "missing player ID")
		return
	}

	player := g.store.FindPlayer(gameID, playerID)
	if player == nil {
		writeText(w, http.StatusBadRequest, "unknown player ID")
		return
	}
	remote, ok := player.(attacher)
	if !ok {
		writeText(w, http.StatusBadRequest, "that seat is not played over a websocket")
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn("could not upgrade to websocket", zap.Error(err))
		return
	}

	if err := remote.Attach(ws); err != nil {
		g.logger.Info("refusing second connection", zap.String("player_id", playerID), zap.Error(err))
		ws.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()))
		ws.Close()
		return
	}
	g.logger.Info("player connected", zap.String("game_id", gameID), zap.String("player_id", playerID))
}

func gameRes(ge *engine.GameEngine) GetGameRes {
	return GetGameRes{
		GameID:    ge.ID(),
		PlayState: ge.PlayState().String(),
		Status:    ge.Status(),
		Round:     ge.Round(),
		Players:   ge.Players().Names(),
		Scores:    ge.Scores(),
	}
}

func findByName(ps engine.Players, name string) (engine.Player, bool) {
	for _, p := range ps {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}
