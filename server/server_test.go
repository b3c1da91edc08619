package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/minaorangina/telefunken/engine"
	utils "github.com/minaorangina/telefunken/internal"
	"github.com/minaorangina/telefunken/players"
	"github.com/minaorangina/telefunken/protocol"
	"github.com/minaorangina/telefunken/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGameID(t *testing.T) {
	id := NewGameID()
	utils.AssertLen(t, id, 6)
	utils.AssertEqual(t, strings.ToUpper(id), id)
}

func TestGETRoot(t *testing.T) {
	server := NewServer(store.NewInMemoryGameStore(), testOpts())

	request, _ := http.NewRequest(http.MethodGet, "/", nil)
	response := httptest.NewRecorder()
	server.ServeHTTP(response, request)

	assertStatus(t, response.Code, http.StatusOK)
	assert.Contains(t, response.Body.String(), "Telefunken")
}

func TestCreateNewGame(t *testing.T) {
	t.Run("returns a game id and player id", func(t *testing.T) {
		s := store.NewInMemoryGameStore()
		server := NewServer(s, testOpts())

		data := mustMakeJson(t, NewGameReq{Name: "Elena"})
		response := httptest.NewRecorder()
		server.ServeHTTP(response, newCreateGameRequest(data))

		assertStatus(t, response.Code, http.StatusCreated)
		res := assertPendingGameResponse(t, response.Body, "Elena")
		utils.AssertTrue(t, res.Admin)
		utils.AssertDeepEqual(t, res.Players, []string{"Elena"})

		t.Log("and the game is waiting for players")
		pending := s.FindInactiveGame(res.GameID)
		require.NotNil(t, pending)
		utils.AssertEqual(t, pending.CreatorID, res.PlayerID)
	})

	t.Run("requires a body", func(t *testing.T) {
		server := NewServer(store.NewInMemoryGameStore(), testOpts())
		request, _ := http.NewRequest(http.MethodPost, "/new", nil)
		response := httptest.NewRecorder()
		server.ServeHTTP(response, request)

		assertStatus(t, response.Code, http.StatusBadRequest)
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		server := NewServer(store.NewInMemoryGameStore(), testOpts())
		response := httptest.NewRecorder()
		server.ServeHTTP(response, newCreateGameRequest([]byte("{name")))

		assertStatus(t, response.Code, http.StatusBadRequest)
		utils.AssertEqual(t, response.Body.String(), "Could not parse body")
	})

	t.Run("requires a name", func(t *testing.T) {
		server := NewServer(store.NewInMemoryGameStore(), testOpts())
		response := httptest.NewRecorder()
		server.ServeHTTP(response, newCreateGameRequest(mustMakeJson(t, NewGameReq{})))

		assertStatus(t, response.Code, http.StatusBadRequest)
	})

	t.Run("only accepts POST", func(t *testing.T) {
		server := NewServer(store.NewInMemoryGameStore(), testOpts())
		request, _ := http.NewRequest(http.MethodGet, "/new", nil)
		response := httptest.NewRecorder()
		server.ServeHTTP(response, request)

		assertStatus(t, response.Code, http.StatusNotFound)
	})
}

func TestRequestsWithoutBody(t *testing.T) {
	server := NewServer(store.NewInMemoryGameStore(), testOpts())

	for _, path := range []string{"/new", "/join", "/start"} {
		t.Run(path, func(t *testing.T) {
			request, _ := http.NewRequest(http.MethodPost, path, nil)
			require.Nil(t, request.Body)

			response := httptest.NewRecorder()
			server.ServeHTTP(response, request)

			assertStatus(t, response.Code, http.StatusBadRequest)
			utils.AssertEqual(t, response.Body.String(), "Missing body")
		})
	}
}

func TestJoinGame(t *testing.T) {
	t.Run("takes a seat in a pending game", func(t *testing.T) {
		s := store.NewInMemoryGameStore()
		server := NewServer(s, testOpts())
		created := createGame(t, server, "Elena")

		response := joinGame(t, server, created.GameID, "Marcus")

		assertStatus(t, response.Code, http.StatusOK)
		res := assertPendingGameResponse(t, response.Body, "Marcus")
		utils.AssertEqual(t, res.Admin, false)
		utils.AssertDeepEqual(t, res.Players, []string{"Elena", "Marcus"})
		utils.AssertTrue(t, s.FindPendingPlayer(created.GameID, res.PlayerID) != nil)
	})

	t.Run("tells the players already seated", func(t *testing.T) {
		ts, gs := newTestServer(store.NewInMemoryGameStore(), testOpts())
		defer ts.Close()
		created := createGame(t, gs, "Elena")

		ws := mustDialWS(t, makeWSUrl(ts.URL, created.GameID, created.PlayerID))
		defer ws.Close()

		assertStatus(t, joinGame(t, gs, created.GameID, "Marcus").Code, http.StatusOK)

		ws.SetReadDeadline(time.Now().Add(wsTimeout))
		var msg protocol.OutboundMessage
		require.NoError(t, ws.ReadJSON(&msg))
		utils.AssertEqual(t, msg.Command, protocol.NewJoiner)
		utils.AssertEqual(t, msg.Joiner.Name, "Marcus")
		utils.AssertEqual(t, msg.PlayerID, created.PlayerID)
	})

	t.Run("unknown game", func(t *testing.T) {
		server := NewServer(store.NewInMemoryGameStore(), testOpts())
		response := joinGame(t, server, "NOPE", "Marcus")

		assertStatus(t, response.Code, http.StatusBadRequest)
		utils.AssertEqual(t, response.Body.String(), unknownGameIDMsg("NOPE"))
	})

	t.Run("name already taken", func(t *testing.T) {
		server := NewServer(store.NewInMemoryGameStore(), testOpts())
		created := createGame(t, server, "Elena")

		response := joinGame(t, server, created.GameID, "Elena")
		assertStatus(t, response.Code, http.StatusConflict)
	})

	t.Run("game full", func(t *testing.T) {
		server := NewServer(store.NewInMemoryGameStore(), testOpts())
		created := createGame(t, server, "Elena")
		for _, name := range []string{"Marcus", "Ola", "Pip"} {
			assertStatus(t, joinGame(t, server, created.GameID, name).Code, http.StatusOK)
		}

		response := joinGame(t, server, created.GameID, "Quinn")
		assertStatus(t, response.Code, http.StatusConflict)
	})

	t.Run("missing fields", func(t *testing.T) {
		server := NewServer(store.NewInMemoryGameStore(), testOpts())
		created := createGame(t, server, "Elena")

		assertStatus(t, joinGame(t, server, "", "Marcus").Code, http.StatusBadRequest)
		assertStatus(t, joinGame(t, server, created.GameID, "").Code, http.StatusBadRequest)

		response := httptest.NewRecorder()
		server.ServeHTTP(response, newJoinGameRequest(nil))
		assertStatus(t, response.Code, http.StatusBadRequest)
		utils.AssertEqual(t, response.Body.String(), "Missing body")
	})
}

func TestStartGame(t *testing.T) {
	s := store.NewInMemoryGameStore()
	gs := NewServer(s, testOpts())
	defer gs.cancel()

	created := createGame(t, gs, "Elena")
	joined := joinGame(t, gs, created.GameID, "Marcus")
	assertStatus(t, joined.Code, http.StatusOK)
	marcus := assertPendingGameResponse(t, joined.Body, "Marcus")

	t.Run("only the creator can start", func(t *testing.T) {
		response := startGame(t, gs, created.GameID, marcus.PlayerID)
		assertStatus(t, response.Code, http.StatusForbidden)
		utils.AssertTrue(t, s.FindActiveGame(created.GameID) == nil)
	})

	t.Run("unknown game", func(t *testing.T) {
		response := startGame(t, gs, "NOPE", created.PlayerID)
		assertStatus(t, response.Code, http.StatusNotFound)
	})

	t.Run("fills empty seats with robots", func(t *testing.T) {
		response := startGame(t, gs, created.GameID, created.PlayerID)
		assertStatus(t, response.Code, http.StatusOK)

		var res GetGameRes
		mustDecode(t, response.Body, &res)
		utils.AssertDeepEqual(t, res.Players, []string{"Elena", "Marcus", "Robot 1", "Robot 2"})
		utils.AssertEqual(t, res.Round, 1)

		ge := s.FindActiveGame(created.GameID)
		require.NotNil(t, ge)
		utils.AssertTrue(t, s.FindInactiveGame(created.GameID) == nil)
		utils.AssertEqual(t, ge.CreatorID(), created.PlayerID)
	})

	t.Run("cannot start twice", func(t *testing.T) {
		response := startGame(t, gs, created.GameID, created.PlayerID)
		assertStatus(t, response.Code, http.StatusConflict)
	})

	t.Run("cannot join once started", func(t *testing.T) {
		response := joinGame(t, gs, created.GameID, "Late")
		assertStatus(t, response.Code, http.StatusConflict)
	})
}

func TestFindGame(t *testing.T) {
	s := store.NewInMemoryGameStore()
	gs := NewServer(s, testOpts())
	defer gs.cancel()
	created := createGame(t, gs, "Elena")

	t.Run("pending", func(t *testing.T) {
		response := httptest.NewRecorder()
		gs.ServeHTTP(response, newGetGameRequest(created.GameID))
		assertStatus(t, response.Code, http.StatusOK)

		var res GetGameRes
		mustDecode(t, response.Body, &res)
		utils.AssertEqual(t, res.Status, statusPending)
		utils.AssertEqual(t, res.PlayState, engine.Idle.String())
		utils.AssertDeepEqual(t, res.Players, []string{"Elena"})
	})

	t.Run("started", func(t *testing.T) {
		assertStatus(t, startGame(t, gs, created.GameID, created.PlayerID).Code, http.StatusOK)

		response := httptest.NewRecorder()
		gs.ServeHTTP(response, newGetGameRequest(created.GameID))
		assertStatus(t, response.Code, http.StatusOK)

		var res GetGameRes
		mustDecode(t, response.Body, &res)
		utils.AssertLen(t, res.Players, 4)
		utils.AssertLen(t, res.Scores, 4)
		assert.NotEqual(t, statusPending, res.Status)
	})

	t.Run("unknown", func(t *testing.T) {
		response := httptest.NewRecorder()
		gs.ServeHTTP(response, newGetGameRequest("NOPE"))
		assertStatus(t, response.Code, http.StatusNotFound)
	})
}

func TestHistory(t *testing.T) {
	s := store.NewInMemoryGameStore()
	gs := NewServer(s, testOpts())
	defer gs.cancel()
	created := createGame(t, gs, "Elena")

	t.Run("not until the game starts", func(t *testing.T) {
		response := httptest.NewRecorder()
		gs.ServeHTTP(response, newHistoryRequest(created.GameID, created.PlayerID))
		assertStatus(t, response.Code, http.StatusNotFound)
	})

	assertStatus(t, startGame(t, gs, created.GameID, created.PlayerID).Code, http.StatusOK)

	t.Run("a player's events", func(t *testing.T) {
		// the first events are sent as play begins
		var res HistoryRes
		require.Eventually(t, func() bool {
			response := httptest.NewRecorder()
			gs.ServeHTTP(response, newHistoryRequest(created.GameID, created.PlayerID))
			if response.Code != http.StatusOK {
				return false
			}
			res = HistoryRes{}
			return json.NewDecoder(response.Body).Decode(&res) == nil && len(res.Events) >= 2
		}, wsTimeout, time.Millisecond)

		utils.AssertEqual(t, res.PlayerID, created.PlayerID)
		utils.AssertLen(t, res.Players, 4)
		utils.AssertTrue(t, res.Events[0].StartDiscard != nil)
		utils.AssertTrue(t, res.Events[1].Cards != nil)
	})

	t.Run("spectators see no hands", func(t *testing.T) {
		response := httptest.NewRecorder()
		gs.ServeHTTP(response, newHistoryRequest(created.GameID, ""))
		assertStatus(t, response.Code, http.StatusOK)

		var res HistoryRes
		mustDecode(t, response.Body, &res)
		for _, ev := range res.Events {
			assert.False(t, ev.Private(), "spectator was sent %s", ev.Kind())
		}
	})

	t.Run("unknown player", func(t *testing.T) {
		response := httptest.NewRecorder()
		gs.ServeHTTP(response, newHistoryRequest(created.GameID, "someone"))
		assertStatus(t, response.Code, http.StatusNotFound)
	})
}

func TestHandleWS(t *testing.T) {
	s := store.NewInMemoryGameStore()
	ts, gs := newTestServer(s, testOpts())
	defer ts.Close()
	created := createGame(t, gs, "Elena")

	t.Run("needs a game and a player", func(t *testing.T) {
		for _, query := range []string{"", "?game_id=" + created.GameID, "?player_id=" + created.PlayerID} {
			_, response, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws"+query, nil)
			utils.AssertErrored(t, err)
			require.NotNil(t, response)
			assertStatus(t, response.StatusCode, http.StatusBadRequest)
		}
	})

	t.Run("unknown player", func(t *testing.T) {
		_, response, err := websocket.DefaultDialer.Dial(makeWSUrl(ts.URL, created.GameID, "someone"), nil)
		utils.AssertErrored(t, err)
		require.NotNil(t, response)
		assertStatus(t, response.StatusCode, http.StatusBadRequest)
	})

	t.Run("one connection per player", func(t *testing.T) {
		first := mustDialWS(t, makeWSUrl(ts.URL, created.GameID, created.PlayerID))
		defer first.Close()

		creator, ok := s.FindPlayer(created.GameID, created.PlayerID).(*players.WSPlayer)
		require.True(t, ok)
		require.Eventually(t, creator.Connected, wsTimeout, time.Millisecond)

		second := mustDialWS(t, makeWSUrl(ts.URL, created.GameID, created.PlayerID))
		defer second.Close()

		second.SetReadDeadline(time.Now().Add(wsTimeout))
		_, _, err := second.ReadMessage()
		utils.AssertTrue(t, websocket.IsCloseError(err, websocket.ClosePolicyViolation))
	})
}
