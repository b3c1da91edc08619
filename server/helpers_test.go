package server

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	utils "github.com/minaorangina/telefunken/internal"
	"github.com/minaorangina/telefunken/players"
	"github.com/minaorangina/telefunken/store"
)

const wsTimeout = 5 * time.Second

func testOpts() ServerOpts {
	return ServerOpts{
		StaticDir:  "./testdata",
		RobotLevel: players.Greedy,
	}
}

// newTestServer starts and returns a new server.
// The caller must call close to shut it down.
func newTestServer(s store.GameStore, opts ServerOpts) (*httptest.Server, *GameServer) {
	gs := NewServer(s, opts)
	return httptest.NewServer(gs), gs
}

func mustMakeJson(t *testing.T, input interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(input)
	utils.AssertNoError(t, err)

	return data
}

func mustDecode(t *testing.T, body *bytes.Buffer, target interface{}) {
	t.Helper()
	if err := json.NewDecoder(body).Decode(target); err != nil {
		t.Fatalf("could not unmarshal json: %s", err.Error())
	}
}

func newCreateGameRequest(data []byte) *http.Request {
	request, _ := http.NewRequest(http.MethodPost, "/new", bytes.NewBuffer(data))
	return request
}

func newJoinGameRequest(data []byte) *http.Request {
	if data == nil {
		data = []byte{}
	}
	request, _ := http.NewRequest(http.MethodPost, "/join", bytes.NewBuffer(data))
	return request
}

func newStartGameRequest(data []byte) *http.Request {
	request, _ := http.NewRequest(http.MethodPost, "/start", bytes.NewBuffer(data))
	return request
}

func newGetGameRequest(gameID string) *http.Request {
	request, _ := http.NewRequest(http.MethodGet, "/game/"+gameID, nil)
	return request
}

func newHistoryRequest(gameID, playerID string) *http.Request {
	q := url.Values{"game_id": {gameID}, "player_id": {playerID}}
	request, _ := http.NewRequest(http.MethodGet, "/history?"+q.Encode(), nil)
	return request
}

func makeWSUrl(serverURL, gameID, playerID string) string {
	q := url.Values{"game_id": {gameID}, "player_id": {playerID}}
	return "ws" + strings.TrimPrefix(serverURL, "http") + "/ws?" + q.Encode()
}

func mustDialWS(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("could not open a ws connection on %s %v", url, err)
	}
	return ws
}

// createGame posts to /new and returns the response
func createGame(t *testing.T, handler http.Handler, name string) PendingGameRes {
	t.Helper()
	response := httptest.NewRecorder()
	handler.ServeHTTP(response, newCreateGameRequest(mustMakeJson(t, NewGameReq{Name: name})))
	assertStatus(t, response.Code, http.StatusCreated)

	var res PendingGameRes
	mustDecode(t, response.Body, &res)
	return res
}

func joinGame(t *testing.T, handler http.Handler, gameID, name string) *httptest.ResponseRecorder {
	t.Helper()
	response := httptest.NewRecorder()
	handler.ServeHTTP(response, newJoinGameRequest(mustMakeJson(t, JoinGameReq{GameID: gameID, Name: name})))
	return response
}

func startGame(t *testing.T, handler http.Handler, gameID, playerID string) *httptest.ResponseRecorder {
	t.Helper()
	response := httptest.NewRecorder()
	handler.ServeHTTP(response, newStartGameRequest(mustMakeJson(t, StartGameReq{GameID: gameID, PlayerID: playerID})))
	return response
}

// ASSERTIONS

func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("got status %d, want %d", got, want)
	}
}

func assertPendingGameResponse(t *testing.T, body *bytes.Buffer, want string) PendingGameRes {
	t.Helper()
	bodyBytes, err := ioutil.ReadAll(body)
	utils.AssertNoError(t, err)

	var got PendingGameRes
	if err := json.Unmarshal(bodyBytes, &got); err != nil {
		t.Fatalf("could not unmarshal json: %s", err.Error())
	}
	if got.Name != want {
		t.Errorf("got %s, want %s", got.Name, want)
	}
	if len(got.GameID) == 0 {
		t.Error("expected a game id")
	}
	if len(got.PlayerID) == 0 {
		t.Error("expected a player id")
	}
	return got
}
