package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"connect_four/internal/config"
	"connect_four/internal/domain"
	httpserver "connect_four/internal/http"
	"connect_four/internal/service"
	"connect_four/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestE2E_WS_Game(t *testing.T) {
	db := openDB(t)
	service.InitJWT("test-secret")
	gin.SetMode(gin.TestMode)

	hub := ws.NewHub()
	games := service.NewGameService(db, hub)
	hub.SetMover(games)

	r := gin.New()
	httpserver.RegisterRoutes(r, db, games, hub, &config.Config{
		APIRateLimit:   1000,
		APIRateWindow:  time.Minute,
		MoveRateLimit:  1000,
		MoveRateWindow: time.Minute,
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	a, b := players()
	tokenA, err := service.GenerateJWT(a, time.Hour)
	require.NoError(t, err)
	tokenB, err := service.GenerateJWT(b, time.Hour)
	require.NoError(t, err)

	var lobby domain.LobbyView
	postJSON(t, srv.URL+"/api/v1/lobbies", "", nil, http.StatusCreated, &lobby)

	var created domain.GameView
	postJSON(t, fmt.Sprintf("%s/api/v1/lobbies/%d/games", srv.URL, lobby.ID), tokenA,
		map[string]int64{"opponent_id": int64(b)}, http.StatusCreated, &created)
	require.Equal(t, "ongoing", created.Status)

	wsBase := "ws" + strings.TrimPrefix(srv.URL, "http")
	dial := func(token string) *websocket.Conn {
		url := fmt.Sprintf("%s/ws?token=%s&lobby=%d&game=%d", wsBase, token, lobby.ID, created.GameID)
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		t.Cleanup(func() { conn.Close() })
		return conn
	}
	connA := dial(tokenA)
	connB := dial(tokenB)

	require.Equal(t, ws.MsgReady, readFrame(t, connA).Type)
	require.Equal(t, ws.MsgState, readFrame(t, connA).Type)
	require.Equal(t, ws.MsgReady, readFrame(t, connB).Type)
	require.Equal(t, ws.MsgState, readFrame(t, connB).Type)

	// B moving first is rejected to B only
	writeMove(t, connB, 3)
	msg := readFrame(t, connB)
	require.Equal(t, ws.MsgError, msg.Type)
	var e ws.ErrorPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &e))
	assert.Equal(t, "NotPlayerTurn", e.Code)

	// moves over HTTP reach both sockets too
	postJSON(t, fmt.Sprintf("%s/api/v1/lobbies/%d/games/%d/moves", srv.URL, lobby.ID, created.GameID), tokenA,
		map[string]int{"column": 0}, http.StatusOK, nil)
	for _, conn := range []*websocket.Conn{connA, connB} {
		state := readState(t, conn)
		assert.Equal(t, uint8(1), state.MoveCount)
	}

	plays := []struct {
		conn   *websocket.Conn
		column int
	}{
		{connB, 1}, {connA, 0}, {connB, 1}, {connA, 0}, {connB, 1}, {connA, 0},
	}
	var last domain.GameView
	for _, p := range plays {
		writeMove(t, p.conn, p.column)
		last = readState(t, connA)
		other := readState(t, connB)
		assert.Equal(t, last.Boards, other.Boards)
		assert.Equal(t, last.MoveCount, other.MoveCount)
	}

	assert.Equal(t, "finished", last.Status)
	assert.Equal(t, "player_a_won", last.Result)
	require.NotNil(t, last.WinnerID)
	assert.Equal(t, int64(a), *last.WinnerID)
	assert.Equal(t, uint8(7), last.MoveCount)
}

func TestE2E_WS_RefusesSpectators(t *testing.T) {
	db := openDB(t)
	service.InitJWT("test-secret")
	gin.SetMode(gin.TestMode)

	hub := ws.NewHub()
	games := service.NewGameService(db, hub)
	r := gin.New()
	httpserver.RegisterRoutes(r, db, games, hub, &config.Config{
		APIRateLimit:   1000,
		APIRateWindow:  time.Minute,
		MoveRateLimit:  1000,
		MoveRateWindow: time.Minute,
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	a, b := players()
	lobby, err := games.CreateLobby(context.Background())
	require.NoError(t, err)
	g, err := games.CreateGame(context.Background(), lobby.ID, a, b)
	require.NoError(t, err)

	token, err := service.GenerateJWT(b+1000, time.Hour)
	require.NoError(t, err)

	url := fmt.Sprintf("ws%s/ws?token=%s&lobby=%d&game=%d", strings.TrimPrefix(srv.URL, "http"), token, lobby.ID, g.Game.ID)
	_, res, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func postJSON(t *testing.T, url, token string, body any, want int, out any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(http.MethodPost, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, want, res.StatusCode)
	if out != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
}

func writeMove(t *testing.T, conn *websocket.Conn, column int) {
	t.Helper()
	frame := fmt.Sprintf(`{"type":"move","payload":{"column":%d}}`, column)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(frame)))
}

func readFrame(t *testing.T, conn *websocket.Conn) ws.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg ws.Message
	require.NoError(t, json.Unmarshal(raw, &msg))
	return msg
}

func readState(t *testing.T, conn *websocket.Conn) domain.GameView {
	t.Helper()
	msg := readFrame(t, conn)
	require.Equal(t, ws.MsgState, msg.Type, "payload: %s", msg.Payload)
	var v domain.GameView
	require.NoError(t, json.Unmarshal(msg.Payload, &v))
	return v
}
