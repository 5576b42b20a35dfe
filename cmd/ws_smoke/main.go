// Command ws_smoke plays a short game against a running server over the
// HTTP API and the websocket, and logs every frame it receives.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"connect_four/internal/game"
	"connect_four/internal/logger"
	"connect_four/internal/service"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
)

func main() {
	playerA := flag.Int64("a", 3001, "player A id")
	playerB := flag.Int64("b", 3002, "player B id")
	flag.Parse()

	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET not set")
	}
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	base := "127.0.0.1:" + port

	service.InitJWT(jwtSecret)
	tokenA, err := service.GenerateJWT(game.PlayerID(*playerA), time.Hour)
	if err != nil {
		logger.Fatal("gen token A", "error", err)
	}
	tokenB, err := service.GenerateJWT(game.PlayerID(*playerB), time.Hour)
	if err != nil {
		logger.Fatal("gen token B", "error", err)
	}

	var lobby struct {
		ID int64 `json:"lobby_id"`
	}
	post("http://"+base+"/api/v1/lobbies", "", nil, &lobby)

	var g struct {
		GameID uint64 `json:"game_id"`
	}
	post(fmt.Sprintf("http://%s/api/v1/lobbies/%d/games", base, lobby.ID), tokenA,
		map[string]int64{"opponent_id": *playerB}, &g)
	logger.Info("game created", "lobby_id", lobby.ID, "game_id", g.GameID)

	dial := func(token string) *websocket.Conn {
		url := fmt.Sprintf("ws://%s/ws?token=%s&lobby=%d&game=%d", base, token, lobby.ID, g.GameID)
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			logger.Fatal("dial", "error", err)
		}
		return conn
	}
	connA := dial(tokenA)
	defer connA.Close()
	connB := dial(tokenB)
	defer connB.Close()

	// ready + initial state
	drain(connA, "A", 2)
	drain(connB, "B", 2)

	// A stacks column 0 while B stacks column 1; A wins on the 7th move.
	moves := []struct {
		conn   *websocket.Conn
		column int
	}{
		{connA, 0}, {connB, 1}, {connA, 0}, {connB, 1}, {connA, 0}, {connB, 1}, {connA, 0},
	}
	for i, m := range moves {
		frame := fmt.Sprintf(`{"type":"move","payload":{"column":%d}}`, m.column)
		if err := m.conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
			logger.Fatal("write move", "move", i+1, "error", err)
		}
		drain(connA, "A", 1)
		drain(connB, "B", 1)
	}

	logger.Info("smoke test finished")
}

func post(url, token string, body any, out any) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			logger.Fatal("encode body", "error", err)
		}
	}
	req, err := http.NewRequest(http.MethodPost, url, &buf)
	if err != nil {
		logger.Fatal("build request", "error", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		logger.Fatal("post", "url", url, "error", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusCreated {
		logger.Fatal("unexpected status", "url", url, "status", res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		logger.Fatal("decode response", "error", err)
	}
}

func drain(conn *websocket.Conn, name string, n int) {
	for i := 0; i < n; i++ {
		_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			logger.Warn("read error", "player", name, "error", err)
			return
		}
		logger.Info("frame", "player", name, "data", string(msg))
	}
}
