package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"connect_four/internal/domain"
	"connect_four/internal/game"
	"connect_four/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second
	moveWait   = 5 * time.Second
	loadWait   = 5 * time.Second

	sendBuffer = 16
)

var errMovesDisabled = errors.New("moves over websocket are disabled")

// LoadFunc reads the committed state of the client's game.
type LoadFunc func(ctx context.Context) (*domain.GameRecord, error)

type Client struct {
	Player game.PlayerID
	Key    Key
	Conn   *websocket.Conn
	Send   chan []byte
	Hub    *Hub

	// highest move count queued so far; -1 before the first state
	mu   sync.Mutex
	sent int
}

func NewClient(player game.PlayerID, key Key, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		Player: player,
		Key:    key,
		Conn:   conn,
		Send:   make(chan []byte, sendBuffer),
		Hub:    hub,
		sent:   -1,
	}
}

// Run greets and subscribes the client, then loads the game and queues it, then serves
// the connection until it closes. Joining first means no committed move can
// fall between the snapshot and the subscription.
func (c *Client) Run(load LoadFunc) {
	c.reply(MsgReady, ReadyPayload{LobbyID: c.Key.LobbyID, GameID: c.Key.GameID, Player: int64(c.Player)})
	c.Hub.Join(c)
	go c.writePump()

	ctx, cancel := context.WithTimeout(context.Background(), loadWait)
	rec, err := load(ctx)
	cancel()
	if err != nil {
		logger.Error("ws load game", "player", c.Player, "game", c.Key.String(), "error", err)
		c.reply(MsgError, ErrorPayload{Code: "Internal", Message: "could not load game"})
		c.Hub.Leave(c)
		return
	}
	if data, err := Encode(MsgState, rec.View()); err == nil {
		c.offer(data, rec.Game.MoveCount)
	}

	c.readPump()
}

// offer queues a state frame unless the client already has a newer or equal
// one queued. It never blocks; false means the frame was dropped.
func (c *Client) offer(data []byte, moves uint8) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if int(moves) <= c.sent {
		return true
	}
	select {
	case c.Send <- data:
		c.sent = int(moves)
		return true
	default:
		return false
	}
}

func (c *Client) readPump() {
	defer func() {
		c.Hub.Leave(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(4096)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("ws read error", "player", c.Player, "game", c.Key.String(), "error", err)
			}
			return
		}
		c.handle(raw)
	}
}

func (c *Client) handle(raw []byte) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.reply(MsgError, ErrorPayload{Code: "InvalidMessage", Message: "malformed message"})
		return
	}

	switch msg.Type {
	case MsgPing:
		c.reply(MsgPong, nil)
	case MsgMove:
		var p MovePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil || p.Column == nil {
			c.reply(MsgError, ErrorPayload{Code: "InvalidMessage", Message: "column is required"})
			return
		}
		column, ok := domain.ParseColumn(*p.Column)
		if !ok {
			c.reply(MsgError, ErrorPayload{Code: "InvalidMessage", Message: "column must be an integer"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), moveWait)
		err := c.Hub.move(ctx, c, column)
		cancel()
		if err != nil {
			e := errorPayload(err)
			if e.Code == "Internal" {
				logger.Error("ws move failed", "player", c.Player, "game", c.Key.String(), "error", err)
			}
			c.reply(MsgError, e)
		}
		// accepted moves come back to every watcher through Publish
	default:
		c.reply(MsgError, ErrorPayload{Code: "UnknownMessage", Message: "unknown message type " + msg.Type})
	}
}

func errorPayload(err error) ErrorPayload {
	if code := game.Code(err); code != "" {
		return ErrorPayload{Code: code, Message: err.Error()}
	}
	if errors.Is(err, ErrMoveRateLimited) {
		return ErrorPayload{Code: "RateLimited", Message: err.Error()}
	}
	return ErrorPayload{Code: "Internal", Message: "internal error"}
}

func (c *Client) reply(typ string, payload any) {
	data, err := Encode(typ, payload)
	if err != nil {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debug("ws write error", "player", c.Player, "error", err)
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
