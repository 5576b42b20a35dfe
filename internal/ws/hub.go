package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"connect_four/internal/domain"
	"connect_four/internal/game"
	"connect_four/internal/logger"
)

// Mover plays a move on behalf of a connected player.
type Mover interface {
	MakeMove(ctx context.Context, lobbyID int64, gameID uint64, actor game.PlayerID, column int) (*domain.GameRecord, error)
}

// MoveLimiter caps moves per player.
type MoveLimiter interface {
	Allow(ctx context.Context, player game.PlayerID) (bool, int)
}

// ErrMoveRateLimited rejects a socket move over the player's budget.
var ErrMoveRateLimited = errors.New("move rate limit exceeded")

// Hub fans committed game states out to the players watching them.
type Hub struct {
	mu      sync.RWMutex
	rooms   map[Key]*Room
	mover   Mover
	limiter MoveLimiter
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[Key]*Room)}
}

// SetMover enables moves over the socket. The service that moves also
// publishes into the hub, so the two are wired after construction.
func (h *Hub) SetMover(m Mover) {
	h.mu.Lock()
	h.mover = m
	h.mu.Unlock()
}

// SetLimiter makes socket moves share the HTTP move budget.
func (h *Hub) SetLimiter(l MoveLimiter) {
	h.mu.Lock()
	h.limiter = l
	h.mu.Unlock()
}

// Join subscribes c to its game.
func (h *Hub) Join(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[c.Key]
	if !ok {
		room = newRoom(c.Key)
		h.rooms[c.Key] = room
	}
	room.add(c)
	logger.Debug("ws joined", "game", c.Key.String(), "player", c.Player, "clients", room.size())
}

// Leave unsubscribes c and closes its send channel. Empty rooms are dropped.
func (h *Hub) Leave(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[c.Key]
	if !ok {
		return
	}
	if _, member := room.clients[c]; !member {
		return
	}
	if room.remove(c) {
		delete(h.rooms, c.Key)
	}
	close(c.Send)
	logger.Debug("ws left", "game", c.Key.String(), "player", c.Player)
}

// Publish sends the state in rec to every client watching that game.
func (h *Hub) Publish(rec *domain.GameRecord) {
	data, err := Encode(MsgState, rec.View())
	if err != nil {
		logger.Error("ws encode state", "error", err)
		return
	}

	key := Key{LobbyID: rec.LobbyID, GameID: rec.Game.ID}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if room, ok := h.rooms[key]; ok {
		room.broadcast(data, rec.Game.MoveCount)
	}
}

// Rooms returns the number of games with at least one watcher.
func (h *Hub) Rooms() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

func (h *Hub) move(ctx context.Context, c *Client, column int) error {
	h.mu.RLock()
	m, limiter := h.mover, h.limiter
	h.mu.RUnlock()
	if m == nil {
		return errMovesDisabled
	}
	if limiter != nil {
		if ok, _ := limiter.Allow(ctx, c.Player); !ok {
			return ErrMoveRateLimited
		}
	}
	_, err := m.MakeMove(ctx, c.Key.LobbyID, c.Key.GameID, c.Player, column)
	return err
}

// Encode builds one frame.
func Encode(typ string, payload any) ([]byte, error) {
	msg := Message{Type: typ}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		msg.Payload = raw
	}
	return json.Marshal(msg)
}
