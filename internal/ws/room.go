package ws

import (
	"strconv"
	"sync"

	"connect_four/internal/logger"
)

// Key addresses one game.
type Key struct {
	LobbyID int64
	GameID  uint64
}

func (k Key) String() string {
	return strconv.FormatInt(k.LobbyID, 10) + "/" + strconv.FormatUint(k.GameID, 10)
}

// Room holds the connections watching one game. A player may have several
// tabs open, so clients are keyed by connection, not by player.
type Room struct {
	Key     Key
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func newRoom(key Key) *Room {
	return &Room{Key: key, clients: make(map[*Client]struct{})}
}

func (r *Room) add(c *Client) {
	r.mu.Lock()
	r.clients[c] = struct{}{}
	r.mu.Unlock()
}

// remove reports whether the room is empty afterwards.
func (r *Room) remove(c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, c)
	return len(r.clients) == 0
}

func (r *Room) size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// broadcast never blocks: a client whose buffer is full misses the frame
// and picks up the next full state instead.
func (r *Room) broadcast(data []byte, moves uint8) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for c := range r.clients {
		if !c.offer(data, moves) {
			logger.Warn("ws send buffer full, dropping state", "game", r.Key.String(), "player", c.Player)
		}
	}
}
