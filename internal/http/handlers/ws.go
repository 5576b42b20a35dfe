package handlers

import (
	"context"
	"net/http"

	"connect_four/internal/domain"
	"connect_four/internal/logger"
	"connect_four/internal/service"
	"connect_four/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WS streams a game's state to one of its two players and accepts their
// moves. Spectators are refused.
func (h *Handler) WS(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": codeUnauthorized, "message": "token required"})
		return
	}

	player, err := service.ParseJWT(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": codeUnauthorized, "message": "invalid token"})
		return
	}

	lobbyID, ok := parseLobbyID(c.Query("lobby"))
	if !ok {
		badRequest(c, "invalid lobby id")
		return
	}
	gameID, ok := parseGameID(c.Query("game"))
	if !ok {
		badRequest(c, "invalid game id")
		return
	}

	rec, err := h.Games.GetGame(c.Request.Context(), lobbyID, gameID)
	if err != nil {
		writeError(c, err)
		return
	}
	if !rec.Game.HasPlayer(player) {
		c.JSON(http.StatusForbidden, gin.H{"error": codeForbidden, "message": "not a player of this game"})
		return
	}

	allowedOrigin := h.AllowedOrigin
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.WithContext(c.Request.Context()).Warn("ws upgrade failed", "error", err)
		return
	}

	client := ws.NewClient(player, ws.Key{LobbyID: lobbyID, GameID: gameID}, conn, h.Hub)
	// the snapshot is read again after the client joins its room
	go client.Run(func(ctx context.Context) (*domain.GameRecord, error) {
		return h.Games.GetGame(ctx, lobbyID, gameID)
	})
}
