package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"connect_four/internal/domain"
	"connect_four/internal/game"
	"connect_four/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

const (
	defaultGamesLimit = 20
	maxGamesLimit     = 100
)

type createGameRequest struct {
	OpponentID int64 `json:"opponent_id" binding:"required"`
}

type moveRequest struct {
	Column *json.Number `json:"column" binding:"required"`
}

// CreateGame starts a game in the lobby. The caller plays A and moves first.
func (h *Handler) CreateGame(c *gin.Context) {
	player, ok := middleware.Player(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": codeUnauthorized, "message": "player not found"})
		return
	}
	lobbyID, ok := parseLobbyID(c.Param("lobby"))
	if !ok {
		badRequest(c, "invalid lobby id")
		return
	}

	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "opponent_id is required")
		return
	}

	rec, err := h.Games.CreateGame(c.Request.Context(), lobbyID, player, game.PlayerID(req.OpponentID))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec.View())
}

func (h *Handler) GetGame(c *gin.Context) {
	lobbyID, gameID, ok := gameParams(c)
	if !ok {
		return
	}

	rec, err := h.Games.GetGame(c.Request.Context(), lobbyID, gameID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec.View())
}

// MakeMove drops the caller's disc into the requested column.
func (h *Handler) MakeMove(c *gin.Context) {
	player, ok := middleware.Player(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": codeUnauthorized, "message": "player not found"})
		return
	}
	lobbyID, gameID, ok := gameParams(c)
	if !ok {
		return
	}

	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "column is required")
		return
	}
	column, ok := domain.ParseColumn(*req.Column)
	if !ok {
		badRequest(c, "column must be an integer")
		return
	}

	rec, err := h.Games.MakeMove(c.Request.Context(), lobbyID, gameID, player, column)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec.View())
}

// MyGames lists the caller's latest games, newest first.
func (h *Handler) MyGames(c *gin.Context) {
	player, ok := middleware.Player(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": codeUnauthorized, "message": "player not found"})
		return
	}

	limit := defaultGamesLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			badRequest(c, "invalid limit")
			return
		}
		limit = min(n, maxGamesLimit)
	}

	recs, err := h.Games.ListPlayerGames(c.Request.Context(), player, limit)
	if err != nil {
		writeError(c, err)
		return
	}

	games := make([]domain.GameView, 0, len(recs))
	for _, rec := range recs {
		games = append(games, rec.View())
	}
	c.JSON(http.StatusOK, gin.H{"games": games})
}

func gameParams(c *gin.Context) (int64, uint64, bool) {
	lobbyID, ok := parseLobbyID(c.Param("lobby"))
	if !ok {
		badRequest(c, "invalid lobby id")
		return 0, 0, false
	}
	gameID, ok := parseGameID(c.Param("game"))
	if !ok {
		badRequest(c, "invalid game id")
		return 0, 0, false
	}
	return lobbyID, gameID, true
}
