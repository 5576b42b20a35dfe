package handlers

import (
	"context"
	"strconv"

	"connect_four/internal/domain"
	"connect_four/internal/game"
	"connect_four/internal/ws"
)

// Games is the part of service.GameService the handlers use.
type Games interface {
	CreateLobby(ctx context.Context) (*domain.LobbyRecord, error)
	GetLobby(ctx context.Context, lobbyID int64) (*domain.LobbyRecord, error)
	CreateGame(ctx context.Context, lobbyID int64, playerA, playerB game.PlayerID) (*domain.GameRecord, error)
	GetGame(ctx context.Context, lobbyID int64, gameID uint64) (*domain.GameRecord, error)
	ListPlayerGames(ctx context.Context, player game.PlayerID, limit int) ([]*domain.GameRecord, error)
	MakeMove(ctx context.Context, lobbyID int64, gameID uint64, actor game.PlayerID, column int) (*domain.GameRecord, error)
}

type Handler struct {
	Games         Games
	Hub           *ws.Hub
	AllowedOrigin string
}

func NewHandler(games Games, hub *ws.Hub, allowedOrigin string) *Handler {
	return &Handler{
		Games:         games,
		Hub:           hub,
		AllowedOrigin: allowedOrigin,
	}
}

func parseLobbyID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func parseGameID(s string) (uint64, bool) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
