package handlers

import (
	"errors"
	"net/http"

	"connect_four/internal/game"
	"connect_four/internal/http/middleware"
	"connect_four/internal/logger"
	"connect_four/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	codeInvalidRequest = "InvalidRequest"
	codeUnauthorized   = middleware.CodeUnauthorized
	codeForbidden      = "Forbidden"
	codeLobbyNotFound  = "LobbyNotFound"
	codeGameNotFound   = "GameNotFound"
	codeInternal       = "Internal"
)

// statusOf maps an error to its HTTP status and wire code.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, game.ErrInvalidColumnInput), errors.Is(err, game.ErrSamePlayers):
		return http.StatusBadRequest, game.Code(err)
	case errors.Is(err, game.ErrNotPlayerTurn):
		return http.StatusForbidden, game.Code(err)
	case errors.Is(err, game.ErrGameAlreadyFinished), errors.Is(err, game.ErrColumnAlreadyFull):
		return http.StatusConflict, game.Code(err)
	case errors.Is(err, service.ErrLobbyNotFound):
		return http.StatusNotFound, codeLobbyNotFound
	case errors.Is(err, service.ErrGameNotFound):
		return http.StatusNotFound, codeGameNotFound
	case errors.Is(err, game.ErrCorruptState):
		return http.StatusInternalServerError, game.Code(err)
	default:
		return http.StatusInternalServerError, codeInternal
	}
}

func writeError(c *gin.Context, err error) {
	status, code := statusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.WithContext(c.Request.Context()).Error("request failed", "path", c.FullPath(), "error", err)
		msg = "internal error"
	}
	c.JSON(status, gin.H{"error": code, "message": msg})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": codeInvalidRequest, "message": msg})
}
