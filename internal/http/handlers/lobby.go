package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateLobby(c *gin.Context) {
	rec, err := h.Games.CreateLobby(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec.View())
}

func (h *Handler) GetLobby(c *gin.Context) {
	lobbyID, ok := parseLobbyID(c.Param("lobby"))
	if !ok {
		badRequest(c, "invalid lobby id")
		return
	}

	rec, err := h.Games.GetLobby(c.Request.Context(), lobbyID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec.View())
}
