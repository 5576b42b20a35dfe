package middleware

import (
	"net/http"
	"strings"

	"connect_four/internal/game"
	"connect_four/internal/service"

	"github.com/gin-gonic/gin"
)

const playerKey = "player_id"

// Error codes shared with the handlers' {"error", "message"} bodies.
const (
	CodeUnauthorized = "Unauthorized"
	CodeRateLimited  = "RateLimited"
)

func abort(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": code, "message": msg})
}

// JWT authenticates the caller from the Authorization bearer token and
// stores the player id in the context.
func JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			abort(c, http.StatusUnauthorized, CodeUnauthorized, "bearer token required")
			return
		}

		player, err := service.ParseJWT(token)
		if err != nil {
			abort(c, http.StatusUnauthorized, CodeUnauthorized, "invalid token")
			return
		}

		c.Set(playerKey, player)
		c.Next()
	}
}

// Player returns the player stored by JWT.
func Player(c *gin.Context) (game.PlayerID, bool) {
	v, ok := c.Get(playerKey)
	if !ok {
		return 0, false
	}
	p, ok := v.(game.PlayerID)
	return p, ok
}
