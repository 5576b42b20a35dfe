package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"connect_four/internal/game"
	"connect_four/internal/logger"

	"github.com/gin-gonic/gin"
)

const moveEndpoint = "move"

// MoveLimiter caps moves per player, whichever way they arrive. It counts
// in Redis when the shared client is up and in process otherwise, or when
// Redis fails.
type MoveLimiter struct {
	max    int
	window time.Duration

	mu      sync.Mutex
	players map[game.PlayerID]*clientInfo
}

func NewMoveLimiter(maxMoves int, window time.Duration) *MoveLimiter {
	return &MoveLimiter{
		max:     maxMoves,
		window:  window,
		players: make(map[game.PlayerID]*clientInfo),
	}
}

// Allow counts one move for player and reports whether it may go ahead,
// along with the moves left in the current window.
func (l *MoveLimiter) Allow(ctx context.Context, player game.PlayerID) (bool, int) {
	count := -1
	if redisClient != nil {
		key := "move_rl:" + strconv.FormatInt(int64(player), 10) + ":" + strconv.FormatInt(int64(l.window.Seconds()), 10)
		val, err := hit(ctx, key, l.window)
		if err != nil {
			logger.WithContext(ctx).Warn("move limiter redis error, counting in process", "player", player, "error", err)
		} else {
			count = int(val)
		}
	}
	if count < 0 {
		count = l.local(player)
	}

	if count > l.max {
		RLBlocked.WithLabelValues(moveEndpoint).Inc()
		return false, 0
	}
	RLRequests.WithLabelValues(moveEndpoint).Inc()
	return true, l.max - count
}

func (l *MoveLimiter) local(player game.PlayerID) int {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()
	pi, ok := l.players[player]
	if !ok || now.Sub(pi.last) > l.window {
		l.players[player] = &clientInfo{last: now, count: 1}
		return 1
	}
	pi.count++
	return pi.count
}

// Middleware limits moves of the player authenticated by JWT, which must run first.
func (l *MoveLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		player, ok := Player(c)
		if !ok {
			abort(c, http.StatusUnauthorized, CodeUnauthorized, "player not found")
			return
		}

		allowed, remaining := l.Allow(c.Request.Context(), player)
		c.Header("X-RateLimit-Limit", strconv.Itoa(l.max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       CodeRateLimited,
				"message":     "move rate limit exceeded",
				"retry_after": int(l.window.Seconds()),
			})
			return
		}
		c.Next()
	}
}

// MoveRateLimit is a standalone move limiter for one route.
func MoveRateLimit(maxMoves int, window time.Duration) gin.HandlerFunc {
	return NewMoveLimiter(maxMoves, window).Middleware()
}
