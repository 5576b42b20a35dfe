package http

import (
	"connect_four/internal/config"
	"connect_four/internal/http/handlers"
	"connect_four/internal/http/middleware"
	"connect_four/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, games handlers.Games, hub *ws.Hub, cfg *config.Config) {
	h := handlers.NewHandler(games, hub, cfg.AllowedOrigin)

	var redisPing handlers.PingFunc
	if middleware.RedisEnabled() {
		redisPing = middleware.PingRedis
	}
	healthHandler := handlers.NewHealthHandler(db.Ping, redisPing, cfg.AppVersion)

	r.Use(middleware.RequestID())

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RateLimit(cfg.APIRateLimit, cfg.APIRateWindow))
	// one budget for moves over HTTP and over the socket
	moves := middleware.NewMoveLimiter(cfg.MoveRateLimit, cfg.MoveRateWindow)
	hub.SetLimiter(moves)
	registerAPIRoutes(v1, h, moves.Middleware())

	r.GET("/ws", h.WS)
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, moveRL gin.HandlerFunc) {
	api.POST("/lobbies", h.CreateLobby)
	api.GET("/lobbies/:lobby", h.GetLobby)

	api.POST("/lobbies/:lobby/games", middleware.JWT(), h.CreateGame)
	api.GET("/lobbies/:lobby/games/:game", h.GetGame)
	api.POST("/lobbies/:lobby/games/:game/moves", middleware.JWT(), moveRL, h.MakeMove)

	api.GET("/me/games", middleware.JWT(), h.MyGames)
}
