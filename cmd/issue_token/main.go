// Command issue_token prints a signed JWT for a player id. Identities are
// issued elsewhere; this is for local testing.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"connect_four/internal/game"
	"connect_four/internal/logger"
	"connect_four/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	player := flag.Int64("player", 0, "player id (non-zero)")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logger.Fatal("JWT_SECRET not set")
	}
	if *player == 0 {
		logger.Fatal("-player is required")
	}

	service.InitJWT(secret)
	token, err := service.GenerateJWT(game.PlayerID(*player), *ttl)
	if err != nil {
		logger.Fatal("generate token", "error", err)
	}
	fmt.Println(token)
}
