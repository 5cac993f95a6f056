// cmd/admintoken phát hành JWT cho vận hành (gọi admin API khi chưa có auth service)
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"catalog-backend/pkg/jwt"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	userID := flag.String("user", "ops", "user_id claim")
	role := flag.String("role", "admin", "role claim")
	ttl := flag.Duration("ttl", defaultTTL(), "token lifetime (default JWT_TOKEN_TTL hoặc 24h)")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal().Msg("JWT_SECRET is not set")
	}

	token, err := jwt.NewManager(secret, *ttl).GenerateToken(*userID, *role)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to generate token")
	}

	fmt.Println(token)
}

func defaultTTL() time.Duration {
	if d, err := time.ParseDuration(os.Getenv("JWT_TOKEN_TTL")); err == nil && d > 0 {
		return d
	}
	return 24 * time.Hour
}
