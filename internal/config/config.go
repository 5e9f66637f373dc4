package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string

	DiscordClientID     string
	DiscordClientSecret string
	DiscordRedirectURL  string

	RedisAddr     string
	RedisPassword string

	DatabaseDSN string

	StaticDir string
}

func Load() Config {
	// A missing .env is fine; deployments set the environment directly.
	_ = godotenv.Load()

	cfg := Config{

		AppPort: getenv("APP_PORT", "8080"),

		DiscordClientID:     os.Getenv("DISCORD_CLIENT_ID"),
		DiscordClientSecret: os.Getenv("DISCORD_CLIENT_SECRET"),
		DiscordRedirectURL:  os.Getenv("DISCORD_REDIRECT_URL"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		DatabaseDSN: os.Getenv("DATABASE_DSN"),

		StaticDir: getenv("STATIC_DIR", "./frontend/dist"),
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
