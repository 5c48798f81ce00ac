package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL   string        `env:"DATABASE_URL,required,notEmpty"`
	RedisURL      string        `env:"REDIS_URL"`
	HTTPAddr      string        `env:"HTTP_ADDR"         envDefault:":8080"`
	FrontendURL   string        `env:"FRONTEND_URL"`
	NewsAPIKey    string        `env:"NEWS_API_KEY"`
	GuardianKey   string        `env:"GUARDIAN_API_KEY"`
	NYTKey        string        `env:"NYT_API_KEY"`
	FetchCacheTTL time.Duration `env:"FETCH_CACHE_TTL"   envDefault:"1h"`
	FetchSchedule string        `env:"FETCH_SCHEDULE"    envDefault:"0 * * * *"`
	LogLevel      string        `env:"LOG_LEVEL"         envDefault:"info"`
}

// Load reads an optional .env file and then parses the environment.
func Load() (Config, error) {
	godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if cfg.FetchCacheTTL <= 0 {
		return Config{}, fmt.Errorf("FETCH_CACHE_TTL must be positive, got %s", cfg.FetchCacheTTL)
	}

	return cfg, nil
}

func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c Config) AllowedOrigins() []string {
	origins := []string{"http://localhost:3000"}
	if c.FrontendURL != "" {
		origins = append(origins, c.FrontendURL)
	}
	return origins
}
