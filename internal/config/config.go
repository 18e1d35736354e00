// README: Config loader with env defaults for HTTP, DB, Redis, Maps, and room settings.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type RoomConfig struct {
	TTLMinutes     int
	CleanupSeconds int
}

type OptimizeConfig struct {
	DefaultRadiusM int
	DefaultTopN    int
}

type Config struct {
	HTTP struct {
		Addr string
	}
	// DB.DSN empty means rooms live in memory only.
	DB struct {
		DSN string
	}
	// Redis.Addr empty disables the ETA cache.
	Redis struct {
		Addr string
	}
	Maps struct {
		APIKey string
	}
	Room     RoomConfig
	Optimize OptimizeConfig
}

func Load() (Config, error) {
	// local development convenience; a missing .env is not an error
	_ = godotenv.Load()

	var cfg Config
	cfg.HTTP.Addr = envOrDefault("MEETPOINT_HTTP_ADDR", ":8080")
	cfg.DB.DSN = os.Getenv("MEETPOINT_DB_DSN")
	cfg.Redis.Addr = os.Getenv("MEETPOINT_REDIS_ADDR")
	cfg.Maps.APIKey = os.Getenv("GOOGLE_MAPS_KEY")
	cfg.Room.TTLMinutes = envOrDefaultInt("MEETPOINT_ROOM_TTL_MIN", 120)
	cfg.Room.CleanupSeconds = envOrDefaultInt("MEETPOINT_ROOM_CLEANUP_SEC", 60)
	cfg.Optimize.DefaultRadiusM = envOrDefaultInt("MEETPOINT_DEFAULT_RADIUS_M", 2000)
	cfg.Optimize.DefaultTopN = envOrDefaultInt("MEETPOINT_DEFAULT_TOPN", 5)
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
