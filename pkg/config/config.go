package config

import (
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// Remote ledger access
	RemoteBaseURL  string
	RemoteAPIToken string

	// Delete reconciliation: which remote status codes mean "drop the local
	// copy" and which mean "preserve it".
	DeleteSuccessStatuses  []int
	DeletePreserveStatuses []int

	// Mirror freshness horizon for window summaries.
	MirrorSessionTTL time.Duration

	// Deferred submission retry interval.
	RetryInterval time.Duration

	// Optional redis for the shared window registry; empty means in-memory.
	RedisURL string

	// Rate limiting, e.g. "100-M" for 100 requests per minute.
	RateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("REMOTE_BASE_URL", "")
	viper.SetDefault("REMOTE_API_TOKEN", "")
	viper.SetDefault("DELETE_SUCCESS_STATUSES", "204,404,500")
	viper.SetDefault("DELETE_PRESERVE_STATUSES", "401")
	viper.SetDefault("MIRROR_SESSION_TTL", "30m")
	viper.SetDefault("RETRY_INTERVAL", "1m")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("RATE_LIMIT", "100-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.RemoteBaseURL = viper.GetString("REMOTE_BASE_URL")
	if cfg.RemoteBaseURL == "" {
		log.Println("Warning: REMOTE_BASE_URL not set. Remote submissions will fail until configured.")
	}
	cfg.RemoteAPIToken = viper.GetString("REMOTE_API_TOKEN")
	if cfg.RemoteAPIToken == "" {
		log.Println("Warning: REMOTE_API_TOKEN not set. Remote requests will be unauthenticated.")
	}

	cfg.DeleteSuccessStatuses = parseStatusList(viper.GetString("DELETE_SUCCESS_STATUSES"), []int{204, 404, 500}, "DELETE_SUCCESS_STATUSES")
	cfg.DeletePreserveStatuses = parseStatusList(viper.GetString("DELETE_PRESERVE_STATUSES"), []int{401}, "DELETE_PRESERVE_STATUSES")

	cfg.MirrorSessionTTL = parseDurationOrDefault(viper.GetString("MIRROR_SESSION_TTL"), 30*time.Minute, "MIRROR_SESSION_TTL")
	cfg.RetryInterval = parseDurationOrDefault(viper.GetString("RETRY_INTERVAL"), time.Minute, "RETRY_INTERVAL")

	cfg.RedisURL = viper.GetString("REDIS_URL")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}

func parseDurationOrDefault(value string, fallback time.Duration, name string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		if value != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", name, value, fallback.String())
		}
		return fallback
	}
	return d
}

func parseStatusList(value string, fallback []int, name string) []int {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	var statuses []int
	for _, part := range strings.Split(value, ",") {
		code, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			log.Printf("Warning: Invalid status code in %s ('%s'). Using defaults.\n", name, part)
			return fallback
		}
		statuses = append(statuses, code)
	}
	return statuses
}
