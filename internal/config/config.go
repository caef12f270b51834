package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers accepted by storage.driver.
const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName            string
	AppEnv             string
	AppPort            string
	StorageDriver      string
	DatabaseURL        string
	SQLitePath         string
	RedisURL           string
	RedisKeyPrefix     string
	JWTSecret          string
	JWTTTL             time.Duration
	BcryptCost         int
	AuditSourceAddress string
	AuditNATSSubject   string
	NATSURL            string
	DashboardCacheTTL  time.Duration
	SeedEnabled        bool
	AIModel            string
	AIBaseURL          string
	OpenAIAPIKey       string
	CORSAllowOrigins   []string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CAMPUS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "CampusHub API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("storage.driver", StorageSQLite)
	v.SetDefault("sqlite.path", "campushub.db")
	v.SetDefault("redis.prefix", "campus:")
	v.SetDefault("jwt.ttl", "12h")
	v.SetDefault("bcrypt.cost", 0)
	v.SetDefault("audit.source_address", "127.0.0.1")
	v.SetDefault("audit.nats_subject", "campushub.audit")
	v.SetDefault("dashboard.cache_ttl", "30s")
	v.SetDefault("seed.enabled", true)
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("cors.allow_origins", "*")

	jwtTTL, err := parseDuration(v, "jwt.ttl")
	if err != nil {
		return Config{}, err
	}
	cacheTTL, err := parseDuration(v, "dashboard.cache_ttl")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:            v.GetString("app.name"),
		AppEnv:             v.GetString("app.env"),
		AppPort:            v.GetString("app.port"),
		StorageDriver:      strings.ToLower(strings.TrimSpace(v.GetString("storage.driver"))),
		DatabaseURL:        v.GetString("database.url"),
		SQLitePath:         v.GetString("sqlite.path"),
		RedisURL:           v.GetString("redis.url"),
		RedisKeyPrefix:     v.GetString("redis.prefix"),
		JWTSecret:          v.GetString("jwt.secret"),
		JWTTTL:             jwtTTL,
		BcryptCost:         v.GetInt("bcrypt.cost"),
		AuditSourceAddress: v.GetString("audit.source_address"),
		AuditNATSSubject:   v.GetString("audit.nats_subject"),
		NATSURL:            v.GetString("nats.url"),
		DashboardCacheTTL:  cacheTTL,
		SeedEnabled:        v.GetBool("seed.enabled"),
		AIModel:            v.GetString("ai.model"),
		AIBaseURL:          v.GetString("ai.base_url"),
		OpenAIAPIKey:       v.GetString("openai_api_key"),
		CORSAllowOrigins:   splitList(v.GetString("cors.allow_origins")),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	switch cfg.StorageDriver {
	case StorageSQLite:
		if cfg.SQLitePath == "" {
			return Config{}, fmt.Errorf("sqlite path must be provided")
		}
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("database url must be provided for postgres storage")
		}
	case StorageRedis:
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("redis url must be provided for redis storage")
		}
	default:
		return Config{}, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	value, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func splitList(input string) []string {
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
