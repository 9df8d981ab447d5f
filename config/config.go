package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"

	AllocatorMax   = "max"
	AllocatorRedis = "redis"

	StatusPolicyLenient = "lenient"
	StatusPolicyStrict  = "strict"
)

// ServerConfig timeouts of zero mean none. RequestTimeout, when set, becomes
// the deadline of every API request's context.
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	BasePath       string        `mapstructure:"base_path"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// StoreConfig selects and locates the record store backend. For postgres
// Name is the schema placed on the search_path; for sqlite it is the file
// stem created under Dir.
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	URL    string `mapstructure:"url"`
	Name   string `mapstructure:"name"`
	Dir    string `mapstructure:"dir"`
}

// DefaultIDMaxAttempts bounds the id insert retry loop. A burst of n
// concurrent creates on one collection can make the last of them collide
// n-1 times, so the default tolerates bursts of up to this many creates.
const DefaultIDMaxAttempts = 100

type AllocatorConfig struct {
	Strategy    string `mapstructure:"strategy"`
	MaxAttempts int    `mapstructure:"max_attempts"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type VisitsConfig struct {
	StatusPolicy string `mapstructure:"status_policy"`
}

type CacheConfig struct {
	ClientTTL time.Duration `mapstructure:"client_ttl"`
}

type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	Allocator AllocatorConfig `mapstructure:"allocator"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Visits    VisitsConfig    `mapstructure:"visits"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Log       LogConfig       `mapstructure:"log"`
}

// envBindings maps config keys onto the environment variable names the
// service has always been deployed with.
var envBindings = map[string]string{
	"server.port":            "PORT",
	"server.base_path":       "BASE_PATH",
	"server.request_timeout": "REQUEST_TIMEOUT",
	"store.driver":           "STORE_DRIVER",
	"store.url":              "STORE_URL",
	"store.name":             "DB_NAME",
	"store.dir":              "STORE_DIR",
	"allocator.strategy":     "ID_ALLOCATOR",
	"allocator.max_attempts": "ID_MAX_ATTEMPTS",
	"redis.url":              "REDIS_URL",
	"visits.status_policy":   "VISIT_STATUS_POLICY",
	"cache.client_ttl":       "CLIENT_CACHE_TTL",
	"ratelimit.enabled":      "RATE_LIMIT_ENABLED",
	"ratelimit.rps":          "RATE_LIMIT_RPS",
	"ratelimit.burst":        "RATE_LIMIT_BURST",
	"cors.allowed_origins":   "CORS_ALLOWED_ORIGINS",
	"log.level":              "LOG_LEVEL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.base_path", "/api")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 0)
	v.SetDefault("server.request_timeout", 0)

	v.SetDefault("store.driver", DriverPostgres)
	v.SetDefault("store.url", "postgres://postgres@localhost:5432/postgres?sslmode=disable")
	v.SetDefault("store.name", "hms")
	v.SetDefault("store.dir", ".")

	v.SetDefault("allocator.strategy", AllocatorMax)
	v.SetDefault("allocator.max_attempts", DefaultIDMaxAttempts)

	v.SetDefault("redis.url", "redis://localhost:6379/0")

	v.SetDefault("visits.status_policy", StatusPolicyLenient)

	v.SetDefault("cache.client_ttl", 5*time.Minute)

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.rps", 50.0)
	v.SetDefault("ratelimit.burst", 100)

	v.SetDefault("cors.allowed_origins", []string{"*"})

	v.SetDefault("log.level", "info")
}

// LoadConfig reads defaults, an optional config.yml, an optional .env file
// and the process environment, in increasing order of precedence.
func LoadConfig() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/app")
	v.AddConfigPath("/app/config")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Origins from the environment arrive comma separated, possibly padded.
	cfg.CORS.AllowedOrigins = splitList(strings.Join(cfg.CORS.AllowedOrigins, ","))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverPostgres, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("unsupported store driver %q", c.Store.Driver)
	}
	switch c.Allocator.Strategy {
	case AllocatorMax, AllocatorRedis:
	default:
		return fmt.Errorf("unsupported id allocator %q", c.Allocator.Strategy)
	}
	switch c.Visits.StatusPolicy {
	case StatusPolicyLenient, StatusPolicyStrict:
	default:
		return fmt.Errorf("unsupported visit status policy %q", c.Visits.StatusPolicy)
	}
	if c.Allocator.MaxAttempts < 1 {
		return fmt.Errorf("allocator.max_attempts must be positive, got %d", c.Allocator.MaxAttempts)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
