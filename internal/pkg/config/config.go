package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=3001"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Server   ServerConfig
	Auth     AuthConfig
	Database DatabaseConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Audit    AuditConfig
}

type ServerConfig struct {
	FrontendURL        string `env:"FRONTEND_URL,          default=http://localhost:5000"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE, default=200"`
	AdminContact       string `env:"ADMIN_CONTACT,         default=@storefront_admin"`
	MetricsEnabled     bool   `env:"METRICS_ENABLED,       default=true"`
	SwaggerEnabled     bool   `env:"SWAGGER_ENABLED,       default=true"`
}

type AuthConfig struct {
	TokenTTL time.Duration `env:"TOKEN_TTL, default=168h"`
	// RecheckPrincipal re-reads the user on every authenticated request so a
	// ban or demotion applies before the token expires.
	RecheckPrincipal bool `env:"AUTH_RECHECK_PRINCIPAL, default=false"`
}

// DatabaseConfig configures the primary store. An empty URL selects the
// in-memory fallback for the whole process lifetime.
type DatabaseConfig struct {
	URL            string        `env:"DATABASE_URL"`
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT,  default=5s"`
	QueryTimeout   time.Duration `env:"DB_QUERY_TIMEOUT,    default=5s"`
	MigrateOnStart bool          `env:"DB_MIGRATE_ON_START, default=true"`
	MaxOpenConns   int           `env:"DB_MAX_OPEN_CONNS,   default=10"`
	SeedFile       string        `env:"FALLBACK_SEED_FILE"`
}

// MongoConfig enables the audit trail when URI is set.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=storefront"`
}

// RedisConfig enables order idempotency when Addr is set.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=2"`
}

// IsDevelopment reports whether the process runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("config: JWT_SECRET is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("config: TOKEN_TTL must be positive")
	}
	if c.Server.RateLimitPerMinute <= 0 {
		return fmt.Errorf("config: RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.Audit.Workers <= 0 {
		return fmt.Errorf("config: AUDIT_WORKERS must be positive")
	}
	return nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(err.Error())
	}
	return cfg
}

// LoadFrom reads configuration through lookuper and validates it.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
