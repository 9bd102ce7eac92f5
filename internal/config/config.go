package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Storage backends understood by storage.Open.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config is the process configuration, read from environment variables.
type Config struct {
	Port         string `env:"PORT,           default=8080"`
	LogLevel     string `env:"LOG_LEVEL,      default=info"`
	LogPretty    bool   `env:"LOG_PRETTY,     default=false"`
	SecureCookie bool   `env:"SECURE_COOKIE,  default=false"`

	// Seed account created at server start when both are set.
	AdminUser     string `env:"ADMIN_USER"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	Storage StorageConfig
}

// StorageConfig selects and configures the key-value backend.
type StorageConfig struct {
	Backend   string `env:"STORAGE_BACKEND,     default=sqlite"`
	Path      string `env:"DB_PATH,             default=expenses.db"`
	Namespace string `env:"STORAGE_NAMESPACE,   default=expenseTracker."`
	// Browsers cap local storage at roughly 5MB per origin.
	QuotaBytes int64 `env:"STORAGE_QUOTA_BYTES, default=5242880"`

	Redis RedisConfig
	Mongo MongoConfig
}

// RedisConfig is used when Backend is "redis".
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// MongoConfig is used when Backend is "mongo".
type MongoConfig struct {
	URI        string `env:"MONGO_URI,        default=mongodb://localhost:27017"`
	Database   string `env:"MONGO_DB,         default=expense_tracker"`
	Collection string `env:"MONGO_COLLECTION, default=kv"`
}

// Override adjusts a loaded Config before it is validated, e.g. from
// command-line flags.
type Override func(*Config)

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context, overrides ...Override) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper(), overrides...)
}

// LoadFrom reads configuration through the given lookuper.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper, overrides ...Override) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	for _, o := range overrides {
		o(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings no backend can run with.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendMemory, BackendRedis, BackendMongo:
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.Storage.Backend)
	}
	if (c.AdminUser == "") != (c.AdminPassword == "") {
		return fmt.Errorf("config: ADMIN_USER and ADMIN_PASSWORD must be set together")
	}
	return nil
}
