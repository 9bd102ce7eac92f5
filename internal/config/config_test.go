package config

import (
	"context"
	"testing"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogPretty)
	assert.False(t, cfg.SecureCookie)
	assert.Empty(t, cfg.AdminUser)

	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "expenses.db", cfg.Storage.Path)
	assert.Equal(t, "expenseTracker.", cfg.Storage.Namespace)
	assert.Equal(t, int64(5242880), cfg.Storage.QuotaBytes)
	assert.Equal(t, "localhost:6379", cfg.Storage.Redis.Addr)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Storage.Mongo.URI)
	assert.Equal(t, "expense_tracker", cfg.Storage.Mongo.Database)
	assert.Equal(t, "kv", cfg.Storage.Mongo.Collection)
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"PORT":                "9090",
		"LOG_LEVEL":           "debug",
		"LOG_PRETTY":          "true",
		"STORAGE_BACKEND":     "redis",
		"STORAGE_QUOTA_BYTES": "1024",
		"STORAGE_NAMESPACE":   "test.",
		"REDIS_ADDR":          "cache:6380",
		"REDIS_DB":            "2",
		"ADMIN_USER":          "admin",
		"ADMIN_PASSWORD":      "changeme",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogPretty)
	assert.Equal(t, BackendRedis, cfg.Storage.Backend)
	assert.Equal(t, int64(1024), cfg.Storage.QuotaBytes)
	assert.Equal(t, "test.", cfg.Storage.Namespace)
	assert.Equal(t, "cache:6380", cfg.Storage.Redis.Addr)
	assert.Equal(t, 2, cfg.Storage.Redis.DB)
	assert.Equal(t, "admin", cfg.AdminUser)
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unknown backend", map[string]string{"STORAGE_BACKEND": "etcd"}, "unknown storage backend"},
		{"admin without password", map[string]string{"ADMIN_USER": "admin"}, "must be set together"},
		{"password without admin", map[string]string{"ADMIN_PASSWORD": "changeme"}, "must be set together"},
		{"bad quota", map[string]string{"STORAGE_QUOTA_BYTES": "lots"}, "failed to load configuration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(context.Background(), envconfig.MapLookuper(tt.env))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("DB_PATH", "/tmp/ledger-test.db")
	t.Setenv("STORAGE_BACKEND", "memory")

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/tmp/ledger-test.db", cfg.Storage.Path)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
}

func TestLoadFrom_OverrideBeforeValidate(t *testing.T) {
	env := envconfig.MapLookuper(map[string]string{"STORAGE_BACKEND": "etcd"})

	cfg, err := LoadFrom(context.Background(), env, func(c *Config) {
		c.Storage.Backend = BackendSQLite
		c.Storage.Path = "flag.db"
	})
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "flag.db", cfg.Storage.Path)

	_, err = LoadFrom(context.Background(), envconfig.MapLookuper(nil), func(c *Config) {
		c.Storage.Backend = "etcd"
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage backend")
}
