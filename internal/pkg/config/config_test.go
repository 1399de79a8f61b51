package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 168*time.Hour, cfg.Auth.TokenTTL)
	assert.False(t, cfg.Auth.RecheckPrincipal)
	assert.Equal(t, 200, cfg.Server.RateLimitPerMinute)
	assert.Equal(t, 5*time.Second, cfg.Database.QueryTimeout)
	assert.Empty(t, cfg.Database.URL)
	assert.Empty(t, cfg.Mongo.URI)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Audit.Workers)
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":             "s3cret",
		"ENV":                    "production",
		"DATABASE_URL":           "postgres://u:p@db:5432/shop",
		"DB_QUERY_TIMEOUT":       "250ms",
		"AUTH_RECHECK_PRINCIPAL": "true",
		"RATE_LIMIT_PER_MINUTE":  "30",
		"REDIS_ADDR":             "redis:6379",
	}))
	require.NoError(t, err)

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "postgres://u:p@db:5432/shop", cfg.Database.URL)
	assert.Equal(t, 250*time.Millisecond, cfg.Database.QueryTimeout)
	assert.True(t, cfg.Auth.RecheckPrincipal)
	assert.Equal(t, 30, cfg.Server.RateLimitPerMinute)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{}},
		{"zero ttl", map[string]string{"JWT_SECRET": "x", "TOKEN_TTL": "0s"}},
		{"zero rate", map[string]string{"JWT_SECRET": "x", "RATE_LIMIT_PER_MINUTE": "0"}},
		{"bad duration", map[string]string{"JWT_SECRET": "x", "DB_QUERY_TIMEOUT": "soon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(context.Background(), envconfig.MapLookuper(tt.env))
			assert.Error(t, err)
		})
	}
}
