package connector

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shardsYAML = `
concurrency: 4
statement_cache: 128
shards:
  - id: eu
    host: eu.db.internal
    port: 5433
    database: app
    username: app
    password: ${SHARD_PASSWORD}
    ssl_mode: require
    connect_timeout: 5s
    pool:
      max_open: 20
      max_idle: 2
    retry:
      max_retries: 3
      base_delay: 100ms
      backoff: 1.5
  - id: us
    dsn: postgres://app@us.db.internal/app
`

func TestParseConfig(t *testing.T) {
	t.Setenv("SHARD_PASSWORD", "s3cret")

	cfg, err := ParseConfig([]byte(shardsYAML))
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, 128, cfg.StatementCache)
	require.Len(t, cfg.Shards, 2)

	eu := cfg.Shards[0]
	assert.Equal(t, "eu", eu.ID)
	assert.Equal(t, "eu.db.internal", eu.Host)
	assert.Equal(t, 5433, eu.Port)
	assert.Equal(t, "s3cret", eu.Password)
	assert.Equal(t, 5*time.Second, eu.ConnectTimeout)
	assert.Equal(t, 20, eu.Pool.MaxOpen)
	require.NotNil(t, eu.Retry)
	assert.Equal(t, 3, eu.Retry.MaxRetries)
	assert.Equal(t, 100*time.Millisecond, eu.Retry.BaseDelay)
	assert.Equal(t, 1.5, eu.Retry.Backoff)

	assert.Equal(t, "postgres://app@us.db.internal/app", cfg.Shards[1].DSN)
	assert.Nil(t, cfg.Shards[1].Retry)
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"no shards", "shards: []", "no shards configured"},
		{"missing id", "shards:\n  - host: a", "id is required"},
		{"duplicate id", "shards:\n  - id: a\n    host: a\n  - id: a\n    host: b", "duplicate id"},
		{"missing host", "shards:\n  - id: a", "host is required"},
		{"bad port", "shards:\n  - id: a\n    host: a\n    port: 70000", "invalid port"},
		{"idle above open", "shards:\n  - id: a\n    host: a\n    pool:\n      max_open: 1\n      max_idle: 2", "exceeds max_open"},
		{"unknown field", "shards:\n  - id: a\n    hostname: a", "field hostname not found"},
		{"negative concurrency", "concurrency: -1\nshards:\n  - id: a\n    host: a", "must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shards.yaml")
	require.NoError(t, os.WriteFile(path, []byte("shards:\n  - id: a\n    host: localhost\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "a", cfg.Shards[0].ID)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
