package connector

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents database connection configuration.
type Config struct {
	// DSN, when set, is used as is and the connection fields are ignored.
	DSN            string            `json:"dsn,omitempty" yaml:"dsn,omitempty"`
	Host           string            `json:"host" yaml:"host"`
	Port           int               `json:"port" yaml:"port"`
	Database       string            `json:"database" yaml:"database"`
	Username       string            `json:"username" yaml:"username"`
	Password       string            `json:"password" yaml:"password"`
	SSLMode        string            `json:"ssl_mode" yaml:"ssl_mode"`
	Params         map[string]string `json:"params" yaml:"params"`
	Pool           PoolConfig        `json:"pool" yaml:"pool"`
	ConnectTimeout time.Duration     `json:"connect_timeout" yaml:"connect_timeout"`
	QueryTimeout   time.Duration     `json:"query_timeout" yaml:"query_timeout"`
	Retry          *RetryConfig      `json:"retry,omitempty" yaml:"retry,omitempty"`
}

// PoolConfig defines connection pool settings.
type PoolConfig struct {
	MaxOpen         int           `json:"max_open" yaml:"max_open"`
	MaxIdle         int           `json:"max_idle" yaml:"max_idle"`
	MaxLifetime     time.Duration `json:"max_lifetime" yaml:"max_lifetime"`
	MaxIdleTime     time.Duration `json:"max_idle_time" yaml:"max_idle_time"`
	HealthCheckFreq time.Duration `json:"health_check_freq" yaml:"health_check_freq"`
}

// RetryConfig defines connection retry behavior.
type RetryConfig struct {
	MaxRetries int           `json:"max_retries" yaml:"max_retries"`
	BaseDelay  time.Duration `json:"base_delay" yaml:"base_delay"`
	MaxDelay   time.Duration `json:"max_delay" yaml:"max_delay"`
	Backoff    float64       `json:"backoff" yaml:"backoff"`
}

// Validate checks that the configuration can produce a connection string.
func (c *Config) Validate() error {
	if c.DSN != "" {
		return nil
	}
	if c.Host == "" {
		return errors.New("host is required")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.Pool.MaxOpen < 0 || c.Pool.MaxIdle < 0 {
		return errors.New("pool sizes must not be negative")
	}
	if c.Pool.MaxIdle > 0 && c.Pool.MaxOpen > 0 && c.Pool.MaxIdle > c.Pool.MaxOpen {
		return fmt.Errorf("pool max_idle %d exceeds max_open %d", c.Pool.MaxIdle, c.Pool.MaxOpen)
	}
	if r := c.Retry; r != nil && (r.MaxRetries < 0 || r.Backoff < 0) {
		return errors.New("retry max_retries and backoff must not be negative")
	}
	return nil
}

// ShardConfig is one named shard.
type ShardConfig struct {
	ID     string `json:"id" yaml:"id"`
	Config `json:",inline" yaml:",inline"`
}

// ShardsConfig is the shard file read by OpenShards and the CLI.
type ShardsConfig struct {
	// Concurrency bounds how many shards a query runs on at once.
	Concurrency int `json:"concurrency" yaml:"concurrency"`
	// StatementCache is the number of parsed statements kept.
	StatementCache int           `json:"statement_cache" yaml:"statement_cache"`
	Shards         []ShardConfig `json:"shards" yaml:"shards"`
}

func (c *ShardsConfig) Validate() error {
	if len(c.Shards) == 0 {
		return errors.New("no shards configured")
	}
	if c.Concurrency < 0 || c.StatementCache < 0 {
		return errors.New("concurrency and statement_cache must not be negative")
	}

	seen := make(map[string]bool, len(c.Shards))
	for i := range c.Shards {
		s := &c.Shards[i]
		if s.ID == "" {
			return fmt.Errorf("shard %d: id is required", i)
		}
		if seen[s.ID] {
			return fmt.Errorf("shard %s: duplicate id", s.ID)
		}
		seen[s.ID] = true
		if err := s.Config.Validate(); err != nil {
			return fmt.Errorf("shard %s: %w", s.ID, err)
		}
	}
	return nil
}

// ParseConfig decodes YAML shard configuration. ${VAR} references are
// expanded from the environment first.
func ParseConfig(data []byte) (*ShardsConfig, error) {
	expanded := os.ExpandEnv(string(data))

	dec := yaml.NewDecoder(bytes.NewBufferString(expanded))
	dec.KnownFields(true)

	var cfg ShardsConfig
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode shard config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shard config: %w", err)
	}
	return &cfg, nil
}

func LoadConfig(path string) (*ShardsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read shard config: %w", err)
	}
	return ParseConfig(data)
}
