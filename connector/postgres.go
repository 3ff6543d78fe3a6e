package connector

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Konsultn-Engineering/enorm-shards/database"
	"github.com/Konsultn-Engineering/enorm-shards/logging"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const defaultPostgresPort = 5432

var ErrNotConnected = errors.New("not connected")

// PostgresConnector represents a PostgreSQL database connection.
type PostgresConnector struct {
	config Config
	pool   *pgxpool.Pool
	log    *zap.SugaredLogger
}

// NewPostgresConnector creates an unconnected connector for cfg.
func NewPostgresConnector(cfg Config) *PostgresConnector {
	return &PostgresConnector{
		config: cfg,
		log:    logging.GetLogger("connector"),
	}
}

// Connect opens the pool and pings the server, retrying per the retry
// configuration.
func (p *PostgresConnector) Connect(ctx context.Context) error {
	if p.pool != nil {
		return nil // Already connected
	}

	if p.config.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.ConnectTimeout)
		defer cancel()
	}

	err := retryConnect(ctx, p.config.Retry, p.log, p.connect)
	if err != nil && p.config.Retry != nil {
		return fmt.Errorf("failed to connect after %d retries: %w", p.config.Retry.MaxRetries, err)
	}
	return err
}

// connect establishes the PostgreSQL connection.
func (p *PostgresConnector) connect(ctx context.Context) error {
	poolCfg, err := p.poolConfig()
	if err != nil {
		return err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return err
	}

	p.pool = pool
	p.log.Infow("connected", "host", poolCfg.ConnConfig.Host, "database", poolCfg.ConnConfig.Database)
	return nil
}

func (p *PostgresConnector) poolConfig() (*pgxpool.Config, error) {
	cfg := p.config

	// Apply defaults
	if cfg.Pool.MaxOpen <= 0 {
		cfg.Pool.MaxOpen = 10
	}
	if cfg.Pool.MaxLifetime == 0 {
		cfg.Pool.MaxLifetime = time.Hour
	}
	if cfg.Pool.MaxIdleTime == 0 {
		cfg.Pool.MaxIdleTime = 30 * time.Minute
	}

	poolCfg, err := pgxpool.ParseConfig(p.DSN())
	if err != nil {
		return nil, err
	}

	poolCfg.MaxConns = int32(cfg.Pool.MaxOpen)
	poolCfg.MinConns = int32(cfg.Pool.MaxIdle)
	poolCfg.MaxConnLifetime = cfg.Pool.MaxLifetime
	poolCfg.MaxConnIdleTime = cfg.Pool.MaxIdleTime
	if cfg.Pool.HealthCheckFreq > 0 {
		poolCfg.HealthCheckPeriod = cfg.Pool.HealthCheckFreq
	}
	if cfg.QueryTimeout > 0 {
		poolCfg.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(cfg.QueryTimeout.Milliseconds(), 10)
	}
	return poolCfg, nil
}

// DSN returns the PostgreSQL connection string.
func (p *PostgresConnector) DSN() string {
	if p.config.DSN != "" {
		return p.config.DSN
	}

	port := p.config.Port
	if port == 0 {
		port = defaultPostgresPort
	}
	b := NewDSNBuilder("postgres").
		Auth(p.config.Username, p.config.Password).
		Host(p.config.Host, port).
		Database(p.config.Database).
		Param("sslmode", p.config.SSLMode)
	if p.config.ConnectTimeout > 0 {
		b.Param("connect_timeout", strconv.Itoa(int(p.config.ConnectTimeout.Seconds())))
	}
	return b.Params(p.config.Params).Build()
}

// Database returns the pool as a database.Database.
func (p *PostgresConnector) Database() (database.Database, error) {
	if p.pool == nil {
		return nil, ErrNotConnected
	}
	return database.NewPgxDatabase(p.pool), nil
}

// Health checks the connection health.
func (p *PostgresConnector) Health(ctx context.Context) error {
	if p.pool == nil {
		return ErrNotConnected
	}
	return p.pool.Ping(ctx)
}

// Stats returns connection pool statistics.
func (p *PostgresConnector) Stats() ConnectionStats {
	if p.pool == nil {
		return ConnectionStats{}
	}
	s := p.pool.Stat()
	return ConnectionStats{
		OpenConnections: int(s.TotalConns()),
		InUse:           int(s.AcquiredConns()),
		Idle:            int(s.IdleConns()),
	}
}

// Close closes the connection pool.
func (p *PostgresConnector) Close() error {
	if p.pool != nil {
		p.pool.Close()
		p.pool = nil
	}
	return nil
}
