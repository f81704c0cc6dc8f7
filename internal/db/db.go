package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultConnectTimeout = 30 * time.Second

// Config describes the Postgres pool backing the venue, review and user stores.
type Config struct {
	Addr            string
	MaxConns        int32
	MaxConnIdleTime time.Duration
	// ConnectTimeout bounds pool creation and the startup ping. Zero means 30s.
	ConnectTimeout time.Duration
}

func poolConfig(cfg Config) (*pgxpool.Config, error) {
	if cfg.MaxConns < 1 {
		return nil, fmt.Errorf("db: max conns must be positive, got %d", cfg.MaxConns)
	}
	if cfg.MaxConnIdleTime < 0 {
		return nil, errors.New("db: max idle time must not be negative")
	}

	pc, err := pgxpool.ParseConfig(cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("db: parse address: %w", err)
	}
	pc.MaxConns = cfg.MaxConns
	if cfg.MaxConnIdleTime > 0 {
		pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	return pc, nil
}

// New opens the pool and pings it once so a bad DB_ADDR fails at startup.
func New(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	pc, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("db: open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db: ping: %w", err)
	}
	return pool, nil
}
