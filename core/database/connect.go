package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/m3rciful/jeepyq/core/logger"
	"github.com/m3rciful/jeepyq/core/netutil"
)

// ConnectTimeout bounds the initial connection attempts.
var ConnectTimeout = 30 * time.Second

// Connect opens the configured database, waits until it answers a ping and
// configures the pool.
func Connect(cfg Config) (*sqlx.DB, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("db connect: no driver configured")
	}

	start := time.Now()
	db, err := waitForDatabase(cfg, ConnectTimeout)
	took := time.Since(start)
	if err != nil {
		logger.DB.Error("db connect failed",
			slog.String("event", "db.connect"),
			slog.String("driver", cfg.Driver),
			slog.String("host", cfg.Host),
			slog.String("db", cfg.target()),
			slog.Duration("duration", logger.RoundMS(took)),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("db connect: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxConnections)
	if cfg.Driver == DriverSQLite {
		// Keep the single connection open so ":memory:" databases survive.
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	}

	logger.DB.Info("db connected",
		slog.String("event", "db.connect"),
		slog.String("driver", cfg.Driver),
		slog.String("host", cfg.Host),
		slog.String("port", cfg.Port),
		slog.String("db", cfg.target()),
		slog.Int("pool_open", cfg.MaxConnections),
		slog.Duration("duration", logger.RoundMS(took)),
	)
	return db, nil
}

// waitForDatabase retries transient connection failures until timeout.
func waitForDatabase(cfg Config, timeout time.Duration) (*sqlx.DB, error) {
	deadline := time.Now().Add(timeout)
	for attempt := 1; ; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		db, err := sqlx.ConnectContext(ctx, cfg.Driver, cfg.DSN())
		cancel()
		if err == nil {
			return db, nil
		}
		if !netutil.ShouldRetry(err) || time.Now().After(deadline) {
			return nil, err
		}
		logger.DB.Debug("db not ready",
			slog.String("event", "db.wait"),
			slog.Int("attempts", attempt),
			slog.String("err", err.Error()),
		)
		time.Sleep(2 * time.Second)
	}
}

func (c Config) target() string {
	if c.Driver == DriverSQLite {
		return c.Path
	}
	return c.Name
}
