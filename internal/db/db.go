package db

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"stock-insights/internal/logger"
	"stock-insights/internal/store"
)

// DSN builds the go-sql-driver DSN for the configured database. parseTime is
// left off: years and percentages are kept as text.
func DSN(cfg *store.Config) string {
	mc := mysql.NewConfig()
	mc.User = cfg.Database.User
	mc.Passwd = cfg.DatabasePassword()
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Database.Host, strconv.Itoa(cfg.Database.Port))
	mc.DBName = cfg.Database.Name
	mc.Timeout = 10 * time.Second

	if len(cfg.Database.Params) > 0 {
		mc.Params = make(map[string]string, len(cfg.Database.Params))
		for k, v := range cfg.Database.Params {
			mc.Params[k] = v
		}
	}
	return mc.FormatDSN()
}

// Open connects and pings the database.
func Open(ctx context.Context, cfg *store.Config) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to mysql %s/%s: %w", cfg.Database.Host, cfg.Database.Name, err)
	}

	logger.Info(ctx, "Connected to MySQL",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)
	return db, nil
}

// WithTx runs fn inside a transaction, committing when fn returns nil and
// rolling back otherwise.
func WithTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Warn(ctx, "Rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
