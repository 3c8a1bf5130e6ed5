package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"stock-insights/internal/db"
	"stock-insights/internal/logger"
	"stock-insights/internal/runlog"
	"stock-insights/internal/store"
)

// Init loads .env, starts the logger, reads the config and points stage
// outcomes at the run journal. Every command calls it first.
func Init(configPath string) (*store.Config, error) {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err := store.LoadConfig(configPath)
	if err != nil {
		logger.ErrorWithErr(context.Background(), "Failed to load config", err, "path", configPath)
		return nil, err
	}

	logger.SetStageHook(runlog.New(cfg.Paths.LogDir).Hook())
	return cfg, nil
}

// OpenDB connects to MySQL and creates any missing table.
func OpenDB(ctx context.Context, cfg *store.Config) (*sqlx.DB, error) {
	conn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// OpenSourceDB opens MySQL only when the configured source needs it.
func OpenSourceDB(ctx context.Context, cfg *store.Config) (*sqlx.DB, error) {
	if cfg.DataSource != store.SourceDatabase {
		return nil, nil
	}
	return OpenDB(ctx, cfg)
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// Shutdown flushes traces; failures are only logged.
func Shutdown() {
	if err := logger.Shutdown(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to flush traces: %v\n", err)
	}
}

// Exit logs err and terminates with status 1.
func Exit(ctx context.Context, msg string, err error) {
	logger.ErrorWithErr(ctx, msg, err)
	Shutdown()
	os.Exit(1)
}
