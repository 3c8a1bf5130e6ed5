package main

import (
	"flag"
	"fmt"
	"os"

	"stock-insights/internal/app"
	"stock-insights/internal/db"
	"stock-insights/internal/logger"
	"stock-insights/internal/pipeline"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := app.Init(*configPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer app.Shutdown()

	ctx, cancel := app.SignalContext()
	defer cancel()

	conn, err := app.OpenDB(ctx, cfg)
	if err != nil {
		app.Exit(ctx, "Failed to connect to database", err)
	}
	defer conn.Close()

	if err := pipeline.New(cfg, conn).Migrate(ctx); err != nil {
		app.Exit(ctx, "Migration failed", err)
	}

	counts, err := db.TableCounts(ctx, conn)
	if err != nil {
		app.Exit(ctx, "Failed to count rows", err)
	}
	for _, t := range db.Tables {
		logger.Info(ctx, "Table rows", "table", t, "rows", counts[t])
	}
}
