package main

import (
	"flag"
	"fmt"
	"os"

	"stock-insights/internal/app"
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

	conn, err := app.OpenSourceDB(ctx, cfg)
	if err != nil {
		app.Exit(ctx, "Failed to connect to database", err)
	}
	if conn != nil {
		defer conn.Close()
	}

	if err := pipeline.New(cfg, conn).GenerateTrainingData(ctx); err != nil {
		app.Exit(ctx, "Training data generation failed", err)
	}
}
