package main

import (
	"context"
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

	ctx := context.Background()
	if err := pipeline.New(cfg, nil).Train(ctx); err != nil {
		app.Exit(ctx, "Training failed", err)
	}
}
