package main

import (
	"flag"
	"fmt"
	"os"

	"stock-insights/internal/app"
	"stock-insights/internal/fetcher"
	"stock-insights/internal/logger"
	"stock-insights/internal/pipeline"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	template := flag.Bool("template", false, "create an empty company list spreadsheet and exit")
	flag.Parse()

	cfg, err := app.Init(*configPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer app.Shutdown()

	ctx, cancel := app.SignalContext()
	defer cancel()

	if *template {
		if err := fetcher.CreateTemplate(cfg.Paths.CompanyList); err != nil {
			app.Exit(ctx, "Failed to create company list template", err)
		}
		logger.Info(ctx, "Company list template created", "path", cfg.Paths.CompanyList, "column", fetcher.IDColumn)
		return
	}

	if err := pipeline.New(cfg, nil).Fetch(ctx); err != nil {
		app.Exit(ctx, "Fetch failed", err)
	}
}
