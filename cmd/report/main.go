package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"stock-insights/internal/app"
	"stock-insights/internal/db"
	"stock-insights/internal/report"
	"stock-insights/internal/types"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	company := flag.String("company", "", "company ticker to report on (required)")
	format := flag.String("format", "text", "output format: text, markdown, html or pdf")
	flag.Parse()

	if *company == "" {
		fmt.Println("Error: -company is required")
		flag.Usage()
		os.Exit(1)
	}

	reportFormat := report.Format(*format)
	known := false
	for _, f := range report.Formats {
		if f == reportFormat {
			known = true
		}
	}
	if !known {
		fmt.Printf("Unknown format: %s. Using text format.\n", *format)
		reportFormat = report.FormatText
	}

	cfg, err := app.Init(*configPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer app.Shutdown()

	ctx := context.Background()
	conn, err := app.OpenDB(ctx, cfg)
	if err != nil {
		app.Exit(ctx, "Failed to connect to database", err)
	}
	defer conn.Close()

	rep, err := report.Build(ctx, db.NewDashboard(conn), *company)
	if errors.Is(err, types.ErrCompanyNotFound) {
		fmt.Printf("Company '%s' not found\n", *company)
		os.Exit(1)
	}
	if err != nil {
		app.Exit(ctx, "Failed to build report", err)
	}

	if reportFormat == report.FormatText || reportFormat == report.FormatMarkdown {
		content, err := report.Generate(rep, reportFormat)
		if err != nil {
			app.Exit(ctx, "Failed to render report", err)
		}
		fmt.Println(string(content))
	}

	path, err := report.NewReporter(cfg.Paths.ReportDir).SaveReport(ctx, rep, reportFormat)
	if err != nil {
		app.Exit(ctx, "Failed to save report", err)
	}
	fmt.Printf("Report saved to: %s\n", path)
}
