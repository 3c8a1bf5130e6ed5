package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"stock-insights/internal/app"
	"stock-insights/internal/db"
	"stock-insights/internal/logger"
	"stock-insights/internal/pipeline"
	"stock-insights/internal/web"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	webOnly := flag.Bool("web-only", false, "start only the web server without running the pipeline")
	pipelineOnly := flag.Bool("pipeline-only", false, "run only the pipeline without starting the web server")
	flag.Parse()

	if *webOnly && *pipelineOnly {
		fmt.Println("Error: -web-only and -pipeline-only are mutually exclusive")
		flag.Usage()
		os.Exit(2)
	}

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

	if !*webOnly {
		if err := pipeline.New(cfg, conn).Run(ctx); err != nil {
			app.Exit(ctx, "Pipeline failed", err)
		}
		if *pipelineOnly {
			return
		}

		logger.Info(ctx, "Starting web server in 3 seconds")
		select {
		case <-time.After(3 * time.Second):
		case <-ctx.Done():
			return
		}
	}

	srv, err := web.NewServer(db.NewDashboard(conn), web.OptionsFromConfig(cfg))
	if err != nil {
		app.Exit(ctx, "Failed to build web server", err)
	}
	if err := srv.ListenAndServe(ctx, cfg.Web.Addr); err != nil {
		app.Exit(context.Background(), "Web server stopped", err)
	}
}
