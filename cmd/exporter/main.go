package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/entregas/internal/app"
	"github.com/shrimpsizemoose/entregas/internal/export"
	"github.com/shrimpsizemoose/entregas/internal/sources"
)

func main() {
	var (
		configPath  = flag.String("config", "config.toml", "Path to config file")
		rosterPath  = flag.String("roster", "", "Roster file, overrides sources.roster_path")
		submissions = flag.String("submissions", "", "Submissions folder, overrides sources.submissions_root")
		outPath     = flag.String("out", "", "Output file, overrides export.output_path")
		formatFlag  = flag.String("format", "", "xlsx or csv, overrides export.format")
		course      = flag.String("course", "default", "Course label used for metrics and the archive")
	)
	flag.Parse()

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}
	defer service.Close()

	cfg := service.Config
	if *rosterPath != "" {
		cfg.Sources.RosterPath = *rosterPath
	}
	if *submissions != "" {
		cfg.Sources.SubmissionsRoot = *submissions
	}
	if *outPath != "" {
		cfg.Export.OutputPath = *outPath
	}
	if *formatFlag != "" {
		cfg.Export.Format = *formatFlag
	}
	if cfg.Sources.RosterPath == "" || cfg.Sources.SubmissionsRoot == "" {
		logger.Error.Fatalf("Both a roster file and a submissions folder are required")
	}

	format, err := export.ParseFormat(cfg.Export.Format)
	if err != nil {
		logger.Error.Fatalf("Bad export format: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	job := &exportJob{
		service:     service,
		course:      *course,
		roster:      sources.FileRoster{Path: cfg.Sources.RosterPath},
		submissions: sources.NewDirScanner(cfg.Sources.SubmissionsRoot, cfg.Scoring.MaxPoints),
		outPath:     cfg.Export.OutputPath,
		format:      format,
		sheetName:   cfg.Export.SheetName,
	}

	if cfg.GSheet.Enabled {
		job.gsheet, err = export.NewGSheetExporter(ctx, cfg)
		if err != nil {
			logger.Error.Fatalf("Failed to initialize Google Sheets exporter: %v", err)
		}
	}

	logger.Info.Println("Садимся экспортить")
	if err := job.run(ctx); err != nil {
		logger.Error.Fatalf("Export failed: %v", err)
	}

	if cfg.Export.Schedule == "" {
		logger.Info.Println("Закончили экспортить")
		return
	}

	scheduler := export.NewScheduler()
	if err := scheduler.Schedule(cfg.Export.Schedule, func() {
		if err := job.run(ctx); err != nil {
			logger.Error.Printf("Scheduled export failed: %v", err)
		}
	}); err != nil {
		logger.Error.Fatalf("Failed to schedule export: %v", err)
	}
	scheduler.Start()
	logger.Info.Printf("Re-exporting on schedule %q", cfg.Export.Schedule)

	<-ctx.Done()
	scheduler.Stop()

	logger.Info.Println("Закончили экспортить")
}
