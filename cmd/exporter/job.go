package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/entregas/internal/app"
	"github.com/shrimpsizemoose/entregas/internal/export"
	"github.com/shrimpsizemoose/entregas/internal/models"
	"github.com/shrimpsizemoose/entregas/internal/sources"
)

type exportJob struct {
	service     *app.Service
	course      string
	roster      sources.RosterSource
	submissions sources.SubmissionSource
	outPath     string
	format      export.Format
	sheetName   string
	gsheet      *export.GSheetExporter
}

func (j *exportJob) run(ctx context.Context) error {
	students, assignments, err := j.service.CollectInputs(ctx, j.roster, j.submissions)
	if err != nil {
		return err
	}

	report, err := j.service.BuildReport(ctx, j.course, students, assignments)
	if report == nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	if err != nil {
		logger.Error.Printf("Report built but not archived: %v", err)
	}

	hints := app.OrphanHints(report)
	for _, o := range report.Orphans {
		if len(o.Submissions) == 0 {
			continue
		}
		logger.Info.Printf("%s: %d submissions need manual review", o.Assignment, len(o.Submissions))
		for _, h := range hints[o.Assignment] {
			logger.Info.Printf("  %s (looks like %s %s)", h.Raw, h.Name, h.ID)
		}
	}

	if err := j.writeFile(report); err != nil {
		return err
	}
	logger.Info.Printf("Wrote %d students x %d assignments to %s", len(report.Rows), len(report.Assignments), j.outPath)

	if j.gsheet != nil {
		if err := j.gsheet.Push(ctx, export.BuildTable(*report)); err != nil {
			return fmt.Errorf("failed to push to google sheets: %w", err)
		}
		logger.Info.Println("Google Sheet updated")
	}

	return nil
}

// writeFile goes through a temp file in the destination directory, so a
// failed export never leaves a truncated report behind.
func (j *exportJob) writeFile(report *models.Report) error {
	dir := filepath.Dir(j.outPath)
	tmp, err := os.CreateTemp(dir, ".entregas-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if err := export.Export(tmp, *report, j.format, j.sheetName); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), j.outPath); err != nil {
		return fmt.Errorf("failed to move report to %s: %w", j.outPath, err)
	}
	return nil
}
