package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/entregas/internal/models"
)

// ReportStore archives generated reports. Nothing read from it feeds back
// into matching or scoring.
type ReportStore interface {
	Close() error
	ApplyMigrations(dir string) error

	SaveRun(run *models.ReportRun) error
	ListRuns(course string) ([]models.ReportRun, error)
	GetRun(id int64) (*models.ReportRun, error)
}

// BaseStore provides common functionality for different DB implementations
type BaseStore struct {
	DB        *sqlx.DB
	Converter func(string) string
}

func (s *BaseStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// ApplyMigrations applies SQL migrations from a directory, translating dialect if needed
func (s *BaseStore) ApplyMigrations(dir string, translateSQL func(string) string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, file.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file.Name(), err)
		}

		sql := string(content)
		if translateSQL != nil {
			sql = translateSQL(sql)
		}

		logger.Debug.Printf("Applying migration: %s", file.Name())
		if _, err := s.DB.Exec(sql); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file.Name(), err)
		}
	}

	return nil
}

func (s *BaseStore) SaveRun(run *models.ReportRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("invalid report run: %w", err)
	}

	query := s.Converter(`
		INSERT INTO report_runs (course, created_at, student_count, assignment_count, orphan_count, report)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`)
	err := s.DB.QueryRowx(query,
		run.Course,
		run.CreatedAt,
		run.StudentCount,
		run.AssignmentCount,
		run.OrphanCount,
		run.Report,
	).Scan(&run.ID)
	if err != nil {
		return fmt.Errorf("failed to save report run: %w", err)
	}
	return nil
}

func (s *BaseStore) ListRuns(course string) ([]models.ReportRun, error) {
	runs := []models.ReportRun{}
	query := s.Converter(`
		SELECT id, course, created_at, student_count, assignment_count, orphan_count
		FROM report_runs
		WHERE course = ?
		ORDER BY created_at DESC, id DESC
	`)

	if err := s.DB.Select(&runs, query, course); err != nil {
		return nil, fmt.Errorf("failed to list report runs: %w", err)
	}
	return runs, nil
}

func (s *BaseStore) GetRun(id int64) (*models.ReportRun, error) {
	var run models.ReportRun
	query := s.Converter(`
		SELECT id, course, created_at, student_count, assignment_count, orphan_count, report
		FROM report_runs
		WHERE id = ?
	`)

	err := s.DB.Get(&run, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report run: %w", err)
	}
	return &run, nil
}
