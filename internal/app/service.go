package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/entregas/internal/matching"
	"github.com/shrimpsizemoose/entregas/internal/metrics"
	"github.com/shrimpsizemoose/entregas/internal/models"
	"github.com/shrimpsizemoose/entregas/internal/scoring"
	"github.com/shrimpsizemoose/entregas/internal/sources"
	"github.com/shrimpsizemoose/entregas/internal/store"
)

var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	Config *Config
	Store  store.ReportStore
	Auth   *Auth
	Grader *scoring.Grader

	now func() time.Time
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewServiceFromConfig(config)
}

func NewServiceFromConfig(config *Config) (*Service, error) {
	reportStore, err := NewStore(config.DBConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	auth, err := NewAuth(config)
	if err != nil {
		if reportStore != nil {
			reportStore.Close()
		}
		return nil, fmt.Errorf("failed to init auth: %w", err)
	}

	return &Service{
		Config: config,
		Store:  reportStore,
		Auth:   auth,
		Grader: scoring.NewGrader(config.Scoring.MaxPoints),
		now:    time.Now,
	}, nil
}

func (s *Service) ValidateHeaders(headers map[string][]string) bool {
	for _, required := range s.Config.API.RequiredHeaders {
		value := headers[http.CanonicalHeaderKey(required.Name)]
		if len(value) == 0 || !strings.EqualFold(value[0], required.Value) {
			return false
		}
	}
	return true
}

func (s *Service) ValidateAuth(r *http.Request, course string) error {
	return s.Auth.ValidateBearer(
		r.Context(),
		r.Header.Get(s.Auth.tokenHeader),
		course,
		r.Header.Get(s.Config.API.ClientIDHeader),
	)
}

// ValidateInputs rejects records the matcher cannot work with.
func ValidateInputs(students []models.Student, assignments []models.Assignment) error {
	for i := range students {
		if err := students[i].Validate(); err != nil {
			return fmt.Errorf("%w: student %d: %v", ErrInvalidInput, i, err)
		}
	}
	for i := range assignments {
		if err := assignments[i].Validate(); err != nil {
			return fmt.Errorf("%w: assignment %d: %v", ErrInvalidInput, i, err)
		}
	}
	return nil
}

// CollectInputs runs both sources. Their network or disk work finishes
// before any matching starts.
func (s *Service) CollectInputs(ctx context.Context, roster sources.RosterSource, subs sources.SubmissionSource) ([]models.Student, []models.Assignment, error) {
	students, err := roster.FetchRoster(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch roster: %w", err)
	}

	assignments, err := subs.FetchAssignments(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch assignments: %w", err)
	}

	logger.Debug.Printf("Collected %d students and %d assignments", len(students), len(assignments))
	return students, assignments, nil
}

// BuildReport validates, aggregates and, when an archive is configured,
// stores the result.
func (s *Service) BuildReport(ctx context.Context, course string, students []models.Student, assignments []models.Assignment) (*models.Report, error) {
	if err := ValidateInputs(students, assignments); err != nil {
		return nil, err
	}

	report := s.Grader.Aggregate(students, assignments)
	s.observe(course, &report)

	for _, o := range report.Orphans {
		if len(o.Submissions) > 0 {
			logger.Debug.Printf("[%s] %d unmatched in %q: %v", course, len(o.Submissions), o.Assignment, o.Submissions)
		}
	}

	if err := s.archive(ctx, course, &report); err != nil {
		logger.Error.Printf("Failed to archive report for %s: %v", course, err)
		return &report, err
	}

	return &report, nil
}

func (s *Service) observe(course string, report *models.Report) {
	metrics.ReportsTotal.WithLabelValues(course).Inc()
	for _, o := range report.Orphans {
		metrics.OrphanSubmissions.WithLabelValues(course, o.Assignment).Set(float64(len(o.Submissions)))
	}
	for _, row := range report.Rows {
		metrics.StudentTotalHistogram.WithLabelValues(course).Observe(float64(row.Total))
	}
}

func (s *Service) archive(ctx context.Context, course string, report *models.Report) error {
	if s.Store == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	run := &models.ReportRun{
		Course:          course,
		CreatedAt:       s.now().Unix(),
		StudentCount:    len(report.Rows),
		AssignmentCount: len(report.Assignments),
		OrphanCount:     report.OrphanCount(),
		Report:          payload,
	}
	if err := s.Store.SaveRun(run); err != nil {
		return err
	}

	logger.Info.Printf("Archived report run %d for %s", run.ID, course)
	return nil
}

func (s *Service) ListRuns(course string) ([]models.ReportRun, error) {
	if s.Store == nil {
		return []models.ReportRun{}, nil
	}
	return s.Store.ListRuns(course)
}

// GetRun returns an archived run of the course, or nil when there is none.
func (s *Service) GetRun(course string, id int64) (*models.ReportRun, error) {
	if s.Store == nil {
		return nil, nil
	}
	run, err := s.Store.GetRun(id)
	if err != nil || run == nil {
		return nil, err
	}
	if run.Course != course {
		return nil, nil
	}
	return run, nil
}

// OrphanHints guesses an owner for every unmatched submission, per assignment.
func OrphanHints(report *models.Report) map[string][]matching.Hint {
	hints := make(map[string][]matching.Hint, len(report.Orphans))
	for _, o := range report.Orphans {
		if len(o.Submissions) == 0 {
			continue
		}
		for _, raw := range o.Submissions {
			hints[o.Assignment] = append(hints[o.Assignment], matching.SubmissionHint(raw))
		}
	}
	return hints
}

func (s *Service) Close() error {
	var errs []error

	if s.Store != nil {
		if err := s.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	if err := s.Auth.Close(); err != nil {
		errs = append(errs, fmt.Errorf("auth: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while closing: %v", errs)
	}
	return nil
}
