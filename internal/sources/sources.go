// Package sources supplies rosters and assignment listings to the report
// pipeline. Anything network-bound lives behind these interfaces.
package sources

import (
	"context"
	"errors"

	"github.com/shrimpsizemoose/entregas/internal/models"
)

var (
	ErrEmptyRoster = errors.New("roster has no usable students")
	ErrNoFolder    = errors.New("submission folder not found")
)

type RosterSource interface {
	FetchRoster(ctx context.Context) ([]models.Student, error)
}

type SubmissionSource interface {
	FetchAssignments(ctx context.Context) ([]models.Assignment, error)
}

// StaticRoster serves a roster already in memory.
type StaticRoster []models.Student

func (r StaticRoster) FetchRoster(context.Context) ([]models.Student, error) {
	return append([]models.Student(nil), r...), nil
}

// StaticAssignments serves assignments already in memory.
type StaticAssignments []models.Assignment

func (a StaticAssignments) FetchAssignments(context.Context) ([]models.Assignment, error) {
	return append([]models.Assignment(nil), a...), nil
}
