package models

import (
	"github.com/go-playground/validator/v10"
)

// ReportRun is an archived report. Report holds the JSON-encoded Report.
type ReportRun struct {
	ID              int64  `db:"id" json:"id"`
	Course          string `db:"course" json:"course" validate:"required,max=64"`
	CreatedAt       int64  `db:"created_at" json:"created_at"`
	StudentCount    int    `db:"student_count" json:"student_count" validate:"gte=0"`
	AssignmentCount int    `db:"assignment_count" json:"assignment_count" validate:"gte=0"`
	OrphanCount     int    `db:"orphan_count" json:"orphan_count" validate:"gte=0"`
	Report          []byte `db:"report" json:"-" validate:"required"`
}

func (r *ReportRun) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
