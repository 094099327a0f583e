package models

import (
	"github.com/go-playground/validator/v10"
)

// DefaultMaxPoints is what a matched assignment is worth unless configured otherwise.
const DefaultMaxPoints = 20

// Assignment is one task folder with the raw names of everything found inside.
// Submissions are kept exactly as discovered, duplicates included.
type Assignment struct {
	Name        string   `json:"name" validate:"required"`
	Source      string   `json:"source,omitempty"`
	Submissions []string `json:"submissions"`
	MaxPoints   int      `json:"max_points,omitempty" validate:"gte=0"`
}

func (a *Assignment) Validate() error {
	validate := validator.New()
	return validate.Struct(a)
}
