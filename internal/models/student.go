package models

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Student is one roster entry. ID is compared as a token, never as a number.
type Student struct {
	ID        string `db:"id" json:"id" validate:"required"`
	FirstName string `db:"first_name" json:"first_name" validate:"required_without=LastName"`
	LastName  string `db:"last_name" json:"last_name" validate:"required_without=FirstName"`
}

func (s *Student) Validate() error {
	trimmed := Student{
		ID:        strings.TrimSpace(s.ID),
		FirstName: strings.TrimSpace(s.FirstName),
		LastName:  strings.TrimSpace(s.LastName),
	}
	validate := validator.New()
	return validate.Struct(&trimmed)
}
