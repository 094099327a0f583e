package models

import (
	"time"
)

// APIToken is the Redis-backed credential of one API client for one course.
type APIToken struct {
	Course       string    `json:"course"`
	Client       string    `json:"client"`
	Token        string    `json:"token"`
	RequestCount int       `json:"request_count"`
	LastIssued   time.Time `json:"last_issued_dttm_utc"`
	CreatedTime  time.Time `json:"created_dttm_utc"`
}
