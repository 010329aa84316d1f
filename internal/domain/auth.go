package domain

import "time"

// SubjectType differentiates student vs staff tokens.
type SubjectType string

const (
	SubjectTypeStudent SubjectType = "STUDENT"
	SubjectTypeStaff   SubjectType = "STAFF"
)

// Session is the outcome of a successful authentication.
type Session struct {
	Token     string
	SubjectID string
	Subject   SubjectType
	Role      *StaffRole
	ExpiresAt time.Time
}
