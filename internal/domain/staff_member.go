package domain

import (
	"strings"
	"time"
)

// StaffRole enumerates staff privilege levels.
type StaffRole string

const (
	StaffRoleStaff StaffRole = "STAFF"
	StaffRoleAdmin StaffRole = "ADMIN"
)

// StaffMember models a lecturer, counsellor or administrator.
type StaffMember struct {
	ID           string
	Username     string
	Name         string
	Surname      string
	Email        string
	PasswordHash string
	Role         StaffRole
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName joins name and surname.
func (s *StaffMember) FullName() string {
	return strings.TrimSpace(s.Name + " " + s.Surname)
}

// IsAdmin reports whether the staff member sees elevated views.
func (s *StaffMember) IsAdmin() bool {
	return s != nil && s.Role == StaffRoleAdmin
}
