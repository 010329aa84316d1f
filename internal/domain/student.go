package domain

import (
	"strings"
	"time"
)

// Student is a portal account holder enrolled at the university.
type Student struct {
	ID            string
	StudentNumber string
	Name          string
	Surname       string
	Username      string
	Email         string
	Course        string
	Faculty       string
	YearOfStudy   int
	PasswordHash  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FullName joins name and surname.
func (s *Student) FullName() string {
	return strings.TrimSpace(s.Name + " " + s.Surname)
}
