package events

import (
	"time"

	"github.com/spec-kit/student-portal/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventStudentRegistered EventType = "student_registered"
	EventStudentAssigned   EventType = "student_assigned"
	EventStudentUnassigned EventType = "student_unassigned"
	EventPasswordReset     EventType = "password_reset_requested"
	EventStaffCreated      EventType = "staff_created"
	EventStaffUpdated      EventType = "staff_updated"
	EventTestSubmitted     EventType = "test_submitted"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type      domain.SubjectType `json:"type"`
	StudentID *string            `json:"student_id,omitempty"`
	StaffID   *string            `json:"staff_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	StudentID string      `json:"student_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// StudentRegisteredPayload payload.
type StudentRegisteredPayload struct {
	StudentNumber string `json:"student_number"`
	Email         string `json:"email"`
	Faculty       string `json:"faculty"`
}

// StudentAssignmentPayload is shared by assign and unassign events.
type StudentAssignmentPayload struct {
	StaffID   string `json:"staff_id"`
	StaffName string `json:"staff_name"`
}

// PasswordResetPayload payload. The token itself is never published.
type PasswordResetPayload struct {
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// StaffChangedPayload is shared by staff create and update events.
type StaffChangedPayload struct {
	StaffID   string           `json:"staff_id"`
	StaffName string           `json:"staff_name"`
	Role      domain.StaffRole `json:"role"`
	Active    bool             `json:"active"`
}

// TestSubmittedPayload payload.
type TestSubmittedPayload struct {
	SessionID            string `json:"session_id"`
	TestID               string `json:"test_id"`
	DisabilityLikelihood string `json:"disability_likelihood"`
}
