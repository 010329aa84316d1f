package domain

import "time"

// StaffStudentLink assigns a staff member to follow up on a student.
type StaffStudentLink struct {
	StaffID   string
	StudentID string
	CreatedAt time.Time
}

// StudentAssignment is a student with the staff members linked to them.
type StudentAssignment struct {
	Student Student
	Staff   []StaffMember
}
