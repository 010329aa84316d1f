package dto

import "github.com/spec-kit/student-portal/internal/domain"

// StaffCreateRequest payload for admins creating staff accounts.
type StaffCreateRequest struct {
	Username string           `json:"username" validate:"required,min=3,max=50,alphanum"`
	Name     string           `json:"name" validate:"required,max=100"`
	Surname  string           `json:"surname" validate:"required,max=100"`
	Email    string           `json:"email" validate:"required,email"`
	Password string           `json:"password" validate:"required,strong_password"`
	Role     domain.StaffRole `json:"role" validate:"omitempty,oneof=STAFF ADMIN"`
}

// StaffUpdateRequest payload. Omitted fields keep their values.
type StaffUpdateRequest struct {
	Name    *string           `json:"name" validate:"omitempty,max=100"`
	Surname *string           `json:"surname" validate:"omitempty,max=100"`
	Email   *string           `json:"email" validate:"omitempty,email"`
	Role    *domain.StaffRole `json:"role" validate:"omitempty,oneof=STAFF ADMIN"`
	Active  *bool             `json:"active"`
}

// StaffResponse is the public view of a staff member.
type StaffResponse struct {
	ID       string           `json:"id"`
	Username string           `json:"username"`
	Name     string           `json:"name"`
	Surname  string           `json:"surname"`
	Email    string           `json:"email"`
	Role     domain.StaffRole `json:"role"`
	Active   bool             `json:"active"`
}

// NewStaffResponse maps a staff member.
func NewStaffResponse(staff *domain.StaffMember) StaffResponse {
	return StaffResponse{
		ID:       staff.ID,
		Username: staff.Username,
		Name:     staff.Name,
		Surname:  staff.Surname,
		Email:    staff.Email,
		Role:     staff.Role,
		Active:   staff.Active,
	}
}

// AssignmentRequest links or unlinks a staff member and a student.
type AssignmentRequest struct {
	StaffID   string `json:"staff_id" validate:"required,uuid"`
	StudentID string `json:"student_id" validate:"required,uuid"`
}
