package dto

import "github.com/spec-kit/student-portal/internal/domain"

// StudentSignupRequest payload for student registration.
type StudentSignupRequest struct {
	FullName    string `json:"full_name" validate:"required,full_name"`
	Username    string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Email       string `json:"email" validate:"required,dut_email"`
	Password    string `json:"password" validate:"required,strong_password"`
	Course      string `json:"course" validate:"required,max=100"`
	Faculty     string `json:"faculty" validate:"required,max=100"`
	YearOfStudy int    `json:"year_of_study" validate:"required,gte=1,lte=10"`
}

// CheckEmailRequest payload.
type CheckEmailRequest struct {
	Email string `json:"email" validate:"required"`
}

// CheckUsernameRequest payload.
type CheckUsernameRequest struct {
	Username string `json:"username" validate:"required"`
}

// StudentResponse is the public view of a student. The password hash never leaves the service.
type StudentResponse struct {
	ID            string `json:"id"`
	StudentNumber string `json:"student_number"`
	FullName      string `json:"full_name"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	Course        string `json:"course"`
	Faculty       string `json:"faculty"`
	YearOfStudy   int    `json:"year_of_study"`
}

// NewStudentResponse maps a student.
func NewStudentResponse(s *domain.Student) StudentResponse {
	return StudentResponse{
		ID:            s.ID,
		StudentNumber: s.StudentNumber,
		FullName:      s.FullName(),
		Username:      s.Username,
		Email:         s.Email,
		Course:        s.Course,
		Faculty:       s.Faculty,
		YearOfStudy:   s.YearOfStudy,
	}
}
