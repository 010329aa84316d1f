package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/student-portal/internal/api/dto"
	"github.com/spec-kit/student-portal/internal/auth"
	"github.com/spec-kit/student-portal/internal/service"
	"github.com/spec-kit/student-portal/internal/validation"
)

// StudentsHandler exposes auth and profile endpoints for students.
type StudentsHandler struct {
	auth     *service.AuthService
	validate *validation.Validator
}

// NewStudentsHandler constructs handler.
func NewStudentsHandler(authService *service.AuthService, validate *validation.Validator) *StudentsHandler {
	return &StudentsHandler{auth: authService, validate: validate}
}

// Signup handles POST /auth/students/signup.
func (h *StudentsHandler) Signup(c *fiber.Ctx) error {
	var req dto.StudentSignupRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}

	student, session, err := h.auth.SignupStudent(c.UserContext(), service.StudentSignup{
		FullName:    req.FullName,
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		Course:      req.Course,
		Faculty:     req.Faculty,
		YearOfStudy: req.YearOfStudy,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"student": dto.NewStudentResponse(student),
			"auth":    dto.NewAuthResponse(session),
		},
	})
}

// Login handles POST /auth/students/login.
func (h *StudentsHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}

	student, session, err := h.auth.LoginStudent(c.UserContext(), req.Identifier, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"student": dto.NewStudentResponse(student),
			"auth":    dto.NewAuthResponse(session),
		},
	})
}

// CheckEmail handles POST /auth/check-email.
func (h *StudentsHandler) CheckEmail(c *fiber.Ctx) error {
	var req dto.CheckEmailRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	exists, err := h.auth.CheckEmail(c.UserContext(), req.Email)
	if err != nil {
		return err
	}
	return c.JSON(dto.ExistsResponse{Exists: exists})
}

// CheckUsername handles POST /auth/check-username.
func (h *StudentsHandler) CheckUsername(c *fiber.Ctx) error {
	var req dto.CheckUsernameRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	exists, err := h.auth.CheckUsername(c.UserContext(), req.Username)
	if err != nil {
		return err
	}
	return c.JSON(dto.ExistsResponse{Exists: exists})
}

// Me handles GET /students/me.
func (h *StudentsHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Student == nil {
		return fiber.NewError(http.StatusUnauthorized, "student required")
	}
	return c.JSON(fiber.Map{"data": dto.NewStudentResponse(principal.Student)})
}
