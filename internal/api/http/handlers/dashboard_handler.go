package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/student-portal/internal/api/dto"
	"github.com/spec-kit/student-portal/internal/service"
	"github.com/spec-kit/student-portal/internal/validation"
)

// DashboardHandler serves the staff dashboard roster and assignment endpoints.
type DashboardHandler struct {
	roster      *service.RosterService
	assignments *service.AssignmentService
	validate    *validation.Validator
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(rosterService *service.RosterService, assignmentService *service.AssignmentService, validate *validation.Validator) *DashboardHandler {
	return &DashboardHandler{roster: rosterService, assignments: assignmentService, validate: validate}
}

// Roster handles GET /dashboard/roster. The feed is unfiltered; the page
// searches, filters and sorts it locally.
func (h *DashboardHandler) Roster(c *fiber.Ctx) error {
	staff, err := staffPrincipal(c)
	if err != nil {
		return err
	}
	feed, err := h.roster.Feed(c.UserContext(), staff)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": feed})
}

// Assign handles POST /dashboard/assignments.
func (h *DashboardHandler) Assign(c *fiber.Ctx) error {
	admin, err := staffPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.AssignmentRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	link, err := h.assignments.Assign(c.UserContext(), admin, req.StaffID, req.StudentID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"staff_id":   link.StaffID,
			"student_id": link.StudentID,
		},
	})
}

// Unassign handles DELETE /dashboard/assignments.
func (h *DashboardHandler) Unassign(c *fiber.Ctx) error {
	admin, err := staffPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.AssignmentRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	if err := h.assignments.Unassign(c.UserContext(), admin, req.StaffID, req.StudentID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
