package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/student-portal/internal/api/dto"
	"github.com/spec-kit/student-portal/internal/auth"
	"github.com/spec-kit/student-portal/internal/domain"
	"github.com/spec-kit/student-portal/internal/service"
	"github.com/spec-kit/student-portal/internal/validation"
)

// AssessmentsHandler serves screening tests and test sessions.
type AssessmentsHandler struct {
	assessments *service.AssessmentService
	validate    *validation.Validator
}

// NewAssessmentsHandler constructs handler.
func NewAssessmentsHandler(assessmentService *service.AssessmentService, validate *validation.Validator) *AssessmentsHandler {
	return &AssessmentsHandler{assessments: assessmentService, validate: validate}
}

// ListTests handles GET /tests.
func (h *AssessmentsHandler) ListTests(c *fiber.Ctx) error {
	list, err := h.assessments.ListAssessments(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.AssessmentResponse, 0, len(list))
	for i := range list {
		resp = append(resp, dto.NewAssessmentResponse(&list[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Questions handles GET /tests/:id/questions.
func (h *AssessmentsHandler) Questions(c *fiber.Ctx) error {
	questions, err := h.assessments.Questions(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewQuestionResponses(questions)})
}

// CreateTest handles POST /tests.
func (h *AssessmentsHandler) CreateTest(c *fiber.Ctx) error {
	admin, err := staffPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.AssessmentCreateRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}

	in := service.NewAssessment{Name: req.Name, Description: req.Description}
	for _, q := range req.Questions {
		nq := service.NewQuestion{Part: q.Part, Text: q.QuestionText, Type: q.QuestionType}
		for _, opt := range q.Options {
			nq.Options = append(nq.Options, service.NewOption{Text: opt.OptionText, Correct: opt.IsCorrect})
		}
		in.Questions = append(in.Questions, nq)
	}

	assessment, questions, err := h.assessments.CreateAssessment(c.UserContext(), admin, in)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"test":      dto.NewAssessmentResponse(assessment),
			"questions": dto.NewQuestionResponses(questions),
		},
	})
}

// StartSession handles POST /sessions/start.
func (h *AssessmentsHandler) StartSession(c *fiber.Ctx) error {
	student, err := studentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.SessionStartRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	session, err := h.assessments.StartSession(c.UserContext(), student, req.TestID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewSessionResponse(session)})
}

// SubmitSession handles POST /sessions/submit.
func (h *AssessmentsHandler) SubmitSession(c *fiber.Ctx) error {
	student, err := studentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.SessionSubmitRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}

	answers := make([]service.AnswerInput, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, service.AnswerInput{
			QuestionID:       a.QuestionID,
			SelectedOptionID: a.SelectedOptionID,
			FreeText:         a.FreeTextAnswer,
		})
	}
	result, err := h.assessments.SubmitAnswers(c.UserContext(), student, req.SessionID, answers)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewResultResponse(result, false)})
}

// SessionResult handles GET /sessions/:id/result. Staff also get the breakdown.
func (h *AssessmentsHandler) SessionResult(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	viewer := service.AuthSubject{Type: principal.SubjectType, ID: principal.SubjectID()}
	session, result, err := h.assessments.SessionResult(c.UserContext(), viewer, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"session": dto.NewSessionResponse(session),
			"result":  dto.NewResultResponse(result, principal.SubjectType == domain.SubjectTypeStaff),
		},
	})
}
