package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/student-portal/internal/domain"
	"github.com/spec-kit/student-portal/internal/events"
	"github.com/spec-kit/student-portal/internal/repository"
	apperrors "github.com/spec-kit/student-portal/pkg/util/errorutil"
)

// AssessmentService runs the screening tests: listing, sittings and scoring.
type AssessmentService struct {
	assessments repository.AssessmentRepository
	sessions    repository.TestSessionRepository
	dispatcher  events.Dispatcher
}

// AssessmentDependencies bundles repositories.
type AssessmentDependencies struct {
	AssessmentRepo repository.AssessmentRepository
	SessionRepo    repository.TestSessionRepository
	Dispatcher     events.Dispatcher
}

// NewAssessment carries a test being authored by an admin.
type NewAssessment struct {
	Name        string
	Description string
	Questions   []NewQuestion
}

// NewQuestion is one authored question. Options apply to multiple choice only.
type NewQuestion struct {
	Part    domain.AssessmentPart
	Text    string
	Type    domain.QuestionType
	Options []NewOption
}

// NewOption is one authored answer option.
type NewOption struct {
	Text    string
	Correct bool
}

// AnswerInput is a submitted answer before it is checked against the test.
type AnswerInput struct {
	QuestionID       string
	SelectedOptionID *string
	FreeText         *string
}

// NewAssessmentService creates the service.
func NewAssessmentService(deps AssessmentDependencies) *AssessmentService {
	return &AssessmentService{
		assessments: deps.AssessmentRepo,
		sessions:    deps.SessionRepo,
		dispatcher:  deps.Dispatcher,
	}
}

// ListAssessments returns every available test.
func (s *AssessmentService) ListAssessments(ctx context.Context) ([]domain.Assessment, error) {
	list, err := s.assessments.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// Questions returns the questions of a test ordered by part.
func (s *AssessmentService) Questions(ctx context.Context, assessmentID string) ([]domain.Question, error) {
	if _, err := s.loadAssessment(ctx, assessmentID); err != nil {
		return nil, err
	}
	questions, err := s.assessments.Questions(ctx, assessmentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return questions, nil
}

// CreateAssessment stores a new test with its questions (ADMIN).
func (s *AssessmentService) CreateAssessment(ctx context.Context, actor *domain.StaffMember, in NewAssessment) (*domain.Assessment, []domain.Question, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, nil, err
	}
	if details := checkQuestions(in.Questions); len(details) > 0 {
		return nil, nil, apperrors.NewValidationError("invalid questions", details)
	}

	assessment := &domain.Assessment{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
	}
	questions := make([]domain.Question, 0, len(in.Questions))
	for i, nq := range in.Questions {
		q := domain.Question{
			ID:           uuid.NewString(),
			AssessmentID: assessment.ID,
			Part:         nq.Part,
			Text:         strings.TrimSpace(nq.Text),
			Type:         nq.Type,
			Position:     i,
		}
		for j, no := range nq.Options {
			q.Options = append(q.Options, domain.AnswerOption{
				ID:         uuid.NewString(),
				QuestionID: q.ID,
				Text:       strings.TrimSpace(no.Text),
				Correct:    no.Correct,
				Position:   j,
			})
		}
		questions = append(questions, q)
	}

	if err := s.assessments.Create(ctx, assessment, questions); err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return assessment, questions, nil
}

func checkQuestions(questions []NewQuestion) map[string]any {
	details := map[string]any{}
	for i, q := range questions {
		key := fmt.Sprintf("questions[%d]", i)
		switch q.Type {
		case domain.QuestionMultipleChoice:
			correct := 0
			for _, opt := range q.Options {
				if opt.Correct {
					correct++
				}
			}
			if len(q.Options) < 2 {
				details[key] = "multiple choice questions need at least two options"
			} else if correct == 0 {
				details[key] = "multiple choice questions need a correct option"
			}
		case domain.QuestionFreeText:
			if len(q.Options) > 0 {
				details[key] = "free text questions take no options"
			}
		default:
			details[key] = "unknown question type"
		}
	}
	return details
}

// StartSession opens a sitting of a test for the student.
func (s *AssessmentService) StartSession(ctx context.Context, student *domain.Student, assessmentID string) (*domain.TestSession, error) {
	if student == nil {
		return nil, apperrors.NewUnauthorized("student required")
	}
	if _, err := s.loadAssessment(ctx, assessmentID); err != nil {
		return nil, err
	}

	session := &domain.TestSession{
		ID:           uuid.NewString(),
		StudentID:    student.ID,
		AssessmentID: assessmentID,
		Status:       domain.SessionInProgress,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, apperrors.MapError(err)
	}
	return session, nil
}

// SubmitAnswers records the student's answers, scores them and closes the
// session. A session accepts one submission.
func (s *AssessmentService) SubmitAnswers(ctx context.Context, student *domain.Student, sessionID string, answers []AnswerInput) (*domain.TestResult, error) {
	if student == nil {
		return nil, apperrors.NewUnauthorized("student required")
	}
	if len(answers) == 0 {
		return nil, apperrors.NewValidationError("invalid answers", map[string]any{"answers": "at least one answer is required"})
	}
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.StudentID != student.ID {
		return nil, apperrors.NewNotFound("test session", map[string]any{"session_id": sessionID})
	}
	if session.Status != domain.SessionInProgress {
		return nil, apperrors.NewConflict("test session already completed", map[string]any{"session_id": sessionID})
	}

	questions, err := s.assessments.Questions(ctx, session.AssessmentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	stored, details := matchAnswers(sessionID, questions, answers)
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid answers", details)
	}

	result := domain.ScoreSession(questions, stored)
	result.ID = uuid.NewString()
	result.SessionID = sessionID
	if err := s.sessions.Complete(ctx, sessionID, stored, &result); err != nil {
		if errors.Is(err, repository.ErrSessionClosed) {
			return nil, apperrors.NewConflict("test session already completed", map[string]any{"session_id": sessionID})
		}
		return nil, apperrors.MapError(err)
	}

	s.publishSubmitted(ctx, student.ID, session, &result)
	return &result, nil
}

// matchAnswers checks each answer against its question and returns the rows
// to store, or field details for everything that does not fit.
func matchAnswers(sessionID string, questions []domain.Question, answers []AnswerInput) ([]domain.SessionAnswer, map[string]any) {
	byID := make(map[string]*domain.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	details := map[string]any{}
	seen := make(map[string]struct{}, len(answers))
	stored := make([]domain.SessionAnswer, 0, len(answers))
	for i, a := range answers {
		key := fmt.Sprintf("answers[%d]", i)
		q, ok := byID[a.QuestionID]
		if !ok {
			details[key] = "question does not belong to this test"
			continue
		}
		if _, dup := seen[a.QuestionID]; dup {
			details[key] = "question answered more than once"
			continue
		}
		seen[a.QuestionID] = struct{}{}

		row := domain.SessionAnswer{ID: uuid.NewString(), SessionID: sessionID, QuestionID: q.ID}
		switch q.Type {
		case domain.QuestionMultipleChoice:
			if a.SelectedOptionID == nil {
				details[key] = "selected_option_id is required"
				continue
			}
			if _, ok := q.Option(*a.SelectedOptionID); !ok {
				details[key] = "option does not belong to the question"
				continue
			}
			row.SelectedOptionID = a.SelectedOptionID
		case domain.QuestionFreeText:
			if a.FreeText == nil || strings.TrimSpace(*a.FreeText) == "" {
				details[key] = "free_text_answer is required"
				continue
			}
			text := strings.TrimSpace(*a.FreeText)
			row.FreeText = &text
		}
		stored = append(stored, row)
	}
	return stored, details
}

// SessionResult returns a completed session's result. Students only see their
// own sessions; staff see any.
func (s *AssessmentService) SessionResult(ctx context.Context, viewer AuthSubject, sessionID string) (*domain.TestSession, *domain.TestResult, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if viewer.Type == domain.SubjectTypeStudent && session.StudentID != viewer.ID {
		return nil, nil, apperrors.NewNotFound("test session", map[string]any{"session_id": sessionID})
	}
	result, err := s.sessions.ResultBySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("test result", map[string]any{"session_id": sessionID})
		}
		return nil, nil, apperrors.MapError(err)
	}
	return session, result, nil
}

func (s *AssessmentService) loadAssessment(ctx context.Context, id string) (*domain.Assessment, error) {
	assessment, err := s.assessments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("test", map[string]any{"test_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return assessment, nil
}

func (s *AssessmentService) loadSession(ctx context.Context, id string) (*domain.TestSession, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("test session", map[string]any{"session_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return session, nil
}

func (s *AssessmentService) publishSubmitted(ctx context.Context, studentID string, session *domain.TestSession, result *domain.TestResult) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTestSubmitted,
		StudentID: studentID,
		Actor:     events.Actor{Type: domain.SubjectTypeStudent, StudentID: &studentID},
		Timestamp: time.Now(),
		Payload: events.TestSubmittedPayload{
			SessionID:            session.ID,
			TestID:               session.AssessmentID,
			DisabilityLikelihood: result.DisabilityLikelihood,
		},
	}
	_ = s.dispatcher.Publish(ctx, event)
}
