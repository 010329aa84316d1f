package mocks

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/student-portal/internal/domain"
	"github.com/spec-kit/student-portal/internal/repository"
)

var (
	_ repository.AssessmentRepository  = (*MockAssessmentRepository)(nil)
	_ repository.TestSessionRepository = (*MockTestSessionRepository)(nil)
)

// MockAssessmentRepository is an in-memory AssessmentRepository.
type MockAssessmentRepository struct {
	Assessments map[string]*domain.Assessment
	QuestionSet map[string][]domain.Question
	Err         error
}

func NewMockAssessmentRepository() *MockAssessmentRepository {
	return &MockAssessmentRepository{
		Assessments: make(map[string]*domain.Assessment),
		QuestionSet: make(map[string][]domain.Question),
	}
}

func (m *MockAssessmentRepository) Create(ctx context.Context, assessment *domain.Assessment, questions []domain.Question) error {
	if m.Err != nil {
		return m.Err
	}
	if assessment.ID == "" {
		assessment.ID = uuid.NewString()
	}
	assessment.CreatedAt = time.Now()
	copied := *assessment
	m.Assessments[assessment.ID] = &copied

	stored := make([]domain.Question, len(questions))
	for i, q := range questions {
		q.AssessmentID = assessment.ID
		q.Options = append([]domain.AnswerOption(nil), q.Options...)
		for j := range q.Options {
			q.Options[j].QuestionID = q.ID
		}
		stored[i] = q
	}
	m.QuestionSet[assessment.ID] = stored
	return nil
}

func (m *MockAssessmentRepository) List(ctx context.Context) ([]domain.Assessment, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	result := make([]domain.Assessment, 0, len(m.Assessments))
	for _, a := range m.Assessments {
		result = append(result, *a)
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *MockAssessmentRepository) GetByID(ctx context.Context, id string) (*domain.Assessment, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	a, ok := m.Assessments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *a
	return &copied, nil
}

func (m *MockAssessmentRepository) Questions(ctx context.Context, assessmentID string) ([]domain.Question, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	stored := m.QuestionSet[assessmentID]
	result := make([]domain.Question, len(stored))
	for i, q := range stored {
		q.Options = append([]domain.AnswerOption(nil), q.Options...)
		result[i] = q
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Part != result[j].Part {
			return result[i].Part < result[j].Part
		}
		return result[i].Position < result[j].Position
	})
	return result, nil
}

// MockTestSessionRepository is an in-memory TestSessionRepository.
type MockTestSessionRepository struct {
	Sessions map[string]*domain.TestSession
	Answers  map[string][]domain.SessionAnswer
	Results  map[string]*domain.TestResult
	Err      error
}

func NewMockTestSessionRepository() *MockTestSessionRepository {
	return &MockTestSessionRepository{
		Sessions: make(map[string]*domain.TestSession),
		Answers:  make(map[string][]domain.SessionAnswer),
		Results:  make(map[string]*domain.TestResult),
	}
}

func (m *MockTestSessionRepository) Create(ctx context.Context, session *domain.TestSession) error {
	if m.Err != nil {
		return m.Err
	}
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	session.StartedAt = time.Now()
	copied := *session
	m.Sessions[session.ID] = &copied
	return nil
}

func (m *MockTestSessionRepository) GetByID(ctx context.Context, id string) (*domain.TestSession, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	s, ok := m.Sessions[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *s
	return &copied, nil
}

func (m *MockTestSessionRepository) Complete(ctx context.Context, sessionID string, answers []domain.SessionAnswer, result *domain.TestResult) error {
	if m.Err != nil {
		return m.Err
	}
	s, ok := m.Sessions[sessionID]
	if !ok || s.Status != domain.SessionInProgress {
		return repository.ErrSessionClosed
	}
	now := time.Now()
	s.Status = domain.SessionCompleted
	s.EndedAt = &now
	m.Answers[sessionID] = append([]domain.SessionAnswer(nil), answers...)
	result.SessionID = sessionID
	result.CreatedAt = now
	copied := *result
	m.Results[sessionID] = &copied
	return nil
}

func (m *MockTestSessionRepository) ResultBySession(ctx context.Context, sessionID string) (*domain.TestResult, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	r, ok := m.Results[sessionID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *r
	return &copied, nil
}
