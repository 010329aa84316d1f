package dto

import (
	"time"

	"github.com/spec-kit/student-portal/internal/domain"
)

// AssessmentCreateRequest payload for admins authoring a test.
type AssessmentCreateRequest struct {
	Name        string            `json:"name" validate:"required,max=100"`
	Description string            `json:"description" validate:"max=2000"`
	Questions   []QuestionRequest `json:"questions" validate:"required,min=1,dive"`
}

// QuestionRequest is one authored question.
type QuestionRequest struct {
	Part         domain.AssessmentPart `json:"part" validate:"required,oneof=Numbers Logic Shapes"`
	QuestionText string                `json:"question_text" validate:"required"`
	QuestionType domain.QuestionType   `json:"question_type" validate:"required,oneof=multiple_choice free_text"`
	Options      []OptionRequest       `json:"options" validate:"dive"`
}

// OptionRequest is one authored answer option.
type OptionRequest struct {
	OptionText string `json:"option_text" validate:"required"`
	IsCorrect  bool   `json:"is_correct"`
}

// SessionStartRequest payload.
type SessionStartRequest struct {
	TestID string `json:"test_id" validate:"required,uuid"`
}

// SessionSubmitRequest payload.
type SessionSubmitRequest struct {
	SessionID string          `json:"session_id" validate:"required,uuid"`
	Answers   []AnswerRequest `json:"answers" validate:"required,min=1,dive"`
}

// AnswerRequest carries either a selected option or a free text answer.
type AnswerRequest struct {
	QuestionID       string  `json:"question_id" validate:"required,uuid"`
	SelectedOptionID *string `json:"selected_option_id" validate:"omitempty,uuid"`
	FreeTextAnswer   *string `json:"free_text_answer" validate:"omitempty,max=2000"`
}

// AssessmentResponse lists a test.
type AssessmentResponse struct {
	TestID      string `json:"test_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NewAssessmentResponse maps an assessment.
func NewAssessmentResponse(a *domain.Assessment) AssessmentResponse {
	return AssessmentResponse{TestID: a.ID, Name: a.Name, Description: a.Description}
}

// OptionResponse never reveals which option is correct.
type OptionResponse struct {
	OptionID   string `json:"option_id"`
	OptionText string `json:"option_text"`
}

// QuestionResponse is a question as shown to the test taker.
type QuestionResponse struct {
	QuestionID   string                `json:"question_id"`
	Part         domain.AssessmentPart `json:"part"`
	QuestionText string                `json:"question_text"`
	QuestionType domain.QuestionType   `json:"question_type"`
	Options      []OptionResponse      `json:"options"`
}

// NewQuestionResponses maps questions. Free text questions carry an empty
// options list.
func NewQuestionResponses(questions []domain.Question) []QuestionResponse {
	resp := make([]QuestionResponse, 0, len(questions))
	for _, q := range questions {
		item := QuestionResponse{
			QuestionID:   q.ID,
			Part:         q.Part,
			QuestionText: q.Text,
			QuestionType: q.Type,
			Options:      []OptionResponse{},
		}
		if q.Type == domain.QuestionMultipleChoice {
			for _, opt := range q.Options {
				item.Options = append(item.Options, OptionResponse{OptionID: opt.ID, OptionText: opt.Text})
			}
		}
		resp = append(resp, item)
	}
	return resp
}

// SessionResponse describes a test sitting.
type SessionResponse struct {
	SessionID string               `json:"session_id"`
	TestID    string               `json:"test_id"`
	Status    domain.SessionStatus `json:"status"`
	StartedAt time.Time            `json:"started_at"`
	EndedAt   *time.Time           `json:"ended_at,omitempty"`
}

// NewSessionResponse maps a session.
func NewSessionResponse(s *domain.TestSession) SessionResponse {
	return SessionResponse{
		SessionID: s.ID,
		TestID:    s.AssessmentID,
		Status:    s.Status,
		StartedAt: s.StartedAt,
		EndedAt:   s.EndedAt,
	}
}

// ResultResponse is a scored outcome. StaffBreakdown is omitted for students.
type ResultResponse struct {
	SessionID            string         `json:"session_id"`
	NumbersScore         int            `json:"numbers_score"`
	LogicScore           int            `json:"logic_score"`
	ShapesScore          int            `json:"shapes_score"`
	DisabilityLikelihood string         `json:"disability_likelihood"`
	OutcomeMessage       string         `json:"outcome_message"`
	StaffBreakdown       map[string]any `json:"staff_breakdown,omitempty"`
}

// NewResultResponse maps a result, including the staff breakdown when asked.
func NewResultResponse(r *domain.TestResult, withBreakdown bool) ResultResponse {
	resp := ResultResponse{
		SessionID:            r.SessionID,
		NumbersScore:         r.NumbersScore,
		LogicScore:           r.LogicScore,
		ShapesScore:          r.ShapesScore,
		DisabilityLikelihood: r.DisabilityLikelihood,
		OutcomeMessage:       r.OutcomeMessage,
	}
	if withBreakdown {
		resp.StaffBreakdown = r.StaffBreakdown
	}
	return resp
}
