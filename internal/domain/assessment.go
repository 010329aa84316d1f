package domain

import "time"

// AssessmentPart groups questions of a screening test.
type AssessmentPart string

const (
	PartNumbers AssessmentPart = "Numbers"
	PartLogic   AssessmentPart = "Logic"
	PartShapes  AssessmentPart = "Shapes"
)

// AssessmentParts lists the parts in display order.
var AssessmentParts = []AssessmentPart{PartNumbers, PartLogic, PartShapes}

// QuestionType tells how a question is answered.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionFreeText       QuestionType = "free_text"
)

// Assessment is a screening test students can sit.
type Assessment struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

// Question belongs to one assessment part. Options are only set for
// multiple choice questions.
type Question struct {
	ID           string
	AssessmentID string
	Part         AssessmentPart
	Text         string
	Type         QuestionType
	Position     int
	Options      []AnswerOption
}

// Option returns the option with the given id.
func (q *Question) Option(id string) (*AnswerOption, bool) {
	for i := range q.Options {
		if q.Options[i].ID == id {
			return &q.Options[i], true
		}
	}
	return nil, false
}

// AnswerOption is one choice of a multiple choice question.
type AnswerOption struct {
	ID         string
	QuestionID string
	Text       string
	Correct    bool
	Position   int
}

// SessionStatus tracks a test session.
type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
)

// TestSession is one sitting of an assessment by a student.
type TestSession struct {
	ID           string
	StudentID    string
	AssessmentID string
	Status       SessionStatus
	StartedAt    time.Time
	EndedAt      *time.Time
}

// SessionAnswer is a submitted answer. Exactly one of SelectedOptionID and
// FreeText is set, matching the question type.
type SessionAnswer struct {
	ID               string
	SessionID        string
	QuestionID       string
	SelectedOptionID *string
	FreeText         *string
}

// Likelihood levels reported to students.
const (
	LikelihoodHigh = "high"
	LikelihoodLow  = "low"
)

// TestResult is the scored outcome of a completed session. StaffBreakdown is
// only shown to staff.
type TestResult struct {
	ID                   string
	SessionID            string
	NumbersScore         int
	LogicScore           int
	ShapesScore          int
	DisabilityLikelihood string
	OutcomeMessage       string
	StaffBreakdown       map[string]any
	CreatedAt            time.Time
}

// PartTally counts one part of a scored session.
type PartTally struct {
	Questions int `json:"questions"`
	Answered  int `json:"answered"`
	Correct   int `json:"correct"`
}

// ScoreSession scores multiple choice answers per part. Free text answers are
// kept for staff review but never scored. A session with fewer than half of
// its multiple choice questions correct is flagged high.
func ScoreSession(questions []Question, answers []SessionAnswer) TestResult {
	byID := make(map[string]*Question, len(questions))
	tallies := make(map[AssessmentPart]*PartTally, len(AssessmentParts))
	for _, part := range AssessmentParts {
		tallies[part] = &PartTally{}
	}
	tallyFor := func(part AssessmentPart) *PartTally {
		t, ok := tallies[part]
		if !ok {
			t = &PartTally{}
			tallies[part] = t
		}
		return t
	}

	scored := 0
	for i := range questions {
		q := &questions[i]
		byID[q.ID] = q
		if q.Type == QuestionMultipleChoice {
			tallyFor(q.Part).Questions++
			scored++
		}
	}

	freeText := 0
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			continue
		}
		if q.Type == QuestionFreeText {
			if a.FreeText != nil {
				freeText++
			}
			continue
		}
		if a.SelectedOptionID == nil {
			continue
		}
		t := tallyFor(q.Part)
		t.Answered++
		if opt, ok := q.Option(*a.SelectedOptionID); ok && opt.Correct {
			t.Correct++
		}
	}

	correct := 0
	parts := make(map[string]any, len(tallies))
	for part, t := range tallies {
		correct += t.Correct
		parts[string(part)] = *t
	}

	result := TestResult{
		NumbersScore:         tallies[PartNumbers].Correct,
		LogicScore:           tallies[PartLogic].Correct,
		ShapesScore:          tallies[PartShapes].Correct,
		DisabilityLikelihood: LikelihoodLow,
		OutcomeMessage:       "Your results suggest a low likelihood of a learning difficulty.",
		StaffBreakdown: map[string]any{
			"parts":             parts,
			"scored_questions":  scored,
			"correct":           correct,
			"free_text_answers": freeText,
		},
	}
	if scored > 0 && correct*2 < scored {
		result.DisabilityLikelihood = LikelihoodHigh
		result.OutcomeMessage = "Your results suggest a high likelihood of a learning difficulty."
	}
	return result
}
