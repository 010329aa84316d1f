package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/student-portal/internal/domain"
	"github.com/spec-kit/student-portal/internal/events"
)

func sampleAssessment() NewAssessment {
	return NewAssessment{
		Name:        "Learning screen",
		Description: "Numbers, logic and shapes",
		Questions: []NewQuestion{
			{
				Part: domain.PartNumbers,
				Text: "2 + 3 = ?",
				Type: domain.QuestionMultipleChoice,
				Options: []NewOption{
					{Text: "4"},
					{Text: "5", Correct: true},
				},
			},
			{
				Part: domain.PartLogic,
				Text: "All cats are animals. Tom is a cat. Is Tom an animal?",
				Type: domain.QuestionMultipleChoice,
				Options: []NewOption{
					{Text: "Yes", Correct: true},
					{Text: "No"},
				},
			},
			{
				Part: domain.PartShapes,
				Text: "Describe a triangle",
				Type: domain.QuestionFreeText,
			},
		},
	}
}

func (f *fixture) createAssessment(t *testing.T) (*domain.Assessment, []domain.Question) {
	t.Helper()
	admin := f.addStaff(t, "admin", "Ada", "Admin", domain.StaffRoleAdmin)
	assessment, questions, err := f.assessmentService().CreateAssessment(context.Background(), admin, sampleAssessment())
	require.NoError(t, err)
	return assessment, questions
}

func optionID(t *testing.T, q domain.Question, correct bool) *string {
	t.Helper()
	for _, opt := range q.Options {
		if opt.Correct == correct {
			id := opt.ID
			return &id
		}
	}
	t.Fatalf("question %s has no option with correct=%v", q.ID, correct)
	return nil
}

func TestAssessmentService_CreateRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	lecturer := f.addStaff(t, "lecturer", "Lee", "Naidoo", domain.StaffRoleStaff)
	_, _, err := f.assessmentService().CreateAssessment(context.Background(), lecturer, sampleAssessment())
	requireCode(t, err, "FORBIDDEN")
	require.Empty(t, f.tests.Assessments)
}

func TestAssessmentService_CreateChecksQuestions(t *testing.T) {
	f := newFixture(t)
	admin := f.addStaff(t, "admin", "Ada", "Admin", domain.StaffRoleAdmin)

	in := sampleAssessment()
	in.Questions[0].Options = in.Questions[0].Options[:1]
	in.Questions[1].Options[0].Correct = false
	in.Questions[2].Options = []NewOption{{Text: "stray"}}

	_, _, err := f.assessmentService().CreateAssessment(context.Background(), admin, in)
	requireCode(t, err, "VALIDATION_FAILED")
	details := errorDetails(t, err)
	require.Contains(t, details, "questions[0]")
	require.Contains(t, details, "questions[1]")
	require.Contains(t, details, "questions[2]")
}

func TestAssessmentService_QuestionsOrderedByPart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	assessment, _ := f.createAssessment(t)

	list, err := f.assessmentService().ListAssessments(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Learning screen", list[0].Name)

	questions, err := f.assessmentService().Questions(ctx, assessment.ID)
	require.NoError(t, err)
	require.Len(t, questions, 3)
	require.Equal(t, domain.PartLogic, questions[0].Part)
	require.Equal(t, domain.PartNumbers, questions[1].Part)
	require.Equal(t, domain.PartShapes, questions[2].Part)
	require.Len(t, questions[1].Options, 2)

	_, err = f.assessmentService().Questions(ctx, "missing")
	requireCode(t, err, "NOT_FOUND")
}

func TestAssessmentService_StartSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	assessment, _ := f.createAssessment(t)
	student := f.addStudent(t, "22000001", "Bob", "Zulu")

	session, err := f.assessmentService().StartSession(ctx, student, assessment.ID)
	require.NoError(t, err)
	require.Equal(t, domain.SessionInProgress, session.Status)
	require.Equal(t, student.ID, session.StudentID)
	require.Contains(t, f.sessions.Sessions, session.ID)

	_, err = f.assessmentService().StartSession(ctx, student, "missing")
	requireCode(t, err, "NOT_FOUND")

	_, err = f.assessmentService().StartSession(ctx, nil, assessment.ID)
	requireCode(t, err, "UNAUTHORIZED")
}

func TestAssessmentService_SubmitScoresAndCloses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	assessment, questions := f.createAssessment(t)
	student := f.addStudent(t, "22000001", "Bob", "Zulu")
	svc := f.assessmentService()

	session, err := svc.StartSession(ctx, student, assessment.ID)
	require.NoError(t, err)

	essay := "  three sides  "
	answers := []AnswerInput{
		{QuestionID: questions[0].ID, SelectedOptionID: optionID(t, questions[0], true)},
		{QuestionID: questions[1].ID, SelectedOptionID: optionID(t, questions[1], true)},
		{QuestionID: questions[2].ID, FreeText: &essay},
	}
	result, err := svc.SubmitAnswers(ctx, student, session.ID, answers)
	require.NoError(t, err)
	require.Equal(t, 1, result.NumbersScore)
	require.Equal(t, 1, result.LogicScore)
	require.Equal(t, domain.LikelihoodLow, result.DisabilityLikelihood)

	stored := f.sessions.Answers[session.ID]
	require.Len(t, stored, 3)
	require.Equal(t, "three sides", *stored[2].FreeText)
	require.Equal(t, domain.SessionCompleted, f.sessions.Sessions[session.ID].Status)

	require.Len(t, f.published, 1)
	require.Equal(t, events.EventTestSubmitted, f.published[0].Type)
	require.Equal(t, student.ID, f.published[0].StudentID)

	_, err = svc.SubmitAnswers(ctx, student, session.ID, answers)
	requireCode(t, err, "CONFLICT")
}

func TestAssessmentService_SubmitRejectsBadAnswers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	assessment, questions := f.createAssessment(t)
	student := f.addStudent(t, "22000001", "Bob", "Zulu")
	svc := f.assessmentService()

	session, err := svc.StartSession(ctx, student, assessment.ID)
	require.NoError(t, err)

	foreign := questions[1].Options[0].ID
	_, err = svc.SubmitAnswers(ctx, student, session.ID, []AnswerInput{
		{QuestionID: "not-in-test", SelectedOptionID: &foreign},
		{QuestionID: questions[0].ID, SelectedOptionID: &foreign},
		{QuestionID: questions[1].ID},
		{QuestionID: questions[2].ID},
	})
	requireCode(t, err, "VALIDATION_FAILED")
	details := errorDetails(t, err)
	for _, key := range []string{"answers[0]", "answers[1]", "answers[2]", "answers[3]"} {
		require.Contains(t, details, key)
	}
	require.Equal(t, domain.SessionInProgress, f.sessions.Sessions[session.ID].Status)

	_, err = svc.SubmitAnswers(ctx, student, session.ID, nil)
	requireCode(t, err, "VALIDATION_FAILED")

	other := f.addStudent(t, "22000002", "Amy", "Dlamini")
	_, err = svc.SubmitAnswers(ctx, other, session.ID, []AnswerInput{
		{QuestionID: questions[0].ID, SelectedOptionID: optionID(t, questions[0], true)},
	})
	requireCode(t, err, "NOT_FOUND")

	_, err = svc.SubmitAnswers(ctx, student, "missing", []AnswerInput{{QuestionID: questions[0].ID}})
	requireCode(t, err, "NOT_FOUND")
}

func TestAssessmentService_SessionResultVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	assessment, questions := f.createAssessment(t)
	student := f.addStudent(t, "22000001", "Bob", "Zulu")
	other := f.addStudent(t, "22000002", "Amy", "Dlamini")
	lecturer := f.addStaff(t, "lecturer", "Lee", "Naidoo", domain.StaffRoleStaff)
	svc := f.assessmentService()

	session, err := svc.StartSession(ctx, student, assessment.ID)
	require.NoError(t, err)

	owner := AuthSubject{Type: domain.SubjectTypeStudent, ID: student.ID}
	_, _, err = svc.SessionResult(ctx, owner, session.ID)
	requireCode(t, err, "NOT_FOUND")

	_, err = svc.SubmitAnswers(ctx, student, session.ID, []AnswerInput{
		{QuestionID: questions[0].ID, SelectedOptionID: optionID(t, questions[0], false)},
	})
	require.NoError(t, err)

	_, result, err := svc.SessionResult(ctx, owner, session.ID)
	require.NoError(t, err)
	require.Equal(t, session.ID, result.SessionID)

	_, _, err = svc.SessionResult(ctx, AuthSubject{Type: domain.SubjectTypeStudent, ID: other.ID}, session.ID)
	requireCode(t, err, "NOT_FOUND")

	_, result, err = svc.SessionResult(ctx, AuthSubject{Type: domain.SubjectTypeStaff, ID: lecturer.ID}, session.ID)
	require.NoError(t, err)
	require.Equal(t, domain.LikelihoodHigh, result.DisabilityLikelihood)
}
