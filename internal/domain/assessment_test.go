package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func choice(id, part string, correctID string, optionIDs ...string) Question {
	q := Question{ID: id, Part: AssessmentPart(part), Type: QuestionMultipleChoice}
	for _, optID := range optionIDs {
		q.Options = append(q.Options, AnswerOption{ID: optID, QuestionID: id, Correct: optID == correctID})
	}
	return q
}

func picked(questionID, optionID string) SessionAnswer {
	return SessionAnswer{QuestionID: questionID, SelectedOptionID: &optionID}
}

func TestScoreSession_CountsCorrectPerPart(t *testing.T) {
	questions := []Question{
		choice("n1", "Numbers", "n1a", "n1a", "n1b"),
		choice("n2", "Numbers", "n2b", "n2a", "n2b"),
		choice("l1", "Logic", "l1a", "l1a", "l1b"),
		choice("s1", "Shapes", "s1a", "s1a", "s1b"),
		{ID: "f1", Part: PartLogic, Type: QuestionFreeText},
	}
	essay := "I liked the shapes"
	answers := []SessionAnswer{
		picked("n1", "n1a"),
		picked("n2", "n2b"),
		picked("l1", "l1b"),
		picked("s1", "s1a"),
		{QuestionID: "f1", FreeText: &essay},
	}

	result := ScoreSession(questions, answers)
	require.Equal(t, 2, result.NumbersScore)
	require.Equal(t, 0, result.LogicScore)
	require.Equal(t, 1, result.ShapesScore)
	require.Equal(t, LikelihoodLow, result.DisabilityLikelihood)
	require.Equal(t, 4, result.StaffBreakdown["scored_questions"])
	require.Equal(t, 3, result.StaffBreakdown["correct"])
	require.Equal(t, 1, result.StaffBreakdown["free_text_answers"])

	parts, ok := result.StaffBreakdown["parts"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, PartTally{Questions: 1, Answered: 1, Correct: 0}, parts["Logic"])
}

func TestScoreSession_FlagsLowScores(t *testing.T) {
	questions := []Question{
		choice("n1", "Numbers", "n1a", "n1a", "n1b"),
		choice("l1", "Logic", "l1a", "l1a", "l1b"),
		choice("s1", "Shapes", "s1a", "s1a", "s1b"),
	}
	result := ScoreSession(questions, []SessionAnswer{picked("n1", "n1a"), picked("l1", "l1b")})
	require.Equal(t, LikelihoodHigh, result.DisabilityLikelihood)
	require.Contains(t, result.OutcomeMessage, "high likelihood")
}

func TestScoreSession_NoScoredQuestions(t *testing.T) {
	text := "answer"
	result := ScoreSession(
		[]Question{{ID: "f1", Part: PartShapes, Type: QuestionFreeText}},
		[]SessionAnswer{{QuestionID: "f1", FreeText: &text}},
	)
	require.Equal(t, LikelihoodLow, result.DisabilityLikelihood)
	require.Zero(t, result.NumbersScore+result.LogicScore+result.ShapesScore)
}

func TestQuestion_Option(t *testing.T) {
	q := choice("q", "Logic", "b", "a", "b")
	opt, ok := q.Option("b")
	require.True(t, ok)
	require.True(t, opt.Correct)
	_, ok = q.Option("z")
	require.False(t, ok)
}
