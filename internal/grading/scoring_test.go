package grading

import (
	"testing"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint) *uint    { return &v }
func strPtr(v string) *string { return &v }

func choiceQuestion(id uint, kind models.QuestionType, correct ...uint) models.Question {
	q := models.Question{ID: id, Type: kind}
	isCorrect := toSet(correct)
	for _, aid := range []uint{id*10 + 1, id*10 + 2, id*10 + 3} {
		_, ok := isCorrect[aid]
		q.Answers = append(q.Answers, models.Answer{ID: aid, QuestionID: id, IsCorrect: ok})
	}
	return q
}

func pick(questionID uint, answerIDs ...uint) []models.CapturedAnswer {
	rows := make([]models.CapturedAnswer, 0, len(answerIDs))
	for _, id := range answerIDs {
		rows = append(rows, models.CapturedAnswer{QuestionID: questionID, AnswerID: uintPtr(id)})
	}
	return rows
}

func TestIsCorrect(t *testing.T) {
	single := choiceQuestion(1, models.SingleChoice, 11)
	multi := choiceQuestion(2, models.MultipleChoice, 21, 23)
	short := models.Question{ID: 3, Type: models.ShortAnswer, Answers: []models.Answer{{ID: 31, Content: "1/2"}}}

	tests := []struct {
		name     string
		question models.Question
		captured []models.CapturedAnswer
		want     bool
	}{
		{"single correct", single, pick(1, 11), true},
		{"single wrong", single, pick(1, 12), false},
		{"single with extra", single, pick(1, 11, 12), false},
		{"single unanswered", single, nil, false},
		{"multi exact set", multi, pick(2, 23, 21), true},
		{"multi missing one", multi, pick(2, 21), false},
		{"multi with extra", multi, pick(2, 21, 22, 23), false},
		{"short equivalent", short, []models.CapturedAnswer{{QuestionID: 3, Value: strPtr(" 0.5 ")}}, true},
		{"short wrong", short, []models.CapturedAnswer{{QuestionID: 3, Value: strPtr("0.6")}}, false},
		{"short absent", short, nil, false},
		{"short without reference", models.Question{ID: 4, Type: models.ShortAnswer}, []models.CapturedAnswer{{QuestionID: 4, Value: strPtr("x")}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCorrect(&tt.question, tt.captured))
		})
	}
}

func TestIsCorrect_MultipleChoiceWithoutCorrectAnswers(t *testing.T) {
	q := choiceQuestion(5, models.MultipleChoice)
	assert.True(t, IsCorrect(&q, nil))
	assert.False(t, IsCorrect(&q, pick(5, 51)))
}

func TestScore(t *testing.T) {
	questions := []models.Question{
		choiceQuestion(1, models.SingleChoice, 11),
		choiceQuestion(2, models.MultipleChoice, 21, 22),
		{ID: 3, Type: models.ShortAnswer, Answers: []models.Answer{{ID: 31, Content: "cat"}}},
	}

	captured := append(pick(1, 11), pick(2, 21)...)
	captured = append(captured, models.CapturedAnswer{QuestionID: 3, Value: strPtr("cat")})

	score, max := Score(questions, captured)
	assert.Equal(t, 2, score)
	assert.Equal(t, 3, max)
}

func TestScore_UnansweredCountsTowardMax(t *testing.T) {
	questions := []models.Question{choiceQuestion(1, models.SingleChoice, 11), choiceQuestion(2, models.TrueFalse, 21)}

	score, max := Score(questions, pick(1, 11))
	assert.Equal(t, 1, score)
	assert.Equal(t, 2, max)

	score, max = Score(nil, pick(1, 11))
	assert.Zero(t, score)
	assert.Zero(t, max)
}

func TestScore_IgnoresRowsForUnknownQuestions(t *testing.T) {
	questions := []models.Question{choiceQuestion(1, models.SingleChoice, 11)}

	score, max := Score(questions, append(pick(1, 11), pick(9, 91)...))
	assert.Equal(t, 1, score)
	assert.Equal(t, 1, max)
	assert.LessOrEqual(t, score, max)
}
