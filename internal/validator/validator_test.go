package validator

import (
	"strings"
	"testing"

	apperrors "github.com/SAP-F-2025/quiz-service/internal/errors"
	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEdit() *models.TestEdit {
	return &models.TestEdit{
		Title: "T",
		Questions: []models.QuestionEdit{
			{
				Content: "Pick A",
				Type:    models.SingleChoice,
				Answers: []models.AnswerEdit{
					{Content: "A", IsCorrect: true},
					{Content: "B"},
				},
			},
			{
				Content: "Pick any",
				Type:    models.MultipleChoice,
				Answers: []models.AnswerEdit{
					{Content: "A", IsCorrect: true},
					{Content: "B", IsCorrect: true},
					{Content: "C"},
				},
			},
			{
				Content: "Sky is blue",
				Type:    models.TrueFalse,
				Answers: []models.AnswerEdit{
					{Content: "True", IsCorrect: true},
					{Content: "False"},
				},
			},
			{
				Content: "Half of one",
				Type:    models.ShortAnswer,
				Answers: []models.AnswerEdit{{Content: "0.5"}},
			},
		},
	}
}

func rulesOf(t *testing.T, err error) []string {
	t.Helper()
	var errs apperrors.ValidationErrors
	require.ErrorAs(t, err, &errs)
	return errs.Rules()
}

func TestValidateTestEdit_Valid(t *testing.T) {
	v := New()
	assert.NoError(t, v.ValidateTestEdit(validEdit()))
}

func TestValidateTestEdit_NoQuestionsIsValid(t *testing.T) {
	v := New()
	assert.NoError(t, v.ValidateTestEdit(&models.TestEdit{Title: "Empty"}))
}

func TestValidateTestEdit_Rules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(e *models.TestEdit)
		rule   string
	}{
		{
			name:   "blank title",
			mutate: func(e *models.TestEdit) { e.Title = "   " },
			rule:   apperrors.ReasonEmptyTitle,
		},
		{
			name:   "blank question content",
			mutate: func(e *models.TestEdit) { e.Questions[0].Content = "" },
			rule:   apperrors.ReasonEmptyQuestionContent,
		},
		{
			name:   "choice question without answers",
			mutate: func(e *models.TestEdit) { e.Questions[1].Answers = nil },
			rule:   apperrors.ReasonNoAnswers,
		},
		{
			name: "single choice with two correct",
			mutate: func(e *models.TestEdit) {
				e.Questions[0].Answers[1].IsCorrect = true
			},
			rule: apperrors.ReasonSingleCorrectRequired,
		},
		{
			name: "single choice with none correct",
			mutate: func(e *models.TestEdit) {
				e.Questions[0].Answers[0].IsCorrect = false
			},
			rule: apperrors.ReasonSingleCorrectRequired,
		},
		{
			name: "true false with three answers",
			mutate: func(e *models.TestEdit) {
				e.Questions[2].Answers = append(e.Questions[2].Answers, models.AnswerEdit{Content: "Maybe"})
			},
			rule: apperrors.ReasonTrueFalseTwoAnswers,
		},
		{
			name: "short answer with two references",
			mutate: func(e *models.TestEdit) {
				e.Questions[3].Answers = append(e.Questions[3].Answers, models.AnswerEdit{Content: "1/2"})
			},
			rule: apperrors.ReasonShortAnswerSingleReference,
		},
		{
			name:   "short answer with blank reference",
			mutate: func(e *models.TestEdit) { e.Questions[3].Answers[0].Content = " " },
			rule:   apperrors.ReasonEmptyReference,
		},
		{
			name:   "unknown kind",
			mutate: func(e *models.TestEdit) { e.Questions[0].Type = "essay" },
			rule:   apperrors.ReasonInvalidQuestionKind,
		},
		{
			name:   "title too long",
			mutate: func(e *models.TestEdit) { e.Title = strings.Repeat("x", 201) },
			rule:   "max",
		},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edit := validEdit()
			tt.mutate(edit)
			assert.Contains(t, rulesOf(t, v.ValidateTestEdit(edit)), tt.rule)
		})
	}
}

func TestValidateTestEdit_CollectsAllViolations(t *testing.T) {
	edit := validEdit()
	edit.Title = ""
	edit.Questions[2].Answers = edit.Questions[2].Answers[:1]

	rules := rulesOf(t, New().ValidateTestEdit(edit))
	assert.Equal(t, []string{apperrors.ReasonEmptyTitle, apperrors.ReasonTrueFalseTwoAnswers}, rules)
}

func TestValidateAnswers(t *testing.T) {
	v := New()
	assert.NoError(t, v.ValidateAnswers([]models.SubmittedAnswer{{QuestionID: 1, AnswerIDs: []uint{2}}}))

	err := v.ValidateAnswers([]models.SubmittedAnswer{{AnswerIDs: []uint{2}}})
	assert.Contains(t, rulesOf(t, err), "required")
}
