package validator

import (
	"fmt"
	"strings"

	"github.com/SAP-F-2025/quiz-service/internal/errors"
	"github.com/SAP-F-2025/quiz-service/internal/models"
)

// TestValidator applies the per-kind answer rules to a test edit.
type TestValidator struct{}

func NewTestValidator() *TestValidator {
	return &TestValidator{}
}

// Validate returns every rule violation found in edit, or nil.
func (v *TestValidator) Validate(edit *models.TestEdit) ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(edit.Title) == "" {
		errs = append(errs, *errors.NewValidationErrorWithRule(
			"title", "must not be empty", errors.ReasonEmptyTitle, edit.Title))
	}

	for i := range edit.Questions {
		errs = append(errs, v.ValidateQuestion(i, &edit.Questions[i])...)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateQuestion checks a single question at position index.
func (v *TestValidator) ValidateQuestion(index int, q *models.QuestionEdit) ValidationErrors {
	var errs ValidationErrors
	field := func(name string) string {
		return fmt.Sprintf("questions[%d].%s", index, name)
	}

	if strings.TrimSpace(q.Content) == "" {
		errs = append(errs, *errors.NewValidationErrorWithRule(
			field("content"), "must not be empty", errors.ReasonEmptyQuestionContent, q.Content))
	}

	switch q.Type {
	case models.SingleChoice, models.MultipleChoice, models.TrueFalse:
		errs = append(errs, v.validateChoiceAnswers(q, field)...)
	case models.ShortAnswer:
		errs = append(errs, v.validateShortAnswer(q, field)...)
	default:
		errs = append(errs, *errors.NewValidationErrorWithRule(
			field("type"), "must be a valid question kind", errors.ReasonInvalidQuestionKind, q.Type))
	}

	return errs
}

func (v *TestValidator) validateChoiceAnswers(q *models.QuestionEdit, field func(string) string) ValidationErrors {
	var errs ValidationErrors

	if len(q.Answers) == 0 {
		return append(errs, *errors.NewValidationErrorWithRule(
			field("answers"), "must have at least one answer", errors.ReasonNoAnswers, 0))
	}

	if q.Type == models.TrueFalse && len(q.Answers) != 2 {
		errs = append(errs, *errors.NewValidationErrorWithRule(
			field("answers"), "true/false questions need exactly two answers",
			errors.ReasonTrueFalseTwoAnswers, len(q.Answers)))
	}

	if q.Type == models.SingleChoice || q.Type == models.TrueFalse {
		correct := 0
		for _, a := range q.Answers {
			if a.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			errs = append(errs, *errors.NewValidationErrorWithRule(
				field("answers"), "must have exactly one correct answer",
				errors.ReasonSingleCorrectRequired, correct))
		}
	}

	return errs
}

func (v *TestValidator) validateShortAnswer(q *models.QuestionEdit, field func(string) string) ValidationErrors {
	if len(q.Answers) != 1 {
		return ValidationErrors{*errors.NewValidationErrorWithRule(
			field("answers"), "short-answer questions need exactly one reference answer",
			errors.ReasonShortAnswerSingleReference, len(q.Answers))}
	}
	if strings.TrimSpace(q.Answers[0].Content) == "" {
		return ValidationErrors{*errors.NewValidationErrorWithRule(
			field("answers[0].content"), "reference answer must not be empty",
			errors.ReasonEmptyReference, q.Answers[0].Content)}
	}
	return nil
}
