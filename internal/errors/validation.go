package errors

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Reason codes reported in ValidationError.Rule for test edits.
const (
	ReasonEmptyTitle                 = "empty_title"
	ReasonEmptyQuestionContent       = "empty_question_content"
	ReasonInvalidQuestionKind        = "invalid_question_kind"
	ReasonNoAnswers                  = "no_answers"
	ReasonSingleCorrectRequired      = "single_correct_required"
	ReasonTrueFalseTwoAnswers        = "true_false_two_answers"
	ReasonShortAnswerSingleReference = "short_answer_single_reference"
	ReasonEmptyReference             = "empty_reference"
)

// ReasonUnknownAnswer is reported when a submitted answer id does not belong
// to the question it was submitted for.
const ReasonUnknownAnswer = "unknown_answer"

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// Rules returns the reason codes in order of appearance.
func (ve ValidationErrors) Rules() []string {
	rules := make([]string, 0, len(ve))
	for _, e := range ve {
		rules = append(rules, e.Rule)
	}
	return rules
}

// HasRule reports whether any entry carries the given reason code.
func (ve ValidationErrors) HasRule(rule string) bool {
	for _, e := range ve {
		if e.Rule == rule {
			return true
		}
	}
	return false
}

func (pe *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", pe.Field, pe.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// NewValidationErrorWithRule creates a new validation error with rule
func NewValidationErrorWithRule(field, message, rule string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
		Rule:    rule,
	}
}

// ToValidationErrors converts validator.ValidationErrors to our custom type
func ToValidationErrors(err error) ValidationErrors {
	var errors ValidationErrors

	if validatorErr, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range validatorErr {
			errors = append(errors, ValidationError{
				Field:   fe.Field(),
				Message: getErrorMessage(fe),
				Value:   fe.Value(),
				Rule:    ruleFor(fe),
			})
		}
	}

	return errors
}

// ruleFor maps struct-tag failures onto a reason code where one applies.
func ruleFor(fe validator.FieldError) string {
	if fe.Tag() == "question_kind" {
		return ReasonInvalidQuestionKind
	}
	return fe.Tag()
}

// getErrorMessage returns user-friendly error messages
func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())

	case "question_kind":
		return "must be a valid question kind (single_choice, multiple_choice, true_false, short_answer)"

	default:
		return fmt.Sprintf("validation failed for rule '%s'", err.Tag())
	}
}
