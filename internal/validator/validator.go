package validator

import (
	"reflect"
	"strings"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator combines struct-tag validation with the test business rules
type Validator struct {
	structValidator *validator.Validate
	testValidator   *TestValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	registerCustomValidators(structValidator)

	return &Validator{
		structValidator: structValidator,
		testValidator:   NewTestValidator(),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// ValidateTestEdit runs struct tags first, then the per-kind rules. The
// result is either nil or a ValidationErrors value.
func (v *Validator) ValidateTestEdit(edit *models.TestEdit) error {
	if err := v.ValidateStruct(edit); err != nil {
		if errs := ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}

	if errs := v.testValidator.Validate(edit); len(errs) > 0 {
		return errs
	}

	return nil
}

// ValidateAnswers checks the shape of submitted answers.
func (v *Validator) ValidateAnswers(answers []models.SubmittedAnswer) error {
	for i := range answers {
		if err := v.ValidateStruct(&answers[i]); err != nil {
			if errs := ToValidationErrors(err); len(errs) > 0 {
				return errs
			}
			return err
		}
	}
	return nil
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_kind", validateQuestionKind)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateQuestionKind(fl validator.FieldLevel) bool {
	return models.QuestionType(fl.Field().String()).IsValid()
}
