package services

import (
	"errors"
	"fmt"

	apperrors "github.com/SAP-F-2025/quiz-service/internal/errors"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
)

// ===== COMMON SERVICE ERRORS =====

var (
	ErrValidationFailed  = errors.New("validation failed")
	ErrPersistenceFailed = errors.New("persistence failed")

	ErrTestNotFound     = errors.New("test not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrSessionNotFound  = errors.New("session not found")

	ErrSessionCompleted = errors.New("session already completed")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type PermissionError struct {
	UserID     string `json:"user_id"`
	ResourceID uint   `json:"resource_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s %d - %s",
		pe.UserID, pe.Action, pe.Resource, pe.ResourceID, pe.Reason)
}

// ===== ERROR HELPERS =====

func NewPermissionError(userID string, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// validationFailure keeps ValidationErrors as they are and tags anything else
// the validator returns with ErrValidationFailed.
func validationFailure(err error) error {
	var ve apperrors.ValidationErrors
	if errors.As(err, &ve) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrValidationFailed, err)
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTestNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrSessionNotFound)
}

// IsUnauthorized checks if error represents an authorization failure
func IsUnauthorized(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsConflict checks if error represents a state conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrSessionCompleted)
}

// IsPersistence checks if error represents a failed store write
func IsPersistence(err error) bool {
	return errors.Is(err, ErrPersistenceFailed)
}

// mapRepoError converts store errors into service errors for one resource.
func mapRepoError(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case repositories.IsNotFoundError(err):
		return notFound
	case errors.Is(err, repositories.ErrNoRowsAffected):
		return fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	default:
		return err
	}
}

// validationError builds a single-entry ValidationErrors value.
func validationError(field, message, rule string, value interface{}) ValidationErrors {
	return ValidationErrors{*apperrors.NewValidationErrorWithRule(field, message, rule, value)}
}
