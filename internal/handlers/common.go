package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/services"
	"github.com/SAP-F-2025/quiz-service/internal/utils"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// IDResponse is returned by endpoints that create a resource
type IDResponse struct {
	ID uint `json:"id"`
}

// ===== REQUEST STRUCTURES =====

// StartSessionRequest optionally overrides the test's presentation flags
type StartSessionRequest struct {
	Presentation *models.Presentation `json:"presentation"`
}

// SaveAnswersRequest carries the full answer set of a session
type SaveAnswersRequest struct {
	Answers []models.SubmittedAnswer `json:"answers"`
	Finish  bool                     `json:"finish"`
}

// SaveAnswerRequest carries the answer to the question named in the path
type SaveAnswerRequest struct {
	AnswerIDs []uint  `json:"answer_ids"`
	Value     *string `json:"value"`
	Finish    bool    `json:"finish"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common logging functionality for all handlers
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs an incoming request with its caller
func (h *BaseHandler) LogRequest(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"request_id", c.GetHeader("X-Request-ID"),
		"user_id", getUserID(c),
	}
	h.logger.Info(message, append(fields, additionalFields...)...)
}

// LogError logs error details with context information
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"request_id", c.GetHeader("X-Request-ID"),
		"user_id", getUserID(c),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	}
	h.logger.LogError(err, message, append(fields, additionalFields...)...)
}

// handleServiceError maps service errors onto HTTP statuses
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
			Code:    "validation_failed",
		})
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
			Details: map[string]interface{}{
				"resource": permissionError.Resource,
				"action":   permissionError.Action,
				"reason":   permissionError.Reason,
			},
			Code: "forbidden",
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrTestNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Test not found", Code: "not_found"})
	case errors.Is(err, services.ErrQuestionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Question not found", Code: "not_found"})
	case errors.Is(err, services.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Session not found", Code: "not_found"})
	case errors.Is(err, services.ErrSessionCompleted):
		c.JSON(http.StatusConflict, ErrorResponse{Message: "Session already completed", Code: "conflict"})
	case services.IsPersistence(err):
		h.LogError(c, err, "Persistence failure")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Failed to save changes", Code: "persistence_failed"})
	default:
		h.LogError(c, err, "Unhandled service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
	}
}
