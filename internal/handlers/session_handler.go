package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/services"
	"github.com/SAP-F-2025/quiz-service/internal/utils"
)

type SessionHandler struct {
	BaseHandler
	sessionService services.SessionService
}

func NewSessionHandler(sessionService services.SessionService, logger utils.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
	}
}

// ListMySessions lists the caller's sessions
// @Router /sessions [get]
func (h *SessionHandler) ListMySessions(c *gin.Context) {
	sessions, err := h.sessionService.ListSessionsByUser(c.Request.Context(), getUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// RenderSession returns the session as the taker sees it
// @Router /sessions/{id} [get]
func (h *SessionHandler) RenderSession(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	rendered, err := h.sessionService.RenderSession(c.Request.Context(), id, getUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, rendered)
}

// SaveAnswers replaces the session's answers and optionally completes it
// @Router /sessions/{id}/answers [put]
func (h *SessionHandler) SaveAnswers(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req SaveAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Saving answers", "session_id", id, "count", len(req.Answers), "finish", req.Finish)

	if err := h.sessionService.SaveAnswers(c.Request.Context(), id, req.Answers, req.Finish, getUserID(c)); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SaveAnswer stores the answer to a single question
// @Router /sessions/{id}/answers/{question_id} [put]
func (h *SessionHandler) SaveAnswer(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}
	questionID := parseIDParam(c, "question_id")
	if questionID == 0 {
		return
	}

	var req SaveAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	answer := models.SubmittedAnswer{QuestionID: questionID, AnswerIDs: req.AnswerIDs, Value: req.Value}
	if err := h.sessionService.SaveOneAnswer(c.Request.Context(), id, answer, req.Finish, getUserID(c)); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
