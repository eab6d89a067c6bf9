package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/services"
	"github.com/SAP-F-2025/quiz-service/internal/utils"
)

// AdminHandler serves operator endpoints that bypass ownership checks. It is
// only mounted when the admin API is enabled.
type AdminHandler struct {
	BaseHandler
	testService    services.TestService
	sessionService services.SessionService
}

func NewAdminHandler(testService services.TestService, sessionService services.SessionService, logger utils.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler:    NewBaseHandler(logger),
		testService:    testService,
		sessionService: sessionService,
	}
}

// EditTest edits any test
// @Router /admin/tests/{id} [put]
func (h *AdminHandler) EditTest(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req models.TestEdit
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Admin editing test", "test_id", id)

	test, err := h.testService.EditTest(c.Request.Context(), id, &req, "")
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, test)
}

// ListTestSessions lists the sessions of any test
// @Router /admin/tests/{id}/sessions [get]
func (h *AdminHandler) ListTestSessions(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	sessions, err := h.sessionService.ListSessionsByTest(c.Request.Context(), id, "")
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}
