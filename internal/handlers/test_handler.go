package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/services"
	"github.com/SAP-F-2025/quiz-service/internal/utils"
)

type TestHandler struct {
	BaseHandler
	testService         services.TestService
	sessionService      services.SessionService
	importExportService services.ImportExportService
}

func NewTestHandler(
	testService services.TestService,
	sessionService services.SessionService,
	importExportService services.ImportExportService,
	logger utils.Logger,
) *TestHandler {
	return &TestHandler{
		BaseHandler:         NewBaseHandler(logger),
		testService:         testService,
		sessionService:      sessionService,
		importExportService: importExportService,
	}
}

// CreateTest creates a test owned by the caller
// @Router /tests [post]
func (h *TestHandler) CreateTest(c *gin.Context) {
	var req models.TestEdit
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating test", "title", req.Title)

	id, err := h.testService.CreateTest(c.Request.Context(), &req, getUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, IDResponse{ID: id})
}

// GetTest returns a test; non-owners get it without correctness flags
// @Router /tests/{id} [get]
func (h *TestHandler) GetTest(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	test, err := h.testService.GetTest(c.Request.Context(), id, getUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, test)
}

// EditTest reconciles the submitted test into the stored one
// @Router /tests/{id} [put]
func (h *TestHandler) EditTest(c *gin.Context) {
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

	h.LogRequest(c, "Editing test", "test_id", id)

	test, err := h.testService.EditTest(c.Request.Context(), id, &req, getUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, test)
}

// DeleteTest soft-deletes a test owned by the caller
// @Router /tests/{id} [delete]
func (h *TestHandler) DeleteTest(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID := getUserID(c)
	h.LogRequest(c, "Deleting test", "test_id", id)

	deleted, err := h.testService.DeleteOwnedTest(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if !deleted {
		h.handleServiceError(c, services.ErrTestNotFound)
		return
	}

	c.Status(http.StatusNoContent)
}

// DuplicateTest copies a visible test into a new private test of the caller
// @Router /tests/{id}/duplicate [post]
func (h *TestHandler) DuplicateTest(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	newID, err := h.testService.DuplicateTest(c.Request.Context(), id, getUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, IDResponse{ID: newID})
}

// ListPublicTests lists public tests
// @Router /tests [get]
func (h *TestHandler) ListPublicTests(c *gin.Context) {
	limit := parseIntQuery(c, "limit", 20)
	offset := parseIntQuery(c, "offset", 0)

	resp, err := h.testService.ListPublicTests(c.Request.Context(), limit, offset)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListMyTests lists the caller's tests
// @Router /tests/mine [get]
func (h *TestHandler) ListMyTests(c *gin.Context) {
	limit := parseIntQuery(c, "limit", 20)
	offset := parseIntQuery(c, "offset", 0)

	resp, err := h.testService.ListTestsByOwner(c.Request.Context(), getUserID(c), limit, offset)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// StartSession opens a session on a test for the caller
// @Router /tests/{id}/sessions [post]
func (h *TestHandler) StartSession(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req StartSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid request payload",
				Details: err.Error(),
			})
			return
		}
	}

	h.LogRequest(c, "Starting session", "test_id", id)

	sessionID, err := h.sessionService.CreateSession(c.Request.Context(), id, req.Presentation, getUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, IDResponse{ID: sessionID})
}

// ListTestSessions lists every session of a test owned by the caller
// @Router /tests/{id}/sessions [get]
func (h *TestHandler) ListTestSessions(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	sessions, err := h.sessionService.ListSessionsByTest(c.Request.Context(), id, getUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// ExportTest downloads a test as a workbook
// @Router /tests/{id}/export [get]
func (h *TestHandler) ExportTest(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	data, err := h.importExportService.ExportTest(c.Request.Context(), id, getUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	sendWorkbook(c, fmt.Sprintf("test-%d.xlsx", id), data)
}

// ExportResults downloads the session results of a test as a workbook
// @Router /tests/{id}/results/export [get]
func (h *TestHandler) ExportResults(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	data, err := h.importExportService.ExportTestResults(c.Request.Context(), id, getUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	sendWorkbook(c, fmt.Sprintf("test-%d-results.xlsx", id), data)
}

// ImportTest creates a test from an uploaded workbook
// @Router /tests/import [post]
func (h *TestHandler) ImportTest(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing file",
			Details: err.Error(),
		})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unreadable file",
			Details: err.Error(),
		})
		return
	}
	defer file.Close()

	h.LogRequest(c, "Importing test", "filename", header.Filename, "size", header.Size)

	id, err := h.importExportService.ImportTest(c.Request.Context(), file, getUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, IDResponse{ID: id})
}
