package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/quiz-service/internal/cache"
	"github.com/SAP-F-2025/quiz-service/internal/events"
	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories/memory"
	"github.com/SAP-F-2025/quiz-service/internal/services"
	"github.com/SAP-F-2025/quiz-service/internal/utils"
	"github.com/SAP-F-2025/quiz-service/internal/validator"
)

func newTestRouter(t *testing.T, adminEnabled bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	svc := services.NewServices(store, cache.NewMemoryCache(), events.NewMockEventPublisher(slogger),
		slogger, validator.New(), services.DefaultOptions())

	router := gin.New()
	NewHandlerManager(svc, store, utils.NewSlogLogger(slogger), adminEnabled).SetupRoutes(router)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func quizEdit() models.TestEdit {
	return models.TestEdit{
		Title:    "Capitals",
		IsPublic: true,
		Questions: []models.QuestionEdit{{
			Content: "Capital of France?",
			Type:    models.SingleChoice,
			Answers: []models.AnswerEdit{{Content: "Paris", IsCorrect: true}, {Content: "Rome"}},
		}},
	}
}

func TestRouter_HealthNeedsNoUser(t *testing.T) {
	router := newTestRouter(t, false)

	w := doJSON(t, router, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestRouter_RequiresUser(t *testing.T) {
	router := newTestRouter(t, false)

	w := doJSON(t, router, http.MethodGet, "/api/v1/tests", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_TakeTestFlow(t *testing.T) {
	router := newTestRouter(t, false)

	w := doJSON(t, router, http.MethodPost, "/api/v1/tests", "author", quizEdit())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	testID := decode[IDResponse](t, w).ID

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/tests/%d", testID), "author", nil)
	require.Equal(t, http.StatusOK, w.Code)
	test := decode[models.Test](t, w)
	require.Len(t, test.Questions, 1)
	q := test.Questions[0]

	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/tests/%d/sessions", testID), "student", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sessionID := decode[IDResponse](t, w).ID

	w = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/v1/sessions/%d/answers/%d", sessionID, q.ID), "student",
		SaveAnswerRequest{AnswerIDs: []uint{q.Answers[0].ID}, Finish: true})
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/sessions/%d", sessionID), "student", nil)
	require.Equal(t, http.StatusOK, w.Code)
	rendered := decode[models.RenderedTest](t, w)
	assert.True(t, rendered.IsCompleted)
	assert.Equal(t, 1, rendered.Score)
	assert.Equal(t, 1, rendered.MaxScore)

	w = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/v1/sessions/%d/answers", sessionID), "student",
		SaveAnswersRequest{Finish: true})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/sessions/%d", sessionID), "author", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_ValidationErrorsAre400(t *testing.T) {
	router := newTestRouter(t, false)
	edit := quizEdit()
	edit.Title = ""

	w := doJSON(t, router, http.MethodPost, "/api/v1/tests", "author", edit)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode[ErrorResponse](t, w)
	assert.Equal(t, "validation_failed", resp.Code)
}

func TestRouter_EditAndDeleteOwnership(t *testing.T) {
	router := newTestRouter(t, false)

	w := doJSON(t, router, http.MethodPost, "/api/v1/tests", "author", quizEdit())
	require.Equal(t, http.StatusCreated, w.Code)
	path := fmt.Sprintf("/api/v1/tests/%d", decode[IDResponse](t, w).ID)

	w = doJSON(t, router, http.MethodPut, path, "intruder", quizEdit())
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodDelete, path, "intruder", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodDelete, path, "author", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodGet, path, "author", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_InvalidID(t *testing.T) {
	router := newTestRouter(t, false)

	w := doJSON(t, router, http.MethodGet, "/api/v1/tests/abc", "author", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_AdminRoutesOnlyWhenEnabled(t *testing.T) {
	disabled := newTestRouter(t, false)
	w := doJSON(t, disabled, http.MethodPut, "/api/v1/admin/tests/1", "ops", quizEdit())
	assert.Equal(t, http.StatusNotFound, w.Code)

	enabled := newTestRouter(t, true)
	w = doJSON(t, enabled, http.MethodPost, "/api/v1/tests", "author", quizEdit())
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[IDResponse](t, w).ID

	edit := quizEdit()
	edit.Title = "Renamed by ops"
	w = doJSON(t, enabled, http.MethodPut, fmt.Sprintf("/api/v1/admin/tests/%d", id), "ops", edit)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Renamed by ops", decode[models.Test](t, w).Title)
}
