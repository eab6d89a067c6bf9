package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/quiz-service/internal/services"
	"github.com/SAP-F-2025/quiz-service/internal/utils"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

type HandlerManager struct {
	testHandler    *TestHandler
	sessionHandler *SessionHandler
	adminHandler   *AdminHandler
	store          Pinger
}

func NewHandlerManager(
	svc *services.Services,
	store Pinger,
	logger utils.Logger,
	adminEnabled bool,
) *HandlerManager {
	hm := &HandlerManager{
		testHandler:    NewTestHandler(svc.Test, svc.Session, svc.ImportExport, logger),
		sessionHandler: NewSessionHandler(svc.Session, logger),
		store:          store,
	}
	if adminEnabled {
		hm.adminHandler = NewAdminHandler(svc.Test, svc.Session, logger)
	}
	return hm
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.HealthCheck)

	v1 := router.Group("/api/v1", UserIdentity())
	{
		tests := v1.Group("/tests")
		{
			tests.POST("", hm.testHandler.CreateTest)
			tests.GET("", hm.testHandler.ListPublicTests)
			tests.GET("/mine", hm.testHandler.ListMyTests)
			tests.POST("/import", hm.testHandler.ImportTest)
			tests.GET("/:id", hm.testHandler.GetTest)
			tests.PUT("/:id", hm.testHandler.EditTest)
			tests.DELETE("/:id", hm.testHandler.DeleteTest)
			tests.POST("/:id/duplicate", hm.testHandler.DuplicateTest)
			tests.GET("/:id/export", hm.testHandler.ExportTest)
			tests.GET("/:id/results/export", hm.testHandler.ExportResults)

			tests.POST("/:id/sessions", hm.testHandler.StartSession)
			tests.GET("/:id/sessions", hm.testHandler.ListTestSessions)
		}

		sessions := v1.Group("/sessions")
		{
			sessions.GET("", hm.sessionHandler.ListMySessions)
			sessions.GET("/:id", hm.sessionHandler.RenderSession)
			sessions.PUT("/:id/answers", hm.sessionHandler.SaveAnswers)
			sessions.PUT("/:id/answers/:question_id", hm.sessionHandler.SaveAnswer)
		}

		if hm.adminHandler != nil {
			admin := v1.Group("/admin")
			{
				admin.PUT("/tests/:id", hm.adminHandler.EditTest)
				admin.GET("/tests/:id/sessions", hm.adminHandler.ListTestSessions)
			}
		}
	}
}

// HealthCheck reports the service and store status
func (hm *HandlerManager) HealthCheck(c *gin.Context) {
	status, code := "healthy", http.StatusOK
	if hm.store != nil {
		if err := hm.store.Ping(c.Request.Context()); err != nil {
			status, code = "unhealthy", http.StatusServiceUnavailable
		}
	}
	c.JSON(code, gin.H{
		"status":  status,
		"service": "quiz-service",
	})
}
