package service

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/newsradar-ai/newsradar/app/core"
	"github.com/newsradar-ai/newsradar/app/response"
	"github.com/newsradar-ai/newsradar/cmd/service/handler"
	"github.com/newsradar-ai/newsradar/cmd/service/middleware"
	"github.com/newsradar-ai/newsradar/pkg/metrics"
)

func serve(core *core.Core) {
	httpSrv := &handler.HttpSrv{
		Core:   core,
		Engine: core.HttpEngine(),
	}
	setupHttpRouter(httpSrv)

	core.HttpEngine().Run(core.Cfg().Addr)
}

func apiErrorCounter(m *core.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if status := c.Writer.Status(); status >= http.StatusBadRequest {
			m.ApiErrorInc(c.Request.Method, c.FullPath(), status)
		}
	}
}

func setupHttpRouter(s *handler.HttpSrv) {
	s.Engine.Use(gin.Recovery())
	s.Engine.Use(middleware.I18n(), response.NewResponse())
	s.Engine.Use(middleware.Cors)
	s.Engine.Use(apiErrorCounter(s.Core.Metrics()))

	s.Engine.GET("/health", func(c *gin.Context) {
		response.APISuccess(c, gin.H{"status": "ok"})
	})
	s.Engine.GET("/metrics", metrics.DefaultExportHandler())

	apiV1 := s.Engine.Group("/api/v1")
	apiV1.Use(middleware.Authorization(s.Core))
	{
		apiV1.POST("/ask", s.Ask)
		apiV1.POST("/retrieve", s.Retrieve)
		apiV1.POST("/ingest", s.TriggerIngest)

		feedback := apiV1.Group("/feedback")
		{
			feedback.POST("", s.CreateFeedback)
			feedback.GET("", s.ListFeedback)
			feedback.GET("/stats", s.FeedbackStats)
		}
	}
}
