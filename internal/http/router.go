package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/lodestone-app/lodestone-backend/internal/http/handlers"
	httpMW "github.com/lodestone-app/lodestone-backend/internal/http/middleware"
	"github.com/lodestone-app/lodestone-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	GoalHandler      *httpH.GoalHandler
	ActionHandler    *httpH.ActionHandler
	MeasureHandler   *httpH.MeasureHandler
	DuplicateHandler *httpH.DuplicateHandler
	AdminHandler     *httpH.AdminHandler
	HealthHandler    *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("lodestone-backend"))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.GoalHandler != nil {
			api.POST("/goals", cfg.GoalHandler.Create)
			api.PUT("/goals/:id", cfg.GoalHandler.Update)
			api.DELETE("/goals/:id", cfg.GoalHandler.Delete)
		}

		if cfg.ActionHandler != nil {
			api.POST("/actions", cfg.ActionHandler.Create)
			api.PUT("/actions/:id", cfg.ActionHandler.Update)
			api.DELETE("/actions/:id", cfg.ActionHandler.Delete)
		}

		if cfg.MeasureHandler != nil {
			api.GET("/measures", cfg.MeasureHandler.List)
		}

		if cfg.DuplicateHandler != nil {
			api.GET("/duplicates", cfg.DuplicateHandler.List)
			api.POST("/duplicates/:id/resolve", cfg.DuplicateHandler.Resolve)
			api.POST("/duplicates/:id/ignore", cfg.DuplicateHandler.Ignore)
			api.POST("/duplicates/:id/merge", cfg.DuplicateHandler.Merge)
		}

		if cfg.AdminHandler != nil {
			api.POST("/admin/embeddings/compact", cfg.AdminHandler.CompactEmbeddings)
		}
	}

	return r
}
