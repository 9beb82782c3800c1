package routes

import (
	"time"

	"sntrack/internal/core/container"
	"sntrack/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterMiddleware(router *gin.Engine, container *container.Container, requestTimeout time.Duration) {
	router.Use(
		middleware.RequestLogger(container.Logger),
		middleware.RecoveryMiddleware(container.Logger),
		container.Metrics.Middleware(),
		middleware.TimeoutMiddleware(requestTimeout),
	)
}

func RegisterPublicRoutes(router *gin.Engine, container *container.Container) {
	container.SerialHandler.RegisterRoutes(router)
	container.BatchHandler.RegisterRoutes(router)
	container.ReportHandler.RegisterRoutes(router)
	if container.UploadHandler != nil {
		var limits []gin.HandlerFunc
		if container.UploadLimiter != nil {
			limits = append(limits, container.UploadLimiter.Middleware())
		}
		container.UploadHandler.RegisterRoutes(router, limits...)
	}
}

func RegisterUtilityRoutes(router *gin.Engine, container *container.Container) {
	router.GET("/health", container.Health.Handler())
	router.GET("/metrics", gin.WrapH(container.Metrics.Handler()))
}
