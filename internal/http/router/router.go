package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kumarshubhh/Yuvamanthan/internal/http/handler"
	"github.com/kumarshubhh/Yuvamanthan/internal/http/middleware"
	"github.com/kumarshubhh/Yuvamanthan/internal/service"
)

type RouterConfig struct {
	Verifier *middleware.TokenVerifier
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := middleware.RequireAuth(cfg.Verifier)

	api := router.Group("/api")
	{
		problemHandler := handler.NewProblemHandler(services.Problems(), services.Solutions())
		ProblemRouter(api.Group("/problems"), problemHandler, auth)

		solutionHandler := handler.NewSolutionHandler(services.Solutions())
		SolutionRouter(api.Group("/solutions"), solutionHandler, auth)
	}
}
