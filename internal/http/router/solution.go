package router

import (
	"github.com/gin-gonic/gin"

	"github.com/kumarshubhh/Yuvamanthan/internal/http/handler"
)

func SolutionRouter(rg *gin.RouterGroup, h *handler.SolutionHandler, auth gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)

	rg.POST("", auth, h.Create)
	rg.PUT("/:id", auth, h.Update)
	rg.DELETE("/:id", auth, h.Delete)
	rg.POST("/:id/vote", auth, h.Vote)
	rg.POST("/:id/comments", auth, h.AddComment)
	rg.PUT("/:id/accept", auth, h.Accept)
}
