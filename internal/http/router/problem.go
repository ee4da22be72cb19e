package router

import (
	"github.com/gin-gonic/gin"

	"github.com/kumarshubhh/Yuvamanthan/internal/http/handler"
)

// ProblemRouter sets up problem routes. Reads are public; writes need auth
// and the handlers enforce authorship.
func ProblemRouter(rg *gin.RouterGroup, h *handler.ProblemHandler, auth gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.GET("/:id/solutions", h.Solutions)

	rg.POST("", auth, h.Create)
	rg.PUT("/:id", auth, h.Update)
	rg.DELETE("/:id", auth, h.Delete)
	rg.POST("/:id/vote", auth, h.Vote)
}
