package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kumarshubhh/Yuvamanthan/common/id"
	"github.com/kumarshubhh/Yuvamanthan/common/logger"
	"github.com/kumarshubhh/Yuvamanthan/internal/http/dto"
	"github.com/kumarshubhh/Yuvamanthan/internal/http/middleware"
	"github.com/kumarshubhh/Yuvamanthan/internal/model"
	"github.com/kumarshubhh/Yuvamanthan/internal/service"
)

// writeError maps service errors onto status codes. Anything unrecognised is
// logged with the given action and returned as a generic 500.
func writeError(c *gin.Context, err error, action string) {
	var verr *service.ValidationError
	var ferr *service.ForbiddenError

	switch {
	case errors.As(err, &verr):
		resp := dto.ValidationErrorResponse{Errors: make([]dto.FieldErrorResponse, len(verr.Errors))}
		for i, fe := range verr.Errors {
			resp.Errors[i] = dto.FieldErrorResponse{Field: fe.Field, Message: fe.Message}
		}
		c.JSON(http.StatusBadRequest, resp)
	case errors.Is(err, service.ErrProblemNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Problem not found"})
	case errors.Is(err, service.ErrSolutionNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Solution not found"})
	case errors.As(err, &ferr):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Message: ferr.Message})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Message: "Forbidden"})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "No token, authorization denied"})
	default:
		slog.ErrorContext(c.Request.Context(), "failed to "+action, "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Server error"})
	}
}

func badBody(c *gin.Context, err error) {
	slog.DebugContext(c.Request.Context(), "malformed request body", "error", err)
	c.JSON(http.StatusBadRequest, dto.ValidationErrorResponse{Errors: []dto.FieldErrorResponse{
		{Field: "body", Message: "Request body must be valid JSON"},
	}})
}

// pathID parses the :id path parameter. A malformed id cannot name an
// existing entity, so it is reported with notFound.
func pathID(c *gin.Context, notFound error) (int64, bool) {
	v, err := id.Parse(c.Param("id"))
	if err != nil {
		writeError(c, notFound, "parse id")
		return 0, false
	}
	return v, true
}

// actor reads the authenticated user. Routes without RequireAuth yield a
// zero actor, which services reject as unauthorized.
func actor(c *gin.Context) model.Actor {
	a, _ := middleware.ActorFrom(c)
	return a
}

func listParams(c *gin.Context) service.ListParams {
	return service.ListParams{
		SortBy: c.Query("sortBy"),
		Page:   c.Query("page"),
		Limit:  c.Query("limit"),
	}
}

// withLogFields scopes the request context so later log lines, including
// those written by writeError and the access logger, carry the fields.
func withLogFields(c *gin.Context, fields logger.LogFields) context.Context {
	ctx := logger.WithLogFields(c.Request.Context(), fields)
	c.Request = c.Request.WithContext(ctx)
	return ctx
}
