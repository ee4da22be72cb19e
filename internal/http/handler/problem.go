package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kumarshubhh/Yuvamanthan/common/logger"
	"github.com/kumarshubhh/Yuvamanthan/internal/http/dto"
	"github.com/kumarshubhh/Yuvamanthan/internal/service"
)

type ProblemHandler struct {
	problemService  service.ProblemService
	solutionService service.SolutionService
}

func NewProblemHandler(problemService service.ProblemService, solutionService service.SolutionService) *ProblemHandler {
	return &ProblemHandler{
		problemService:  problemService,
		solutionService: solutionService,
	}
}

func (h *ProblemHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	res, err := h.problemService.List(ctx, service.ListProblemsParams{
		ListParams: listParams(c),
		Category:   c.Query("category"),
		Status:     c.Query("status"),
	})
	if err != nil {
		writeError(c, err, "list problems")
		return
	}

	c.JSON(http.StatusOK, dto.ToProblemListResponse(res))
}

func (h *ProblemHandler) Get(c *gin.Context) {
	problemID, ok := pathID(c, service.ErrProblemNotFound)
	if !ok {
		return
	}
	ctx := withLogFields(c, logger.LogFields{ProblemID: &problemID})

	p, err := h.problemService.Get(ctx, problemID)
	if err != nil {
		writeError(c, err, "get problem")
		return
	}

	c.JSON(http.StatusOK, dto.ToProblemDetailResponse(p))
}

func (h *ProblemHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req service.CreateProblemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	p, err := h.problemService.Create(ctx, actor(c), req)
	if err != nil {
		writeError(c, err, "create problem")
		return
	}

	c.JSON(http.StatusCreated, dto.ToProblemDetailResponse(p))
}

func (h *ProblemHandler) Update(c *gin.Context) {
	problemID, ok := pathID(c, service.ErrProblemNotFound)
	if !ok {
		return
	}
	ctx := withLogFields(c, logger.LogFields{ProblemID: &problemID})

	var req service.UpdateProblemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	p, err := h.problemService.Update(ctx, actor(c), problemID, req)
	if err != nil {
		writeError(c, err, "update problem")
		return
	}

	c.JSON(http.StatusOK, dto.ToProblemDetailResponse(p))
}

func (h *ProblemHandler) Delete(c *gin.Context) {
	problemID, ok := pathID(c, service.ErrProblemNotFound)
	if !ok {
		return
	}
	ctx := withLogFields(c, logger.LogFields{ProblemID: &problemID})

	if err := h.problemService.Delete(ctx, actor(c), problemID); err != nil {
		writeError(c, err, "delete problem")
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Problem deleted successfully"})
}

func (h *ProblemHandler) Vote(c *gin.Context) {
	problemID, ok := pathID(c, service.ErrProblemNotFound)
	if !ok {
		return
	}
	ctx := withLogFields(c, logger.LogFields{ProblemID: &problemID})

	var req service.VoteInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	tally, err := h.problemService.Vote(ctx, actor(c), problemID, req)
	if err != nil {
		writeError(c, err, "vote on problem")
		return
	}

	c.JSON(http.StatusOK, dto.ToVoteResponse(tally))
}

// Solutions lists the solutions proposed for one problem.
func (h *ProblemHandler) Solutions(c *gin.Context) {
	problemID, ok := pathID(c, service.ErrProblemNotFound)
	if !ok {
		return
	}
	ctx := withLogFields(c, logger.LogFields{ProblemID: &problemID})

	res, err := h.solutionService.ListByProblem(ctx, problemID, listParams(c))
	if err != nil {
		writeError(c, err, "list problem solutions")
		return
	}

	c.JSON(http.StatusOK, dto.ToSolutionListResponse(res))
}
