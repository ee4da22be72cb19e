package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kumarshubhh/Yuvamanthan/common/logger"
	"github.com/kumarshubhh/Yuvamanthan/internal/http/dto"
	"github.com/kumarshubhh/Yuvamanthan/internal/service"
)

type SolutionHandler struct {
	solutionService service.SolutionService
}

func NewSolutionHandler(solutionService service.SolutionService) *SolutionHandler {
	return &SolutionHandler{solutionService: solutionService}
}

func (h *SolutionHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	res, err := h.solutionService.List(ctx, service.ListSolutionsParams{
		ListParams: listParams(c),
		ProblemID:  c.Query("problemId"),
	})
	if err != nil {
		writeError(c, err, "list solutions")
		return
	}

	c.JSON(http.StatusOK, dto.ToSolutionListResponse(res))
}

func (h *SolutionHandler) Get(c *gin.Context) {
	solutionID, ok := pathID(c, service.ErrSolutionNotFound)
	if !ok {
		return
	}
	ctx := withLogFields(c, logger.LogFields{SolutionID: &solutionID})

	sol, err := h.solutionService.Get(ctx, solutionID)
	if err != nil {
		writeError(c, err, "get solution")
		return
	}

	c.JSON(http.StatusOK, dto.ToSolutionDetailResponse(sol))
}

func (h *SolutionHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req service.CreateSolutionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	sol, err := h.solutionService.Create(ctx, actor(c), req)
	if err != nil {
		writeError(c, err, "create solution")
		return
	}

	c.JSON(http.StatusCreated, dto.ToSolutionResponse(sol))
}

func (h *SolutionHandler) Update(c *gin.Context) {
	solutionID, ok := pathID(c, service.ErrSolutionNotFound)
	if !ok {
		return
	}
	ctx := withLogFields(c, logger.LogFields{SolutionID: &solutionID})

	var req service.UpdateSolutionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	sol, err := h.solutionService.Update(ctx, actor(c), solutionID, req)
	if err != nil {
		writeError(c, err, "update solution")
		return
	}

	c.JSON(http.StatusOK, dto.ToSolutionResponse(sol))
}

func (h *SolutionHandler) Delete(c *gin.Context) {
	solutionID, ok := pathID(c, service.ErrSolutionNotFound)
	if !ok {
		return
	}
	ctx := withLogFields(c, logger.LogFields{SolutionID: &solutionID})

	if err := h.solutionService.Delete(ctx, actor(c), solutionID); err != nil {
		writeError(c, err, "delete solution")
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Solution deleted successfully"})
}

func (h *SolutionHandler) Vote(c *gin.Context) {
	solutionID, ok := pathID(c, service.ErrSolutionNotFound)
	if !ok {
		return
	}
	ctx := withLogFields(c, logger.LogFields{SolutionID: &solutionID})

	var req service.VoteInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	tally, err := h.solutionService.Vote(ctx, actor(c), solutionID, req)
	if err != nil {
		writeError(c, err, "vote on solution")
		return
	}

	c.JSON(http.StatusOK, dto.ToVoteResponse(tally))
}

func (h *SolutionHandler) AddComment(c *gin.Context) {
	solutionID, ok := pathID(c, service.ErrSolutionNotFound)
	if !ok {
		return
	}
	ctx := withLogFields(c, logger.LogFields{SolutionID: &solutionID})

	var req service.CommentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	comment, err := h.solutionService.AddComment(ctx, actor(c), solutionID, req)
	if err != nil {
		writeError(c, err, "add comment")
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentResponse(comment))
}

// Accept marks the solution as the accepted answer of its problem.
func (h *SolutionHandler) Accept(c *gin.Context) {
	solutionID, ok := pathID(c, service.ErrSolutionNotFound)
	if !ok {
		return
	}
	ctx := withLogFields(c, logger.LogFields{SolutionID: &solutionID})

	sol, err := h.solutionService.Accept(ctx, actor(c), solutionID)
	if err != nil {
		writeError(c, err, "accept solution")
		return
	}

	c.JSON(http.StatusOK, dto.AcceptResponse{
		Message:  "Solution accepted successfully",
		Solution: dto.ToSolutionResponse(sol),
	})
}
