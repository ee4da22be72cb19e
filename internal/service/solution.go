package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kumarshubhh/Yuvamanthan/common/id"
	"github.com/kumarshubhh/Yuvamanthan/common/logger"
	"github.com/kumarshubhh/Yuvamanthan/internal/model"
	"github.com/kumarshubhh/Yuvamanthan/internal/queue"
	"github.com/kumarshubhh/Yuvamanthan/internal/store"
)

type ResourceInput struct {
	Name string `json:"name" validate:"required"`
	URL  string `json:"url" validate:"required"`
	Type string `json:"type" validate:"resource_type"`
}

type CreateSolutionInput struct {
	Description   string          `json:"description" validate:"min=20"`
	Problem       string          `json:"problem" validate:"snowflake"`
	Images        []string        `json:"images"`
	Resources     []ResourceInput `json:"resources" validate:"dive"`
	EstimatedCost *float64        `json:"estimatedCost" validate:"omitempty,gte=0"`
	EstimatedTime *string         `json:"estimatedTime" validate:"omitempty,estimated_time"`
	Difficulty    *string         `json:"difficulty" validate:"omitempty,difficulty"`
}

// UpdateSolutionInput is a partial update. The parent problem cannot change.
type UpdateSolutionInput struct {
	Description   *string          `json:"description" validate:"omitempty,min=20"`
	Images        *[]string        `json:"images"`
	Resources     *[]ResourceInput `json:"resources" validate:"omitempty,dive"`
	EstimatedCost *float64         `json:"estimatedCost" validate:"omitempty,gte=0"`
	EstimatedTime *string          `json:"estimatedTime" validate:"omitempty,estimated_time"`
	Difficulty    *string          `json:"difficulty" validate:"omitempty,difficulty"`
}

type CommentInput struct {
	Text string `json:"text" validate:"required"`
}

// ListSolutionsParams are the raw query values of GET /api/solutions.
type ListSolutionsParams struct {
	ListParams
	ProblemID string
}

type SolutionService interface {
	List(ctx context.Context, params ListSolutionsParams) (*ListResult[model.Solution], error)
	ListByProblem(ctx context.Context, problemID int64, params ListParams) (*ListResult[model.Solution], error)
	Get(ctx context.Context, solutionID int64) (*model.Solution, error)
	Create(ctx context.Context, actor model.Actor, in CreateSolutionInput) (*model.Solution, error)
	Update(ctx context.Context, actor model.Actor, solutionID int64, in UpdateSolutionInput) (*model.Solution, error)
	Delete(ctx context.Context, actor model.Actor, solutionID int64) error
	Vote(ctx context.Context, actor model.Actor, solutionID int64, in VoteInput) (*model.Tally, error)
	AddComment(ctx context.Context, actor model.Actor, solutionID int64, in CommentInput) (*model.Comment, error)
	Accept(ctx context.Context, actor model.Actor, solutionID int64) (*model.Solution, error)
}

type solutionService struct {
	solutions store.SolutionStore
	problems  store.ProblemStore
	populate  populator
	activity  activityPublisher
}

func NewSolutionService(solutions store.SolutionStore, problems store.ProblemStore, users store.UserDirectory, producer queue.Producer) SolutionService {
	return &solutionService{
		solutions: solutions,
		problems:  problems,
		populate:  populator{users: users},
		activity:  activityPublisher{producer: producer},
	}
}

func (s *solutionService) List(ctx context.Context, params ListSolutionsParams) (*ListResult[model.Solution], error) {
	var filter model.SolutionFilter
	if params.ProblemID != "" {
		problemID, err := id.Parse(params.ProblemID)
		if err != nil {
			return nil, invalid("problemId", fieldMessages["problem"])
		}
		filter.ProblemID = &problemID
	}
	return s.list(ctx, filter, params.ListParams)
}

func (s *solutionService) ListByProblem(ctx context.Context, problemID int64, params ListParams) (*ListResult[model.Solution], error) {
	if _, err := s.problems.GetByID(ctx, problemID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProblemNotFound
		}
		return nil, fmt.Errorf("getting problem: %w", err)
	}
	return s.list(ctx, model.SolutionFilter{ProblemID: &problemID}, params)
}

func (s *solutionService) list(ctx context.Context, filter model.SolutionFilter, params ListParams) (*ListResult[model.Solution], error) {
	q, err := parseListQuery(params, solutionSortFields)
	if err != nil {
		return nil, err
	}

	solutions, total, err := s.solutions.List(ctx, filter, q)
	if err != nil {
		return nil, fmt.Errorf("listing solutions: %w", err)
	}

	ptrs := make([]*model.Solution, len(solutions))
	for i := range solutions {
		ptrs[i] = &solutions[i]
	}
	s.populate.solutions(ctx, ptrs...)

	return newListResult(solutions, total, q.Page), nil
}

func (s *solutionService) Get(ctx context.Context, solutionID int64) (*model.Solution, error) {
	sol, err := s.load(ctx, solutionID)
	if err != nil {
		return nil, err
	}
	s.populate.solutions(ctx, sol)
	return sol, nil
}

func (s *solutionService) Create(ctx context.Context, actor model.Actor, in CreateSolutionInput) (*model.Solution, error) {
	if actor.IsZero() {
		return nil, ErrUnauthorized
	}

	in.Description = strings.TrimSpace(in.Description)
	in.Problem = strings.TrimSpace(in.Problem)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	problemID, _ := id.Parse(in.Problem)

	if _, err := s.problems.GetByID(ctx, problemID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProblemNotFound
		}
		return nil, fmt.Errorf("getting problem: %w", err)
	}

	now := timestamp()
	sol := &model.Solution{
		ID:            id.New(),
		Description:   in.Description,
		Images:        append([]string{}, in.Images...),
		Resources:     toResources(in.Resources),
		EstimatedTime: model.EstimatedTimeDays,
		Difficulty:    model.DifficultyMedium,
		Author:        model.Author{ID: actor.ID},
		Problem:       model.ProblemRef{ID: problemID},
		Votes:         model.VoteLedger{},
		Comments:      []model.Comment{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if in.EstimatedCost != nil {
		sol.EstimatedCost = *in.EstimatedCost
	}
	if in.EstimatedTime != nil {
		sol.EstimatedTime = model.EstimatedTime(*in.EstimatedTime)
	}
	if in.Difficulty != nil {
		sol.Difficulty = model.Difficulty(*in.Difficulty)
	}

	if err := s.solutions.Create(ctx, sol); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProblemNotFound
		}
		return nil, fmt.Errorf("creating solution: %w", err)
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{ProblemID: logger.Ptr(problemID), SolutionID: logger.Ptr(sol.ID)})
	slog.InfoContext(ctx, "solution proposed")
	s.activity.emit(ctx, queue.EventSolutionProposed, problemID, sol.ID, actor.ID)

	created, err := s.load(ctx, sol.ID)
	if err != nil {
		return nil, err
	}
	s.populate.solutions(ctx, created)
	return created, nil
}

func (s *solutionService) Update(ctx context.Context, actor model.Actor, solutionID int64, in UpdateSolutionInput) (*model.Solution, error) {
	if actor.IsZero() {
		return nil, ErrUnauthorized
	}

	trimPtr(in.Description)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	sol, err := s.load(ctx, solutionID)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(sol.Author) {
		return nil, forbidden("Not authorized to update this solution")
	}

	patch := model.SolutionPatch{
		Description:   in.Description,
		Images:        in.Images,
		EstimatedCost: in.EstimatedCost,
	}
	if in.Resources != nil {
		resources := toResources(*in.Resources)
		patch.Resources = &resources
	}
	if in.EstimatedTime != nil {
		t := model.EstimatedTime(*in.EstimatedTime)
		patch.EstimatedTime = &t
	}
	if in.Difficulty != nil {
		d := model.Difficulty(*in.Difficulty)
		patch.Difficulty = &d
	}

	if !patch.IsEmpty() {
		patch.Apply(sol)
		sol.UpdatedAt = timestamp()
		if err := s.solutions.Update(ctx, sol); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, ErrSolutionNotFound
			}
			return nil, fmt.Errorf("updating solution: %w", err)
		}
		s.activity.emit(ctx, queue.EventSolutionUpdated, sol.Problem.ID, sol.ID, actor.ID)
	}

	s.populate.solutions(ctx, sol)
	return sol, nil
}

func (s *solutionService) Delete(ctx context.Context, actor model.Actor, solutionID int64) error {
	if actor.IsZero() {
		return ErrUnauthorized
	}

	sol, err := s.load(ctx, solutionID)
	if err != nil {
		return err
	}
	if !actor.Owns(sol.Author) {
		return forbidden("Not authorized to delete this solution")
	}

	if err := s.solutions.Delete(ctx, solutionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrSolutionNotFound
		}
		return fmt.Errorf("deleting solution: %w", err)
	}

	slog.InfoContext(ctx, "solution deleted", "solution_id", solutionID, "problem_id", sol.Problem.ID)
	s.activity.emit(ctx, queue.EventSolutionDeleted, sol.Problem.ID, solutionID, actor.ID)
	return nil
}

func (s *solutionService) Vote(ctx context.Context, actor model.Actor, solutionID int64, in VoteInput) (*model.Tally, error) {
	if actor.IsZero() {
		return nil, ErrUnauthorized
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	sol, err := s.solutions.Vote(ctx, solutionID, actor.ID, model.VoteType(in.VoteType), timestamp())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSolutionNotFound
		}
		return nil, fmt.Errorf("voting on solution: %w", err)
	}

	s.activity.emit(ctx, queue.EventSolutionVoted, sol.Problem.ID, solutionID, actor.ID)

	s.populate.solutions(ctx, sol)
	tally := sol.Votes.Tally()
	return &tally, nil
}

func (s *solutionService) AddComment(ctx context.Context, actor model.Actor, solutionID int64, in CommentInput) (*model.Comment, error) {
	if actor.IsZero() {
		return nil, ErrUnauthorized
	}

	in.Text = strings.TrimSpace(in.Text)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	comment := model.Comment{
		ID:        id.New(),
		Text:      in.Text,
		Author:    model.Author{ID: actor.ID},
		CreatedAt: timestamp(),
	}

	sol, err := s.solutions.AddComment(ctx, solutionID, comment)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSolutionNotFound
		}
		return nil, fmt.Errorf("adding comment: %w", err)
	}

	s.activity.emit(ctx, queue.EventSolutionCommented, sol.Problem.ID, solutionID, actor.ID)

	comment.Author = s.populate.author(ctx, actor.ID)
	return &comment, nil
}

func (s *solutionService) Accept(ctx context.Context, actor model.Actor, solutionID int64) (*model.Solution, error) {
	if actor.IsZero() {
		return nil, ErrUnauthorized
	}

	sol, err := s.load(ctx, solutionID)
	if err != nil {
		return nil, err
	}

	problem, err := s.problems.GetByID(ctx, sol.Problem.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProblemNotFound
		}
		return nil, fmt.Errorf("getting problem: %w", err)
	}
	if !actor.Owns(problem.Author) {
		return nil, forbidden("Only the problem author can accept solutions")
	}

	accepted, err := s.solutions.Accept(ctx, problem.ID, solutionID, timestamp())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSolutionNotFound
		}
		return nil, fmt.Errorf("accepting solution: %w", err)
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{ProblemID: logger.Ptr(problem.ID), SolutionID: logger.Ptr(solutionID)})
	slog.InfoContext(ctx, "solution accepted")
	s.activity.emit(ctx, queue.EventSolutionAccepted, problem.ID, solutionID, actor.ID)

	s.populate.solutions(ctx, accepted)
	return accepted, nil
}

func (s *solutionService) load(ctx context.Context, solutionID int64) (*model.Solution, error) {
	sol, err := s.solutions.GetByID(ctx, solutionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSolutionNotFound
		}
		return nil, fmt.Errorf("getting solution: %w", err)
	}
	return sol, nil
}

func toResources(in []ResourceInput) []model.Resource {
	out := make([]model.Resource, len(in))
	for i, r := range in {
		out[i] = model.Resource{
			Name: strings.TrimSpace(r.Name),
			URL:  strings.TrimSpace(r.URL),
			Type: model.ResourceType(r.Type),
		}
	}
	return out
}
