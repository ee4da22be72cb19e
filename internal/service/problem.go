package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kumarshubhh/Yuvamanthan/common"
	"github.com/kumarshubhh/Yuvamanthan/common/id"
	"github.com/kumarshubhh/Yuvamanthan/common/logger"
	"github.com/kumarshubhh/Yuvamanthan/internal/model"
	"github.com/kumarshubhh/Yuvamanthan/internal/queue"
	"github.com/kumarshubhh/Yuvamanthan/internal/store"
)

type CoordinatesInput struct {
	Lat *float64 `json:"lat" validate:"required,latitude"`
	Lng *float64 `json:"lng" validate:"required,longitude"`
}

type CreateProblemInput struct {
	Title       string           `json:"title" validate:"min=5"`
	Description string           `json:"description" validate:"min=20"`
	Location    string           `json:"location" validate:"required"`
	Coordinates CoordinatesInput `json:"coordinates"`
	Images      []string         `json:"images" validate:"min=1,dive,required"`
	Category    string           `json:"category" validate:"category"`
	Priority    *string          `json:"priority" validate:"omitempty,priority"`
	Tags        []string         `json:"tags"`
}

// UpdateProblemInput is a partial update; nil fields are left unchanged.
type UpdateProblemInput struct {
	Title       *string   `json:"title" validate:"omitempty,min=5"`
	Description *string   `json:"description" validate:"omitempty,min=20"`
	Status      *string   `json:"status" validate:"omitempty,problem_status"`
	Priority    *string   `json:"priority" validate:"omitempty,priority"`
	Tags        *[]string `json:"tags"`
}

type VoteInput struct {
	VoteType string `json:"voteType" validate:"vote_type"`
}

// ListProblemsParams are the raw query values of GET /api/problems.
type ListProblemsParams struct {
	ListParams
	Category string
	Status   string
}

type ProblemService interface {
	List(ctx context.Context, params ListProblemsParams) (*ListResult[model.Problem], error)
	Get(ctx context.Context, problemID int64) (*model.Problem, error)
	Create(ctx context.Context, actor model.Actor, in CreateProblemInput) (*model.Problem, error)
	Update(ctx context.Context, actor model.Actor, problemID int64, in UpdateProblemInput) (*model.Problem, error)
	Delete(ctx context.Context, actor model.Actor, problemID int64) error
	Vote(ctx context.Context, actor model.Actor, problemID int64, in VoteInput) (*model.Tally, error)
}

type problemService struct {
	problems store.ProblemStore
	populate populator
	activity activityPublisher
}

func NewProblemService(problems store.ProblemStore, users store.UserDirectory, producer queue.Producer) ProblemService {
	return &problemService{
		problems: problems,
		populate: populator{users: users},
		activity: activityPublisher{producer: producer},
	}
}

func (s *problemService) List(ctx context.Context, params ListProblemsParams) (*ListResult[model.Problem], error) {
	q, err := parseListQuery(params.ListParams, problemSortFields)
	if err != nil {
		return nil, err
	}

	var filter model.ProblemFilter
	if params.Category != "" {
		c := model.Category(params.Category)
		if !c.Valid() {
			return nil, invalid("category", fieldMessages["category"])
		}
		filter.Category = &c
	}
	if params.Status != "" {
		st := model.ProblemStatus(params.Status)
		if !st.Valid() {
			return nil, invalid("status", fieldMessages["status"])
		}
		filter.Status = &st
	}

	problems, total, err := s.problems.List(ctx, filter, q)
	if err != nil {
		return nil, fmt.Errorf("listing problems: %w", err)
	}

	ptrs := make([]*model.Problem, len(problems))
	for i := range problems {
		ptrs[i] = &problems[i]
	}
	s.populate.problems(ctx, ptrs...)

	return newListResult(problems, total, q.Page), nil
}

func (s *problemService) Get(ctx context.Context, problemID int64) (*model.Problem, error) {
	p, err := s.load(ctx, problemID)
	if err != nil {
		return nil, err
	}
	s.populate.problems(ctx, p)
	return p, nil
}

func (s *problemService) Create(ctx context.Context, actor model.Actor, in CreateProblemInput) (*model.Problem, error) {
	if actor.IsZero() {
		return nil, ErrUnauthorized
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	priority := model.PriorityMedium
	if in.Priority != nil {
		priority = model.Priority(*in.Priority)
	}

	now := timestamp()
	p := &model.Problem{
		ID:          id.New(),
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Coordinates: model.Coordinates{Lat: *in.Coordinates.Lat, Lng: *in.Coordinates.Lng},
		Images:      append([]string{}, in.Images...),
		Category:    model.Category(in.Category),
		Priority:    priority,
		Status:      model.ProblemStatusOpen,
		Author:      model.Author{ID: actor.ID},
		Votes:       model.VoteLedger{},
		Tags:        common.NormalizeTags(in.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.problems.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("creating problem: %w", err)
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{ProblemID: logger.Ptr(p.ID)})
	slog.InfoContext(ctx, "problem created", "category", p.Category)
	s.activity.emit(ctx, queue.EventProblemCreated, p.ID, 0, actor.ID)

	s.populate.problems(ctx, p)
	return p, nil
}

func (s *problemService) Update(ctx context.Context, actor model.Actor, problemID int64, in UpdateProblemInput) (*model.Problem, error) {
	if actor.IsZero() {
		return nil, ErrUnauthorized
	}

	trimPtr(in.Title)
	trimPtr(in.Description)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	p, err := s.load(ctx, problemID)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(p.Author) {
		return nil, forbidden("Not authorized to update this problem")
	}

	patch := model.ProblemPatch{Title: in.Title, Description: in.Description}
	if in.Status != nil {
		st := model.ProblemStatus(*in.Status)
		patch.Status = &st
	}
	if in.Priority != nil {
		pr := model.Priority(*in.Priority)
		patch.Priority = &pr
	}
	if in.Tags != nil {
		tags := common.NormalizeTags(*in.Tags)
		patch.Tags = &tags
	}

	if !patch.IsEmpty() {
		patch.Apply(p)
		p.UpdatedAt = timestamp()
		if err := s.problems.Update(ctx, p); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, ErrProblemNotFound
			}
			return nil, fmt.Errorf("updating problem: %w", err)
		}
		s.activity.emit(ctx, queue.EventProblemUpdated, p.ID, 0, actor.ID)
	}

	s.populate.problems(ctx, p)
	return p, nil
}

func (s *problemService) Delete(ctx context.Context, actor model.Actor, problemID int64) error {
	if actor.IsZero() {
		return ErrUnauthorized
	}

	p, err := s.load(ctx, problemID)
	if err != nil {
		return err
	}
	if !actor.Owns(p.Author) {
		return forbidden("Not authorized to delete this problem")
	}

	removed, err := s.problems.DeleteCascade(ctx, problemID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrProblemNotFound
		}
		return fmt.Errorf("deleting problem: %w", err)
	}

	slog.InfoContext(ctx, "problem deleted", "problem_id", problemID, "removed_solutions", removed)
	s.activity.emit(ctx, queue.EventProblemDeleted, problemID, 0, actor.ID)
	return nil
}

func (s *problemService) Vote(ctx context.Context, actor model.Actor, problemID int64, in VoteInput) (*model.Tally, error) {
	if actor.IsZero() {
		return nil, ErrUnauthorized
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	p, err := s.problems.Vote(ctx, problemID, actor.ID, model.VoteType(in.VoteType), timestamp())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProblemNotFound
		}
		return nil, fmt.Errorf("voting on problem: %w", err)
	}

	s.activity.emit(ctx, queue.EventProblemVoted, problemID, 0, actor.ID)

	s.populate.problems(ctx, p)
	tally := p.Votes.Tally()
	return &tally, nil
}

func (s *problemService) load(ctx context.Context, problemID int64) (*model.Problem, error) {
	p, err := s.problems.GetByID(ctx, problemID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProblemNotFound
		}
		return nil, fmt.Errorf("getting problem: %w", err)
	}
	return p, nil
}

// timestamp is the service clock. Stores persist millisecond precision, so
// values are truncated up front to compare equal after a round trip.
func timestamp() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
