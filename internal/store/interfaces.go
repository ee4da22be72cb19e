package store

import (
	"context"
	"errors"
	"time"

	"github.com/kumarshubhh/Yuvamanthan/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ProblemStore defines the contract for problem data access
type ProblemStore interface {
	Create(ctx context.Context, problem *model.Problem) error
	GetByID(ctx context.Context, id int64) (*model.Problem, error)
	List(ctx context.Context, filter model.ProblemFilter, q model.ListQuery) ([]model.Problem, int, error)
	// Update persists the author-mutable fields only. Votes are untouched.
	Update(ctx context.Context, problem *model.Problem) error
	Vote(ctx context.Context, id, userID int64, voteType model.VoteType, at time.Time) (*model.Problem, error)
	// DeleteCascade removes the problem and every solution referencing it,
	// returning the number of solutions removed.
	DeleteCascade(ctx context.Context, id int64) (int, error)
}

// SolutionStore defines the contract for solution data access
type SolutionStore interface {
	Create(ctx context.Context, solution *model.Solution) error
	GetByID(ctx context.Context, id int64) (*model.Solution, error)
	List(ctx context.Context, filter model.SolutionFilter, q model.ListQuery) ([]model.Solution, int, error)
	// Update persists the author-mutable fields only.
	Update(ctx context.Context, solution *model.Solution) error
	// Delete removes the solution and clears the parent's accepted pointer
	// when it pointed at this solution.
	Delete(ctx context.Context, id int64) error
	Vote(ctx context.Context, id, userID int64, voteType model.VoteType, at time.Time) (*model.Solution, error)
	AddComment(ctx context.Context, id int64, comment model.Comment) (*model.Solution, error)
	// Accept marks solutionID as the only accepted solution of problemID in
	// one atomic step.
	Accept(ctx context.Context, problemID, solutionID int64, at time.Time) (*model.Solution, error)
}

// UserDirectory resolves author profiles owned by the upstream auth service.
// Unknown ids are omitted from the result.
type UserDirectory interface {
	Lookup(ctx context.Context, ids []int64) (map[int64]model.Author, error)
}
