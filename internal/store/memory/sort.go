package memory

import (
	"fmt"
	"strings"
	"time"

	"github.com/kumarshubhh/Yuvamanthan/internal/model"
)

// problemLess mirrors the ArangoDB sort: the chosen key in the requested
// direction, then id descending.
func problemLess(s model.Sort) (func(a, b *model.Problem) bool, error) {
	var cmp func(a, b *model.Problem) int
	switch s.Field {
	case model.SortByCreatedAt:
		cmp = func(a, b *model.Problem) int { return compareTime(a.CreatedAt, b.CreatedAt) }
	case model.SortByUpdatedAt:
		cmp = func(a, b *model.Problem) int { return compareTime(a.UpdatedAt, b.UpdatedAt) }
	case model.SortByUpvoteCount:
		cmp = func(a, b *model.Problem) int { return a.UpvoteCount() - b.UpvoteCount() }
	case model.SortByDownvoteCount:
		cmp = func(a, b *model.Problem) int { return a.DownvoteCount() - b.DownvoteCount() }
	case model.SortByTitle:
		cmp = func(a, b *model.Problem) int { return strings.Compare(a.Title, b.Title) }
	default:
		return nil, fmt.Errorf("unsupported sort field %q", s.Field)
	}
	return func(a, b *model.Problem) bool {
		return ordered(cmp(a, b), s.Ascending, a.ID, b.ID)
	}, nil
}

func solutionLess(s model.Sort) (func(a, b *model.Solution) bool, error) {
	var cmp func(a, b *model.Solution) int
	switch s.Field {
	case model.SortByCreatedAt:
		cmp = func(a, b *model.Solution) int { return compareTime(a.CreatedAt, b.CreatedAt) }
	case model.SortByUpdatedAt:
		cmp = func(a, b *model.Solution) int { return compareTime(a.UpdatedAt, b.UpdatedAt) }
	case model.SortByUpvoteCount:
		cmp = func(a, b *model.Solution) int { return a.UpvoteCount() - b.UpvoteCount() }
	case model.SortByDownvoteCount:
		cmp = func(a, b *model.Solution) int { return a.DownvoteCount() - b.DownvoteCount() }
	case model.SortByEstimatedCost:
		cmp = func(a, b *model.Solution) int {
			switch {
			case a.EstimatedCost < b.EstimatedCost:
				return -1
			case a.EstimatedCost > b.EstimatedCost:
				return 1
			}
			return 0
		}
	case model.SortByCommentCount:
		cmp = func(a, b *model.Solution) int { return a.CommentCount() - b.CommentCount() }
	default:
		return nil, fmt.Errorf("unsupported sort field %q", s.Field)
	}
	return func(a, b *model.Solution) bool {
		return ordered(cmp(a, b), s.Ascending, a.ID, b.ID)
	}, nil
}

func ordered(c int, ascending bool, idA, idB int64) bool {
	if c != 0 {
		if ascending {
			return c < 0
		}
		return c > 0
	}
	return idA > idB
}

func compareTime(a, b time.Time) int {
	return a.Compare(b)
}
