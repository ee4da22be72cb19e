package service

import (
	"strconv"
	"strings"

	"github.com/kumarshubhh/Yuvamanthan/internal/model"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

var (
	problemSortFields = map[string]model.SortField{
		"createdAt":     model.SortByCreatedAt,
		"updatedAt":     model.SortByUpdatedAt,
		"upvoteCount":   model.SortByUpvoteCount,
		"downvoteCount": model.SortByDownvoteCount,
		"title":         model.SortByTitle,
	}
	solutionSortFields = map[string]model.SortField{
		"createdAt":     model.SortByCreatedAt,
		"updatedAt":     model.SortByUpdatedAt,
		"upvoteCount":   model.SortByUpvoteCount,
		"downvoteCount": model.SortByDownvoteCount,
		"estimatedCost": model.SortByEstimatedCost,
		"commentCount":  model.SortByCommentCount,
	}
)

// ListParams are the raw paging and sorting query values of a list request.
// Empty strings select the defaults.
type ListParams struct {
	SortBy string
	Page   string
	Limit  string
}

// ListResult is one page of a listing together with its paging metadata.
type ListResult[T any] struct {
	Items       []T
	Total       int
	CurrentPage int
	TotalPages  int
}

func newListResult[T any](items []T, total int, page model.Page) *ListResult[T] {
	return &ListResult[T]{
		Items:       items,
		Total:       total,
		CurrentPage: page.Number,
		TotalPages:  page.TotalPages(total),
	}
}

// parseListQuery resolves sortBy against the allow-list and validates paging.
// A bare field sorts descending; a leading "-" sorts ascending.
func parseListQuery(p ListParams, allowed map[string]model.SortField) (model.ListQuery, error) {
	var errs []FieldError

	sort := model.Sort{Field: model.SortByCreatedAt}
	if raw := strings.TrimSpace(p.SortBy); raw != "" {
		name, ascending := strings.CutPrefix(raw, "-")
		field, ok := allowed[name]
		if !ok {
			errs = append(errs, FieldError{Field: "sortBy", Message: "Unsupported sort field " + strconv.Quote(raw)})
		}
		sort = model.Sort{Field: field, Ascending: ascending}
	}

	number, ok := positiveInt(p.Page, 1)
	if !ok {
		errs = append(errs, FieldError{Field: "page", Message: "Page must be a positive integer"})
	}
	limit, ok := positiveInt(p.Limit, DefaultPageLimit)
	if !ok {
		errs = append(errs, FieldError{Field: "limit", Message: "Limit must be a positive integer"})
	}
	limit = min(limit, MaxPageLimit)

	if len(errs) > 0 {
		return model.ListQuery{}, &ValidationError{Errors: errs}
	}
	return model.ListQuery{Sort: sort, Page: model.Page{Number: number, Limit: limit}}, nil
}

func positiveInt(raw string, fallback int) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
