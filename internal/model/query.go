package model

// SortField names a storage-level sort key. Stores must support every value.
type SortField string

const (
	SortByCreatedAt     SortField = "createdAt"
	SortByUpdatedAt     SortField = "updatedAt"
	SortByUpvoteCount   SortField = "upvoteCount"
	SortByDownvoteCount SortField = "downvoteCount"
	SortByTitle         SortField = "title"
	SortByEstimatedCost SortField = "estimatedCost"
	SortByCommentCount  SortField = "commentCount"
)

// Sort orders a listing. Ties always break on id, descending.
type Sort struct {
	Field     SortField
	Ascending bool
}

// Page is a 1-based page request.
type Page struct {
	Number int
	Limit  int
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// TotalPages returns ceil(total/limit).
func (p Page) TotalPages(total int) int {
	if p.Limit <= 0 {
		return 0
	}
	return (total + p.Limit - 1) / p.Limit
}

type ListQuery struct {
	Sort Sort
	Page Page
}
