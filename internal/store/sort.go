package store

import (
	"fmt"

	"github.com/kumarshubhh/Yuvamanthan/internal/model"
)

// AQL expressions per sort field. Each list query binds the loop variable
// as doc and computes the vote/comment counts with LET before sorting.
var (
	problemSortExprs = map[model.SortField]string{
		model.SortByCreatedAt:     "doc.createdAt",
		model.SortByUpdatedAt:     "doc.updatedAt",
		model.SortByUpvoteCount:   "upvoteCount",
		model.SortByDownvoteCount: "downvoteCount",
		model.SortByTitle:         "doc.title",
	}

	solutionSortExprs = map[model.SortField]string{
		model.SortByCreatedAt:     "doc.createdAt",
		model.SortByUpdatedAt:     "doc.updatedAt",
		model.SortByUpvoteCount:   "upvoteCount",
		model.SortByDownvoteCount: "downvoteCount",
		model.SortByEstimatedCost: "doc.estimatedCost",
		model.SortByCommentCount:  "commentCount",
	}
)

const voteCountsAQL = `
	LET upvoteCount = LENGTH(FOR v IN VALUES(doc.votes || {}) FILTER v.direction == "up" RETURN 1)
	LET downvoteCount = LENGTH(FOR v IN VALUES(doc.votes || {}) FILTER v.direction == "down" RETURN 1)`

// sortClause builds the SORT line from the allow-list only; client input
// never reaches the query text.
func sortClause(exprs map[model.SortField]string, s model.Sort) (string, error) {
	expr, ok := exprs[s.Field]
	if !ok {
		return "", fmt.Errorf("unsupported sort field %q", s.Field)
	}
	dir := "DESC"
	if s.Ascending {
		dir = "ASC"
	}
	return fmt.Sprintf("SORT %s %s, doc._key DESC", expr, dir), nil
}
