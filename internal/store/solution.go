package store

import (
	"context"
	"fmt"
	"time"

	"github.com/kumarshubhh/Yuvamanthan/common/arangodb"
	"github.com/kumarshubhh/Yuvamanthan/common/id"
	"github.com/kumarshubhh/Yuvamanthan/internal/model"
)

// withParentAQL joins a solution document (bound as doc) with its parent's
// summary fields.
const withParentAQL = `
	LET parent = DOCUMENT("problems", doc.problem)
	RETURN MERGE(doc, { problemTitle: parent.title, problemDescription: parent.description })`

type solutionStore struct {
	client arangodb.Client
}

func newSolutionStore(client arangodb.Client) SolutionStore {
	return &solutionStore{client: client}
}

func (s *solutionStore) Create(ctx context.Context, solution *model.Solution) error {
	sc := startSpan(ctx, "store.solutions.create", solutionsCollection)
	defer sc.End()

	err := s.client.Query(sc.Context(), `INSERT @doc INTO solutions`, map[string]any{
		"doc": toSolutionDoc(solution),
	}, nil)
	if err != nil {
		sc.RecordError(err)
		return fmt.Errorf("inserting solution: %w", err)
	}
	return nil
}

func (s *solutionStore) GetByID(ctx context.Context, solutionID int64) (*model.Solution, error) {
	sc := startSpan(ctx, "store.solutions.get", solutionsCollection)
	defer sc.End()

	var row solutionRow
	found, err := s.client.QueryOne(sc.Context(), `
		FOR doc IN solutions
			FILTER doc._key == @key
			LIMIT 1`+withParentAQL, map[string]any{"key": id.Format(solutionID)}, &row)
	if err != nil {
		sc.RecordError(err)
		return nil, fmt.Errorf("getting solution: %w", err)
	}
	if !found {
		return nil, ErrNotFound
	}
	return toSolutionModel(row), nil
}

func (s *solutionStore) List(ctx context.Context, filter model.SolutionFilter, q model.ListQuery) ([]model.Solution, int, error) {
	sc := startSpan(ctx, "store.solutions.list", solutionsCollection)
	defer sc.End()

	sortLine, err := sortClause(solutionSortExprs, q.Sort)
	if err != nil {
		return nil, 0, err
	}

	bindVars := map[string]any{"problem": nil}
	if filter.ProblemID != nil {
		bindVars["problem"] = id.Format(*filter.ProblemID)
	}
	filterLine := `FILTER (@problem == null OR doc.problem == @problem)`

	var counts []countRow
	countQuery := `FOR doc IN solutions ` + filterLine + ` COLLECT WITH COUNT INTO total RETURN { total: total }`
	if err := s.client.Query(sc.Context(), countQuery, bindVars, &counts); err != nil {
		sc.RecordError(err)
		return nil, 0, fmt.Errorf("counting solutions: %w", err)
	}
	total := 0
	if len(counts) > 0 {
		total = counts[0].Total
	}

	var rows []solutionRow
	pageQuery := `FOR doc IN solutions ` + filterLine + voteCountsAQL + `
		LET commentCount = LENGTH(doc.comments || [])
		` + sortLine + `
		LIMIT @offset, @count` + withParentAQL
	err = s.client.Query(sc.Context(), pageQuery, map[string]any{
		"problem": bindVars["problem"],
		"offset":  q.Page.Offset(),
		"count":   q.Page.Limit,
	}, &rows)
	if err != nil {
		sc.RecordError(err)
		return nil, 0, fmt.Errorf("listing solutions: %w", err)
	}

	solutions := make([]model.Solution, len(rows))
	for i, row := range rows {
		solutions[i] = *toSolutionModel(row)
	}
	return solutions, total, nil
}

func (s *solutionStore) Update(ctx context.Context, solution *model.Solution) error {
	sc := startSpan(ctx, "store.solutions.update", solutionsCollection)
	defer sc.End()

	var row solutionRow
	found, err := s.client.QueryOne(sc.Context(), `
		FOR existing IN solutions
			FILTER existing._key == @key
			UPDATE existing WITH @patch IN solutions
			LET doc = NEW`+withParentAQL, map[string]any{
		"key": id.Format(solution.ID),
		"patch": map[string]any{
			"description":   solution.Description,
			"images":        nonNil(solution.Images),
			"resources":     toResourceDocs(solution.Resources),
			"estimatedCost": solution.EstimatedCost,
			"estimatedTime": string(solution.EstimatedTime),
			"difficulty":    string(solution.Difficulty),
			"updatedAt":     solution.UpdatedAt.UnixMilli(),
		},
	}, &row)
	if err != nil {
		sc.RecordError(err)
		return fmt.Errorf("updating solution: %w", err)
	}
	if !found {
		return ErrNotFound
	}
	*solution = *toSolutionModel(row)
	return nil
}

func (s *solutionStore) Delete(ctx context.Context, solutionID int64) error {
	sc := startSpan(ctx, "store.solutions.delete", solutionsCollection)
	defer sc.End()

	var row struct {
		Removed bool `json:"removed"`
	}
	_, err := s.client.QueryOne(sc.Context(), `
		LET old = FIRST(
			FOR doc IN solutions
				FILTER doc._key == @key
				REMOVE doc IN solutions
				RETURN OLD
		)
		LET cleared = (
			FOR p IN problems
				FILTER old != null AND p._key == old.problem AND p.acceptedSolution == @key
				UPDATE p WITH { acceptedSolution: null } IN problems OPTIONS { keepNull: false }
				RETURN 1
		)
		RETURN { removed: old != null }`, map[string]any{"key": id.Format(solutionID)}, &row)
	if err != nil {
		sc.RecordError(err)
		return fmt.Errorf("deleting solution: %w", err)
	}
	if !row.Removed {
		return ErrNotFound
	}
	return nil
}

func (s *solutionStore) Vote(ctx context.Context, solutionID, userID int64, voteType model.VoteType, at time.Time) (*model.Solution, error) {
	sc := startSpan(ctx, "store.solutions.vote", solutionsCollection)
	defer sc.End()

	var row solutionRow
	found, err := s.client.QueryOne(sc.Context(), `
		FOR existing IN solutions
			FILTER existing._key == @key
			LET current = (existing.votes || {})[@user]
			UPDATE existing WITH {
				votes: { [@user]: (current != null AND current.direction == @direction) ? current : @vote },
				updatedAt: @now
			} IN solutions OPTIONS { keepNull: false, mergeObjects: true }
			LET doc = NEW`+withParentAQL, voteBindVars(id.Format(solutionID), userID, voteType, at), &row)
	if err != nil {
		sc.RecordError(err)
		return nil, fmt.Errorf("voting on solution: %w", err)
	}
	if !found {
		return nil, ErrNotFound
	}
	return toSolutionModel(row), nil
}

func (s *solutionStore) AddComment(ctx context.Context, solutionID int64, comment model.Comment) (*model.Solution, error) {
	sc := startSpan(ctx, "store.solutions.add_comment", solutionsCollection)
	defer sc.End()

	var row solutionRow
	found, err := s.client.QueryOne(sc.Context(), `
		FOR existing IN solutions
			FILTER existing._key == @key
			UPDATE existing WITH {
				comments: PUSH(existing.comments || [], @comment),
				updatedAt: @now
			} IN solutions
			LET doc = NEW`+withParentAQL, map[string]any{
		"key":     id.Format(solutionID),
		"comment": toCommentDoc(comment),
		"now":     comment.CreatedAt.UnixMilli(),
	}, &row)
	if err != nil {
		sc.RecordError(err)
		return nil, fmt.Errorf("adding comment: %w", err)
	}
	if !found {
		return nil, ErrNotFound
	}
	return toSolutionModel(row), nil
}

// Accept runs as a single exclusive AQL query: the flag flip across the
// problem's solutions and the problem's acceptedSolution pointer commit
// together or not at all.
func (s *solutionStore) Accept(ctx context.Context, problemID, solutionID int64, at time.Time) (*model.Solution, error) {
	sc := startSpan(ctx, "store.solutions.accept", solutionsCollection)
	defer sc.End()

	var row solutionRow
	found, err := s.client.QueryOne(sc.Context(), `
		LET parent = DOCUMENT("problems", @problem)
		LET target = DOCUMENT("solutions", @solution)
		LET valid = parent != null AND target != null AND target.problem == @problem
		LET updated = (
			FOR s IN solutions
				FILTER valid AND s.problem == @problem
				FILTER s._key == @solution OR s.isAccepted == true
				UPDATE s WITH (s._key == @solution ? { isAccepted: true, updatedAt: @now } : { isAccepted: false })
					IN solutions OPTIONS { exclusive: true }
				RETURN NEW
		)
		LET marked = (
			FOR p IN problems
				FILTER valid AND p._key == @problem
				UPDATE p WITH { acceptedSolution: @solution } IN problems OPTIONS { exclusive: true }
				RETURN 1
		)
		FOR doc IN updated
			FILTER doc._key == @solution
			RETURN MERGE(doc, { problemTitle: parent.title, problemDescription: parent.description })`,
		map[string]any{
			"problem":  id.Format(problemID),
			"solution": id.Format(solutionID),
			"now":      at.UnixMilli(),
		}, &row)
	if err != nil {
		sc.RecordError(err)
		return nil, fmt.Errorf("accepting solution: %w", err)
	}
	if !found {
		return nil, ErrNotFound
	}
	return toSolutionModel(row), nil
}
