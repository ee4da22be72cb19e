package store

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kumarshubhh/Yuvamanthan/common/arangodb"
	"github.com/kumarshubhh/Yuvamanthan/common/id"
	"github.com/kumarshubhh/Yuvamanthan/common/logger"
	"github.com/kumarshubhh/Yuvamanthan/internal/model"
)

type problemStore struct {
	client arangodb.Client
}

func newProblemStore(client arangodb.Client) ProblemStore {
	return &problemStore{client: client}
}

func (s *problemStore) Create(ctx context.Context, problem *model.Problem) error {
	sc := startSpan(ctx, "store.problems.create", problemsCollection)
	defer sc.End()

	err := s.client.Query(sc.Context(), `INSERT @doc INTO problems`, map[string]any{
		"doc": toProblemDoc(problem),
	}, nil)
	if err != nil {
		sc.RecordError(err)
		return fmt.Errorf("inserting problem: %w", err)
	}
	return nil
}

func (s *problemStore) GetByID(ctx context.Context, problemID int64) (*model.Problem, error) {
	sc := startSpan(ctx, "store.problems.get", problemsCollection)
	defer sc.End()

	var doc problemDoc
	found, err := s.client.QueryOne(sc.Context(), `
		FOR doc IN problems
			FILTER doc._key == @key
			LIMIT 1
			RETURN doc`, map[string]any{"key": id.Format(problemID)}, &doc)
	if err != nil {
		sc.RecordError(err)
		return nil, fmt.Errorf("getting problem: %w", err)
	}
	if !found {
		return nil, ErrNotFound
	}
	return toProblemModel(doc), nil
}

func (s *problemStore) List(ctx context.Context, filter model.ProblemFilter, q model.ListQuery) ([]model.Problem, int, error) {
	sc := startSpan(ctx, "store.problems.list", problemsCollection)
	defer sc.End()

	sortLine, err := sortClause(problemSortExprs, q.Sort)
	if err != nil {
		return nil, 0, err
	}

	bindVars := map[string]any{"category": nil, "status": nil}
	if filter.Category != nil {
		bindVars["category"] = string(*filter.Category)
	}
	if filter.Status != nil {
		bindVars["status"] = string(*filter.Status)
	}
	filterLine := `FILTER (@category == null OR doc.category == @category) AND (@status == null OR doc.status == @status)`

	var counts []countRow
	countQuery := `FOR doc IN problems ` + filterLine + ` COLLECT WITH COUNT INTO total RETURN { total: total }`
	if err := s.client.Query(sc.Context(), countQuery, bindVars, &counts); err != nil {
		sc.RecordError(err)
		return nil, 0, fmt.Errorf("counting problems: %w", err)
	}
	total := 0
	if len(counts) > 0 {
		total = counts[0].Total
	}

	pageVars := map[string]any{
		"offset": q.Page.Offset(),
		"count":  q.Page.Limit,
	}
	for k, v := range bindVars {
		pageVars[k] = v
	}

	var docs []problemDoc
	pageQuery := `FOR doc IN problems ` + filterLine + voteCountsAQL + `
		` + sortLine + `
		LIMIT @offset, @count
		RETURN doc`
	if err := s.client.Query(sc.Context(), pageQuery, pageVars, &docs); err != nil {
		sc.RecordError(err)
		return nil, 0, fmt.Errorf("listing problems: %w", err)
	}

	problems := make([]model.Problem, len(docs))
	for i, doc := range docs {
		problems[i] = *toProblemModel(doc)
	}
	return problems, total, nil
}

func (s *problemStore) Update(ctx context.Context, problem *model.Problem) error {
	sc := startSpan(ctx, "store.problems.update", problemsCollection)
	defer sc.End()

	var doc problemDoc
	found, err := s.client.QueryOne(sc.Context(), `
		FOR doc IN problems
			FILTER doc._key == @key
			UPDATE doc WITH @patch IN problems
			RETURN NEW`, map[string]any{
		"key": id.Format(problem.ID),
		"patch": map[string]any{
			"title":       problem.Title,
			"description": problem.Description,
			"status":      string(problem.Status),
			"priority":    string(problem.Priority),
			"tags":        nonNil(problem.Tags),
			"updatedAt":   problem.UpdatedAt.UnixMilli(),
		},
	}, &doc)
	if err != nil {
		sc.RecordError(err)
		return fmt.Errorf("updating problem: %w", err)
	}
	if !found {
		return ErrNotFound
	}
	*problem = *toProblemModel(doc)
	return nil
}

func (s *problemStore) Vote(ctx context.Context, problemID, userID int64, voteType model.VoteType, at time.Time) (*model.Problem, error) {
	sc := startSpan(ctx, "store.problems.vote", problemsCollection)
	defer sc.End()

	var doc problemDoc
	found, err := s.client.QueryOne(sc.Context(), `
		FOR doc IN problems
			FILTER doc._key == @key
			LET current = (doc.votes || {})[@user]
			UPDATE doc WITH {
				votes: { [@user]: (current != null AND current.direction == @direction) ? current : @vote },
				updatedAt: @now
			} IN problems OPTIONS { keepNull: false, mergeObjects: true }
			RETURN NEW`, voteBindVars(id.Format(problemID), userID, voteType, at), &doc)
	if err != nil {
		sc.RecordError(err)
		return nil, fmt.Errorf("voting on problem: %w", err)
	}
	if !found {
		return nil, ErrNotFound
	}
	return toProblemModel(doc), nil
}

func (s *problemStore) DeleteCascade(ctx context.Context, problemID int64) (int, error) {
	sc := startSpan(ctx, "store.problems.delete_cascade", problemsCollection)
	defer sc.End()

	var row struct {
		RemovedSolutions int `json:"removedSolutions"`
	}
	found, err := s.client.QueryOne(sc.Context(), `
		LET removed = (
			FOR s IN solutions
				FILTER s.problem == @key
				REMOVE s IN solutions
				RETURN 1
		)
		FOR doc IN problems
			FILTER doc._key == @key
			REMOVE doc IN problems
			RETURN { removedSolutions: LENGTH(removed) }`, map[string]any{"key": id.Format(problemID)}, &row)
	if err != nil {
		sc.RecordError(err)
		return 0, fmt.Errorf("deleting problem: %w", err)
	}
	if !found {
		return 0, ErrNotFound
	}
	return row.RemovedSolutions, nil
}

func startSpan(ctx context.Context, name, collection string) *logger.SpanContext {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "yuvamanthan.store.arangodb"})
	return logger.StartSpan(ctx, name,
		attribute.String("db.system", "arangodb"),
		attribute.String("db.collection.name", collection),
	)
}
