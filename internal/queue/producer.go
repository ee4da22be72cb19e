package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Activity event types written to the stream.
const (
	EventProblemCreated    = "problem.created"
	EventProblemUpdated    = "problem.updated"
	EventProblemDeleted    = "problem.deleted"
	EventProblemVoted      = "problem.voted"
	EventSolutionProposed  = "solution.proposed"
	EventSolutionUpdated   = "solution.updated"
	EventSolutionDeleted   = "solution.deleted"
	EventSolutionVoted     = "solution.voted"
	EventSolutionCommented = "solution.commented"
	EventSolutionAccepted  = "solution.accepted"
)

type ActivityEvent struct {
	Type       string
	ProblemID  int64
	SolutionID int64 // zero for problem events
	ActorID    int64
	TraceID    *string
}

type Producer interface {
	Publish(ctx context.Context, event ActivityEvent) error
	Close() error
}

type redisProducer struct {
	client *redis.Client
	stream string
	logger *slog.Logger
}

func NewRedisProducer(client *redis.Client, stream string, logger *slog.Logger) Producer {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisProducer{
		client: client,
		stream: stream,
		logger: logger,
	}
}

func (p *redisProducer) Publish(ctx context.Context, event ActivityEvent) error {
	fields := map[string]any{
		"event_type": event.Type,
		"problem_id": event.ProblemID,
		"actor_id":   event.ActorID,
	}

	if event.SolutionID != 0 {
		fields["solution_id"] = event.SolutionID
	}
	if event.TraceID != nil && *event.TraceID != "" {
		fields["trace_id"] = *event.TraceID
	}

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: fields,
	}).Err(); err != nil {
		return fmt.Errorf("publish activity: %w", err)
	}

	p.logger.DebugContext(ctx, "published activity event", "event_type", event.Type, "problem_id", event.ProblemID, "solution_id", event.SolutionID)
	return nil
}

func (p *redisProducer) Close() error {
	return p.client.Close()
}

type noopProducer struct{}

// NewNoopProducer returns a producer that drops every event. It is used when
// no activity stream is configured.
func NewNoopProducer() Producer {
	return noopProducer{}
}

func (noopProducer) Publish(context.Context, ActivityEvent) error { return nil }

func (noopProducer) Close() error { return nil }
