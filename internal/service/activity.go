package service

import (
	"context"
	"log/slog"

	"github.com/kumarshubhh/Yuvamanthan/common/logger"
	"github.com/kumarshubhh/Yuvamanthan/internal/queue"
)

type activityPublisher struct {
	producer queue.Producer
}

// emit publishes an activity event. Failures are logged and swallowed so the
// mutation that already succeeded is still reported as a success.
func (a activityPublisher) emit(ctx context.Context, eventType string, problemID, solutionID, actorID int64) {
	if a.producer == nil {
		return
	}

	event := queue.ActivityEvent{
		Type:       eventType,
		ProblemID:  problemID,
		SolutionID: solutionID,
		ActorID:    actorID,
	}
	if traceID := logger.TraceID(ctx); traceID != "" {
		event.TraceID = &traceID
	}

	if err := a.producer.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish activity event", "error", err, "event_type", eventType)
	}
}
