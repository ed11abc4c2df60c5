package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "electorate/contexts/election-operations/commission-service/application"
	"electorate/contexts/election-operations/commission-service/ports"
)

// OutboxRelay publishes persisted roster events to the event bus.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

// RunOnce publishes a bounded batch of pending outbox rows, marking each row
// published only after broker publish succeeds.
func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("commission outbox list failed",
			"event", "commission_outbox_list_failed",
			"module", "election-operations/commission-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	for _, row := range pending {
		var event ports.EventEnvelope
		if err := json.Unmarshal(row.Payload, &event); err != nil {
			logger.Error("commission outbox decode failed",
				"event", "commission_outbox_decode_failed",
				"module", "election-operations/commission-service",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
		topic := event.EventType
		if topic == "" {
			topic = row.EventType
		}
		if err := r.Publisher.Publish(ctx, topic, event); err != nil {
			logger.Error("commission outbox publish failed",
				"event", "commission_outbox_publish_failed",
				"module", "election-operations/commission-service",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"event_type", event.EventType,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, row.OutboxID, now); err != nil {
			logger.Error("commission outbox mark published failed",
				"event", "commission_outbox_mark_published_failed",
				"module", "election-operations/commission-service",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
	}

	logger.Info("commission outbox relay cycle completed",
		"event", "commission_outbox_relay_completed",
		"module", "election-operations/commission-service",
		"layer", "worker",
		"published_count", len(pending),
	)
	return nil
}
