package ports

import (
	"context"
	"encoding/json"
	"time"

	"electorate/contexts/election-operations/commission-service/domain/entities"
)

// CommissionRepository persists the roster. Each mutation appends its event
// envelope in the same atomic unit as the roster change.
type CommissionRepository interface {
	GetRoster(ctx context.Context) (entities.Roster, error)

	// SetAuthority replaces the authority principal. Used both for initial
	// seeding and for authority transfer.
	SetAuthority(ctx context.Context, principal string, since time.Time, envelope *EventEnvelope) error

	GrantRegistrar(ctx context.Context, registrar entities.Registrar, envelope EventEnvelope) error
	RevokeRegistrar(ctx context.Context, principal string, envelope EventEnvelope) error
}

// EventEnvelope mirrors the canonical contract envelope shape.
type EventEnvelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	OccurredAt       time.Time       `json:"occurred_at"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    int             `json:"schema_version"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	Data             json.RawMessage `json:"data"`
}

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
