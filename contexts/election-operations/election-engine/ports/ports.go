package ports

import (
	"context"
	"encoding/json"
	"time"

	"electorate/contexts/election-operations/election-engine/domain/entities"
)

// ElectionRepository persists the election aggregate: the singleton election
// record, the current candidate generation, the voter registry, and the
// scalar counters. Multi-row writes (CreateGeneration, ApplyVote) must be
// atomic: either every row changes or none does.
type ElectionRepository interface {
	GetElection(ctx context.Context) (entities.Election, bool, error)
	GetCounters(ctx context.Context) (entities.Counters, error)

	// CreateGeneration replaces the election record, clears every candidate
	// of the prior generation, stores the reset counters, and appends the
	// creation event in one atomic unit. Voter rows are left untouched.
	CreateGeneration(ctx context.Context, election entities.Election, counters entities.Counters, envelope EventEnvelope) error

	// SaveElection updates the singleton record; envelope may be nil for
	// administrative transitions that emit no event.
	SaveElection(ctx context.Context, election entities.Election, envelope *EventEnvelope) error

	AddCandidate(ctx context.Context, candidate entities.Candidate, election entities.Election, counters entities.Counters, envelope EventEnvelope) error
	GetCandidate(ctx context.Context, candidateID uint64) (entities.Candidate, bool, error)
	ListCandidates(ctx context.Context) ([]entities.Candidate, error)

	GetVoter(ctx context.Context, principal string) (entities.Voter, bool, error)
	AddVoter(ctx context.Context, voter entities.Voter, counters entities.Counters, envelope EventEnvelope) error

	ApplyVote(ctx context.Context, input ApplyVoteInput) error
}

// ApplyVoteInput carries the fully computed post-vote state. The repository
// writes voter, candidate, election, counters, and the outbox row atomically.
type ApplyVoteInput struct {
	Voter     entities.Voter
	Candidate entities.Candidate
	Election  entities.Election
	Counters  entities.Counters
	Envelope  EventEnvelope
}

// AccessPolicy answers role questions for the commission roster. The
// authority counts as a registrar implicitly.
type AccessPolicy interface {
	IsAuthority(ctx context.Context, principal string) (bool, error)
	IsRegistrar(ctx context.Context, principal string) (bool, error)
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
