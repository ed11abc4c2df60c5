package commands

import (
	"context"
	"encoding/json"
	"time"

	"electorate/contexts/election-operations/election-engine/ports"
)

// newEnvelope builds the canonical envelope for command-side events. Each
// event names the partition key path explicitly because it varies by event
// family (election-level events partition by title, voter/candidate events
// by their own identifier).
func (uc *ElectionUseCase) newEnvelope(
	ctx context.Context,
	eventType string,
	partitionKey string,
	partitionKeyPath string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "election-engine",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: partitionKeyPath,
		PartitionKey:     partitionKey,
		Data:             payload,
	}, nil
}
