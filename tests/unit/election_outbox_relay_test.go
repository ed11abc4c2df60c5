package unit

import (
	"context"
	"testing"
	"time"

	"electorate/contexts/election-operations/election-engine/application/workers"
	"electorate/contexts/election-operations/election-engine/ports"
)

type capturePublisher struct {
	topics []string
	events []ports.EventEnvelope
}

func (p *capturePublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func TestOutboxRelayPublishesLifecycleEvents(t *testing.T) {
	module, store, clock := newTestEngine(t)
	createElection(t, module, 2)
	alice := registerCandidate(t, module, "Alice")
	registerVoter(t, module, "voter-1")
	clock.advance(time.Minute)
	castVote(t, module, "voter-1", alice)

	publisher := &capturePublisher{}
	relay := workers.OutboxRelay{
		Outbox:    store,
		Publisher: publisher,
		Clock:     clock,
		BatchSize: 10,
	}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}

	expected := map[string]bool{
		"election.created":     false,
		"candidate.registered": false,
		"voter.registered":     false,
		"vote.cast":            false,
	}
	for _, topic := range publisher.topics {
		if _, ok := expected[topic]; ok {
			expected[topic] = true
		}
	}
	for topic, seen := range expected {
		if !seen {
			t.Fatalf("expected %s to be published, got topics %v", topic, publisher.topics)
		}
	}
	for _, event := range publisher.events {
		if event.SourceService != "election-engine" || event.SchemaVersion != 1 {
			t.Fatalf("unexpected envelope metadata: %+v", event)
		}
	}

	// A second cycle finds nothing pending.
	publisher.topics = nil
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("second relay run failed: %v", err)
	}
	if len(publisher.topics) != 0 {
		t.Fatalf("expected drained outbox, got %v", publisher.topics)
	}
}
