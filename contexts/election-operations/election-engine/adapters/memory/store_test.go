package memory

import (
	"context"
	"testing"
	"time"

	"electorate/contexts/election-operations/election-engine/domain/entities"
	"electorate/contexts/election-operations/election-engine/ports"
)

func TestCreateGenerationClearsCandidatesKeepsVoters(t *testing.T) {
	store := NewStore()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	if err := store.AddVoter(context.Background(), entities.Voter{
		Principal:    "voter-1",
		Registered:   true,
		HasVoted:     true,
		RegisteredAt: now,
	}, entities.Counters{RegisteredVoters: 1}, ports.EventEnvelope{EventID: "evt-1"}); err != nil {
		t.Fatalf("add voter failed: %v", err)
	}
	if err := store.AddCandidate(context.Background(), entities.Candidate{
		ID:     0,
		Name:   "Alice",
		Active: true,
	}, entities.Election{Title: "Old"}, entities.Counters{CandidateCounter: 1, RegisteredVoters: 1}, ports.EventEnvelope{EventID: "evt-2"}); err != nil {
		t.Fatalf("add candidate failed: %v", err)
	}

	if err := store.CreateGeneration(context.Background(), entities.Election{
		Title:     "New",
		StartTime: now,
		EndTime:   now.Add(time.Hour),
		Active:    true,
	}, entities.Counters{RegisteredVoters: 1}, ports.EventEnvelope{EventID: "evt-3"}); err != nil {
		t.Fatalf("create generation failed: %v", err)
	}

	candidates, err := store.ListCandidates(context.Background())
	if err != nil {
		t.Fatalf("list candidates failed: %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("expected empty candidate set after new generation, got %d", len(candidates))
	}

	voter, found, err := store.GetVoter(context.Background(), "voter-1")
	if err != nil || !found {
		t.Fatalf("expected surviving voter, found=%v err=%v", found, err)
	}
	if !voter.HasVoted {
		t.Fatalf("expected voted flag to survive the generation reset")
	}

	election, found, err := store.GetElection(context.Background())
	if err != nil || !found {
		t.Fatalf("expected election record, found=%v err=%v", found, err)
	}
	if election.Title != "New" {
		t.Fatalf("expected replaced election record, got %s", election.Title)
	}
}

func TestApplyVoteWritesAllRows(t *testing.T) {
	store := NewStore()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	if err := store.ApplyVote(context.Background(), ports.ApplyVoteInput{
		Voter: entities.Voter{
			Principal:        "voter-1",
			Registered:       true,
			HasVoted:         true,
			VotedCandidateID: 0,
			VotedAt:          now,
		},
		Candidate: entities.Candidate{ID: 0, Name: "Alice", VoteCount: 1, Active: true},
		Election:  entities.Election{Title: "General", TotalVotes: 1, Active: true},
		Counters:  entities.Counters{CandidateCounter: 1, RegisteredVoters: 1, TotalVotesCast: 1},
		Envelope:  ports.EventEnvelope{EventID: "evt-vote-1", EventType: "vote.cast", OccurredAt: now},
	}); err != nil {
		t.Fatalf("apply vote failed: %v", err)
	}

	candidate, found, err := store.GetCandidate(context.Background(), 0)
	if err != nil || !found {
		t.Fatalf("candidate lookup failed: found=%v err=%v", found, err)
	}
	if candidate.VoteCount != 1 {
		t.Fatalf("expected candidate tally 1, got %d", candidate.VoteCount)
	}

	counters, err := store.GetCounters(context.Background())
	if err != nil {
		t.Fatalf("counters lookup failed: %v", err)
	}
	if counters.TotalVotesCast != 1 {
		t.Fatalf("expected total votes cast 1, got %d", counters.TotalVotesCast)
	}
}

func TestOutboxLifecycle(t *testing.T) {
	store := NewStore()
	now := time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)

	if err := store.SaveElection(context.Background(), entities.Election{Title: "General"}, &ports.EventEnvelope{
		EventID:    "evt-1",
		EventType:  "election.created",
		OccurredAt: now,
	}); err != nil {
		t.Fatalf("save election failed: %v", err)
	}
	if err := store.SaveElection(context.Background(), entities.Election{Title: "General"}, &ports.EventEnvelope{
		EventID:    "evt-2",
		EventType:  "election.ended",
		OccurredAt: now.Add(time.Minute),
	}); err != nil {
		t.Fatalf("save election failed: %v", err)
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending rows, got %d", len(pending))
	}
	if pending[0].OutboxID != "evt-1" {
		t.Fatalf("expected oldest row first, got %s", pending[0].OutboxID)
	}

	if err := store.MarkOutboxPublished(context.Background(), "evt-1", now.Add(time.Hour)); err != nil {
		t.Fatalf("mark published failed: %v", err)
	}
	pending, err = store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 1 || pending[0].OutboxID != "evt-2" {
		t.Fatalf("expected only evt-2 pending, got %+v", pending)
	}
}
