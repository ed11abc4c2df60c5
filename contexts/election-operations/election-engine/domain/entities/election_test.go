package entities

import (
	"testing"
	"time"
)

func TestTallyWinnerPrefersEarliestOnTie(t *testing.T) {
	winnerID, votes := TallyWinner([]Candidate{
		{ID: 0, Name: "Alice", VoteCount: 5},
		{ID: 1, Name: "Bob", VoteCount: 5},
	})
	if winnerID != 0 || votes != 5 {
		t.Fatalf("expected earliest candidate to win the tie, got id=%d votes=%d", winnerID, votes)
	}

	winnerID, votes = TallyWinner([]Candidate{
		{ID: 0, Name: "Alice", VoteCount: 5},
		{ID: 1, Name: "Bob", VoteCount: 6},
	})
	if winnerID != 1 || votes != 6 {
		t.Fatalf("expected strict majority to win, got id=%d votes=%d", winnerID, votes)
	}
}

func TestTallyWinnerDegenerateCases(t *testing.T) {
	winnerID, votes := TallyWinner(nil)
	if winnerID != 0 || votes != 0 {
		t.Fatalf("expected zero winner for empty field, got id=%d votes=%d", winnerID, votes)
	}

	winnerID, votes = TallyWinner([]Candidate{
		{ID: 0, Name: "Alice"},
		{ID: 1, Name: "Bob"},
	})
	if winnerID != 0 || votes != 0 {
		t.Fatalf("expected zero-vote field to yield id 0, got id=%d votes=%d", winnerID, votes)
	}
}

func TestVotingWindowBoundaries(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	election := Election{
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
	}

	if !election.InVotingWindow(start) {
		t.Fatalf("expected window open at start instant")
	}
	if !election.InVotingWindow(election.EndTime) {
		t.Fatalf("expected window open at end instant")
	}
	if election.InVotingWindow(start.Add(-time.Second)) {
		t.Fatalf("expected window closed before start")
	}
	if election.InVotingWindow(election.EndTime.Add(time.Second)) {
		t.Fatalf("expected window closed after end")
	}

	if election.WindowElapsed(election.EndTime) {
		t.Fatalf("expected window not elapsed at end instant")
	}
	if !election.WindowElapsed(election.EndTime.Add(time.Second)) {
		t.Fatalf("expected window elapsed after end")
	}
}
