package unit

import (
	"context"
	"errors"
	"testing"
	"time"

	electionengine "electorate/contexts/election-operations/election-engine"
	"electorate/contexts/election-operations/election-engine/adapters/memory"
	"electorate/contexts/election-operations/election-engine/application/commands"
	domainerrors "electorate/contexts/election-operations/election-engine/domain/errors"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestEngine(t *testing.T) (electionengine.Module, *memory.Store, *fakeClock) {
	t.Helper()
	store := memory.NewStore()
	store.SetAuthority("authority-1")
	store.GrantRegistrar("registrar-1")
	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	module := electionengine.NewModule(electionengine.Dependencies{
		Store:  store,
		Access: store,
		Clock:  clock,
		IDGen:  store,
		Logger: nil,
	})
	module.Store = store
	return module, store, clock
}

func createElection(t *testing.T, module electionengine.Module, hours int64) {
	t.Helper()
	_, err := module.Elections.CreateElection(context.Background(), commands.CreateElectionCommand{
		Actor:         "authority-1",
		Title:         "General Election",
		Description:   "annual vote",
		DurationHours: hours,
	})
	if err != nil {
		t.Fatalf("create election failed: %v", err)
	}
}

func registerCandidate(t *testing.T, module electionengine.Module, name string) uint64 {
	t.Helper()
	candidate, err := module.Elections.RegisterCandidate(context.Background(), commands.RegisterCandidateCommand{
		Actor: "authority-1",
		Name:  name,
		Party: name + " Party",
	})
	if err != nil {
		t.Fatalf("register candidate %s failed: %v", name, err)
	}
	return candidate.ID
}

func registerVoter(t *testing.T, module electionengine.Module, principal string) {
	t.Helper()
	if _, err := module.Elections.RegisterVoter(context.Background(), commands.RegisterVoterCommand{
		Actor:     "registrar-1",
		Principal: principal,
	}); err != nil {
		t.Fatalf("register voter %s failed: %v", principal, err)
	}
}

func castVote(t *testing.T, module electionengine.Module, principal string, candidateID uint64) {
	t.Helper()
	if _, err := module.Elections.CastVote(context.Background(), commands.CastVoteCommand{
		Actor:       principal,
		CandidateID: candidateID,
	}); err != nil {
		t.Fatalf("cast vote by %s failed: %v", principal, err)
	}
}

func TestElectionFullLifecycle(t *testing.T) {
	module, _, clock := newTestEngine(t)
	createElection(t, module, 2)

	alice := registerCandidate(t, module, "Alice")
	bob := registerCandidate(t, module, "Bob")
	if alice != 0 || bob != 1 {
		t.Fatalf("expected sequential candidate ids 0 and 1, got %d and %d", alice, bob)
	}

	registerVoter(t, module, "voter-1")
	registerVoter(t, module, "voter-2")
	registerVoter(t, module, "voter-3")

	clock.advance(time.Hour)
	castVote(t, module, "voter-1", alice)
	castVote(t, module, "voter-2", bob)
	castVote(t, module, "voter-3", alice)

	if _, err := module.Elections.EndElection(context.Background(), commands.EndElectionCommand{Actor: "authority-1"}); !errors.Is(err, domainerrors.ErrTimingViolation) {
		t.Fatalf("expected timing violation ending before window close, got %v", err)
	}

	clock.advance(2 * time.Hour)
	ended, err := module.Elections.EndElection(context.Background(), commands.EndElectionCommand{Actor: "authority-1"})
	if err != nil {
		t.Fatalf("end election failed: %v", err)
	}
	if ended.Active {
		t.Fatalf("expected inactive election after end")
	}
	if ended.WinnerCandidateID != alice {
		t.Fatalf("expected winner %d, got %d", alice, ended.WinnerCandidateID)
	}
	if ended.TotalVotes != 3 {
		t.Fatalf("expected 3 total votes, got %d", ended.TotalVotes)
	}

	if _, err := module.Handler.ElectionResultsHandler(context.Background()); !errors.Is(err, domainerrors.ErrResultsNotPublished) {
		t.Fatalf("expected results gated before publish, got %v", err)
	}

	if _, err := module.Elections.PublishResults(context.Background(), commands.PublishResultsCommand{Actor: "authority-1"}); err != nil {
		t.Fatalf("publish results failed: %v", err)
	}

	results, err := module.Handler.ElectionResultsHandler(context.Background())
	if err != nil {
		t.Fatalf("results query failed: %v", err)
	}
	if results.WinnerCandidateID != alice || results.WinnerName != "Alice" {
		t.Fatalf("unexpected winner: %+v", results)
	}
	if results.WinningVotes != 2 || results.TotalVotes != 3 {
		t.Fatalf("unexpected tallies: %+v", results)
	}

	stats, err := module.Handler.VotingStatsHandler(context.Background())
	if err != nil {
		t.Fatalf("stats query failed: %v", err)
	}
	if stats.RegisteredVoters != 3 || stats.VotesCast != 3 || stats.TurnoutPercent != 100 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestCandidateWindowClosesAtStart(t *testing.T) {
	module, _, clock := newTestEngine(t)
	createElection(t, module, 4)

	// Same instant as StartTime still succeeds.
	registerCandidate(t, module, "Alice")

	clock.advance(time.Second)
	_, err := module.Elections.RegisterCandidate(context.Background(), commands.RegisterCandidateCommand{
		Actor: "authority-1",
		Name:  "Bob",
	})
	if !errors.Is(err, domainerrors.ErrTimingViolation) {
		t.Fatalf("expected timing violation after voting opened, got %v", err)
	}
}

func TestVoteGuards(t *testing.T) {
	module, _, clock := newTestEngine(t)
	createElection(t, module, 2)
	alice := registerCandidate(t, module, "Alice")
	registerVoter(t, module, "voter-1")

	clock.advance(time.Minute)

	if _, err := module.Elections.CastVote(context.Background(), commands.CastVoteCommand{
		Actor:       "stranger",
		CandidateID: alice,
	}); !errors.Is(err, domainerrors.ErrVoterNotRegistered) {
		t.Fatalf("expected unregistered voter rejection, got %v", err)
	}

	if _, err := module.Elections.CastVote(context.Background(), commands.CastVoteCommand{
		Actor:       "voter-1",
		CandidateID: 42,
	}); !errors.Is(err, domainerrors.ErrInvalidCandidate) {
		t.Fatalf("expected invalid candidate rejection, got %v", err)
	}

	castVote(t, module, "voter-1", alice)
	if _, err := module.Elections.CastVote(context.Background(), commands.CastVoteCommand{
		Actor:       "voter-1",
		CandidateID: alice,
	}); !errors.Is(err, domainerrors.ErrAlreadyVoted) {
		t.Fatalf("expected double vote rejection, got %v", err)
	}

	clock.advance(3 * time.Hour)
	registerVoter(t, module, "voter-2")
	if _, err := module.Elections.CastVote(context.Background(), commands.CastVoteCommand{
		Actor:       "voter-2",
		CandidateID: alice,
	}); !errors.Is(err, domainerrors.ErrVotingClosed) {
		t.Fatalf("expected closed window rejection, got %v", err)
	}
}

func TestPauseAndResume(t *testing.T) {
	module, _, clock := newTestEngine(t)
	createElection(t, module, 2)
	alice := registerCandidate(t, module, "Alice")
	registerVoter(t, module, "voter-1")
	clock.advance(time.Minute)

	if err := module.Elections.Pause(context.Background(), commands.PauseCommand{Actor: "authority-1"}); err != nil {
		t.Fatalf("pause failed: %v", err)
	}
	if _, err := module.Elections.CastVote(context.Background(), commands.CastVoteCommand{
		Actor:       "voter-1",
		CandidateID: alice,
	}); !errors.Is(err, domainerrors.ErrVotingClosed) {
		t.Fatalf("expected paused election to reject votes, got %v", err)
	}

	if err := module.Elections.Resume(context.Background(), commands.ResumeCommand{Actor: "authority-1"}); err != nil {
		t.Fatalf("resume failed: %v", err)
	}
	castVote(t, module, "voter-1", alice)

	clock.advance(3 * time.Hour)
	if err := module.Elections.Pause(context.Background(), commands.PauseCommand{Actor: "authority-1"}); err != nil {
		t.Fatalf("pause after window failed: %v", err)
	}
	if err := module.Elections.Resume(context.Background(), commands.ResumeCommand{Actor: "authority-1"}); !errors.Is(err, domainerrors.ErrTimingViolation) {
		t.Fatalf("expected resume after window close to fail, got %v", err)
	}
}

func TestCreateWhileActiveFails(t *testing.T) {
	module, _, clock := newTestEngine(t)
	createElection(t, module, 2)

	_, err := module.Elections.CreateElection(context.Background(), commands.CreateElectionCommand{
		Actor:         "authority-1",
		Title:         "Second Election",
		DurationHours: 1,
	})
	if !errors.Is(err, domainerrors.ErrElectionActive) {
		t.Fatalf("expected active election conflict, got %v", err)
	}

	// An active record whose window elapsed without an explicit end no longer
	// blocks a new generation.
	clock.advance(3 * time.Hour)
	createElection(t, module, 2)
}

func TestDegenerateZeroVoteElection(t *testing.T) {
	module, _, clock := newTestEngine(t)
	createElection(t, module, 1)

	clock.advance(2 * time.Hour)
	ended, err := module.Elections.EndElection(context.Background(), commands.EndElectionCommand{Actor: "authority-1"})
	if err != nil {
		t.Fatalf("end election failed: %v", err)
	}
	if ended.WinnerCandidateID != 0 || ended.TotalVotes != 0 {
		t.Fatalf("expected degenerate zero winner, got %+v", ended)
	}

	if _, err := module.Elections.PublishResults(context.Background(), commands.PublishResultsCommand{Actor: "authority-1"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	results, err := module.Handler.ElectionResultsHandler(context.Background())
	if err != nil {
		t.Fatalf("results query failed: %v", err)
	}
	if results.WinnerCandidateID != 0 || results.WinningVotes != 0 || results.WinnerName != "" {
		t.Fatalf("expected empty winner record, got %+v", results)
	}

	stats, err := module.Handler.VotingStatsHandler(context.Background())
	if err != nil {
		t.Fatalf("stats query failed: %v", err)
	}
	if stats.RegisteredVoters != 0 || stats.VotesCast != 0 || stats.TurnoutPercent != 0 {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}

func TestVoterRecordsSurviveGenerations(t *testing.T) {
	module, _, clock := newTestEngine(t)
	createElection(t, module, 1)
	alice := registerCandidate(t, module, "Alice")
	registerVoter(t, module, "voter-1")
	registerVoter(t, module, "voter-2")
	clock.advance(time.Minute)
	castVote(t, module, "voter-1", alice)

	clock.advance(2 * time.Hour)
	if _, err := module.Elections.EndElection(context.Background(), commands.EndElectionCommand{Actor: "authority-1"}); err != nil {
		t.Fatalf("end election failed: %v", err)
	}

	createElection(t, module, 1)
	carol := registerCandidate(t, module, "Carol")

	// Registration survives, and so does the one-vote-ever flag.
	if _, err := module.Elections.RegisterVoter(context.Background(), commands.RegisterVoterCommand{
		Actor:     "registrar-1",
		Principal: "voter-1",
	}); !errors.Is(err, domainerrors.ErrVoterAlreadyRegistered) {
		t.Fatalf("expected surviving registration, got %v", err)
	}
	if _, err := module.Elections.CastVote(context.Background(), commands.CastVoteCommand{
		Actor:       "voter-1",
		CandidateID: carol,
	}); !errors.Is(err, domainerrors.ErrAlreadyVoted) {
		t.Fatalf("expected voted flag to survive generations, got %v", err)
	}
	castVote(t, module, "voter-2", carol)

	candidates, err := module.Handler.AllCandidatesHandler(context.Background())
	if err != nil {
		t.Fatalf("candidate list failed: %v", err)
	}
	if len(candidates.Items) != 1 || candidates.Items[0].Name != "Carol" {
		t.Fatalf("expected only the new generation's candidate, got %+v", candidates.Items)
	}
	if carol != 0 {
		t.Fatalf("expected candidate counter reset across generations, got id %d", carol)
	}

	stats, err := module.Handler.VotingStatsHandler(context.Background())
	if err != nil {
		t.Fatalf("stats query failed: %v", err)
	}
	if stats.RegisteredVoters != 2 || stats.VotesCast != 1 {
		t.Fatalf("expected preserved registrations with reset cast counter, got %+v", stats)
	}
}

func TestTurnoutRoundsDown(t *testing.T) {
	module, _, clock := newTestEngine(t)
	createElection(t, module, 2)
	alice := registerCandidate(t, module, "Alice")
	for _, principal := range []string{"v1", "v2", "v3", "v4", "v5", "v6", "v7"} {
		registerVoter(t, module, principal)
	}
	clock.advance(time.Minute)
	castVote(t, module, "v1", alice)
	castVote(t, module, "v2", alice)
	castVote(t, module, "v3", alice)

	stats, err := module.Handler.VotingStatsHandler(context.Background())
	if err != nil {
		t.Fatalf("stats query failed: %v", err)
	}
	if stats.TurnoutPercent != 42 {
		t.Fatalf("expected 42 percent turnout for 3 of 7, got %d", stats.TurnoutPercent)
	}
}

func TestRoleEnforcement(t *testing.T) {
	module, _, _ := newTestEngine(t)

	if _, err := module.Elections.CreateElection(context.Background(), commands.CreateElectionCommand{
		Actor:         "registrar-1",
		Title:         "Rogue Election",
		DurationHours: 1,
	}); !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected registrar blocked from lifecycle, got %v", err)
	}

	createElection(t, module, 2)

	if _, err := module.Elections.RegisterCandidate(context.Background(), commands.RegisterCandidateCommand{
		Actor: "registrar-1",
		Name:  "Mallory",
	}); !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected registrar blocked from candidate registry, got %v", err)
	}

	if _, err := module.Elections.RegisterVoter(context.Background(), commands.RegisterVoterCommand{
		Actor:     "voter-1",
		Principal: "voter-1",
	}); !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected non-registrar blocked from voter registry, got %v", err)
	}

	// The authority holds registrar rights implicitly.
	if _, err := module.Elections.RegisterVoter(context.Background(), commands.RegisterVoterCommand{
		Actor:     "authority-1",
		Principal: "voter-1",
	}); err != nil {
		t.Fatalf("expected authority to register voters, got %v", err)
	}
}
