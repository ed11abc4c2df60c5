package commands

import (
	"context"
	"strings"
	"time"

	application "electorate/contexts/election-operations/election-engine/application"
	"electorate/contexts/election-operations/election-engine/domain/entities"
	domainerrors "electorate/contexts/election-operations/election-engine/domain/errors"
	"electorate/contexts/election-operations/election-engine/ports"
)

// CastVoteCommand records one vote for a candidate of the current
// generation.
type CastVoteCommand struct {
	Actor       string
	CandidateID uint64
}

// CastVote checks, in order: the caller is a registered voter, the election
// is active with now inside its window, the caller has not voted, and the
// candidate exists and is active. Every check holds before any mutation;
// the voter flag, the candidate tally, and both vote counters then change
// as one atomic unit.
func (uc *ElectionUseCase) CastVote(ctx context.Context, cmd CastVoteCommand) (entities.Voter, error) {
	logger := application.ResolveLogger(uc.Logger)
	principal := strings.TrimSpace(cmd.Actor)
	logger.Info("vote cast started",
		"event", "election_vote_cast_started",
		"module", "election-operations/election-engine",
		"layer", "application",
		"principal", principal,
		"candidate_id", cmd.CandidateID,
	)

	uc.mu.Lock()
	defer uc.mu.Unlock()

	now := uc.now()
	voter, found, err := uc.Store.GetVoter(ctx, principal)
	if err != nil {
		return entities.Voter{}, err
	}
	if !found || !voter.Registered {
		return entities.Voter{}, domainerrors.ErrVoterNotRegistered
	}

	election, found, err := uc.Store.GetElection(ctx)
	if err != nil {
		return entities.Voter{}, err
	}
	if !found || !election.Active || !election.InVotingWindow(now) {
		logger.Warn("vote cast outside voting period",
			"event", "election_vote_cast_window_closed",
			"module", "election-operations/election-engine",
			"layer", "application",
			"principal", principal,
		)
		return entities.Voter{}, domainerrors.ErrVotingClosed
	}
	if voter.HasVoted {
		return entities.Voter{}, domainerrors.ErrAlreadyVoted
	}

	candidate, found, err := uc.Store.GetCandidate(ctx, cmd.CandidateID)
	if err != nil {
		return entities.Voter{}, err
	}
	if !found || !candidate.Active {
		return entities.Voter{}, domainerrors.ErrInvalidCandidate
	}

	voter.HasVoted = true
	voter.VotedCandidateID = candidate.ID
	voter.VotedAt = now

	candidate.VoteCount++
	election.TotalVotes++
	election.UpdatedAt = now

	counters, err := uc.Store.GetCounters(ctx)
	if err != nil {
		return entities.Voter{}, err
	}
	counters.TotalVotesCast++

	envelope, err := uc.newEnvelope(ctx, "vote.cast", principal, "principal", now, map[string]any{
		"principal":    principal,
		"candidate_id": candidate.ID,
		"occurred_at":  now.Format(time.RFC3339),
	})
	if err != nil {
		return entities.Voter{}, err
	}
	if err := uc.Store.ApplyVote(ctx, ports.ApplyVoteInput{
		Voter:     voter,
		Candidate: candidate,
		Election:  election,
		Counters:  counters,
		Envelope:  envelope,
	}); err != nil {
		logger.Error("vote cast write failed",
			"event", "election_vote_cast_write_failed",
			"module", "election-operations/election-engine",
			"layer", "application",
			"principal", principal,
			"candidate_id", candidate.ID,
			"error", err.Error(),
		)
		return entities.Voter{}, err
	}

	logger.Info("vote cast",
		"event", "election_vote_cast",
		"module", "election-operations/election-engine",
		"layer", "application",
		"principal", principal,
		"candidate_id", candidate.ID,
		"total_votes", election.TotalVotes,
	)
	return voter, nil
}
