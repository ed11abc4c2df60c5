package queries

import (
	"context"
	"strings"

	"electorate/contexts/election-operations/election-engine/domain/entities"
	domainerrors "electorate/contexts/election-operations/election-engine/domain/errors"
	"electorate/contexts/election-operations/election-engine/ports"
)

// StatusUseCase serves the read-only projections. Reads carry no access
// restriction and never mutate state.
type StatusUseCase struct {
	Store ports.ElectionRepository
}

// ElectionDetails returns the singleton record, zero-valued when no
// election has been created yet.
func (uc StatusUseCase) ElectionDetails(ctx context.Context) (entities.Election, error) {
	election, _, err := uc.Store.GetElection(ctx)
	return election, err
}

// CandidateDetails fails for ids the current generation never assigned.
func (uc StatusUseCase) CandidateDetails(ctx context.Context, candidateID uint64) (entities.Candidate, error) {
	counters, err := uc.Store.GetCounters(ctx)
	if err != nil {
		return entities.Candidate{}, err
	}
	if candidateID >= counters.CandidateCounter {
		return entities.Candidate{}, domainerrors.ErrCandidateNotFound
	}
	candidate, found, err := uc.Store.GetCandidate(ctx, candidateID)
	if err != nil {
		return entities.Candidate{}, err
	}
	if !found {
		return entities.Candidate{}, domainerrors.ErrCandidateNotFound
	}
	return candidate, nil
}

// VoterStatus returns a zero-valued record for never-registered principals
// rather than failing.
func (uc StatusUseCase) VoterStatus(ctx context.Context, principal string) (entities.Voter, error) {
	voter, found, err := uc.Store.GetVoter(ctx, strings.TrimSpace(principal))
	if err != nil {
		return entities.Voter{}, err
	}
	if !found {
		return entities.Voter{Principal: strings.TrimSpace(principal)}, nil
	}
	return voter, nil
}

// AllCandidates lists the current generation in registration order.
func (uc StatusUseCase) AllCandidates(ctx context.Context) ([]entities.Candidate, error) {
	return uc.Store.ListCandidates(ctx)
}

// ElectionResults is gated on the election being closed and published. The
// winner record may be zero-valued for the degenerate id-0 winner of a
// zero-vote election.
func (uc StatusUseCase) ElectionResults(ctx context.Context) (entities.ElectionResults, error) {
	election, found, err := uc.Store.GetElection(ctx)
	if err != nil {
		return entities.ElectionResults{}, err
	}
	if !found || election.Active || !election.ResultsPublished {
		return entities.ElectionResults{}, domainerrors.ErrResultsNotPublished
	}
	results := entities.ElectionResults{
		WinnerCandidateID: election.WinnerCandidateID,
		TotalVotes:        election.TotalVotes,
	}
	if winner, ok, err := uc.Store.GetCandidate(ctx, election.WinnerCandidateID); err != nil {
		return entities.ElectionResults{}, err
	} else if ok {
		results.Winner = winner
		results.WinningVotes = winner.VoteCount
	}
	return results, nil
}

// VotingStats reports registered voters, votes cast, and integer turnout.
// Turnout is 0 when nobody is registered.
func (uc StatusUseCase) VotingStats(ctx context.Context) (entities.VotingStats, error) {
	counters, err := uc.Store.GetCounters(ctx)
	if err != nil {
		return entities.VotingStats{}, err
	}
	stats := entities.VotingStats{
		RegisteredVoters: counters.RegisteredVoters,
		VotesCast:        counters.TotalVotesCast,
	}
	if counters.RegisteredVoters > 0 {
		stats.TurnoutPercent = counters.TotalVotesCast * 100 / counters.RegisteredVoters
	}
	return stats, nil
}
