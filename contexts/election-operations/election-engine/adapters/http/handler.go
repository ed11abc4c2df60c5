package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"electorate/contexts/election-operations/election-engine/application/commands"
	"electorate/contexts/election-operations/election-engine/application/queries"
	"electorate/contexts/election-operations/election-engine/domain/entities"
	httptransport "electorate/contexts/election-operations/election-engine/transport/http"
)

type Handler struct {
	Elections *commands.ElectionUseCase
	Status    queries.StatusUseCase
	Logger    *slog.Logger
}

func (h Handler) CreateElectionHandler(
	ctx context.Context,
	actor string,
	req httptransport.CreateElectionRequest,
) (httptransport.ElectionResponse, error) {
	election, err := h.Elections.CreateElection(ctx, commands.CreateElectionCommand{
		Actor:         actor,
		Title:         req.Title,
		Description:   req.Description,
		DurationHours: req.DurationHours,
	})
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return mapElection(election), nil
}

func (h Handler) RegisterCandidateHandler(
	ctx context.Context,
	actor string,
	req httptransport.RegisterCandidateRequest,
) (httptransport.CandidateResponse, error) {
	candidate, err := h.Elections.RegisterCandidate(ctx, commands.RegisterCandidateCommand{
		Actor:     actor,
		Name:      req.Name,
		Party:     req.Party,
		Manifesto: req.Manifesto,
	})
	if err != nil {
		return httptransport.CandidateResponse{}, err
	}
	return mapCandidate(candidate), nil
}

func (h Handler) RegisterVoterHandler(
	ctx context.Context,
	actor string,
	req httptransport.RegisterVoterRequest,
) (httptransport.VoterStatusResponse, error) {
	voter, err := h.Elections.RegisterVoter(ctx, commands.RegisterVoterCommand{
		Actor:     actor,
		Principal: req.Principal,
	})
	if err != nil {
		return httptransport.VoterStatusResponse{}, err
	}
	return mapVoter(voter), nil
}

func (h Handler) CastVoteHandler(
	ctx context.Context,
	actor string,
	req httptransport.CastVoteRequest,
) (httptransport.VoterStatusResponse, error) {
	voter, err := h.Elections.CastVote(ctx, commands.CastVoteCommand{
		Actor:       actor,
		CandidateID: req.CandidateID,
	})
	if err != nil {
		return httptransport.VoterStatusResponse{}, err
	}
	return mapVoter(voter), nil
}

func (h Handler) EndElectionHandler(ctx context.Context, actor string) (httptransport.ElectionResponse, error) {
	election, err := h.Elections.EndElection(ctx, commands.EndElectionCommand{Actor: actor})
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return mapElection(election), nil
}

func (h Handler) PublishResultsHandler(ctx context.Context, actor string) (httptransport.ElectionResponse, error) {
	election, err := h.Elections.PublishResults(ctx, commands.PublishResultsCommand{Actor: actor})
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return mapElection(election), nil
}

func (h Handler) PauseHandler(ctx context.Context, actor string) error {
	return h.Elections.Pause(ctx, commands.PauseCommand{Actor: actor})
}

func (h Handler) ResumeHandler(ctx context.Context, actor string) error {
	return h.Elections.Resume(ctx, commands.ResumeCommand{Actor: actor})
}

func (h Handler) ElectionDetailsHandler(ctx context.Context) (httptransport.ElectionResponse, error) {
	election, err := h.Status.ElectionDetails(ctx)
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return mapElection(election), nil
}

func (h Handler) CandidateDetailsHandler(ctx context.Context, candidateID uint64) (httptransport.CandidateResponse, error) {
	candidate, err := h.Status.CandidateDetails(ctx, candidateID)
	if err != nil {
		return httptransport.CandidateResponse{}, err
	}
	return mapCandidate(candidate), nil
}

func (h Handler) VoterStatusHandler(ctx context.Context, principal string) (httptransport.VoterStatusResponse, error) {
	voter, err := h.Status.VoterStatus(ctx, principal)
	if err != nil {
		return httptransport.VoterStatusResponse{}, err
	}
	return mapVoter(voter), nil
}

func (h Handler) AllCandidatesHandler(ctx context.Context) (httptransport.CandidateListResponse, error) {
	candidates, err := h.Status.AllCandidates(ctx)
	if err != nil {
		return httptransport.CandidateListResponse{}, err
	}
	items := make([]httptransport.CandidateResponse, 0, len(candidates))
	for _, candidate := range candidates {
		items = append(items, mapCandidate(candidate))
	}
	return httptransport.CandidateListResponse{Items: items}, nil
}

func (h Handler) ElectionResultsHandler(ctx context.Context) (httptransport.ResultsResponse, error) {
	results, err := h.Status.ElectionResults(ctx)
	if err != nil {
		return httptransport.ResultsResponse{}, err
	}
	return httptransport.ResultsResponse{
		WinnerCandidateID: results.WinnerCandidateID,
		WinnerName:        results.Winner.Name,
		WinnerParty:       results.Winner.Party,
		WinningVotes:      results.WinningVotes,
		TotalVotes:        results.TotalVotes,
	}, nil
}

func (h Handler) VotingStatsHandler(ctx context.Context) (httptransport.VotingStatsResponse, error) {
	stats, err := h.Status.VotingStats(ctx)
	if err != nil {
		return httptransport.VotingStatsResponse{}, err
	}
	return httptransport.VotingStatsResponse{
		RegisteredVoters: stats.RegisteredVoters,
		VotesCast:        stats.VotesCast,
		TurnoutPercent:   stats.TurnoutPercent,
	}, nil
}

func mapElection(election entities.Election) httptransport.ElectionResponse {
	return httptransport.ElectionResponse{
		Title:             election.Title,
		Description:       election.Description,
		StartTime:         election.StartTime,
		EndTime:           election.EndTime,
		Active:            election.Active,
		ResultsPublished:  election.ResultsPublished,
		CandidateIDs:      append([]uint64{}, election.CandidateIDs...),
		TotalVotes:        election.TotalVotes,
		WinnerCandidateID: election.WinnerCandidateID,
	}
}

func mapCandidate(candidate entities.Candidate) httptransport.CandidateResponse {
	return httptransport.CandidateResponse{
		CandidateID:  candidate.ID,
		Name:         candidate.Name,
		Party:        candidate.Party,
		Manifesto:    candidate.Manifesto,
		VoteCount:    candidate.VoteCount,
		Active:       candidate.Active,
		RegisteredAt: candidate.RegisteredAt,
	}
}

func mapVoter(voter entities.Voter) httptransport.VoterStatusResponse {
	resp := httptransport.VoterStatusResponse{
		Principal:        voter.Principal,
		Registered:       voter.Registered,
		HasVoted:         voter.HasVoted,
		VotedCandidateID: voter.VotedCandidateID,
	}
	resp.RegisteredAt = optionalTime(voter.RegisteredAt)
	resp.VotedAt = optionalTime(voter.VotedAt)
	return resp
}

func optionalTime(value time.Time) *time.Time {
	if value.IsZero() {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}
