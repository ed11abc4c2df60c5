package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateElectionRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	DurationHours int64  `json:"duration_hours"`
}

type ElectionResponse struct {
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	Active            bool      `json:"active"`
	ResultsPublished  bool      `json:"results_published"`
	CandidateIDs      []uint64  `json:"candidate_ids"`
	TotalVotes        uint64    `json:"total_votes"`
	WinnerCandidateID uint64    `json:"winner_candidate_id"`
}

type RegisterCandidateRequest struct {
	Name      string `json:"name"`
	Party     string `json:"party"`
	Manifesto string `json:"manifesto"`
}

type CandidateResponse struct {
	CandidateID  uint64    `json:"candidate_id"`
	Name         string    `json:"name"`
	Party        string    `json:"party"`
	Manifesto    string    `json:"manifesto"`
	VoteCount    uint64    `json:"vote_count"`
	Active       bool      `json:"active"`
	RegisteredAt time.Time `json:"registered_at"`
}

type CandidateListResponse struct {
	Items []CandidateResponse `json:"items"`
}

type RegisterVoterRequest struct {
	Principal string `json:"principal"`
}

type VoterStatusResponse struct {
	Principal        string     `json:"principal"`
	Registered       bool       `json:"registered"`
	HasVoted         bool       `json:"has_voted"`
	VotedCandidateID uint64     `json:"voted_candidate_id"`
	RegisteredAt     *time.Time `json:"registered_at,omitempty"`
	VotedAt          *time.Time `json:"voted_at,omitempty"`
}

type CastVoteRequest struct {
	CandidateID uint64 `json:"candidate_id"`
}

type ResultsResponse struct {
	WinnerCandidateID uint64 `json:"winner_candidate_id"`
	WinnerName        string `json:"winner_name"`
	WinnerParty       string `json:"winner_party"`
	WinningVotes      uint64 `json:"winning_votes"`
	TotalVotes        uint64 `json:"total_votes"`
}

type VotingStatsResponse struct {
	RegisteredVoters uint64 `json:"registered_voters"`
	VotesCast        uint64 `json:"votes_cast"`
	TurnoutPercent   uint64 `json:"turnout_percent"`
}
