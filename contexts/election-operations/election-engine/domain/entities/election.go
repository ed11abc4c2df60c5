package entities

import "time"

// Election is the singleton lifecycle record. CreateElection replaces it
// wholesale; the candidate set belongs to exactly one election generation.
type Election struct {
	Title             string
	Description       string
	StartTime         time.Time
	EndTime           time.Time
	Active            bool
	ResultsPublished  bool
	CandidateIDs      []uint64
	TotalVotes        uint64
	WinnerCandidateID uint64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// WindowElapsed reports whether the voting window has passed.
func (e Election) WindowElapsed(now time.Time) bool {
	return now.After(e.EndTime)
}

// InVotingWindow reports whether now lies inside [StartTime, EndTime].
func (e Election) InVotingWindow(now time.Time) bool {
	return !now.Before(e.StartTime) && !now.After(e.EndTime)
}

// Counters are the generation-scoped and global scalar counters persisted
// alongside the election record. CandidateCounter and TotalVotesCast reset
// on each new generation; RegisteredVoters never does.
type Counters struct {
	CandidateCounter uint64
	RegisteredVoters uint64
	TotalVotesCast   uint64
}

// VotingStats is the read-model turnout projection.
type VotingStats struct {
	RegisteredVoters uint64
	VotesCast        uint64
	TurnoutPercent   uint64
}

// ElectionResults is the published-results read model. Winner may be a
// zero-valued record when no votes were cast and id 0 holds no candidate.
type ElectionResults struct {
	WinnerCandidateID uint64
	Winner            Candidate
	WinningVotes      uint64
	TotalVotes        uint64
}

// TallyWinner scans candidates in registration order and keeps the first
// candidate whose count is strictly greater than the running maximum, so a
// later candidate tying the leader does not overtake it. With no votes the
// result degenerates to id 0 with zero votes, whether or not id 0 exists.
func TallyWinner(candidates []Candidate) (winnerID uint64, maxVotes uint64) {
	for _, candidate := range candidates {
		if candidate.VoteCount > maxVotes {
			maxVotes = candidate.VoteCount
			winnerID = candidate.ID
		}
	}
	return winnerID, maxVotes
}
