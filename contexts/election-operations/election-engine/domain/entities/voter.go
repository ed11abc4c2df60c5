package entities

import "time"

// Voter is keyed by principal identifier. Records persist across election
// generations and HasVoted only ever transitions false to true, so a
// principal votes at most once for the lifetime of the registry.
type Voter struct {
	Principal        string
	Registered       bool
	HasVoted         bool
	VotedCandidateID uint64
	RegisteredAt     time.Time
	VotedAt          time.Time
}
