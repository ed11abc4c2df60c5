package errors

import "errors"

var (
	ErrUnauthorized           = errors.New("caller is not authorized for this operation")
	ErrElectionActive         = errors.New("an election is still active")
	ErrInvalidInput           = errors.New("invalid election input")
	ErrInvalidState           = errors.New("operation not valid in current election state")
	ErrTimingViolation        = errors.New("operation outside its allowed time window")
	ErrVoterAlreadyRegistered = errors.New("voter is already registered")
	ErrVoterNotRegistered     = errors.New("voter is not registered")
	ErrAlreadyVoted           = errors.New("voter has already cast a vote")
	ErrVotingClosed           = errors.New("election is not in its voting period")
	ErrInvalidCandidate       = errors.New("candidate is unknown or inactive")
	ErrCandidateNotFound      = errors.New("candidate not found")
	ErrResultsNotPublished    = errors.New("election results are not published")
)
