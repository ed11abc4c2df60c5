package commands

import (
	"context"
	"strings"
	"time"

	application "electorate/contexts/election-operations/election-engine/application"
	"electorate/contexts/election-operations/election-engine/domain/entities"
	domainerrors "electorate/contexts/election-operations/election-engine/domain/errors"
)

// RegisterCandidateCommand enrolls a candidate into the current generation.
type RegisterCandidateCommand struct {
	Actor     string
	Name      string
	Party     string
	Manifesto string
}

// RegisterCandidate assigns the next sequential id and appends it to the
// election's candidate sequence. Registration order is semantically
// significant: the tally breaks ties in favor of the earliest-registered
// candidate. Enrollment is valid only until the voting window opens; a call
// at the creation instant succeeds, one tick later fails.
func (uc *ElectionUseCase) RegisterCandidate(ctx context.Context, cmd RegisterCandidateCommand) (entities.Candidate, error) {
	logger := application.ResolveLogger(uc.Logger)
	logger.Info("candidate register started",
		"event", "election_candidate_register_started",
		"module", "election-operations/election-engine",
		"layer", "application",
		"actor", strings.TrimSpace(cmd.Actor),
		"name", strings.TrimSpace(cmd.Name),
	)

	if err := uc.requireAuthority(ctx, cmd.Actor); err != nil {
		return entities.Candidate{}, err
	}
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return entities.Candidate{}, domainerrors.ErrInvalidInput
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	now := uc.now()
	election, found, err := uc.Store.GetElection(ctx)
	if err != nil {
		return entities.Candidate{}, err
	}
	if !found || !election.Active {
		return entities.Candidate{}, domainerrors.ErrInvalidState
	}
	if now.After(election.StartTime) {
		logger.Warn("candidate register window closed",
			"event", "election_candidate_register_window_closed",
			"module", "election-operations/election-engine",
			"layer", "application",
			"name", name,
			"start_time", election.StartTime.Format(time.RFC3339),
		)
		return entities.Candidate{}, domainerrors.ErrTimingViolation
	}

	counters, err := uc.Store.GetCounters(ctx)
	if err != nil {
		return entities.Candidate{}, err
	}
	candidate := entities.Candidate{
		ID:           counters.CandidateCounter,
		Name:         name,
		Party:        strings.TrimSpace(cmd.Party),
		Manifesto:    strings.TrimSpace(cmd.Manifesto),
		VoteCount:    0,
		Active:       true,
		RegisteredAt: now,
	}
	counters.CandidateCounter++

	election.CandidateIDs = append(election.CandidateIDs, candidate.ID)
	election.UpdatedAt = now

	envelope, err := uc.newEnvelope(ctx, "candidate.registered", name, "name", now, map[string]any{
		"candidate_id": candidate.ID,
		"name":         candidate.Name,
		"party":        candidate.Party,
	})
	if err != nil {
		return entities.Candidate{}, err
	}
	if err := uc.Store.AddCandidate(ctx, candidate, election, counters, envelope); err != nil {
		logger.Error("candidate register write failed",
			"event", "election_candidate_register_write_failed",
			"module", "election-operations/election-engine",
			"layer", "application",
			"name", name,
			"error", err.Error(),
		)
		return entities.Candidate{}, err
	}

	logger.Info("candidate registered",
		"event", "election_candidate_registered",
		"module", "election-operations/election-engine",
		"layer", "application",
		"candidate_id", candidate.ID,
		"name", candidate.Name,
		"party", candidate.Party,
	)
	return candidate, nil
}
