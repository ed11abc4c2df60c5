package commands

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	application "electorate/contexts/election-operations/election-engine/application"
	"electorate/contexts/election-operations/election-engine/domain/entities"
	domainerrors "electorate/contexts/election-operations/election-engine/domain/errors"
	"electorate/contexts/election-operations/election-engine/ports"
)

// CreateElectionCommand opens a new election generation.
type CreateElectionCommand struct {
	Actor         string
	Title         string
	Description   string
	DurationHours int64
}

// EndElectionCommand closes the election and triggers the tally.
type EndElectionCommand struct {
	Actor string
}

// PublishResultsCommand exposes the computed winner to the query layer.
type PublishResultsCommand struct {
	Actor string
}

// PauseCommand is the administrative kill-switch; ResumeCommand reverses it
// while the window is still open.
type PauseCommand struct {
	Actor string
}

type ResumeCommand struct {
	Actor string
}

// ElectionUseCase orchestrates every mutating election operation. The mutex
// serializes mutations over the whole aggregate (election + candidates +
// voters + counters), so two concurrent casts cannot both pass the
// not-yet-voted check and a generation reset cannot race a vote. Queries
// bypass it and read consistent snapshots from the repository.
type ElectionUseCase struct {
	Store  ports.ElectionRepository
	Access ports.AccessPolicy
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger

	mu sync.Mutex
}

// CreateElection replaces the singleton record and clears the prior
// candidate generation. Voter rows survive: a principal who voted in an
// earlier generation stays marked as having voted.
func (uc *ElectionUseCase) CreateElection(ctx context.Context, cmd CreateElectionCommand) (entities.Election, error) {
	logger := application.ResolveLogger(uc.Logger)
	logger.Info("election create started",
		"event", "election_create_started",
		"module", "election-operations/election-engine",
		"layer", "application",
		"actor", strings.TrimSpace(cmd.Actor),
		"title", strings.TrimSpace(cmd.Title),
	)

	if err := uc.requireAuthority(ctx, cmd.Actor); err != nil {
		return entities.Election{}, err
	}
	title := strings.TrimSpace(cmd.Title)
	if title == "" || cmd.DurationHours <= 0 {
		logger.Warn("election create validation failed",
			"event", "election_create_validation_failed",
			"module", "election-operations/election-engine",
			"layer", "application",
			"actor", strings.TrimSpace(cmd.Actor),
			"duration_hours", cmd.DurationHours,
		)
		return entities.Election{}, domainerrors.ErrInvalidInput
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	now := uc.now()
	existing, found, err := uc.Store.GetElection(ctx)
	if err != nil {
		return entities.Election{}, err
	}
	if found && existing.Active && !existing.WindowElapsed(now) {
		return entities.Election{}, domainerrors.ErrElectionActive
	}

	counters, err := uc.Store.GetCounters(ctx)
	if err != nil {
		return entities.Election{}, err
	}
	counters.CandidateCounter = 0
	counters.TotalVotesCast = 0

	election := entities.Election{
		Title:        title,
		Description:  strings.TrimSpace(cmd.Description),
		StartTime:    now,
		EndTime:      now.Add(time.Duration(cmd.DurationHours) * time.Hour),
		Active:       true,
		CandidateIDs: []uint64{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	envelope, err := uc.newEnvelope(ctx, "election.created", title, "title", now, map[string]any{
		"title":          title,
		"description":    election.Description,
		"start_time":     now.Format(time.RFC3339),
		"end_time":       election.EndTime.Format(time.RFC3339),
		"duration_hours": cmd.DurationHours,
		"created_by":     strings.TrimSpace(cmd.Actor),
	})
	if err != nil {
		return entities.Election{}, err
	}
	if err := uc.Store.CreateGeneration(ctx, election, counters, envelope); err != nil {
		logger.Error("election create write failed",
			"event", "election_create_write_failed",
			"module", "election-operations/election-engine",
			"layer", "application",
			"actor", strings.TrimSpace(cmd.Actor),
			"error", err.Error(),
		)
		return entities.Election{}, err
	}

	logger.Info("election created",
		"event", "election_created",
		"module", "election-operations/election-engine",
		"layer", "application",
		"title", title,
		"start_time", now.Format(time.RFC3339),
		"end_time", election.EndTime.Format(time.RFC3339),
	)
	return election, nil
}

// EndElection deactivates the election once its window has elapsed and runs
// the tally exactly once, storing the winner on the singleton record.
func (uc *ElectionUseCase) EndElection(ctx context.Context, cmd EndElectionCommand) (entities.Election, error) {
	logger := application.ResolveLogger(uc.Logger)
	logger.Info("election end started",
		"event", "election_end_started",
		"module", "election-operations/election-engine",
		"layer", "application",
		"actor", strings.TrimSpace(cmd.Actor),
	)

	if err := uc.requireAuthority(ctx, cmd.Actor); err != nil {
		return entities.Election{}, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	now := uc.now()
	election, found, err := uc.Store.GetElection(ctx)
	if err != nil {
		return entities.Election{}, err
	}
	if !found || !election.Active {
		return entities.Election{}, domainerrors.ErrInvalidState
	}
	if now.Before(election.EndTime) {
		return entities.Election{}, domainerrors.ErrTimingViolation
	}

	candidates, err := uc.Store.ListCandidates(ctx)
	if err != nil {
		return entities.Election{}, err
	}
	winnerID, winningVotes := entities.TallyWinner(candidates)
	winnerName := ""
	for _, candidate := range candidates {
		if candidate.ID == winnerID {
			winnerName = candidate.Name
			break
		}
	}

	election.Active = false
	election.WinnerCandidateID = winnerID
	election.UpdatedAt = now

	envelope, err := uc.newEnvelope(ctx, "election.ended", election.Title, "title", now, map[string]any{
		"title":               election.Title,
		"total_votes":         election.TotalVotes,
		"winner_candidate_id": winnerID,
		"winner_name":         winnerName,
		"winning_votes":       winningVotes,
	})
	if err != nil {
		return entities.Election{}, err
	}
	if err := uc.Store.SaveElection(ctx, election, &envelope); err != nil {
		logger.Error("election end write failed",
			"event", "election_end_write_failed",
			"module", "election-operations/election-engine",
			"layer", "application",
			"actor", strings.TrimSpace(cmd.Actor),
			"error", err.Error(),
		)
		return entities.Election{}, err
	}

	logger.Info("election ended",
		"event", "election_ended",
		"module", "election-operations/election-engine",
		"layer", "application",
		"total_votes", election.TotalVotes,
		"winner_candidate_id", winnerID,
		"winner_name", winnerName,
	)
	return election, nil
}

// PublishResults flips ResultsPublished once the election is closed, making
// the results query visible to anyone.
func (uc *ElectionUseCase) PublishResults(ctx context.Context, cmd PublishResultsCommand) (entities.Election, error) {
	logger := application.ResolveLogger(uc.Logger)
	logger.Info("results publish started",
		"event", "election_publish_started",
		"module", "election-operations/election-engine",
		"layer", "application",
		"actor", strings.TrimSpace(cmd.Actor),
	)

	if err := uc.requireAuthority(ctx, cmd.Actor); err != nil {
		return entities.Election{}, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	now := uc.now()
	election, found, err := uc.Store.GetElection(ctx)
	if err != nil {
		return entities.Election{}, err
	}
	if !found || election.Active || election.ResultsPublished {
		return entities.Election{}, domainerrors.ErrInvalidState
	}

	winningVotes := uint64(0)
	if winner, ok, err := uc.Store.GetCandidate(ctx, election.WinnerCandidateID); err != nil {
		return entities.Election{}, err
	} else if ok {
		winningVotes = winner.VoteCount
	}

	election.ResultsPublished = true
	election.UpdatedAt = now

	envelope, err := uc.newEnvelope(ctx, "results.published", election.Title, "title", now, map[string]any{
		"title":               election.Title,
		"winner_candidate_id": election.WinnerCandidateID,
		"winning_votes":       winningVotes,
		"total_votes":         election.TotalVotes,
	})
	if err != nil {
		return entities.Election{}, err
	}
	if err := uc.Store.SaveElection(ctx, election, &envelope); err != nil {
		return entities.Election{}, err
	}

	logger.Info("results published",
		"event", "election_results_published",
		"module", "election-operations/election-engine",
		"layer", "application",
		"winner_candidate_id", election.WinnerCandidateID,
		"winning_votes", winningVotes,
	)
	return election, nil
}

// Pause deactivates voting regardless of the window without touching
// tallies.
func (uc *ElectionUseCase) Pause(ctx context.Context, cmd PauseCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	if err := uc.requireAuthority(ctx, cmd.Actor); err != nil {
		return err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	election, found, err := uc.Store.GetElection(ctx)
	if err != nil {
		return err
	}
	if !found {
		return domainerrors.ErrInvalidState
	}
	election.Active = false
	election.UpdatedAt = uc.now()
	if err := uc.Store.SaveElection(ctx, election, nil); err != nil {
		return err
	}
	logger.Warn("election paused",
		"event", "election_paused",
		"module", "election-operations/election-engine",
		"layer", "application",
		"actor", strings.TrimSpace(cmd.Actor),
		"title", election.Title,
	)
	return nil
}

// Resume reactivates a paused election while its window is still open.
func (uc *ElectionUseCase) Resume(ctx context.Context, cmd ResumeCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	if err := uc.requireAuthority(ctx, cmd.Actor); err != nil {
		return err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	now := uc.now()
	election, found, err := uc.Store.GetElection(ctx)
	if err != nil {
		return err
	}
	if !found {
		return domainerrors.ErrInvalidState
	}
	if now.After(election.EndTime) {
		return domainerrors.ErrTimingViolation
	}
	election.Active = true
	election.UpdatedAt = now
	if err := uc.Store.SaveElection(ctx, election, nil); err != nil {
		return err
	}
	logger.Info("election resumed",
		"event", "election_resumed",
		"module", "election-operations/election-engine",
		"layer", "application",
		"actor", strings.TrimSpace(cmd.Actor),
		"title", election.Title,
	)
	return nil
}

func (uc *ElectionUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func (uc *ElectionUseCase) requireAuthority(ctx context.Context, principal string) error {
	ok, err := uc.Access.IsAuthority(ctx, strings.TrimSpace(principal))
	if err != nil {
		return err
	}
	if !ok {
		return domainerrors.ErrUnauthorized
	}
	return nil
}

func (uc *ElectionUseCase) requireRegistrar(ctx context.Context, principal string) error {
	ok, err := uc.Access.IsRegistrar(ctx, strings.TrimSpace(principal))
	if err != nil {
		return err
	}
	if !ok {
		return domainerrors.ErrUnauthorized
	}
	return nil
}
