package commands

import (
	"context"
	"strings"

	application "electorate/contexts/election-operations/election-engine/application"
	"electorate/contexts/election-operations/election-engine/domain/entities"
	domainerrors "electorate/contexts/election-operations/election-engine/domain/errors"
)

// RegisterVoterCommand enrolls a principal into the voter registry.
type RegisterVoterCommand struct {
	Actor     string
	Principal string
}

// RegisterVoter creates a permanent voter record. There is no
// deregistration and records survive election resets.
func (uc *ElectionUseCase) RegisterVoter(ctx context.Context, cmd RegisterVoterCommand) (entities.Voter, error) {
	logger := application.ResolveLogger(uc.Logger)
	logger.Info("voter register started",
		"event", "election_voter_register_started",
		"module", "election-operations/election-engine",
		"layer", "application",
		"actor", strings.TrimSpace(cmd.Actor),
		"principal", strings.TrimSpace(cmd.Principal),
	)

	if err := uc.requireRegistrar(ctx, cmd.Actor); err != nil {
		return entities.Voter{}, err
	}
	principal := strings.TrimSpace(cmd.Principal)
	if principal == "" {
		return entities.Voter{}, domainerrors.ErrInvalidInput
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	now := uc.now()
	if existing, found, err := uc.Store.GetVoter(ctx, principal); err != nil {
		return entities.Voter{}, err
	} else if found && existing.Registered {
		return entities.Voter{}, domainerrors.ErrVoterAlreadyRegistered
	}

	counters, err := uc.Store.GetCounters(ctx)
	if err != nil {
		return entities.Voter{}, err
	}
	counters.RegisteredVoters++

	voter := entities.Voter{
		Principal:    principal,
		Registered:   true,
		RegisteredAt: now,
	}
	envelope, err := uc.newEnvelope(ctx, "voter.registered", principal, "principal", now, map[string]any{
		"principal":     principal,
		"registered_by": strings.TrimSpace(cmd.Actor),
	})
	if err != nil {
		return entities.Voter{}, err
	}
	if err := uc.Store.AddVoter(ctx, voter, counters, envelope); err != nil {
		logger.Error("voter register write failed",
			"event", "election_voter_register_write_failed",
			"module", "election-operations/election-engine",
			"layer", "application",
			"principal", principal,
			"error", err.Error(),
		)
		return entities.Voter{}, err
	}

	logger.Info("voter registered",
		"event", "election_voter_registered",
		"module", "election-operations/election-engine",
		"layer", "application",
		"principal", principal,
		"registered_by", strings.TrimSpace(cmd.Actor),
	)
	return voter, nil
}
