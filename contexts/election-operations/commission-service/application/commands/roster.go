package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	application "electorate/contexts/election-operations/commission-service/application"
	"electorate/contexts/election-operations/commission-service/domain/entities"
	domainerrors "electorate/contexts/election-operations/commission-service/domain/errors"
	"electorate/contexts/election-operations/commission-service/ports"
)

type GrantRegistrarCommand struct {
	Actor     string
	Principal string
}

type RevokeRegistrarCommand struct {
	Actor     string
	Principal string
}

type TransferAuthorityCommand struct {
	Actor     string
	Principal string
}

// RosterUseCase serializes every roster mutation behind one mutex so grants,
// revocations, and authority transfer observe a consistent roster.
type RosterUseCase struct {
	Store  ports.CommissionRepository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger

	mu sync.Mutex
}

// GrantRegistrar adds an explicit registrar grant. Only the authority may
// grant; the authority itself never needs a grant.
func (uc *RosterUseCase) GrantRegistrar(ctx context.Context, cmd GrantRegistrarCommand) (entities.Registrar, error) {
	logger := application.ResolveLogger(uc.Logger)

	principal := strings.TrimSpace(cmd.Principal)
	if principal == "" {
		return entities.Registrar{}, domainerrors.ErrInvalidPrincipal
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	roster, err := uc.Store.GetRoster(ctx)
	if err != nil {
		return entities.Registrar{}, err
	}
	if err := requireAuthority(roster, cmd.Actor); err != nil {
		return entities.Registrar{}, err
	}
	if principal == roster.Authority || roster.HasRegistrar(principal) {
		return entities.Registrar{}, domainerrors.ErrRegistrarAlreadyGranted
	}

	now := uc.now()
	registrar := entities.Registrar{
		Principal: principal,
		GrantedBy: roster.Authority,
		GrantedAt: now,
	}
	envelope, err := uc.newEnvelope(ctx, "registrar.granted", principal, now, map[string]any{
		"principal":  principal,
		"granted_by": roster.Authority,
	})
	if err != nil {
		return entities.Registrar{}, err
	}
	if err := uc.Store.GrantRegistrar(ctx, registrar, envelope); err != nil {
		logger.Error("registrar grant write failed",
			"event", "commission_grant_registrar_failed",
			"module", "election-operations/commission-service",
			"layer", "application",
			"principal", principal,
			"error", err.Error(),
		)
		return entities.Registrar{}, err
	}

	logger.Info("registrar granted",
		"event", "commission_registrar_granted",
		"module", "election-operations/commission-service",
		"layer", "application",
		"principal", principal,
		"granted_by", roster.Authority,
	)
	return registrar, nil
}

// RevokeRegistrar removes an explicit grant. The authority's implicit
// registrar rights cannot be revoked.
func (uc *RosterUseCase) RevokeRegistrar(ctx context.Context, cmd RevokeRegistrarCommand) error {
	logger := application.ResolveLogger(uc.Logger)

	principal := strings.TrimSpace(cmd.Principal)
	if principal == "" {
		return domainerrors.ErrInvalidPrincipal
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	roster, err := uc.Store.GetRoster(ctx)
	if err != nil {
		return err
	}
	if err := requireAuthority(roster, cmd.Actor); err != nil {
		return err
	}
	if principal == roster.Authority {
		return domainerrors.ErrInvalidPrincipal
	}
	if !roster.HasRegistrar(principal) {
		return domainerrors.ErrRegistrarNotGranted
	}

	now := uc.now()
	envelope, err := uc.newEnvelope(ctx, "registrar.revoked", principal, now, map[string]any{
		"principal":  principal,
		"revoked_by": roster.Authority,
	})
	if err != nil {
		return err
	}
	if err := uc.Store.RevokeRegistrar(ctx, principal, envelope); err != nil {
		logger.Error("registrar revoke write failed",
			"event", "commission_revoke_registrar_failed",
			"module", "election-operations/commission-service",
			"layer", "application",
			"principal", principal,
			"error", err.Error(),
		)
		return err
	}

	logger.Info("registrar revoked",
		"event", "commission_registrar_revoked",
		"module", "election-operations/commission-service",
		"layer", "application",
		"principal", principal,
		"revoked_by", roster.Authority,
	)
	return nil
}

// TransferAuthority hands the authority role to another principal. The new
// authority holds registrar rights implicitly from that point on; the old
// authority keeps nothing.
func (uc *RosterUseCase) TransferAuthority(ctx context.Context, cmd TransferAuthorityCommand) error {
	logger := application.ResolveLogger(uc.Logger)

	principal := strings.TrimSpace(cmd.Principal)
	if principal == "" {
		return domainerrors.ErrInvalidPrincipal
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	roster, err := uc.Store.GetRoster(ctx)
	if err != nil {
		return err
	}
	if err := requireAuthority(roster, cmd.Actor); err != nil {
		return err
	}
	if principal == roster.Authority {
		return domainerrors.ErrInvalidPrincipal
	}

	now := uc.now()
	envelope, err := uc.newEnvelope(ctx, "authority.transferred", principal, now, map[string]any{
		"previous_authority": roster.Authority,
		"new_authority":      principal,
	})
	if err != nil {
		return err
	}
	if err := uc.Store.SetAuthority(ctx, principal, now, &envelope); err != nil {
		logger.Error("authority transfer write failed",
			"event", "commission_transfer_authority_failed",
			"module", "election-operations/commission-service",
			"layer", "application",
			"new_authority", principal,
			"error", err.Error(),
		)
		return err
	}

	logger.Warn("authority transferred",
		"event", "commission_authority_transferred",
		"module", "election-operations/commission-service",
		"layer", "application",
		"previous_authority", roster.Authority,
		"new_authority", principal,
	)
	return nil
}

func (uc *RosterUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func (uc *RosterUseCase) newEnvelope(
	ctx context.Context,
	eventType string,
	partitionKey string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	eventID := ""
	if uc.IDGen != nil {
		eventID, err = uc.IDGen.NewID(ctx)
		if err != nil {
			return ports.EventEnvelope{}, err
		}
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt,
		SourceService:    "commission-service",
		SchemaVersion:    1,
		PartitionKeyPath: "principal",
		PartitionKey:     partitionKey,
		Data:             payload,
	}, nil
}

func requireAuthority(roster entities.Roster, actor string) error {
	trimmed := strings.TrimSpace(actor)
	if roster.Authority == "" || trimmed != roster.Authority {
		return domainerrors.ErrUnauthorized
	}
	return nil
}
