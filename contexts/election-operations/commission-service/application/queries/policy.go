package queries

import (
	"context"
	"strings"

	"electorate/contexts/election-operations/commission-service/domain/entities"
	"electorate/contexts/election-operations/commission-service/ports"
)

// PolicyUseCase answers role questions against the roster. Its method set is
// shaped so runtime wiring can hand it to other modules as their access
// policy without an import between the modules.
type PolicyUseCase struct {
	Store ports.CommissionRepository
}

func (q PolicyUseCase) IsAuthority(ctx context.Context, principal string) (bool, error) {
	roster, err := q.Store.GetRoster(ctx)
	if err != nil {
		return false, err
	}
	trimmed := strings.TrimSpace(principal)
	return roster.Authority != "" && trimmed == roster.Authority, nil
}

// IsRegistrar reports explicit grants plus the authority's implicit rights.
func (q PolicyUseCase) IsRegistrar(ctx context.Context, principal string) (bool, error) {
	roster, err := q.Store.GetRoster(ctx)
	if err != nil {
		return false, err
	}
	trimmed := strings.TrimSpace(principal)
	if roster.Authority != "" && trimmed == roster.Authority {
		return true, nil
	}
	return roster.HasRegistrar(trimmed), nil
}

// Roster returns the full membership snapshot.
func (q PolicyUseCase) Roster(ctx context.Context) (entities.Roster, error) {
	return q.Store.GetRoster(ctx)
}
