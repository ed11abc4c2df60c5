package commission

import (
	"log/slog"
	"time"

	httpadapter "electorate/contexts/election-operations/commission-service/adapters/http"
	"electorate/contexts/election-operations/commission-service/adapters/memory"
	"electorate/contexts/election-operations/commission-service/application/commands"
	"electorate/contexts/election-operations/commission-service/application/queries"
	"electorate/contexts/election-operations/commission-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Roster  *commands.RosterUseCase
	Policy  queries.PolicyUseCase
	Store   *memory.Store
}

type Dependencies struct {
	Store  ports.CommissionRepository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	rosterUseCase := &commands.RosterUseCase{
		Store:  deps.Store,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}
	policyUseCase := queries.PolicyUseCase{
		Store: deps.Store,
	}
	return Module{
		Handler: httpadapter.Handler{
			Roster: rosterUseCase,
			Policy: policyUseCase,
			Logger: deps.Logger,
		},
		Roster: rosterUseCase,
		Policy: policyUseCase,
	}
}

// NewInMemoryModule wires the module against the memory store with the given
// principal seeded as authority. Used by tests and local wiring.
func NewInMemoryModule(authority string, logger *slog.Logger) Module {
	store := memory.NewStore()
	store.Seed(authority, time.Now().UTC())
	module := NewModule(Dependencies{
		Store:  store,
		Clock:  store,
		IDGen:  store,
		Logger: logger,
	})
	module.Store = store
	return module
}
