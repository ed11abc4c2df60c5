package electionengine

import (
	"log/slog"

	httpadapter "electorate/contexts/election-operations/election-engine/adapters/http"
	"electorate/contexts/election-operations/election-engine/adapters/memory"
	"electorate/contexts/election-operations/election-engine/application/commands"
	"electorate/contexts/election-operations/election-engine/application/queries"
	"electorate/contexts/election-operations/election-engine/ports"
)

type Module struct {
	Handler   httpadapter.Handler
	Elections *commands.ElectionUseCase
	Store     *memory.Store
}

type Dependencies struct {
	Store  ports.ElectionRepository
	Access ports.AccessPolicy
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	electionUseCase := &commands.ElectionUseCase{
		Store:  deps.Store,
		Access: deps.Access,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}
	statusUseCase := queries.StatusUseCase{
		Store: deps.Store,
	}
	return Module{
		Handler: httpadapter.Handler{
			Elections: electionUseCase,
			Status:    statusUseCase,
			Logger:    deps.Logger,
		},
		Elections: electionUseCase,
	}
}

// NewInMemoryModule wires the module against the memory store with the given
// principal seeded as authority. Used by tests and local wiring.
func NewInMemoryModule(authority string, logger *slog.Logger) Module {
	store := memory.NewStore()
	store.SetAuthority(authority)
	module := NewModule(Dependencies{
		Store:  store,
		Access: store,
		Clock:  store,
		IDGen:  store,
		Logger: logger,
	})
	module.Store = store
	return module
}
