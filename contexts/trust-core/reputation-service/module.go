package reputationservice

import (
	"log/slog"

	httpadapter "tradepost/contexts/trust-core/reputation-service/adapters/http"
	"tradepost/contexts/trust-core/reputation-service/adapters/memory"
	"tradepost/contexts/trust-core/reputation-service/application/commands"
	"tradepost/contexts/trust-core/reputation-service/application/queries"
	"tradepost/contexts/trust-core/reputation-service/domain/entities"
	"tradepost/contexts/trust-core/reputation-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			TrackUser: commands.TrackUserUseCase{
				Repository: deps.Repository,
				Clock:      deps.Clock,
				IDGen:      deps.IDGen,
				Logger:     deps.Logger,
			},
			ApplyDelta: commands.ApplyDeltaUseCase{
				Repository: deps.Repository,
				Clock:      deps.Clock,
				Logger:     deps.Logger,
			},
			AdminAdjustments: commands.AdminAdjustmentsUseCase{
				Repository: deps.Repository,
				Clock:      deps.Clock,
				Logger:     deps.Logger,
			},
			RecordProfileView: commands.RecordProfileViewUseCase{
				Repository: deps.Repository,
				Clock:      deps.Clock,
				IDGen:      deps.IDGen,
				Logger:     deps.Logger,
			},
			Profile: queries.ProfileUseCase{
				Repository: deps.Repository,
				Clock:      deps.Clock,
				Logger:     deps.Logger,
			},
			Leaderboard: queries.LeaderboardUseCase{
				Repository: deps.Repository,
				Clock:      deps.Clock,
				Logger:     deps.Logger,
			},
			Logger: deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.RatingRow, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Repository: store,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
