package listingworkflow

import (
	"context"
	"log/slog"

	httpadapter "tradepost/contexts/moderation-safety/listing-workflow/adapters/http"
	"tradepost/contexts/moderation-safety/listing-workflow/adapters/memory"
	"tradepost/contexts/moderation-safety/listing-workflow/application/commands"
	"tradepost/contexts/moderation-safety/listing-workflow/application/queries"
	"tradepost/contexts/moderation-safety/listing-workflow/application/workers"
	"tradepost/contexts/moderation-safety/listing-workflow/domain/entities"
	"tradepost/contexts/moderation-safety/listing-workflow/ports"
)

type Module struct {
	Handler     httpadapter.Handler
	ExpirySweep workers.ExpirySweepJob
	OutboxRelay workers.OutboxRelayJob
	Store       *memory.Store
}

type Dependencies struct {
	Repository     ports.Repository
	Publisher      ports.PublishClient
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	SweepBatchSize int
	SweepDisabled  bool
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			Submit: commands.SubmitRequestUseCase{
				Repository: deps.Repository,
				Clock:      deps.Clock,
				IDGen:      deps.IDGen,
				Logger:     deps.Logger,
			},
			Edit: commands.EditRequestUseCase{
				Repository: deps.Repository,
				Clock:      deps.Clock,
				Logger:     deps.Logger,
			},
			Review: commands.ReviewRequestUseCase{
				Repository: deps.Repository,
				Publisher:  deps.Publisher,
				Clock:      deps.Clock,
				IDGen:      deps.IDGen,
				Logger:     deps.Logger,
			},
			Complete: commands.CompleteRequestUseCase{
				Repository: deps.Repository,
				Clock:      deps.Clock,
				Logger:     deps.Logger,
			},
			Queries: queries.QueryUseCase{
				Repository: deps.Repository,
				Clock:      deps.Clock,
				Logger:     deps.Logger,
			},
			Logger: deps.Logger,
		},
		ExpirySweep: workers.ExpirySweepJob{
			Repository: deps.Repository,
			Clock:      deps.Clock,
			BatchSize:  deps.SweepBatchSize,
			Disabled:   deps.SweepDisabled,
			Logger:     deps.Logger,
		},
		OutboxRelay: workers.OutboxRelayJob{
			Repository: deps.Repository,
			Publisher:  deps.Publisher,
			Clock:      deps.Clock,
			BatchSize:  deps.SweepBatchSize,
			Logger:     deps.Logger,
		},
	}
}

// NoopPublisher accepts every listing. In-memory wiring and tests that do
// not care about the publish hand-off use it.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, entities.PublishedListing) error { return nil }

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Publisher:  NoopPublisher{},
		Clock:      memory.Clock{},
		IDGen:      memory.IDGenerator{},
		Logger:     logger,
	})
	module.Store = store
	return module
}
