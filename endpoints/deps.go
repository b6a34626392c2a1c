package endpoints

import (
	"context"
	"log/slog"
	"time"

	"github.com/EasterCompany/dex-sprint-service/config"
	"github.com/EasterCompany/dex-sprint-service/internal/agent"
	"github.com/EasterCompany/dex-sprint-service/internal/portfolio"
	"github.com/EasterCompany/dex-sprint-service/internal/store"
	"github.com/EasterCompany/dex-sprint-service/types"
)

// RoadmapSource provides the current roadmap.
type RoadmapSource interface {
	Load() (*types.Roadmap, error)
}

// PortfolioSyncer pulls portfolio items from a provider.
type PortfolioSyncer interface {
	Sync(ctx context.Context, req portfolio.SyncRequest) ([]types.PortfolioItem, error)
}

// Planner produces agent plans.
type Planner interface {
	Plan(ctx context.Context, req agent.Request, pc agent.Context, now time.Time) agent.Response
}

// Deps are the collaborators shared by every handler.
type Deps struct {
	Store     *store.Store
	Roadmap   RoadmapSource
	Portfolio PortfolioSyncer
	Planner   Planner
	Config    config.ServiceConfig
	Logger    *slog.Logger
	Now       func() time.Time
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d *Deps) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}
