package endpoints

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/EasterCompany/dex-sprint-service/internal/insights"
	"github.com/EasterCompany/dex-sprint-service/types"
	"github.com/EasterCompany/dex-sprint-service/utils"
)

// snapshot loads the state and roadmap and derives insights from them.
func snapshot(ctx context.Context, d *Deps, now time.Time) (types.State, *types.Roadmap, types.Insights, error) {
	state, err := d.Store.Load(ctx)
	if err != nil {
		return types.State{}, nil, types.Insights{}, fmt.Errorf("failed to load state: %w", err)
	}
	roadmap, err := d.Roadmap.Load()
	if err != nil {
		return types.State{}, nil, types.Insights{}, fmt.Errorf("failed to load roadmap: %w", err)
	}
	return state, roadmap, insights.Build(state, roadmap, now), nil
}

// InsightsHandler serves the derived analytics document.
func InsightsHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, _, ins, err := snapshot(r.Context(), d, d.now())
		if err != nil {
			d.logger().Error("Insights: failed to build", "error", err)
			utils.WriteError(w, http.StatusInternalServerError, "failed to build insights")
			return
		}
		utils.WriteJSON(w, http.StatusOK, ins)
	}
}
