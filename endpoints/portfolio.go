package endpoints

import (
	"errors"
	"net/http"
	"strings"

	"github.com/EasterCompany/dex-sprint-service/internal/insights"
	"github.com/EasterCompany/dex-sprint-service/internal/portfolio"
	"github.com/EasterCompany/dex-sprint-service/types"
	"github.com/EasterCompany/dex-sprint-service/utils"
)

// PortfolioResponse is the cached portfolio with its summary.
type PortfolioResponse struct {
	types.Portfolio
	Summary types.PortfolioSummary `json:"summary"`
}

// SyncRequest is the body of POST /api/portfolio/sync.
type SyncRequest struct {
	Provider string   `json:"provider"`
	Username string   `json:"username"`
	Token    string   `json:"token,omitempty"`
	Limit    int      `json:"limit"`
	Repos    []string `json:"repos,omitempty"`
}

func portfolioResponse(p types.Portfolio) PortfolioResponse {
	if p.Items == nil {
		p.Items = []types.PortfolioItem{}
	}
	return PortfolioResponse{Portfolio: p, Summary: insights.SummarizePortfolio(p.Items)}
}

// GetPortfolioHandler returns the last synced portfolio.
func GetPortfolioHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := d.Store.Load(r.Context())
		if err != nil {
			d.logger().Error("Storage: failed to load state", "error", err)
			utils.WriteError(w, http.StatusInternalServerError, "failed to load portfolio")
			return
		}
		utils.WriteJSON(w, http.StatusOK, portfolioResponse(state.Portfolio))
	}
}

// SyncPortfolioHandler pulls repositories from GitHub and stores them.
func SyncPortfolioHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SyncRequest
		if err := decodeBody(w, r, &req); err != nil {
			utils.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		provider := strings.ToLower(strings.TrimSpace(req.Provider))
		if provider == "" {
			provider = portfolio.ProviderGitHub
		}
		if provider != portfolio.ProviderGitHub {
			utils.WriteError(w, http.StatusBadRequest, "unsupported provider: "+req.Provider)
			return
		}
		if d.Portfolio == nil {
			utils.WriteError(w, http.StatusServiceUnavailable, "portfolio sync is not configured")
			return
		}

		limit := req.Limit
		if limit <= 0 {
			limit = d.Config.Portfolio.Limit
		}
		items, err := d.Portfolio.Sync(r.Context(), portfolio.SyncRequest{
			Username: req.Username,
			Token:    req.Token,
			Limit:    limit,
			Repos:    req.Repos,
		})
		if err != nil {
			status := syncErrorStatus(err)
			d.logger().Warn("Portfolio: sync failed", "username", req.Username, "status", status, "error", err)
			utils.WriteError(w, status, err.Error())
			return
		}

		synced := d.now().UTC()
		state, err := d.Store.SetPortfolio(r.Context(), types.Portfolio{
			Provider: provider,
			Username: strings.TrimSpace(req.Username),
			LastSync: &synced,
			Items:    items,
		})
		if err != nil {
			d.logger().Error("Storage: failed to save portfolio", "error", err)
			utils.WriteError(w, http.StatusInternalServerError, "failed to save portfolio")
			return
		}
		utils.WriteJSON(w, http.StatusOK, portfolioResponse(state.Portfolio))
	}
}

func syncErrorStatus(err error) int {
	switch {
	case errors.Is(err, portfolio.ErrUsernameRequired), errors.Is(err, portfolio.ErrInvalidName):
		return http.StatusBadRequest
	case errors.Is(err, portfolio.ErrUserNotFound), errors.Is(err, portfolio.ErrRepoNotFound):
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}
