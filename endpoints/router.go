package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/EasterCompany/dex-sprint-service/middleware"
	"github.com/EasterCompany/dex-sprint-service/utils"
)

// NewRouter wires every route and the shared middleware. Unknown /api
// paths get a JSON 404; other paths fall through to the static site
// when PublicDir is configured.
func NewRouter(d *Deps) http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/roadmap", RoadmapHandler(d)).Methods(http.MethodGet)
	api.HandleFunc("/state", GetStateHandler(d)).Methods(http.MethodGet)
	api.HandleFunc("/state", UpdateStateHandler(d)).Methods(http.MethodPost)
	api.HandleFunc("/insights", InsightsHandler(d)).Methods(http.MethodGet)
	api.HandleFunc("/goals", GetGoalsHandler(d)).Methods(http.MethodGet)
	api.HandleFunc("/goals", UpdateGoalsHandler(d)).Methods(http.MethodPost)
	api.HandleFunc("/portfolio", GetPortfolioHandler(d)).Methods(http.MethodGet)
	api.HandleFunc("/portfolio/sync", SyncPortfolioHandler(d)).Methods(http.MethodPost)
	api.HandleFunc("/agent", AgentHandler(d)).Methods(http.MethodPost)

	r.HandleFunc("/service", ServiceHandler(d)).Methods(http.MethodGet)
	r.PathPrefix("/api").HandlerFunc(apiNotFound)

	if d.Config.PublicDir != "" {
		r.PathPrefix("/").Handler(StaticHandler(d.Config.PublicDir))
	} else {
		r.NotFoundHandler = http.HandlerFunc(apiNotFound)
	}

	var h http.Handler = r
	h = middleware.CoachHeader(h)
	h = middleware.CorsMiddleware(h)
	h = middleware.RequestLogger(d.logger())(h)
	return h
}

func apiNotFound(w http.ResponseWriter, r *http.Request) {
	utils.WriteError(w, http.StatusNotFound, "endpoint not found")
}
