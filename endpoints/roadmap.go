package endpoints

import (
	"net/http"

	"github.com/EasterCompany/dex-sprint-service/utils"
)

// RoadmapHandler serves the curriculum document.
func RoadmapHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roadmap, err := d.Roadmap.Load()
		if err != nil {
			d.logger().Error("Roadmap: failed to load", "error", err)
			utils.WriteError(w, http.StatusInternalServerError, "failed to load roadmap")
			return
		}
		utils.WriteJSON(w, http.StatusOK, roadmap)
	}
}
