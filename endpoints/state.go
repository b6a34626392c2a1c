package endpoints

import (
	"errors"
	"net/http"

	"github.com/EasterCompany/dex-sprint-service/internal/store"
	"github.com/EasterCompany/dex-sprint-service/utils"
)

// GetStateHandler returns the normalized state document.
func GetStateHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := d.Store.Load(r.Context())
		if err != nil {
			d.logger().Error("Storage: failed to load state", "error", err)
			utils.WriteError(w, http.StatusInternalServerError, "failed to load state")
			return
		}
		utils.WriteJSON(w, http.StatusOK, state)
	}
}

// UpdateStateHandler applies a partial update and returns the new state.
func UpdateStateHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := readBody(w, r)
		if err != nil {
			utils.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		patch, err := store.ParsePatch(body)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, store.ErrInvalidPatch) {
				status = http.StatusBadRequest
			}
			utils.WriteError(w, status, err.Error())
			return
		}

		state, err := d.Store.Update(r.Context(), patch, d.now())
		if err != nil {
			d.logger().Error("Storage: failed to update state", "error", err)
			utils.WriteError(w, http.StatusInternalServerError, "failed to save state")
			return
		}
		utils.WriteJSON(w, http.StatusOK, state)
	}
}
