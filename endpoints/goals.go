package endpoints

import (
	"errors"
	"net/http"
	"time"

	"github.com/EasterCompany/dex-sprint-service/internal/goals"
	"github.com/EasterCompany/dex-sprint-service/internal/insights"
	"github.com/EasterCompany/dex-sprint-service/types"
	"github.com/EasterCompany/dex-sprint-service/utils"
)

// GoalsResponse is the goal list with its summary.
type GoalsResponse struct {
	Goals   []types.Goal       `json:"goals"`
	Summary types.GoalsSummary `json:"summary"`
}

func goalsResponse(list []types.Goal, now time.Time) GoalsResponse {
	if list == nil {
		list = []types.Goal{}
	}
	return GoalsResponse{Goals: list, Summary: insights.SummarizeGoals(list, now)}
}

// GetGoalsHandler lists the custom goals.
func GetGoalsHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := d.Store.Load(r.Context())
		if err != nil {
			d.logger().Error("Storage: failed to load state", "error", err)
			utils.WriteError(w, http.StatusInternalServerError, "failed to load goals")
			return
		}
		utils.WriteJSON(w, http.StatusOK, goalsResponse(state.CustomGoals, d.now()))
	}
}

// UpdateGoalsHandler applies one goal action and returns the new list.
func UpdateGoalsHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var action goals.Action
		if err := decodeBody(w, r, &action); err != nil {
			utils.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}

		now := d.now()
		state, err := d.Store.UpdateGoals(r.Context(), func(current []types.Goal) ([]types.Goal, error) {
			return goals.Apply(current, action, now)
		})
		if err != nil {
			status := goalErrorStatus(err)
			if status == http.StatusInternalServerError {
				d.logger().Error("Storage: failed to update goals", "error", err)
				utils.WriteError(w, status, "failed to save goals")
				return
			}
			utils.WriteError(w, status, err.Error())
			return
		}
		utils.WriteJSON(w, http.StatusOK, goalsResponse(state.CustomGoals, now))
	}
}

func goalErrorStatus(err error) int {
	switch {
	case errors.Is(err, goals.ErrGoalNotFound), errors.Is(err, goals.ErrMilestoneNotFound):
		return http.StatusNotFound
	case errors.Is(err, goals.ErrUnknownAction),
		errors.Is(err, goals.ErrTitleRequired),
		errors.Is(err, goals.ErrInvalidGoal),
		errors.Is(err, goals.ErrGoalLimit):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
