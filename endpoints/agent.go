package endpoints

import (
	"errors"
	"net/http"

	"github.com/EasterCompany/dex-sprint-service/internal/agent"
	"github.com/EasterCompany/dex-sprint-service/utils"
)

// AgentHandler builds the learner context and asks the planner for a plan.
func AgentHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req agent.Request
		if err := decodeBody(w, r, &req); err != nil {
			utils.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		req, err := req.Normalize()
		if err != nil {
			if errors.Is(err, agent.ErrGoalRequired) {
				utils.WriteError(w, http.StatusBadRequest, err.Error())
				return
			}
			utils.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}

		if d.Planner == nil {
			utils.WriteError(w, http.StatusServiceUnavailable, "planning assistant is not configured")
			return
		}

		now := d.now()
		state, roadmap, ins, err := snapshot(r.Context(), d, now)
		if err != nil {
			d.logger().Error("Agent: failed to build context", "error", err)
			utils.WriteError(w, http.StatusInternalServerError, "failed to build planning context")
			return
		}

		pc := agent.BuildContext(req, ins, roadmap, state, now)
		utils.WriteJSON(w, http.StatusOK, d.Planner.Plan(r.Context(), req, pc, now))
	}
}
