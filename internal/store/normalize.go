package store

import (
	"strings"

	"github.com/EasterCompany/dex-sprint-service/types"
	"github.com/EasterCompany/dex-sprint-service/utils"
)

// Normalize repairs a decoded document so every consumer can rely on
// allocated collections, known statuses and valid date keys.
func Normalize(state types.State) types.State {
	out := types.NewState()

	if utils.ValidDate(state.StartDate) {
		out.StartDate = state.StartDate
	}

	for id, status := range state.Progress {
		if status.Persisted() {
			out.Progress[id] = status
		}
	}

	for _, ev := range state.ProgressHistory {
		if ev.TaskID == "" || ev.Timestamp.IsZero() {
			continue
		}
		if ev.From != types.TaskStatusTodo && !ev.From.Persisted() {
			ev.From = types.TaskStatusTodo
		}
		if ev.To != types.TaskStatusTodo && !ev.To.Persisted() {
			ev.To = types.TaskStatusTodo
		}
		out.ProgressHistory = append(out.ProgressHistory, ev)
	}
	if n := len(out.ProgressHistory); n > MaxHistoryEvents {
		out.ProgressHistory = out.ProgressHistory[n-MaxHistoryEvents:]
	}

	for date, habits := range state.Ritual {
		if !utils.ValidDate(date) {
			continue
		}
		day := make(map[string]bool, len(habits))
		for habit, done := range habits {
			day[habit] = done
		}
		out.Ritual[date] = day
	}

	for date, text := range state.Logs {
		if !utils.ValidDate(date) {
			continue
		}
		if text = cleanLog(text); text != "" {
			out.Logs[date] = text
		}
	}

	for _, goal := range state.CustomGoals {
		out.CustomGoals = append(out.CustomGoals, NormalizeGoal(goal))
	}

	out.Portfolio = state.Portfolio
	if out.Portfolio.Items == nil {
		out.Portfolio.Items = []types.PortfolioItem{}
	}
	return out
}

// NormalizeGoal clamps progress, resets unknown statuses and drops an
// unparseable target date.
func NormalizeGoal(goal types.Goal) types.Goal {
	goal.Title = strings.TrimSpace(goal.Title)
	if !goal.Status.Valid() {
		goal.Status = types.GoalStatusTodo
	}
	goal.Progress = min(max(goal.Progress, 0), 100)
	if goal.TargetDate != "" && !utils.ValidDate(goal.TargetDate) {
		goal.TargetDate = ""
	}
	if goal.Milestones == nil {
		goal.Milestones = []types.Milestone{}
	}
	return goal
}
