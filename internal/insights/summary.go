// Package insights derives progress analytics from the persisted sprint
// state and the roadmap definition. Every function here is pure: inputs are
// never mutated and the current instant is always passed in explicitly.
package insights

import (
	"math"

	"github.com/EasterCompany/dex-sprint-service/types"
)

// percent returns round(part/total*100), or 0 when total is 0.
func percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Summarize counts done, snoozed and todo tasks across the roadmap.
// Progress entries for task ids that are not on the roadmap are ignored.
func Summarize(roadmap *types.Roadmap, progress map[string]types.TaskStatus) types.ProgressSummary {
	var s types.ProgressSummary
	if roadmap == nil {
		return s
	}
	for _, phase := range roadmap.Phases {
		for _, week := range phase.Weeks {
			for _, task := range week.Tasks {
				s.TotalTasks++
				switch progress[task.ID] {
				case types.TaskStatusDone:
					s.Done++
				case types.TaskStatusSnoozed:
					s.Snoozed++
				}
			}
		}
	}
	s.Todo = s.TotalTasks - s.Done - s.Snoozed
	s.CompletionRate = percent(s.Done, s.TotalTasks)
	return s
}

// WeeklyBreakdown reports completion per week in roadmap order.
func WeeklyBreakdown(roadmap *types.Roadmap, progress map[string]types.TaskStatus) []types.WeekProgress {
	weeks := []types.WeekProgress{}
	if roadmap == nil {
		return weeks
	}
	for _, phase := range roadmap.Phases {
		for _, week := range phase.Weeks {
			wp := types.WeekProgress{
				Phase: phase.Title,
				Week:  week.Number,
				Theme: week.Theme,
				Total: len(week.Tasks),
			}
			for _, task := range week.Tasks {
				switch progress[task.ID] {
				case types.TaskStatusDone:
					wp.Done++
				case types.TaskStatusSnoozed:
					wp.Snoozed++
				}
			}
			wp.Percent = percent(wp.Done, wp.Total)
			weeks = append(weeks, wp)
		}
	}
	return weeks
}
