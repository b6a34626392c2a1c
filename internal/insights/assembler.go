package insights

import (
	"time"

	"github.com/EasterCompany/dex-sprint-service/types"
)

// MaxPortfolioItems caps the portfolio items echoed in the insights.
const MaxPortfolioItems = 12

// Build derives the full insights document from a state snapshot and the
// roadmap. Equal inputs and an equal now always produce equal output.
// Progress and history for tasks the roadmap does not define are ignored.
func Build(state types.State, roadmap *types.Roadmap, now time.Time) types.Insights {
	progress, history := onRoadmap(roadmap, state.Progress, state.ProgressHistory)
	summary := Summarize(roadmap, progress)
	trend := ProgressTrend(history, progress, summary.TotalTasks, now)

	habitCount := 0
	if roadmap != nil {
		habitCount = len(roadmap.DailyRitual.Habits)
	}

	items := state.Portfolio.Items
	if len(items) > MaxPortfolioItems {
		items = items[:MaxPortfolioItems]
	}
	echoed := make([]types.PortfolioItem, len(items))
	copy(echoed, items)

	return types.Insights{
		Summary: summary,
		Weekly:  WeeklyBreakdown(roadmap, progress),
		Charts: types.Charts{
			Progress: trend,
			Ritual:   RitualSeries(state.Ritual, habitCount),
			Log:      LogSeries(state.Logs),
		},
		Streaks: types.Streaks{
			Ritual: CalculateStreak(RitualDates(state.Ritual), now),
			Log:    CalculateStreak(LogDates(state.Logs), now),
		},
		Portfolio: types.PortfolioInsights{
			Username: state.Portfolio.Username,
			LastSync: state.Portfolio.LastSync,
			Items:    echoed,
			Summary:  SummarizePortfolio(state.Portfolio.Items),
		},
		Goals: SummarizeGoals(state.CustomGoals, now),
		Feasibility: ScoreFeasibility(FeasibilityInput{
			StartDate:  state.StartDate,
			Now:        now,
			Summary:    summary,
			TotalWeeks: roadmap.TotalWeeks(),
			Trend:      trend,
			Ritual:     state.Ritual,
			HabitCount: habitCount,
			Goals:      state.CustomGoals,
		}),
	}
}

// onRoadmap keeps the progress entries and history events whose task is
// still on the roadmap.
func onRoadmap(roadmap *types.Roadmap, progress map[string]types.TaskStatus, history []types.ProgressEvent) (map[string]types.TaskStatus, []types.ProgressEvent) {
	ids := roadmap.TaskIDs()

	kept := make(map[string]types.TaskStatus, len(progress))
	for id, status := range progress {
		if _, ok := ids[id]; ok {
			kept[id] = status
		}
	}
	events := make([]types.ProgressEvent, 0, len(history))
	for _, ev := range history {
		if _, ok := ids[ev.TaskID]; ok {
			events = append(events, ev)
		}
	}
	return kept, events
}
