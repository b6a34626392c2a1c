package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/EasterCompany/dex-sprint-service/types"
)

func TestRender(t *testing.T) {
	ins := types.Insights{
		Summary: types.ProgressSummary{TotalTasks: 10, Done: 4, Snoozed: 1, Todo: 5, CompletionRate: 40},
		Weekly:  []types.WeekProgress{{Week: 1, Theme: "Syntax", Total: 5, Done: 4, Percent: 80}},
		Streaks: types.Streaks{Ritual: types.Streak{Current: 3, Longest: 7}},
		Goals: types.GoalsSummary{
			Total: 1, InProgress: 1, AverageProgress: 50,
			Upcoming: []types.UpcomingGoal{{Title: "Ship CLI", TargetDate: "2025-04-01", Progress: 50, DaysLeft: 20}},
		},
		Portfolio: types.PortfolioInsights{Summary: types.PortfolioSummary{
			TotalItems: 2, TotalStars: 9,
			TopLanguages: []types.LanguageCount{{Language: "Go", Count: 2}},
		}},
		Feasibility: types.Feasibility{
			Score: 62, Status: types.FeasibilityCaution, Summary: "Progress is steady.",
			ElapsedWeeks: 2, TotalWeeks: 8, ExpectedProgress: 25,
			Recommendations: []string{"Keep the current rhythm."},
		},
	}

	out := Render("Go sprint", ins)

	for _, want := range []string{
		"Go sprint", "62/100", "caution", "Progress is steady.",
		"4 done, 1 snoozed, 5 todo of 10", "week 2 of 8",
		"Week 1", "Syntax", "3 days (best 7)",
		"Ship CLI (50%, 20 days left)", "2 (9 stars)", "Go 2",
		"Keep the current rhythm.",
	} {
		assert.Contains(t, out, want)
	}
}

func TestRender_EmptySectionsOmitted(t *testing.T) {
	out := Render("", types.Insights{Feasibility: types.Feasibility{Status: types.FeasibilityAtRisk}})

	assert.Contains(t, out, "Sprint insights")
	assert.NotContains(t, out, "Goals")
	assert.NotContains(t, out, "Portfolio")
	assert.NotContains(t, out, "Weeks")
}

func TestBar(t *testing.T) {
	assert.Equal(t, barWidth, strings.Count(bar(50), "█")+strings.Count(bar(50), "░"))
	assert.Equal(t, barWidth, strings.Count(bar(150), "█"))
	assert.Equal(t, 0, strings.Count(bar(-5), "█"))
}
