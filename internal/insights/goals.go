package insights

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/EasterCompany/dex-sprint-service/types"
	"github.com/EasterCompany/dex-sprint-service/utils"
)

const (
	focusAreaLimit    = 6
	upcomingGoalLimit = 4
	defaultFocusArea  = "general"
)

// SummarizeGoals tallies custom goals by status and lists the nearest
// open deadlines. A done goal that still reports 0 progress counts as 100
// toward the average.
func SummarizeGoals(goals []types.Goal, now time.Time) types.GoalsSummary {
	summary := types.GoalsSummary{
		FocusAreas: []types.FocusAreaCount{},
		Upcoming:   []types.UpcomingGoal{},
	}
	if len(goals) == 0 {
		return summary
	}

	var progressSum int
	var areas []*types.FocusAreaCount
	areaIndex := make(map[string]*types.FocusAreaCount)
	var upcoming []types.UpcomingGoal
	today := utils.Midnight(now)

	for _, g := range goals {
		switch g.Status {
		case types.GoalStatusDone:
			summary.Done++
		case types.GoalStatusInProgress:
			summary.InProgress++
		default:
			summary.Todo++
		}

		progress := g.Progress
		if g.Status == types.GoalStatusDone && progress == 0 {
			progress = 100
		}
		progressSum += min(max(progress, 0), 100)

		area := strings.TrimSpace(g.FocusArea)
		if area == "" {
			area = defaultFocusArea
		}
		if entry, ok := areaIndex[area]; ok {
			entry.Count++
		} else {
			entry := &types.FocusAreaCount{FocusArea: area, Count: 1}
			areaIndex[area] = entry
			areas = append(areas, entry)
		}

		if g.TargetDate != "" && g.Status != types.GoalStatusDone {
			target, err := utils.ParseDate(g.TargetDate, now.Location())
			if err != nil {
				continue
			}
			upcoming = append(upcoming, types.UpcomingGoal{
				ID:         g.ID,
				Title:      g.Title,
				TargetDate: g.TargetDate,
				Status:     g.Status,
				Progress:   g.Progress,
				DaysLeft:   utils.DaysBetween(today, target),
			})
		}
	}

	summary.Total = len(goals)
	summary.AverageProgress = int(math.Round(float64(progressSum) / float64(len(goals))))

	sort.SliceStable(areas, func(i, j int) bool { return areas[i].Count > areas[j].Count })
	if len(areas) > focusAreaLimit {
		areas = areas[:focusAreaLimit]
	}
	for _, a := range areas {
		summary.FocusAreas = append(summary.FocusAreas, *a)
	}

	sort.SliceStable(upcoming, func(i, j int) bool { return upcoming[i].TargetDate < upcoming[j].TargetDate })
	if len(upcoming) > upcomingGoalLimit {
		upcoming = upcoming[:upcomingGoalLimit]
	}
	summary.Upcoming = append(summary.Upcoming, upcoming...)
	return summary
}
