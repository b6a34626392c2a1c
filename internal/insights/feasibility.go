package insights

import (
	"fmt"
	"math"
	"time"

	"github.com/EasterCompany/dex-sprint-service/types"
	"github.com/EasterCompany/dex-sprint-service/utils"
)

// Component weights of the feasibility score.
const (
	progressWeight = 0.45
	velocityWeight = 0.20
	ritualWeight   = 0.20
	goalWeight     = 0.15
)

// Neutral sub-scores used when a signal has no data yet.
const (
	neutralVelocityScore = 0.5
	neutralRitualScore   = 0.5
	neutralGoalScore     = 0.6
)

const (
	onTrackThreshold = 80
	cautionThreshold = 55

	// unstartedOffset keeps a plan without a schedule from scoring as failing.
	unstartedOffset  = 0.35
	minExpected      = 0.05
	maxProgressScore = 1.2
	velocityWindow   = 4
	catchUpGap       = 0.12
	lowRitualScore   = 0.5
	lowGoalScore     = 0.4
)

// FeasibilityInput collects the signals the scorer combines.
type FeasibilityInput struct {
	StartDate  string
	Now        time.Time
	Summary    types.ProgressSummary
	TotalWeeks int
	Trend      []types.TrendPoint
	Ritual     map[string]map[string]bool
	HabitCount int
	Goals      []types.Goal
}

// ScoreFeasibility rates whether the learner's pace matches the roadmap.
// The result is a directional heuristic, not a forecast.
func ScoreFeasibility(in FeasibilityInput) types.Feasibility {
	hasStart := false
	elapsedWeeks := 0
	if in.StartDate != "" {
		if start, err := utils.ParseDate(in.StartDate, in.Now.Location()); err == nil {
			hasStart = true
			days := utils.DaysBetween(start, in.Now)
			elapsedWeeks = max(0, int(math.Floor(float64(days)/7))+1)
		}
	}

	expected := 0.0
	if in.TotalWeeks > 0 {
		expected = math.Min(1, float64(elapsedWeeks)/float64(in.TotalWeeks))
	}

	doneRatio := 0.0
	if in.Summary.TotalTasks > 0 {
		doneRatio = float64(in.Summary.Done) / float64(in.Summary.TotalTasks)
	}

	var progressScore float64
	if expected > 0 {
		progressScore = clamp(doneRatio/math.Max(expected, minExpected), 0, maxProgressScore)
	} else {
		progressScore = clamp(doneRatio+unstartedOffset, 0, 1)
	}

	recent := recentVelocity(in.Trend)
	velocityScore := neutralVelocityScore
	if in.Summary.TotalTasks > 0 {
		pace := float64(in.TotalWeeks) / float64(max(elapsedWeeks, 1))
		velocityScore = clamp(float64(recent)/float64(in.Summary.TotalTasks)*pace, 0, 1)
	}

	ritualScore := ritualConsistency(in.Ritual, in.HabitCount)

	goalScore := neutralGoalScore
	if len(in.Goals) > 0 {
		done := 0
		for _, g := range in.Goals {
			if g.Status == types.GoalStatusDone {
				done++
			}
		}
		goalScore = float64(done) / float64(len(in.Goals))
	}

	combined := clamp(
		progressWeight*progressScore+
			velocityWeight*velocityScore+
			ritualWeight*ritualScore+
			goalWeight*goalScore,
		0, 1)
	score := int(math.Round(combined * 100))
	status := statusFor(score)
	gap := math.Max(0, expected-doneRatio)

	return types.Feasibility{
		Score:            score,
		Status:           status,
		Summary:          summaryFor(status, hasStart, in.Summary.Done, gap),
		ExpectedProgress: int(math.Round(expected * 100)),
		ActualProgress:   int(math.Round(doneRatio * 100)),
		ProgressGap:      int(math.Round(gap * 100)),
		ElapsedWeeks:     elapsedWeeks,
		TotalWeeks:       in.TotalWeeks,
		RecentVelocity:   recent,
		Components: types.FeasibilityComponents{
			Progress: int(math.Round(progressScore * 100)),
			Velocity: int(math.Round(velocityScore * 100)),
			Ritual:   int(math.Round(ritualScore * 100)),
			Goals:    int(math.Round(goalScore * 100)),
		},
		Recommendations: recommendationsFor(gap, ritualScore, goalScore),
	}
}

// recentVelocity is the growth of the done count across the last few
// trend points. A single point has no measurable velocity.
func recentVelocity(trend []types.TrendPoint) int {
	if len(trend) == 0 {
		return 0
	}
	window := trend[max(0, len(trend)-velocityWindow):]
	return max(0, window[len(window)-1].Done-window[0].Done)
}

// ritualConsistency averages the daily habit completion over the most
// recent recorded ritual days.
func ritualConsistency(ritual map[string]map[string]bool, habitCount int) float64 {
	series := RitualSeries(ritual, habitCount)
	if len(series) == 0 {
		return neutralRitualScore
	}
	sum := 0.0
	for _, p := range series {
		if p.Total > 0 {
			sum += float64(p.Completed) / float64(p.Total)
		}
	}
	return sum / float64(len(series))
}

func statusFor(score int) types.FeasibilityStatus {
	switch {
	case score >= onTrackThreshold:
		return types.FeasibilityOnTrack
	case score >= cautionThreshold:
		return types.FeasibilityCaution
	default:
		return types.FeasibilityAtRisk
	}
}

func summaryFor(status types.FeasibilityStatus, hasStart bool, done int, gap float64) string {
	switch {
	case status == types.FeasibilityOnTrack:
		return "You are on track. Keep shipping one visible artifact a day."
	case !hasStart:
		return "No start date yet. Pick one so the schedule can measure your pace."
	case done == 0:
		return "The sprint has started but nothing is marked done. Finish the smallest task first."
	case status == types.FeasibilityCaution && gap > catchUpGap:
		return fmt.Sprintf("You are about %d%% behind the planned pace. A focused catch-up session closes the gap.", int(math.Round(gap*100)))
	case status == types.FeasibilityCaution:
		return "Progress is steady but not yet comfortable. Protect the daily ritual."
	default:
		return "The current pace puts the roadmap at risk. Trim scope or re-plan the next week."
	}
}

func recommendationsFor(gap, ritualScore, goalScore float64) []string {
	var recs []string
	if gap > catchUpGap {
		recs = append(recs, "Schedule a catch-up block this week and clear the oldest open tasks first.")
	}
	if ritualScore < lowRitualScore {
		recs = append(recs, "Daily ritual consistency is low. Start with the review habit and keep the chain going.")
	}
	if goalScore < lowGoalScore {
		recs = append(recs, "Pick one custom goal and break it into milestones you can finish this week.")
	}
	if len(recs) == 0 {
		recs = append(recs, "Keep the current rhythm and log one highlight every day.")
	}
	return recs
}
