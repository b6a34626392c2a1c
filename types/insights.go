package types

import "time"

// ProgressSummary aggregates task counts over the whole roadmap.
type ProgressSummary struct {
	TotalTasks     int `json:"totalTasks"`
	Done           int `json:"done"`
	Snoozed        int `json:"snoozed"`
	Todo           int `json:"todo"`
	CompletionRate int `json:"completionRate"`
}

// WeekProgress is the completion breakdown of a single roadmap week.
type WeekProgress struct {
	Phase   string `json:"phase"`
	Week    int    `json:"week"`
	Theme   string `json:"theme"`
	Total   int    `json:"total"`
	Done    int    `json:"done"`
	Snoozed int    `json:"snoozed"`
	Percent int    `json:"percent"`
}

// TrendPoint is the cumulative done count at the end of a calendar day.
type TrendPoint struct {
	Date  string `json:"date"`
	Done  int    `json:"done"`
	Total int    `json:"total"`
}

// RitualPoint is the habit completion of one recorded ritual day.
type RitualPoint struct {
	Date      string `json:"date"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

// LogPoint is the size of the log written on one day.
type LogPoint struct {
	Date       string `json:"date"`
	Characters int    `json:"characters"`
}

// Charts holds the time series rendered by the dashboard.
type Charts struct {
	Progress []TrendPoint  `json:"progress"`
	Ritual   []RitualPoint `json:"ritual"`
	Log      []LogPoint    `json:"log"`
}

// Streak counts consecutive qualifying days.
type Streak struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// Streaks groups the streaks of every tracked signal.
type Streaks struct {
	Ritual Streak `json:"ritual"`
	Log    Streak `json:"log"`
}

// LanguageCount is one entry of the weighted language/topic ranking.
// Topics are prefixed with "#".
type LanguageCount struct {
	Language string `json:"language"`
	Count    int    `json:"count"`
}

// PortfolioSummary aggregates the synced portfolio.
type PortfolioSummary struct {
	TotalItems   int             `json:"totalItems"`
	TotalStars   int             `json:"totalStars"`
	TopLanguages []LanguageCount `json:"topLanguages"`
}

// PortfolioInsights is the portfolio section of the insights response.
type PortfolioInsights struct {
	Username string           `json:"username"`
	LastSync *time.Time       `json:"lastSync"`
	Items    []PortfolioItem  `json:"items"`
	Summary  PortfolioSummary `json:"summary"`
}

// FocusAreaCount is how many goals share a focus area.
type FocusAreaCount struct {
	FocusArea string `json:"focusArea"`
	Count     int    `json:"count"`
}

// UpcomingGoal is an open goal with a target date.
type UpcomingGoal struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	TargetDate string     `json:"targetDate"`
	Status     GoalStatus `json:"status"`
	Progress   int        `json:"progress"`
	DaysLeft   int        `json:"daysLeft"`
}

// GoalsSummary aggregates the custom goals.
type GoalsSummary struct {
	Total           int              `json:"total"`
	Done            int              `json:"done"`
	InProgress      int              `json:"inProgress"`
	Todo            int              `json:"todo"`
	AverageProgress int              `json:"averageProgress"`
	FocusAreas      []FocusAreaCount `json:"focusAreas"`
	Upcoming        []UpcomingGoal   `json:"upcoming"`
}

// FeasibilityStatus is the coarse health tier of the sprint.
type FeasibilityStatus string

const (
	FeasibilityOnTrack FeasibilityStatus = "on_track"
	FeasibilityCaution FeasibilityStatus = "caution"
	FeasibilityAtRisk  FeasibilityStatus = "at_risk"
)

// FeasibilityComponents are the sub-scores scaled to percent.
// Progress may exceed 100 when the learner is ahead of schedule.
type FeasibilityComponents struct {
	Progress int `json:"progress"`
	Velocity int `json:"velocity"`
	Ritual   int `json:"ritual"`
	Goals    int `json:"goals"`
}

// Feasibility is the advisory health score of the sprint.
type Feasibility struct {
	Score            int                   `json:"score"`
	Status           FeasibilityStatus     `json:"status"`
	Summary          string                `json:"summary"`
	ExpectedProgress int                   `json:"expectedProgress"`
	ActualProgress   int                   `json:"actualProgress"`
	ProgressGap      int                   `json:"progressGap"`
	ElapsedWeeks     int                   `json:"elapsedWeeks"`
	TotalWeeks       int                   `json:"totalWeeks"`
	RecentVelocity   int                   `json:"recentVelocity"`
	Components       FeasibilityComponents `json:"components"`
	Recommendations  []string              `json:"recommendations"`
}

// Insights is the derived analytics document served to the dashboard
// and handed to the planning assistant.
type Insights struct {
	Summary     ProgressSummary   `json:"summary"`
	Weekly      []WeekProgress    `json:"weekly"`
	Charts      Charts            `json:"charts"`
	Streaks     Streaks           `json:"streaks"`
	Portfolio   PortfolioInsights `json:"portfolio"`
	Goals       GoalsSummary      `json:"goals"`
	Feasibility Feasibility       `json:"feasibility"`
}
