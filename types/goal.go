package types

import (
	"encoding/json"
	"time"
)

// GoalStatus is the lifecycle state of a custom goal.
type GoalStatus string

const (
	GoalStatusTodo       GoalStatus = "todo"
	GoalStatusInProgress GoalStatus = "in_progress"
	GoalStatusDone       GoalStatus = "done"
)

// Valid reports whether s is a known goal status.
func (s GoalStatus) Valid() bool {
	return s == GoalStatusTodo || s == GoalStatusInProgress || s == GoalStatusDone
}

// Milestone is a checkable step inside a goal.
type Milestone struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Done  bool   `json:"done"`
}

// Goal is a learner-defined objective tracked next to the roadmap.
// TargetDate is a YYYY-MM-DD date, empty when unset and written as null.
type Goal struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	FocusArea   string      `json:"focusArea,omitempty"`
	TargetDate  string      `json:"targetDate"`
	Metric      string      `json:"metric,omitempty"`
	Status      GoalStatus  `json:"status"`
	Progress    int         `json:"progress"`
	Milestones  []Milestone `json:"milestones"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	Notes       string      `json:"notes,omitempty"`
}

func (g Goal) MarshalJSON() ([]byte, error) {
	type goal Goal
	return json.Marshal(struct {
		goal
		TargetDate *string `json:"targetDate"`
	}{goal: goal(g), TargetDate: nullable(g.TargetDate)})
}
