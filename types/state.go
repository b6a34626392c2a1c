package types

import "time"

// TaskStatus is the persisted status of a task. Todo is never stored;
// a task without an entry in the progress map is todo.
type TaskStatus string

const (
	TaskStatusTodo    TaskStatus = ""
	TaskStatusDone    TaskStatus = "done"
	TaskStatusSnoozed TaskStatus = "snoozed"
)

// Persisted reports whether s may appear in the progress map.
func (s TaskStatus) Persisted() bool {
	return s == TaskStatusDone || s == TaskStatusSnoozed
}

// Default ritual habit ids.
const (
	HabitReview   = "review"
	HabitDeep     = "deep"
	HabitArtifact = "artifact"
	HabitMicro    = "micro"
)

// DefaultHabits lists the habit ids of the daily ritual in display order.
var DefaultHabits = []string{HabitReview, HabitDeep, HabitArtifact, HabitMicro}

// PortfolioItem is a normalized piece of external work (usually a repository).
type PortfolioItem struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url,omitempty"`
	Repo        string    `json:"repo,omitempty"`
	Stars       int       `json:"stars"`
	Language    string    `json:"language,omitempty"`
	Topics      []string  `json:"topics,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
}

// Portfolio is the cached result of the last portfolio sync.
type Portfolio struct {
	Provider string          `json:"provider,omitempty"`
	Username string          `json:"username"`
	LastSync *time.Time      `json:"lastSync"`
	Items    []PortfolioItem `json:"items"`
}

// State is the single persisted document describing the learner's sprint.
type State struct {
	StartDate       string                     `json:"startDate,omitempty"`
	Progress        map[string]TaskStatus      `json:"progress"`
	ProgressHistory []ProgressEvent            `json:"progressHistory"`
	Ritual          map[string]map[string]bool `json:"ritual"`
	Logs            map[string]string          `json:"logs"`
	CustomGoals     []Goal                     `json:"customGoals"`
	Portfolio       Portfolio                  `json:"portfolio"`
}

// NewState returns an empty state with all collections allocated.
func NewState() State {
	return State{
		Progress:        map[string]TaskStatus{},
		ProgressHistory: []ProgressEvent{},
		Ritual:          map[string]map[string]bool{},
		Logs:            map[string]string{},
		CustomGoals:     []Goal{},
		Portfolio:       Portfolio{Items: []PortfolioItem{}},
	}
}
