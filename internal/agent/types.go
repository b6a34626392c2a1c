package agent

import "time"

const (
	DefaultDuration = 5
	MaxDuration     = 30
	DefaultFocus    = "build"

	maxSteps       = 6
	maxStepTasks   = 6
	maxQuickWins   = 6
	maxResources   = 8
	maxReminders   = 6
	maxContextTags = 6

	ProviderOllama  = "ollama"
	ProviderOffline = "offline"
)

// Request is a planning request from the dashboard. The include flags
// default to progress and backlog on, logs off.
type Request struct {
	Goal            string `json:"goal"`
	Duration        int    `json:"duration"`
	Focus           string `json:"focus"`
	IncludeProgress *bool  `json:"includeProgress,omitempty"`
	IncludeBacklog  *bool  `json:"includeBacklog,omitempty"`
	IncludeLogs     bool   `json:"includeLogs"`
}

// Step is one stage of a plan.
type Step struct {
	Title    string   `json:"title"`
	Tasks    []string `json:"tasks"`
	Outcome  string   `json:"outcome,omitempty"`
	Focus    string   `json:"focus,omitempty"`
	Duration string   `json:"duration,omitempty"`
}

// Plan is the normalized plan shown to the learner.
type Plan struct {
	Summary     string   `json:"summary"`
	QuickWins   []string `json:"quickWins"`
	Steps       []Step   `json:"steps"`
	Resources   []string `json:"resources"`
	Reminders   []string `json:"reminders"`
	ContextTags []string `json:"contextTags"`
}

// ContextInfo is the part of the planning context echoed to the client.
type ContextInfo struct {
	Tags []string `json:"tags"`
}

// Response is the outcome of a planning run.
type Response struct {
	Plan           Plan        `json:"plan"`
	Context        ContextInfo `json:"context"`
	Raw            string      `json:"raw"`
	Model          string      `json:"model,omitempty"`
	Provider       string      `json:"provider"`
	GeneratedAt    time.Time   `json:"generatedAt"`
	UsedFallback   bool        `json:"usedFallback"`
	FallbackReason string      `json:"fallbackReason,omitempty"`
}
