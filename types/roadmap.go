package types

// TaskKind classifies a roadmap task.
type TaskKind string

const (
	TaskKindProject     TaskKind = "project"
	TaskKindPractice    TaskKind = "practice"
	TaskKindOutput      TaskKind = "output"
	TaskKindHabit       TaskKind = "habit"
	TaskKindDeliverable TaskKind = "deliverable"
	TaskKindOther       TaskKind = "other"
)

// Valid reports whether k is one of the known task kinds.
func (k TaskKind) Valid() bool {
	switch k {
	case TaskKindProject, TaskKindPractice, TaskKindOutput, TaskKindHabit, TaskKindDeliverable, TaskKindOther:
		return true
	}
	return false
}

// ResourceLink is a labelled reference attached to a task.
type ResourceLink struct {
	Label string `json:"label" yaml:"label"`
	URL   string `json:"url" yaml:"url"`
}

// Task is the smallest unit of work on the roadmap.
type Task struct {
	ID        string         `json:"id" yaml:"id"`
	Title     string         `json:"title" yaml:"title"`
	Kind      TaskKind       `json:"kind" yaml:"kind"`
	Details   string         `json:"details,omitempty" yaml:"details,omitempty"`
	Resources []ResourceLink `json:"resources,omitempty" yaml:"resources,omitempty"`
}

// Week groups the tasks planned for one calendar week of the sprint.
// Number is 1-based and sequential across phases.
type Week struct {
	Number     int      `json:"number" yaml:"number"`
	Theme      string   `json:"theme" yaml:"theme"`
	Milestones []string `json:"milestones,omitempty" yaml:"milestones,omitempty"`
	Tasks      []Task   `json:"tasks" yaml:"tasks"`
}

// Phase is a titled run of consecutive weeks.
type Phase struct {
	Title   string `json:"title" yaml:"title"`
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`
	Weeks   []Week `json:"weeks" yaml:"weeks"`
}

// DailyRitual describes the fixed daily checklist and its time boxes.
type DailyRitual struct {
	ReviewMinutes    int      `json:"review_minutes" yaml:"review_minutes"`
	DeepWorkMinutes  int      `json:"deep_work_minutes" yaml:"deep_work_minutes"`
	ArtifactMinutes  int      `json:"artifact_minutes" yaml:"artifact_minutes"`
	MicroPostMinutes int      `json:"micro_post_minutes" yaml:"micro_post_minutes"`
	Habits           []string `json:"habits,omitempty" yaml:"habits,omitempty"`
}

// Roadmap is the read-only curriculum definition.
type Roadmap struct {
	Title       string      `json:"title,omitempty" yaml:"title,omitempty"`
	DailyRitual DailyRitual `json:"daily_ritual" yaml:"daily_ritual"`
	Phases      []Phase     `json:"phases" yaml:"phases"`
}

// TotalWeeks returns the number of weeks across all phases.
func (r *Roadmap) TotalWeeks() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, p := range r.Phases {
		n += len(p.Weeks)
	}
	return n
}

// TaskIDs returns the set of task ids defined by the roadmap.
func (r *Roadmap) TaskIDs() map[string]struct{} {
	ids := make(map[string]struct{})
	if r == nil {
		return ids
	}
	for _, p := range r.Phases {
		for _, w := range p.Weeks {
			for _, t := range w.Tasks {
				ids[t.ID] = struct{}{}
			}
		}
	}
	return ids
}

// TotalTasks returns the number of tasks across all weeks.
func (r *Roadmap) TotalTasks() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, p := range r.Phases {
		for _, w := range p.Weeks {
			n += len(w.Tasks)
		}
	}
	return n
}
