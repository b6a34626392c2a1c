// Package goals applies learner edits to the custom goal list.
package goals

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/EasterCompany/dex-sprint-service/types"
	"github.com/EasterCompany/dex-sprint-service/utils"
)

// MaxGoals caps the number of custom goals kept in state.
const MaxGoals = 50

const (
	ActionAdd             = "add"
	ActionUpdate          = "update"
	ActionRemove          = "remove"
	ActionToggleMilestone = "toggle_milestone"
)

var (
	ErrUnknownAction     = errors.New("unknown goal action")
	ErrTitleRequired     = errors.New("goal title is required")
	ErrGoalNotFound      = errors.New("goal not found")
	ErrMilestoneNotFound = errors.New("milestone not found")
	ErrGoalLimit         = errors.New("goal limit reached")
	ErrInvalidGoal       = errors.New("invalid goal")
)

// Fields carries goal attributes. Nil pointers are left unchanged on
// update.
type Fields struct {
	Title       *string           `json:"title,omitempty"`
	Description *string           `json:"description,omitempty"`
	FocusArea   *string           `json:"focusArea,omitempty"`
	TargetDate  *string           `json:"targetDate,omitempty"`
	Metric      *string           `json:"metric,omitempty"`
	Status      *types.GoalStatus `json:"status,omitempty"`
	Progress    *int              `json:"progress,omitempty"`
	Notes       *string           `json:"notes,omitempty"`
	// Milestones replaces the milestone list by label. Labels matching
	// an existing milestone keep its id and done flag.
	Milestones []string `json:"milestones,omitempty"`
}

// Action is a single edit request.
type Action struct {
	Action      string `json:"action"`
	ID          string `json:"id,omitempty"`
	MilestoneID string `json:"milestoneId,omitempty"`
	Goal        Fields `json:"goal"`
}

// Apply returns a new goal list with action applied. goals is not modified.
func Apply(goals []types.Goal, action Action, now time.Time) ([]types.Goal, error) {
	out := make([]types.Goal, len(goals))
	copy(out, goals)
	now = now.UTC()

	switch strings.ToLower(strings.TrimSpace(action.Action)) {
	case ActionAdd:
		return add(out, action.Goal, now)
	case ActionUpdate:
		i, err := find(out, action.ID)
		if err != nil {
			return nil, err
		}
		goal, err := update(out[i], action.Goal, now)
		if err != nil {
			return nil, err
		}
		out[i] = goal
		return out, nil
	case ActionRemove:
		i, err := find(out, action.ID)
		if err != nil {
			return nil, err
		}
		return append(out[:i], out[i+1:]...), nil
	case ActionToggleMilestone:
		i, err := find(out, action.ID)
		if err != nil {
			return nil, err
		}
		goal, err := toggleMilestone(out[i], action.MilestoneID, now)
		if err != nil {
			return nil, err
		}
		out[i] = goal
		return out, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action.Action)
}

func find(goals []types.Goal, id string) (int, error) {
	for i := range goals {
		if goals[i].ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrGoalNotFound, id)
}

func add(goals []types.Goal, fields Fields, now time.Time) ([]types.Goal, error) {
	if len(goals) >= MaxGoals {
		return nil, fmt.Errorf("%w: at most %d goals", ErrGoalLimit, MaxGoals)
	}
	if fields.Title == nil || strings.TrimSpace(*fields.Title) == "" {
		return nil, ErrTitleRequired
	}

	goal := types.Goal{
		ID:         uuid.NewString(),
		Status:     types.GoalStatusTodo,
		Milestones: []types.Milestone{},
		CreatedAt:  now,
	}
	goal, err := update(goal, fields, now)
	if err != nil {
		return nil, err
	}
	return append(goals, goal), nil
}

// update applies fields to a copy of goal.
func update(goal types.Goal, fields Fields, now time.Time) (types.Goal, error) {
	if fields.Title != nil {
		title := strings.TrimSpace(*fields.Title)
		if title == "" {
			return goal, ErrTitleRequired
		}
		goal.Title = title
	}
	if fields.Description != nil {
		goal.Description = strings.TrimSpace(*fields.Description)
	}
	if fields.FocusArea != nil {
		goal.FocusArea = strings.TrimSpace(*fields.FocusArea)
	}
	if fields.Metric != nil {
		goal.Metric = strings.TrimSpace(*fields.Metric)
	}
	if fields.Notes != nil {
		goal.Notes = strings.TrimSpace(*fields.Notes)
	}
	if fields.TargetDate != nil {
		date := strings.TrimSpace(*fields.TargetDate)
		if date != "" && !utils.ValidDate(date) {
			return goal, fmt.Errorf("%w: targetDate must be YYYY-MM-DD", ErrInvalidGoal)
		}
		goal.TargetDate = date
	}
	if fields.Milestones != nil {
		goal.Milestones = relabel(goal.Milestones, fields.Milestones)
	}
	if fields.Progress != nil {
		if *fields.Progress < 0 || *fields.Progress > 100 {
			return goal, fmt.Errorf("%w: progress must be between 0 and 100", ErrInvalidGoal)
		}
		goal.Progress = *fields.Progress
	}
	if fields.Status != nil {
		if !fields.Status.Valid() {
			return goal, fmt.Errorf("%w: unknown status %q", ErrInvalidGoal, *fields.Status)
		}
		goal.Status = *fields.Status
		if goal.Status == types.GoalStatusDone && fields.Progress == nil {
			goal.Progress = 100
		}
	}
	goal.UpdatedAt = now
	return goal, nil
}

func relabel(existing []types.Milestone, labels []string) []types.Milestone {
	byLabel := make(map[string]types.Milestone, len(existing))
	for _, m := range existing {
		byLabel[m.Label] = m
	}
	out := make([]types.Milestone, 0, len(labels))
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		if m, ok := byLabel[label]; ok {
			out = append(out, m)
			delete(byLabel, label)
			continue
		}
		out = append(out, types.Milestone{ID: uuid.NewString(), Label: label})
	}
	return out
}

func toggleMilestone(goal types.Goal, milestoneID string, now time.Time) (types.Goal, error) {
	milestones := make([]types.Milestone, len(goal.Milestones))
	copy(milestones, goal.Milestones)

	idx := -1
	for i := range milestones {
		if milestones[i].ID == milestoneID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return goal, fmt.Errorf("%w: %s", ErrMilestoneNotFound, milestoneID)
	}
	milestones[idx].Done = !milestones[idx].Done
	goal.Milestones = milestones

	done := 0
	for _, m := range milestones {
		if m.Done {
			done++
		}
	}
	goal.Progress = done * 100 / len(milestones)
	if done == len(milestones) {
		goal.Progress = 100
	}
	if milestones[idx].Done && goal.Status == types.GoalStatusTodo {
		goal.Status = types.GoalStatusInProgress
	}
	goal.UpdatedAt = now
	return goal, nil
}
