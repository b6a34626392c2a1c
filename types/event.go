package types

import (
	"encoding/json"
	"time"
)

// ProgressEvent records a single task status transition.
// An empty From or To means the task was (or became) todo and is
// written as null.
type ProgressEvent struct {
	TaskID    string     `json:"taskId"`
	From      TaskStatus `json:"from"`
	To        TaskStatus `json:"to"`
	Timestamp time.Time  `json:"timestamp"`
}

func (e ProgressEvent) MarshalJSON() ([]byte, error) {
	type event ProgressEvent
	return json.Marshal(struct {
		event
		From *TaskStatus `json:"from"`
		To   *TaskStatus `json:"to"`
	}{event: event(e), From: nullable(e.From), To: nullable(e.To)})
}

func nullable[T ~string](v T) *T {
	if v == "" {
		return nil
	}
	return &v
}
