package roadmap

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EasterCompany/dex-sprint-service/types"
)

const sampleJSON = `{
  "title": "Go sprint",
  "daily_ritual": {"review_minutes": 15, "deep_work_minutes": 90},
  "phases": [
    {"title": "Foundations", "weeks": [
      {"number": 7, "theme": "Syntax", "tasks": [
        {"id": "w1-a", "title": "Tour", "kind": "Practice"},
        {"id": "w1-b", "title": "Blog", "kind": "essay"}
      ]},
      {"theme": "Stdlib", "tasks": [{"id": "w2-a", "title": "net/http", "kind": "project"}]}
    ]},
    {"title": "Shipping", "weeks": [
      {"theme": "Deploy", "tasks": [{"id": "w3-a", "title": "Ship", "kind": "deliverable"}]}
    ]}
  ]
}`

const sampleYAML = `
title: Go sprint
phases:
  - title: Foundations
    weeks:
      - theme: Syntax
        tasks:
          - id: y1
            title: Tour
            kind: practice
      - theme: Stdlib
        tasks:
          - id: y2
            title: Server
            kind: project
`

func writeRoadmap(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParse_JSON(t *testing.T) {
	roadmap, err := Parse([]byte(sampleJSON), ".json")
	require.NoError(t, err)

	assert.Equal(t, 3, roadmap.TotalWeeks())
	assert.Equal(t, 4, roadmap.TotalTasks())
	assert.Equal(t, 1, roadmap.Phases[0].Weeks[0].Number)
	assert.Equal(t, 2, roadmap.Phases[0].Weeks[1].Number)
	assert.Equal(t, 3, roadmap.Phases[1].Weeks[0].Number)
	assert.Equal(t, types.TaskKindPractice, roadmap.Phases[0].Weeks[0].Tasks[0].Kind)
	assert.Equal(t, types.TaskKindOther, roadmap.Phases[0].Weeks[0].Tasks[1].Kind)
	assert.Equal(t, 90, roadmap.DailyRitual.DeepWorkMinutes)
	assert.Equal(t, types.DefaultHabits, roadmap.DailyRitual.Habits)
}

func TestParse_YAML(t *testing.T) {
	roadmap, err := Parse([]byte(sampleYAML), ".yml")
	require.NoError(t, err)
	assert.Equal(t, "Go sprint", roadmap.Title)
	assert.Equal(t, 2, roadmap.TotalWeeks())
	assert.Equal(t, "y2", roadmap.Phases[0].Weeks[1].Tasks[0].ID)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte(`{"phases": []}`), ".json")
	assert.ErrorIs(t, err, ErrEmptyRoadmap)

	_, err = Parse([]byte(`{"phases":[{"weeks":[{"tasks":[{"id":"a"},{"id":"a"}]}]}]}`), ".json")
	assert.ErrorIs(t, err, ErrDuplicateTask)

	_, err = Parse([]byte(`{"phases":[{"weeks":[{"tasks":[{"title":"no id"}]}]}]}`), ".json")
	assert.ErrorIs(t, err, ErrMissingTaskID)

	_, err = Parse([]byte(`{`), ".json")
	assert.Error(t, err)
}

func TestLoader_CachesUntilModified(t *testing.T) {
	path := writeRoadmap(t, "roadmap.json", sampleJSON)
	loader := NewLoader(path, nil)

	first, err := loader.Load()
	require.NoError(t, err)
	second, err := loader.Load()
	require.NoError(t, err)
	assert.Same(t, first, second)

	require.NoError(t, os.WriteFile(path, []byte(`{"phases":[{"weeks":[{"tasks":[{"id":"only"}]}]}]}`), 0o600))
	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, later, later))

	third, err := loader.Load()
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.Equal(t, 1, third.TotalTasks())
}

func TestLoader_Invalidate(t *testing.T) {
	loader := NewLoader(writeRoadmap(t, "roadmap.json", sampleJSON), nil)

	first, err := loader.Load()
	require.NoError(t, err)
	loader.Invalidate()
	second, err := loader.Load()
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}

func TestLoader_MissingFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "nope.json"), nil).Load()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoader_WatchInvalidatesOnWrite(t *testing.T) {
	path := writeRoadmap(t, "roadmap.json", sampleJSON)
	loader := NewLoader(path, nil)
	_, err := loader.Load()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loader.Watch(ctx) }()
	// Give the watcher time to register.
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte(sampleJSON), 0o600))

	assert.Eventually(t, func() bool {
		loader.cache.mu.RLock()
		defer loader.cache.mu.RUnlock()
		return loader.cache.value == nil
	}, 3*time.Second, 25*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestLoader_BundledRoadmap(t *testing.T) {
	roadmap, err := NewLoader(filepath.Join("..", "..", "public", "data", "roadmap.json"), nil).Load()
	require.NoError(t, err)

	assert.Equal(t, 8, roadmap.TotalWeeks())
	assert.Equal(t, 90, roadmap.DailyRitual.DeepWorkMinutes)
	assert.Equal(t, types.DefaultHabits, roadmap.DailyRitual.Habits)
}
