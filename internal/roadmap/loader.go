// Package roadmap loads the read-only curriculum document and answers
// calendar questions about it.
package roadmap

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/EasterCompany/dex-sprint-service/types"
)

var (
	ErrEmptyRoadmap  = errors.New("roadmap has no phases")
	ErrDuplicateTask = errors.New("duplicate task id")
	ErrMissingTaskID = errors.New("task without id")
)

// Loader reads the roadmap from disk, reusing the decoded document until
// the file changes.
type Loader struct {
	path   string
	cache  Cache
	logger *slog.Logger
}

func NewLoader(path string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{path: path, logger: logger}
}

// Path returns the roadmap file location.
func (l *Loader) Path() string {
	return l.path
}

// Invalidate drops the cached document.
func (l *Loader) Invalidate() {
	l.cache.Invalidate()
}

// Load returns the current roadmap. The returned value is shared and
// must be treated as read-only.
func (l *Loader) Load() (*types.Roadmap, error) {
	info, err := os.Stat(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat roadmap: %w", err)
	}
	if cached, ok := l.cache.Get(info.ModTime()); ok {
		return cached, nil
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roadmap: %w", err)
	}
	roadmap, err := Parse(data, filepath.Ext(l.path))
	if err != nil {
		return nil, fmt.Errorf("failed to load roadmap %s: %w", l.path, err)
	}

	l.cache.Put(info.ModTime(), roadmap)
	l.logger.Info("Roadmap: loaded", "path", l.path, "weeks", roadmap.TotalWeeks(), "tasks", roadmap.TotalTasks())
	return roadmap, nil
}

// Parse decodes a roadmap document. ext selects YAML for ".yaml" and
// ".yml"; anything else is read as JSON.
func Parse(data []byte, ext string) (*types.Roadmap, error) {
	var roadmap types.Roadmap
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &roadmap); err != nil {
			return nil, fmt.Errorf("invalid yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &roadmap); err != nil {
			return nil, fmt.Errorf("invalid json: %w", err)
		}
	}
	if err := prepare(&roadmap); err != nil {
		return nil, err
	}
	return &roadmap, nil
}

// prepare validates task ids, normalizes kinds and numbers weeks 1..N in
// traversal order.
func prepare(roadmap *types.Roadmap) error {
	if len(roadmap.Phases) == 0 {
		return ErrEmptyRoadmap
	}
	if len(roadmap.DailyRitual.Habits) == 0 {
		roadmap.DailyRitual.Habits = append([]string(nil), types.DefaultHabits...)
	}

	seen := make(map[string]bool)
	number := 0
	for pi := range roadmap.Phases {
		phase := &roadmap.Phases[pi]
		for wi := range phase.Weeks {
			week := &phase.Weeks[wi]
			number++
			week.Number = number
			if week.Tasks == nil {
				week.Tasks = []types.Task{}
			}
			for ti := range week.Tasks {
				task := &week.Tasks[ti]
				task.ID = strings.TrimSpace(task.ID)
				if task.ID == "" {
					return fmt.Errorf("%w in week %d", ErrMissingTaskID, number)
				}
				if seen[task.ID] {
					return fmt.Errorf("%w: %s", ErrDuplicateTask, task.ID)
				}
				seen[task.ID] = true
				task.Kind = types.TaskKind(strings.ToLower(strings.TrimSpace(string(task.Kind))))
				if !task.Kind.Valid() {
					task.Kind = types.TaskKindOther
				}
			}
		}
	}
	return nil
}
