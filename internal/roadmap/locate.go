package roadmap

import (
	"time"

	"github.com/EasterCompany/dex-sprint-service/types"
	"github.com/EasterCompany/dex-sprint-service/utils"
)

// Position is where a calendar day falls on the roadmap.
type Position struct {
	Phase *types.Phase
	Week  *types.Week
	// Index is the zero-based week offset from the start date.
	Index      int
	NotStarted bool
	Finished   bool
}

// Locate finds the week that now falls into, counting whole weeks from
// startDate. Without a start date, or before it, the first week is
// returned with NotStarted set. Past the last week Finished is set.
func Locate(roadmap *types.Roadmap, startDate string, now time.Time) Position {
	if roadmap == nil || roadmap.TotalWeeks() == 0 {
		return Position{NotStarted: true}
	}
	first := Position{Phase: &roadmap.Phases[0], NotStarted: true}
	for pi := range roadmap.Phases {
		if len(roadmap.Phases[pi].Weeks) > 0 {
			first.Phase = &roadmap.Phases[pi]
			first.Week = &roadmap.Phases[pi].Weeks[0]
			break
		}
	}

	start, err := utils.ParseDate(startDate, now.Location())
	if err != nil {
		return first
	}
	days := utils.DaysBetween(start, now)
	if days < 0 {
		return first
	}

	target := days / 7
	index := 0
	for pi := range roadmap.Phases {
		phase := &roadmap.Phases[pi]
		for wi := range phase.Weeks {
			if index == target {
				return Position{Phase: phase, Week: &phase.Weeks[wi], Index: index}
			}
			index++
		}
	}
	return Position{Index: target, Finished: true}
}

// TaskRef locates a task inside the roadmap.
type TaskRef struct {
	Phase *types.Phase
	Week  *types.Week
	Task  *types.Task
}

// FindTask looks a task up by id.
func FindTask(roadmap *types.Roadmap, id string) (TaskRef, bool) {
	if roadmap == nil {
		return TaskRef{}, false
	}
	for pi := range roadmap.Phases {
		phase := &roadmap.Phases[pi]
		for wi := range phase.Weeks {
			week := &phase.Weeks[wi]
			for ti := range week.Tasks {
				if week.Tasks[ti].ID == id {
					return TaskRef{Phase: phase, Week: week, Task: &week.Tasks[ti]}, true
				}
			}
		}
	}
	return TaskRef{}, false
}

// TotalWeeks returns the number of weeks in roadmap.
func TotalWeeks(roadmap *types.Roadmap) int {
	return roadmap.TotalWeeks()
}
