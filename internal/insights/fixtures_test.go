package insights

import (
	"fmt"
	"time"

	"github.com/EasterCompany/dex-sprint-service/types"
)

var testNow = time.Date(2025, time.March, 10, 15, 30, 0, 0, time.UTC)

// testRoadmap builds a roadmap of two phases with two weeks each and
// tasksPerWeek tasks per week. Task ids are "w<week>-t<n>".
func testRoadmap(tasksPerWeek int) *types.Roadmap {
	rm := &types.Roadmap{Title: "test"}
	week := 1
	for p := 1; p <= 2; p++ {
		phase := types.Phase{Title: fmt.Sprintf("Phase %d", p)}
		for i := 0; i < 2; i++ {
			w := types.Week{Number: week, Theme: fmt.Sprintf("Theme %d", week)}
			for t := 1; t <= tasksPerWeek; t++ {
				w.Tasks = append(w.Tasks, types.Task{
					ID:    fmt.Sprintf("w%d-t%d", week, t),
					Title: fmt.Sprintf("Task %d.%d", week, t),
					Kind:  types.TaskKindPractice,
				})
			}
			phase.Weeks = append(phase.Weeks, w)
			week++
		}
		rm.Phases = append(rm.Phases, phase)
	}
	return rm
}

func day(offset int) string {
	return testNow.AddDate(0, 0, offset).Format("2006-01-02")
}

func at(offset int, hour int) time.Time {
	d := testNow.AddDate(0, 0, offset)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.UTC)
}
