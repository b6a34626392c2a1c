package insights

import (
	"sort"
	"time"

	"github.com/EasterCompany/dex-sprint-service/types"
	"github.com/EasterCompany/dex-sprint-service/utils"
)

// MaxTrendPoints bounds the progress series to the most recent days.
const MaxTrendPoints = 60

// ProgressTrend replays the status-change log into a per-day series of
// cumulative done counts.
//
// Events are ordered by timestamp with a stable sort, so events sharing a
// timestamp are applied in their original log order. A transition to done
// adds the task to the done set; any other transition removes it, whatever
// the event claims the previous status was. Each event overwrites the bucket
// of its calendar day (in now's location), so a bucket holds the count after
// the last event of that day.
func ProgressTrend(history []types.ProgressEvent, progress map[string]types.TaskStatus, totalTasks int, now time.Time) []types.TrendPoint {
	loc := now.Location()

	if len(history) == 0 {
		done := 0
		for _, status := range progress {
			if status == types.TaskStatusDone {
				done++
			}
		}
		if done == 0 {
			return []types.TrendPoint{}
		}
		return []types.TrendPoint{{Date: utils.FormatDate(now), Done: done, Total: totalTasks}}
	}

	events := make([]types.ProgressEvent, len(history))
	copy(events, history)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})

	doneSet := make(map[string]struct{})
	buckets := make(map[string]types.TrendPoint)
	var order []string
	for _, ev := range events {
		if ev.To == types.TaskStatusDone {
			doneSet[ev.TaskID] = struct{}{}
		} else {
			delete(doneSet, ev.TaskID)
		}
		date := utils.FormatDate(ev.Timestamp.In(loc))
		if _, seen := buckets[date]; !seen {
			order = append(order, date)
		}
		buckets[date] = types.TrendPoint{Date: date, Done: len(doneSet), Total: totalTasks}
	}

	if len(order) > MaxTrendPoints {
		order = order[len(order)-MaxTrendPoints:]
	}
	points := make([]types.TrendPoint, 0, len(order))
	for _, date := range order {
		points = append(points, buckets[date])
	}
	return points
}
