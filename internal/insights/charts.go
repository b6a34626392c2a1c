package insights

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/EasterCompany/dex-sprint-service/types"
	"github.com/EasterCompany/dex-sprint-service/utils"
)

// MaxChartDays bounds the ritual and log series.
const MaxChartDays = 30

// RitualSeries returns the most recent recorded ritual days, oldest first.
// Total is the configured habit count, or the number of habits recorded
// that day when that is larger. A habit never toggled counts as missed.
func RitualSeries(ritual map[string]map[string]bool, habitCount int) []types.RitualPoint {
	dates := recentDates(ritualKeys(ritual), MaxChartDays)
	points := make([]types.RitualPoint, 0, len(dates))
	for _, date := range dates {
		habits := ritual[date]
		p := types.RitualPoint{Date: date, Total: max(len(habits), habitCount)}
		for _, done := range habits {
			if done {
				p.Completed++
			}
		}
		points = append(points, p)
	}
	return points
}

// LogSeries returns the size of the most recent non-blank logs, oldest first.
func LogSeries(logs map[string]string) []types.LogPoint {
	dates := recentDates(LogDates(logs), MaxChartDays)
	points := make([]types.LogPoint, 0, len(dates))
	for _, date := range dates {
		points = append(points, types.LogPoint{
			Date:       date,
			Characters: utf8.RuneCountInString(strings.TrimSpace(logs[date])),
		})
	}
	return points
}

func ritualKeys(ritual map[string]map[string]bool) []string {
	keys := make([]string, 0, len(ritual))
	for date := range ritual {
		keys = append(keys, date)
	}
	return keys
}

// recentDates keeps the last n valid dates in ascending order.
func recentDates(dates []string, n int) []string {
	valid := make([]string, 0, len(dates))
	for _, d := range dates {
		if utils.ValidDate(d) {
			valid = append(valid, d)
		}
	}
	sort.Strings(valid)
	if len(valid) > n {
		valid = valid[len(valid)-n:]
	}
	return valid
}
