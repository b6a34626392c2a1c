package insights

import (
	"sort"
	"strings"
	"time"

	"github.com/EasterCompany/dex-sprint-service/types"
	"github.com/EasterCompany/dex-sprint-service/utils"
)

// CalculateStreak computes the current and longest runs of consecutive
// calendar days in dates. The current streak counts back from today and is
// zero when today does not qualify. Keys that are not YYYY-MM-DD dates are
// ignored.
func CalculateStreak(dates []string, now time.Time) types.Streak {
	loc := now.Location()
	set := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		if utils.ValidDate(d) {
			set[d] = struct{}{}
		}
	}
	if len(set) == 0 {
		return types.Streak{}
	}

	var streak types.Streak
	cursor := utils.Midnight(now)
	for {
		if _, ok := set[utils.FormatDate(cursor)]; !ok {
			break
		}
		streak.Current++
		cursor = utils.AddDays(cursor, -1)
	}

	sorted := make([]string, 0, len(set))
	for d := range set {
		sorted = append(sorted, d)
	}
	// YYYY-MM-DD sorts chronologically as a string.
	sort.Strings(sorted)

	run := 0
	var prev time.Time
	for i, d := range sorted {
		day, _ := utils.ParseDate(d, loc)
		if i > 0 && utils.DaysBetween(prev, day) == 1 {
			run++
		} else {
			run = 1
		}
		if run > streak.Longest {
			streak.Longest = run
		}
		prev = day
	}
	return streak
}

// RitualDates returns the days on which at least one habit was completed.
func RitualDates(ritual map[string]map[string]bool) []string {
	dates := make([]string, 0, len(ritual))
	for date, habits := range ritual {
		for _, done := range habits {
			if done {
				dates = append(dates, date)
				break
			}
		}
	}
	sort.Strings(dates)
	return dates
}

// LogDates returns the days that have a non-blank log entry.
func LogDates(logs map[string]string) []string {
	dates := make([]string, 0, len(logs))
	for date, text := range logs {
		if strings.TrimSpace(text) != "" {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)
	return dates
}
