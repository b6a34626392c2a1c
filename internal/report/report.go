// Package report renders insights for the terminal.
package report

import (
	"fmt"
	"strings"

	"github.com/EasterCompany/dex-sprint-service/types"
)

const barWidth = 20

// Render returns a styled multi-section summary of ins.
func Render(title string, ins types.Insights) string {
	var b strings.Builder
	if title == "" {
		title = "Sprint insights"
	}

	f := ins.Feasibility
	head := fmt.Sprintf("%s\n%s %s\n%s",
		TitleStyle.Render(title),
		statusStyle(string(f.Status)).Render(fmt.Sprintf("%d/100", f.Score)),
		statusStyle(string(f.Status)).Render(strings.ReplaceAll(string(f.Status), "_", " ")),
		f.Summary,
	)
	b.WriteString(BoxStyle.Render(head))
	b.WriteString("\n")

	s := ins.Summary
	b.WriteString(SectionStyle.Render("Progress"))
	b.WriteString("\n")
	row(&b, "Completion", fmt.Sprintf("%s %d%%", bar(s.CompletionRate), s.CompletionRate))
	row(&b, "Tasks", fmt.Sprintf("%d done, %d snoozed, %d todo of %d", s.Done, s.Snoozed, s.Todo, s.TotalTasks))
	row(&b, "Schedule", fmt.Sprintf("week %d of %d, expected %d%%, gap %d%%", f.ElapsedWeeks, f.TotalWeeks, f.ExpectedProgress, f.ProgressGap))
	row(&b, "Recent velocity", fmt.Sprintf("%d tasks", f.RecentVelocity))

	if len(ins.Weekly) > 0 {
		b.WriteString(SectionStyle.Render("Weeks"))
		b.WriteString("\n")
		for _, w := range ins.Weekly {
			row(&b, fmt.Sprintf("Week %d", w.Week), fmt.Sprintf("%s %3d%% %s", bar(w.Percent), w.Percent, MutedStyle.Render(w.Theme)))
		}
	}

	b.WriteString(SectionStyle.Render("Habits"))
	b.WriteString("\n")
	row(&b, "Ritual streak", fmt.Sprintf("%d days (best %d)", ins.Streaks.Ritual.Current, ins.Streaks.Ritual.Longest))
	row(&b, "Log streak", fmt.Sprintf("%d days (best %d)", ins.Streaks.Log.Current, ins.Streaks.Log.Longest))

	g := ins.Goals
	if g.Total > 0 {
		b.WriteString(SectionStyle.Render("Goals"))
		b.WriteString("\n")
		row(&b, "Status", fmt.Sprintf("%d done, %d in progress, %d todo", g.Done, g.InProgress, g.Todo))
		row(&b, "Average", fmt.Sprintf("%s %d%%", bar(g.AverageProgress), g.AverageProgress))
		for _, u := range g.Upcoming {
			row(&b, u.TargetDate, fmt.Sprintf("%s (%d%%, %d days left)", u.Title, u.Progress, u.DaysLeft))
		}
	}

	p := ins.Portfolio
	if p.Summary.TotalItems > 0 {
		b.WriteString(SectionStyle.Render("Portfolio"))
		b.WriteString("\n")
		row(&b, "Repositories", fmt.Sprintf("%d (%d stars)", p.Summary.TotalItems, p.Summary.TotalStars))
		langs := make([]string, 0, len(p.Summary.TopLanguages))
		for _, l := range p.Summary.TopLanguages {
			langs = append(langs, fmt.Sprintf("%s %d", l.Language, l.Count))
		}
		if len(langs) > 0 {
			row(&b, "Top", strings.Join(langs, ", "))
		}
	}

	if len(f.Recommendations) > 0 {
		b.WriteString(SectionStyle.Render("Next"))
		b.WriteString("\n")
		for _, r := range f.Recommendations {
			fmt.Fprintf(&b, "  • %s\n", r)
		}
	}
	return b.String()
}

func row(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "  %s%s\n", LabelStyle.Render(label), value)
}

// bar draws a fixed-width progress bar for a 0-100 percentage.
func bar(percent int) string {
	filled := min(max(percent, 0), 100) * barWidth / 100
	return BarFilledStyle.Render(strings.Repeat("█", filled)) +
		BarEmptyStyle.Render(strings.Repeat("░", barWidth-filled))
}
