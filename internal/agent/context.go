package agent

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/EasterCompany/dex-sprint-service/internal/roadmap"
	"github.com/EasterCompany/dex-sprint-service/types"
	"github.com/EasterCompany/dex-sprint-service/utils"
)

var ErrGoalRequired = errors.New("goal is required")

const (
	contextOpenTasks = 5
	contextBacklog   = 5
	contextGoals     = 3
	contextLogs      = 3
	logExcerptRunes  = 200
	maxGoalRunes     = 2000
)

// Normalize validates a request and applies defaults.
func (r Request) Normalize() (Request, error) {
	r.Goal = strings.TrimSpace(r.Goal)
	if r.Goal == "" {
		return r, ErrGoalRequired
	}
	r.Goal, _ = utils.Truncate(r.Goal, maxGoalRunes)
	if r.Duration <= 0 {
		r.Duration = DefaultDuration
	}
	r.Duration = min(r.Duration, MaxDuration)
	r.Focus = strings.ToLower(strings.TrimSpace(r.Focus))
	if r.Focus == "" {
		r.Focus = DefaultFocus
	}
	yes := true
	if r.IncludeProgress == nil {
		r.IncludeProgress = &yes
	}
	if r.IncludeBacklog == nil {
		r.IncludeBacklog = &yes
	}
	return r, nil
}

// Context is everything the planner knows about the learner.
type Context struct {
	Tags []string
	Text string

	// Fields below feed the offline plan.
	WeekLabel       string
	OpenTasks       []string
	Resources       []string
	Recommendations []string
	DeepWorkMinutes int
}

// BuildContext summarizes insights, roadmap position, goals and logs
// into a prompt block and a short list of tags.
func BuildContext(req Request, ins types.Insights, rm *types.Roadmap, state types.State, now time.Time) Context {
	c := Context{
		Recommendations: ins.Feasibility.Recommendations,
		DeepWorkMinutes: 90,
	}
	if rm != nil && rm.DailyRitual.DeepWorkMinutes > 0 {
		c.DeepWorkMinutes = rm.DailyRitual.DeepWorkMinutes
	}

	var b strings.Builder
	fmt.Fprintf(&b, "### CURRENT DATE\n%s\n\n", utils.FormatDate(now))

	pos := roadmap.Locate(rm, state.StartDate, now)
	tags := []string{string(ins.Feasibility.Status)}
	switch {
	case pos.Finished:
		tags = append(tags, "finished")
		c.WeekLabel = "the final review"
	case pos.Week != nil:
		c.WeekLabel = fmt.Sprintf("%s, week %d: %s", pos.Phase.Title, pos.Week.Number, pos.Week.Theme)
		if pos.NotStarted {
			tags = append(tags, "not-started")
		} else {
			tags = append(tags, fmt.Sprintf("week-%d", pos.Week.Number))
		}
		for _, task := range pos.Week.Tasks {
			for _, res := range task.Resources {
				c.Resources = append(c.Resources, fmt.Sprintf("%s (%s)", res.Label, res.URL))
			}
			if state.Progress[task.ID] == types.TaskStatusDone {
				continue
			}
			if len(c.OpenTasks) < contextOpenTasks {
				c.OpenTasks = append(c.OpenTasks, task.Title)
			}
		}
	default:
		c.WeekLabel = "the roadmap"
	}
	if langs := ins.Portfolio.Summary.TopLanguages; len(langs) > 0 {
		tags = append(tags, strings.ToLower(strings.TrimPrefix(langs[0].Language, "#")))
	}
	tags = append(tags, req.Focus)
	c.Tags = cleanList(tags, maxContextTags)

	if req.IncludeProgress == nil || *req.IncludeProgress {
		s := ins.Summary
		f := ins.Feasibility
		fmt.Fprintf(&b, "### PROGRESS\nDone %d of %d tasks (%d%%), %d snoozed.\n", s.Done, s.TotalTasks, s.CompletionRate, s.Snoozed)
		fmt.Fprintf(&b, "Feasibility %d/100 (%s): %s\n", f.Score, f.Status, f.Summary)
		fmt.Fprintf(&b, "Ritual streak %d days, log streak %d days.\n\n", ins.Streaks.Ritual.Current, ins.Streaks.Log.Current)
	}

	fmt.Fprintf(&b, "### CURRENT WEEK\n%s\n", c.WeekLabel)
	for _, title := range c.OpenTasks {
		fmt.Fprintf(&b, "- %s\n", title)
	}
	b.WriteString("\n")

	if (req.IncludeBacklog == nil || *req.IncludeBacklog) && pos.Week != nil && !pos.NotStarted {
		backlog := overdueTasks(rm, state.Progress, pos.Week.Number)
		if len(backlog) > 0 {
			b.WriteString("### BACKLOG\n")
			for _, title := range backlog {
				fmt.Fprintf(&b, "- %s\n", title)
			}
			b.WriteString("\n")
		}
	}

	if upcoming := ins.Goals.Upcoming; len(upcoming) > 0 {
		b.WriteString("### GOALS\n")
		for i, g := range upcoming {
			if i == contextGoals {
				break
			}
			fmt.Fprintf(&b, "- %s (%d%%, due %s, %d days left)\n", g.Title, g.Progress, g.TargetDate, g.DaysLeft)
		}
		b.WriteString("\n")
	}

	if req.IncludeLogs && len(state.Logs) > 0 {
		b.WriteString("### RECENT LOGS\n")
		for _, date := range recentLogDates(state.Logs, contextLogs) {
			fmt.Fprintf(&b, "- %s: %s\n", date, excerpt(state.Logs[date], logExcerptRunes))
		}
		b.WriteString("\n")
	}

	c.Text = strings.TrimSpace(b.String())
	return c
}

// overdueTasks lists open tasks from weeks before current.
func overdueTasks(rm *types.Roadmap, progress map[string]types.TaskStatus, current int) []string {
	var out []string
	for _, phase := range rm.Phases {
		for _, week := range phase.Weeks {
			if week.Number >= current {
				return out
			}
			for _, task := range week.Tasks {
				if progress[task.ID] != types.TaskStatusTodo {
					continue
				}
				out = append(out, task.Title)
				if len(out) == contextBacklog {
					return out
				}
			}
		}
	}
	return out
}

func recentLogDates(logs map[string]string, n int) []string {
	dates := make([]string, 0, len(logs))
	for date := range logs {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if len(dates) > n {
		dates = dates[:n]
	}
	return dates
}

func excerpt(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	if cut, ok := utils.Truncate(text, n); ok {
		return cut + "..."
	}
	return text
}
