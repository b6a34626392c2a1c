package agent

import (
	"fmt"
	"strings"
)

// FallbackPlan builds a deterministic plan from the request and the
// roadmap context alone.
func FallbackPlan(req Request, pc Context) Plan {
	days := req.Duration
	if days <= 0 {
		days = DefaultDuration
	}
	week := pc.WeekLabel
	if week == "" {
		week = "the roadmap"
	}

	plan := Plan{
		Summary: fmt.Sprintf("Offline plan: %d days toward %q, anchored on %s.", days, headline(req.Goal), week),
		QuickWins: []string{
			"Write a three-sentence scope: what the demo does, who it is for, what done looks like.",
			fmt.Sprintf("Block %d minutes of deep work today and start with the smallest runnable piece.", pc.DeepWorkMinutes),
			"Create the repository or document where the work will live and commit a skeleton.",
		},
		Resources:   cleanList(pc.Resources, maxResources),
		ContextTags: pc.Tags,
	}

	tasks := pc.OpenTasks
	if days < 3 {
		plan.Steps = []Step{{
			Title:    "Build and share",
			Tasks:    cleanList(append([]string{"Build the smallest working version"}, tasks...), maxStepTasks),
			Outcome:  "A runnable demo someone else can try.",
			Focus:    req.Focus,
			Duration: dayLabel(days),
		}}
	} else {
		edge := max(1, days/5)
		core := days - 2*edge
		plan.Steps = []Step{
			{
				Title:    "Scope and skeleton",
				Tasks:    []string{"Pin down inputs, outputs and the demo scenario", "Set up the project and a first passing check"},
				Outcome:  "A skeleton that runs end to end.",
				Focus:    "plan",
				Duration: dayLabel(edge),
			},
			{
				Title:    "Build the core",
				Tasks:    cleanList(append([]string{"Implement the main path first"}, tasks...), maxStepTasks),
				Outcome:  "The demo scenario works on your machine.",
				Focus:    req.Focus,
				Duration: dayLabel(core),
			},
			{
				Title:    "Polish and share",
				Tasks:    []string{"Write a short README with a run command", "Share it and ask one person for feedback"},
				Outcome:  "A demo someone else can reproduce and review.",
				Focus:    "ship",
				Duration: dayLabel(edge),
			},
		}
	}

	reminders := append([]string{}, pc.Recommendations...)
	reminders = append(reminders, "Log one highlight every day, even on short days.")
	plan.Reminders = cleanList(reminders, maxReminders)
	return plan
}

func dayLabel(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// headline returns the first line of the goal, shortened for the summary.
func headline(goal string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(goal), "\n")
	return excerpt(line, 80)
}

// renderPlan renders a plan as plain text for the raw field.
func renderPlan(plan Plan) string {
	var b strings.Builder
	b.WriteString(plan.Summary)
	b.WriteString("\n")
	if len(plan.QuickWins) > 0 {
		b.WriteString("\nQuick wins:\n")
		for _, w := range plan.QuickWins {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}
	for i, step := range plan.Steps {
		fmt.Fprintf(&b, "\n%d. %s (%s)\n", i+1, step.Title, step.Duration)
		for _, task := range step.Tasks {
			fmt.Fprintf(&b, "   - %s\n", task)
		}
		if step.Outcome != "" {
			fmt.Fprintf(&b, "   => %s\n", step.Outcome)
		}
	}
	if len(plan.Reminders) > 0 {
		b.WriteString("\nReminders:\n")
		for _, r := range plan.Reminders {
			fmt.Fprintf(&b, "- %s\n", r)
		}
	}
	return strings.TrimSpace(b.String())
}
