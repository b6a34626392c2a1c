// Package agent turns a learner's request and sprint context into a
// short, actionable plan using a local model, with an offline fallback.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/EasterCompany/dex-sprint-service/internal/ollama"
)

var (
	ErrNoModel   = errors.New("no model available")
	ErrEmptyPlan = errors.New("model returned an empty plan")
	ErrNoJSON    = errors.New("model reply contains no JSON object")
)

const maxAttempts = 2

// ChatClient is the subset of the Ollama client the planner needs.
type ChatClient interface {
	Chat(ctx context.Context, req ollama.ChatRequest) (ollama.ChatResponse, error)
	ListModels(ctx context.Context) ([]ollama.ModelInfo, error)
}

type Planner struct {
	client  ChatClient
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

// NewPlanner returns a planner. A nil client always produces the offline
// plan; an empty model selects the first model the server lists.
func NewPlanner(client ChatClient, model string, timeout time.Duration, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{client: client, model: model, timeout: timeout, logger: logger}
}

const systemPrompt = `You are a pragmatic learning coach. Given the learner's sprint context and request, reply with ONLY a JSON object:
{"summary": string,
 "quickWins": [string],
 "steps": [{"title": string, "tasks": [string], "outcome": string, "focus": string, "duration": string}],
 "resources": [string],
 "reminders": [string]}
Keep it concrete and low-friction: at most 6 steps, 6 tasks per step, 6 quick wins, 8 resources, 6 reminders.`

// Plan asks the model for a plan. It never fails: any model problem
// yields the offline plan with UsedFallback set and the reason recorded.
func (p *Planner) Plan(ctx context.Context, req Request, pc Context, now time.Time) Response {
	resp, err := p.modelPlan(ctx, req, pc)
	if err == nil {
		resp.GeneratedAt = now.UTC()
		return resp
	}

	p.logger.Warn("Agent: falling back to offline plan", "error", err)
	plan := FallbackPlan(req, pc)
	return Response{
		Plan:           plan,
		Context:        ContextInfo{Tags: pc.Tags},
		Raw:            renderPlan(plan),
		Provider:       ProviderOffline,
		GeneratedAt:    now.UTC(),
		UsedFallback:   true,
		FallbackReason: err.Error(),
	}
}

func (p *Planner) modelPlan(ctx context.Context, req Request, pc Context) (Response, error) {
	if p.client == nil {
		return Response{}, ErrNoModel
	}
	model, err := p.resolveModel(ctx)
	if err != nil {
		return Response{}, err
	}

	history := []ollama.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt(req, pc)},
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		reply, err := p.chat(ctx, model, history)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}

		plan, err := ParsePlan(reply.Content)
		if err != nil {
			lastErr = err
			p.logger.Debug("Agent: malformed plan", "attempt", attempt, "error", err)
			history = append(history, reply, ollama.Message{
				Role:    "user",
				Content: "SYSTEM ERROR: Your reply was not a valid plan. Reply again with ONLY the JSON object.",
			})
			continue
		}

		plan.ContextTags = pc.Tags
		return Response{
			Plan:     plan,
			Context:  ContextInfo{Tags: pc.Tags},
			Raw:      reply.Content,
			Model:    model,
			Provider: ProviderOllama,
		}, nil
	}
	return Response{}, fmt.Errorf("planning failed after %d attempts: %w", maxAttempts, lastErr)
}

func (p *Planner) chat(ctx context.Context, model string, history []ollama.Message) (ollama.Message, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	resp, err := p.client.Chat(ctx, ollama.ChatRequest{
		Model:    model,
		Messages: history,
		Format:   "json",
		Options:  map[string]interface{}{"temperature": 0.4},
	})
	if err != nil {
		return ollama.Message{}, err
	}
	return resp.Message, nil
}

func (p *Planner) resolveModel(ctx context.Context) (string, error) {
	if p.model != "" {
		return p.model, nil
	}
	models, err := p.client.ListModels(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoModel, err)
	}
	if len(models) == 0 {
		return "", ErrNoModel
	}
	return models[0].Name, nil
}

func userPrompt(req Request, pc Context) string {
	var b strings.Builder
	b.WriteString(pc.Text)
	fmt.Fprintf(&b, "\n\n### REQUEST\nGoal: %s\nFocus: %s\nTime box: %d days\n", req.Goal, req.Focus, req.Duration)
	return b.String()
}

// ParsePlan extracts and normalizes a plan from a model reply. Code
// fences and prose around the JSON object are ignored.
func ParsePlan(content string) (Plan, error) {
	start := strings.IndexByte(content, '{')
	end := strings.LastIndexByte(content, '}')
	if start < 0 || end <= start {
		return Plan{}, ErrNoJSON
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(content[start:end+1]), &raw); err != nil {
		return Plan{}, fmt.Errorf("invalid plan json: %w", err)
	}
	if nested, ok := raw["plan"].(map[string]any); ok {
		raw = nested
	}

	plan := Plan{
		Summary:   text(raw["summary"]),
		QuickWins: cleanList(stringItems(raw["quickWins"]), maxQuickWins),
		Resources: cleanList(stringItems(raw["resources"]), maxResources),
		Reminders: cleanList(stringItems(raw["reminders"]), maxReminders),
		Steps:     []Step{},
	}
	if steps, ok := raw["steps"].([]any); ok {
		for _, s := range steps {
			step, ok := parseStep(s)
			if !ok {
				continue
			}
			plan.Steps = append(plan.Steps, step)
			if len(plan.Steps) == maxSteps {
				break
			}
		}
	}

	if plan.Summary == "" && len(plan.Steps) == 0 && len(plan.QuickWins) == 0 {
		return Plan{}, ErrEmptyPlan
	}
	return plan, nil
}

func parseStep(v any) (Step, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return Step{}, false
	}
	step := Step{
		Title:   text(m["title"]),
		Tasks:   cleanList(stringItems(m["tasks"]), maxStepTasks),
		Outcome: text(m["outcome"]),
		Focus:   text(m["focus"]),
	}
	switch d := m["duration"].(type) {
	case string:
		step.Duration = strings.TrimSpace(d)
	case float64:
		step.Duration = strconv.FormatFloat(d, 'f', -1, 64) + " days"
	}
	if step.Title == "" && len(step.Tasks) == 0 && step.Outcome == "" {
		return Step{}, false
	}
	return step, true
}

func text(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// stringItems returns the string elements of a JSON array.
func stringItems(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// cleanList trims, drops blanks and duplicates, and caps the list.
func cleanList(items []string, limit int) []string {
	out := make([]string, 0, min(len(items), limit))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
		if len(out) == limit {
			break
		}
	}
	return out
}
