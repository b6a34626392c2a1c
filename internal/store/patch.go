package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/EasterCompany/dex-sprint-service/types"
	"github.com/EasterCompany/dex-sprint-service/utils"
)

// ErrInvalidPatch wraps every validation failure reported by ParsePatch.
var ErrInvalidPatch = errors.New("invalid state patch")

const (
	// MaxLogRunes caps a single daily log entry.
	MaxLogRunes = 2000
	// MaxHistoryEvents caps the progress history kept in the document.
	MaxHistoryEvents = 5000
)

// Patch is a validated partial update. A nil field is left untouched;
// a non-nil field replaces the stored value wholesale.
type Patch struct {
	StartDate *string
	Progress  map[string]types.TaskStatus
	Ritual    map[string]map[string]bool
	Logs      map[string]string
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.StartDate == nil && p.Progress == nil && p.Ritual == nil && p.Logs == nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidPatch, fmt.Sprintf(format, args...))
}

// ParsePatch validates a raw JSON request body into a Patch. Entries
// that cannot be stored are dropped rather than rejected.
func ParsePatch(raw []byte) (Patch, error) {
	var patch Patch

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return patch, invalid("request body must be a JSON object")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return patch, invalid("request body must be a JSON object")
	}

	if value, ok := fields["startDate"]; ok {
		date, err := parseStartDate(value)
		if err != nil {
			return patch, err
		}
		patch.StartDate = &date
	}

	if value, ok := fields["progress"]; ok {
		entries, ok := object(value)
		if !ok {
			return patch, invalid("progress must be an object")
		}
		patch.Progress = sanitizeProgress(entries)
	}

	if value, ok := fields["ritual"]; ok {
		entries, ok := object(value)
		if !ok {
			return patch, invalid("ritual must be an object")
		}
		patch.Ritual = sanitizeRitual(entries)
	}

	if value, ok := fields["logs"]; ok {
		entries, ok := object(value)
		if !ok {
			return patch, invalid("logs must be an object")
		}
		patch.Logs = sanitizeLogs(entries)
	}

	if patch.Empty() {
		return patch, invalid("request body has no updatable fields")
	}
	return patch, nil
}

// parseStartDate accepts null, "", a YYYY-MM-DD date or an RFC 3339
// timestamp. The result is a date string, or "" to clear the start date.
func parseStartDate(raw json.RawMessage) (string, error) {
	if isNull(raw) {
		return "", nil
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", invalid("startDate must be an ISO date string or null")
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if utils.ValidDate(value) {
		return value, nil
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return utils.FormatDate(ts), nil
	}
	return "", invalid("startDate must be an ISO date string or null")
}

func sanitizeProgress(entries map[string]json.RawMessage) map[string]types.TaskStatus {
	out := make(map[string]types.TaskStatus, len(entries))
	for taskID, raw := range entries {
		var status string
		if err := json.Unmarshal(raw, &status); err != nil {
			continue
		}
		if s := types.TaskStatus(status); s.Persisted() {
			out[taskID] = s
		}
	}
	return out
}

func sanitizeRitual(entries map[string]json.RawMessage) map[string]map[string]bool {
	out := make(map[string]map[string]bool, len(entries))
	for date, raw := range entries {
		if !utils.ValidDate(date) {
			continue
		}
		flags, ok := object(raw)
		if !ok {
			continue
		}
		day := make(map[string]bool, len(flags))
		for habit, flag := range flags {
			day[habit] = truthy(flag)
		}
		out[date] = day
	}
	return out
}

func sanitizeLogs(entries map[string]json.RawMessage) map[string]string {
	out := make(map[string]string, len(entries))
	for date, raw := range entries {
		if !utils.ValidDate(date) {
			continue
		}
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			continue
		}
		if text = cleanLog(text); text != "" {
			out[date] = text
		}
	}
	return out
}

// cleanLog trims a log entry and caps it at MaxLogRunes.
func cleanLog(text string) string {
	text, _ = utils.Truncate(strings.TrimSpace(text), MaxLogRunes)
	return text
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// object decodes raw as a JSON object. Arrays, scalars and null fail.
func object(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, false
	}
	return out, true
}

// truthy applies JSON truthiness: false, 0, "" and null are false.
func truthy(raw json.RawMessage) bool {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return false
	}
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != ""
	default:
		return true
	}
}

// Apply merges patch into state and records one ProgressEvent per task
// whose status changed, ordered by task id and stamped with now.
func Apply(state types.State, patch Patch, now time.Time) types.State {
	if patch.StartDate != nil {
		state.StartDate = *patch.StartDate
	}
	if patch.Ritual != nil {
		state.Ritual = patch.Ritual
	}
	if patch.Logs != nil {
		state.Logs = patch.Logs
	}
	if patch.Progress != nil {
		events := diffProgress(state.Progress, patch.Progress, now)
		history := make([]types.ProgressEvent, 0, len(state.ProgressHistory)+len(events))
		history = append(history, state.ProgressHistory...)
		history = append(history, events...)
		if len(history) > MaxHistoryEvents {
			history = history[len(history)-MaxHistoryEvents:]
		}
		state.ProgressHistory = history
		state.Progress = patch.Progress
	}
	return state
}

func diffProgress(before, after map[string]types.TaskStatus, now time.Time) []types.ProgressEvent {
	ids := make([]string, 0, len(before)+len(after))
	seen := make(map[string]bool, len(before)+len(after))
	for id := range before {
		seen[id] = true
		ids = append(ids, id)
	}
	for id := range after {
		if !seen[id] {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	var events []types.ProgressEvent
	for _, id := range ids {
		from, to := before[id], after[id]
		if from == to {
			continue
		}
		events = append(events, types.ProgressEvent{
			TaskID:    id,
			From:      from,
			To:        to,
			Timestamp: now.UTC(),
		})
	}
	return events
}
