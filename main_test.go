package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EasterCompany/dex-sprint-service/utils"
)

const testRoadmap = `{
  "title": "Go sprint",
  "phases": [
    {"title": "Foundations", "weeks": [
      {"theme": "Syntax", "tasks": [
        {"id": "w1-a", "title": "Tour", "kind": "practice"},
        {"id": "w1-b", "title": "Blog", "kind": "essay"}
      ]}
    ]}
  ]
}`

func writeConfig(t *testing.T) string {
	t.Helper()
	for _, key := range []string{"SPRINT_ROADMAP_PATH", "SPRINT_STORE", "SPRINT_STATE_PATH", "SPRINT_PORT", "SPRINT_LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	dir := t.TempDir()
	roadmapPath := filepath.Join(dir, "roadmap.json")
	require.NoError(t, os.WriteFile(roadmapPath, []byte(testRoadmap), 0o600))

	state := `{"progress": {"w1-a": "done"}}`
	statePath := filepath.Join(dir, "state.json")
	require.NoError(t, os.WriteFile(statePath, []byte(state), 0o600))

	cfg := fmt.Sprintf("log_level: error\nroadmap:\n  path: %s\nstore:\n  kind: file\n  state_path: %s\n", roadmapPath, statePath)
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))
	return cfgPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, utils.GetVersion().Str+"\n", out)
}

func TestInsightsCommand_JSON(t *testing.T) {
	cfgPath := writeConfig(t)

	out, err := execute(t, "insights", "--json", "--config", cfgPath)
	require.NoError(t, err)

	var doc struct {
		Summary struct {
			TotalTasks     int `json:"totalTasks"`
			Done           int `json:"done"`
			CompletionRate int `json:"completionRate"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 2, doc.Summary.TotalTasks)
	assert.Equal(t, 1, doc.Summary.Done)
	assert.Equal(t, 50, doc.Summary.CompletionRate)
}

func TestInsightsCommand_Report(t *testing.T) {
	cfgPath := writeConfig(t)

	out, err := execute(t, "insights", "-c", cfgPath)
	require.NoError(t, err)
	out = utils.StripANSI(out)
	assert.Contains(t, out, "Go sprint")
	assert.Contains(t, out, "1 done, 0 snoozed, 1 todo of 2")
}

func TestInsightsCommand_MissingRoadmap(t *testing.T) {
	cfgPath := writeConfig(t)
	t.Setenv("SPRINT_ROADMAP_PATH", filepath.Join(t.TempDir(), "nope.json"))

	_, err := execute(t, "insights", "--config", cfgPath)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestUnknownCommand(t *testing.T) {
	_, err := execute(t, "frobnicate")
	assert.Error(t, err)
}

type fakePinger struct {
	fail  atomic.Bool
	calls atomic.Int32
}

func (p *fakePinger) Ping(context.Context) error {
	p.calls.Add(1)
	if p.fail.Load() {
		return errors.New("connection refused")
	}
	return nil
}

func TestRunCoreLogic(t *testing.T) {
	pinger := &fakePinger{}
	pinger.fail.Store(true)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- RunCoreLogic(ctx, pinger, 20*time.Millisecond, newLogger(&bytes.Buffer{}, "error", "text")) }()

	assert.Eventually(t, func() bool {
		return utils.GetHealth().Status == utils.HealthDegraded
	}, time.Second, 5*time.Millisecond)

	pinger.fail.Store(false)
	assert.Eventually(t, func() bool {
		return utils.GetHealth().Status == utils.HealthOK
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("core loop did not stop")
	}
	assert.Equal(t, utils.HealthShuttingDown, utils.GetHealth().Status)
	assert.GreaterOrEqual(t, pinger.calls.Load(), int32(2))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "warn", "json")
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shown", line["msg"])
	assert.Equal(t, ServiceName, line["service"])
}
