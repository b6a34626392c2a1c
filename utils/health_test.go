package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHealthTracker(t *testing.T) {
	h := NewHealthTracker()
	assert.Equal(t, HealthStarting, h.Get().Status)

	h.Set(HealthOK, "Service is running normally")
	got := h.Get()
	assert.Equal(t, HealthOK, got.Status)
	assert.Equal(t, "Service is running normally", got.Message)
	assert.NotEmpty(t, got.Uptime)
}

func TestFormatUptime(t *testing.T) {
	assert.Equal(t, "5s", formatUptime(5*time.Second))
	assert.Equal(t, "2m 3s", formatUptime(2*time.Minute+3*time.Second))
	assert.Equal(t, "1h 0m 0s", formatUptime(time.Hour))
	assert.Equal(t, "2d 1h 0m 0s", formatUptime(49*time.Hour))
}

func TestGetMetrics(t *testing.T) {
	m := GetMetrics()
	assert.Positive(t, m.Goroutines)
	assert.Positive(t, m.SysMB)
	assert.Equal(t, 0.5, toMB(512*1024))
}
