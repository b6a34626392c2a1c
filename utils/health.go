package utils

import (
	"fmt"
	"sync"
	"time"
)

// Health states reported by the service.
const (
	HealthStarting     = "STARTING"
	HealthOK           = "OK"
	HealthDegraded     = "DEGRADED"
	HealthError        = "ERROR"
	HealthShuttingDown = "SHUTTING_DOWN"
)

// Health is the service health snapshot returned by /service.
type Health struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Message string `json:"message"`
}

// HealthTracker keeps the current health status and the process start time.
type HealthTracker struct {
	startTime time.Time
	current   Health
	mu        sync.RWMutex
}

var (
	defaultTracker *HealthTracker
	trackerOnce    sync.Once
)

func getDefaultTracker() *HealthTracker {
	trackerOnce.Do(func() {
		defaultTracker = NewHealthTracker()
	})
	return defaultTracker
}

// NewHealthTracker returns a tracker in the STARTING state.
func NewHealthTracker() *HealthTracker {
	return &HealthTracker{
		startTime: time.Now(),
		current: Health{
			Status:  HealthStarting,
			Uptime:  "0s",
			Message: "Service is initializing",
		},
	}
}

// Get returns the current health with a fresh uptime.
func (h *HealthTracker) Get() Health {
	h.mu.RLock()
	defer h.mu.RUnlock()

	health := h.current
	health.Uptime = formatUptime(time.Since(h.startTime))
	return health
}

// Set updates the status and message.
func (h *HealthTracker) Set(status, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.current.Status = status
	h.current.Message = message
}

// UptimeSeconds returns whole seconds since the tracker was created.
func (h *HealthTracker) UptimeSeconds() int64 {
	return int64(time.Since(h.startTime).Seconds())
}

func formatUptime(d time.Duration) string {
	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}

// GetHealth returns the health of the process-wide tracker.
func GetHealth() Health {
	return getDefaultTracker().Get()
}

// SetHealthStatus updates the process-wide tracker.
func SetHealthStatus(status string, message string) {
	getDefaultTracker().Set(status, message)
}

// GetUptimeSeconds returns the process uptime in seconds.
func GetUptimeSeconds() int64 {
	return getDefaultTracker().UptimeSeconds()
}
