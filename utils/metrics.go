package utils

import (
	"math"
	"runtime"
)

// RuntimeMetrics is a point-in-time view of the Go runtime.
type RuntimeMetrics struct {
	Goroutines int     `json:"goroutines"`
	HeapMB     float64 `json:"heap_mb"`
	SysMB      float64 `json:"sys_mb"`
	NumGC      uint32  `json:"num_gc"`
}

// GetMetrics returns the current runtime metrics of the process.
func GetMetrics() RuntimeMetrics {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return RuntimeMetrics{
		Goroutines: runtime.NumGoroutine(),
		HeapMB:     toMB(m.HeapAlloc),
		SysMB:      toMB(m.Sys),
		NumGC:      m.NumGC,
	}
}

func toMB(b uint64) float64 {
	return math.Round(float64(b)/1024/1024*100) / 100
}
