package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/EasterCompany/dex-sprint-service/utils"
)

// Pinger is a persistent resource the core loop keeps an eye on.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RunCoreLogic represents the persistent core functionality of the service.
// It checks the state store on every tick and reflects the result in the
// service health until ctx is cancelled.
func RunCoreLogic(ctx context.Context, store Pinger, interval time.Duration, logger *slog.Logger) error {
	if interval <= 0 {
		interval = 15 * time.Second
	}

	check := func() {
		pingCtx, cancel := context.WithTimeout(ctx, interval/2)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("Core Logic: state store unreachable", "error", err)
			utils.SetHealthStatus(utils.HealthDegraded, "State store unreachable: "+err.Error())
			return
		}
		if utils.GetHealth().Status != utils.HealthOK {
			logger.Info("Core Logic: service is healthy")
		}
		utils.SetHealthStatus(utils.HealthOK, "Service is running normally")
	}

	check()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Core Logic: Shutdown signal received, cleaning up...")
			utils.SetHealthStatus(utils.HealthShuttingDown, "Core logic is shutting down")
			return nil
		case <-ticker.C:
			check()
		}
	}
}
