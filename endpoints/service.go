package endpoints

import (
	"net/http"

	"github.com/EasterCompany/dex-sprint-service/utils"
)

// ServiceReport is the status document served at /service.
type ServiceReport struct {
	Version utils.Version          `json:"version"`
	Health  utils.Health           `json:"health"`
	Metrics utils.RuntimeMetrics   `json:"metrics"`
	Config  map[string]interface{} `json:"config"`
}

// ServiceHandler provides a status report for the service. It answers
// 503 unless the service is healthy.
func ServiceHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := ServiceReport{
			Version: utils.GetVersion(),
			Health:  utils.GetHealth(),
			Metrics: utils.GetMetrics(),
			// Omit sensitive fields from the config report
			Config: d.Config.Sanitized(),
		}

		status := http.StatusOK
		if report.Health.Status != utils.HealthOK {
			status = http.StatusServiceUnavailable
		}
		utils.WriteJSON(w, status, report)
	}
}
