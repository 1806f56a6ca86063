package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"pettingzoo/internal/fetch"
)

// HealthTool reports upstream API health as a text summary.
type HealthTool struct {
	checker *fetch.Checker
}

func NewHealthTool(checker *fetch.Checker) *HealthTool {
	return &HealthTool{checker: checker}
}

func (h *HealthTool) Name() string { return "health_check" }
func (h *HealthTool) Description() string {
	return "Check the health status of all external animal APIs."
}
func (h *HealthTool) Parameters() json.RawMessage { return emptySchema }

func (h *HealthTool) Execute(ctx context.Context, _ json.RawMessage) (*Result, error) {
	overall := h.checker.CheckAll(ctx)
	return &Result{Text: formatHealthReport(overall)}, nil
}

func formatHealthReport(overall fetch.Overall) string {
	lines := []string{
		fmt.Sprintf("Overall Status: %s", strings.ToUpper(overall.Status)),
		fmt.Sprintf("Healthy APIs: %d/%d", overall.HealthyCount(), len(overall.APIs)),
		"",
	}

	for _, api := range overall.APIs {
		status := "UNHEALTHY"
		if api.Healthy {
			status = "HEALTHY"
		}
		line := strings.ToUpper(api.API) + ": " + status
		if api.ResponseTimeMS > 0 {
			line += fmt.Sprintf(" (%.0fms)", api.ResponseTimeMS)
		}
		if api.Error != "" {
			line += " - " + api.Error
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}
