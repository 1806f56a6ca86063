package tool

import (
	"strings"
	"testing"

	"pettingzoo/internal/fetch"
)

func TestFormatHealthReport(t *testing.T) {
	overall := fetch.Overall{
		Status: fetch.StatusDegraded,
		APIs: []fetch.APIHealth{
			{API: "duck", Healthy: true, ResponseTimeMS: 123},
			{API: "dog", Healthy: false, Error: "status 500"},
		},
	}

	got := formatHealthReport(overall)
	want := strings.Join([]string{
		"Overall Status: DEGRADED",
		"Healthy APIs: 1/2",
		"",
		"DUCK: HEALTHY (123ms)",
		"DOG: UNHEALTHY - status 500",
	}, "\n")

	if got != want {
		t.Errorf("report mismatch:\n got: %q\nwant: %q", got, want)
	}
}

func TestFormatHealthReportAllHealthy(t *testing.T) {
	overall := fetch.Overall{
		Status: fetch.StatusHealthy,
		APIs: []fetch.APIHealth{
			{API: "duck", Healthy: true, ResponseTimeMS: 80},
			{API: "dog", Healthy: true, ResponseTimeMS: 95},
			{API: "cat", Healthy: true, ResponseTimeMS: 110},
		},
	}

	got := formatHealthReport(overall)
	if !strings.HasPrefix(got, "Overall Status: HEALTHY") {
		t.Errorf("unexpected header: %s", got)
	}
	if !strings.Contains(got, "Healthy APIs: 3/3") {
		t.Errorf("unexpected count line: %s", got)
	}
	if strings.Contains(got, "UNHEALTHY") {
		t.Errorf("no API should be unhealthy: %s", got)
	}
}
