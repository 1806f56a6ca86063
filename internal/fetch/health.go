package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"pettingzoo/internal/config"
)

const probeTimeout = 5 * time.Second

// Overall status values.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// APIHealth is the probe outcome for one upstream API.
type APIHealth struct {
	API            string  `json:"api"`
	Healthy        bool    `json:"healthy"`
	ResponseTimeMS float64 `json:"response_time_ms"`
	Error          string  `json:"error,omitempty"`
}

// Overall aggregates the probe outcomes. Status is healthy when every
// API answered, degraded when some did, unhealthy when none did.
type Overall struct {
	Status string      `json:"status"`
	APIs   []APIHealth `json:"apis"`
}

// HealthyCount reports how many APIs answered their probe.
func (o Overall) HealthyCount() int {
	n := 0
	for _, a := range o.APIs {
		if a.Healthy {
			n++
		}
	}
	return n
}

// Checker probes the upstream APIs. Probes use a shorter timeout than
// fetches so a health report never hangs behind a slow upstream.
type Checker struct {
	http *http.Client
	apis []probe
}

type probe struct {
	name string
	url  string
}

func NewChecker(cfg config.UpstreamConfig) *Checker {
	return &Checker{
		http: &http.Client{Timeout: probeTimeout},
		apis: []probe{
			{name: "duck", url: cfg.DuckURL},
			{name: "dog", url: cfg.DogURL},
			{name: "cat", url: cfg.CatURL},
		},
	}
}

// CheckAll probes every upstream concurrently and returns the rollup.
func (h *Checker) CheckAll(ctx context.Context) Overall {
	results := make([]APIHealth, len(h.apis))
	var wg sync.WaitGroup
	for i, p := range h.apis {
		wg.Add(1)
		go func(i int, p probe) {
			defer wg.Done()
			results[i] = h.checkOne(ctx, p)
		}(i, p)
	}
	wg.Wait()

	return Overall{Status: rollup(results), APIs: results}
}

func (h *Checker) checkOne(ctx context.Context, p probe) APIHealth {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return APIHealth{API: p.name, Error: err.Error()}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := h.http.Do(req)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0
	if err != nil {
		return APIHealth{API: p.name, ResponseTimeMS: elapsed, Error: err.Error()}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	if resp.StatusCode != http.StatusOK {
		return APIHealth{
			API:            p.name,
			ResponseTimeMS: elapsed,
			Error:          fmt.Sprintf("status %d", resp.StatusCode),
		}
	}
	return APIHealth{API: p.name, Healthy: true, ResponseTimeMS: elapsed}
}

func rollup(results []APIHealth) string {
	healthy := 0
	for _, r := range results {
		if r.Healthy {
			healthy++
		}
	}
	switch {
	case healthy == len(results):
		return StatusHealthy
	case healthy > 0:
		return StatusDegraded
	default:
		return StatusUnhealthy
	}
}
