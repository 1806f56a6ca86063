package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"pettingzoo/internal/config"
	"pettingzoo/internal/zoo"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
	userAgent      = "pettingzoo/1.0"
)

// Client fetches random animal images from the upstream APIs.
// Each animal kind carries its own request budget; an exhausted budget
// fails the fetch without touching the network.
type Client struct {
	http    *http.Client
	cfg     config.UpstreamConfig
	budgets map[zoo.Kind]*rate.Limiter
}

// NewClient builds a client from the upstream configuration. Budgets
// match the published limits of the free APIs: ducks 100/hour, dogs
// 1000/hour, cats 10/minute.
func NewClient(cfg config.UpstreamConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http: &http.Client{Timeout: timeout},
		cfg:  cfg,
		budgets: map[zoo.Kind]*rate.Limiter{
			zoo.KindDuck: rate.NewLimiter(rate.Every(time.Hour/100), 100),
			zoo.KindDog:  rate.NewLimiter(rate.Every(time.Hour/1000), 1000),
			zoo.KindCat:  rate.NewLimiter(rate.Every(time.Minute/10), 10),
		},
	}
}

// Fetch retrieves one random image URL for the given kind. Upstream
// problems are reported inside the FetchResult; the error return is
// reserved for contract violations such as an unsupported kind.
func (c *Client) Fetch(ctx context.Context, kind zoo.Kind) (zoo.FetchResult, error) {
	if _, ok := zoo.ParseKind(string(kind)); !ok {
		return zoo.FetchResult{}, fmt.Errorf("unsupported animal kind %q", kind)
	}
	if fe := c.takeBudget(kind); fe != nil {
		return zoo.Failure(kind, fe), nil
	}
	switch kind {
	case zoo.KindDuck:
		return c.fetchDuck(ctx), nil
	case zoo.KindDog:
		return c.fetchDog(ctx), nil
	default:
		return c.fetchCat(ctx), nil
	}
}

// takeBudget consumes one token from the kind's limiter. A token that
// is not immediately available is returned to the pool and the call is
// rejected; the caller should not queue behind the budget.
func (c *Client) takeBudget(kind zoo.Kind) *zoo.FetchError {
	lim := c.budgets[kind]
	if lim == nil {
		return nil
	}
	res := lim.Reserve()
	if !res.OK() {
		return &zoo.FetchError{Kind: zoo.ErrRateLimited, Detail: "request budget exhausted"}
	}
	if delay := res.Delay(); delay > 0 {
		res.Cancel()
		return &zoo.FetchError{
			Kind:       zoo.ErrRateLimited,
			RetryAfter: delay,
			Detail:     "request budget exhausted",
		}
	}
	return nil
}

// getJSON performs a single GET and decodes the body into out. There
// are no retries: a flaky upstream is reported as-is and the caller
// decides what to do.
func (c *Client) getJSON(ctx context.Context, url string, out any) *zoo.FetchError {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &zoo.FetchError{Kind: zoo.ErrEmptyResponse, Detail: "build request: " + err.Error()}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return classifyTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return classifyStatus(resp)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &zoo.FetchError{Kind: zoo.ErrEmptyResponse, Detail: "read response: " + err.Error()}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &zoo.FetchError{Kind: zoo.ErrEmptyResponse, Detail: "decode response: " + err.Error()}
	}
	return nil
}

func classifyTransport(err error) *zoo.FetchError {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return &zoo.FetchError{Kind: zoo.ErrTimeout, Detail: err.Error()}
	}
	return &zoo.FetchError{Kind: zoo.ErrEmptyResponse, Detail: err.Error()}
}

func classifyStatus(resp *http.Response) *zoo.FetchError {
	if resp.StatusCode == http.StatusTooManyRequests {
		return &zoo.FetchError{
			Kind:       zoo.ErrRateLimited,
			Status:     resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}
	return &zoo.FetchError{Kind: zoo.ErrHTTP, Status: resp.StatusCode}
}

// parseRetryAfter handles both the delta-seconds and HTTP-date forms.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
