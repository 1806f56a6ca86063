package zoo

import (
	"fmt"
	"time"
)

// ErrorKind classifies upstream fetch failures.
type ErrorKind int

const (
	ErrTimeout       ErrorKind = iota + 1 // request did not complete in time
	ErrHTTP                               // non-2xx status other than 429
	ErrRateLimited                        // 429 from the upstream or budget exhausted
	ErrEmptyResponse                      // unreachable, malformed, or empty payload
)

func (k ErrorKind) String() string {
	switch k {
	case ErrTimeout:
		return "timeout"
	case ErrHTTP:
		return "http_error"
	case ErrRateLimited:
		return "rate_limited"
	case ErrEmptyResponse:
		return "empty_response"
	}
	return "unknown"
}

// FetchError describes why an upstream fetch failed. It is carried as a
// value inside FetchResult and never raised past the registry boundary.
type FetchError struct {
	Kind       ErrorKind
	Status     int           // HTTP status when Kind is ErrHTTP
	RetryAfter time.Duration // hint when Kind is ErrRateLimited, zero if unknown
	Detail     string
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case ErrHTTP:
		return fmt.Sprintf("%s (status %d)", e.Kind, e.Status)
	default:
		if e.Detail != "" {
			return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
		}
		return e.Kind.String()
	}
}

// FetchResult is the outcome of one upstream image fetch.
type FetchResult struct {
	Animal Kind
	URL    string
	Err    *FetchError // nil on success
}

// Success builds a successful result carrying an image URL.
func Success(animal Kind, url string) FetchResult {
	return FetchResult{Animal: animal, URL: url}
}

// Failure builds a failed result carrying a typed error.
func Failure(animal Kind, err *FetchError) FetchResult {
	return FetchResult{Animal: animal, Err: err}
}

// OK reports whether the fetch succeeded.
func (r FetchResult) OK() bool {
	return r.Err == nil
}
