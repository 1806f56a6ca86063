package eventbus

import (
	"time"

	"pettingzoo/internal/zoo"
)

// Topic represents an event topic.
type Topic string

const (
	TopicFetchFailure  Topic = "fetch_failure"
	TopicFetchSuccess  Topic = "fetch_success"
	TopicRateLimited   Topic = "rate_limited"
	TopicHealthChange  Topic = "health_change"
	TopicQueryResolved Topic = "query_resolved"
	TopicError         Topic = "error"
)

// Event is a message passed through the event bus.
type Event struct {
	Topic     Topic
	Payload   any
	Timestamp time.Time
}

// Handler processes an event.
type Handler func(Event)

// FetchEvent reports the outcome of one upstream fetch.
type FetchEvent struct {
	Animal zoo.Kind
	URL    string
	Err    *zoo.FetchError // nil when the fetch succeeded
}

// HealthEvent reports a transition of the overall upstream health status.
type HealthEvent struct {
	Previous string
	Current  string
}

// ResolutionEvent reports how a free-text query was resolved.
type ResolutionEvent struct {
	Query string
	Tool  string // empty when no tool matched
}
