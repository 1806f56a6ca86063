package tool

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"pettingzoo/internal/config"
	"pettingzoo/internal/eventbus"
	"pettingzoo/internal/fetch"
	"pettingzoo/internal/zoo"
)

func collectEvents(bus *eventbus.Bus, topic eventbus.Topic, sink *[]eventbus.Event) {
	bus.Subscribe(topic, func(e eventbus.Event) {
		*sink = append(*sink, e)
	})
}

func TestAnimalToolSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"url": "https://example.com/duck.jpg"}`))
	}))
	defer srv.Close()

	bus := eventbus.New()
	var events []eventbus.Event
	collectEvents(bus, eventbus.TopicFetchSuccess, &events)

	at, err := NewAnimalTool(zoo.KindDuck, fetch.NewClient(config.UpstreamConfig{DuckURL: srv.URL}), bus)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := at.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsError {
		t.Fatalf("expected success, got error result: %s", res.Text)
	}
	if res.Text != "https://example.com/duck.jpg" {
		t.Errorf("unexpected text: %s", res.Text)
	}
	if res.Fetch == nil || !res.Fetch.OK() {
		t.Error("typed fetch result should be attached and ok")
	}
	if len(events) != 1 {
		t.Errorf("expected 1 success event, got %d", len(events))
	}
}

func TestAnimalToolDegradesFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	bus := eventbus.New()
	var events []eventbus.Event
	collectEvents(bus, eventbus.TopicFetchFailure, &events)

	at, err := NewAnimalTool(zoo.KindDog, fetch.NewClient(config.UpstreamConfig{
		DogURL:         srv.URL,
		DogFallbackURL: srv.URL,
	}), bus)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := at.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("upstream failure must not surface as an error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected degraded error result")
	}
	if !strings.Contains(res.Text, zoo.FallbackAssets[zoo.KindDog]) {
		t.Errorf("degraded text should carry the fallback asset: %s", res.Text)
	}
	if res.Fetch == nil || res.Fetch.Err == nil || res.Fetch.Err.Kind != zoo.ErrHTTP {
		t.Errorf("unexpected typed result: %+v", res.Fetch)
	}
	if len(events) != 1 {
		t.Errorf("expected 1 failure event, got %d", len(events))
	}
}

func TestAnimalToolRateLimitedTopic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "15")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	bus := eventbus.New()
	var limited []eventbus.Event
	var failed []eventbus.Event
	collectEvents(bus, eventbus.TopicRateLimited, &limited)
	collectEvents(bus, eventbus.TopicFetchFailure, &failed)

	at, err := NewAnimalTool(zoo.KindCat, fetch.NewClient(config.UpstreamConfig{CatURL: srv.URL}), bus)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := at.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected degraded result")
	}
	if !strings.Contains(res.Text, "busy") {
		t.Errorf("rate limited message should differ from timeout: %s", res.Text)
	}
	if len(limited) != 1 || len(failed) != 0 {
		t.Errorf("expected rate_limited topic only, got %d/%d", len(limited), len(failed))
	}
}

func TestAnimalToolUnknownKind(t *testing.T) {
	if _, err := NewAnimalTool(zoo.Kind("giraffe"), fetch.NewClient(config.UpstreamConfig{}), nil); err == nil {
		t.Fatal("expected error for unsupported kind")
	}
}

func TestAnimalToolSingleAttempt(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	at, err := NewAnimalTool(zoo.KindCat, fetch.NewClient(config.UpstreamConfig{CatURL: srv.URL}), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res, _ := at.Execute(context.Background(), nil); !res.IsError {
		t.Fatal("expected degraded result")
	}
	if calls.Load() != 1 {
		t.Errorf("expected exactly one upstream call, got %d", calls.Load())
	}
}

func TestAnimalToolNilBus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"url": "https://example.com/duck.jpg"}`))
	}))
	defer srv.Close()

	at, err := NewAnimalTool(zoo.KindDuck, fetch.NewClient(config.UpstreamConfig{DuckURL: srv.URL}), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := at.Execute(context.Background(), nil); err != nil {
		t.Fatalf("nil bus must be tolerated: %v", err)
	}
}
