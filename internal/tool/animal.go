package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"pettingzoo/internal/eventbus"
	"pettingzoo/internal/fetch"
	"pettingzoo/internal/zoo"
)

var animalDescriptions = map[zoo.Kind]string{
	zoo.KindDuck: "Get a random duck image from the random-d.uk API.",
	zoo.KindDog:  "Get a random dog image from random.dog or dog.ceo API.",
	zoo.KindCat:  "Get a random cat image from thecatapi.com.",
}

// AnimalTool fetches one random image for a fixed animal kind. Upstream
// failures are degraded into a fallback payload here, at the registry
// boundary; they never escape as errors.
type AnimalTool struct {
	kind    zoo.Kind
	fetcher *fetch.Client
	bus     *eventbus.Bus
}

// NewAnimalTool builds the tool for the given kind. The kind must be
// one of the registered animal kinds.
func NewAnimalTool(kind zoo.Kind, fetcher *fetch.Client, bus *eventbus.Bus) (*AnimalTool, error) {
	if _, ok := zoo.ParseKind(string(kind)); !ok {
		return nil, fmt.Errorf("unsupported animal kind %q", kind)
	}
	return &AnimalTool{kind: kind, fetcher: fetcher, bus: bus}, nil
}

func (t *AnimalTool) Name() string                { return string(t.kind) }
func (t *AnimalTool) Description() string         { return animalDescriptions[t.kind] }
func (t *AnimalTool) Parameters() json.RawMessage { return emptySchema }

func (t *AnimalTool) Execute(ctx context.Context, _ json.RawMessage) (*Result, error) {
	res, err := t.fetcher.Fetch(ctx, t.kind)
	if err != nil {
		return nil, err
	}

	if res.OK() {
		t.publish(eventbus.TopicFetchSuccess, res)
		return &Result{Text: res.URL, Fetch: &res}, nil
	}

	log.Printf("[tool] %s fetch failed: %v", t.kind, res.Err)
	topic := eventbus.TopicFetchFailure
	if res.Err.Kind == zoo.ErrRateLimited {
		topic = eventbus.TopicRateLimited
	}
	t.publish(topic, res)

	payload := zoo.Degrade(res)
	text := payload.Message + "\nFallback image: " + payload.Fallback
	return &Result{Text: text, IsError: true, Fetch: &res}, nil
}

func (t *AnimalTool) publish(topic eventbus.Topic, res zoo.FetchResult) {
	if t.bus == nil {
		return
	}
	t.bus.Publish(topic, eventbus.FetchEvent{
		Animal: res.Animal,
		URL:    res.URL,
		Err:    res.Err,
	})
}
