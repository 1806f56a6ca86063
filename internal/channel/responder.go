package channel

import (
	"context"
	"encoding/json"
	"log"

	"pettingzoo/internal/eventbus"
	"pettingzoo/internal/oracle"
	"pettingzoo/internal/tool"
	"pettingzoo/internal/zoo"
)

// Responder turns inbound channel messages into tool-backed replies.
// Keyword matching runs first; the oracle resolver, when configured,
// picks up whatever the keywords miss.
type Responder struct {
	registry *tool.Registry
	resolver *oracle.Resolver // optional
	keyword  oracle.KeywordResolver
	bus      *eventbus.Bus // optional
}

func NewResponder(registry *tool.Registry, resolver *oracle.Resolver, bus *eventbus.Bus) *Responder {
	return &Responder{registry: registry, resolver: resolver, bus: bus}
}

// Respond maps one inbound message to an outbound reply. Every
// failure mode becomes reply text; nothing propagates to the channel
// loop.
func (r *Responder) Respond(ctx context.Context, in InboundMessage) OutboundMessage {
	if kind, ok := r.keyword.Extract(in.Text); ok {
		return r.invoke(ctx, in, string(kind), nil)
	}

	if r.resolver != nil {
		res, err := r.resolver.Resolve(ctx, in.Text, r.registry.Definitions())
		if err != nil {
			log.Printf("[channel] resolve failed: %v", err)
			return OutboundMessage{ChatID: in.ChatID, Text: "Something went wrong reaching the model. Please try again."}
		}
		if res.Matched() {
			return r.invoke(ctx, in, res.Tool, res.Arguments)
		}
		r.publish(in.Text, "")
		return OutboundMessage{ChatID: in.ChatID, Text: res.Reply}
	}

	r.publish(in.Text, "")
	return OutboundMessage{ChatID: in.ChatID, Text: oracle.NoMatchReply}
}

func (r *Responder) invoke(ctx context.Context, in InboundMessage, name string, args json.RawMessage) OutboundMessage {
	res, err := r.registry.Invoke(ctx, name, args)
	if err != nil {
		log.Printf("[channel] tool %s failed: %v", name, err)
		return OutboundMessage{ChatID: in.ChatID, Text: "Sorry, that didn't work. Please try again."}
	}
	r.publish(in.Text, name)

	if res.Fetch != nil {
		payload := zoo.Degrade(*res.Fetch)
		if payload.OK {
			return OutboundMessage{
				ChatID:   in.ChatID,
				ImageURL: payload.URL,
				Text:     "Here's a " + string(payload.Animal) + "!",
			}
		}
		return OutboundMessage{ChatID: in.ChatID, ImageURL: payload.Fallback, Text: payload.Message}
	}
	return OutboundMessage{ChatID: in.ChatID, Text: res.Text}
}

func (r *Responder) publish(query, tool string) {
	if r.bus == nil {
		return
	}
	r.bus.Publish(eventbus.TopicQueryResolved, eventbus.ResolutionEvent{Query: query, Tool: tool})
}
