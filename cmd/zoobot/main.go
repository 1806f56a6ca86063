package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pettingzoo/internal/channel"
	"pettingzoo/internal/config"
	"pettingzoo/internal/eventbus"
	"pettingzoo/internal/fetch"
	"pettingzoo/internal/oracle"
	"pettingzoo/internal/security"
	"pettingzoo/internal/tool"
)

func main() {
	loader, err := config.NewLoader()
	if err != nil {
		log.Fatalf("create config loader: %v", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	var store config.SecretStore
	if ks, err := security.NewKeyStore(); err != nil {
		log.Printf("key store unavailable: %v (secrets stay in config file)", err)
	} else {
		store = ks
	}
	if config.ResolveSecrets(cfg, store) {
		if err := loader.Save(config.WithPlaceholders(cfg)); err != nil {
			log.Printf("failed to rewrite config with placeholders: %v", err)
		}
	}

	bus := eventbus.New()
	bus.Subscribe(eventbus.TopicQueryResolved, func(e eventbus.Event) {
		log.Printf("[event] %s: %+v", e.Topic, e.Payload)
	})

	fetcher := fetch.NewClient(cfg.Upstream)
	checker := fetch.NewChecker(cfg.Upstream)

	registry, err := tool.DefaultRegistry(fetcher, checker, bus)
	if err != nil {
		log.Fatalf("build tool registry: %v", err)
	}

	var resolver *oracle.Resolver
	if provider, profile, err := oracle.NewProviderFromConfig(cfg); err != nil {
		log.Printf("oracle backend unavailable: %v (keyword matching only)", err)
	} else {
		resolver = oracle.NewResolver(provider, profile.MaxTokens)
		log.Printf("oracle backend: %s (%s)", profile.Name, profile.Model)
	}

	responder := channel.NewResponder(registry, resolver, bus)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mgr := channel.NewManager()
	register := func(ch channel.Channel) {
		ch.OnMessage(func(in channel.InboundMessage) {
			go func() {
				out := responder.Respond(ctx, in)
				if err := ch.Send(ctx, out); err != nil {
					log.Printf("send on %s failed: %v", in.ChannelName, err)
				}
			}()
		})
		mgr.Register(ch)
	}

	register(channel.NewConsoleChannel())
	if cfg.Channels.Telegram != nil && cfg.Channels.Telegram.Token != "" {
		register(channel.NewTelegramChannel(*cfg.Channels.Telegram))
	} else {
		log.Println("telegram token not configured, console only")
	}

	if err := mgr.StartAll(ctx); err != nil {
		log.Fatalf("start channels: %v", err)
	}

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	mgr.StopAll(shutdownCtx)
}
