package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pettingzoo/internal/config"
	"pettingzoo/internal/eventbus"
	"pettingzoo/internal/fetch"
	"pettingzoo/internal/oracle"
	"pettingzoo/internal/security"
	"pettingzoo/internal/tool"
	"pettingzoo/internal/web"
)

func main() {
	host := flag.String("host", "", "bind host (overrides config)")
	port := flag.Int("port", 0, "bind port (overrides config)")
	flag.Parse()

	loader, err := config.NewLoader()
	if err != nil {
		log.Fatalf("create config loader: %v", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
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
	logEvents(bus)

	fetcher := fetch.NewClient(cfg.Upstream)
	checker := fetch.NewChecker(cfg.Upstream)
	watcher := fetch.NewWatcher(checker, bus, 0)

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

	srv := web.New(cfg.Server, web.Deps{
		Fetcher:  fetcher,
		Checker:  checker,
		Registry: registry,
		Resolver: resolver,
		Bus:      bus,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := watcher.Start(ctx); err != nil {
		log.Printf("health watcher: %v", err)
	}
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	watcher.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func logEvents(bus *eventbus.Bus) {
	for _, topic := range []eventbus.Topic{
		eventbus.TopicFetchFailure,
		eventbus.TopicRateLimited,
		eventbus.TopicHealthChange,
		eventbus.TopicQueryResolved,
		eventbus.TopicError,
	} {
		bus.Subscribe(topic, func(e eventbus.Event) {
			log.Printf("[event] %s: %+v", e.Topic, e.Payload)
		})
	}
}
