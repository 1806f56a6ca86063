package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"pettingzoo/internal/chat"
	"pettingzoo/internal/config"
	"pettingzoo/internal/oracle"
	"pettingzoo/internal/security"
)

func main() {
	backend := flag.String("backend", "", "oracle backend profile (overrides config)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <server-command> [server-args...]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Example: %s ./zooserver\n\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nBackends: %v\n", oracle.Profiles())
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	// Tag every log line with a session id; replies go to stdout, logs
	// to stderr.
	log.SetPrefix(uuid.NewString()[:8] + " ")

	loader, err := config.NewLoader()
	if err != nil {
		log.Fatalf("create config loader: %v", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *backend != "" {
		cfg.Backend = *backend
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

	provider, profile, err := oracle.NewProviderFromConfig(cfg)
	if err != nil {
		log.Fatalf("oracle backend: %v", err)
	}

	ctx := context.Background()
	client, err := chat.Connect(ctx, flag.Arg(0), flag.Args()[1:]...)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer client.Close()

	session := chat.NewSession(chat.SessionConfig{
		Caller:   client,
		Resolver: oracle.NewResolver(provider, profile.MaxTokens),
		Backend:  profile.Name,
	})
	if err := session.Run(ctx); err != nil {
		log.Fatalf("session: %v", err)
	}
}
