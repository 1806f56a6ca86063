package main

import (
	"log"

	"pettingzoo/internal/config"
	"pettingzoo/internal/fetch"
	"pettingzoo/internal/mcpserver"
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

	fetcher := fetch.NewClient(cfg.Upstream)
	checker := fetch.NewChecker(cfg.Upstream)

	registry, err := tool.DefaultRegistry(fetcher, checker, nil)
	if err != nil {
		log.Fatalf("build tool registry: %v", err)
	}

	if err := mcpserver.New(registry).ServeStdio(); err != nil {
		log.Fatalf("mcp server: %v", err)
	}
}
