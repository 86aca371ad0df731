package main

import (
	"context"

	"github.com/dusk-indust/userposts/internal/mcptools"
	"github.com/dusk-indust/userposts/internal/orchestrator"
)

func runMCP(ctx context.Context, cfg orchestrator.Config) error {
	client, err := cfg.NewClient()
	if err != nil {
		return err
	}
	svc := mcptools.NewFeedService(client, orchestrator.WithVerbose(cfg.Verbose))
	return mcptools.RunStdio(ctx, mcptools.NewFeedMCPServer(svc))
}
