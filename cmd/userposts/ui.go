package main

import (
	"context"

	"github.com/dusk-indust/userposts/internal/orchestrator"
	"github.com/dusk-indust/userposts/internal/ui"
)

func runUI(ctx context.Context, cfg orchestrator.Config) error {
	progress := orchestrator.NewProgressReporter()
	orch, err := orchestrator.NewFromConfig(cfg, orchestrator.WithProgress(progress))
	if err != nil {
		return err
	}
	return ui.Run(ctx, orch, progress)
}
