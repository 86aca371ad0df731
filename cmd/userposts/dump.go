package main

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/dusk-indust/userposts/internal/export"
	"github.com/dusk-indust/userposts/internal/orchestrator"
)

func runDump(ctx context.Context, cfg orchestrator.Config, w io.Writer) error {
	client, err := cfg.NewClient()
	if err != nil {
		return err
	}

	var onProgress func(orchestrator.ProgressEvent)
	if cfg.Verbose {
		onProgress = func(ev orchestrator.ProgressEvent) {
			log.Println(orchestrator.FormatProgress(ev))
		}
	}

	snap, err := export.Snapshot(ctx, client, onProgress)
	if err != nil {
		return fmt.Errorf("dump: %w", err)
	}
	snap.BaseURL = client.BaseURL()
	return export.WriteJSON(w, snap)
}
