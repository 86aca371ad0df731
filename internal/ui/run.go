package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dusk-indust/userposts/internal/orchestrator"
)

// Run shows the users screen in the terminal until the user quits or ctx
// is cancelled. progress may be nil.
func Run(ctx context.Context, orch *orchestrator.Orchestrator, progress *orchestrator.ProgressReporter) error {
	states, unsubscribe := orch.Store().Subscribe()
	defer unsubscribe()

	var events <-chan orchestrator.ProgressEvent
	if progress != nil {
		events = progress.Subscribe()
	}

	p := tea.NewProgram(NewModel(ctx, orch, states, events), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("ui: %w", err)
	}
	return nil
}
