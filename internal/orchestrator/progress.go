package orchestrator

import "fmt"

// ProgressStatus is the lifecycle state of one fetch.
type ProgressStatus string

const (
	ProgressPending  ProgressStatus = "pending"
	ProgressWorking  ProgressStatus = "working"
	ProgressComplete ProgressStatus = "complete"
	ProgressFailed   ProgressStatus = "failed"
)

// ProgressEvent describes a state change of a single fetch.
type ProgressEvent struct {
	// RequestID ties together the events of one fetch.
	RequestID string

	// Op is resource.OpListUsers or resource.OpListPostsByUser.
	Op string

	// UserID is set for posts fetches.
	UserID int

	Status  ProgressStatus
	Message string
}

// ProgressReporter emits progress events through a buffered channel.
type ProgressReporter struct {
	ch chan ProgressEvent
}

// NewProgressReporter creates a ProgressReporter with a buffered channel of size 64.
func NewProgressReporter() *ProgressReporter {
	return &ProgressReporter{
		ch: make(chan ProgressEvent, 64),
	}
}

// Emit sends a progress event in a non-blocking fashion.
// If the channel is full, the event is silently dropped.
func (pr *ProgressReporter) Emit(event ProgressEvent) {
	select {
	case pr.ch <- event:
	default:
	}
}

// Subscribe returns a read-only channel for consuming progress events.
func (pr *ProgressReporter) Subscribe() <-chan ProgressEvent {
	return pr.ch
}

// Close closes the progress event channel.
func (pr *ProgressReporter) Close() {
	close(pr.ch)
}

// FormatProgress formats a ProgressEvent as a human-readable status line.
func FormatProgress(event ProgressEvent) string {
	subject := event.Op
	if event.UserID != 0 {
		subject = fmt.Sprintf("%s(user %d)", event.Op, event.UserID)
	}
	switch event.Status {
	case ProgressPending:
		return fmt.Sprintf("○ %s (pending)", subject)
	case ProgressWorking:
		return fmt.Sprintf("● %s...", subject)
	case ProgressComplete:
		return fmt.Sprintf("✓ %s complete", subject)
	case ProgressFailed:
		return fmt.Sprintf("✗ %s failed: %s", subject, event.Message)
	default:
		return fmt.Sprintf("? %s (unknown status)", subject)
	}
}
