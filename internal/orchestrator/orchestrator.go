package orchestrator

import (
	"context"
	"log"

	"github.com/dusk-indust/userposts/internal/resource"
	"github.com/google/uuid"
)

// Orchestrator runs the two fetch operations and writes their results into
// its Store. Fetch failures never reach the caller: they leave the store
// untouched and are reported only to the optional error observer, the
// progress reporter, and (in verbose mode) the log.
//
// Each operation blocks until its request resolves. Callers that want
// fire-and-forget behaviour run it in a goroutine. Concurrent operations are
// not ordered against each other; whichever response arrives last wins.
type Orchestrator struct {
	client   resource.Client
	store    *Store
	progress *ProgressReporter
	onError  func(error)
	verbose  bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithErrorObserver registers fn to receive every fetch error. fn is called
// synchronously from the goroutine running the operation.
func WithErrorObserver(fn func(error)) Option {
	return func(o *Orchestrator) {
		o.onError = fn
	}
}

// WithProgress attaches a reporter that receives fetch lifecycle events.
func WithProgress(pr *ProgressReporter) Option {
	return func(o *Orchestrator) {
		o.progress = pr
	}
}

// WithVerbose logs fetch failures.
func WithVerbose(v bool) Option {
	return func(o *Orchestrator) {
		o.verbose = v
	}
}

// WithStore makes the orchestrator write into an existing store.
func WithStore(s *Store) Option {
	return func(o *Orchestrator) {
		o.store = s
	}
}

// New creates an Orchestrator that fetches through client.
func New(client resource.Client, opts ...Option) *Orchestrator {
	o := &Orchestrator{client: client}
	for _, opt := range opts {
		opt(o)
	}
	if o.store == nil {
		o.store = NewStore()
	}
	return o
}

// Store returns the view state the orchestrator writes to.
func (o *Orchestrator) Store() *Store {
	return o.store
}

// LoadUsers fetches all users and, on success, replaces the store's users.
func (o *Orchestrator) LoadUsers(ctx context.Context) {
	ev := o.begin(resource.OpListUsers, 0)

	users, err := o.client.ListUsers(ctx)
	if err != nil {
		o.fail(ev, err)
		return
	}

	o.store.replaceUsers(users)
	o.complete(ev)
}

// LoadPosts fetches the posts of userID and, on success, replaces the
// store's posts and makes userID the active user in the same update.
func (o *Orchestrator) LoadPosts(ctx context.Context, userID int) {
	ev := o.begin(resource.OpListPostsByUser, userID)

	posts, err := o.client.ListPostsByUser(ctx, userID)
	if err != nil {
		o.fail(ev, err)
		return
	}

	o.store.replacePosts(userID, posts)
	o.complete(ev)
}

// Reset clears users, posts, and the active user.
func (o *Orchestrator) Reset() {
	o.store.reset()
}

// begin emits the pending and working events for a new fetch and returns
// the event template used for its outcome.
func (o *Orchestrator) begin(op string, userID int) ProgressEvent {
	ev := ProgressEvent{
		RequestID: uuid.NewString(),
		Op:        op,
		UserID:    userID,
		Status:    ProgressPending,
	}
	o.emit(ev)
	ev.Status = ProgressWorking
	o.emit(ev)
	return ev
}

func (o *Orchestrator) complete(ev ProgressEvent) {
	ev.Status = ProgressComplete
	o.emit(ev)
}

func (o *Orchestrator) fail(ev ProgressEvent, err error) {
	if o.verbose {
		log.Printf("orchestrator: %s failed (request %s): %v", ev.Op, ev.RequestID, err)
	}
	if o.onError != nil {
		o.onError(err)
	}
	ev.Status = ProgressFailed
	ev.Message = err.Error()
	o.emit(ev)
}

func (o *Orchestrator) emit(ev ProgressEvent) {
	if o.progress != nil {
		o.progress.Emit(ev)
	}
}
