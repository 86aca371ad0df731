package orchestrator

import (
	"context"

	"github.com/dusk-indust/userposts/internal/resource"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// maxInFlight caps concurrent requests against the public API.
const maxInFlight = 4

// PostsResult holds the outcome of one user's posts fetch.
type PostsResult struct {
	UserID int
	Posts  []resource.Post
	Err    error
}

// FanOut fetches posts for many users in parallel. It reads straight from
// the resource client and never touches a Store.
type FanOut struct {
	client     resource.Client
	onProgress func(ProgressEvent)
}

// NewFanOut creates a FanOut that fetches via client.
// onProgress is called synchronously from each goroutine; it may be nil.
func NewFanOut(client resource.Client, onProgress func(ProgressEvent)) *FanOut {
	return &FanOut{
		client:     client,
		onProgress: onProgress,
	}
}

// Run fetches the posts of every user in userIDs. The first failure cancels
// the derived context so remaining requests return early.
//
// Results are returned in the order of userIDs regardless of whether an
// error occurred. The returned error is the first non-nil fetch error.
func (f *FanOut) Run(ctx context.Context, userIDs []int) ([]PostsResult, error) {
	results := make([]PostsResult, len(userIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxInFlight)

	for i, userID := range userIDs {
		ev := ProgressEvent{
			RequestID: uuid.NewString(),
			Op:        resource.OpListPostsByUser,
			UserID:    userID,
			Status:    ProgressPending,
		}
		f.emit(ev)

		g.Go(func() error {
			ev.Status = ProgressWorking
			f.emit(ev)

			posts, err := f.client.ListPostsByUser(gctx, userID)
			if err != nil {
				results[i] = PostsResult{UserID: userID, Err: err}
				ev.Status = ProgressFailed
				ev.Message = err.Error()
				f.emit(ev)
				return err
			}

			results[i] = PostsResult{UserID: userID, Posts: posts}
			ev.Status = ProgressComplete
			f.emit(ev)
			return nil
		})
	}

	err := g.Wait()
	return results, err
}

// emit sends a progress event if a callback is registered.
func (f *FanOut) emit(ev ProgressEvent) {
	if f.onProgress != nil {
		f.onProgress(ev)
	}
}
