package orchestrator

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dusk-indust/userposts/internal/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient implements resource.Client with configurable functions.
type fakeClient struct {
	listUsers func(ctx context.Context) ([]resource.User, error)
	listPosts func(ctx context.Context, userID int) ([]resource.Post, error)
}

func (f *fakeClient) ListUsers(ctx context.Context) ([]resource.User, error) {
	return f.listUsers(ctx)
}

func (f *fakeClient) ListPostsByUser(ctx context.Context, userID int) ([]resource.Post, error) {
	return f.listPosts(ctx, userID)
}

func postsFor(userID int, ids ...int) []resource.Post {
	posts := make([]resource.Post, 0, len(ids))
	for _, id := range ids {
		posts = append(posts, resource.Post{UserID: userID, ID: id, Title: "t", Body: "b"})
	}
	return posts
}

func TestLoadUsers_ScenarioAgainstHTTP(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":1,"name":"Ann","username":"ann","email":"a@x.com"}]`))
	}))
	defer ts.Close()

	client, err := resource.NewHTTPClient(ts.URL)
	require.NoError(t, err)
	o := New(client)

	o.LoadUsers(context.Background())

	assert.Equal(t, []resource.User{{ID: 1, Name: "Ann", Username: "ann", Email: "a@x.com"}}, o.Store().Users())
}

func TestLoadPosts_ScenarioAgainstHTTP(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("userId"))
		_, _ = w.Write([]byte(`[{"userId":1,"id":10,"title":"Hi","body":"Hello"}]`))
	}))
	defer ts.Close()

	client, err := resource.NewHTTPClient(ts.URL)
	require.NoError(t, err)
	o := New(client)

	o.LoadPosts(context.Background(), 1)

	assert.Equal(t, []resource.Post{{UserID: 1, ID: 10, Title: "Hi", Body: "Hello"}}, o.Store().Posts())
	id, ok := o.Store().ActiveUserID()
	require.True(t, ok)
	assert.Equal(t, 1, id)
}

func TestLoadUsers_ReplacesRatherThanAppends(t *testing.T) {
	batches := [][]resource.User{
		{{ID: 1, Name: "Ann"}, {ID: 2, Name: "Bob"}},
		{{ID: 3, Name: "Cid"}},
	}
	call := 0
	o := New(&fakeClient{listUsers: func(context.Context) ([]resource.User, error) {
		b := batches[call]
		call++
		return b, nil
	}})

	o.LoadUsers(context.Background())
	assert.Equal(t, batches[0], o.Store().Users())

	o.LoadUsers(context.Background())
	assert.Equal(t, batches[1], o.Store().Users())
}

func TestLoadUsers_FailureLeavesStoreUnchanged(t *testing.T) {
	initial := []resource.User{{ID: 1, Name: "Ann"}}
	fail := false
	o := New(&fakeClient{listUsers: func(context.Context) ([]resource.User, error) {
		if fail {
			return nil, &resource.FetchError{Op: resource.OpListUsers, StatusCode: http.StatusInternalServerError}
		}
		return initial, nil
	}})

	o.LoadUsers(context.Background())
	require.Equal(t, initial, o.Store().Users())

	fail = true
	o.LoadUsers(context.Background())

	assert.Equal(t, initial, o.Store().Users())
}

func TestLoadPosts_FailureLeavesStoreUnchanged(t *testing.T) {
	o := New(&fakeClient{listPosts: func(_ context.Context, userID int) ([]resource.Post, error) {
		if userID == 2 {
			return nil, &resource.FetchError{Op: resource.OpListPostsByUser, Err: errors.New("unreachable")}
		}
		return postsFor(userID, 10, 11), nil
	}})

	o.LoadPosts(context.Background(), 1)
	o.LoadPosts(context.Background(), 2)

	assert.Equal(t, postsFor(1, 10, 11), o.Store().Posts())
	id, ok := o.Store().ActiveUserID()
	require.True(t, ok)
	assert.Equal(t, 1, id, "failed load must not switch the active user")
}

func TestLoadPosts_SwitchingUsersReplacesPosts(t *testing.T) {
	o := New(&fakeClient{listPosts: func(_ context.Context, userID int) ([]resource.Post, error) {
		return postsFor(userID, userID*10, userID*10+1), nil
	}})

	for _, u := range []int{1, 2, 3, 2} {
		o.LoadPosts(context.Background(), u)

		id, ok := o.Store().ActiveUserID()
		require.True(t, ok)
		assert.Equal(t, u, id)
		posts := o.Store().Posts()
		require.Len(t, posts, 2)
		for _, p := range posts {
			assert.Equal(t, u, p.UserID, "every post belongs to the active user")
		}
	}
}

func TestErrorObserver_ReceivesFetchErrors(t *testing.T) {
	var got []error
	o := New(&fakeClient{
		listUsers: func(context.Context) ([]resource.User, error) {
			return nil, &resource.FetchError{Op: resource.OpListUsers, StatusCode: http.StatusBadGateway}
		},
		listPosts: func(context.Context, int) ([]resource.Post, error) {
			return nil, &resource.FetchError{Op: resource.OpListPostsByUser, StatusCode: http.StatusNotFound}
		},
	}, WithErrorObserver(func(err error) { got = append(got, err) }))

	o.LoadUsers(context.Background())
	o.LoadPosts(context.Background(), 5)

	require.Len(t, got, 2)
	var fe *resource.FetchError
	require.ErrorAs(t, got[0], &fe)
	assert.Equal(t, resource.OpListUsers, fe.Op)
	assert.Equal(t, http.StatusBadGateway, fe.StatusCode)
	require.ErrorAs(t, got[1], &fe)
	assert.Equal(t, resource.OpListPostsByUser, fe.Op)
	assert.Equal(t, http.StatusNotFound, fe.StatusCode)

	assert.Empty(t, o.Store().Users())
	_, ok := o.Store().ActiveUserID()
	assert.False(t, ok)
}

func TestErrorObserver_NotCalledOnSuccess(t *testing.T) {
	called := false
	o := New(&fakeClient{listUsers: func(context.Context) ([]resource.User, error) {
		return []resource.User{}, nil
	}}, WithErrorObserver(func(error) { called = true }))

	o.LoadUsers(context.Background())

	assert.False(t, called)
}

func TestLoadPosts_LastResponseWins(t *testing.T) {
	gates := map[int]chan struct{}{1: make(chan struct{}), 2: make(chan struct{})}
	started := make(chan int, 2)

	o := New(&fakeClient{listPosts: func(_ context.Context, userID int) ([]resource.Post, error) {
		started <- userID
		<-gates[userID]
		return postsFor(userID, userID*100), nil
	}})

	var wg sync.WaitGroup
	done := map[int]chan struct{}{1: make(chan struct{}), 2: make(chan struct{})}
	for _, u := range []int{1, 2} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer close(done[u])
			o.LoadPosts(context.Background(), u)
		}()
		// Initiate in order: 1 then 2.
		require.Equal(t, u, <-started)
	}

	// The later request resolves first.
	close(gates[2])
	<-done[2]
	id, _ := o.Store().ActiveUserID()
	require.Equal(t, 2, id)

	close(gates[1])
	wg.Wait()

	id, ok := o.Store().ActiveUserID()
	require.True(t, ok)
	assert.Equal(t, 1, id, "the response that resolved last wins")
	assert.Equal(t, postsFor(1, 100), o.Store().Posts())
}

func TestConcurrentLoads_ObserveConsistentState(t *testing.T) {
	o := New(&fakeClient{
		listUsers: func(context.Context) ([]resource.User, error) {
			return []resource.User{{ID: 1}, {ID: 2}}, nil
		},
		listPosts: func(_ context.Context, userID int) ([]resource.Post, error) {
			time.Sleep(time.Millisecond)
			return postsFor(userID, 1, 2, 3), nil
		},
	})

	stop := make(chan struct{})
	var readers sync.WaitGroup
	readers.Add(1)
	go func() {
		defer readers.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			vs := o.Store().Snapshot()
			for _, p := range vs.Posts {
				if assert.NotNil(t, vs.ActiveUserID) {
					assert.Equal(t, *vs.ActiveUserID, p.UserID)
				}
			}
		}
	}()

	var writers sync.WaitGroup
	for i := 0; i < 20; i++ {
		writers.Add(1)
		go func() {
			defer writers.Done()
			o.LoadUsers(context.Background())
			o.LoadPosts(context.Background(), i%4+1)
		}()
	}
	writers.Wait()
	close(stop)
	readers.Wait()
}

func TestProgress_EventsForSuccessAndFailure(t *testing.T) {
	pr := NewProgressReporter()
	o := New(&fakeClient{
		listUsers: func(context.Context) ([]resource.User, error) { return nil, nil },
		listPosts: func(context.Context, int) ([]resource.Post, error) {
			return nil, errors.New("boom")
		},
	}, WithProgress(pr))

	o.LoadUsers(context.Background())
	o.LoadPosts(context.Background(), 9)
	pr.Close()

	var events []ProgressEvent
	for ev := range pr.Subscribe() {
		events = append(events, ev)
	}
	require.Len(t, events, 6)

	statuses := make([]ProgressStatus, len(events))
	for i, ev := range events {
		statuses[i] = ev.Status
	}
	assert.Equal(t, []ProgressStatus{
		ProgressPending, ProgressWorking, ProgressComplete,
		ProgressPending, ProgressWorking, ProgressFailed,
	}, statuses)

	assert.Equal(t, resource.OpListUsers, events[0].Op)
	assert.NotEmpty(t, events[0].RequestID)
	assert.Equal(t, events[0].RequestID, events[2].RequestID)
	assert.NotEqual(t, events[0].RequestID, events[3].RequestID)
	assert.Equal(t, 9, events[5].UserID)
	assert.Equal(t, "boom", events[5].Message)
}

func TestReset_ClearsState(t *testing.T) {
	o := New(&fakeClient{
		listUsers: func(context.Context) ([]resource.User, error) { return []resource.User{{ID: 1}}, nil },
		listPosts: func(_ context.Context, u int) ([]resource.Post, error) { return postsFor(u, 1), nil },
	})
	o.LoadUsers(context.Background())
	o.LoadPosts(context.Background(), 1)

	o.Reset()

	vs := o.Store().Snapshot()
	assert.Empty(t, vs.Users)
	assert.Empty(t, vs.Posts)
	assert.Nil(t, vs.ActiveUserID)
}

func TestWithStore_SharesState(t *testing.T) {
	store := NewStore()
	o := New(&fakeClient{listUsers: func(context.Context) ([]resource.User, error) {
		return []resource.User{{ID: 7}}, nil
	}}, WithStore(store))

	o.LoadUsers(context.Background())

	assert.Same(t, store, o.Store())
	assert.Equal(t, []resource.User{{ID: 7}}, store.Users())
}
