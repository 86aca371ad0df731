package orchestrator

import (
	"sync"

	"github.com/dusk-indust/userposts/internal/resource"
)

// ViewState is a point-in-time copy of everything the presentation layer renders.
type ViewState struct {
	// Users is in server response order.
	Users []resource.User `json:"users"`

	// Posts belong to ActiveUserID whenever non-empty.
	Posts []resource.Post `json:"posts"`

	// ActiveUserID is nil until the first successful posts load.
	ActiveUserID *int `json:"activeUserId"`
}

// Store holds the shared view state. Readers get copies; writes happen only
// through the unexported replace methods, which the Orchestrator calls.
type Store struct {
	mu      sync.RWMutex
	state   ViewState
	subs    map[int]chan ViewState
	nextSub int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		state: ViewState{
			Users: []resource.User{},
			Posts: []resource.Post{},
		},
		subs: make(map[int]chan ViewState),
	}
}

// Users returns a copy of the current user sequence.
func (s *Store) Users() []resource.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]resource.User{}, s.state.Users...)
}

// Posts returns a copy of the current post sequence.
func (s *Store) Posts() []resource.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]resource.Post{}, s.state.Posts...)
}

// ActiveUserID returns the user whose posts are loaded. ok is false until
// posts have been loaded at least once.
func (s *Store) ActiveUserID() (id int, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.ActiveUserID == nil {
		return 0, false
	}
	return *s.state.ActiveUserID, true
}

// UserByID looks a user up in the current user sequence.
func (s *Store) UserByID(id int) (resource.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.state.Users {
		if u.ID == id {
			return u, true
		}
	}
	return resource.User{}, false
}

// Snapshot returns a copy of the whole view state.
func (s *Store) Snapshot() ViewState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe returns a channel that always holds the latest snapshot. The
// current state is delivered immediately. Intermediate states may be skipped
// when the reader is slow; the most recent one is never lost. Call the
// returned function to unsubscribe, which closes the channel.
func (s *Store) Subscribe() (<-chan ViewState, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan ViewState, 1)
	ch <- s.snapshotLocked()
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

// replaceUsers swaps the whole user sequence.
func (s *Store) replaceUsers(users []resource.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Users = append([]resource.User{}, users...)
	s.notifyLocked()
}

// replacePosts swaps the post sequence and the active user in one step.
func (s *Store) replacePosts(userID int, posts []resource.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Posts = append([]resource.Post{}, posts...)
	s.state.ActiveUserID = &userID
	s.notifyLocked()
}

// reset discards all loaded state.
func (s *Store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = ViewState{
		Users: []resource.User{},
		Posts: []resource.Post{},
	}
	s.notifyLocked()
}

func (s *Store) snapshotLocked() ViewState {
	vs := ViewState{
		Users: append([]resource.User{}, s.state.Users...),
		Posts: append([]resource.Post{}, s.state.Posts...),
	}
	if s.state.ActiveUserID != nil {
		id := *s.state.ActiveUserID
		vs.ActiveUserID = &id
	}
	return vs
}

// notifyLocked replaces whatever snapshot is buffered in each subscriber
// channel with the current one. Must be called with mu held for writing.
func (s *Store) notifyLocked() {
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- s.snapshotLocked()
	}
}
