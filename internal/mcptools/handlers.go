package mcptools

import (
	"context"
	"sync"

	"github.com/dusk-indust/userposts/internal/orchestrator"
	"github.com/dusk-indust/userposts/internal/resource"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// FeedService handles MCP tool calls by driving an Orchestrator.
type FeedService struct {
	orch *orchestrator.Orchestrator

	// calls serializes fetching tools so that an observed error belongs to
	// the call that caused it.
	calls sync.Mutex

	mu   sync.Mutex
	last error
}

// NewFeedService creates a FeedService with its own Orchestrator over
// client. opts are passed to orchestrator.New; the error observer is
// reserved by the service.
func NewFeedService(client resource.Client, opts ...orchestrator.Option) *FeedService {
	s := &FeedService{}
	s.orch = orchestrator.New(client, append(opts, orchestrator.WithErrorObserver(s.observeError))...)
	return s
}

// Store exposes the underlying view state.
func (s *FeedService) Store() *orchestrator.Store {
	return s.orch.Store()
}

// LoadUsers fetches users and returns the resulting state.
func (s *FeedService) LoadUsers(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ LoadUsersInput,
) (*mcp.CallToolResult, StateOutput, error) {
	return nil, s.run(func() { s.orch.LoadUsers(ctx) }), nil
}

// LoadPosts fetches the posts of one user and returns the resulting state.
func (s *FeedService) LoadPosts(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LoadPostsInput,
) (*mcp.CallToolResult, StateOutput, error) {
	return nil, s.run(func() { s.orch.LoadPosts(ctx, input.UserID) }), nil
}

// GetState returns the current state without fetching.
func (s *FeedService) GetState(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ GetStateInput,
) (*mcp.CallToolResult, StateOutput, error) {
	return nil, stateOutput(s.orch.Store().Snapshot(), nil), nil
}

func (s *FeedService) observeError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = err
}

// run executes one fetch and pairs the resulting state with its error.
func (s *FeedService) run(fetch func()) StateOutput {
	s.calls.Lock()
	defer s.calls.Unlock()

	s.observeError(nil)
	fetch()

	s.mu.Lock()
	err := s.last
	s.mu.Unlock()

	return stateOutput(s.orch.Store().Snapshot(), err)
}

func stateOutput(vs orchestrator.ViewState, err error) StateOutput {
	out := StateOutput{
		Users:        vs.Users,
		Posts:        vs.Posts,
		ActiveUserID: vs.ActiveUserID,
	}
	if err != nil {
		out.Error = err.Error()
	}
	return out
}
