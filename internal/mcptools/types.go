package mcptools

import "github.com/dusk-indust/userposts/internal/resource"

// LoadUsersInput is the input for the load_users MCP tool.
type LoadUsersInput struct{}

// LoadPostsInput is the input for the load_posts MCP tool.
type LoadPostsInput struct {
	UserID int `json:"userId" jsonschema:"id of the user whose posts to load"`
}

// GetStateInput is the input for the get_state MCP tool.
type GetStateInput struct{}

// StateOutput is the view state returned by every tool. Error is set when
// the fetch behind the call failed; the state is then the unchanged
// previous one.
type StateOutput struct {
	Users        []resource.User `json:"users"`
	Posts        []resource.Post `json:"posts"`
	ActiveUserID *int            `json:"activeUserId,omitempty"`
	Error        string          `json:"error,omitempty"`
}
