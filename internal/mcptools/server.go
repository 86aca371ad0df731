package mcptools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewFeedMCPServer creates an MCP server with the 3 feed tools registered:
// load_users, load_posts, and get_state.
func NewFeedMCPServer(svc *FeedService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "userposts",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "load_users",
		Description: "Fetch all users from the API and replace the loaded user list. Returns the resulting view state; on failure the state is unchanged and the error field is set.",
	}, svc.LoadUsers)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "load_posts",
		Description: "Fetch the posts of one user and make that user active. Returns the resulting view state; on failure the state is unchanged and the error field is set.",
	}, svc.LoadPosts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_state",
		Description: "Return the currently loaded users, posts, and active user id without fetching.",
	}, svc.GetState)

	return server
}

// RunStdio runs the MCP server on stdio transport, blocking until stdin is
// closed or the context is cancelled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}
