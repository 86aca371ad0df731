package resource

import "context"

// Client fetches the two resource collections served by the remote API.
type Client interface {
	// ListUsers fetches every user, in server response order.
	ListUsers(ctx context.Context) ([]User, error)

	// ListPostsByUser fetches the posts the server associates with userID.
	ListPostsByUser(ctx context.Context, userID int) ([]Post, error)
}

// Operation names carried by FetchError and used as span names.
const (
	OpListUsers       = "listUsers"
	OpListPostsByUser = "listPostsByUser"
)
