package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dusk-indust/userposts/internal/orchestrator"
	"github.com/dusk-indust/userposts/internal/resource"
)

// SnapshotExport is the top-level JSON export structure.
type SnapshotExport struct {
	BaseURL    string       `json:"baseURL,omitempty"`
	ExportedAt string       `json:"exportedAt"`
	Users      []UserExport `json:"users"`
}

// UserExport is one user together with their posts.
type UserExport struct {
	resource.User
	Posts []resource.Post `json:"posts"`
}

// now is replaced in tests.
var now = time.Now

// Snapshot fetches every user and then every user's posts in parallel.
// Any fetch failure aborts the export.
func Snapshot(ctx context.Context, client resource.Client, onProgress func(orchestrator.ProgressEvent)) (*SnapshotExport, error) {
	users, err := client.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	ids := make([]int, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	results, err := orchestrator.NewFanOut(client, onProgress).Run(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	snap := &SnapshotExport{
		ExportedAt: now().UTC().Format(time.RFC3339),
		Users:      make([]UserExport, len(users)),
	}
	for i, u := range users {
		snap.Users[i] = UserExport{User: u, Posts: results[i].Posts}
	}
	return snap, nil
}

// WriteJSON writes snap as indented JSON.
func WriteJSON(w io.Writer, snap *SnapshotExport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("export: encode: %w", err)
	}
	return nil
}
