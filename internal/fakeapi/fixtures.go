package fakeapi

import (
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/dusk-indust/userposts/internal/resource"
)

// Fixtures is the data set a Server answers with.
type Fixtures struct {
	Users []resource.User
	Posts []resource.Post
}

// Generate builds a deterministic data set: the same seed always yields the
// same users and posts. User ids start at 1; post ids are globally unique
// and grouped by user, like the public demo API.
func Generate(seed uint64, users, postsPerUser int) Fixtures {
	f := gofakeit.New(seed)

	fx := Fixtures{
		Users: make([]resource.User, 0, users),
		Posts: make([]resource.Post, 0, users*postsPerUser),
	}
	postID := 1
	for u := 1; u <= users; u++ {
		fx.Users = append(fx.Users, resource.User{
			ID:       u,
			Name:     f.Name(),
			Username: f.Username(),
			Email:    strings.ToLower(f.Email()),
		})
		for p := 0; p < postsPerUser; p++ {
			fx.Posts = append(fx.Posts, resource.Post{
				UserID: u,
				ID:     postID,
				Title:  strings.TrimSuffix(f.Sentence(5), "."),
				Body:   f.Paragraph(1, 3, 10, "\n"),
			})
			postID++
		}
	}
	return fx
}

// PostsByUser returns the posts owned by userID in fixture order.
func (fx Fixtures) PostsByUser(userID int) []resource.Post {
	out := []resource.Post{}
	for _, p := range fx.Posts {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out
}
