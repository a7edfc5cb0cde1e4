package rest

import (
	"time"

	"github.com/inkpost/inkpost/internal/post"
	"github.com/inkpost/inkpost/internal/user"
)

type userView struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type postView struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	OwnerID   int64     `json:"owner_id"`
}

type postListView struct {
	Posts         []postView `json:"posts"`
	NextPageToken string     `json:"next_page_token,omitempty"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func newUserView(u user.User) userView {
	return userView{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}

func newPostView(p post.Post) postView {
	return postView{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Published: p.Published,
		CreatedAt: p.CreatedAt,
		OwnerID:   p.OwnerID,
	}
}

func newPostListView(posts []post.Post, nextPageToken string) postListView {
	views := make([]postView, 0, len(posts))
	for _, p := range posts {
		views = append(views, newPostView(p))
	}
	return postListView{Posts: views, NextPageToken: nextPageToken}
}
