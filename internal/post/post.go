// Package post provides the blog post domain model.
package post

import (
	"strings"
	"time"

	apperrors "github.com/inkpost/inkpost/internal/platform/errors"
)

var (
	// ErrEmptyTitle indicates a missing post title.
	ErrEmptyTitle = apperrors.New(apperrors.CodePostEmptyTitle, "title is required")
	// ErrEmptyContent indicates a missing post body.
	ErrEmptyContent = apperrors.New(apperrors.CodePostEmptyContent, "content is required")
)

// Post represents a blog entry owned by exactly one user.
type Post struct {
	ID        int64
	Title     string
	Content   string
	Published bool
	CreatedAt time.Time
	OwnerID   int64
}

// Input describes the client-supplied fields of a post. The owner is never
// part of the input; it always comes from the authenticated identity.
type Input struct {
	Title   string
	Content string
	// Published defaults to true when nil.
	Published *bool
}

// NormalizeInput trims fields and validates required ones.
func NormalizeInput(input Input) (Input, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return Input{}, ErrEmptyTitle
	}
	if strings.TrimSpace(input.Content) == "" {
		return Input{}, ErrEmptyContent
	}
	return input, nil
}

// New creates a post owned by the given user.
func New(input Input, ownerID int64, now func() time.Time) (Post, error) {
	if now == nil {
		now = time.Now
	}
	normalized, err := NormalizeInput(input)
	if err != nil {
		return Post{}, err
	}
	published := true
	if normalized.Published != nil {
		published = *normalized.Published
	}
	return Post{
		Title:     normalized.Title,
		Content:   normalized.Content,
		Published: published,
		CreatedAt: now().UTC(),
		OwnerID:   ownerID,
	}, nil
}

// ApplyUpdate returns a copy of p with the client-editable fields replaced.
// Identity, ownership, and creation time are never touched by an update.
func ApplyUpdate(p Post, input Input) (Post, error) {
	normalized, err := NormalizeInput(input)
	if err != nil {
		return Post{}, err
	}
	p.Title = normalized.Title
	p.Content = normalized.Content
	if normalized.Published != nil {
		p.Published = *normalized.Published
	}
	return p, nil
}
