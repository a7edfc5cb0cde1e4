// Package storage defines persistence contracts for users and posts.
package storage

import (
	"context"
	"time"

	"github.com/inkpost/inkpost/internal/platform/errors"
	"github.com/inkpost/inkpost/internal/post"
	"github.com/inkpost/inkpost/internal/user"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New(errors.CodeNotFound, "record not found")

// ErrEmailTaken indicates the unique email constraint was violated.
var ErrEmailTaken = errors.New(errors.CodeUserEmailTaken, "email is already registered")

// ErrInvalidPageToken indicates a list cursor that was not produced by a
// previous page.
var ErrInvalidPageToken = errors.New(errors.CodeInvalidArgument, "page token is not valid")

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser inserts the user and returns it with the assigned id.
	// A duplicate email yields ErrEmailTaken and no new record.
	CreateUser(ctx context.Context, u user.User) (user.User, error)
	GetUser(ctx context.Context, userID int64) (user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
}

// PostPage describes a page of post records.
type PostPage struct {
	Posts         []post.Post
	NextPageToken string
}

// PostStore persists blog posts.
type PostStore interface {
	// CreatePost inserts the post and returns it with the assigned id.
	CreatePost(ctx context.Context, p post.Post) (post.Post, error)
	GetPost(ctx context.Context, postID int64) (post.Post, error)
	// UpdatePost replaces the editable fields of the post identified by p.ID.
	UpdatePost(ctx context.Context, p post.Post) (post.Post, error)
	// DeletePost removes the post, reporting ErrNotFound when it is absent.
	DeletePost(ctx context.Context, postID int64) error
	// ListPostsByOwner returns one page of the owner's posts ordered by id.
	ListPostsByOwner(ctx context.Context, ownerID int64, pageSize int, pageToken string) (PostPage, error)
}

// AuditEvent records one operational event for the request audit trail.
type AuditEvent struct {
	Timestamp      time.Time
	EventName      string
	Severity       string
	ActorID        string
	RequestID      string
	TraceID        string
	SpanID         string
	Attributes     map[string]any
	AttributesJSON []byte
}

// AuditEventStore persists operational audit events.
type AuditEventStore interface {
	AppendAuditEvent(ctx context.Context, evt AuditEvent) error
}
