package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/inkpost/inkpost/internal/post"
	"github.com/inkpost/inkpost/internal/storage"
)

// CreatePost inserts a post record and returns it with the assigned id.
func (s *Store) CreatePost(ctx context.Context, p post.Post) (post.Post, error) {
	if err := ctx.Err(); err != nil {
		return post.Post{}, err
	}
	if s == nil || s.sqlDB == nil {
		return post.Post{}, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(p.Title) == "" {
		return post.Post{}, fmt.Errorf("title is required")
	}
	if p.OwnerID <= 0 {
		return post.Post{}, fmt.Errorf("owner id is required")
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO posts (title, content, published, created_at, owner_id)
		 VALUES (?, ?, ?, ?, ?)`,
		p.Title,
		p.Content,
		boolToInt(p.Published),
		toMillis(p.CreatedAt),
		p.OwnerID,
	)
	if err != nil {
		return post.Post{}, fmt.Errorf("create post: %w", err)
	}
	postID, err := result.LastInsertId()
	if err != nil {
		return post.Post{}, fmt.Errorf("create post id: %w", err)
	}
	p.ID = postID
	return p, nil
}

// GetPost returns one post record by id.
func (s *Store) GetPost(ctx context.Context, postID int64) (post.Post, error) {
	if err := ctx.Err(); err != nil {
		return post.Post{}, err
	}
	if s == nil || s.sqlDB == nil {
		return post.Post{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, title, content, published, created_at, owner_id
		 FROM posts
		 WHERE id = ?`,
		postID,
	)
	var p post.Post
	var published int64
	var createdAt int64
	err := row.Scan(&p.ID, &p.Title, &p.Content, &published, &createdAt, &p.OwnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return post.Post{}, storage.ErrNotFound
		}
		return post.Post{}, fmt.Errorf("get post: %w", err)
	}
	p.Published = published != 0
	p.CreatedAt = fromMillis(createdAt)
	return p, nil
}

// UpdatePost replaces the editable fields of the post identified by p.ID.
func (s *Store) UpdatePost(ctx context.Context, p post.Post) (post.Post, error) {
	if err := ctx.Err(); err != nil {
		return post.Post{}, err
	}
	if s == nil || s.sqlDB == nil {
		return post.Post{}, fmt.Errorf("storage is not configured")
	}
	if p.ID <= 0 {
		return post.Post{}, fmt.Errorf("post id is required")
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE posts
		 SET title = ?, content = ?, published = ?
		 WHERE id = ?`,
		p.Title,
		p.Content,
		boolToInt(p.Published),
		p.ID,
	)
	if err != nil {
		return post.Post{}, fmt.Errorf("update post: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return post.Post{}, fmt.Errorf("update post rows: %w", err)
	}
	if affected == 0 {
		return post.Post{}, storage.ErrNotFound
	}
	return s.GetPost(ctx, p.ID)
}

// DeletePost removes one post record, reporting ErrNotFound when absent.
func (s *Store) DeletePost(ctx context.Context, postID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, postID)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete post rows: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListPostsByOwner returns one page of the owner's posts ordered by id.
func (s *Store) ListPostsByOwner(ctx context.Context, ownerID int64, pageSize int, pageToken string) (storage.PostPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.PostPage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.PostPage{}, fmt.Errorf("storage is not configured")
	}
	if ownerID <= 0 {
		return storage.PostPage{}, fmt.Errorf("owner id is required")
	}
	if pageSize <= 0 {
		return storage.PostPage{}, fmt.Errorf("page size must be greater than zero")
	}

	afterID := int64(0)
	pageToken = strings.TrimSpace(pageToken)
	if pageToken != "" {
		parsed, err := strconv.ParseInt(pageToken, 10, 64)
		if err != nil || parsed < 0 {
			return storage.PostPage{}, storage.ErrInvalidPageToken
		}
		afterID = parsed
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, title, content, published, created_at, owner_id
		 FROM posts
		 WHERE owner_id = ? AND id > ?
		 ORDER BY id ASC
		 LIMIT ?`,
		ownerID,
		afterID,
		pageSize+1,
	)
	if err != nil {
		return storage.PostPage{}, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	page := storage.PostPage{
		Posts: make([]post.Post, 0, pageSize),
	}
	for rows.Next() {
		var p post.Post
		var published int64
		var createdAt int64
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &published, &createdAt, &p.OwnerID); err != nil {
			return storage.PostPage{}, fmt.Errorf("list posts: %w", err)
		}
		p.Published = published != 0
		p.CreatedAt = fromMillis(createdAt)
		page.Posts = append(page.Posts, p)
	}
	if err := rows.Err(); err != nil {
		return storage.PostPage{}, fmt.Errorf("list posts: %w", err)
	}
	if len(page.Posts) > pageSize {
		page.NextPageToken = strconv.FormatInt(page.Posts[pageSize-1].ID, 10)
		page.Posts = page.Posts[:pageSize]
	}

	return page, nil
}

func boolToInt(v bool) int64 {
	if v {
		return 1
	}
	return 0
}

var _ storage.PostStore = (*Store)(nil)
