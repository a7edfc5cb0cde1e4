package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/inkpost/inkpost/internal/auth/authctx"
	"github.com/inkpost/inkpost/internal/auth/token"
	"github.com/inkpost/inkpost/internal/observability/audit"
	"github.com/inkpost/inkpost/internal/observability/audit/events"
	apperrors "github.com/inkpost/inkpost/internal/platform/errors"
	"github.com/inkpost/inkpost/internal/platform/httpx"
	"github.com/inkpost/inkpost/internal/post"
	"github.com/inkpost/inkpost/internal/post/policy"
	"github.com/inkpost/inkpost/internal/storage"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

var errPostNotFound = apperrors.New(apperrors.CodeNotFound, "post not found")

// newOwnershipError carries the denied post id for logs and telemetry without
// changing the caller-visible message.
func newOwnershipError(postID int64) *apperrors.Error {
	return apperrors.WithMetadata(
		apperrors.CodeForbidden,
		"not the owner of this post",
		map[string]string{"PostID": strconv.FormatInt(postID, 10)},
	)
}

type postRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Published *bool  `json:"published"`
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	ctx := httpx.RequestContext(r)
	userID, ok := authctx.UserID(ctx)
	if !ok {
		writeUnauthorized(w, token.ErrInvalidCredentials)
		return
	}

	pageSize := defaultPageSize
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			_ = httpx.WriteJSONError(w, http.StatusBadRequest, "page_size must be a positive integer")
			return
		}
		pageSize = min(parsed, maxPageSize)
	}

	page, err := s.posts.ListPostsByOwner(ctx, userID, pageSize, r.URL.Query().Get("page_token"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, newPostListView(page.Posts, page.NextPageToken))
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	ctx := httpx.RequestContext(r)
	userID, ok := authctx.UserID(ctx)
	if !ok {
		writeUnauthorized(w, token.ErrInvalidCredentials)
		return
	}

	input, ok := decodePostRequest(w, r)
	if !ok {
		return
	}
	record, err := post.New(input, userID, s.now)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	created, err := s.posts.CreatePost(ctx, record)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusCreated, newPostView(created))
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	ctx := httpx.RequestContext(r)
	userID, ok := authctx.UserID(ctx)
	if !ok {
		writeUnauthorized(w, token.ErrInvalidCredentials)
		return
	}

	found, ok := s.lookupPost(w, r)
	if !ok {
		return
	}
	if !s.authorize(w, r, userID, policy.ActionRead, found) {
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, newPostView(found))
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	ctx := httpx.RequestContext(r)
	userID, ok := authctx.UserID(ctx)
	if !ok {
		writeUnauthorized(w, token.ErrInvalidCredentials)
		return
	}

	found, ok := s.lookupPost(w, r)
	if !ok {
		return
	}
	if !s.authorize(w, r, userID, policy.ActionUpdate, found) {
		return
	}

	input, ok := decodePostRequest(w, r)
	if !ok {
		return
	}
	changed, err := post.ApplyUpdate(found, input)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	updated, err := s.posts.UpdatePost(ctx, changed)
	if errors.Is(err, storage.ErrNotFound) {
		httpx.WriteError(w, errPostNotFound)
		return
	}
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, newPostView(updated))
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	ctx := httpx.RequestContext(r)
	userID, ok := authctx.UserID(ctx)
	if !ok {
		writeUnauthorized(w, token.ErrInvalidCredentials)
		return
	}

	found, ok := s.lookupPost(w, r)
	if !ok {
		return
	}
	if !s.authorize(w, r, userID, policy.ActionDelete, found) {
		return
	}

	err := s.posts.DeletePost(ctx, found.ID)
	if errors.Is(err, storage.ErrNotFound) {
		httpx.WriteError(w, errPostNotFound)
		return
	}
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// lookupPost resolves the path id to a stored post. Missing records and
// malformed ids both surface as not found: existence is settled before any
// ownership decision is made.
func (s *Server) lookupPost(w http.ResponseWriter, r *http.Request) (post.Post, bool) {
	postID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || postID <= 0 {
		httpx.WriteError(w, errPostNotFound)
		return post.Post{}, false
	}
	found, err := s.posts.GetPost(httpx.RequestContext(r), postID)
	if errors.Is(err, storage.ErrNotFound) {
		httpx.WriteError(w, errPostNotFound)
		return post.Post{}, false
	}
	if err != nil {
		httpx.WriteError(w, err)
		return post.Post{}, false
	}
	return found, true
}

// authorize applies the ownership policy and records the decision.
func (s *Server) authorize(w http.ResponseWriter, r *http.Request, userID int64, action policy.Action, p post.Post) bool {
	allowed := policy.Can(userID, action, p)
	if !allowed {
		_ = s.audit.Emit(httpx.RequestContext(r), storage.AuditEvent{
			EventName: events.OwnershipDecision,
			Severity:  string(audit.SeverityWarn),
			ActorID:   strconv.FormatInt(userID, 10),
			RequestID: r.Header.Get("X-Request-ID"),
			Attributes: map[string]any{
				"post_id": p.ID,
				"allowed": false,
			},
		})
		httpx.WriteError(w, newOwnershipError(p.ID))
		return false
	}
	return true
}

func decodePostRequest(w http.ResponseWriter, r *http.Request) (post.Input, bool) {
	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpx.WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return post.Input{}, false
	}
	return post.Input{Title: req.Title, Content: req.Content, Published: req.Published}, true
}
