package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/inkpost/inkpost/internal/auth/password"
	"github.com/inkpost/inkpost/internal/auth/token"
	"github.com/inkpost/inkpost/internal/observability/audit"
	"github.com/inkpost/inkpost/internal/observability/audit/events"
	apperrors "github.com/inkpost/inkpost/internal/platform/errors"
	"github.com/inkpost/inkpost/internal/platform/httpx"
	"github.com/inkpost/inkpost/internal/storage"
	"github.com/inkpost/inkpost/internal/user"
)

var errUserNotFound = apperrors.New(apperrors.CodeNotFound, "user not found")

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "inkpost api",
	})
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := httpx.RequestContext(r)

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpx.WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input, err := user.NormalizeCreateUserInput(user.CreateUserInput{Email: req.Email, Password: req.Password})
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	hash, err := password.Hash(input.Password)
	if err != nil {
		_ = httpx.WriteJSONError(w, http.StatusBadRequest, "password is not usable")
		return
	}
	record, err := user.NewUser(input, hash, s.now)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	created, err := s.users.CreateUser(ctx, record)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusCreated, newUserView(created))
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	ctx := httpx.RequestContext(r)

	userID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || userID <= 0 {
		httpx.WriteError(w, errUserNotFound)
		return
	}

	found, err := s.users.GetUser(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		httpx.WriteError(w, errUserNotFound)
		return
	}
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, newUserView(found))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := httpx.RequestContext(r)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.emitAuthDenied(r)
		writeUnauthorized(w, token.ErrInvalidCredentials)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	found, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		s.emitAuthDenied(r)
		writeUnauthorized(w, token.ErrInvalidCredentials)
		return
	}
	if !password.Verify(req.Password, found.PasswordHash) {
		s.emitAuthDenied(r)
		writeUnauthorized(w, token.ErrInvalidCredentials)
		return
	}

	signed, err := s.tokens.Issue(found.ID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	recordActor(ctx, found.ID)
	_ = s.audit.Emit(ctx, storage.AuditEvent{
		EventName: events.AuthLogin,
		Severity:  string(audit.SeverityInfo),
		ActorID:   strconv.FormatInt(found.ID, 10),
		RequestID: r.Header.Get("X-Request-ID"),
	})

	_ = httpx.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken: signed,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
	})
}
