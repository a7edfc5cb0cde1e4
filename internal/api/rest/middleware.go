package rest

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"github.com/inkpost/inkpost/internal/auth/authctx"
	"github.com/inkpost/inkpost/internal/observability/audit"
	"github.com/inkpost/inkpost/internal/observability/audit/events"
	"github.com/inkpost/inkpost/internal/platform/httpx"
	"github.com/inkpost/inkpost/internal/storage"
)

// requireAuth rejects requests without a verifiable bearer token and stores
// the authenticated user id in the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	if next == nil {
		next = http.NotFoundHandler()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := s.tokens.Verify(bearerToken(r))
		if err != nil {
			s.emitAuthDenied(r)
			writeUnauthorized(w, err)
			return
		}
		ctx := authctx.WithUserID(r.Context(), userID)
		recordActor(ctx, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, credential, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(credential)
}

// writeUnauthorized sends the single credential rejection response. Every
// authentication failure produces this identical body and challenge.
func writeUnauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	_ = httpx.WriteJSONError(w, http.StatusUnauthorized, err.Error())
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// actorCarrier lets handlers below the audit middleware report the
// authenticated actor back up the chain.
type actorCarrier struct {
	userID int64
}

type actorCarrierKey struct{}

func withActorCarrier(ctx context.Context) (context.Context, *actorCarrier) {
	carrier := &actorCarrier{}
	return context.WithValue(ctx, actorCarrierKey{}, carrier), carrier
}

func recordActor(ctx context.Context, userID int64) {
	carrier, ok := ctx.Value(actorCarrierKey{}).(*actorCarrier)
	if !ok || carrier == nil {
		return
	}
	carrier.userID = userID
}

// auditRequests emits one durable audit event per handled request.
func (s *Server) auditRequests() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, carrier := withActorCarrier(r.Context())
			recorder := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(recorder, r.WithContext(ctx))

			status := recorder.status
			if status == 0 {
				status = http.StatusOK
			}
			severity := audit.SeverityInfo
			switch {
			case status >= http.StatusInternalServerError:
				severity = audit.SeverityError
			case status >= http.StatusBadRequest:
				severity = audit.SeverityWarn
			}
			evt := storage.AuditEvent{
				EventName: events.HTTPRequest,
				Severity:  string(severity),
				RequestID: r.Header.Get("X-Request-ID"),
				Attributes: map[string]any{
					"method": r.Method,
					"path":   r.URL.Path,
					"status": status,
				},
			}
			if carrier.userID > 0 {
				evt.ActorID = strconv.FormatInt(carrier.userID, 10)
			}
			if span := trace.SpanContextFromContext(ctx); span.IsValid() {
				evt.TraceID = span.TraceID().String()
				evt.SpanID = span.SpanID().String()
			}
			_ = s.audit.Emit(ctx, evt)
		})
	}
}

func (s *Server) emitAuthDenied(r *http.Request) {
	_ = s.audit.Emit(r.Context(), storage.AuditEvent{
		EventName: events.AuthDenied,
		Severity:  string(audit.SeverityWarn),
		RequestID: r.Header.Get("X-Request-ID"),
		Attributes: map[string]any{
			"method": r.Method,
			"path":   r.URL.Path,
		},
	})
}
