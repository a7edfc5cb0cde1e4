package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/inkpost/inkpost/internal/storage"
)

// AppendAuditEvent records an operational audit event.
func (s *Store) AppendAuditEvent(ctx context.Context, evt storage.AuditEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(evt.EventName) == "" {
		return fmt.Errorf("event name is required")
	}
	if strings.TrimSpace(evt.Severity) == "" {
		return fmt.Errorf("severity is required")
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	if len(evt.AttributesJSON) == 0 && len(evt.Attributes) > 0 {
		payload, err := json.Marshal(evt.Attributes)
		if err != nil {
			return fmt.Errorf("marshal audit attributes: %w", err)
		}
		evt.AttributesJSON = payload
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO audit_events (timestamp, event_name, severity, actor_id, request_id, trace_id, span_id, attributes_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		toMillis(evt.Timestamp),
		evt.EventName,
		evt.Severity,
		toNullString(evt.ActorID),
		toNullString(evt.RequestID),
		toNullString(evt.TraceID),
		toNullString(evt.SpanID),
		evt.AttributesJSON,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func toNullString(value string) sql.NullString {
	value = strings.TrimSpace(value)
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

var _ storage.AuditEventStore = (*Store)(nil)
