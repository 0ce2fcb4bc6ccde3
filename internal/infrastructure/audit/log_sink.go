// Package audit provides the default audit sink. The engine hands audit
// records to a collaborator fire-and-forget; this implementation writes them
// to the structured log so a real audit service can be swapped in without
// touching the services.
package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/tubetrade/backend/internal/domain/shared"
	"github.com/tubetrade/backend/internal/infrastructure/logger"
)

// LogSink writes audit records as structured log entries
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a new LogSink
func NewLogSink(log *zap.Logger) *LogSink {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogSink{logger: log.Named("audit")}
}

// RecordAudit logs the record. Never blocks, never fails the caller.
func (s *LogSink) RecordAudit(ctx context.Context, record shared.AuditRecord) {
	fields := make([]zap.Field, 0, 7)
	if requestID := logger.GetRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	s.logger.Info("audit", append(fields,
		zap.String("actor", record.Actor.String()),
		zap.String("action", record.Action),
		zap.String("entity_type", record.EntityType),
		zap.String("entity_id", record.EntityID.String()),
		zap.Any("before", record.Before),
		zap.Any("after", record.After),
	)...)
}

var _ shared.AuditSink = (*LogSink)(nil)

// EventLog subscribes to the event bus and writes every committed domain
// event to the structured log, giving operators a replayable trail next to
// the audit records.
type EventLog struct {
	logger *zap.Logger
}

// NewEventLog creates a new EventLog
func NewEventLog(log *zap.Logger) *EventLog {
	if log == nil {
		log = zap.NewNop()
	}
	return &EventLog{logger: log.Named("events")}
}

// Handle logs the event. Returning nil keeps delivery fire-and-forget.
func (l *EventLog) Handle(ctx context.Context, event shared.DomainEvent) error {
	fields := make([]zap.Field, 0, 6)
	if requestID := logger.GetRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	l.logger.Info("domain event", append(fields,
		zap.String("event_id", event.EventID().String()),
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)...)
	return nil
}

// EventTypes returns nil so the bus delivers every event type.
func (l *EventLog) EventTypes() []string { return nil }

var _ shared.EventHandler = (*EventLog)(nil)
