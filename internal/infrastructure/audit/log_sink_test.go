package audit

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tubetrade/backend/internal/domain/shared"
	"github.com/tubetrade/backend/internal/infrastructure/logger"
)

func observedLogger(t *testing.T) (*zap.Logger, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.InfoLevel)
	return zap.New(core), logs
}

func fieldMap(t *testing.T, entry observer.LoggedEntry) map[string]interface{} {
	t.Helper()
	return entry.ContextMap()
}

func TestLogSink_RecordAudit(t *testing.T) {
	t.Run("writes the record as a structured entry", func(t *testing.T) {
		log, logs := observedLogger(t)
		sink := NewLogSink(log)
		actor := uuid.New()
		entity := uuid.New()

		sink.RecordAudit(context.Background(), shared.AuditRecord{
			Actor:      actor,
			Action:     "inventory.reserve",
			EntityType: "StockLot",
			EntityID:   entity,
		})

		entries := logs.All()
		require.Len(t, entries, 1)
		fields := fieldMap(t, entries[0])
		assert.Equal(t, actor.String(), fields["actor"])
		assert.Equal(t, "inventory.reserve", fields["action"])
		assert.Equal(t, "StockLot", fields["entity_type"])
		assert.Equal(t, entity.String(), fields["entity_id"])
	})

	t.Run("carries the request ID when present", func(t *testing.T) {
		log, logs := observedLogger(t)
		sink := NewLogSink(log)
		ctx := logger.WithRequestID(context.Background(), "req-42")

		sink.RecordAudit(ctx, shared.AuditRecord{
			Actor:      uuid.New(),
			Action:     "inventory.release",
			EntityType: "StockLot",
			EntityID:   uuid.New(),
		})

		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "req-42", fieldMap(t, entries[0])["request_id"])
	})

	t.Run("nil logger falls back to a no-op", func(t *testing.T) {
		sink := NewLogSink(nil)
		sink.RecordAudit(context.Background(), shared.AuditRecord{})
	})
}

func TestEventLog_Handle(t *testing.T) {
	t.Run("logs every event field", func(t *testing.T) {
		log, logs := observedLogger(t)
		trail := NewEventLog(log)
		evt := shared.NewBaseDomainEvent("inventory.reservation.created", "StockLot", uuid.New())

		require.NoError(t, trail.Handle(context.Background(), &evt))

		entries := logs.All()
		require.Len(t, entries, 1)
		fields := fieldMap(t, entries[0])
		assert.Equal(t, evt.EventID().String(), fields["event_id"])
		assert.Equal(t, "inventory.reservation.created", fields["event_type"])
		assert.Equal(t, "StockLot", fields["aggregate_type"])
		assert.Equal(t, evt.AggregateID().String(), fields["aggregate_id"])
	})

	t.Run("carries the request ID when present", func(t *testing.T) {
		log, logs := observedLogger(t)
		trail := NewEventLog(log)
		ctx := logger.WithRequestID(context.Background(), "req-9")
		evt := shared.NewBaseDomainEvent("trade.order.dispatched", "SalesOrder", uuid.New())

		require.NoError(t, trail.Handle(ctx, &evt))

		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "req-9", fieldMap(t, entries[0])["request_id"])
	})

	t.Run("subscribes to everything", func(t *testing.T) {
		assert.Nil(t, NewEventLog(nil).EventTypes())
	})
}
