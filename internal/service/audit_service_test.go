package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/pawn-ledger/internal/events"
)

func TestAuditServiceLogsLedgerEvents(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher()
	NewAuditService(dispatcher, zap.New(core)).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{
		ID:       "event-1",
		Type:     events.EventTicketCreated,
		TicketID: "ticket-1",
	})
	require.NoError(t, err)
	err = dispatcher.Publish(context.Background(), events.Event{
		ID:   "event-2",
		Type: events.EventAlertQueued,
	})
	require.NoError(t, err)

	entries := logs.FilterMessage("ledger event").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "ticket_created", entries[0].ContextMap()["event_type"])
	assert.Equal(t, "ticket-1", entries[0].ContextMap()["ticket_id"])
	assert.Equal(t, "alert_queued", entries[1].ContextMap()["event_type"])
}

func TestAuditServiceToleratesNilDispatcher(t *testing.T) {
	svc := NewAuditService(nil, zap.NewNop())
	svc.RegisterHandlers()
}
