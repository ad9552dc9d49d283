package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/pawn-ledger/internal/events"
)

// AuditService writes a structured audit trail for ledger events.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventTicketCreated, a.handleEvent)
	a.dispatcher.Subscribe(events.EventPaymentRecorded, a.handleEvent)
	a.dispatcher.Subscribe(events.EventTicketClosed, a.handleEvent)
	a.dispatcher.Subscribe(events.EventAlertQueued, a.handleEvent)
}

func (a *AuditService) handleEvent(_ context.Context, event events.Event) error {
	a.logger.Info("ledger event",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("ticket_id", event.TicketID),
		zap.Time("timestamp", event.Timestamp),
		zap.Any("payload", event.Payload))
	return nil
}
