package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/pawn-ledger/internal/config"
	"github.com/spec-kit/pawn-ledger/internal/domain"
	"github.com/spec-kit/pawn-ledger/internal/events"
	"github.com/spec-kit/pawn-ledger/internal/repository"
	apperrors "github.com/spec-kit/pawn-ledger/pkg/util/errorutil"
)

// AlertQueue hands outbound messages to the delivery worker. The ledger
// enqueues and forgets; delivery success never feeds back into core state.
type AlertQueue interface {
	Enqueue(ctx context.Context, message domain.AlertMessage) error
}

// AlertService prepares outbound customer notifications: it normalizes the
// phone number, records the attempt in the message log, and queues the
// message for whichever channel is configured.
type AlertService struct {
	customers  repository.CustomerRepository
	log        repository.AlertLogRepository
	queue      AlertQueue
	dispatcher events.Dispatcher
	cfg        config.AlertsConfig
	logger     *zap.Logger
	clock      func() time.Time
}

// AlertDependencies bundles collaborators for the alert service.
type AlertDependencies struct {
	CustomerRepo repository.CustomerRepository
	AlertLogRepo repository.AlertLogRepository
	Queue        AlertQueue
	Dispatcher   events.Dispatcher
}

// NewAlertService constructs the service.
func NewAlertService(cfg config.AlertsConfig, deps AlertDependencies, logger *zap.Logger) *AlertService {
	return &AlertService{
		customers:  deps.CustomerRepo,
		log:        deps.AlertLogRepo,
		queue:      deps.Queue,
		dispatcher: deps.Dispatcher,
		cfg:        cfg,
		logger:     logger,
		clock:      time.Now,
	}
}

// SendResult reports what happened to a send request.
type SendResult struct {
	Status          domain.AlertStatus  `json:"status"`
	Channel         domain.AlertChannel `json:"channel"`
	NormalizedPhone string              `json:"normalizedPhone"`
	Note            string              `json:"note,omitempty"`
}

// SendMessage queues an alert for one customer over the given channel.
// When the channel's provider credentials are missing, the message is
// logged as pending_configuration instead of queued, and the caller is
// told how to finish the setup.
func (s *AlertService) SendMessage(ctx context.Context, customerID, message string, channel domain.AlertChannel) (*SendResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, apperrors.NewValidationError("message is required", nil)
	}
	switch channel {
	case domain.AlertChannelSMS, domain.AlertChannelWhatsApp, domain.AlertChannelEmail:
	default:
		return nil, apperrors.NewValidationError("unsupported method: "+string(channel), nil)
	}

	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("customer", nil)
		}
		return nil, err
	}
	if strings.TrimSpace(customer.Phone) == "" {
		return nil, apperrors.NewValidationError("customer phone number not found", nil)
	}

	normalized := normalizePhone(customer.Phone)
	entry := domain.AlertMessage{
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		PhoneNumber:  normalized,
		Channel:      channel,
		Message:      message,
	}

	if !s.channelConfigured(channel) {
		entry.Status = domain.AlertStatusPendingConfiguration
		entry.Note = configurationHint(channel)
		if err := s.log.Create(ctx, &entry); err != nil {
			return nil, err
		}
		return &SendResult{
			Status:          entry.Status,
			Channel:         channel,
			NormalizedPhone: normalized,
			Note:            entry.Note,
		}, nil
	}

	entry.Status = domain.AlertStatusQueued
	if err := s.log.Create(ctx, &entry); err != nil {
		return nil, err
	}
	if err := s.queue.Enqueue(ctx, entry); err != nil {
		// Delivery is best effort; the log row already captured the intent.
		s.logger.Warn("failed to enqueue alert message",
			zap.String("customer_id", customer.ID),
			zap.String("channel", string(channel)),
			zap.Error(err))
	}

	s.publishEvent(ctx, events.Event{
		Type: events.EventAlertQueued,
		Payload: events.AlertQueuedPayload{
			CustomerID:  customer.ID,
			Channel:     channel,
			PhoneNumber: normalized,
		},
	})
	return &SendResult{
		Status:          entry.Status,
		Channel:         channel,
		NormalizedPhone: normalized,
	}, nil
}

// MessageHistory returns the alert log, newest first.
func (s *AlertService) MessageHistory(ctx context.Context) ([]domain.AlertMessage, error) {
	return s.log.List(ctx)
}

// ChannelStatus reports whether one channel's provider is configured.
type ChannelStatus struct {
	Name       string `json:"name"`
	Configured bool   `json:"configured"`
}

// SetupStatus reports provider configuration per channel.
func (s *AlertService) SetupStatus() map[domain.AlertChannel]ChannelStatus {
	return map[domain.AlertChannel]ChannelStatus{
		domain.AlertChannelSMS:      {Name: "Fast2SMS", Configured: s.channelConfigured(domain.AlertChannelSMS)},
		domain.AlertChannelWhatsApp: {Name: "Twilio WhatsApp", Configured: s.channelConfigured(domain.AlertChannelWhatsApp)},
		domain.AlertChannelEmail:    {Name: "Email", Configured: true},
	}
}

func (s *AlertService) channelConfigured(channel domain.AlertChannel) bool {
	switch channel {
	case domain.AlertChannelSMS:
		return s.cfg.SMSAPIKey != ""
	case domain.AlertChannelWhatsApp:
		return s.cfg.TwilioAccountSID != "" && s.cfg.TwilioAuthToken != ""
	case domain.AlertChannelEmail:
		return true
	default:
		return false
	}
}

func configurationHint(channel domain.AlertChannel) string {
	switch channel {
	case domain.AlertChannelSMS:
		return "sms service not configured; set FAST2SMS_API_KEY"
	case domain.AlertChannelWhatsApp:
		return "whatsapp service not configured; set TWILIO_ACCOUNT_SID and TWILIO_AUTH_TOKEN"
	default:
		return ""
	}
}

func (s *AlertService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.clock()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

// normalizePhone coerces stored phone numbers into +91 E.164 form. The
// shop's customer base is Indian; bare 10-digit numbers get the country
// code, leading zeros and separators are stripped.
func normalizePhone(phone string) string {
	var digits strings.Builder
	for _, r := range strings.TrimSpace(phone) {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	cleaned := digits.String()
	cleaned = strings.TrimPrefix(cleaned, "0")

	switch {
	case len(cleaned) == 10:
		return "+91" + cleaned
	case len(cleaned) == 12 && strings.HasPrefix(cleaned, "91"):
		return "+" + cleaned
	default:
		return "+91" + cleaned
	}
}
