// Package notify carries the notification requests emitted by the Action
// API. Delivery (email, SMS) is an external collaborator concern; the core
// only publishes, fire-and-forget, and a failed or slow consumer can never
// fail the transition that produced the event.
package notify

import (
	"encoding/json"
	"time"

	"github.com/zaveorah/zaveorah-core/internal/domain"
	"github.com/zaveorah/zaveorah-core/pkg/logger"
)

// Event types
const (
	EventTrialStarted     = "subscription.trial.started"
	EventPaymentSubmitted = "subscription.payment.submitted"
	EventApproved         = "subscription.approved"
	EventRejected         = "subscription.rejected"
)

// Event is the base event structure.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and payload.
func NewEvent(eventType string, at time.Time, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Event{
		ID:        domain.NewID("evt"),
		Type:      eventType,
		Timestamp: at.UTC(),
		Data:      dataBytes,
	}, nil
}

// UnmarshalData unmarshals the event payload into v.
func (e *Event) UnmarshalData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// ApprovedEvent is published when an admin approves a pending payment. The
// consumer is expected to congratulate the owner out-of-band.
type ApprovedEvent struct {
	BusinessID   string `json:"business_id"`
	BusinessName string `json:"business_name"`
	OwnerEmail   string `json:"owner_email,omitempty"`
	Tier         string `json:"tier"`
}

// RejectedEvent is published when an admin rejects a pending payment.
type RejectedEvent struct {
	BusinessID   string `json:"business_id"`
	BusinessName string `json:"business_name"`
	OwnerEmail   string `json:"owner_email,omitempty"`
	Reason       string `json:"reason"`
}

// PaymentSubmittedEvent is published when a business submits a payment for
// manual review.
type PaymentSubmittedEvent struct {
	BusinessID string  `json:"business_id"`
	Tier       string  `json:"tier"`
	Amount     float64 `json:"amount"`
}

// TrialStartedEvent is published when a business starts its trial.
type TrialStartedEvent struct {
	BusinessID string `json:"business_id"`
}

// Publisher delivers events to whatever collaborator consumes them.
// Implementations must not block and must not surface failures to callers.
type Publisher interface {
	Publish(event *Event)
}

// LogPublisher simulates the external notifier by logging what would be
// sent. It stands in for the email collaborator in this deployment.
type LogPublisher struct {
	logger *logger.Logger
}

// NewLogPublisher creates a LogPublisher.
func NewLogPublisher(log *logger.Logger) *LogPublisher {
	return &LogPublisher{logger: log.WithComponent("notify")}
}

// Publish logs the event.
func (p *LogPublisher) Publish(event *Event) {
	if event == nil {
		return
	}
	p.logger.Info().
		Str("event_id", event.ID).
		Str("type", event.Type).
		RawJSON("data", event.Data).
		Msg("notification dispatched")
}

// NopPublisher discards all events.
type NopPublisher struct{}

// Publish discards the event.
func (NopPublisher) Publish(*Event) {}
