// Package subscription implements the entitlement state machine that gates
// access to the application:
//
//	none → trial → {active | lapsed}
//	none/lapsed/rejected → pending → {active | rejected}
//	active → pending (upgrade flow only)
package subscription

import (
	"time"

	"github.com/zaveorah/zaveorah-core/internal/domain"
	"github.com/zaveorah/zaveorah-core/internal/notify"
	"github.com/zaveorah/zaveorah-core/internal/store"
	"github.com/zaveorah/zaveorah-core/pkg/clock"
	"github.com/zaveorah/zaveorah-core/pkg/logger"
)

// TrialPeriodDays is the fixed trial window measured from trialStartDate.
const TrialPeriodDays = 3

// lifetimeYears is the expiry horizon granted on the lifetime tier.
const lifetimeYears = 100

// IsActiveAt reports effective access: an unexpired active subscription or
// an unexpired trial. Every other status is inactive. This predicate is the
// sole gate the presentation layer consults.
func IsActiveAt(b *domain.Business, now time.Time) bool {
	if b == nil {
		return false
	}
	switch b.SubscriptionStatus {
	case domain.SubscriptionActive:
		return b.SubscriptionExpiry != nil && b.SubscriptionExpiry.After(now)
	case domain.SubscriptionTrial:
		return b.TrialStartDate != nil && now.Before(b.TrialStartDate.AddDate(0, 0, TrialPeriodDays))
	}
	return false
}

// Session is the slice of session state the machine needs. Implemented by
// the auth session.
type Session interface {
	CurrentBusinessID() string
	IsAdmin() bool
	IsUpgradeFlow() bool
	SetUpgradeFlow(bool)
	ClearSubscriptionRequired()
}

// Service drives subscription transitions over the store.
type Service struct {
	store     *store.Store
	session   Session
	clock     clock.Clock
	publisher notify.Publisher
	logger    *logger.Logger
}

// NewService creates a subscription service.
func NewService(st *store.Store, sess Session, clk clock.Clock, pub notify.Publisher, log *logger.Logger) *Service {
	return &Service{
		store:     st,
		session:   sess,
		clock:     clk,
		publisher: pub,
		logger:    log.WithComponent("subscription"),
	}
}

// IsActive evaluates the access predicate for a business right now.
func (s *Service) IsActive(b *domain.Business) bool {
	return IsActiveAt(b, s.clock.Now())
}

// StartTrial begins the 3-day trial for the session's business. Only a
// business that has never held an active subscription may start one.
func (s *Service) StartTrial() bool {
	businessID := s.session.CurrentBusinessID()
	if businessID == "" {
		return false
	}
	biz := s.store.Business(businessID)
	if biz == nil || s.IsActive(biz) {
		return false
	}

	start := s.clock.Now()
	ok := s.store.UpdateBusiness(businessID, func(b *domain.Business) {
		b.SubscriptionStatus = domain.SubscriptionTrial
		b.TrialStartDate = &start
	})
	if !ok {
		return false
	}

	s.session.ClearSubscriptionRequired()
	s.session.SetUpgradeFlow(false)
	s.publish(notify.EventTrialStarted, notify.TrialStartedEvent{BusinessID: businessID})
	s.logger.Info().Str("business_id", businessID).Msg("trial started")
	return true
}

// SubmitForApproval records a manual payment for review and moves the
// business to pending. Valid from none/lapsed/rejected, and from active
// only through the explicit upgrade flow. A prior rejection reason is
// cleared; resubmission overwrites any earlier pending fields.
func (s *Service) SubmitForApproval(tier domain.SubscriptionTier, amount float64, receipt string) bool {
	businessID := s.session.CurrentBusinessID()
	if businessID == "" || tier == "" {
		return false
	}
	biz := s.store.Business(businessID)
	if biz == nil {
		return false
	}
	if biz.SubscriptionStatus == domain.SubscriptionActive && !s.session.IsUpgradeFlow() {
		return false
	}

	ok := s.store.UpdateBusiness(businessID, func(b *domain.Business) {
		b.SubscriptionStatus = domain.SubscriptionPending
		b.PendingSubscriptionTier = tier
		b.PendingPaymentAmount = amount
		b.PendingPaymentReceipt = receipt
		b.RejectionReason = ""
	})
	if !ok {
		return false
	}

	s.session.SetUpgradeFlow(false)
	s.publish(notify.EventPaymentSubmitted, notify.PaymentSubmittedEvent{
		BusinessID: businessID,
		Tier:       string(tier),
		Amount:     amount,
	})
	return true
}

// ApprovePayment activates a pending submission. Admin only. Requires a
// pending tier; computes the new expiry, clears all pending fields and any
// rejection reason, and resets the notified flag so the one-time
// congratulations banner shows on the owner's next visit.
func (s *Service) ApprovePayment(businessID string) bool {
	if !s.session.IsAdmin() {
		return false
	}
	biz := s.store.Business(businessID)
	if biz == nil || !biz.HasPendingPayment() {
		return false
	}

	tier := biz.PendingSubscriptionTier
	expiry := s.clock.Now()
	if tier == domain.TierLifetime {
		expiry = expiry.AddDate(lifetimeYears, 0, 0)
	}

	ok := s.store.UpdateBusiness(businessID, func(b *domain.Business) {
		b.SubscriptionStatus = domain.SubscriptionActive
		b.SubscriptionTier = tier
		b.SubscriptionExpiry = &expiry
		b.HasBeenNotifiedOfApproval = false
		b.ClearPending()
	})
	if !ok {
		return false
	}

	s.publish(notify.EventApproved, notify.ApprovedEvent{
		BusinessID:   businessID,
		BusinessName: biz.Name,
		OwnerEmail:   biz.OwnerEmail,
		Tier:         string(tier),
	})
	s.logger.Info().Str("business_id", businessID).Str("tier", string(tier)).Msg("payment approved")
	return true
}

// RejectPayment declines a pending submission. Admin only. Sets the status
// and the reason; the pending fields stay as audit context until the next
// resubmission overwrites them.
func (s *Service) RejectPayment(businessID, reason string) bool {
	if !s.session.IsAdmin() {
		return false
	}
	biz := s.store.Business(businessID)
	if biz == nil {
		return false
	}

	ok := s.store.UpdateBusiness(businessID, func(b *domain.Business) {
		b.SubscriptionStatus = domain.SubscriptionRejected
		b.RejectionReason = reason
	})
	if !ok {
		return false
	}

	s.publish(notify.EventRejected, notify.RejectedEvent{
		BusinessID:   businessID,
		BusinessName: biz.Name,
		OwnerEmail:   biz.OwnerEmail,
		Reason:       reason,
	})
	s.logger.Info().Str("business_id", businessID).Msg("payment rejected")
	return true
}

// MarkApprovalAsNotified flips the notified flag after the one-time banner
// is dismissed. Idempotent.
func (s *Service) MarkApprovalAsNotified(businessID string) bool {
	return s.store.UpdateBusiness(businessID, func(b *domain.Business) {
		b.HasBeenNotifiedOfApproval = true
	})
}

func (s *Service) publish(eventType string, payload interface{}) {
	event, err := notify.NewEvent(eventType, s.clock.Now(), payload)
	if err != nil {
		s.logger.Error().Err(err).Str("type", eventType).Msg("failed to build notification")
		return
	}
	s.publisher.Publish(event)
}
