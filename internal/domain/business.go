package domain

import "time"

// Business is the tenant record. Subscription fields drive the access gate;
// pending-payment fields are populated iff the status is pending and are
// cleared on approval or overwritten on resubmission.
type Business struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	OwnerEmail string `json:"ownerEmail,omitempty"`
	OwnerPhone string `json:"ownerPhone,omitempty"`

	SubscriptionStatus SubscriptionStatus `json:"subscriptionStatus"`
	SubscriptionTier   SubscriptionTier   `json:"subscriptionTier,omitempty"`
	SubscriptionExpiry *time.Time         `json:"subscriptionExpiry,omitempty"`
	TrialStartDate     *time.Time         `json:"trialStartDate,omitempty"`

	HasBeenNotifiedOfApproval bool `json:"hasBeenNotifiedOfApproval,omitempty"`

	PendingSubscriptionTier SubscriptionTier `json:"pendingSubscriptionTier,omitempty"`
	PendingPaymentAmount    float64          `json:"pendingPaymentAmount,omitempty"`
	PendingPaymentReceipt   string           `json:"pendingPaymentReceipt,omitempty"`
	RejectionReason         string           `json:"rejectionReason,omitempty"`
}

// HasPendingPayment reports whether a payment submission is awaiting review.
func (b *Business) HasPendingPayment() bool {
	return b.PendingSubscriptionTier != ""
}

// ClearPending drops all pending-payment fields and any prior rejection.
func (b *Business) ClearPending() {
	b.PendingSubscriptionTier = ""
	b.PendingPaymentAmount = 0
	b.PendingPaymentReceipt = ""
	b.RejectionReason = ""
}

// BusinessProfile is the tenant's public identity shown on invoices and
// receipts. Exactly one per business.
type BusinessProfile struct {
	Name    string `json:"name"`
	Logo    string `json:"logo,omitempty"`
	Address string `json:"address,omitempty"`
	Contact string `json:"contact,omitempty"`
}
