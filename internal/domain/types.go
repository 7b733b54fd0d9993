// Package domain defines the entities owned by the multi-tenant store and
// the invariants attached to them. JSON tags describe the persisted layout.
package domain

// Role is a user's role within a business.
type Role string

const (
	RoleOwner    Role = "owner"
	RoleManager  Role = "manager"
	RoleStaff    Role = "staff"
	RoleEmployee Role = "employee"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleStaff, RoleEmployee:
		return true
	}
	return false
}

// SubscriptionStatus is the lifecycle state of a business's entitlement.
type SubscriptionStatus string

const (
	SubscriptionNone     SubscriptionStatus = "none"
	SubscriptionTrial    SubscriptionStatus = "trial"
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionLapsed   SubscriptionStatus = "lapsed"
	SubscriptionPending  SubscriptionStatus = "pending"
	SubscriptionRejected SubscriptionStatus = "rejected"
)

// SubscriptionTier names a purchasable tier. Lifetime is the only tier today.
type SubscriptionTier string

const TierLifetime SubscriptionTier = "lifetime"

// PaymentMethod is how a sale was paid.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCredit PaymentMethod = "credit"
	PaymentMobile PaymentMethod = "mobile"
)

// ExpenseCategory buckets expenses for reporting.
type ExpenseCategory string

const (
	ExpenseStock     ExpenseCategory = "stock"
	ExpenseRent      ExpenseCategory = "rent"
	ExpenseWages     ExpenseCategory = "wages"
	ExpenseUtilities ExpenseCategory = "utilities"
	ExpenseTransport ExpenseCategory = "transport"
	ExpenseFuel      ExpenseCategory = "fuel"
)

// WageType is the pay cadence of an employee.
type WageType string

const (
	WageHourly  WageType = "hourly"
	WageWeekly  WageType = "weekly"
	WageMonthly WageType = "monthly"
)

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft   InvoiceStatus = "draft"
	InvoiceSent    InvoiceStatus = "sent"
	InvoiceOverdue InvoiceStatus = "overdue"
	InvoicePaid    InvoiceStatus = "paid"
)

// StockStatus is derived from a product's stock level, never stored.
type StockStatus string

const (
	StockOut StockStatus = "out_of_stock"
	StockLow StockStatus = "low_stock"
	StockIn  StockStatus = "in_stock"
)

// ContactKind discriminates customers from suppliers so mixed contact
// lists can be split without inspecting balances.
type ContactKind string

const (
	KindCustomer ContactKind = "customer"
	KindSupplier ContactKind = "supplier"
)

// DateOnly is the layout for date-only fields in the persisted payload.
const DateOnly = "2006-01-02"
