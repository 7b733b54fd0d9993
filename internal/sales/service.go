// Package sales is the Action API for sales, expenses, products and
// invoices.
package sales

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/zaveorah/zaveorah-core/internal/auth"
	"github.com/zaveorah/zaveorah-core/internal/domain"
	"github.com/zaveorah/zaveorah-core/internal/store"
	"github.com/zaveorah/zaveorah-core/pkg/clock"
	"github.com/zaveorah/zaveorah-core/pkg/logger"
	"github.com/zaveorah/zaveorah-core/pkg/permissions"
)

// creditSaleDueDays is how long a customer has to pay an invoice raised
// from a credit sale.
const creditSaleDueDays = 14

// Service handles sales-side mutations for the session's business.
type Service struct {
	store    *store.Store
	session  *auth.Session
	clock    clock.Clock
	validate *validator.Validate
	logger   *logger.Logger
}

// NewService creates a sales service.
func NewService(st *store.Store, sess *auth.Session, clk clock.Clock, log *logger.Logger) *Service {
	return &Service{
		store:    st,
		session:  sess,
		clock:    clk,
		validate: validator.New(),
		logger:   log.WithComponent("sales"),
	}
}

// allowed checks the session against a capability. Authorization failure is
// an expected outcome: logged, reported as false, never an error.
func (s *Service) allowed(cap permissions.Capability) bool {
	user := s.session.CurrentUser()
	if user == nil || !permissions.Allowed(cap, s.session.Role()) {
		s.logger.Warn().Str("capability", string(cap)).Msg("action not permitted")
		return false
	}
	return true
}

// SaleInput is the caller-supplied part of a sale; id, date and createdBy
// are derived.
type SaleInput struct {
	CustomerName  string               `validate:"required"`
	Amount        float64              `validate:"gt=0"`
	PaymentMethod domain.PaymentMethod `validate:"required,oneof=cash credit mobile"`
}

// AddSale records a sale. A credit sale whose customer name matches an
// existing customer also raises an invoice for the full amount, due in 14
// days, inside the same store update.
func (s *Service) AddSale(in SaleInput) bool {
	if !s.allowed(permissions.CanAdd) {
		return false
	}
	if err := s.validate.Struct(in); err != nil {
		s.logger.Warn().Err(err).Msg("invalid sale input")
		return false
	}

	now := s.clock.Now()
	sale := domain.Sale{
		ID:            domain.NewID("sale"),
		Date:          now.Format(domain.DateOnly),
		CustomerName:  in.CustomerName,
		Amount:        in.Amount,
		PaymentMethod: in.PaymentMethod,
		CreatedBy:     s.session.CurrentUser().Name,
	}

	return s.store.Update(s.session.CurrentBusinessID(), func(d *domain.BusinessData) {
		d.Sales = append([]domain.Sale{sale}, d.Sales...)

		if in.PaymentMethod != domain.PaymentCredit {
			return
		}
		customer := d.CustomerByName(in.CustomerName)
		if customer == nil {
			return
		}
		invoice := buildInvoice(d, invoiceFields{
			CustomerID:   customer.ID,
			CustomerName: customer.Name,
			IssueDate:    sale.Date,
			DueDate:      now.AddDate(0, 0, creditSaleDueDays).Format(domain.DateOnly),
			Items: []domain.InvoiceItem{
				{Description: "Credit sale", Quantity: 1, UnitPrice: in.Amount},
			},
			Notes: "Thank you for your business.",
		}, now)
		d.Invoices = append([]domain.Invoice{invoice}, d.Invoices...)
	})
}

// ExpenseInput is the caller-supplied part of an expense.
type ExpenseInput struct {
	Category domain.ExpenseCategory `validate:"required,oneof=stock rent wages utilities transport fuel"`
	Amount   float64                `validate:"gt=0"`
	Receipt  string
}

// AddExpense records an expense.
func (s *Service) AddExpense(in ExpenseInput) bool {
	if !s.allowed(permissions.CanAdd) {
		return false
	}
	if err := s.validate.Struct(in); err != nil {
		s.logger.Warn().Err(err).Msg("invalid expense input")
		return false
	}

	expense := domain.Expense{
		ID:        domain.NewID("exp"),
		Date:      s.clock.Now().Format(domain.DateOnly),
		Category:  in.Category,
		Amount:    in.Amount,
		Receipt:   in.Receipt,
		CreatedBy: s.session.CurrentUser().Name,
	}

	return s.store.Update(s.session.CurrentBusinessID(), func(d *domain.BusinessData) {
		d.Expenses = append([]domain.Expense{expense}, d.Expenses...)
	})
}

// ProductInput is the caller-supplied part of a product.
type ProductInput struct {
	Name          string  `validate:"required"`
	Stock         int     `validate:"gte=0"`
	AlertLevel    int     `validate:"gte=0"`
	PurchasePrice float64 `validate:"gte=0"`
	SellingPrice  float64 `validate:"gte=0"`
}

// AddProduct adds a product to the inventory.
func (s *Service) AddProduct(in ProductInput) bool {
	if !s.allowed(permissions.CanAdd) {
		return false
	}
	if err := s.validate.Struct(in); err != nil {
		s.logger.Warn().Err(err).Msg("invalid product input")
		return false
	}

	product := domain.Product{
		ID:            domain.NewID("prod"),
		Name:          in.Name,
		Stock:         in.Stock,
		AlertLevel:    in.AlertLevel,
		PurchasePrice: in.PurchasePrice,
		SellingPrice:  in.SellingPrice,
		CreatedBy:     s.session.CurrentUser().Name,
	}

	return s.store.Update(s.session.CurrentBusinessID(), func(d *domain.BusinessData) {
		d.Products = append([]domain.Product{product}, d.Products...)
	})
}

// InvoiceInput is the caller-supplied part of an invoice; number, total and
// status are derived at creation.
type InvoiceInput struct {
	CustomerID   string
	CustomerName string               `validate:"required"`
	IssueDate    string               `validate:"omitempty,datetime=2006-01-02"`
	DueDate      string               `validate:"required,datetime=2006-01-02"`
	Items        []domain.InvoiceItem `validate:"required,min=1,dive"`
	Notes        string
}

// AddInvoice creates an invoice. The invoice number is sequential per
// business (count+1, zero-padded to three digits, prefixed with the year);
// count-based numbering is safe because mutations are serialized.
func (s *Service) AddInvoice(in InvoiceInput) bool {
	if !s.allowed(permissions.CanAdd) {
		return false
	}
	if err := s.validate.Struct(in); err != nil {
		s.logger.Warn().Err(err).Msg("invalid invoice input")
		return false
	}

	now := s.clock.Now()
	issueDate := in.IssueDate
	if issueDate == "" {
		issueDate = now.Format(domain.DateOnly)
	}

	return s.store.Update(s.session.CurrentBusinessID(), func(d *domain.BusinessData) {
		invoice := buildInvoice(d, invoiceFields{
			CustomerID:   in.CustomerID,
			CustomerName: in.CustomerName,
			IssueDate:    issueDate,
			DueDate:      in.DueDate,
			Items:        in.Items,
			Notes:        in.Notes,
		}, now)
		d.Invoices = append([]domain.Invoice{invoice}, d.Invoices...)
	})
}

type invoiceFields struct {
	CustomerID   string
	CustomerName string
	IssueDate    string
	DueDate      string
	Items        []domain.InvoiceItem
	Notes        string
}

// buildInvoice derives the number, total and initial status. Initial status
// is overdue when the due date has already passed, sent otherwise.
func buildInvoice(d *domain.BusinessData, f invoiceFields, now time.Time) domain.Invoice {
	status := domain.InvoiceSent
	if due, err := time.Parse(domain.DateOnly, f.DueDate); err == nil && due.Before(now) {
		status = domain.InvoiceOverdue
	}

	return domain.Invoice{
		ID:            domain.NewID("inv"),
		InvoiceNumber: fmt.Sprintf("%d-%03d", now.Year(), len(d.Invoices)+1),
		CustomerID:    f.CustomerID,
		CustomerName:  f.CustomerName,
		IssueDate:     f.IssueDate,
		DueDate:       f.DueDate,
		Items:         f.Items,
		Total:         domain.ItemsTotal(f.Items),
		Status:        status,
		Notes:         f.Notes,
	}
}
