// Package contacts is the Action API for customers, suppliers and the
// business profile.
package contacts

import (
	"github.com/go-playground/validator/v10"

	"github.com/zaveorah/zaveorah-core/internal/auth"
	"github.com/zaveorah/zaveorah-core/internal/domain"
	"github.com/zaveorah/zaveorah-core/internal/store"
	"github.com/zaveorah/zaveorah-core/pkg/logger"
	"github.com/zaveorah/zaveorah-core/pkg/permissions"
)

// Service handles contact-side mutations for the session's business.
type Service struct {
	store    *store.Store
	session  *auth.Session
	validate *validator.Validate
	logger   *logger.Logger
}

// NewService creates a contacts service.
func NewService(st *store.Store, sess *auth.Session, log *logger.Logger) *Service {
	return &Service{
		store:    st,
		session:  sess,
		validate: validator.New(),
		logger:   log.WithComponent("contacts"),
	}
}

func (s *Service) allowed(cap permissions.Capability) bool {
	user := s.session.CurrentUser()
	if user == nil || !permissions.Allowed(cap, s.session.Role()) {
		s.logger.Warn().Str("capability", string(cap)).Msg("action not permitted")
		return false
	}
	return true
}

// CustomerInput is the caller-supplied part of a customer record.
type CustomerInput struct {
	Name          string  `validate:"required"`
	Contact       string  `validate:"required"`
	CreditBalance float64 `validate:"gte=0"`
	DueDate       string  `validate:"omitempty,datetime=2006-01-02"`
}

// AddCustomer creates a customer. Returns the new customer id.
func (s *Service) AddCustomer(in CustomerInput) (string, bool) {
	if !s.allowed(permissions.CanAdd) {
		return "", false
	}
	if err := s.validate.Struct(in); err != nil {
		s.logger.Warn().Err(err).Msg("invalid customer input")
		return "", false
	}

	customer := domain.Customer{
		ID:            domain.NewID("cust"),
		Kind:          domain.KindCustomer,
		Name:          in.Name,
		Contact:       in.Contact,
		CreditBalance: in.CreditBalance,
		DueDate:       in.DueDate,
	}

	ok := s.store.Update(s.session.CurrentBusinessID(), func(d *domain.BusinessData) {
		d.Customers = append(d.Customers, customer)
	})
	if !ok {
		return "", false
	}
	return customer.ID, true
}

// SupplierInput is the caller-supplied part of a supplier record.
type SupplierInput struct {
	Name       string  `validate:"required"`
	Contact    string  `validate:"required"`
	PaymentDue float64 `validate:"gte=0"`
}

// AddSupplier creates a supplier. Returns the new supplier id.
func (s *Service) AddSupplier(in SupplierInput) (string, bool) {
	if !s.allowed(permissions.CanAdd) {
		return "", false
	}
	if err := s.validate.Struct(in); err != nil {
		s.logger.Warn().Err(err).Msg("invalid supplier input")
		return "", false
	}

	supplier := domain.Supplier{
		ID:         domain.NewID("supp"),
		Kind:       domain.KindSupplier,
		Name:       in.Name,
		Contact:    in.Contact,
		PaymentDue: in.PaymentDue,
	}

	ok := s.store.Update(s.session.CurrentBusinessID(), func(d *domain.BusinessData) {
		d.Suppliers = append(d.Suppliers, supplier)
	})
	if !ok {
		return "", false
	}
	return supplier.ID, true
}

// SettleCustomerCredit reduces a customer's credit balance by the paid
// amount. Paying more than the balance clears it to zero; a fully settled
// customer loses its due date.
func (s *Service) SettleCustomerCredit(customerID string, amount float64) bool {
	if !s.allowed(permissions.CanEdit) {
		return false
	}
	if amount <= 0 {
		s.logger.Warn().Float64("amount", amount).Msg("invalid settlement amount")
		return false
	}

	settled := false
	s.store.Update(s.session.CurrentBusinessID(), func(d *domain.BusinessData) {
		for i := range d.Customers {
			c := &d.Customers[i]
			if c.ID != customerID {
				continue
			}
			c.CreditBalance -= amount
			if c.CreditBalance <= 0 {
				c.CreditBalance = 0
				c.DueDate = ""
			}
			settled = true
			return
		}
	})
	return settled
}

// ProfileInput is the editable part of the business profile.
type ProfileInput struct {
	Name    string `validate:"required"`
	Logo    string
	Address string
	Contact string
}

// UpdateBusinessProfile replaces the tenant's profile. Gated on the settings
// page since that is where the profile is edited.
func (s *Service) UpdateBusinessProfile(in ProfileInput) bool {
	if !s.allowed(permissions.PageSettings) {
		return false
	}
	if err := s.validate.Struct(in); err != nil {
		s.logger.Warn().Err(err).Msg("invalid profile input")
		return false
	}

	return s.store.Update(s.session.CurrentBusinessID(), func(d *domain.BusinessData) {
		d.BusinessProfile = domain.BusinessProfile{
			Name:    in.Name,
			Logo:    in.Logo,
			Address: in.Address,
			Contact: in.Contact,
		}
	})
}
