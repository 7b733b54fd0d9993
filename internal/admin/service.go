// Package admin is the Action API behind the super-admin panel. Every
// operation requires an admin-mode session; a tenant session is refused
// regardless of role.
package admin

import (
	"github.com/zaveorah/zaveorah-core/internal/auth"
	"github.com/zaveorah/zaveorah-core/internal/domain"
	"github.com/zaveorah/zaveorah-core/internal/store"
	"github.com/zaveorah/zaveorah-core/pkg/logger"
)

// Service handles platform-wide operations.
type Service struct {
	store   *store.Store
	session *auth.Session
	logger  *logger.Logger
}

// NewService creates an admin service.
func NewService(st *store.Store, sess *auth.Session, log *logger.Logger) *Service {
	return &Service{
		store:   st,
		session: sess,
		logger:  log.WithComponent("admin"),
	}
}

func (s *Service) allowed() bool {
	if !s.session.IsAdmin() {
		s.logger.Warn().Msg("admin action refused for non-admin session")
		return false
	}
	return true
}

// Overview is what the super-admin panel renders: every tenant plus the
// subset awaiting payment review.
type Overview struct {
	Businesses       []domain.Business
	PendingApprovals []domain.Business
}

// Overview returns the tenant list and pending approvals, nil when the
// session is not admin.
func (s *Service) Overview() *Overview {
	if !s.allowed() {
		return nil
	}

	businesses := s.store.Businesses()
	var pending []domain.Business
	for _, b := range businesses {
		// Rejected submissions keep their pending fields as audit context,
		// so the status is the filter, not HasPendingPayment.
		if b.SubscriptionStatus == domain.SubscriptionPending {
			pending = append(pending, b)
		}
	}
	return &Overview{
		Businesses:       businesses,
		PendingApprovals: pending,
	}
}

// UsersForBusiness returns the user list of any tenant, nil when the session
// is not admin or the business is unknown.
func (s *Service) UsersForBusiness(businessID string) []domain.User {
	if !s.allowed() {
		return nil
	}
	return s.store.UsersForBusiness(businessID)
}

// ExportAll returns the full serialized dataset for download.
func (s *Service) ExportAll() (string, bool) {
	if !s.allowed() {
		return "", false
	}
	payload, err := s.store.ExportAll()
	if err != nil {
		s.logger.Error().Err(err).Msg("export failed")
		return "", false
	}
	return payload, true
}

// WipeAll irreversibly resets the entire store.
func (s *Service) WipeAll() bool {
	if !s.allowed() {
		return false
	}
	s.store.WipeAll()
	return true
}
