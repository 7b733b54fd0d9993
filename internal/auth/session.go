// Package auth resolves login, admin login and impersonation into the
// current session: the (business, user) pair the Action API acts on behalf
// of, or admin mode with no business scope.
package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/zaveorah/zaveorah-core/internal/domain"
	"github.com/zaveorah/zaveorah-core/internal/store"
	"github.com/zaveorah/zaveorah-core/internal/subscription"
	"github.com/zaveorah/zaveorah-core/pkg/clock"
	"github.com/zaveorah/zaveorah-core/pkg/logger"
)

// AdminUserID identifies the synthetic super-admin account. It exists in no
// business's user list.
const AdminUserID = "admin-user"

// Session is the current authentication state. All fields are cleared by
// Logout.
type Session struct {
	businessID           string
	user                 *domain.User
	adminMode            bool
	subscriptionRequired bool
	upgradeFlow          bool
}

// CurrentBusinessID returns the active business id, empty in admin mode or
// when logged out.
func (s *Session) CurrentBusinessID() string { return s.businessID }

// CurrentUser returns the authenticated user, nil when logged out.
func (s *Session) CurrentUser() *domain.User { return s.user }

// IsAdmin reports whether the session is in super-admin mode.
func (s *Session) IsAdmin() bool { return s.adminMode }

// SubscriptionRequired reports whether the subscription gate blocked the
// last login; the presentation layer shows the subscription modal instead
// of the app while this is set.
func (s *Session) SubscriptionRequired() bool { return s.subscriptionRequired }

// ClearSubscriptionRequired lifts the gate after a successful transition.
func (s *Session) ClearSubscriptionRequired() { s.subscriptionRequired = false }

// IsUpgradeFlow reports whether the user explicitly entered the upgrade
// flow while already active.
func (s *Session) IsUpgradeFlow() bool { return s.upgradeFlow }

// SetUpgradeFlow sets or clears the upgrade flow flag.
func (s *Session) SetUpgradeFlow(v bool) { s.upgradeFlow = v }

// Role returns the current user's role, empty when logged out.
func (s *Session) Role() string {
	if s.user == nil {
		return ""
	}
	return string(s.user.Role)
}

func (s *Session) reset() {
	s.businessID = ""
	s.user = nil
	s.adminMode = false
	s.subscriptionRequired = false
	s.upgradeFlow = false
}

// Manager performs session transitions against the store.
type Manager struct {
	store   *store.Store
	clock   clock.Clock
	session *Session
	tokens  *TokenIssuer
	logger  *logger.Logger
}

// NewManager creates a session manager. tokens may be nil when session
// resume is not wanted.
func NewManager(st *store.Store, clk clock.Clock, tokens *TokenIssuer, log *logger.Logger) *Manager {
	return &Manager{
		store:   st,
		clock:   clk,
		session: &Session{},
		tokens:  tokens,
		logger:  log.WithComponent("auth"),
	}
}

// Session returns the session state the manager owns.
func (m *Manager) Session() *Session { return m.session }

// Login authenticates a user by id and password within a business. A
// mismatch is an expected outcome reported as false. On success the
// subscription gate is evaluated: an inactive business that is not pending
// or rejected demotes a previously entitled status to lapsed and raises
// the gate.
func (m *Manager) Login(businessID, userID, password string) bool {
	biz := m.store.Business(businessID)
	users := m.store.UsersForBusiness(businessID)
	if biz == nil || users == nil {
		return false
	}

	var user *domain.User
	for i := range users {
		if users[i].ID == userID {
			user = &users[i]
			break
		}
	}
	if user == nil || user.PasswordHash == "" {
		return false
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		m.logger.Warn().Str("business_id", businessID).Str("user_id", userID).Msg("login failed")
		return false
	}

	m.session.reset()
	m.session.businessID = businessID
	m.session.user = user

	m.applySubscriptionGate(biz)
	m.logger.Info().Str("business_id", businessID).Str("user_id", userID).Msg("login")
	return true
}

func (m *Manager) applySubscriptionGate(biz *domain.Business) {
	active := subscription.IsActiveAt(biz, m.clock.Now())
	if !active &&
		biz.SubscriptionStatus != domain.SubscriptionPending &&
		biz.SubscriptionStatus != domain.SubscriptionRejected {
		if biz.SubscriptionStatus != domain.SubscriptionNone {
			m.store.UpdateBusiness(biz.ID, func(b *domain.Business) {
				b.SubscriptionStatus = domain.SubscriptionLapsed
			})
		}
		m.session.subscriptionRequired = true
	} else {
		m.session.subscriptionRequired = false
	}
}

// AdminLogin establishes the synthetic super-admin session. The out-of-band
// secret check belongs to the presentation layer; once past it, this always
// succeeds.
func (m *Manager) AdminLogin() bool {
	m.session.reset()
	m.session.adminMode = true
	m.session.user = &domain.User{
		ID:   AdminUserID,
		Name: "Super Admin",
		Role: domain.RoleOwner,
	}
	m.logger.Info().Msg("admin login")
	return true
}

// Impersonate switches an admin session to the target business and user
// with no password check and no subscription gating.
func (m *Manager) Impersonate(businessID, userID string) bool {
	if !m.session.adminMode {
		return false
	}
	users := m.store.UsersForBusiness(businessID)
	if users == nil {
		return false
	}
	for i := range users {
		if users[i].ID == userID {
			m.session.reset()
			m.session.businessID = businessID
			m.session.user = &users[i]
			m.logger.Info().Str("business_id", businessID).Str("user_id", userID).Msg("impersonating user")
			return true
		}
	}
	return false
}

// Logout clears all session state.
func (m *Manager) Logout() {
	m.session.reset()
}

// Token mints a signed resume token for the current session. Returns empty
// when logged out or tokens are not configured.
func (m *Manager) Token() (string, error) {
	if m.tokens == nil || m.session.user == nil {
		return "", nil
	}
	return m.tokens.Issue(m.session.businessID, m.session.user.ID, m.session.adminMode, m.clock.Now())
}

// Resume re-establishes a session from a previously issued token. Admin
// claims restore admin mode; user claims re-run the subscription gate just
// like an interactive login, minus the password check.
func (m *Manager) Resume(token string) bool {
	if m.tokens == nil {
		return false
	}
	claims, err := m.tokens.Parse(token, m.clock.Now())
	if err != nil {
		m.logger.Warn().Err(err).Msg("session resume rejected")
		return false
	}
	if claims.Admin {
		return m.AdminLogin()
	}

	biz := m.store.Business(claims.BusinessID)
	users := m.store.UsersForBusiness(claims.BusinessID)
	if biz == nil || users == nil {
		return false
	}
	for i := range users {
		if users[i].ID == claims.UserID {
			m.session.reset()
			m.session.businessID = claims.BusinessID
			m.session.user = &users[i]
			m.applySubscriptionGate(biz)
			return true
		}
	}
	return false
}
