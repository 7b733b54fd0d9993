// Package user is the Action API for account management within a business.
package user

import (
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/zaveorah/zaveorah-core/internal/auth"
	"github.com/zaveorah/zaveorah-core/internal/domain"
	"github.com/zaveorah/zaveorah-core/internal/store"
	"github.com/zaveorah/zaveorah-core/pkg/logger"
	"github.com/zaveorah/zaveorah-core/pkg/permissions"
)

// Service handles user management for the session's business. Every
// operation requires the canManageUsers capability.
type Service struct {
	store    *store.Store
	session  *auth.Session
	validate *validator.Validate
	logger   *logger.Logger
}

// NewService creates a user service.
func NewService(st *store.Store, sess *auth.Session, log *logger.Logger) *Service {
	return &Service{
		store:    st,
		session:  sess,
		validate: validator.New(),
		logger:   log.WithComponent("user"),
	}
}

func (s *Service) allowed() bool {
	user := s.session.CurrentUser()
	if user == nil || !permissions.Allowed(permissions.CanManageUsers, s.session.Role()) {
		s.logger.Warn().Msg("user management not permitted")
		return false
	}
	return true
}

// Input describes a new or updated account. Password applies to interactive
// roles, PIN to employee terminal accounts.
type Input struct {
	Name       string      `validate:"required"`
	Role       domain.Role `validate:"required,oneof=owner manager staff employee"`
	Password   string      `validate:"omitempty,min=4"`
	PIN        string      `validate:"omitempty,len=4,numeric"`
	EmployeeID string
}

// Add creates a user. An employee-role account must reference an existing
// employee record in the same business. Returns the new user id.
func (s *Service) Add(in Input) (string, bool) {
	if !s.allowed() {
		return "", false
	}
	if err := s.validate.Struct(in); err != nil {
		s.logger.Warn().Err(err).Msg("invalid user input")
		return "", false
	}

	user := domain.User{
		ID:         domain.NewID("user"),
		Name:       in.Name,
		Role:       in.Role,
		EmployeeID: in.EmployeeID,
	}
	if !s.applyCredentials(&user, in.Password, in.PIN) {
		return "", false
	}

	added := false
	s.store.Update(s.session.CurrentBusinessID(), func(d *domain.BusinessData) {
		if in.Role == domain.RoleEmployee && d.EmployeeByID(in.EmployeeID) == nil {
			return
		}
		d.Users = append(d.Users, user)
		added = true
	})
	return user.ID, added
}

// Update replaces a user's name, role and credentials. Credentials are
// re-hashed only when supplied; the employee link is immutable here, and
// moving a user to the employee role requires an existing link.
func (s *Service) Update(userID string, in Input) bool {
	if !s.allowed() {
		return false
	}
	if err := s.validate.Struct(in); err != nil {
		s.logger.Warn().Err(err).Msg("invalid user input")
		return false
	}

	var incoming domain.User
	if !s.applyCredentials(&incoming, in.Password, in.PIN) {
		return false
	}

	updated := false
	s.store.Update(s.session.CurrentBusinessID(), func(d *domain.BusinessData) {
		u := d.UserByID(userID)
		if u == nil {
			return
		}
		if in.Role == domain.RoleEmployee && d.EmployeeByID(u.EmployeeID) == nil {
			return
		}
		u.Name = in.Name
		u.Role = in.Role
		if incoming.PasswordHash != "" {
			u.PasswordHash = incoming.PasswordHash
		}
		if incoming.PINHash != "" {
			u.PINHash = incoming.PINHash
		}
		updated = true
	})
	return updated
}

// Delete removes a user. Self-deletion of the acting user is always
// refused; the store is left unchanged.
func (s *Service) Delete(userID string) bool {
	if !s.allowed() {
		return false
	}
	if s.session.CurrentUser().ID == userID {
		s.logger.Warn().Str("user_id", userID).Msg("refusing self-deletion")
		return false
	}

	deleted := false
	s.store.Update(s.session.CurrentBusinessID(), func(d *domain.BusinessData) {
		users := d.Users[:0]
		for _, u := range d.Users {
			if u.ID == userID {
				deleted = true
				continue
			}
			users = append(users, u)
		}
		d.Users = users
	})
	return deleted
}

func (s *Service) applyCredentials(u *domain.User, password, pin string) bool {
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to hash password")
			return false
		}
		u.PasswordHash = string(hash)
	}
	if pin != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to hash PIN")
			return false
		}
		u.PINHash = string(hash)
	}
	return true
}
