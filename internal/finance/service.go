// Package finance is the Action API for loans and saving goals. The finance
// page is owner-only, so every operation gates on it.
package finance

import (
	"github.com/go-playground/validator/v10"

	"github.com/zaveorah/zaveorah-core/internal/auth"
	"github.com/zaveorah/zaveorah-core/internal/domain"
	"github.com/zaveorah/zaveorah-core/internal/store"
	"github.com/zaveorah/zaveorah-core/pkg/clock"
	"github.com/zaveorah/zaveorah-core/pkg/logger"
	"github.com/zaveorah/zaveorah-core/pkg/permissions"
)

// Service handles finance-side mutations for the session's business.
type Service struct {
	store    *store.Store
	session  *auth.Session
	clock    clock.Clock
	validate *validator.Validate
	logger   *logger.Logger
}

// NewService creates a finance service.
func NewService(st *store.Store, sess *auth.Session, clk clock.Clock, log *logger.Logger) *Service {
	return &Service{
		store:    st,
		session:  sess,
		clock:    clk,
		validate: validator.New(),
		logger:   log.WithComponent("finance"),
	}
}

func (s *Service) allowed() bool {
	user := s.session.CurrentUser()
	if user == nil || !permissions.Allowed(permissions.PageFinance, s.session.Role()) {
		s.logger.Warn().Msg("finance action not permitted")
		return false
	}
	return true
}

// LoanInput is the caller-supplied part of a loan.
type LoanInput struct {
	Lender        string  `validate:"required"`
	InitialAmount float64 `validate:"gt=0"`
	DateTaken     string  `validate:"omitempty,datetime=2006-01-02"`
}

// AddLoan records a loan with no repayments. DateTaken defaults to today.
// Returns the new loan id.
func (s *Service) AddLoan(in LoanInput) (string, bool) {
	if !s.allowed() {
		return "", false
	}
	if err := s.validate.Struct(in); err != nil {
		s.logger.Warn().Err(err).Msg("invalid loan input")
		return "", false
	}

	dateTaken := in.DateTaken
	if dateTaken == "" {
		dateTaken = s.clock.Now().Format(domain.DateOnly)
	}
	loan := domain.Loan{
		ID:            domain.NewID("loan"),
		Lender:        in.Lender,
		InitialAmount: in.InitialAmount,
		Repayments:    []domain.LoanRepayment{},
		DateTaken:     dateTaken,
	}

	ok := s.store.Update(s.session.CurrentBusinessID(), func(d *domain.BusinessData) {
		d.Loans = append(d.Loans, loan)
	})
	if !ok {
		return "", false
	}
	return loan.ID, true
}

// AddLoanRepayment appends a repayment to an existing loan. The outstanding
// balance stays derived; overpayment is allowed and simply goes negative.
func (s *Service) AddLoanRepayment(loanID string, amount float64) bool {
	if !s.allowed() {
		return false
	}
	if amount <= 0 {
		s.logger.Warn().Float64("amount", amount).Msg("invalid repayment amount")
		return false
	}

	repayment := domain.LoanRepayment{
		ID:     domain.NewID("rep"),
		Date:   s.clock.Now().Format(domain.DateOnly),
		Amount: amount,
	}

	applied := false
	s.store.Update(s.session.CurrentBusinessID(), func(d *domain.BusinessData) {
		loan := d.LoanByID(loanID)
		if loan == nil {
			return
		}
		loan.Repayments = append(loan.Repayments, repayment)
		applied = true
	})
	return applied
}

// GoalInput is the caller-supplied part of a saving goal.
type GoalInput struct {
	Name         string  `validate:"required"`
	TargetAmount float64 `validate:"gt=0"`
}

// AddSavingGoal creates a saving goal at zero. Returns the new goal id.
func (s *Service) AddSavingGoal(in GoalInput) (string, bool) {
	if !s.allowed() {
		return "", false
	}
	if err := s.validate.Struct(in); err != nil {
		s.logger.Warn().Err(err).Msg("invalid saving goal input")
		return "", false
	}

	goal := domain.SavingGoal{
		ID:           domain.NewID("goal"),
		Name:         in.Name,
		TargetAmount: in.TargetAmount,
	}

	ok := s.store.Update(s.session.CurrentBusinessID(), func(d *domain.BusinessData) {
		d.SavingGoals = append(d.SavingGoals, goal)
	})
	if !ok {
		return "", false
	}
	return goal.ID, true
}

// AddContribution adds to a goal's current amount. Contributions past the
// target are accepted.
func (s *Service) AddContribution(goalID string, amount float64) bool {
	if !s.allowed() {
		return false
	}
	if amount <= 0 {
		s.logger.Warn().Float64("amount", amount).Msg("invalid contribution amount")
		return false
	}

	applied := false
	s.store.Update(s.session.CurrentBusinessID(), func(d *domain.BusinessData) {
		goal := d.SavingGoalByID(goalID)
		if goal == nil {
			return
		}
		goal.CurrentAmount += amount
		applied = true
	})
	return applied
}
