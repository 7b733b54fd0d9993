// Package staff is the Action API for employees, the PIN clock terminal and
// payslips.
package staff

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/zaveorah/zaveorah-core/internal/auth"
	"github.com/zaveorah/zaveorah-core/internal/domain"
	"github.com/zaveorah/zaveorah-core/internal/store"
	"github.com/zaveorah/zaveorah-core/pkg/clock"
	"github.com/zaveorah/zaveorah-core/pkg/logger"
	"github.com/zaveorah/zaveorah-core/pkg/permissions"
)

// Service handles staff-side mutations for the session's business.
type Service struct {
	store    *store.Store
	session  *auth.Session
	clock    clock.Clock
	validate *validator.Validate
	logger   *logger.Logger
}

// NewService creates a staff service.
func NewService(st *store.Store, sess *auth.Session, clk clock.Clock, log *logger.Logger) *Service {
	return &Service{
		store:    st,
		session:  sess,
		clock:    clk,
		validate: validator.New(),
		logger:   log.WithComponent("staff"),
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

// EmployeeInput is the caller-supplied part of an employee record.
type EmployeeInput struct {
	Name     string          `validate:"required"`
	Position string          `validate:"required"`
	WageRate float64         `validate:"gt=0"`
	WageType domain.WageType `validate:"required,oneof=hourly weekly monthly"`
}

// AddEmployee creates an employee together with its paired terminal user:
// an employee-role account holding the PIN hash and the back-reference to
// the employee record. Returns the new employee id.
func (s *Service) AddEmployee(in EmployeeInput, pin string) (string, bool) {
	if !s.allowed(permissions.CanManageUsers) {
		return "", false
	}
	if err := s.validate.Struct(in); err != nil {
		s.logger.Warn().Err(err).Msg("invalid employee input")
		return "", false
	}
	if !validPIN(pin) {
		s.logger.Warn().Msg("invalid PIN, must be 4 digits")
		return "", false
	}

	pinHash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash PIN")
		return "", false
	}

	employee := domain.Employee{
		ID:       domain.NewID("emp"),
		Name:     in.Name,
		Position: in.Position,
		WageRate: in.WageRate,
		WageType: in.WageType,
	}
	user := domain.User{
		ID:         domain.NewID("user"),
		Name:       in.Name,
		PINHash:    string(pinHash),
		Role:       domain.RoleEmployee,
		EmployeeID: employee.ID,
	}

	ok := s.store.Update(s.session.CurrentBusinessID(), func(d *domain.BusinessData) {
		d.Employees = append(d.Employees, employee)
		d.Users = append(d.Users, user)
	})
	if !ok {
		return "", false
	}
	return employee.ID, true
}

// DeleteEmployee removes an employee, cascades to the linked terminal user,
// and nulls out reportsTo references to the deleted employee. Deleting the
// employee behind the acting user is refused.
func (s *Service) DeleteEmployee(employeeID string) bool {
	if !s.allowed(permissions.CanDelete) {
		return false
	}
	actingUserID := s.session.CurrentUser().ID

	deleted := false
	s.store.Update(s.session.CurrentBusinessID(), func(d *domain.BusinessData) {
		if d.EmployeeByID(employeeID) == nil {
			return
		}
		linked := d.UserByEmployeeID(employeeID)
		if linked != nil && linked.ID == actingUserID {
			return
		}

		employees := d.Employees[:0]
		for _, e := range d.Employees {
			if e.ID == employeeID {
				continue
			}
			if e.ReportsTo == employeeID {
				e.ReportsTo = ""
			}
			employees = append(employees, e)
		}
		d.Employees = employees

		if linked != nil {
			users := d.Users[:0]
			for _, u := range d.Users {
				if u.ID != linked.ID {
					users = append(users, u)
				}
			}
			d.Users = users
		}
		deleted = true
	})
	return deleted
}

// ClockIn opens an attendance record for the employee behind the PIN.
// Fails cleanly when the PIN resolves to no terminal user or a record is
// already open.
func (s *Service) ClockIn(pin string) bool {
	businessID := s.session.CurrentBusinessID()
	data := s.store.BusinessData(businessID)
	if data == nil {
		return false
	}
	user := resolvePIN(data, pin)
	if user == nil || user.EmployeeID == "" {
		return false
	}
	if data.OpenAttendanceFor(user.EmployeeID) != nil {
		s.logger.Warn().Str("employee_id", user.EmployeeID).Msg("already clocked in")
		return false
	}

	record := domain.AttendanceRecord{
		ID:         domain.NewID("att"),
		EmployeeID: user.EmployeeID,
		ClockIn:    s.clock.Now(),
	}
	return s.store.Update(businessID, func(d *domain.BusinessData) {
		d.Attendance = append(d.Attendance, record)
	})
}

// ClockOut closes the open attendance record for the employee behind the
// PIN. Fails cleanly when nothing is open.
func (s *Service) ClockOut(pin string) bool {
	businessID := s.session.CurrentBusinessID()
	data := s.store.BusinessData(businessID)
	if data == nil {
		return false
	}
	user := resolvePIN(data, pin)
	if user == nil || user.EmployeeID == "" {
		return false
	}
	open := data.OpenAttendanceFor(user.EmployeeID)
	if open == nil {
		s.logger.Warn().Str("employee_id", user.EmployeeID).Msg("not clocked in")
		return false
	}

	now := s.clock.Now()
	return s.store.Update(businessID, func(d *domain.BusinessData) {
		for i := range d.Attendance {
			if d.Attendance[i].ID == open.ID {
				d.Attendance[i].ClockOut = &now
				return
			}
		}
	})
}

// GeneratePayslip issues a payslip for the period, formatted
// "YYYY-MM-DD to YYYY-MM-DD". Completed attendance records whose clock-in
// falls inside the period are summed and priced at the employee's current
// wage rate; the totals are a snapshot and never recomputed.
func (s *Service) GeneratePayslip(employeeID, period string) bool {
	if !s.allowed(permissions.CanViewReports) {
		return false
	}
	start, end, ok := parsePeriod(period)
	if !ok {
		s.logger.Warn().Str("period", period).Msg("invalid payslip period")
		return false
	}

	generated := false
	s.store.Update(s.session.CurrentBusinessID(), func(d *domain.BusinessData) {
		employee := d.EmployeeByID(employeeID)
		if employee == nil {
			return
		}

		var totalHours float64
		for i := range d.Attendance {
			a := &d.Attendance[i]
			if a.EmployeeID != employeeID || a.Open() {
				continue
			}
			if a.ClockIn.Before(start) || !a.ClockIn.Before(end) {
				continue
			}
			totalHours += a.Hours()
		}

		d.Payslips = append(d.Payslips, domain.Payslip{
			ID:            domain.NewID("slip"),
			EmployeeID:    employeeID,
			Period:        period,
			TotalHours:    totalHours,
			TotalPay:      totalHours * employee.WageRate,
			GeneratedDate: s.clock.Now().Format(domain.DateOnly),
		})
		generated = true
	})
	return generated
}

// resolvePIN finds the terminal user whose PIN hash matches the pin.
func resolvePIN(d *domain.BusinessData, pin string) *domain.User {
	if !validPIN(pin) {
		return nil
	}
	for i := range d.Users {
		u := &d.Users[i]
		if u.PINHash == "" {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PINHash), []byte(pin)) == nil {
			return u
		}
	}
	return nil
}

func validPIN(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for _, c := range pin {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// parsePeriod splits "YYYY-MM-DD to YYYY-MM-DD" into a half-open window
// [start, end-of-end-day).
func parsePeriod(period string) (start, end time.Time, ok bool) {
	parts := strings.Split(period, " to ")
	if len(parts) != 2 {
		return start, end, false
	}
	var err error
	start, err = time.Parse(domain.DateOnly, strings.TrimSpace(parts[0]))
	if err != nil {
		return start, end, false
	}
	end, err = time.Parse(domain.DateOnly, strings.TrimSpace(parts[1]))
	if err != nil {
		return start, end, false
	}
	if end.Before(start) {
		return start, end, false
	}
	end = end.AddDate(0, 0, 1)
	return start, end, true
}
