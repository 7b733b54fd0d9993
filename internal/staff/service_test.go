package staff_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaveorah/zaveorah-core/internal/domain"
	"github.com/zaveorah/zaveorah-core/internal/staff"
	"github.com/zaveorah/zaveorah-core/internal/store"
	"github.com/zaveorah/zaveorah-core/pkg/clock"
	"github.com/zaveorah/zaveorah-core/pkg/logger"
	"github.com/zaveorah/zaveorah-core/pkg/testutil"
)

var testTime = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

const testPIN = "4321"

func newService(t *testing.T) (*staff.Service, *store.Store, string, *clock.Fake) {
	t.Helper()
	clk := &clock.Fake{Current: testTime}
	st := testutil.NewStore(t, clk)
	businessID := testutil.RegisterBusiness(t, st, "Kai Bar")
	manager := testutil.LoginOwner(t, st, clk, businessID)
	svc := staff.NewService(st, manager.Session(), clk, logger.NewNop())
	return svc, st, businessID, clk
}

func addEmployee(t *testing.T, svc *staff.Service) string {
	t.Helper()
	employeeID, ok := svc.AddEmployee(staff.EmployeeInput{
		Name:     "Kojo",
		Position: "Cashier",
		WageRate: 10,
		WageType: domain.WageHourly,
	}, testPIN)
	require.True(t, ok)
	return employeeID
}

func TestAddEmployeeCreatesTerminalUser(t *testing.T) {
	svc, st, businessID, _ := newService(t)

	employeeID := addEmployee(t, svc)

	data := st.BusinessData(businessID)
	require.Len(t, data.Employees, 1)
	assert.Equal(t, employeeID, data.Employees[0].ID)

	linked := data.UserByEmployeeID(employeeID)
	require.NotNil(t, linked)
	assert.Equal(t, domain.RoleEmployee, linked.Role)
	assert.NotEmpty(t, linked.PINHash)
	assert.NotEqual(t, testPIN, linked.PINHash)
	assert.Empty(t, linked.PasswordHash)
}

func TestAddEmployeeInvalidPIN(t *testing.T) {
	svc, _, _, _ := newService(t)

	in := staff.EmployeeInput{Name: "Kojo", Position: "Cashier", WageRate: 10, WageType: domain.WageHourly}
	for _, pin := range []string{"", "123", "12345", "12a4"} {
		_, ok := svc.AddEmployee(in, pin)
		assert.False(t, ok, "pin %q", pin)
	}
}

func TestClockInOut(t *testing.T) {
	svc, st, businessID, clk := newService(t)
	employeeID := addEmployee(t, svc)

	require.True(t, svc.ClockIn(testPIN))
	// A second clock-in while a record is open is refused.
	assert.False(t, svc.ClockIn(testPIN))

	data := st.BusinessData(businessID)
	require.Len(t, data.Attendance, 1)
	assert.True(t, data.Attendance[0].Open())

	clk.Advance(2 * time.Hour)
	require.True(t, svc.ClockOut(testPIN))
	// Nothing open anymore.
	assert.False(t, svc.ClockOut(testPIN))

	data = st.BusinessData(businessID)
	require.Len(t, data.Attendance, 1)
	record := data.Attendance[0]
	assert.False(t, record.Open())
	assert.Equal(t, employeeID, record.EmployeeID)
	assert.InDelta(t, 2.0, record.Hours(), 1e-9)
}

func TestClockInWrongPIN(t *testing.T) {
	svc, _, _, _ := newService(t)
	addEmployee(t, svc)

	assert.False(t, svc.ClockIn("9999"))
	assert.False(t, svc.ClockOut("9999"))
}

func TestGeneratePayslip(t *testing.T) {
	svc, st, businessID, clk := newService(t)
	employeeID := addEmployee(t, svc)

	require.True(t, svc.ClockIn(testPIN))
	clk.Advance(2 * time.Hour)
	require.True(t, svc.ClockOut(testPIN))

	// A still-open shift contributes nothing.
	clk.Advance(22 * time.Hour)
	require.True(t, svc.ClockIn(testPIN))

	require.True(t, svc.GeneratePayslip(employeeID, "2025-06-01 to 2025-06-07"))

	data := st.BusinessData(businessID)
	require.Len(t, data.Payslips, 1)
	slip := data.Payslips[0]
	assert.Equal(t, employeeID, slip.EmployeeID)
	assert.InDelta(t, 2.0, slip.TotalHours, 1e-9)
	assert.InDelta(t, 20.0, slip.TotalPay, 1e-9)
	assert.Equal(t, "2025-06-03", slip.GeneratedDate)
}

func TestGeneratePayslipOutsidePeriod(t *testing.T) {
	svc, st, businessID, clk := newService(t)
	employeeID := addEmployee(t, svc)

	require.True(t, svc.ClockIn(testPIN))
	clk.Advance(3 * time.Hour)
	require.True(t, svc.ClockOut(testPIN))

	require.True(t, svc.GeneratePayslip(employeeID, "2025-05-01 to 2025-05-07"))

	data := st.BusinessData(businessID)
	require.Len(t, data.Payslips, 1)
	assert.Zero(t, data.Payslips[0].TotalHours)
	assert.Zero(t, data.Payslips[0].TotalPay)
}

func TestGeneratePayslipBadPeriod(t *testing.T) {
	svc, _, _, _ := newService(t)
	employeeID := addEmployee(t, svc)

	assert.False(t, svc.GeneratePayslip(employeeID, "June"))
	assert.False(t, svc.GeneratePayslip(employeeID, "2025-06-07 to 2025-06-01"))
	assert.False(t, svc.GeneratePayslip("emp-unknown", "2025-06-01 to 2025-06-07"))
}

func TestDeleteEmployeeCascades(t *testing.T) {
	svc, st, businessID, _ := newService(t)
	managerID := addEmployee(t, svc)
	juniorID, ok := svc.AddEmployee(staff.EmployeeInput{
		Name:     "Abena",
		Position: "Server",
		WageRate: 8,
		WageType: domain.WageHourly,
	}, "8765")
	require.True(t, ok)
	require.True(t, st.Update(businessID, func(d *domain.BusinessData) {
		d.EmployeeByID(juniorID).ReportsTo = managerID
	}))

	require.True(t, svc.DeleteEmployee(managerID))

	data := st.BusinessData(businessID)
	require.Len(t, data.Employees, 1)
	assert.Equal(t, juniorID, data.Employees[0].ID)
	assert.Empty(t, data.Employees[0].ReportsTo)
	assert.Nil(t, data.UserByEmployeeID(managerID))
	assert.NotNil(t, data.UserByEmployeeID(juniorID))

	assert.False(t, svc.DeleteEmployee("emp-unknown"))
}

func TestDeleteEmployeeBehindActingUserRefused(t *testing.T) {
	svc, st, businessID, _ := newService(t)
	employeeID := addEmployee(t, svc)

	// Link the acting owner to the employee record.
	owner := testutil.Owner(t, st, businessID)
	require.True(t, st.Update(businessID, func(d *domain.BusinessData) {
		d.UserByID(owner.ID).EmployeeID = employeeID
	}))

	assert.False(t, svc.DeleteEmployee(employeeID))
	assert.NotNil(t, st.BusinessData(businessID).EmployeeByID(employeeID))
}
