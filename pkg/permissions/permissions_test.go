package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// The table is a contract with existing tenants; changes here change who can
// do what in every business.
func TestTablePinned(t *testing.T) {
	tests := []struct {
		cap   Capability
		roles []string
	}{
		{PageDashboard, []string{RoleOwner, RoleManager, RoleStaff, RoleEmployee}},
		{PageSales, []string{RoleOwner, RoleManager, RoleStaff}},
		{PageInventory, []string{RoleOwner, RoleManager, RoleStaff}},
		{PageContacts, []string{RoleOwner, RoleManager, RoleStaff}},
		{PageEmployees, []string{RoleOwner, RoleManager, RoleEmployee}},
		{PageInvoicing, []string{RoleOwner, RoleManager, RoleStaff}},
		{PageFinance, []string{RoleOwner}},
		{PageLearning, []string{RoleOwner, RoleManager, RoleStaff, RoleEmployee}},
		{PageSettings, []string{RoleOwner, RoleManager}},
		{CanAdd, []string{RoleOwner, RoleManager, RoleStaff}},
		{CanEdit, []string{RoleOwner, RoleManager}},
		{CanDelete, []string{RoleOwner}},
		{CanManageUsers, []string{RoleOwner, RoleManager}},
		{CanViewReports, []string{RoleOwner, RoleManager}},
	}

	for _, tt := range tests {
		t.Run(string(tt.cap), func(t *testing.T) {
			assert.Equal(t, tt.roles, Table[tt.cap])
		})
	}
	assert.Len(t, Table, len(tests))
}

func TestAllowed(t *testing.T) {
	assert.True(t, Allowed(CanDelete, RoleOwner))
	assert.False(t, Allowed(CanDelete, RoleManager))
	assert.False(t, Allowed(CanAdd, RoleEmployee))
	assert.False(t, Allowed(Capability("unknown"), RoleOwner))
	assert.False(t, Allowed(CanAdd, "superuser"))
}

func TestAllowedAny(t *testing.T) {
	assert.True(t, AllowedAny(RoleStaff, CanDelete, CanAdd))
	assert.False(t, AllowedAny(RoleEmployee, CanAdd, CanEdit, CanDelete))
}

func TestPagesFor(t *testing.T) {
	assert.Equal(t, []Capability{PageDashboard, PageEmployees, PageLearning}, PagesFor(RoleEmployee))
	assert.Len(t, PagesFor(RoleOwner), 9)
	assert.Empty(t, PagesFor("stranger"))
}
