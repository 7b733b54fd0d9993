// Package permissions holds the static role→capability table that gates
// every page and every mutating action. It is pure data; the Action API
// services and page guards consult it before acting.
package permissions

// Role names. They mirror domain.Role; kept as strings so this package
// stays a leaf.
const (
	RoleOwner    = "owner"
	RoleManager  = "manager"
	RoleStaff    = "staff"
	RoleEmployee = "employee"
)

// Capability identifies a page or an action-level right.
type Capability string

// Page capabilities.
const (
	PageDashboard Capability = "dashboard"
	PageSales     Capability = "sales"
	PageInventory Capability = "inventory"
	PageContacts  Capability = "contacts"
	PageEmployees Capability = "employees"
	PageInvoicing Capability = "invoicing"
	PageFinance   Capability = "finance"
	PageLearning  Capability = "learning"
	PageSettings  Capability = "settings"
)

// Action capabilities.
const (
	CanAdd         Capability = "canAdd"
	CanEdit        Capability = "canEdit"
	CanDelete      Capability = "canDelete"
	CanManageUsers Capability = "canManageUsers"
	CanViewReports Capability = "canViewReports"
)

// Table maps each capability to the roles allowed to exercise it.
// The employee role is deliberately restricted to the self-service subset
// (dashboard, own attendance/payslips under employees, learning).
var Table = map[Capability][]string{
	PageDashboard: {RoleOwner, RoleManager, RoleStaff, RoleEmployee},
	PageSales:     {RoleOwner, RoleManager, RoleStaff},
	PageInventory: {RoleOwner, RoleManager, RoleStaff},
	PageContacts:  {RoleOwner, RoleManager, RoleStaff},
	PageEmployees: {RoleOwner, RoleManager, RoleEmployee},
	PageInvoicing: {RoleOwner, RoleManager, RoleStaff},
	PageFinance:   {RoleOwner},
	PageLearning:  {RoleOwner, RoleManager, RoleStaff, RoleEmployee},
	PageSettings:  {RoleOwner, RoleManager},

	CanAdd:         {RoleOwner, RoleManager, RoleStaff},
	CanEdit:        {RoleOwner, RoleManager},
	CanDelete:      {RoleOwner},
	CanManageUsers: {RoleOwner, RoleManager},
	CanViewReports: {RoleOwner, RoleManager},
}

// Allowed reports whether role may exercise the capability. Unknown
// capabilities are denied.
func Allowed(cap Capability, role string) bool {
	for _, r := range Table[cap] {
		if r == role {
			return true
		}
	}
	return false
}

// AllowedAny reports whether role may exercise any of the capabilities.
func AllowedAny(role string, caps ...Capability) bool {
	for _, c := range caps {
		if Allowed(c, role) {
			return true
		}
	}
	return false
}

// PagesFor returns the pages navigable by the role, in table order.
func PagesFor(role string) []Capability {
	pages := []Capability{
		PageDashboard, PageSales, PageInventory, PageContacts,
		PageEmployees, PageInvoicing, PageFinance, PageLearning, PageSettings,
	}
	var out []Capability
	for _, p := range pages {
		if Allowed(p, role) {
			out = append(out, p)
		}
	}
	return out
}
