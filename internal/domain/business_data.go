package domain

// BusinessData owns every tenant-scoped collection for one business. The
// multi-tenant store is the only writer; no cross-tenant references exist
// anywhere in the model.
type BusinessData struct {
	Users           []User             `json:"users"`
	Sales           []Sale             `json:"sales"`
	Expenses        []Expense          `json:"expenses"`
	Products        []Product          `json:"products"`
	Customers       []Customer         `json:"customers"`
	Suppliers       []Supplier         `json:"suppliers"`
	Employees       []Employee         `json:"employees"`
	Attendance      []AttendanceRecord `json:"attendance"`
	Payslips        []Payslip          `json:"payslips"`
	Invoices        []Invoice          `json:"invoices"`
	Loans           []Loan             `json:"loans"`
	SavingGoals     []SavingGoal       `json:"savingGoals"`
	BusinessProfile BusinessProfile    `json:"businessProfile"`
}

// NewBusinessData builds the empty dataset for a freshly registered business
// with its single owner account.
func NewBusinessData(businessName string, owner User) *BusinessData {
	return &BusinessData{
		Users:       []User{owner},
		Sales:       []Sale{},
		Expenses:    []Expense{},
		Products:    []Product{},
		Customers:   []Customer{},
		Suppliers:   []Supplier{},
		Employees:   []Employee{},
		Attendance:  []AttendanceRecord{},
		Payslips:    []Payslip{},
		Invoices:    []Invoice{},
		Loans:       []Loan{},
		SavingGoals: []SavingGoal{},
		BusinessProfile: BusinessProfile{
			Name: businessName,
		},
	}
}

// UserByID returns the user with the given id, or nil.
func (d *BusinessData) UserByID(id string) *User {
	for i := range d.Users {
		if d.Users[i].ID == id {
			return &d.Users[i]
		}
	}
	return nil
}

// UserByEmployeeID returns the user linked to the given employee, or nil.
func (d *BusinessData) UserByEmployeeID(employeeID string) *User {
	for i := range d.Users {
		if d.Users[i].EmployeeID == employeeID {
			return &d.Users[i]
		}
	}
	return nil
}

// EmployeeByID returns the employee with the given id, or nil.
func (d *BusinessData) EmployeeByID(id string) *Employee {
	for i := range d.Employees {
		if d.Employees[i].ID == id {
			return &d.Employees[i]
		}
	}
	return nil
}

// CustomerByName returns the customer with an exact name match, or nil.
func (d *BusinessData) CustomerByName(name string) *Customer {
	for i := range d.Customers {
		if d.Customers[i].Name == name {
			return &d.Customers[i]
		}
	}
	return nil
}

// OpenAttendanceFor returns the employee's open attendance record, or nil.
func (d *BusinessData) OpenAttendanceFor(employeeID string) *AttendanceRecord {
	for i := range d.Attendance {
		if d.Attendance[i].EmployeeID == employeeID && d.Attendance[i].Open() {
			return &d.Attendance[i]
		}
	}
	return nil
}

// LoanByID returns the loan with the given id, or nil.
func (d *BusinessData) LoanByID(id string) *Loan {
	for i := range d.Loans {
		if d.Loans[i].ID == id {
			return &d.Loans[i]
		}
	}
	return nil
}

// SavingGoalByID returns the saving goal with the given id, or nil.
func (d *BusinessData) SavingGoalByID(id string) *SavingGoal {
	for i := range d.SavingGoals {
		if d.SavingGoals[i].ID == id {
			return &d.SavingGoals[i]
		}
	}
	return nil
}

// Clone returns a deep copy. The store hands clones to updaters and to the
// read surface so that no caller can reach the canonical dataset.
func (d *BusinessData) Clone() *BusinessData {
	if d == nil {
		return nil
	}
	out := *d
	out.Users = append([]User(nil), d.Users...)
	out.Sales = append([]Sale(nil), d.Sales...)
	out.Expenses = append([]Expense(nil), d.Expenses...)
	out.Products = append([]Product(nil), d.Products...)
	out.Customers = append([]Customer(nil), d.Customers...)
	out.Suppliers = append([]Supplier(nil), d.Suppliers...)
	out.Employees = append([]Employee(nil), d.Employees...)
	out.Payslips = append([]Payslip(nil), d.Payslips...)
	out.SavingGoals = append([]SavingGoal(nil), d.SavingGoals...)

	out.Attendance = make([]AttendanceRecord, len(d.Attendance))
	for i, a := range d.Attendance {
		out.Attendance[i] = a
		if a.ClockOut != nil {
			t := *a.ClockOut
			out.Attendance[i].ClockOut = &t
		}
	}

	out.Invoices = make([]Invoice, len(d.Invoices))
	for i, inv := range d.Invoices {
		out.Invoices[i] = inv
		out.Invoices[i].Items = append([]InvoiceItem(nil), inv.Items...)
	}

	out.Loans = make([]Loan, len(d.Loans))
	for i, l := range d.Loans {
		out.Loans[i] = l
		out.Loans[i].Repayments = append([]LoanRepayment(nil), l.Repayments...)
	}

	return &out
}

// CloneBusiness returns a deep copy of a tenant record.
func CloneBusiness(b *Business) *Business {
	if b == nil {
		return nil
	}
	out := *b
	if b.SubscriptionExpiry != nil {
		t := *b.SubscriptionExpiry
		out.SubscriptionExpiry = &t
	}
	if b.TrialStartDate != nil {
		t := *b.TrialStartDate
		out.TrialStartDate = &t
	}
	return &out
}
