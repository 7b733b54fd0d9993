package domain

import "time"

// User is an account able to sign in to a business. Interactive users hold a
// bcrypt password hash; employee terminal users hold a bcrypt PIN hash and a
// back-reference to their Employee record.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	PasswordHash string `json:"passwordHash,omitempty"`
	PINHash      string `json:"pinHash,omitempty"`
	Role         Role   `json:"role"`
	EmployeeID   string `json:"employeeId,omitempty"`
}

// Sale is a point-of-sale transaction.
type Sale struct {
	ID            string        `json:"id"`
	Date          string        `json:"date"`
	CustomerName  string        `json:"customerName"`
	Amount        float64       `json:"amount"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	CreatedBy     string        `json:"createdBy"`
}

// Expense is money going out, bucketed by category.
type Expense struct {
	ID        string          `json:"id"`
	Date      string          `json:"date"`
	Category  ExpenseCategory `json:"category"`
	Amount    float64         `json:"amount"`
	Receipt   string          `json:"receipt,omitempty"`
	CreatedBy string          `json:"createdBy"`
}

// Product is a stocked item.
type Product struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Stock         int     `json:"stock"`
	AlertLevel    int     `json:"alertLevel"`
	PurchasePrice float64 `json:"purchasePrice"`
	SellingPrice  float64 `json:"sellingPrice"`
	CreatedBy     string  `json:"createdBy"`
}

// Status derives the stock state from the current level.
func (p *Product) Status() StockStatus {
	switch {
	case p.Stock == 0:
		return StockOut
	case p.Stock <= p.AlertLevel:
		return StockLow
	default:
		return StockIn
	}
}

// Customer is a contact that may owe the business money.
type Customer struct {
	ID            string      `json:"id"`
	Kind          ContactKind `json:"kind"`
	Name          string      `json:"name"`
	Contact       string      `json:"contact"`
	CreditBalance float64     `json:"creditBalance"`
	DueDate       string      `json:"dueDate,omitempty"`
}

// Supplier is a contact the business may owe money.
type Supplier struct {
	ID         string      `json:"id"`
	Kind       ContactKind `json:"kind"`
	Name       string      `json:"name"`
	Contact    string      `json:"contact"`
	PaymentDue float64     `json:"paymentDue"`
}

// Employee is a staff record. ReportsTo forms a tree by employee id; a
// deleted manager is nulled out of subordinates, never left dangling.
type Employee struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Position  string   `json:"position"`
	WageRate  float64  `json:"wageRate"`
	WageType  WageType `json:"wageType"`
	ReportsTo string   `json:"reportsTo,omitempty"`
}

// AttendanceRecord is one clock-in, optionally closed by a clock-out.
// At most one open record may exist per employee at any time.
type AttendanceRecord struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employeeId"`
	ClockIn    time.Time  `json:"clockIn"`
	ClockOut   *time.Time `json:"clockOut,omitempty"`
}

// Open reports whether the record has not been clocked out yet.
func (a *AttendanceRecord) Open() bool { return a.ClockOut == nil }

// Hours returns the worked duration in hours, zero while the record is open.
func (a *AttendanceRecord) Hours() float64 {
	if a.ClockOut == nil {
		return 0
	}
	return a.ClockOut.Sub(a.ClockIn).Hours()
}

// Payslip is a wage snapshot for a period. Totals are computed once at
// generation time; later wage-rate changes never touch an issued payslip.
type Payslip struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employeeId"`
	Period        string  `json:"period"`
	TotalHours    float64 `json:"totalHours"`
	TotalPay      float64 `json:"totalPay"`
	GeneratedDate string  `json:"generatedDate"`
}

// InvoiceItem is one line on an invoice.
type InvoiceItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

// Invoice is a bill issued to a customer. InvoiceNumber is sequential per
// business, formatted YYYY-NNN. Total is computed at creation.
type Invoice struct {
	ID            string        `json:"id"`
	InvoiceNumber string        `json:"invoiceNumber"`
	CustomerID    string        `json:"customerId"`
	CustomerName  string        `json:"customerName"`
	IssueDate     string        `json:"issueDate"`
	DueDate       string        `json:"dueDate"`
	Items         []InvoiceItem `json:"items"`
	Total         float64       `json:"total"`
	Status        InvoiceStatus `json:"status"`
	Notes         string        `json:"notes,omitempty"`
}

// ItemsTotal sums quantity×unitPrice over the line items.
func ItemsTotal(items []InvoiceItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Quantity * it.UnitPrice
	}
	return total
}

// LoanRepayment is one repayment against a loan.
type LoanRepayment struct {
	ID     string  `json:"id"`
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// Loan is borrowed money. The outstanding balance is derived, never stored.
type Loan struct {
	ID            string          `json:"id"`
	Lender        string          `json:"lender"`
	InitialAmount float64         `json:"initialAmount"`
	Repayments    []LoanRepayment `json:"repayments"`
	DateTaken     string          `json:"dateTaken"`
}

// Outstanding returns the initial amount less all repayments.
func (l *Loan) Outstanding() float64 {
	balance := l.InitialAmount
	for _, r := range l.Repayments {
		balance -= r.Amount
	}
	return balance
}

// SavingGoal accumulates contributions toward a target.
type SavingGoal struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	TargetAmount  float64 `json:"targetAmount"`
	CurrentAmount float64 `json:"currentAmount"`
}
