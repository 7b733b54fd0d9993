package sales_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaveorah/zaveorah-core/internal/auth"
	"github.com/zaveorah/zaveorah-core/internal/domain"
	"github.com/zaveorah/zaveorah-core/internal/sales"
	"github.com/zaveorah/zaveorah-core/internal/store"
	"github.com/zaveorah/zaveorah-core/pkg/clock"
	"github.com/zaveorah/zaveorah-core/pkg/logger"
	"github.com/zaveorah/zaveorah-core/pkg/testutil"
)

var testTime = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*sales.Service, *store.Store, string) {
	t.Helper()
	st := testutil.NewStore(t, clock.Fixed(testTime))
	businessID := testutil.RegisterBusiness(t, st, "Kai Bar")
	manager := testutil.LoginOwner(t, st, clock.Fixed(testTime), businessID)
	svc := sales.NewService(st, manager.Session(), clock.Fixed(testTime), logger.NewNop())
	return svc, st, businessID
}

func TestAddSaleCash(t *testing.T) {
	svc, st, businessID := newService(t)

	require.True(t, svc.AddSale(sales.SaleInput{
		CustomerName:  "Walk-in",
		Amount:        35,
		PaymentMethod: domain.PaymentCash,
	}))

	data := st.BusinessData(businessID)
	require.Len(t, data.Sales, 1)
	sale := data.Sales[0]
	assert.Equal(t, "2025-06-02", sale.Date)
	assert.Equal(t, 35.0, sale.Amount)
	assert.Equal(t, "Ama", sale.CreatedBy)
	assert.Empty(t, data.Invoices)
}

func TestAddSaleCreditRaisesInvoice(t *testing.T) {
	svc, st, businessID := newService(t)
	require.True(t, st.Update(businessID, func(d *domain.BusinessData) {
		d.Customers = append(d.Customers, domain.Customer{
			ID:   "cust-1",
			Kind: domain.KindCustomer,
			Name: "Kofi Mensah",
		})
	}))

	require.True(t, svc.AddSale(sales.SaleInput{
		CustomerName:  "Kofi Mensah",
		Amount:        120,
		PaymentMethod: domain.PaymentCredit,
	}))

	data := st.BusinessData(businessID)
	require.Len(t, data.Invoices, 1)
	inv := data.Invoices[0]
	assert.Equal(t, "2025-001", inv.InvoiceNumber)
	assert.Equal(t, "cust-1", inv.CustomerID)
	assert.Equal(t, "2025-06-02", inv.IssueDate)
	assert.Equal(t, "2025-06-16", inv.DueDate)
	assert.Equal(t, 120.0, inv.Total)
	assert.Equal(t, domain.InvoiceSent, inv.Status)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, "Credit sale", inv.Items[0].Description)
	assert.Equal(t, "Thank you for your business.", inv.Notes)
}

func TestAddSaleCreditUnknownCustomer(t *testing.T) {
	svc, st, businessID := newService(t)

	require.True(t, svc.AddSale(sales.SaleInput{
		CustomerName:  "Nobody",
		Amount:        50,
		PaymentMethod: domain.PaymentCredit,
	}))

	data := st.BusinessData(businessID)
	assert.Len(t, data.Sales, 1)
	assert.Empty(t, data.Invoices)
}

func TestAddSaleValidation(t *testing.T) {
	svc, st, businessID := newService(t)

	assert.False(t, svc.AddSale(sales.SaleInput{CustomerName: "", Amount: 10, PaymentMethod: domain.PaymentCash}))
	assert.False(t, svc.AddSale(sales.SaleInput{CustomerName: "X", Amount: 0, PaymentMethod: domain.PaymentCash}))
	assert.False(t, svc.AddSale(sales.SaleInput{CustomerName: "X", Amount: 10, PaymentMethod: "cheque"}))
	assert.Empty(t, st.BusinessData(businessID).Sales)
}

func TestAddSaleWithoutLogin(t *testing.T) {
	st := testutil.NewStore(t, clock.Fixed(testTime))
	testutil.RegisterBusiness(t, st, "Kai Bar")
	manager := auth.NewManager(st, clock.Fixed(testTime), nil, logger.NewNop())
	svc := sales.NewService(st, manager.Session(), clock.Fixed(testTime), logger.NewNop())

	assert.False(t, svc.AddSale(sales.SaleInput{
		CustomerName:  "X",
		Amount:        10,
		PaymentMethod: domain.PaymentCash,
	}))
}

func TestAddExpense(t *testing.T) {
	svc, st, businessID := newService(t)

	require.True(t, svc.AddExpense(sales.ExpenseInput{Category: domain.ExpenseFuel, Amount: 40, Receipt: "r-1"}))
	assert.False(t, svc.AddExpense(sales.ExpenseInput{Category: "bribes", Amount: 40}))

	data := st.BusinessData(businessID)
	require.Len(t, data.Expenses, 1)
	assert.Equal(t, domain.ExpenseFuel, data.Expenses[0].Category)
}

func TestAddProduct(t *testing.T) {
	svc, st, businessID := newService(t)

	require.True(t, svc.AddProduct(sales.ProductInput{Name: "Cola", Stock: 3, AlertLevel: 5, SellingPrice: 4}))

	data := st.BusinessData(businessID)
	require.Len(t, data.Products, 1)
	assert.Equal(t, domain.StockLow, data.Products[0].Status())
}

func TestAddInvoiceNumberingSequence(t *testing.T) {
	svc, st, businessID := newService(t)

	for i := 0; i < 3; i++ {
		require.True(t, svc.AddInvoice(sales.InvoiceInput{
			CustomerName: "Kofi Mensah",
			DueDate:      "2025-07-01",
			Items:        []domain.InvoiceItem{{Description: "Crates", Quantity: 2, UnitPrice: 50}},
		}))
	}

	data := st.BusinessData(businessID)
	require.Len(t, data.Invoices, 3)
	// Newest first; numbers were assigned in creation order.
	for i, want := range []string{"2025-003", "2025-002", "2025-001"} {
		assert.Equal(t, want, data.Invoices[i].InvoiceNumber, fmt.Sprintf("invoice %d", i))
		assert.Equal(t, 100.0, data.Invoices[i].Total)
		assert.Equal(t, domain.InvoiceSent, data.Invoices[i].Status)
	}
}

func TestAddInvoiceOverdueOnCreation(t *testing.T) {
	svc, st, businessID := newService(t)

	require.True(t, svc.AddInvoice(sales.InvoiceInput{
		CustomerName: "Kofi Mensah",
		IssueDate:    "2025-05-01",
		DueDate:      "2025-05-15",
		Items:        []domain.InvoiceItem{{Description: "Crates", Quantity: 1, UnitPrice: 80}},
	}))

	data := st.BusinessData(businessID)
	require.Len(t, data.Invoices, 1)
	assert.Equal(t, domain.InvoiceOverdue, data.Invoices[0].Status)
}

func TestAddInvoiceValidation(t *testing.T) {
	svc, _, _ := newService(t)

	assert.False(t, svc.AddInvoice(sales.InvoiceInput{CustomerName: "X", DueDate: "2025-07-01"}))
	assert.False(t, svc.AddInvoice(sales.InvoiceInput{
		CustomerName: "X",
		DueDate:      "15/07/2025",
		Items:        []domain.InvoiceItem{{Description: "Crates", Quantity: 1, UnitPrice: 80}},
	}))
}
