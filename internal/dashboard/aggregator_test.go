package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukydev/fleet-ops-ledger/internal/db/dbtest"
	"github.com/ukydev/fleet-ops-ledger/internal/models"
)

const testCompany = "acme-haulage"

func TestSummarize(t *testing.T) {
	trips := dbtest.NewTripStore()
	vehicles := dbtest.NewVehicleStore()
	expenses := dbtest.NewExpenseStore()
	invoices := dbtest.NewInvoiceStore()
	agg := NewAggregator(trips, vehicles, expenses, invoices)

	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	vehicles.Seed(models.Vehicle{CompanyID: testCompany, Status: "active"})
	vehicles.Seed(models.Vehicle{CompanyID: testCompany, Status: "active"})
	vehicles.Seed(models.Vehicle{CompanyID: testCompany, Status: "inactive"})
	vehicles.Seed(models.Vehicle{CompanyID: "someone-else", Status: "active"})

	// Everything short of completed/cancelled counts as active.
	trips.Seed(models.Trip{CompanyID: testCompany, Status: models.TripPlanned})
	trips.Seed(models.Trip{CompanyID: testCompany, Status: models.TripInTransit})
	trips.Seed(models.Trip{CompanyID: testCompany, Status: models.TripDelivered})
	trips.Seed(models.Trip{CompanyID: testCompany, Status: models.TripCompleted})
	trips.Seed(models.Trip{CompanyID: testCompany, Status: models.TripCancelled})

	expenses.Seed(models.Expense{CompanyID: testCompany, Status: models.ExpensePending, Amount: 50, Date: now})
	expenses.Seed(models.Expense{CompanyID: testCompany, Status: models.ExpensePending, Amount: 70, Date: now})
	// Approved in-month counts toward cost; pending and out-of-month do not.
	expenses.Seed(models.Expense{CompanyID: testCompany, Status: models.ExpenseApproved, Amount: 400, Date: now.AddDate(0, 0, -3)})
	expenses.Seed(models.Expense{CompanyID: testCompany, Status: models.ExpenseApproved, Amount: 999, Date: now.AddDate(0, -2, 0)})

	invoices.Seed(models.Invoice{
		CompanyID: testCompany, Status: models.InvoiceSent,
		TotalAmount: 1000, DueDate: now.AddDate(0, 0, 10),
	})
	invoices.Seed(models.Invoice{
		CompanyID: testCompany, Status: models.InvoiceSent,
		TotalAmount: 500, DueDate: now.AddDate(0, 0, -2), // derived overdue
	})
	invoices.Seed(models.Invoice{
		CompanyID: testCompany, Status: models.InvoicePartial,
		TotalAmount: 300, DueDate: now.AddDate(0, 0, -30),
	})
	paidAt := now.AddDate(0, 0, -5)
	invoices.Seed(models.Invoice{
		CompanyID: testCompany, Status: models.InvoicePaid,
		TotalAmount: 2000, PaidAt: &paidAt,
	})
	earlier := now.AddDate(0, -1, 0)
	invoices.Seed(models.Invoice{
		CompanyID: testCompany, Status: models.InvoicePaid,
		TotalAmount: 750, PaidAt: &earlier, // previous month
	})

	summary, err := agg.Summarize(context.Background(), testCompany, now)
	require.NoError(t, err)

	assert.Equal(t, int64(2), summary.ActiveVehicles)
	assert.Equal(t, int64(3), summary.ActiveTrips)
	assert.Equal(t, int64(2), summary.PendingExpenses)
	assert.Equal(t, int64(1), summary.OverdueInvoices)
	assert.Equal(t, 1800.0, summary.Receivables)
	assert.Equal(t, 2000.0, summary.MonthlyRevenue)
	assert.Equal(t, 400.0, summary.MonthlyCost)
	assert.Equal(t, 1600.0, summary.MonthlyProfit)
}

func TestSummarize_EmptyCompany(t *testing.T) {
	agg := NewAggregator(dbtest.NewTripStore(), dbtest.NewVehicleStore(),
		dbtest.NewExpenseStore(), dbtest.NewInvoiceStore())

	summary, err := agg.Summarize(context.Background(), testCompany, time.Now())
	require.NoError(t, err)

	assert.Zero(t, summary.ActiveTrips)
	assert.Zero(t, summary.Receivables)
	assert.Zero(t, summary.MonthlyProfit)
}
