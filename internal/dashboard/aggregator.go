package dashboard

import (
	"context"
	"time"

	"github.com/ukydev/fleet-ops-ledger/internal/db"
	"github.com/ukydev/fleet-ops-ledger/internal/models"
)

// Summary is the tenant-scoped rollup the dashboard renders. Monthly figures
// cover the calendar month containing the reference instant.
type Summary struct {
	ActiveVehicles  int64   `json:"active_vehicles"`
	ActiveTrips     int64   `json:"active_trips"`
	PendingExpenses int64   `json:"pending_expenses"`
	OverdueInvoices int64   `json:"overdue_invoices"`
	Receivables     float64 `json:"receivables"`
	MonthlyRevenue  float64 `json:"monthly_revenue"`
	MonthlyCost     float64 `json:"monthly_cost"`
	MonthlyProfit   float64 `json:"monthly_profit"`
}

// Aggregator produces read-only summaries over the ledger. It performs no
// writes.
type Aggregator struct {
	trips    db.TripCollection
	vehicles db.VehicleCollection
	expenses db.ExpenseCollection
	invoices db.InvoiceCollection
}

// NewAggregator creates a dashboard aggregator.
func NewAggregator(trips db.TripCollection, vehicles db.VehicleCollection, expenses db.ExpenseCollection, invoices db.InvoiceCollection) *Aggregator {
	return &Aggregator{trips: trips, vehicles: vehicles, expenses: expenses, invoices: invoices}
}

// Summarize computes the rollup for a company as of now. Active trips are
// those not yet completed or cancelled. Receivables cover sent and partial
// invoices, including the ones derived overdue.
func (a *Aggregator) Summarize(ctx context.Context, companyID string, now time.Time) (*Summary, error) {
	summary := &Summary{}

	vehicles, err := a.vehicles.CountActiveVehicles(ctx, companyID)
	if err != nil {
		return nil, err
	}
	summary.ActiveVehicles = vehicles

	trips, err := a.trips.CountTripsByStatus(ctx, companyID,
		models.TripPlanned, models.TripLoading, models.TripInTransit, models.TripDelivered)
	if err != nil {
		return nil, err
	}
	summary.ActiveTrips = trips

	pending, err := a.expenses.CountPendingExpenses(ctx, companyID)
	if err != nil {
		return nil, err
	}
	summary.PendingExpenses = pending

	unpaid, err := a.invoices.FindInvoicesByStatus(ctx, companyID,
		models.InvoiceSent, models.InvoicePartial)
	if err != nil {
		return nil, err
	}
	for _, inv := range unpaid {
		summary.Receivables += inv.TotalAmount
		if inv.EffectiveStatus(now) == models.InvoiceOverdue {
			summary.OverdueInvoices++
		}
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	paid, err := a.invoices.FindInvoicesByStatus(ctx, companyID, models.InvoicePaid)
	if err != nil {
		return nil, err
	}
	for _, inv := range paid {
		if inv.PaidAt != nil && !inv.PaidAt.Before(monthStart) && inv.PaidAt.Before(monthEnd) {
			summary.MonthlyRevenue += inv.TotalAmount
		}
	}

	lastOfMonth := monthEnd.Add(-time.Nanosecond)
	approved, err := a.expenses.FindExpenses(ctx, companyID, models.ExpenseApproved, &monthStart, &lastOfMonth)
	if err != nil {
		return nil, err
	}
	for _, exp := range approved {
		summary.MonthlyCost += exp.Amount
	}

	summary.MonthlyProfit = summary.MonthlyRevenue - summary.MonthlyCost
	return summary, nil
}
