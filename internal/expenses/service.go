package expenses

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ukydev/fleet-ops-ledger/internal/db"
	"github.com/ukydev/fleet-ops-ledger/internal/faults"
	"github.com/ukydev/fleet-ops-ledger/internal/models"
	"github.com/ukydev/fleet-ops-ledger/internal/statemachine"
)

// Workflow is the expense approval table: a pending expense is decided
// exactly once, into approved or rejected.
var Workflow = statemachine.New("expense", map[models.ExpenseStatus][]models.ExpenseStatus{
	models.ExpensePending: {models.ExpenseApproved, models.ExpenseRejected},
})

// Service owns the expense approval workflow.
type Service struct {
	expenses db.ExpenseCollection
	trips    db.TripCollection
}

// NewService creates an expense service.
func NewService(expenses db.ExpenseCollection, trips db.TripCollection) *Service {
	return &Service{expenses: expenses, trips: trips}
}

// CreateInput carries the fields for a new expense record.
type CreateInput struct {
	Type        models.ExpenseType
	Date        time.Time
	Description string
	Amount      float64
	TripID      string
	VehicleID   string
	DriverID    string
	Vendor      string
	ReceiptRef  string
}

// Create records a pending expense. Optional links are carried through
// unchanged; a trip link is checked for existence within the company.
func (s *Service) Create(ctx context.Context, companyID string, in CreateInput) (*models.Expense, error) {
	if !models.IsValidExpenseType(in.Type) {
		return nil, faults.Invalid("type", "unknown expense type")
	}
	if in.Amount <= 0 {
		return nil, faults.Invalid("amount", "must be positive")
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, faults.Invalid("description", "required")
	}
	if in.Date.IsZero() {
		return nil, faults.Invalid("date", "required")
	}
	if in.TripID != "" {
		if _, err := s.trips.FindTripByID(ctx, companyID, in.TripID); err != nil {
			return nil, err
		}
	}

	expense := models.Expense{
		CompanyID:   companyID,
		Type:        in.Type,
		Date:        in.Date,
		Description: strings.TrimSpace(in.Description),
		Amount:      in.Amount,
		TripID:      in.TripID,
		VehicleID:   in.VehicleID,
		DriverID:    in.DriverID,
		Vendor:      in.Vendor,
		ReceiptRef:  in.ReceiptRef,
		Status:      models.ExpensePending,
	}

	id, err := s.expenses.InsertExpense(ctx, expense)
	if err != nil {
		return nil, err
	}
	return s.expenses.FindExpenseByID(ctx, companyID, id)
}

// Approve stamps the approver on a pending expense. A decided expense cannot
// be decided again.
func (s *Service) Approve(ctx context.Context, companyID, id, actor string) (*models.Expense, error) {
	return s.decide(ctx, companyID, id, models.ExpenseApproved, actor, "")
}

// Reject stamps the rejection and its reason on a pending expense. The
// reason is mandatory.
func (s *Service) Reject(ctx context.Context, companyID, id, actor, reason string) (*models.Expense, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, faults.Invalid("reason", "required when rejecting")
	}
	return s.decide(ctx, companyID, id, models.ExpenseRejected, actor, strings.TrimSpace(reason))
}

func (s *Service) decide(ctx context.Context, companyID, id string, to models.ExpenseStatus, actor, reason string) (*models.Expense, error) {
	expense, err := s.expenses.FindExpenseByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if Workflow.Terminal(expense.Status) {
		return nil, faults.ErrAlreadyDecided
	}
	if err := Workflow.Check(expense.Status, to); err != nil {
		return nil, err
	}

	updated, err := s.expenses.DecideExpense(ctx, companyID, id, to, actor, reason, time.Now())
	if err != nil {
		if errors.Is(err, faults.ErrNotFound) {
			current, rerr := s.expenses.FindExpenseByID(ctx, companyID, id)
			if rerr != nil {
				return nil, rerr
			}
			if Workflow.Terminal(current.Status) {
				return nil, faults.ErrAlreadyDecided
			}
		}
		return nil, err
	}
	return updated, nil
}

// Get returns an expense by id.
func (s *Service) Get(ctx context.Context, companyID, id string) (*models.Expense, error) {
	return s.expenses.FindExpenseByID(ctx, companyID, id)
}

// ListByTrip returns the expenses linked to a trip.
func (s *Service) ListByTrip(ctx context.Context, companyID, tripID string) ([]models.Expense, error) {
	return s.expenses.FindExpensesByTrip(ctx, companyID, tripID)
}

// List returns company expenses, optionally narrowed by status and window.
func (s *Service) List(ctx context.Context, companyID string, status models.ExpenseStatus, from, to *time.Time) ([]models.Expense, error) {
	return s.expenses.FindExpenses(ctx, companyID, status, from, to)
}
