package bookouts

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ukydev/fleet-ops-ledger/internal/db"
	"github.com/ukydev/fleet-ops-ledger/internal/faults"
	"github.com/ukydev/fleet-ops-ledger/internal/ledger"
	"github.com/ukydev/fleet-ops-ledger/internal/models"
)

// Service owns cash bookouts: issuing a trip advance to a driver and the
// one-shot reconciliation against spend and returned cash.
type Service struct {
	bookouts db.BookoutCollection
	trips    db.TripCollection
	drivers  db.DriverCollection
	ledger   *ledger.Service
}

// NewService creates a bookout service.
func NewService(bookouts db.BookoutCollection, trips db.TripCollection, drivers db.DriverCollection, ledgerSvc *ledger.Service) *Service {
	return &Service{bookouts: bookouts, trips: trips, drivers: drivers, ledger: ledgerSvc}
}

// CreateInput carries the fields for a new bookout.
type CreateInput struct {
	TripID    string
	DriverID  string
	VehicleID string
	Date      time.Time
	Items     models.BookoutItems
	Operator  string
	Notes     string
}

// Create issues a bookout against an existing trip. The driver defaults from
// the trip's assignment; every itemized amount must be non-negative and at
// least one category must be funded.
func (s *Service) Create(ctx context.Context, companyID string, in CreateInput) (*models.Bookout, error) {
	if in.TripID == "" {
		return nil, faults.Invalid("trip_id", "required")
	}
	trip, err := s.trips.FindTripByID(ctx, companyID, in.TripID)
	if err != nil {
		return nil, err
	}
	if in.Date.IsZero() {
		return nil, faults.Invalid("date", "required")
	}
	if err := validateItems(in.Items); err != nil {
		return nil, err
	}
	total := in.Items.Sum()
	if total <= 0 {
		return nil, faults.Invalid("items", "at least one category must be funded")
	}

	driverID := in.DriverID
	if driverID == "" {
		driverID = trip.DriverID
	}
	if driverID == "" {
		return nil, faults.Invalid("driver_id", "required when the trip has no assigned driver")
	}
	if _, err := s.drivers.FindDriverByID(ctx, companyID, driverID); err != nil {
		return nil, err
	}

	vehicleID := in.VehicleID
	if vehicleID == "" {
		vehicleID = trip.VehicleID
	}

	bookout := models.Bookout{
		CompanyID:      companyID,
		Reference:      "BKO-" + strings.ToUpper(uuid.NewString()[:8]),
		TripID:         in.TripID,
		DriverID:       driverID,
		VehicleID:      vehicleID,
		Date:           in.Date,
		Items:          in.Items,
		TotalCashGiven: total,
		Status:         models.BookoutPending,
		Operator:       in.Operator,
		Notes:          in.Notes,
	}

	id, err := s.bookouts.InsertBookout(ctx, bookout)
	if err != nil {
		return nil, err
	}
	return s.bookouts.FindBookoutByID(ctx, companyID, id)
}

func validateItems(items models.BookoutItems) error {
	checks := []struct {
		field  string
		amount float64
	}{
		{"items.food", items.Food},
		{"items.accommodation", items.Accommodation},
		{"items.tolls", items.Tolls},
		{"items.border_fees", items.BorderFees},
		{"items.emergency_fund", items.EmergencyFund},
		{"items.airtime", items.Airtime},
		{"items.other", items.Other},
	}
	for _, c := range checks {
		if c.amount < 0 {
			return faults.Invalid(c.field, "must be non-negative")
		}
	}
	return nil
}

// Reconcile records spend and returned cash against a pending bookout and
// computes the signed variance:
//
//	variance = total_cash_given - amount_spent - amount_returned
//
// Positive variance is unaccounted cash; negative means more was accounted
// for than issued. The value is surfaced as-is for human review, never
// clamped. A bookout reconciles at most once.
func (s *Service) Reconcile(ctx context.Context, companyID, id string, spent, returned float64, actor string) (*models.Bookout, error) {
	if spent < 0 {
		return nil, faults.Invalid("amount_spent", "must be non-negative")
	}
	if returned < 0 {
		return nil, faults.Invalid("amount_returned", "must be non-negative")
	}

	bookout, err := s.bookouts.FindBookoutByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if bookout.Status == models.BookoutReconciled {
		return nil, faults.ErrAlreadyReconciled
	}

	variance := bookout.TotalCashGiven - spent - returned
	updated, err := s.bookouts.ReconcileBookout(ctx, companyID, id, spent, returned, variance, actor, time.Now())
	if err != nil {
		if errors.Is(err, faults.ErrNotFound) {
			// The swap missed the pending document: either it vanished or a
			// concurrent reconcile won. Re-read to tell the two apart.
			current, rerr := s.bookouts.FindBookoutByID(ctx, companyID, id)
			if rerr != nil {
				return nil, rerr
			}
			if current.Status == models.BookoutReconciled {
				return nil, faults.ErrAlreadyReconciled
			}
		}
		return nil, err
	}

	s.ledger.StampBookoutReconciled(ctx, updated)
	return updated, nil
}

// Get returns a bookout by id.
func (s *Service) Get(ctx context.Context, companyID, id string) (*models.Bookout, error) {
	return s.bookouts.FindBookoutByID(ctx, companyID, id)
}

// ListByTrip returns the bookouts issued against a trip.
func (s *Service) ListByTrip(ctx context.Context, companyID, tripID string) ([]models.Bookout, error) {
	return s.bookouts.FindBookoutsByTrip(ctx, companyID, tripID)
}
