package trips

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ukydev/fleet-ops-ledger/internal/db"
	"github.com/ukydev/fleet-ops-ledger/internal/faults"
	"github.com/ukydev/fleet-ops-ledger/internal/fuel"
	"github.com/ukydev/fleet-ops-ledger/internal/models"
	"github.com/ukydev/fleet-ops-ledger/internal/statemachine"
)

// Lifecycle is the trip transition table. The forward path advances one step
// at a time; cancelled is reachable from any non-terminal state.
var Lifecycle = statemachine.New("trip", map[models.TripStatus][]models.TripStatus{
	models.TripPlanned:   {models.TripLoading, models.TripCancelled},
	models.TripLoading:   {models.TripInTransit, models.TripCancelled},
	models.TripInTransit: {models.TripDelivered, models.TripCancelled},
	models.TripDelivered: {models.TripCompleted, models.TripCancelled},
})

// Service owns the trip lifecycle: deployment, status transitions, progress
// updates and on-demand fuel allocation.
type Service struct {
	trips    db.TripCollection
	vehicles db.VehicleCollection
	drivers  db.DriverCollection
	clients  db.ClientCollection
}

// NewService creates a trip service.
func NewService(trips db.TripCollection, vehicles db.VehicleCollection, drivers db.DriverCollection, clients db.ClientCollection) *Service {
	return &Service{trips: trips, vehicles: vehicles, drivers: drivers, clients: clients}
}

// DeployInput carries the deployment fields for a new or still-planned trip.
type DeployInput struct {
	Reference     string
	Origin        string
	Destination   string
	DistanceKM    float64
	VehicleID     string
	DriverID      string
	ClientID      string
	DepartureDate time.Time
	ETA           *time.Time
	Rate          float64
	Tonnage       float64
	CargoDesc     string
	LoadStatus    models.LoadStatus
}

// Deploy creates a trip in planned state. When the selected vehicle has a
// standing driver assignment, that driver wins over any explicitly chosen
// one; the precedence is enforced here, not left to the UI.
func (s *Service) Deploy(ctx context.Context, companyID string, in DeployInput) (*models.Trip, error) {
	resolved, err := s.resolveDeployment(ctx, companyID, &in)
	if err != nil {
		return nil, err
	}

	reference := strings.TrimSpace(in.Reference)
	if reference == "" {
		reference = "TRP-" + strings.ToUpper(uuid.NewString()[:8])
	}

	trip := models.Trip{
		CompanyID:     companyID,
		Reference:     reference,
		Origin:        strings.TrimSpace(in.Origin),
		Destination:   strings.TrimSpace(in.Destination),
		DistanceKM:    in.DistanceKM,
		VehicleID:     in.VehicleID,
		DriverID:      resolved,
		ClientID:      in.ClientID,
		DepartureDate: in.DepartureDate,
		ETA:           in.ETA,
		Rate:          in.Rate,
		Tonnage:       in.Tonnage,
		CargoDesc:     in.CargoDesc,
		LoadStatus:    in.LoadStatus,
		Status:        models.TripPlanned,
	}

	id, err := s.trips.InsertTrip(ctx, trip)
	if err != nil {
		return nil, err
	}
	return s.trips.FindTripByID(ctx, companyID, id)
}

// EditDeployment re-applies the deployment fields to a trip that is still
// planned. Trips past planned cannot be redeployed.
func (s *Service) EditDeployment(ctx context.Context, companyID, id string, in DeployInput) (*models.Trip, error) {
	trip, err := s.trips.FindTripByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if trip.Status != models.TripPlanned {
		return nil, faults.Invalid("status", "trip can only be edited while planned")
	}

	resolved, err := s.resolveDeployment(ctx, companyID, &in)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"origin":         strings.TrimSpace(in.Origin),
		"destination":    strings.TrimSpace(in.Destination),
		"distance_km":    in.DistanceKM,
		"vehicle_id":     in.VehicleID,
		"driver_id":      resolved,
		"client_id":      in.ClientID,
		"departure_date": in.DepartureDate,
		"eta":            in.ETA,
		"rate":           in.Rate,
		"tonnage":        in.Tonnage,
		"cargo_desc":     in.CargoDesc,
		"load_status":    in.LoadStatus,
	}
	if err := s.trips.UpdateTripFields(ctx, companyID, id, fields); err != nil {
		return nil, err
	}
	return s.trips.FindTripByID(ctx, companyID, id)
}

// resolveDeployment validates the deployment fields and returns the driver
// id after applying the standing-assignment precedence rule.
func (s *Service) resolveDeployment(ctx context.Context, companyID string, in *DeployInput) (string, error) {
	if strings.TrimSpace(in.Origin) == "" {
		return "", faults.Invalid("origin", "required")
	}
	if strings.TrimSpace(in.Destination) == "" {
		return "", faults.Invalid("destination", "required")
	}
	if in.LoadStatus == "" {
		in.LoadStatus = models.Loaded
	}
	if in.LoadStatus != models.Loaded && in.LoadStatus != models.Empty {
		return "", faults.Invalid("load_status", "must be loaded or empty")
	}
	if in.DistanceKM < 0 {
		return "", faults.Invalid("distance_km", "must be non-negative")
	}
	if in.DepartureDate.IsZero() {
		return "", faults.Invalid("departure_date", "required")
	}

	driverID := in.DriverID
	if in.VehicleID != "" {
		vehicle, err := s.vehicles.FindVehicleByID(ctx, companyID, in.VehicleID)
		if err != nil {
			return "", err
		}
		// Standing assignment always wins over a manual driver choice.
		if vehicle.DriverID != "" {
			driverID = vehicle.DriverID
		}
	}
	if driverID != "" {
		if _, err := s.drivers.FindDriverByID(ctx, companyID, driverID); err != nil {
			return "", err
		}
	}
	if in.ClientID != "" {
		if _, err := s.clients.FindClientByID(ctx, companyID, in.ClientID); err != nil {
			return "", err
		}
	}
	return driverID, nil
}

// Transition moves a trip to the target status. Completion stamps
// completed_at; entering in_transit resets progress to zero. The write is a
// compare-and-swap pinned on the current status, so concurrent transitions
// are serialized.
func (s *Service) Transition(ctx context.Context, companyID, id string, to models.TripStatus) (*models.Trip, error) {
	trip, err := s.trips.FindTripByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := Lifecycle.Check(trip.Status, to); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	switch to {
	case models.TripCompleted:
		fields["completed_at"] = time.Now()
	case models.TripInTransit:
		fields["progress_percent"] = 0.0
	}

	updated, err := s.trips.TransitionTrip(ctx, companyID, id, trip.Status, to, fields)
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, faults.ErrNotFound) {
		return nil, err
	}
	// The swap missed: another request moved the trip first. Re-read and
	// report against the fresh status.
	current, rerr := s.trips.FindTripByID(ctx, companyID, id)
	if rerr != nil {
		return nil, rerr
	}
	return nil, &faults.TransitionError{Entity: "trip", From: string(current.Status), To: string(to)}
}

// UpdateProgress sets the trip's progress percent, clamped to [0,100]. Only
// trips in transit accept progress updates.
func (s *Service) UpdateProgress(ctx context.Context, companyID, id string, percent float64) error {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	err := s.trips.UpdateProgress(ctx, companyID, id, percent)
	if err == nil {
		return nil
	}
	if !errors.Is(err, faults.ErrNotFound) {
		return err
	}
	trip, rerr := s.trips.FindTripByID(ctx, companyID, id)
	if rerr != nil {
		return rerr
	}
	return &faults.TransitionError{Entity: "trip", From: string(trip.Status), To: string(models.TripInTransit)}
}

// AllocateFuel runs the fuel calculator for the trip and overwrites the
// stored allocation. The calculator is an assist: the result can still be
// edited manually afterwards via SetFuelAllocated.
func (s *Service) AllocateFuel(ctx context.Context, companyID, id string, uncertaintyLiters float64) (fuel.Allocation, error) {
	trip, err := s.trips.FindTripByID(ctx, companyID, id)
	if err != nil {
		return fuel.Allocation{}, err
	}
	if trip.DistanceKM <= 0 {
		return fuel.Allocation{}, faults.Invalid("distance_km", "must be positive to allocate fuel")
	}

	var vehicle *models.Vehicle
	if trip.VehicleID != "" {
		vehicle, err = s.vehicles.FindVehicleByID(ctx, companyID, trip.VehicleID)
		if err != nil {
			return fuel.Allocation{}, err
		}
	}

	alloc, err := fuel.Allocate(trip.DistanceKM, trip.LoadStatus, vehicle, uncertaintyLiters)
	if err != nil {
		return fuel.Allocation{}, err
	}
	if err := s.trips.UpdateTripFields(ctx, companyID, id, map[string]interface{}{
		"fuel_allocated": alloc.Liters,
	}); err != nil {
		return fuel.Allocation{}, err
	}
	return alloc, nil
}

// SetFuelAllocated manually overrides the stored fuel allocation.
func (s *Service) SetFuelAllocated(ctx context.Context, companyID, id string, liters float64) error {
	if liters < 0 {
		return faults.Invalid("fuel_allocated", "must be non-negative")
	}
	return s.trips.UpdateTripFields(ctx, companyID, id, map[string]interface{}{
		"fuel_allocated": liters,
	})
}

// Get returns a trip by id.
func (s *Service) Get(ctx context.Context, companyID, id string) (*models.Trip, error) {
	return s.trips.FindTripByID(ctx, companyID, id)
}

// List returns company trips matching the filter.
func (s *Service) List(ctx context.Context, companyID string, filter db.TripFilter) ([]models.Trip, error) {
	return s.trips.FindTrips(ctx, companyID, filter)
}
