package trips

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukydev/fleet-ops-ledger/internal/db"
	"github.com/ukydev/fleet-ops-ledger/internal/db/dbtest"
	"github.com/ukydev/fleet-ops-ledger/internal/faults"
	"github.com/ukydev/fleet-ops-ledger/internal/models"
)

const testCompany = "acme-haulage"

type fixture struct {
	trips    *dbtest.TripStore
	vehicles *dbtest.VehicleStore
	drivers  *dbtest.DriverStore
	clients  *dbtest.ClientStore
	service  *Service
}

func newFixture() *fixture {
	f := &fixture{
		trips:    dbtest.NewTripStore(),
		vehicles: dbtest.NewVehicleStore(),
		drivers:  dbtest.NewDriverStore(),
		clients:  dbtest.NewClientStore(),
	}
	f.service = NewService(f.trips, f.vehicles, f.drivers, f.clients)
	return f
}

func validInput() DeployInput {
	return DeployInput{
		Origin:        "Harare",
		Destination:   "Beira",
		DistanceKM:    560,
		DepartureDate: time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC),
		Rate:          1800,
	}
}

func TestDeploy_StartsPlanned(t *testing.T) {
	f := newFixture()

	trip, err := f.service.Deploy(context.Background(), testCompany, validInput())
	require.NoError(t, err)

	assert.Equal(t, models.TripPlanned, trip.Status)
	assert.Equal(t, models.Loaded, trip.LoadStatus) // default
	assert.NotEmpty(t, trip.Reference)
	assert.Equal(t, testCompany, trip.CompanyID)
}

func TestDeploy_RequiredFields(t *testing.T) {
	f := newFixture()

	in := validInput()
	in.Origin = "  "
	_, err := f.service.Deploy(context.Background(), testCompany, in)
	assert.ErrorIs(t, err, faults.ErrValidation)

	in = validInput()
	in.Destination = ""
	_, err = f.service.Deploy(context.Background(), testCompany, in)
	assert.ErrorIs(t, err, faults.ErrValidation)

	in = validInput()
	in.DepartureDate = time.Time{}
	_, err = f.service.Deploy(context.Background(), testCompany, in)
	assert.ErrorIs(t, err, faults.ErrValidation)

	in = validInput()
	in.DistanceKM = -10
	_, err = f.service.Deploy(context.Background(), testCompany, in)
	assert.ErrorIs(t, err, faults.ErrValidation)

	in = validInput()
	in.LoadStatus = "overloaded"
	_, err = f.service.Deploy(context.Background(), testCompany, in)
	assert.ErrorIs(t, err, faults.ErrValidation)
}

func TestDeploy_StandingAssignmentWins(t *testing.T) {
	f := newFixture()
	standing := f.drivers.Seed(models.Driver{CompanyID: testCompany, FirstName: "T", LastName: "Moyo"})
	manual := f.drivers.Seed(models.Driver{CompanyID: testCompany, FirstName: "B", LastName: "Ncube"})
	vehicleID := f.vehicles.Seed(models.Vehicle{CompanyID: testCompany, DriverID: standing})

	in := validInput()
	in.VehicleID = vehicleID
	in.DriverID = manual

	trip, err := f.service.Deploy(context.Background(), testCompany, in)
	require.NoError(t, err)
	assert.Equal(t, standing, trip.DriverID)
}

func TestDeploy_ManualDriverWhenNoStandingAssignment(t *testing.T) {
	f := newFixture()
	manual := f.drivers.Seed(models.Driver{CompanyID: testCompany})
	vehicleID := f.vehicles.Seed(models.Vehicle{CompanyID: testCompany})

	in := validInput()
	in.VehicleID = vehicleID
	in.DriverID = manual

	trip, err := f.service.Deploy(context.Background(), testCompany, in)
	require.NoError(t, err)
	assert.Equal(t, manual, trip.DriverID)
}

func TestDeploy_UnknownDriverRejected(t *testing.T) {
	f := newFixture()
	otherCompany := f.drivers.Seed(models.Driver{CompanyID: "someone-else"})

	in := validInput()
	in.DriverID = otherCompany

	_, err := f.service.Deploy(context.Background(), testCompany, in)
	assert.ErrorIs(t, err, faults.ErrNotFound)
}

func TestEditDeployment_OnlyWhilePlanned(t *testing.T) {
	f := newFixture()
	id := f.trips.Seed(models.Trip{
		CompanyID: testCompany, Origin: "Harare", Destination: "Beira",
		DepartureDate: time.Now(), Status: models.TripLoading,
	})

	_, err := f.service.EditDeployment(context.Background(), testCompany, id, validInput())
	assert.ErrorIs(t, err, faults.ErrValidation)
}

func TestEditDeployment_RewritesPlannedTrip(t *testing.T) {
	f := newFixture()
	trip, err := f.service.Deploy(context.Background(), testCompany, validInput())
	require.NoError(t, err)

	in := validInput()
	in.Destination = "Durban"
	in.DistanceKM = 1700

	updated, err := f.service.EditDeployment(context.Background(), testCompany, trip.ID.Hex(), in)
	require.NoError(t, err)
	assert.Equal(t, "Durban", updated.Destination)
	assert.Equal(t, 1700.0, updated.DistanceKM)
	assert.Equal(t, models.TripPlanned, updated.Status)
}

func TestTransition_ForwardPath(t *testing.T) {
	f := newFixture()
	trip, err := f.service.Deploy(context.Background(), testCompany, validInput())
	require.NoError(t, err)
	id := trip.ID.Hex()

	for _, next := range []models.TripStatus{
		models.TripLoading, models.TripInTransit, models.TripDelivered, models.TripCompleted,
	} {
		trip, err = f.service.Transition(context.Background(), testCompany, id, next)
		require.NoError(t, err)
		assert.Equal(t, next, trip.Status)
	}
	assert.NotNil(t, trip.CompletedAt)
}

func TestTransition_NoSkippingStages(t *testing.T) {
	f := newFixture()
	trip, err := f.service.Deploy(context.Background(), testCompany, validInput())
	require.NoError(t, err)

	_, err = f.service.Transition(context.Background(), testCompany, trip.ID.Hex(), models.TripDelivered)
	assert.ErrorIs(t, err, faults.ErrInvalidTransition)

	_, err = f.service.Transition(context.Background(), testCompany, trip.ID.Hex(), models.TripCompleted)
	assert.ErrorIs(t, err, faults.ErrInvalidTransition)
}

func TestTransition_CancelFromAnyNonTerminal(t *testing.T) {
	for _, status := range []models.TripStatus{
		models.TripPlanned, models.TripLoading, models.TripInTransit, models.TripDelivered,
	} {
		f := newFixture()
		id := f.trips.Seed(models.Trip{CompanyID: testCompany, Status: status})

		trip, err := f.service.Transition(context.Background(), testCompany, id, models.TripCancelled)
		require.NoError(t, err, "cancel from %s", status)
		assert.Equal(t, models.TripCancelled, trip.Status)
	}
}

func TestTransition_TerminalStatesFrozen(t *testing.T) {
	for _, status := range []models.TripStatus{models.TripCompleted, models.TripCancelled} {
		f := newFixture()
		id := f.trips.Seed(models.Trip{CompanyID: testCompany, Status: status})

		for _, to := range []models.TripStatus{
			models.TripPlanned, models.TripLoading, models.TripInTransit,
			models.TripDelivered, models.TripCompleted, models.TripCancelled,
		} {
			if to == status {
				continue
			}
			_, err := f.service.Transition(context.Background(), testCompany, id, to)
			assert.ErrorIs(t, err, faults.ErrInvalidTransition, "%s -> %s", status, to)
		}
	}
}

func TestTransition_ResetsProgressOnDeparture(t *testing.T) {
	f := newFixture()
	id := f.trips.Seed(models.Trip{CompanyID: testCompany, Status: models.TripLoading, ProgressPercent: 40})

	trip, err := f.service.Transition(context.Background(), testCompany, id, models.TripInTransit)
	require.NoError(t, err)
	assert.Equal(t, 0.0, trip.ProgressPercent)
}

func TestTransition_TenantScoping(t *testing.T) {
	f := newFixture()
	id := f.trips.Seed(models.Trip{CompanyID: "someone-else", Status: models.TripPlanned})

	_, err := f.service.Transition(context.Background(), testCompany, id, models.TripLoading)
	assert.ErrorIs(t, err, faults.ErrNotFound)
}

func TestUpdateProgress_ClampsAndGates(t *testing.T) {
	f := newFixture()
	id := f.trips.Seed(models.Trip{CompanyID: testCompany, Status: models.TripInTransit})

	require.NoError(t, f.service.UpdateProgress(context.Background(), testCompany, id, 150))
	trip, err := f.service.Get(context.Background(), testCompany, id)
	require.NoError(t, err)
	assert.Equal(t, 100.0, trip.ProgressPercent)

	require.NoError(t, f.service.UpdateProgress(context.Background(), testCompany, id, -20))
	trip, err = f.service.Get(context.Background(), testCompany, id)
	require.NoError(t, err)
	assert.Equal(t, 0.0, trip.ProgressPercent)

	// Progress is only accepted while in transit.
	planned := f.trips.Seed(models.Trip{CompanyID: testCompany, Status: models.TripPlanned})
	err = f.service.UpdateProgress(context.Background(), testCompany, planned, 50)
	assert.ErrorIs(t, err, faults.ErrInvalidTransition)
}

func TestAllocateFuel_StoresCalculatorResult(t *testing.T) {
	f := newFixture()
	id := f.trips.Seed(models.Trip{
		CompanyID: testCompany, Status: models.TripPlanned,
		DistanceKM: 560, LoadStatus: models.Loaded,
	})

	alloc, err := f.service.AllocateFuel(context.Background(), testCompany, id, 10)
	require.NoError(t, err)
	assert.Equal(t, 290.0, alloc.Liters)

	trip, err := f.service.Get(context.Background(), testCompany, id)
	require.NoError(t, err)
	assert.Equal(t, 290.0, trip.FuelAllocated)

	// A re-run overwrites the previous allocation.
	alloc, err = f.service.AllocateFuel(context.Background(), testCompany, id, 0)
	require.NoError(t, err)
	assert.Equal(t, 280.0, alloc.Liters)

	trip, err = f.service.Get(context.Background(), testCompany, id)
	require.NoError(t, err)
	assert.Equal(t, 280.0, trip.FuelAllocated)
}

func TestAllocateFuel_UsesVehicleRatio(t *testing.T) {
	f := newFixture()
	vehicleID := f.vehicles.Seed(models.Vehicle{
		CompanyID: testCompany, LoadedKMPerL: 1.6, TankCapacity: 200,
	})
	id := f.trips.Seed(models.Trip{
		CompanyID: testCompany, Status: models.TripPlanned,
		DistanceKM: 800, LoadStatus: models.Loaded, VehicleID: vehicleID,
	})

	alloc, err := f.service.AllocateFuel(context.Background(), testCompany, id, 0)
	require.NoError(t, err)
	assert.Equal(t, 500.0, alloc.Liters)
	assert.True(t, alloc.RequiresRefuel)
}

func TestAllocateFuel_ZeroDistanceRejected(t *testing.T) {
	f := newFixture()
	id := f.trips.Seed(models.Trip{CompanyID: testCompany, Status: models.TripPlanned})

	_, err := f.service.AllocateFuel(context.Background(), testCompany, id, 0)
	assert.ErrorIs(t, err, faults.ErrValidation)
}

func TestSetFuelAllocated_ManualOverride(t *testing.T) {
	f := newFixture()
	id := f.trips.Seed(models.Trip{CompanyID: testCompany, Status: models.TripPlanned, FuelAllocated: 290})

	require.NoError(t, f.service.SetFuelAllocated(context.Background(), testCompany, id, 310))
	trip, err := f.service.Get(context.Background(), testCompany, id)
	require.NoError(t, err)
	assert.Equal(t, 310.0, trip.FuelAllocated)

	err = f.service.SetFuelAllocated(context.Background(), testCompany, id, -1)
	assert.ErrorIs(t, err, faults.ErrValidation)
}

func TestList_FiltersByStatus(t *testing.T) {
	f := newFixture()
	f.trips.Seed(models.Trip{CompanyID: testCompany, Status: models.TripPlanned})
	f.trips.Seed(models.Trip{CompanyID: testCompany, Status: models.TripCompleted})
	f.trips.Seed(models.Trip{CompanyID: "someone-else", Status: models.TripPlanned})

	planned, err := f.service.List(context.Background(), testCompany, db.TripFilter{Status: models.TripPlanned})
	require.NoError(t, err)
	assert.Len(t, planned, 1)
}
