package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukydev/fleet-ops-ledger/internal/bookouts"
	"github.com/ukydev/fleet-ops-ledger/internal/db/dbtest"
	"github.com/ukydev/fleet-ops-ledger/internal/ledger"
	"github.com/ukydev/fleet-ops-ledger/internal/middleware"
	"github.com/ukydev/fleet-ops-ledger/internal/models"
	"github.com/ukydev/fleet-ops-ledger/internal/trips"
)

const testCompany = "acme-haulage"

type tripEnv struct {
	trips   *dbtest.TripStore
	drivers *dbtest.DriverStore
	mux     *http.ServeMux
}

func newTripEnv() *tripEnv {
	env := &tripEnv{
		trips:   dbtest.NewTripStore(),
		drivers: dbtest.NewDriverStore(),
	}
	tripService := trips.NewService(env.trips, dbtest.NewVehicleStore(), env.drivers, dbtest.NewClientStore())
	ledgerService := ledger.NewService(dbtest.NewTransactionStore())
	bookoutService := bookouts.NewService(dbtest.NewBookoutStore(), env.trips, env.drivers, ledgerService)

	tripHandler := NewTripHandler(tripService, ledgerService)
	bookoutHandler := NewBookoutHandler(bookoutService)

	env.mux = http.NewServeMux()
	env.mux.HandleFunc("POST /api/trips", tripHandler.Deploy)
	env.mux.HandleFunc("GET /api/trips/{id}", tripHandler.Get)
	env.mux.HandleFunc("POST /api/trips/{id}/transition", tripHandler.Transition)
	env.mux.HandleFunc("POST /api/trips/{id}/allocate-fuel", tripHandler.AllocateFuel)
	env.mux.HandleFunc("POST /api/bookouts", bookoutHandler.Create)
	return env
}

// do runs a request with authenticated claims already in context, the way the
// auth middleware would leave them.
func (env *tripEnv) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	claims := &models.Claims{
		UserID: "u1", CompanyID: testCompany, Username: "ops", Role: models.RoleOperations,
	}
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, claims))
	w := httptest.NewRecorder()
	env.mux.ServeHTTP(w, req)
	return w
}

func TestTripHandler_DeployAndGet(t *testing.T) {
	env := newTripEnv()

	w := env.do("POST", "/api/trips", map[string]interface{}{
		"origin":         "Harare",
		"destination":    "Beira",
		"distance_km":    560,
		"departure_date": time.Now().Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var trip models.Trip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &trip))
	assert.Equal(t, models.TripPlanned, trip.Status)

	w = env.do("GET", "/api/trips/"+trip.ID.Hex(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTripHandler_ValidationMapsTo400(t *testing.T) {
	env := newTripEnv()

	w := env.do("POST", "/api/trips", map[string]interface{}{
		"origin": "Harare", // missing destination and departure date
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "destination")
}

func TestTripHandler_InvalidTransitionMapsTo409(t *testing.T) {
	env := newTripEnv()
	id := env.trips.Seed(models.Trip{CompanyID: testCompany, Status: models.TripPlanned})

	w := env.do("POST", "/api/trips/"+id+"/transition", map[string]string{"to": "delivered"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestTripHandler_UnknownTripMapsTo404(t *testing.T) {
	env := newTripEnv()

	w := env.do("GET", "/api/trips/64f000000000000000000000", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTripHandler_ForeignTripMapsTo404(t *testing.T) {
	env := newTripEnv()
	id := env.trips.Seed(models.Trip{CompanyID: "someone-else", Status: models.TripPlanned})

	// Another company's trip looks like it does not exist.
	w := env.do("GET", "/api/trips/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTripHandler_AllocateFuel(t *testing.T) {
	env := newTripEnv()
	id := env.trips.Seed(models.Trip{
		CompanyID: testCompany, Status: models.TripPlanned,
		DistanceKM: 560, LoadStatus: models.Loaded,
	})

	w := env.do("POST", "/api/trips/"+id+"/allocate-fuel", map[string]float64{"uncertainty_liters": 10})
	require.Equal(t, http.StatusOK, w.Code)

	var alloc struct {
		Liters float64 `json:"liters"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &alloc))
	assert.Equal(t, 290.0, alloc.Liters)
}

func TestTripHandler_Unauthenticated(t *testing.T) {
	env := newTripEnv()

	req := httptest.NewRequest("GET", "/api/trips/64f000000000000000000000", nil)
	w := httptest.NewRecorder()
	env.mux.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookoutHandler_AlreadyReconciledMapsTo409(t *testing.T) {
	env := newTripEnv()
	tripID := env.trips.Seed(models.Trip{CompanyID: testCompany, Status: models.TripInTransit})
	driverID := env.drivers.Seed(models.Driver{CompanyID: testCompany})

	bookoutStore := dbtest.NewBookoutStore()
	service := bookouts.NewService(bookoutStore, env.trips, env.drivers, ledger.NewService(dbtest.NewTransactionStore()))
	handler := NewBookoutHandler(service)
	env.mux.HandleFunc("POST /api/bookouts/{id}/reconcile", handler.Reconcile)

	id := bookoutStore.Seed(models.Bookout{
		CompanyID: testCompany, TripID: tripID, DriverID: driverID,
		TotalCashGiven: 150, Status: models.BookoutReconciled,
	})

	w := env.do("POST", "/api/bookouts/"+id+"/reconcile", map[string]float64{
		"amount_spent": 100, "amount_returned": 50,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}
