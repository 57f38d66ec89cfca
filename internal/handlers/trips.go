package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/ukydev/fleet-ops-ledger/internal/db"
	"github.com/ukydev/fleet-ops-ledger/internal/ledger"
	"github.com/ukydev/fleet-ops-ledger/internal/middleware"
	"github.com/ukydev/fleet-ops-ledger/internal/models"
	"github.com/ukydev/fleet-ops-ledger/internal/trips"
)

// TripHandler handles trip lifecycle requests.
type TripHandler struct {
	trips  *trips.Service
	ledger *ledger.Service
}

// NewTripHandler creates a new trip handler.
func NewTripHandler(tripService *trips.Service, ledgerService *ledger.Service) *TripHandler {
	return &TripHandler{trips: tripService, ledger: ledgerService}
}

type deployRequest struct {
	Reference     string            `json:"reference"`
	Origin        string            `json:"origin"`
	Destination   string            `json:"destination"`
	DistanceKM    float64           `json:"distance_km"`
	VehicleID     string            `json:"vehicle_id"`
	DriverID      string            `json:"driver_id"`
	ClientID      string            `json:"client_id"`
	DepartureDate time.Time         `json:"departure_date"`
	ETA           *time.Time        `json:"eta"`
	Rate          float64           `json:"rate"`
	Tonnage       float64           `json:"tonnage"`
	CargoDesc     string            `json:"cargo_desc"`
	LoadStatus    models.LoadStatus `json:"load_status"`
}

func (req *deployRequest) toInput() trips.DeployInput {
	return trips.DeployInput{
		Reference:     req.Reference,
		Origin:        req.Origin,
		Destination:   req.Destination,
		DistanceKM:    req.DistanceKM,
		VehicleID:     req.VehicleID,
		DriverID:      req.DriverID,
		ClientID:      req.ClientID,
		DepartureDate: req.DepartureDate,
		ETA:           req.ETA,
		Rate:          req.Rate,
		Tonnage:       req.Tonnage,
		CargoDesc:     req.CargoDesc,
		LoadStatus:    req.LoadStatus,
	}
}

// Deploy handles POST /api/trips
func (h *TripHandler) Deploy(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	var req deployRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	trip, err := h.trips.Deploy(r.Context(), claims.CompanyID, req.toInput())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, trip)
}

// EditDeployment handles PUT /api/trips/{id}
func (h *TripHandler) EditDeployment(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	var req deployRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	trip, err := h.trips.EditDeployment(r.Context(), claims.CompanyID, r.PathValue("id"), req.toInput())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// Get handles GET /api/trips/{id}
func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	trip, err := h.trips.Get(r.Context(), claims.CompanyID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// List handles GET /api/trips
func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	filter := db.TripFilter{
		Status:   models.TripStatus(r.URL.Query().Get("status")),
		DriverID: r.URL.Query().Get("driver_id"),
		ClientID: r.URL.Query().Get("client_id"),
	}
	result, err := h.trips.List(r.Context(), claims.CompanyID, filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Transition handles POST /api/trips/{id}/transition
func (h *TripHandler) Transition(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	var req struct {
		To models.TripStatus `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	trip, err := h.trips.Transition(r.Context(), claims.CompanyID, r.PathValue("id"), req.To)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// Progress handles POST /api/trips/{id}/progress
func (h *TripHandler) Progress(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	var req struct {
		Percent float64 `json:"percent"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := h.trips.UpdateProgress(r.Context(), claims.CompanyID, r.PathValue("id"), req.Percent); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Progress updated"})
}

// AllocateFuel handles POST /api/trips/{id}/allocate-fuel
func (h *TripHandler) AllocateFuel(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	var req struct {
		UncertaintyLiters float64 `json:"uncertainty_liters"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	alloc, err := h.trips.AllocateFuel(r.Context(), claims.CompanyID, r.PathValue("id"), req.UncertaintyLiters)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, alloc)
}

// SetFuel handles PUT /api/trips/{id}/fuel
func (h *TripHandler) SetFuel(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	var req struct {
		Liters float64 `json:"liters"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := h.trips.SetFuelAllocated(r.Context(), claims.CompanyID, r.PathValue("id"), req.Liters); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Fuel allocation updated"})
}

// Transactions handles GET /api/trips/{id}/transactions
func (h *TripHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	txns, err := h.ledger.ListByTrip(r.Context(), claims.CompanyID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txns)
}
