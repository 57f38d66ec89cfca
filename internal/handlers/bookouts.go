package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ukydev/fleet-ops-ledger/internal/bookouts"
	"github.com/ukydev/fleet-ops-ledger/internal/middleware"
	"github.com/ukydev/fleet-ops-ledger/internal/models"
)

// BookoutHandler handles cash bookout requests.
type BookoutHandler struct {
	bookouts *bookouts.Service
}

// NewBookoutHandler creates a new bookout handler.
func NewBookoutHandler(bookoutService *bookouts.Service) *BookoutHandler {
	return &BookoutHandler{bookouts: bookoutService}
}

// Create handles POST /api/bookouts
func (h *BookoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	var req struct {
		TripID    string              `json:"trip_id"`
		DriverID  string              `json:"driver_id"`
		VehicleID string              `json:"vehicle_id"`
		Date      time.Time           `json:"date"`
		Items     models.BookoutItems `json:"items"`
		Notes     string              `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	bookout, err := h.bookouts.Create(r.Context(), claims.CompanyID, bookouts.CreateInput{
		TripID:    req.TripID,
		DriverID:  req.DriverID,
		VehicleID: req.VehicleID,
		Date:      req.Date,
		Items:     req.Items,
		Operator:  claims.Username,
		Notes:     req.Notes,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, bookout)
}

// Reconcile handles POST /api/bookouts/{id}/reconcile
func (h *BookoutHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	var req struct {
		AmountSpent    float64 `json:"amount_spent"`
		AmountReturned float64 `json:"amount_returned"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	bookout, err := h.bookouts.Reconcile(r.Context(), claims.CompanyID, r.PathValue("id"),
		req.AmountSpent, req.AmountReturned, claims.Username)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookout)
}

// Get handles GET /api/bookouts/{id}
func (h *BookoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	bookout, err := h.bookouts.Get(r.Context(), claims.CompanyID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookout)
}

// ListByTrip handles GET /api/trips/{id}/bookouts
func (h *BookoutHandler) ListByTrip(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	result, err := h.bookouts.ListByTrip(r.Context(), claims.CompanyID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
