package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ukydev/fleet-ops-ledger/internal/expenses"
	"github.com/ukydev/fleet-ops-ledger/internal/middleware"
	"github.com/ukydev/fleet-ops-ledger/internal/models"
)

// ExpenseHandler handles expense record requests.
type ExpenseHandler struct {
	expenses *expenses.Service
}

// NewExpenseHandler creates a new expense handler.
func NewExpenseHandler(expenseService *expenses.Service) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenseService}
}

// Create handles POST /api/expenses
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	var req struct {
		Type        models.ExpenseType `json:"type"`
		Date        time.Time          `json:"date"`
		Description string             `json:"description"`
		Amount      float64            `json:"amount"`
		TripID      string             `json:"trip_id"`
		VehicleID   string             `json:"vehicle_id"`
		DriverID    string             `json:"driver_id"`
		Vendor      string             `json:"vendor"`
		ReceiptRef  string             `json:"receipt_ref"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	expense, err := h.expenses.Create(r.Context(), claims.CompanyID, expenses.CreateInput{
		Type:        req.Type,
		Date:        req.Date,
		Description: req.Description,
		Amount:      req.Amount,
		TripID:      req.TripID,
		VehicleID:   req.VehicleID,
		DriverID:    req.DriverID,
		Vendor:      req.Vendor,
		ReceiptRef:  req.ReceiptRef,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

// Approve handles POST /api/expenses/{id}/approve
func (h *ExpenseHandler) Approve(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	expense, err := h.expenses.Approve(r.Context(), claims.CompanyID, r.PathValue("id"), claims.Username)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

// Reject handles POST /api/expenses/{id}/reject
func (h *ExpenseHandler) Reject(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	expense, err := h.expenses.Reject(r.Context(), claims.CompanyID, r.PathValue("id"), claims.Username, req.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

// Get handles GET /api/expenses/{id}
func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	expense, err := h.expenses.Get(r.Context(), claims.CompanyID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

// List handles GET /api/expenses
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	var from, to *time.Time
	if v := r.URL.Query().Get("from"); v != "" {
		if parsed, err := time.Parse(time.RFC3339, v); err == nil {
			from = &parsed
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if parsed, err := time.Parse(time.RFC3339, v); err == nil {
			to = &parsed
		}
	}

	result, err := h.expenses.List(r.Context(), claims.CompanyID,
		models.ExpenseStatus(r.URL.Query().Get("status")), from, to)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ListByTrip handles GET /api/trips/{id}/expenses
func (h *ExpenseHandler) ListByTrip(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	result, err := h.expenses.ListByTrip(r.Context(), claims.CompanyID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
