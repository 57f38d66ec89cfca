package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ukydev/fleet-ops-ledger/internal/invoices"
	"github.com/ukydev/fleet-ops-ledger/internal/middleware"
)

// InvoiceHandler handles client invoice requests.
type InvoiceHandler struct {
	invoices *invoices.Service
}

// NewInvoiceHandler creates a new invoice handler.
func NewInvoiceHandler(invoiceService *invoices.Service) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoiceService}
}

// Create handles POST /api/invoices
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	var req struct {
		Number      string    `json:"number"`
		TripID      string    `json:"trip_id"`
		ClientID    string    `json:"client_id"`
		InvoiceDate time.Time `json:"invoice_date"`
		TermsDays   int       `json:"terms_days"`
		TotalAmount float64   `json:"total_amount"`
		Currency    string    `json:"currency"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	invoice, err := h.invoices.Create(r.Context(), claims.CompanyID, invoices.CreateInput{
		Number:      req.Number,
		TripID:      req.TripID,
		ClientID:    req.ClientID,
		InvoiceDate: req.InvoiceDate,
		TermsDays:   req.TermsDays,
		TotalAmount: req.TotalAmount,
		Currency:    req.Currency,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, invoice)
}

// Send handles POST /api/invoices/{id}/send
func (h *InvoiceHandler) Send(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	invoice, err := h.invoices.Send(r.Context(), claims.CompanyID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invoice)
}

// MarkPaid handles POST /api/invoices/{id}/pay
func (h *InvoiceHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	var req struct {
		Method    string `json:"method"`
		Reference string `json:"reference"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	invoice, err := h.invoices.MarkPaid(r.Context(), claims.CompanyID, r.PathValue("id"), req.Method, req.Reference)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invoice)
}

// RecordPartial handles POST /api/invoices/{id}/partial
func (h *InvoiceHandler) RecordPartial(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	var req struct {
		Reference string `json:"reference"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	invoice, err := h.invoices.RecordPartialPayment(r.Context(), claims.CompanyID, r.PathValue("id"), req.Reference)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invoice)
}

// Get handles GET /api/invoices/{id}
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	invoice, err := h.invoices.Get(r.Context(), claims.CompanyID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invoice)
}

// ListByTrip handles GET /api/trips/{id}/invoices
func (h *InvoiceHandler) ListByTrip(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	result, err := h.invoices.ListByTrip(r.Context(), claims.CompanyID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
