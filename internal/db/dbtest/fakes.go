// Package dbtest provides in-memory collection fakes for service tests. They
// mirror the Mongo implementations' contract: company-scoped lookups miss with
// ErrNotFound, and the conditional writes fail with ErrNotFound when the
// status precondition does not hold.
package dbtest

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ukydev/fleet-ops-ledger/internal/db"
	"github.com/ukydev/fleet-ops-ledger/internal/faults"
	"github.com/ukydev/fleet-ops-ledger/internal/models"
)

// TripStore is an in-memory db.TripCollection.
type TripStore struct {
	mu   sync.Mutex
	docs map[string]*models.Trip
}

// NewTripStore creates an empty trip store.
func NewTripStore() *TripStore {
	return &TripStore{docs: make(map[string]*models.Trip)}
}

// Seed inserts a trip directly and returns its id.
func (s *TripStore) Seed(trip models.Trip) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if trip.ID.IsZero() {
		trip.ID = primitive.NewObjectID()
	}
	s.docs[trip.ID.Hex()] = &trip
	return trip.ID.Hex()
}

func (s *TripStore) InsertTrip(_ context.Context, trip models.Trip) (string, error) {
	trip.CreatedAt = time.Now()
	trip.UpdatedAt = trip.CreatedAt
	return s.Seed(trip), nil
}

func (s *TripStore) FindTripByID(_ context.Context, companyID, id string) (*models.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	trip, ok := s.docs[id]
	if !ok || trip.CompanyID != companyID {
		return nil, faults.ErrNotFound
	}
	copy := *trip
	return &copy, nil
}

func (s *TripStore) FindTrips(_ context.Context, companyID string, filter db.TripFilter) ([]models.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Trip
	for _, trip := range s.docs {
		if trip.CompanyID != companyID {
			continue
		}
		if filter.Status != "" && trip.Status != filter.Status {
			continue
		}
		if filter.DriverID != "" && trip.DriverID != filter.DriverID {
			continue
		}
		if filter.ClientID != "" && trip.ClientID != filter.ClientID {
			continue
		}
		out = append(out, *trip)
	}
	return out, nil
}

func (s *TripStore) UpdateTripFields(_ context.Context, companyID, id string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	trip, ok := s.docs[id]
	if !ok || trip.CompanyID != companyID {
		return faults.ErrNotFound
	}
	applyTripFields(trip, fields)
	trip.UpdatedAt = time.Now()
	return nil
}

func (s *TripStore) TransitionTrip(_ context.Context, companyID, id string, from, to models.TripStatus, fields map[string]interface{}) (*models.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	trip, ok := s.docs[id]
	if !ok || trip.CompanyID != companyID || trip.Status != from {
		return nil, faults.ErrNotFound
	}
	trip.Status = to
	applyTripFields(trip, fields)
	trip.UpdatedAt = time.Now()
	copy := *trip
	return &copy, nil
}

func (s *TripStore) UpdateProgress(_ context.Context, companyID, id string, percent float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	trip, ok := s.docs[id]
	if !ok || trip.CompanyID != companyID || trip.Status != models.TripInTransit {
		return faults.ErrNotFound
	}
	trip.ProgressPercent = percent
	trip.UpdatedAt = time.Now()
	return nil
}

func (s *TripStore) CountTripsByStatus(_ context.Context, companyID string, statuses ...models.TripStatus) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, trip := range s.docs {
		if trip.CompanyID != companyID {
			continue
		}
		for _, status := range statuses {
			if trip.Status == status {
				count++
				break
			}
		}
	}
	return count, nil
}

func applyTripFields(trip *models.Trip, fields map[string]interface{}) {
	for key, value := range fields {
		switch key {
		case "origin":
			trip.Origin = value.(string)
		case "destination":
			trip.Destination = value.(string)
		case "distance_km":
			trip.DistanceKM = value.(float64)
		case "vehicle_id":
			trip.VehicleID = value.(string)
		case "driver_id":
			trip.DriverID = value.(string)
		case "client_id":
			trip.ClientID = value.(string)
		case "departure_date":
			trip.DepartureDate = value.(time.Time)
		case "eta":
			trip.ETA, _ = value.(*time.Time)
		case "rate":
			trip.Rate = value.(float64)
		case "tonnage":
			trip.Tonnage = value.(float64)
		case "cargo_desc":
			trip.CargoDesc = value.(string)
		case "load_status":
			trip.LoadStatus = value.(models.LoadStatus)
		case "fuel_allocated":
			trip.FuelAllocated = value.(float64)
		case "progress_percent":
			trip.ProgressPercent = value.(float64)
		case "completed_at":
			at := value.(time.Time)
			trip.CompletedAt = &at
		}
	}
}

// BookoutStore is an in-memory db.BookoutCollection.
type BookoutStore struct {
	mu   sync.Mutex
	docs map[string]*models.Bookout
}

// NewBookoutStore creates an empty bookout store.
func NewBookoutStore() *BookoutStore {
	return &BookoutStore{docs: make(map[string]*models.Bookout)}
}

// Seed inserts a bookout directly and returns its id.
func (s *BookoutStore) Seed(bookout models.Bookout) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if bookout.ID.IsZero() {
		bookout.ID = primitive.NewObjectID()
	}
	s.docs[bookout.ID.Hex()] = &bookout
	return bookout.ID.Hex()
}

func (s *BookoutStore) InsertBookout(_ context.Context, bookout models.Bookout) (string, error) {
	bookout.CreatedAt = time.Now()
	bookout.UpdatedAt = bookout.CreatedAt
	return s.Seed(bookout), nil
}

func (s *BookoutStore) FindBookoutByID(_ context.Context, companyID, id string) (*models.Bookout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bookout, ok := s.docs[id]
	if !ok || bookout.CompanyID != companyID {
		return nil, faults.ErrNotFound
	}
	copy := *bookout
	return &copy, nil
}

func (s *BookoutStore) FindBookoutsByTrip(_ context.Context, companyID, tripID string) ([]models.Bookout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Bookout
	for _, bookout := range s.docs {
		if bookout.CompanyID == companyID && bookout.TripID == tripID {
			out = append(out, *bookout)
		}
	}
	return out, nil
}

func (s *BookoutStore) ReconcileBookout(_ context.Context, companyID, id string, spent, returned, variance float64, actor string, at time.Time) (*models.Bookout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bookout, ok := s.docs[id]
	if !ok || bookout.CompanyID != companyID || bookout.Status != models.BookoutPending {
		return nil, faults.ErrNotFound
	}
	bookout.AmountSpent = spent
	bookout.AmountReturned = returned
	bookout.Variance = variance
	bookout.Status = models.BookoutReconciled
	bookout.ReconciledBy = actor
	bookout.ReconciledAt = &at
	bookout.UpdatedAt = time.Now()
	copy := *bookout
	return &copy, nil
}

// ExpenseStore is an in-memory db.ExpenseCollection.
type ExpenseStore struct {
	mu   sync.Mutex
	docs map[string]*models.Expense
}

// NewExpenseStore creates an empty expense store.
func NewExpenseStore() *ExpenseStore {
	return &ExpenseStore{docs: make(map[string]*models.Expense)}
}

// Seed inserts an expense directly and returns its id.
func (s *ExpenseStore) Seed(expense models.Expense) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if expense.ID.IsZero() {
		expense.ID = primitive.NewObjectID()
	}
	s.docs[expense.ID.Hex()] = &expense
	return expense.ID.Hex()
}

func (s *ExpenseStore) InsertExpense(_ context.Context, expense models.Expense) (string, error) {
	expense.CreatedAt = time.Now()
	expense.UpdatedAt = expense.CreatedAt
	return s.Seed(expense), nil
}

func (s *ExpenseStore) FindExpenseByID(_ context.Context, companyID, id string) (*models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expense, ok := s.docs[id]
	if !ok || expense.CompanyID != companyID {
		return nil, faults.ErrNotFound
	}
	copy := *expense
	return &copy, nil
}

func (s *ExpenseStore) FindExpensesByTrip(_ context.Context, companyID, tripID string) ([]models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Expense
	for _, expense := range s.docs {
		if expense.CompanyID == companyID && expense.TripID == tripID {
			out = append(out, *expense)
		}
	}
	return out, nil
}

func (s *ExpenseStore) FindExpenses(_ context.Context, companyID string, status models.ExpenseStatus, from, to *time.Time) ([]models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Expense
	for _, expense := range s.docs {
		if expense.CompanyID != companyID {
			continue
		}
		if status != "" && expense.Status != status {
			continue
		}
		if from != nil && expense.Date.Before(*from) {
			continue
		}
		if to != nil && expense.Date.After(*to) {
			continue
		}
		out = append(out, *expense)
	}
	return out, nil
}

func (s *ExpenseStore) DecideExpense(_ context.Context, companyID, id string, to models.ExpenseStatus, actor, reason string, at time.Time) (*models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expense, ok := s.docs[id]
	if !ok || expense.CompanyID != companyID || expense.Status != models.ExpensePending {
		return nil, faults.ErrNotFound
	}
	expense.Status = to
	expense.DecidedBy = actor
	expense.DecidedAt = &at
	expense.RejectionReason = reason
	expense.UpdatedAt = time.Now()
	copy := *expense
	return &copy, nil
}

func (s *ExpenseStore) CountPendingExpenses(_ context.Context, companyID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, expense := range s.docs {
		if expense.CompanyID == companyID && expense.Status == models.ExpensePending {
			count++
		}
	}
	return count, nil
}

// InvoiceStore is an in-memory db.InvoiceCollection.
type InvoiceStore struct {
	mu   sync.Mutex
	docs map[string]*models.Invoice
}

// NewInvoiceStore creates an empty invoice store.
func NewInvoiceStore() *InvoiceStore {
	return &InvoiceStore{docs: make(map[string]*models.Invoice)}
}

// Seed inserts an invoice directly and returns its id.
func (s *InvoiceStore) Seed(invoice models.Invoice) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if invoice.ID.IsZero() {
		invoice.ID = primitive.NewObjectID()
	}
	s.docs[invoice.ID.Hex()] = &invoice
	return invoice.ID.Hex()
}

func (s *InvoiceStore) InsertInvoice(_ context.Context, invoice models.Invoice) (string, error) {
	invoice.CreatedAt = time.Now()
	invoice.UpdatedAt = invoice.CreatedAt
	return s.Seed(invoice), nil
}

func (s *InvoiceStore) FindInvoiceByID(_ context.Context, companyID, id string) (*models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	invoice, ok := s.docs[id]
	if !ok || invoice.CompanyID != companyID {
		return nil, faults.ErrNotFound
	}
	copy := *invoice
	return &copy, nil
}

func (s *InvoiceStore) FindInvoicesByTrip(_ context.Context, companyID, tripID string) ([]models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Invoice
	for _, invoice := range s.docs {
		if invoice.CompanyID == companyID && invoice.TripID == tripID {
			out = append(out, *invoice)
		}
	}
	return out, nil
}

func (s *InvoiceStore) FindInvoicesByStatus(_ context.Context, companyID string, statuses ...models.InvoiceStatus) ([]models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Invoice
	for _, invoice := range s.docs {
		if invoice.CompanyID != companyID {
			continue
		}
		for _, status := range statuses {
			if invoice.Status == status {
				out = append(out, *invoice)
				break
			}
		}
	}
	return out, nil
}

func (s *InvoiceStore) TransitionInvoice(_ context.Context, companyID, id string, from []models.InvoiceStatus, to models.InvoiceStatus, fields map[string]interface{}) (*models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	invoice, ok := s.docs[id]
	if !ok || invoice.CompanyID != companyID {
		return nil, faults.ErrNotFound
	}
	matched := false
	for _, status := range from {
		if invoice.Status == status {
			matched = true
			break
		}
	}
	if !matched {
		return nil, faults.ErrNotFound
	}
	invoice.Status = to
	for key, value := range fields {
		switch key {
		case "sent_at":
			at := value.(time.Time)
			invoice.SentAt = &at
		case "paid_at":
			at := value.(time.Time)
			invoice.PaidAt = &at
		case "payment_method":
			invoice.PaymentMethod = value.(string)
		case "payment_ref":
			invoice.PaymentRef = value.(string)
		}
	}
	invoice.UpdatedAt = time.Now()
	copy := *invoice
	return &copy, nil
}

// TransactionStore is an in-memory db.TransactionCollection.
type TransactionStore struct {
	mu   sync.Mutex
	docs []models.Transaction
}

// NewTransactionStore creates an empty transaction store.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{}
}

func (s *TransactionStore) InsertTransaction(_ context.Context, txn models.Transaction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	txn.ID = primitive.NewObjectID()
	txn.CreatedAt = time.Now()
	s.docs = append(s.docs, txn)
	return txn.ID.Hex(), nil
}

func (s *TransactionStore) FindTransactionsByTrip(_ context.Context, companyID, tripID string) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Transaction
	for _, txn := range s.docs {
		if txn.CompanyID == companyID && txn.TripID == tripID {
			out = append(out, txn)
		}
	}
	return out, nil
}

// All returns every stored transaction.
func (s *TransactionStore) All() []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Transaction(nil), s.docs...)
}

// VehicleStore is an in-memory db.VehicleCollection.
type VehicleStore struct {
	mu   sync.Mutex
	docs map[string]*models.Vehicle
}

// NewVehicleStore creates an empty vehicle store.
func NewVehicleStore() *VehicleStore {
	return &VehicleStore{docs: make(map[string]*models.Vehicle)}
}

// Seed inserts a vehicle directly and returns its id.
func (s *VehicleStore) Seed(vehicle models.Vehicle) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if vehicle.ID.IsZero() {
		vehicle.ID = primitive.NewObjectID()
	}
	s.docs[vehicle.ID.Hex()] = &vehicle
	return vehicle.ID.Hex()
}

func (s *VehicleStore) FindVehicleByID(_ context.Context, companyID, id string) (*models.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	vehicle, ok := s.docs[id]
	if !ok || vehicle.CompanyID != companyID {
		return nil, faults.ErrNotFound
	}
	copy := *vehicle
	return &copy, nil
}

func (s *VehicleStore) CountActiveVehicles(_ context.Context, companyID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, vehicle := range s.docs {
		if vehicle.CompanyID == companyID && vehicle.Status == "active" {
			count++
		}
	}
	return count, nil
}

// DriverStore is an in-memory db.DriverCollection.
type DriverStore struct {
	mu   sync.Mutex
	docs map[string]*models.Driver
}

// NewDriverStore creates an empty driver store.
func NewDriverStore() *DriverStore {
	return &DriverStore{docs: make(map[string]*models.Driver)}
}

// Seed inserts a driver directly and returns its id.
func (s *DriverStore) Seed(driver models.Driver) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if driver.ID.IsZero() {
		driver.ID = primitive.NewObjectID()
	}
	s.docs[driver.ID.Hex()] = &driver
	return driver.ID.Hex()
}

func (s *DriverStore) FindDriverByID(_ context.Context, companyID, id string) (*models.Driver, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	driver, ok := s.docs[id]
	if !ok || driver.CompanyID != companyID {
		return nil, faults.ErrNotFound
	}
	copy := *driver
	return &copy, nil
}

// ClientStore is an in-memory db.ClientCollection.
type ClientStore struct {
	mu   sync.Mutex
	docs map[string]*models.Client
}

// NewClientStore creates an empty client store.
func NewClientStore() *ClientStore {
	return &ClientStore{docs: make(map[string]*models.Client)}
}

// Seed inserts a client directly and returns its id.
func (s *ClientStore) Seed(client models.Client) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if client.ID.IsZero() {
		client.ID = primitive.NewObjectID()
	}
	s.docs[client.ID.Hex()] = &client
	return client.ID.Hex()
}

func (s *ClientStore) FindClientByID(_ context.Context, companyID, id string) (*models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	client, ok := s.docs[id]
	if !ok || client.CompanyID != companyID {
		return nil, faults.ErrNotFound
	}
	copy := *client
	return &copy, nil
}
