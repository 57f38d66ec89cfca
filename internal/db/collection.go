package db

import (
	"context"
	"time"

	"github.com/ukydev/fleet-ops-ledger/internal/models"
)

// Every read and write below is scoped by company id; implementations filter
// on it and re-assert the match on decoded documents as defense in depth.

// TripCollection defines the interface for trip data operations.
type TripCollection interface {
	InsertTrip(ctx context.Context, trip models.Trip) (string, error)
	FindTripByID(ctx context.Context, companyID, id string) (*models.Trip, error)
	FindTrips(ctx context.Context, companyID string, filter TripFilter) ([]models.Trip, error)
	UpdateTripFields(ctx context.Context, companyID, id string, fields map[string]interface{}) error
	// TransitionTrip atomically moves a trip from one status to another,
	// applying extra field updates in the same write. It fails with
	// ErrNotFound when no document matches (missing, other tenant, or the
	// status moved concurrently).
	TransitionTrip(ctx context.Context, companyID, id string, from, to models.TripStatus, fields map[string]interface{}) (*models.Trip, error)
	// UpdateProgress sets progress_percent iff the trip is in transit.
	UpdateProgress(ctx context.Context, companyID, id string, percent float64) error
	CountTripsByStatus(ctx context.Context, companyID string, statuses ...models.TripStatus) (int64, error)
}

// TripFilter narrows trip list queries.
type TripFilter struct {
	Status   models.TripStatus
	DriverID string
	ClientID string
	From     *time.Time
	To       *time.Time
}

// BookoutCollection defines the interface for cash bookout operations.
type BookoutCollection interface {
	InsertBookout(ctx context.Context, bookout models.Bookout) (string, error)
	FindBookoutByID(ctx context.Context, companyID, id string) (*models.Bookout, error)
	FindBookoutsByTrip(ctx context.Context, companyID, tripID string) ([]models.Bookout, error)
	// ReconcileBookout atomically moves a pending bookout to reconciled,
	// recording spend, return, variance and the reconciling actor. Fails
	// with ErrNotFound when no pending document matches.
	ReconcileBookout(ctx context.Context, companyID, id string, spent, returned, variance float64, actor string, at time.Time) (*models.Bookout, error)
}

// ExpenseCollection defines the interface for expense record operations.
type ExpenseCollection interface {
	InsertExpense(ctx context.Context, expense models.Expense) (string, error)
	FindExpenseByID(ctx context.Context, companyID, id string) (*models.Expense, error)
	FindExpensesByTrip(ctx context.Context, companyID, tripID string) ([]models.Expense, error)
	FindExpenses(ctx context.Context, companyID string, status models.ExpenseStatus, from, to *time.Time) ([]models.Expense, error)
	// DecideExpense atomically moves a pending expense to approved or
	// rejected. Fails with ErrNotFound when no pending document matches.
	DecideExpense(ctx context.Context, companyID, id string, to models.ExpenseStatus, actor, reason string, at time.Time) (*models.Expense, error)
	CountPendingExpenses(ctx context.Context, companyID string) (int64, error)
}

// InvoiceCollection defines the interface for invoice operations.
type InvoiceCollection interface {
	InsertInvoice(ctx context.Context, invoice models.Invoice) (string, error)
	FindInvoiceByID(ctx context.Context, companyID, id string) (*models.Invoice, error)
	FindInvoicesByTrip(ctx context.Context, companyID, tripID string) ([]models.Invoice, error)
	FindInvoicesByStatus(ctx context.Context, companyID string, statuses ...models.InvoiceStatus) ([]models.Invoice, error)
	// TransitionInvoice atomically moves an invoice out of one of the
	// allowed from-statuses, applying extra field updates in the same
	// write. Fails with ErrNotFound when no document matches.
	TransitionInvoice(ctx context.Context, companyID, id string, from []models.InvoiceStatus, to models.InvoiceStatus, fields map[string]interface{}) (*models.Invoice, error)
}

// TransactionCollection defines the interface for ledger transaction stamps.
type TransactionCollection interface {
	InsertTransaction(ctx context.Context, txn models.Transaction) (string, error)
	FindTransactionsByTrip(ctx context.Context, companyID, tripID string) ([]models.Transaction, error)
}

// VehicleCollection defines the read-only vehicle registry lookups.
type VehicleCollection interface {
	FindVehicleByID(ctx context.Context, companyID, id string) (*models.Vehicle, error)
	CountActiveVehicles(ctx context.Context, companyID string) (int64, error)
}

// DriverCollection defines the read-only driver registry lookups.
type DriverCollection interface {
	FindDriverByID(ctx context.Context, companyID, id string) (*models.Driver, error)
}

// ClientCollection defines the read-only client registry lookups.
type ClientCollection interface {
	FindClientByID(ctx context.Context, companyID, id string) (*models.Client, error)
}

// UserCollection defines the interface for user data operations.
type UserCollection interface {
	InsertUser(ctx context.Context, user models.User) error
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, user models.User) error
	UpdateLastLogin(ctx context.Context, id string) error
}
