package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExpenseStatus is the approval state of an expense record.
type ExpenseStatus string

const (
	ExpensePending  ExpenseStatus = "pending"
	ExpenseApproved ExpenseStatus = "approved"
	ExpenseRejected ExpenseStatus = "rejected"
)

// ExpenseType enumerates the expense categories.
type ExpenseType string

const (
	ExpenseFuel        ExpenseType = "fuel"
	ExpenseMaintenance ExpenseType = "maintenance"
	ExpenseTolls       ExpenseType = "tolls"
	ExpenseBorderFees  ExpenseType = "border_fees"
	ExpenseSalaries    ExpenseType = "salaries"
	ExpenseInsurance   ExpenseType = "insurance"
	ExpenseOther       ExpenseType = "other"
)

// IsValidExpenseType checks if an expense type is one of the known categories.
func IsValidExpenseType(t ExpenseType) bool {
	switch t {
	case ExpenseFuel, ExpenseMaintenance, ExpenseTolls, ExpenseBorderFees,
		ExpenseSalaries, ExpenseInsurance, ExpenseOther:
		return true
	default:
		return false
	}
}

// Expense is an ad-hoc cost record that goes through a one-shot approval.
type Expense struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CompanyID       string             `bson:"company_id" json:"company_id"`
	Type            ExpenseType        `bson:"type" json:"type"`
	Date            time.Time          `bson:"date" json:"date"`
	Description     string             `bson:"description" json:"description"`
	Amount          float64            `bson:"amount" json:"amount"`
	TripID          string             `bson:"trip_id,omitempty" json:"trip_id,omitempty"`
	VehicleID       string             `bson:"vehicle_id,omitempty" json:"vehicle_id,omitempty"`
	DriverID        string             `bson:"driver_id,omitempty" json:"driver_id,omitempty"`
	Vendor          string             `bson:"vendor,omitempty" json:"vendor,omitempty"`
	ReceiptRef      string             `bson:"receipt_ref,omitempty" json:"receipt_ref,omitempty"`
	Status          ExpenseStatus      `bson:"status" json:"status"`
	DecidedBy       string             `bson:"decided_by,omitempty" json:"decided_by,omitempty"`
	DecidedAt       *time.Time         `bson:"decided_at,omitempty" json:"decided_at,omitempty"`
	RejectionReason string             `bson:"rejection_reason,omitempty" json:"rejection_reason,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}
