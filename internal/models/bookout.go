package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookoutStatus is the reconciliation state of a cash bookout.
type BookoutStatus string

const (
	BookoutPending    BookoutStatus = "pending"
	BookoutReconciled BookoutStatus = "reconciled"
)

// BookoutItems are the itemized cash allocations handed to a driver.
// Each amount is non-negative; the bookout total is their sum.
type BookoutItems struct {
	Food          float64 `bson:"food" json:"food"`
	Accommodation float64 `bson:"accommodation" json:"accommodation"`
	Tolls         float64 `bson:"tolls" json:"tolls"`
	BorderFees    float64 `bson:"border_fees" json:"border_fees"`
	EmergencyFund float64 `bson:"emergency_fund" json:"emergency_fund"`
	Airtime       float64 `bson:"airtime" json:"airtime"`
	Other         float64 `bson:"other" json:"other"`
}

// Sum returns the total cash across all categories.
func (i BookoutItems) Sum() float64 {
	return i.Food + i.Accommodation + i.Tolls + i.BorderFees + i.EmergencyFund + i.Airtime + i.Other
}

// Bookout is a cash advance issued to a driver for trip expenses, later
// reconciled against actual spend and returned cash.
type Bookout struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CompanyID      string             `bson:"company_id" json:"company_id"`
	Reference      string             `bson:"reference" json:"reference"`
	TripID         string             `bson:"trip_id" json:"trip_id"`
	DriverID       string             `bson:"driver_id" json:"driver_id"`
	VehicleID      string             `bson:"vehicle_id,omitempty" json:"vehicle_id,omitempty"`
	Date           time.Time          `bson:"date" json:"date"`
	Items          BookoutItems       `bson:"items" json:"items"`
	TotalCashGiven float64            `bson:"total_cash_given" json:"total_cash_given"`
	AmountSpent    float64            `bson:"amount_spent" json:"amount_spent"`
	AmountReturned float64            `bson:"amount_returned" json:"amount_returned"`
	Variance       float64            `bson:"variance" json:"variance"` // signed; positive = unaccounted cash
	Status         BookoutStatus      `bson:"status" json:"status"`
	ReconciledBy   string             `bson:"reconciled_by,omitempty" json:"reconciled_by,omitempty"`
	ReconciledAt   *time.Time         `bson:"reconciled_at,omitempty" json:"reconciled_at,omitempty"`
	Operator       string             `bson:"operator,omitempty" json:"operator,omitempty"`
	Notes          string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}
