package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TransactionType tags the operation that produced a ledger transaction.
type TransactionType string

const (
	TxnBookoutReconciled TransactionType = "bookout_reconciled"
	TxnInvoicePayment    TransactionType = "invoice_payment"
)

// Transaction is the minimal external-ledger-facing record stamped as a side
// effect of reconciliations and payments. This is not a double-entry ledger.
type Transaction struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CompanyID string             `bson:"company_id" json:"company_id"`
	Number    string             `bson:"number" json:"number"`
	Date      time.Time          `bson:"date" json:"date"`
	Type      TransactionType    `bson:"type" json:"type"`
	Amount    float64            `bson:"amount" json:"amount"`
	Status    string             `bson:"status" json:"status"` // "posted" or "draft"
	TripID    string             `bson:"trip_id,omitempty" json:"trip_id,omitempty"`
	VehicleID string             `bson:"vehicle_id,omitempty" json:"vehicle_id,omitempty"`
	DriverID  string             `bson:"driver_id,omitempty" json:"driver_id,omitempty"`
	ClientID  string             `bson:"client_id,omitempty" json:"client_id,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
