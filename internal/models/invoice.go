package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InvoiceStatus is the stored workflow state of an invoice. Overdue is never
// stored: it is derived from status and due date at read time.
type InvoiceStatus string

const (
	InvoiceDraft   InvoiceStatus = "draft"
	InvoiceSent    InvoiceStatus = "sent"
	InvoicePaid    InvoiceStatus = "paid"
	InvoicePartial InvoiceStatus = "partial"
	InvoiceOverdue InvoiceStatus = "overdue" // derived only
)

// Invoice bills a client for a trip.
type Invoice struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CompanyID     string             `bson:"company_id" json:"company_id"`
	Number        string             `bson:"number" json:"number"` // unique per company
	InvoiceDate   time.Time          `bson:"invoice_date" json:"invoice_date"`
	DueDate       time.Time          `bson:"due_date" json:"due_date"`
	TripID        string             `bson:"trip_id" json:"trip_id"`
	ClientID      string             `bson:"client_id,omitempty" json:"client_id,omitempty"`
	ClientName    string             `bson:"client_name" json:"client_name"` // denormalized at creation
	ClientContact string             `bson:"client_contact,omitempty" json:"client_contact,omitempty"`
	Route         string             `bson:"route" json:"route"` // origin - destination snapshot
	DistanceKM    float64            `bson:"distance_km" json:"distance_km"`
	TotalAmount   float64            `bson:"total_amount" json:"total_amount"`
	Currency      string             `bson:"currency" json:"currency"`
	TermsDays     int                `bson:"terms_days" json:"terms_days"`
	Status        InvoiceStatus      `bson:"status" json:"status"`
	SentAt        *time.Time         `bson:"sent_at,omitempty" json:"sent_at,omitempty"`
	PaidAt        *time.Time         `bson:"paid_at,omitempty" json:"paid_at,omitempty"`
	PaymentMethod string             `bson:"payment_method,omitempty" json:"payment_method,omitempty"`
	PaymentRef    string             `bson:"payment_ref,omitempty" json:"payment_ref,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

// EffectiveStatus derives the reported status at the given instant: a sent
// invoice past its due date is overdue.
func (inv *Invoice) EffectiveStatus(now time.Time) InvoiceStatus {
	if inv.Status == InvoiceSent && inv.DueDate.Before(now) {
		return InvoiceOverdue
	}
	return inv.Status
}
