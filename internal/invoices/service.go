package invoices

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ukydev/fleet-ops-ledger/internal/db"
	"github.com/ukydev/fleet-ops-ledger/internal/faults"
	"github.com/ukydev/fleet-ops-ledger/internal/ledger"
	"github.com/ukydev/fleet-ops-ledger/internal/models"
	"github.com/ukydev/fleet-ops-ledger/internal/statemachine"
)

// DefaultTermsDays applies when payment terms are not supplied.
const DefaultTermsDays = 30

// Workflow is the stored invoice transition table. Overdue never appears:
// it is derived from sent + due date at read time.
var Workflow = statemachine.New("invoice", map[models.InvoiceStatus][]models.InvoiceStatus{
	models.InvoiceDraft:   {models.InvoiceSent},
	models.InvoiceSent:    {models.InvoicePaid, models.InvoicePartial},
	models.InvoicePartial: {models.InvoicePaid},
})

// Service owns the client invoice workflow.
type Service struct {
	invoices db.InvoiceCollection
	trips    db.TripCollection
	clients  db.ClientCollection
	ledger   *ledger.Service
}

// NewService creates an invoice service.
func NewService(invoices db.InvoiceCollection, trips db.TripCollection, clients db.ClientCollection, ledgerSvc *ledger.Service) *Service {
	return &Service{invoices: invoices, trips: trips, clients: clients, ledger: ledgerSvc}
}

// CreateInput carries the fields for a new invoice.
type CreateInput struct {
	Number      string
	TripID      string
	ClientID    string
	InvoiceDate time.Time
	TermsDays   int
	TotalAmount float64
	Currency    string
}

// Create raises a draft invoice against a trip. The due date is the invoice
// date plus the payment terms; client name and contact are denormalized at
// creation so later registry edits don't rewrite issued invoices.
func (s *Service) Create(ctx context.Context, companyID string, in CreateInput) (*models.Invoice, error) {
	if in.TripID == "" {
		return nil, faults.Invalid("trip_id", "required")
	}
	trip, err := s.trips.FindTripByID(ctx, companyID, in.TripID)
	if err != nil {
		return nil, err
	}
	if in.TotalAmount <= 0 {
		return nil, faults.Invalid("total_amount", "must be positive")
	}
	if in.InvoiceDate.IsZero() {
		return nil, faults.Invalid("invoice_date", "required")
	}
	if in.TermsDays < 0 {
		return nil, faults.Invalid("terms_days", "must be non-negative")
	}
	terms := in.TermsDays
	if terms == 0 {
		terms = DefaultTermsDays
	}

	clientID := in.ClientID
	if clientID == "" {
		clientID = trip.ClientID
	}
	var clientName, clientContact string
	if clientID != "" {
		client, err := s.clients.FindClientByID(ctx, companyID, clientID)
		if err != nil {
			return nil, err
		}
		clientName = client.Name
		clientContact = client.Contact
	}

	number := strings.TrimSpace(in.Number)
	if number == "" {
		number = "INV-" + strings.ToUpper(uuid.NewString()[:8])
	}
	currency := in.Currency
	if currency == "" {
		currency = "USD"
	}

	invoice := models.Invoice{
		CompanyID:     companyID,
		Number:        number,
		InvoiceDate:   in.InvoiceDate,
		DueDate:       in.InvoiceDate.AddDate(0, 0, terms),
		TripID:        in.TripID,
		ClientID:      clientID,
		ClientName:    clientName,
		ClientContact: clientContact,
		Route:         fmt.Sprintf("%s - %s", trip.Origin, trip.Destination),
		DistanceKM:    trip.DistanceKM,
		TotalAmount:   in.TotalAmount,
		Currency:      currency,
		TermsDays:     terms,
		Status:        models.InvoiceDraft,
	}

	id, err := s.invoices.InsertInvoice(ctx, invoice)
	if err != nil {
		return nil, err
	}
	return s.invoices.FindInvoiceByID(ctx, companyID, id)
}

// Send moves a draft invoice to sent and stamps the sent time.
func (s *Service) Send(ctx context.Context, companyID, id string) (*models.Invoice, error) {
	return s.transition(ctx, companyID, id,
		[]models.InvoiceStatus{models.InvoiceDraft},
		models.InvoiceSent,
		map[string]interface{}{"sent_at": time.Now()})
}

// MarkPaid settles a sent or partially paid invoice, stamping the paid time
// and optional payment method/reference, and posts a ledger transaction.
func (s *Service) MarkPaid(ctx context.Context, companyID, id, method, reference string) (*models.Invoice, error) {
	fields := map[string]interface{}{"paid_at": time.Now()}
	if method != "" {
		fields["payment_method"] = method
	}
	if reference != "" {
		fields["payment_ref"] = reference
	}
	updated, err := s.transition(ctx, companyID, id,
		[]models.InvoiceStatus{models.InvoiceSent, models.InvoicePartial},
		models.InvoicePaid, fields)
	if err != nil {
		return nil, err
	}
	s.ledger.StampInvoicePayment(ctx, updated)
	return updated, nil
}

// RecordPartialPayment marks a sent invoice as partially paid.
func (s *Service) RecordPartialPayment(ctx context.Context, companyID, id, reference string) (*models.Invoice, error) {
	fields := map[string]interface{}{}
	if reference != "" {
		fields["payment_ref"] = reference
	}
	return s.transition(ctx, companyID, id,
		[]models.InvoiceStatus{models.InvoiceSent},
		models.InvoicePartial, fields)
}

func (s *Service) transition(ctx context.Context, companyID, id string, from []models.InvoiceStatus, to models.InvoiceStatus, fields map[string]interface{}) (*models.Invoice, error) {
	invoice, err := s.invoices.FindInvoiceByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := Workflow.Check(invoice.Status, to); err != nil {
		return nil, err
	}

	updated, err := s.invoices.TransitionInvoice(ctx, companyID, id, from, to, fields)
	if err != nil {
		if errors.Is(err, faults.ErrNotFound) {
			current, rerr := s.invoices.FindInvoiceByID(ctx, companyID, id)
			if rerr != nil {
				return nil, rerr
			}
			return nil, &faults.TransitionError{Entity: "invoice", From: string(current.Status), To: string(to)}
		}
		return nil, err
	}
	return updated, nil
}

// Get returns an invoice with its derived status applied.
func (s *Service) Get(ctx context.Context, companyID, id string) (*models.Invoice, error) {
	invoice, err := s.invoices.FindInvoiceByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	invoice.Status = invoice.EffectiveStatus(time.Now())
	return invoice, nil
}

// ListByTrip returns the invoices raised for a trip, derived statuses applied.
func (s *Service) ListByTrip(ctx context.Context, companyID, tripID string) ([]models.Invoice, error) {
	invoices, err := s.invoices.FindInvoicesByTrip(ctx, companyID, tripID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	for i := range invoices {
		invoices[i].Status = invoices[i].EffectiveStatus(now)
	}
	return invoices, nil
}
