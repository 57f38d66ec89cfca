package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/fleet-ops-ledger/internal/db"
	"github.com/ukydev/fleet-ops-ledger/internal/models"
)

// Service stamps minimal external-ledger transactions as a side effect of
// reconciliations and payments. Stamping is best-effort: a failure here must
// never undo the state transition that triggered it, so callers log and move
// on.
type Service struct {
	transactions db.TransactionCollection
}

// NewService creates a ledger stamping service.
func NewService(transactions db.TransactionCollection) *Service {
	return &Service{transactions: transactions}
}

// StampBookoutReconciled posts a transaction for a reconciled bookout.
func (s *Service) StampBookoutReconciled(ctx context.Context, b *models.Bookout) {
	txn := models.Transaction{
		CompanyID: b.CompanyID,
		Number:    newNumber(),
		Date:      time.Now(),
		Type:      models.TxnBookoutReconciled,
		Amount:    b.AmountSpent,
		Status:    "posted",
		TripID:    b.TripID,
		VehicleID: b.VehicleID,
		DriverID:  b.DriverID,
	}
	if _, err := s.transactions.InsertTransaction(ctx, txn); err != nil {
		log.WithError(err).WithField("bookout", b.ID.Hex()).Warn("failed to stamp bookout transaction")
	}
}

// StampInvoicePayment posts a transaction for a paid invoice.
func (s *Service) StampInvoicePayment(ctx context.Context, inv *models.Invoice) {
	txn := models.Transaction{
		CompanyID: inv.CompanyID,
		Number:    newNumber(),
		Date:      time.Now(),
		Type:      models.TxnInvoicePayment,
		Amount:    inv.TotalAmount,
		Status:    "posted",
		TripID:    inv.TripID,
		ClientID:  inv.ClientID,
	}
	if _, err := s.transactions.InsertTransaction(ctx, txn); err != nil {
		log.WithError(err).WithField("invoice", inv.Number).Warn("failed to stamp payment transaction")
	}
}

// ListByTrip returns the transactions stamped against a trip.
func (s *Service) ListByTrip(ctx context.Context, companyID, tripID string) ([]models.Transaction, error) {
	return s.transactions.FindTransactionsByTrip(ctx, companyID, tripID)
}

func newNumber() string {
	return "TXN-" + strings.ToUpper(uuid.NewString()[:8])
}
