package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ukydev/fleet-ops-ledger/internal/faults"
	"github.com/ukydev/fleet-ops-ledger/internal/models"
)

// MongoInvoiceCollection wraps a MongoDB collection for invoice operations.
type MongoInvoiceCollection struct {
	Collection *mongo.Collection
}

// InsertInvoice inserts an invoice record and returns its id.
func (c *MongoInvoiceCollection) InsertInvoice(ctx context.Context, invoice models.Invoice) (string, error) {
	invoice.CreatedAt = time.Now()
	invoice.UpdatedAt = time.Now()
	res, err := c.Collection.InsertOne(ctx, invoice)
	if err != nil {
		return "", err
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

// FindInvoiceByID finds an invoice by id within the company.
func (c *MongoInvoiceCollection) FindInvoiceByID(ctx context.Context, companyID, id string) (*models.Invoice, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid invoice ID: %w", faults.ErrNotFound)
	}
	var invoice models.Invoice
	err = c.Collection.FindOne(ctx, bson.M{"_id": oid, "company_id": companyID}).Decode(&invoice)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, faults.ErrNotFound
		}
		return nil, err
	}
	if invoice.CompanyID != companyID {
		return nil, faults.ErrTenantMismatch
	}
	return &invoice, nil
}

// FindInvoicesByTrip lists invoices raised for a trip.
func (c *MongoInvoiceCollection) FindInvoicesByTrip(ctx context.Context, companyID, tripID string) ([]models.Invoice, error) {
	cursor, err := c.Collection.Find(ctx,
		bson.M{"company_id": companyID, "trip_id": tripID},
		options.Find().SetSort(bson.D{{Key: "invoice_date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var invoices []models.Invoice
	if err := cursor.All(ctx, &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindInvoicesByStatus lists company invoices in any of the stored statuses.
func (c *MongoInvoiceCollection) FindInvoicesByStatus(ctx context.Context, companyID string, statuses ...models.InvoiceStatus) ([]models.Invoice, error) {
	cursor, err := c.Collection.Find(ctx, bson.M{
		"company_id": companyID,
		"status":     bson.M{"$in": statuses},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var invoices []models.Invoice
	if err := cursor.All(ctx, &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

// TransitionInvoice performs the compare-and-swap status change out of one of
// the allowed from-statuses.
func (c *MongoInvoiceCollection) TransitionInvoice(ctx context.Context, companyID, id string, from []models.InvoiceStatus, to models.InvoiceStatus, fields map[string]interface{}) (*models.Invoice, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid invoice ID: %w", faults.ErrNotFound)
	}
	set := bson.M{"status": to, "updated_at": time.Now()}
	for k, v := range fields {
		set[k] = v
	}
	var invoice models.Invoice
	err = c.Collection.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "company_id": companyID, "status": bson.M{"$in": from}},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&invoice)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, faults.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}
