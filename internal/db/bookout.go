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

// MongoBookoutCollection wraps a MongoDB collection for bookout operations.
type MongoBookoutCollection struct {
	Collection *mongo.Collection
}

// InsertBookout inserts a bookout record and returns its id.
func (c *MongoBookoutCollection) InsertBookout(ctx context.Context, bookout models.Bookout) (string, error) {
	bookout.CreatedAt = time.Now()
	bookout.UpdatedAt = time.Now()
	res, err := c.Collection.InsertOne(ctx, bookout)
	if err != nil {
		return "", err
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

// FindBookoutByID finds a bookout by id within the company.
func (c *MongoBookoutCollection) FindBookoutByID(ctx context.Context, companyID, id string) (*models.Bookout, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid bookout ID: %w", faults.ErrNotFound)
	}
	var bookout models.Bookout
	err = c.Collection.FindOne(ctx, bson.M{"_id": oid, "company_id": companyID}).Decode(&bookout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, faults.ErrNotFound
		}
		return nil, err
	}
	if bookout.CompanyID != companyID {
		return nil, faults.ErrTenantMismatch
	}
	return &bookout, nil
}

// FindBookoutsByTrip lists the bookouts issued against a trip.
func (c *MongoBookoutCollection) FindBookoutsByTrip(ctx context.Context, companyID, tripID string) ([]models.Bookout, error) {
	cursor, err := c.Collection.Find(ctx,
		bson.M{"company_id": companyID, "trip_id": tripID},
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bookouts []models.Bookout
	if err := cursor.All(ctx, &bookouts); err != nil {
		return nil, err
	}
	return bookouts, nil
}

// ReconcileBookout performs the one-shot pending -> reconciled swap. The
// filter pins status=pending, so a second reconcile finds nothing to match.
func (c *MongoBookoutCollection) ReconcileBookout(ctx context.Context, companyID, id string, spent, returned, variance float64, actor string, at time.Time) (*models.Bookout, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid bookout ID: %w", faults.ErrNotFound)
	}
	var bookout models.Bookout
	err = c.Collection.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "company_id": companyID, "status": models.BookoutPending},
		bson.M{"$set": bson.M{
			"status":          models.BookoutReconciled,
			"amount_spent":    spent,
			"amount_returned": returned,
			"variance":        variance,
			"reconciled_by":   actor,
			"reconciled_at":   at,
			"updated_at":      time.Now(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&bookout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, faults.ErrNotFound
		}
		return nil, err
	}
	return &bookout, nil
}
