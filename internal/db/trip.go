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

// MongoTripCollection wraps a MongoDB collection for trip operations.
type MongoTripCollection struct {
	Collection *mongo.Collection
}

// InsertTrip inserts a trip record and returns its id.
func (c *MongoTripCollection) InsertTrip(ctx context.Context, trip models.Trip) (string, error) {
	trip.CreatedAt = time.Now()
	trip.UpdatedAt = time.Now()
	res, err := c.Collection.InsertOne(ctx, trip)
	if err != nil {
		return "", err
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

// FindTripByID finds a trip by id within the company.
func (c *MongoTripCollection) FindTripByID(ctx context.Context, companyID, id string) (*models.Trip, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid trip ID: %w", faults.ErrNotFound)
	}
	var trip models.Trip
	err = c.Collection.FindOne(ctx, bson.M{"_id": oid, "company_id": companyID}).Decode(&trip)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, faults.ErrNotFound
		}
		return nil, err
	}
	if trip.CompanyID != companyID {
		return nil, faults.ErrTenantMismatch
	}
	return &trip, nil
}

// FindTrips queries trip records for the company.
func (c *MongoTripCollection) FindTrips(ctx context.Context, companyID string, filter TripFilter) ([]models.Trip, error) {
	query := bson.M{"company_id": companyID}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.DriverID != "" {
		query["driver_id"] = filter.DriverID
	}
	if filter.ClientID != "" {
		query["client_id"] = filter.ClientID
	}
	if filter.From != nil || filter.To != nil {
		dateRange := bson.M{}
		if filter.From != nil {
			dateRange["$gte"] = *filter.From
		}
		if filter.To != nil {
			dateRange["$lte"] = *filter.To
		}
		query["departure_date"] = dateRange
	}

	cursor, err := c.Collection.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "departure_date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var trips []models.Trip
	if err := cursor.All(ctx, &trips); err != nil {
		return nil, err
	}
	return trips, nil
}

// UpdateTripFields sets individual fields on a trip.
func (c *MongoTripCollection) UpdateTripFields(ctx context.Context, companyID, id string, fields map[string]interface{}) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid trip ID: %w", faults.ErrNotFound)
	}
	set := bson.M{"updated_at": time.Now()}
	for k, v := range fields {
		set[k] = v
	}
	res, err := c.Collection.UpdateOne(ctx,
		bson.M{"_id": oid, "company_id": companyID},
		bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return faults.ErrNotFound
	}
	return nil
}

// TransitionTrip performs the compare-and-swap status change: the filter pins
// the current status, so two concurrent transitions cannot both match.
func (c *MongoTripCollection) TransitionTrip(ctx context.Context, companyID, id string, from, to models.TripStatus, fields map[string]interface{}) (*models.Trip, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid trip ID: %w", faults.ErrNotFound)
	}
	set := bson.M{"status": to, "updated_at": time.Now()}
	for k, v := range fields {
		set[k] = v
	}
	var trip models.Trip
	err = c.Collection.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "company_id": companyID, "status": from},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&trip)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, faults.ErrNotFound
		}
		return nil, err
	}
	return &trip, nil
}

// UpdateProgress sets progress_percent; the filter requires in_transit so
// stale updates after delivery are dropped.
func (c *MongoTripCollection) UpdateProgress(ctx context.Context, companyID, id string, percent float64) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid trip ID: %w", faults.ErrNotFound)
	}
	res, err := c.Collection.UpdateOne(ctx,
		bson.M{"_id": oid, "company_id": companyID, "status": models.TripInTransit},
		bson.M{"$set": bson.M{"progress_percent": percent, "updated_at": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return faults.ErrNotFound
	}
	return nil
}

// CountTripsByStatus counts company trips in any of the given statuses.
func (c *MongoTripCollection) CountTripsByStatus(ctx context.Context, companyID string, statuses ...models.TripStatus) (int64, error) {
	return c.Collection.CountDocuments(ctx, bson.M{
		"company_id": companyID,
		"status":     bson.M{"$in": statuses},
	})
}
