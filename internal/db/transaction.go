package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ukydev/fleet-ops-ledger/internal/models"
)

// MongoTransactionCollection wraps a MongoDB collection for ledger stamps.
type MongoTransactionCollection struct {
	Collection *mongo.Collection
}

// InsertTransaction inserts a transaction record and returns its id.
func (c *MongoTransactionCollection) InsertTransaction(ctx context.Context, txn models.Transaction) (string, error) {
	txn.CreatedAt = time.Now()
	res, err := c.Collection.InsertOne(ctx, txn)
	if err != nil {
		return "", err
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

// FindTransactionsByTrip lists transactions stamped against a trip.
func (c *MongoTransactionCollection) FindTransactionsByTrip(ctx context.Context, companyID, tripID string) ([]models.Transaction, error) {
	cursor, err := c.Collection.Find(ctx,
		bson.M{"company_id": companyID, "trip_id": tripID},
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var txns []models.Transaction
	if err := cursor.All(ctx, &txns); err != nil {
		return nil, err
	}
	return txns, nil
}
