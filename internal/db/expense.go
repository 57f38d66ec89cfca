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

// MongoExpenseCollection wraps a MongoDB collection for expense operations.
type MongoExpenseCollection struct {
	Collection *mongo.Collection
}

// InsertExpense inserts an expense record and returns its id.
func (c *MongoExpenseCollection) InsertExpense(ctx context.Context, expense models.Expense) (string, error) {
	expense.CreatedAt = time.Now()
	expense.UpdatedAt = time.Now()
	res, err := c.Collection.InsertOne(ctx, expense)
	if err != nil {
		return "", err
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

// FindExpenseByID finds an expense by id within the company.
func (c *MongoExpenseCollection) FindExpenseByID(ctx context.Context, companyID, id string) (*models.Expense, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid expense ID: %w", faults.ErrNotFound)
	}
	var expense models.Expense
	err = c.Collection.FindOne(ctx, bson.M{"_id": oid, "company_id": companyID}).Decode(&expense)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, faults.ErrNotFound
		}
		return nil, err
	}
	if expense.CompanyID != companyID {
		return nil, faults.ErrTenantMismatch
	}
	return &expense, nil
}

// FindExpensesByTrip lists expenses linked to a trip.
func (c *MongoExpenseCollection) FindExpensesByTrip(ctx context.Context, companyID, tripID string) ([]models.Expense, error) {
	cursor, err := c.Collection.Find(ctx,
		bson.M{"company_id": companyID, "trip_id": tripID},
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var expenses []models.Expense
	if err := cursor.All(ctx, &expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

// FindExpenses lists company expenses, optionally by status and date window.
func (c *MongoExpenseCollection) FindExpenses(ctx context.Context, companyID string, status models.ExpenseStatus, from, to *time.Time) ([]models.Expense, error) {
	query := bson.M{"company_id": companyID}
	if status != "" {
		query["status"] = status
	}
	if from != nil || to != nil {
		dateRange := bson.M{}
		if from != nil {
			dateRange["$gte"] = *from
		}
		if to != nil {
			dateRange["$lte"] = *to
		}
		query["date"] = dateRange
	}

	cursor, err := c.Collection.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var expenses []models.Expense
	if err := cursor.All(ctx, &expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

// DecideExpense performs the one-shot pending -> approved/rejected swap.
func (c *MongoExpenseCollection) DecideExpense(ctx context.Context, companyID, id string, to models.ExpenseStatus, actor, reason string, at time.Time) (*models.Expense, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid expense ID: %w", faults.ErrNotFound)
	}
	set := bson.M{
		"status":     to,
		"decided_by": actor,
		"decided_at": at,
		"updated_at": time.Now(),
	}
	if reason != "" {
		set["rejection_reason"] = reason
	}
	var expense models.Expense
	err = c.Collection.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "company_id": companyID, "status": models.ExpensePending},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&expense)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, faults.ErrNotFound
		}
		return nil, err
	}
	return &expense, nil
}

// CountPendingExpenses counts undecided company expenses.
func (c *MongoExpenseCollection) CountPendingExpenses(ctx context.Context, companyID string) (int64, error) {
	return c.Collection.CountDocuments(ctx, bson.M{
		"company_id": companyID,
		"status":     models.ExpensePending,
	})
}
