package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ukydev/fleet-ops-ledger/internal/faults"
	"github.com/ukydev/fleet-ops-ledger/internal/models"
)

// Registry collections are read-only from the ledger's point of view: the
// core consults them for consumption ratios, standing driver assignments and
// client snapshots. Their CRUD lives elsewhere.

// MongoVehicleCollection wraps the vehicle registry collection.
type MongoVehicleCollection struct {
	Collection *mongo.Collection
}

// FindVehicleByID finds a vehicle by id within the company.
func (c *MongoVehicleCollection) FindVehicleByID(ctx context.Context, companyID, id string) (*models.Vehicle, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid vehicle ID: %w", faults.ErrNotFound)
	}
	var vehicle models.Vehicle
	err = c.Collection.FindOne(ctx, bson.M{"_id": oid, "company_id": companyID}).Decode(&vehicle)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, faults.ErrNotFound
		}
		return nil, err
	}
	if vehicle.CompanyID != companyID {
		return nil, faults.ErrTenantMismatch
	}
	return &vehicle, nil
}

// CountActiveVehicles counts active company vehicles.
func (c *MongoVehicleCollection) CountActiveVehicles(ctx context.Context, companyID string) (int64, error) {
	return c.Collection.CountDocuments(ctx, bson.M{
		"company_id": companyID,
		"status":     "active",
	})
}

// MongoDriverCollection wraps the driver registry collection.
type MongoDriverCollection struct {
	Collection *mongo.Collection
}

// FindDriverByID finds a driver by id within the company.
func (c *MongoDriverCollection) FindDriverByID(ctx context.Context, companyID, id string) (*models.Driver, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid driver ID: %w", faults.ErrNotFound)
	}
	var driver models.Driver
	err = c.Collection.FindOne(ctx, bson.M{"_id": oid, "company_id": companyID}).Decode(&driver)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, faults.ErrNotFound
		}
		return nil, err
	}
	if driver.CompanyID != companyID {
		return nil, faults.ErrTenantMismatch
	}
	return &driver, nil
}

// MongoClientCollection wraps the client registry collection.
type MongoClientCollection struct {
	Collection *mongo.Collection
}

// FindClientByID finds a client by id within the company.
func (c *MongoClientCollection) FindClientByID(ctx context.Context, companyID, id string) (*models.Client, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid client ID: %w", faults.ErrNotFound)
	}
	var client models.Client
	err = c.Collection.FindOne(ctx, bson.M{"_id": oid, "company_id": companyID}).Decode(&client)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, faults.ErrNotFound
		}
		return nil, err
	}
	if client.CompanyID != companyID {
		return nil, faults.ErrTenantMismatch
	}
	return &client, nil
}
