package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo connects to MongoDB at the given URI and verifies the
// connection with a ping.
func ConnectMongo(uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect error: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	// Ping to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo.Ping error: %w", err)
	}
	return client, nil
}

// Stores bundles the collections the services operate on.
type Stores struct {
	Trips        TripCollection
	Bookouts     BookoutCollection
	Expenses     ExpenseCollection
	Invoices     InvoiceCollection
	Transactions TransactionCollection
	Vehicles     VehicleCollection
	Drivers      DriverCollection
	Clients      ClientCollection
	Users        UserCollection
}

// NewStores wires the Mongo-backed collections for a database handle.
func NewStores(database *mongo.Database) *Stores {
	return &Stores{
		Trips:        &MongoTripCollection{Collection: database.Collection("trips")},
		Bookouts:     &MongoBookoutCollection{Collection: database.Collection("trip_bookouts")},
		Expenses:     &MongoExpenseCollection{Collection: database.Collection("expense_records")},
		Invoices:     &MongoInvoiceCollection{Collection: database.Collection("invoices")},
		Transactions: &MongoTransactionCollection{Collection: database.Collection("transactions")},
		Vehicles:     &MongoVehicleCollection{Collection: database.Collection("vehicles")},
		Drivers:      &MongoDriverCollection{Collection: database.Collection("drivers")},
		Clients:      &MongoClientCollection{Collection: database.Collection("clients")},
		Users:        &MongoUserCollection{Collection: database.Collection("users")},
	}
}
