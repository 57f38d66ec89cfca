package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TripStatus is the lifecycle state of a trip.
type TripStatus string

const (
	TripPlanned   TripStatus = "planned"
	TripLoading   TripStatus = "loading"
	TripInTransit TripStatus = "in_transit"
	TripDelivered TripStatus = "delivered"
	TripCompleted TripStatus = "completed"
	TripCancelled TripStatus = "cancelled"
)

// LoadStatus says whether the vehicle runs loaded or empty; it selects the
// fuel consumption ratio.
type LoadStatus string

const (
	Loaded LoadStatus = "loaded"
	Empty  LoadStatus = "empty"
)

// Trip represents a haul from origin to destination for a client.
type Trip struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CompanyID       string             `bson:"company_id" json:"company_id"`
	Reference       string             `bson:"reference" json:"reference"` // unique per company
	Origin          string             `bson:"origin" json:"origin"`
	Destination     string             `bson:"destination" json:"destination"`
	DistanceKM      float64            `bson:"distance_km" json:"distance_km"`
	VehicleID       string             `bson:"vehicle_id,omitempty" json:"vehicle_id,omitempty"`
	DriverID        string             `bson:"driver_id,omitempty" json:"driver_id,omitempty"`
	ClientID        string             `bson:"client_id,omitempty" json:"client_id,omitempty"`
	DepartureDate   time.Time          `bson:"departure_date" json:"departure_date"`
	ETA             *time.Time         `bson:"eta,omitempty" json:"eta,omitempty"`
	Rate            float64            `bson:"rate" json:"rate"`
	Tonnage         float64            `bson:"tonnage" json:"tonnage"`
	CargoDesc       string             `bson:"cargo_desc" json:"cargo_desc"`
	LoadStatus      LoadStatus         `bson:"load_status" json:"load_status"`
	FuelAllocated   float64            `bson:"fuel_allocated" json:"fuel_allocated"` // liters
	TripCost        float64            `bson:"trip_cost" json:"trip_cost"`
	Status          TripStatus         `bson:"status" json:"status"`
	ProgressPercent float64            `bson:"progress_percent" json:"progress_percent"` // meaningful only while in_transit
	CompletedAt     *time.Time         `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}
