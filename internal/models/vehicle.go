package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vehicle represents a fleet vehicle. Consumption ratios are km traveled per
// liter; the loaded ratio applies when the vehicle carries cargo.
type Vehicle struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CompanyID    string             `bson:"company_id" json:"company_id"`
	Registration string             `bson:"registration" json:"registration"`
	Make         string             `bson:"make" json:"make"`
	Model        string             `bson:"model" json:"model"`
	Year         int                `bson:"year" json:"year"`
	LoadedKMPerL float64            `bson:"loaded_km_per_l" json:"loaded_km_per_l"`
	EmptyKMPerL  float64            `bson:"empty_km_per_l" json:"empty_km_per_l"`
	TankCapacity float64            `bson:"tank_capacity" json:"tank_capacity"` // liters
	DriverID     string             `bson:"driver_id,omitempty" json:"driver_id,omitempty"` // standing assignment
	Status       string             `bson:"status" json:"status"`                           // "active" or "inactive"
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}
