package models

import "time"

// ProgressUpdate is the message published on the trip progress topic. Percent
// is clamped to [0,100] when applied; updates for trips that are not in
// transit are ignored.
type ProgressUpdate struct {
	CompanyID string    `json:"company_id"`
	TripID    string    `json:"trip_id"`
	Percent   float64   `json:"percent"`
	Timestamp time.Time `json:"timestamp"`
}
