package models

import "time"

// TimeSlot is an admin-managed window offered to demo bookings.
type TimeSlot struct {
	ID        string    `db:"id" json:"id"`
	Date      string    `db:"date" json:"date"`
	TimeRange string    `db:"time_range" json:"time_range"`
	Capacity  int       `db:"capacity" json:"capacity"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
