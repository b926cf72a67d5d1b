package models

import "time"

// TeacherStatus is the lifecycle of a teacher profile.
type TeacherStatus string

const (
	TeacherStatusActive   TeacherStatus = "ACTIVE"
	TeacherStatusInactive TeacherStatus = "INACTIVE"
)

// Teacher is an instructor profile shown on the site and referenced by class
// sessions (by denormalized name copy).
type Teacher struct {
	ID          string        `db:"id" json:"id"`
	FullName    string        `db:"full_name" json:"full_name"`
	Email       string        `db:"email" json:"email"`
	Phone       string        `db:"phone" json:"phone"`
	Specialty   string        `db:"specialty" json:"specialty"`
	Bio         string        `db:"bio" json:"bio"`
	Status      TeacherStatus `db:"status" json:"status"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}
