package models

import "time"

// ContactLeadStatus tracks follow-up on contact form submissions.
type ContactLeadStatus string

const (
	ContactLeadStatusNew       ContactLeadStatus = "NEW"
	ContactLeadStatusContacted ContactLeadStatus = "CONTACTED"
	ContactLeadStatusClosed    ContactLeadStatus = "CLOSED"
)

// DemoLeadStatus tracks the demo booking lifecycle.
type DemoLeadStatus string

const (
	DemoLeadStatusPending   DemoLeadStatus = "PENDING"
	DemoLeadStatusConfirmed DemoLeadStatus = "CONFIRMED"
	DemoLeadStatusCancelled DemoLeadStatus = "CANCELLED"
)

// ContactLead is a submission of the public contact form.
type ContactLead struct {
	ID          string            `db:"id" json:"id"`
	Name        string            `db:"name" json:"name"`
	Email       string            `db:"email" json:"email"`
	Phone       string            `db:"phone" json:"phone,omitempty"`
	Message     string            `db:"message" json:"message"`
	Status      ContactLeadStatus `db:"status" json:"status"`
	SubmittedAt time.Time         `db:"submitted_at" json:"submitted_at"`
	UpdatedAt   time.Time         `db:"updated_at" json:"updated_at"`
}

// DemoRequestLead is a submission of the public demo booking form.
type DemoRequestLead struct {
	ID             string         `db:"id" json:"id"`
	Name           string         `db:"name" json:"name"`
	Email          string         `db:"email" json:"email"`
	Phone          string         `db:"phone" json:"phone"`
	CourseInterest string         `db:"course_interest" json:"course_interest"`
	TimeSlotID     string         `db:"time_slot_id" json:"time_slot_id"`
	Status         DemoLeadStatus `db:"status" json:"status"`
	SubmittedAt    time.Time      `db:"submitted_at" json:"submitted_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// LeadFilter provides filters for listing leads.
type LeadFilter struct {
	Search    string
	Status    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
