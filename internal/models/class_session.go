package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// SessionStatus is the review state of a class session report.
type SessionStatus string

const (
	SessionStatusPending  SessionStatus = "PENDING_APPROVAL"
	SessionStatusApproved SessionStatus = "APPROVED"
	SessionStatusRejected SessionStatus = "REJECTED"
)

// SessionAttendee records a student's presence in a session. StudentName is a
// denormalized copy taken when the session is reported.
type SessionAttendee struct {
	StudentID   string `json:"student_id" validate:"required"`
	StudentName string `json:"student_name" validate:"required"`
	Present     bool   `json:"present"`
}

// SessionAttendeeList stores embedded attendees as a JSONB column.
type SessionAttendeeList []SessionAttendee

// Value implements driver.Valuer.
func (l SessionAttendeeList) Value() (driver.Value, error) {
	if l == nil {
		l = SessionAttendeeList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *SessionAttendeeList) Scan(src interface{}) error {
	if src == nil {
		*l = SessionAttendeeList{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported attendee source type %T", src)
	}
}

// ClassSession is a taught class reported by a teacher, pending admin review.
type ClassSession struct {
	ID          string              `db:"id" json:"id"`
	Date        string              `db:"date" json:"date"`
	TimeRange   string              `db:"time_range" json:"time_range"`
	CourseName  string              `db:"course_name" json:"course_name"`
	TeacherID   string              `db:"teacher_id" json:"teacher_id"`
	TeacherName string              `db:"teacher_name" json:"teacher_name"`
	Attendees   SessionAttendeeList `db:"attendees" json:"attendees"`
	Status      SessionStatus       `db:"status" json:"status"`
	CreatedAt   time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time           `db:"updated_at" json:"updated_at"`
}

// ClassSessionFilter provides filters for listing sessions.
type ClassSessionFilter struct {
	TeacherID string
	Status    SessionStatus
	DateFrom  string
	DateTo    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
