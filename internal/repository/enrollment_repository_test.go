package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepatef/prepatef-api/internal/models"
)

func TestEnrollmentRepositoryCreateWithStudent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO students").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO enrollments").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	student := &models.Student{FullName: "Amina Diallo", Email: "amina@example.com", Status: models.StudentStatusActive}
	enrollment := &models.Enrollment{CourseID: "course-1", CourseName: "Formation TEF Intensive", PaymentStatus: models.PaymentStatusPending, Status: models.EnrollmentStatusActive}

	err := repo.CreateWithStudent(context.Background(), student, enrollment)
	require.NoError(t, err)
	assert.NotEmpty(t, student.ID)
	assert.NotEmpty(t, enrollment.ID)
	assert.Equal(t, student.ID, enrollment.StudentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCreateWithStudentRollsBack(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO students").WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	student := &models.Student{FullName: "Amina Diallo", Email: "amina@example.com", Status: models.StudentStatusActive}
	enrollment := &models.Enrollment{CourseID: "course-1", CourseName: "Formation TEF Intensive"}

	err := repo.CreateWithStudent(context.Background(), student, enrollment)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryUpdateStatusesNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec("UPDATE enrollments SET payment_status").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatuses(context.Background(), "missing", models.PaymentStatusPaid, models.EnrollmentStatusCompleted)
	require.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
