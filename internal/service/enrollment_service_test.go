package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepatef/prepatef-api/internal/models"
	appErrors "github.com/prepatef/prepatef-api/pkg/errors"
)

type mockEnrollmentRepo struct {
	enrollments map[string]*models.Enrollment
	createErr   error
	created     int
}

func (m *mockEnrollmentRepo) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error) {
	return nil, 0, nil
}

func (m *mockEnrollmentRepo) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	if e, ok := m.enrollments[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEnrollmentRepo) CreateWithStudent(ctx context.Context, student *models.Student, enrollment *models.Enrollment) error {
	if m.createErr != nil {
		return m.createErr
	}
	student.ID = "student-1"
	enrollment.ID = "enrollment-1"
	enrollment.StudentID = student.ID
	m.created++
	return nil
}

func (m *mockEnrollmentRepo) UpdateStatuses(ctx context.Context, id string, payment models.PaymentStatus, status models.EnrollmentStatus) error {
	e, ok := m.enrollments[id]
	if !ok {
		return sql.ErrNoRows
	}
	e.PaymentStatus = payment
	e.Status = status
	return nil
}

type mockStudentLookup struct {
	taken map[string]bool
}

func (m *mockStudentLookup) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	return m.taken[email], nil
}

type recordingNotifier struct {
	enrollments []string
}

func (r *recordingNotifier) NotifyEnrollment(student *models.Student, enrollment *models.Enrollment) {
	r.enrollments = append(r.enrollments, enrollment.ID)
}

func validEnrollRequest() EnrollRequest {
	return EnrollRequest{
		FullName:   "Amina Diallo",
		Email:      "amina@example.com",
		Phone:      "+33612345678",
		TargetExam: "TEF Canada",
		CourseID:   "tef-intensif",
		CourseName: "Formation TEF Intensive",
	}
}

func TestEnrollCreatesStudentAndEnrollment(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	notifier := &recordingNotifier{}
	service := NewEnrollmentService(repo, &mockStudentLookup{}, notifier, nil, nil, nil)

	result, err := service.Enroll(context.Background(), validEnrollRequest())
	require.NoError(t, err)
	assert.Equal(t, "student-1", result.Student.ID)
	assert.Equal(t, "student-1", result.Enrollment.StudentID)
	assert.Equal(t, models.PaymentStatusPending, result.Enrollment.PaymentStatus)
	assert.Equal(t, models.EnrollmentStatusActive, result.Enrollment.Status)
	assert.Equal(t, models.StudentStatusActive, result.Student.Status)
	assert.Equal(t, 1, repo.created)
	assert.Equal(t, []string{"enrollment-1"}, notifier.enrollments)
}

func TestEnrollDuplicateEmail(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	lookup := &mockStudentLookup{taken: map[string]bool{"amina@example.com": true}}
	service := NewEnrollmentService(repo, lookup, &recordingNotifier{}, nil, nil, nil)

	_, err := service.Enroll(context.Background(), validEnrollRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, 0, repo.created)
}

func TestEnrollInvalidPayload(t *testing.T) {
	service := NewEnrollmentService(&mockEnrollmentRepo{}, &mockStudentLookup{}, &recordingNotifier{}, nil, nil, nil)

	req := validEnrollRequest()
	req.Email = "not-an-email"
	_, err := service.Enroll(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
}

func TestUpdateEnrollmentStatus(t *testing.T) {
	repo := &mockEnrollmentRepo{enrollments: map[string]*models.Enrollment{
		"e1": {ID: "e1", PaymentStatus: models.PaymentStatusPending, Status: models.EnrollmentStatusActive},
	}}
	service := NewEnrollmentService(repo, &mockStudentLookup{}, &recordingNotifier{}, nil, nil, nil)

	updated, err := service.UpdateStatus(context.Background(), "e1", UpdateEnrollmentStatusRequest{
		PaymentStatus: "PAID",
		Status:        "COMPLETED",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, updated.PaymentStatus)
	assert.Equal(t, models.EnrollmentStatusCompleted, updated.Status)
}

func TestUpdateEnrollmentStatusRejectsUnknownValue(t *testing.T) {
	service := NewEnrollmentService(&mockEnrollmentRepo{}, &mockStudentLookup{}, &recordingNotifier{}, nil, nil, nil)

	_, err := service.UpdateStatus(context.Background(), "e1", UpdateEnrollmentStatusRequest{
		PaymentStatus: "SETTLED",
		Status:        "ACTIVE",
	})
	require.Error(t, err)
}

func TestUpdateEnrollmentStatusNotFound(t *testing.T) {
	service := NewEnrollmentService(&mockEnrollmentRepo{}, &mockStudentLookup{}, &recordingNotifier{}, nil, nil, nil)

	_, err := service.UpdateStatus(context.Background(), "missing", UpdateEnrollmentStatusRequest{
		PaymentStatus: "PAID",
		Status:        "ACTIVE",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}
