package service

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepatef/prepatef-api/internal/models"
	appErrors "github.com/prepatef/prepatef-api/pkg/errors"
)

type mockStudentRepo struct {
	students map[string]*models.Student
}

func (m *mockStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	out := []models.Student{}
	for _, s := range m.students {
		out = append(out, *s)
	}
	return out, len(out), nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	s, ok := m.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *s
	return &cp, nil
}

func (m *mockStudentRepo) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	for _, s := range m.students {
		if strings.EqualFold(s.Email, email) && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = "student-1"
	}
	cp := *student
	m.students[student.ID] = &cp
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error {
	if _, ok := m.students[student.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *student
	m.students[student.ID] = &cp
	return nil
}

func (m *mockStudentRepo) Deactivate(ctx context.Context, id string) error {
	s, ok := m.students[id]
	if !ok {
		return sql.ErrNoRows
	}
	s.Status = models.StudentStatusInactive
	return nil
}

func validStudentRequest() StudentRequest {
	return StudentRequest{
		FullName:   "Amina Diallo",
		Email:      "amina@example.com",
		Phone:      "0612345678",
		TargetExam: "TEF Canada",
	}
}

func TestStudentCreate(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]*models.Student{}}
	svc := NewStudentService(repo, nil, nil)

	student, err := svc.Create(context.Background(), validStudentRequest())
	require.NoError(t, err)
	assert.Equal(t, models.StudentStatusActive, student.Status)
	assert.Len(t, repo.students, 1)
}

func TestStudentCreateDuplicateEmail(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]*models.Student{
		"s1": {ID: "s1", FullName: "Amina Diallo", Email: "amina@example.com", Status: models.StudentStatusActive},
	}}
	svc := NewStudentService(repo, nil, nil)

	req := validStudentRequest()
	req.Email = "AMINA@example.com"

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, appErrors.FromError(err).Status)
	assert.Len(t, repo.students, 1)
}

func TestStudentDeactivate(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]*models.Student{
		"s1": {ID: "s1", FullName: "Amina Diallo", Email: "amina@example.com", Status: models.StudentStatusActive},
	}}
	svc := NewStudentService(repo, nil, nil)

	err := svc.Deactivate(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, models.StudentStatusInactive, repo.students["s1"].Status)

	err = svc.Deactivate(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}
