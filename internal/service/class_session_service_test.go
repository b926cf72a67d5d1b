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

type mockSessionRepo struct {
	items map[string]*models.ClassSession
}

func (m *mockSessionRepo) List(ctx context.Context, filter models.ClassSessionFilter) ([]models.ClassSession, int, error) {
	return nil, 0, nil
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*models.ClassSession, error) {
	if s, ok := m.items[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSessionRepo) Create(ctx context.Context, session *models.ClassSession) error {
	if m.items == nil {
		m.items = make(map[string]*models.ClassSession)
	}
	session.ID = "session-1"
	cp := *session
	m.items[session.ID] = &cp
	return nil
}

func (m *mockSessionRepo) Update(ctx context.Context, session *models.ClassSession) error {
	cp := *session
	m.items[session.ID] = &cp
	return nil
}

func (m *mockSessionRepo) UpdateStatus(ctx context.Context, id string, status models.SessionStatus) error {
	s, ok := m.items[id]
	if !ok {
		return sql.ErrNoRows
	}
	s.Status = status
	return nil
}

func (m *mockSessionRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

type mockSessionTeacherLookup struct {
	teachers map[string]*models.Teacher
}

func (m *mockSessionTeacherLookup) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	if t, ok := m.teachers[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func validSessionRequest() ClassSessionRequest {
	return ClassSessionRequest{
		Date:       "2026-09-07",
		TimeRange:  "18:00-19:30",
		CourseName: "Expression orale B2",
		TeacherID:  "t1",
		Attendees: []models.SessionAttendee{
			{StudentID: "st1", StudentName: "Amina Diallo", Present: true},
		},
	}
}

func TestClassSessionCreateStartsPending(t *testing.T) {
	repo := &mockSessionRepo{}
	teachers := &mockSessionTeacherLookup{teachers: map[string]*models.Teacher{
		"t1": {ID: "t1", FullName: "Marie Dupont"},
	}}
	service := NewClassSessionService(repo, teachers, nil, nil)

	session, err := service.Create(context.Background(), validSessionRequest())
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusPending, session.Status)
	assert.Equal(t, "Marie Dupont", session.TeacherName)
}

func TestClassSessionCreateUnknownTeacher(t *testing.T) {
	service := NewClassSessionService(&mockSessionRepo{}, &mockSessionTeacherLookup{}, nil, nil)

	_, err := service.Create(context.Background(), validSessionRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Contains(t, appErr.Fields, "teacher_id")
}

func TestClassSessionReviewApprove(t *testing.T) {
	repo := &mockSessionRepo{items: map[string]*models.ClassSession{
		"s1": {ID: "s1", Status: models.SessionStatusPending},
	}}
	service := NewClassSessionService(repo, &mockSessionTeacherLookup{}, nil, nil)

	session, err := service.Review(context.Background(), "s1", ReviewSessionRequest{Status: "APPROVED"})
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusApproved, session.Status)
}

func TestClassSessionReviewTwiceRejected(t *testing.T) {
	repo := &mockSessionRepo{items: map[string]*models.ClassSession{
		"s1": {ID: "s1", Status: models.SessionStatusApproved},
	}}
	service := NewClassSessionService(repo, &mockSessionTeacherLookup{}, nil, nil)

	_, err := service.Review(context.Background(), "s1", ReviewSessionRequest{Status: "REJECTED"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusConflict, appErr.Status)
}

func TestClassSessionReviewRejectsUnknownDecision(t *testing.T) {
	service := NewClassSessionService(&mockSessionRepo{}, &mockSessionTeacherLookup{}, nil, nil)

	_, err := service.Review(context.Background(), "s1", ReviewSessionRequest{Status: "MAYBE"})
	require.Error(t, err)
}

func TestClassSessionUpdateOnlyWhilePending(t *testing.T) {
	repo := &mockSessionRepo{items: map[string]*models.ClassSession{
		"s1": {ID: "s1", Status: models.SessionStatusApproved},
	}}
	teachers := &mockSessionTeacherLookup{teachers: map[string]*models.Teacher{
		"t1": {ID: "t1", FullName: "Marie Dupont"},
	}}
	service := NewClassSessionService(repo, teachers, nil, nil)

	_, err := service.Update(context.Background(), "s1", validSessionRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusConflict, appErr.Status)
}
