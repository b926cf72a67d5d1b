package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/prepatef/prepatef-api/internal/models"
	appErrors "github.com/prepatef/prepatef-api/pkg/errors"
)

type classSessionRepository interface {
	List(ctx context.Context, filter models.ClassSessionFilter) ([]models.ClassSession, int, error)
	FindByID(ctx context.Context, id string) (*models.ClassSession, error)
	Create(ctx context.Context, session *models.ClassSession) error
	Update(ctx context.Context, session *models.ClassSession) error
	UpdateStatus(ctx context.Context, id string, status models.SessionStatus) error
	Delete(ctx context.Context, id string) error
}

type sessionTeacherRepository interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

// ClassSessionService handles session reports. Teachers submit them, every
// report lands in pending review, and only an admin decision moves it on.
type ClassSessionService struct {
	repo      classSessionRepository
	teachers  sessionTeacherRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassSessionService constructs the service.
func NewClassSessionService(repo classSessionRepository, teachers sessionTeacherRepository, validate *validator.Validate, logger *zap.Logger) *ClassSessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassSessionService{repo: repo, teachers: teachers, validator: validate, logger: logger}
}

// ClassSessionRequest is the create/update payload.
type ClassSessionRequest struct {
	Date       string                   `json:"date" validate:"required,datetime=2006-01-02"`
	TimeRange  string                   `json:"time_range" validate:"required,min=3"`
	CourseName string                   `json:"course_name" validate:"required,min=2"`
	TeacherID  string                   `json:"teacher_id" validate:"required"`
	Attendees  []models.SessionAttendee `json:"attendees" validate:"required,min=1,dive"`
}

// ReviewSessionRequest is the admin decision payload.
type ReviewSessionRequest struct {
	Status string `json:"status" validate:"required,oneof=APPROVED REJECTED"`
}

// ClassSessionListRequest describes filters for listing sessions.
type ClassSessionListRequest struct {
	TeacherID string
	Status    string
	DateFrom  string
	DateTo    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// List returns sessions with pagination.
func (s *ClassSessionService) List(ctx context.Context, req ClassSessionListRequest) ([]models.ClassSession, *models.Pagination, error) {
	filter := models.ClassSessionFilter{
		TeacherID: req.TeacherID,
		Status:    models.SessionStatus(strings.ToUpper(req.Status)),
		DateFrom:  req.DateFrom,
		DateTo:    req.DateTo,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}
	if req.Status == "" {
		filter.Status = ""
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list class sessions")
	}
	return rows, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Get returns a session by id.
func (s *ClassSessionService) Get(ctx context.Context, id string) (*models.ClassSession, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get class session")
	}
	return session, nil
}

// Create registers a session report. Status always starts pending approval,
// whoever submits it.
func (s *ClassSessionService) Create(ctx context.Context, req ClassSessionRequest) (*models.ClassSession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid class session payload")
	}
	teacher, err := s.teachers.FindByID(ctx, req.TeacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.WithField("teacher_id", "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check teacher")
	}
	session := &models.ClassSession{
		Date:        req.Date,
		TimeRange:   req.TimeRange,
		CourseName:  req.CourseName,
		TeacherID:   teacher.ID,
		TeacherName: teacher.FullName,
		Attendees:   req.Attendees,
		Status:      models.SessionStatusPending,
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class session")
	}
	return session, nil
}

// Update modifies a report while it is still pending review.
func (s *ClassSessionService) Update(ctx context.Context, id string, req ClassSessionRequest) (*models.ClassSession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid class session payload")
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class session")
	}
	if existing.Status != models.SessionStatusPending {
		return nil, appErrors.Clone(appErrors.ErrConflict, "only pending sessions can be edited")
	}
	existing.Date = req.Date
	existing.TimeRange = req.TimeRange
	existing.CourseName = req.CourseName
	existing.Attendees = req.Attendees
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update class session")
	}
	return existing, nil
}

// Review applies the admin decision to a pending session.
func (s *ClassSessionService) Review(ctx context.Context, id string, req ReviewSessionRequest) (*models.ClassSession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid review payload")
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class session")
	}
	if existing.Status != models.SessionStatusPending {
		return nil, appErrors.Clone(appErrors.ErrConflict, "session has already been reviewed")
	}
	status := models.SessionStatus(req.Status)
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to review class session")
	}
	existing.Status = status
	return existing, nil
}

// Delete removes a session report.
func (s *ClassSessionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "class session not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete class session")
	}
	return nil
}
