package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/prepatef/prepatef-api/internal/models"
	"github.com/prepatef/prepatef-api/internal/repository"
	appErrors "github.com/prepatef/prepatef-api/pkg/errors"
)

type enrollmentRepository interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
	CreateWithStudent(ctx context.Context, student *models.Student, enrollment *models.Enrollment) error
	UpdateStatuses(ctx context.Context, id string, payment models.PaymentStatus, status models.EnrollmentStatus) error
}

type enrollmentStudentRepository interface {
	ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error)
}

type enrollmentNotifier interface {
	NotifyEnrollment(student *models.Student, enrollment *models.Enrollment)
}

// EnrollmentService runs the public enrollment chain and the back-office
// enrollment views. The chain creates the student and the enrollment in one
// transaction so a failure never leaves an orphaned student behind.
type EnrollmentService struct {
	repo      enrollmentRepository
	students  enrollmentStudentRepository
	notifier  enrollmentNotifier
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService constructs the service.
func NewEnrollmentService(repo enrollmentRepository, students enrollmentStudentRepository, notifier enrollmentNotifier, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		repo:      repo,
		students:  students,
		notifier:  notifier,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// EnrollRequest is the public enrollment payload.
type EnrollRequest struct {
	FullName   string `json:"full_name" validate:"required,min=2"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required,min=6"`
	TargetExam string `json:"target_exam" validate:"omitempty,min=2"`
	CourseID   string `json:"course_id" validate:"required"`
	CourseName string `json:"course_name" validate:"required,min=2"`
}

// EnrollResult bundles what the chain produced.
type EnrollResult struct {
	Student    *models.Student    `json:"student"`
	Enrollment *models.Enrollment `json:"enrollment"`
}

// EnrollmentListRequest describes filters for admin listings.
type EnrollmentListRequest struct {
	StudentID     string
	CourseID      string
	PaymentStatus string
	Status        string
	Page          int
	PageSize      int
	SortBy        string
	SortOrder     string
}

// UpdateEnrollmentStatusRequest mutates payment and enrollment status.
type UpdateEnrollmentStatusRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=PENDING PAID REFUNDED"`
	Status        string `json:"status" validate:"required,oneof=ACTIVE COMPLETED CANCELLED"`
}

// Enroll runs the public chain: student then enrollment, atomically.
func (s *EnrollmentService) Enroll(ctx context.Context, req EnrollRequest) (*EnrollResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid enrollment payload")
	}
	taken, err := s.students.ExistsByEmail(ctx, req.Email, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a student with this email already exists")
	}

	student := &models.Student{
		FullName:   req.FullName,
		Email:      req.Email,
		Phone:      req.Phone,
		TargetExam: req.TargetExam,
		Status:     models.StudentStatusActive,
	}
	enrollment := &models.Enrollment{
		CourseID:      req.CourseID,
		CourseName:    req.CourseName,
		PaymentStatus: models.PaymentStatusPending,
		Status:        models.EnrollmentStatusActive,
	}
	if err := s.repo.CreateWithStudent(ctx, student, enrollment); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "a student with this email already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll student")
	}

	s.metrics.RecordEnrollment()
	s.notifier.NotifyEnrollment(student, enrollment)
	s.logger.Info("enrollment completed",
		zap.String("student_id", student.ID),
		zap.String("enrollment_id", enrollment.ID),
		zap.String("course_id", enrollment.CourseID))
	return &EnrollResult{Student: student, Enrollment: enrollment}, nil
}

// List returns enrollments joined with student identity.
func (s *EnrollmentService) List(ctx context.Context, req EnrollmentListRequest) ([]models.EnrollmentDetail, *models.Pagination, error) {
	filter := models.EnrollmentFilter{
		StudentID:     req.StudentID,
		CourseID:      req.CourseID,
		PaymentStatus: models.PaymentStatus(strings.ToUpper(req.PaymentStatus)),
		Status:        models.EnrollmentStatus(strings.ToUpper(req.Status)),
		Page:          req.Page,
		PageSize:      req.PageSize,
		SortBy:        req.SortBy,
		SortOrder:     req.SortOrder,
	}
	if req.PaymentStatus == "" {
		filter.PaymentStatus = ""
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
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	return rows, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Get returns an enrollment by id.
func (s *EnrollmentService) Get(ctx context.Context, id string) (*models.Enrollment, error) {
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get enrollment")
	}
	return enrollment, nil
}

// UpdateStatus sets payment and enrollment status together.
func (s *EnrollmentService) UpdateStatus(ctx context.Context, id string, req UpdateEnrollmentStatusRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid status payload")
	}
	err := s.repo.UpdateStatuses(ctx, id, models.PaymentStatus(req.PaymentStatus), models.EnrollmentStatus(req.Status))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update enrollment")
	}
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload enrollment")
	}
	return enrollment, nil
}
