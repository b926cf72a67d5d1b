package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/prepatef/prepatef-api/internal/models"
)

// EnrollmentRepository manages persistence for enrollments, including the
// public enrollment chain that creates the student in the same transaction.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs an EnrollmentRepository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// List returns enrollments joined with student info.
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error) {
	base := "FROM enrollments e JOIN students s ON s.id = e.student_id"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("e.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.CourseID != "" {
		conditions = append(conditions, fmt.Sprintf("e.course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}
	if filter.PaymentStatus != "" {
		conditions = append(conditions, fmt.Sprintf("e.payment_status = $%d", len(args)+1))
		args = append(args, filter.PaymentStatus)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("e.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	allowedSorts := map[string]string{
		"created_at":  "e.created_at",
		"course_name": "e.course_name",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = "e.created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT e.id, e.student_id, e.course_id, e.course_name, e.payment_status, e.status, e.created_at, e.updated_at,
        s.full_name AS student_name, s.email AS student_email
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list enrollments: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", base), args...); err != nil {
		return nil, 0, fmt.Errorf("count enrollments: %w", err)
	}
	return enrollments, total, nil
}

// FindByID fetches an enrollment by ID.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	const query = `SELECT id, student_id, course_id, course_name, payment_status, status, created_at, updated_at
        FROM enrollments WHERE id = $1`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// Create inserts an enrollment for an existing student.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	stampEnrollment(enrollment)
	if _, err := r.db.NamedExecContext(ctx, insertEnrollmentQuery, enrollment); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// CreateWithStudent atomically creates the student and the enrollment
// referencing it. Either both rows exist afterwards or neither does.
func (r *EnrollmentRepository) CreateWithStudent(ctx context.Context, student *models.Student, enrollment *models.Enrollment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin enrollment tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stampStudent(student)
	if _, err := tx.NamedExecContext(ctx, insertStudentQuery, student); err != nil {
		return fmt.Errorf("create student in enrollment tx: %w", err)
	}

	enrollment.StudentID = student.ID
	stampEnrollment(enrollment)
	if _, err := tx.NamedExecContext(ctx, insertEnrollmentQuery, enrollment); err != nil {
		return fmt.Errorf("create enrollment in tx: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit enrollment tx: %w", err)
	}
	return nil
}

// UpdateStatuses mutates payment and enrollment state. Returns sql.ErrNoRows
// when absent.
func (r *EnrollmentRepository) UpdateStatuses(ctx context.Context, id string, payment models.PaymentStatus, status models.EnrollmentStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE enrollments SET payment_status = $2, status = $3, updated_at = $4 WHERE id = $1`,
		id, payment, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update enrollment statuses: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update enrollment statuses: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

const insertEnrollmentQuery = `INSERT INTO enrollments (id, student_id, course_id, course_name, payment_status, status, created_at, updated_at)
        VALUES (:id, :student_id, :course_id, :course_name, :payment_status, :status, :created_at, :updated_at)`

func stampEnrollment(enrollment *models.Enrollment) {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if enrollment.CreatedAt.IsZero() {
		enrollment.CreatedAt = now
	}
	enrollment.UpdatedAt = now
}
