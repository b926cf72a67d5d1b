package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/prepatef/prepatef-api/internal/models"
)

// ReadingPassageRepository manages persistence for reading passages. The
// embedded questions travel as a JSONB column.
type ReadingPassageRepository struct {
	db *sqlx.DB
}

// NewReadingPassageRepository constructs a ReadingPassageRepository.
func NewReadingPassageRepository(db *sqlx.DB) *ReadingPassageRepository {
	return &ReadingPassageRepository{db: db}
}

// List returns passages matching the provided filters.
func (r *ReadingPassageRepository) List(ctx context.Context, filter models.PracticeFilter) ([]models.ReadingPassage, int, error) {
	base := "FROM reading_passages"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.Difficulty != "" {
		conditions = append(conditions, fmt.Sprintf("difficulty = $%d", len(args)+1))
		args = append(args, filter.Difficulty)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(topic) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	column, order, size, offset := practicePage(filter)
	query := fmt.Sprintf(`SELECT id, topic, passage, difficulty, questions, created_at, updated_at
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var passages []models.ReadingPassage
	if err := r.db.SelectContext(ctx, &passages, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list reading passages: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", base), args...); err != nil {
		return nil, 0, fmt.Errorf("count reading passages: %w", err)
	}
	return passages, total, nil
}

// FindByID fetches a passage by ID.
func (r *ReadingPassageRepository) FindByID(ctx context.Context, id string) (*models.ReadingPassage, error) {
	const query = `SELECT id, topic, passage, difficulty, questions, created_at, updated_at
        FROM reading_passages WHERE id = $1`
	var passage models.ReadingPassage
	if err := r.db.GetContext(ctx, &passage, query, id); err != nil {
		return nil, err
	}
	return &passage, nil
}

// Create inserts a new passage.
func (r *ReadingPassageRepository) Create(ctx context.Context, passage *models.ReadingPassage) error {
	if passage.ID == "" {
		passage.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if passage.CreatedAt.IsZero() {
		passage.CreatedAt = now
	}
	passage.UpdatedAt = now
	const query = `INSERT INTO reading_passages (id, topic, passage, difficulty, questions, created_at, updated_at)
        VALUES (:id, :topic, :passage, :difficulty, :questions, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, passage); err != nil {
		return fmt.Errorf("create reading passage: %w", err)
	}
	return nil
}

// Update modifies an existing passage.
func (r *ReadingPassageRepository) Update(ctx context.Context, passage *models.ReadingPassage) error {
	passage.UpdatedAt = time.Now().UTC()
	const query = `UPDATE reading_passages SET topic = :topic, passage = :passage, difficulty = :difficulty,
        questions = :questions, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, passage); err != nil {
		return fmt.Errorf("update reading passage: %w", err)
	}
	return nil
}

// Delete removes a passage. Returns sql.ErrNoRows when absent.
func (r *ReadingPassageRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "reading_passages", id)
}
