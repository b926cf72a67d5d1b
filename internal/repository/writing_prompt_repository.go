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

// WritingPromptRepository manages persistence for writing prompts.
type WritingPromptRepository struct {
	db *sqlx.DB
}

// NewWritingPromptRepository constructs a WritingPromptRepository.
func NewWritingPromptRepository(db *sqlx.DB) *WritingPromptRepository {
	return &WritingPromptRepository{db: db}
}

// List returns prompts matching the provided filters.
func (r *WritingPromptRepository) List(ctx context.Context, filter models.PracticeFilter) ([]models.WritingPrompt, int, error) {
	base := "FROM writing_prompts"
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
	query := fmt.Sprintf(`SELECT id, topic, prompt_text, difficulty, min_words, max_words, created_at, updated_at
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var prompts []models.WritingPrompt
	if err := r.db.SelectContext(ctx, &prompts, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list writing prompts: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", base), args...); err != nil {
		return nil, 0, fmt.Errorf("count writing prompts: %w", err)
	}
	return prompts, total, nil
}

// FindByID fetches a prompt by ID.
func (r *WritingPromptRepository) FindByID(ctx context.Context, id string) (*models.WritingPrompt, error) {
	const query = `SELECT id, topic, prompt_text, difficulty, min_words, max_words, created_at, updated_at
        FROM writing_prompts WHERE id = $1`
	var prompt models.WritingPrompt
	if err := r.db.GetContext(ctx, &prompt, query, id); err != nil {
		return nil, err
	}
	return &prompt, nil
}

// Create inserts a new prompt.
func (r *WritingPromptRepository) Create(ctx context.Context, prompt *models.WritingPrompt) error {
	if prompt.ID == "" {
		prompt.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if prompt.CreatedAt.IsZero() {
		prompt.CreatedAt = now
	}
	prompt.UpdatedAt = now
	const query = `INSERT INTO writing_prompts (id, topic, prompt_text, difficulty, min_words, max_words, created_at, updated_at)
        VALUES (:id, :topic, :prompt_text, :difficulty, :min_words, :max_words, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, prompt); err != nil {
		return fmt.Errorf("create writing prompt: %w", err)
	}
	return nil
}

// Update modifies an existing prompt.
func (r *WritingPromptRepository) Update(ctx context.Context, prompt *models.WritingPrompt) error {
	prompt.UpdatedAt = time.Now().UTC()
	const query = `UPDATE writing_prompts SET topic = :topic, prompt_text = :prompt_text, difficulty = :difficulty,
        min_words = :min_words, max_words = :max_words, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, prompt); err != nil {
		return fmt.Errorf("update writing prompt: %w", err)
	}
	return nil
}

// Delete removes a prompt. Returns sql.ErrNoRows when absent.
func (r *WritingPromptRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "writing_prompts", id)
}
