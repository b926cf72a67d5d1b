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

// SpeakingPromptRepository manages persistence for speaking prompts.
type SpeakingPromptRepository struct {
	db *sqlx.DB
}

// NewSpeakingPromptRepository constructs a SpeakingPromptRepository.
func NewSpeakingPromptRepository(db *sqlx.DB) *SpeakingPromptRepository {
	return &SpeakingPromptRepository{db: db}
}

// List returns prompts matching the provided filters.
func (r *SpeakingPromptRepository) List(ctx context.Context, filter models.PracticeFilter) ([]models.SpeakingPrompt, int, error) {
	base := "FROM speaking_prompts"
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
	query := fmt.Sprintf(`SELECT id, topic, prompt_text, difficulty, time_limit_secs, created_at, updated_at
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var prompts []models.SpeakingPrompt
	if err := r.db.SelectContext(ctx, &prompts, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list speaking prompts: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", base), args...); err != nil {
		return nil, 0, fmt.Errorf("count speaking prompts: %w", err)
	}
	return prompts, total, nil
}

// FindByID fetches a prompt by ID.
func (r *SpeakingPromptRepository) FindByID(ctx context.Context, id string) (*models.SpeakingPrompt, error) {
	const query = `SELECT id, topic, prompt_text, difficulty, time_limit_secs, created_at, updated_at
        FROM speaking_prompts WHERE id = $1`
	var prompt models.SpeakingPrompt
	if err := r.db.GetContext(ctx, &prompt, query, id); err != nil {
		return nil, err
	}
	return &prompt, nil
}

// Create inserts a new prompt.
func (r *SpeakingPromptRepository) Create(ctx context.Context, prompt *models.SpeakingPrompt) error {
	if prompt.ID == "" {
		prompt.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if prompt.CreatedAt.IsZero() {
		prompt.CreatedAt = now
	}
	prompt.UpdatedAt = now
	const query = `INSERT INTO speaking_prompts (id, topic, prompt_text, difficulty, time_limit_secs, created_at, updated_at)
        VALUES (:id, :topic, :prompt_text, :difficulty, :time_limit_secs, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, prompt); err != nil {
		return fmt.Errorf("create speaking prompt: %w", err)
	}
	return nil
}

// Update modifies an existing prompt.
func (r *SpeakingPromptRepository) Update(ctx context.Context, prompt *models.SpeakingPrompt) error {
	prompt.UpdatedAt = time.Now().UTC()
	const query = `UPDATE speaking_prompts SET topic = :topic, prompt_text = :prompt_text, difficulty = :difficulty,
        time_limit_secs = :time_limit_secs, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, prompt); err != nil {
		return fmt.Errorf("update speaking prompt: %w", err)
	}
	return nil
}

// Delete removes a prompt. Returns sql.ErrNoRows when absent.
func (r *SpeakingPromptRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "speaking_prompts", id)
}

// practicePage normalizes sorting and pagination for practice listings.
func practicePage(filter models.PracticeFilter) (column, order string, size, offset int) {
	allowedSorts := map[string]string{
		"topic":      "topic",
		"difficulty": "difficulty",
		"created_at": "created_at",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	order = strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size = filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset = (page - 1) * size
	return column, order, size, offset
}
