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

// ListeningAudioRepository manages persistence for listening clips.
type ListeningAudioRepository struct {
	db *sqlx.DB
}

// NewListeningAudioRepository constructs a ListeningAudioRepository.
func NewListeningAudioRepository(db *sqlx.DB) *ListeningAudioRepository {
	return &ListeningAudioRepository{db: db}
}

// List returns clips matching the provided filters.
func (r *ListeningAudioRepository) List(ctx context.Context, filter models.PracticeFilter) ([]models.ListeningAudio, int, error) {
	base := "FROM listening_audios"
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
	query := fmt.Sprintf(`SELECT id, topic, transcript, audio_path, difficulty, questions, created_at, updated_at
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var clips []models.ListeningAudio
	if err := r.db.SelectContext(ctx, &clips, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list listening audios: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", base), args...); err != nil {
		return nil, 0, fmt.Errorf("count listening audios: %w", err)
	}
	return clips, total, nil
}

// FindByID fetches a clip by ID.
func (r *ListeningAudioRepository) FindByID(ctx context.Context, id string) (*models.ListeningAudio, error) {
	const query = `SELECT id, topic, transcript, audio_path, difficulty, questions, created_at, updated_at
        FROM listening_audios WHERE id = $1`
	var clip models.ListeningAudio
	if err := r.db.GetContext(ctx, &clip, query, id); err != nil {
		return nil, err
	}
	return &clip, nil
}

// Create inserts a new clip.
func (r *ListeningAudioRepository) Create(ctx context.Context, clip *models.ListeningAudio) error {
	if clip.ID == "" {
		clip.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if clip.CreatedAt.IsZero() {
		clip.CreatedAt = now
	}
	clip.UpdatedAt = now
	const query = `INSERT INTO listening_audios (id, topic, transcript, audio_path, difficulty, questions, created_at, updated_at)
        VALUES (:id, :topic, :transcript, :audio_path, :difficulty, :questions, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, clip); err != nil {
		return fmt.Errorf("create listening audio: %w", err)
	}
	return nil
}

// Update modifies an existing clip.
func (r *ListeningAudioRepository) Update(ctx context.Context, clip *models.ListeningAudio) error {
	clip.UpdatedAt = time.Now().UTC()
	const query = `UPDATE listening_audios SET topic = :topic, transcript = :transcript, difficulty = :difficulty,
        questions = :questions, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, clip); err != nil {
		return fmt.Errorf("update listening audio: %w", err)
	}
	return nil
}

// UpdateAudioPath records the stored file path after an upload.
func (r *ListeningAudioRepository) UpdateAudioPath(ctx context.Context, id, path string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE listening_audios SET audio_path = $2, updated_at = $3 WHERE id = $1`,
		id, path, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update audio path: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update audio path: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a clip. Returns sql.ErrNoRows when absent.
func (r *ListeningAudioRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "listening_audios", id)
}
