package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/prepatef/prepatef-api/internal/models"
)

// TimeSlotRepository manages persistence for demo booking slots.
type TimeSlotRepository struct {
	db *sqlx.DB
}

// NewTimeSlotRepository constructs a TimeSlotRepository.
func NewTimeSlotRepository(db *sqlx.DB) *TimeSlotRepository {
	return &TimeSlotRepository{db: db}
}

// List returns slots ordered by date. When activeOnly is set, only active
// slots dated today or later are returned (the public booking view).
func (r *TimeSlotRepository) List(ctx context.Context, activeOnly bool) ([]models.TimeSlot, error) {
	query := `SELECT id, date, time_range, capacity, active, created_at, updated_at FROM time_slots`
	args := []interface{}{}
	if activeOnly {
		query += ` WHERE active = true AND date >= $1`
		args = append(args, time.Now().UTC().Format("2006-01-02"))
	}
	query += ` ORDER BY date ASC, time_range ASC`

	slots := []models.TimeSlot{}
	if err := r.db.SelectContext(ctx, &slots, query, args...); err != nil {
		return nil, fmt.Errorf("list time slots: %w", err)
	}
	return slots, nil
}

// FindByID fetches a slot by ID.
func (r *TimeSlotRepository) FindByID(ctx context.Context, id string) (*models.TimeSlot, error) {
	const query = `SELECT id, date, time_range, capacity, active, created_at, updated_at FROM time_slots WHERE id = $1`
	var slot models.TimeSlot
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		return nil, err
	}
	return &slot, nil
}

// Create inserts a new slot.
func (r *TimeSlotRepository) Create(ctx context.Context, slot *models.TimeSlot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = now
	}
	slot.UpdatedAt = now
	const query = `INSERT INTO time_slots (id, date, time_range, capacity, active, created_at, updated_at)
        VALUES (:id, :date, :time_range, :capacity, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("create time slot: %w", err)
	}
	return nil
}

// Update modifies an existing slot.
func (r *TimeSlotRepository) Update(ctx context.Context, slot *models.TimeSlot) error {
	slot.UpdatedAt = time.Now().UTC()
	const query = `UPDATE time_slots SET date = :date, time_range = :time_range, capacity = :capacity,
        active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("update time slot: %w", err)
	}
	return nil
}

// Delete removes a slot. Returns sql.ErrNoRows when absent.
func (r *TimeSlotRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "time_slots", id)
}
