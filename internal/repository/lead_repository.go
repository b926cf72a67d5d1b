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

// ContactLeadRepository manages persistence for contact form leads.
type ContactLeadRepository struct {
	db *sqlx.DB
}

// NewContactLeadRepository constructs a ContactLeadRepository.
func NewContactLeadRepository(db *sqlx.DB) *ContactLeadRepository {
	return &ContactLeadRepository{db: db}
}

// List returns leads matching the provided filters.
func (r *ContactLeadRepository) List(ctx context.Context, filter models.LeadFilter) ([]models.ContactLead, int, error) {
	base := "FROM contact_leads"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(email) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	column, order, size, offset := leadPage(filter)
	query := fmt.Sprintf(`SELECT id, name, email, phone, message, status, submitted_at, updated_at
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var leads []models.ContactLead
	if err := r.db.SelectContext(ctx, &leads, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list contact leads: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", base), args...); err != nil {
		return nil, 0, fmt.Errorf("count contact leads: %w", err)
	}
	return leads, total, nil
}

// FindByID fetches a lead by ID.
func (r *ContactLeadRepository) FindByID(ctx context.Context, id string) (*models.ContactLead, error) {
	const query = `SELECT id, name, email, phone, message, status, submitted_at, updated_at FROM contact_leads WHERE id = $1`
	var lead models.ContactLead
	if err := r.db.GetContext(ctx, &lead, query, id); err != nil {
		return nil, err
	}
	return &lead, nil
}

// Create inserts a new lead.
func (r *ContactLeadRepository) Create(ctx context.Context, lead *models.ContactLead) error {
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if lead.SubmittedAt.IsZero() {
		lead.SubmittedAt = now
	}
	lead.UpdatedAt = now
	const query = `INSERT INTO contact_leads (id, name, email, phone, message, status, submitted_at, updated_at)
        VALUES (:id, :name, :email, :phone, :message, :status, :submitted_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, lead); err != nil {
		return fmt.Errorf("create contact lead: %w", err)
	}
	return nil
}

// UpdateStatus mutates the follow-up status. Returns sql.ErrNoRows when absent.
func (r *ContactLeadRepository) UpdateStatus(ctx context.Context, id string, status models.ContactLeadStatus) error {
	return updateLeadStatus(ctx, r.db, "contact_leads", id, string(status))
}

// Delete removes a lead. Returns sql.ErrNoRows when absent.
func (r *ContactLeadRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "contact_leads", id)
}

// DemoLeadRepository manages persistence for demo booking leads.
type DemoLeadRepository struct {
	db *sqlx.DB
}

// NewDemoLeadRepository constructs a DemoLeadRepository.
func NewDemoLeadRepository(db *sqlx.DB) *DemoLeadRepository {
	return &DemoLeadRepository{db: db}
}

// List returns demo leads matching the provided filters.
func (r *DemoLeadRepository) List(ctx context.Context, filter models.LeadFilter) ([]models.DemoRequestLead, int, error) {
	base := "FROM demo_leads"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(email) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	column, order, size, offset := leadPage(filter)
	query := fmt.Sprintf(`SELECT id, name, email, phone, course_interest, time_slot_id, status, submitted_at, updated_at
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var leads []models.DemoRequestLead
	if err := r.db.SelectContext(ctx, &leads, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list demo leads: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", base), args...); err != nil {
		return nil, 0, fmt.Errorf("count demo leads: %w", err)
	}
	return leads, total, nil
}

// FindByID fetches a demo lead by ID.
func (r *DemoLeadRepository) FindByID(ctx context.Context, id string) (*models.DemoRequestLead, error) {
	const query = `SELECT id, name, email, phone, course_interest, time_slot_id, status, submitted_at, updated_at
        FROM demo_leads WHERE id = $1`
	var lead models.DemoRequestLead
	if err := r.db.GetContext(ctx, &lead, query, id); err != nil {
		return nil, err
	}
	return &lead, nil
}

// Create inserts a new demo lead.
func (r *DemoLeadRepository) Create(ctx context.Context, lead *models.DemoRequestLead) error {
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if lead.SubmittedAt.IsZero() {
		lead.SubmittedAt = now
	}
	lead.UpdatedAt = now
	const query = `INSERT INTO demo_leads (id, name, email, phone, course_interest, time_slot_id, status, submitted_at, updated_at)
        VALUES (:id, :name, :email, :phone, :course_interest, :time_slot_id, :status, :submitted_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, lead); err != nil {
		return fmt.Errorf("create demo lead: %w", err)
	}
	return nil
}

// UpdateStatus mutates the booking status. Returns sql.ErrNoRows when absent.
func (r *DemoLeadRepository) UpdateStatus(ctx context.Context, id string, status models.DemoLeadStatus) error {
	return updateLeadStatus(ctx, r.db, "demo_leads", id, string(status))
}

// Delete removes a demo lead. Returns sql.ErrNoRows when absent.
func (r *DemoLeadRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "demo_leads", id)
}

func updateLeadStatus(ctx context.Context, db *sqlx.DB, table, id, status string) error {
	query := fmt.Sprintf("UPDATE %s SET status = $2, updated_at = $3 WHERE id = $1", table)
	res, err := db.ExecContext(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update %s status: %w", table, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s status: %w", table, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func leadPage(filter models.LeadFilter) (column, order string, size, offset int) {
	allowedSorts := map[string]string{
		"name":         "name",
		"submitted_at": "submitted_at",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = "submitted_at"
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
