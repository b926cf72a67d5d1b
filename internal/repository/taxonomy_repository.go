package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/prepatef/prepatef-api/internal/models"
)

// CategoryRepository manages persistence for blog categories.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository constructs a CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List returns all categories sorted by name.
func (r *CategoryRepository) List(ctx context.Context) ([]models.BlogCategory, error) {
	const query = `SELECT id, name, slug, created_at, updated_at FROM blog_categories ORDER BY name ASC`
	categories := []models.BlogCategory{}
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// FindByID fetches a category by ID.
func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*models.BlogCategory, error) {
	const query = `SELECT id, name, slug, created_at, updated_at FROM blog_categories WHERE id = $1`
	var category models.BlogCategory
	if err := r.db.GetContext(ctx, &category, query, id); err != nil {
		return nil, err
	}
	return &category, nil
}

// ExistsBySlug checks slug uniqueness, optionally excluding an ID.
func (r *CategoryRepository) ExistsBySlug(ctx context.Context, slug string, excludeID string) (bool, error) {
	return existsBySlug(ctx, r.db, "blog_categories", slug, excludeID)
}

// Create inserts a new category.
func (r *CategoryRepository) Create(ctx context.Context, category *models.BlogCategory) error {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if category.CreatedAt.IsZero() {
		category.CreatedAt = now
	}
	category.UpdatedAt = now
	const query = `INSERT INTO blog_categories (id, name, slug, created_at, updated_at)
        VALUES (:id, :name, :slug, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, category); err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// Update modifies an existing category.
func (r *CategoryRepository) Update(ctx context.Context, category *models.BlogCategory) error {
	category.UpdatedAt = time.Now().UTC()
	const query = `UPDATE blog_categories SET name = :name, slug = :slug, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, category); err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Delete removes a category. Returns sql.ErrNoRows when absent.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "blog_categories", id)
}

// TagRepository manages persistence for blog tags.
type TagRepository struct {
	db *sqlx.DB
}

// NewTagRepository constructs a TagRepository.
func NewTagRepository(db *sqlx.DB) *TagRepository {
	return &TagRepository{db: db}
}

// List returns all tags sorted by name.
func (r *TagRepository) List(ctx context.Context) ([]models.BlogTag, error) {
	const query = `SELECT id, name, slug, created_at, updated_at FROM blog_tags ORDER BY name ASC`
	tags := []models.BlogTag{}
	if err := r.db.SelectContext(ctx, &tags, query); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// FindByID fetches a tag by ID.
func (r *TagRepository) FindByID(ctx context.Context, id string) (*models.BlogTag, error) {
	const query = `SELECT id, name, slug, created_at, updated_at FROM blog_tags WHERE id = $1`
	var tag models.BlogTag
	if err := r.db.GetContext(ctx, &tag, query, id); err != nil {
		return nil, err
	}
	return &tag, nil
}

// ExistsBySlug checks slug uniqueness, optionally excluding an ID.
func (r *TagRepository) ExistsBySlug(ctx context.Context, slug string, excludeID string) (bool, error) {
	return existsBySlug(ctx, r.db, "blog_tags", slug, excludeID)
}

// Create inserts a new tag.
func (r *TagRepository) Create(ctx context.Context, tag *models.BlogTag) error {
	if tag.ID == "" {
		tag.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if tag.CreatedAt.IsZero() {
		tag.CreatedAt = now
	}
	tag.UpdatedAt = now
	const query = `INSERT INTO blog_tags (id, name, slug, created_at, updated_at)
        VALUES (:id, :name, :slug, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, tag); err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	return nil
}

// Update modifies an existing tag.
func (r *TagRepository) Update(ctx context.Context, tag *models.BlogTag) error {
	tag.UpdatedAt = time.Now().UTC()
	const query = `UPDATE blog_tags SET name = :name, slug = :slug, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, tag); err != nil {
		return fmt.Errorf("update tag: %w", err)
	}
	return nil
}

// Delete removes a tag. Returns sql.ErrNoRows when absent.
func (r *TagRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "blog_tags", id)
}

func existsBySlug(ctx context.Context, db *sqlx.DB, table, slug, excludeID string) (bool, error) {
	query := fmt.Sprintf("SELECT 1 FROM %s WHERE slug = $1", table)
	args := []interface{}{slug}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check slug: %w", err)
	}
	return true, nil
}

func deleteByID(ctx context.Context, db *sqlx.DB, table, id string) error {
	res, err := db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", table), id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
