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

// BlogPostRepository manages persistence for posts and their comments.
type BlogPostRepository struct {
	db *sqlx.DB
}

// NewBlogPostRepository constructs a BlogPostRepository.
func NewBlogPostRepository(db *sqlx.DB) *BlogPostRepository {
	return &BlogPostRepository{db: db}
}

// List returns posts matching the provided filters.
func (r *BlogPostRepository) List(ctx context.Context, filter models.BlogPostFilter) ([]models.BlogPost, int, error) {
	base := "FROM blog_posts"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.PublishedOnly {
		conditions = append(conditions, "published = true")
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(categories)", len(args)+1))
		args = append(args, filter.Category)
	}
	if filter.Tag != "" {
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(tags)", len(args)+1))
		args = append(args, filter.Tag)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(title) LIKE $%d OR LOWER(excerpt) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	allowedSorts := map[string]string{
		"title":      "title",
		"created_at": "created_at",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = "created_at"
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

	query := fmt.Sprintf(`SELECT id, slug, title, excerpt, content, author, categories, tags, published, created_at, updated_at
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var posts []models.BlogPost
	if err := r.db.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}
	return posts, total, nil
}

// FindByID fetches a post by ID.
func (r *BlogPostRepository) FindByID(ctx context.Context, id string) (*models.BlogPost, error) {
	const query = `SELECT id, slug, title, excerpt, content, author, categories, tags, published, created_at, updated_at
        FROM blog_posts WHERE id = $1`
	var post models.BlogPost
	if err := r.db.GetContext(ctx, &post, query, id); err != nil {
		return nil, err
	}
	return &post, nil
}

// FindBySlug fetches a post with its comments for the public detail page.
func (r *BlogPostRepository) FindBySlug(ctx context.Context, slug string) (*models.BlogPostDetail, error) {
	const query = `SELECT id, slug, title, excerpt, content, author, categories, tags, published, created_at, updated_at
        FROM blog_posts WHERE slug = $1`
	var post models.BlogPost
	if err := r.db.GetContext(ctx, &post, query, slug); err != nil {
		return nil, err
	}

	const commentQuery = `SELECT id, post_id, name, comment, created_at FROM blog_comments WHERE post_id = $1 ORDER BY created_at ASC`
	comments := []models.BlogComment{}
	if err := r.db.SelectContext(ctx, &comments, commentQuery, post.ID); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return &models.BlogPostDetail{BlogPost: post, Comments: comments}, nil
}

// ExistsBySlug checks if a post with the given slug exists, optionally
// excluding an ID.
func (r *BlogPostRepository) ExistsBySlug(ctx context.Context, slug string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM blog_posts WHERE slug = $1"
	args := []interface{}{slug}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check slug: %w", err)
	}
	return true, nil
}

// Create inserts a new post.
func (r *BlogPostRepository) Create(ctx context.Context, post *models.BlogPost) error {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now
	const query = `INSERT INTO blog_posts (id, slug, title, excerpt, content, author, categories, tags, published, created_at, updated_at)
        VALUES (:id, :slug, :title, :excerpt, :content, :author, :categories, :tags, :published, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, post); err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// Update modifies an existing post.
func (r *BlogPostRepository) Update(ctx context.Context, post *models.BlogPost) error {
	post.UpdatedAt = time.Now().UTC()
	const query = `UPDATE blog_posts SET slug = :slug, title = :title, excerpt = :excerpt, content = :content,
        author = :author, categories = :categories, tags = :tags, published = :published, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, post); err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// Delete removes a post and its comments. Returns sql.ErrNoRows when absent.
func (r *BlogPostRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM blog_comments WHERE post_id = $1`, id); err != nil {
		return fmt.Errorf("delete post comments: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CreateComment appends a comment to an existing post.
func (r *BlogPostRepository) CreateComment(ctx context.Context, comment *models.BlogComment) error {
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO blog_comments (id, post_id, name, comment, created_at)
        VALUES (:id, :post_id, :name, :comment, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, comment); err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

// CountReferencingName counts posts that still carry the given category or
// tag name. Taxonomy deletion is blocked while this is non-zero.
func (r *BlogPostRepository) CountReferencingName(ctx context.Context, column, name string) (int, error) {
	if column != "categories" && column != "tags" {
		return 0, fmt.Errorf("unsupported taxonomy column %q", column)
	}
	query := fmt.Sprintf("SELECT COUNT(*) FROM blog_posts WHERE $1 = ANY(%s)", column)
	var count int
	if err := r.db.GetContext(ctx, &count, query, name); err != nil {
		return 0, fmt.Errorf("count taxonomy references: %w", err)
	}
	return count, nil
}
