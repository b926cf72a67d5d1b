package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/prepatef/prepatef-api/internal/models"
	"github.com/prepatef/prepatef-api/internal/repository"
	appErrors "github.com/prepatef/prepatef-api/pkg/errors"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

type blogRepository interface {
	List(ctx context.Context, filter models.BlogPostFilter) ([]models.BlogPost, int, error)
	FindByID(ctx context.Context, id string) (*models.BlogPost, error)
	FindBySlug(ctx context.Context, slug string) (*models.BlogPostDetail, error)
	ExistsBySlug(ctx context.Context, slug string, excludeID string) (bool, error)
	Create(ctx context.Context, post *models.BlogPost) error
	Update(ctx context.Context, post *models.BlogPost) error
	Delete(ctx context.Context, id string) error
	CreateComment(ctx context.Context, comment *models.BlogComment) error
}

// BlogService handles blog post and comment workflows.
type BlogService struct {
	repo      blogRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBlogService constructs the service.
func NewBlogService(repo blogRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *BlogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &BlogService{repo: repo, cache: cache, validator: validate, logger: logger}
	svc.validator.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	return svc
}

// BlogPostListRequest describes filters for listing posts.
type BlogPostListRequest struct {
	Search        string
	Category      string
	Tag           string
	PublishedOnly bool
	Page          int
	PageSize      int
	SortBy        string
	SortOrder     string
}

// CreateBlogPostRequest describes the create payload.
type CreateBlogPostRequest struct {
	Slug       string   `json:"slug" validate:"required,slug"`
	Title      string   `json:"title" validate:"required,min=3"`
	Excerpt    string   `json:"excerpt" validate:"required"`
	Content    string   `json:"content" validate:"required,min=10"`
	Author     string   `json:"author" validate:"required"`
	Categories []string `json:"categories"`
	Tags       []string `json:"tags"`
	Published  bool     `json:"published"`
}

// UpdateBlogPostRequest describes the update payload.
type UpdateBlogPostRequest struct {
	Slug       string   `json:"slug" validate:"required,slug"`
	Title      string   `json:"title" validate:"required,min=3"`
	Excerpt    string   `json:"excerpt" validate:"required"`
	Content    string   `json:"content" validate:"required,min=10"`
	Author     string   `json:"author" validate:"required"`
	Categories []string `json:"categories"`
	Tags       []string `json:"tags"`
	Published  bool     `json:"published"`
}

// CreateCommentRequest describes the public comment payload.
type CreateCommentRequest struct {
	Name    string `json:"name" validate:"required,min=2"`
	Comment string `json:"comment" validate:"required,min=2"`
}

// List returns posts with pagination. Public listings set PublishedOnly and
// are served from the catalog cache when possible.
func (s *BlogService) List(ctx context.Context, req BlogPostListRequest) ([]models.BlogPost, *models.Pagination, error) {
	filter := models.BlogPostFilter{
		Search:        req.Search,
		Category:      req.Category,
		Tag:           req.Tag,
		PublishedOnly: req.PublishedOnly,
		Page:          req.Page,
		PageSize:      req.PageSize,
		SortBy:        req.SortBy,
		SortOrder:     req.SortOrder,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	type cached struct {
		Posts      []models.BlogPost `json:"posts"`
		Pagination models.Pagination `json:"pagination"`
	}
	var key string
	if req.PublishedOnly {
		key = fmt.Sprintf("catalog:blog:list:%s:%s:%s:%d:%d:%s:%s",
			filter.Search, filter.Category, filter.Tag, filter.Page, filter.PageSize, filter.SortBy, filter.SortOrder)
		var hit cached
		if s.cache.Get(ctx, key, &hit) {
			return hit.Posts, &hit.Pagination, nil
		}
	}

	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list blog posts")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}

	if req.PublishedOnly {
		s.cache.Set(ctx, key, cached{Posts: rows, Pagination: *pagination})
	}
	return rows, pagination, nil
}

// Get returns a post by id, drafts included.
func (s *BlogService) Get(ctx context.Context, id string) (*models.BlogPost, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "blog post not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get blog post")
	}
	return post, nil
}

// GetPublishedBySlug returns a published post with its comments. Drafts are
// invisible to the public surface.
func (s *BlogService) GetPublishedBySlug(ctx context.Context, slug string) (*models.BlogPostDetail, error) {
	detail, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "blog post not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get blog post")
	}
	if !detail.Published {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "blog post not found")
	}
	return detail, nil
}

// Create registers a new post.
func (s *BlogService) Create(ctx context.Context, req CreateBlogPostRequest) (*models.BlogPost, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid blog post payload")
	}
	taken, err := s.repo.ExistsBySlug(ctx, req.Slug, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check slug")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "slug already in use")
	}
	post := &models.BlogPost{
		Slug:       req.Slug,
		Title:      req.Title,
		Excerpt:    req.Excerpt,
		Content:    req.Content,
		Author:     req.Author,
		Categories: req.Categories,
		Tags:       req.Tags,
		Published:  req.Published,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "slug already in use")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create blog post")
	}
	s.cache.Invalidate(ctx, "catalog:blog:*")
	return post, nil
}

// Update modifies an existing post.
func (s *BlogService) Update(ctx context.Context, id string, req UpdateBlogPostRequest) (*models.BlogPost, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid blog post payload")
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "blog post not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load blog post")
	}
	taken, err := s.repo.ExistsBySlug(ctx, req.Slug, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check slug")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "slug already in use")
	}
	existing.Slug = req.Slug
	existing.Title = req.Title
	existing.Excerpt = req.Excerpt
	existing.Content = req.Content
	existing.Author = req.Author
	existing.Categories = req.Categories
	existing.Tags = req.Tags
	existing.Published = req.Published
	if err := s.repo.Update(ctx, existing); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "slug already in use")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update blog post")
	}
	s.cache.Invalidate(ctx, "catalog:blog:*")
	return existing, nil
}

// Delete removes a post and its comments.
func (s *BlogService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "blog post not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete blog post")
	}
	s.cache.Invalidate(ctx, "catalog:blog:*")
	return nil
}

// AddComment attaches a public comment to a published post.
func (s *BlogService) AddComment(ctx context.Context, slug string, req CreateCommentRequest) (*models.BlogComment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid comment payload")
	}
	detail, err := s.GetPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	comment := &models.BlogComment{
		PostID:  detail.ID,
		Name:    req.Name,
		Comment: req.Comment,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create comment")
	}
	return comment, nil
}
