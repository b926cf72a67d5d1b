package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/prepatef/prepatef-api/internal/models"
	"github.com/prepatef/prepatef-api/internal/repository"
	appErrors "github.com/prepatef/prepatef-api/pkg/errors"
)

type categoryRepository interface {
	List(ctx context.Context) ([]models.BlogCategory, error)
	FindByID(ctx context.Context, id string) (*models.BlogCategory, error)
	ExistsBySlug(ctx context.Context, slug string, excludeID string) (bool, error)
	Create(ctx context.Context, category *models.BlogCategory) error
	Update(ctx context.Context, category *models.BlogCategory) error
	Delete(ctx context.Context, id string) error
}

type tagRepository interface {
	List(ctx context.Context) ([]models.BlogTag, error)
	FindByID(ctx context.Context, id string) (*models.BlogTag, error)
	ExistsBySlug(ctx context.Context, slug string, excludeID string) (bool, error)
	Create(ctx context.Context, tag *models.BlogTag) error
	Update(ctx context.Context, tag *models.BlogTag) error
	Delete(ctx context.Context, id string) error
}

type taxonomyUsageCounter interface {
	CountReferencingName(ctx context.Context, column, name string) (int, error)
}

// TaxonomyService manages blog categories and tags. Deleting either is blocked
// while any post still references the name.
type TaxonomyService struct {
	categories categoryRepository
	tags       tagRepository
	usage      taxonomyUsageCounter
	cache      *CacheService
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewTaxonomyService constructs the service.
func NewTaxonomyService(categories categoryRepository, tags tagRepository, usage taxonomyUsageCounter, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *TaxonomyService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &TaxonomyService{categories: categories, tags: tags, usage: usage, cache: cache, validator: validate, logger: logger}
	svc.validator.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	return svc
}

// TaxonomyRequest is the create/update payload shared by categories and tags.
type TaxonomyRequest struct {
	Name string `json:"name" validate:"required,min=2"`
	Slug string `json:"slug" validate:"required,slug"`
}

// ListCategories returns all categories ordered by name.
func (s *TaxonomyService) ListCategories(ctx context.Context) ([]models.BlogCategory, error) {
	rows, err := s.categories.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list categories")
	}
	return rows, nil
}

// CreateCategory registers a new category.
func (s *TaxonomyService) CreateCategory(ctx context.Context, req TaxonomyRequest) (*models.BlogCategory, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid category payload")
	}
	taken, err := s.categories.ExistsBySlug(ctx, req.Slug, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check slug")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "slug already in use")
	}
	category := &models.BlogCategory{Name: req.Name, Slug: req.Slug}
	if err := s.categories.Create(ctx, category); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "slug already in use")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create category")
	}
	return category, nil
}

// UpdateCategory modifies an existing category.
func (s *TaxonomyService) UpdateCategory(ctx context.Context, id string, req TaxonomyRequest) (*models.BlogCategory, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid category payload")
	}
	existing, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "category not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load category")
	}
	taken, err := s.categories.ExistsBySlug(ctx, req.Slug, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check slug")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "slug already in use")
	}
	existing.Name = req.Name
	existing.Slug = req.Slug
	if err := s.categories.Update(ctx, existing); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update category")
	}
	return existing, nil
}

// DeleteCategory removes a category unless a post still references it.
func (s *TaxonomyService) DeleteCategory(ctx context.Context, id string) error {
	existing, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "category not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load category")
	}
	count, err := s.usage.CountReferencingName(ctx, "categories", existing.Name)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check category usage")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "category is still referenced by blog posts")
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "category not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete category")
	}
	return nil
}

// ListTags returns all tags ordered by name.
func (s *TaxonomyService) ListTags(ctx context.Context) ([]models.BlogTag, error) {
	rows, err := s.tags.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tags")
	}
	return rows, nil
}

// CreateTag registers a new tag.
func (s *TaxonomyService) CreateTag(ctx context.Context, req TaxonomyRequest) (*models.BlogTag, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid tag payload")
	}
	taken, err := s.tags.ExistsBySlug(ctx, req.Slug, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check slug")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "slug already in use")
	}
	tag := &models.BlogTag{Name: req.Name, Slug: req.Slug}
	if err := s.tags.Create(ctx, tag); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "slug already in use")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create tag")
	}
	return tag, nil
}

// UpdateTag modifies an existing tag.
func (s *TaxonomyService) UpdateTag(ctx context.Context, id string, req TaxonomyRequest) (*models.BlogTag, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid tag payload")
	}
	existing, err := s.tags.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "tag not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tag")
	}
	taken, err := s.tags.ExistsBySlug(ctx, req.Slug, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check slug")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "slug already in use")
	}
	existing.Name = req.Name
	existing.Slug = req.Slug
	if err := s.tags.Update(ctx, existing); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update tag")
	}
	return existing, nil
}

// DeleteTag removes a tag unless a post still references it.
func (s *TaxonomyService) DeleteTag(ctx context.Context, id string) error {
	existing, err := s.tags.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "tag not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tag")
	}
	count, err := s.usage.CountReferencingName(ctx, "tags", existing.Name)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check tag usage")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "tag is still referenced by blog posts")
	}
	if err := s.tags.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "tag not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete tag")
	}
	return nil
}
