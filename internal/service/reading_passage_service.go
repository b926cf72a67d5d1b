package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/prepatef/prepatef-api/internal/models"
	appErrors "github.com/prepatef/prepatef-api/pkg/errors"
)

type readingPassageRepository interface {
	List(ctx context.Context, filter models.PracticeFilter) ([]models.ReadingPassage, int, error)
	FindByID(ctx context.Context, id string) (*models.ReadingPassage, error)
	Create(ctx context.Context, passage *models.ReadingPassage) error
	Update(ctx context.Context, passage *models.ReadingPassage) error
	Delete(ctx context.Context, id string) error
}

// ReadingPassageService manages reading passages with embedded quizzes.
type ReadingPassageService struct {
	repo      readingPassageRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReadingPassageService constructs the service.
func NewReadingPassageService(repo readingPassageRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ReadingPassageService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	registerDifficultyValidation(validate)
	return &ReadingPassageService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// ReadingPassageRequest is the create/update payload.
type ReadingPassageRequest struct {
	Topic      string                `json:"topic" validate:"required,min=2"`
	Passage    string                `json:"passage" validate:"required,min=20"`
	Difficulty string                `json:"difficulty" validate:"required,difficulty"`
	Questions  []models.QuizQuestion `json:"questions" validate:"required,min=1,dive"`
}

// PublicReadingPassage is the student-facing view: correct answers stripped.
type PublicReadingPassage struct {
	ID         string                      `json:"id"`
	Topic      string                      `json:"topic"`
	Passage    string                      `json:"passage"`
	Difficulty models.Difficulty           `json:"difficulty"`
	Questions  []models.PublicQuizQuestion `json:"questions"`
}

// List returns passages with pagination, answers included (admin surface).
func (s *ReadingPassageService) List(ctx context.Context, req PracticeListRequest) ([]models.ReadingPassage, *models.Pagination, error) {
	filter := practiceFilter(req)
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reading passages")
	}
	return rows, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// ListPublic returns the student-safe listing, served from cache when hot.
func (s *ReadingPassageService) ListPublic(ctx context.Context, req PracticeListRequest) ([]PublicReadingPassage, *models.Pagination, error) {
	filter := practiceFilter(req)

	type cached struct {
		Passages   []PublicReadingPassage `json:"passages"`
		Pagination models.Pagination      `json:"pagination"`
	}
	key := fmt.Sprintf("catalog:practice:reading:%s:%s:%d:%d", filter.Search, filter.Difficulty, filter.Page, filter.PageSize)
	var hit cached
	if s.cache.Get(ctx, key, &hit) {
		return hit.Passages, &hit.Pagination, nil
	}

	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reading passages")
	}
	out := make([]PublicReadingPassage, 0, len(rows))
	for _, p := range rows {
		out = append(out, PublicReadingPassage{
			ID:         p.ID,
			Topic:      p.Topic,
			Passage:    p.Passage,
			Difficulty: p.Difficulty,
			Questions:  p.Questions.PublicView(),
		})
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	s.cache.Set(ctx, key, cached{Passages: out, Pagination: *pagination})
	return out, pagination, nil
}

// Get returns a passage by id, answers included.
func (s *ReadingPassageService) Get(ctx context.Context, id string) (*models.ReadingPassage, error) {
	passage, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "reading passage not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get reading passage")
	}
	return passage, nil
}

// GetPublic returns the student-safe view of a single passage.
func (s *ReadingPassageService) GetPublic(ctx context.Context, id string) (*PublicReadingPassage, error) {
	passage, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PublicReadingPassage{
		ID:         passage.ID,
		Topic:      passage.Topic,
		Passage:    passage.Passage,
		Difficulty: passage.Difficulty,
		Questions:  passage.Questions.PublicView(),
	}, nil
}

// Create registers a new passage.
func (s *ReadingPassageService) Create(ctx context.Context, req ReadingPassageRequest) (*models.ReadingPassage, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid reading passage payload")
	}
	if err := validateQuestionSet(req.Questions); err != nil {
		return nil, err
	}
	passage := &models.ReadingPassage{
		Topic:      req.Topic,
		Passage:    req.Passage,
		Difficulty: models.Difficulty(strings.ToUpper(req.Difficulty)),
		Questions:  req.Questions,
	}
	if err := s.repo.Create(ctx, passage); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create reading passage")
	}
	s.cache.Invalidate(ctx, "catalog:practice:reading:*")
	return passage, nil
}

// Update modifies an existing passage.
func (s *ReadingPassageService) Update(ctx context.Context, id string, req ReadingPassageRequest) (*models.ReadingPassage, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid reading passage payload")
	}
	if err := validateQuestionSet(req.Questions); err != nil {
		return nil, err
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "reading passage not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reading passage")
	}
	existing.Topic = req.Topic
	existing.Passage = req.Passage
	existing.Difficulty = models.Difficulty(strings.ToUpper(req.Difficulty))
	existing.Questions = req.Questions
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update reading passage")
	}
	s.cache.Invalidate(ctx, "catalog:practice:reading:*")
	return existing, nil
}

// Delete removes a passage.
func (s *ReadingPassageService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "reading passage not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete reading passage")
	}
	s.cache.Invalidate(ctx, "catalog:practice:reading:*")
	return nil
}
