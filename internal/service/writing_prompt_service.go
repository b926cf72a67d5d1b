package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/prepatef/prepatef-api/internal/models"
	appErrors "github.com/prepatef/prepatef-api/pkg/errors"
)

type writingPromptRepository interface {
	List(ctx context.Context, filter models.PracticeFilter) ([]models.WritingPrompt, int, error)
	FindByID(ctx context.Context, id string) (*models.WritingPrompt, error)
	Create(ctx context.Context, prompt *models.WritingPrompt) error
	Update(ctx context.Context, prompt *models.WritingPrompt) error
	Delete(ctx context.Context, id string) error
}

// WritingPromptService manages writing practice prompts.
type WritingPromptService struct {
	repo      writingPromptRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewWritingPromptService constructs the service.
func NewWritingPromptService(repo writingPromptRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *WritingPromptService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	registerDifficultyValidation(validate)
	return &WritingPromptService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// WritingPromptRequest is the create/update payload.
type WritingPromptRequest struct {
	Topic      string `json:"topic" validate:"required,min=2"`
	PromptText string `json:"prompt_text" validate:"required,min=10"`
	Difficulty string `json:"difficulty" validate:"required,difficulty"`
	MinWords   int    `json:"min_words" validate:"omitempty,min=1"`
	MaxWords   int    `json:"max_words" validate:"omitempty,min=1"`
}

// List returns prompts with pagination.
func (s *WritingPromptService) List(ctx context.Context, req PracticeListRequest) ([]models.WritingPrompt, *models.Pagination, error) {
	filter := practiceFilter(req)
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list writing prompts")
	}
	return rows, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Get returns a prompt by id.
func (s *WritingPromptService) Get(ctx context.Context, id string) (*models.WritingPrompt, error) {
	prompt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "writing prompt not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get writing prompt")
	}
	return prompt, nil
}

// Create registers a new prompt.
func (s *WritingPromptService) Create(ctx context.Context, req WritingPromptRequest) (*models.WritingPrompt, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid writing prompt payload")
	}
	if req.MaxWords > 0 && req.MinWords > req.MaxWords {
		return nil, appErrors.WithField("max_words", "must be greater than or equal to min_words")
	}
	prompt := &models.WritingPrompt{
		Topic:      req.Topic,
		PromptText: req.PromptText,
		Difficulty: models.Difficulty(strings.ToUpper(req.Difficulty)),
		MinWords:   req.MinWords,
		MaxWords:   req.MaxWords,
	}
	if err := s.repo.Create(ctx, prompt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create writing prompt")
	}
	s.cache.Invalidate(ctx, "catalog:practice:writing:*")
	return prompt, nil
}

// Update modifies an existing prompt.
func (s *WritingPromptService) Update(ctx context.Context, id string, req WritingPromptRequest) (*models.WritingPrompt, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid writing prompt payload")
	}
	if req.MaxWords > 0 && req.MinWords > req.MaxWords {
		return nil, appErrors.WithField("max_words", "must be greater than or equal to min_words")
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "writing prompt not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load writing prompt")
	}
	existing.Topic = req.Topic
	existing.PromptText = req.PromptText
	existing.Difficulty = models.Difficulty(strings.ToUpper(req.Difficulty))
	existing.MinWords = req.MinWords
	existing.MaxWords = req.MaxWords
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update writing prompt")
	}
	s.cache.Invalidate(ctx, "catalog:practice:writing:*")
	return existing, nil
}

// Delete removes a prompt.
func (s *WritingPromptService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "writing prompt not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete writing prompt")
	}
	s.cache.Invalidate(ctx, "catalog:practice:writing:*")
	return nil
}
