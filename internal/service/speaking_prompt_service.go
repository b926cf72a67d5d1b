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

type speakingPromptRepository interface {
	List(ctx context.Context, filter models.PracticeFilter) ([]models.SpeakingPrompt, int, error)
	FindByID(ctx context.Context, id string) (*models.SpeakingPrompt, error)
	Create(ctx context.Context, prompt *models.SpeakingPrompt) error
	Update(ctx context.Context, prompt *models.SpeakingPrompt) error
	Delete(ctx context.Context, id string) error
}

// SpeakingPromptService manages speaking practice prompts.
type SpeakingPromptService struct {
	repo      speakingPromptRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSpeakingPromptService constructs the service.
func NewSpeakingPromptService(repo speakingPromptRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *SpeakingPromptService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	registerDifficultyValidation(validate)
	return &SpeakingPromptService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// SpeakingPromptRequest is the create/update payload.
type SpeakingPromptRequest struct {
	Topic         string `json:"topic" validate:"required,min=2"`
	PromptText    string `json:"prompt_text" validate:"required,min=10"`
	Difficulty    string `json:"difficulty" validate:"required,difficulty"`
	TimeLimitSecs int    `json:"time_limit_secs" validate:"omitempty,min=10"`
}

// PracticeListRequest describes shared filters for practice listings.
type PracticeListRequest struct {
	Search     string
	Difficulty string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}

func practiceFilter(req PracticeListRequest) models.PracticeFilter {
	filter := models.PracticeFilter{
		Search:     req.Search,
		Difficulty: models.Difficulty(strings.ToUpper(req.Difficulty)),
		Page:       req.Page,
		PageSize:   req.PageSize,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	}
	if req.Difficulty == "" {
		filter.Difficulty = ""
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	return filter
}

// List returns prompts with pagination.
func (s *SpeakingPromptService) List(ctx context.Context, req PracticeListRequest) ([]models.SpeakingPrompt, *models.Pagination, error) {
	filter := practiceFilter(req)
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list speaking prompts")
	}
	return rows, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Get returns a prompt by id.
func (s *SpeakingPromptService) Get(ctx context.Context, id string) (*models.SpeakingPrompt, error) {
	prompt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "speaking prompt not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get speaking prompt")
	}
	return prompt, nil
}

// Create registers a new prompt.
func (s *SpeakingPromptService) Create(ctx context.Context, req SpeakingPromptRequest) (*models.SpeakingPrompt, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid speaking prompt payload")
	}
	prompt := &models.SpeakingPrompt{
		Topic:         req.Topic,
		PromptText:    req.PromptText,
		Difficulty:    models.Difficulty(strings.ToUpper(req.Difficulty)),
		TimeLimitSecs: req.TimeLimitSecs,
	}
	if err := s.repo.Create(ctx, prompt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create speaking prompt")
	}
	s.cache.Invalidate(ctx, "catalog:practice:speaking:*")
	return prompt, nil
}

// Update modifies an existing prompt.
func (s *SpeakingPromptService) Update(ctx context.Context, id string, req SpeakingPromptRequest) (*models.SpeakingPrompt, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid speaking prompt payload")
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "speaking prompt not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load speaking prompt")
	}
	existing.Topic = req.Topic
	existing.PromptText = req.PromptText
	existing.Difficulty = models.Difficulty(strings.ToUpper(req.Difficulty))
	existing.TimeLimitSecs = req.TimeLimitSecs
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update speaking prompt")
	}
	s.cache.Invalidate(ctx, "catalog:practice:speaking:*")
	return existing, nil
}

// Delete removes a prompt.
func (s *SpeakingPromptService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "speaking prompt not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete speaking prompt")
	}
	s.cache.Invalidate(ctx, "catalog:practice:speaking:*")
	return nil
}
