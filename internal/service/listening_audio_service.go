package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/prepatef/prepatef-api/internal/models"
	"github.com/prepatef/prepatef-api/pkg/config"
	appErrors "github.com/prepatef/prepatef-api/pkg/errors"
	"github.com/prepatef/prepatef-api/pkg/storage"
)

type listeningAudioRepository interface {
	List(ctx context.Context, filter models.PracticeFilter) ([]models.ListeningAudio, int, error)
	FindByID(ctx context.Context, id string) (*models.ListeningAudio, error)
	Create(ctx context.Context, clip *models.ListeningAudio) error
	Update(ctx context.Context, clip *models.ListeningAudio) error
	UpdateAudioPath(ctx context.Context, id, path string) error
	Delete(ctx context.Context, id string) error
}

type mediaStorage interface {
	SaveStream(filename string, r io.Reader) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
}

// ListeningAudioService manages listening clips, their uploaded audio files
// and the signed URLs the public player uses.
type ListeningAudioService struct {
	repo      listeningAudioRepository
	storage   mediaStorage
	signer    *storage.SignedURLSigner
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       config.MediaConfig
}

// NewListeningAudioService constructs the service.
func NewListeningAudioService(repo listeningAudioRepository, store mediaStorage, signer *storage.SignedURLSigner, cache *CacheService, cfg config.MediaConfig, validate *validator.Validate, logger *zap.Logger) *ListeningAudioService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	registerDifficultyValidation(validate)
	return &ListeningAudioService{repo: repo, storage: store, signer: signer, cache: cache, validator: validate, logger: logger, cfg: cfg}
}

// ListeningAudioRequest is the create/update payload. The audio file itself
// is uploaded separately.
type ListeningAudioRequest struct {
	Topic      string                `json:"topic" validate:"required,min=2"`
	Transcript string                `json:"transcript" validate:"required,min=20"`
	Difficulty string                `json:"difficulty" validate:"required,difficulty"`
	Questions  []models.QuizQuestion `json:"questions" validate:"required,min=1,dive"`
}

// PublicListeningAudio is the student-facing view: correct answers stripped,
// audio reachable only through a signed URL. The transcript stays visible so
// the assessment flow can present it after the quiz.
type PublicListeningAudio struct {
	ID         string                      `json:"id"`
	Topic      string                      `json:"topic"`
	Transcript string                      `json:"transcript"`
	Difficulty models.Difficulty           `json:"difficulty"`
	AudioURL   string                      `json:"audio_url,omitempty"`
	Questions  []models.PublicQuizQuestion `json:"questions"`
}

// List returns clips with pagination, answers included (admin surface).
func (s *ListeningAudioService) List(ctx context.Context, req PracticeListRequest) ([]models.ListeningAudio, *models.Pagination, error) {
	filter := practiceFilter(req)
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list listening clips")
	}
	return rows, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// ListPublic returns the student-safe listing with signed audio URLs.
func (s *ListeningAudioService) ListPublic(ctx context.Context, req PracticeListRequest) ([]PublicListeningAudio, *models.Pagination, error) {
	filter := practiceFilter(req)
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list listening clips")
	}
	out := make([]PublicListeningAudio, 0, len(rows))
	for _, clip := range rows {
		out = append(out, s.publicView(&clip))
	}
	return out, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Get returns a clip by id, answers included.
func (s *ListeningAudioService) Get(ctx context.Context, id string) (*models.ListeningAudio, error) {
	clip, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "listening clip not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get listening clip")
	}
	return clip, nil
}

// GetPublic returns the student-safe view of a single clip.
func (s *ListeningAudioService) GetPublic(ctx context.Context, id string) (*PublicListeningAudio, error) {
	clip, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	view := s.publicView(clip)
	return &view, nil
}

// Create registers a new clip without audio. UploadAudio attaches the file.
func (s *ListeningAudioService) Create(ctx context.Context, req ListeningAudioRequest) (*models.ListeningAudio, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid listening clip payload")
	}
	if err := validateQuestionSet(req.Questions); err != nil {
		return nil, err
	}
	clip := &models.ListeningAudio{
		Topic:      req.Topic,
		Transcript: req.Transcript,
		Difficulty: models.Difficulty(strings.ToUpper(req.Difficulty)),
		Questions:  req.Questions,
	}
	if err := s.repo.Create(ctx, clip); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create listening clip")
	}
	s.cache.Invalidate(ctx, "catalog:practice:listening:*")
	return clip, nil
}

// Update modifies an existing clip. The audio path is untouched.
func (s *ListeningAudioService) Update(ctx context.Context, id string, req ListeningAudioRequest) (*models.ListeningAudio, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid listening clip payload")
	}
	if err := validateQuestionSet(req.Questions); err != nil {
		return nil, err
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "listening clip not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load listening clip")
	}
	existing.Topic = req.Topic
	existing.Transcript = req.Transcript
	existing.Difficulty = models.Difficulty(strings.ToUpper(req.Difficulty))
	existing.Questions = req.Questions
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update listening clip")
	}
	s.cache.Invalidate(ctx, "catalog:practice:listening:*")
	return existing, nil
}

// Delete removes a clip and its stored audio file.
func (s *ListeningAudioService) Delete(ctx context.Context, id string) error {
	clip, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "listening clip not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load listening clip")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "listening clip not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete listening clip")
	}
	if clip.AudioPath != "" {
		if err := s.storage.Delete(clip.AudioPath); err != nil {
			s.logger.Warn("failed to remove audio file", zap.String("path", clip.AudioPath), zap.Error(err))
		}
	}
	s.cache.Invalidate(ctx, "catalog:practice:listening:*")
	return nil
}

// UploadAudio validates and stores the uploaded file, then records its path
// on the clip. Any previous file is removed.
func (s *ListeningAudioService) UploadAudio(ctx context.Context, id, filename, contentType string, size int64, r io.Reader) (*models.ListeningAudio, error) {
	clip, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "listening clip not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load listening clip")
	}
	if s.cfg.MaxFileSizeBytes > 0 && size > s.cfg.MaxFileSizeBytes {
		return nil, appErrors.WithField("file", fmt.Sprintf("file exceeds the %d byte limit", s.cfg.MaxFileSizeBytes))
	}
	if !s.mimeAllowed(contentType) {
		return nil, appErrors.WithField("file", "unsupported audio format")
	}

	ext := filepath.Ext(filename)
	stored := fmt.Sprintf("audio/%s%s", uuid.NewString(), ext)
	relPath, err := s.storage.SaveStream(stored, r)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store audio file")
	}

	previous := clip.AudioPath
	if err := s.repo.UpdateAudioPath(ctx, id, relPath); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record audio path")
	}
	if previous != "" {
		if err := s.storage.Delete(previous); err != nil {
			s.logger.Warn("failed to remove previous audio file", zap.String("path", previous), zap.Error(err))
		}
	}

	clip.AudioPath = relPath
	s.cache.Invalidate(ctx, "catalog:practice:listening:*")
	return clip, nil
}

// ResolveAudio turns a signed token back into an open file for streaming.
func (s *ListeningAudioService) ResolveAudio(token string) (*os.File, error) {
	_, relPath, _, err := s.signer.Parse(token)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired audio link")
	}
	f, err := s.storage.Open(relPath)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "audio file not found")
	}
	return f, nil
}

func (s *ListeningAudioService) publicView(clip *models.ListeningAudio) PublicListeningAudio {
	view := PublicListeningAudio{
		ID:         clip.ID,
		Topic:      clip.Topic,
		Transcript: clip.Transcript,
		Difficulty: clip.Difficulty,
		Questions:  clip.Questions.PublicView(),
	}
	if clip.AudioPath != "" && s.signer != nil {
		token, _, err := s.signer.Generate(clip.ID, clip.AudioPath)
		if err != nil {
			s.logger.Warn("failed to sign audio url", zap.String("clip_id", clip.ID), zap.Error(err))
		} else {
			view.AudioURL = "/api/v1/media/audio/" + token
		}
	}
	return view
}

func (s *ListeningAudioService) mimeAllowed(contentType string) bool {
	if len(s.cfg.AllowedMIMEs) == 0 {
		return strings.HasPrefix(contentType, "audio/")
	}
	for _, allowed := range s.cfg.AllowedMIMEs {
		if strings.EqualFold(strings.TrimSpace(allowed), contentType) {
			return true
		}
	}
	return false
}
