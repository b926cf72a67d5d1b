package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/prepatef/prepatef-api/internal/clients/scoring"
	appErrors "github.com/prepatef/prepatef-api/pkg/errors"
)

type scoringClient interface {
	Evaluate(ctx context.Context, req scoring.Request) (*scoring.Result, error)
}

// AssessmentService forwards student responses to the external scoring engine
// and returns its evaluation verbatim. No scoring logic lives here.
type AssessmentService struct {
	speaking  speakingPromptRepository
	writing   writingPromptRepository
	listening gradingListeningRepository
	client    scoringClient
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssessmentService constructs the service.
func NewAssessmentService(speaking speakingPromptRepository, writing writingPromptRepository, listening gradingListeningRepository, client scoringClient, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *AssessmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssessmentService{
		speaking:  speaking,
		writing:   writing,
		listening: listening,
		client:    client,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// AssessSpeakingRequest carries the recorded response as base64 audio.
type AssessSpeakingRequest struct {
	ResponseAudio string `json:"response_audio" validate:"required"`
}

// AssessWritingRequest carries the written response.
type AssessWritingRequest struct {
	ResponseText string `json:"response_text" validate:"required,min=10"`
}

// AssessListeningRequest carries the student's summary of the clip.
type AssessListeningRequest struct {
	ResponseText string `json:"response_text" validate:"required,min=10"`
}

// AssessSpeaking evaluates a spoken response against a speaking prompt.
func (s *AssessmentService) AssessSpeaking(ctx context.Context, promptID string, req AssessSpeakingRequest) (*scoring.Result, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid assessment payload")
	}
	prompt, err := s.speaking.FindByID(ctx, promptID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "speaking prompt not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load speaking prompt")
	}
	return s.evaluate(ctx, scoring.Request{
		Skill:         "SPEAKING",
		Prompt:        prompt.PromptText,
		ResponseAudio: req.ResponseAudio,
	})
}

// AssessWriting evaluates a written response against a writing prompt.
func (s *AssessmentService) AssessWriting(ctx context.Context, promptID string, req AssessWritingRequest) (*scoring.Result, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid assessment payload")
	}
	prompt, err := s.writing.FindByID(ctx, promptID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "writing prompt not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load writing prompt")
	}
	return s.evaluate(ctx, scoring.Request{
		Skill:        "WRITING",
		Prompt:       prompt.PromptText,
		ResponseText: req.ResponseText,
	})
}

// AssessListening evaluates a comprehension summary against a clip transcript.
func (s *AssessmentService) AssessListening(ctx context.Context, clipID string, req AssessListeningRequest) (*scoring.Result, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid assessment payload")
	}
	clip, err := s.listening.FindByID(ctx, clipID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "listening clip not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load listening clip")
	}
	return s.evaluate(ctx, scoring.Request{
		Skill:        "LISTENING",
		Prompt:       clip.Transcript,
		ResponseText: req.ResponseText,
	})
}

func (s *AssessmentService) evaluate(ctx context.Context, req scoring.Request) (*scoring.Result, error) {
	result, err := s.client.Evaluate(ctx, req)
	if err != nil {
		s.metrics.RecordAssessment(req.Skill, false)
		s.logger.Error("scoring engine call failed", zap.String("skill", req.Skill), zap.Error(err))
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "assessment service is temporarily unavailable")
	}
	s.metrics.RecordAssessment(req.Skill, true)
	return result, nil
}
