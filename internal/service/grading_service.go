package service

import (
	"context"
	"database/sql"
	"errors"
	"math"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/prepatef/prepatef-api/internal/models"
	appErrors "github.com/prepatef/prepatef-api/pkg/errors"
)

type gradingReadingRepository interface {
	FindByID(ctx context.Context, id string) (*models.ReadingPassage, error)
}

type gradingListeningRepository interface {
	FindByID(ctx context.Context, id string) (*models.ListeningAudio, error)
}

// GradingService scores multiple-choice quiz submissions locally, without any
// external collaborator.
type GradingService struct {
	reading   gradingReadingRepository
	listening gradingListeningRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGradingService constructs the service.
func NewGradingService(reading gradingReadingRepository, listening gradingListeningRepository, validate *validator.Validate, logger *zap.Logger) *GradingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradingService{reading: reading, listening: listening, validator: validate, logger: logger}
}

// GradeRequest carries the student's selections keyed by question id.
type GradeRequest struct {
	Answers map[string]string `json:"answers" validate:"required"`
}

// QuestionResult reports the outcome for a single question.
type QuestionResult struct {
	QuestionID    string `json:"question_id"`
	Selected      string `json:"selected"`
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
}

// GradeResult is the full quiz outcome.
type GradeResult struct {
	Score   int              `json:"score"`
	Total   int              `json:"total"`
	Correct int              `json:"correct"`
	Results []QuestionResult `json:"results"`
}

// GradeReading scores a submission against a reading passage's questions.
func (s *GradingService) GradeReading(ctx context.Context, passageID string, req GradeRequest) (*GradeResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid submission")
	}
	passage, err := s.reading.FindByID(ctx, passageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "reading passage not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reading passage")
	}
	return Grade(passage.Questions, req.Answers), nil
}

// GradeListening scores a submission against a listening clip's questions.
func (s *GradingService) GradeListening(ctx context.Context, clipID string, req GradeRequest) (*GradeResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid submission")
	}
	clip, err := s.listening.FindByID(ctx, clipID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "listening clip not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load listening clip")
	}
	return Grade(clip.Questions, req.Answers), nil
}

// Grade compares submitted answers against the question set. Matching is exact
// string equality; an unanswered question counts as wrong. The score is the
// percentage of correct answers rounded to the nearest integer.
func Grade(questions models.QuizQuestionList, answers map[string]string) *GradeResult {
	result := &GradeResult{
		Total:   len(questions),
		Results: make([]QuestionResult, 0, len(questions)),
	}
	for _, q := range questions {
		selected := answers[q.ID]
		correct := selected == q.CorrectAnswer
		if correct {
			result.Correct++
		}
		result.Results = append(result.Results, QuestionResult{
			QuestionID:    q.ID,
			Selected:      selected,
			Correct:       correct,
			CorrectAnswer: q.CorrectAnswer,
		})
	}
	if result.Total > 0 {
		result.Score = int(math.Round(float64(result.Correct) / float64(result.Total) * 100))
	}
	return result
}
