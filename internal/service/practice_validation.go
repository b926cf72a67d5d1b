package service

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/prepatef/prepatef-api/internal/models"
	appErrors "github.com/prepatef/prepatef-api/pkg/errors"
)

func registerDifficultyValidation(validate *validator.Validate) {
	validate.RegisterValidation("difficulty", func(fl validator.FieldLevel) bool {
		switch models.Difficulty(strings.ToUpper(fl.Field().String())) {
		case models.DifficultyBeginner, models.DifficultyIntermediate, models.DifficultyAdvanced:
			return true
		default:
			return false
		}
	})
}

// validateQuestionSet checks the structural rules the validate tags cannot
// express: the set is non-empty and every correct answer is one of its
// question's options.
func validateQuestionSet(questions []models.QuizQuestion) error {
	if len(questions) == 0 {
		return appErrors.WithField("questions", "at least one question is required")
	}
	for _, q := range questions {
		found := false
		for _, opt := range q.Options {
			if opt == q.CorrectAnswer {
				found = true
				break
			}
		}
		if !found {
			return appErrors.WithField("questions", "correct_answer must match one of the options for question "+q.ID)
		}
	}
	return nil
}
