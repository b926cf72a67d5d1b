package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepatef/prepatef-api/internal/models"
)

type mockReadingRepo struct {
	items map[string]*models.ReadingPassage
}

func (m *mockReadingRepo) FindByID(ctx context.Context, id string) (*models.ReadingPassage, error) {
	if passage, ok := m.items[id]; ok {
		cp := *passage
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

type mockListeningRepo struct {
	items map[string]*models.ListeningAudio
}

func (m *mockListeningRepo) FindByID(ctx context.Context, id string) (*models.ListeningAudio, error) {
	if clip, ok := m.items[id]; ok {
		cp := *clip
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func sampleQuestions() models.QuizQuestionList {
	return models.QuizQuestionList{
		{ID: "q1", QuestionText: "Quel est le sujet principal?", Options: []string{"A", "B", "C"}, CorrectAnswer: "A"},
		{ID: "q2", QuestionText: "Que dit l'auteur?", Options: []string{"A", "B", "C"}, CorrectAnswer: "B"},
		{ID: "q3", QuestionText: "Quelle conclusion?", Options: []string{"A", "B", "C"}, CorrectAnswer: "C"},
	}
}

func TestGradeAllCorrect(t *testing.T) {
	result := Grade(sampleQuestions(), map[string]string{"q1": "A", "q2": "B", "q3": "C"})

	assert.Equal(t, 100, result.Score)
	assert.Equal(t, 3, result.Correct)
	assert.Equal(t, 3, result.Total)
}

func TestGradeRoundsScore(t *testing.T) {
	result := Grade(sampleQuestions(), map[string]string{"q1": "A"})

	// 1 of 3 correct rounds to 33.
	assert.Equal(t, 33, result.Score)
	assert.Equal(t, 1, result.Correct)

	result = Grade(sampleQuestions(), map[string]string{"q1": "A", "q2": "B"})
	assert.Equal(t, 67, result.Score)
}

func TestGradeUnansweredCountsWrong(t *testing.T) {
	result := Grade(sampleQuestions(), map[string]string{"q2": "B"})

	require.Len(t, result.Results, 3)
	assert.False(t, result.Results[0].Correct)
	assert.Equal(t, "", result.Results[0].Selected)
	assert.Equal(t, "A", result.Results[0].CorrectAnswer)
	assert.True(t, result.Results[1].Correct)
}

func TestGradeEmptyQuestionSet(t *testing.T) {
	result := Grade(nil, map[string]string{"q1": "A"})

	assert.Equal(t, 0, result.Score)
	assert.Equal(t, 0, result.Total)
	assert.Empty(t, result.Results)
}

func TestGradeReading(t *testing.T) {
	repo := &mockReadingRepo{items: map[string]*models.ReadingPassage{
		"p1": {ID: "p1", Topic: "Immigration", Questions: sampleQuestions()},
	}}
	service := NewGradingService(repo, &mockListeningRepo{}, nil, nil)

	result, err := service.GradeReading(context.Background(), "p1", GradeRequest{
		Answers: map[string]string{"q1": "A", "q2": "C", "q3": "C"},
	})
	require.NoError(t, err)
	assert.Equal(t, 67, result.Score)
	assert.Equal(t, 2, result.Correct)
}

func TestGradeReadingNotFound(t *testing.T) {
	service := NewGradingService(&mockReadingRepo{}, &mockListeningRepo{}, nil, nil)

	_, err := service.GradeReading(context.Background(), "missing", GradeRequest{
		Answers: map[string]string{"q1": "A"},
	})
	require.Error(t, err)
}

func TestGradeListening(t *testing.T) {
	repo := &mockListeningRepo{items: map[string]*models.ListeningAudio{
		"c1": {ID: "c1", Topic: "Dialogue en gare", Questions: sampleQuestions()[:1]},
	}}
	service := NewGradingService(&mockReadingRepo{}, repo, nil, nil)

	result, err := service.GradeListening(context.Background(), "c1", GradeRequest{
		Answers: map[string]string{"q1": "A"},
	})
	require.NoError(t, err)
	assert.Equal(t, 100, result.Score)
}

func TestGradeMissingAnswers(t *testing.T) {
	service := NewGradingService(&mockReadingRepo{}, &mockListeningRepo{}, nil, nil)

	_, err := service.GradeReading(context.Background(), "p1", GradeRequest{})
	require.Error(t, err)
}
