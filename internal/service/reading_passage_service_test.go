package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepatef/prepatef-api/internal/models"
	appErrors "github.com/prepatef/prepatef-api/pkg/errors"
)

type mockReadingPassageRepo struct {
	passages map[string]*models.ReadingPassage
}

func (m *mockReadingPassageRepo) List(ctx context.Context, filter models.PracticeFilter) ([]models.ReadingPassage, int, error) {
	out := []models.ReadingPassage{}
	for _, p := range m.passages {
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (m *mockReadingPassageRepo) FindByID(ctx context.Context, id string) (*models.ReadingPassage, error) {
	p, ok := m.passages[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (m *mockReadingPassageRepo) Create(ctx context.Context, passage *models.ReadingPassage) error {
	if passage.ID == "" {
		passage.ID = "r1"
	}
	cp := *passage
	m.passages[passage.ID] = &cp
	return nil
}

func (m *mockReadingPassageRepo) Update(ctx context.Context, passage *models.ReadingPassage) error {
	if _, ok := m.passages[passage.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *passage
	m.passages[passage.ID] = &cp
	return nil
}

func (m *mockReadingPassageRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.passages[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.passages, id)
	return nil
}

func validPassageRequest() ReadingPassageRequest {
	return ReadingPassageRequest{
		Topic:      "La vie au travail",
		Passage:    "Un texte assez long pour servir de support de lecture aux étudiants.",
		Difficulty: "intermediate",
		Questions: []models.QuizQuestion{
			{ID: "q1", QuestionText: "Quel est le sujet du texte ?", Options: []string{"Le travail", "Les vacances"}, CorrectAnswer: "Le travail"},
		},
	}
}

func TestReadingPassageCreate(t *testing.T) {
	repo := &mockReadingPassageRepo{passages: map[string]*models.ReadingPassage{}}
	svc := NewReadingPassageService(repo, nil, nil, nil)

	passage, err := svc.Create(context.Background(), validPassageRequest())
	require.NoError(t, err)
	assert.Equal(t, models.DifficultyIntermediate, passage.Difficulty)
	assert.Len(t, repo.passages, 1)
}

func TestReadingPassageCreateRejectsAnswerOutsideOptions(t *testing.T) {
	repo := &mockReadingPassageRepo{passages: map[string]*models.ReadingPassage{}}
	svc := NewReadingPassageService(repo, nil, nil, nil)

	req := validPassageRequest()
	req.Questions[0].CorrectAnswer = "La retraite"

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Contains(t, appErr.Fields, "questions")
	assert.Empty(t, repo.passages)
}

func TestReadingPassageCreateRejectsUnknownDifficulty(t *testing.T) {
	repo := &mockReadingPassageRepo{passages: map[string]*models.ReadingPassage{}}
	svc := NewReadingPassageService(repo, nil, nil, nil)

	req := validPassageRequest()
	req.Difficulty = "expert"

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
}

func TestReadingPassagePublicViewStripsAnswers(t *testing.T) {
	repo := &mockReadingPassageRepo{passages: map[string]*models.ReadingPassage{}}
	svc := NewReadingPassageService(repo, nil, nil, nil)

	created, err := svc.Create(context.Background(), validPassageRequest())
	require.NoError(t, err)

	public, err := svc.GetPublic(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, public.Questions, 1)
	assert.Equal(t, "q1", public.Questions[0].ID)
	assert.Equal(t, []string{"Le travail", "Les vacances"}, public.Questions[0].Options)

	listed, _, err := svc.ListPublic(context.Background(), PracticeListRequest{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
}

func TestReadingPassageGetPublicNotFound(t *testing.T) {
	svc := NewReadingPassageService(&mockReadingPassageRepo{passages: map[string]*models.ReadingPassage{}}, nil, nil, nil)

	_, err := svc.GetPublic(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}
