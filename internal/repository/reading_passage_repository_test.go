package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepatef/prepatef-api/internal/models"
)

func TestReadingPassageRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReadingPassageRepository(db)

	now := time.Now()
	questions := []byte(`[{"id":"q1","question_text":"Quel est le sujet du texte ?","options":["Le travail","Les vacances"],"correct_answer":"Le travail"}]`)
	rows := sqlmock.NewRows([]string{"id", "topic", "passage", "difficulty", "questions", "created_at", "updated_at"}).
		AddRow("r1", "La vie au travail", "Texte...", string(models.DifficultyIntermediate), questions, now, now)
	mock.ExpectQuery("FROM reading_passages WHERE id = ").
		WithArgs("r1").
		WillReturnRows(rows)

	passage, err := repo.FindByID(context.Background(), "r1")
	require.NoError(t, err)
	require.Len(t, passage.Questions, 1)
	assert.Equal(t, "q1", passage.Questions[0].ID)
	assert.Equal(t, "Le travail", passage.Questions[0].CorrectAnswer)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadingPassageRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReadingPassageRepository(db)

	mock.ExpectQuery("FROM reading_passages WHERE id = ").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadingPassageRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReadingPassageRepository(db)

	mock.ExpectExec("INSERT INTO reading_passages").WillReturnResult(sqlmock.NewResult(1, 1))

	passage := &models.ReadingPassage{
		Topic:      "La vie au travail",
		Passage:    "Texte...",
		Difficulty: models.DifficultyIntermediate,
		Questions: models.QuizQuestionList{
			{ID: "q1", QuestionText: "Quel est le sujet du texte ?", Options: []string{"Le travail", "Les vacances"}, CorrectAnswer: "Le travail"},
		},
	}
	err := repo.Create(context.Background(), passage)
	require.NoError(t, err)
	assert.NotEmpty(t, passage.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
