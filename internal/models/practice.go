package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Difficulty is the closed set of practice difficulty levels.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "BEGINNER"
	DifficultyIntermediate Difficulty = "INTERMEDIATE"
	DifficultyAdvanced     Difficulty = "ADVANCED"
)

// QuizQuestion is a multiple-choice question embedded in reading passages and
// listening clips. CorrectAnswer always equals one of Options; the services
// reject payloads where it does not.
type QuizQuestion struct {
	ID            string   `json:"id" validate:"required"`
	QuestionText  string   `json:"question_text" validate:"required,min=3"`
	Options       []string `json:"options" validate:"required,min=2,dive,required"`
	CorrectAnswer string   `json:"correct_answer" validate:"required"`
}

// QuizQuestionList stores embedded questions as a JSONB column.
type QuizQuestionList []QuizQuestion

// Value implements driver.Valuer.
func (l QuizQuestionList) Value() (driver.Value, error) {
	if l == nil {
		l = QuizQuestionList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *QuizQuestionList) Scan(src interface{}) error {
	if src == nil {
		*l = QuizQuestionList{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported quiz question source type %T", src)
	}
}

// SpeakingPrompt is an admin-authored speaking exercise.
type SpeakingPrompt struct {
	ID             string     `db:"id" json:"id"`
	Topic          string     `db:"topic" json:"topic"`
	PromptText     string     `db:"prompt_text" json:"prompt_text"`
	Difficulty     Difficulty `db:"difficulty" json:"difficulty"`
	TimeLimitSecs  int        `db:"time_limit_secs" json:"time_limit_secs"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// WritingPrompt is an admin-authored writing exercise.
type WritingPrompt struct {
	ID         string     `db:"id" json:"id"`
	Topic      string     `db:"topic" json:"topic"`
	PromptText string     `db:"prompt_text" json:"prompt_text"`
	Difficulty Difficulty `db:"difficulty" json:"difficulty"`
	MinWords   int        `db:"min_words" json:"min_words"`
	MaxWords   int        `db:"max_words" json:"max_words"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// ReadingPassage is a text with embedded comprehension questions.
type ReadingPassage struct {
	ID         string           `db:"id" json:"id"`
	Topic      string           `db:"topic" json:"topic"`
	Passage    string           `db:"passage" json:"passage"`
	Difficulty Difficulty       `db:"difficulty" json:"difficulty"`
	Questions  QuizQuestionList `db:"questions" json:"questions"`
	CreatedAt  time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updated_at"`
}

// ListeningAudio is an audio clip with its transcript and questions.
type ListeningAudio struct {
	ID         string           `db:"id" json:"id"`
	Topic      string           `db:"topic" json:"topic"`
	Transcript string           `db:"transcript" json:"transcript"`
	AudioPath  string           `db:"audio_path" json:"audio_path,omitempty"`
	Difficulty Difficulty       `db:"difficulty" json:"difficulty"`
	Questions  QuizQuestionList `db:"questions" json:"questions"`
	CreatedAt  time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updated_at"`
}

// PracticeFilter provides common filters for listing practice content.
type PracticeFilter struct {
	Search     string
	Difficulty Difficulty
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}

// PublicQuizQuestion is the student-facing view of a question: the correct
// answer is stripped before leaving the server.
type PublicQuizQuestion struct {
	ID           string   `json:"id"`
	QuestionText string   `json:"question_text"`
	Options      []string `json:"options"`
}

// PublicView strips answers from a question list.
func (l QuizQuestionList) PublicView() []PublicQuizQuestion {
	out := make([]PublicQuizQuestion, 0, len(l))
	for _, q := range l {
		out = append(out, PublicQuizQuestion{ID: q.ID, QuestionText: q.QuestionText, Options: q.Options})
	}
	return out
}
