package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuizModel struct {
	QuizID               uuid.UUID `gorm:"column:quiz_id;type:uuid;primaryKey" json:"quiz_id"`
	QuizTitle            string    `gorm:"column:quiz_title;type:varchar(255);not null" json:"quiz_title"`
	QuizScheme           string    `gorm:"column:quiz_scheme;type:varchar(10);not null;index" json:"quiz_scheme"` // level1 | level2
	QuizPassingScore     float64   `gorm:"column:quiz_passing_score;not null;default:70" json:"quiz_passing_score"`
	QuizTimeLimitSeconds int       `gorm:"column:quiz_time_limit_seconds;not null;default:3600" json:"quiz_time_limit_seconds"`
	QuizIsActive         bool      `gorm:"column:quiz_is_active;not null;default:true" json:"quiz_is_active"`

	QuizCreatedAt time.Time      `gorm:"column:quiz_created_at;autoCreateTime" json:"quiz_created_at"`
	QuizUpdatedAt time.Time      `gorm:"column:quiz_updated_at;autoUpdateTime" json:"quiz_updated_at"`
	QuizDeletedAt gorm.DeletedAt `gorm:"column:quiz_deleted_at;index" json:"quiz_deleted_at,omitempty"`
}

func (QuizModel) TableName() string {
	return "quizzes"
}

func (m *QuizModel) BeforeCreate(tx *gorm.DB) error {
	if m.QuizID == uuid.Nil {
		m.QuizID = uuid.New()
	}
	return nil
}

// Opsi jawaban disimpan sebagai JSON: {"a": "...", "b": "...", ...}
type QuestionModel struct {
	QuestionID         uuid.UUID      `gorm:"column:question_id;type:uuid;primaryKey" json:"question_id"`
	QuestionQuizID     uuid.UUID      `gorm:"column:question_quiz_id;type:uuid;not null;index" json:"question_quiz_id"`
	QuestionText       string         `gorm:"column:question_text;type:text;not null" json:"question_text"`
	QuestionOptions    datatypes.JSON `gorm:"column:question_options;not null" json:"question_options"`
	QuestionCorrectKey string         `gorm:"column:question_correct_key;type:varchar(4);not null" json:"-"`
	QuestionPoints     int            `gorm:"column:question_points;not null;default:1" json:"question_points"`

	QuestionCreatedAt time.Time `gorm:"column:question_created_at;autoCreateTime" json:"question_created_at"`
	QuestionUpdatedAt time.Time `gorm:"column:question_updated_at;autoUpdateTime" json:"question_updated_at"`
}

func (QuestionModel) TableName() string {
	return "questions"
}

func (m *QuestionModel) BeforeCreate(tx *gorm.DB) error {
	if m.QuestionID == uuid.Nil {
		m.QuestionID = uuid.New()
	}
	return nil
}
