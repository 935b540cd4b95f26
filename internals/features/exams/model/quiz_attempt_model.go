package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// State attempt
const (
	AttemptInProgress = "in_progress"
	AttemptDone       = "done"
)

// Alasan attempt berakhir
const (
	FinishReasonManual    = "manual"
	FinishReasonTimeout   = "timeout"
	FinishReasonViolation = "auto_submit_violation"
)

type QuizAttemptModel struct {
	QuizAttemptID            uuid.UUID `gorm:"column:quiz_attempt_id;type:uuid;primaryKey" json:"quiz_attempt_id"`
	QuizAttemptQuizID        uuid.UUID `gorm:"column:quiz_attempt_quiz_id;type:uuid;not null;index" json:"quiz_attempt_quiz_id"`
	QuizAttemptApplicationID uuid.UUID `gorm:"column:quiz_attempt_application_id;type:uuid;not null;index" json:"quiz_attempt_application_id"`
	QuizAttemptCandidateID   uuid.UUID `gorm:"column:quiz_attempt_candidate_id;type:uuid;not null;index" json:"quiz_attempt_candidate_id"`

	// Nama tampilan "{kandidat} - {judul quiz}" untuk daftar attempt admin.
	QuizAttemptDisplayName string `gorm:"column:quiz_attempt_display_name;type:varchar(255);not null;default:''" json:"quiz_attempt_display_name"`

	QuizAttemptState     string     `gorm:"column:quiz_attempt_state;type:varchar(15);not null;default:in_progress" json:"quiz_attempt_state"`
	QuizAttemptStartedAt time.Time  `gorm:"column:quiz_attempt_started_at;not null" json:"quiz_attempt_started_at"`
	QuizAttemptEndedAt   *time.Time `gorm:"column:quiz_attempt_ended_at" json:"quiz_attempt_ended_at,omitempty"`

	// Snapshot batas waktu saat attempt dibuat; perubahan quiz setelahnya
	// tidak memengaruhi attempt yang sedang berjalan.
	QuizAttemptTimeLimitSeconds int `gorm:"column:quiz_attempt_time_limit_seconds;not null" json:"quiz_attempt_time_limit_seconds"`

	QuizAttemptTotalScore      float64 `gorm:"column:quiz_attempt_total_score;not null;default:0" json:"quiz_attempt_total_score"`
	QuizAttemptMaxScore        float64 `gorm:"column:quiz_attempt_max_score;not null;default:0" json:"quiz_attempt_max_score"`
	QuizAttemptPenaltyPoints   float64 `gorm:"column:quiz_attempt_penalty_points;not null;default:0" json:"quiz_attempt_penalty_points"`
	QuizAttemptScorePercentage float64 `gorm:"column:quiz_attempt_score_percentage;not null;default:0" json:"quiz_attempt_score_percentage"`
	QuizAttemptIsPassed        bool    `gorm:"column:quiz_attempt_is_passed;not null;default:false" json:"quiz_attempt_is_passed"`

	QuizAttemptViolationCount int     `gorm:"column:quiz_attempt_violation_count;not null;default:0" json:"quiz_attempt_violation_count"`
	QuizAttemptFinishReason   *string `gorm:"column:quiz_attempt_finish_reason;type:varchar(25)" json:"quiz_attempt_finish_reason,omitempty"`

	// Riwayat kejadian keamanan: [{"type": "...", "at": "...", "detail": "..."}]
	QuizAttemptSecurityLog datatypes.JSON `gorm:"column:quiz_attempt_security_log" json:"quiz_attempt_security_log,omitempty"`

	QuizAttemptCreatedAt time.Time `gorm:"column:quiz_attempt_created_at;autoCreateTime" json:"quiz_attempt_created_at"`
	QuizAttemptUpdatedAt time.Time `gorm:"column:quiz_attempt_updated_at;autoUpdateTime" json:"quiz_attempt_updated_at"`
}

func (QuizAttemptModel) TableName() string {
	return "quiz_attempts"
}

func (m *QuizAttemptModel) BeforeCreate(tx *gorm.DB) error {
	if m.QuizAttemptID == uuid.Nil {
		m.QuizAttemptID = uuid.New()
	}
	return nil
}

// Deadline: started_at + snapshot time limit.
func (m *QuizAttemptModel) Deadline() time.Time {
	return m.QuizAttemptStartedAt.Add(time.Duration(m.QuizAttemptTimeLimitSeconds) * time.Second)
}

// Satu baris per soal per attempt; urutan soal diacak lewat kolom position.
type AnswerLineModel struct {
	AnswerLineID         uuid.UUID `gorm:"column:answer_line_id;type:uuid;primaryKey" json:"answer_line_id"`
	AnswerLineAttemptID  uuid.UUID `gorm:"column:answer_line_attempt_id;type:uuid;not null;index" json:"answer_line_attempt_id"`
	AnswerLineQuestionID uuid.UUID `gorm:"column:answer_line_question_id;type:uuid;not null" json:"answer_line_question_id"`
	AnswerLinePosition   int       `gorm:"column:answer_line_position;not null" json:"answer_line_position"`

	AnswerLineSelectedKey  *string `gorm:"column:answer_line_selected_key;type:varchar(4)" json:"answer_line_selected_key,omitempty"`
	AnswerLineIsCorrect    bool    `gorm:"column:answer_line_is_correct;not null;default:false" json:"answer_line_is_correct"`
	AnswerLinePointsEarned float64 `gorm:"column:answer_line_points_earned;not null;default:0" json:"answer_line_points_earned"`

	AnswerLineCreatedAt time.Time `gorm:"column:answer_line_created_at;autoCreateTime" json:"answer_line_created_at"`
	AnswerLineUpdatedAt time.Time `gorm:"column:answer_line_updated_at;autoUpdateTime" json:"answer_line_updated_at"`
}

func (AnswerLineModel) TableName() string {
	return "answer_lines"
}

func (m *AnswerLineModel) BeforeCreate(tx *gorm.DB) error {
	if m.AnswerLineID == uuid.Nil {
		m.AnswerLineID = uuid.New()
	}
	return nil
}
