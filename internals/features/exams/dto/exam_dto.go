package dto

import (
	"time"

	"gorm.io/datatypes"

	"sertifikasiku_backend/internals/features/exams/model"
)

/* ===============================
   Request admin (kelola quiz)
=================================*/

type CreateQuizRequest struct {
	Title            string  `json:"title" validate:"required,max=255"`
	Scheme           string  `json:"scheme" validate:"required,oneof=level1 level2"`
	PassingScore     float64 `json:"passing_score" validate:"gte=0,lte=100"`
	TimeLimitSeconds int     `json:"time_limit_seconds" validate:"gte=60"`
}

// Field nil = tidak diubah.
type UpdateQuizRequest struct {
	Title            *string  `json:"title" validate:"omitempty,max=255"`
	PassingScore     *float64 `json:"passing_score" validate:"omitempty,gte=0,lte=100"`
	TimeLimitSeconds *int     `json:"time_limit_seconds" validate:"omitempty,gte=60"`
}

type CreateQuestionRequest struct {
	Text       string            `json:"text" validate:"required"`
	Options    map[string]string `json:"options" validate:"required,min=2"`
	CorrectKey string            `json:"correct_key" validate:"required,max=4"`
	Points     int               `json:"points" validate:"gte=1"`
}

/* ===============================
   Request kandidat (ujian)
=================================*/

type SubmitAnswerRequest struct {
	QuestionID  string `json:"question_id" validate:"required,uuid"`
	SelectedKey string `json:"selected_key" validate:"required,max=4"`
}

type LogViolationRequest struct {
	Type   string `json:"type" validate:"required,max=50"` // tab_switch | fullscreen_exit | ...
	Detail string `json:"detail" validate:"max=255"`
}

/* ===============================
   Response
=================================*/

type QuizDTO struct {
	QuizID           string  `json:"quiz_id"`
	Title            string  `json:"title"`
	Scheme           string  `json:"scheme"`
	PassingScore     float64 `json:"passing_score"`
	TimeLimitSeconds int     `json:"time_limit_seconds"`
	IsActive         bool    `json:"is_active"`
	QuestionCount    int64   `json:"question_count"`
}

func ToQuizDTO(m model.QuizModel, questionCount int64) QuizDTO {
	return QuizDTO{
		QuizID:           m.QuizID.String(),
		Title:            m.QuizTitle,
		Scheme:           m.QuizScheme,
		PassingScore:     m.QuizPassingScore,
		TimeLimitSeconds: m.QuizTimeLimitSeconds,
		IsActive:         m.QuizIsActive,
		QuestionCount:    questionCount,
	}
}

// Soal untuk kandidat: kunci jawaban tidak pernah ikut ter-serialize.
type QuestionPublicDTO struct {
	QuestionID string         `json:"question_id"`
	Position   int            `json:"position"`
	Text       string         `json:"text"`
	Options    datatypes.JSON `json:"options"`
	Points     int            `json:"points"`
	Selected   *string        `json:"selected,omitempty"`
}

type AttemptDTO struct {
	AttemptID        string     `json:"attempt_id"`
	DisplayName      string     `json:"display_name"`
	State            string     `json:"state"`
	StartedAt        time.Time  `json:"started_at"`
	EndedAt          *time.Time `json:"ended_at,omitempty"`
	TimeLimitSeconds int        `json:"time_limit_seconds"`
	DeadlineAt       time.Time  `json:"deadline_at"`
	ViolationCount   int        `json:"violation_count"`
	PenaltyPoints    float64    `json:"penalty_points"`

	Questions []QuestionPublicDTO `json:"questions,omitempty"`
}

func ToAttemptDTO(m model.QuizAttemptModel, questions []QuestionPublicDTO) AttemptDTO {
	return AttemptDTO{
		AttemptID:        m.QuizAttemptID.String(),
		DisplayName:      m.QuizAttemptDisplayName,
		State:            m.QuizAttemptState,
		StartedAt:        m.QuizAttemptStartedAt,
		EndedAt:          m.QuizAttemptEndedAt,
		TimeLimitSeconds: m.QuizAttemptTimeLimitSeconds,
		DeadlineAt:       m.Deadline(),
		ViolationCount:   m.QuizAttemptViolationCount,
		PenaltyPoints:    m.QuizAttemptPenaltyPoints,
		Questions:        questions,
	}
}

type AttemptResultDTO struct {
	AttemptID       string  `json:"attempt_id"`
	DisplayName     string  `json:"display_name"`
	State           string  `json:"state"`
	FinishReason    *string `json:"finish_reason,omitempty"`
	TotalScore      float64 `json:"total_score"`
	MaxScore        float64 `json:"max_score"`
	PenaltyPoints   float64 `json:"penalty_points"`
	ScorePercentage float64 `json:"score_percentage"`
	IsPassed        bool    `json:"is_passed"`
}

func ToAttemptResultDTO(m model.QuizAttemptModel) AttemptResultDTO {
	return AttemptResultDTO{
		AttemptID:       m.QuizAttemptID.String(),
		DisplayName:     m.QuizAttemptDisplayName,
		State:           m.QuizAttemptState,
		FinishReason:    m.QuizAttemptFinishReason,
		TotalScore:      m.QuizAttemptTotalScore,
		MaxScore:        m.QuizAttemptMaxScore,
		PenaltyPoints:   m.QuizAttemptPenaltyPoints,
		ScorePercentage: m.QuizAttemptScorePercentage,
		IsPassed:        m.QuizAttemptIsPassed,
	}
}

// Hasil eskalasi pelanggaran, dikirim balik ke browser kandidat.
type ViolationResultDTO struct {
	Action       string  `json:"action"` // warning | penalty | auto_submit
	Count        int     `json:"count"`
	TotalPenalty float64 `json:"total_penalty"`
	Message      string  `json:"message"`
}
