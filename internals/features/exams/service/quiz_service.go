package service

import (
	"context"
	"errors"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"sertifikasiku_backend/internals/features/exams/dto"
	"sertifikasiku_backend/internals/features/exams/model"
)

// Pengelolaan bank soal oleh admin. Satu quiz aktif per skema; quiz baru
// yang diaktifkan menonaktifkan quiz lama di skema yang sama.
type QuizService struct {
	DB *gorm.DB
}

func NewQuizService(db *gorm.DB) *QuizService {
	return &QuizService{DB: db}
}

func (s *QuizService) CreateQuiz(ctx context.Context, req dto.CreateQuizRequest) (*model.QuizModel, error) {
	quiz := model.QuizModel{
		QuizTitle:            req.Title,
		QuizScheme:           req.Scheme,
		QuizPassingScore:     req.PassingScore,
		QuizTimeLimitSeconds: req.TimeLimitSeconds,
		QuizIsActive:         false,
	}
	if quiz.QuizPassingScore == 0 {
		quiz.QuizPassingScore = 70
	}
	if quiz.QuizTimeLimitSeconds == 0 {
		quiz.QuizTimeLimitSeconds = 3600
	}

	if err := s.DB.WithContext(ctx).Create(&quiz).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat quiz")
	}
	return &quiz, nil
}

// UpdateQuiz mengubah metadata quiz. Attempt berjalan tidak terpengaruh
// karena time limit di-snapshot saat attempt dibuat.
func (s *QuizService) UpdateQuiz(ctx context.Context, quizID uuid.UUID, req dto.UpdateQuizRequest) (*model.QuizModel, error) {
	var quiz model.QuizModel
	if err := s.DB.WithContext(ctx).First(&quiz, "quiz_id = ?", quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Quiz tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil quiz")
	}

	if req.Title != nil {
		quiz.QuizTitle = *req.Title
	}
	if req.PassingScore != nil {
		quiz.QuizPassingScore = *req.PassingScore
	}
	if req.TimeLimitSeconds != nil {
		quiz.QuizTimeLimitSeconds = *req.TimeLimitSeconds
	}

	if err := s.DB.WithContext(ctx).Save(&quiz).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan quiz")
	}
	return &quiz, nil
}

func (s *QuizService) AddQuestion(ctx context.Context, quizID uuid.UUID, req dto.CreateQuestionRequest) (*model.QuestionModel, error) {
	if _, ok := req.Options[req.CorrectKey]; !ok {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Kunci jawaban tidak ada di daftar opsi")
	}

	var quiz model.QuizModel
	if err := s.DB.WithContext(ctx).First(&quiz, "quiz_id = ?", quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Quiz tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil quiz")
	}

	raw, err := sonic.Marshal(req.Options)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Opsi jawaban tidak valid")
	}

	points := req.Points
	if points == 0 {
		points = 1
	}

	q := model.QuestionModel{
		QuestionQuizID:     quiz.QuizID,
		QuestionText:       req.Text,
		QuestionOptions:    datatypes.JSON(raw),
		QuestionCorrectKey: req.CorrectKey,
		QuestionPoints:     points,
	}
	if err := s.DB.WithContext(ctx).Create(&q).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan soal")
	}
	return &q, nil
}

func (s *QuizService) ListQuizzes(ctx context.Context) ([]dto.QuizDTO, error) {
	var quizzes []model.QuizModel
	if err := s.DB.WithContext(ctx).Order("quiz_created_at DESC").Find(&quizzes).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil daftar quiz")
	}

	out := make([]dto.QuizDTO, 0, len(quizzes))
	for _, q := range quizzes {
		var count int64
		if err := s.DB.WithContext(ctx).Model(&model.QuestionModel{}).
			Where("question_quiz_id = ?", q.QuizID).
			Count(&count).Error; err != nil {
			return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal menghitung soal")
		}
		out = append(out, dto.ToQuizDTO(q, count))
	}
	return out, nil
}

// Activate menjadikan quiz ini satu-satunya yang aktif di skemanya.
func (s *QuizService) Activate(ctx context.Context, quizID uuid.UUID) (*model.QuizModel, error) {
	var quiz model.QuizModel

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&quiz, "quiz_id = ?", quizID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Quiz tidak ditemukan")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil quiz")
		}

		var questionCount int64
		if err := tx.Model(&model.QuestionModel{}).
			Where("question_quiz_id = ?", quiz.QuizID).
			Count(&questionCount).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal menghitung soal")
		}
		if questionCount == 0 {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "Quiz belum memiliki soal")
		}

		if err := tx.Model(&model.QuizModel{}).
			Where("quiz_scheme = ? AND quiz_id <> ?", quiz.QuizScheme, quiz.QuizID).
			UpdateColumn("quiz_is_active", false).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal menonaktifkan quiz lama")
		}

		quiz.QuizIsActive = true
		if err := tx.Save(&quiz).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengaktifkan quiz")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (s *QuizService) Deactivate(ctx context.Context, quizID uuid.UUID) error {
	res := s.DB.WithContext(ctx).Model(&model.QuizModel{}).
		Where("quiz_id = ?", quizID).
		UpdateColumn("quiz_is_active", false)
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal menonaktifkan quiz")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Quiz tidak ditemukan")
	}
	return nil
}
