package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sertifikasiku_backend/internals/features/exams/dto"
	"sertifikasiku_backend/internals/features/exams/service"
	registrationModel "sertifikasiku_backend/internals/features/registrations/model"
	resp "sertifikasiku_backend/internals/helpers"
)

type AttemptController struct {
	Service *service.AttemptService
	DB      *gorm.DB
}

func NewAttemptController(db *gorm.DB) *AttemptController {
	return &AttemptController{Service: service.NewAttemptService(db), DB: db}
}

var validate = validator.New()

func (ctrl *AttemptController) candidateID(c *fiber.Ctx) (uuid.UUID, error) {
	userID, err := resp.GetUserIDFromToken(c)
	if err != nil {
		return uuid.Nil, err
	}
	var cand registrationModel.CandidateModel
	if err := ctrl.DB.WithContext(c.UserContext()).
		Where("candidate_user_id = ?", userID).
		First(&cand).Error; err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusNotFound, "Kandidat tidak ditemukan")
	}
	return cand.CandidateID, nil
}

// =============================
// ▶️ Mulai / resume ujian
// =============================
func (ctrl *AttemptController) Start(c *fiber.Ctx) error {
	candID, err := ctrl.candidateID(c)
	if err != nil {
		return resp.FromFiberError(c, err)
	}

	attempt, questions, err := ctrl.Service.StartAttempt(c.UserContext(), candID)
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	return resp.JsonOK(c, "Ujian dimulai", dto.ToAttemptDTO(*attempt, questions))
}

// =============================
// ✏️ Simpan jawaban
// =============================
func (ctrl *AttemptController) Answer(c *fiber.Ctx) error {
	candID, err := ctrl.candidateID(c)
	if err != nil {
		return resp.FromFiberError(c, err)
	}

	var body dto.SubmitAnswerRequest
	if err := c.BodyParser(&body); err != nil {
		return resp.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&body); err != nil {
		return resp.JsonValidationError(c, err)
	}

	if err := ctrl.Service.SubmitAnswer(c.UserContext(), candID, body); err != nil {
		return resp.FromFiberError(c, err)
	}
	return resp.JsonOK(c, "Jawaban tersimpan", nil)
}

// =============================
// 🏁 Kumpulkan ujian
// =============================
func (ctrl *AttemptController) Finish(c *fiber.Ctx) error {
	candID, err := ctrl.candidateID(c)
	if err != nil {
		return resp.FromFiberError(c, err)
	}

	attempt, err := ctrl.Service.Finish(c.UserContext(), candID)
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	return resp.JsonOK(c, "Ujian selesai", dto.ToAttemptResultDTO(*attempt))
}

// =============================
// 🚨 Lapor pelanggaran
// =============================
// Dipanggil browser kandidat saat terdeteksi pindah tab / keluar fullscreen.
func (ctrl *AttemptController) LogViolation(c *fiber.Ctx) error {
	candID, err := ctrl.candidateID(c)
	if err != nil {
		return resp.FromFiberError(c, err)
	}

	var body dto.LogViolationRequest
	if err := c.BodyParser(&body); err != nil {
		return resp.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&body); err != nil {
		return resp.JsonValidationError(c, err)
	}

	result, err := ctrl.Service.LogViolation(c.UserContext(), candID, body)
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	return resp.JsonOK(c, "Pelanggaran tercatat", result)
}
