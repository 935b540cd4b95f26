package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sertifikasiku_backend/internals/features/applications/dto"
	"sertifikasiku_backend/internals/features/applications/service"
	registrationModel "sertifikasiku_backend/internals/features/registrations/model"
	resp "sertifikasiku_backend/internals/helpers"

	"github.com/google/uuid"
)

type ApplicationController struct {
	Service *service.ApplicationService
	DB      *gorm.DB
}

func NewApplicationController(svc *service.ApplicationService) *ApplicationController {
	return &ApplicationController{Service: svc, DB: svc.DB}
}

var validate = validator.New()

// Kandidat ter-resolve dari user JWT, bukan dari path param.
func (ctrl *ApplicationController) candidateID(c *fiber.Ctx) (uuid.UUID, error) {
	userID, err := resp.GetUserIDFromToken(c)
	if err != nil {
		return uuid.Nil, err
	}
	var cand registrationModel.CandidateModel
	if err := ctrl.DB.WithContext(c.UserContext()).
		Where("candidate_user_id = ?", userID).
		First(&cand).Error; err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusNotFound, "Kandidat tidak ditemukan, silakan registrasi dulu")
	}
	return cand.CandidateID, nil
}

// =============================
// 👤 Step 1: data diri
// =============================
func (ctrl *ApplicationController) SaveStep1(c *fiber.Ctx) error {
	candID, err := ctrl.candidateID(c)
	if err != nil {
		return resp.FromFiberError(c, err)
	}

	var body dto.Step1Request
	if err := c.BodyParser(&body); err != nil {
		return resp.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&body); err != nil {
		return resp.JsonValidationError(c, err)
	}

	app, err := ctrl.Service.SaveStep1(c.UserContext(), candID, body)
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	return resp.JsonUpdated(c, "Data diri tersimpan", dto.ToApplicationDTO(*app))
}

// =============================
// 🎯 Step 2: skema sertifikasi
// =============================
func (ctrl *ApplicationController) SaveStep2(c *fiber.Ctx) error {
	candID, err := ctrl.candidateID(c)
	if err != nil {
		return resp.FromFiberError(c, err)
	}

	var body dto.Step2Request
	if err := c.BodyParser(&body); err != nil {
		return resp.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&body); err != nil {
		return resp.JsonValidationError(c, err)
	}

	app, err := ctrl.Service.SaveStep2(c.UserContext(), candID, body)
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	return resp.JsonUpdated(c, "Skema sertifikasi tersimpan", dto.ToApplicationDTO(*app))
}

// =============================
// 📎 Step 3: upload berkas
// =============================
func (ctrl *ApplicationController) SaveStep3(c *fiber.Ctx) error {
	candID, err := ctrl.candidateID(c)
	if err != nil {
		return resp.FromFiberError(c, err)
	}

	var body dto.Step3Request
	if err := c.BodyParser(&body); err != nil {
		return resp.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&body); err != nil {
		return resp.JsonValidationError(c, err)
	}

	app, err := ctrl.Service.SaveStep3(c.UserContext(), candID, body)
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	return resp.JsonUpdated(c, "Dokumen tersimpan", dto.ToApplicationDTO(*app))
}

// =============================
// ✍️ Step 4: deklarasi + submit
// =============================
func (ctrl *ApplicationController) SubmitFinal(c *fiber.Ctx) error {
	candID, err := ctrl.candidateID(c)
	if err != nil {
		return resp.FromFiberError(c, err)
	}

	var body dto.FinalSubmitRequest
	if err := c.BodyParser(&body); err != nil {
		return resp.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&body); err != nil {
		return resp.JsonValidationError(c, err)
	}

	app, err := ctrl.Service.SubmitFinal(c.UserContext(), candID, body)
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	return resp.JsonUpdated(c, "Aplikasi berhasil dikirim", dto.ToApplicationDTO(*app))
}

// =============================
// 🔍 Kandidat: aplikasi saya
// =============================
func (ctrl *ApplicationController) MyApplication(c *fiber.Ctx) error {
	candID, err := ctrl.candidateID(c)
	if err != nil {
		return resp.FromFiberError(c, err)
	}

	app, err := ctrl.Service.GetByCandidateID(c.UserContext(), candID)
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	return resp.JsonOK(c, "OK", dto.ToApplicationDTO(*app))
}
