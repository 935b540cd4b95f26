package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sertifikasiku_backend/internals/features/registrations/dto"
	"sertifikasiku_backend/internals/features/registrations/service"
	resp "sertifikasiku_backend/internals/helpers"
)

type RegistrationController struct {
	Service *service.RegistrationService
}

func NewRegistrationController(db *gorm.DB) *RegistrationController {
	return &RegistrationController{Service: service.NewRegistrationService(db, nil)}
}

var validate = validator.New()

// =============================
// 📝 Kandidat: submit registrasi
// =============================
func (ctrl *RegistrationController) Submit(c *fiber.Ctx) error {
	userID, err := resp.GetUserIDFromToken(c)
	if err != nil {
		return resp.FromFiberError(c, err)
	}

	var body dto.SubmitRegistrationRequest
	if err := c.BodyParser(&body); err != nil {
		return resp.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&body); err != nil {
		return resp.JsonValidationError(c, err)
	}

	cand, err := ctrl.Service.Submit(c.UserContext(), userID, body.FullName, body.Email, body.CertType, body.CertLevel)
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	return resp.JsonCreated(c, "Registrasi dikirim, menunggu verifikasi admin", dto.ToCandidateDTO(*cand))
}

// =============================
// 🔍 Kandidat: status registrasi
// =============================
func (ctrl *RegistrationController) MyRegistration(c *fiber.Ctx) error {
	userID, err := resp.GetUserIDFromToken(c)
	if err != nil {
		return resp.FromFiberError(c, err)
	}

	cand, err := ctrl.Service.GetByUserID(c.UserContext(), userID)
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	return resp.JsonOK(c, "OK", dto.ToCandidateDTO(*cand))
}

// =============================
// ✅ Admin: approve registrasi
// =============================
func (ctrl *RegistrationController) Approve(c *fiber.Ctx) error {
	adminID, err := resp.GetUserIDFromToken(c)
	if err != nil {
		return resp.FromFiberError(c, err)
	}

	candidateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return resp.JsonError(c, fiber.StatusBadRequest, "ID kandidat tidak valid")
	}

	cand, err := ctrl.Service.Approve(c.UserContext(), candidateID, adminID)
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	return resp.JsonUpdated(c, "Registrasi disetujui", dto.ToCandidateDTO(*cand))
}

// =============================
// ❌ Admin: reject registrasi
// =============================
func (ctrl *RegistrationController) Reject(c *fiber.Ctx) error {
	candidateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return resp.JsonError(c, fiber.StatusBadRequest, "ID kandidat tidak valid")
	}

	var body dto.RejectRegistrationRequest
	if err := c.BodyParser(&body); err != nil {
		return resp.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	cand, err := ctrl.Service.Reject(c.UserContext(), candidateID, body.Note)
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	return resp.JsonUpdated(c, "Registrasi ditolak", dto.ToCandidateDTO(*cand))
}
