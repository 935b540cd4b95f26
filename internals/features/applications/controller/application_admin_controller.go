package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"sertifikasiku_backend/internals/features/applications/dto"
	"sertifikasiku_backend/internals/features/applications/service"
	resp "sertifikasiku_backend/internals/helpers"
)

type ApplicationAdminController struct {
	Service *service.ApplicationService
}

func NewApplicationAdminController(svc *service.ApplicationService) *ApplicationAdminController {
	return &ApplicationAdminController{Service: svc}
}

func parseAppID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "ID aplikasi tidak valid")
	}
	return id, nil
}

// =============================
// ✅ Verifikasi dokumen → tagihan
// =============================
func (ctrl *ApplicationAdminController) Verify(c *fiber.Ctx) error {
	adminID, err := resp.GetUserIDFromToken(c)
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	appID, err := parseAppID(c)
	if err != nil {
		return resp.FromFiberError(c, err)
	}

	app, err := ctrl.Service.VerifyDocuments(c.UserContext(), appID, adminID)
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	return resp.JsonUpdated(c, "Dokumen terverifikasi, menunggu pembayaran", dto.ToApplicationDTO(*app))
}

// =============================
// 🔁 Minta revisi dokumen
// =============================
func (ctrl *ApplicationAdminController) RequestRevision(c *fiber.Ctx) error {
	adminID, err := resp.GetUserIDFromToken(c)
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	appID, err := parseAppID(c)
	if err != nil {
		return resp.FromFiberError(c, err)
	}

	var body dto.RequestRevisionRequest
	if err := c.BodyParser(&body); err != nil {
		return resp.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	app, err := ctrl.Service.RequestRevision(c.UserContext(), appID, adminID, body.Note, body.Flags)
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	return resp.JsonUpdated(c, "Permintaan revisi terkirim", dto.ToApplicationDTO(*app))
}

// =============================
// ❌ Tolak aplikasi
// =============================
func (ctrl *ApplicationAdminController) Reject(c *fiber.Ctx) error {
	adminID, err := resp.GetUserIDFromToken(c)
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	appID, err := parseAppID(c)
	if err != nil {
		return resp.FromFiberError(c, err)
	}

	var body dto.RejectApplicationRequest
	if err := c.BodyParser(&body); err != nil {
		return resp.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	app, err := ctrl.Service.RejectApplication(c.UserContext(), appID, adminID, body.Note)
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	return resp.JsonUpdated(c, "Aplikasi ditolak", dto.ToApplicationDTO(*app))
}

// =============================
// 💰 Konfirmasi bayar manual
// =============================
// Jalur cadangan kalau webhook gateway tidak sampai (mis. transfer manual).
func (ctrl *ApplicationAdminController) ConfirmPayment(c *fiber.Ctx) error {
	adminID, err := resp.GetUserIDFromToken(c)
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	appID, err := parseAppID(c)
	if err != nil {
		return resp.FromFiberError(c, err)
	}

	var body dto.ConfirmPaymentRequest
	if err := c.BodyParser(&body); err != nil {
		return resp.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	app, err := ctrl.Service.ConfirmPayment(c.UserContext(), appID, &adminID, body.PaymentMethod, "admin")
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	return resp.JsonUpdated(c, "Pembayaran dikonfirmasi", dto.ToApplicationDTO(*app))
}

// =============================
// 📅 Jadwalkan ujian
// =============================
func (ctrl *ApplicationAdminController) SetSchedule(c *fiber.Ctx) error {
	adminID, err := resp.GetUserIDFromToken(c)
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	appID, err := parseAppID(c)
	if err != nil {
		return resp.FromFiberError(c, err)
	}

	var body dto.SetScheduleRequest
	if err := c.BodyParser(&body); err != nil {
		return resp.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	app, err := ctrl.Service.SetSchedule(c.UserContext(), appID, adminID, body.ExamDate, body.ExamTime, body.ExamLocation)
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	return resp.JsonUpdated(c, "Jadwal ujian tersimpan", dto.ToApplicationDTO(*app))
}

// =============================
// 🏁 Hasil ujian (override admin)
// =============================
func (ctrl *ApplicationAdminController) MarkPassed(c *fiber.Ctx) error {
	adminID, err := resp.GetUserIDFromToken(c)
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	appID, err := parseAppID(c)
	if err != nil {
		return resp.FromFiberError(c, err)
	}

	app, err := ctrl.Service.MarkPassed(c.UserContext(), appID, adminID)
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	return resp.JsonUpdated(c, "Hasil ujian: lulus", dto.ToApplicationDTO(*app))
}

func (ctrl *ApplicationAdminController) MarkFailed(c *fiber.Ctx) error {
	adminID, err := resp.GetUserIDFromToken(c)
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	appID, err := parseAppID(c)
	if err != nil {
		return resp.FromFiberError(c, err)
	}

	app, err := ctrl.Service.MarkFailed(c.UserContext(), appID, adminID)
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	return resp.JsonUpdated(c, "Hasil ujian: tidak lulus", dto.ToApplicationDTO(*app))
}

// =============================
// 📜 Terbitkan sertifikat
// =============================
func (ctrl *ApplicationAdminController) IssueCertificate(c *fiber.Ctx) error {
	adminID, err := resp.GetUserIDFromToken(c)
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	appID, err := parseAppID(c)
	if err != nil {
		return resp.FromFiberError(c, err)
	}

	app, err := ctrl.Service.IssueCertificate(c.UserContext(), appID, adminID)
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	return resp.JsonUpdated(c, "Sertifikat diterbitkan", dto.ToApplicationDTO(*app))
}

// =============================
// 🗓️ Ubah tanggal terbit sertifikat
// =============================
func (ctrl *ApplicationAdminController) UpdateCertIssueDate(c *fiber.Ctx) error {
	adminID, err := resp.GetUserIDFromToken(c)
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	appID, err := parseAppID(c)
	if err != nil {
		return resp.FromFiberError(c, err)
	}

	var body struct {
		IssueDate string `json:"issue_date"` // "2006-01-02"
	}
	if err := c.BodyParser(&body); err != nil {
		return resp.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	issueDate, err := time.ParseInLocation("2006-01-02", body.IssueDate, time.Local)
	if err != nil {
		return resp.JsonError(c, fiber.StatusUnprocessableEntity, "Tanggal terbit tidak valid")
	}

	app, err := ctrl.Service.UpdateCertIssueDate(c.UserContext(), appID, adminID, issueDate)
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	return resp.JsonUpdated(c, "Tanggal terbit sertifikat diperbarui", dto.ToApplicationDTO(*app))
}

// =============================
// 📋 Detail aplikasi + chatter
// =============================
func (ctrl *ApplicationAdminController) Detail(c *fiber.Ctx) error {
	appID, err := parseAppID(c)
	if err != nil {
		return resp.FromFiberError(c, err)
	}

	app, err := ctrl.Service.GetByID(c.UserContext(), appID)
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	logs, err := ctrl.Service.GetLogs(c.UserContext(), appID)
	if err != nil {
		return resp.FromFiberError(c, err)
	}

	logDTOs := make([]dto.ApplicationLogDTO, 0, len(logs))
	for _, l := range logs {
		logDTOs = append(logDTOs, dto.ToApplicationLogDTO(l))
	}

	return resp.JsonOK(c, "OK", fiber.Map{
		"application": dto.ToApplicationDTO(*app),
		"logs":        logDTOs,
	})
}
