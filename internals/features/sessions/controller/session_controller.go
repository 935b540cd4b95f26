package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sertifikasiku_backend/internals/features/sessions/dto"
	"sertifikasiku_backend/internals/features/sessions/service"
	resp "sertifikasiku_backend/internals/helpers"
)

type SessionController struct {
	Service *service.SessionService
}

func NewSessionController(db *gorm.DB) *SessionController {
	return &SessionController{Service: service.NewSessionService(db)}
}

var validate = validator.New()

// =============================
// 🔐 Buat sesi (login perangkat)
// =============================
func (ctrl *SessionController) Create(c *fiber.Ctx) error {
	userID, err := resp.GetUserIDFromToken(c)
	if err != nil {
		return resp.FromFiberError(c, err)
	}

	var body dto.CreateSessionRequest
	if err := c.BodyParser(&body); err != nil {
		return resp.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&body); err != nil {
		return resp.JsonValidationError(c, err)
	}

	session, evicted, err := ctrl.Service.CreateSession(
		c.UserContext(), userID, body.SessionToken, body.DeviceFingerprint, c.IP(), c.Get(fiber.HeaderUserAgent))
	if err != nil {
		return resp.FromFiberError(c, err)
	}

	return resp.JsonCreated(c, "Sesi dibuat", fiber.Map{
		"session": dto.ToSessionDTO(*session),
		"evicted": evicted,
	})
}

// =============================
// ✅ Check session (heartbeat)
// =============================
// Dipanggil berkala oleh halaman ujian; rate limiter khusus di route.
func (ctrl *SessionController) Check(c *fiber.Ctx) error {
	userID, err := resp.GetUserIDFromToken(c)
	if err != nil {
		return resp.FromFiberError(c, err)
	}

	var body dto.CheckSessionRequest
	if err := c.BodyParser(&body); err != nil {
		return resp.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&body); err != nil {
		return resp.JsonValidationError(c, err)
	}

	result, err := ctrl.Service.ValidateSession(c.UserContext(), userID, body.SessionToken, body.DeviceFingerprint, true)
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	return resp.JsonOK(c, "OK", result)
}

// =============================
// 🚪 Logout sesi ini
// =============================
func (ctrl *SessionController) Logout(c *fiber.Ctx) error {
	userID, err := resp.GetUserIDFromToken(c)
	if err != nil {
		return resp.FromFiberError(c, err)
	}

	var body struct {
		SessionToken string `json:"session_token"`
	}
	if err := c.BodyParser(&body); err != nil {
		return resp.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := ctrl.Service.Deactivate(c.UserContext(), userID, body.SessionToken); err != nil {
		return resp.FromFiberError(c, err)
	}
	return resp.JsonOK(c, "Sesi dinonaktifkan", nil)
}

// =============================
// 🛑 Admin: force logout user
// =============================
func (ctrl *SessionController) ForceLogout(c *fiber.Ctx) error {
	targetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return resp.JsonError(c, fiber.StatusBadRequest, "ID user tidak valid")
	}

	count, err := ctrl.Service.ForceLogout(c.UserContext(), targetID)
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	return resp.JsonOK(c, "Seluruh sesi user dinonaktifkan", fiber.Map{"deactivated": count})
}

// =============================
// 🧹 Admin: hapus semua sesi user
// =============================
func (ctrl *SessionController) ClearAll(c *fiber.Ctx) error {
	targetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return resp.JsonError(c, fiber.StatusBadRequest, "ID user tidak valid")
	}

	count, err := ctrl.Service.ClearAllSessions(c.UserContext(), targetID)
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	return resp.JsonDeleted(c, "Seluruh sesi user dihapus, user perlu login ulang", fiber.Map{"deleted": count})
}
