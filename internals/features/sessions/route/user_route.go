package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sertifikasiku_backend/internals/features/sessions/controller"
)

// Route kandidat (group /api/u sudah ber-JWT)
func SessionUserRoutes(r fiber.Router, db *gorm.DB, checkLimiter fiber.Handler) {
	ctrl := controller.NewSessionController(db)

	sess := r.Group("/sessions")
	sess.Post("/", ctrl.Create)
	sess.Post("/check", checkLimiter, ctrl.Check)
	sess.Post("/logout", ctrl.Logout)
}
