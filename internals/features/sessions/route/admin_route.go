package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sertifikasiku_backend/internals/features/sessions/controller"
)

// Route admin (group /api/a sudah ber-JWT + RequireAdmin)
func SessionAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewSessionController(db)

	r.Post("/users/:id/force-logout", ctrl.ForceLogout)
	r.Delete("/users/:id/sessions", ctrl.ClearAll)
}
