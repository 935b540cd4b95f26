package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sertifikasiku_backend/internals/features/registrations/controller"
)

// Route admin (group /api/a sudah ber-JWT + RequireAdmin)
func RegistrationAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewRegistrationController(db)

	reg := r.Group("/registrations")
	reg.Post("/:id/approve", ctrl.Approve)
	reg.Post("/:id/reject", ctrl.Reject)
}
