package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sertifikasiku_backend/internals/features/registrations/controller"
)

// Route kandidat (group /api/u sudah ber-JWT)
func RegistrationUserRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewRegistrationController(db)

	reg := r.Group("/registrations")
	reg.Post("/", ctrl.Submit)
	reg.Get("/me", ctrl.MyRegistration)
}
