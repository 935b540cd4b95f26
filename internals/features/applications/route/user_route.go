package route

import (
	"github.com/gofiber/fiber/v2"

	"sertifikasiku_backend/internals/features/applications/controller"
	"sertifikasiku_backend/internals/features/applications/service"
)

// Route kandidat (group /api/u sudah ber-JWT)
func ApplicationUserRoutes(r fiber.Router, svc *service.ApplicationService) {
	ctrl := controller.NewApplicationController(svc)

	app := r.Group("/applications")
	app.Get("/me", ctrl.MyApplication)
	app.Put("/step1", ctrl.SaveStep1)
	app.Put("/step2", ctrl.SaveStep2)
	app.Put("/step3", ctrl.SaveStep3)
	app.Post("/submit", ctrl.SubmitFinal)
}
