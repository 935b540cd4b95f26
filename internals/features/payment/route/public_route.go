package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	applicationService "sertifikasiku_backend/internals/features/applications/service"
	"sertifikasiku_backend/internals/features/payment/controller"
	"sertifikasiku_backend/internals/features/payment/service"
)

// Route publik: webhook dipanggil server-to-server oleh gateway, tanpa JWT.
func PaymentPublicRoutes(r fiber.Router, db *gorm.DB, apps *applicationService.ApplicationService) {
	ctrl := controller.NewWebhookController(service.NewWebhookService(db, apps))

	r.Post("/payment/webhook", ctrl.Handle)
}
