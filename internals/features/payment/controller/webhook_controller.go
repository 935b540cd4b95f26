package controller

import (
	"github.com/gofiber/fiber/v2"

	"sertifikasiku_backend/internals/features/payment/dto"
	"sertifikasiku_backend/internals/features/payment/service"
)

type WebhookController struct {
	Service *service.WebhookService
}

func NewWebhookController(svc *service.WebhookService) *WebhookController {
	return &WebhookController{Service: svc}
}

// =============================
// 🔔 Webhook payment gateway
// =============================
// Selalu 200 dengan body terstruktur; gateway tidak boleh dapat 500.
func (ctrl *WebhookController) Handle(c *fiber.Ctx) error {
	var payload dto.WebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusOK).JSON(dto.WebhookResult{
			Processed: false,
			Message:   "payload tidak dapat dibaca",
		})
	}

	result := ctrl.Service.Handle(c.UserContext(), payload)
	return c.Status(fiber.StatusOK).JSON(result)
}
