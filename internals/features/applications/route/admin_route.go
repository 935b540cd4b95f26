package route

import (
	"github.com/gofiber/fiber/v2"

	"sertifikasiku_backend/internals/features/applications/controller"
	"sertifikasiku_backend/internals/features/applications/service"
)

// Route admin (group /api/a sudah ber-JWT + RequireAdmin)
func ApplicationAdminRoutes(r fiber.Router, svc *service.ApplicationService) {
	ctrl := controller.NewApplicationAdminController(svc)

	app := r.Group("/applications")
	app.Get("/:id", ctrl.Detail)
	app.Post("/:id/verify", ctrl.Verify)
	app.Post("/:id/request-revision", ctrl.RequestRevision)
	app.Post("/:id/reject", ctrl.Reject)
	app.Post("/:id/confirm-payment", ctrl.ConfirmPayment)
	app.Post("/:id/schedule", ctrl.SetSchedule)
	app.Post("/:id/mark-passed", ctrl.MarkPassed)
	app.Post("/:id/mark-failed", ctrl.MarkFailed)
	app.Post("/:id/issue-certificate", ctrl.IssueCertificate)
	app.Post("/:id/cert-issue-date", ctrl.UpdateCertIssueDate)
}
