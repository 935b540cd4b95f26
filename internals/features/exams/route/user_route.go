package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sertifikasiku_backend/internals/features/exams/controller"
)

// Route kandidat (group /api/u sudah ber-JWT).
// log-violation mendapat rate limiter sendiri di pemasangan route.
func ExamUserRoutes(r fiber.Router, db *gorm.DB, violationLimiter fiber.Handler) {
	ctrl := controller.NewAttemptController(db)

	exam := r.Group("/exams")
	exam.Post("/start", ctrl.Start)
	exam.Post("/answer", ctrl.Answer)
	exam.Post("/finish", ctrl.Finish)
	exam.Post("/log-violation", violationLimiter, ctrl.LogViolation)
}
