package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sertifikasiku_backend/internals/features/exams/controller"
)

// Route admin (group /api/a sudah ber-JWT + RequireAdmin)
func ExamAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewQuizAdminController(db)

	quiz := r.Group("/quizzes")
	quiz.Get("/", ctrl.ListQuizzes)
	quiz.Post("/", ctrl.CreateQuiz)
	quiz.Put("/:id", ctrl.UpdateQuiz)
	quiz.Post("/:id/questions", ctrl.AddQuestion)
	quiz.Post("/:id/activate", ctrl.Activate)
	quiz.Post("/:id/deactivate", ctrl.Deactivate)

	attempt := r.Group("/applications")
	attempt.Get("/:id/exam-result", ctrl.ResultByApplication)
	attempt.Post("/:id/reset-attempts", ctrl.ResetAttempts)
}
