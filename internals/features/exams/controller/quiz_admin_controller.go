package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sertifikasiku_backend/internals/features/exams/dto"
	"sertifikasiku_backend/internals/features/exams/service"
	resp "sertifikasiku_backend/internals/helpers"
)

type QuizAdminController struct {
	Quiz    *service.QuizService
	Attempt *service.AttemptService
}

func NewQuizAdminController(db *gorm.DB) *QuizAdminController {
	return &QuizAdminController{
		Quiz:    service.NewQuizService(db),
		Attempt: service.NewAttemptService(db),
	}
}

// =============================
// 📚 Kelola quiz & bank soal
// =============================
func (ctrl *QuizAdminController) CreateQuiz(c *fiber.Ctx) error {
	var body dto.CreateQuizRequest
	if err := c.BodyParser(&body); err != nil {
		return resp.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&body); err != nil {
		return resp.JsonValidationError(c, err)
	}

	quiz, err := ctrl.Quiz.CreateQuiz(c.UserContext(), body)
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	return resp.JsonCreated(c, "Quiz dibuat", dto.ToQuizDTO(*quiz, 0))
}

func (ctrl *QuizAdminController) UpdateQuiz(c *fiber.Ctx) error {
	quizID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return resp.JsonError(c, fiber.StatusBadRequest, "ID quiz tidak valid")
	}

	var body dto.UpdateQuizRequest
	if err := c.BodyParser(&body); err != nil {
		return resp.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&body); err != nil {
		return resp.JsonValidationError(c, err)
	}

	quiz, err := ctrl.Quiz.UpdateQuiz(c.UserContext(), quizID, body)
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	return resp.JsonUpdated(c, "Quiz diperbarui", dto.ToQuizDTO(*quiz, 0))
}

func (ctrl *QuizAdminController) AddQuestion(c *fiber.Ctx) error {
	quizID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return resp.JsonError(c, fiber.StatusBadRequest, "ID quiz tidak valid")
	}

	var body dto.CreateQuestionRequest
	if err := c.BodyParser(&body); err != nil {
		return resp.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&body); err != nil {
		return resp.JsonValidationError(c, err)
	}

	q, err := ctrl.Quiz.AddQuestion(c.UserContext(), quizID, body)
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	return resp.JsonCreated(c, "Soal ditambahkan", q)
}

func (ctrl *QuizAdminController) ListQuizzes(c *fiber.Ctx) error {
	quizzes, err := ctrl.Quiz.ListQuizzes(c.UserContext())
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	return resp.JsonOK(c, "OK", quizzes)
}

func (ctrl *QuizAdminController) Activate(c *fiber.Ctx) error {
	quizID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return resp.JsonError(c, fiber.StatusBadRequest, "ID quiz tidak valid")
	}

	quiz, err := ctrl.Quiz.Activate(c.UserContext(), quizID)
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	return resp.JsonUpdated(c, "Quiz diaktifkan", dto.ToQuizDTO(*quiz, 0))
}

func (ctrl *QuizAdminController) Deactivate(c *fiber.Ctx) error {
	quizID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return resp.JsonError(c, fiber.StatusBadRequest, "ID quiz tidak valid")
	}

	if err := ctrl.Quiz.Deactivate(c.UserContext(), quizID); err != nil {
		return resp.FromFiberError(c, err)
	}
	return resp.JsonUpdated(c, "Quiz dinonaktifkan", nil)
}

// =============================
// 📊 Hasil & reset attempt
// =============================
func (ctrl *QuizAdminController) ResultByApplication(c *fiber.Ctx) error {
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return resp.JsonError(c, fiber.StatusBadRequest, "ID aplikasi tidak valid")
	}

	attempt, err := ctrl.Attempt.ResultByApplication(c.UserContext(), appID)
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	return resp.JsonOK(c, "OK", dto.ToAttemptResultDTO(*attempt))
}

func (ctrl *QuizAdminController) ResetAttempts(c *fiber.Ctx) error {
	adminID, err := resp.GetUserIDFromToken(c)
	if err != nil {
		return resp.FromFiberError(c, err)
	}
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return resp.JsonError(c, fiber.StatusBadRequest, "ID aplikasi tidak valid")
	}

	if err := ctrl.Attempt.ResetAttempts(c.UserContext(), appID, adminID); err != nil {
		return resp.FromFiberError(c, err)
	}
	return resp.JsonDeleted(c, "Attempt ujian direset", nil)
}
