package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"sertifikasiku_backend/internals/middlewares/logger"
)

// SetupMiddlewares memasang middleware dasar (CORS, recovery, logger, limiter)
func SetupMiddlewares(app *fiber.App) {
	app.Use(CorsMiddleware())
	app.Use(RecoveryMiddleware())
	app.Use(logger.LoggerMiddleware())
	app.Use(GlobalRateLimiter())
}
