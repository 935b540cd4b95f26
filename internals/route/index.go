package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sertifikasiku_backend/internals/configs"
	applicationRoute "sertifikasiku_backend/internals/features/applications/route"
	applicationService "sertifikasiku_backend/internals/features/applications/service"
	examRoute "sertifikasiku_backend/internals/features/exams/route"
	paymentRoute "sertifikasiku_backend/internals/features/payment/route"
	paymentService "sertifikasiku_backend/internals/features/payment/service"
	registrationRoute "sertifikasiku_backend/internals/features/registrations/route"
	sessionRoute "sertifikasiku_backend/internals/features/sessions/route"
	"sertifikasiku_backend/internals/middlewares"
	authjwt "sertifikasiku_backend/internals/middlewares/auth_jwt"
)

// SetupRoutes memasang seluruh endpoint:
//
//	/health                  - liveness
//	/api/public/...          - tanpa JWT (webhook gateway)
//	/api/u/...               - kandidat (JWT)
//	/api/a/...               - admin (JWT + is_admin)
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	appSvc := applicationService.NewApplicationService(db, paymentService.MidtransGateway{})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "time": time.Now()})
	})

	api := app.Group("/api")

	// ---------- PUBLIC ----------
	public := api.Group("/public")
	paymentRoute.PaymentPublicRoutes(public, db, appSvc)

	// ---------- KANDIDAT ----------
	jwtGuard := authjwt.AuthJWT(authjwt.AuthJWTOpts{
		Secret:              configs.JWTSecret,
		AllowCookieFallback: true,
	})

	u := api.Group("/u", jwtGuard)
	registrationRoute.RegistrationUserRoutes(u, db)
	applicationRoute.ApplicationUserRoutes(u, appSvc)
	examRoute.ExamUserRoutes(u, db, middlewares.SessionRateLimiter())
	sessionRoute.SessionUserRoutes(u, db, middlewares.SessionRateLimiter())

	// ---------- ADMIN ----------
	a := api.Group("/a", jwtGuard, authjwt.RequireAdmin())
	registrationRoute.RegistrationAdminRoutes(a, db)
	applicationRoute.ApplicationAdminRoutes(a, appSvc)
	examRoute.ExamAdminRoutes(a, db)
	sessionRoute.SessionAdminRoutes(a, db)
}
