package adminRoutes

import (
	adminController "github.com/Rwigenzadavy/techlearnhub/controllers/admin"
	"github.com/Rwigenzadavy/techlearnhub/middleware"
	adminValidator "github.com/Rwigenzadavy/techlearnhub/validators/admin"
	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes sets up catalog management routes (ADMIN role only)
func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.AdminMiddleware)

	adminGroup.Post("/course", adminValidator.CreateCourse(), adminController.AdminCreateCourse)
	adminGroup.Put("/course/:id", adminValidator.UpdateCourse(), adminController.AdminUpdateCourse)
	adminGroup.Delete("/course/:id", adminValidator.DeleteCourse(), adminController.AdminDeleteCourse)
	adminGroup.Post("/course/:id/lesson", adminValidator.CreateLesson(), adminController.AdminCreateLesson)
}
