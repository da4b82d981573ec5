package authRoutes

import (
	authController "github.com/Rwigenzadavy/techlearnhub/controllers/auth"
	"github.com/Rwigenzadavy/techlearnhub/middleware"
	authValidator "github.com/Rwigenzadavy/techlearnhub/validators/auth"
	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes sets up sign-up, sign-in, sign-out and email verification
func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/signup", authValidator.Signup(), authController.Signup)
	authGroup.Post("/login", authValidator.Login(), authController.Login)
	authGroup.Post("/logout", middleware.JWTMiddleware, authController.Logout)
	authGroup.Get("/verify", authController.VerifyEmail)
}
