package reviewRoutes

import (
	reviewController "github.com/Rwigenzadavy/techlearnhub/controllers/review"
	"github.com/Rwigenzadavy/techlearnhub/middleware"
	reviewValidator "github.com/Rwigenzadavy/techlearnhub/validators/review"
	"github.com/gofiber/fiber/v2"
)

// SetupReviewRoutes sets up course review routes
func SetupReviewRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	courseGroup.Get("/:id/reviews", reviewValidator.ListReviews(), reviewController.GetCourseReviews)
	courseGroup.Post("/:id/review", middleware.JWTMiddleware, reviewValidator.SubmitReview(), reviewController.SubmitReview)
}
