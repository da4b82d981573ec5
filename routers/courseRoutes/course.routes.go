package courseRoutes

import (
	courseController "github.com/Rwigenzadavy/techlearnhub/controllers/course"
	"github.com/Rwigenzadavy/techlearnhub/middleware"
	courseValidator "github.com/Rwigenzadavy/techlearnhub/validators/course"
	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up browsing, enrollment, lesson and progress routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Browsing is public; a valid token enriches the detail view
	courseGroup.Get("/list", courseValidator.CourseList(), courseController.GetAllCourses)
	courseGroup.Get("/:id", middleware.OptionalJWTMiddleware, courseValidator.GetCourseDetail(), courseController.GetCourseDetails)

	// Enrollment
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, courseValidator.EnrollCourse(), courseController.EnrollInCourse)

	// Lesson player and completion
	courseGroup.Get("/:course_id/lessons", middleware.JWTMiddleware, courseValidator.GetCourseProgress(), courseController.GetCourseLessons)
	courseGroup.Post("/:course_id/lesson/:lesson_id/complete", middleware.JWTMiddleware, courseValidator.MarkLessonComplete(), courseController.MarkLessonComplete)

	// Progress tracking
	courseGroup.Get("/:course_id/progress", middleware.JWTMiddleware, courseValidator.GetCourseProgress(), courseController.GetUserProgress)

	// Dashboard, enrollments and certificates
	userGroup := app.Group("/user")
	userGroup.Get("/dashboard", middleware.JWTMiddleware, courseController.GetDashboard)
	userGroup.Get("/enrollments", middleware.JWTMiddleware, courseController.GetUserEnrollmentsList)
	userGroup.Get("/certificates", middleware.JWTMiddleware, courseController.GetUserCertificates)
}
