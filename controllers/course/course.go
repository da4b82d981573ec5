package courseController

import (
	"log"

	"github.com/Rwigenzadavy/techlearnhub/database"
	"github.com/Rwigenzadavy/techlearnhub/middleware"
	"github.com/Rwigenzadavy/techlearnhub/models"
	"github.com/Rwigenzadavy/techlearnhub/services/progress"
	courseValidator "github.com/Rwigenzadavy/techlearnhub/validators/course"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetAllCourses lists the catalog ordered by ID, with optional substring
// search over name/description and a difficulty filter.
func GetAllCourses(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCourseList").(*courseValidator.CourseListRequest)
	if !ok {
		reqData = &courseValidator.CourseListRequest{Difficulty: "all"}
	}

	db := database.Database.Db.Model(&models.Course{}).Where("is_deleted = ?", false)

	if reqData.Search != "" {
		pattern := "%" + reqData.Search + "%"
		db = db.Where("LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern)
	}
	if reqData.Difficulty != "all" {
		db = db.Where("difficulty = ?", reqData.Difficulty)
	}

	var courses []models.Course
	if err := db.Order("id asc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
		"total":   len(courses),
	})
}

// GetCourseDetails returns one course with its lessons in order and a review
// summary. For a signed-in caller the enrollment state and progress ride along.
func GetCourseDetails(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var course models.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var lessons []models.Lesson
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("lesson_order asc").Find(&lessons).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lessons!", nil)
	}

	avgRating, reviewCount := reviewSummary(database.Database.Db, uint(courseID))

	response := fiber.Map{
		"course":       course,
		"lessons":      lessons,
		"avg_rating":   avgRating,
		"review_count": reviewCount,
	}

	// Enrollment state only exists for signed-in callers
	if userID, ok := c.Locals("userId").(string); ok {
		var enrollment models.Enrollment
		isEnrolled := database.Database.Db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error == nil
		response["is_enrolled"] = isEnrolled
		response["progress"] = progress.Get(userID, uint(courseID))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", response)
}

// reviewSummary computes the average rating (one decimal) and count shown on
// the course detail view. A failed query is logged and reported as no reviews
// so the detail view itself stays available.
func reviewSummary(db *gorm.DB, courseID uint) (float64, int64) {
	var count int64
	if err := db.Model(&models.Review{}).Where("course_id = ? AND is_deleted = ?", courseID, false).
		Count(&count).Error; err != nil {
		log.Printf("Error counting reviews for course %d: %v", courseID, err)
		return 0, 0
	}
	if count == 0 {
		return 0, 0
	}

	var sum int64
	if err := db.Model(&models.Review{}).Where("course_id = ? AND is_deleted = ?", courseID, false).
		Select("COALESCE(SUM(rating), 0)").Scan(&sum).Error; err != nil {
		log.Printf("Error summing ratings for course %d: %v", courseID, err)
		return 0, 0
	}

	avg := float64(sum) / float64(count)
	return float64(int(avg*10+0.5)) / 10, count
}
