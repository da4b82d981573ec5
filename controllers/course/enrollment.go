package courseController

import (
	"errors"
	"time"

	"github.com/Rwigenzadavy/techlearnhub/database"
	"github.com/Rwigenzadavy/techlearnhub/middleware"
	"github.com/Rwigenzadavy/techlearnhub/models"
	"github.com/Rwigenzadavy/techlearnhub/services/progress"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// EnrollInCourse creates the enrollment row for (user, course) with zero
// progress. Enrolling twice reports the conflict without writing, and a failed
// write leaves no partial state behind.
func EnrollInCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var existing models.Enrollment
	err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error
	if err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You are already enrolled in "+course.Name+"!", nil)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}

	enrollment := models.Enrollment{
		UserID:     userID,
		CourseID:   uint(courseID),
		Progress:   0,
		Completed:  false,
		EnrolledAt: time.Now(),
	}

	if err := db.Create(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}

	// Reload rather than diff: the stored rows are the source of truth
	if _, err := progress.LoadAll(userID); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Enrolled, but failed to reload progress!", nil)
	}
	refreshSessionCourses(userID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Successfully enrolled in "+course.Name+"!", enrollment)
}

// GetUserEnrollmentsList reports exactly what the enrollment rows say for the
// caller, with the course attached to each row.
func GetUserEnrollmentsList(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollments, courses, err := loadEnrollmentsWithCourses(userID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	type enrollmentWithCourse struct {
		models.Enrollment
		Course models.Course `json:"course"`
	}

	result := make([]enrollmentWithCourse, 0, len(enrollments))
	for _, e := range enrollments {
		row := enrollmentWithCourse{Enrollment: e}
		if course, ok := courses[e.CourseID]; ok {
			row.Course = course
		}
		result = append(result, row)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": result,
		"total":       len(result),
	})
}

func loadEnrollmentsWithCourses(userID string) ([]models.Enrollment, map[uint]models.Course, error) {
	db := database.Database.Db

	var enrollments []models.Enrollment
	if err := db.Where("user_id = ?", userID).Order("enrolled_at asc").Find(&enrollments).Error; err != nil {
		return nil, nil, err
	}

	courseIDs := make([]uint, 0, len(enrollments))
	for _, e := range enrollments {
		courseIDs = append(courseIDs, e.CourseID)
	}

	courses := make(map[uint]models.Course, len(courseIDs))
	if len(courseIDs) > 0 {
		var rows []models.Course
		if err := db.Where("id IN ?", courseIDs).Find(&rows).Error; err != nil {
			return nil, nil, err
		}
		for _, course := range rows {
			courses[course.ID] = course
		}
	}
	return enrollments, courses, nil
}
