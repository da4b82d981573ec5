package courseController

import (
	"log"

	"github.com/Rwigenzadavy/techlearnhub/cache"
	"github.com/Rwigenzadavy/techlearnhub/database"
	"github.com/Rwigenzadavy/techlearnhub/middleware"
	"github.com/Rwigenzadavy/techlearnhub/models"
	"github.com/Rwigenzadavy/techlearnhub/services/progress"
	"github.com/gofiber/fiber/v2"
)

type courseCard struct {
	CourseID    uint   `json:"course_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Progress    int    `json:"progress"`
	Completed   bool   `json:"completed"`
}

type certificateCard struct {
	CourseID       uint   `json:"course_id"`
	CourseName     string `json:"course_name"`
	CompletionDate string `json:"completion_date"`
}

// GetDashboard builds the enrolled/completed/certificates stats and the
// per-course progress cards. When the store is unreachable the view is served
// from the local mirror so a signed-in user still sees their last known state.
func GetDashboard(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollments, courses, err := loadEnrollmentsWithCourses(userID)
	if err != nil {
		log.Printf("Error loading dashboard for %s, serving cached snapshot: %v", userID, err)
		return cachedDashboard(c, userID)
	}

	completedCount := 0
	cards := make([]courseCard, 0, len(enrollments))
	certs := make([]certificateCard, 0)

	for _, e := range enrollments {
		course := courses[e.CourseID]
		cards = append(cards, courseCard{
			CourseID:    e.CourseID,
			Name:        course.Name,
			Description: course.Description,
			Progress:    e.Progress,
			Completed:   e.Completed,
		})
		if e.Completed {
			completedCount++
			completionDate := ""
			if e.CompletionDate != nil {
				completionDate = e.CompletionDate.Format("1/2/2006")
			}
			certs = append(certs, certificateCard{
				CourseID:       e.CourseID,
				CourseName:     course.Name,
				CompletionDate: completionDate,
			})
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard fetched successfully!", fiber.Map{
		"stats": fiber.Map{
			"enrolled":     len(enrollments),
			"completed":    completedCount,
			"certificates": completedCount,
		},
		"my_courses":   cards,
		"certificates": certs,
	})
}

// cachedDashboard answers from the session mirror: the cached course list,
// course metadata and progress snapshot, marked so the client knows the data
// may be stale.
func cachedDashboard(c *fiber.Ctx, userID string) error {
	var session cache.SessionUser
	found, err := cache.Local.Get(cache.SessionKey(userID), &session)
	if err != nil || !found {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch dashboard!", nil)
	}

	var snapshot []cache.CourseSnapshot
	if _, err := cache.Local.Get(cache.CoursesKey(userID), &snapshot); err != nil {
		log.Printf("Error reading cached course metadata for %s: %v", userID, err)
	}
	meta := make(map[uint]cache.CourseSnapshot, len(snapshot))
	for _, s := range snapshot {
		meta[s.ID] = s
	}

	completedCount := 0
	cards := make([]courseCard, 0, len(session.Courses))
	for _, courseID := range session.Courses {
		state := progress.Get(userID, courseID)
		cards = append(cards, courseCard{
			CourseID:    courseID,
			Name:        meta[courseID].Name,
			Description: meta[courseID].Description,
			Progress:    state.Progress,
			Completed:   state.Completed,
		})
		if state.Completed {
			completedCount++
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard served from local cache.", fiber.Map{
		"stats": fiber.Map{
			"enrolled":     len(session.Courses),
			"completed":    completedCount,
			"certificates": completedCount,
		},
		"my_courses":        cards,
		"certificates":      []certificateCard{},
		"served_from_cache": true,
	})
}

// GetUserCertificates lists the issued certificates with their course names.
func GetUserCertificates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var certificates []models.Certificate
	if err := db.Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("issued_at desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	type certificateWithCourse struct {
		models.Certificate
		CourseName string `json:"course_name"`
	}

	result := make([]certificateWithCourse, 0, len(certificates))
	for _, cert := range certificates {
		var course models.Course
		db.Where("id = ?", cert.CourseID).First(&course)
		result = append(result, certificateWithCourse{Certificate: cert, CourseName: course.Name})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": result,
	})
}

// refreshSessionCourses rewrites the cached session's enrolled-course list
// after an enrollment mutation.
func refreshSessionCourses(userID string) {
	var session cache.SessionUser
	found, err := cache.Local.Get(cache.SessionKey(userID), &session)
	if err != nil || !found {
		return
	}

	var enrollments []models.Enrollment
	if err := database.Database.Db.Where("user_id = ?", userID).Find(&enrollments).Error; err != nil {
		log.Printf("Error refreshing session courses for %s: %v", userID, err)
		return
	}

	session.Courses = session.Courses[:0]
	for _, e := range enrollments {
		session.Courses = append(session.Courses, e.CourseID)
	}
	if err := cache.Local.Put(cache.SessionKey(userID), session); err != nil {
		log.Printf("Error saving session snapshot for %s: %v", userID, err)
	}
}
