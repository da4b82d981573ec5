package courseController

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/Rwigenzadavy/techlearnhub/cache"
	"github.com/Rwigenzadavy/techlearnhub/config"
	"github.com/Rwigenzadavy/techlearnhub/database"
	"github.com/Rwigenzadavy/techlearnhub/middleware"
	"github.com/Rwigenzadavy/techlearnhub/models"
	courseValidator "github.com/Rwigenzadavy/techlearnhub/validators/course"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	dir := t.TempDir()

	config.AppConfig = &config.Config{JWTKey: "test-secret", SaltRound: 4}

	db, err := gorm.Open(sqlite.Open(filepath.Join(dir, "main.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.AuthAccount{}, &models.User{}, &models.Course{}, &models.Lesson{},
		&models.Enrollment{}, &models.Review{}, &models.Certificate{},
	))
	database.Database = database.DbInstance{Db: db}

	cdb, err := gorm.Open(sqlite.Open(filepath.Join(dir, "cache.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, cdb.AutoMigrate(&cache.Entry{}))
	cache.Local = cache.LocalCache{Db: cdb}

	app := fiber.New()
	courseGroup := app.Group("/course")
	courseGroup.Get("/list", courseValidator.CourseList(), GetAllCourses)
	courseGroup.Get("/:id", middleware.OptionalJWTMiddleware, courseValidator.GetCourseDetail(), GetCourseDetails)
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, courseValidator.EnrollCourse(), EnrollInCourse)
	courseGroup.Post("/:course_id/lesson/:lesson_id/complete", middleware.JWTMiddleware, courseValidator.MarkLessonComplete(), MarkLessonComplete)
	courseGroup.Get("/:course_id/progress", middleware.JWTMiddleware, courseValidator.GetCourseProgress(), GetUserProgress)

	userGroup := app.Group("/user")
	userGroup.Get("/dashboard", middleware.JWTMiddleware, GetDashboard)
	userGroup.Get("/enrollments", middleware.JWTMiddleware, GetUserEnrollmentsList)

	return app, db
}

func seedUser(t *testing.T, db *gorm.DB) (models.User, string) {
	t.Helper()
	user := models.User{ID: uuid.NewString(), Email: "ada@x.com", Name: "Ada"}
	require.NoError(t, db.Create(&user).Error)
	token, err := middleware.GenerateJWT(user.ID, user.Name, "USER", user.Email)
	require.NoError(t, err)
	return user, token
}

func seedCourse(t *testing.T, db *gorm.DB, lessonCount int) (models.Course, []models.Lesson) {
	t.Helper()
	course := models.Course{Name: "Go Basics", Description: "Learn Go", Difficulty: "Beginner", TotalLessons: lessonCount}
	require.NoError(t, db.Create(&course).Error)
	lessons := make([]models.Lesson, 0, lessonCount)
	for i := 1; i <= lessonCount; i++ {
		lesson := models.Lesson{CourseID: course.ID, LessonOrder: i, Title: "Lesson"}
		require.NoError(t, db.Create(&lesson).Error)
		lessons = append(lessons, lesson)
	}
	return course, lessons
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestEnrollTwiceCreatesOneRow(t *testing.T) {
	app, db := setupApp(t)
	user, token := seedUser(t, db)
	course, _ := seedCourse(t, db, 4)

	resp := doRequest(t, app, http.MethodPost, "/course/1/enroll", token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPost, "/course/1/enroll", token)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var rows int64
	db.Model(&models.Enrollment{}).Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&rows)
	assert.EqualValues(t, 1, rows)

	var enrollment models.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, 0, enrollment.Progress)
	assert.False(t, enrollment.Completed)
}

func TestEnrollRequiresAuth(t *testing.T) {
	app, db := setupApp(t)
	seedCourse(t, db, 2)

	resp := doRequest(t, app, http.MethodPost, "/course/1/enroll", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestEnrollUnknownCourse(t *testing.T) {
	app, db := setupApp(t)
	_, token := seedUser(t, db)

	resp := doRequest(t, app, http.MethodPost, "/course/99/enroll", token)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestMarkLessonCompleteFlow(t *testing.T) {
	app, db := setupApp(t)
	user, token := seedUser(t, db)
	course, lessons := seedCourse(t, db, 4)

	resp := doRequest(t, app, http.MethodPost, "/course/1/enroll", token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Completing a lesson without enrolling elsewhere is forbidden
	other, otherLessons := seedCourse(t, db, 2)
	resp = doRequest(t, app, http.MethodPost,
		lessonCompletePath(other.ID, otherLessons[0].ID), token)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	for i := 0; i < 3; i++ {
		resp = doRequest(t, app, http.MethodPost, lessonCompletePath(course.ID, lessons[i].ID), token)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	var enrollment models.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, 75, enrollment.Progress)
	assert.False(t, enrollment.Completed)

	resp = doRequest(t, app, http.MethodPost, lessonCompletePath(course.ID, lessons[3].ID), token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, 100, enrollment.Progress)
	assert.True(t, enrollment.Completed)
	assert.NotNil(t, enrollment.CompletionDate)
}

func TestProgressDefaultsForUnenrolledUser(t *testing.T) {
	app, db := setupApp(t)
	_, token := seedUser(t, db)
	seedCourse(t, db, 4)

	resp := doRequest(t, app, http.MethodGet, "/course/1/progress", token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	state := data["progress"].(map[string]interface{})
	assert.EqualValues(t, 0, state["progress"])
	assert.Equal(t, false, state["completed"])
}

func TestDashboardCounts(t *testing.T) {
	app, db := setupApp(t)
	user, token := seedUser(t, db)
	seedCourse(t, db, 2)

	now := time.Now()
	require.NoError(t, db.Create(&models.Enrollment{
		UserID: user.ID, CourseID: 1, Progress: 100, Completed: true,
		CompletionDate: &now, EnrolledAt: now,
	}).Error)

	resp := doRequest(t, app, http.MethodGet, "/user/dashboard", token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	stats := data["stats"].(map[string]interface{})
	assert.EqualValues(t, 1, stats["enrolled"])
	assert.EqualValues(t, 1, stats["completed"])
	assert.EqualValues(t, 1, stats["certificates"])
}

func TestCourseListFilters(t *testing.T) {
	app, db := setupApp(t)
	seedCourse(t, db, 2)
	advanced := models.Course{Name: "Advanced Go", Description: "Concurrency deep dive", Difficulty: "Advanced"}
	require.NoError(t, db.Create(&advanced).Error)

	resp := doRequest(t, app, http.MethodGet, "/course/list?difficulty=Advanced", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	assert.EqualValues(t, 1, data["total"])

	resp = doRequest(t, app, http.MethodGet, "/course/list?search=concurrency", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	data = body["data"].(map[string]interface{})
	assert.EqualValues(t, 1, data["total"])

	resp = doRequest(t, app, http.MethodGet, "/course/list?difficulty=bogus", "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func lessonCompletePath(courseID, lessonID uint) string {
	return fmt.Sprintf("/course/%d/lesson/%d/complete", courseID, lessonID)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}
