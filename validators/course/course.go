package courseValidator

import (
	"strconv"
	"strings"

	"github.com/Rwigenzadavy/techlearnhub/middleware"
	"github.com/gofiber/fiber/v2"
)

// CourseListRequest carries the optional browse filters.
type CourseListRequest struct {
	Search     string `query:"search"`
	Difficulty string `query:"difficulty"`
}

var difficulties = map[string]bool{
	"all":          true,
	"Beginner":     true,
	"Intermediate": true,
	"Advanced":     true,
}

// CourseList validates the search/filter query parameters.
func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CourseListRequest)

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		if reqData.Difficulty == "" {
			reqData.Difficulty = "all"
		}

		errors := make(map[string]string)
		if !difficulties[reqData.Difficulty] {
			errors["difficulty"] = "Difficulty must be one of all, Beginner, Intermediate, Advanced!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourseList", reqData)
		return c.Next()
	}
}

// GetCourseDetail validates the course ID path parameter.
func GetCourseDetail() fiber.Handler {
	return courseIDParam("id")
}

// EnrollCourse validates the course ID for an enrollment request.
func EnrollCourse() fiber.Handler {
	return courseIDParam("id")
}

// MarkLessonComplete validates the course and lesson IDs for a completion.
func MarkLessonComplete() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := positiveParam(c, "course_id")
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}
		lessonID, err := positiveParam(c, "lesson_id")
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lesson ID!", nil)
		}

		c.Locals("courseID", courseID)
		c.Locals("lessonID", lessonID)
		return c.Next()
	}
}

// GetCourseProgress validates the course ID for a progress lookup.
func GetCourseProgress() fiber.Handler {
	return courseIDParam("course_id")
}

func courseIDParam(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := positiveParam(c, name)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}
		c.Locals("courseID", courseID)
		return c.Next()
	}
}

func positiveParam(c *fiber.Ctx, name string) (int, error) {
	raw := strings.TrimSpace(c.Params(name))
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, strconv.ErrSyntax
	}
	return value, nil
}
