package adminValidator

import (
	"strconv"
	"strings"

	"github.com/Rwigenzadavy/techlearnhub/middleware"
	"github.com/gofiber/fiber/v2"
)

// CourseRequest is the validated admin course payload.
type CourseRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty"`
	Color       string `json:"color"`
}

// LessonRequest is the validated admin lesson payload.
type LessonRequest struct {
	LessonOrder int    `json:"lesson_order"`
	Title       string `json:"title"`
	Duration    string `json:"duration"`
	VideoURL    string `json:"video_url"`
	Description string `json:"description"`
}

var difficulties = map[string]bool{
	"Beginner":     true,
	"Intermediate": true,
	"Advanced":     true,
}

// CreateCourse validates a new course definition.
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Name) == "" {
			errors["name"] = "Name is required!"
		} else if len(strings.TrimSpace(reqData.Name)) < 3 {
			errors["name"] = "Name must be at least 3 characters long!"
		}
		if strings.TrimSpace(reqData.Description) == "" {
			errors["description"] = "Description is required!"
		}
		if reqData.Difficulty != "" && !difficulties[reqData.Difficulty] {
			errors["difficulty"] = "Difficulty must be Beginner, Intermediate or Advanced!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// UpdateCourse validates a partial course update.
func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := courseIDParam(c); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		reqData := new(CourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Difficulty != "" && !difficulties[reqData.Difficulty] {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"difficulty": "Difficulty must be Beginner, Intermediate or Advanced!",
			})
		}

		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

// DeleteCourse validates the course ID for a soft delete.
func DeleteCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := courseIDParam(c); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}
		return c.Next()
	}
}

// CreateLesson validates a new lesson for a course.
func CreateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := courseIDParam(c); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		reqData := new(LessonRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		if reqData.LessonOrder <= 0 {
			errors["lesson_order"] = "Lesson order must be greater than 0!"
		}
		if strings.TrimSpace(reqData.VideoURL) == "" {
			errors["video_url"] = "Video URL is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}

func courseIDParam(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
	if err != nil || courseID <= 0 {
		return strconv.ErrSyntax
	}
	c.Locals("courseID", courseID)
	return nil
}
