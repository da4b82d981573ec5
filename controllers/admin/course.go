package adminController

import (
	"log"

	"github.com/Rwigenzadavy/techlearnhub/database"
	"github.com/Rwigenzadavy/techlearnhub/middleware"
	"github.com/Rwigenzadavy/techlearnhub/models"
	"github.com/Rwigenzadavy/techlearnhub/utils"
	adminValidator "github.com/Rwigenzadavy/techlearnhub/validators/admin"
	"github.com/gofiber/fiber/v2"
)

// AdminCreateCourse creates a new course
func AdminCreateCourse(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCourse").(*adminValidator.CourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course := models.Course{
		Name:        reqData.Name,
		Description: reqData.Description,
		Difficulty:  reqData.Difficulty,
		Color:       reqData.Color,
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// AdminUpdateCourse updates the provided fields of an existing course
func AdminUpdateCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var course models.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedCourseUpdate").(*adminValidator.CourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Name != "" {
		course.Name = reqData.Name
	}
	if reqData.Description != "" {
		course.Description = reqData.Description
	}
	if reqData.Difficulty != "" {
		course.Difficulty = reqData.Difficulty
	}
	if reqData.Color != "" {
		course.Color = reqData.Color
	}

	if err := database.Database.Db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// AdminDeleteCourse soft deletes a course. Enrollments stay untouched.
func AdminDeleteCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var course models.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	course.IsDeleted = true
	if err := database.Database.Db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// AdminCreateLesson adds a lesson to a course after checking that its video
// URL answers. The course's lesson counter follows the lesson rows.
func AdminCreateLesson(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var course models.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedLesson").(*adminValidator.LessonRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if err := utils.CheckVideoURL(reqData.VideoURL); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Video URL check failed: "+err.Error(), nil)
	}

	lesson := models.Lesson{
		CourseID:    uint(courseID),
		LessonOrder: reqData.LessonOrder,
		Title:       reqData.Title,
		Duration:    reqData.Duration,
		VideoURL:    reqData.VideoURL,
		Description: reqData.Description,
	}

	if err := database.Database.Db.Create(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson!", nil)
	}

	// Keep the display counter in step with the lesson rows
	var total int64
	database.Database.Db.Model(&models.Lesson{}).Where("course_id = ? AND is_deleted = ?", courseID, false).Count(&total)
	course.TotalLessons = int(total)
	if err := database.Database.Db.Save(&course).Error; err != nil {
		log.Printf("Error updating lesson count for course %d: %v", courseID, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully!", lesson)
}
