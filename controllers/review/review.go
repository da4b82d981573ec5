package reviewController

import (
	"log"

	"github.com/Rwigenzadavy/techlearnhub/cache"
	"github.com/Rwigenzadavy/techlearnhub/database"
	"github.com/Rwigenzadavy/techlearnhub/middleware"
	"github.com/Rwigenzadavy/techlearnhub/models"
	reviewValidator "github.com/Rwigenzadavy/techlearnhub/validators/review"
	"github.com/gofiber/fiber/v2"
)

// cachedReview is the snapshot shape mirrored for each course.
type cachedReview struct {
	UserName string `json:"user_name"`
	Rating   int    `json:"rating"`
	Text     string `json:"text"`
	Date     string `json:"date"`
}

// SubmitReview stores a review with the author's display name copied from the
// profile row at submit time.
func SubmitReview(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	reqData, ok := c.Locals("validatedReview").(*reviewValidator.SubmitReviewRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	review := models.Review{
		CourseID:   uint(courseID),
		UserID:     userID,
		UserName:   user.Name,
		Rating:     reqData.Rating,
		ReviewText: reqData.ReviewText,
	}

	if err := db.Create(&review).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Error submitting review: "+err.Error(), nil)
	}

	refreshReviewSnapshot(uint(courseID))

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review submitted successfully!", review)
}

// GetCourseReviews lists a course's reviews newest first with the average
// rating and count.
func GetCourseReviews(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	reviews, err := loadReviews(uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch reviews!", nil)
	}

	totalRating := 0
	for _, r := range reviews {
		totalRating += r.Rating
	}
	avg := 0.0
	if len(reviews) > 0 {
		avg = float64(int(float64(totalRating)/float64(len(reviews))*10+0.5)) / 10
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reviews fetched successfully!", fiber.Map{
		"reviews":      reviews,
		"avg_rating":   avg,
		"review_count": len(reviews),
	})
}

func loadReviews(courseID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("created_at desc").Find(&reviews).Error
	return reviews, err
}

// refreshReviewSnapshot mirrors a course's reviews into the local cache after
// a submit, matching the shape the display layer wants.
func refreshReviewSnapshot(courseID uint) {
	reviews, err := loadReviews(courseID)
	if err != nil {
		log.Printf("Error reloading reviews for course %d: %v", courseID, err)
		return
	}

	snapshot := make([]cachedReview, 0, len(reviews))
	for _, r := range reviews {
		snapshot = append(snapshot, cachedReview{
			UserName: r.UserName,
			Rating:   r.Rating,
			Text:     r.ReviewText,
			Date:     r.CreatedAt.Format("1/2/2006"),
		})
	}

	if err := cache.Local.Put(cache.ReviewsKey(courseID), snapshot); err != nil {
		log.Printf("Error caching reviews for course %d: %v", courseID, err)
	}
}
