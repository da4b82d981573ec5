package middleware

import (
	"github.com/Rwigenzadavy/techlearnhub/database"
	"github.com/Rwigenzadavy/techlearnhub/models"
	"github.com/gofiber/fiber/v2"
)

// AdminMiddleware allows only users whose auth account carries the ADMIN role.
// Runs after JWTMiddleware. The role is re-read from the database so a demoted
// admin loses access without waiting for token expiry.
func AdminMiddleware(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var account models.AuthAccount
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&account).Error; err != nil {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if account.Role != "ADMIN" {
		return JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	return c.Next()
}
