package authController

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/Rwigenzadavy/techlearnhub/cache"
	"github.com/Rwigenzadavy/techlearnhub/config"
	"github.com/Rwigenzadavy/techlearnhub/database"
	"github.com/Rwigenzadavy/techlearnhub/middleware"
	"github.com/Rwigenzadavy/techlearnhub/models"
	"github.com/Rwigenzadavy/techlearnhub/services/progress"
	"github.com/Rwigenzadavy/techlearnhub/utils"
	authValidator "github.com/Rwigenzadavy/techlearnhub/validators/auth"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Signup creates the identity record and its profile row. The profile insert
// is guarded by an existence check so a duplicate trigger on the identity side
// cannot produce two rows.
func Signup(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedSignup").(*authValidator.SignupRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Check if email already exists
	if err := db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&models.AuthAccount{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	account := models.AuthAccount{
		ID:                uuid.NewString(),
		Email:             reqData.Email,
		Password:          string(hashedPassword),
		MetadataName:      reqData.Name,
		VerificationToken: uuid.NewString(),
	}

	if err := db.Create(&account).Error; err != nil {
		log.Printf("Error saving auth account: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to sign up user!", nil)
	}

	// Insert the profile row only if one is not already there
	var existing models.User
	if err := db.Where("id = ?", account.ID).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Error checking existing profile: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to sign up user!", nil)
		}
		user := models.User{ID: account.ID, Email: reqData.Email, Name: reqData.Name}
		if err := db.Create(&user).Error; err != nil {
			log.Printf("Error creating user profile: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Error creating user profile!", nil)
		}
	}

	token, err := middleware.GenerateJWT(account.ID, reqData.Name, account.Role, account.Email)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	session := cache.SessionUser{ID: account.ID, Name: reqData.Name, Email: account.Email, Courses: []uint{}}
	if err := cache.Local.Put(cache.SessionKey(account.ID), session); err != nil {
		log.Printf("Error caching session for %s: %v", account.Email, err)
	}
	if _, err := progress.LoadAll(account.ID); err != nil {
		log.Printf("Error loading progress for new user %s: %v", account.Email, err)
	}

	go utils.SendVerificationEmail(account.Email, reqData.Name, account.VerificationToken)

	return middleware.JsonResponse(c, fiber.StatusCreated, true,
		"Welcome, "+reqData.Name+"! Please check your email to verify your account.", fiber.Map{
			"user":  session,
			"token": token,
		})
}

// Login authenticates against the identity record and then resolves the
// profile row, repairing it if the two have drifted apart. Enrollments and
// progress are loaded before the response so the client starts consistent.
func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*authValidator.LoginRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var account models.AuthAccount
	if err := db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&account).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Wrong email or password", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Wrong email or password", nil)
	}

	name := resolveProfile(db, &account)

	account.LastLogin = time.Now()
	if err := db.Save(&account).Error; err != nil {
		log.Printf("Error saving last login time: %v", err)
	}

	// Load enrollments, then progress, before declaring login complete
	var enrollments []models.Enrollment
	if err := db.Where("user_id = ?", account.ID).Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load enrollments!", nil)
	}
	courses := make([]uint, 0, len(enrollments))
	for _, e := range enrollments {
		courses = append(courses, e.CourseID)
	}

	progressMap, err := progress.LoadAll(account.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load progress!", nil)
	}

	token, err := middleware.GenerateJWT(account.ID, name, account.Role, account.Email)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	session := cache.SessionUser{ID: account.ID, Name: name, Email: account.Email, Courses: courses}
	if err := cache.Local.Put(cache.SessionKey(account.ID), session); err != nil {
		log.Printf("Error caching session for %s: %v", account.Email, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Welcome back, "+name+"!", fiber.Map{
		"user":     session,
		"progress": progressMap,
		"token":    token,
	})
}

// Logout clears the cached session entries for the user. Tokens are stateless
// and simply expire; the mirror must not keep serving a signed-out session.
func Logout(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	if err := cache.Local.Delete(cache.SessionKey(userID)); err != nil {
		log.Printf("Error clearing cached session for %s: %v", userID, err)
	}
	if err := cache.Local.Delete(cache.ProgressKey(userID)); err != nil {
		log.Printf("Error clearing cached progress for %s: %v", userID, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Logged out.", nil)
}

// VerifyEmail confirms the address behind a verification token.
func VerifyEmail(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Verification token is required!", nil)
	}

	db := database.Database.Db

	var account models.AuthAccount
	if err := db.Where("verification_token = ? AND is_deleted = ?", token, false).First(&account).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Invalid or expired verification token!", nil)
	}

	account.IsEmailVerified = true
	account.VerificationToken = ""
	if err := db.Save(&account).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to verify email!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Email verified. You can sign in now.", nil)
}

// resolveProfile fetches the profile row for an authenticated account,
// inserting a repaired one when it is missing. Display name resolution order:
// profile name, then signup metadata, then the email local-part. The repair is
// best-effort; a failed insert is logged and login continues.
func resolveProfile(db *gorm.DB, account *models.AuthAccount) string {
	var user models.User
	err := db.Where("id = ?", account.ID).First(&user).Error
	if err == nil {
		return user.Name
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Error fetching user profile %s: %v", account.ID, err)
	}

	name := account.MetadataName
	if name == "" {
		name = strings.SplitN(account.Email, "@", 2)[0]
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		repaired := models.User{ID: account.ID, Email: account.Email, Name: name}
		if insertErr := db.Create(&repaired).Error; insertErr != nil {
			log.Printf("Error creating user profile for %s: %v", account.Email, insertErr)
		}
	}
	return name
}
