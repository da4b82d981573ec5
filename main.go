package main

import (
	"log"

	"github.com/Rwigenzadavy/techlearnhub/cache"
	"github.com/Rwigenzadavy/techlearnhub/config"
	"github.com/Rwigenzadavy/techlearnhub/database"
	"github.com/Rwigenzadavy/techlearnhub/routers/adminRoutes"
	"github.com/Rwigenzadavy/techlearnhub/routers/authRoutes"
	"github.com/Rwigenzadavy/techlearnhub/routers/courseRoutes"
	"github.com/Rwigenzadavy/techlearnhub/routers/reviewRoutes"
	"github.com/Rwigenzadavy/techlearnhub/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()
	cache.Connect(config.AppConfig.CachePath)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	reviewRoutes.SetupReviewRoutes(app)
	adminRoutes.SetupAdminRoutes(app)

	// Replays progress writes that failed at completion time
	utils.InitializeProgressScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
