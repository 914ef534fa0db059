package main

import (
	"log"
	"talim/config"
	authController "talim/controllers/auth"
	paymentController "talim/controllers/payment"
	"talim/database"
	"talim/otpcache"
	"talim/realtime"
	authRoutes "talim/routers/authRoutes"
	courseRoutes "talim/routers/courseRoutes"
	notificationRoutes "talim/routers/notificationRoutes"
	paymentRoutes "talim/routers/paymentRoutes"
	userRoutes "talim/routers/userRoutes"
	"talim/services/notify"
	"talim/services/paymentflow"
	"talim/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	hub := realtime.NewHub()
	dispatcher := notify.NewDispatcher(database.Database.Db, hub)
	store := paymentflow.NewGormStore(database.Database.Db)
	runner := paymentflow.NewRunner(store, dispatcher)
	otpStore := otpcache.New(config.AppConfig.RedisAddr, config.AppConfig.RedisPassword)

	authController.Init(otpStore, dispatcher)
	paymentController.Init(runner, dispatcher)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve static files from the public folder
	app.Static("/", "./public")

	// Realtime channel for course-access and payment events
	app.Use("/ws", realtime.UpgradeRequired)
	app.Get("/ws", realtime.Handler(hub))

	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	paymentRoutes.SetupPaymentRoutes(app)
	userRoutes.SetupUserRoutes(app)
	notificationRoutes.SetupNotificationRoutes(app)

	utils.StartCleanupScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
