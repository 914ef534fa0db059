package authRoutes

import (
	authController "talim/controllers/auth"
	authValidator "talim/validators/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes sets up registration, login and OTP routes
func SetupAuthRoutes(app *fiber.App) {
	api := app.Group("/api")

	api.Post("/register", authValidator.Register(), authController.Register)
	api.Post("/login", authValidator.Login(), authController.Login)
	api.Post("/send-otp", authValidator.SendOTP(), authController.SendOTP)
	api.Post("/verify-otp", authValidator.VerifyOTP(), authController.VerifyOTP)
}
