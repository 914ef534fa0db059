package paymentRoutes

import (
	paymentController "talim/controllers/payment"
	"talim/middleware"
	paymentValidator "talim/validators/payment"

	"github.com/gofiber/fiber/v2"
)

// SetupPaymentRoutes sets up payment submission and the admin review surface
func SetupPaymentRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Submission is open: payers attest a transfer before they may have an
	// account session
	api.Post("/payments", paymentValidator.SubmitPayment(), paymentController.SubmitPayment)

	adminGroup := api.Group("/admin/payments", middleware.JWTMiddleware, middleware.AdminOnly)
	adminGroup.Get("/", paymentValidator.ListPayments(), paymentController.GetAllPayments)
	adminGroup.Get("/:id", paymentValidator.GetPayment(), paymentController.GetPaymentDetails)
	adminGroup.Put("/:id", paymentValidator.UpdateStatus(), paymentController.UpdatePaymentStatus)
}
