package notificationRoutes

import (
	notificationController "talim/controllers/notification"
	"talim/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupNotificationRoutes sets up the admin notification feed
func SetupNotificationRoutes(app *fiber.App) {
	adminGroup := app.Group("/api/admin/notifications", middleware.JWTMiddleware, middleware.AdminOnly)

	adminGroup.Get("/", notificationController.GetAdminNotifications)
	adminGroup.Put("/:id/read", notificationController.MarkNotificationRead)
}
