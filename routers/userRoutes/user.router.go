package userRoutes

import (
	userController "talim/controllers/user"
	"talim/middleware"
	userValidator "talim/validators/user"

	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes sets up per-user course, progress and notification routes
func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/api/users", middleware.JWTMiddleware)

	userGroup.Get("/:email/courses", userValidator.Email(), userController.GetUserCourses)
	userGroup.Get("/:email/progress", userValidator.Email(), userController.GetUserProgress)
	userGroup.Post("/:email/progress", userValidator.UpdateProgress(), userController.UpdateUserProgress)
	userGroup.Get("/:email/notifications", userValidator.Email(), userController.GetUserNotifications)
}
