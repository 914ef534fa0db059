package courseRoutes

import (
	courseController "talim/controllers/course"
	"talim/middleware"
	courseValidator "talim/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up catalog and review routes
func SetupCourseRoutes(app *fiber.App) {
	api := app.Group("/api")

	api.Get("/courses", courseValidator.CourseList(), courseController.GetAllCourses)
	api.Get("/courses/:id", courseValidator.GetCourseDetail(), courseController.GetCourseDetails)

	// Reviews
	api.Get("/courses/:id/reviews", courseValidator.GetCourseDetail(), courseController.GetCourseReviews)
	api.Post("/courses/:id/reviews", middleware.JWTMiddleware, courseValidator.CreateReview(), courseController.CreateReview)

	// Admin catalog management
	api.Post("/admin/courses", middleware.JWTMiddleware, middleware.AdminOnly, courseValidator.CreateCourse(), courseController.CreateCourse)
}
