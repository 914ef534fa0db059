package userValidator

import (
	"strings"

	"talim/middleware"

	"github.com/gofiber/fiber/v2"
)

// Email validates the :email path parameter
func Email() fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := strings.ToLower(strings.TrimSpace(c.Params("email")))
		if email == "" || !strings.Contains(email, "@") {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid email is required!", nil)
		}

		c.Locals("targetEmail", email)
		return c.Next()
	}
}

// UpdateProgressRequest is the validated lesson progress body
type UpdateProgressRequest struct {
	CourseID  uint   `json:"courseId"`
	LessonID  string `json:"lessonId"`
	Completed bool   `json:"completed"`
	TimeSpent int    `json:"timeSpent"` // minutes
}

func UpdateProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := strings.ToLower(strings.TrimSpace(c.Params("email")))
		if email == "" || !strings.Contains(email, "@") {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid email is required!", nil)
		}

		reqData := new(UpdateProgressRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.CourseID == 0 {
			errors["courseId"] = "Course ID is required!"
		}
		if strings.TrimSpace(reqData.LessonID) == "" {
			errors["lessonId"] = "Lesson ID is required!"
		}
		if reqData.TimeSpent < 0 {
			errors["timeSpent"] = "Time spent cannot be negative!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("targetEmail", email)
		c.Locals("validatedProgress", reqData)
		return c.Next()
	}
}
