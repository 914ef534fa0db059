package courseValidator

import (
	"strconv"
	"strings"

	"talim/middleware"

	"github.com/gofiber/fiber/v2"
)

// CreateCourseRequest is the validated course creation body, curriculum
// included
type CreateCourseRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Instructor   string  `json:"instructor"`
	Price        float64 `json:"price"`
	Currency     string  `json:"currency"`
	ThumbnailURL string  `json:"thumbnailUrl"`
	Status       string  `json:"status"`
	Curriculum   []struct {
		Title   string `json:"title"`
		Lessons []struct {
			LessonID string `json:"lessonId"`
			Title    string `json:"title"`
			Type     string `json:"type"`
			Duration int    `json:"duration"`
		} `json:"lessons"`
	} `json:"curriculum"`
}

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		if reqData.Price < 0 {
			errors["price"] = "Price must be 0 or greater!"
		}

		// Lesson ids must be present and unique within the course
		seen := make(map[string]bool)
		for _, module := range reqData.Curriculum {
			if strings.TrimSpace(module.Title) == "" {
				errors["curriculum"] = "Every module needs a title!"
			}
			for _, lesson := range module.Lessons {
				id := strings.TrimSpace(lesson.LessonID)
				if id == "" {
					errors["curriculum"] = "Every lesson needs a lessonId!"
					continue
				}
				if seen[id] {
					errors["curriculum"] = "Duplicate lessonId: " + id
				}
				seen[id] = true
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

func GetCourseDetail() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params("id"))
		if courseIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
		}

		courseID, err := strconv.Atoi(courseIDStr)
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// CourseListRequest carries catalog listing filters
type CourseListRequest struct {
	Search string `query:"search"`
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
}

func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CourseListRequest)

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		if reqData.Page < 1 {
			reqData.Page = 1
		}
		if reqData.Limit < 1 {
			reqData.Limit = 10
		}

		c.Locals("validatedCourseList", reqData)
		return c.Next()
	}
}

// CreateReviewRequest is the validated review body
type CreateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func CreateReview() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params("id"))
		courseID, err := strconv.Atoi(courseIDStr)
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		reqData := new(CreateReviewRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Rating < 1 || reqData.Rating > 5 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Rating must be between 1 and 5!", nil)
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedReview", reqData)
		return c.Next()
	}
}
