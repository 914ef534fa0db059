package courseController

import (
	"strings"

	"talim/database"
	"talim/middleware"
	"talim/models"
	courseValidator "talim/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetAllCourses lists published courses with search and pagination
func GetAllCourses(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCourseList").(*courseValidator.CourseListRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	query := db.Model(&models.Course{}).
		Where("is_deleted = false AND status = ?", models.CourseStatusPublished)

	if reqData.Search != "" {
		pattern := "%" + strings.TrimSpace(reqData.Search) + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	var total int64
	query.Count(&total)

	offset := (reqData.Page - 1) * reqData.Limit

	var courses []models.Course
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(reqData.Limit).
		Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched!", fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	})
}

// GetCourseDetails returns one course with its full curriculum
func GetCourseDetails(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var course models.Course
	err := database.Database.Db.
		Where("id = ? AND is_deleted = false", courseID).
		Preload("Curriculum", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Curriculum.Lessons", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&course).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched!", course)
}

// CreateCourse creates a catalog entry with its curriculum (Admin only)
func CreateCourse(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	status := reqData.Status
	if status == "" {
		status = models.CourseStatusDraft
	}
	currency := reqData.Currency
	if currency == "" {
		currency = "BDT"
	}

	course := models.Course{
		Title:        reqData.Title,
		Slug:         slugify(reqData.Title),
		Description:  reqData.Description,
		Instructor:   reqData.Instructor,
		Price:        reqData.Price,
		Currency:     currency,
		Status:       status,
		ThumbnailURL: reqData.ThumbnailURL,
	}

	tx := database.Database.Db.Begin()

	if err := tx.Create(&course).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	for moduleIndex, moduleData := range reqData.Curriculum {
		module := models.CourseModule{
			CourseID: course.ID,
			Position: moduleIndex,
			Title:    moduleData.Title,
		}
		if err := tx.Create(&module).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course module!", nil)
		}

		for lessonIndex, lessonData := range moduleData.Lessons {
			lessonType := lessonData.Type
			if lessonType == "" {
				lessonType = models.LessonTypeVideo
			}
			lesson := models.Lesson{
				ModuleID: module.ID,
				CourseID: course.ID,
				LessonID: lessonData.LessonID,
				Position: lessonIndex,
				Title:    lessonData.Title,
				Type:     lessonType,
				Duration: lessonData.Duration,
			}
			if err := tx.Create(&lesson).Error; err != nil {
				tx.Rollback()
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson!", nil)
			}
		}
	}

	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

func slugify(title string) string {
	return strings.ToLower(strings.Join(strings.Fields(strings.TrimSpace(title)), "-"))
}
