package userController

import (
	"errors"

	"talim/database"
	"talim/middleware"
	"talim/models"
	"talim/services/progresstrack"
	userValidator "talim/validators/user"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetUserCourses returns the user's enrolled courses. This set is the
// authoritative access signal for content-serving routes.
func GetUserCourses(c *fiber.Ctx) error {
	email := c.Locals("targetEmail").(string)

	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ? AND is_deleted = false", email).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	var enrollments []models.Enrollment
	if err := db.Where("user_id = ?", user.ID).
		Preload("Course").
		Order("enrolled_at DESC").
		Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled courses fetched!", fiber.Map{
		"courses": enrollments,
	})
}

// GetUserProgress lists the user's progress records with lesson detail
func GetUserProgress(c *fiber.Ctx) error {
	email := c.Locals("targetEmail").(string)

	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ? AND is_deleted = false", email).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	var progresses []models.Progress
	if err := db.Where("user_id = ?", user.ID).
		Preload("Lessons").
		Order("last_accessed_at DESC").
		Find(&progresses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched!", progresses)
}

// UpdateUserProgress marks a lesson and recomputes the overall percentage.
// There is no implicit progress creation here: the record comes from the
// approval flow, and a missing one is a 404.
func UpdateUserProgress(c *fiber.Ctx) error {
	email := c.Locals("targetEmail").(string)

	reqData, ok := c.Locals("validatedProgress").(*userValidator.UpdateProgressRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ? AND is_deleted = false", email).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	var progress models.Progress
	err := db.Where("user_id = ? AND course_id = ?", user.ID, reqData.CourseID).
		Preload("Lessons").
		First(&progress).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Progress not found for this course!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load progress!", nil)
	}

	if err := progresstrack.ApplyLessonUpdate(&progress, reqData.LessonID, reqData.Completed, reqData.TimeSpent); err != nil {
		if errors.Is(err, progresstrack.ErrLessonNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found in this course!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	tx := db.Begin()

	if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(&progress).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save progress!", nil)
	}

	// Mirror the percentage onto the enrollment entry
	if err := tx.Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", user.ID, reqData.CourseID).
		Updates(map[string]interface{}{
			"progress":          progress.OverallProgress,
			"completed_lessons": progresstrack.CompletedLessonCount(&progress),
		}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update enrollment!", nil)
	}

	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated!", progress)
}

// GetUserNotifications lists the user's notifications with an unread count
func GetUserNotifications(c *fiber.Ctx) error {
	email := c.Locals("targetEmail").(string)

	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ? AND is_deleted = false", email).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	var notifications []models.Notification
	if err := db.Where("recipient_id = ?", user.ID).
		Order("created_at DESC").
		Limit(50).
		Find(&notifications).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch notifications!", nil)
	}

	var unreadCount int64
	db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = false", user.ID).
		Count(&unreadCount)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notifications fetched!", fiber.Map{
		"notifications": notifications,
		"unreadCount":   unreadCount,
	})
}
