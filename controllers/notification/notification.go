package notificationController

import (
	"strconv"
	"strings"
	"time"

	"talim/database"
	"talim/middleware"
	"talim/models"

	"github.com/gofiber/fiber/v2"
)

// GetAdminNotifications lists admin-broadcast notifications (no recipient),
// newest first
func GetAdminNotifications(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	db := database.Database.Db
	query := db.Model(&models.Notification{}).Where("recipient_id IS NULL")

	var total int64
	query.Count(&total)

	var notifications []models.Notification
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&notifications).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch notifications!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notifications fetched!", fiber.Map{
		"notifications": notifications,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// MarkNotificationRead flags one notification as read
func MarkNotificationRead(c *fiber.Ctx) error {
	idStr := strings.TrimSpace(c.Params("id"))
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid notification ID!", nil)
	}

	db := database.Database.Db

	var notification models.Notification
	if err := db.Where("id = ?", id).First(&notification).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Notification not found!", nil)
	}

	if err := db.Model(&notification).Updates(map[string]interface{}{
		"is_read": true,
		"read_at": time.Now(),
	}).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update notification!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notification marked as read.", nil)
}
