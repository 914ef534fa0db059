package utils

import (
	"log"
	"strconv"
	"time"

	"talim/database"
	"talim/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// logCleanup logs cleanup events with timestamp
func logCleanup(message string) {
	log.Printf("[CLEANUP %s] %s", time.Now().Format(time.RFC3339), message)
}

// CleanupIncompleteUsers removes user rows that never became real accounts:
// no name or no password, older than a day. These are leftovers of aborted
// registrations, never referenced by payments or enrollments.
func CleanupIncompleteUsers(db *gorm.DB) (int64, error) {
	cutoff := time.Now().Add(-24 * time.Hour)

	result := db.Unscoped().
		Where("(name = '' OR password = '') AND created_at < ?", cutoff).
		Delete(&models.User{})
	return result.RowsAffected, result.Error
}

// PurgeExpiredNotifications drops notifications whose TTL has passed
func PurgeExpiredNotifications(db *gorm.DB) (int64, error) {
	result := db.Unscoped().
		Where("expires_at IS NOT NULL AND expires_at < ?", time.Now()).
		Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}

// StartCleanupScheduler runs the housekeeping jobs nightly
func StartCleanupScheduler() {
	c := cron.New()

	_, err := c.AddFunc("0 3 * * *", func() {
		db := database.Database.Db

		if count, err := CleanupIncompleteUsers(db); err != nil {
			logCleanup("Error cleaning incomplete users: " + err.Error())
		} else if count > 0 {
			logCleanup("Removed incomplete user records: " + strconv.FormatInt(count, 10))
		}

		if count, err := PurgeExpiredNotifications(db); err != nil {
			logCleanup("Error purging expired notifications: " + err.Error())
		} else if count > 0 {
			logCleanup("Purged expired notifications: " + strconv.FormatInt(count, 10))
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule cleanup job: %v", err)
	}

	c.Start()
	logCleanup("Cleanup scheduler started")
}
