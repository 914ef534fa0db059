package utils

import (
	"testing"
	"time"

	"talim/database"
	"talim/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func cleanupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))
	return db
}

func TestCleanupIncompleteUsers(t *testing.T) {
	db := cleanupTestDB(t)
	old := time.Now().Add(-48 * time.Hour)

	stale := &models.User{Email: "abandoned@example.com"}
	require.NoError(t, db.Create(stale).Error)
	require.NoError(t, db.Model(stale).UpdateColumn("created_at", old).Error)

	recent := &models.User{Email: "just-started@example.com"}
	require.NoError(t, db.Create(recent).Error)

	complete := &models.User{Name: "Karim", Email: "karim@example.com", Password: "x"}
	require.NoError(t, db.Create(complete).Error)
	require.NoError(t, db.Model(complete).UpdateColumn("created_at", old).Error)

	removed, err := CleanupIncompleteUsers(db)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	var remaining []models.User
	require.NoError(t, db.Find(&remaining).Error)
	emails := make([]string, 0, len(remaining))
	for _, u := range remaining {
		emails = append(emails, u.Email)
	}
	assert.ElementsMatch(t, []string{"just-started@example.com", "karim@example.com"}, emails)
}

func TestPurgeExpiredNotifications(t *testing.T) {
	db := cleanupTestDB(t)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	expired := &models.Notification{Type: models.NotificationReminder, Title: "t", Message: "m", ExpiresAt: &past}
	require.NoError(t, db.Create(expired).Error)
	live := &models.Notification{Type: models.NotificationReminder, Title: "t", Message: "m", ExpiresAt: &future}
	require.NoError(t, db.Create(live).Error)
	permanent := &models.Notification{Type: models.NotificationWelcome, Title: "t", Message: "m"}
	require.NoError(t, db.Create(permanent).Error)

	purged, err := PurgeExpiredNotifications(db)
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}
