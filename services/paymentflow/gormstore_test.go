package paymentflow

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

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Name: "Karim", Email: email, Password: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCourse(t *testing.T, db *gorm.DB) *models.Course {
	t.Helper()
	course := &models.Course{Title: "Tajweed Basics", Status: models.CourseStatusPublished, Price: 1500}
	require.NoError(t, db.Create(course).Error)

	module1 := &models.CourseModule{CourseID: course.ID, Position: 0, Title: "Introduction"}
	require.NoError(t, db.Create(module1).Error)
	module2 := &models.CourseModule{CourseID: course.ID, Position: 1, Title: "Rules"}
	require.NoError(t, db.Create(module2).Error)

	lessons := []models.Lesson{
		{ModuleID: module1.ID, CourseID: course.ID, LessonID: "intro-1", Position: 0, Title: "Welcome"},
		{ModuleID: module1.ID, CourseID: course.ID, LessonID: "intro-2", Position: 1, Title: "Letters"},
		{ModuleID: module2.ID, CourseID: course.ID, LessonID: "rules-1", Position: 0, Title: "Noon Sakinah"},
	}
	require.NoError(t, db.Create(&lessons).Error)
	return course
}

func TestGormStoreGrantAccessIsAddToSet(t *testing.T) {
	db := testDB(t)
	store := NewGormStore(db)
	user := seedUser(t, db, "karim@example.com")
	course := seedCourse(t, db)

	result, err := store.GrantAccess(user.Email, course.ID)
	require.NoError(t, err)
	assert.Equal(t, GrantCreated, result)

	// Granting again adds nothing
	result, err = store.GrantAccess(user.Email, course.ID)
	require.NoError(t, err)
	assert.Equal(t, GrantAlreadyEnrolled, result)

	var count int64
	require.NoError(t, db.Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", user.ID, course.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// Counter moved exactly once
	var reloaded models.Course
	require.NoError(t, db.First(&reloaded, course.ID).Error)
	assert.Equal(t, 1, reloaded.EnrollmentCount)
}

func TestGormStoreGrantAccessUnknownUser(t *testing.T) {
	db := testDB(t)
	store := NewGormStore(db)
	course := seedCourse(t, db)

	result, err := store.GrantAccess("ghost@example.com", course.ID)
	require.NoError(t, err)
	assert.Equal(t, GrantUserMissing, result)
}

func TestGormStoreEnsureProgressSnapshotsCurriculum(t *testing.T) {
	db := testDB(t)
	store := NewGormStore(db)
	user := seedUser(t, db, "karim@example.com")
	course := seedCourse(t, db)

	require.NoError(t, store.EnsureProgress(user.Email, course.ID))

	var progress models.Progress
	require.NoError(t, db.Preload("Lessons").
		Where("user_id = ? AND course_id = ?", user.ID, course.ID).
		First(&progress).Error)

	require.Len(t, progress.Lessons, 3)
	assert.Equal(t, "intro-1", progress.Lessons[0].LessonID)
	assert.Equal(t, 0, progress.Lessons[0].ModuleIndex)
	assert.Equal(t, "rules-1", progress.Lessons[2].LessonID)
	assert.Equal(t, 1, progress.Lessons[2].ModuleIndex)
	for _, lesson := range progress.Lessons {
		assert.Equal(t, models.LessonNotStarted, lesson.Status)
	}
	assert.Equal(t, 0, progress.OverallProgress)
}

func TestGormStoreEnsureProgressTwiceKeepsOneRecord(t *testing.T) {
	db := testDB(t)
	store := NewGormStore(db)
	user := seedUser(t, db, "karim@example.com")
	course := seedCourse(t, db)

	require.NoError(t, store.EnsureProgress(user.Email, course.ID))
	require.NoError(t, store.EnsureProgress(user.Email, course.ID))

	var records int64
	require.NoError(t, db.Model(&models.Progress{}).
		Where("user_id = ? AND course_id = ?", user.ID, course.ID).
		Count(&records).Error)
	assert.EqualValues(t, 1, records)

	// The snapshot is not duplicated either
	var lessonRows int64
	require.NoError(t, db.Model(&models.LessonProgress{}).Count(&lessonRows).Error)
	assert.EqualValues(t, 3, lessonRows)
}

func TestGormStoreEnsureProgressUnknownCourse(t *testing.T) {
	db := testDB(t)
	store := NewGormStore(db)
	user := seedUser(t, db, "karim@example.com")

	err := store.EnsureProgress(user.Email, 12345)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestGormStorePaymentLookupAndTransition(t *testing.T) {
	db := testDB(t)
	store := NewGormStore(db)
	course := seedCourse(t, db)

	payment := &models.Payment{
		Name:          "Karim",
		Email:         "karim@example.com",
		CourseID:      course.ID,
		CourseTitle:   course.Title,
		Amount:        1500,
		PaymentMethod: "bkash",
		TransactionID: "TXN-1001",
		Status:        models.PaymentStatusPending,
		SubmittedAt:   time.Now(),
	}
	require.NoError(t, db.Create(payment).Error)

	loaded, err := store.PaymentByID(payment.ID)
	require.NoError(t, err)
	assert.Equal(t, "TXN-1001", loaded.TransactionID)

	_, err = store.PaymentByID(99999)
	assert.ErrorIs(t, err, ErrPaymentNotFound)

	require.NoError(t, store.SaveTransition(loaded, models.PaymentStatusApproved, "ok", "Admin One"))

	var reloaded models.Payment
	require.NoError(t, db.First(&reloaded, payment.ID).Error)
	assert.Equal(t, models.PaymentStatusApproved, reloaded.Status)
	assert.Equal(t, "ok", reloaded.AdminNote)
	assert.Equal(t, "Admin One", reloaded.ProcessedBy)
	assert.NotNil(t, reloaded.ProcessedAt)
}

func TestGormStoreDuplicateTransactionIDRejected(t *testing.T) {
	db := testDB(t)
	course := seedCourse(t, db)

	first := &models.Payment{
		Name: "Karim", Email: "karim@example.com", CourseID: course.ID,
		Amount: 1500, PaymentMethod: "bkash", TransactionID: "TXN-DUP",
		Status: models.PaymentStatusPending, SubmittedAt: time.Now(),
	}
	require.NoError(t, db.Create(first).Error)

	second := &models.Payment{
		Name: "Rahima", Email: "rahima@example.com", CourseID: course.ID,
		Amount: 1500, PaymentMethod: "nagad", TransactionID: "TXN-DUP",
		Status: models.PaymentStatusPending, SubmittedAt: time.Now(),
	}
	assert.Error(t, db.Create(second).Error, "transaction ids are unique across payments")
}

func TestRunnerAgainstGormStore(t *testing.T) {
	db := testDB(t)
	store := NewGormStore(db)
	user := seedUser(t, db, "karim@example.com")
	course := seedCourse(t, db)

	payment := &models.Payment{
		Name:          user.Name,
		Email:         user.Email,
		CourseID:      course.ID,
		CourseTitle:   course.Title,
		Amount:        1500,
		PaymentMethod: "bkash",
		TransactionID: "TXN-2001",
		Status:        models.PaymentStatusPending,
		SubmittedAt:   time.Now(),
	}
	require.NoError(t, db.Create(payment).Error)

	dispatcher := &fakeDispatcher{}
	runner := NewRunner(store, dispatcher)

	updated, err := runner.SetStatus(payment.ID, models.PaymentStatusApproved, "verified", "Admin One")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusApproved, updated.Status)

	// Enrollment and progress both exist exactly once after a second approval
	_, err = runner.SetStatus(payment.ID, models.PaymentStatusApproved, "", "Admin Two")
	require.NoError(t, err)

	var enrollments, progresses int64
	require.NoError(t, db.Model(&models.Enrollment{}).Where("user_id = ?", user.ID).Count(&enrollments).Error)
	require.NoError(t, db.Model(&models.Progress{}).Where("user_id = ?", user.ID).Count(&progresses).Error)
	assert.EqualValues(t, 1, enrollments)
	assert.EqualValues(t, 1, progresses)
	assert.Equal(t, 1, dispatcher.approvals)
}
