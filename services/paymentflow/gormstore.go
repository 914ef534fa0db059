package paymentflow

import (
	"errors"
	"time"

	"talim/models"
	"talim/services/progresstrack"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store on the shared database. Idempotency of the
// grant and progress steps relies on the unique indexes, not on in-process
// locks: concurrent approvals for the same payment race to an ON CONFLICT
// DO NOTHING insert and at most one row wins.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) PaymentByID(id uint) (*models.Payment, error) {
	var payment models.Payment
	err := s.db.Where("id = ? AND is_deleted = false", id).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (s *GormStore) SaveNote(p *models.Payment, note string) error {
	p.AdminNote = note
	return s.db.Model(p).Update("admin_note", note).Error
}

func (s *GormStore) SaveTransition(p *models.Payment, status, note, processedBy string) error {
	now := time.Now()
	p.Status = status
	p.AdminNote = note
	p.ProcessedBy = processedBy
	p.ProcessedAt = &now

	return s.db.Model(p).Updates(map[string]interface{}{
		"status":       status,
		"admin_note":   note,
		"processed_by": processedBy,
		"processed_at": now,
	}).Error
}

func (s *GormStore) HasUser(email string) (bool, error) {
	var count int64
	err := s.db.Model(&models.User{}).
		Where("email = ? AND is_deleted = false", email).
		Count(&count).Error
	return count > 0, err
}

// GrantAccess adds the course to the user's enrolled set. The insert is an
// atomic add-to-set: ON CONFLICT on (user_id, course_id) DO NOTHING, so
// repeated grants and concurrent grants for different courses to the same
// user are both safe.
func (s *GormStore) GrantAccess(email string, courseID uint) (GrantResult, error) {
	var user models.User
	if err := s.db.Where("email = ? AND is_deleted = false", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GrantUserMissing, nil
		}
		return GrantUserMissing, err
	}

	enrollment := models.Enrollment{
		UserID:     user.ID,
		CourseID:   courseID,
		EnrolledAt: time.Now(),
	}

	result := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(&enrollment)
	if result.Error != nil {
		return GrantUserMissing, result.Error
	}
	if result.RowsAffected == 0 {
		return GrantAlreadyEnrolled, nil
	}

	// Counter only moves on a genuinely new enrollment
	if err := s.db.Model(&models.Course{}).Where("id = ?", courseID).
		UpdateColumn("enrollment_count", gorm.Expr("enrollment_count + 1")).Error; err != nil {
		return GrantCreated, err
	}

	return GrantCreated, nil
}

// EnsureProgress creates the (user, course) progress record with a snapshot
// of the current curriculum. Creation on an existing pair is a no-op, never
// an error.
func (s *GormStore) EnsureProgress(email string, courseID uint) error {
	var user models.User
	if err := s.db.Where("email = ? AND is_deleted = false", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	var course models.Course
	err := s.db.Where("id = ? AND is_deleted = false", courseID).
		Preload("Curriculum", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Curriculum.Lessons", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&course).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	progress := models.Progress{
		UserID:         user.ID,
		CourseID:       courseID,
		LastAccessedAt: time.Now(),
	}

	result := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(&progress)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Record already exists; keep its snapshot untouched
		return nil
	}

	lessons := progresstrack.BuildLessonSnapshot(&course)
	for i := range lessons {
		lessons[i].ProgressID = progress.ID
	}
	if len(lessons) == 0 {
		return nil
	}
	return s.db.Create(&lessons).Error
}
