package models

import (
	"time"

	"gorm.io/gorm"
)

// Lesson progress statuses
const (
	LessonNotStarted = "not_started"
	LessonInProgress = "in_progress"
	LessonCompleted  = "completed"
)

// Progress tracks one user's advancement through one course. The unique
// index on (user_id, course_id) guarantees at most one record per pair.
// Lesson rows are a snapshot of the course curriculum taken when the record
// was created; later curriculum edits do not change them.
type Progress struct {
	gorm.Model
	UserID   uint `json:"user_id" gorm:"not null;uniqueIndex:idx_progress_user_course"`
	CourseID uint `json:"course_id" gorm:"not null;uniqueIndex:idx_progress_user_course"`

	OverallProgress int        `json:"overall_progress" gorm:"default:0"` // 0-100
	IsCompleted     bool       `json:"is_completed" gorm:"default:false"`
	CompletedAt     *time.Time `json:"completed_at"`

	TotalTimeSpent     int       `json:"total_time_spent" gorm:"default:0"` // minutes
	LastAccessedAt     time.Time `json:"last_accessed_at"`
	LastAccessedLesson string    `json:"last_accessed_lesson"`

	Lessons []LessonProgress `json:"lessons,omitempty" gorm:"foreignKey:ProgressID"`
}

// LessonProgress is the per-lesson state inside a Progress record
type LessonProgress struct {
	gorm.Model
	ProgressID  uint   `json:"progress_id" gorm:"index;not null"`
	LessonID    string `json:"lesson_id" gorm:"not null"`
	ModuleIndex int    `json:"module_index"`
	LessonIndex int    `json:"lesson_index"`

	Status       string     `json:"status" gorm:"default:'not_started'"` // not_started, in_progress, completed
	StartedAt    *time.Time `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at"`
	TimeSpent    int        `json:"time_spent" gorm:"default:0"`     // minutes
	WatchTime    int        `json:"watch_time" gorm:"default:0"`     // seconds, for video lessons
	LastPosition int        `json:"last_position" gorm:"default:0"`  // seconds, for video lessons
}
