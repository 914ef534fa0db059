package models

import "gorm.io/gorm"

// Course statuses
const (
	CourseStatusDraft     = "draft"
	CourseStatusPublished = "published"
	CourseStatusArchived  = "archived"
)

// Course is a catalog entry. Its curriculum (modules and lessons) is the
// source snapshotted into Progress records at enrollment time.
type Course struct {
	gorm.Model
	Title           string  `json:"title" gorm:"not null"`
	Slug            string  `json:"slug" gorm:"index"`
	Description     string  `json:"description" gorm:"type:text"`
	Instructor      string  `json:"instructor"`
	Price           float64 `json:"price" gorm:"default:0"`
	Currency        string  `json:"currency" gorm:"default:'BDT'"` // BDT, USD
	Status          string  `json:"status" gorm:"default:'draft'"` // draft, published, archived
	ThumbnailURL    string  `json:"thumbnail_url"`
	EnrollmentCount int     `json:"enrollment_count" gorm:"default:0"`
	IsDeleted       bool    `json:"-" gorm:"default:false"`

	Curriculum []CourseModule `json:"curriculum,omitempty" gorm:"foreignKey:CourseID"`
}

// CourseModule is one ordered section of a course curriculum
type CourseModule struct {
	gorm.Model
	CourseID uint   `json:"course_id" gorm:"index;not null"`
	Position int    `json:"position" gorm:"default:0"`
	Title    string `json:"title" gorm:"not null"`

	Lessons []Lesson `json:"lessons,omitempty" gorm:"foreignKey:ModuleID"`
}

// Lesson types
const (
	LessonTypeVideo = "video"
	LessonTypePDF   = "pdf"
	LessonTypeQuiz  = "quiz"
)

// Lesson is one ordered unit inside a module. LessonID is the client-facing
// identifier and is unique within a course.
type Lesson struct {
	gorm.Model
	ModuleID uint   `json:"module_id" gorm:"index;not null"`
	CourseID uint   `json:"course_id" gorm:"not null;uniqueIndex:idx_course_lesson"`
	LessonID string `json:"lesson_id" gorm:"not null;uniqueIndex:idx_course_lesson"`
	Position int    `json:"position" gorm:"default:0"`
	Title    string `json:"title" gorm:"not null"`
	Type     string `json:"type" gorm:"default:'video'"` // video, pdf, quiz
	Duration int    `json:"duration" gorm:"default:0"`   // minutes
}
