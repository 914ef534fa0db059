package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

type User struct {
	gorm.Model
	Name            string    `json:"name" gorm:"default:''"`
	Email           string    `json:"email" gorm:"unique;not null"`
	Phone           string    `json:"phone" gorm:"default:''"`
	Password        string    `json:"-"`
	Role            string    `json:"role" gorm:"default:'student'"` // student, instructor, admin
	IsEmailVerified bool      `json:"is_email_verified" gorm:"default:false"`
	LastLogin       time.Time `json:"last_login" gorm:"default:NULL"`
	IsDeleted       bool      `json:"-" gorm:"default:false"`

	Enrollments []Enrollment `json:"enrollments,omitempty" gorm:"foreignKey:UserID"`
}

// Enrollment is one entry of a user's enrolled-courses set. The unique index
// on (user_id, course_id) makes enrollment idempotent: a course can appear at
// most once per user regardless of how many times access is granted.
type Enrollment struct {
	gorm.Model
	UserID           uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	CourseID         uint       `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	EnrolledAt       time.Time  `json:"enrolled_at"`
	Progress         int        `json:"progress" gorm:"default:0"` // completion percentage (0-100)
	CompletedLessons int        `json:"completed_lessons" gorm:"default:0"`
	CompletedAt      *time.Time `json:"completed_at"`

	Course Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}
