package models

import "gorm.io/gorm"

// Review is a user's rating and comment on a course, unique per
// (user, course). IsApproved gates public visibility.
type Review struct {
	gorm.Model
	UserID     uint   `json:"user_id" gorm:"not null;uniqueIndex:idx_review_user_course"`
	CourseID   uint   `json:"course_id" gorm:"not null;uniqueIndex:idx_review_user_course"`
	Rating     int    `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"` // 1-5
	Comment    string `json:"comment" gorm:"type:text;default:''"`
	IsApproved bool   `json:"is_approved" gorm:"default:false"`
	IsDeleted  bool   `json:"-" gorm:"default:false"`
}
