package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notification types
const (
	NotificationCourseEnrollment = "course_enrollment"
	NotificationPaymentApproved  = "payment_approved"
	NotificationPaymentRejected  = "payment_rejected"
	NotificationNewPayment       = "new_payment"
	NotificationSystem           = "system_announcement"
	NotificationWelcome          = "welcome"
	NotificationReminder         = "reminder"
)

// Notification priorities
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Notification is a fire-and-forget in-app record. RecipientID nil means an
// admin broadcast. Mutated only to mark read; some types carry an ExpiresAt
// honored by the cleanup scheduler.
type Notification struct {
	gorm.Model
	RecipientID *uint  `json:"recipient_id" gorm:"index"`
	Type        string `json:"type" gorm:"index;not null"`
	Title       string `json:"title" gorm:"size:200;not null"`
	Message     string `json:"message" gorm:"size:1000;not null"`

	Data datatypes.JSON `json:"data"`

	IsRead bool       `json:"is_read" gorm:"default:false"`
	ReadAt *time.Time `json:"read_at"`

	// Requested delivery channels
	ChannelInApp bool `json:"channel_in_app" gorm:"default:true"`
	ChannelEmail bool `json:"channel_email" gorm:"default:false"`
	ChannelSMS   bool `json:"channel_sms" gorm:"default:false"`
	ChannelPush  bool `json:"channel_push" gorm:"default:false"`

	// Per-channel delivery outcome
	EmailSent   bool       `json:"email_sent" gorm:"default:false"`
	EmailSentAt *time.Time `json:"email_sent_at"`
	EmailError  string     `json:"email_error"`
	SMSSent     bool       `json:"sms_sent" gorm:"default:false"`
	SMSSentAt   *time.Time `json:"sms_sent_at"`
	SMSError    string     `json:"sms_error"`
	PushSent    bool       `json:"push_sent" gorm:"default:false"`
	PushSentAt  *time.Time `json:"push_sent_at"`

	Priority  string     `json:"priority" gorm:"default:'normal'"` // low, normal, high, urgent
	ExpiresAt *time.Time `json:"expires_at" gorm:"index"`
}
