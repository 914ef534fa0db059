package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment statuses
const (
	PaymentStatusPending    = "pending"
	PaymentStatusProcessing = "processing"
	PaymentStatusApproved   = "approved"
	PaymentStatusRejected   = "rejected"
	PaymentStatusRefunded   = "refunded"
	PaymentStatusCancelled  = "cancelled"
)

// PaymentMethods is the accepted set of manual payment channels
var PaymentMethods = []string{"bkash", "nagad", "rocket", "upay", "bank", "card", "cash"}

// IsValidPaymentMethod reports whether method is one of the accepted channels
func IsValidPaymentMethod(method string) bool {
	for _, m := range PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}

// Payment is a user-submitted attestation of an out-of-band money transfer
// for a course. Payer and course fields are snapshots taken at submission
// time; later edits to the user or course do not alter them.
type Payment struct {
	gorm.Model
	// Payer snapshot
	Name  string `json:"name" gorm:"not null"`
	Email string `json:"email" gorm:"index;not null"`
	Phone string `json:"phone"`

	// Course snapshot
	CourseID    uint    `json:"course_id" gorm:"index;not null"`
	CourseTitle string  `json:"course_title"`
	CoursePrice float64 `json:"course_price"`

	Amount   float64 `json:"amount" gorm:"not null"`
	Currency string  `json:"currency" gorm:"default:'BDT'"`

	PaymentMethod        string `json:"payment_method" gorm:"not null"` // bkash, nagad, rocket, upay, bank, card, cash
	TransactionID        string `json:"transaction_id" gorm:"unique;not null"`
	GatewayTransactionID string `json:"gateway_transaction_id"`

	Status string `json:"status" gorm:"index;default:'pending'"`

	// Admin review trail
	AdminNote   string     `json:"admin_note"`
	ProcessedBy string     `json:"processed_by"`
	ProcessedAt *time.Time `json:"processed_at"`

	// Request audit
	IPAddress   string    `json:"ip_address"`
	UserAgent   string    `json:"user_agent"`
	SubmittedAt time.Time `json:"submitted_at"`

	IsDeleted bool `json:"-" gorm:"default:false"`
}

// IsApproved reports whether the payment has been approved
func (p *Payment) IsApproved() bool {
	return p.Status == PaymentStatusApproved
}

// IsPending reports whether the payment still awaits admin review
func (p *Payment) IsPending() bool {
	return p.Status == PaymentStatusPending
}
