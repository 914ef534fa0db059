package paymentflow

import "errors"

var (
	// ErrPaymentNotFound means no payment exists for the given id
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrInvalidStatus means the requested status is outside the set an
	// admin may apply (pending, approved, rejected)
	ErrInvalidStatus = errors.New("invalid status value, only approved, rejected or pending accepted")

	// ErrUserNotFound means no account exists for the payer email. Approval
	// is refused rather than upserting a half-empty user record.
	ErrUserNotFound = errors.New("no user account exists for the payer email")

	// ErrCourseNotFound means the course referenced by the payment is gone
	ErrCourseNotFound = errors.New("course not found")
)
