package paymentflow

import "talim/models"

// Effect is one side effect owed after a status transition. Effects are
// ordered: access is granted before the progress record exists so a failed
// progress write leaves a user with access to catch up, never the reverse.
type Effect int

const (
	// EffectGrantAccess adds the course to the payer's enrolled set
	EffectGrantAccess Effect = iota
	// EffectInitProgress creates the curriculum-snapshot progress record
	EffectInitProgress
	// EffectBroadcastAccess publishes courseAccessUpdated to subscribers
	EffectBroadcastAccess
	// EffectNotifyApproval persists the payment_approved notification and
	// sends the congratulation email
	EffectNotifyApproval
	// EffectNotifyRejection persists the payment_rejected notification and
	// mails the admin's reason
	EffectNotifyRejection
)

// Outcome is the decision for one requested status change
type Outcome struct {
	Next    string
	Changed bool
	Effects []Effect
}

// Decide maps (stored status, requested status) to the transition outcome.
// It is the single authority on which transitions trigger side effects:
// re-applying the current status is a no-op, and the approval effect chain
// fires only on the edge into approved, never on a repeat.
func Decide(current, requested string) (Outcome, error) {
	switch requested {
	case models.PaymentStatusPending, models.PaymentStatusApproved, models.PaymentStatusRejected:
	default:
		return Outcome{}, ErrInvalidStatus
	}

	if requested == current {
		return Outcome{Next: current, Changed: false}, nil
	}

	out := Outcome{Next: requested, Changed: true}
	switch requested {
	case models.PaymentStatusApproved:
		out.Effects = []Effect{
			EffectGrantAccess,
			EffectInitProgress,
			EffectBroadcastAccess,
			EffectNotifyApproval,
		}
	case models.PaymentStatusRejected:
		out.Effects = []Effect{EffectNotifyRejection}
	}

	return out, nil
}
