package paymentflow

import (
	"log"
	"time"

	"talim/models"
)

// GrantResult reports what the access-grant step actually did
type GrantResult int

const (
	// GrantCreated means a new enrollment entry was added
	GrantCreated GrantResult = iota
	// GrantAlreadyEnrolled means the course was already in the user's set
	GrantAlreadyEnrolled
	// GrantUserMissing means no user exists for the payer email
	GrantUserMissing
)

// progressRetries is how many times the progress-record write is retried
// after a successful grant before the error is surfaced. Access is never
// revoked on a progress failure.
const progressRetries = 3

// Store is the persistence surface the state machine mutates
type Store interface {
	PaymentByID(id uint) (*models.Payment, error)
	SaveNote(p *models.Payment, note string) error
	SaveTransition(p *models.Payment, status, note, processedBy string) error
	HasUser(email string) (bool, error)
	GrantAccess(email string, courseID uint) (GrantResult, error)
	EnsureProgress(email string, courseID uint) error
}

// Dispatcher is the fire-and-forget side of an approval: in-app
// notifications, emails and real-time events. Implementations must never
// return an error to the caller; delivery failures are their own problem.
type Dispatcher interface {
	BroadcastAccessUpdate(p *models.Payment)
	NotifyApproval(p *models.Payment)
	NotifyRejection(p *models.Payment, reason string)
}

// Runner loads a payment, asks Decide for the transition outcome and
// executes the owed effects in order against the store and dispatcher.
type Runner struct {
	store      Store
	dispatcher Dispatcher
}

func NewRunner(store Store, dispatcher Dispatcher) *Runner {
	return &Runner{store: store, dispatcher: dispatcher}
}

// SetStatus applies an admin decision to a payment and returns the updated
// record. Re-applying the stored status persists the note and nothing else,
// so a double click or a retried timed-out request cannot re-grant,
// re-notify or re-email.
func (r *Runner) SetStatus(paymentID uint, newStatus, adminNote, processedBy string) (*models.Payment, error) {
	payment, err := r.store.PaymentByID(paymentID)
	if err != nil {
		return nil, err
	}

	outcome, err := Decide(payment.Status, newStatus)
	if err != nil {
		return nil, err
	}

	if !outcome.Changed {
		if adminNote != "" {
			if err := r.store.SaveNote(payment, adminNote); err != nil {
				return nil, err
			}
		}
		return payment, nil
	}

	// An approval for an unknown payer account fails before anything is
	// persisted; the payment stays in its previous status.
	if hasEffect(outcome.Effects, EffectGrantAccess) {
		exists, err := r.store.HasUser(payment.Email)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrUserNotFound
		}
	}

	if err := r.store.SaveTransition(payment, outcome.Next, adminNote, processedBy); err != nil {
		return nil, err
	}

	for _, effect := range outcome.Effects {
		switch effect {
		case EffectGrantAccess:
			result, err := r.store.GrantAccess(payment.Email, payment.CourseID)
			if err != nil {
				return nil, err
			}
			if result == GrantUserMissing {
				return nil, ErrUserNotFound
			}
		case EffectInitProgress:
			if err := r.ensureProgressWithRetry(payment); err != nil {
				return nil, err
			}
		case EffectBroadcastAccess:
			r.dispatcher.BroadcastAccessUpdate(payment)
		case EffectNotifyApproval:
			r.dispatcher.NotifyApproval(payment)
		case EffectNotifyRejection:
			r.dispatcher.NotifyRejection(payment, adminNote)
		}
	}

	return payment, nil
}

// ensureProgressWithRetry retries the progress write because at this point
// access has already been granted; catching up the progress record is
// preferred over revoking access.
func (r *Runner) ensureProgressWithRetry(p *models.Payment) error {
	var err error
	for attempt := 1; attempt <= progressRetries; attempt++ {
		if err = r.store.EnsureProgress(p.Email, p.CourseID); err == nil {
			return nil
		}
		log.Printf("Progress creation for payment %d failed (attempt %d/%d): %v", p.ID, attempt, progressRetries, err)
		time.Sleep(time.Duration(attempt) * 50 * time.Millisecond)
	}
	return err
}

func hasEffect(effects []Effect, target Effect) bool {
	for _, e := range effects {
		if e == target {
			return true
		}
	}
	return false
}
