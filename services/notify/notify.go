package notify

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"talim/models"
	"talim/realtime"
	"talim/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Channels selects where a notification is delivered besides the in-app
// record
type Channels struct {
	Email bool
	SMS   bool
	Push  bool
}

// Dispatcher creates notification records and pushes them through the
// requested channels. Every path in here is fire-and-forget: a failed
// insert, email or broadcast is logged and swallowed so it can never turn a
// successful primary operation into a failed request.
type Dispatcher struct {
	db  *gorm.DB
	hub *realtime.Hub
}

func NewDispatcher(db *gorm.DB, hub *realtime.Hub) *Dispatcher {
	return &Dispatcher{db: db, hub: hub}
}

// Dispatch persists a notification. A nil recipient means an admin
// broadcast. Returns the record, or nil when persistence failed.
func (d *Dispatcher) Dispatch(recipientID *uint, ntype, title, message string, data map[string]interface{}, ch Channels) *models.Notification {
	notification := &models.Notification{
		RecipientID:  recipientID,
		Type:         ntype,
		Title:        title,
		Message:      message,
		ChannelEmail: ch.Email,
		ChannelSMS:   ch.SMS,
		ChannelPush:  ch.Push,
		Priority:     models.PriorityNormal,
	}

	if data != nil {
		if raw, err := json.Marshal(data); err == nil {
			notification.Data = datatypes.JSON(raw)
		}
	}

	if err := d.db.Create(notification).Error; err != nil {
		log.Printf("Notification creation failed (%s): %v", ntype, err)
		return nil
	}
	return notification
}

// NotifyNewPayment tells admins a payment is waiting for review
func (d *Dispatcher) NotifyNewPayment(p *models.Payment) {
	d.Dispatch(nil, models.NotificationNewPayment,
		"নতুন পেমেন্ট রিকুয়েস্ট",
		fmt.Sprintf("%s একটি নতুন পেমেন্ট জমা দিয়েছেন", p.Name),
		map[string]interface{}{"paymentId": p.ID, "courseId": p.CourseID},
		Channels{})

	d.hub.Emit("newPayment", map[string]interface{}{
		"paymentId": p.ID,
		"timestamp": time.Now().Format(time.RFC3339),
	}, realtime.AdminRoom)
}

// BroadcastAccessUpdate publishes courseAccessUpdated to the admin room and
// the payer's room
func (d *Dispatcher) BroadcastAccessUpdate(p *models.Payment) {
	d.hub.Emit("courseAccessUpdated", map[string]interface{}{
		"email":      p.Email,
		"courseId":   p.CourseID,
		"courseName": p.CourseTitle,
		"paymentId":  p.ID,
		"userName":   p.Name,
		"timestamp":  time.Now().Format(time.RFC3339),
	}, realtime.AdminRoom, realtime.UserRoom(p.Email))
}

// NotifyApproval records the payment_approved notification and mails the
// payer. Email delivery failure is logged on the record, never surfaced.
func (d *Dispatcher) NotifyApproval(p *models.Payment) {
	recipient := d.recipientFor(p.Email)

	message := fmt.Sprintf("আপনার \"%s\" কোর্সের পেমেন্ট অনুমোদিত হয়েছে।", p.CourseTitle)
	notification := d.Dispatch(recipient, models.NotificationPaymentApproved,
		"পেমেন্ট অনুমোদিত!",
		message,
		map[string]interface{}{"paymentId": p.ID, "courseId": p.CourseID},
		Channels{Email: true, SMS: p.Phone != ""})

	if recipient != nil {
		d.NotifyEnrollment(*recipient, p.CourseID, p.CourseTitle)
	}

	go func() {
		err := utils.SendCourseAccessEmail(p.Email, p.Name, p.CourseTitle)
		d.markEmailResult(notification, err)
	}()

	if p.Phone != "" {
		go func() {
			err := utils.SendSMS(p.Phone, message)
			d.markSMSResult(notification, err)
		}()
	}
}

// NotifyRejection records the payment_rejected notification with the
// admin's reason and mails the payer
func (d *Dispatcher) NotifyRejection(p *models.Payment, reason string) {
	message := fmt.Sprintf("আপনার \"%s\" কোর্সের পেমেন্ট প্রত্যাখ্যাত হয়েছে।", p.CourseTitle)
	if reason != "" {
		message += " কারণ: " + reason
	}

	notification := d.Dispatch(d.recipientFor(p.Email), models.NotificationPaymentRejected,
		"পেমেন্ট প্রত্যাখ্যাত",
		message,
		map[string]interface{}{"paymentId": p.ID, "courseId": p.CourseID},
		Channels{Email: true})

	go func() {
		err := utils.SendPaymentRejectedEmail(p.Email, p.Name, p.CourseTitle, reason)
		d.markEmailResult(notification, err)
	}()
}

// NotifyWelcome greets a newly registered user
func (d *Dispatcher) NotifyWelcome(user *models.User) {
	d.Dispatch(&user.ID, models.NotificationWelcome,
		"স্বাগতম!",
		"তালিমুল ইসলাম একাডেমিতে আপনাকে স্বাগতম। আপনার শিক্ষা যাত্রা শুরু করুন।",
		nil,
		Channels{})
}

// NotifyEnrollment records a course_enrollment notification
func (d *Dispatcher) NotifyEnrollment(userID uint, courseID uint, courseTitle string) {
	d.Dispatch(&userID, models.NotificationCourseEnrollment,
		"কোর্সে ভর্তি সফল!",
		fmt.Sprintf("আপনি \"%s\" কোর্সে সফলভাবে ভর্তি হয়েছেন।", courseTitle),
		map[string]interface{}{"courseId": courseID},
		Channels{})
}

func (d *Dispatcher) recipientFor(email string) *uint {
	var user models.User
	if err := d.db.Where("email = ? AND is_deleted = false", email).First(&user).Error; err != nil {
		return nil
	}
	return &user.ID
}

func (d *Dispatcher) markSMSResult(n *models.Notification, sendErr error) {
	if n == nil {
		return
	}
	updates := map[string]interface{}{}
	if sendErr != nil {
		log.Printf("Failed to send SMS for notification %d: %v", n.ID, sendErr)
		updates["sms_error"] = sendErr.Error()
	} else {
		updates["sms_sent"] = true
		updates["sms_sent_at"] = time.Now()
	}
	if err := d.db.Model(n).Updates(updates).Error; err != nil {
		log.Printf("Failed to record SMS delivery status for notification %d: %v", n.ID, err)
	}
}

func (d *Dispatcher) markEmailResult(n *models.Notification, sendErr error) {
	if n == nil {
		return
	}
	now := time.Now()
	updates := map[string]interface{}{}
	if sendErr != nil {
		log.Printf("Failed to send email for notification %d: %v", n.ID, sendErr)
		updates["email_error"] = sendErr.Error()
	} else {
		updates["email_sent"] = true
		updates["email_sent_at"] = now
	}
	if err := d.db.Model(n).Updates(updates).Error; err != nil {
		log.Printf("Failed to record email delivery status for notification %d: %v", n.ID, err)
	}
}
