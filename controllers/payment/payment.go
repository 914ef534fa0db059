package paymentController

import (
	"errors"
	"strings"
	"time"

	"talim/database"
	"talim/middleware"
	"talim/models"
	"talim/services/notify"
	"talim/services/paymentflow"
	paymentValidator "talim/validators/payment"

	"github.com/gofiber/fiber/v2"
)

var (
	flow     *paymentflow.Runner
	notifier *notify.Dispatcher
)

// Init wires the controller to the state machine runner and the dispatcher
func Init(runner *paymentflow.Runner, dispatcher *notify.Dispatcher) {
	flow = runner
	notifier = dispatcher
}

// SubmitPayment records a manual payment attestation in pending status and
// alerts the admins
func SubmitPayment(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedPayment").(*paymentValidator.SubmitPaymentRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Snapshot the course at submission time
	var course models.Course
	if err := db.Where("id = ? AND is_deleted = false AND status = ?", reqData.CourseID, models.CourseStatusPublished).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not published!", nil)
	}

	// First writer wins on the transaction id; the unique index backs this
	// check up under concurrency
	var existing models.Payment
	if err := db.Where("transaction_id = ? AND is_deleted = false", reqData.TransactionID).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Transaction already processed!", nil)
	}

	currency := reqData.Currency
	if currency == "" {
		currency = course.Currency
	}

	payment := models.Payment{
		Name:                 reqData.Name,
		Email:                reqData.Email,
		Phone:                reqData.Phone,
		CourseID:             course.ID,
		CourseTitle:          course.Title,
		CoursePrice:          course.Price,
		Amount:               reqData.Amount,
		Currency:             currency,
		PaymentMethod:        reqData.PaymentMethod,
		TransactionID:        reqData.TransactionID,
		GatewayTransactionID: reqData.GatewayTransactionID,
		Status:               models.PaymentStatusPending,
		SubmittedAt:          time.Now(),
		IPAddress:            c.IP(),
		UserAgent:            string(c.Request().Header.UserAgent()),
	}

	if err := db.Create(&payment).Error; err != nil {
		if isDuplicateKeyError(err) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Transaction already processed!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save payment!", nil)
	}

	notifier.NotifyNewPayment(&payment)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Payment submitted successfully!", payment)
}

// GetAllPayments lists payments for the admin dashboard with status filter,
// free-text search and pagination, newest first
func GetAllPayments(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedPaymentList").(*paymentValidator.ListPaymentsRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	query := db.Model(&models.Payment{}).Where("is_deleted = false")

	if reqData.Status != "" {
		query = query.Where("status = ?", reqData.Status)
	}
	if reqData.Search != "" {
		pattern := "%" + strings.TrimSpace(reqData.Search) + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ? OR transaction_id ILIKE ?", pattern, pattern, pattern)
	}

	var total int64
	query.Count(&total)

	offset := (reqData.Page - 1) * reqData.Limit

	var payments []models.Payment
	if err := query.
		Order("submitted_at DESC").
		Offset(offset).
		Limit(reqData.Limit).
		Find(&payments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch payments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payments fetched!", fiber.Map{
		"payments": payments,
		"pagination": fiber.Map{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	})
}

// GetPaymentDetails fetches a single payment by id
func GetPaymentDetails(c *fiber.Ctx) error {
	paymentID := c.Locals("paymentID").(uint)

	var payment models.Payment
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", paymentID).First(&payment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Payment not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment fetched!", payment)
}

// UpdatePaymentStatus applies the admin decision through the state machine
func UpdatePaymentStatus(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	paymentID := c.Locals("paymentID").(uint)

	reqData, ok := c.Locals("validatedStatusUpdate").(*paymentValidator.UpdateStatusRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var admin models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", userId).First(&admin).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	payment, err := flow.SetStatus(paymentID, reqData.Status, reqData.AdminNote, admin.Name)
	if err != nil {
		switch {
		case errors.Is(err, paymentflow.ErrPaymentNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Payment not found!", nil)
		case errors.Is(err, paymentflow.ErrInvalidStatus):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid status value. Only approved, rejected or pending accepted.", nil)
		case errors.Is(err, paymentflow.ErrUserNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No user account exists for the payer email!", nil)
		case errors.Is(err, paymentflow.ErrCourseNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update payment!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment status updated successfully!", payment)
}

func isDuplicateKeyError(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "duplicate")
}
