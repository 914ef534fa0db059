package paymentValidator

import (
	"strconv"
	"strings"

	"talim/middleware"
	"talim/models"

	"github.com/gofiber/fiber/v2"
)

// SubmitPaymentRequest is the validated payment submission body
type SubmitPaymentRequest struct {
	Name                 string  `json:"name"`
	Email                string  `json:"email"`
	Phone                string  `json:"phone"`
	CourseID             uint    `json:"courseId"`
	Amount               float64 `json:"amount"`
	Currency             string  `json:"currency"`
	PaymentMethod        string  `json:"paymentMethod"`
	TransactionID        string  `json:"transactionId"`
	GatewayTransactionID string  `json:"gatewayTransactionId"`
}

func SubmitPayment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SubmitPaymentRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Name = strings.TrimSpace(reqData.Name)
		reqData.Email = strings.ToLower(strings.TrimSpace(reqData.Email))
		reqData.TransactionID = strings.TrimSpace(reqData.TransactionID)

		errors := make(map[string]string)

		if reqData.Name == "" {
			errors["name"] = "Name is required!"
		}
		if reqData.Email == "" || !strings.Contains(reqData.Email, "@") {
			errors["email"] = "A valid email is required!"
		}
		if reqData.Phone == "" {
			errors["phone"] = "Phone number is required!"
		}
		if reqData.CourseID == 0 {
			errors["courseId"] = "Course ID is required!"
		}
		if reqData.Amount <= 0 {
			errors["amount"] = "Amount must be greater than 0!"
		}
		if !models.IsValidPaymentMethod(reqData.PaymentMethod) {
			errors["paymentMethod"] = "Payment method must be one of: " + strings.Join(models.PaymentMethods, ", ")
		}
		if reqData.TransactionID == "" {
			errors["transactionId"] = "Transaction ID is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPayment", reqData)
		return c.Next()
	}
}

// UpdateStatusRequest is the validated admin decision body
type UpdateStatusRequest struct {
	Status    string `json:"status"`
	AdminNote string `json:"adminNote"`
}

func UpdateStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		paymentID, err := parseIDParam(c)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid payment ID!", nil)
		}

		reqData := new(UpdateStatusRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if strings.TrimSpace(reqData.Status) == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Status is required!", nil)
		}

		c.Locals("paymentID", paymentID)
		c.Locals("validatedStatusUpdate", reqData)
		return c.Next()
	}
}

func GetPayment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		paymentID, err := parseIDParam(c)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid payment ID!", nil)
		}

		c.Locals("paymentID", paymentID)
		return c.Next()
	}
}

// ListPaymentsRequest carries the admin listing filters
type ListPaymentsRequest struct {
	Status string `query:"status"`
	Search string `query:"search"`
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
}

func ListPayments() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ListPaymentsRequest)

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		if reqData.Page < 1 {
			reqData.Page = 1
		}
		if reqData.Limit < 1 {
			reqData.Limit = 10
		}

		c.Locals("validatedPaymentList", reqData)
		return c.Next()
	}
}

func parseIDParam(c *fiber.Ctx) (uint, error) {
	idStr := strings.TrimSpace(c.Params("id"))
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return 0, fiber.ErrBadRequest
	}
	return uint(id), nil
}
