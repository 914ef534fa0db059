package authController

import (
	"errors"
	"log"
	"time"

	"talim/config"
	"talim/database"
	"talim/middleware"
	"talim/models"
	"talim/otpcache"
	"talim/services/notify"
	"talim/utils"
	authValidator "talim/validators/auth"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

var (
	otpStore *otpcache.Cache
	notifier *notify.Dispatcher
)

// Init wires the controller to the OTP cache and the dispatcher
func Init(cache *otpcache.Cache, dispatcher *notify.Dispatcher) {
	otpStore = cache
	notifier = dispatcher
}

// Register creates a student account and returns a signed token
func Register(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedRegister").(*authValidator.RegisterRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Check if email already exists
	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		Name:      reqData.Name,
		Email:     reqData.Email,
		Phone:     reqData.Phone,
		Password:  string(hashedPassword),
		Role:      models.RoleStudent,
		LastLogin: time.Now(),
	}

	if err := db.Create(&newUser).Error; err != nil {
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register user!", nil)
	}

	notifier.NotifyWelcome(&newUser)
	utils.SendWelcomeEmail(newUser.Email, newUser.Name)

	token, err := middleware.GenerateJWT(newUser.ID, newUser.Name, newUser.Role, newUser.Email)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token!", nil)
	}

	newUser.Password = ""

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", fiber.Map{
		"token": token,
		"user":  newUser,
	})
}

// Login verifies credentials and returns a signed token
func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*authValidator.LoginRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ? AND is_deleted = false", reqData.Email).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	db.Model(&user).Update("last_login", time.Now())

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token!", nil)
	}

	user.Password = ""

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful!", fiber.Map{
		"token": token,
		"user":  user,
	})
}

// SendOTP issues a short-lived email verification code
func SendOTP(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedOTP").(*authValidator.OTPRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	code, err := otpStore.Issue(c.Context(), reqData.Email)
	if err != nil {
		if errors.Is(err, otpcache.ErrResendTooSoon) {
			return middleware.JsonResponse(c, fiber.StatusTooManyRequests, false, "An OTP was sent recently. Please wait before requesting another.", nil)
		}
		log.Printf("Error issuing OTP for %s: %v", reqData.Email, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create OTP!", nil)
	}

	if err := utils.SendOTPEmail(code, reqData.Email); err != nil {
		log.Printf("Error sending OTP email to %s: %v", reqData.Email, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to send OTP!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "OTP sent successfully.", nil)
}

// VerifyOTP checks the submitted code and marks the account's email
// verified when one exists. Verification before registration succeeds too;
// the flag is set once the account is created.
func VerifyOTP(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedOTP").(*authValidator.OTPRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if err := otpStore.Verify(c.Context(), reqData.Email, reqData.OTP); err != nil {
		switch {
		case errors.Is(err, otpcache.ErrCodeExpired):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "OTP has expired!", nil)
		case errors.Is(err, otpcache.ErrTooManyAttempts):
			return middleware.JsonResponse(c, fiber.StatusTooManyRequests, false, "Too many attempts. Request a new OTP.", nil)
		case errors.Is(err, otpcache.ErrCodeInvalid):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid OTP!", nil)
		default:
			log.Printf("Error verifying OTP for %s: %v", reqData.Email, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to verify OTP!", nil)
		}
	}

	db := database.Database.Db
	var user models.User
	if err := db.Where("email = ? AND is_deleted = false", reqData.Email).First(&user).Error; err == nil {
		db.Model(&user).Updates(map[string]interface{}{
			"is_email_verified": true,
			"last_login":        time.Now(),
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Email verified successfully.", nil)
}
