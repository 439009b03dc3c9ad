package handlers

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/spectech/internal/config"
	"github.com/example/spectech/internal/models"
	"github.com/example/spectech/internal/services"
	"github.com/example/spectech/internal/utils"
)

const otpTTL = 5 * time.Minute

// AuthHandler bundles dependencies for the phone/OTP login endpoints.
type AuthHandler struct {
	db  *gorm.DB
	cfg *config.Config
	sms services.SMSProvider
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config, sms services.SMSProvider) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, sms: sms}
}

type requestCodeRequest struct {
	Phone string `json:"phone"`
}

// RequestCode creates the account if needed and issues a fresh login code.
// Every call issues a new code regardless of outstanding ones; only the
// newest code per phone is ever honored by Verify.
func (h *AuthHandler) RequestCode(c *fiber.Ctx) error {
	var req requestCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		return fiber.NewError(fiber.StatusBadRequest, "phone is required")
	}

	var user models.User
	err := h.db.Where("phone = ?", phone).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		user = models.User{Phone: phone}
		if err := h.db.Create(&user).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	if user.IsBlocked {
		return fiber.NewError(fiber.StatusForbidden, "account is blocked")
	}

	code, err := generateVerificationCode()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate verification code")
	}

	otp := models.OTPCode{
		Phone:     phone,
		Code:      code,
		ExpiresAt: time.Now().Add(otpTTL),
	}
	if err := h.db.Create(&otp).Error; err != nil {
		return err
	}

	if err := h.sms.SendOTP(phone, code); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to deliver verification code")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "code sent",
	})
}

type verifyRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// Verify checks the submitted code against the most recently issued one for
// the phone, marks the user verified and returns a session token.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	var req verifyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	phone := strings.TrimSpace(req.Phone)
	code := strings.TrimSpace(req.Code)

	var otp models.OTPCode
	err := h.db.Where("phone = ?", phone).
		Order("id desc").
		First(&otp).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid code")
		}
		return err
	}

	if otp.Code != code {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid code")
	}

	if otp.ExpiresAt.Before(time.Now()) {
		return fiber.NewError(fiber.StatusBadRequest, "code expired")
	}

	var user models.User
	if err := h.db.Where("phone = ?", phone).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	if user.IsBlocked {
		return fiber.NewError(fiber.StatusForbidden, "account is blocked")
	}

	if err := h.db.Model(&user).Update("is_verified", true).Error; err != nil {
		return err
	}

	token, err := utils.GenerateUserToken(h.cfg.JWTSecret, user.ID, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user": fiber.Map{
			"id":       user.ID,
			"phone":    user.Phone,
			"name":     user.Name,
			"whatsapp": user.Whatsapp,
		},
	})
}

func generateVerificationCode() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
