// Package auth contains the signup, login and email verification
// endpoints
package auth

import (
	"bitwise74/roommate-api/internal"
	"bitwise74/roommate-api/internal/model"
	"bitwise74/roommate-api/pkg/security"
	"bitwise74/roommate-api/pkg/validators"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Unverified accounts are cleaned up after a week
const accountVerifyDeadline = time.Hour * 24 * 7

type signupBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Signup(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data signupBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message":   "Invalid request body",
			"success":   false,
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := validators.NameValidator(data.Name); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message":   err.Error(),
			"success":   false,
			"requestID": requestID,
		})
		return
	}

	if err := validators.EmailValidator(data.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message":   err.Error(),
			"success":   false,
			"requestID": requestID,
		})
		return
	}

	if err := validators.PasswordValidator(data.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message":   err.Error(),
			"success":   false,
			"requestID": requestID,
		})
		return
	}

	hash, err := d.Argon.GenerateFromPassword(data.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message":   "Internal Server Error",
			"success":   false,
			"requestID": requestID,
		})

		zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	userID, err := gonanoid.Generate(idCharset, 16)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message":   "Internal Server Error",
			"success":   false,
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate user ID", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	otp, err := security.GenerateOTP(viper.GetInt("otp.length"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message":   "Internal Server Error",
			"success":   false,
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate verification code", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	// Codes are hashed exactly like passwords, the plaintext only
	// ever leaves the process inside the verification mail
	otpHash, err := d.Argon.GenerateFromPassword(otp)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message":   "Internal Server Error",
			"success":   false,
			"requestID": requestID,
		})

		zap.L().Error("Failed to hash verification code", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	ttl := viper.GetDuration("otp.expiry")

	record, err := security.MakeOTPRecord(&security.OTPRecordOpts{
		UserID:  userID,
		OTPHash: otpHash,
		TTL:     ttl,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message":   "Internal Server Error",
			"success":   false,
			"requestID": requestID,
		})

		zap.L().Error("Failed to make verification record", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	deadline := time.Now().Add(accountVerifyDeadline)

	// User and code are inserted together. Duplicate emails are caught
	// by the unique constraint instead of a lookup beforehand, so two
	// concurrent signups can't both get through
	err = d.DB.Create(&model.User{
		ID:           userID,
		Name:         data.Name,
		Email:        data.Email,
		PasswordHash: hash,
		ExpiresAt:    &deadline,
		OTPRecords:   []model.OTPRecord{*record},
	}).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{
				"message":   "User already exists. You can login.",
				"success":   false,
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"message":   "Internal Server Error",
			"success":   false,
			"requestID": requestID,
		})

		zap.L().Error("Failed to create user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	// A failed send leaves the account in place. The resend endpoint
	// is the recovery path, so don't swallow the error
	if err := d.Mailer.SendOTP(data.Email, data.Name, otp, ttl); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message":   "Internal Server Error",
			"success":   false,
			"requestID": requestID,
		})

		zap.L().Error("Failed to send verification email", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Signup successful. Please verify your email.",
		"success":   true,
		"requestID": requestID,
	})
}
