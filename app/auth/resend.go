package auth

import (
	"bitwise74/roommate-api/internal"
	"bitwise74/roommate-api/internal/model"
	"bitwise74/roommate-api/pkg/security"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type resendBody struct {
	Email string `json:"email"`
}

// Resend issues a fresh verification code and invalidates any pending
// ones. Requests are rate-bound per account through ResendRequest
// bookkeeping, not an in-process limiter
func Resend(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data resendBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message":   "Invalid request body",
			"success":   false,
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"message":   "Email field can't be empty",
			"success":   false,
			"requestID": requestID,
		})
		return
	}

	var user model.User

	if err := d.DB.Where("email = ?", data.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"message":   "User not found",
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

		zap.L().Error("Failed to look up user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if user.Verified {
		c.JSON(http.StatusConflict, gin.H{
			"message":   "This account is already verified. You can login.",
			"success":   false,
			"requestID": requestID,
		})
		return
	}

	now := time.Now()

	var rr model.ResendRequest

	err := d.DB.Where("user_id = ?", user.ID).First(&rr).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message":   "Internal Server Error",
			"success":   false,
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up resend record", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !rr.LastResend.IsZero() {
		sameDay := rr.LastResend.Year() == now.Year() && rr.LastResend.YearDay() == now.YearDay()
		if !sameDay {
			rr.Count = 0
			rr.Blocked = false
		}

		if rr.Blocked {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"message":   "Too many codes requested today. Please try again tomorrow.",
				"success":   false,
				"requestID": requestID,
			})
			return
		}

		if now.Sub(rr.LastResend) < viper.GetDuration("resend.cooldown") {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"message":   "Please wait before requesting another code.",
				"success":   false,
				"requestID": requestID,
			})
			return
		}
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
		UserID:  user.ID,
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

	rr.UserID = user.ID
	rr.LastResend = now
	rr.Count++
	if rr.Count >= viper.GetInt("resend.daily_limit") {
		rr.Blocked = true
	}

	// The new code supersedes every pending one for this account
	err = d.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("user_id = ?", user.ID).
			Delete(model.OTPRecord{}).
			Error; err != nil {
			return err
		}

		if err := tx.Create(record).Error; err != nil {
			return err
		}

		return tx.Save(&rr).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message":   "Internal Server Error",
			"success":   false,
			"requestID": requestID,
		})

		zap.L().Error("Failed to store new verification code", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := d.Mailer.SendOTP(user.Email, user.Name, otp, ttl); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message":   "Internal Server Error",
			"success":   false,
			"requestID": requestID,
		})

		zap.L().Error("Failed to send verification email", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "A new code was sent to your email.",
		"success":   true,
		"requestID": requestID,
	})
}
