package auth

import (
	"bitwise74/roommate-api/internal"
	"bitwise74/roommate-api/internal/model"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type verifyBody struct {
	UserID string `json:"userId"`
	OTP    string `json:"otp"`
}

func Verify(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data verifyBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message":   "Invalid request body",
			"success":   false,
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.UserID == "" || data.OTP == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"message":   "User ID and otp fields can't be empty",
			"success":   false,
			"requestID": requestID,
		})
		return
	}

	// Only the newest still-valid code counts, anything older was
	// superseded by a resend
	var record model.OTPRecord

	err := d.DB.
		Where("user_id = ? AND expires_at > ?", data.UserID, time.Now()).
		Order("created_at desc").
		First(&record).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusGone, gin.H{
				"message":   "Code expired or missing. Please request a new one.",
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

		zap.L().Error("Failed to get verification record", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	ok, err := d.Argon.VerifyPasswd(data.OTP, record.OTPHash)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message":   "Internal Server Error",
			"success":   false,
			"requestID": requestID,
		})

		zap.L().Error("Failed to verify code", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !ok {
		c.JSON(http.StatusForbidden, gin.H{
			"message":   "Verification failed.",
			"success":   false,
			"requestID": requestID,
		})
		return
	}

	// Consume every pending code and lift the account deadline in one
	// transaction so a crash can't leave a verified user with live codes
	err = d.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("user_id = ?", data.UserID).
			Delete(model.OTPRecord{}).
			Error; err != nil {
			return err
		}

		return tx.Model(&model.User{}).
			Where("id = ?", data.UserID).
			Updates(map[string]any{
				"verified":   true,
				"expires_at": nil,
			}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message":   "Internal Server Error",
			"success":   false,
			"requestID": requestID,
		})

		zap.L().Error("Failed to mark user verified", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Email verified successfully",
		"success":   true,
		"requestID": requestID,
	})
}
