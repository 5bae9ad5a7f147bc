package service

import (
	"bitwise74/roommate-api/internal/model"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OTPCleanup defines a function used to periodically cleanup expired
// verification codes that aren't needed anymore
func OTPCleanup(t time.Duration, db *gorm.DB) {
	ticker := time.NewTicker(t)

	zap.L().Debug("OTP cleanup attached", zap.Duration("tick_every", t))

	go func() {
		for range ticker.C {
			r := db.
				Where("expires_at < ?", time.Now()).
				Delete(model.OTPRecord{})
			if r.Error != nil {
				zap.L().Error("Failed to cleanup expired codes", zap.Error(r.Error))
				continue
			}

			if r.RowsAffected > 0 {
				zap.L().Debug("Cleaned up expired codes", zap.Int64("count", r.RowsAffected))
			}
		}
	}()
}
