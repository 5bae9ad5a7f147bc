package service

import (
	"bitwise74/roommate-api/internal/model"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AccountCleanup automatically deletes accounts that were registered
// but never verified before their expiry deadline. Verified accounts
// have no deadline so they're never touched
func AccountCleanup(t time.Duration, db *gorm.DB) {
	ticker := time.NewTicker(t)

	zap.L().Debug("Account cleanup attached", zap.Duration("tick_every", t))

	go func() {
		for range ticker.C {
			var toClean []string

			err := db.
				Model(model.User{}).
				Where("verified = ? AND expires_at < ?", false, time.Now()).
				Pluck("id", &toClean).
				Error
			if err != nil {
				zap.L().Error("Failed to query db for users to clean", zap.Error(err))
				continue
			}

			if len(toClean) == 0 {
				continue
			}

			err = db.Transaction(func(tx *gorm.DB) error {
				if err := tx.
					Where("user_id IN ?", toClean).
					Delete(model.OTPRecord{}).
					Error; err != nil {
					return err
				}

				if err := tx.
					Where("user_id IN ?", toClean).
					Delete(model.ResendRequest{}).
					Error; err != nil {
					return err
				}

				return tx.
					Where("id IN ?", toClean).
					Delete(model.User{}).
					Error
			})
			if err != nil {
				zap.L().Error("Failed to delete stale accounts", zap.Error(err))
				continue
			}

			zap.L().Debug("Account cleanup finished", zap.Int("count", len(toClean)))
		}
	}()
}
