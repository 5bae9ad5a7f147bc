// Package db contains things related to the database connection
package db

import (
	"bitwise74/roommate-api/internal/model"
	"fmt"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// New opens the configured database and migrates the auth tables.
// TranslateError is enabled so a duplicate email insert surfaces as
// gorm.ErrDuplicatedKey instead of a driver-specific error
func New() (*gorm.DB, error) {
	var dial gorm.Dialector

	dsn := viper.GetString("storage.dsn")

	switch viper.GetString("storage.driver") {
	case "postgres":
		dial = postgres.Open(dsn)
	default:
		dial = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dial, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	err = db.AutoMigrate(model.User{}, model.OTPRecord{}, model.ResendRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return db, nil
}
