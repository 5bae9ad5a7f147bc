// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	validLogLevels      = []string{"debug", "info", "warn", "error", "fatal"}
	validStorageDrivers = []string{"sqlite", "postgres"}
)

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")
	v.BindEnv("host.domain", "host_domain")
	v.BindEnv("host.cors", "host_cors")

	v.BindEnv("jwt.secret", "jwt_secret")

	v.BindEnv("smtp.host", "smtp_host")
	v.BindEnv("smtp.port", "smtp_port")
	v.BindEnv("smtp.sender_name", "smtp_sender_name")
	v.BindEnv("smtp.sender_address", "smtp_sender_address")
	v.BindEnv("smtp.password", "smtp_password")

	v.BindEnv("otp.length", "otp_length")
	v.BindEnv("otp.expiry", "otp_expiry")

	v.BindEnv("resend.cooldown", "resend_cooldown")
	v.BindEnv("resend.daily_limit", "resend_daily_limit")

	v.BindEnv("storage.driver", "storage_driver")
	v.BindEnv("storage.dsn", "storage_dsn")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.domain", "localhost")
	v.SetDefault("host.cors", "http://localhost:5173")

	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.sender_name", "Find Your Roommate")

	v.SetDefault("otp.length", 4)
	v.SetDefault("otp.expiry", "1h")

	v.SetDefault("resend.cooldown", "60s")
	v.SetDefault("resend.daily_limit", 5)

	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.dsn", "database.db")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file, %w", err)
		}
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetString("jwt.secret") == "" {
		fmt.Println("WARNING: You haven't set a JWT secret, so it has been generated for you. Please set it as an environment variable or in the config.toml file.\nYour random JWT secret:\n\n" + genSecret() + "\n\nPaste it into your config.toml file.")
		os.Exit(0)
	}

	// Without working mail credentials nobody can ever verify an
	// account, so refuse to start instead of failing per request
	if v.GetString("smtp.host") == "" {
		return errors.New("smtp host can't be empty")
	}

	if v.GetInt("smtp.port") <= 0 {
		return errors.New("invalid smtp port provided")
	}

	if v.GetString("smtp.sender_address") == "" {
		return errors.New("smtp sender address can't be empty")
	}

	if v.GetString("smtp.password") == "" {
		return errors.New("smtp password can't be empty")
	}

	if v.GetInt("otp.length") <= 0 {
		return errors.New("otp length must be bigger than 0")
	}

	if v.GetDuration("otp.expiry") <= 0 {
		return errors.New("otp expiry must be bigger than 0")
	}

	if v.GetDuration("resend.cooldown") <= 0 {
		return errors.New("resend cooldown must be bigger than 0")
	}

	if v.GetInt("resend.daily_limit") <= 0 {
		return errors.New("resend daily limit must be bigger than 0")
	}

	if !slices.Contains(validStorageDrivers, v.GetString("storage.driver")) {
		return errors.New("invalid storage driver provided")
	}

	if v.GetString("storage.dsn") == "" {
		return errors.New("storage dsn can't be empty")
	}

	return nil
}
