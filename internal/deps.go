package internal

import (
	"bitwise74/roommate-api/internal/service"
	"bitwise74/roommate-api/pkg/security"

	"gorm.io/gorm"
)

type Deps struct {
	DB     *gorm.DB
	Argon  *security.ArgonHash
	Mailer service.Mailer
}
