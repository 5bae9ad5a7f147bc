package security

import (
	"bitwise74/roommate-api/internal/model"
	"crypto/rand"
	"errors"
	"math/big"
	"time"
)

const otpCharset = "0123456789"

// GenerateOTP returns a uniformly random numeric code of the given
// length. Leading zeros are allowed
func GenerateOTP(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("otp length must be bigger than 0")
	}

	b := make([]byte, length)
	max := big.NewInt(int64(len(otpCharset)))

	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}

		b[i] = otpCharset[n.Int64()]
	}

	return string(b), nil
}

type OTPRecordOpts struct {
	UserID  string
	OTPHash string
	TTL     time.Duration
}

func MakeOTPRecord(o *OTPRecordOpts) (*model.OTPRecord, error) {
	if o == nil {
		return nil, errors.New("no record options provided")
	}

	if o.UserID == "" {
		return nil, errors.New("no user ID provided")
	}

	if o.OTPHash == "" {
		return nil, errors.New("no code hash provided")
	}

	if o.TTL <= 0 {
		return nil, errors.New("no expiry provided")
	}

	now := time.Now()

	return &model.OTPRecord{
		UserID:    o.UserID,
		OTPHash:   o.OTPHash,
		CreatedAt: now,
		ExpiresAt: now.Add(o.TTL),
	}, nil
}
