package models

import "time"

// User represents a phone-identified account. Accounts are created unverified
// on the first OTP request and become verified once a code is confirmed.
type User struct {
	BaseModel
	Phone      string `gorm:"uniqueIndex" json:"phone"`
	Name       string `json:"name"`
	Whatsapp   string `json:"whatsapp"`
	IsVerified bool   `json:"is_verified"`
	IsBlocked  bool   `json:"is_blocked"`
	IsAdmin    bool   `json:"-"`
}

// OTPCode keeps track of login codes sent to users. Rows accumulate; only the
// most recently issued code for a phone is ever honored.
type OTPCode struct {
	BaseModel
	Phone     string    `gorm:"index" json:"phone"`
	Code      string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}
