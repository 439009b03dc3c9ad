package models

import "time"

// BaseModel provides shared columns for all tables. Autoincrement IDs preserve
// insertion order, which catalog sorting and OTP selection rely on.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
