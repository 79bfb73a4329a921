package model

import "time"

// User is created on first successful OTP verification. The raw email is never
// stored; EmailHash is the sha256 fingerprint of the normalized address.
type User struct {
	ID          uint64 `gorm:"primaryKey"`
	EmailHash   string `gorm:"uniqueIndex;size:64;not null"`
	Handle      string `gorm:"uniqueIndex;size:32;not null"` // pseudonymous, e.g. user_k3f9a2xq
	Year        int    `gorm:"not null"`
	Branch      string `gorm:"size:16;not null"` // canonical short code: COMP, IT, ...
	IsStaff     bool   `gorm:"not null;default:false"`
	IsSuperuser bool   `gorm:"not null;default:false"`
	IsBanned    bool   `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsAdmin reports whether the user carries staff capability. Admin visibility
// bypasses community scoping and gates the moderation endpoints.
func (u *User) IsAdmin() bool {
	return u.IsStaff || u.IsSuperuser
}
