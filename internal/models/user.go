package models

import "time"

type User struct {
	BaseModel
	FullName        string   `gorm:"not null" json:"fullName"`
	Email           string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash    string   `gorm:"not null" json:"-"`
	PhoneNumber     string   `gorm:"not null" json:"phoneNumber"`
	Role            UserRole `gorm:"type:varchar(20);default:'customer'" json:"role"`
	IsEmailVerified bool     `gorm:"default:true" json:"isEmailVerified"`

	ForgotPasswordToken       string     `json:"-"`
	ForgotPasswordTokenExpiry *time.Time `json:"-"`
}

// TempUser stages a registration until the email OTP is confirmed. Rows older
// than the verification window are swept by the cleanup worker; lookups also
// filter on expiry so a stale row can never be promoted.
type TempUser struct {
	BaseModel
	FullName     string `gorm:"not null"`
	Email        string `gorm:"index;not null"`
	PasswordHash string `gorm:"not null"`
	PhoneNumber  string `gorm:"not null"`

	EmailVerificationToken       string `gorm:"index"`
	EmailVerificationTokenExpiry time.Time
}
