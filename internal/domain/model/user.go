package model

import (
	"strings"
	"time"
)

// 登録できる最低年齢
const MinimumAge = 21

// 生年月日の形式
const DOBLayout = "2006-01-02"

type User struct {
	ID              string `gorm:"primaryKey;type:varchar(64)"`
	Name            string `gorm:"type:varchar(255);not null"`
	Email           string `gorm:"type:varchar(255);not null"`
	EmailNormalized string `gorm:"column:email_normalized;type:varchar(255);uniqueIndex;not null"` // 重複チェック用（小文字）
	PasswordHash    string `gorm:"column:password_hash;not null"`
	Phone           string `gorm:"type:varchar(30)"`
	Address         string `gorm:"type:text"`
	DOB             string `gorm:"column:dob;type:varchar(10);not null"`
	AadhaarLast4    string `gorm:"column:aadhaar_last4;type:varchar(4);not null"`
	TokenVersion    int    `gorm:"not null;default:0"`
	LastLoginAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// 誕生日を考慮した満年齢。
// 年の差から、今年の誕生日がまだなら1を引く。
func AgeOn(dob time.Time, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}
