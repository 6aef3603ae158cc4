package auth

import "yoolivery/internal/domain/model"

// 返すときのユーザー（passwordは含めない）
type ProfileOutput struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	DOB          string `json:"dob"`
	AadhaarLast4 string `json:"aadhaar_last4"`
}

// 登録・ログインの結果
type AuthOutput struct {
	User      ProfileOutput `json:"user"`
	Token     string        `json:"token"`
	ExpiresIn int           `json:"expires_in"`
}

func toProfileOutput(u *model.User) ProfileOutput {
	return ProfileOutput{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		Address:      u.Address,
		DOB:          u.DOB,
		AadhaarLast4: u.AadhaarLast4,
	}
}
