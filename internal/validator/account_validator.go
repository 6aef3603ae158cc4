package validator

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"yoolivery/internal/domain/model"
	"yoolivery/internal/repository"
	"yoolivery/internal/usecase"
	auth "yoolivery/internal/usecase/auth_usecase"
)

// 登録時のメッセージ（画面にそのまま出す）
const (
	MsgNameTooShort     = "Name must be at least 2 characters"
	MsgInvalidEmail     = "Enter a valid email address"
	MsgPasswordTooShort = "Password must be at least 6 characters"
	MsgDOBRequired      = "Date of birth is required"
	MsgDOBFormat        = "Date of birth must be in YYYY-MM-DD format"
	MsgUnderage         = "You must be at least 21 years old"
	MsgAadhaar          = "Enter last 4 digits of Aadhaar"
	MsgEmailTaken       = "Email already registered"

	MsgNameTooLong     = "Name must be at most 100 characters"
	MsgPasswordTooLong = "Password must be at most 72 characters"
	MsgPhoneTooLong    = "Phone must be at most 20 characters"
	MsgAddressTooLong  = "Address must be at most 500 characters"
	MsgLoginRequired   = "Email and password are required"
)

// 入力の上限。RESTでもローカルでも同じ値で見る
const (
	maxNameLen     = 100
	maxPasswordLen = 72 // bcryptが扱えるバイト数
	maxPhoneLen    = 20
	maxAddressLen  = 500
)

type accountValidator struct {
	users repository.UserRepository
	clock usecase.Clock
	v     *validator.Validate
}

// Usecaseは interface を依存注入
func NewAccountValidator(users repository.UserRepository, clock usecase.Clock) auth.AccountValidator {
	return &accountValidator{users: users, clock: clock, v: validator.New()}
}

// 会員登録の入力を検証。最初に見つかった1件を400で返す
func (a *accountValidator) ValidateRegister(ctx context.Context, in auth.RegisterUserInput) error {
	if utf8.RuneCountInString(in.Name) < 2 {
		return badRequest(MsgNameTooShort)
	}
	if utf8.RuneCountInString(in.Name) > maxNameLen {
		return badRequest(MsgNameTooLong)
	}
	if !a.validEmail(in.Email) {
		return badRequest(MsgInvalidEmail)
	}
	if len(in.Password) < 6 {
		return badRequest(MsgPasswordTooShort)
	}
	if len(in.Password) > maxPasswordLen {
		return badRequest(MsgPasswordTooLong)
	}
	if err := validateContact(&in.Phone, &in.Address); err != nil {
		return err
	}
	if err := a.validateDOB(in.DOB); err != nil {
		return err
	}
	// numericは符号や小数点も通すので数字だけのnumberを使う
	if a.v.Var(in.AadhaarLast4, "len=4,number") != nil {
		return badRequest(MsgAadhaar)
	}

	// email重複チェック（DBが必要）
	_, err := a.users.FindByEmail(ctx, in.Email)
	if err == nil {
		return usecase.NewHTTPError(http.StatusConflict, MsgEmailTaken)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return usecase.NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// ログイン入力の形式だけ見る。存在しない・パスワード違いはusecase側で401
func (a *accountValidator) ValidateLogin(in auth.LoginInput) error {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return badRequest(MsgLoginRequired)
	}
	if !a.validEmail(in.Email) {
		return badRequest(MsgInvalidEmail)
	}
	return nil
}

// プロフィール更新は長さの上限だけ（登録時のルールは再適用しない）
func (a *accountValidator) ValidateProfileUpdate(in auth.UpdateProfileInput) error {
	if in.Name != nil && utf8.RuneCountInString(*in.Name) > maxNameLen {
		return badRequest(MsgNameTooLong)
	}
	return validateContact(in.Phone, in.Address)
}

func (a *accountValidator) validEmail(email string) bool {
	return a.v.Var(strings.TrimSpace(email), "required,email,max=255") == nil
}

func validateContact(phone *string, address *string) error {
	if phone != nil && utf8.RuneCountInString(*phone) > maxPhoneLen {
		return badRequest(MsgPhoneTooLong)
	}
	if address != nil && utf8.RuneCountInString(*address) > maxAddressLen {
		return badRequest(MsgAddressTooLong)
	}
	return nil
}

// 21歳の誕生日当日からOK
func (a *accountValidator) validateDOB(dob string) error {
	if dob == "" {
		return badRequest(MsgDOBRequired)
	}
	t, err := time.Parse(model.DOBLayout, dob)
	if err != nil {
		return badRequest(MsgDOBFormat)
	}
	if model.AgeOn(t, a.clock.Now()) < model.MinimumAge {
		return badRequest(MsgUnderage)
	}
	return nil
}

func badRequest(msg string) error {
	return usecase.NewHTTPError(http.StatusBadRequest, msg)
}
