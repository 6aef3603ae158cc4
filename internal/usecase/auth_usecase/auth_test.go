package auth_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"yoolivery/internal/infra/kvrepo"
	"yoolivery/internal/infra/kvstore"
	"yoolivery/internal/repository"
	"yoolivery/internal/usecase"
	auth "yoolivery/internal/usecase/auth_usecase"
	"yoolivery/internal/validator"
)

const testSecret = "test-secret"

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type staticID string

func (s staticID) NewID() string { return string(s) }

type authFixture struct {
	users    repository.UserRepository
	register *auth.RegisterUserUsecase
	login    *auth.LoginUsecase
	logout   *auth.LogoutUsecase
	profile  *auth.ProfileUsecase
	now      time.Time
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	s, err := kvstore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	clock := fixedClock{now: now}
	users := kvrepo.NewUserKVRepository(s)
	issuer := auth.NewJWTIssuer(testSecret, time.Hour)
	accounts := validator.NewAccountValidator(users, clock)

	return &authFixture{
		users: users,
		register: auth.NewRegisterUserUsecase(
			users,
			accounts,
			auth.NewBcryptPasswordHasher(bcrypt.MinCost),
			issuer,
			staticID("user-1"),
			clock,
		),
		login:   auth.NewLoginUsecase(users, accounts, auth.NewBcryptPasswordVerifier(), issuer, clock),
		logout:  auth.NewLogoutUsecase(users),
		profile: auth.NewProfileUsecase(users, accounts, clock),
		now:     now,
	}
}

func registerInput(dob string) auth.RegisterUserInput {
	return auth.RegisterUserInput{
		Name:         "Tomba Singh",
		Email:        "Tomba@Example.com",
		Password:     "secret1",
		Phone:        "9876543210",
		Address:      "Imphal West",
		DOB:          dob,
		AadhaarLast4: "4321",
	}
}

func parseClaims(t *testing.T, token string) jwt.MapClaims {
	t.Helper()
	//固定時計で発行しているので期限は見ない
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	parsed, err := parser.Parse(token, func(*jwt.Token) (interface{}, error) { return []byte(testSecret), nil })
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	return claims
}

func TestRegister_ExactlyTwentyOneTodaySucceeds(t *testing.T) {
	f := newAuthFixture(t)

	out, err := f.register.Execute(context.Background(), registerInput("2005-10-16"))
	require.NoError(t, err)

	assert.Equal(t, "user-1", out.User.ID)
	assert.Equal(t, "Tomba@Example.com", out.User.Email)
	assert.Equal(t, "4321", out.User.AadhaarLast4)
	assert.Equal(t, 3600, out.ExpiresIn)

	claims := parseClaims(t, out.Token)
	assert.Equal(t, "user-1", claims["sub"])
	assert.Equal(t, float64(0), claims["tv"])

	//パスワードは平文で保存しない
	stored, err := f.users.FindByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
}

func TestRegister_OneDayShortOfTwentyOneFails(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.register.Execute(context.Background(), registerInput("2005-10-17"))
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, "You must be at least 21 years old", he.Message)

	_, err = f.users.FindByID(context.Background(), "user-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRegister_DuplicateEmailIgnoresCase(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.register.Execute(ctx, registerInput("2000-01-01"))
	require.NoError(t, err)

	in := registerInput("2000-01-01")
	in.Email = "tomba@example.COM"
	_, err = f.register.Execute(ctx, in)
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Status)
	assert.Equal(t, "Email already registered", he.Message)
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	_, err := f.register.Execute(ctx, registerInput("2000-01-01"))
	require.NoError(t, err)

	out, err := f.login.Execute(ctx, auth.LoginInput{Email: "TOMBA@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "user-1", out.User.ID)
	assert.NotEmpty(t, out.Token)

	_, err = f.login.Execute(ctx, auth.LoginInput{Email: "tomba@example.com", Password: "wrong1"})
	assert.Equal(t, auth.ErrInvalidCredentials, err)

	_, err = f.login.Execute(ctx, auth.LoginInput{Email: "nobody@example.com", Password: "secret1"})
	assert.Equal(t, auth.ErrInvalidCredentials, err)
}

func TestLogout_BumpsTokenVersion(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	_, err := f.register.Execute(ctx, registerInput("2000-01-01"))
	require.NoError(t, err)

	require.NoError(t, f.logout.Execute(ctx, "user-1"))

	out, err := f.login.Execute(ctx, auth.LoginInput{Email: "tomba@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, float64(1), parseClaims(t, out.Token)["tv"])
}

func TestProfileUpdate_MergesOnlyEditableFields(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	_, err := f.register.Execute(ctx, registerInput("2000-01-01"))
	require.NoError(t, err)

	phone := "9000000000"
	out, err := f.profile.Update(ctx, "user-1", auth.UpdateProfileInput{Phone: &phone})
	require.NoError(t, err)

	assert.Equal(t, "9000000000", out.Phone)
	//渡していない項目はそのまま
	assert.Equal(t, "Tomba Singh", out.Name)
	assert.Equal(t, "Imphal West", out.Address)
	assert.Equal(t, "2000-01-01", out.DOB)
	assert.Equal(t, "4321", out.AadhaarLast4)

	got, err := f.profile.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, out, got)

	_, err = f.profile.Get(ctx, "ghost")
	assert.Equal(t, usecase.KindAuth, usecase.KindOf(err))
}
