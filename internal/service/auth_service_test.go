package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"address_book/internal/model"
	"address_book/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthFixture() (AuthService, *fakeUserRepo, *fakeMailer, *fakePublisher) {
	repo := newFakeUserRepo()
	m := &fakeMailer{}
	pub := &fakePublisher{}
	svc := NewAuthService(repo, utils.NewJWTUtil("test-secret", 2), m, pub, zap.NewNop())
	return svc, repo, m, pub
}

func registerAlice(t *testing.T, svc AuthService) *model.User {
	t.Helper()
	user, err := svc.Register(context.Background(), model.RegisterRequest{
		FirstName: "Alice",
		LastName:  "Smith",
		Email:     "alice@example.com",
		Password:  "Secr3t!",
	})
	require.NoError(t, err)
	return user
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc, _, _, pub := newAuthFixture()

	user := registerAlice(t, svc)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.NotEqual(t, "Secr3t!", user.PasswordHash)

	require.Len(t, pub.events, 1)
	assert.Equal(t, model.EventUserRegistered, pub.events[0].EventType)
	assert.Equal(t, "alice@example.com", pub.events[0].Email)

	loggedIn, token, err := svc.Login(context.Background(), "alice@example.com", "Secr3t!")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, token)

	claims, err := utils.NewJWTUtil("test-secret", 2).ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, model.RoleUser, claims.Role)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, _, _, _ := newAuthFixture()
	registerAlice(t, svc)

	_, token, err := svc.Login(context.Background(), "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, token)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, _, _, _ := newAuthFixture()

	// Unknown email and wrong password yield the same error
	_, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, _, _, _ := newAuthFixture()
	registerAlice(t, svc)

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		FirstName: "Alice2",
		LastName:  "Smith",
		Email:     "alice@example.com",
		Password:  "Other1!",
	})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestAuthService_Register_AdminRole(t *testing.T) {
	svc, _, _, _ := newAuthFixture()

	user, err := svc.Register(context.Background(), model.RegisterRequest{
		FirstName: "Root",
		LastName:  "Admin",
		Email:     "admin@example.com",
		Password:  "Secr3t!",
		Role:      model.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, user.Role)
}

func TestAuthService_Register_PublishFailureDoesNotRollBack(t *testing.T) {
	svc, repo, _, pub := newAuthFixture()
	pub.fail = errors.New("broker down")

	user := registerAlice(t, svc)

	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored)
}

func TestAuthService_ForgetPassword_UnknownEmail(t *testing.T) {
	svc, _, m, _ := newAuthFixture()

	ok, err := svc.ForgetPassword(context.Background(), "nonexistent@x.com")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, m.sent)
}

func TestAuthService_ForgetPassword(t *testing.T) {
	svc, repo, m, _ := newAuthFixture()
	user := registerAlice(t, svc)

	ok, err := svc.ForgetPassword(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	require.Len(t, m.sent, 1)
	assert.Equal(t, "alice@example.com", m.sent[0].to)
	assert.Equal(t, "Reset Password", m.sent[0].subject)

	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ResetToken)
	require.NotNil(t, stored.ResetTokenExpiry)
	assert.Contains(t, m.sent[0].body, *stored.ResetToken)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), *stored.ResetTokenExpiry, 5*time.Second)
}

func TestAuthService_ForgetPassword_MailFailureDoesNotRollBack(t *testing.T) {
	svc, repo, m, _ := newAuthFixture()
	user := registerAlice(t, svc)
	m.fail = errors.New("smtp unreachable")

	ok, err := svc.ForgetPassword(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, m.sent)

	// The token stays persisted even though the mail never went out
	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ResetToken)
	require.NotNil(t, stored.ResetTokenExpiry)

	reset, err := svc.ResetPassword(context.Background(), *stored.ResetToken, "NewPass1")
	require.NoError(t, err)
	assert.True(t, reset)
}

func TestAuthService_ResetPassword(t *testing.T) {
	svc, repo, _, _ := newAuthFixture()
	user := registerAlice(t, svc)

	ok, err := svc.ForgetPassword(context.Background(), "alice@example.com")
	require.NoError(t, err)
	require.True(t, ok)

	stored, _ := repo.FindByID(context.Background(), user.ID)
	token := *stored.ResetToken

	ok, err = svc.ResetPassword(context.Background(), token, "NewPass1")
	require.NoError(t, err)
	assert.True(t, ok)

	// New password works, the old one no longer does
	_, _, err = svc.Login(context.Background(), "alice@example.com", "NewPass1")
	assert.NoError(t, err)
	_, _, err = svc.Login(context.Background(), "alice@example.com", "Secr3t!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// The token is single-use
	ok, err = svc.ResetPassword(context.Background(), token, "AnotherPass1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthService_ResetPassword_ExpiredToken(t *testing.T) {
	svc, repo, _, _ := newAuthFixture()
	user := registerAlice(t, svc)

	token := "expired-token"
	expiry := time.Now().Add(-1 * time.Minute)
	user.ResetToken = &token
	user.ResetTokenExpiry = &expiry
	require.NoError(t, repo.Save(context.Background(), user))

	ok, err := svc.ResetPassword(context.Background(), token, "NewPass1")
	require.NoError(t, err)
	assert.False(t, ok)

	// Old password still works
	_, _, err = svc.Login(context.Background(), "alice@example.com", "Secr3t!")
	assert.NoError(t, err)
}

func TestAuthService_ResetPassword_UnknownToken(t *testing.T) {
	svc, _, _, _ := newAuthFixture()
	registerAlice(t, svc)

	ok, err := svc.ResetPassword(context.Background(), "no-such-token", "NewPass1")
	require.NoError(t, err)
	assert.False(t, ok)
}
