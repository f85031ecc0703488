package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"address_book/internal/mailer"
	"address_book/internal/messaging"
	"address_book/internal/model"
	"address_book/internal/repository"
	"address_book/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Reset tokens are single-use and short-lived
const resetTokenTTL = 15 * time.Minute

// AuthService provides registration, login and password-reset services
type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	ForgetPassword(ctx context.Context, email string) (bool, error)
	ResetPassword(ctx context.Context, token, newPassword string) (bool, error)
}

type authService struct {
	userRepo  repository.UserRepository
	jwtUtil   *utils.JWTUtil
	mailer    mailer.Mailer
	publisher messaging.Publisher
	logger    *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil, m mailer.Mailer, publisher messaging.Publisher, logger *zap.Logger) AuthService {
	return &authService{
		userRepo:  userRepo,
		jwtUtil:   jwtUtil,
		mailer:    m,
		publisher: publisher,
		logger:    logger,
	}
}

// Register creates a new user account. The registration event is published
// fire-and-forget; a broker failure never rolls back the new user.
func (s *authService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	existingUser, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = model.RoleUser
	}

	user := &model.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Role:         role,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user in repository: %w", err)
	}

	event := model.UserEvent{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		EventType: model.EventUserRegistered,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish user registered event",
			zap.String("email", user.Email), zap.Error(err))
	}

	return user, nil
}

// Login authenticates a user and returns a signed token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// ForgetPassword stores a fresh single-use reset token on the user record
// and mails it to them. Returns false when no user has the given email.
// A mail delivery failure is logged but does not roll back the stored token.
func (s *authService) ForgetPassword(ctx context.Context, email string) (bool, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		return false, nil
	}

	token := generateResetToken()
	expiry := time.Now().Add(resetTokenTTL)
	user.ResetToken = &token
	user.ResetTokenExpiry = &expiry

	if err := s.userRepo.Save(ctx, user); err != nil {
		return false, fmt.Errorf("failed to store reset token: %w", err)
	}

	body := fmt.Sprintf("Reset Token:\n%s", token)
	if err := s.mailer.Send(user.Email, "Reset Password", body); err != nil {
		s.logger.Warn("failed to send reset mail",
			zap.String("email", user.Email), zap.Error(err))
	}

	return true, nil
}

// ResetPassword consumes a reset token: the matching user gets the new
// password and the token is cleared so it can never be used again.
// Returns false for an unknown or expired token.
func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) (bool, error) {
	user, err := s.userRepo.FindByResetToken(ctx, token)
	if err != nil {
		return false, fmt.Errorf("error finding user by reset token: %w", err)
	}
	if user == nil {
		return false, nil
	}

	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return false, fmt.Errorf("failed to hash new password: %w", err)
	}

	user.PasswordHash = hashedPassword
	user.ResetToken = nil
	user.ResetTokenExpiry = nil

	if err := s.userRepo.Save(ctx, user); err != nil {
		return false, fmt.Errorf("failed to save new password: %w", err)
	}

	return true, nil
}

// generateResetToken returns 16 random bytes as an opaque base64 string
func generateResetToken() string {
	id := uuid.New()
	return base64.StdEncoding.EncodeToString(id[:])
}
