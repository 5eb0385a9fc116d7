package user

import (
	"context"
	"errors"

	"github.com/CeliaIneza/celebstash-back/internal/auth"
	"github.com/CeliaIneza/celebstash-back/internal/logger"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotVerified = errors.New("account is not verified")
)

// OTPStore is the slice of auth.OTPStore the user service needs.
type OTPStore interface {
	Issue(ctx context.Context, email string) (string, error)
	Verify(ctx context.Context, email, code string) error
}

// OTPMailer delivers issued codes; satisfied by email.Service.
type OTPMailer interface {
	SendOTPCode(ctx context.Context, email, name, code string) error
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*User, string, string, error)
	ResendOTP(ctx context.Context, email string) error
	Login(ctx context.Context, req LoginRequest) (*User, string, string, error)
	GetByID(ctx context.Context, userID int) (*User, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, *User, error)
}

type service struct {
	repo      Repository
	otp       OTPStore
	mailer    OTPMailer
	jwtSecret string
}

func NewService(repo Repository, otp OTPStore, mailer OTPMailer, jwtSecret string) Service {
	return &service{
		repo:      repo,
		otp:       otp,
		mailer:    mailer,
		jwtSecret: jwtSecret,
	}
}

// Register creates a pending account and sends a verification code.
// Tokens are only issued once the code is verified.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Create(ctx, req.Name, req.Email, passwordHash, RoleMember)
	if err != nil {
		return nil, err
	}

	if err := s.sendOTP(ctx, user); err != nil {
		// Account exists; the user can request a new code.
		logger.Errorf("Failed to send OTP to %s: %v", user.Email, err)
	}

	return user, nil
}

func (s *service) sendOTP(ctx context.Context, user *User) error {
	code, err := s.otp.Issue(ctx, user.Email)
	if err != nil {
		return err
	}
	return s.mailer.SendOTPCode(ctx, user.Email, user.Name, code)
}

func (s *service) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*User, string, string, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	if err := s.otp.Verify(ctx, req.Email, req.Code); err != nil {
		return nil, "", "", err
	}

	if user.Status != StatusActive {
		if err := s.repo.UpdateStatus(ctx, user.ID, StatusActive); err != nil {
			return nil, "", "", err
		}
		user.Status = StatusActive
	}

	accessToken, refreshToken, err := auth.GenerateTokens(
		user.ID,
		user.Email,
		user.Role,
		user.Status,
		s.jwtSecret,
		s.jwtSecret,
	)
	if err != nil {
		return nil, "", "", err
	}

	return user, accessToken, refreshToken, nil
}

func (s *service) ResendOTP(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return ErrInvalidCredentials
	}

	if user.Status == StatusActive {
		return nil
	}

	return s.sendOTP(ctx, user)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*User, string, string, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, "", "", ErrInvalidCredentials
	}

	if user.Status != StatusActive {
		return nil, "", "", ErrAccountNotVerified
	}

	accessToken, refreshToken, err := auth.GenerateTokens(
		user.ID,
		user.Email,
		user.Role,
		user.Status,
		s.jwtSecret,
		s.jwtSecret,
	)
	if err != nil {
		return nil, "", "", err
	}

	return user, accessToken, refreshToken, nil
}

func (s *service) GetByID(ctx context.Context, userID int) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, *User, error) {
	_, claims, err := auth.RefreshAccessToken(refreshToken, s.jwtSecret, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", nil, ErrUserNotFound
	}

	newAccessToken, err := auth.GenerateAccessToken(user.ID, user.Email, user.Role, user.Status, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	return newAccessToken, user, nil
}
