package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/CeliaIneza/celebstash-back/internal/auth"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, name, email, passwordHash, role string) (*User, error) {
	args := m.Called(ctx, name, email, passwordHash, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id int) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

type MockOTPStore struct {
	mock.Mock
}

func (m *MockOTPStore) Issue(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *MockOTPStore) Verify(ctx context.Context, email, code string) error {
	return m.Called(ctx, email, code).Error(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendOTPCode(ctx context.Context, email, name, code string) error {
	return m.Called(ctx, email, name, code).Error(0)
}

func TestService_Register(t *testing.T) {
	tests := []struct {
		name          string
		req           RegisterRequest
		setupMocks    func(*MockRepository, *MockOTPStore, *MockMailer)
		expectedError error
	}{
		{
			name: "successful registration issues OTP",
			req:  RegisterRequest{Name: "Test User", Email: "test@example.com", Password: "password123"},
			setupMocks: func(repo *MockRepository, otp *MockOTPStore, mailer *MockMailer) {
				repo.On("EmailExists", mock.Anything, "test@example.com").Return(false, nil)
				repo.On("Create", mock.Anything, "Test User", "test@example.com", mock.Anything, RoleMember).
					Return(&User{ID: 1, Name: "Test User", Email: "test@example.com", Status: StatusPending}, nil)
				otp.On("Issue", mock.Anything, "test@example.com").Return("123456", nil)
				mailer.On("SendOTPCode", mock.Anything, "test@example.com", "Test User", "123456").Return(nil)
			},
		},
		{
			name: "duplicate email",
			req:  RegisterRequest{Name: "Test User", Email: "dup@example.com", Password: "password123"},
			setupMocks: func(repo *MockRepository, otp *MockOTPStore, mailer *MockMailer) {
				repo.On("EmailExists", mock.Anything, "dup@example.com").Return(true, nil)
			},
			expectedError: ErrEmailExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			otp := new(MockOTPStore)
			mailer := new(MockMailer)
			tt.setupMocks(repo, otp, mailer)

			svc := NewService(repo, otp, mailer, "test-secret")
			u, err := svc.Register(context.Background(), tt.req)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, u)
			} else {
				require.NoError(t, err)
				assert.Equal(t, StatusPending, u.Status)
			}
			repo.AssertExpectations(t)
			otp.AssertExpectations(t)
			mailer.AssertExpectations(t)
		})
	}
}

func TestService_VerifyOTP(t *testing.T) {
	repo := new(MockRepository)
	otp := new(MockOTPStore)
	mailer := new(MockMailer)

	pending := &User{ID: 3, Name: "Pending", Email: "p@example.com", Role: RoleMember, Status: StatusPending}
	repo.On("FindByEmail", mock.Anything, "p@example.com").Return(pending, nil)
	otp.On("Verify", mock.Anything, "p@example.com", "123456").Return(nil)
	repo.On("UpdateStatus", mock.Anything, 3, StatusActive).Return(nil)

	svc := NewService(repo, otp, mailer, "test-secret")
	u, access, refresh, err := svc.VerifyOTP(context.Background(), VerifyOTPRequest{Email: "p@example.com", Code: "123456"})

	require.NoError(t, err)
	assert.Equal(t, StatusActive, u.Status)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	repo.AssertExpectations(t)
}

func TestService_VerifyOTP_WrongCode(t *testing.T) {
	repo := new(MockRepository)
	otp := new(MockOTPStore)
	mailer := new(MockMailer)

	repo.On("FindByEmail", mock.Anything, "p@example.com").
		Return(&User{ID: 3, Email: "p@example.com", Status: StatusPending}, nil)
	otp.On("Verify", mock.Anything, "p@example.com", "000000").Return(auth.ErrOTPInvalid)

	svc := NewService(repo, otp, mailer, "test-secret")
	_, _, _, err := svc.VerifyOTP(context.Background(), VerifyOTPRequest{Email: "p@example.com", Code: "000000"})

	assert.ErrorIs(t, err, auth.ErrOTPInvalid)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Login(t *testing.T) {
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	tests := []struct {
		name          string
		req           LoginRequest
		storedUser    *User
		findErr       error
		expectedError error
	}{
		{
			name:       "successful login",
			req:        LoginRequest{Email: "a@example.com", Password: "password123"},
			storedUser: &User{ID: 1, Email: "a@example.com", PasswordHash: hash, Role: RoleMember, Status: StatusActive},
		},
		{
			name:          "wrong password",
			req:           LoginRequest{Email: "a@example.com", Password: "nope"},
			storedUser:    &User{ID: 1, Email: "a@example.com", PasswordHash: hash, Status: StatusActive},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:          "unknown email",
			req:           LoginRequest{Email: "missing@example.com", Password: "password123"},
			findErr:       ErrUserNotFound,
			expectedError: ErrInvalidCredentials,
		},
		{
			name:          "unverified account",
			req:           LoginRequest{Email: "a@example.com", Password: "password123"},
			storedUser:    &User{ID: 1, Email: "a@example.com", PasswordHash: hash, Status: StatusPending},
			expectedError: ErrAccountNotVerified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			if tt.findErr != nil {
				repo.On("FindByEmail", mock.Anything, tt.req.Email).Return(nil, tt.findErr)
			} else {
				repo.On("FindByEmail", mock.Anything, tt.req.Email).Return(tt.storedUser, nil)
			}

			svc := NewService(repo, new(MockOTPStore), new(MockMailer), "test-secret")
			u, access, _, err := svc.Login(context.Background(), tt.req)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.storedUser.ID, u.ID)
				assert.NotEmpty(t, access)
			}
		})
	}
}

func TestService_ResendOTP_ActiveAccountIsNoop(t *testing.T) {
	repo := new(MockRepository)
	otp := new(MockOTPStore)
	mailer := new(MockMailer)

	repo.On("FindByEmail", mock.Anything, "a@example.com").
		Return(&User{ID: 1, Email: "a@example.com", Status: StatusActive}, nil)

	svc := NewService(repo, otp, mailer, "test-secret")
	err := svc.ResendOTP(context.Background(), "a@example.com")

	require.NoError(t, err)
	otp.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything)
}

func TestService_RefreshToken(t *testing.T) {
	repo := new(MockRepository)
	stored := &User{ID: 9, Email: "r@example.com", Role: RoleMember, Status: StatusActive}
	repo.On("FindByID", mock.Anything, 9).Return(stored, nil)

	refresh, err := auth.GenerateRefreshToken(9, "r@example.com", RoleMember, StatusActive, "test-secret")
	require.NoError(t, err)

	svc := NewService(repo, new(MockOTPStore), new(MockMailer), "test-secret")
	access, u, err := svc.RefreshToken(context.Background(), refresh)

	require.NoError(t, err)
	assert.Equal(t, 9, u.ID)
	assert.NotEmpty(t, access)

	_, _, err = svc.RefreshToken(context.Background(), "garbage")
	assert.Error(t, err)
}
