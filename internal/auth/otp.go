package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/CeliaIneza/celebstash-back/internal/metrics"
)

const (
	otpTTL           = 10 * time.Minute
	otpRequestLimit  = 5
	otpRequestWindow = time.Hour
)

var (
	ErrOTPRateLimited = errors.New("too many OTP requests, try again later")
	ErrOTPInvalid     = errors.New("invalid or expired OTP code")
)

// OTPStore keeps one-time signup codes and per-email issuance counters in redis.
type OTPStore struct {
	redis *redis.Client
}

func NewOTPStore(redisAddr string) *OTPStore {
	return &OTPStore{
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
	}
}

// NewOTPStoreWithClient is used by tests to inject a mock client.
func NewOTPStoreWithClient(client *redis.Client) *OTPStore {
	return &OTPStore{redis: client}
}

func otpKey(email string) string {
	return "otp:" + email
}

func otpRequestsKey(email string) string {
	return "otp_requests:" + email
}

// Issue generates a fresh 6-digit code for the email and stores it with a TTL.
// Issuance is rate limited per email; a new code replaces any previous one.
func (s *OTPStore) Issue(ctx context.Context, email string) (string, error) {
	count, err := s.redis.Incr(ctx, otpRequestsKey(email)).Result()
	if err != nil {
		return "", fmt.Errorf("failed to count OTP requests: %w", err)
	}
	if count == 1 {
		if err := s.redis.Expire(ctx, otpRequestsKey(email), otpRequestWindow).Err(); err != nil {
			return "", fmt.Errorf("failed to set OTP rate limit window: %w", err)
		}
	}
	if count > otpRequestLimit {
		return "", ErrOTPRateLimited
	}

	code, err := generateCode()
	if err != nil {
		return "", err
	}

	if err := s.redis.Set(ctx, otpKey(email), code, otpTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store OTP code: %w", err)
	}

	metrics.RecordOTPIssued()
	return code, nil
}

// Verify checks the code and consumes it on success.
func (s *OTPStore) Verify(ctx context.Context, email, code string) error {
	stored, err := s.redis.Get(ctx, otpKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		metrics.RecordOTPVerified("failed")
		return ErrOTPInvalid
	}
	if err != nil {
		return fmt.Errorf("failed to load OTP code: %w", err)
	}

	if stored != code {
		metrics.RecordOTPVerified("failed")
		return ErrOTPInvalid
	}

	if err := s.redis.Del(ctx, otpKey(email)).Err(); err != nil {
		return fmt.Errorf("failed to consume OTP code: %w", err)
	}

	metrics.RecordOTPVerified("success")
	return nil
}

func (s *OTPStore) Close() error {
	return s.redis.Close()
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
